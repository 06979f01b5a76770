package generation

import (
	"slices"

	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// Template is a coarse room type with the edges it opens onto.
type Template struct {
	Name  string
	Exits []Edge
}

// HasExit reports whether the template opens onto e.
func (t Template) HasExit(e Edge) bool {
	return slices.Contains(t.Exits, e)
}

const (
	TemplateSolid              = "solid"
	TemplateStartRoom          = "start_room"
	TemplateVerticalShaft      = "vertical_shaft"
	TemplateHorizontalCorridor = "horizontal_corridor"
	TemplateLBendBottomRight   = "l_bend_bottom_right"
	TemplateTJunctionDown      = "t_junction_down"
	TemplateCrossRoom          = "cross_room"
)

// Templates is the template library in selection order.
var Templates = []Template{
	{Name: TemplateSolid},
	{Name: TemplateStartRoom, Exits: []Edge{EdgeTop, EdgeRight}},
	{Name: TemplateVerticalShaft, Exits: []Edge{EdgeTop, EdgeBottom}},
	{Name: TemplateHorizontalCorridor, Exits: []Edge{EdgeLeft, EdgeRight}},
	{Name: TemplateLBendBottomRight, Exits: []Edge{EdgeBottom, EdgeRight}},
	{Name: TemplateTJunctionDown, Exits: []Edge{EdgeLeft, EdgeRight, EdgeBottom}},
	{Name: TemplateCrossRoom, Exits: []Edge{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft}},
}

// TemplateByName looks a template up in the library.
func TemplateByName(name string) (Template, bool) {
	for _, t := range Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateLayout is a cols x rows arrangement of templates, row-major.
type TemplateLayout struct {
	Cols, Rows int
	Cells      []Template
}

// At returns the template in column c, row r.
func (l *TemplateLayout) At(c, r int) Template {
	return l.Cells[r*l.Cols+c]
}

// FillTemplateGrid lays templates out row by row so each cell agrees with its
// top and left neighbours on shared exits. The bottom-left cell is always the
// start room; a cell with no fitting template becomes solid.
func (g *Generator) FillTemplateGrid(cols, rows int) (*TemplateLayout, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ErrInvalidRoomSize
	}
	rng := g.rng(templateSalt, cols, rows)
	layout := &TemplateLayout{Cols: cols, Rows: rows, Cells: make([]Template, cols*rows)}
	solid, _ := TemplateByName(TemplateSolid)
	start, _ := TemplateByName(TemplateStartRoom)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r == rows-1 && c == 0 {
				layout.Cells[r*cols+c] = start
				continue
			}
			candidates := slices.Clone(Templates)
			if r > 0 {
				above := layout.At(c, r-1)
				candidates = slices.DeleteFunc(candidates, func(t Template) bool {
					return above.HasExit(EdgeBottom) != t.HasExit(EdgeTop)
				})
			}
			if c > 0 {
				left := layout.At(c-1, r)
				candidates = slices.DeleteFunc(candidates, func(t Template) bool {
					return left.HasExit(EdgeRight) != t.HasExit(EdgeLeft)
				})
			}
			if len(candidates) == 0 {
				layout.Cells[r*cols+c] = solid
				continue
			}
			layout.Cells[r*cols+c] = candidates[rng.IntN(len(candidates))]
		}
	}
	return layout, nil
}

// RenderTemplates draws layout into a tile grid with cellW x cellH tiles per
// template.
func RenderTemplates(layout *TemplateLayout, cellW, cellH int) *grid.Grid {
	out := grid.New(layout.Cols*cellW, layout.Rows*cellH, grid.Empty)
	for r := 0; r < layout.Rows; r++ {
		for c := 0; c < layout.Cols; c++ {
			drawTemplate(out, layout.At(c, r).Name, c*cellW, r*cellH, cellW, cellH)
		}
	}
	return out
}

func drawTemplate(g *grid.Grid, name string, x, y, w, h int) {
	t := max(1, min(w, h)/8)
	floor := func() { g.FillRect(x, y+h-t, w, t, grid.Solid) }
	leftWall := func() { g.FillRect(x, y, t, h, grid.Solid) }

	switch name {
	case TemplateSolid:
		g.FillRect(x, y, w, h, grid.Solid)
	case TemplateStartRoom, TemplateHorizontalCorridor:
		floor()
	case TemplateVerticalShaft:
		leftWall()
		g.FillRect(x+w-t, y, t, h, grid.Solid)
	case TemplateLBendBottomRight:
		floor()
		leftWall()
	case TemplateTJunctionDown:
		g.FillRect(x, y, w, t, grid.Solid)
		g.FillRect(x+(w-t)/2, y, t, h, grid.Solid)
	case TemplateCrossRoom:
		bw, bh := max(w*2/5, t), max(h*2/5, t)
		g.FillRect(x+(w-bw)/2, y+(h-t)/2, bw, t, grid.Solid)
		g.FillRect(x+(w-t)/2, y+(h-bh)/2, t, bh, grid.Solid)
	}
}
