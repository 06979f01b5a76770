package generation

import (
	"testing"

	"github.com/automoto/doomerang-levelgen/shared/grid"
)

func TestFillTemplateGrid(t *testing.T) {
	g := newTestGenerator(t, ModeTerrain)
	for _, size := range [][2]int{{4, 3}, {6, 6}, {1, 1}, {8, 2}} {
		cols, rows := size[0], size[1]
		layout, err := g.FillTemplateGrid(cols, rows)
		if err != nil {
			t.Fatal(err)
		}
		if got := layout.At(0, rows-1).Name; got != TemplateStartRoom {
			t.Errorf("%dx%d: bottom-left = %s, want start room", cols, rows, got)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c == 0 && r == rows-1 {
					continue
				}
				cell := layout.At(c, r)
				if r > 0 && layout.At(c, r-1).HasExit(EdgeBottom) != cell.HasExit(EdgeTop) {
					t.Errorf("%dx%d: (%d,%d) %s disagrees with %s above", cols, rows, c, r, cell.Name, layout.At(c, r-1).Name)
				}
				if c > 0 && layout.At(c-1, r).HasExit(EdgeRight) != cell.HasExit(EdgeLeft) {
					t.Errorf("%dx%d: (%d,%d) %s disagrees with %s on the left", cols, rows, c, r, cell.Name, layout.At(c-1, r).Name)
				}
			}
		}
	}
}

func TestFillTemplateGridDeterministic(t *testing.T) {
	a, _ := newTestGenerator(t, ModeTerrain).FillTemplateGrid(5, 4)
	b, _ := newTestGenerator(t, ModeTerrain).FillTemplateGrid(5, 4)
	for i := range a.Cells {
		if a.Cells[i].Name != b.Cells[i].Name {
			t.Fatalf("cell %d: %s vs %s", i, a.Cells[i].Name, b.Cells[i].Name)
		}
	}
}

func TestRenderTemplates(t *testing.T) {
	solid, _ := TemplateByName(TemplateSolid)
	corridor, _ := TemplateByName(TemplateHorizontalCorridor)
	shaft, _ := TemplateByName(TemplateVerticalShaft)
	layout := &TemplateLayout{Cols: 3, Rows: 1, Cells: []Template{solid, corridor, shaft}}

	out := RenderTemplates(layout, 16, 16)
	if out.Width() != 48 || out.Height() != 16 {
		t.Fatalf("rendered %dx%d, want 48x16", out.Width(), out.Height())
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if !out.Is(x, y, grid.Solid) {
				t.Fatalf("solid template has a hole at (%d,%d)", x, y)
			}
		}
	}
	// Wall thickness is 16/8 = 2 tiles.
	for x := 16; x < 32; x++ {
		if !out.Is(x, 15, grid.Solid) || !out.Is(x, 14, grid.Solid) || !out.Is(x, 13, grid.Empty) {
			t.Fatalf("corridor floor wrong at column %d", x)
		}
	}
	for y := 0; y < 16; y++ {
		if !out.Is(32, y, grid.Solid) || !out.Is(47, y, grid.Solid) || !out.Is(40, y, grid.Empty) {
			t.Fatalf("shaft walls wrong at row %d", y)
		}
	}
}
