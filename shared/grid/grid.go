// Package grid provides the dense 2D tile container used by every generation
// stage. It knows nothing about physics or rendering.
package grid

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/logger"
)

// Grid is a bounds-checked, row-major tile container. Reads and writes outside
// the grid are tolerated: reads return NoTile, writes are dropped, and both log
// a warning.
type Grid struct {
	width       int
	height      int
	defaultTile Tile
	tiles       []Tile
}

// New creates a width x height grid filled with defaultTile. A non-positive
// dimension produces a 0x0 grid.
func New(width, height int, defaultTile Tile) *Grid {
	if width <= 0 || height <= 0 {
		width, height = 0, 0
	}
	g := &Grid{
		width:       width,
		height:      height,
		defaultTile: defaultTile,
		tiles:       make([]Tile, width*height),
	}
	if defaultTile != Empty {
		for i := range g.tiles {
			g.tiles[i] = defaultTile
		}
	}
	return g
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Height() int       { return g.height }
func (g *Grid) DefaultTile() Tile { return g.defaultTile }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the tile at (x, y), or NoTile with a warning when out of bounds.
func (g *Grid) Get(x, y int) Tile {
	if !g.InBounds(x, y) {
		logger.Log.Warn("grid read out of bounds",
			zap.Int("x", x), zap.Int("y", y),
			zap.Int("width", g.width), zap.Int("height", g.height))
		return NoTile
	}
	return g.tiles[y*g.width+x]
}

// Lookup is a silent read for searches that probe past the edge on purpose.
func (g *Grid) Lookup(x, y int) (Tile, bool) {
	if !g.InBounds(x, y) {
		return NoTile, false
	}
	return g.tiles[y*g.width+x], true
}

// Is reports whether (x, y) is in bounds and holds t.
func (g *Grid) Is(x, y int, t Tile) bool {
	v, ok := g.Lookup(x, y)
	return ok && v == t
}

// Set writes v at (x, y). Out-of-bounds writes are dropped with a warning.
func (g *Grid) Set(x, y int, v Tile) {
	if !g.InBounds(x, y) {
		logger.Log.Warn("grid write out of bounds",
			zap.Int("x", x), zap.Int("y", y),
			zap.Int("width", g.width), zap.Int("height", g.height))
		return
	}
	g.tiles[y*g.width+x] = v
}

// FillRect writes v into the intersection of the rectangle with the grid.
func (g *Grid) FillRect(x, y, w, h int, v Tile) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, g.width), min(y+h, g.height)
	for yy := y0; yy < y1; yy++ {
		row := g.tiles[yy*g.width : (yy+1)*g.width]
		for xx := x0; xx < x1; xx++ {
			row[xx] = v
		}
	}
}

// ClearRect empties the intersection of the rectangle with the grid.
func (g *Grid) ClearRect(x, y, w, h int) {
	g.FillRect(x, y, w, h, Empty)
}

// Stamp copies the non-empty cells of pattern with its origin at (x, y).
// Cells falling outside g are skipped.
func (g *Grid) Stamp(x, y int, pattern *Grid) {
	for py := 0; py < pattern.height; py++ {
		for px := 0; px < pattern.width; px++ {
			v := pattern.tiles[py*pattern.width+px]
			if v == Empty || !g.InBounds(x+px, y+py) {
				continue
			}
			g.tiles[(y+py)*g.width+x+px] = v
		}
	}
}

// Blit copies every cell of src, including empty ones, with its origin at (x, y).
func (g *Grid) Blit(x, y int, src *Grid) {
	for sy := 0; sy < src.height; sy++ {
		ty := y + sy
		if ty < 0 || ty >= g.height {
			continue
		}
		for sx := 0; sx < src.width; sx++ {
			tx := x + sx
			if tx < 0 || tx >= g.width {
				continue
			}
			g.tiles[ty*g.width+tx] = src.tiles[sy*src.width+sx]
		}
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:       g.width,
		height:      g.height,
		defaultTile: g.defaultTile,
		tiles:       make([]Tile, len(g.tiles)),
	}
	copy(c.tiles, g.tiles)
	return c
}

// Count returns how many cells hold v.
func (g *Grid) Count(v Tile) int {
	n := 0
	for _, t := range g.tiles {
		if t == v {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.tiles {
		if g.tiles[i] != o.tiles[i] {
			return false
		}
	}
	return true
}

// FirstFromTop returns the row of the first cell in column x holding v,
// scanning downward from startY. ok is false when no such cell exists.
func (g *Grid) FirstFromTop(x, startY int, v Tile) (y int, ok bool) {
	if x < 0 || x >= g.width {
		return -1, false
	}
	for y = max(startY, 0); y < g.height; y++ {
		if g.tiles[y*g.width+x] == v {
			return y, true
		}
	}
	return -1, false
}

// Rows returns a copy of the grid as rows of tiles.
func (g *Grid) Rows() [][]Tile {
	rows := make([][]Tile, g.height)
	for y := range rows {
		rows[y] = make([]Tile, g.width)
		copy(rows[y], g.tiles[y*g.width:(y+1)*g.width])
	}
	return rows
}

// FromRows builds a grid from rows of tiles. Rows must share one length.
func FromRows(rows [][]Tile) (*Grid, error) {
	if len(rows) == 0 {
		return New(0, 0, Empty), nil
	}
	g := New(len(rows[0]), len(rows), Empty)
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d has %d tiles, want %d", y, len(row), g.width)
		}
		copy(g.tiles[y*g.width:], row)
	}
	return g, nil
}

// Parse builds a grid from ASCII art, one string per row, using tile glyphs.
func Parse(lines ...string) (*Grid, error) {
	if len(lines) == 0 {
		return New(0, 0, Empty), nil
	}
	g := New(len(lines[0]), len(lines), Empty)
	for y, line := range lines {
		if len(line) != g.width {
			return nil, fmt.Errorf("row %d has %d glyphs, want %d", y, len(line), g.width)
		}
		for x := 0; x < len(line); x++ {
			t, err := TileFromGlyph(line[x])
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			g.tiles[y*g.width+x] = t
		}
	}
	return g, nil
}

// MustParse is Parse for patterns compiled into the binary.
func MustParse(lines ...string) *Grid {
	g, err := Parse(lines...)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the grid as ASCII art.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			b.WriteByte(g.tiles[y*g.width+x].Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
