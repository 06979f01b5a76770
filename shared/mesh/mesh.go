// Package mesh merges a tile grid into axis-aligned rectangles so the physics
// layer creates one body per run of identical tiles instead of one per tile.
package mesh

import "github.com/automoto/doomerang-levelgen/shared/grid"

// Rect is a run of identical tiles in grid coordinates.
type Rect struct {
	X, Y int
	W, H int
	Tile grid.Tile
}

// Area returns the number of cells covered by r.
func (r Rect) Area() int { return r.W * r.H }

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Greedy scans g row-major and merges every non-empty cell into a rectangle,
// growing width first and then height. The result is an exact partition of
// the non-empty cells; an empty grid yields nil.
func Greedy(g *grid.Grid) []Rect {
	w, h := g.Width(), g.Height()
	visited := make([]bool, w*h)
	var rects []Rect

	same := func(x, y int, t grid.Tile) bool {
		v, ok := g.Lookup(x, y)
		return ok && v == t && !visited[y*w+x]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t, _ := g.Lookup(x, y)
			if t == grid.Empty || visited[y*w+x] {
				continue
			}

			rw := 1
			for same(x+rw, y, t) {
				rw++
			}

			rh := 1
		grow:
			for y+rh < h {
				for dx := 0; dx < rw; dx++ {
					if !same(x+dx, y+rh, t) {
						break grow
					}
				}
				rh++
			}

			for dy := 0; dy < rh; dy++ {
				for dx := 0; dx < rw; dx++ {
					visited[(y+dy)*w+x+dx] = true
				}
			}
			rects = append(rects, Rect{X: x, Y: y, W: rw, H: rh, Tile: t})
		}
	}
	return rects
}

// Filter returns the rects whose tile is one of tiles.
func Filter(rects []Rect, tiles ...grid.Tile) []Rect {
	var out []Rect
	for _, r := range rects {
		for _, t := range tiles {
			if r.Tile == t {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Covered returns the total number of cells covered by rects.
func Covered(rects []Rect) int {
	n := 0
	for _, r := range rects {
		n += r.Area()
	}
	return n
}
