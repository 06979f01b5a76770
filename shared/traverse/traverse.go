// Package traverse certifies that a player with a given profile can move
// between two cells of a tile grid.
package traverse

import (
	"math"

	"github.com/automoto/doomerang-levelgen/shared/gamemath"
	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// Point is a cell coordinate.
type Point = grid.Point

// Validator runs a breadth-first search over passable cells. Moves are a
// step left or right, a fall of one cell, and a straight jump of up to
// Reach cells through open space.
type Validator struct {
	grid  *grid.Grid
	reach int
}

// New creates a validator whose jump reach is the profile's max jump height
// in whole tiles.
func New(g *grid.Grid, p gamemath.Profile, tileSize int) *Validator {
	reach := 0
	if tileSize > 0 {
		reach = int(math.Floor(gamemath.MaxJump(p).MaxHeight / float64(tileSize)))
	}
	return &Validator{grid: g, reach: reach}
}

// Reach returns the jump reach in tiles.
func (v *Validator) Reach() int { return v.reach }

// WithReach returns a copy of v with the jump reach overridden.
func (v *Validator) WithReach(n int) *Validator {
	return &Validator{grid: v.grid, reach: max(n, 0)}
}

func (v *Validator) walkable(p Point) bool {
	t, ok := v.grid.Lookup(p.X, p.Y)
	return ok && t.Passable()
}

func (v *Validator) neighbors(p Point, out []Point) []Point {
	out = out[:0]
	if n := p.Add(1, 0); v.walkable(n) {
		out = append(out, n)
	}
	if n := p.Add(-1, 0); v.walkable(n) {
		out = append(out, n)
	}
	for i := 1; i <= v.reach; i++ {
		n := p.Add(0, -i)
		if !v.walkable(n) {
			break
		}
		out = append(out, n)
	}
	if n := p.Add(0, 1); v.walkable(n) {
		out = append(out, n)
	}
	return out
}

// search runs the BFS from start, stopping early when stop returns true.
// It returns the number of visited cells and whether stop fired.
func (v *Validator) search(start Point, stop func(Point) bool) (int, bool) {
	if !v.walkable(start) {
		return 0, false
	}
	w := v.grid.Width()
	visited := make([]bool, w*v.grid.Height())
	visited[start.Y*w+start.X] = true
	queue := []Point{start}
	count := 1
	var buf []Point

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if stop != nil && stop(cur) {
			return count, true
		}
		buf = v.neighbors(cur, buf)
		for _, n := range buf {
			idx := n.Y*w + n.X
			if visited[idx] {
				continue
			}
			visited[idx] = true
			queue = append(queue, n)
			count++
		}
	}
	return count, false
}

// IsTraversable reports whether goal can be reached from start. Both must be
// passable cells.
func (v *Validator) IsTraversable(start, goal Point) bool {
	if !v.walkable(goal) {
		return false
	}
	_, found := v.search(start, func(p Point) bool { return p == goal })
	return found
}

// Reachable returns how many cells can be reached from start.
func (v *Validator) Reachable(start Point) int {
	n, _ := v.search(start, nil)
	return n
}

// FloodConnected reports whether every non-empty cell of g is 4-connected to
// the first non-empty cell in row-major order. An empty grid is connected.
func FloodConnected(g *grid.Grid) bool {
	reached, total := FloodCount(g)
	return reached == total
}

// FloodCount returns the size of the first non-empty region and the total
// number of non-empty cells.
func FloodCount(g *grid.Grid) (reached, total int) {
	w, h := g.Width(), g.Height()
	start := Point{-1, -1}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if t, _ := g.Lookup(x, y); t != grid.Empty {
				total++
				if start.X < 0 {
					start = Point{x, y}
				}
			}
		}
	}
	if total == 0 {
		return 0, 0
	}

	visited := make([]bool, w*h)
	visited[start.Y*w+start.X] = true
	queue := []Point{start}
	reached = 1
	dirs := [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range dirs {
			n := cur.Add(d.X, d.Y)
			t, ok := g.Lookup(n.X, n.Y)
			if !ok || t == grid.Empty || visited[n.Y*w+n.X] {
				continue
			}
			visited[n.Y*w+n.X] = true
			queue = append(queue, n)
			reached++
		}
	}
	return reached, total
}
