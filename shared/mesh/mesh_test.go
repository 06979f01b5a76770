package mesh

import (
	"testing"

	"github.com/automoto/doomerang-levelgen/shared/grid"
)

func TestGreedyEmpty(t *testing.T) {
	if rects := Greedy(grid.New(10, 10, grid.Empty)); len(rects) != 0 {
		t.Errorf("Greedy(empty) = %v, want none", rects)
	}
}

func TestGreedySingleCell(t *testing.T) {
	g := grid.New(10, 10, grid.Empty)
	g.Set(5, 5, grid.Solid)

	rects := Greedy(g)
	want := Rect{X: 5, Y: 5, W: 1, H: 1, Tile: grid.Solid}
	if len(rects) != 1 || rects[0] != want {
		t.Errorf("Greedy = %v, want [%v]", rects, want)
	}
}

func TestGreedyBlock(t *testing.T) {
	g := grid.New(10, 10, grid.Empty)
	g.FillRect(3, 3, 3, 3, grid.Solid)

	rects := Greedy(g)
	want := Rect{X: 3, Y: 3, W: 3, H: 3, Tile: grid.Solid}
	if len(rects) != 1 || rects[0] != want {
		t.Errorf("Greedy = %v, want [%v]", rects, want)
	}
}

func TestGreedyLShapeAndIsolated(t *testing.T) {
	g := grid.MustParse(
		"#.....",
		"#.....",
		"###...",
		"......",
		".....#",
	)
	rects := Greedy(g)
	if len(rects) != 3 {
		t.Fatalf("Greedy produced %d rects, want 3: %v", len(rects), rects)
	}
	want := []Rect{
		{X: 0, Y: 0, W: 1, H: 3, Tile: grid.Solid},
		{X: 1, Y: 2, W: 2, H: 1, Tile: grid.Solid},
		{X: 5, Y: 4, W: 1, H: 1, Tile: grid.Solid},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rect %d = %v, want %v", i, rects[i], want[i])
		}
	}
}

func TestGreedySeparatesTileKinds(t *testing.T) {
	g := grid.MustParse(
		"##==",
		"##==",
		"PPPP",
	)
	rects := Greedy(g)
	if len(rects) != 3 {
		t.Fatalf("Greedy produced %d rects, want 3: %v", len(rects), rects)
	}
	if n := len(Filter(rects, grid.OneWayPlatform)); n != 1 {
		t.Errorf("one-way rects = %d, want 1", n)
	}
	if n := len(Filter(rects, grid.Solid, grid.PrefabBlock)); n != 2 {
		t.Errorf("solid+prefab rects = %d, want 2", n)
	}
}

func TestGreedyPartition(t *testing.T) {
	g := grid.MustParse(
		"#.#=#..P",
		"##==##PP",
		"..#*#...",
		"########",
		"#..=...#",
	)
	rects := Greedy(g)

	cover := make(map[[2]int]int)
	for _, r := range rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				cover[[2]int{x, y}]++
				if got := g.Get(x, y); got != r.Tile {
					t.Errorf("rect %v covers (%d,%d) holding %v", r, x, y, got)
				}
			}
		}
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			n := cover[[2]int{x, y}]
			if g.Get(x, y) == grid.Empty {
				if n != 0 {
					t.Errorf("empty cell (%d,%d) covered %d times", x, y, n)
				}
				continue
			}
			if n != 1 {
				t.Errorf("cell (%d,%d) covered %d times, want 1", x, y, n)
			}
		}
	}

	nonEmpty := g.Width()*g.Height() - g.Count(grid.Empty)
	if got := Covered(rects); got != nonEmpty {
		t.Errorf("Covered = %d, want %d", got, nonEmpty)
	}
}
