package systems

import (
	"math"
	"strings"
	"testing"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/geometry"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/mesh"
	"github.com/automoto/doomerang-levelgen/systems/factory"
)

func TestFindTilePath(t *testing.T) {
	level := grid.MustParse(
		"................",
		"................",
		"................",
		"................",
		"................",
		"................",
		"#####.....######",
		"#####.....######",
	)
	nav := CreateNavGrid(level, testProfile, 32)
	route := nav.FindTilePath(grid.Point{X: 1, Y: 5}, grid.Point{X: 14, Y: 5})
	if len(route) == 0 {
		t.Fatal("no route across a jumpable gap")
	}
	first, last := route[0], route[len(route)-1]
	if first.X != 1 || first.Y != 5 || last.X != 14 || last.Y != 5 {
		t.Errorf("route runs from (%d,%d) to (%d,%d)", first.X, first.Y, last.X, last.Y)
	}
	for _, p := range Tiles(route) {
		if !level.Get(p.X, p.Y).Passable() {
			t.Errorf("route passes through solid %v", p)
		}
	}
}

func TestFindTilePathBlocked(t *testing.T) {
	// A wall wider than the longest jump splits the level in two.
	wall := "..################.."
	floor := strings.Repeat("#", len(wall))
	level := grid.MustParse(wall, wall, wall, wall, floor)
	nav := CreateNavGrid(level, testProfile, 32)
	if route := nav.FindTilePath(grid.Point{X: 0, Y: 3}, grid.Point{X: 19, Y: 3}); route != nil {
		t.Errorf("route through a wall: %v", Tiles(route))
	}
}

func TestFindTilePathSnapsOutOfSolid(t *testing.T) {
	level := grid.MustParse(
		"......",
		"......",
		"######",
	)
	nav := CreateNavGrid(level, testProfile, 32)
	route := nav.FindTilePath(grid.Point{X: 0, Y: 2}, grid.Point{X: 5, Y: 1})
	if len(route) == 0 {
		t.Fatal("no route from a start inside the floor")
	}
	if first := route[0]; !level.Get(first.X, first.Y).Passable() {
		t.Errorf("route starts in solid (%d,%d)", first.X, first.Y)
	}
}

func TestNavGridOnGeneratedLevel(t *testing.T) {
	gen := newTestGenerator(t)
	lvl, err := gen.GenerateLevel(2, 64, 32)
	if err != nil {
		t.Fatal(err)
	}
	nav := CreateNavGrid(lvl.Grid, testProfile, 32)
	route := nav.FindTilePath(lvl.SpawnTile, lvl.Goal)
	if len(route) == 0 {
		t.Fatal("no route from spawn to goal")
	}
	last := route[len(route)-1]
	if last.X != lvl.Goal.X || last.Y != lvl.Goal.Y {
		t.Errorf("route ends at (%d,%d), goal %v", last.X, last.Y, lvl.Goal)
	}
}

func TestNavGridFromSpace(t *testing.T) {
	g := grid.New(16, 16, grid.Empty)
	g.FillRect(0, 14, 16, 2, grid.Solid)
	g.FillRect(6, 10, 3, 1, grid.OneWayPlatform)

	space := geometry.NewSpace(1, 1, 16, 32)
	b := geometry.NewSpaceBuilder(space)
	ref := generation.ChunkRef{Size: 16, TileSize: 32}
	if _, err := b.Build(ref, mesh.Greedy(g)); err != nil {
		t.Fatal(err)
	}

	nav := CreateNavGridFromSpace(space, 512, 512, 32, testProfile)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := g.Get(x, y).Passable()
			if got := nav.Nodes[y][x].Walkable; got != want {
				t.Errorf("node (%d,%d) walkable = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestReplayRouteReachesFinishLine(t *testing.T) {
	world := donburi.NewWorld()
	space := geometry.NewSpace(2, 1, 64, 32)
	b := geometry.NewWorldBuilder(world, space, geometry.DefaultBob)
	gen := newTestGenerator(t, generation.WithBuilder(b))

	lvl, err := gen.GenerateLevel(2, 64, 32)
	if err != nil {
		t.Fatal(err)
	}
	b.AttachLevel("replay", lvl)

	nav := CreateNavGridFromSpace(space, 2*64*32, 64*32, 32, testProfile)
	route := nav.FindTilePath(lvl.SpawnTile, lvl.Goal)
	if len(route) == 0 {
		t.Fatal("no route")
	}

	if ReplayRoute(world, route[:1]) {
		t.Error("finish line reached after one step")
	}
	cp, _ := components.Checkpoint.First(world)
	if !components.Checkpoint.Get(cp).Activated {
		t.Error("spawn checkpoint not activated")
	}

	if !ReplayRoute(world, route) {
		t.Fatal("replay never reached the finish line")
	}
	fl, _ := components.FinishLine.First(world)
	if !components.FinishLine.Get(fl).Activated {
		t.Error("finish line not activated")
	}

	if err := gen.ReleaseLevel(lvl); err != nil {
		t.Fatal(err)
	}
}

func TestReplayRouteWithoutSpace(t *testing.T) {
	if ReplayRoute(donburi.NewWorld(), []*NavNode{{X: 0, Y: 0}}) {
		t.Error("replay succeeded without a space")
	}
}

func TestUpdateObjectsBobsAndLoops(t *testing.T) {
	world := donburi.NewWorld()
	space := geometry.NewSpace(1, 1, 16, 32)
	factory.CreateSpace(world, space)
	obj := resolv.NewObject(64, 256, 96, 32)
	space.Add(obj)
	ledge := factory.CreateFloatingPlatform(world, obj, 0, 0, 8, 1)

	UpdateObjects(world, 1)
	if y := components.Object.Get(ledge).Y; math.Abs(y-248) > 0.01 {
		t.Errorf("after rising y = %v, want 248", y)
	}
	UpdateObjects(world, 1)
	UpdateObjects(world, 0.5)
	if y := components.Object.Get(ledge).Y; y >= 256 {
		t.Errorf("bob did not restart: y = %v", y)
	}
}
