package geometry

import (
	"errors"
	"testing"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/mesh"
	"github.com/automoto/doomerang-levelgen/systems"
	"github.com/automoto/doomerang-levelgen/tags"
)

var testRef = generation.ChunkRef{X: 1, Y: 0, Size: 16, TileSize: 32}

// testChunk is a floor, a floating ledge, a one-way run and a coin.
func testChunk() []mesh.Rect {
	g := grid.New(16, 16, grid.Empty)
	g.FillRect(0, 14, 16, 2, grid.Solid)
	g.FillRect(4, 8, 3, 1, grid.Solid)
	g.FillRect(10, 10, 4, 1, grid.OneWayPlatform)
	g.Set(5, 7, grid.Collectible)
	return mesh.Greedy(g)
}

func probe(space *resolv.Space, x, y float64, tag string) bool {
	p := resolv.NewObject(x, y, 2, 2)
	space.Add(p)
	defer space.Remove(p)
	return p.Check(0, 0, tag) != nil
}

func TestFloating(t *testing.T) {
	rects := []mesh.Rect{
		{X: 0, Y: 14, W: 16, H: 2, Tile: grid.Solid},
		{X: 4, Y: 8, W: 3, H: 1, Tile: grid.Solid},
		{X: 2, Y: 13, W: 3, H: 1, Tile: grid.Solid},
		{X: 8, Y: 4, W: 2, H: 1, Tile: grid.Solid},
		{X: 8, Y: 5, W: 1, H: 1, Tile: grid.Collectible},
		{X: 0, Y: 15, W: 1, H: 1, Tile: grid.Solid},
	}
	tests := []struct {
		idx  int
		want bool
	}{
		{idx: 0, want: false}, // thick
		{idx: 1, want: true},  // open below
		{idx: 2, want: false}, // resting on the floor
		{idx: 3, want: true},  // coins do not hold platforms up
		{idx: 5, want: false}, // bottom row
	}
	for _, tt := range tests {
		if got := floating(rects[tt.idx], rects, 16); got != tt.want {
			t.Errorf("floating(%+v) = %v, want %v", rects[tt.idx], got, tt.want)
		}
	}
}

func TestSpaceBuilder(t *testing.T) {
	space := NewSpace(2, 1, 16, 32)
	b := NewSpaceBuilder(space)
	rects := testChunk()

	bodies, err := b.Build(testRef, rects)
	if err != nil {
		t.Fatal(err)
	}
	if bodies.Len() != len(rects) || b.Live() != len(rects) {
		t.Fatalf("bodies = %d, live = %d, rects = %d", bodies.Len(), b.Live(), len(rects))
	}
	if len(bodies.OneWay) != 1 || len(bodies.Sensors) != 1 {
		t.Errorf("one-way = %d, sensors = %d", len(bodies.OneWay), len(bodies.Sensors))
	}

	// Chunk 1 starts at x = 512 px.
	floorX, floorY := 512.0+100, 14*32.0+10
	if !probe(space, floorX, floorY, tags.ResolvSolid) {
		t.Error("floor not solid")
	}
	if !probe(space, 512+10*32+8, 10*32+8, tags.ResolvOneWay) {
		t.Error("one-way run missing")
	}
	if !probe(space, 512+5*32+8, 7*32+8, tags.ResolvCollectible) {
		t.Error("collectible sensor missing")
	}
	if !probe(space, 512+4*32+8, 8*32+8, tags.ResolvFloating) {
		t.Error("ledge not tagged floating")
	}
	if probe(space, 512+8*32, 4*32, tags.ResolvSolid) {
		t.Error("open air reported solid")
	}

	if err := b.Release(bodies); err != nil {
		t.Fatal(err)
	}
	if b.Live() != 0 {
		t.Errorf("live = %d after release", b.Live())
	}
	if probe(space, floorX, floorY, tags.ResolvSolid) {
		t.Error("floor still solid after release")
	}
}

func TestSpaceBuilderRejectsForeignHandles(t *testing.T) {
	b := NewSpaceBuilder(NewSpace(1, 1, 16, 32))
	err := b.Release(generation.Bodies{Platforms: []generation.Handle{"not a body"}})
	if !errors.Is(err, ErrForeignHandle) {
		t.Errorf("error = %v, want ErrForeignHandle", err)
	}
}

func TestReleaseWithForeignHandleKeepsBodies(t *testing.T) {
	space := NewSpace(2, 1, 16, 32)
	sb := NewSpaceBuilder(space)
	world := donburi.NewWorld()
	wb := NewWorldBuilder(world, NewSpace(2, 1, 16, 32), DefaultBob)

	for _, b := range []generation.GeometryBuilder{sb, wb} {
		bodies, err := b.Build(testRef, testChunk())
		if err != nil {
			t.Fatal(err)
		}
		mixed := bodies
		mixed.Sensors = append(append([]generation.Handle(nil), bodies.Sensors...), "not a body")
		if err := b.Release(mixed); !errors.Is(err, ErrForeignHandle) {
			t.Fatalf("%T: error = %v, want ErrForeignHandle", b, err)
		}
		// Nothing was removed, so releasing the real bodies still works once.
		if err := b.Release(bodies); err != nil {
			t.Fatalf("%T: %v", b, err)
		}
	}
	if sb.Live() != 0 {
		t.Errorf("space builder live = %d, want 0", sb.Live())
	}
	if got := len(space.Objects()); got != 0 {
		t.Errorf("space still holds %d objects", got)
	}
	if got := world.Len(); got != 1 {
		t.Errorf("world holds %d entities, want only the space", got)
	}
}

func count(world donburi.World, tag donburi.IComponentType) int {
	return donburi.NewQuery(filter.Contains(tag)).Count(world)
}

func TestWorldBuilder(t *testing.T) {
	world := donburi.NewWorld()
	b := NewWorldBuilder(world, NewSpace(2, 1, 16, 32), DefaultBob)
	rects := testChunk()

	bodies, err := b.Build(testRef, rects)
	if err != nil {
		t.Fatal(err)
	}
	if bodies.Len() != len(rects) {
		t.Fatalf("bodies = %d, rects = %d", bodies.Len(), len(rects))
	}
	if got := world.Len(); got != len(rects)+1 {
		t.Errorf("world has %d entities, want %d", got, len(rects)+1)
	}
	if count(world, tags.FloatingPlatform) != 1 || count(world, tags.OneWayPlatform) != 1 ||
		count(world, tags.Collectible) != 1 {
		t.Error("entities not sorted into archetypes")
	}

	for _, h := range bodies.Platforms {
		entry := world.Entry(h.(donburi.Entity))
		obj := components.Object.Get(entry)
		if obj.Data != entry {
			t.Error("object does not link back to its entry")
		}
		if c := components.Chunk.Get(entry); c.X != 1 || c.Y != 0 {
			t.Errorf("chunk component = %+v", *c)
		}
	}

	var ledge *components.ObjectData
	tags.FloatingPlatform.Each(world, func(e *donburi.Entry) {
		ledge = components.Object.Get(e)
	})
	startY := ledge.Y
	systems.UpdateObjects(world, 1)
	if ledge.Y >= startY {
		t.Errorf("ledge did not rise: %v -> %v", startY, ledge.Y)
	}

	if err := b.Release(bodies); err != nil {
		t.Fatal(err)
	}
	if got := world.Len(); got != 1 {
		t.Errorf("world has %d entities after release, want only the space", got)
	}
	if probe(b.Space(), 512+100, 14*32+10, tags.ResolvSolid) {
		t.Error("floor still in space after release")
	}
}

func TestWorldBuilderAttachLevel(t *testing.T) {
	world := donburi.NewWorld()
	b := NewWorldBuilder(world, NewSpace(3, 1, 16, 32), Bob{})
	b.AttachLevel("seed", &generation.Level{
		Chunks:      make([]*generation.Chunk, 3),
		ChunkSize:   16,
		TileSize:    32,
		Spawn:       generation.SpawnPoint{X: 112, Y: 320},
		SpawnTile:   grid.Point{X: 3, Y: 10},
		Goal:        grid.Point{X: 47, Y: 9},
		Traversable: true,
	})

	entry, ok := components.Checkpoint.First(world)
	if !ok {
		t.Fatal("no checkpoint entity")
	}
	if cp := components.Checkpoint.Get(entry); cp.SpawnX != 112 || cp.TileY != 10 {
		t.Errorf("checkpoint = %+v", *cp)
	}
	goal, ok := components.FinishLine.First(world)
	if !ok || !components.FinishLine.Get(goal).Reachable {
		t.Error("finish line missing or unreachable")
	}
	lvl, ok := components.Level.First(world)
	if !ok || components.Level.Get(lvl).Chunks != 3 {
		t.Error("level entity missing")
	}

	if !probe(b.Space(), 47*32+8, 9*32+8, tags.ResolvFinishLine) {
		t.Error("finish line sensor not in space")
	}
	if !probe(b.Space(), 3*32+8, 10*32+8, tags.ResolvCheckpoint) {
		t.Error("checkpoint sensor not in space")
	}
}

func TestWorldBuilderZeroBob(t *testing.T) {
	world := donburi.NewWorld()
	b := NewWorldBuilder(world, NewSpace(2, 1, 16, 32), Bob{})
	if _, err := b.Build(testRef, testChunk()); err != nil {
		t.Fatal(err)
	}
	if n := count(world, tags.FloatingPlatform); n != 0 {
		t.Errorf("%d bobbing platforms with a zero bob", n)
	}
}
