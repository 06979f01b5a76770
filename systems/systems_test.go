package systems

import (
	"errors"
	"testing"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/shared/gamemath"
	"github.com/automoto/doomerang-levelgen/shared/mesh"
)

var testProfile = gamemath.Profile{
	RunSpeed:         300,
	Gravity:          500,
	JumpVelocity:     -350,
	WallSlideSpeed:   60,
	WallJumpVelocity: gamemath.Vec2{X: 350, Y: -550},
}

// countingBuilder hands out integer handles and tracks how many are live.
type countingBuilder struct {
	live  int
	built map[generation.ChunkRef]int
}

func (b *countingBuilder) Build(ref generation.ChunkRef, rects []mesh.Rect) (generation.Bodies, error) {
	if b.built == nil {
		b.built = make(map[generation.ChunkRef]int)
	}
	b.built[ref]++
	var bodies generation.Bodies
	for i := range rects {
		bodies.Platforms = append(bodies.Platforms, i)
	}
	b.live += len(rects)
	return bodies, nil
}

func (b *countingBuilder) Release(bodies generation.Bodies) error {
	b.live -= bodies.Len()
	return nil
}

func newTestGenerator(t *testing.T, opts ...generation.Option) *generation.Generator {
	t.Helper()
	gen, err := generation.New(config.Default().Generation, testProfile, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return gen
}

// memStore is an in-memory stand-in for gdata.
type memStore struct {
	items map[string][]byte
	fail  error
}

func (m *memStore) SaveItem(key string, data []byte) error {
	if m.fail != nil {
		return m.fail
	}
	if m.items == nil {
		m.items = make(map[string][]byte)
	}
	m.items[key] = data
	return nil
}

func (m *memStore) LoadItem(key string) ([]byte, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	return m.items[key], nil
}

func TestChunkStreamer(t *testing.T) {
	b := &countingBuilder{}
	gen := newTestGenerator(t, generation.WithBuilder(b))
	s := NewChunkStreamer(gen, 1, 64, 32)

	loaded, evicted, err := s.Update(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != 9 || evicted != 0 || s.Len() != 9 {
		t.Fatalf("first update loaded=%d evicted=%d resident=%d", loaded, evicted, s.Len())
	}
	if _, ok := s.Spawn(); !ok {
		t.Error("origin chunk loaded without a spawn point")
	}
	if _, ok := s.Chunk(-1, -1); !ok {
		t.Error("chunk (-1,-1) not resident")
	}

	// Same chunk: nothing changes.
	if loaded, evicted, _ := s.Update(1500, 1500); loaded != 0 || evicted != 0 {
		t.Errorf("standing still loaded=%d evicted=%d", loaded, evicted)
	}

	// One chunk right is 2048 px.
	loaded, evicted, err = s.Update(2048+100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != 3 || evicted != 3 {
		t.Errorf("moving right loaded=%d evicted=%d, want 3 and 3", loaded, evicted)
	}
	if _, ok := s.Chunk(-1, 0); ok {
		t.Error("chunk (-1,0) still resident")
	}

	want := 0
	for _, c := range s.Loaded() {
		want += c.Bodies.Len()
	}
	if b.live != want {
		t.Errorf("builder holds %d bodies, resident chunks %d", b.live, want)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if b.live != 0 || s.Len() != 0 {
		t.Errorf("after close live=%d resident=%d", b.live, s.Len())
	}
}

func TestChunkStreamerReloadIsIdentical(t *testing.T) {
	gen := newTestGenerator(t)
	s := NewChunkStreamer(gen, 0, 64, 32)

	if _, _, err := s.Update(2048*3, 0); err != nil {
		t.Fatal(err)
	}
	first, _ := s.Chunk(3, 0)
	s.Update(0, 0)
	s.Update(2048*3, 0)
	again, _ := s.Chunk(3, 0)
	if first == again {
		t.Fatal("chunk was not regenerated")
	}
	if !first.Grid.Equal(again.Grid) {
		t.Error("regenerated chunk differs")
	}
}

func TestChunkAt(t *testing.T) {
	s := NewChunkStreamer(nil, 1, 64, 32)
	tests := []struct {
		x, y   float64
		cx, cy int
	}{
		{x: 0, y: 0, cx: 0, cy: 0},
		{x: 2047, y: 10, cx: 0, cy: 0},
		{x: 2048, y: 10, cx: 1, cy: 0},
		{x: -1, y: -1, cx: -1, cy: -1},
		{x: -2049, y: 4096, cx: -2, cy: 2},
	}
	for _, tt := range tests {
		if cx, cy := s.ChunkAt(tt.x, tt.y); cx != tt.cx || cy != tt.cy {
			t.Errorf("ChunkAt(%v,%v) = (%d,%d), want (%d,%d)", tt.x, tt.y, cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestSnapshotStore(t *testing.T) {
	gen := newTestGenerator(t)
	lvl, err := gen.GenerateLevel(2, 64, 32)
	if err != nil {
		t.Fatal(err)
	}

	store := NewSnapshotStore(&memStore{})
	snap := SnapshotFromLevel("doomerang", "terrain", lvl)
	if store.Has(snap.Key()) {
		t.Fatal("empty store reports a snapshot")
	}
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(snap.Key())
	if err != nil {
		t.Fatal(err)
	}
	g, err := got.Grid()
	if err != nil {
		t.Fatal(err)
	}
	if !g.Equal(lvl.Grid) {
		t.Error("loaded grid differs from the level")
	}
	if got.SpawnTile != lvl.SpawnTile || got.Goal != lvl.Goal || got.Traversable != lvl.Traversable {
		t.Errorf("loaded metadata %+v", got)
	}

	if err := store.Clear(snap.Key()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(snap.Key()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("load after clear error = %v, want ErrNoSnapshot", err)
	}
}

func TestSnapshotStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	store := NewSnapshotStore(&memStore{fail: boom})
	if err := store.Save(&LevelSnapshot{Seed: "x"}); !errors.Is(err, boom) {
		t.Errorf("save error = %v", err)
	}
	if _, err := store.Load("level"); !errors.Is(err, boom) {
		t.Errorf("load error = %v", err)
	}

	bad := NewSnapshotStore(&memStore{items: map[string][]byte{"k": []byte("{not json")}})
	if _, err := bad.Load("k"); err == nil {
		t.Error("corrupt snapshot decoded")
	}
}

func TestSnapshotKey(t *testing.T) {
	a := SnapshotKey("seed one", "terrain", 3)
	if a != SnapshotKey("seed one", "terrain", 3) {
		t.Error("key not stable")
	}
	if a == SnapshotKey("seed two", "terrain", 3) || a == SnapshotKey("seed one", "structures", 3) ||
		a == SnapshotKey("seed one", "terrain", 4) {
		t.Error("distinct levels share a key")
	}
}
