package generation

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/traverse"
)

func TestComposeRoomConnected(t *testing.T) {
	bar := NewStructure("bar", RoleScatter, grid.MustParse("####"))
	g := newTestGenerator(t, ModeTerrain, WithCatalog(bar))

	room, err := g.ComposeRoom(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	if !room.Connected || room.Fraction != 1 {
		t.Errorf("single bar room connected=%v fraction=%v", room.Connected, room.Fraction)
	}
	if room.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", room.Attempts)
	}
	if len(room.Placed) != 1 || room.Grid.Count(grid.Solid) != 4 {
		t.Errorf("placed %d structures, %d solid cells", len(room.Placed), room.Grid.Count(grid.Solid))
	}
}

func TestComposeRoomFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	split := NewStructure("split", RoleScatter, grid.MustParse("#.#"))
	g := newTestGenerator(t, ModeTerrain, WithCatalog(split))

	room, err := g.ComposeRoom(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if room.Connected {
		t.Fatal("a split structure can never connect")
	}
	if room.Attempts != g.Config().Rooms.MaxAttempts {
		t.Errorf("attempts = %d, want %d", room.Attempts, g.Config().Rooms.MaxAttempts)
	}
	if room.Fraction != 0.5 {
		t.Errorf("fraction = %v, want 0.5", room.Fraction)
	}
	if logs.FilterMessage("room never connected, using best layout").Len() != 1 {
		t.Error("missing fallback warning")
	}
}

func TestComposeRoomDefaultCatalog(t *testing.T) {
	g := newTestGenerator(t, ModeTerrain)
	a, err := g.ComposeRoom(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.ComposeRoom(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Grid.Equal(b.Grid) {
		t.Error("room composition is not deterministic")
	}
	reached, total := traverse.FloodCount(a.Grid)
	if a.Connected != (reached == total && total > 0) {
		t.Errorf("Connected=%v but flood reached %d of %d", a.Connected, reached, total)
	}
	for i, p := range a.Placed {
		for _, q := range a.Placed[i+1:] {
			if p.Overlaps(q.X, q.Y, q.Structure.Width, q.Structure.Height) {
				t.Errorf("%s overlaps %s", p.Structure.Name, q.Structure.Name)
			}
		}
	}
}

func TestComposeRoomInvalidSize(t *testing.T) {
	g := newTestGenerator(t, ModeTerrain)
	if _, err := g.ComposeRoom(0, 10); !errors.Is(err, ErrInvalidRoomSize) {
		t.Errorf("error = %v, want ErrInvalidRoomSize", err)
	}
}
