package generation

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/traverse"
)

// Room is a layout of catalog structures packed into a fixed box.
type Room struct {
	Width     int
	Height    int
	Grid      *grid.Grid
	Placed    []PlacedStructure
	Connected bool
	// Fraction of non-empty cells reachable from the first one.
	Fraction float64
	Attempts int
}

// ComposeRoom packs the catalog into a width x height room and retries until
// every placed tile is 4-connected. After Rooms.MaxAttempts layouts it returns
// the best one seen with Connected set to false.
func (g *Generator) ComposeRoom(width, height int) (*Room, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidRoomSize
	}
	rng := g.rng(roomSalt, width, height)
	cfg := g.cfg.Rooms

	var best *Room
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		room := g.layoutRoom(width, height, rng)
		room.Attempts = attempt
		if best == nil || room.Fraction > best.Fraction {
			best = room
		}
		if room.Connected {
			logger.Log.Debug("room composed",
				zap.Int("width", width), zap.Int("height", height),
				zap.Int("attempts", attempt), zap.Int("structures", len(room.Placed)))
			return room, nil
		}
	}

	best.Attempts = cfg.MaxAttempts
	logger.Log.Warn("room never connected, using best layout",
		zap.Int("width", width), zap.Int("height", height),
		zap.Int("attempts", cfg.MaxAttempts), zap.Float64("fraction", best.Fraction))
	return best, nil
}

func (g *Generator) layoutRoom(width, height int, rng *rand.Rand) *Room {
	room := &Room{
		Width:  width,
		Height: height,
		Grid:   grid.New(width, height, grid.Empty),
	}
	occupied := make([]bool, width*height)

	structures := append([]*Structure(nil), g.catalog.All()...)
	rng.Shuffle(len(structures), func(i, j int) {
		structures[i], structures[j] = structures[j], structures[i]
	})

	for _, s := range structures {
		if s.Width > width || s.Height > height {
			continue
		}
		for try := 0; try < g.cfg.Rooms.PlaceTries; try++ {
			x := rng.IntN(width - s.Width + 1)
			y := rng.IntN(height - s.Height + 1)
			if !footprintFree(occupied, width, s, x, y) {
				continue
			}
			markFootprint(occupied, width, s, x, y)
			room.Placed = PlaceStructure(room.Grid, PlacedStructure{Structure: s, X: x, Y: y}, room.Placed)
			break
		}
	}

	reached, total := traverse.FloodCount(room.Grid)
	if total > 0 {
		room.Fraction = float64(reached) / float64(total)
	}
	room.Connected = total > 0 && reached == total
	return room
}

func footprintFree(occupied []bool, width int, s *Structure, x, y int) bool {
	for dy := 0; dy < s.Height; dy++ {
		for dx := 0; dx < s.Width; dx++ {
			if occupied[(y+dy)*width+x+dx] {
				return false
			}
		}
	}
	return true
}

func markFootprint(occupied []bool, width int, s *Structure, x, y int) {
	for dy := 0; dy < s.Height; dy++ {
		for dx := 0; dx < s.Width; dx++ {
			occupied[(y+dy)*width+x+dx] = true
		}
	}
}
