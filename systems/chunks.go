package systems

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/mathutil"
)

type chunkKey struct {
	X, Y int
}

// ChunkStreamer keeps the chunks within a square radius of a moving point
// generated and releases the bodies of chunks that fall out of range. It is
// not safe for concurrent use.
type ChunkStreamer struct {
	gen       *generation.Generator
	radius    int
	chunkSize int
	tileSize  int
	loaded    map[chunkKey]*generation.Chunk
	spawn     *generation.SpawnPoint
}

// NewChunkStreamer creates a streamer loading chunks up to radius chunks away
// from the focus point.
func NewChunkStreamer(gen *generation.Generator, radius, chunkSize, tileSize int) *ChunkStreamer {
	return &ChunkStreamer{
		gen:       gen,
		radius:    max(radius, 0),
		chunkSize: chunkSize,
		tileSize:  tileSize,
		loaded:    make(map[chunkKey]*generation.Chunk),
	}
}

// ChunkAt returns the chunk coordinates containing world pixel (x, y).
func (s *ChunkStreamer) ChunkAt(x, y float64) (int, int) {
	span := s.chunkSize * s.tileSize
	return mathutil.FloorDiv(int(math.Floor(x)), span), mathutil.FloorDiv(int(math.Floor(y)), span)
}

// Update loads every chunk within the radius of world pixel (x, y) and evicts
// the rest. It returns how many chunks were loaded and evicted.
func (s *ChunkStreamer) Update(x, y float64) (loaded, evicted int, err error) {
	cx, cy := s.ChunkAt(x, y)

	var errs []error
	for key, c := range s.loaded {
		if mathutil.AbsInt(key.X-cx) <= s.radius && mathutil.AbsInt(key.Y-cy) <= s.radius {
			continue
		}
		if err := s.gen.Release(c); err != nil {
			errs = append(errs, err)
		}
		delete(s.loaded, key)
		evicted++
	}

	for yy := cy - s.radius; yy <= cy+s.radius; yy++ {
		for xx := cx - s.radius; xx <= cx+s.radius; xx++ {
			key := chunkKey{xx, yy}
			if _, ok := s.loaded[key]; ok {
				continue
			}
			c, err := s.load(key)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			s.loaded[key] = c
			loaded++
		}
	}

	if loaded > 0 || evicted > 0 {
		logger.Log.Debug("chunks streamed",
			zap.Int("chunk_x", cx), zap.Int("chunk_y", cy),
			zap.Int("loaded", loaded), zap.Int("evicted", evicted), zap.Int("resident", len(s.loaded)))
	}
	return loaded, evicted, errors.Join(errs...)
}

// load generates one chunk. The origin chunk also yields the spawn point.
func (s *ChunkStreamer) load(key chunkKey) (*generation.Chunk, error) {
	if key == (chunkKey{}) {
		c, spawn, err := s.gen.GenerateInitialChunkAndSpawnPoint(s.chunkSize, s.tileSize)
		if err != nil {
			return nil, fmt.Errorf("load chunk (0,0): %w", err)
		}
		s.spawn = &spawn
		return c, nil
	}
	c, err := s.gen.GenerateChunk(key.X, key.Y, s.chunkSize, s.tileSize)
	if err != nil {
		return nil, fmt.Errorf("load chunk (%d,%d): %w", key.X, key.Y, err)
	}
	return c, nil
}

// Chunk returns a resident chunk.
func (s *ChunkStreamer) Chunk(x, y int) (*generation.Chunk, bool) {
	c, ok := s.loaded[chunkKey{x, y}]
	return c, ok
}

// Spawn returns the spawn point once the origin chunk has been loaded.
func (s *ChunkStreamer) Spawn() (generation.SpawnPoint, bool) {
	if s.spawn == nil {
		return generation.SpawnPoint{}, false
	}
	return *s.spawn, true
}

// Len returns the number of resident chunks.
func (s *ChunkStreamer) Len() int { return len(s.loaded) }

// Loaded returns the resident chunks ordered by row, then column.
func (s *ChunkStreamer) Loaded() []*generation.Chunk {
	out := make([]*generation.Chunk, 0, len(s.loaded))
	for _, c := range s.loaded {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Close releases every resident chunk.
func (s *ChunkStreamer) Close() error {
	var errs []error
	for key, c := range s.loaded {
		errs = append(errs, s.gen.Release(c))
		delete(s.loaded, key)
	}
	return errors.Join(errs...)
}
