package geometry

import (
	"errors"
	"fmt"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/mesh"
	"github.com/automoto/doomerang-levelgen/systems/factory"
)

// Bob tunes how floating platforms drift up and back.
type Bob struct {
	Distance float64 // pixels
	Duration float32 // seconds per direction
}

// DefaultBob is a slow quarter-tile drift.
var DefaultBob = Bob{Distance: 8, Duration: 2}

// WorldBuilder creates one donburi entity per rectangle, each wrapping a
// resolv object registered in the world's space entity. Handles are
// donburi.Entity values.
type WorldBuilder struct {
	world donburi.World
	bob   Bob
}

// NewWorldBuilder spawns the space entity in world and returns a builder for
// it. A zero bob disables floating platform motion.
func NewWorldBuilder(world donburi.World, space *resolv.Space, bob Bob) *WorldBuilder {
	factory.CreateSpace(world, space)
	return &WorldBuilder{world: world, bob: bob}
}

// World returns the entity world.
func (b *WorldBuilder) World() donburi.World { return b.world }

// Space returns the collision space stored on the space entity.
func (b *WorldBuilder) Space() *resolv.Space {
	entry, ok := components.Space.First(b.world)
	if !ok {
		return nil
	}
	return components.Space.Get(entry)
}

func (b *WorldBuilder) Build(ref generation.ChunkRef, rects []mesh.Rect) (generation.Bodies, error) {
	space := b.Space()
	if space == nil {
		return generation.Bodies{}, errors.New("world has no space entity")
	}
	var bodies generation.Bodies
	for _, r := range rects {
		isFloating := floating(r, rects, ref.Size)
		obj := newObject(ref, r, isFloating)
		var entry *donburi.Entry
		if isFloating && b.bob.Distance != 0 {
			entry = factory.CreateFloatingPlatform(b.world, obj, ref.X, ref.Y, b.bob.Distance, b.bob.Duration)
		} else {
			entry = factory.CreatePlatform(b.world, obj, r.Tile, ref.X, ref.Y)
		}
		space.Add(obj)

		switch r.Tile {
		case grid.OneWayPlatform:
			bodies.OneWay = append(bodies.OneWay, entry.Entity())
		case grid.Collectible:
			bodies.Sensors = append(bodies.Sensors, entry.Entity())
		default:
			bodies.Platforms = append(bodies.Platforms, entry.Entity())
		}
	}
	logger.Log.Debug("chunk entities spawned",
		zap.Int("chunk_x", ref.X), zap.Int("chunk_y", ref.Y), zap.Int("entities", bodies.Len()))
	return bodies, nil
}

func (b *WorldBuilder) Release(bodies generation.Bodies) error {
	entities := make([]donburi.Entity, 0, bodies.Len())
	for _, group := range [][]generation.Handle{bodies.Platforms, bodies.OneWay, bodies.Sensors} {
		for _, h := range group {
			e, ok := h.(donburi.Entity)
			if !ok {
				return fmt.Errorf("%w: %T", ErrForeignHandle, h)
			}
			entities = append(entities, e)
		}
	}
	space := b.Space()
	for _, e := range entities {
		if !b.world.Valid(e) {
			continue
		}
		entry := b.world.Entry(e)
		if space != nil && entry.HasComponent(components.Object) {
			space.Remove(components.Object.Get(entry).Object)
		}
		b.world.Remove(e)
	}
	return nil
}

// AttachLevel records a generated level's spawn, goal and validation result
// as entities.
func (b *WorldBuilder) AttachLevel(seed string, lvl *generation.Level) *donburi.Entry {
	return factory.CreateLevel(b.world, seed, lvl)
}
