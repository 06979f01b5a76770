package geometry

import (
	"fmt"

	"github.com/solarlune/resolv"
	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/mesh"
)

// SpaceBuilder adds one tagged resolv object per rectangle to a space.
// Handles are *resolv.Object.
type SpaceBuilder struct {
	space *resolv.Space
	live  int
}

func NewSpaceBuilder(space *resolv.Space) *SpaceBuilder {
	return &SpaceBuilder{space: space}
}

// Space returns the space bodies are added to.
func (b *SpaceBuilder) Space() *resolv.Space { return b.space }

// Live returns how many bodies are currently in the space.
func (b *SpaceBuilder) Live() int { return b.live }

func (b *SpaceBuilder) Build(ref generation.ChunkRef, rects []mesh.Rect) (generation.Bodies, error) {
	var bodies generation.Bodies
	for _, r := range rects {
		obj := newObject(ref, r, floating(r, rects, ref.Size))
		b.space.Add(obj)
		switch r.Tile {
		case grid.OneWayPlatform:
			bodies.OneWay = append(bodies.OneWay, obj)
		case grid.Collectible:
			bodies.Sensors = append(bodies.Sensors, obj)
		default:
			bodies.Platforms = append(bodies.Platforms, obj)
		}
	}
	b.live += bodies.Len()
	logger.Log.Debug("chunk bodies added",
		zap.Int("chunk_x", ref.X), zap.Int("chunk_y", ref.Y), zap.Int("bodies", bodies.Len()))
	return bodies, nil
}

func (b *SpaceBuilder) Release(bodies generation.Bodies) error {
	objs := make([]*resolv.Object, 0, bodies.Len())
	for _, group := range [][]generation.Handle{bodies.Platforms, bodies.OneWay, bodies.Sensors} {
		for _, h := range group {
			obj, ok := h.(*resolv.Object)
			if !ok {
				return fmt.Errorf("%w: %T", ErrForeignHandle, h)
			}
			objs = append(objs, obj)
		}
	}
	for _, obj := range objs {
		b.space.Remove(obj)
		b.live--
	}
	return nil
}
