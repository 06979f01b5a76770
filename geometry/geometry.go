// Package geometry turns meshed chunk rectangles into collision bodies. Two
// builders share one contract: SpaceBuilder fills a bare resolv space and
// WorldBuilder wraps each body in a donburi entity.
package geometry

import (
	"errors"

	"github.com/solarlune/resolv"

	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/mesh"
	"github.com/automoto/doomerang-levelgen/tags"
)

var ErrForeignHandle = errors.New("handle was not created by this builder")

// NewSpace creates a resolv space covering chunksX x chunksY chunks with one
// cell per tile.
func NewSpace(chunksX, chunksY, chunkSize, tileSize int) *resolv.Space {
	span := chunkSize * tileSize
	return resolv.NewSpace(chunksX*span, chunksY*span, tileSize, tileSize)
}

// bounds returns the world pixel rectangle of r in chunk ref.
func bounds(ref generation.ChunkRef, r mesh.Rect) (x, y, w, h float64) {
	ox, oy := ref.Origin()
	ts := float64(ref.TileSize)
	return ox + float64(r.X)*ts, oy + float64(r.Y)*ts, float64(r.W) * ts, float64(r.H) * ts
}

// resolvTags maps a tile kind to the tags its body carries.
func resolvTags(t grid.Tile, floating bool) []string {
	switch t {
	case grid.OneWayPlatform:
		return []string{tags.ResolvOneWay}
	case grid.PrefabBlock:
		return []string{tags.ResolvSolid, tags.ResolvPrefab}
	case grid.Collectible:
		return []string{tags.ResolvSensor, tags.ResolvCollectible}
	}
	if floating {
		return []string{tags.ResolvSolid, tags.ResolvFloating}
	}
	return []string{tags.ResolvSolid}
}

// newObject creates the collision object for r.
func newObject(ref generation.ChunkRef, r mesh.Rect, floating bool) *resolv.Object {
	x, y, w, h := bounds(ref, r)
	obj := resolv.NewObject(x, y, w, h, resolvTags(r.Tile, floating)...)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	return obj
}

// floating reports whether r is a one-row solid run with nothing under it in
// the same chunk. Runs on the chunk's bottom row may rest on the next chunk
// and never count.
func floating(r mesh.Rect, rects []mesh.Rect, size int) bool {
	if r.Tile != grid.Solid || r.H != 1 || r.Y+1 >= size {
		return false
	}
	below := r.Y + 1
	for _, q := range rects {
		if !q.Tile.Collides() || q.Y > below || q.Y+q.H <= below {
			continue
		}
		if q.X < r.X+r.W && q.X+q.W > r.X {
			return false
		}
	}
	return true
}
