package factory

import (
	"github.com/solarlune/resolv"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/archetypes"
	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// CreatePlatform wraps a chunk body in an entity whose archetype follows the
// tile kind it was meshed from.
func CreatePlatform(world donburi.World, object *resolv.Object, tile grid.Tile, chunkX, chunkY int) *donburi.Entry {
	var platform *donburi.Entry
	switch tile {
	case grid.OneWayPlatform:
		platform = archetypes.OneWayPlatform.Spawn(world)
	case grid.PrefabBlock:
		platform = archetypes.Prefab.Spawn(world)
	case grid.Collectible:
		platform = archetypes.Collectible.Spawn(world)
	default:
		platform = archetypes.Platform.Spawn(world)
	}
	link(platform, object, tile, chunkX, chunkY)
	return platform
}

// CreateFloatingPlatform is a solid ledge that bobs up by distance pixels and
// back, taking duration seconds each way.
func CreateFloatingPlatform(world donburi.World, object *resolv.Object, chunkX, chunkY int, distance float64, duration float32) *donburi.Entry {
	platform := archetypes.FloatingPlatform.Spawn(world)
	link(platform, object, grid.Solid, chunkX, chunkY)

	// The floating platform moves using a *gween.Sequence sequence of tweens, moving it back and forth.
	y := float32(object.Y)
	top := float32(object.Y - distance)
	tw := gween.NewSequence()
	tw.Add(
		gween.New(y, top, duration, ease.InOutSine),
		gween.New(top, y, duration, ease.InOutSine),
	)
	components.Tween.Set(platform, tw)

	return platform
}

func link(entry *donburi.Entry, object *resolv.Object, tile grid.Tile, chunkX, chunkY int) {
	object.Data = entry
	components.Object.SetValue(entry, components.ObjectData{Object: object, Tile: tile})
	components.Chunk.SetValue(entry, components.ChunkData{X: chunkX, Y: chunkY})
}
