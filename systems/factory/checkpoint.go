package factory

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/archetypes"
	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/tags"
)

// CreateCheckpoint creates the spawn checkpoint covering tile (tileX, tileY).
func CreateCheckpoint(world donburi.World, tileX, tileY, tileSize int, spawnX, spawnY float64) *donburi.Entry {
	checkpoint := archetypes.Checkpoint.Spawn(world)

	ts := float64(tileSize)
	obj := resolv.NewObject(float64(tileX)*ts, float64(tileY)*ts, ts, ts, tags.ResolvSensor, tags.ResolvCheckpoint)
	obj.SetShape(resolv.NewRectangle(0, 0, ts, ts))
	obj.Data = checkpoint

	components.Object.SetValue(checkpoint, components.ObjectData{Object: obj})
	components.Checkpoint.SetValue(checkpoint, components.CheckpointData{
		SpawnX: spawnX,
		SpawnY: spawnY,
		TileX:  tileX,
		TileY:  tileY,
	})

	addToSpace(world, obj)
	return checkpoint
}
