package factory

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/archetypes"
	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/generation"
)

// CreateLevel records a generated level as entities: the level itself, a
// checkpoint at spawn and a finish line at the goal.
func CreateLevel(world donburi.World, seed string, lvl *generation.Level) *donburi.Entry {
	level := archetypes.Level.Spawn(world)
	components.Level.SetValue(level, components.LevelData{
		Seed:        seed,
		Chunks:      len(lvl.Chunks),
		ChunkSize:   lvl.ChunkSize,
		TileSize:    lvl.TileSize,
		Traversable: lvl.Traversable,
		Reachable:   lvl.Reachable,
	})

	CreateCheckpoint(world, lvl.SpawnTile.X, lvl.SpawnTile.Y, lvl.TileSize, lvl.Spawn.X, lvl.Spawn.Y)
	CreateFinishLine(world, lvl.Goal.X, lvl.Goal.Y, lvl.TileSize, lvl.Traversable)

	return level
}
