package archetypes

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/tags"
)

var (
	Platform = newArchetype(
		tags.Platform,
		components.Object,
		components.Chunk,
	)
	FloatingPlatform = newArchetype(
		tags.FloatingPlatform,
		components.Object,
		components.Chunk,
		components.Tween,
	)
	OneWayPlatform = newArchetype(
		tags.OneWayPlatform,
		components.Object,
		components.Chunk,
	)
	Prefab = newArchetype(
		tags.Prefab,
		components.Object,
		components.Chunk,
	)
	Collectible = newArchetype(
		tags.Collectible,
		components.Object,
		components.Chunk,
	)
	Space = newArchetype(
		components.Space,
	)
	Level = newArchetype(
		components.Level,
	)
	Checkpoint = newArchetype(
		tags.Checkpoint,
		components.Object,
		components.Checkpoint,
	)
	FinishLine = newArchetype(
		tags.FinishLine,
		components.Object,
		components.FinishLine,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(world donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	e := world.Entry(world.Create(
		append(a.components, cs...)...,
	))
	return e
}
