package factory

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/archetypes"
	"github.com/automoto/doomerang-levelgen/components"
)

func CreateSpace(world donburi.World, space *resolv.Space) *donburi.Entry {
	entry := archetypes.Space.Spawn(world)
	components.Space.Set(entry, space)
	return entry
}

// addToSpace registers obj with the world's space entity, if there is one.
func addToSpace(world donburi.World, obj *resolv.Object) {
	if spaceEntry, ok := components.Space.First(world); ok {
		components.Space.Get(spaceEntry).Add(obj)
	}
}
