package systems

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/tags"
)

// UpdateObjects advances floating platform bobs by dt seconds and refreshes
// every object's cells in the space.
func UpdateObjects(world donburi.World, dt float32) {
	tags.FloatingPlatform.Each(world, func(e *donburi.Entry) {
		tw := components.Tween.Get(e)
		y, _, done := tw.Update(dt)
		if done {
			tw.Reset()
		}
		components.Object.Get(e).Y = float64(y)
	})
	components.Object.Each(world, func(e *donburi.Entry) {
		obj := components.Object.Get(e)
		obj.Update()
	})
}
