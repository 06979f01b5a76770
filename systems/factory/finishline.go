package factory

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/archetypes"
	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/tags"
)

// CreateFinishLine creates the goal sensor covering tile (tileX, tileY).
func CreateFinishLine(world donburi.World, tileX, tileY, tileSize int, reachable bool) *donburi.Entry {
	finishLine := archetypes.FinishLine.Spawn(world)

	ts := float64(tileSize)
	obj := resolv.NewObject(float64(tileX)*ts, float64(tileY)*ts, ts, ts, tags.ResolvSensor, tags.ResolvFinishLine)
	obj.SetShape(resolv.NewRectangle(0, 0, ts, ts))
	obj.Data = finishLine

	components.Object.SetValue(finishLine, components.ObjectData{Object: obj})
	components.FinishLine.SetValue(finishLine, components.FinishLineData{
		TileX:     tileX,
		TileY:     tileY,
		Reachable: reachable,
	})

	addToSpace(world, obj)
	return finishLine
}
