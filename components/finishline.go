package components

import "github.com/yohamta/donburi"

// FinishLineData marks the level goal and whether the validator reached it.
type FinishLineData struct {
	TileX     int
	TileY     int
	Reachable bool
	Activated bool
}

var FinishLine = donburi.NewComponentType[FinishLineData]()
