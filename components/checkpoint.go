package components

import "github.com/yohamta/donburi"

// CheckpointData marks where the player enters a generated level.
type CheckpointData struct {
	SpawnX    float64 // pixels, center of the spawn tile
	SpawnY    float64
	TileX     int
	TileY     int
	Activated bool
}

var Checkpoint = donburi.NewComponentType[CheckpointData]()
