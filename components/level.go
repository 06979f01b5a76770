package components

import "github.com/yohamta/donburi"

type LevelData struct {
	Seed        string
	Chunks      int
	ChunkSize   int
	TileSize    int
	Traversable bool
	Reachable   int // tiles reachable from spawn
}

var Level = donburi.NewComponentType[LevelData]()
