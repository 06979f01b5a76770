package components

import "github.com/yohamta/donburi"

// ChunkData records which chunk an entity was built for.
type ChunkData struct {
	X, Y int
}

var Chunk = donburi.NewComponentType[ChunkData]()
