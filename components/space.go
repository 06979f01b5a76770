package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Space holds the world's collision space. There is one per world.
var Space = donburi.NewComponentType[resolv.Space]()
