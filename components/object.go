package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/shared/grid"
)

type ObjectData struct {
	*resolv.Object
	Tile grid.Tile // tile kind the body was meshed from
}

var Object = donburi.NewComponentType[ObjectData]()
