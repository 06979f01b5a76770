package tags

import "github.com/yohamta/donburi"

var (
	Platform         = donburi.NewTag().SetName("Platform")
	FloatingPlatform = donburi.NewTag().SetName("FloatingPlatform")
	OneWayPlatform   = donburi.NewTag().SetName("OneWayPlatform")
	Prefab           = donburi.NewTag().SetName("Prefab")
	Collectible      = donburi.NewTag().SetName("Collectible")
	Checkpoint       = donburi.NewTag().SetName("Checkpoint")
	FinishLine       = donburi.NewTag().SetName("FinishLine")
)

// Resolv tags for physics collision
const (
	ResolvSolid       = "solid"
	ResolvOneWay      = "oneway"
	ResolvPrefab      = "prefab"
	ResolvFloating    = "floating"
	ResolvSensor      = "sensor"
	ResolvCollectible = "collectible"
	ResolvCheckpoint  = "checkpoint"
	ResolvFinishLine  = "finishline"
)
