package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// Tween drives a floating platform's vertical bob.
var Tween = donburi.NewComponentType[gween.Sequence]()
