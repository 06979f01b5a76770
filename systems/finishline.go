package systems

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/tags"
)

// UpdateFinishLine activates the finish line when the probe overlaps it and
// reports whether it did.
func UpdateFinishLine(probe *resolv.Object) bool {
	check := probe.Check(0, 0, tags.ResolvFinishLine)
	if check == nil {
		return false
	}

	finishLineObjs := check.ObjectsByTags(tags.ResolvFinishLine)
	if len(finishLineObjs) == 0 {
		return false
	}

	// Get the finish line entity from the resolv object
	entry, ok := finishLineObjs[0].Data.(*donburi.Entry)
	if !ok || entry == nil {
		return false
	}
	finishLine := components.FinishLine.Get(entry)
	finishLine.Activated = true
	return true
}
