package systems

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/tags"
)

// UpdateCheckpoints activates any checkpoint the probe overlaps. It reports
// whether a checkpoint was newly activated.
func UpdateCheckpoints(probe *resolv.Object) bool {
	check := probe.Check(0, 0, tags.ResolvCheckpoint)
	if check == nil {
		return false
	}

	activated := false
	for _, o := range check.ObjectsByTags(tags.ResolvCheckpoint) {
		// Get the checkpoint entity from the resolv object
		entry, ok := o.Data.(*donburi.Entry)
		if !ok || entry == nil || !entry.HasComponent(components.Checkpoint) {
			continue
		}
		checkpoint := components.Checkpoint.Get(entry)
		if checkpoint.Activated {
			continue
		}
		checkpoint.Activated = true
		activated = true
	}
	return activated
}
