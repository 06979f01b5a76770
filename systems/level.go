package systems

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/components"
	"github.com/automoto/doomerang-levelgen/logger"
)

// probeInset keeps the replay probe inside a single space cell.
const probeInset = 2

// ReplayRoute walks a probe body along route through the world's space,
// activating checkpoints on the way. It returns true once the probe reaches
// the finish line.
func ReplayRoute(world donburi.World, route []*NavNode) bool {
	spaceEntry, ok := components.Space.First(world)
	if !ok || len(route) == 0 {
		return false
	}
	space := components.Space.Get(spaceEntry)
	cell := route[0].Grid.CellSize

	probe := resolv.NewObject(0, 0, cell-2*probeInset, cell-2*probeInset)
	space.Add(probe)
	defer space.Remove(probe)

	checkpoints := 0
	for i, n := range route {
		probe.X = float64(n.X)*cell + probeInset
		probe.Y = float64(n.Y)*cell + probeInset
		probe.Update()

		if UpdateCheckpoints(probe) {
			checkpoints++
		}
		if UpdateFinishLine(probe) {
			logger.Log.Debug("route replay reached the finish line",
				zap.Int("steps", i+1), zap.Int("checkpoints", checkpoints))
			return true
		}
	}
	return false
}
