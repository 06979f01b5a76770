package generation

import (
	"math/rand/v2"

	"github.com/automoto/doomerang-levelgen/config"
)

// Cave modes.
const (
	CaveNoise     = "noise"
	CaveAutomaton = "automaton"
)

// cellularCaves seeds a w x h wall map with cfg.CaveFill walls and runs
// cfg.CaveIterations smoothing steps. A wall with fewer than CaveDeath wall
// neighbours opens up; an open cell with more than CaveBirth becomes wall.
// Cells outside the area count as wall so caves stay closed at the edges.
// The result is row-major, true for wall.
func cellularCaves(w, h int, cfg config.TerrainConfig, rng *rand.Rand) []bool {
	walls := make([]bool, w*h)
	for i := range walls {
		walls[i] = rng.Float64() < cfg.CaveFill
	}

	next := make([]bool, w*h)
	for iteration := 0; iteration < cfg.CaveIterations; iteration++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				n := countAdjacentWalls(walls, w, h, x, y)
				switch {
				case walls[i] && n < cfg.CaveDeath:
					next[i] = false
				case !walls[i] && n > cfg.CaveBirth:
					next[i] = true
				default:
					next[i] = walls[i]
				}
			}
		}
		walls, next = next, walls
	}
	return walls
}

func countAdjacentWalls(walls []bool, w, h, x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h || walls[ny*w+nx] {
				count++
			}
		}
	}
	return count
}
