package generation

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/mathutil"
	"github.com/automoto/doomerang-levelgen/shared/gamemath"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/noise"
	"github.com/automoto/doomerang-levelgen/shared/pathgen"
)

// platformAcceptChance thins cavern platform candidates so runs do not line
// every cave ceiling.
const platformAcceptChance = 0.25

// islandNoiseStep spreads run centers across the island channel.
const islandNoiseStep = 0.173

// terrain synthesizes chunks from world-space noise and the reference path.
// Every column-level decision is a function of the world column, so adjacent
// chunks agree along their shared edge.
type terrain struct {
	cfg     config.TerrainConfig
	field   *noise.Field
	path    *pathgen.Path
	shape   ease.TweenFunc
	catalog *Catalog
	size    int
	maxRun  int
}

func newTerrain(cfg config.TerrainConfig, field *noise.Field, path *pathgen.Path, shape ease.TweenFunc,
	catalog *Catalog, profile gamemath.Profile, size, tileSize int) *terrain {
	maxRun := 1
	if tileSize > 0 {
		jump := gamemath.ComfortableJump(profile, pathgen.ComfortFraction)
		maxRun = max(int(math.Floor(jump.HorizontalDistance/float64(tileSize))), 1)
	}
	return &terrain{
		cfg:     cfg,
		field:   field,
		path:    path,
		shape:   shape,
		catalog: catalog,
		size:    size,
		maxRun:  maxRun,
	}
}

// surfaceAt returns the world row of the ground surface at world column wx.
func (t *terrain) surfaceAt(wx int) int {
	row := int(math.Round(float64(t.size)/2 + t.path.HeightAtWorldX(wx) + t.surfaceOffset(wx)))
	return max(row, t.cfg.Headroom+1)
}

// surfaceOffset is the shaped noise offset at wx, amplified on cliffs.
func (t *terrain) surfaceOffset(wx int) float64 {
	offset := t.shapedOffset(wx)
	if t.isCliff(wx) {
		offset *= t.cfg.CliffAmplify
	}
	return offset
}

func (t *terrain) shapedOffset(wx int) float64 {
	n := t.field.FBM(noise.Surface, float64(wx), 0, t.cfg.NoiseScale)
	return math.Copysign(float64(t.shape(float32(math.Abs(n)), 0, 1, 1)), n) * t.cfg.Amplitude
}

// isCliff reports whether the surface noise slope at wx, in noise units per
// NoiseScale columns, exceeds CliffSlope.
func (t *terrain) isCliff(wx int) bool {
	x := float64(wx)
	slope := (t.field.FBM(noise.Surface, x+1, 0, t.cfg.NoiseScale) -
		t.field.FBM(noise.Surface, x-1, 0, t.cfg.NoiseScale)) / 2 * t.cfg.NoiseScale
	return math.Abs(slope) > t.cfg.CliffSlope
}

// rawGap reports whether the gap channel is above threshold at wx. Columns of
// chunk 0 and to its left never gap.
func (t *terrain) rawGap(wx int) bool {
	if !t.cfg.Gaps || wx < t.size {
		return false
	}
	return t.field.Line(float64(wx)*t.cfg.GapScale) > t.cfg.GapThreshold
}

// isGap applies the jump cap: a column is a gap only while fewer than maxRun
// raw gap columns precede it.
func (t *terrain) isGap(wx int) bool {
	if !t.rawGap(wx) {
		return false
	}
	run := 0
	for x := wx - 1; run < t.maxRun && t.rawGap(x); x-- {
		run++
	}
	return run < t.maxRun
}

// gapRun is a half-open range of world gap columns.
type gapRun struct {
	start, end int
}

func (r gapRun) center() int { return r.start + (r.end-r.start)/2 }

// gapRuns returns the complete gap runs starting inside [from, to).
func (t *terrain) gapRuns(from, to int) []gapRun {
	var runs []gapRun
	inRun := t.isGap(from)
	start := from
	for wx := from; wx <= to; wx++ {
		gap := wx < to && t.isGap(wx)
		switch {
		case gap && !inRun:
			start, inRun = wx, true
		case !gap && inRun:
			// A run already open at from started before the window.
			if start != from || !t.isGap(from-1) {
				runs = append(runs, gapRun{start: start, end: wx})
			}
			inRun = false
		}
	}
	return runs
}

// synthesize builds the chunk grid at (cx, cy).
func (t *terrain) synthesize(cx, cy int, rng *rand.Rand) (*grid.Grid, []PlacedStructure) {
	size := t.size
	wx0, wy0 := cx*size, cy*size
	g := grid.New(size, size, grid.Empty)
	cave := make([]bool, size*size)
	var walls []bool
	if t.cfg.Caves && t.cfg.CaveMode == CaveAutomaton {
		walls = cellularCaves(size, size, t.cfg, rng)
	}

	surface := make([]int, size)
	for x := 0; x < size; x++ {
		wx := wx0 + x
		top := t.surfaceAt(wx)
		surface[x] = top
		for y := max(top-wy0, 0); y < size; y++ {
			g.Set(x, y, grid.Solid)
		}
		if !t.cfg.Caves {
			continue
		}
		for y := 0; y < size; y++ {
			wy := wy0 + y
			if wy < top+t.cfg.SurfaceDepth {
				continue
			}
			if t.openCave(walls, x, y, wx, wy) {
				g.Set(x, y, grid.Empty)
				cave[y*size+x] = true
			}
		}
	}

	t.carveGaps(g, surface, wx0, wy0)
	t.placeIslands(g, wx0, wy0)
	if t.cfg.Rhythm {
		t.placeRhythm(g, cx, wx0, wy0)
	}

	var placed []PlacedStructure
	if cx > 0 && t.cfg.Platforms && rng.Float64() < t.cfg.PlatformChance {
		placed = t.placePlatforms(g, cave, rng, placed)
	}
	if cx > 0 && t.cfg.Prefabs && rng.Float64() < t.cfg.PrefabChance {
		placed = t.placePrefabs(g, cy, rng, placed)
	}

	if cy == 0 && t.cfg.Headroom > 0 {
		g.ClearRect(0, 0, size, t.cfg.Headroom)
	}
	return g, placed
}

// openCave reports whether the cave pass opens chunk cell (x, y): from the
// automaton wall map when one was run, otherwise from the cave noise channel.
func (t *terrain) openCave(walls []bool, x, y, wx, wy int) bool {
	if walls != nil {
		return !walls[y*t.size+x]
	}
	return t.field.FBM(noise.Caves, float64(wx), float64(wy), t.cfg.CaveScale) > t.cfg.CaveThreshold
}

func (t *terrain) carveGaps(g *grid.Grid, surface []int, wx0, wy0 int) {
	if !t.cfg.Gaps {
		return
	}
	size := t.size
	for x := 0; x < size; x++ {
		if !t.isGap(wx0 + x) {
			continue
		}
		from := surface[x] - wy0
		depth := size - from
		if t.cfg.GapDepth > 0 {
			depth = min(depth, t.cfg.GapDepth)
		}
		g.ClearRect(x, from, 1, depth)
	}
}

func (t *terrain) placeIslands(g *grid.Grid, wx0, wy0 int) {
	if !t.cfg.Gaps || !t.cfg.Islands || t.cfg.IslandWidth <= 0 {
		return
	}
	reach := t.maxRun + t.cfg.IslandWidth
	for _, run := range t.gapRuns(wx0-reach, wx0+t.size+reach) {
		c := run.center()
		roll := (t.field.Simplex(noise.Islands, float64(c)*islandNoiseStep, 0.5) + 1) / 2
		if roll >= t.cfg.IslandChance {
			continue
		}
		row := max(t.surfaceAt(c)-t.cfg.IslandLift, t.cfg.Headroom+1)
		left := c - t.cfg.IslandWidth/2
		g.FillRect(left-wx0, row-wy0, t.cfg.IslandWidth, 1, grid.Solid)
	}
}

// placeRhythm stamps a platform at every rhythm node overlapping the chunk.
// Neighbouring chunks' nodes are included so platforms on a chunk edge are
// not cut in half.
func (t *terrain) placeRhythm(g *grid.Grid, cx, wx0, wy0 int) {
	w := t.cfg.RhythmWidth
	if w <= 0 {
		return
	}
	for ncx := cx - 1; ncx <= cx+1; ncx++ {
		for _, node := range t.path.NodesInChunk(ncx, t.size) {
			wy := max(int(math.Round(float64(t.size)/2+node.Y)), t.cfg.Headroom+1)
			x := node.TileX() - w/2 - wx0
			y := wy - wy0
			if x+w+1 < 0 || x-1 >= t.size {
				continue
			}
			g.ClearRect(x-1, y-t.cfg.RhythmHeadroom, w+2, t.cfg.RhythmHeadroom)
			g.FillRect(x, y, w, 1, grid.Solid)
			if g.InBounds(x+w/2, y-1) {
				g.Set(x+w/2, y-1, grid.Collectible)
			}
		}
	}
}

func (t *terrain) platformStructure() *Structure {
	w := max(t.cfg.PlatformWidth, 1)
	for _, s := range t.catalog.Role(RolePlatform) {
		if s.Width == w && s.Height == 1 {
			return s
		}
	}
	pattern := grid.New(w, 1, grid.OneWayPlatform)
	return NewStructure("one_way_platform", RolePlatform, pattern)
}

// placePlatforms drops one-way runs into cave pockets that have a floor
// close enough below to land on and open air above.
func (t *terrain) placePlatforms(g *grid.Grid, cave []bool, rng *rand.Rand, placed []PlacedStructure) []PlacedStructure {
	s := t.platformStructure()
	size, w := t.size, s.Width
	var accepted []grid.Point
	for y := t.cfg.PlatformHeadroom; y < size-2; y++ {
		for x := 0; x+w <= size; x++ {
			if len(accepted) >= t.cfg.PlatformMax {
				return placed
			}
			if !t.platformFits(g, cave, x, y, w) || tooClose(accepted, x, y, t.cfg.PlatformSpacing) {
				continue
			}
			if rng.Float64() >= platformAcceptChance || !CanPlace(g, s, x, y, placed) {
				continue
			}
			placed = PlaceStructure(g, PlacedStructure{Structure: s, X: x, Y: y}, placed)
			accepted = append(accepted, grid.Point{X: x, Y: y})
		}
	}
	if len(accepted) > 0 {
		logger.Log.Debug("cavern platforms placed", zap.Int("count", len(accepted)))
	}
	return placed
}

func (t *terrain) platformFits(g *grid.Grid, cave []bool, x, y, w int) bool {
	size := t.size
	for dx := 0; dx < w; dx++ {
		if !cave[y*size+x+dx] {
			return false
		}
		for dy := 0; dy <= t.cfg.PlatformHeadroom; dy++ {
			if !g.Is(x+dx, y-dy, grid.Empty) {
				return false
			}
		}
	}
	cx := x + w/2
	for d := 2; d <= t.cfg.PlatformFloorSearch; d++ {
		if g.Is(cx, y+d, grid.Solid) {
			return true
		}
	}
	return false
}

func tooClose(points []grid.Point, x, y, spacing int) bool {
	for _, p := range points {
		if mathutil.AbsInt(p.X-x) < spacing && mathutil.AbsInt(p.Y-y) < spacing {
			return true
		}
	}
	return false
}

// placePrefabs stamps prefab structures onto flat stretches of the ground.
func (t *terrain) placePrefabs(g *grid.Grid, cy int, rng *rand.Rand, placed []PlacedStructure) []PlacedStructure {
	prefabs := t.catalog.Role(RolePrefab)
	if len(prefabs) == 0 {
		return placed
	}
	minY := 0
	if cy == 0 {
		minY = t.cfg.Headroom
	}
	size := t.size
	lastX := math.MinInt / 2
	x := 0
	for x < size {
		top := firstBlocking(g, x, 0)
		end := x + 1
		for end < size && firstBlocking(g, end, 0) == top {
			end++
		}
		s := prefabs[rng.IntN(len(prefabs))]
		px, py := x+1, top-s.Height
		if top < size && end-x >= s.Width+2 && py >= minY && px-lastX >= t.cfg.PrefabSpacing &&
			CanPlace(g, s, px, py, placed) {
			g.ClearRect(px, py, s.Width, s.Height)
			placed = PlaceStructure(g, PlacedStructure{Structure: s, X: px, Y: py}, placed)
			lastX = px
			logger.Log.Debug("prefab stamped",
				zap.String("structure", s.Name), zap.Int("x", px), zap.Int("y", py))
		}
		x = end
	}
	return placed
}
