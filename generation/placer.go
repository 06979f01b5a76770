package generation

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/mathutil"
	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// PlacedStructure records where a structure was stamped.
type PlacedStructure struct {
	Structure *Structure
	X, Y      int
}

// Overlaps reports whether the bounding boxes of p and a structure of size
// w x h at (x, y) intersect.
func (p PlacedStructure) Overlaps(x, y, w, h int) bool {
	return x < p.X+p.Structure.Width &&
		x+w > p.X &&
		y < p.Y+p.Structure.Height &&
		y+h > p.Y
}

// CanPlace reports whether s fits inside g at (x, y) without its bounding
// box touching any placed structure's bounding box.
func CanPlace(g *grid.Grid, s *Structure, x, y int, placed []PlacedStructure) bool {
	if x < 0 || y < 0 || x+s.Width > g.Width() || y+s.Height > g.Height() {
		return false
	}
	for _, p := range placed {
		if p.Overlaps(x, y, s.Width, s.Height) {
			return false
		}
	}
	return true
}

// PlaceStructure stamps the non-empty cells of p and returns placed with p
// appended.
func PlaceStructure(g *grid.Grid, p PlacedStructure, placed []PlacedStructure) []PlacedStructure {
	g.Stamp(p.X, p.Y, p.Structure.Pattern)
	return append(placed, p)
}

// Placer lays a random-walk floor and scatters catalog structures over it.
type Placer struct {
	cfg      config.PlacerConfig
	rng      *rand.Rand
	catalog  *Catalog
	headroom int
}

// NewPlacer creates a placer drawing from rng. Rows above headroom are never
// used by floating placements.
func NewPlacer(cfg config.PlacerConfig, rng *rand.Rand, catalog *Catalog, headroom int) *Placer {
	return &Placer{cfg: cfg, rng: rng, catalog: catalog, headroom: headroom}
}

// PlaceFloor builds a random-walk surface between TopPadding and
// height-BottomPadding and fills every column solid beneath it. It returns the
// surface row of each column.
func (p *Placer) PlaceFloor(g *grid.Grid) []int {
	w, h := g.Width(), g.Height()
	if w == 0 {
		return nil
	}
	lo := mathutil.ClampInt(p.cfg.TopPadding, p.headroom+1, h-1)
	hi := mathutil.ClampInt(h-p.cfg.BottomPadding, lo, h-1)

	surface := make([]int, w)
	cur := lo + p.rng.IntN(hi-lo+1)
	for x := range surface {
		cur = mathutil.ClampInt(cur+p.rng.IntN(3)-1, lo, hi)
		surface[x] = cur
	}

	for pass := 0; pass < p.cfg.SmoothingPasses; pass++ {
		next := make([]int, w)
		for x := range surface {
			l := surface[max(x-1, 0)]
			r := surface[min(x+1, w-1)]
			next[x] = surface[x]
			// Smooth a random subset so some ledges survive.
			if p.rng.IntN(2) == 0 {
				next[x] = (l + 2*surface[x] + r + 2) / 4
			}
		}
		surface = next
	}

	for x, top := range surface {
		g.FillRect(x, top, 1, h-top, grid.Solid)
	}
	return surface
}

// Scatter tries up to MaxStructures catalog picks, each at up to MaxAttempts
// random positions. Grounded picks rest on the surface; FloatingChance of them
// float anywhere above it.
func (p *Placer) Scatter(g *grid.Grid, placed []PlacedStructure) []PlacedStructure {
	pool := p.catalog.Role(RoleScatter)
	if len(pool) == 0 {
		return placed
	}
	for i := 0; i < p.cfg.MaxStructures; i++ {
		s := pool[p.rng.IntN(len(pool))]
		floating := p.rng.Float64() < p.cfg.FloatingChance
		x, y, ok := p.findSlot(g, s, floating, placed)
		if !ok {
			logger.Log.Debug("structure skipped, no free slot",
				zap.String("structure", s.Name), zap.Bool("floating", floating))
			continue
		}
		placed = PlaceStructure(g, PlacedStructure{Structure: s, X: x, Y: y}, placed)
	}
	return placed
}

func (p *Placer) findSlot(g *grid.Grid, s *Structure, floating bool, placed []PlacedStructure) (int, int, bool) {
	if s.Width > g.Width() || s.Height > g.Height() {
		return 0, 0, false
	}
	for attempt := 0; attempt < p.cfg.MaxAttempts; attempt++ {
		x := p.rng.IntN(g.Width() - s.Width + 1)
		top := groundUnder(g, x, s.Width)
		var y int
		if floating {
			span := top - s.Height - p.headroom
			if span <= 0 {
				continue
			}
			y = p.headroom + p.rng.IntN(span)
		} else {
			y = top - s.Height
			if y < p.headroom || top >= g.Height() {
				continue
			}
		}
		if CanPlace(g, s, x, y, placed) {
			return x, y, true
		}
	}
	return 0, 0, false
}

// groundUnder returns the highest blocking row under columns [x, x+w), or
// the grid height when the span is open to the bottom.
func groundUnder(g *grid.Grid, x, w int) int {
	top := g.Height()
	for cx := x; cx < x+w; cx++ {
		if row := firstBlocking(g, cx, 0); row < top {
			top = row
		}
	}
	return top
}

// firstBlocking returns the first row at or below startY in column x that is
// not passable, or the grid height when there is none.
func firstBlocking(g *grid.Grid, x, startY int) int {
	for y := max(startY, 0); y < g.Height(); y++ {
		if t, ok := g.Lookup(x, y); ok && !t.Passable() {
			return y
		}
	}
	return g.Height()
}
