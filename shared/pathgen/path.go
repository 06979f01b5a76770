// Package pathgen builds the reference height profile levels are laid along
// and the rhythm nodes where jump platforms go.
package pathgen

import (
	"math"
	"sort"

	"github.com/automoto/doomerang-levelgen/shared/gamemath"
)

// TilesPerUnit converts path units to tile columns.
const TilesPerUnit = 20

// ComfortFraction is the share of the max jump used to space rhythm nodes.
const ComfortFraction = 0.7

const samplesPerSegment = 64

// Point is a position in path units. Y is in tile rows relative to the
// world's vertical center, +Y down.
type Point struct {
	X, Y float64
}

// Node is a rhythm node in path units.
type Node struct {
	X, Y float64
}

// TileX returns the world tile column of the node.
func (n Node) TileX() int {
	return int(math.Round(n.X * TilesPerUnit))
}

// TileY returns the node's row offset from the world's vertical center.
func (n Node) TileY() int {
	return int(math.Round(n.Y))
}

// DefaultControlPoints is the reference profile. Both ends sit at y=0 so the
// path tiles seamlessly.
var DefaultControlPoints = []Point{
	{0, 0}, {50, 5}, {100, -5}, {150, 10}, {200, 0},
	{250, -15}, {300, 0}, {350, 20}, {400, 0},
}

type lutEntry struct {
	dist float64
	t    float64
}

// Path is a uniform Catmull-Rom spline through control points with
// increasing, evenly spaced X.
type Path struct {
	points []Point
	lut    []lutEntry
	length float64
	step   float64
	nodes  []Node
}

// New builds a path through points with rhythm nodes every step units of arc
// length. A non-positive step disables rhythm nodes.
func New(points []Point, step float64) *Path {
	pts := make([]Point, len(points))
	copy(pts, points)
	p := &Path{points: pts, step: step}
	p.buildLUT()
	p.buildNodes()
	return p
}

// ForProfile builds the default path with nodes spaced one comfortable jump
// apart for tileSize-pixel tiles.
func ForProfile(profile gamemath.Profile, tileSize int) *Path {
	return New(DefaultControlPoints, RhythmStep(profile, tileSize))
}

// RhythmStep converts the comfortable jump distance from pixels to path units.
func RhythmStep(profile gamemath.Profile, tileSize int) float64 {
	if tileSize <= 0 {
		return 0
	}
	px := gamemath.ComfortableJump(profile, ComfortFraction).HorizontalDistance
	return px / float64(tileSize) / TilesPerUnit
}

func (p *Path) segments() int { return len(p.points) - 1 }

// control returns point i, extrapolating linearly past both ends so the end
// segments keep X linear in t.
func (p *Path) control(i int) Point {
	n := len(p.points)
	switch {
	case i < 0:
		a, b := p.points[0], p.points[1]
		return Point{2*a.X - b.X, 2*a.Y - b.Y}
	case i >= n:
		a, b := p.points[n-1], p.points[n-2]
		return Point{2*a.X - b.X, 2*a.Y - b.Y}
	}
	return p.points[i]
}

// PointAt returns the curve position at t in [0, 1] across the whole path.
func (p *Path) PointAt(t float64) Point {
	if p.segments() < 1 {
		if len(p.points) == 1 {
			return p.points[0]
		}
		return Point{}
	}
	t = math.Max(0, math.Min(1, t))
	f := t * float64(p.segments())
	i := int(f)
	if i >= p.segments() {
		i = p.segments() - 1
	}
	return catmullRom(p.control(i-1), p.control(i), p.control(i+1), p.control(i+2), f-float64(i))
}

func catmullRom(p0, p1, p2, p3 Point, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	f := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (-a+c)*t + (2*a-5*b+4*c-d)*t2 + (-a+3*b-3*c+d)*t3)
	}
	return Point{f(p0.X, p1.X, p2.X, p3.X), f(p0.Y, p1.Y, p2.Y, p3.Y)}
}

func (p *Path) buildLUT() {
	n := p.segments() * samplesPerSegment
	if n <= 0 {
		return
	}
	p.lut = make([]lutEntry, 0, n+1)
	prev := p.PointAt(0)
	dist := 0.0
	p.lut = append(p.lut, lutEntry{0, 0})
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		pt := p.PointAt(t)
		dist += math.Hypot(pt.X-prev.X, pt.Y-prev.Y)
		p.lut = append(p.lut, lutEntry{dist, t})
		prev = pt
	}
	p.length = dist
}

// Length returns the approximate arc length in path units.
func (p *Path) Length() float64 { return p.length }

// Span returns the X extent of one period of the path.
func (p *Path) Span() float64 {
	if len(p.points) < 2 {
		return 0
	}
	return p.points[len(p.points)-1].X - p.points[0].X
}

// TAtDistance maps an arc length to the curve parameter.
func (p *Path) TAtDistance(d float64) float64 {
	if len(p.lut) == 0 || d <= 0 {
		return 0
	}
	if d >= p.length {
		return 1
	}
	i := sort.Search(len(p.lut), func(i int) bool { return p.lut[i].dist >= d })
	a, b := p.lut[i-1], p.lut[i]
	if b.dist == a.dist {
		return b.t
	}
	return a.t + (b.t-a.t)*(d-a.dist)/(b.dist-a.dist)
}

// PointAtDistance returns the curve position d units along the path.
func (p *Path) PointAtDistance(d float64) Point {
	return p.PointAt(p.TAtDistance(d))
}

func (p *Path) buildNodes() {
	if p.step <= 0 {
		return
	}
	for d := 0.0; d < p.length; d += p.step {
		pt := p.PointAtDistance(d)
		p.nodes = append(p.nodes, Node{X: pt.X, Y: pt.Y})
	}
}

// Nodes returns the rhythm nodes of one period.
func (p *Path) Nodes() []Node { return p.nodes }

// HeightAt returns the curve Y at unit position x. Beyond the last control
// point the path repeats.
func (p *Path) HeightAt(x float64) float64 {
	span := p.Span()
	if span <= 0 {
		return 0
	}
	x0 := p.points[0].X
	u := math.Mod(x-x0, span)
	if u < 0 {
		u += span
	}
	seg := span / float64(p.segments())
	i := int(u / seg)
	if i >= p.segments() {
		i = p.segments() - 1
	}
	local := (u - float64(i)*seg) / seg
	return catmullRom(p.control(i-1), p.control(i), p.control(i+1), p.control(i+2), local).Y
}

// HeightAtWorldX returns the path height in tile rows at a world column.
func (p *Path) HeightAtWorldX(worldTileX int) float64 {
	return p.HeightAt(float64(worldTileX) / TilesPerUnit)
}

// NodesInChunk returns the nodes whose tile column falls in chunk chunkX,
// including nodes from repeated periods.
func (p *Path) NodesInChunk(chunkX, chunkSize int) []Node {
	span := p.Span()
	if span <= 0 || len(p.nodes) == 0 || chunkSize <= 0 {
		return nil
	}
	start := chunkX * chunkSize
	end := start + chunkSize
	startUnit := float64(start) / TilesPerUnit
	endUnit := float64(end) / TilesPerUnit
	x0 := p.points[0].X

	var out []Node
	first := int(math.Floor((startUnit-x0)/span)) - 1
	last := int(math.Floor((endUnit-x0)/span)) + 1
	for k := first; k <= last; k++ {
		shift := float64(k) * span
		for _, n := range p.nodes {
			moved := Node{X: n.X + shift, Y: n.Y}
			tx := moved.TileX()
			if tx >= start && tx < end {
				out = append(out, moved)
			}
		}
	}
	return out
}
