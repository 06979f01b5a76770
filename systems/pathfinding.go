package systems

import (
	"math"

	astar "github.com/beefsack/go-astar"
	"github.com/solarlune/resolv"

	"github.com/automoto/doomerang-levelgen/mathutil"
	"github.com/automoto/doomerang-levelgen/shared/gamemath"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/tags"
)

// fallCells is how far a jump may land below its takeoff.
const fallCells = 2

// NavGrid represents the walkable areas of a generated level
type NavGrid struct {
	Width, Height int
	CellSize      float64
	Profile       gamemath.Profile
	Nodes         [][]*NavNode // 2D grid of nodes
}

// NavNode represents a single cell in the navigation grid
// Implements astar.Pather interface
type NavNode struct {
	X, Y     int
	Walkable bool     // Can stand/move through this cell
	Grid     *NavGrid // Reference to parent grid for neighbor lookup
}

// PathNeighbors returns adjacent walkable nodes (implements astar.Pather)
func (n *NavNode) PathNeighbors() []astar.Pather {
	var neighbors []astar.Pather

	// 8-directional movement (cardinal + diagonal)
	dirs := []struct{ dx, dy int }{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1}, // Cardinal
		{-1, -1}, {1, -1}, {-1, 1}, {1, 1}, // Diagonal
	}

	for _, d := range dirs {
		nx, ny := n.X+d.dx, n.Y+d.dy
		if !n.Grid.inBounds(nx, ny) {
			continue
		}
		neighbor := n.Grid.Nodes[ny][nx]
		if neighbor.Walkable {
			neighbors = append(neighbors, neighbor)
		}
	}

	// Add jump targets for platformer navigation
	neighbors = append(neighbors, n.getJumpTargets()...)

	return neighbors
}

// PathNeighborCost returns the movement cost between adjacent nodes (implements astar.Pather)
func (n *NavNode) PathNeighborCost(to astar.Pather) float64 {
	toNode := to.(*NavNode)

	dx := float64(toNode.X - n.X)
	dy := float64(toNode.Y - n.Y)
	baseCost := math.Sqrt(dx*dx + dy*dy)

	// Jumping is harder than walking
	if dy < 0 {
		baseCost *= 1.5
	}

	return baseCost
}

// PathEstimatedCost returns heuristic distance to target (implements astar.Pather)
func (n *NavNode) PathEstimatedCost(to astar.Pather) float64 {
	toNode := to.(*NavNode)

	dx := float64(toNode.X - n.X)
	dy := float64(toNode.Y - n.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// getJumpTargets returns landing cells reachable with one jump of the
// grid's player profile.
func (n *NavNode) getJumpTargets() []astar.Pather {
	var targets []astar.Pather

	jump := gamemath.MaxJump(n.Grid.Profile)
	cellSize := n.Grid.CellSize
	maxJumpHeightCells := int(jump.MaxHeight / cellSize)
	maxJumpDistCells := int(jump.HorizontalDistance / cellSize)

	for dy := -maxJumpHeightCells; dy <= fallCells; dy++ {
		for dx := -maxJumpDistCells; dx <= maxJumpDistCells; dx++ {
			// Small moves are covered by regular neighbors
			if mathutil.AbsInt(dx) <= 1 && mathutil.AbsInt(dy) <= 1 {
				continue
			}

			nx, ny := n.X+dx, n.Y+dy
			if !n.Grid.inBounds(nx, ny) {
				continue
			}
			if !n.isJumpReachable(dx, dy) {
				continue
			}

			// Must be open and have something to land on
			target := n.Grid.Nodes[ny][nx]
			if target.Walkable && n.Grid.hasGroundBelow(nx, ny) {
				targets = append(targets, target)
			}
		}
	}

	return targets
}

// isJumpReachable checks the jump arc against the profile. dy is in cells,
// negative up.
func (n *NavNode) isJumpReachable(dx, dy int) bool {
	cellSize := n.Grid.CellSize
	horizontal := math.Abs(float64(dx)) * cellSize
	height := -float64(dy) * cellSize
	return gamemath.CanTraverse(n.Grid.Profile, horizontal, height)
}

func (g *NavGrid) inBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// hasGroundBelow checks if there's solid ground beneath a position
func (g *NavGrid) hasGroundBelow(x, y int) bool {
	belowY := y + 1
	if belowY >= g.Height {
		return true // Bottom of level counts as ground
	}
	return !g.Nodes[belowY][x].Walkable
}

func newNavGrid(w, h int, cellSize float64, profile gamemath.Profile) *NavGrid {
	g := &NavGrid{
		Width:    w,
		Height:   h,
		CellSize: cellSize,
		Profile:  profile,
		Nodes:    make([][]*NavNode, h),
	}
	for y := 0; y < h; y++ {
		g.Nodes[y] = make([]*NavNode, w)
		for x := 0; x < w; x++ {
			g.Nodes[y][x] = &NavNode{X: x, Y: y, Walkable: true, Grid: g}
		}
	}
	return g
}

// CreateNavGrid builds a navigation grid with one node per tile of level.
func CreateNavGrid(level *grid.Grid, profile gamemath.Profile, tileSize int) *NavGrid {
	g := newNavGrid(level.Width(), level.Height(), float64(tileSize), profile)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Nodes[y][x].Walkable = level.Get(x, y).Passable()
		}
	}
	return g
}

// CreateNavGridFromSpace builds a navigation grid by probing solid bodies in
// a resolv space.
func CreateNavGridFromSpace(space *resolv.Space, levelWidth, levelHeight int, cellSize float64, profile gamemath.Profile) *NavGrid {
	gridW := int(float64(levelWidth) / cellSize)
	gridH := int(float64(levelHeight) / cellSize)
	g := newNavGrid(gridW, gridH, cellSize, profile)

	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			worldX := float64(x) * cellSize
			worldY := float64(y) * cellSize

			testObj := resolv.NewObject(worldX+2, worldY+2, cellSize-4, cellSize-4)
			space.Add(testObj)
			if testObj.Check(0, 0, tags.ResolvSolid, tags.ResolvOneWay) != nil {
				g.Nodes[y][x].Walkable = false
			}
			space.Remove(testObj)
		}
	}

	return g
}

// FindPath uses go-astar to find path between world coordinates
func (g *NavGrid) FindPath(startX, startY, goalX, goalY float64) []*NavNode {
	sx := mathutil.ClampInt(int(startX/g.CellSize), 0, g.Width-1)
	sy := mathutil.ClampInt(int(startY/g.CellSize), 0, g.Height-1)
	gx := mathutil.ClampInt(int(goalX/g.CellSize), 0, g.Width-1)
	gy := mathutil.ClampInt(int(goalY/g.CellSize), 0, g.Height-1)
	return g.FindTilePath(grid.Point{X: sx, Y: sy}, grid.Point{X: gx, Y: gy})
}

// FindTilePath finds a route between two cells. Start or goal inside solid
// geometry snaps to the nearest open cell.
func (g *NavGrid) FindTilePath(start, goal grid.Point) []*NavNode {
	if !g.inBounds(start.X, start.Y) || !g.inBounds(goal.X, goal.Y) {
		return nil
	}
	startNode := g.Nodes[start.Y][start.X]
	goalNode := g.Nodes[goal.Y][goal.X]

	if !startNode.Walkable {
		startNode = g.findNearestWalkable(start.X, start.Y)
	}
	if !goalNode.Walkable {
		goalNode = g.findNearestWalkable(goal.X, goal.Y)
	}
	if startNode == nil || goalNode == nil {
		return nil
	}

	path, _, found := astar.Path(startNode, goalNode)
	if !found {
		return nil
	}

	// astar returns the path goal first
	result := make([]*NavNode, len(path))
	for i, p := range path {
		result[len(path)-1-i] = p.(*NavNode)
	}

	return result
}

// findNearestWalkable finds the nearest walkable node to the given position
func (g *NavGrid) findNearestWalkable(x, y int) *NavNode {
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				nx, ny := x+dx, y+dy
				if g.inBounds(nx, ny) && g.Nodes[ny][nx].Walkable {
					return g.Nodes[ny][nx]
				}
			}
		}
	}
	return nil
}

// GridToWorld converts grid coordinates to world coordinates (center of cell)
func (g *NavGrid) GridToWorld(gridX, gridY int) (float64, float64) {
	return float64(gridX)*g.CellSize + g.CellSize/2,
		float64(gridY)*g.CellSize + g.CellSize/2
}

// Tiles converts a route to cell coordinates.
func Tiles(route []*NavNode) []grid.Point {
	out := make([]grid.Point, len(route))
	for i, n := range route {
		out[i] = grid.Point{X: n.X, Y: n.Y}
	}
	return out
}
