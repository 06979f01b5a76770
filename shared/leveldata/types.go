// Package leveldata exports generated levels as Tiled maps and PNG previews
// and reads Tiled maps back into tile grids. It has no dependencies on
// donburi or resolv.
package leveldata

import "github.com/automoto/doomerang-levelgen/shared/grid"

// Layer and object group names shared by the writer and the loader.
const (
	TileLayer       = "wg-tiles"
	SpawnGroup      = "PlayerSpawn"
	FinishLineGroup = "FinishLine"
	TilesetName     = "levelgen"
	KindProperty    = "kind"
	SpawnIndexProp  = "spawnIndex"
	ReachableProp   = "reachable"
	TraversableProp = "traversable"
)

// CollisionData holds all collision-relevant data parsed from a TMX level file.
type CollisionData struct {
	SolidRects  []SolidRect
	SpawnPoints []SpawnPoint
	FinishLines []Marker
	MapWidth    int
	MapHeight   int
	TileWidth   int
	TileHeight  int
}

// SolidRect represents one colliding tile.
type SolidRect struct {
	X, Y, W, H float64
	Kind       grid.Tile
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	X, Y  float64
	Index int
}

// Marker is a point of interest in world pixels.
type Marker struct {
	X, Y float64
}

// Tile returns the cell containing the marker.
func (m Marker) Tile(tileSize int) grid.Point {
	if tileSize <= 0 {
		return grid.Point{}
	}
	return grid.Point{X: int(m.X) / tileSize, Y: int(m.Y) / tileSize}
}

// Level is a loaded map: its tile grid plus the collision data derived from it.
type Level struct {
	Name      string
	Grid      *grid.Grid
	Collision *CollisionData
}

// Spawn returns the first spawn point as a cell, if the map has one.
func (l *Level) Spawn() (grid.Point, bool) {
	if len(l.Collision.SpawnPoints) == 0 {
		return grid.Point{}, false
	}
	sp := l.Collision.SpawnPoints[0]
	return Marker{X: sp.X, Y: sp.Y}.Tile(l.Collision.TileWidth), true
}

// Goal returns the first finish line as a cell, if the map has one.
func (l *Level) Goal() (grid.Point, bool) {
	if len(l.Collision.FinishLines) == 0 {
		return grid.Point{}, false
	}
	return l.Collision.FinishLines[0].Tile(l.Collision.TileWidth), true
}

// Export is what the writers need from a generated level.
type Export struct {
	Grid        *grid.Grid
	TileSize    int
	Spawn       *Marker
	Goal        *Marker
	Traversable bool
	Reachable   int
}

// NewLevel derives collision data from a tile grid. Markers are in world
// pixels; nil markers are left out.
func NewLevel(name string, g *grid.Grid, tileSize int, spawn, goal *Marker) *Level {
	data := &CollisionData{
		SolidRects: solidRects(g, tileSize, tileSize),
		MapWidth:   g.Width() * tileSize,
		MapHeight:  g.Height() * tileSize,
		TileWidth:  tileSize,
		TileHeight: tileSize,
	}
	if spawn != nil {
		data.SpawnPoints = []SpawnPoint{{X: spawn.X, Y: spawn.Y}}
	}
	if goal != nil {
		data.FinishLines = []Marker{*goal}
	}
	return &Level{Name: name, Grid: g, Collision: data}
}

// solidRects returns one rect per colliding tile.
func solidRects(g *grid.Grid, tileW, tileH int) []SolidRect {
	var rects []SolidRect
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			t, _ := g.Lookup(x, y)
			if !t.Collides() {
				continue
			}
			rects = append(rects, SolidRect{
				X:    float64(x * tileW),
				Y:    float64(y * tileH),
				W:    float64(tileW),
				H:    float64(tileH),
				Kind: t,
			})
		}
	}
	return rects
}
