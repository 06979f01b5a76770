package core

import (
	"fmt"

	"github.com/solarlune/resolv"

	"github.com/automoto/doomerang-levelgen/shared/gamemath"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/leveldata"
	"github.com/automoto/doomerang-levelgen/shared/traverse"
	"github.com/automoto/doomerang-levelgen/systems"
	"github.com/automoto/doomerang-levelgen/tags"
)

// ServerLevel is a submitted level with its collision space.
type ServerLevel struct {
	Grid     *grid.Grid
	Space    *resolv.Space
	TileSize int
	Spawn    grid.Point
	Goal     grid.Point
}

// Report is the outcome of validating a level.
type Report struct {
	Traversable bool         `json:"traversable"`
	Reachable   int          `json:"reachable"`
	Spawn       grid.Point   `json:"spawn"`
	Goal        grid.Point   `json:"goal"`
	Route       []grid.Point `json:"route,omitempty"`
}

// NewServerLevel builds a resolv.Space from parsed collision data.
func NewServerLevel(lvl *leveldata.Level) (*ServerLevel, error) {
	data := lvl.Collision
	spawn, ok := lvl.Spawn()
	if !ok {
		return nil, fmt.Errorf("level %q has no %s object", lvl.Name, leveldata.SpawnGroup)
	}
	goal, ok := lvl.Goal()
	if !ok {
		return nil, fmt.Errorf("level %q has no %s object", lvl.Name, leveldata.FinishLineGroup)
	}

	space := resolv.NewSpace(data.MapWidth, data.MapHeight, data.TileWidth, data.TileHeight)
	for _, r := range data.SolidRects {
		tag := tags.ResolvSolid
		if r.Kind == grid.OneWayPlatform {
			tag = tags.ResolvOneWay
		}
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tag)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		space.Add(obj)
	}

	return &ServerLevel{
		Grid:     lvl.Grid,
		Space:    space,
		TileSize: data.TileWidth,
		Spawn:    spawn,
		Goal:     goal,
	}, nil
}

// Validate runs the traversability check and, when it passes, extracts a
// route through the collision space.
func (l *ServerLevel) Validate(profile gamemath.Profile) Report {
	v := traverse.New(l.Grid, profile, l.TileSize)
	rep := Report{
		Traversable: v.IsTraversable(l.Spawn, l.Goal),
		Reachable:   v.Reachable(l.Spawn),
		Spawn:       l.Spawn,
		Goal:        l.Goal,
	}
	if rep.Traversable {
		w, h := l.Grid.Width()*l.TileSize, l.Grid.Height()*l.TileSize
		nav := systems.CreateNavGridFromSpace(l.Space, w, h, float64(l.TileSize), profile)
		rep.Route = systems.Tiles(nav.FindTilePath(l.Spawn, l.Goal))
	}
	return rep
}
