package leveldata

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// tileKinds are the tiles written to the embedded tileset, in gid order.
var tileKinds = []grid.Tile{grid.Solid, grid.OneWayPlatform, grid.PrefabBlock, grid.Collectible}

type tmxMap struct {
	XMLName      xml.Name         `xml:"map"`
	Version      string           `xml:"version,attr"`
	Orientation  string           `xml:"orientation,attr"`
	RenderOrder  string           `xml:"renderorder,attr"`
	Width        int              `xml:"width,attr"`
	Height       int              `xml:"height,attr"`
	TileWidth    int              `xml:"tilewidth,attr"`
	TileHeight   int              `xml:"tileheight,attr"`
	Infinite     int              `xml:"infinite,attr"`
	NextLayerID  int              `xml:"nextlayerid,attr"`
	NextObjectID int              `xml:"nextobjectid,attr"`
	Properties   *tmxProperties   `xml:"properties,omitempty"`
	Tileset      tmxTileset       `xml:"tileset"`
	Layer        tmxLayer         `xml:"layer"`
	ObjectGroups []tmxObjectGroup `xml:"objectgroup"`
}

type tmxProperties struct {
	Property []tmxProperty `xml:"property"`
}

type tmxProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:"value,attr"`
}

type tmxTileset struct {
	FirstGID   int       `xml:"firstgid,attr"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	TileCount  int       `xml:"tilecount,attr"`
	Columns    int       `xml:"columns,attr"`
	Tiles      []tmxTile `xml:"tile"`
}

type tmxTile struct {
	ID         int           `xml:"id,attr"`
	Properties tmxProperties `xml:"properties"`
}

type tmxLayer struct {
	ID     int     `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Width  int     `xml:"width,attr"`
	Height int     `xml:"height,attr"`
	Data   tmxData `xml:"data"`
}

type tmxData struct {
	Encoding string `xml:"encoding,attr"`
	CSV      string `xml:",chardata"`
}

type tmxObjectGroup struct {
	ID      int         `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	Objects []tmxObject `xml:"object"`
}

type tmxObject struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr,omitempty"`
	X          float64        `xml:"x,attr"`
	Y          float64        `xml:"y,attr"`
	Properties *tmxProperties `xml:"properties,omitempty"`
	Point      *struct{}      `xml:"point"`
}

// gid returns the global tile id written for t, 0 for empty cells.
func gid(t grid.Tile) int {
	for i, k := range tileKinds {
		if k == t {
			return i + 1
		}
	}
	return 0
}

// WriteTMX writes e as an orthogonal Tiled map with an embedded tileset, a
// CSV tile layer and spawn and finish line object groups.
func WriteTMX(w io.Writer, e Export) error {
	if e.Grid == nil || e.TileSize <= 0 {
		return fmt.Errorf("write tmx: need a grid and a positive tile size")
	}
	g := e.Grid

	var csv strings.Builder
	csv.WriteByte('\n')
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			t, _ := g.Lookup(x, y)
			csv.WriteString(strconv.Itoa(gid(t)))
			if x < g.Width()-1 || y < g.Height()-1 {
				csv.WriteByte(',')
			}
		}
		csv.WriteByte('\n')
	}

	ts := tmxTileset{
		FirstGID:   1,
		Name:       TilesetName,
		TileWidth:  e.TileSize,
		TileHeight: e.TileSize,
		TileCount:  len(tileKinds),
		Columns:    len(tileKinds),
	}
	for i, k := range tileKinds {
		ts.Tiles = append(ts.Tiles, tmxTile{
			ID:         i,
			Properties: tmxProperties{Property: []tmxProperty{{Name: KindProperty, Value: k.String()}}},
		})
	}

	nextObject := 1
	spawns := tmxObjectGroup{ID: 2, Name: SpawnGroup}
	if e.Spawn != nil {
		spawns.Objects = append(spawns.Objects, tmxObject{
			ID: nextObject, Name: "spawn", X: e.Spawn.X, Y: e.Spawn.Y,
			Properties: &tmxProperties{Property: []tmxProperty{{Name: SpawnIndexProp, Type: "int", Value: "0"}}},
			Point:      &struct{}{},
		})
		nextObject++
	}
	finish := tmxObjectGroup{ID: 3, Name: FinishLineGroup}
	if e.Goal != nil {
		finish.Objects = append(finish.Objects, tmxObject{
			ID: nextObject, Name: "goal", X: e.Goal.X, Y: e.Goal.Y, Point: &struct{}{},
		})
		nextObject++
	}

	m := tmxMap{
		Version:      "1.10",
		Orientation:  "orthogonal",
		RenderOrder:  "right-down",
		Width:        g.Width(),
		Height:       g.Height(),
		TileWidth:    e.TileSize,
		TileHeight:   e.TileSize,
		NextLayerID:  4,
		NextObjectID: nextObject,
		Properties: &tmxProperties{Property: []tmxProperty{
			{Name: TraversableProp, Type: "bool", Value: strconv.FormatBool(e.Traversable)},
			{Name: ReachableProp, Type: "int", Value: strconv.Itoa(e.Reachable)},
		}},
		Tileset: ts,
		Layer: tmxLayer{
			ID: 1, Name: TileLayer, Width: g.Width(), Height: g.Height(),
			Data: tmxData{Encoding: "csv", CSV: csv.String()},
		},
		ObjectGroups: []tmxObjectGroup{spawns, finish},
	}

	bw := bufio.NewWriter(w)
	if _, err := io.WriteString(bw, xml.Header); err != nil {
		return fmt.Errorf("write tmx: %w", err)
	}
	enc := xml.NewEncoder(bw)
	enc.Indent("", " ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("write tmx: %w", err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("write tmx: %w", err)
	}
	return bw.Flush()
}

// SaveTMX writes e to path.
func SaveTMX(path string, e Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTMX(f, e); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
