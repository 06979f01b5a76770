package leveldata

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// Load parses a TMX file into a tile grid plus collision data. Tiles are
// mapped back through the "kind" property of their tileset tile; tiles
// without one load as Solid. It takes an fs.FS so callers can pass embed.FS
// or os.DirFS.
func Load(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	return fromMap(strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"), levelMap)
}

// LoadReader parses a self-contained TMX document, such as an upload. External
// tilesets are not resolved.
func LoadReader(name string, r io.Reader) (*Level, error) {
	levelMap, err := tiled.LoadReader("", r, tiled.WithFileSystem(noFS{}))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", name, err)
	}
	return fromMap(name, levelMap)
}

type noFS struct{}

func (noFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func fromMap(name string, levelMap *tiled.Map) (*Level, error) {
	data := &CollisionData{
		MapWidth:   levelMap.Width * levelMap.TileWidth,
		MapHeight:  levelMap.Height * levelMap.TileHeight,
		TileWidth:  levelMap.TileWidth,
		TileHeight: levelMap.TileHeight,
	}
	g := grid.New(levelMap.Width, levelMap.Height, grid.Empty)

	found := false
	for _, layer := range levelMap.Layers {
		if layer.Name != TileLayer {
			continue
		}
		found = true
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}

				kind := grid.Solid
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					if name := tilesetTile.Properties.GetString(KindProperty); name != "" {
						if kind, err = grid.ParseTile(name); err != nil {
							return nil, fmt.Errorf("load TMX %s: tile (%d,%d): %w", name, x, y, err)
						}
					}
				}
				g.Set(x, y, kind)
			}
		}
		break
	}
	if !found {
		return nil, fmt.Errorf("load TMX %s: no %q layer", name, TileLayer)
	}
	data.SolidRects = solidRects(g, levelMap.TileWidth, levelMap.TileHeight)

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case SpawnGroup:
			for _, o := range og.Objects {
				data.SpawnPoints = append(data.SpawnPoints, SpawnPoint{
					X:     o.X,
					Y:     o.Y,
					Index: o.Properties.GetInt(SpawnIndexProp),
				})
			}
			// Sort spawns left-to-right for consistent assignment
			sort.Slice(data.SpawnPoints, func(i, j int) bool {
				return data.SpawnPoints[i].X < data.SpawnPoints[j].X
			})
		case FinishLineGroup:
			for _, o := range og.Objects {
				data.FinishLines = append(data.FinishLines, Marker{X: o.X, Y: o.Y})
			}
		}
	}

	return &Level{Name: name, Grid: g, Collision: data}, nil
}

// LoadCollisionData parses a TMX file and returns its collision data.
func LoadCollisionData(fsys fs.FS, tmxPath string) (*CollisionData, error) {
	lvl, err := Load(fsys, tmxPath)
	if err != nil {
		return nil, err
	}
	return lvl.Collision, nil
}

// LoadGrid parses a TMX file and returns its tile grid.
func LoadGrid(fsys fs.FS, tmxPath string) (*grid.Grid, error) {
	lvl, err := Load(fsys, tmxPath)
	if err != nil {
		return nil, err
	}
	return lvl.Grid, nil
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys, loads
// each, and returns a map keyed by stem name plus a sorted list of names.
func LoadAllLevels(fsys fs.FS, levelsDir string) (map[string]*Level, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	levels := make(map[string]*Level, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		lvl, err := Load(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		levels[lvl.Name] = lvl
		names = append(names, lvl.Name)
	}

	sort.Strings(names)
	return levels, names, nil
}
