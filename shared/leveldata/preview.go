package leveldata

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// Render draws one pixel per tile, then scales the result by scale with
// nearest-neighbour sampling so tile edges stay sharp.
func Render(e Export, pal config.Palette, scale int) (*image.RGBA, error) {
	if e.Grid == nil || e.Grid.Width() == 0 {
		return nil, fmt.Errorf("render preview: empty grid")
	}
	scale = max(scale, 1)
	g := e.Grid

	src := image.NewRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			t, _ := g.Lookup(x, y)
			src.SetRGBA(x, y, tileColor(t, pal))
		}
	}
	mark := func(m *Marker, c color.RGBA) {
		if m == nil {
			return
		}
		p := m.Tile(e.TileSize)
		if g.InBounds(p.X, p.Y) {
			src.SetRGBA(p.X, p.Y, c)
		}
	}
	mark(e.Spawn, pal.Spawn)
	mark(e.Goal, pal.Goal)

	if scale == 1 {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, g.Width()*scale, g.Height()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}

func tileColor(t grid.Tile, pal config.Palette) color.RGBA {
	switch t {
	case grid.Solid:
		return pal.Solid
	case grid.OneWayPlatform:
		return pal.OneWay
	case grid.PrefabBlock:
		return pal.Prefab
	case grid.Collectible:
		return pal.Collectible
	default:
		return pal.Sky
	}
}

// WritePNG renders e and encodes it as PNG.
func WritePNG(w io.Writer, e Export, pal config.Palette, scale int) error {
	img, err := Render(e, pal, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

// SavePNG writes the preview of e to path.
func SavePNG(path string, e Export, pal config.Palette, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(f, e, pal, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
