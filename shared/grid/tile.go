package grid

import "fmt"

// Tile is the value stored in a grid cell. Its meaning is defined by the
// generator, not by Grid.
type Tile uint8

const (
	Empty Tile = iota
	Solid
	OneWayPlatform
	PrefabBlock
	Collectible
)

// NoTile is returned by reads outside the grid.
const NoTile Tile = 255

var tileNames = map[Tile]string{
	Empty:          "empty",
	Solid:          "solid",
	OneWayPlatform: "one_way",
	PrefabBlock:    "prefab",
	Collectible:    "collectible",
	NoTile:         "none",
}

var tileGlyphs = map[Tile]byte{
	Empty:          '.',
	Solid:          '#',
	OneWayPlatform: '=',
	PrefabBlock:    'P',
	Collectible:    '*',
	NoTile:         '?',
}

func (t Tile) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

// Glyph is the single character used by String dumps and ASCII patterns.
func (t Tile) Glyph() byte {
	if g, ok := tileGlyphs[t]; ok {
		return g
	}
	return '?'
}

// Passable reports whether a character can occupy a cell holding t.
func (t Tile) Passable() bool {
	return t == Empty || t == Collectible
}

// Collides reports whether t produces collision geometry.
func (t Tile) Collides() bool {
	return t == Solid || t == OneWayPlatform || t == PrefabBlock
}

// ParseTile converts a tile name back into a Tile.
func ParseTile(name string) (Tile, error) {
	for t, n := range tileNames {
		if n == name && t != NoTile {
			return t, nil
		}
	}
	return NoTile, fmt.Errorf("unknown tile %q", name)
}

// TileFromGlyph converts an ASCII pattern character into a Tile.
func TileFromGlyph(c byte) (Tile, error) {
	for t, g := range tileGlyphs {
		if g == c && t != NoTile {
			return t, nil
		}
	}
	return NoTile, fmt.Errorf("unknown tile glyph %q", c)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tile) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tile) UnmarshalText(text []byte) error {
	parsed, err := ParseTile(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}
