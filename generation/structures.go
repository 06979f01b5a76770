package generation

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/automoto/doomerang-levelgen/assets"
	"github.com/automoto/doomerang-levelgen/shared/grid"
)

// Edge names a side of a structure.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Role says which pass may use a structure.
type Role string

const (
	RoleScatter  Role = "scatter"
	RolePrefab   Role = "prefab"
	RolePlatform Role = "platform"
)

// Structure is a named tile pattern. Snap points are the non-empty cells on
// each edge; nothing enforces them during placement.
type Structure struct {
	Name       string
	Role       Role
	Width      int
	Height     int
	Pattern    *grid.Grid
	SnapPoints map[Edge][]grid.Point
}

// NewStructure wraps pattern and derives its snap points.
func NewStructure(name string, role Role, pattern *grid.Grid) *Structure {
	s := &Structure{
		Name:       name,
		Role:       role,
		Width:      pattern.Width(),
		Height:     pattern.Height(),
		Pattern:    pattern,
		SnapPoints: make(map[Edge][]grid.Point),
	}
	w, h := s.Width, s.Height
	for x := 0; x < w; x++ {
		if pattern.Get(x, 0) != grid.Empty {
			s.SnapPoints[EdgeTop] = append(s.SnapPoints[EdgeTop], grid.Point{X: x, Y: 0})
		}
		if pattern.Get(x, h-1) != grid.Empty {
			s.SnapPoints[EdgeBottom] = append(s.SnapPoints[EdgeBottom], grid.Point{X: x, Y: h - 1})
		}
	}
	for y := 0; y < h; y++ {
		if pattern.Get(0, y) != grid.Empty {
			s.SnapPoints[EdgeLeft] = append(s.SnapPoints[EdgeLeft], grid.Point{X: 0, Y: y})
		}
		if pattern.Get(w-1, y) != grid.Empty {
			s.SnapPoints[EdgeRight] = append(s.SnapPoints[EdgeRight], grid.Point{X: w - 1, Y: y})
		}
	}
	return s
}

// Catalog is an ordered set of structures indexed by name and role.
type Catalog struct {
	all    []*Structure
	byName map[string]*Structure
	byRole map[Role][]*Structure
}

// NewCatalog indexes structures in the given order.
func NewCatalog(structures ...*Structure) *Catalog {
	c := &Catalog{
		byName: make(map[string]*Structure),
		byRole: make(map[Role][]*Structure),
	}
	for _, s := range structures {
		c.all = append(c.all, s)
		c.byName[s.Name] = s
		c.byRole[s.Role] = append(c.byRole[s.Role], s)
	}
	return c
}

// All returns every structure.
func (c *Catalog) All() []*Structure { return c.all }

// Role returns the structures with role r.
func (c *Catalog) Role(r Role) []*Structure { return c.byRole[r] }

// Get looks a structure up by name.
func (c *Catalog) Get(name string) (*Structure, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// Len returns the number of structures.
func (c *Catalog) Len() int { return len(c.all) }

type catalogDoc struct {
	Structures []struct {
		Name    string   `yaml:"name"`
		Role    Role     `yaml:"role"`
		Pattern []string `yaml:"pattern"`
	} `yaml:"structures"`
}

// ParseCatalog reads a YAML structure catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	structures := make([]*Structure, 0, len(doc.Structures))
	for i, entry := range doc.Structures {
		if entry.Name == "" {
			return nil, fmt.Errorf("structure %d has no name", i)
		}
		switch entry.Role {
		case RoleScatter, RolePrefab, RolePlatform:
		default:
			return nil, fmt.Errorf("structure %s: unknown role %q", entry.Name, entry.Role)
		}
		pattern, err := grid.Parse(entry.Pattern...)
		if err != nil {
			return nil, fmt.Errorf("structure %s: %w", entry.Name, err)
		}
		if pattern.Width() == 0 {
			return nil, fmt.Errorf("structure %s: empty pattern", entry.Name)
		}
		structures = append(structures, NewStructure(entry.Name, entry.Role, pattern))
	}
	return NewCatalog(structures...), nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(assets.StructureCatalog())
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCatalog returns the embedded structure catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}
