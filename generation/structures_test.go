package generation

import (
	"testing"

	"github.com/automoto/doomerang-levelgen/shared/grid"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	for _, role := range []Role{RoleScatter, RolePrefab, RolePlatform} {
		if len(c.Role(role)) == 0 {
			t.Errorf("no %s structures in the embedded catalog", role)
		}
	}
	s, ok := c.Get("staircase")
	if !ok {
		t.Fatal("staircase missing")
	}
	if s.Width != 5 || s.Height != 5 {
		t.Errorf("staircase is %dx%d, want 5x5", s.Width, s.Height)
	}
	for _, s := range c.Role(RolePrefab) {
		if s.Pattern.Count(grid.PrefabBlock) == 0 {
			t.Errorf("prefab %s has no prefab blocks", s.Name)
		}
	}
}

func TestSnapPoints(t *testing.T) {
	s := NewStructure("overhang", RoleScatter, grid.MustParse(
		"###",
		"#..",
		"#..",
	))
	want := map[Edge][]grid.Point{
		EdgeTop:    {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		EdgeBottom: {{X: 0, Y: 2}},
		EdgeLeft:   {{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
		EdgeRight:  {{X: 2, Y: 0}},
	}
	for edge, points := range want {
		got := s.SnapPoints[edge]
		if len(got) != len(points) {
			t.Errorf("%s snap points = %v, want %v", edge, got, points)
			continue
		}
		for i := range points {
			if got[i] != points[i] {
				t.Errorf("%s snap point %d = %v, want %v", edge, i, got[i], points[i])
			}
		}
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "bad yaml", doc: "structures: [\n"},
		{name: "missing name", doc: "structures:\n  - role: scatter\n    pattern: [\"#\"]\n"},
		{name: "unknown role", doc: "structures:\n  - name: a\n    role: decor\n    pattern: [\"#\"]\n"},
		{name: "ragged pattern", doc: "structures:\n  - name: a\n    role: scatter\n    pattern: [\"##\", \"#\"]\n"},
		{name: "bad glyph", doc: "structures:\n  - name: a\n    role: scatter\n    pattern: [\"#x\"]\n"},
		{name: "empty pattern", doc: "structures:\n  - name: a\n    role: scatter\n    pattern: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
