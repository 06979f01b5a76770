package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

var (
	//go:embed all:profiles
	profileFS embed.FS

	//go:embed all:structures
	structureFS embed.FS
)

// DefaultProfile returns the YAML of the player profile shipped with the binary.
func DefaultProfile() []byte {
	return MustRead(profileFS, "profiles/default.yaml")
}

// Profile returns a named profile document from profiles/.
func Profile(name string) ([]byte, error) {
	return profileFS.ReadFile("profiles/" + name + ".yaml")
}

// StructureCatalog returns the YAML structure catalog.
func StructureCatalog() []byte {
	return MustRead(structureFS, "structures/catalog.yaml")
}

// MustRead reads an embedded file and panics if it is missing; the embedded
// set is fixed at build time.
func MustRead(fsys fs.FS, path string) []byte {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		panic(fmt.Sprintf("Failed to read embedded file %s: %v", path, err))
	}
	return data
}
