package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/automoto/doomerang-levelgen/assets"
)

// Load reads a config file over the defaults and validates it, player
// profile included. An empty path searches the standard locations.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// Read decodes a config file over the defaults without validating it, so
// commands can apply flags (such as -profile) first. No file at all is fine.
func Read(path string) (*Config, error) {
	if path == "" {
		path = findConfigFile()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// LoadBytes decodes YAML over the defaults and validates the result. The
// document must carry a complete profile section.
func LoadBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := decode(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultProfile returns the "default" profile shipped with the binary.
func DefaultProfile() (ProfileConfig, error) {
	return decodeProfile("default", assets.DefaultProfile())
}

// NamedProfile returns one of the embedded profiles by name.
func NamedProfile(name string) (ProfileConfig, error) {
	data, err := assets.Profile(name)
	if err != nil {
		return ProfileConfig{}, fmt.Errorf("%w: no embedded profile %q", ErrInvalidConfig, name)
	}
	return decodeProfile(name, data)
}

func decodeProfile(name string, data []byte) (ProfileConfig, error) {
	var doc struct {
		Profile ProfileConfig `yaml:"profile"`
	}
	if err := decode(data, &doc); err != nil {
		return ProfileConfig{}, fmt.Errorf("embedded profile %s: %w", name, err)
	}
	return doc.Profile, nil
}

func decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./levelgen.yaml",
		filepath.Join(ConfigDir(), "levelgen.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "DoomerangLevelgen")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "DoomerangLevelgen")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "doomerang-levelgen")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "doomerang-levelgen")
	}
}
