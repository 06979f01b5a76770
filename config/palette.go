package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// PaletteConfig holds preview colors as "#rrggbb" or "#rrggbbaa" strings.
type PaletteConfig struct {
	Sky         string `yaml:"sky"`
	Solid       string `yaml:"solid"`
	OneWay      string `yaml:"one_way"`
	Prefab      string `yaml:"prefab"`
	Collectible string `yaml:"collectible"`
	Spawn       string `yaml:"spawn"`
	Goal        string `yaml:"goal"`
}

// Palette is the parsed form of PaletteConfig.
type Palette struct {
	Sky         color.RGBA
	Solid       color.RGBA
	OneWay      color.RGBA
	Prefab      color.RGBA
	Collectible color.RGBA
	Spawn       color.RGBA
	Goal        color.RGBA
}

// DefaultPalette returns the shared palette colors as config strings.
func DefaultPalette() PaletteConfig {
	return PaletteConfig{
		Sky:         Hex(Sky),
		Solid:       Hex(Rock),
		OneWay:      Hex(OneWay),
		Prefab:      Hex(Prefab),
		Collectible: Hex(Coin),
		Spawn:       Hex(SpawnMarker),
		Goal:        Hex(GoalMarker),
	}
}

// Colors parses every palette entry. Empty entries fall back to the defaults.
func (p PaletteConfig) Colors() (Palette, error) {
	var out Palette
	entries := []struct {
		name string
		val  string
		def  color.RGBA
		dst  *color.RGBA
	}{
		{"sky", p.Sky, Sky, &out.Sky},
		{"solid", p.Solid, Rock, &out.Solid},
		{"one_way", p.OneWay, OneWay, &out.OneWay},
		{"prefab", p.Prefab, Prefab, &out.Prefab},
		{"collectible", p.Collectible, Coin, &out.Collectible},
		{"spawn", p.Spawn, SpawnMarker, &out.Spawn},
		{"goal", p.Goal, GoalMarker, &out.Goal},
	}
	for _, e := range entries {
		if e.val == "" {
			*e.dst = e.def
			continue
		}
		c, err := ParseHex(e.val)
		if err != nil {
			return Palette{}, fmt.Errorf("palette.%s: %w", e.name, err)
		}
		*e.dst = c
	}
	return out, nil
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbbaa".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
