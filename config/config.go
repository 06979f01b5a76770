// Package config holds generator, profile, service and logging settings.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"time"
)

// Config holds all settings for the generator and its front ends.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Profile    ProfileConfig    `yaml:"profile"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Palette    PaletteConfig    `yaml:"palette"`
}

// GenerationConfig controls chunk synthesis.
type GenerationConfig struct {
	Seed       string        `yaml:"seed"`
	Mode       string        `yaml:"mode"` // "terrain" or "structures"
	ChunkSize  int           `yaml:"chunk_size"`
	TileSize   int           `yaml:"tile_size"`
	LoadRadius int           `yaml:"load_radius"`
	SafeZone   RectConfig    `yaml:"safe_zone"`
	Terrain    TerrainConfig `yaml:"terrain"`
	Placer     PlacerConfig  `yaml:"placer"`
	Rooms      RoomConfig    `yaml:"rooms"`
}

// RectConfig is a tile rectangle.
type RectConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// TerrainConfig tunes the noise/path terrain passes.
type TerrainConfig struct {
	// Surface
	NoiseScale   float64 `yaml:"noise_scale"`
	Amplitude    float64 `yaml:"amplitude"`
	Shape        string  `yaml:"shape"` // linear, in_out_quad, in_out_cubic, in_out_sine
	CliffSlope   float64 `yaml:"cliff_slope"`
	CliffAmplify float64 `yaml:"cliff_amplify"`
	Octaves      int     `yaml:"octaves"`
	Persistence  float64 `yaml:"persistence"`
	Lacunarity   float64 `yaml:"lacunarity"`
	Headroom     int     `yaml:"headroom"` // sky rows kept open at the top of the world

	// Caves
	Caves          bool    `yaml:"caves"`
	CaveMode       string  `yaml:"cave_mode"` // noise or automaton
	CaveScale      float64 `yaml:"cave_scale"`
	CaveThreshold  float64 `yaml:"cave_threshold"`
	CaveFill       float64 `yaml:"cave_fill"`
	CaveIterations int     `yaml:"cave_iterations"`
	CaveBirth      int     `yaml:"cave_birth"`
	CaveDeath      int     `yaml:"cave_death"`
	SurfaceDepth   int     `yaml:"surface_depth"`

	// Gaps and islands
	Gaps         bool    `yaml:"gaps"`
	GapScale     float64 `yaml:"gap_scale"`
	GapThreshold float64 `yaml:"gap_threshold"`
	GapDepth     int     `yaml:"gap_depth"` // 0 = bottomless
	Islands      bool    `yaml:"islands"`
	IslandChance float64 `yaml:"island_chance"`
	IslandWidth  int     `yaml:"island_width"`
	IslandLift   int     `yaml:"island_lift"`

	// Rhythm platforms
	Rhythm         bool `yaml:"rhythm"`
	RhythmWidth    int  `yaml:"rhythm_width"`
	RhythmHeadroom int  `yaml:"rhythm_headroom"`

	// Cavern one-way platforms
	Platforms           bool    `yaml:"platforms"`
	PlatformChance      float64 `yaml:"platform_chance"`
	PlatformWidth       int     `yaml:"platform_width"`
	PlatformFloorSearch int     `yaml:"platform_floor_search"`
	PlatformHeadroom    int     `yaml:"platform_headroom"`
	PlatformSpacing     int     `yaml:"platform_spacing"`
	PlatformMax         int     `yaml:"platform_max"`

	// Prefabs
	Prefabs       bool    `yaml:"prefabs"`
	PrefabChance  float64 `yaml:"prefab_chance"`
	PrefabSpacing int     `yaml:"prefab_spacing"`
}

// PlacerConfig tunes floor + scatter placement.
type PlacerConfig struct {
	TopPadding      int     `yaml:"top_padding"`
	BottomPadding   int     `yaml:"bottom_padding"`
	SmoothingPasses int     `yaml:"smoothing_passes"`
	MaxStructures   int     `yaml:"max_structures"`
	MaxAttempts     int     `yaml:"max_attempts"`
	FloatingChance  float64 `yaml:"floating_chance"`
}

// RoomConfig tunes room composition.
type RoomConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	PlaceTries  int `yaml:"place_tries"`
	MaxAttempts int `yaml:"max_attempts"`
}

// ServerConfig holds the chunk service settings.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	MaxChunks     int           `yaml:"max_chunks"`
}

// StorageConfig names the gdata application directory for snapshots.
type StorageConfig struct {
	AppName string `yaml:"app_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Shared RGBA palette defaults for previews
var (
	Sky         = color.RGBA{R: 24, G: 28, B: 44, A: 255}
	Rock        = color.RGBA{R: 120, G: 110, B: 100, A: 255}
	OneWay      = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	Prefab      = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	Coin        = color.RGBA{R: 255, G: 255, B: 100, A: 255}
	SpawnMarker = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	GoalMarker  = color.RGBA{R: 255, G: 60, B: 60, A: 255}
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Default returns a Config with everything but the player profile filled in.
// The profile has no defaults; it comes from a file or a named embedded
// profile.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Seed:       "doomerang",
			Mode:       "terrain",
			ChunkSize:  64,
			TileSize:   32,
			LoadRadius: 1,
			SafeZone:   RectConfig{X: 1, Y: 12, W: 5, H: 5},
			Terrain: TerrainConfig{
				NoiseScale:   150,
				Amplitude:    5,
				Shape:        "in_out_quad",
				CliffSlope:   1.2,
				CliffAmplify: 1.75,
				Octaves:      4,
				Persistence:  0.5,
				Lacunarity:   2,
				Headroom:     2,

				Caves:          true,
				CaveMode:       "noise",
				CaveScale:      12,
				CaveThreshold:  0.3,
				CaveFill:       0.45,
				CaveIterations: 5,
				CaveBirth:      4,
				CaveDeath:      3,
				SurfaceDepth:   3,

				Gaps:         true,
				GapScale:     0.05,
				GapThreshold: 0.3,
				GapDepth:     0,
				Islands:      true,
				IslandChance: 0.5,
				IslandWidth:  4,
				IslandLift:   4,

				Rhythm:         true,
				RhythmWidth:    3,
				RhythmHeadroom: 5,

				Platforms:           true,
				PlatformChance:      0.7,
				PlatformWidth:       4,
				PlatformFloorSearch: 6,
				PlatformHeadroom:    3,
				PlatformSpacing:     6,
				PlatformMax:         5,

				Prefabs:       true,
				PrefabChance:  0.3,
				PrefabSpacing: 16,
			},
			Placer: PlacerConfig{
				TopPadding:      32,
				BottomPadding:   2,
				SmoothingPasses: 2,
				MaxStructures:   10,
				MaxAttempts:     20,
				FloatingChance:  0.2,
			},
			Rooms: RoomConfig{
				Width:       20,
				Height:      15,
				PlaceTries:  10,
				MaxAttempts: 64,
			},
		},
		Server: ServerConfig{
			Addr:          ":8080",
			CacheTTL:      5 * time.Minute,
			SweepInterval: 30 * time.Second,
			MaxChunks:     512,
		},
		Storage: StorageConfig{
			AppName: "doomerang_levelgen",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Palette: DefaultPalette(),
	}
}

// Validate checks ranges the generator depends on.
func (c *Config) Validate() error {
	g := c.Generation
	switch {
	case g.Mode != "terrain" && g.Mode != "structures":
		return fmt.Errorf("%w: generation.mode must be terrain or structures, got %q", ErrInvalidConfig, g.Mode)
	case g.ChunkSize < 16:
		return fmt.Errorf("%w: generation.chunk_size must be at least 16, got %d", ErrInvalidConfig, g.ChunkSize)
	case g.TileSize <= 0:
		return fmt.Errorf("%w: generation.tile_size must be positive, got %d", ErrInvalidConfig, g.TileSize)
	case g.LoadRadius < 0:
		return fmt.Errorf("%w: generation.load_radius must not be negative", ErrInvalidConfig)
	case g.Terrain.NoiseScale <= 0 || g.Terrain.CaveScale <= 0:
		return fmt.Errorf("%w: terrain noise scales must be positive", ErrInvalidConfig)
	case g.Terrain.CaveMode != "noise" && g.Terrain.CaveMode != "automaton":
		return fmt.Errorf("%w: terrain.cave_mode must be noise or automaton, got %q", ErrInvalidConfig, g.Terrain.CaveMode)
	case g.Terrain.CaveFill < 0 || g.Terrain.CaveFill > 1 || g.Terrain.CaveIterations < 0:
		return fmt.Errorf("%w: terrain.cave_fill must be in [0, 1] and cave_iterations not negative", ErrInvalidConfig)
	case g.Terrain.Headroom < 0 || g.Terrain.Headroom >= g.ChunkSize/2:
		return fmt.Errorf("%w: terrain.headroom must be in [0, chunk_size/2)", ErrInvalidConfig)
	case g.Placer.MaxAttempts <= 0:
		return fmt.Errorf("%w: placer.max_attempts must be positive", ErrInvalidConfig)
	case g.Rooms.MaxAttempts <= 0:
		return fmt.Errorf("%w: rooms.max_attempts must be positive", ErrInvalidConfig)
	}
	if _, err := ParseShape(g.Terrain.Shape); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Palette.Colors(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Profile.Resolve(); err != nil {
		return err
	}
	return nil
}
