// Package generation synthesizes platformer chunks and levels and certifies
// them against a player capability profile.
package generation

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/gamemath"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/mesh"
	"github.com/automoto/doomerang-levelgen/shared/noise"
	"github.com/automoto/doomerang-levelgen/shared/pathgen"
	"github.com/automoto/doomerang-levelgen/shared/traverse"
)

// MinChunkSize is the smallest chunk the terrain passes can work with.
const MinChunkSize = 16

var (
	ErrInvalidChunkSize = errors.New("invalid chunk size or tile size")
	ErrInvalidRoomSize  = errors.New("invalid room size")
	ErrInvalidProfile   = gamemath.ErrInvalidProfile
)

// Salts keep the per-purpose random streams apart.
const (
	chunkSalt uint64 = iota + 0x6c67
	roomSalt
	templateSalt
)

const (
	ModeTerrain    = "terrain"
	ModeStructures = "structures"
)

// Handle is an opaque body created by a GeometryBuilder.
type Handle any

// Bodies are the physics handles a builder created for one chunk.
type Bodies struct {
	Platforms []Handle
	OneWay    []Handle
	Sensors   []Handle
}

// Len returns the total number of handles.
func (b Bodies) Len() int {
	return len(b.Platforms) + len(b.OneWay) + len(b.Sensors)
}

// ChunkRef locates a chunk for a builder.
type ChunkRef struct {
	X, Y     int
	Size     int
	TileSize int
}

// Origin returns the chunk's top-left corner in world pixels.
func (r ChunkRef) Origin() (float64, float64) {
	span := float64(r.Size * r.TileSize)
	return float64(r.X) * span, float64(r.Y) * span
}

// GeometryBuilder turns mesh rectangles into physics bodies. Build splits
// rects by tile kind; Release frees everything one Build returned.
type GeometryBuilder interface {
	Build(ref ChunkRef, rects []mesh.Rect) (Bodies, error)
	Release(b Bodies) error
}

// Chunk is one generated square of the world.
type Chunk struct {
	X, Y     int
	Size     int
	TileSize int
	Grid     *grid.Grid
	Mesh     []mesh.Rect
	Bodies   Bodies
	Placed   []PlacedStructure
}

// Ref returns the builder reference for the chunk.
func (c *Chunk) Ref() ChunkRef {
	return ChunkRef{X: c.X, Y: c.Y, Size: c.Size, TileSize: c.TileSize}
}

// SpawnPoint is where the player enters the world, in pixels.
type SpawnPoint struct {
	X, Y     float64
	Tile     grid.Point
	Fallback bool
}

// Level is a row of chunks composed into one grid and validated from spawn
// to the far right edge.
type Level struct {
	Grid        *grid.Grid
	Chunks      []*Chunk
	ChunkSize   int
	TileSize    int
	Spawn       SpawnPoint
	SpawnTile   grid.Point
	Goal        grid.Point
	Traversable bool
	// Reachable counts the tiles the player can reach from spawn.
	Reachable int
}

// Option configures a Generator.
type Option func(*Generator)

// WithBuilder hands every generated chunk's rectangles to b.
func WithBuilder(b GeometryBuilder) Option {
	return func(g *Generator) {
		g.builder = b
	}
}

// WithCatalog replaces the embedded structure catalog.
func WithCatalog(structures ...*Structure) Option {
	return func(g *Generator) {
		g.catalog = NewCatalog(structures...)
	}
}

// Generator produces chunks, levels and rooms. It keeps no state between
// calls, so chunk content never depends on the order chunks are requested in.
type Generator struct {
	cfg     config.GenerationConfig
	profile gamemath.Profile
	seed    int64
	field   *noise.Field
	path    *pathgen.Path
	shape   ease.TweenFunc
	catalog *Catalog
	builder GeometryBuilder
}

// New validates profile and cfg and creates a generator.
func New(cfg config.GenerationConfig, profile gamemath.Profile, opts ...Option) (*Generator, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if cfg.TileSize <= 0 || cfg.ChunkSize < MinChunkSize {
		return nil, fmt.Errorf("%w: chunk %d, tile %d", ErrInvalidChunkSize, cfg.ChunkSize, cfg.TileSize)
	}
	shape, err := config.ParseShape(cfg.Terrain.Shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeTerrain
	}
	if cfg.Mode != ModeTerrain && cfg.Mode != ModeStructures {
		return nil, fmt.Errorf("%w: unknown mode %q", config.ErrInvalidConfig, cfg.Mode)
	}
	if cfg.Terrain.CaveMode == "" {
		cfg.Terrain.CaveMode = CaveNoise
	}
	if cfg.Terrain.CaveMode != CaveNoise && cfg.Terrain.CaveMode != CaveAutomaton {
		return nil, fmt.Errorf("%w: unknown cave mode %q", config.ErrInvalidConfig, cfg.Terrain.CaveMode)
	}
	if cfg.Placer.MaxAttempts <= 0 || cfg.Rooms.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w: placer and room max_attempts must be positive, got %d and %d",
			config.ErrInvalidConfig, cfg.Placer.MaxAttempts, cfg.Rooms.MaxAttempts)
	}

	seed := noise.HashSeed(cfg.Seed)
	g := &Generator{
		cfg:     cfg,
		profile: profile,
		seed:    seed,
		field: noise.New(seed, noise.Octaves{
			Count:       cfg.Terrain.Octaves,
			Persistence: cfg.Terrain.Persistence,
			Lacunarity:  cfg.Terrain.Lacunarity,
		}),
		path:    pathgen.ForProfile(profile, cfg.TileSize),
		shape:   shape,
		catalog: DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(g)
	}

	logger.Log.Debug("generator ready",
		zap.String("seed", cfg.Seed), zap.String("mode", cfg.Mode),
		zap.Int("rhythm_nodes", len(g.path.Nodes())), zap.Int("structures", g.catalog.Len()))
	return g, nil
}

func (g *Generator) Config() config.GenerationConfig { return g.cfg }
func (g *Generator) Profile() gamemath.Profile       { return g.profile }
func (g *Generator) Catalog() *Catalog               { return g.catalog }
func (g *Generator) Builder() GeometryBuilder        { return g.builder }

func (g *Generator) rng(salt uint64, x, y int) *rand.Rand {
	return rand.New(rand.NewPCG(noise.Hash2(g.seed, x, y), uint64(g.seed)^salt))
}

func (g *Generator) checkSize(chunkSize, tileSize int) error {
	if chunkSize < MinChunkSize || tileSize <= 0 || g.cfg.Terrain.Headroom >= chunkSize/2 {
		return fmt.Errorf("%w: chunk %d, tile %d", ErrInvalidChunkSize, chunkSize, tileSize)
	}
	return nil
}

// synthesize fills the chunk grid without meshing it.
func (g *Generator) synthesize(cx, cy, chunkSize, tileSize int) *Chunk {
	rng := g.rng(chunkSalt, cx, cy)
	c := &Chunk{X: cx, Y: cy, Size: chunkSize, TileSize: tileSize}

	switch g.cfg.Mode {
	case ModeStructures:
		headroom := 0
		if cy == 0 {
			headroom = g.cfg.Terrain.Headroom
		}
		c.Grid = grid.New(chunkSize, chunkSize, grid.Empty)
		placer := NewPlacer(g.cfg.Placer, rng, g.catalog, headroom)
		placer.PlaceFloor(c.Grid)
		c.Placed = placer.Scatter(c.Grid, nil)
	default:
		path := g.path
		if tileSize != g.cfg.TileSize {
			path = pathgen.ForProfile(g.profile, tileSize)
		}
		t := newTerrain(g.cfg.Terrain, g.field, path, g.shape, g.catalog, g.profile, chunkSize, tileSize)
		c.Grid, c.Placed = t.synthesize(cx, cy, rng)
	}
	return c
}

// finish meshes the chunk and hands the rectangles to the builder.
func (g *Generator) finish(c *Chunk) error {
	c.Mesh = mesh.Greedy(c.Grid)
	if g.builder == nil {
		return nil
	}
	bodies, err := g.builder.Build(c.Ref(), c.Mesh)
	if err != nil {
		return fmt.Errorf("build chunk (%d,%d) geometry: %w", c.X, c.Y, err)
	}
	c.Bodies = bodies
	return nil
}

// GenerateChunk synthesizes, meshes and builds the chunk at (chunkX, chunkY).
func (g *Generator) GenerateChunk(chunkX, chunkY, chunkSize, tileSize int) (*Chunk, error) {
	if err := g.checkSize(chunkSize, tileSize); err != nil {
		return nil, err
	}
	c := g.synthesize(chunkX, chunkY, chunkSize, tileSize)
	if err := g.finish(c); err != nil {
		return nil, err
	}
	logger.Log.Debug("chunk generated",
		zap.Int("chunk_x", chunkX), zap.Int("chunk_y", chunkY),
		zap.Int("rects", len(c.Mesh)), zap.Int("structures", len(c.Placed)))
	return c, nil
}

// GenerateInitialChunkAndSpawnPoint builds chunk (0,0) with the safe zone
// cleared and a spawn point standing on the first ground below the zone.
func (g *Generator) GenerateInitialChunkAndSpawnPoint(chunkSize, tileSize int) (*Chunk, SpawnPoint, error) {
	if err := g.checkSize(chunkSize, tileSize); err != nil {
		return nil, SpawnPoint{}, err
	}
	c := g.synthesize(0, 0, chunkSize, tileSize)
	zone := g.cfg.SafeZone
	c.Grid.ClearRect(zone.X, zone.Y, zone.W, zone.H)

	spawn := findSpawn(c.Grid, zone, tileSize)
	if spawn.Fallback {
		logger.Log.Info("no ground under safe zone, spawning at zone center",
			zap.Int("tile_x", spawn.Tile.X), zap.Int("tile_y", spawn.Tile.Y))
	}

	if err := g.finish(c); err != nil {
		return nil, SpawnPoint{}, err
	}
	return c, spawn, nil
}

func findSpawn(g *grid.Grid, zone config.RectConfig, tileSize int) SpawnPoint {
	col := zone.X + zone.W/2
	tile := grid.Point{X: col, Y: zone.Y + zone.H/2}
	fallback := true
	if ground, ok := g.FirstFromTop(col, 0, grid.Solid); ok && ground-2 >= 0 {
		tile.Y = ground - 2
		fallback = false
	}
	ts := float64(tileSize)
	spawn := SpawnPoint{
		X:        float64(tile.X)*ts + ts/2,
		Y:        float64(tile.Y) * ts,
		Tile:     tile,
		Fallback: fallback,
	}
	if fallback {
		// Zone center, not the top edge of its center tile.
		spawn.Y += ts / 2
	}
	return spawn
}

// GenerateLevel composes widthChunks chunks left to right, starting with the
// initial chunk, and checks that the far right edge is reachable from spawn.
// An untraversable level is reported, not retried.
func (g *Generator) GenerateLevel(widthChunks, chunkSize, tileSize int) (*Level, error) {
	if widthChunks < 1 {
		return nil, fmt.Errorf("%w: level needs at least one chunk, got %d", ErrInvalidChunkSize, widthChunks)
	}
	first, spawn, err := g.GenerateInitialChunkAndSpawnPoint(chunkSize, tileSize)
	if err != nil {
		return nil, err
	}
	lvl := &Level{
		Grid:      grid.New(widthChunks*chunkSize, chunkSize, grid.Empty),
		Chunks:    []*Chunk{first},
		ChunkSize: chunkSize,
		TileSize:  tileSize,
		Spawn:     spawn,
		SpawnTile: spawn.Tile,
	}
	lvl.Grid.Blit(0, 0, first.Grid)
	for cx := 1; cx < widthChunks; cx++ {
		c, err := g.GenerateChunk(cx, 0, chunkSize, tileSize)
		if err != nil {
			return nil, err
		}
		lvl.Chunks = append(lvl.Chunks, c)
		lvl.Grid.Blit(cx*chunkSize, 0, c.Grid)
	}

	lvl.Goal = findGoal(lvl.Grid)
	v := traverse.New(lvl.Grid, g.profile, tileSize)
	lvl.Traversable = v.IsTraversable(lvl.SpawnTile, lvl.Goal)
	lvl.Reachable = v.Reachable(lvl.SpawnTile)

	logger.Log.Info("level generated",
		zap.Int("chunks", widthChunks),
		zap.Int("spawn_x", lvl.SpawnTile.X), zap.Int("spawn_y", lvl.SpawnTile.Y),
		zap.Int("goal_x", lvl.Goal.X), zap.Int("goal_y", lvl.Goal.Y),
		zap.Bool("traversable", lvl.Traversable), zap.Int("reachable", lvl.Reachable))
	return lvl, nil
}

// findGoal returns the open tile resting on the first ground of the
// rightmost column that has sky above its ground. A column open to the
// bottom yields its bottom row.
func findGoal(g *grid.Grid) grid.Point {
	h := g.Height()
	for x := g.Width() - 1; x >= 0; x-- {
		top := firstBlocking(g, x, 0)
		if top == h {
			return grid.Point{X: x, Y: h - 1}
		}
		if top >= 1 {
			return grid.Point{X: x, Y: top - 1}
		}
	}
	return grid.Point{X: g.Width() - 1, Y: 0}
}

// Release hands the chunk's bodies back to the builder.
func (g *Generator) Release(c *Chunk) error {
	if c == nil || g.builder == nil || c.Bodies.Len() == 0 {
		return nil
	}
	if err := g.builder.Release(c.Bodies); err != nil {
		return fmt.Errorf("release chunk (%d,%d): %w", c.X, c.Y, err)
	}
	c.Bodies = Bodies{}
	return nil
}

// ReleaseLevel releases every chunk of lvl.
func (g *Generator) ReleaseLevel(lvl *Level) error {
	var errs []error
	for _, c := range lvl.Chunks {
		errs = append(errs, g.Release(c))
	}
	return errors.Join(errs...)
}
