// Command levelgen generates platformer levels from a seed and a player
// movement profile, validates them, and exports them as text, TMX or PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/geometry"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/server/core"
	"github.com/automoto/doomerang-levelgen/shared/gamemath"
	"github.com/automoto/doomerang-levelgen/shared/leveldata"
	"github.com/automoto/doomerang-levelgen/systems"
)

// errUntraversable makes the command exit non-zero without a usage dump.
var errUntraversable = errors.New("level is not traversable")

type options struct {
	shared   *config.Flags
	chunks   int
	backend  string
	out      string
	tmx      string
	png      string
	scale    int
	save     bool
	room     string
	validate string
	dump     string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("levelgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{shared: config.RegisterFlags(fs)}
	fs.IntVar(&o.chunks, "chunks", 3, "Level width in chunks")
	fs.StringVar(&o.backend, "backend", "space", "Geometry back-end: space or world")
	fs.StringVar(&o.out, "out", "-", "Write the level as ASCII to this file (- for stdout, empty to skip)")
	fs.StringVar(&o.tmx, "tmx", "", "Export the level as a Tiled map")
	fs.StringVar(&o.png, "png", "", "Export a PNG preview")
	fs.IntVar(&o.scale, "scale", 4, "PNG preview pixels per tile")
	fs.BoolVar(&o.save, "save", false, "Save a snapshot of the level to the user data directory")
	fs.StringVar(&o.room, "room", "", "Compose a single WxH room instead of a level")
	fs.StringVar(&o.validate, "validate", "", "Validate a .tmx file or a directory of them")
	fs.StringVar(&o.dump, "write-config", "", "Write the effective config, flags applied, to this path and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.chunks < 1 {
		return nil, fmt.Errorf("-chunks must be at least 1")
	}
	if o.backend != "space" && o.backend != "world" {
		return nil, fmt.Errorf("-backend must be space or world, got %q", o.backend)
	}
	return o, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) && !errors.Is(err, errUntraversable) {
			fmt.Fprintln(os.Stderr, "levelgen:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := config.Read(o.shared.Config)
	if err != nil {
		return err
	}
	if err := config.ApplyFlags(cfg, o.shared); err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	profile, err := cfg.Profile.Resolve()
	if err != nil {
		return err
	}

	switch {
	case o.dump != "":
		cfg.Profile = config.ProfileFrom(profile)
		if err := cfg.SaveTo(o.dump); err != nil {
			return err
		}
		logger.Log.Info("[levelgen] wrote config", zap.String("path", o.dump))
		return nil
	case o.validate != "":
		return runValidate(o.validate, profile, stdout)
	case o.room != "":
		return runRoom(cfg, profile, o.room, stdout)
	default:
		return runLevel(cfg, profile, o, stdout)
	}
}

func runLevel(cfg *config.Config, profile gamemath.Profile, o *options, stdout io.Writer) error {
	g := cfg.Generation
	space := geometry.NewSpace(o.chunks, 1, g.ChunkSize, g.TileSize)

	var (
		builder generation.GeometryBuilder
		world   *geometry.WorldBuilder
	)
	if o.backend == "world" {
		world = geometry.NewWorldBuilder(donburi.NewWorld(), space, geometry.DefaultBob)
		builder = world
	} else {
		builder = geometry.NewSpaceBuilder(space)
	}

	gen, err := generation.New(g, profile, generation.WithBuilder(builder))
	if err != nil {
		return err
	}
	lvl, err := gen.GenerateLevel(o.chunks, g.ChunkSize, g.TileSize)
	if err != nil {
		return err
	}
	defer func() {
		if err := gen.ReleaseLevel(lvl); err != nil {
			logger.Log.Warn("[levelgen] release failed", zap.Error(err))
		}
	}()
	if world != nil {
		world.AttachLevel(g.Seed, lvl)
	}

	nav := systems.CreateNavGridFromSpace(space, lvl.Grid.Width()*g.TileSize, lvl.Grid.Height()*g.TileSize,
		float64(g.TileSize), profile)
	route := nav.FindTilePath(lvl.SpawnTile, lvl.Goal)
	logger.Log.Info("[levelgen] level generated",
		zap.String("seed", g.Seed), zap.String("mode", g.Mode), zap.String("backend", o.backend),
		zap.Int("chunks", o.chunks), zap.Bool("traversable", lvl.Traversable),
		zap.Int("reachable", lvl.Reachable), zap.Int("route", len(route)))

	if err := writeASCII(o.out, lvl, stdout); err != nil {
		return err
	}

	export := leveldata.Export{
		Grid:        lvl.Grid,
		TileSize:    lvl.TileSize,
		Spawn:       &leveldata.Marker{X: lvl.Spawn.X, Y: lvl.Spawn.Y},
		Goal:        goalMarker(lvl),
		Traversable: lvl.Traversable,
		Reachable:   lvl.Reachable,
	}
	if o.tmx != "" {
		if err := leveldata.SaveTMX(o.tmx, export); err != nil {
			return err
		}
		logger.Log.Info("[levelgen] wrote tmx", zap.String("path", o.tmx))
	}
	if o.png != "" {
		pal, err := cfg.Palette.Colors()
		if err != nil {
			return err
		}
		if err := leveldata.SavePNG(o.png, export, pal, o.scale); err != nil {
			return err
		}
		logger.Log.Info("[levelgen] wrote preview", zap.String("path", o.png))
	}
	if o.save {
		store, err := systems.OpenSnapshotStore(cfg.Storage.AppName)
		if err != nil {
			return err
		}
		if err := store.Save(systems.SnapshotFromLevel(g.Seed, g.Mode, lvl)); err != nil {
			return err
		}
	}

	if !lvl.Traversable {
		logger.Log.Error("[levelgen] goal unreachable from spawn",
			zap.Int("spawn_x", lvl.SpawnTile.X), zap.Int("spawn_y", lvl.SpawnTile.Y),
			zap.Int("goal_x", lvl.Goal.X), zap.Int("goal_y", lvl.Goal.Y))
		return errUntraversable
	}
	return nil
}

func goalMarker(lvl *generation.Level) *leveldata.Marker {
	ts := float64(lvl.TileSize)
	return &leveldata.Marker{X: float64(lvl.Goal.X)*ts + ts/2, Y: float64(lvl.Goal.Y) * ts}
}

func writeASCII(path string, lvl *generation.Level, stdout io.Writer) error {
	switch path {
	case "":
		return nil
	case "-":
		_, err := io.WriteString(stdout, lvl.Grid.String())
		return err
	default:
		if err := os.WriteFile(path, []byte(lvl.Grid.String()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	}
}

// parseSize parses "WxH".
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("room size %q is not WxH", s)
	}
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, fmt.Errorf("room width %q: %w", ws, err)
	}
	if h, err = strconv.Atoi(hs); err != nil {
		return 0, 0, fmt.Errorf("room height %q: %w", hs, err)
	}
	return w, h, nil
}

func runRoom(cfg *config.Config, profile gamemath.Profile, size string, stdout io.Writer) error {
	w, h, err := parseSize(size)
	if err != nil {
		return err
	}
	gen, err := generation.New(cfg.Generation, profile)
	if err != nil {
		return err
	}
	room, err := gen.ComposeRoom(w, h)
	if err != nil {
		return err
	}
	logger.Log.Info("[levelgen] room composed",
		zap.Int("width", w), zap.Int("height", h), zap.Int("structures", len(room.Placed)),
		zap.Bool("connected", room.Connected), zap.Float64("fraction", room.Fraction),
		zap.Int("attempts", room.Attempts))
	_, err = io.WriteString(stdout, room.Grid.String())
	return err
}

func runValidate(path string, profile gamemath.Profile, stdout io.Writer) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var levels []*leveldata.Level
	if info.IsDir() {
		all, names, err := leveldata.LoadAllLevels(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return err
		}
		for _, name := range names {
			levels = append(levels, all[name])
		}
	} else {
		lvl, err := leveldata.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return err
		}
		levels = append(levels, lvl)
	}

	failed := 0
	for _, lvl := range levels {
		sl, err := core.NewServerLevel(lvl)
		if err != nil {
			return err
		}
		rep := sl.Validate(profile)
		status := "ok"
		if !rep.Traversable {
			status = "UNTRAVERSABLE"
			failed++
		}
		fmt.Fprintf(stdout, "%s\t%s\treachable=%d\troute=%d\n", lvl.Name, status, rep.Reachable, len(rep.Route))
	}
	if failed > 0 {
		return errUntraversable
	}
	return nil
}
