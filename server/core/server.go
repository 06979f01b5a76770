// Package core implements the chunk service: an HTTP front end over the
// level generator with a TTL chunk cache.
package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/gamemath"
)

// Server serves generated chunks over HTTP.
type Server struct {
	cfg     *config.Config
	gen     *generation.Generator
	profile gamemath.Profile
	palette config.Palette
	cache   *ChunkCache
	sweep   *SweepLoop
	http    *http.Server
}

// NewServer builds the generator and cache described by cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	profile, err := cfg.Profile.Resolve()
	if err != nil {
		return nil, err
	}
	pal, err := cfg.Palette.Colors()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	gen, err := generation.New(cfg.Generation, profile)
	if err != nil {
		return nil, err
	}

	g := cfg.Generation
	s := &Server{
		cfg:     cfg,
		gen:     gen,
		profile: profile,
		palette: pal,
		cache:   NewChunkCache(gen, g.ChunkSize, g.TileSize, cfg.Server.CacheTTL, cfg.Server.MaxChunks),
	}
	if cfg.Server.SweepInterval > 0 {
		s.sweep = NewSweepLoop(s.cache, cfg.Server.SweepInterval)
	}
	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Cache returns the chunk cache.
func (s *Server) Cache() *ChunkCache { return s.cache }

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chunks/{x}/{y}", s.Chunk)
	mux.HandleFunc("GET /spawn", s.Spawn)
	mux.HandleFunc("POST /validate", s.Validate)
	mux.HandleFunc("GET /health", s.Health)
	return mux
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	if s.sweep != nil {
		go s.sweep.Run()
	}
	logger.Log.Info("[server] listening",
		zap.String("addr", s.cfg.Server.Addr),
		zap.String("seed", s.cfg.Generation.Seed),
		zap.String("mode", s.cfg.Generation.Mode))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the listener, the sweep loop and the cache.
func (s *Server) Stop(ctx context.Context) error {
	errs := []error{s.http.Shutdown(ctx)}
	if s.sweep != nil {
		s.sweep.Stop()
	}
	errs = append(errs, s.cache.Close())
	return errors.Join(errs...)
}
