package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/server/core"
)

func main() {
	flags := config.RegisterServerFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Read(flags.Config)
	if err == nil {
		err = config.ApplyFlags(cfg, flags)
	}
	if err != nil {
		// The logger is not up yet.
		_ = logger.Init("info", "")
		logger.Log.Fatal("[server] invalid config", zap.Error(err))
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	server, err := core.NewServer(cfg)
	if err != nil {
		logger.Log.Fatal("[server] failed to build generator", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-sigChan
		logger.Log.Info("[server] shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Log.Warn("[server] shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(); err != nil {
		logger.Log.Fatal("[server] fatal", zap.Error(err))
	}
	// Start returns as soon as the listener closes; wait for Stop to
	// release the cached chunks.
	<-stopped
}
