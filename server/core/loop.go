package core

import (
	"sync/atomic"
	"time"

	"github.com/automoto/doomerang-levelgen/logger"
)

// SweepLoop expires idle chunks on a fixed interval.
type SweepLoop struct {
	cache    *ChunkCache
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	running  atomic.Bool
}

func NewSweepLoop(cache *ChunkCache, interval time.Duration) *SweepLoop {
	return &SweepLoop{
		cache:    cache,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks until Stop is called.
func (l *SweepLoop) Run() {
	l.running.Store(true)
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	logger.Sugar.Infof("[server] chunk sweep every %s", l.interval)

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cache.Sweep()
		}
	}
}

// Stop ends Run and waits for it to return.
func (l *SweepLoop) Stop() {
	close(l.stopChan)
	if l.running.Load() {
		<-l.done
	}
}
