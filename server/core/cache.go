package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/logger"
)

type chunkKey struct {
	X, Y int
}

type cacheEntry struct {
	chunk    *generation.Chunk
	lastSeen time.Time
}

// ChunkCache is an in-memory store of generated chunks with TTL-based
// expiry and a size cap. Generation happens under the cache lock, so a chunk
// is never generated twice concurrently.
type ChunkCache struct {
	mu        sync.Mutex
	gen       *generation.Generator
	chunkSize int
	tileSize  int
	ttl       time.Duration
	maxChunks int
	entries   map[chunkKey]*cacheEntry
	spawn     *generation.SpawnPoint
	hits      int
	misses    int
	now       func() time.Time
}

func NewChunkCache(gen *generation.Generator, chunkSize, tileSize int, ttl time.Duration, maxChunks int) *ChunkCache {
	return &ChunkCache{
		gen:       gen,
		chunkSize: chunkSize,
		tileSize:  tileSize,
		ttl:       ttl,
		maxChunks: maxChunks,
		entries:   make(map[chunkKey]*cacheEntry),
		now:       time.Now,
	}
}

// Get returns chunk (x, y), generating it on a miss. Chunk (0,0) is the
// initial chunk with its safe zone cleared.
func (c *ChunkCache) Get(x, y int) (*generation.Chunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(chunkKey{x, y})
}

func (c *ChunkCache) get(key chunkKey) (*generation.Chunk, error) {
	now := c.now()
	if e, ok := c.entries[key]; ok {
		e.lastSeen = now
		c.hits++
		return e.chunk, nil
	}
	c.misses++

	var (
		chunk *generation.Chunk
		err   error
	)
	if key == (chunkKey{}) {
		var spawn generation.SpawnPoint
		chunk, spawn, err = c.gen.GenerateInitialChunkAndSpawnPoint(c.chunkSize, c.tileSize)
		if err == nil {
			c.spawn = &spawn
		}
	} else {
		chunk, err = c.gen.GenerateChunk(key.X, key.Y, c.chunkSize, c.tileSize)
	}
	if err != nil {
		return nil, fmt.Errorf("generate chunk (%d,%d): %w", key.X, key.Y, err)
	}

	c.entries[key] = &cacheEntry{chunk: chunk, lastSeen: now}
	c.trim()
	return chunk, nil
}

// Spawn returns the level spawn point, generating the origin chunk if needed.
func (c *ChunkCache) Spawn() (generation.SpawnPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spawn == nil {
		if _, err := c.get(chunkKey{}); err != nil {
			return generation.SpawnPoint{}, err
		}
	}
	return *c.spawn, nil
}

// trim drops the least recently used chunks above the size cap. The caller
// holds the lock.
func (c *ChunkCache) trim() {
	if c.maxChunks <= 0 || len(c.entries) <= c.maxChunks {
		return
	}
	keys := make([]chunkKey, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].lastSeen.Before(c.entries[keys[j]].lastSeen)
	})
	for _, k := range keys[:len(keys)-c.maxChunks] {
		c.evict(k)
	}
}

func (c *ChunkCache) evict(k chunkKey) {
	if err := c.gen.Release(c.entries[k].chunk); err != nil {
		logger.Log.Warn("[server] release chunk failed", zap.Int("chunk_x", k.X), zap.Int("chunk_y", k.Y), zap.Error(err))
	}
	delete(c.entries, k)
}

// Sweep removes chunks not requested within the TTL and returns how many.
func (c *ChunkCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.entries {
		if now.Sub(e.lastSeen) >= c.ttl {
			c.evict(k)
			n++
		}
	}
	if n > 0 {
		logger.Log.Debug("[server] expired chunks", zap.Int("count", n), zap.Int("resident", len(c.entries)))
	}
	return n
}

// Len returns the number of cached chunks.
func (c *ChunkCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *ChunkCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Close releases every cached chunk.
func (c *ChunkCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for k, e := range c.entries {
		errs = append(errs, c.gen.Release(e.chunk))
		delete(c.entries, k)
	}
	return errors.Join(errs...)
}
