package systems

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quasilyte/gdata"
	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/noise"
)

var ErrNoSnapshot = errors.New("no saved snapshot")

// ItemStore is the slice of gdata.Manager the snapshot store needs.
type ItemStore interface {
	SaveItem(itemKey string, data []byte) error
	LoadItem(itemKey string) ([]byte, error)
}

// LevelSnapshot is the on-disk form of a generated level.
type LevelSnapshot struct {
	Seed        string     `json:"seed"`
	Mode        string     `json:"mode"`
	Chunks      int        `json:"chunks"`
	ChunkSize   int        `json:"chunkSize"`
	TileSize    int        `json:"tileSize"`
	Rows        []string   `json:"rows"`
	SpawnX      float64    `json:"spawnX"`
	SpawnY      float64    `json:"spawnY"`
	SpawnTile   grid.Point `json:"spawnTile"`
	Goal        grid.Point `json:"goal"`
	Traversable bool       `json:"traversable"`
	Reachable   int        `json:"reachable"`
	SavedAt     time.Time  `json:"savedAt"`
}

// SnapshotFromLevel captures lvl for storage.
func SnapshotFromLevel(seed, mode string, lvl *generation.Level) *LevelSnapshot {
	return &LevelSnapshot{
		Seed:        seed,
		Mode:        mode,
		Chunks:      len(lvl.Chunks),
		ChunkSize:   lvl.ChunkSize,
		TileSize:    lvl.TileSize,
		Rows:        strings.Split(strings.TrimSuffix(lvl.Grid.String(), "\n"), "\n"),
		SpawnX:      lvl.Spawn.X,
		SpawnY:      lvl.Spawn.Y,
		SpawnTile:   lvl.SpawnTile,
		Goal:        lvl.Goal,
		Traversable: lvl.Traversable,
		Reachable:   lvl.Reachable,
		SavedAt:     time.Now().UTC(),
	}
}

// Key names the snapshot by seed, mode and width.
func (s *LevelSnapshot) Key() string {
	return SnapshotKey(s.Seed, s.Mode, s.Chunks)
}

// Grid rebuilds the level grid.
func (s *LevelSnapshot) Grid() (*grid.Grid, error) {
	return grid.Parse(s.Rows...)
}

// SnapshotKey returns the item key for a level. Seeds are hashed so any seed
// string maps to a safe file name.
func SnapshotKey(seed, mode string, chunks int) string {
	return fmt.Sprintf("level_%016x_%s_%d", uint64(noise.HashSeed(seed)), mode, chunks)
}

// SnapshotStore saves and loads level snapshots.
type SnapshotStore struct {
	items ItemStore
}

func NewSnapshotStore(items ItemStore) *SnapshotStore {
	return &SnapshotStore{items: items}
}

// OpenSnapshotStore opens the gdata directory for appName.
func OpenSnapshotStore(appName string) (*SnapshotStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return NewSnapshotStore(m), nil
}

// Save writes snap under its key.
func (s *SnapshotStore) Save(snap *LevelSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.items.SaveItem(snap.Key(), data); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Key(), err)
	}
	logger.Log.Info("snapshot saved", zap.String("key", snap.Key()), zap.Int("bytes", len(data)))
	return nil
}

// Load reads the snapshot stored under key.
func (s *SnapshotStore) Load(key string) (*LevelSnapshot, error) {
	data, err := s.items.LoadItem(key)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, key)
	}
	var snap LevelSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return &snap, nil
}

// Has reports whether a snapshot is stored under key.
func (s *SnapshotStore) Has(key string) bool {
	data, err := s.items.LoadItem(key)
	return err == nil && len(data) > 0
}

// Clear empties the snapshot stored under key.
func (s *SnapshotStore) Clear(key string) error {
	if err := s.items.SaveItem(key, nil); err != nil {
		return fmt.Errorf("clear snapshot %s: %w", key, err)
	}
	return nil
}
