package avatar

import (
	"fmt"
	"path/filepath"

	"statickr-go/internal/config"
)

// Store persists avatar fetch timestamps keyed by profile URL across
// runs. Entries never expire; they are only replaced when a fetch
// produced a genuinely new avatar. The store is a load-modify-save
// unit: mutations accumulate in memory and Flush rewrites the whole
// set, so a crash mid-run loses only that run's updates.
type Store interface {
	// Get returns the stored timestamp for a key, if any.
	Get(key string) (string, bool)

	// Put records a timestamp for a key. The change is not durable
	// until Flush.
	Put(key, value string)

	// Flush persists the full entry set, old and updated alike.
	Flush() error

	// Close releases any backing resources. Flush is not implied.
	Close() error
}

// NewStoreFromConfig creates a Store implementation based on the cache
// config type. Default backing locations live under avatarsDir.
func NewStoreFromConfig(cfg config.CacheConfig, avatarsDir string) (Store, error) {
	switch cfg.Type {
	case "", "json":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(avatarsDir, "last_fetch.json")
		}
		return NewJSONStore(path)
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(avatarsDir, "last_fetch.db")
		}
		return NewSQLiteStore(path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown avatar cache type: %s", cfg.Type)
	}
}

// MemoryStore is an in-memory Store. Use in tests.
type MemoryStore struct {
	entries map[string]string
	flushes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *MemoryStore) Put(key, value string) {
	s.entries[key] = value
}

func (s *MemoryStore) Flush() error {
	s.flushes++
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Flushes returns how many times Flush was called.
func (s *MemoryStore) Flushes() int { return s.flushes }
