package avatar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore persists the timestamp map as a single JSON object on disk.
// Flush is a full-file overwrite, not an append.
type JSONStore struct {
	path    string
	entries map[string]string
}

// NewJSONStore loads the store at path. A missing file yields an empty
// store; a malformed one is an error, since silently discarding the
// cache would re-fetch every avatar.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading avatar cache: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parsing avatar cache %s: %w", path, err)
	}
	return s, nil
}

func (s *JSONStore) Get(key string) (string, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *JSONStore) Put(key, value string) {
	s.entries[key] = value
}

func (s *JSONStore) Flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating avatar cache directory: %w", err)
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding avatar cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing avatar cache: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }
