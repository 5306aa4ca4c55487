package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the full run configuration for statickr.
// Values come from defaults, then the TOML config file, then environment
// variables, then CLI flags, each layer overriding the previous one.
type Config struct {
	TemplatesDir  string `toml:"templates_dir"`
	PhotosPerPage int    `toml:"photos_per_page"`
	OldestFirst   bool   `toml:"oldest_first"`
	DisablePaging bool   `toml:"disable_paging"`
	Verbose       bool   `toml:"verbose"`

	Avatars AvatarsConfig `toml:"avatars"`
}

// AvatarsConfig controls the avatar fetch pipeline.
type AvatarsConfig struct {
	Fetch          bool   `toml:"fetch"`
	SkipExisting   bool   `toml:"skip_existing"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	DelayMillis    int    `toml:"delay_ms"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects the avatar timestamp cache backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CacheConfig struct {
	Type string `toml:"type"`           // "json" (default), "sqlite", or "memory"
	Path string `toml:"path,omitempty"` // overrides the default location under <dest>/avatars
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		TemplatesDir:  "templates",
		PhotosPerPage: 20,
		Avatars: AvatarsConfig{
			Fetch:          true,
			UserAgent:      "statickr",
			TimeoutSeconds: 30,
			DelayMillis:    1000,
			Cache:          CacheConfig{Type: "json"},
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader on top of the defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load builds the run configuration. path selects the config file; when
// empty, STATICKR_CONFIG_PATH and then ~/.config/statickr.toml are tried.
// A missing config file is not an error: the defaults apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		var err error
		path, err = defaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		m := &Manager{}
		cfg, err = m.Read(f)
		if err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// no config file, defaults apply
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// defaultPath returns the config file path, checking STATICKR_CONFIG_PATH
// first, then falling back to ~/.config/statickr.toml.
func defaultPath() (string, error) {
	if path := os.Getenv("STATICKR_CONFIG_PATH"); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "statickr.toml"), nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STATICKR_TEMPLATES"); v != "" {
		cfg.TemplatesDir = v
	}
	if v := os.Getenv("STATICKR_USER_AGENT"); v != "" {
		cfg.Avatars.UserAgent = v
	}
}
