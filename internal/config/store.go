package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "uee_config.yaml"

// Store loads and saves a WipeConfig at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore returns a store for path, or DefaultFileName when path is empty.
func NewStore(path string, logger *zap.Logger) *Store {
	if path == "" {
		path = DefaultFileName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration. A missing file yields the defaults and no
// error. A file that cannot be read, parsed or validated yields the defaults
// and a *ConfigError.
func (s *Store) Load() (WipeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("No config file, using defaults", zap.String("path", s.path))
		return Default(), nil
	}
	if err != nil {
		return Default(), &ConfigError{Path: s.path, Op: "load", Err: err}
	}

	// unset keys keep their defaults
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), &ConfigError{Path: s.path, Op: "load", Err: fmt.Errorf("failed to parse config file: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return Default(), &ConfigError{Path: s.path, Op: "load", Err: err}
	}

	s.logger.Debug("Loaded config",
		zap.String("path", s.path),
		zap.Int("passes", cfg.Passes),
		zap.String("pattern", string(cfg.Pattern)),
	)
	return cfg, nil
}

// Save writes cfg atomically through a temporary file and rename.
func (s *Store) Save(cfg WipeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: s.path, Op: "save", Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &ConfigError{Path: s.path, Op: "save", Err: fmt.Errorf("failed to create config directory: %w", err)}
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return &ConfigError{Path: s.path, Op: "save", Err: fmt.Errorf("failed to marshal config: %w", err)}
	}
	header := []byte("# uee wipe configuration\n# Edited from the Advanced menu (Save config) or `uee config`.\n\n")
	data = append(header, data...)

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return &ConfigError{Path: s.path, Op: "save", Err: fmt.Errorf("failed to write temporary config file: %w", err)}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &ConfigError{Path: s.path, Op: "save", Err: err}
	}

	s.logger.Info("Saved config", zap.String("path", s.path))
	return nil
}
