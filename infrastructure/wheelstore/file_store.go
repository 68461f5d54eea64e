// Package wheelstore persists the wheel state, either as a YAML file or in a
// SQLite database.
package wheelstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wheelkit/wheelhost/domain/entities"
	"github.com/wheelkit/wheelhost/domain/ports"
)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string      // Path to the wheel file
	dirPerm  os.FileMode // Permission for created directories
	filePerm os.FileMode // Permission for the wheel file
}

func defaultFileStoreConfig() fileStoreConfig {
	return fileStoreConfig{
		path:     "wheel.yaml",
		dirPerm:  0o755,
		filePerm: 0o600,
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the wheel file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.path = path
	}
}

// WithFilePermissions sets the file permissions for the wheel file.
// Default is 0o600 (user-only).
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions of created parent directories.
// Default is 0o755.
func WithDirPermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirPerm = perm
	}
}

// FileStore keeps the wheel state in a YAML file. Saves go through a temp
// file and a rename so a crash never leaves a half-written file.
type FileStore struct {
	config fileStoreConfig
	mu     sync.Mutex
}

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) ports.WheelStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Load reads the wheel file. A missing file is not an error.
func (s *FileStore) Load(_ context.Context) (*entities.WheelState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.config.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wheel store: %w", err)
	}

	var state entities.WheelState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse wheel store: %w", err)
	}
	return &state, nil
}

// Save writes the wheel file.
func (s *FileStore) Save(_ context.Context, state *entities.WheelState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal wheel state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create wheel store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wheel-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write wheel store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write wheel store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write wheel store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write wheel store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.config.path); err != nil {
		return fmt.Errorf("failed to write wheel store: %w", err)
	}
	return nil
}

// Location returns the path to the backing file.
func (s *FileStore) Location() string {
	return s.config.path
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}
