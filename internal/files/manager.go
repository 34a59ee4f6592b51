package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	dataFileName   = "belajar.db"
	configFileName = "config.toml"
)

// Manager centralizes where belajar keeps its data file, config, and exports.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.belajar (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	basePath, err = ExpandHome(basePath)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory holding all belajar state.
func (m *Manager) BasePath() string {
	return m.basePath
}

// DataPath is the key-value file holding sessions and preferences.
func (m *Manager) DataPath() string {
	return filepath.Join(m.basePath, dataFileName)
}

// ConfigPath is the optional TOML configuration file.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, configFileName)
}

// EnsureBase creates the base directory if it does not exist yet.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create base directory: %w", err)
	}
	return nil
}

// ExportPath resolves where an export named name should be written. An empty
// dir means the current working directory.
func (m *Manager) ExportPath(dir, name string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}
	dir, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// WriteAtomic writes data to path through a temp file in the same directory,
// so readers never observe a partially written file.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	temp, err := os.CreateTemp(dir, "belajar-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}
