package files

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName defines the folder under the user's home directory.
	DefaultDirName = ".belajar"

	// HomeEnv overrides the base directory when set to a non-empty value.
	HomeEnv = "BELAJAR_HOME"
)

// ResolveBasePath determines where belajar keeps its data, defaulting to ~/.belajar.
// The location can be overridden by exporting BELAJAR_HOME.
func ResolveBasePath() (string, error) {
	if override, ok := os.LookupEnv(HomeEnv); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return ExpandHome(override)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(input string) (string, error) {
	if !strings.HasPrefix(input, "~") {
		return input, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(input, "~")), nil
}
