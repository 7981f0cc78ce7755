package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/acolita/wildcard-mcp/internal/adapters/realfs"
	"github.com/acolita/wildcard-mcp/internal/ports"
)

const (
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "WILDCARD_CONFIG_PATH"

	// DefaultConfigPath is the well-known location a container mounts its config at.
	DefaultConfigPath = "/config/config.toml"

	// FileName is the configuration file name used by the local fallbacks.
	FileName = "config.toml"
)

// SearchPaths returns the configuration candidates in priority order:
// an explicit path (from the command line), then $WILDCARD_CONFIG_PATH or,
// when it is unset, the well-known mount, then config.toml next to the
// installation and in the working directory. Empty entries and duplicates
// are dropped.
func SearchPaths(explicit string, fsys ports.FileSystem, installDir string) []string {
	primary := fsys.Getenv(EnvConfigPath)
	if primary == "" {
		primary = DefaultConfigPath
	}

	candidates := []string{explicit, primary}
	if installDir != "" {
		candidates = append(candidates, filepath.Join(installDir, FileName))
	}
	candidates = append(candidates, FileName)

	seen := make(map[string]bool, len(candidates))
	paths := candidates[:0]
	for _, c := range candidates {
		if c == "" {
			continue
		}
		c = filepath.Clean(c)
		if seen[c] {
			continue
		}
		seen[c] = true
		paths = append(paths, c)
	}
	return paths
}

// Locate returns the first candidate that exists as a regular file.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Locate(candidates []string, fsys ...ports.FileSystem) (string, error) {
	var fileSystem ports.FileSystem = realfs.New()
	if len(fsys) > 0 && fsys[0] != nil {
		fileSystem = fsys[0]
	}

	for _, c := range candidates {
		info, err := fileSystem.Stat(c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s (set %s or mount a config at %s)",
		ErrConfigNotFound, strings.Join(candidates, ", "), EnvConfigPath, DefaultConfigPath)
}
