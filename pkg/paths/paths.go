// Package paths finds the project a command works on.
//
// A project folder is recognised by its markers: an Assets folder next to a
// ProjectSettings folder. Commands run from anywhere inside a project find
// its root by walking up from the working directory.
package paths

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/assetaudit/pkg/errors"
)

const (
	// EnvProjectRoot overrides project discovery
	EnvProjectRoot = "ASSETAUDIT_PROJECT_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// ProjectMarkers are the folders every project root contains.
var ProjectMarkers = []string{"Assets", "ProjectSettings"}

// Project is the result of project discovery.
type Project struct {
	Root string
	// UsedFallback is set when no marked project was found and Root is the
	// start folder.
	UsedFallback bool
}

// FindProject resolves the project root. An explicit root wins, then
// ASSETAUDIT_PROJECT_ROOT, then the nearest marked folder at or above
// start. When nothing is marked, start itself is used.
func FindProject(explicit, start string) (Project, error) {
	if explicit != "" {
		root, err := filepath.Abs(ExpandHome(explicit))
		if err != nil {
			return Project{}, errors.Wrapf(err, errors.ErrInvalidInput, "invalid project path %s", explicit)
		}
		return Project{Root: root}, nil
	}
	if env := os.Getenv(EnvProjectRoot); env != "" {
		return FindProject(env, start)
	}

	start, err := filepath.Abs(start)
	if err != nil {
		return Project{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve %s", start)
	}
	for dir := start; ; dir = filepath.Dir(dir) {
		if IsProjectRoot(dir) {
			return Project{Root: dir}, nil
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return Project{Root: start, UsedFallback: true}, nil
}

// IsProjectRoot reports whether dir carries every project marker.
func IsProjectRoot(dir string) bool {
	for _, marker := range ProjectMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to HOME env var
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}
	if path == "~" {
		return homeDir
	}
	if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
