package config

import (
	_ "embed"
	"errors"
	"path/filepath"

	auditerrors "github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/types"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultsContent returns the embedded default configuration.
func DefaultsContent() string {
	return string(defaultConfig)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// WriteDefaults writes the embedded defaults to the project's
// .assetaudit.toml and returns its path. An existing file is left alone
// and written is false.
func WriteDefaults(fsys types.FS, projectRoot string) (path string, written bool, err error) {
	path = filepath.Join(projectRoot, ProjectFiles[0])
	if _, err := fsys.Stat(path); err == nil {
		return path, false, nil
	}
	if err := fsys.WriteFile(path, defaultConfig, 0644); err != nil {
		return path, false, auditerrors.Wrapf(err, auditerrors.ErrFileWrite, "failed to write %s", path)
	}
	return path, true, nil
}
