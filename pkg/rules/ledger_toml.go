package rules

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

const ledgerVersion = 1

type ledgerFile struct {
	Version int               `toml:"version"`
	Rules   map[string]string `toml:"rules"`
}

// TOMLLedger keeps the side-table in a single TOML file. Every write
// rewrites the file.
type TOMLLedger struct {
	fs   types.FS
	path string
}

// NewTOMLLedger returns a ledger stored at path. The file is created on the
// first write.
func NewTOMLLedger(fsys types.FS, path string) *TOMLLedger {
	return &TOMLLedger{fs: fsys, path: path}
}

func (l *TOMLLedger) read() (*ledgerFile, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ledgerFile{Version: ledgerVersion, Rules: map[string]string{}}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrLedger, "cannot read rule ledger %s", l.path)
	}
	var f ledgerFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLedger, "invalid rule ledger %s", l.path)
	}
	if f.Rules == nil {
		f.Rules = map[string]string{}
	}
	return &f, nil
}

func (l *TOMLLedger) write(f *ledgerFile) error {
	f.Version = ledgerVersion
	data, err := toml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, errors.ErrLedger, "cannot encode rule ledger")
	}
	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(l.path))
	}
	if err := l.fs.WriteFile(l.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write rule ledger %s", l.path)
	}
	return nil
}

func (l *TOMLLedger) Load() (map[string]string, error) {
	f, err := l.read()
	if err != nil {
		return nil, err
	}
	return f.Rules, nil
}

func (l *TOMLLedger) Put(guid, rule string) error {
	f, err := l.read()
	if err != nil {
		return err
	}
	f.Rules[guid] = rule
	return l.write(f)
}

func (l *TOMLLedger) Delete(guid string) error {
	f, err := l.read()
	if err != nil {
		return err
	}
	if _, ok := f.Rules[guid]; !ok {
		return nil
	}
	delete(f.Rules, guid)
	return l.write(f)
}

func (l *TOMLLedger) Close() error { return nil }
