package rules

import (
	"path/filepath"

	"github.com/arthur-debert/assetaudit/pkg/config"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/types"
)

// Ledger maps reference-asset guids to serialized rules.
type Ledger interface {
	Load() (map[string]string, error)
	Put(guid, rule string) error
	Delete(guid string) error
	Close() error
}

// OpenLedger opens the backend selected by cfg.Rules.Ledger. The TOML
// ledger goes through fsys; SQLite always uses the real filesystem.
func OpenLedger(cfg *config.Config, fsys types.FS, projectRoot string) (Ledger, error) {
	switch cfg.Rules.Ledger {
	case config.LedgerTOML, "":
		return NewTOMLLedger(fsys, filepath.Join(projectRoot, filepath.FromSlash(cfg.Rules.LedgerPath))), nil
	case config.LedgerSQLite:
		return OpenSQLiteLedger(filepath.Join(projectRoot, filepath.FromSlash(cfg.Rules.SQLitePath)))
	}
	return nil, errors.Newf(errors.ErrConfigValid, "unknown ledger backend %q", cfg.Rules.Ledger)
}
