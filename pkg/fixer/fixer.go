// Package fixer overwrites an asset's import settings with a rule's
// reference settings.
//
// Full rules copy the whole importer configuration (the target keeps its
// own noise fields). Selective rules copy only the listed properties, one
// at a time, and a property that cannot be applied is logged and skipped.
package fixer

import (
	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/results"
	"github.com/arthur-debert/assetaudit/pkg/scheduler"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/rs/zerolog"
)

// Stamps clears rule stamps left on fixed assets.
type Stamps interface {
	ClearStamp(guid string) error
}

// References resolves a rule's reference importer.
type References interface {
	Reference(rule types.Rule) (*assetdb.Importer, error)
}

// RuleSource is what the applier needs from the rule store.
type RuleSource interface {
	Stamps
	References
}

// Applier writes reference settings onto assets.
type Applier struct {
	db       *assetdb.Database
	rules    RuleSource
	preserve []string
	logger   zerolog.Logger
}

// New creates an applier. preserve names the top-level settings a full fix
// leaves untouched on the target.
func New(db *assetdb.Database, rules RuleSource, preserve []string) *Applier {
	return &Applier{
		db:       db,
		rules:    rules,
		preserve: preserve,
		logger:   logging.GetLogger("fixer"),
	}
}

// Fix applies ref's settings to target according to rule's mode, then
// saves and reimports target.
func (a *Applier) Fix(rule types.Rule, ref, target *assetdb.Importer) error {
	if ref.GUID() == target.GUID() {
		a.logger.Debug().Str("path", target.Path()).Msg("Skipping reference asset")
		return nil
	}
	if rule.SelectiveMode {
		return a.fixSelective(rule, ref, target)
	}
	return a.fixFull(rule, ref, target)
}

func (a *Applier) fixFull(rule types.Rule, ref, target *assetdb.Importer) error {
	if err := target.CopyFrom(ref, a.preserve...); err != nil {
		return err
	}
	// The copy must not turn the target into a reference.
	if err := a.rules.ClearStamp(target.GUID()); err != nil {
		return err
	}
	if err := a.apply(target); err != nil {
		return err
	}
	a.logger.Info().Str("rule", rule.Name).Str("path", target.Path()).Msg("Import settings fixed")
	return nil
}

func (a *Applier) fixSelective(rule types.Rule, ref, target *assetdb.Importer) error {
	applied := 0
	for _, display := range rule.SelectiveProperties {
		name, ok := target.ResolveDisplayName(display)
		if !ok {
			a.logger.Warn().Str("path", target.Path()).Str("property", display).Msg("Property not found on asset")
			continue
		}
		if err := target.CopyProperty(ref, name); err != nil {
			a.logger.Warn().Err(err).Str("path", target.Path()).Str("property", display).Msg("Property could not be copied")
			continue
		}
		if err := a.apply(target); err != nil {
			return err
		}
		applied++
	}
	a.logger.Info().
		Str("rule", rule.Name).
		Str("path", target.Path()).
		Int("applied", applied).
		Int("requested", len(rule.SelectiveProperties)).
		Msg("Selective properties fixed")
	return nil
}

func (a *Applier) apply(target *assetdb.Importer) error {
	if err := a.db.WriteImportSettings(target); err != nil {
		return errors.Wrapf(err, errors.ErrApplyFailed, "cannot save import settings of %s", target.Path())
	}
	if _, err := a.db.ImportAsset(target.Path()); err != nil {
		return errors.Wrapf(err, errors.ErrApplyFailed, "cannot reimport %s", target.Path())
	}
	return nil
}

// FixAsset fixes the asset behind a result node and marks the node
// conforming without comparing again.
func (a *Applier) FixAsset(rule types.Rule, node *results.Node) error {
	ref, err := a.rules.Reference(rule)
	if err != nil {
		return err
	}
	return a.fixNode(rule, ref, node)
}

func (a *Applier) fixNode(rule types.Rule, ref *assetdb.Importer, node *results.Node) error {
	if !node.IsAsset {
		return errors.Newf(errors.ErrInvalidInput, "%s is not an asset", node.Path)
	}
	target, err := a.db.ImporterAtPath(node.Path)
	if err != nil {
		return err
	}
	if err := a.Fix(rule, ref, target); err != nil {
		return err
	}
	node.Conforms = true
	node.Differences = nil
	return nil
}

// NewFixAllJob fixes every non-conforming asset of tree, one tree node per
// step. Recoverable failures are logged and the job moves on.
func (a *Applier) NewFixAllJob(rule types.Rule, tree *results.Tree) *scheduler.SliceJob[*results.Node] {
	var ref *assetdb.Importer
	return scheduler.NewSliceJob("fix-all:"+rule.Name, tree.Flatten(), func(_ int, n *results.Node) error {
		if !n.IsAsset || n.Conforms {
			return nil
		}
		if ref == nil {
			r, err := a.rules.Reference(rule)
			if err != nil {
				return err
			}
			ref = r
		}
		if err := a.fixNode(rule, ref, n); err != nil {
			if errors.IsRecoverable(err) {
				a.logger.Warn().Err(err).Str("path", n.Path).Msg("Asset not fixed")
				return nil
			}
			return err
		}
		return nil
	})
}
