package auditor

import (
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/compare"
	"github.com/arthur-debert/assetaudit/pkg/diff"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/types"
)

// Explanation details why one asset does or does not conform to a rule.
type Explanation struct {
	Rule          types.Rule           `json:"rule"`
	AssetPath     string               `json:"assetPath"`
	ReferencePath string               `json:"referencePath"`
	Conforms      bool                 `json:"conforms"`
	Differences   []compare.Difference `json:"differences"`
	Unified       string               `json:"unified,omitempty"`
}

// Explain compares one asset with the rule's reference and renders the
// differences. Conformance is decided exactly as a scan decides it,
// including the selective scope; the unified diff always shows the whole
// importer, minus noise fields.
func (s *Session) Explain(rule types.Rule, path string) (*Explanation, error) {
	path = strings.Trim(path, "/")
	if !s.matcher.TypeAccepts(rule.AssetKind, path) {
		return nil, errors.Newf(errors.ErrTypeMismatch, "%s is not a %s asset, rule %q does not govern it", path, rule.AssetKind, rule.Name).
			WithDetail("path", path)
	}
	ref, err := s.store.Reference(rule)
	if err != nil {
		return nil, err
	}
	target, err := s.db.ImporterAtPath(path)
	if err != nil {
		return nil, err
	}

	e := &Explanation{Rule: rule, AssetPath: path, ReferencePath: ref.Path(), Differences: []compare.Difference{}}
	if target.Class() != ref.Class() {
		e.Differences = []compare.Difference{compare.ImporterMismatch(ref.Class(), target.Class())}
		return e, nil
	}

	refTree, err := ref.Snapshot(s.hints)
	if err != nil {
		return nil, err
	}
	tree, err := target.Snapshot(s.hints)
	if err != nil {
		return nil, err
	}

	conforms, diffs := s.verdict(rule, refTree, tree)
	e.Conforms = conforms
	if len(diffs) > 0 {
		e.Differences = diffs
	}

	e.Unified, err = diff.Unified(ref.Path(), path, ref, target, s.cfg.Comparison.IgnoredPaths)
	if err != nil {
		return nil, err
	}
	return e, nil
}
