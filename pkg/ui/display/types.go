// Package display holds the view models the renderers understand. Commands
// build one of these and hand it to a ui.Renderer.
package display

import (
	"github.com/arthur-debert/assetaudit/pkg/results"
	"github.com/arthur-debert/assetaudit/pkg/types"
)

// ScanReport is the outcome of scanning one rule.
type ScanReport struct {
	Rule    types.Rule      `json:"rule"`
	Filter  string          `json:"filter,omitempty"`
	Summary results.Summary `json:"summary"`
	Assets  []Row           `json:"assets"`

	tree *results.Tree
}

// Row is one line of a scan report.
type Row struct {
	Depth       int      `json:"depth"`
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	IsAsset     bool     `json:"isAsset"`
	Conforms    bool     `json:"conforms"`
	Differences []string `json:"differences,omitempty"`
}

// NewScanReport builds a report from a result tree. With a filter the
// report lists matching assets flat and sorted by name, otherwise it
// lists the whole tree.
func NewScanReport(tree *results.Tree, filter string) *ScanReport {
	r := &ScanReport{Rule: tree.Rule, Filter: filter, Summary: tree.Summary(), tree: tree}
	if filter != "" {
		for _, n := range results.SortedByName(tree.Filter(filter)) {
			r.Assets = append(r.Assets, rowOf(n, 0))
		}
		return r
	}
	for _, n := range tree.Flatten() {
		r.Assets = append(r.Assets, rowOf(n, n.Depth))
	}
	return r
}

func rowOf(n *results.Node, depth int) Row {
	return Row{
		Depth:       depth,
		Name:        n.Name,
		Path:        n.Path,
		IsAsset:     n.IsAsset,
		Conforms:    n.Conforms,
		Differences: n.Differences,
	}
}

// Tree is the result tree the report was built from.
func (r *ScanReport) Tree() *results.Tree { return r.tree }

// AssetRows returns only the asset rows.
func (r *ScanReport) AssetRows() []Row {
	var out []Row
	for _, row := range r.Assets {
		if row.IsAsset {
			out = append(out, row)
		}
	}
	return out
}

// RuleList is the output of `rules list`.
type RuleList struct {
	Rules []RuleRow `json:"rules"`
}

// RuleRow is a rule with its resolved reference asset.
type RuleRow struct {
	types.Rule
	ReferencePath string `json:"referencePath,omitempty"`
	// ReferenceMissing is set when the reference asset cannot be found.
	ReferenceMissing bool `json:"referenceMissing,omitempty"`
}

// RuleSaved reports a created or edited rule.
type RuleSaved struct {
	Action        string     `json:"action"`
	Rule          types.Rule `json:"rule"`
	ReferencePath string     `json:"referencePath,omitempty"`
}

// PropertyList lists the properties selective rules of a kind can name.
type PropertyList struct {
	Kind  types.AssetKind `json:"kind"`
	Names []string        `json:"names"`
}

// FixReport is the outcome of fixing assets.
type FixReport struct {
	Rule   string       `json:"rule"`
	Fixed  []string     `json:"fixed"`
	Failed []FixFailure `json:"failed,omitempty"`
}

// FixFailure is an asset that could not be fixed.
type FixFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}
