// Package diff renders the import settings of two assets as a unified diff.
package diff

import (
	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Unified diffs the settings of ref and cand. Keys in ignored are left out
// of both sides. An empty string means the settings are identical.
func Unified(refName, candName string, ref, cand *assetdb.Importer, ignored []string) (string, error) {
	a, err := ref.MarshalSettings(ignored...)
	if err != nil {
		return "", err
	}
	b, err := cand.MarshalSettings(ignored...)
	if err != nil {
		return "", err
	}
	return Text(refName, candName, a, b)
}

// Text diffs two strings line by line.
func Text(aName, bName, a, b string) (string, error) {
	if a == b {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  DefaultContext,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render diff")
	}
	return out, nil
}
