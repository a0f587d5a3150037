package compare

import (
	"fmt"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/properties"
)

// ScopeMode selects which of a rule's selective properties are checked.
type ScopeMode int

const (
	// ScopeAll requires every selective property to match.
	ScopeAll ScopeMode = iota
	// ScopeSingle checks only the property at Scope.Index.
	ScopeSingle
)

// Scope is the explicit selective-comparison scope.
type Scope struct {
	Mode  ScopeMode
	Index int
}

// AllProperties is the default scope.
var AllProperties = Scope{Mode: ScopeAll}

// SingleProperty checks only the property at index.
func SingleProperty(index int) Scope {
	return Scope{Mode: ScopeSingle, Index: index}
}

// ParseScopeMode parses the comparison.selective_scope setting.
func ParseScopeMode(s string) (ScopeMode, error) {
	switch s {
	case "", "all":
		return ScopeAll, nil
	case "single":
		return ScopeSingle, nil
	}
	return ScopeAll, fmt.Errorf("unknown selective scope %q", s)
}

// Selective compares only the named top-level properties. Names are editor
// labels and are resolved against the reference snapshot. A label that
// does not resolve, or a property missing from either side, makes the
// candidate non-conforming.
func (c *Comparator) Selective(ref, cand *properties.Tree, displayNames []string, scope Scope) (bool, error) {
	if len(displayNames) == 0 {
		return false, errors.New(errors.ErrRuleInvalid, "selective comparison needs at least one property")
	}

	names := displayNames
	if scope.Mode == ScopeSingle {
		if scope.Index < 0 || scope.Index >= len(displayNames) {
			return false, errors.Newf(errors.ErrInvalidInput, "selective index %d out of range (0-%d)", scope.Index, len(displayNames)-1)
		}
		names = displayNames[scope.Index : scope.Index+1]
	}

	for _, display := range names {
		ok, err := c.property(ref, cand, display)
		if err != nil {
			c.logger.Warn().Err(err).Str("property", display).Msg("Selective property could not be compared")
			return false, nil
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c *Comparator) property(ref, cand *properties.Tree, display string) (bool, error) {
	name, ok := ref.ResolveDisplayName(display)
	if !ok {
		return false, errors.Newf(errors.ErrPropertyNotFound, "no property labelled %q on the reference", display)
	}
	rn, _ := ref.Get(name)
	cn, ok := cand.Get(name)
	if !ok {
		return false, errors.Newf(errors.ErrPropertyNotFound, "candidate has no property %q", name)
	}
	return c.Nodes(rn, cn), nil
}
