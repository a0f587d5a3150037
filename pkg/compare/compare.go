// Package compare decides whether two importer snapshots are equivalent.
//
// Comparison walks both trees in lockstep. Nodes of different kinds are never
// equal, primitives are compared exactly, references always compare equal
// (they point at project-specific objects), composites recurse child by
// child, and array length nodes compare sizes. A configurable set of noise
// paths (the recycle-name ledger, user data) always compares equal.
//
// The comparator is pure: it reads snapshots and never mutates them.
package compare

import (
	"math"

	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/properties"
	"github.com/rs/zerolog"
)

// DefaultIgnoredPaths are compared as always equal.
var DefaultIgnoredPaths = []string{
	"fileIDToRecycleName",
	"m_FileIDToRecycleName",
	"internalIDToNameTable",
	"userData",
}

// Comparator compares property snapshots.
type Comparator struct {
	ignored map[string]bool
	logger  zerolog.Logger
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithIgnoredPaths replaces the default noise paths.
func WithIgnoredPaths(paths []string) Option {
	return func(c *Comparator) {
		c.ignored = make(map[string]bool, len(paths))
		for _, p := range paths {
			c.ignored[p] = true
		}
	}
}

// New creates a comparator.
func New(opts ...Option) *Comparator {
	c := &Comparator{logger: logging.GetLogger("compare")}
	WithIgnoredPaths(DefaultIgnoredPaths)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsIgnored reports whether path is a noise path.
func (c *Comparator) IsIgnored(path string) bool {
	return c.ignored[path]
}

// Trees compares every top-level property of ref and cand in lockstep and
// stops at the first mismatch.
func (c *Comparator) Trees(ref, cand *properties.Tree) bool {
	return c.siblings(ref.Top(), cand.Top())
}

// Nodes compares two nodes and their subtrees.
func (c *Comparator) Nodes(a, b *properties.Node) bool {
	if c.ignored[a.Path] || c.ignored[b.Path] {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case properties.KindReference:
		return true
	case properties.KindArrayLength:
		if a.IsArray && b.IsArray {
			return a.ArraySize == b.ArraySize
		}
		return PrimitiveEqual(a.Value, b.Value)
	case properties.KindComposite:
		if a.IsArray != b.IsArray {
			return false
		}
		return c.siblings(a.Children, b.Children)
	default:
		return a.Type == b.Type && PrimitiveEqual(a.Value, b.Value)
	}
}

// siblings pairs two child lists in lockstep. Noise paths are dropped from
// both lists first, so a noise field present on one side only is not a
// difference.
func (c *Comparator) siblings(as, bs []*properties.Node) bool {
	as, bs = c.significant(as), c.significant(bs)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i].Name != bs[i].Name {
			return false
		}
		if !c.Nodes(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// significant returns nodes without the ignored ones, reusing the slice when
// nothing is ignored.
func (c *Comparator) significant(nodes []*properties.Node) []*properties.Node {
	for i, n := range nodes {
		if !c.ignored[n.Path] {
			continue
		}
		out := make([]*properties.Node, 0, len(nodes)-1)
		out = append(out, nodes[:i]...)
		for _, m := range nodes[i+1:] {
			if !c.ignored[m.Path] {
				out = append(out, m)
			}
		}
		return out
	}
	return nodes
}

// PrimitiveEqual compares decoded primitive values exactly. Floats are
// compared by bit pattern, so a value always equals itself.
func PrimitiveEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && math.Float64bits(av) == math.Float64bits(bv)
	case []float64:
		bv, ok := b.([]float64)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if math.Float64bits(av[i]) != math.Float64bits(bv[i]) {
				return false
			}
		}
		return true
	case int64, uint64, bool, string, nil:
		return a == b
	default:
		return false
	}
}
