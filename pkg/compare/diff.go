package compare

import (
	"github.com/arthur-debert/assetaudit/pkg/properties"
)

// Difference is one mismatching property found by Diff.
type Difference struct {
	Path      string
	Reference string
	Candidate string
	Reason    string
}

const (
	ReasonKind      = "kind mismatch"
	ReasonValue     = "value differs"
	ReasonMissing   = "missing on candidate"
	ReasonExtra     = "not on reference"
	ReasonArraySize = "array size differs"
	ReasonOrder     = "out of order"
)

// Diff applies the same rules as Trees without short-circuiting and
// returns every mismatch. Siblings are paired by name so one inserted
// property does not cascade into unrelated reports; siblings present on both
// sides in a different order are reported once per list. Diff is empty
// exactly when Trees reports the trees equal.
func (c *Comparator) Diff(ref, cand *properties.Tree) []Difference {
	var out []Difference
	c.diffSiblings(ref.Top(), cand.Top(), &out)
	return out
}

// DiffSelective is Diff restricted to the named top-level properties.
func (c *Comparator) DiffSelective(ref, cand *properties.Tree, displayNames []string) []Difference {
	var out []Difference
	for _, display := range displayNames {
		name, ok := ref.ResolveDisplayName(display)
		if !ok {
			out = append(out, Difference{Path: display, Reason: ReasonMissing})
			continue
		}
		rn, _ := ref.Get(name)
		cn, ok := cand.Get(name)
		if !ok {
			out = append(out, Difference{Path: rn.Path, Reference: rn.ValueString(), Reason: ReasonMissing})
			continue
		}
		c.diffNode(rn, cn, &out)
	}
	return out
}

func (c *Comparator) diffSiblings(as, bs []*properties.Node, out *[]Difference) {
	as, bs = c.significant(as), c.significant(bs)
	byName := make(map[string]*properties.Node, len(bs))
	for _, b := range bs {
		byName[b.Name] = b
	}
	seen := make(map[string]bool, len(as))
	var shared []*properties.Node
	for _, a := range as {
		seen[a.Name] = true
		b, ok := byName[a.Name]
		if !ok {
			*out = append(*out, Difference{Path: a.Path, Reference: a.ValueString(), Reason: ReasonMissing})
			continue
		}
		shared = append(shared, a)
		c.diffNode(a, b, out)
	}
	var candOrder []*properties.Node
	for _, b := range bs {
		if !seen[b.Name] {
			*out = append(*out, Difference{Path: b.Path, Candidate: b.ValueString(), Reason: ReasonExtra})
			continue
		}
		candOrder = append(candOrder, b)
	}
	for i := range shared {
		if shared[i].Name != candOrder[i].Name {
			*out = append(*out, Difference{Path: candOrder[i].Path, Reference: shared[i].Name, Candidate: candOrder[i].Name, Reason: ReasonOrder})
			break
		}
	}
}

func (c *Comparator) diffNode(a, b *properties.Node, out *[]Difference) {
	if c.ignored[a.Path] || c.ignored[b.Path] {
		return
	}
	if a.Kind != b.Kind || (a.Kind == properties.KindComposite && a.IsArray != b.IsArray) {
		*out = append(*out, Difference{Path: a.Path, Reference: a.ValueString(), Candidate: b.ValueString(), Reason: ReasonKind})
		return
	}
	switch a.Kind {
	case properties.KindComposite:
		c.diffSiblings(a.Children, b.Children, out)
	case properties.KindArrayLength:
		if !c.Nodes(a, b) {
			*out = append(*out, Difference{Path: a.Path, Reference: a.ValueString(), Candidate: b.ValueString(), Reason: ReasonArraySize})
		}
	case properties.KindPrimitive:
		if !c.Nodes(a, b) {
			*out = append(*out, Difference{Path: a.Path, Reference: a.ValueString(), Candidate: b.ValueString(), Reason: ReasonValue})
		}
	}
}

// ImporterPath is the Difference path used when the importers themselves
// differ in class.
const ImporterPath = "importer"

// ImporterMismatch reports a candidate whose importer class differs from
// the reference's. Such candidates are never compared property by property.
func ImporterMismatch(refClass, candClass string) Difference {
	return Difference{Path: ImporterPath, Reference: refClass, Candidate: candClass, Reason: ReasonKind}
}

// Paths returns the paths of diffs, for AffectedAsset.Differences.
func Paths(diffs []Difference) []string {
	paths := make([]string, len(diffs))
	for i, d := range diffs {
		paths[i] = d.Path
	}
	return paths
}
