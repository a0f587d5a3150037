// Package results arranges one scan pass into the tree shown to the user.
//
// The tree has a synthetic root (id -1, depth -1), an "Assets" container
// (id 0, depth 0), one node per intermediate folder and one leaf per
// affected asset. Ids increase in creation order from 1.
package results

import (
	"sort"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	RootID        = -1
	ContainerID   = 0
	ContainerName = "Assets"
)

// Node is one row of the result tree.
type Node struct {
	ID          int             `json:"id"`
	Depth       int             `json:"depth"`
	Name        string          `json:"name"`
	Path        string          `json:"path"`
	IsAsset     bool            `json:"isAsset"`
	Conforms    bool            `json:"conforms"`
	AssetKind   types.AssetKind `json:"assetKind"`
	Differences []string        `json:"differences,omitempty"`
	Children    []*Node         `json:"children,omitempty"`
}

// Tree is the result of one scan for one rule.
type Tree struct {
	Rule types.Rule `json:"rule"`
	Root *Node      `json:"root"`

	nextID  int
	folders map[string]*Node
}

// Summary counts the verdicts of a tree.
type Summary struct {
	Assets        int `json:"assets"`
	Conforming    int `json:"conforming"`
	NonConforming int `json:"nonConforming"`
	Folders       int `json:"folders"`
}

// Build creates the tree for assets. Assets are placed in the order given.
func Build(assets []types.AffectedAsset, rule types.Rule) *Tree {
	t := &Tree{
		Rule:    rule,
		Root:    &Node{ID: RootID, Depth: -1, Name: "Root"},
		nextID:  ContainerID + 1,
		folders: make(map[string]*Node),
	}
	container := &Node{ID: ContainerID, Depth: 0, Name: ContainerName, Path: ContainerName}
	t.Root.Children = append(t.Root.Children, container)
	t.folders[ContainerName] = container

	for _, a := range assets {
		t.add(a)
	}
	return t
}

func (t *Tree) add(a types.AffectedAsset) {
	segments := strings.Split(strings.Trim(a.AssetPath, "/"), "/")
	if len(segments) > 0 && segments[0] == ContainerName {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return
	}

	parent := t.folders[ContainerName]
	dir := ContainerName
	for i, seg := range segments[:len(segments)-1] {
		dir = dir + "/" + seg
		folder, ok := t.folders[dir]
		if !ok {
			folder = &Node{ID: t.id(), Depth: i + 1, Name: seg, Path: dir}
			parent.Children = append(parent.Children, folder)
			t.folders[dir] = folder
		}
		parent = folder
	}

	name := a.DisplayName
	if name == "" {
		name = segments[len(segments)-1]
	}
	parent.Children = append(parent.Children, &Node{
		ID:          t.id(),
		Depth:       len(segments),
		Name:        name,
		Path:        a.AssetPath,
		IsAsset:     true,
		Conforms:    a.Conforms,
		AssetKind:   a.AssetKind,
		Differences: a.Differences,
	})
}

func (t *Tree) id() int {
	id := t.nextID
	t.nextID++
	return id
}

// Flatten lists every node below the synthetic root in pre-order.
func (t *Tree) Flatten() []*Node {
	var out []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		out = append(out, n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, c := range t.Root.Children {
		visit(c)
	}
	return out
}

// Leaves returns the asset nodes in pre-order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	for _, n := range t.Flatten() {
		if n.IsAsset {
			out = append(out, n)
		}
	}
	return out
}

// NonConforming returns the asset nodes that need fixing.
func (t *Tree) NonConforming() []*Node {
	var out []*Node
	for _, n := range t.Leaves() {
		if !n.Conforms {
			out = append(out, n)
		}
	}
	return out
}

// Find returns the node for a project-relative path.
func (t *Tree) Find(path string) (*Node, bool) {
	for _, n := range t.Flatten() {
		if n.Path == path {
			return n, true
		}
	}
	return nil, false
}

// Filter returns the asset nodes whose name or path contains search,
// ignoring case. An empty search returns every asset.
func (t *Tree) Filter(search string) []*Node {
	if search == "" {
		return t.Leaves()
	}
	fold := cases.Fold()
	needle := fold.String(search)
	var out []*Node
	for _, n := range t.Leaves() {
		if strings.Contains(fold.String(n.Name), needle) || strings.Contains(fold.String(n.Path), needle) {
			out = append(out, n)
		}
	}
	return out
}

// Summary counts assets and folders.
func (t *Tree) Summary() Summary {
	var s Summary
	for _, n := range t.Flatten() {
		switch {
		case n.IsAsset && n.Conforms:
			s.Assets++
			s.Conforming++
		case n.IsAsset:
			s.Assets++
			s.NonConforming++
		case n.ID != ContainerID:
			s.Folders++
		}
	}
	return s
}

// SortedByName returns the leaves ordered by display name, the way the
// flat search view lists them.
func SortedByName(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	copy(out, nodes)
	collate := cases.Lower(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		return collate.String(out[i].Name) < collate.String(out[j].Name)
	})
	return out
}
