package properties

// Tree is an immutable snapshot of one importer's settings. The root is a
// synthetic composite whose children are the top-level properties.
type Tree struct {
	root   *Node
	byName map[string]*Node
	byPath map[string]*Node
}

func newTree(root *Node) *Tree {
	t := &Tree{
		root:   root,
		byName: make(map[string]*Node, len(root.Children)),
		byPath: make(map[string]*Node),
	}
	for _, child := range root.Children {
		t.byName[child.Name] = child
	}
	t.Walk(func(n *Node) bool {
		t.byPath[n.Path] = n
		return true
	})
	return t
}

// Root returns the synthetic root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Top returns the top-level properties in serialization order.
func (t *Tree) Top() []*Node {
	return t.root.Children
}

// Get returns a top-level property by its machine name.
func (t *Tree) Get(name string) (*Node, bool) {
	n, ok := t.byName[name]
	return n, ok
}

// Find returns any property by its full path, e.g. "mipmaps.enableMipMap".
func (t *Tree) Find(path string) (*Node, bool) {
	n, ok := t.byPath[path]
	return n, ok
}

// ResolveDisplayName maps an editor label back to the machine name of the
// first top-level property that carries it.
func (t *Tree) ResolveDisplayName(display string) (string, bool) {
	for _, n := range t.root.Children {
		if n.DisplayName == display {
			return n.Name, true
		}
	}
	return "", false
}

// DisplayNames lists the labels of the top-level properties.
func (t *Tree) DisplayNames() []string {
	names := make([]string, 0, len(t.root.Children))
	for _, n := range t.root.Children {
		names = append(names, n.DisplayName)
	}
	return names
}

// Walk visits every node below the root in pre-order. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(fn func(*Node) bool) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				visit(n.Children)
			}
		}
	}
	visit(t.root.Children)
}

// Len returns the number of nodes below the root.
func (t *Tree) Len() int {
	return len(t.byPath)
}
