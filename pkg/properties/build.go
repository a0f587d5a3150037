package properties

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Hints maps a field name to the primitive type its value should be read as,
// for values whose YAML shape alone is ambiguous (enum indices look like
// ints, quaternions look like 4-vectors).
type Hints map[string]PrimitiveType

// ParseHints converts the configuration's name -> type-name table.
func ParseHints(raw map[string]string) (Hints, error) {
	hints := make(Hints, len(raw))
	for name, typeName := range raw {
		t, err := ParsePrimitiveType(typeName)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid type hint for %s", name)
		}
		hints[name] = t
	}
	return hints, nil
}

// Build snapshots an importer's settings mapping. A nil node yields an
// empty tree.
func Build(mapping *yaml.Node, hints Hints) (*Tree, error) {
	root := &Node{Kind: KindComposite}
	if mapping != nil {
		mapping = resolve(mapping)
		if mapping.Kind == yaml.DocumentNode && len(mapping.Content) > 0 {
			mapping = resolve(mapping.Content[0])
		}
		switch mapping.Kind {
		case yaml.MappingNode:
			b := builder{hints: hints}
			root.Children = b.mappingChildren("", mapping)
		case yaml.ScalarNode:
			if mapping.Tag != "!!null" && mapping.Value != "" {
				return nil, errors.Newf(errors.ErrImporterParse, "importer settings must be a mapping, got scalar %q", mapping.Value)
			}
		default:
			return nil, errors.New(errors.ErrImporterParse, "importer settings must be a mapping")
		}
	}
	return newTree(root), nil
}

type builder struct {
	hints Hints
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func (b builder) mappingChildren(parent string, m *yaml.Node) []*Node {
	children := make([]*Node, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		children = append(children, b.node(join(parent, key), key, resolve(m.Content[i+1])))
	}
	return children
}

func (b builder) node(path, name string, v *yaml.Node) *Node {
	n := &Node{Path: path, Name: name, DisplayName: Nicify(name)}

	switch v.Kind {
	case yaml.SequenceNode:
		b.fillArray(n, v)
	case yaml.MappingNode:
		b.fillMapping(n, v)
	default:
		b.fillScalar(n, v)
	}
	return n
}

func (b builder) fillArray(n *Node, v *yaml.Node) {
	n.Kind = KindComposite
	n.IsArray = true
	n.ArraySize = len(v.Content)

	size := &Node{
		Path:        n.Path + ".Array.size",
		Name:        "size",
		DisplayName: "Size",
		Kind:        KindArrayLength,
		Type:        TypeInt,
		Value:       int64(len(v.Content)),
		IsArray:     true,
		ArraySize:   len(v.Content),
	}
	n.Children = append(n.Children, size)

	for i, elem := range v.Content {
		name := fmt.Sprintf("data[%d]", i)
		child := b.node(n.Path+".Array."+name, name, resolve(elem))
		child.DisplayName = fmt.Sprintf("Element %d", i)
		n.Children = append(n.Children, child)
	}
}

func (b builder) fillMapping(n *Node, v *yaml.Node) {
	fields := mappingFields(v)

	if _, ok := fields["fileID"]; ok && onlyKeys(fields, "fileID", "guid", "type") {
		n.Kind = KindReference
		n.Value = referenceString(fields)
		return
	}

	if _, ok := fields["m_Curve"]; ok {
		n.Kind = KindPrimitive
		n.Type = TypeAnimationCurve
		n.Value = canonicalYAML(v)
		return
	}

	if t, vals, ok := b.structValue(n.Name, fields); ok {
		n.Kind = KindPrimitive
		n.Type = t
		n.Value = vals
		return
	}

	n.Kind = KindComposite
	n.Children = b.mappingChildren(n.Path, v)
}

// structValue recognises the fixed-size value structs the editor writes as
// small flow mappings.
func (b builder) structValue(name string, fields map[string]*yaml.Node) (PrimitiveType, []float64, bool) {
	keys := withoutSerializedVersion(fields)
	switch {
	case sameKeys(keys, "r", "g", "b", "a"):
		return floatsOf(TypeColor, fields, "r", "g", "b", "a")
	case sameKeys(keys, "x", "y"):
		return floatsOf(TypeVector2, fields, "x", "y")
	case sameKeys(keys, "x", "y", "z"):
		return floatsOf(TypeVector3, fields, "x", "y", "z")
	case sameKeys(keys, "x", "y", "z", "w"):
		t := TypeVector4
		if b.hints[name] == TypeQuaternion {
			t = TypeQuaternion
		}
		return floatsOf(t, fields, "x", "y", "z", "w")
	case sameKeys(keys, "x", "y", "width", "height"):
		return floatsOf(TypeRect, fields, "x", "y", "width", "height")
	case sameKeys(keys, "m_Center", "m_Extent"):
		center, cok := vector3(fields["m_Center"])
		extent, eok := vector3(fields["m_Extent"])
		if !cok || !eok {
			return TypeNone, nil, false
		}
		return TypeBounds, append(center, extent...), true
	}
	return TypeNone, nil, false
}

func (b builder) fillScalar(n *Node, v *yaml.Node) {
	n.Kind = KindPrimitive

	if hint, ok := b.hints[n.Name]; ok {
		switch hint {
		case TypeEnumIndex, TypeInt:
			if i, ok := parseInt(v.Value); ok {
				n.Type = hint
				n.Value = i
				return
			}
		case TypeFloat:
			if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
				n.Type = TypeFloat
				n.Value = f
				return
			}
		case TypeString:
			n.Type = TypeString
			n.Value = v.Value
			return
		}
	}

	switch v.ShortTag() {
	case "!!int":
		if i, ok := parseInt(v.Value); ok {
			n.Type = TypeInt
			n.Value = i
			return
		}
	case "!!float":
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			n.Type = TypeFloat
			n.Value = f
			return
		}
	case "!!bool":
		var bv bool
		if err := v.Decode(&bv); err == nil {
			n.Type = TypeBool
			n.Value = bv
			return
		}
	case "!!null":
		n.Type = TypeString
		n.Value = ""
		return
	}
	n.Type = TypeString
	n.Value = v.Value
}

func parseInt(s string) (interface{}, bool) {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, true
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return u, true
	}
	return nil, false
}

func mappingFields(m *yaml.Node) map[string]*yaml.Node {
	fields := make(map[string]*yaml.Node, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		fields[m.Content[i].Value] = resolve(m.Content[i+1])
	}
	return fields
}

func onlyKeys(fields map[string]*yaml.Node, allowed ...string) bool {
	for key := range fields {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func withoutSerializedVersion(fields map[string]*yaml.Node) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "serializedVersion" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func sameKeys(sorted []string, want ...string) bool {
	if len(sorted) != len(want) {
		return false
	}
	w := append([]string(nil), want...)
	sort.Strings(w)
	for i := range w {
		if sorted[i] != w[i] {
			return false
		}
	}
	return true
}

func floatsOf(t PrimitiveType, fields map[string]*yaml.Node, keys ...string) (PrimitiveType, []float64, bool) {
	vals := make([]float64, len(keys))
	for i, k := range keys {
		f := fields[k]
		if f == nil || f.Kind != yaml.ScalarNode {
			return TypeNone, nil, false
		}
		v, err := strconv.ParseFloat(f.Value, 64)
		if err != nil {
			return TypeNone, nil, false
		}
		vals[i] = v
	}
	return t, vals, true
}

func vector3(v *yaml.Node) ([]float64, bool) {
	if v == nil || v.Kind != yaml.MappingNode {
		return nil, false
	}
	fields := mappingFields(v)
	if !sameKeys(withoutSerializedVersion(fields), "x", "y", "z") {
		return nil, false
	}
	_, vals, ok := floatsOf(TypeVector3, fields, "x", "y", "z")
	return vals, ok
}

func referenceString(fields map[string]*yaml.Node) string {
	parts := []string{"fileID: " + fields["fileID"].Value}
	if g, ok := fields["guid"]; ok {
		parts = append(parts, "guid: "+g.Value)
	}
	if t, ok := fields["type"]; ok {
		parts = append(parts, "type: "+t.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func canonicalYAML(v *yaml.Node) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
