package properties

import (
	"fmt"
	"strings"
)

// Kind is the structural kind of a node.
type Kind int

const (
	KindPrimitive Kind = iota
	KindReference
	KindComposite
	KindArrayLength
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindReference:
		return "Reference"
	case KindComposite:
		return "Composite"
	case KindArrayLength:
		return "ArrayLength"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// PrimitiveType refines KindPrimitive nodes.
type PrimitiveType int

const (
	TypeNone PrimitiveType = iota
	TypeInt
	TypeBool
	TypeFloat
	TypeString
	TypeColor
	TypeVector2
	TypeVector3
	TypeVector4
	TypeRect
	TypeEnumIndex
	TypeBounds
	TypeQuaternion
	TypeAnimationCurve
)

var primitiveTypeNames = map[PrimitiveType]string{
	TypeNone:           "none",
	TypeInt:            "int",
	TypeBool:           "bool",
	TypeFloat:          "float",
	TypeString:         "string",
	TypeColor:          "color",
	TypeVector2:        "vector2",
	TypeVector3:        "vector3",
	TypeVector4:        "vector4",
	TypeRect:           "rect",
	TypeEnumIndex:      "enum",
	TypeBounds:         "bounds",
	TypeQuaternion:     "quaternion",
	TypeAnimationCurve: "curve",
}

func (t PrimitiveType) String() string {
	if name, ok := primitiveTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PrimitiveType(%d)", int(t))
}

// ParsePrimitiveType parses the names used in the type hint table.
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range primitiveTypeNames {
		if name == s {
			return t, nil
		}
	}
	switch s {
	case "enumindex", "enum_index":
		return TypeEnumIndex, nil
	case "animationcurve", "animation_curve":
		return TypeAnimationCurve, nil
	}
	return TypeNone, fmt.Errorf("unknown primitive type %q", s)
}

// Node is one property in a snapshot. Nodes are never mutated after Build.
//
// Value holds the decoded primitive: int64 (or uint64 when out of int64
// range) for TypeInt and TypeEnumIndex, bool, float64, string, []float64 for
// the fixed-size struct types (color, vectors, rect, bounds, quaternion) and
// the canonical YAML text for TypeAnimationCurve.
type Node struct {
	Path        string
	Name        string
	DisplayName string
	Kind        Kind
	Type        PrimitiveType
	Value       interface{}
	IsArray     bool
	ArraySize   int
	Children    []*Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// ValueString renders the value for reports.
func (n *Node) ValueString() string {
	switch n.Kind {
	case KindReference:
		return fmt.Sprintf("%v", n.Value)
	case KindComposite:
		if n.IsArray {
			return fmt.Sprintf("[%d items]", n.ArraySize)
		}
		return fmt.Sprintf("{%d fields}", len(n.Children))
	case KindArrayLength:
		return fmt.Sprintf("%d", n.ArraySize)
	}
	switch v := n.Value.(type) {
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = fmt.Sprintf("%g", f)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s<%s %s>=%s", n.Path, n.Kind, n.Type, n.ValueString())
}
