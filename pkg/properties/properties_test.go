// Test Type: Unit Test
// Description: Tests for snapshot building, kind detection, and display names

package properties_test

import (
	"testing"

	"github.com/arthur-debert/assetaudit/pkg/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const textureSettings = `
serializedVersion: 11
mipmaps:
  mipMapMode: 0
  enableMipMap: 1
  sRGBTexture: 1
  mipMapFadeDistanceStart: 1.5
fileIDToRecycleName:
  21300000: Rock
isReadable: false
textureType: 0
spriteBorder: {x: 0, y: 0, z: 0, w: 0}
spritePivot: {x: 0.5, y: 0.5}
rect:
  serializedVersion: 2
  x: 0
  y: 0
  width: 128
  height: 64
tint: {r: 1, g: 0.5, b: 0.25, a: 1}
bounds:
  m_Center: {x: 0, y: 1, z: 0}
  m_Extent: {x: 1, y: 1, z: 1}
material: {fileID: 2100000, guid: 0123456789abcdef0123456789abcdef, type: 2}
platformSettings:
- buildTarget: DefaultTexturePlatform
  maxTextureSize: 2048
- buildTarget: Standalone
  maxTextureSize: 4096
rotation: {x: 0, y: 0, z: 0, w: 1}
curve:
  serializedVersion: 2
  m_Curve: []
  m_PreInfinity: 2
spritePackingTag:
userData:
`

func buildTree(t *testing.T, src string, hints properties.Hints) *properties.Tree {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	tree, err := properties.Build(&doc, hints)
	require.NoError(t, err)
	return tree
}

func TestBuildDetectsKinds(t *testing.T) {
	hints := properties.Hints{"textureType": properties.TypeEnumIndex, "rotation": properties.TypeQuaternion}
	tree := buildTree(t, textureSettings, hints)

	tests := []struct {
		path     string
		kind     properties.Kind
		primType properties.PrimitiveType
		value    interface{}
	}{
		{"serializedVersion", properties.KindPrimitive, properties.TypeInt, int64(11)},
		{"mipmaps", properties.KindComposite, properties.TypeNone, nil},
		{"mipmaps.enableMipMap", properties.KindPrimitive, properties.TypeInt, int64(1)},
		{"mipmaps.mipMapFadeDistanceStart", properties.KindPrimitive, properties.TypeFloat, 1.5},
		{"isReadable", properties.KindPrimitive, properties.TypeBool, false},
		{"textureType", properties.KindPrimitive, properties.TypeEnumIndex, int64(0)},
		{"spriteBorder", properties.KindPrimitive, properties.TypeVector4, []float64{0, 0, 0, 0}},
		{"spritePivot", properties.KindPrimitive, properties.TypeVector2, []float64{0.5, 0.5}},
		{"rect", properties.KindPrimitive, properties.TypeRect, []float64{0, 0, 128, 64}},
		{"tint", properties.KindPrimitive, properties.TypeColor, []float64{1, 0.5, 0.25, 1}},
		{"bounds", properties.KindPrimitive, properties.TypeBounds, []float64{0, 1, 0, 1, 1, 1}},
		{"material", properties.KindReference, properties.TypeNone, "{fileID: 2100000, guid: 0123456789abcdef0123456789abcdef, type: 2}"},
		{"rotation", properties.KindPrimitive, properties.TypeQuaternion, []float64{0, 0, 0, 1}},
		{"spritePackingTag", properties.KindPrimitive, properties.TypeString, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, ok := tree.Find(tt.path)
			require.True(t, ok, "path %s should exist", tt.path)
			assert.Equal(t, tt.kind, n.Kind)
			assert.Equal(t, tt.primType, n.Type)
			if tt.value != nil {
				assert.Equal(t, tt.value, n.Value)
			}
		})
	}
}

func TestBuildArrays(t *testing.T) {
	tree := buildTree(t, textureSettings, nil)

	arr, ok := tree.Get("platformSettings")
	require.True(t, ok)
	assert.True(t, arr.IsArray)
	assert.Equal(t, 2, arr.ArraySize)
	require.Len(t, arr.Children, 3)

	size := arr.Children[0]
	assert.Equal(t, properties.KindArrayLength, size.Kind)
	assert.Equal(t, "platformSettings.Array.size", size.Path)
	assert.Equal(t, 2, size.ArraySize)

	elem, ok := tree.Find("platformSettings.Array.data[1].maxTextureSize")
	require.True(t, ok)
	assert.Equal(t, int64(4096), elem.Value)
}

func TestBuildCurveIsOpaquePrimitive(t *testing.T) {
	tree := buildTree(t, textureSettings, nil)

	n, ok := tree.Get("curve")
	require.True(t, ok)
	assert.Equal(t, properties.TypeAnimationCurve, n.Type)
	assert.Contains(t, n.Value, "m_PreInfinity: 2")
	assert.Empty(t, n.Children)
}

func TestTopLevelOrderAndLookup(t *testing.T) {
	tree := buildTree(t, "b: 1\na: 2\nm_EnableMipMap: 1\n", nil)

	top := tree.Top()
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Name)
	assert.Equal(t, "a", top[1].Name)

	name, ok := tree.ResolveDisplayName("Enable Mip Map")
	require.True(t, ok)
	assert.Equal(t, "m_EnableMipMap", name)

	_, ok = tree.ResolveDisplayName("Missing Label")
	assert.False(t, ok)

	assert.Equal(t, []string{"B", "A", "Enable Mip Map"}, tree.DisplayNames())
}

func TestBuildRejectsNonMapping(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("- a\n- b\n"), &doc))
	_, err := properties.Build(&doc, nil)
	assert.Error(t, err)
}

func TestBuildEmpty(t *testing.T) {
	tree, err := properties.Build(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, tree.Top())
	assert.Equal(t, 0, tree.Len())
}

func TestNicify(t *testing.T) {
	tests := map[string]string{
		"enableMipMap":        "Enable Mip Map",
		"m_EnableMipMap":      "Enable Mip Map",
		"fileIDToRecycleName": "File ID To Recycle Name",
		"sRGBTexture":         "S RGB Texture",
		"_privateField":       "Private Field",
		"kConstantValue":      "Constant Value",
		"max_texture_size":    "Max texture size",
		"wrapU":               "Wrap U",
		"userData":            "User Data",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, properties.Nicify(in))
		})
	}
}

func TestParseHints(t *testing.T) {
	hints, err := properties.ParseHints(map[string]string{"textureType": "enum", "rotation": "quaternion"})
	require.NoError(t, err)
	assert.Equal(t, properties.TypeEnumIndex, hints["textureType"])
	assert.Equal(t, properties.TypeQuaternion, hints["rotation"])

	_, err = properties.ParseHints(map[string]string{"x": "matrix"})
	assert.Error(t, err)
}
