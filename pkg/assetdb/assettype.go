package assetdb

import (
	"path"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/types"
)

// AssetType is the main object type an asset imports as.
type AssetType string

const (
	TypeUnknown       AssetType = ""
	TypeObject        AssetType = "Object"
	TypeTexture       AssetType = "Texture"
	TypeTexture2D     AssetType = "Texture2D"
	TypeTexture3D     AssetType = "Texture3D"
	TypeCubemap       AssetType = "Cubemap"
	TypeRenderTexture AssetType = "RenderTexture"
	TypeGameObject    AssetType = "GameObject"
	TypeAudioClip     AssetType = "AudioClip"
	TypeDefaultAsset  AssetType = "DefaultAsset"
)

var parents = map[AssetType]AssetType{
	TypeTexture:       TypeObject,
	TypeTexture2D:     TypeTexture,
	TypeTexture3D:     TypeTexture,
	TypeCubemap:       TypeTexture,
	TypeRenderTexture: TypeTexture,
	TypeGameObject:    TypeObject,
	TypeAudioClip:     TypeObject,
	TypeDefaultAsset:  TypeObject,
}

var extensionTypes = map[string]AssetType{
	".png":           TypeTexture2D,
	".jpg":           TypeTexture2D,
	".jpeg":          TypeTexture2D,
	".tga":           TypeTexture2D,
	".psd":           TypeTexture2D,
	".bmp":           TypeTexture2D,
	".tif":           TypeTexture2D,
	".tiff":          TypeTexture2D,
	".exr":           TypeTexture2D,
	".hdr":           TypeTexture2D,
	".gif":           TypeTexture2D,
	".iff":           TypeTexture2D,
	".pict":          TypeTexture2D,
	".cubemap":       TypeCubemap,
	".rendertexture": TypeRenderTexture,
	".fbx":           TypeGameObject,
	".obj":           TypeGameObject,
	".3ds":           TypeGameObject,
	".dae":           TypeGameObject,
	".dxf":           TypeGameObject,
	".blend":         TypeGameObject,
	".max":           TypeGameObject,
	".ma":            TypeGameObject,
	".mb":            TypeGameObject,
	".prefab":        TypeGameObject,
	".wav":           TypeAudioClip,
	".mp3":           TypeAudioClip,
	".ogg":           TypeAudioClip,
	".aif":           TypeAudioClip,
	".aiff":          TypeAudioClip,
	".flac":          TypeAudioClip,
	".mod":           TypeAudioClip,
	".it":            TypeAudioClip,
	".s3m":           TypeAudioClip,
	".xm":            TypeAudioClip,
}

// MainTypeForPath guesses an asset's main type from its extension. Meta
// files have no type; other unknown extensions are DefaultAsset.
func MainTypeForPath(p string) AssetType {
	ext := strings.ToLower(path.Ext(p))
	if ext == ".meta" {
		return TypeUnknown
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return TypeDefaultAsset
}

// IsA reports whether t is base or one of its subtypes.
func (t AssetType) IsA(base AssetType) bool {
	for cur := t; cur != TypeUnknown; cur = parents[cur] {
		if cur == base {
			return true
		}
	}
	return false
}

// TypeForKind is the base type a rule kind filters on. Folder rules have
// no type filter and report false.
func TypeForKind(kind types.AssetKind) (AssetType, bool) {
	switch kind {
	case types.KindTexture:
		return TypeTexture, true
	case types.KindModel:
		return TypeGameObject, true
	case types.KindAudio:
		return TypeAudioClip, true
	}
	return TypeUnknown, false
}

// Importer classes written as the settings key of a meta file.
const (
	ClassTexture = "TextureImporter"
	ClassModel   = "ModelImporter"
	ClassAudio   = "AudioImporter"
	ClassDefault = "DefaultImporter"
	ClassNative  = "NativeFormatImporter"
	ClassPrefab  = "PrefabImporter"
)

// ImporterClassForKind is the importer class assets of a kind must use.
// Folder rules accept any class and report "".
func ImporterClassForKind(kind types.AssetKind) string {
	switch kind {
	case types.KindTexture:
		return ClassTexture
	case types.KindModel:
		return ClassModel
	case types.KindAudio:
		return ClassAudio
	}
	return ""
}

// DefaultImporterClass is the class written into new meta files for a path.
func DefaultImporterClass(p string) string {
	t := MainTypeForPath(p)
	switch {
	case t == TypeRenderTexture || t == TypeCubemap:
		return ClassNative
	case strings.EqualFold(path.Ext(p), ".prefab"):
		return ClassPrefab
	case t.IsA(TypeTexture):
		return ClassTexture
	case t.IsA(TypeGameObject):
		return ClassModel
	case t.IsA(TypeAudioClip):
		return ClassAudio
	}
	return ClassDefault
}
