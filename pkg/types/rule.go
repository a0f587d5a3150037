package types

import (
	"fmt"
	"strings"
)

// MatchType selects how a rule's pattern is tested against candidate assets.
type MatchType int

const (
	// MatchNameContains matches when the asset's display name contains the
	// pattern, ignoring case.
	MatchNameContains MatchType = iota
	// MatchRegex matches when the whole project-relative path matches the pattern.
	MatchRegex
	// MatchGlob matches the project-relative path against a doublestar glob.
	MatchGlob
)

var matchTypeNames = []string{"NameContains", "Regex", "Glob"}

func (m MatchType) String() string {
	if int(m) < 0 || int(m) >= len(matchTypeNames) {
		return fmt.Sprintf("MatchType(%d)", int(m))
	}
	return matchTypeNames[m]
}

// ParseMatchType parses a match type name, case-insensitively.
func ParseMatchType(s string) (MatchType, error) {
	for i, name := range matchTypeNames {
		if strings.EqualFold(s, name) {
			return MatchType(i), nil
		}
	}
	switch strings.ToLower(s) {
	case "name", "contains", "wildcard":
		return MatchNameContains, nil
	case "regexp", "re":
		return MatchRegex, nil
	}
	return MatchNameContains, fmt.Errorf("unknown match type: %s", s)
}

func (m MatchType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MatchType) UnmarshalText(text []byte) error {
	v, err := ParseMatchType(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// AssetKind is the class of assets a rule governs.
type AssetKind int

const (
	KindTexture AssetKind = iota
	KindModel
	KindAudio
	// KindFolder applies no type filter.
	KindFolder
)

var assetKindNames = []string{"Texture", "Model", "Audio", "Folder"}

func (k AssetKind) String() string {
	if int(k) < 0 || int(k) >= len(assetKindNames) {
		return fmt.Sprintf("AssetKind(%d)", int(k))
	}
	return assetKindNames[k]
}

// ParseAssetKind parses an asset kind name, case-insensitively.
func ParseAssetKind(s string) (AssetKind, error) {
	for i, name := range assetKindNames {
		if strings.EqualFold(s, name) {
			return AssetKind(i), nil
		}
	}
	return KindTexture, fmt.Errorf("unknown asset kind: %s", s)
}

func (k AssetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AssetKind) UnmarshalText(text []byte) error {
	v, err := ParseAssetKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Rule describes the expected import settings for a class of assets.
// ReferenceAssetID is the guid of the reference (proxy) asset whose
// importer configuration is the expected state.
type Rule struct {
	Name                string    `json:"name"`
	MatchType           MatchType `json:"matchType"`
	Pattern             string    `json:"pattern"`
	ReferenceAssetID    string    `json:"referenceAssetId"`
	AssetKind           AssetKind `json:"assetKind"`
	SelectiveMode       bool      `json:"selectiveMode"`
	SelectiveProperties []string  `json:"selectiveProperties"`
}

// SameIdentity reports whether two rules collide for duplicate detection:
// same name, same pattern and same match type.
func (r Rule) SameIdentity(other Rule) bool {
	return r.Name == other.Name &&
		r.Pattern == other.Pattern &&
		r.MatchType == other.MatchType
}
