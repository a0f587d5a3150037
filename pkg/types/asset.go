package types

// AffectedAsset is the per-asset verdict produced by one scan pass.
// It is replaced wholesale on each rescan.
type AffectedAsset struct {
	AssetPath   string    `json:"assetPath"`
	DisplayName string    `json:"displayName"`
	Depth       int       `json:"depth"`
	Conforms    bool      `json:"conforms"`
	AssetKind   AssetKind `json:"assetKind"`
	// Differences lists the property paths that failed comparison, when known.
	Differences []string `json:"differences,omitempty"`
}
