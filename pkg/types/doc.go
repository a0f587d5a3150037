// Package types defines the core types and interfaces shared across assetaudit.
// This includes the Rule model with its MatchType and AssetKind enums, the
// AffectedAsset scan record, and the FS abstraction used by every component
// that touches the project on disk.
package types
