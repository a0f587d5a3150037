// Package rules stores audit rules and validates them.
//
// A rule is tied to a reference asset inside the reference-asset folder.
// Rule metadata lives in a side-table ledger keyed by that asset's guid,
// never inside the importer itself, so reference importers can be copied
// and compared without carrying rule data along. Two ledger backends are
// available: a TOML file (the default, friendly to version control) and a
// SQLite database.
//
// Loading enumerates the reference-asset folder and looks each asset up in
// the ledger; ledger entries whose asset has been deleted are ignored, which
// is how a rule is removed.
package rules
