// Package assetdb is the asset provider: it resolves asset paths, their
// main types and their importers inside a project directory.
//
// Every asset file under the assets folder has a sidecar "<file>.meta"
// YAML document holding a stable guid and the importer's serialized
// settings. Importer wraps that document as live, mutable state; callers
// take immutable properties.Tree snapshots of it for comparison and
// persist changes with Database.WriteImportSettings.
//
// Paths handed to and returned by the database are project relative and
// slash separated ("Assets/Art/Rock_4K.png").
package assetdb
