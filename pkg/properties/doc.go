// Package properties models an importer's serialized configuration as an
// immutable tree of property nodes.
//
// A Tree is a snapshot: it is built once from the YAML mapping that holds
// the importer's settings and never changes afterwards. Writes go through
// the live YAML document owned by assetdb.Importer, and a fresh snapshot is
// taken when the new state needs to be compared.
//
// Node kinds mirror the way the editor serializes values:
//
//	Primitive    a leaf value (int, float, color, vector, rect, ...)
//	Reference    a link to another object ({fileID, guid, type})
//	Composite    a nested mapping or an array
//	ArrayLength  the synthetic "Array.size" child every array carries
package properties
