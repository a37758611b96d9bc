// Package fields caches per-type field descriptors for struct element types.
//
// A Layout is built once per struct type (on first use) and lists, for every
// field, its offset, size, type and whether it is declared immutable via the
// struct tag `structarray:"immutable"`. Bulk range copies and the default
// copy-initializers walk this list instead of re-inspecting the type on every
// call.
//
// Copies go through typed reflect values created at the field address, so
// pointer-bearing fields keep their GC write barriers; unexported fields are
// copied as well.
package fields
