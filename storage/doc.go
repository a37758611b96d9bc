// Package storage provides the partitioned backing store used by every
// structarray container.
//
// A Partitioned[T] holds N slots split into one primary segment addressable
// by a native 32-bit word and zero or more extension segments of fixed size
// (2^30 slots) for indices at or beyond WordMax:
//
//	index:   0 ........ WordMax-1 | WordMax ... WordMax+2^30-1 | ... | N-1
//	segment: primary              | ext[0]                     | ... | ext[k] (partial)
//
// The arithmetic is identical for structured and scalar containers and is
// exposed without allocation through LayoutFor, so callers can inspect how a
// length would be partitioned before building anything.
//
// Complexity:
//   - New: O(N) time and memory (zero-filled).
//   - Locate/At/Set/Ptr: O(1).
package storage
