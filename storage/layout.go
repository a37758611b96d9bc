// SPDX-License-Identifier: MIT

package storage

import "math"

// Partition geometry. These values are bit-exact and shared by every
// container variant.
const (
	// WordMax is the first index that no longer lives in the primary segment.
	WordMax uint64 = math.MaxInt32

	// SegmentShift is log2(SegmentSize).
	SegmentShift = 30

	// SegmentSize is the number of slots in every full extension segment.
	SegmentSize uint64 = 1 << SegmentShift
)

// Layout describes how a length is split across segments.
// It is a pure value; computing it never allocates slot storage.
type Layout struct {
	Length          uint64 `json:"length" yaml:"length"`
	PrimaryLength   uint64 `json:"primary_length" yaml:"primary_length"`
	ExtraLength     uint64 `json:"extra_length" yaml:"extra_length"`
	FullSegments    uint64 `json:"full_segments" yaml:"full_segments"`
	LastSegmentSize uint64 `json:"last_segment_size" yaml:"last_segment_size"`

	wordMax uint64
	shift   uint
}

// Location is the resolved position of one slot.
// Segment == -1 means the primary segment.
type Location struct {
	Segment int    `json:"segment" yaml:"segment"`
	Offset  uint64 `json:"offset" yaml:"offset"`
}

// Primary reports whether the location is inside the primary segment.
func (l Location) Primary() bool { return l.Segment < 0 }

// LayoutFor computes the partition layout of n slots with the standard
// geometry (WordMax, 2^30 segments).
// Complexity: O(1).
func LayoutFor(n uint64) Layout {
	return layoutWith(n, WordMax, SegmentShift)
}

// ScaledLayout is LayoutFor with a custom boundary and segment shift.
// Containers always use the standard geometry; the scaled form exists for
// simulations (cmd/structarray layout) and for tests that need extension
// segments without allocating gigabytes.
// Panics if shift is 0 or >= 63, or if wordMax is 0 (programmer error).
func ScaledLayout(n, wordMax uint64, shift uint) Layout {
	if shift == 0 || shift >= 63 {
		panic("storage: ScaledLayout: shift must be in [1,62]")
	}
	if wordMax == 0 {
		panic("storage: ScaledLayout: wordMax must be > 0")
	}
	return layoutWith(n, wordMax, shift)
}

func layoutWith(n, wordMax uint64, shift uint) Layout {
	primary := min(n, wordMax)
	extra := n - primary
	size := uint64(1) << shift

	return Layout{
		Length:          n,
		PrimaryLength:   primary,
		ExtraLength:     extra,
		FullSegments:    extra >> shift,
		LastSegmentSize: extra & (size - 1),
		wordMax:         wordMax,
		shift:           shift,
	}
}

// Segments returns the number of extension segments that get allocated,
// including the final (possibly zero-length) partial segment.
func (l Layout) Segments() uint64 {
	if l.ExtraLength == 0 {
		return 0
	}
	return l.FullSegments + 1
}

// SegmentSize returns the full-segment size of this layout's geometry.
func (l Layout) SegmentSize() uint64 { return uint64(1) << l.shift }

// WordMax returns the primary/extension boundary of this layout's geometry.
func (l Layout) WordMax() uint64 { return l.wordMax }

// Locate maps an index onto (segment, offset).
// MAIN DESCRIPTION:
//   - index < WordMax lands in the primary segment at the same offset.
//   - otherwise rel = index - WordMax, segment = rel >> 30, offset = rel & (2^30 - 1).
//
// Errors:
//   - ErrIndexOutOfRange when index >= Length.
//
// Complexity:
//   - Time O(1), Space O(1).
func (l Layout) Locate(index uint64) (Location, error) {
	if index >= l.Length {
		return Location{}, storageErrorf(ctxLocate, index, ErrIndexOutOfRange)
	}
	if index < l.wordMax {
		return Location{Segment: -1, Offset: index}, nil
	}
	rel := index - l.wordMax

	return Location{
		Segment: int(rel >> l.shift),
		Offset:  rel & ((uint64(1) << l.shift) - 1),
	}, nil
}
