// SPDX-License-Identifier: MIT

// Package storage_test verifies the bit-exact partition arithmetic.
package storage_test

import (
	"testing"

	"github.com/katalvlaran/structarray/storage"
	"github.com/stretchr/testify/require"
)

// TestLayoutForSmallLength keeps everything in the primary segment.
func TestLayoutForSmallLength(t *testing.T) {
	l := storage.LayoutFor(10)
	require.Equal(t, uint64(10), l.PrimaryLength)
	require.Zero(t, l.ExtraLength)
	require.Zero(t, l.Segments())
}

// TestLayoutForOneFullSegmentPlusFive checks N = WordMax + 2^30 + 5.
func TestLayoutForOneFullSegmentPlusFive(t *testing.T) {
	n := storage.WordMax + storage.SegmentSize + 5
	l := storage.LayoutFor(n)

	require.Equal(t, storage.WordMax, l.PrimaryLength)
	require.Equal(t, storage.SegmentSize+5, l.ExtraLength)
	require.Equal(t, uint64(1), l.FullSegments)
	require.Equal(t, uint64(5), l.LastSegmentSize)
	require.Equal(t, uint64(2), l.Segments())
}

// TestLayoutForExactSegmentMultiple still reports an empty trailing segment.
func TestLayoutForExactSegmentMultiple(t *testing.T) {
	l := storage.LayoutFor(storage.WordMax + 2*storage.SegmentSize)
	require.Equal(t, uint64(2), l.FullSegments)
	require.Zero(t, l.LastSegmentSize)
	require.Equal(t, uint64(3), l.Segments())
}

// TestLocateAcrossBoundary resolves WordMax-1, WordMax, WordMax+1 and N-1
// to distinct, correctly partitioned locations.
func TestLocateAcrossBoundary(t *testing.T) {
	n := storage.WordMax + storage.SegmentSize + 5
	l := storage.LayoutFor(n)

	cases := []struct {
		index uint64
		want  storage.Location
	}{
		{storage.WordMax - 1, storage.Location{Segment: -1, Offset: storage.WordMax - 1}},
		{storage.WordMax, storage.Location{Segment: 0, Offset: 0}},
		{storage.WordMax + 1, storage.Location{Segment: 0, Offset: 1}},
		{storage.WordMax + storage.SegmentSize - 1, storage.Location{Segment: 0, Offset: storage.SegmentSize - 1}},
		{storage.WordMax + storage.SegmentSize, storage.Location{Segment: 1, Offset: 0}},
		{n - 1, storage.Location{Segment: 1, Offset: 4}},
	}
	seen := make(map[storage.Location]bool)
	for _, tc := range cases {
		got, err := l.Locate(tc.index)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "index %d", tc.index)
		require.False(t, seen[got], "duplicate location for %d", tc.index)
		seen[got] = true
	}

	_, err := l.Locate(n)
	require.ErrorIs(t, err, storage.ErrIndexOutOfRange)
}

// TestScaledLayoutPanicsOnBadGeometry covers the programmer-error guards.
func TestScaledLayoutPanicsOnBadGeometry(t *testing.T) {
	require.Panics(t, func() { storage.ScaledLayout(10, 4, 0) })
	require.Panics(t, func() { storage.ScaledLayout(10, 0, 2) })
	require.NotPanics(t, func() { storage.ScaledLayout(10, 4, 2) })
}
