// SPDX-License-Identifier: MIT

package storage_test

import (
	"testing"

	"github.com/katalvlaran/structarray/storage"
	"github.com/stretchr/testify/require"
)

// TestSetAtRoundTrip writes every index of a small standard store.
func TestSetAtRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 7, 64} {
		p := storage.New[int64](n)
		require.Equal(t, n, p.Len())
		for i := uint64(0); i < n; i++ {
			require.NoError(t, p.Set(i, int64(i)*3))
		}
		for i := uint64(0); i < n; i++ {
			v, err := p.At(i)
			require.NoError(t, err)
			require.Equal(t, int64(i)*3, v)
		}
		_, err := p.At(n)
		require.ErrorIs(t, err, storage.ErrIndexOutOfRange)
		require.ErrorIs(t, p.Set(n, 1), storage.ErrIndexOutOfRange)
	}
}

// TestScaledStoreSegments uses wordMax=5 and 4-slot segments:
// 5 primary + 4 + 4 + 3 = 16 slots.
func TestScaledStoreSegments(t *testing.T) {
	l := storage.ScaledLayout(16, 5, 2)
	p := storage.NewWithLayout[string](l)

	require.Len(t, p.Primary(), 5)
	require.Equal(t, uint64(2), l.FullSegments)
	require.Equal(t, uint64(3), l.LastSegmentSize)
	require.Len(t, p.Segment(0), 4)
	require.Len(t, p.Segment(1), 4)
	require.Len(t, p.Segment(2), 3)

	for i := uint64(0); i < p.Len(); i++ {
		ptr, err := p.Ptr(i)
		require.NoError(t, err)
		*ptr = string(rune('a' + i))
	}
	// index 9 = rel 4 -> segment 1, offset 0
	require.Equal(t, "j", p.Segment(1)[0])

	var got []string
	p.Range(func(i uint64, v string) bool {
		require.Equal(t, string(rune('a'+i)), v)
		got = append(got, v)
		return true
	})
	require.Len(t, got, 16)
}

// TestRangeStopsEarly honours a false return.
func TestRangeStopsEarly(t *testing.T) {
	p := storage.NewWithLayout[int](storage.ScaledLayout(10, 3, 1))
	calls := 0
	p.Range(func(i uint64, _ int) bool {
		calls++
		return i < 4
	})
	require.Equal(t, 5, calls)
}
