// SPDX-License-Identifier: MIT

package array_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/structarray/array"
	"github.com/stretchr/testify/require"
)

// scratchShift is the reference result of moving count values from srcOff to
// dstOff through an independent buffer.
func scratchShift(in []int64, srcOff, dstOff, count int) []int64 {
	out := append([]int64(nil), in...)
	buf := append([]int64(nil), in[srcOff:srcOff+count]...)
	copy(out[dstOff:], buf)
	return out
}

// slotPtrs returns the slot objects, to check they are kept.
func slotPtrs(c array.Container) []*point {
	out := make([]*point, 0, c.Len())
	c.(*array.Array).Each(func(_ uint64, v any) bool {
		out = append(out, v.(*point))
		return true
	})
	return out
}

// TestShallowCopyOverlap shifts ranges within one container both ways.
func TestShallowCopyOverlap(t *testing.T) {
	cases := []struct {
		name                  string
		srcOff, dstOff, count int
	}{
		{"forward by one", 2, 3, 3},
		{"backward by one", 3, 2, 3},
		{"forward far", 0, 5, 5},
		{"same range", 4, 4, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := mustPlain(t, 10)
			before := xs(t, c)
			ptrs := slotPtrs(c)

			err := array.ShallowCopy(c, uint64(tc.srcOff), c, uint64(tc.dstOff), uint64(tc.count), false)
			require.NoError(t, err)
			require.Equal(t, scratchShift(before, tc.srcOff, tc.dstOff, tc.count), xs(t, c))
			require.Equal(t, ptrs, slotPtrs(c))
		})
	}
}

// TestShallowCopyAcrossSegments moves a range larger than one segment
// through the located path, and matches the primary path.
func TestShallowCopyAcrossSegments(t *testing.T) {
	const n, srcOff, dstOff, count = 40, 5, 6, 30

	scaled := mustPlain(t, n, array.WithGeometry(8, 2))
	flat := mustPlain(t, n)
	require.Equal(t, uint64(9), scaled.(*array.Array).Layout().Segments())
	before := xs(t, flat)

	require.NoError(t, array.ShallowCopy(scaled, srcOff, scaled, dstOff, count, false))
	require.NoError(t, array.ShallowCopy(flat, srcOff, flat, dstOff, count, false))
	want := scratchShift(before, srcOff, dstOff, count)
	require.Equal(t, want, xs(t, scaled))
	require.Equal(t, want, xs(t, flat))

	// Backward shift across segments.
	scaled = mustPlain(t, n, array.WithGeometry(8, 2))
	require.NoError(t, array.ShallowCopy(scaled, dstOff, scaled, srcOff, count, false))
	require.Equal(t, scratchShift(before, dstOff, srcOff, count), xs(t, scaled))
}

// TestShallowCopyBetweenContainers copies fields, not slot objects.
func TestShallowCopyBetweenContainers(t *testing.T) {
	src := mustPlain(t, 5)
	dst := mustPlain(t, 5, array.WithGeometry(2, 1))
	ptrs := slotPtrs(dst)

	require.NoError(t, array.ShallowCopy(src, 1, dst, 0, 4, false))
	require.Equal(t, []int64{1, 2, 3, 4, 4}, xs(t, dst))
	require.Equal(t, ptrs, slotPtrs(dst))

	p, _ := array.Elem[*point](dst, 0)
	p.X = 99
	q, _ := array.Elem[*point](src, 1)
	require.Equal(t, int64(1), q.X)
}

// TestShallowCopyPreconditions checks each failure and their order.
func TestShallowCopyPreconditions(t *testing.T) {
	points := mustPlain(t, 5)
	nested := mustNested(t, 2, 2, 2)

	ab, err := array.For[*account](5)
	require.NoError(t, err)
	accounts, err := ab.SetElementInitializer(array.Ctor0("acct", func() *account {
		return &account{ID: 7, Balance: 1.5}
	})).Build()
	require.NoError(t, err)
	others, err := ab.SetElementInitializer(array.Ctor0("acct", func() *account {
		return &account{ID: 9, Balance: 3}
	})).Build()
	require.NoError(t, err)

	err = array.ShallowCopy(points, 0, accounts, 0, 1, false)
	require.ErrorIs(t, err, array.ErrTypeMismatch)

	err = array.ShallowCopy(nested, 0, nested, 1, 1, false)
	require.ErrorIs(t, err, array.ErrUnsupportedShape)

	err = array.ShallowCopy(accounts, 0, others, 0, 99, false)
	require.ErrorIs(t, err, array.ErrImmutableFieldViolation, "immutability is checked before ranges")

	err = array.ShallowCopy(points, 3, points, 0, 3, false)
	require.ErrorIs(t, err, array.ErrIndexOutOfRange)
	err = array.ShallowCopy(points, 0, points, math.MaxUint64, 2, false)
	require.ErrorIs(t, err, array.ErrIndexOutOfRange)

	err = array.ShallowCopy(nil, 0, points, 0, 1, false)
	require.ErrorIs(t, err, array.ErrNotInitialized)

	require.NoError(t, array.ShallowCopy(accounts, 0, others, 1, 2, true))
	a, _ := array.Elem[*account](others, 2)
	require.Equal(t, account{ID: 7, Balance: 1.5}, *a)
	a, _ = array.Elem[*account](others, 0)
	require.Equal(t, account{ID: 9, Balance: 3}, *a)
}

// TestShallowCopyObserved reports every call, failed or not.
func TestShallowCopyObserved(t *testing.T) {
	rec := &recorder{}
	c := mustPlain(t, 4)
	require.NoError(t, array.ShallowCopy(c, 0, c, 1, 3, false, array.WithObserver(rec)))
	require.Error(t, array.ShallowCopy(c, 0, c, 2, 3, false, array.WithObserver(rec)))

	require.Equal(t, []uint64{3, 3}, rec.copies)
	require.NoError(t, rec.errs[0])
	require.ErrorIs(t, rec.errs[1], array.ErrIndexOutOfRange)
}
