// SPDX-License-Identifier: MIT
// Package array_test contains fixtures shared by the array tests.
//
// Purpose:
//   - Small element and container types covering plain, immutable and
//     custom-container cases.
//   - Builders producing index-dependent values so copies can be checked
//     slot by slot.
//   - A recording Observer (no *testing.T usage inside hooks).

package array_test

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/structarray/array"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y  int64
	label string
}

type account struct {
	ID      uint64 `structarray:"immutable"`
	Balance float64
}

// ledger is a custom container: it embeds Array by value.
type ledger struct {
	array.Array
	Owner string
}

var (
	pointType  = reflect.TypeFor[*point]()
	ledgerType = reflect.TypeFor[*ledger]()

	pointAt = array.Ctor2("at", func(x, y int64) *point {
		return &point{X: x, Y: y, label: "p"}
	})
)

// indexProvider builds slot i as point{X: path[0], Y: sum of deeper
// positions weighted by 10}.
func indexProvider() array.Provider {
	return array.ProviderFunc(func(ctx *array.Context) (*array.Directive, error) {
		idx := ctx.Index()
		var y int64
		for _, p := range idx[1:] {
			y = y*10 + int64(p)
		}
		return array.NewDirective(pointAt, int64(idx[0]), y), nil
	})
}

// mustPlain builds n points with X = i.
func mustPlain(t *testing.T, n uint64, opts ...array.Option) array.Container {
	t.Helper()
	b, err := array.NewBuilder(pointType, n, opts...)
	require.NoError(t, err)
	c, err := b.SetProvider(indexProvider()).Build()
	require.NoError(t, err)

	return c
}

// mustNested builds an outer×mid×inner container of index points.
func mustNested(t *testing.T, outer, mid, inner uint64) array.Container {
	t.Helper()
	in, err := array.NewBuilder(pointType, inner)
	require.NoError(t, err)
	in.SetProvider(indexProvider())
	m, err := array.NewNestedBuilder(mid, in)
	require.NoError(t, err)
	o, err := array.NewNestedBuilder(outer, m)
	require.NoError(t, err)
	c, err := o.Build()
	require.NoError(t, err)

	return c
}

// xs returns the X field of every slot of a plain container.
func xs(t *testing.T, c array.Container) []int64 {
	t.Helper()
	out := make([]int64, 0, c.Len())
	for i := uint64(0); i < c.Len(); i++ {
		p, err := array.Elem[*point](c, i)
		require.NoError(t, err)
		out = append(out, p.X)
	}

	return out
}

// recorder is an Observer that keeps every event.
type recorder struct {
	mu     sync.Mutex
	builds []uint64
	copies []uint64
	errs   []error
}

func (r *recorder) BuildFinished(_ *array.Model, slots uint64, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds = append(r.builds, slots)
	r.errs = append(r.errs, err)
}

func (r *recorder) RangeCopied(_ *array.Model, count uint64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copies = append(r.copies, count)
	r.errs = append(r.errs, err)
}
