// SPDX-License-Identifier: MIT

package array_test

import (
	"reflect"
	"testing"

	"github.com/katalvlaran/structarray/array"
	"github.com/stretchr/testify/require"
)

// TestCatalogSynthesizes default and copy initializers.
func TestCatalogSynthesizes(t *testing.T) {
	cat := array.NewCatalog()

	def, err := cat.Default(pointType)
	require.NoError(t, err)
	require.Same(t, def, mustLookup(t, cat, pointType), "synthesized initializers are cached")
	v, err := def.New()
	require.NoError(t, err)
	require.Equal(t, &point{}, v)

	cp, err := cat.Copy(pointType)
	require.NoError(t, err)
	src := &point{X: 1, Y: 2, label: "hidden"}
	v, err = cp.New(src)
	require.NoError(t, err)
	require.Equal(t, src, v, "unexported fields are copied")
	require.NotSame(t, src, v)

	v, err = cp.New(nil)
	require.NoError(t, err)
	require.Equal(t, &point{}, v)

	_, err = cat.Default(reflect.TypeFor[int]())
	require.ErrorIs(t, err, array.ErrNoMatchingInitializer)
	_, err = cat.Lookup(pointType, reflect.TypeFor[string]())
	require.ErrorIs(t, err, array.ErrNoMatchingInitializer)
	_, err = cat.Lookup(nil)
	require.ErrorIs(t, err, array.ErrNoMatchingInitializer)
}

// TestCatalogPrefersRegistered returns registered initializers first, by
// argument shape.
func TestCatalogPrefersRegistered(t *testing.T) {
	cat := array.NewCatalog()
	origin := array.Ctor0("origin", func() *point { return &point{label: "origin"} })
	named := array.Ctor1("named", func(s string) *point { return &point{label: s} })
	require.NoError(t, cat.Register(origin))
	require.NoError(t, cat.Register(origin))
	require.NoError(t, cat.Register(named))
	require.ErrorIs(t, cat.Register(nil), array.ErrNoMatchingInitializer)

	require.Same(t, origin, mustLookup(t, cat, pointType))
	got, err := cat.Lookup(pointType, reflect.TypeFor[string]())
	require.NoError(t, err)
	require.Same(t, named, got)

	b, err := array.For[*point](2, array.WithCatalog(cat))
	require.NoError(t, err)
	c, err := b.Build()
	require.NoError(t, err)
	p, err := array.Elem[*point](c, 1)
	require.NoError(t, err)
	require.Equal(t, "origin", p.label)
}

// TestCatalogNilArgument matches nillable parameters.
func TestCatalogNilArgument(t *testing.T) {
	cat := array.NewCatalog()
	wrap := array.Ctor1("wrap", func(p *point) *point {
		if p == nil {
			return &point{label: "empty"}
		}
		return &point{X: p.X}
	})
	require.NoError(t, cat.Register(wrap))

	got, err := cat.Lookup(pointType, nil)
	require.NoError(t, err)
	require.Same(t, wrap, got)
	v, err := got.New(nil)
	require.NoError(t, err)
	require.Equal(t, "empty", v.(*point).label)
}

// TestCatalogContainerInitializers synthesizes containers and scalar arrays.
func TestCatalogContainerInitializers(t *testing.T) {
	cat := array.NewCatalog()
	for _, typ := range []reflect.Type{
		reflect.TypeFor[*array.Array](),
		ledgerType,
		reflect.TypeFor[*array.ScalarArray[int16]](),
	} {
		def, err := cat.Default(typ)
		require.NoError(t, err, typ)
		require.True(t, def.IsContainer())
		require.Equal(t, typ, def.Declaring())

		cp, err := cat.Copy(typ)
		require.NoError(t, err, typ)
		require.Equal(t, []reflect.Type{typ}, cp.Params())
	}
	require.Equal(t, "copy(*array_test.ledger) *array_test.ledger", mustCopy(t, cat, ledgerType).String())
}

func mustLookup(t *testing.T, cat *array.Catalog, typ reflect.Type) *array.Initializer {
	t.Helper()
	in, err := cat.Lookup(typ)
	require.NoError(t, err)
	return in
}

func mustCopy(t *testing.T, cat *array.Catalog, typ reflect.Type) *array.Initializer {
	t.Helper()
	in, err := cat.Copy(typ)
	require.NoError(t, err)
	return in
}
