// SPDX-License-Identifier: MIT

package inline_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/katalvlaran/structarray/array"
	"github.com/katalvlaran/structarray/inline"
	"github.com/stretchr/testify/require"
)

type sample struct{ V float64 }

// collect is a Publisher that keeps what it receives.
type collect struct {
	got map[uuid.UUID]map[string]any
}

func (c *collect) Publish(key uuid.UUID, fields map[string]any) error {
	if c.got == nil {
		c.got = map[uuid.UUID]map[string]any{}
	}
	c.got[key] = fields
	return nil
}

// TestConstructIntoAndPublish builds a directive and a builder for one object.
func TestConstructIntoAndPublish(t *testing.T) {
	p := inline.New()
	key := inline.NewObjectKey()

	origin := array.Ctor1("sample", func(v float64) *sample { return &sample{V: v} })
	v, err := p.ConstructInto(key, "Origin", array.NewDirective(origin, 2.5))
	require.NoError(t, err)
	require.Equal(t, &sample{V: 2.5}, v)

	b, err := array.For[*sample](4)
	require.NoError(t, err)
	c, err := p.ConstructInto(key, "Samples", b)
	require.NoError(t, err)
	require.Equal(t, uint64(4), c.(array.Container).Len())

	require.Equal(t, []string{"Origin", "Samples"}, p.Fields(key))

	sink := &collect{}
	require.NoError(t, p.Publish(key, sink))
	require.Same(t, v, sink.got[key]["Origin"])
	require.Empty(t, p.Fields(key))
	require.ErrorIs(t, p.Publish(key, sink), inline.ErrUnknownObject)
}

// TestConstructIntoErrors covers recipes and duplicates.
func TestConstructIntoErrors(t *testing.T) {
	p := inline.New()
	key := inline.NewObjectKey()

	_, err := p.ConstructInto(key, "A", nil)
	require.ErrorIs(t, err, inline.ErrNilValue)
	_, err = p.ConstructInto(key, "A", "recipe")
	require.ErrorIs(t, err, inline.ErrUnsupportedRecipe)
	_, err = p.ConstructInto(key, "A", (*array.Builder)(nil))
	require.ErrorIs(t, err, inline.ErrNilValue)

	zero := array.Ctor0("nil", func() *sample { return nil })
	_, err = p.ConstructInto(key, "A", array.NewDirective(zero))
	require.ErrorIs(t, err, array.ErrNilElement)

	def, err := array.DefaultCatalog().Default(reflect.TypeFor[*array.Array]())
	require.NoError(t, err)
	_, err = p.ConstructInto(key, "A", array.NewDirective(def))
	require.ErrorIs(t, err, array.ErrNoMatchingInitializer, "containers need a Builder recipe")

	require.NoError(t, p.Register(key, "A", 1))
	_, err = p.ConstructInto(key, "A", array.NewDirective(array.Ctor0("s", func() *sample { return &sample{} })))
	require.ErrorIs(t, err, inline.ErrDuplicateField)
	require.ErrorIs(t, p.Register(key, "A", 2), inline.ErrDuplicateField)
	require.ErrorIs(t, p.Register(key, "B", nil), inline.ErrNilValue)
	require.ErrorIs(t, p.Register(key, "B", (*sample)(nil)), inline.ErrNilValue)
	require.Equal(t, []string{"A"}, p.Fields(key), "typed nils are never pending")

	require.True(t, p.Discard(key))
	require.False(t, p.Discard(key))
}

// TestConstructFieldChecksModel rejects builders of another shape.
func TestConstructFieldChecksModel(t *testing.T) {
	p := inline.New()
	key := inline.NewObjectKey()
	declared, err := array.PlainModel(reflect.TypeFor[*sample](), 3)
	require.NoError(t, err)

	wrong, err := array.For[*sample](4)
	require.NoError(t, err)
	_, err = p.ConstructField(key, "Samples", declared, wrong)
	require.ErrorIs(t, err, array.ErrModelMismatch)
	require.Empty(t, p.Fields(key))

	right, err := array.For[*sample](3)
	require.NoError(t, err)
	c, err := p.ConstructField(key, "Samples", declared, right)
	require.NoError(t, err)
	require.True(t, declared.Equal(c.Model()))
}

// TestPendingConcurrentObjects registers from many goroutines.
func TestPendingConcurrentObjects(t *testing.T) {
	p := inline.New()
	const n = 32
	keys := make([]uuid.UUID, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range keys {
		keys[i] = inline.NewObjectKey()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := array.For[*sample](uint64(i))
			if err == nil {
				_, err = p.ConstructInto(keys[i], "Samples", b)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	published := 0
	for i, key := range keys {
		require.NoError(t, errs[i])
		require.NoError(t, p.Publish(key, inline.PublisherFunc(func(_ uuid.UUID, f map[string]any) error {
			published += len(f)
			return nil
		})))
	}
	require.Equal(t, n, published)
}
