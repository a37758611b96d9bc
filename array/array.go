// SPDX-License-Identifier: MIT

package array

import (
	"reflect"

	"github.com/katalvlaran/structarray/fields"
	"github.com/katalvlaran/structarray/storage"
)

// Container is implemented by *Array and by every pointer to a struct that
// embeds Array by value:
//
//	type Ledger struct {
//		array.Array
//		Owner string
//	}
//
// The unexported method keeps the set of containers closed over Array.
type Container interface {
	Shaped
	array() *Array
}

// Array is a fixed-length container of N slots built by a Builder.
// The zero value is an empty, uninitialized container; the only way to give
// it slots is Init with a Token issued by Builder.Build.
type Array struct {
	model  *Model
	slots  *storage.Partitioned[any]
	fields *fields.Layout // element layout, single-level containers only
}

// Compile-time assertions.
var (
	_ Container = (*Array)(nil)
	_ Shaped    = (*ScalarArray[int64])(nil)
)

func (a *Array) array() *Array { return a }

// Model returns the model the container was built from (nil before Init).
func (a *Array) Model() *Model { return a.model }

// Len returns the number of slots.
func (a *Array) Len() uint64 {
	if a.slots == nil {
		return 0
	}
	return a.slots.Len()
}

// Layout returns the partition layout of the slots.
func (a *Array) Layout() storage.Layout {
	if a.slots == nil {
		return storage.LayoutFor(0)
	}
	return a.slots.Layout()
}

// Get returns slot i: a pointer to a struct, a container, or a scalar array
// depending on the element kind.
// Errors: ErrIndexOutOfRange.
func (a *Array) Get(i uint64) (any, error) {
	if a.slots == nil {
		return nil, arrayErrorf(methodGet, ErrIndexOutOfRange, "index %d of empty container", i)
	}
	return a.slots.At(i)
}

// At walks path through nested levels; the last position may index into a
// nested scalar array, in which case the scalar value is returned.
// Errors: ErrIndexOutOfRange, ErrUnsupportedShape (path deeper than the model).
func (a *Array) At(path ...uint64) (any, error) {
	var cur any = a
	for depth, i := range path {
		switch c := cur.(type) {
		case Container:
			v, err := c.array().Get(i)
			if err != nil {
				return nil, err
			}
			cur = v
		case scalarArray:
			if depth != len(path)-1 {
				return nil, arrayErrorf(methodGet, ErrUnsupportedShape, "path %v too deep", path)
			}
			return c.getAny(i)
		default:
			return nil, arrayErrorf(methodGet, ErrUnsupportedShape, "path %v too deep", path)
		}
	}

	return cur, nil
}

// Each calls fn for every slot in index order until fn returns false.
func (a *Array) Each(fn func(i uint64, v any) bool) {
	if a.slots == nil {
		return
	}
	a.slots.Range(fn)
}

// Elem returns slot i of c as a T.
// Errors: ErrIndexOutOfRange, ErrTypeMismatch.
func Elem[T any](c Container, i uint64) (T, error) {
	var zero T
	v, err := c.array().Get(i)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, arrayErrorf(methodElem, ErrTypeMismatch, "slot %d is %T", i, v)
	}

	return t, nil
}

// populate allocates storage for m and fills plain slots right away. Nested
// containers are queued on the session and filled by execute.
func (a *Array) populate(s *session, b *Builder, m *Model, ctx *Context, self Container) error {
	a.model = m
	a.slots = storage.NewWithLayout[any](b.cfg.geometry(m.length))
	ctx.container = self

	if m.kind != KindPlain {
		s.push(frame{arr: a, b: b, ctx: ctx})
		return nil
	}
	layout, err := fields.Of(m.elementType)
	if err != nil {
		return arrayErrorf(methodFill, ErrModelMismatch, "%v", err)
	}
	a.fields = layout

	return a.fillPlain(s, b, ctx)
}

// fillPlain builds every slot of a single-level container.
func (a *Array) fillPlain(s *session, b *Builder, ctx *Context) error {
	want := a.model.elementType
	for i := uint64(0); i < a.Len(); i++ {
		ctx.setLast(i)
		d, err := b.provider.ForContext(ctx)
		if err != nil {
			return err
		}
		if err = checkDirective(d, want, ctx); err != nil {
			return err
		}
		v, err := d.Init.invoke(nil, d.Args)
		if err != nil {
			return err
		}
		if err = a.store(s, i, v, want, d, ctx); err != nil {
			return err
		}
		recycle(b.provider, d)
	}

	return nil
}

// fillNested builds every sub-container of a nested container. Each slot
// gets a child token and a child context whose cookie is the directive's
// cookie, or the sub-builder's cookie when the directive carries none.
func (a *Array) fillNested(s *session, b *Builder, ctx *Context) error {
	m := a.model
	var owner any = b.sub
	var subCookie any
	if m.kind == KindNestedScalarArray {
		owner = b.scalarSub
	} else {
		subCookie = b.sub.cookie
	}

	for i := uint64(0); i < a.Len(); i++ {
		ctx.setLast(i)
		d, err := b.provider.ForContext(ctx)
		if err != nil {
			return err
		}
		if err = checkDirective(d, m.elementType, ctx); err != nil {
			return err
		}
		cookie := d.Cookie
		if cookie == nil {
			cookie = subCookie
		}
		tok := s.issue(owner, m.sub, ctx.PushNested(cookie))
		v, err := d.Init.invoke(tok, d.Args)
		if err != nil {
			return err
		}
		if !tok.spent {
			return arrayErrorf(methodFill, ErrNotInitialized, "%s at %v", d.Init, ctx.Index())
		}
		if err = a.store(s, i, v, m.elementType, d, ctx); err != nil {
			return err
		}
		recycle(b.provider, d)
	}

	return nil
}

// store validates a constructed value and writes it to slot i.
func (a *Array) store(s *session, i uint64, v any, want reflect.Type, d *Directive, ctx *Context) error {
	if isNil(v) {
		return arrayErrorf(methodFill, ErrNilElement, "%s at %v", d.Init, ctx.Index())
	}
	if got := reflect.TypeOf(v); got != want {
		return arrayErrorf(methodFill, ErrElementTypeMismatch, "%s produced %s at %v", d.Init, got, ctx.Index())
	}
	if err := a.slots.Set(i, v); err != nil {
		return err
	}
	s.slots++

	return nil
}

// checkDirective rejects a directive before the slot is touched.
func checkDirective(d *Directive, want reflect.Type, ctx *Context) error {
	if d == nil || d.Init == nil {
		return arrayErrorf(methodFill, ErrNoMatchingInitializer, "no directive at %v", ctx.Index())
	}
	if d.Init.declaring != want {
		return arrayErrorf(methodFill, ErrElementTypeMismatch, "%s declares %s, model wants %s at %v",
			d.Init, d.Init.declaring, want, ctx.Index())
	}

	return nil
}

// recycle hands d back to providers that pool their directives.
func recycle(p Provider, d *Directive) {
	if r, ok := p.(Recycler); ok {
		r.Recycle(d)
	}
}
