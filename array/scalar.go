// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
	"reflect"

	"github.com/katalvlaran/structarray/storage"
)

// Scalar is the set of element types a ScalarArray may hold.
type Scalar interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// ScalarArray is a fixed-length array of scalars with the same partitioned
// addressing as Array. Unlike structured slots, scalar slots may be Set.
type ScalarArray[T Scalar] struct {
	model *Model
	slots *storage.Partitioned[T]
}

// scalarArray is the type-erased view of *ScalarArray[T]. scalarType,
// defaultInit, copyInit and newSource are called on nil receivers.
type scalarArray interface {
	Shaped
	scalarType() reflect.Type
	getAny(i uint64) (any, error)
	defaultInit() *Initializer
	copyInit() *Initializer
	newSource(length uint64, opts []Option) (ScalarSource, error)
}

var _ scalarArray = (*ScalarArray[float64])(nil)

// Model returns the model the array was built from.
func (s *ScalarArray[T]) Model() *Model { return s.model }

// Len returns the number of slots.
func (s *ScalarArray[T]) Len() uint64 {
	if s == nil || s.slots == nil {
		return 0
	}
	return s.slots.Len()
}

// Layout returns the partition layout of the slots.
func (s *ScalarArray[T]) Layout() storage.Layout {
	if s.slots == nil {
		return storage.LayoutFor(0)
	}
	return s.slots.Layout()
}

// Get returns slot i.
// Errors: ErrIndexOutOfRange.
func (s *ScalarArray[T]) Get(i uint64) (T, error) {
	if s.slots == nil {
		var zero T
		return zero, arrayErrorf(methodGet, ErrIndexOutOfRange, "index %d of empty array", i)
	}
	return s.slots.At(i)
}

// Set stores v in slot i.
// Errors: ErrIndexOutOfRange.
func (s *ScalarArray[T]) Set(i uint64, v T) error {
	if s.slots == nil {
		return arrayErrorf(methodGet, ErrIndexOutOfRange, "index %d of empty array", i)
	}
	return s.slots.Set(i, v)
}

// Each calls fn for every slot in index order until fn returns false.
func (s *ScalarArray[T]) Each(fn func(i uint64, v T) bool) {
	if s.slots != nil {
		s.slots.Range(fn)
	}
}

func (s *ScalarArray[T]) scalarType() reflect.Type { return reflect.TypeFor[T]() }

func (s *ScalarArray[T]) getAny(i uint64) (any, error) { return s.Get(i) }

func (s *ScalarArray[T]) defaultInit() *Initializer {
	return &Initializer{
		declaring: reflect.TypeFor[*ScalarArray[T]](),
		name:      "new",
		container: func(tok *Token, _ []any) (any, error) {
			a := new(ScalarArray[T])
			return a, initScalar(tok, a)
		},
	}
}

func (s *ScalarArray[T]) copyInit() *Initializer {
	t := reflect.TypeFor[*ScalarArray[T]]()
	return &Initializer{
		declaring: t,
		params:    []reflect.Type{t},
		name:      "copy",
		container: func(tok *Token, args []any) (any, error) {
			a := new(ScalarArray[T])
			if err := initScalar(tok, a); err != nil {
				return a, err
			}
			src, _ := args[0].(*ScalarArray[T])
			if src == nil {
				return a, nil
			}
			n := min(a.Len(), src.Len())
			for i := uint64(0); i < n; i++ {
				v, err := src.Get(i)
				if err != nil {
					return a, err
				}
				if err = a.Set(i, v); err != nil {
					return a, err
				}
			}
			return a, nil
		},
	}
}

func (s *ScalarArray[T]) newSource(length uint64, opts []Option) (ScalarSource, error) {
	return NewScalarBuilder[T](length, opts...)
}

// initScalar authorizes and allocates a scalar array, then applies the
// builder's fill function if one is set.
func initScalar[T Scalar](tok *Token, a *ScalarArray[T]) error {
	if err := tok.claim(); err != nil {
		return err
	}
	b, ok := tok.owner.(*ScalarBuilder[T])
	if !ok {
		return arrayErrorf(methodInit, ErrUnauthorizedConstruction, "token was not issued for %T", a)
	}
	a.model = tok.model
	a.slots = storage.NewWithLayout[T](b.cfg.geometry(tok.model.length))
	ctx := tok.ctx
	ctx.container = a
	if b.fill == nil {
		tok.s.slots += a.Len()
		return nil
	}
	for i := uint64(0); i < a.Len(); i++ {
		ctx.setLast(i)
		if err := a.slots.Set(i, b.fill(ctx)); err != nil {
			return err
		}
		tok.s.slots++
	}

	return nil
}

// ---------- builder ----------

// ScalarSource is a scalar sub-builder usable by NewScalarNestedBuilder.
// It is implemented by *ScalarBuilder[T].
type ScalarSource interface {
	Model() *Model
	ContainerDirective() *Directive
	Resolve(force bool) error
	scalarSource()
}

// ScalarBuilder builds *ScalarArray[T] values, standalone or as the slots of
// a nested container.
type ScalarBuilder[T Scalar] struct {
	cfg       config
	model     *Model
	directive *Directive
	fill      func(ctx *Context) T
}

// NewScalarBuilder returns a builder for scalar arrays of length slots.
func NewScalarBuilder[T Scalar](length uint64, opts ...Option) (*ScalarBuilder[T], error) {
	return &ScalarBuilder[T]{cfg: newConfig(opts...), model: ScalarModel[T](length)}, nil
}

func (b *ScalarBuilder[T]) scalarSource() {}

// Model returns the scalar array model.
func (b *ScalarBuilder[T]) Model() *Model { return b.model }

// ContainerDirective returns the container directive (nil until set or
// resolved).
func (b *ScalarBuilder[T]) ContainerDirective() *Directive { return b.directive }

// SetContainerDirective sets how each scalar array is constructed.
func (b *ScalarBuilder[T]) SetContainerDirective(d *Directive) *ScalarBuilder[T] {
	b.directive = d
	return b
}

// SetFill sets a per-slot value function. The context index is the full
// path (outer slots first, the scalar slot last).
func (b *ScalarBuilder[T]) SetFill(fn func(ctx *Context) T) *ScalarBuilder[T] {
	b.fill = fn
	return b
}

// Resolve defaults the container directive when force is set.
// Errors: ErrNoMatchingInitializer.
func (b *ScalarBuilder[T]) Resolve(force bool) error {
	if b.directive != nil || !force {
		return nil
	}
	in, err := b.cfg.catalog.Default(b.model.arrayType)
	if err != nil {
		return fmt.Errorf("%s: %w", methodResolve, err)
	}
	b.directive = &Directive{Init: in}

	return nil
}

// Build builds one scalar array.
func (b *ScalarBuilder[T]) Build() (*ScalarArray[T], error) {
	if err := b.Resolve(true); err != nil {
		return nil, err
	}
	v, err := execute(&b.cfg, b.model, b, NewContext(nil), b.directive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}

	return v.(*ScalarArray[T]), nil
}

// scalarSourceFor creates a ScalarBuilder for a scalar array model.
func scalarSourceFor(m *Model, opts []Option) (ScalarSource, error) {
	if m == nil || m.kind != KindScalar {
		return nil, fmt.Errorf("scalar sub-model %s: %w", m, ErrModelMismatch)
	}
	return reflect.Zero(m.arrayType).Interface().(scalarArray).newSource(m.length, opts)
}
