// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
	"reflect"
	"strings"
)

// Initializer produces one value of its declaring type from an ordered
// argument list. Element initializers build slot values; container
// initializers additionally receive the build Token and must call Init with
// it before doing anything else.
type Initializer struct {
	declaring reflect.Type
	params    []reflect.Type
	name      string
	element   func(args []any) (any, error)
	container func(tok *Token, args []any) (any, error)
}

// NewInitializer wraps an untyped element function. params describes the
// argument shape accepted by fn; calls with any other shape fail with
// ErrNoMatchingInitializer before fn runs.
// Panics on nil declaring type or fn (programmer error).
func NewInitializer(declaring reflect.Type, name string, params []reflect.Type, fn func(args []any) (any, error)) *Initializer {
	if declaring == nil || fn == nil {
		panic("array: NewInitializer(nil)")
	}
	return &Initializer{declaring: declaring, params: params, name: name, element: fn}
}

// Ctor0 wraps a no-argument element constructor.
func Ctor0[T any](name string, fn func() T) *Initializer {
	return NewInitializer(reflect.TypeFor[T](), name, nil, func([]any) (any, error) {
		return fn(), nil
	})
}

// Ctor1 wraps a one-argument element constructor.
func Ctor1[T, A any](name string, fn func(A) T) *Initializer {
	params := []reflect.Type{reflect.TypeFor[A]()}
	return NewInitializer(reflect.TypeFor[T](), name, params, func(args []any) (any, error) {
		return fn(argAs[A](args[0])), nil
	})
}

// Ctor2 wraps a two-argument element constructor.
func Ctor2[T, A, B any](name string, fn func(A, B) T) *Initializer {
	params := []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
	return NewInitializer(reflect.TypeFor[T](), name, params, func(args []any) (any, error) {
		return fn(argAs[A](args[0]), argAs[B](args[1])), nil
	})
}

// ContainerCtor wraps a container initializer for C. fn must call
// Init(tok, c) as its first action on the container it returns.
// Panics on nil fn.
func ContainerCtor[C Container](name string, fn func(tok *Token, args []any) (C, error), params ...reflect.Type) *Initializer {
	if fn == nil {
		panic("array: ContainerCtor(nil)")
	}
	return &Initializer{
		declaring: reflect.TypeFor[C](),
		params:    params,
		name:      name,
		container: func(tok *Token, args []any) (any, error) {
			return fn(tok, args)
		},
	}
}

// argAs converts an argument, mapping untyped nil to the zero value.
func argAs[A any](v any) A {
	if v == nil {
		var zero A
		return zero
	}
	return v.(A)
}

// Declaring returns the type this initializer produces.
func (in *Initializer) Declaring() reflect.Type { return in.declaring }

// Params returns the accepted argument types.
func (in *Initializer) Params() []reflect.Type { return in.params }

// Name returns the human-readable name.
func (in *Initializer) Name() string { return in.name }

// IsContainer reports whether this initializer builds a container.
func (in *Initializer) IsContainer() bool { return in.container != nil }

// New runs an element initializer outside of any container build.
// Errors: ErrNoMatchingInitializer (shape, or container initializer),
// plus whatever the initializer returns.
func (in *Initializer) New(args ...any) (any, error) {
	return in.invoke(nil, args)
}

// String renders "name(T1, T2) T".
func (in *Initializer) String() string {
	ps := make([]string, len(in.params))
	for i, p := range in.params {
		ps[i] = p.String()
	}
	return fmt.Sprintf("%s(%s) %s", in.name, strings.Join(ps, ", "), in.declaring)
}

// invoke checks the argument shape and dispatches to the element or
// container function. Container functions require a Token.
func (in *Initializer) invoke(tok *Token, args []any) (any, error) {
	if err := in.accepts(args); err != nil {
		return nil, err
	}
	if in.container != nil {
		if tok == nil {
			return nil, arrayErrorf(methodInvoke, ErrNoMatchingInitializer, "%s builds a container", in)
		}
		return in.container(tok, args)
	}
	if tok != nil {
		return nil, arrayErrorf(methodInvoke, ErrNoMatchingInitializer, "%s does not build a container", in)
	}

	return in.element(args)
}

// accepts validates len(args) and per-argument assignability.
func (in *Initializer) accepts(args []any) error {
	if len(args) != len(in.params) {
		return arrayErrorf(methodInvoke, ErrNoMatchingInitializer, "%s called with %d args", in, len(args))
	}
	for i, a := range args {
		if !assignable(typeOf(a), in.params[i]) {
			return arrayErrorf(methodInvoke, ErrNoMatchingInitializer, "%s arg %d is %T", in, i, a)
		}
	}

	return nil
}

// typeOf is reflect.TypeOf that keeps untyped nil as nil.
func typeOf(v any) reflect.Type {
	if v == nil {
		return nil
	}
	return reflect.TypeOf(v)
}

// assignable reports whether a value of type from may be passed as to.
// A nil from matches nillable parameter kinds.
func assignable(from, to reflect.Type) bool {
	if from == nil {
		switch to.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		default:
			return false
		}
	}
	return from.AssignableTo(to)
}
