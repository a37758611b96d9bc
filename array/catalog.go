// SPDX-License-Identifier: MIT

package array

import (
	"reflect"
	"sync"

	"github.com/katalvlaran/structarray/fields"
)

// Catalog maps a type and an argument shape to an Initializer.
//
// Lookup order:
//  1. Registered initializers for the type, in registration order, whose
//     parameters accept the requested argument types.
//  2. Synthesized initializers:
//     - default-construct (no arguments) for pointers to structs, containers
//     and scalar arrays;
//     - copy (one argument of the same type) for the same types: field-wise
//     for structs, Init plus field-wise copy of the non-Array fields for
//     containers, element-wise for scalar arrays.
//
// Catalog is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	byType   map[reflect.Type][]*Initializer
	defaults sync.Map // reflect.Type -> *Initializer
	copiers  sync.Map // reflect.Type -> *Initializer
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byType: make(map[reflect.Type][]*Initializer)}
}

var defaultCatalog = NewCatalog()

// DefaultCatalog returns the process-wide catalog used when a Builder is not
// given one with WithCatalog.
func DefaultCatalog() *Catalog { return defaultCatalog }

// Register adds in to the catalog. Registering the same initializer twice is
// a no-op.
// Errors: ErrNoMatchingInitializer for a nil initializer.
func (c *Catalog) Register(in *Initializer) error {
	if in == nil {
		return arrayErrorf(methodRegister, ErrNoMatchingInitializer, "nil initializer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, have := range c.byType[in.declaring] {
		if have == in {
			return nil
		}
	}
	c.byType[in.declaring] = append(c.byType[in.declaring], in)

	return nil
}

// Lookup resolves an initializer for t accepting argTypes. A nil entry in
// argTypes stands for an untyped nil argument.
// Errors: ErrNoMatchingInitializer.
func (c *Catalog) Lookup(t reflect.Type, argTypes ...reflect.Type) (*Initializer, error) {
	if t == nil {
		return nil, arrayErrorf(methodLookup, ErrNoMatchingInitializer, "nil type")
	}

	c.mu.RLock()
	registered := c.byType[t]
	c.mu.RUnlock()
next:
	for _, in := range registered {
		if len(in.params) != len(argTypes) {
			continue
		}
		for i, at := range argTypes {
			if !assignable(at, in.params[i]) {
				continue next
			}
		}
		return in, nil
	}

	switch {
	case len(argTypes) == 0:
		if in := c.synthesized(&c.defaults, t, synthesizeDefault); in != nil {
			return in, nil
		}
	case len(argTypes) == 1 && (argTypes[0] == nil || argTypes[0] == t):
		if in := c.synthesized(&c.copiers, t, synthesizeCopy); in != nil {
			return in, nil
		}
	}

	return nil, arrayErrorf(methodLookup, ErrNoMatchingInitializer, "%s with %d args", t, len(argTypes))
}

// Default resolves the no-argument initializer of t.
func (c *Catalog) Default(t reflect.Type) (*Initializer, error) { return c.Lookup(t) }

// Copy resolves the copy initializer of t (one argument of type t).
func (c *Catalog) Copy(t reflect.Type) (*Initializer, error) { return c.Lookup(t, t) }

// synthesized returns the cached synthesized initializer for t, creating it
// with mk on first use. mk returns nil for unsupported types.
func (c *Catalog) synthesized(cache *sync.Map, t reflect.Type, mk func(reflect.Type) *Initializer) *Initializer {
	if in, ok := cache.Load(t); ok {
		return in.(*Initializer)
	}
	in := mk(t)
	if in == nil {
		return nil
	}
	got, _ := cache.LoadOrStore(t, in)

	return got.(*Initializer)
}

// synthesizeDefault builds zero-value constructors.
func synthesizeDefault(t reflect.Type) *Initializer {
	switch {
	case isScalarArrayType(t):
		return reflect.Zero(t).Interface().(scalarArray).defaultInit()
	case isArrayType(t):
		return &Initializer{declaring: t, name: "new", container: func(tok *Token, _ []any) (any, error) {
			c := reflect.New(t.Elem()).Interface().(Container)
			return c, Init(tok, c)
		}}
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return NewInitializer(t, "new", nil, func([]any) (any, error) {
			return reflect.New(t.Elem()).Interface(), nil
		})
	default:
		return nil
	}
}

// synthesizeCopy builds copy constructors.
func synthesizeCopy(t reflect.Type) *Initializer {
	params := []reflect.Type{t}
	switch {
	case isScalarArrayType(t):
		return reflect.Zero(t).Interface().(scalarArray).copyInit()
	case isArrayType(t):
		return &Initializer{declaring: t, params: params, name: "copy", container: func(tok *Token, args []any) (any, error) {
			c := reflect.New(t.Elem()).Interface().(Container)
			if err := Init(tok, c); err != nil {
				return c, err
			}
			return c, copyContainerFields(t, c, args[0])
		}}
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		layout, err := fields.Of(t)
		if err != nil {
			return nil
		}
		return NewInitializer(t, "copy", params, func(args []any) (any, error) {
			dst := reflect.New(t.Elem()).Interface()
			if args[0] == nil || reflect.ValueOf(args[0]).IsNil() {
				return dst, nil
			}
			return dst, layout.Copy(dst, args[0])
		})
	default:
		return nil
	}
}

// copyContainerFields copies every field of a container type except its
// embedded Array (whose slots are populated by the build itself).
func copyContainerFields(t reflect.Type, dst Container, src any) error {
	if t == arrayPtrType || src == nil || reflect.ValueOf(src).IsNil() {
		return nil
	}
	layout, err := fields.Of(t)
	if err != nil {
		return err
	}

	return layout.CopyExcept(dst, src, embeddedArrayIndex(t.Elem()))
}
