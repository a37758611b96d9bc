// SPDX-License-Identifier: MIT

package fields

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// TagKey is the struct tag consulted for field flags.
const TagKey = "structarray"

// tagImmutable marks a field that bulk copies must not overwrite unless the
// caller explicitly allows it.
const tagImmutable = "immutable"

var (
	// ErrNotStruct is returned when a Layout is requested for a type that is
	// neither a struct nor a pointer to a struct.
	ErrNotStruct = errors.New("fields: type is not a struct")

	// ErrTypeMismatch is returned when Copy receives values of different types.
	ErrTypeMismatch = errors.New("fields: source and destination types differ")

	// ErrNilValue is returned when Copy receives a nil pointer.
	ErrNilValue = errors.New("fields: nil value")
)

// Descriptor describes one field of a struct type.
type Descriptor struct {
	Name      string
	Index     int
	Offset    uintptr
	Size      uintptr
	Type      reflect.Type
	Immutable bool
}

// Layout is the cached descriptor list of a struct type.
type Layout struct {
	typ    reflect.Type // struct type (never a pointer)
	fields []Descriptor
	frozen bool // at least one immutable field
}

// Type returns the struct type described.
func (l *Layout) Type() reflect.Type { return l.typ }

// Fields returns the descriptors in declaration order. The slice is shared;
// callers must not modify it.
func (l *Layout) Fields() []Descriptor { return l.fields }

// HasImmutable reports whether any field is tagged immutable.
func (l *Layout) HasImmutable() bool { return l.frozen }

// cache maps reflect.Type (struct) -> *Layout.
var cache sync.Map

// Of returns the Layout of t, building and caching it on first use.
// t may be a struct type or a pointer to one.
// Errors: ErrNotStruct.
// Complexity: O(fields) on first call per type, O(1) afterwards.
func Of(t reflect.Type) (*Layout, error) {
	if t == nil {
		return nil, ErrNotStruct
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fields.Of(%s): %w", t, ErrNotStruct)
	}
	if l, ok := cache.Load(t); ok {
		return l.(*Layout), nil
	}
	l, _ := cache.LoadOrStore(t, build(t))

	return l.(*Layout), nil
}

// build scans t's fields once.
func build(t reflect.Type) *Layout {
	l := &Layout{typ: t, fields: make([]Descriptor, 0, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Name == "_" {
			continue // padding
		}
		d := Descriptor{
			Name:      sf.Name,
			Index:     i,
			Offset:    sf.Offset,
			Size:      sf.Type.Size(),
			Type:      sf.Type,
			Immutable: sf.Tag.Get(TagKey) == tagImmutable,
		}
		l.frozen = l.frozen || d.Immutable
		l.fields = append(l.fields, d)
	}

	return l
}

// Copy copies every field of src into dst. Both must be non-nil pointers to
// the Layout's struct type.
// Errors: ErrTypeMismatch, ErrNilValue.
func (l *Layout) Copy(dst, src any) error {
	return l.copy(dst, src, nil)
}

// CopyExcept copies every field except those whose index is in skip.
func (l *Layout) CopyExcept(dst, src any, skip ...int) error {
	return l.copy(dst, src, skip)
}

func (l *Layout) copy(dst, src any, skip []int) error {
	dp, err := l.addr(dst)
	if err != nil {
		return err
	}
	sp, err := l.addr(src)
	if err != nil {
		return err
	}
	if dp == sp {
		return nil
	}

next:
	for _, f := range l.fields {
		for _, s := range skip {
			if s == f.Index {
				continue next
			}
		}
		from := reflect.NewAt(f.Type, unsafe.Add(sp, f.Offset)).Elem()
		reflect.NewAt(f.Type, unsafe.Add(dp, f.Offset)).Elem().Set(from)
	}

	return nil
}

// addr validates v as *T for the layout's T and returns its address.
func (l *Layout) addr(v any) (unsafe.Pointer, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Type().Elem() != l.typ {
		return nil, fmt.Errorf("fields.Copy(%s): got %T: %w", l.typ, v, ErrTypeMismatch)
	}
	if rv.IsNil() {
		return nil, fmt.Errorf("fields.Copy(%s): %w", l.typ, ErrNilValue)
	}

	return rv.UnsafePointer(), nil
}
