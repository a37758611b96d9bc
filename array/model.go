// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
	"reflect"
)

// ElementKind tags what a container's slots hold. It drives a single
// non-generic dispatch in the builder instead of recursive generic types.
type ElementKind uint8

const (
	// KindPlain slots hold pointers to structs.
	KindPlain ElementKind = iota
	// KindNestedArray slots hold containers embedding Array.
	KindNestedArray
	// KindNestedScalarArray slots hold *ScalarArray[T].
	KindNestedScalarArray
	// KindScalar is the kind of a ScalarArray's own model.
	KindScalar
)

// String implements fmt.Stringer.
func (k ElementKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindNestedArray:
		return "nested"
	case KindNestedScalarArray:
		return "nested_scalar"
	case KindScalar:
		return "scalar"
	default:
		return fmt.Sprintf("ElementKind(%d)", uint8(k))
	}
}

// Model is the immutable description of a container type.
// Invariant: sub != nil ⇒ elementType == sub.arrayType.
// A Model may be shared read-only by any number of Builders.
type Model struct {
	arrayType   reflect.Type
	elementType reflect.Type
	length      uint64
	kind        ElementKind
	sub         *Model
}

var (
	containerIface  = reflect.TypeOf((*Container)(nil)).Elem()
	scalarIface     = reflect.TypeOf((*scalarArray)(nil)).Elem()
	arrayPtrType    = reflect.TypeOf((*Array)(nil))
	arrayStructType = arrayPtrType.Elem()
)

// NewModel validates and returns a Model.
// MAIN DESCRIPTION:
//   - arrayType must be a container type: *Array, a pointer to a struct that
//     embeds Array by value, or *ScalarArray[T].
//   - For *ScalarArray[T], elementType must be T and sub must be nil.
//   - With sub != nil, elementType must equal sub's array type and must not be
//     a scalar type.
//   - With sub == nil (plain), elementType must be a pointer to a struct that
//     is not itself a container.
//
// Errors:
//   - ErrModelMismatch for any violation above.
//
// Complexity:
//   - O(1) (plus one embedded-field scan of arrayType).
func NewModel(arrayType, elementType reflect.Type, length uint64, sub *Model) (*Model, error) {
	if arrayType == nil || elementType == nil {
		return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "nil type")
	}
	m := &Model{arrayType: arrayType, elementType: elementType, length: length, sub: sub}

	if isScalarArrayType(arrayType) {
		if sub != nil {
			return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "%s cannot nest a sub-model", arrayType)
		}
		if want := scalarElemOf(arrayType); want != elementType {
			return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "%s holds %s, not %s", arrayType, want, elementType)
		}
		m.kind = KindScalar
		return m, nil
	}
	if !isArrayType(arrayType) {
		return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "%s is not a container type", arrayType)
	}

	if sub != nil {
		if isScalarType(elementType) {
			return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "scalar element %s with a structured sub-model", elementType)
		}
		if sub.arrayType != elementType {
			return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "sub-model type %s != element type %s", sub.arrayType, elementType)
		}
		m.kind = KindNestedArray
		if sub.kind == KindScalar {
			m.kind = KindNestedScalarArray
		}
		return m, nil
	}

	if elementType.Kind() != reflect.Pointer || elementType.Elem().Kind() != reflect.Struct {
		return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "element %s is not a pointer to a struct", elementType)
	}
	if isArrayType(elementType) || isScalarArrayType(elementType) {
		return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "container element %s needs a sub-model", elementType)
	}
	m.kind = KindPlain

	return m, nil
}

// PlainModel is NewModel(*Array, elementType, length, nil).
func PlainModel(elementType reflect.Type, length uint64) (*Model, error) {
	return NewModel(arrayPtrType, elementType, length, nil)
}

// NestedModel is NewModel(*Array, sub.ArrayType(), length, sub).
func NestedModel(length uint64, sub *Model) (*Model, error) {
	if sub == nil {
		return nil, arrayErrorf(methodNewModel, ErrModelMismatch, "nil sub-model")
	}
	return NewModel(arrayPtrType, sub.arrayType, length, sub)
}

// ScalarModel returns the model of a *ScalarArray[T] of the given length.
func ScalarModel[T Scalar](length uint64) *Model {
	return &Model{
		arrayType:   reflect.TypeFor[*ScalarArray[T]](),
		elementType: reflect.TypeFor[T](),
		length:      length,
		kind:        KindScalar,
	}
}

// ArrayType returns the container type.
func (m *Model) ArrayType() reflect.Type { return m.arrayType }

// ElementType returns the slot type.
func (m *Model) ElementType() reflect.Type { return m.elementType }

// Length returns the number of slots.
func (m *Model) Length() uint64 { return m.length }

// Kind returns the element kind.
func (m *Model) Kind() ElementKind { return m.kind }

// Sub returns the nested sub-model, or nil.
func (m *Model) Sub() *Model { return m.sub }

// Depth returns the number of container levels (1 for a flat container).
func (m *Model) Depth() int {
	d := 0
	for cur := m; cur != nil; cur = cur.sub {
		d++
	}
	return d
}

// Equal reports structural equality: same array type, element type, length
// and (recursively) sub-models.
func (m *Model) Equal(o *Model) bool {
	for a, b := m, o; ; a, b = a.sub, b.sub {
		if a == nil || b == nil {
			return a == b
		}
		if a.arrayType != b.arrayType || a.elementType != b.elementType || a.length != b.length {
			return false
		}
	}
}

// withLength returns a copy of m with a different top-level length.
func (m *Model) withLength(n uint64) *Model {
	cp := *m
	cp.length = n
	return &cp
}

// String renders the model as "Type[len] of Elem" chains.
func (m *Model) String() string {
	if m == nil {
		return "<nil>"
	}
	if m.sub == nil {
		return fmt.Sprintf("%s[%d] of %s", m.arrayType, m.length, m.elementType)
	}
	return fmt.Sprintf("%s[%d] of %s", m.arrayType, m.length, m.sub)
}

// ---------- type classification ----------

// isScalarType reports bool, integer, float and complex kinds.
func isScalarType(t reflect.Type) bool {
	return t.Kind() >= reflect.Bool && t.Kind() <= reflect.Complex128
}

// isArrayType reports *Array or a pointer to a struct embedding Array by value.
func isArrayType(t reflect.Type) bool {
	if t == arrayPtrType {
		return true
	}
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct || !t.Implements(containerIface) {
		return false
	}
	return embeddedArrayIndex(t.Elem()) >= 0
}

// embeddedArrayIndex returns the field index of the embedded Array, or -1.
func embeddedArrayIndex(st reflect.Type) int {
	for i := 0; i < st.NumField(); i++ {
		if f := st.Field(i); f.Anonymous && f.Type == arrayStructType {
			return i
		}
	}
	return -1
}

func isScalarArrayType(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Implements(scalarIface)
}

// scalarElemOf returns T for *ScalarArray[T]. Methods are called on a nil
// receiver and never dereference it.
func scalarElemOf(t reflect.Type) reflect.Type {
	return reflect.Zero(t).Interface().(scalarArray).scalarType()
}
