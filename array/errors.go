// SPDX-License-Identifier: MIT
// Package: structarray/array
//
// errors.go - sentinel errors for the array package.
//
// Error policy:
//   • Only package-level sentinels are exposed; callers use errors.Is.
//   • Implementations attach context with %w (method tag + detail).
//   • Build-time failures are returned, never panicked. Option constructors
//     (WithX) panic on nonsensical values, as programmer errors.

package array

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/structarray/storage"
)

var (
	// ErrModelMismatch indicates a Model whose parts contradict each other
	// (sub-model type differs from the element type, scalar element with a
	// structured sub-model, non-container type, ...) or a Builder whose shape
	// differs from a declared Model.
	ErrModelMismatch = errors.New("array: model mismatch")

	// ErrNoMatchingInitializer indicates that no initializer exists for the
	// requested type and argument shape.
	ErrNoMatchingInitializer = errors.New("array: no matching initializer")

	// ErrElementTypeMismatch indicates a directive (or its product) whose type
	// differs from the type the model declares for that slot.
	ErrElementTypeMismatch = errors.New("array: element type mismatch")

	// ErrUnauthorizedConstruction indicates an attempt to initialize a
	// container without an armed, unspent Token issued by a Builder.
	ErrUnauthorizedConstruction = errors.New("array: containers must be built via a Builder")

	// ErrNotInitialized indicates a container initializer that returned
	// without calling Init with its Token.
	ErrNotInitialized = errors.New("array: container initializer did not call Init")

	// ErrNilElement indicates an initializer that produced a nil value.
	ErrNilElement = errors.New("array: initializer produced nil")

	// ErrNilBuilder indicates a nil Builder or sub-builder.
	ErrNilBuilder = errors.New("array: nil builder")

	// ErrTypeMismatch indicates two containers (or a typed accessor) whose
	// element types differ.
	ErrTypeMismatch = errors.New("array: type mismatch")

	// ErrUnsupportedShape indicates a bulk copy on a container that nests
	// further containers.
	ErrUnsupportedShape = errors.New("array: unsupported shape")

	// ErrImmutableFieldViolation indicates a bulk copy into an element type
	// with immutable fields while overwriting them was not allowed.
	ErrImmutableFieldViolation = errors.New("array: immutable field violation")
)

// ErrIndexOutOfRange indicates an index or range beyond a container's length.
// It is the storage sentinel, so errors.Is matches at either layer.
var ErrIndexOutOfRange = storage.ErrIndexOutOfRange

// ---------- method tags (error context) ----------

const (
	methodNewModel     = "NewModel"
	methodResolve      = "Resolve"
	methodBuild        = "Build"
	methodInit         = "Init"
	methodFill         = "fill"
	methodLookup       = "Catalog.Lookup"
	methodRegister     = "Catalog.Register"
	methodInvoke       = "Initializer.invoke"
	methodCopyProvider = "CopyProvider"
	methodCopyRange    = "CopyRange"
	methodShallowCopy  = "ShallowCopy"
	methodGet          = "Get"
	methodElem         = "Elem"
)

// arrayErrorf prefixes err with a method tag and a formatted detail while
// keeping the sentinel reachable through errors.Is.
func arrayErrorf(method string, err error, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
