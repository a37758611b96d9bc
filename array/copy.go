// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
)

// CopyInstance returns a deep copy of src: a new container of the same model
// whose every slot, at every level, is built by the copy initializer of the
// corresponding source slot.
// Errors: as CopyRange.
func CopyInstance(src Container, opts ...Option) (Container, error) {
	if isNil(src) || src.Model() == nil {
		return nil, arrayErrorf(methodCopyRange, ErrNotInitialized, "source is not built")
	}
	return CopyRange(src, 0, src.Len(), opts...)
}

// CopyRange returns a new container of count slots whose slot i is a deep
// copy of source slot offset+i. Nested levels below the top are copied in
// full.
//
// Implementation:
//   - Stage 1: check [offset, offset+count) against src.Len() up front.
//   - Stage 2: build a Builder tree mirroring src's model, the top level
//     shortened to count. Every structured level gets a CopyProvider (offset
//     at the top, 0 below), so each level reads from the source container at
//     the same depth, carried in the context cookie.
//   - Stage 3: the top-level container directive is the copy initializer of
//     the source type with src as its argument, so non-slot fields of a
//     custom container are copied too.
//
// Errors: ErrNotInitialized, ErrIndexOutOfRange, ErrNoMatchingInitializer,
// and any error raised by a copy initializer.
func CopyRange(src Container, offset, count uint64, opts ...Option) (Container, error) {
	if isNil(src) || src.Model() == nil {
		return nil, arrayErrorf(methodCopyRange, ErrNotInitialized, "source is not built")
	}
	n := src.Len()
	if offset > n || count > n-offset {
		return nil, arrayErrorf(methodCopyRange, ErrIndexOutOfRange, "[%d, %d+%d) of %d", offset, offset, count, n)
	}

	cfg := newConfig(opts...)
	b, err := FromModel(src.Model().withLength(count), opts...)
	if err != nil {
		return nil, err
	}
	armCopy(b, offset, cfg.catalog)
	in, err := cfg.catalog.Copy(src.Model().arrayType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodCopyRange, err)
	}
	b.SetContainerInitializer(in, src).SetCookie(src)

	return b.Build()
}

// armCopy installs copy providers on every structured level of b. Levels
// below the top read with offset 0. Scalar levels copy through their
// container directive, which the parent's CopyProvider supplies.
func armCopy(b *Builder, offset uint64, cat *Catalog) {
	for level := b; level != nil; level = level.sub {
		level.SetProvider(NewCopyProvider(offset, cat))
		offset = 0
	}
}
