// SPDX-License-Identifier: MIT

package storage

// Partitioned is a fixed-length slot store addressed by 64-bit indices.
//   - primary holds indices [0, min(N, WordMax)).
//   - extensions holds the remaining indices in 2^30-sized segments followed
//     by one final partial segment (possibly empty).
//
// The length is fixed at construction; there is no resize.
type Partitioned[T any] struct {
	layout     Layout
	primary    []T   // len == layout.PrimaryLength
	extensions [][]T // len == layout.Segments()
}

// New allocates storage for n zero-valued slots with the standard geometry.
// Complexity: O(n) time and memory.
func New[T any](n uint64) *Partitioned[T] {
	return NewWithLayout[T](LayoutFor(n))
}

// NewWithLayout allocates the primary segment, every full extension segment,
// and the final partial segment described by l.
func NewWithLayout[T any](l Layout) *Partitioned[T] {
	p := &Partitioned[T]{
		layout:  l,
		primary: make([]T, l.PrimaryLength),
	}
	if l.ExtraLength == 0 {
		return p
	}

	size := l.SegmentSize()
	p.extensions = make([][]T, 0, l.FullSegments+1)
	for s := uint64(0); s < l.FullSegments; s++ {
		p.extensions = append(p.extensions, make([]T, size))
	}
	// The trailing segment is always present once extensions exist.
	p.extensions = append(p.extensions, make([]T, l.LastSegmentSize))

	return p
}

// Len returns the number of slots.
func (p *Partitioned[T]) Len() uint64 { return p.layout.Length }

// Layout returns the partition layout of this store.
func (p *Partitioned[T]) Layout() Layout { return p.layout }

// Primary exposes the primary segment for native-word fast paths.
// Callers must not retain it beyond the lifetime of the store.
func (p *Partitioned[T]) Primary() []T { return p.primary }

// Segment exposes extension segment s.
func (p *Partitioned[T]) Segment(s int) []T { return p.extensions[s] }

// Ptr returns the address of slot index.
// Errors: ErrIndexOutOfRange.
// Complexity: O(1).
func (p *Partitioned[T]) Ptr(index uint64) (*T, error) {
	loc, err := p.layout.Locate(index)
	if err != nil {
		return nil, storageErrorf(ctxPtr, index, ErrIndexOutOfRange)
	}

	return p.slot(loc), nil
}

// At returns the value stored at index.
// Errors: ErrIndexOutOfRange.
// Complexity: O(1).
func (p *Partitioned[T]) At(index uint64) (T, error) {
	loc, err := p.layout.Locate(index)
	if err != nil {
		var zero T
		return zero, storageErrorf(ctxAt, index, ErrIndexOutOfRange)
	}

	return *p.slot(loc), nil
}

// Set stores v at index.
// Errors: ErrIndexOutOfRange.
// Complexity: O(1).
func (p *Partitioned[T]) Set(index uint64, v T) error {
	loc, err := p.layout.Locate(index)
	if err != nil {
		return storageErrorf(ctxSet, index, ErrIndexOutOfRange)
	}
	*p.slot(loc) = v

	return nil
}

// slot resolves an already validated location.
func (p *Partitioned[T]) slot(loc Location) *T {
	if loc.Primary() {
		return &p.primary[loc.Offset]
	}

	return &p.extensions[loc.Segment][loc.Offset]
}

// Range calls fn for every slot in ascending index order until fn returns false.
// Complexity: O(N).
func (p *Partitioned[T]) Range(fn func(index uint64, v T) bool) {
	for i := range p.primary {
		if !fn(uint64(i), p.primary[i]) {
			return
		}
	}
	base := p.layout.wordMax
	size := p.layout.SegmentSize()
	for s, seg := range p.extensions {
		for off := range seg {
			if !fn(base+uint64(s)*size+uint64(off), seg[off]) {
				return
			}
		}
	}
}
