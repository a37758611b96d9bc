// Package structarray is a toolkit for fixed-length, optionally nested
// containers whose slots are produced one at a time by a pluggable
// constructor-and-arguments strategy.
//
// What is structarray?
//
//	A container of N slots (N up to 2^64-1) is described by an immutable
//	model and built by a builder: a directive for the container itself, a
//	provider mapping every slot's context to a directive, an optional nested
//	builder, and an opaque cookie. Containers can only be initialized with a
//	capability token issued by a build, so there is no way around the
//	builder. Copies are builds too: the copy provider chains the source
//	container through the cookie, one nesting level at a time.
//
// Packages:
//
//	storage/  - partitioned slot storage: a primary segment of up to
//	            math.MaxInt32 slots plus 2^30-slot extension segments
//	fields/   - cached per-type field descriptors (offset, size, immutability)
//	array/    - models, contexts, initializers, providers, builders, tokens,
//	            Array / ScalarArray, CopyInstance / CopyRange, ShallowCopy
//	inline/   - pending registrations for values built into fields of a
//	            containing object (ConstructInto, Publish)
//	metrics/  - Prometheus collector implementing array.Observer
//	cmd/structarray - CLI: `layout` and `demo`
//
// Quick example:
//
//	type Cell struct{ Row, Col int }
//
//	row, _ := array.For[*Cell](3)
//	grid, _ := array.NewNestedBuilder(2, row)
//	g, _ := grid.Build()                  // 2×3 default-constructed cells
//	cp, _ := array.CopyRange(g, 1, 1)     // deep copy of the second row
//	r, _ := array.Elem[*array.Array](g, 0) // first row
//	_ = array.ShallowCopy(r, 0, r, 1, 2, false) // shift it right in place
//
// Errors are sentinels wrapped with %w; branch with errors.Is.
package structarray
