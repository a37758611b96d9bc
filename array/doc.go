// Package array builds fixed-length, optionally nested containers whose slots
// are produced one at a time by a pluggable constructor-and-arguments strategy.
//
// What & Why:
//
//	A container of N slots is described by an immutable Model (container type,
//	element type, length and, for nested containers, a sub-model). A Builder
//	captures everything needed to build one: a Directive for the container
//	itself, a Provider that maps each slot's Context to a Directive, an
//	optional nested sub-builder and an opaque cookie. Building is two-phase:
//
//	  1. Resolve fills in defaults (default-construct directives/providers).
//	  2. Build issues a capability Token and runs the container initializer.
//	     Containers refuse to initialize without an armed, unspent Token, so
//	     there is no way to bypass the Builder.
//
//	Nested containers are filled from an explicit stack of pending
//	(container, builder, context) frames rather than by recursion, and every
//	nested slot gets a child Context linked to its parent. Copy-construction
//	chains the cookie one level at a time: at each level the cookie is the
//	source container of that level, and the CopyProvider hands the source
//	sub-container down as the next level's cookie.
//
// Element kinds:
//
//	KindPlain             - slots hold pointers to structs built by Initializers.
//	KindNestedArray       - slots hold containers (types embedding Array).
//	KindNestedScalarArray - slots hold *ScalarArray[T].
//	KindScalar            - the model of a ScalarArray itself.
//
// Storage:
//
//	Slots live in storage.Partitioned, so indices are uint64 and lengths beyond
//	math.MaxInt32 are addressed through 2^30-slot extension segments.
//
// Bulk copies:
//
//	ShallowCopy copies struct fields slot-by-slot between single-level
//	containers using cached field descriptors, in reverse order when a range
//	is shifted forward within the same container, and refuses to overwrite
//	fields tagged `structarray:"immutable"` unless explicitly allowed.
//
// Concurrency:
//
//	Builds are synchronous. Tokens are per build call, so independent Builders
//	may build concurrently on different goroutines. A single Builder, and any
//	PooledProvider, must not be used by two builds at once. Catalog is safe
//	for concurrent use.
//
// Errors:
//
//	All failures are sentinel errors (errors.go) wrapped with %w; branch with
//	errors.Is. A container whose Build failed mid-way must be discarded.
package array
