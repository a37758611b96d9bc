// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
	"slices"
)

// Shaped is anything a Context can point at as "the container being
// populated": every Array-embedding container and every ScalarArray.
type Shaped interface {
	Model() *Model
	Len() uint64
}

// Context is the per-slot state threaded through a build. It is the only
// channel through which a Provider learns which slot it is building and,
// for copies, which source corresponds to it.
//
//   - index: one position per nesting level (len == Depth()).
//   - container: back-reference to the container being populated.
//   - enclosing: parent context snapshot, set only inside nested builds.
//   - cookie: opaque value; the Builder's cookie at the root, the directive
//     cookie of the parent slot at every nested level.
type Context struct {
	index     []uint64
	container Shaped
	enclosing *Context
	cookie    any
}

// NewContext returns a root context (depth 1, index [0]) carrying cookie.
func NewContext(cookie any) *Context {
	return &Context{index: []uint64{0}, cookie: cookie}
}

// Index returns the index path, outermost level first. The slice is owned by
// the context and only valid until the next slot; copy it to retain it.
func (c *Context) Index() []uint64 { return c.index }

// Last returns the slot index at the current (innermost) level, or 0 when
// the path is empty.
func (c *Context) Last() uint64 {
	if len(c.index) == 0 {
		return 0
	}
	return c.index[len(c.index)-1]
}

// SetIndex replaces the index path.
func (c *Context) SetIndex(path ...uint64) { c.index = append(c.index[:0], path...) }

// setLast moves the current level to slot i.
func (c *Context) setLast(i uint64) { c.index[len(c.index)-1] = i }

// Depth returns the nesting depth (1 at the root).
func (c *Context) Depth() int { return len(c.index) }

// Cookie returns the opaque value carried at this level.
func (c *Context) Cookie() any { return c.cookie }

// SetCookie overwrites the cookie at this level.
func (c *Context) SetCookie(v any) { c.cookie = v }

// Enclosing returns the parent context, or nil at the root.
func (c *Context) Enclosing() *Context { return c.enclosing }

// Container returns the container currently being populated, or nil before
// its initializer called Init.
func (c *Context) Container() Shaped { return c.container }

// PushNested returns a child context for the slot at the current index:
// the child's path is this path plus one position, its cookie is
// childCookie, and its enclosing context is a snapshot of c taken now (the
// parent keeps moving to further slots while children are still pending).
func (c *Context) PushNested(childCookie any) *Context {
	parent := &Context{
		index:     slices.Clone(c.index),
		container: c.container,
		enclosing: c.enclosing,
		cookie:    c.cookie,
	}
	idx := make([]uint64, len(c.index)+1)
	copy(idx, c.index)

	return &Context{index: idx, enclosing: parent, cookie: childCookie}
}

// String implements fmt.Stringer.
func (c *Context) String() string {
	return fmt.Sprintf("Context%v", c.index)
}
