// SPDX-License-Identifier: MIT

package array

import "reflect"

// Provider maps a slot's Context to the Directive that builds it.
// A returned Directive is only valid until the next ForContext call on the
// same provider.
type Provider interface {
	ForContext(ctx *Context) (*Directive, error)
}

// Recycler is implemented by providers that reuse their Directive objects.
// The builder calls Recycle once the slot built from d is stored. Recycling
// is an optimization only; it is never guaranteed to happen.
type Recycler interface {
	Recycle(d *Directive)
}

// ProviderFunc adapts a function to Provider. It allocates per call unless
// the function itself reuses directives.
type ProviderFunc func(ctx *Context) (*Directive, error)

// ForContext implements Provider.
func (f ProviderFunc) ForContext(ctx *Context) (*Directive, error) { return f(ctx) }

// ---------- constant ----------

type constantProvider struct{ d *Directive }

// ConstantProvider ignores the context and returns d for every slot.
// Panics on nil d.
func ConstantProvider(d *Directive) Provider {
	if d == nil {
		panic("array: ConstantProvider(nil)")
	}
	return constantProvider{d: d}
}

func (p constantProvider) ForContext(*Context) (*Directive, error) { return p.d, nil }

// DefaultProvider default-constructs every slot of type t.
// Errors: ErrNoMatchingInitializer.
func DefaultProvider(t reflect.Type, cat *Catalog) (Provider, error) {
	if cat == nil {
		cat = defaultCatalog
	}
	in, err := cat.Default(t)
	if err != nil {
		return nil, err
	}

	return ConstantProvider(&Directive{Init: in}), nil
}

// ---------- pooled (index-aware) ----------

// PooledProvider is an index-aware provider that keeps a single Directive in
// an explicit pool: ForContext checks it out (allocating only if it is still
// out), fill sets Args/Cookie for the slot, and Recycle returns it. One
// owner at a time; not safe for concurrent builds.
type PooledProvider struct {
	init *Initializer
	fill func(ctx *Context, d *Directive) error
	free *Directive
	out  *Directive
}

// NewPooledProvider returns a PooledProvider building every slot with init.
// Panics on nil init or fill.
func NewPooledProvider(init *Initializer, fill func(ctx *Context, d *Directive) error) *PooledProvider {
	if init == nil || fill == nil {
		panic("array: NewPooledProvider(nil)")
	}
	return &PooledProvider{init: init, fill: fill}
}

// ForContext implements Provider.
func (p *PooledProvider) ForContext(ctx *Context) (*Directive, error) {
	d := p.free
	p.free = nil
	if d == nil {
		d = &Directive{}
	}
	d.reset()
	d.Init = p.init
	p.out = d
	if err := p.fill(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// Recycle implements Recycler. Only the directive currently checked out is
// taken back.
func (p *PooledProvider) Recycle(d *Directive) {
	if d != nil && d == p.out {
		p.out = nil
		p.free = d
	}
}

// ---------- copy ----------

// CopyProvider builds each slot as a copy of the corresponding source slot.
//
// The context cookie must be the source container at this nesting level. For
// slot i the source index is i + offset; the returned directive uses the copy
// initializer of the source value's type with the source value as its only
// argument, and carries the source value as its cookie so that, when the slot
// is itself a container, the next level looks its elements up in that source
// sub-container (one level at a time, never from the root).
type CopyProvider struct {
	offset uint64
	cat    *Catalog
	pool   *Directive
	out    *Directive
}

// NewCopyProvider returns a copy provider reading source index i+offset.
// A nil catalog means DefaultCatalog().
func NewCopyProvider(offset uint64, cat *Catalog) *CopyProvider {
	if cat == nil {
		cat = defaultCatalog
	}
	return &CopyProvider{offset: offset, cat: cat}
}

// Offset returns the configured source offset.
func (p *CopyProvider) Offset() uint64 { return p.offset }

// ForContext implements Provider.
func (p *CopyProvider) ForContext(ctx *Context) (*Directive, error) {
	src, ok := ctx.Cookie().(Container)
	if !ok {
		return nil, arrayErrorf(methodCopyProvider, ErrNoMatchingInitializer, "cookie %T is not a source container", ctx.Cookie())
	}
	if ctx.Depth() == 0 {
		return nil, arrayErrorf(methodCopyProvider, ErrIndexOutOfRange, "empty index path")
	}
	v, err := src.array().Get(ctx.Last() + p.offset)
	if err != nil {
		return nil, err
	}
	in, err := p.cat.Copy(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}

	d := p.pool
	p.pool = nil
	if d == nil {
		d = &Directive{Args: make([]any, 0, 1)}
	}
	d.reset()
	d.Init = in
	d.Args = append(d.Args, v)
	d.Cookie = v
	p.out = d

	return d, nil
}

// Recycle implements Recycler.
func (p *CopyProvider) Recycle(d *Directive) {
	if d != nil && d == p.out {
		p.out = nil
		p.pool = d
	}
}
