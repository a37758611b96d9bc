// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Builder captures everything needed to build a container:
//   - the container Directive (defaulted by Resolve),
//   - the element Provider (defaulted by Resolve),
//   - exactly one of {plain element type, nested *Builder, nested ScalarSource},
//   - an opaque cookie handed to the root Context.
//
// Lifecycle: configure with the Set* methods, Resolve (optional, Build calls
// it), Build. A Builder may Build again to produce further containers of the
// same shape. A Builder is not safe for concurrent use.
type Builder struct {
	cfg       config
	model     *Model
	sub       *Builder
	scalarSub ScalarSource

	containerDirective *Directive
	provider           Provider
	cookie             any
}

// NewBuilder returns a Builder for a single-level container of length slots
// of elementType (a pointer to a struct).
// Errors: ErrModelMismatch.
func NewBuilder(elementType reflect.Type, length uint64, opts ...Option) (*Builder, error) {
	cfg := newConfig(opts...)
	m, err := NewModel(cfg.containerType(), elementType, length, nil)
	if err != nil {
		return nil, err
	}

	return &Builder{cfg: cfg, model: m}, nil
}

// For is NewBuilder for the element type E.
func For[E any](length uint64, opts ...Option) (*Builder, error) {
	return NewBuilder(reflect.TypeFor[E](), length, opts...)
}

// NewNestedBuilder returns a Builder whose length slots are containers built
// by sub.
// Errors: ErrNilBuilder, ErrModelMismatch.
func NewNestedBuilder(length uint64, sub *Builder, opts ...Option) (*Builder, error) {
	if sub == nil {
		return nil, fmt.Errorf("NewNestedBuilder: %w", ErrNilBuilder)
	}
	cfg := newConfig(opts...)
	m, err := NewModel(cfg.containerType(), sub.model.arrayType, length, sub.model)
	if err != nil {
		return nil, err
	}

	return &Builder{cfg: cfg, model: m, sub: sub}, nil
}

// NewScalarNestedBuilder returns a Builder whose length slots are scalar
// arrays built by sub (a *ScalarBuilder[T]).
// Errors: ErrNilBuilder, ErrModelMismatch.
func NewScalarNestedBuilder(length uint64, sub ScalarSource, opts ...Option) (*Builder, error) {
	if sub == nil || reflect.ValueOf(sub).IsNil() {
		return nil, fmt.Errorf("NewScalarNestedBuilder: %w", ErrNilBuilder)
	}
	cfg := newConfig(opts...)
	m, err := NewModel(cfg.containerType(), sub.Model().arrayType, length, sub.Model())
	if err != nil {
		return nil, err
	}

	return &Builder{cfg: cfg, model: m, scalarSub: sub}, nil
}

// FromModel returns a Builder tree matching m level by level. opts apply to
// every level, except that each level's container type comes from m.
// Errors: ErrModelMismatch.
func FromModel(m *Model, opts ...Option) (*Builder, error) {
	if m == nil {
		return nil, fmt.Errorf("FromModel: nil model: %w", ErrModelMismatch)
	}
	level := append(opts[:len(opts):len(opts)], WithArrayType(m.arrayType))

	switch m.kind {
	case KindPlain:
		return NewBuilder(m.elementType, m.length, level...)
	case KindNestedArray:
		sub, err := FromModel(m.sub, opts...)
		if err != nil {
			return nil, err
		}
		return NewNestedBuilder(m.length, sub, level...)
	case KindNestedScalarArray:
		sub, err := scalarSourceFor(m.sub, opts)
		if err != nil {
			return nil, err
		}
		return NewScalarNestedBuilder(m.length, sub, level...)
	default:
		return nil, fmt.Errorf("FromModel: %s is a scalar array model: %w", m, ErrModelMismatch)
	}
}

// containerType resolves the configured container type.
func (c *config) containerType() reflect.Type {
	if c.arrayType == nil {
		return arrayPtrType
	}
	return c.arrayType
}

// Model returns the model this builder builds.
func (b *Builder) Model() *Model { return b.model }

// Sub returns the nested structured sub-builder, or nil.
func (b *Builder) Sub() *Builder { return b.sub }

// ScalarSub returns the nested scalar sub-builder, or nil.
func (b *Builder) ScalarSub() ScalarSource { return b.scalarSub }

// ContainerDirective returns the container directive (nil until set or
// resolved).
func (b *Builder) ContainerDirective() *Directive { return b.containerDirective }

// Provider returns the element provider (nil until set or resolved).
func (b *Builder) Provider() Provider { return b.provider }

// Cookie returns the cookie handed to the root context.
func (b *Builder) Cookie() any { return b.cookie }

// Matches reports whether this builder builds containers of shape m.
func (b *Builder) Matches(m *Model) bool { return b.model.Equal(m) }

// SetContainerDirective sets how the container itself is constructed.
func (b *Builder) SetContainerDirective(d *Directive) *Builder {
	b.containerDirective = d
	return b
}

// SetContainerInitializer is SetContainerDirective(NewDirective(in, args...)).
func (b *Builder) SetContainerInitializer(in *Initializer, args ...any) *Builder {
	return b.SetContainerDirective(NewDirective(in, args...))
}

// SetProvider sets the element provider.
func (b *Builder) SetProvider(p Provider) *Builder {
	b.provider = p
	return b
}

// SetElementInitializer installs a ConstantProvider building every slot
// with in and args.
func (b *Builder) SetElementInitializer(in *Initializer, args ...any) *Builder {
	return b.SetProvider(ConstantProvider(NewDirective(in, args...)))
}

// SetCookie sets the opaque value carried by the root context.
func (b *Builder) SetCookie(v any) *Builder {
	b.cookie = v
	return b
}

// Resolve fills in unset parts:
//  1. with force, a missing container directive becomes default-construct;
//  2. a missing provider becomes a constant provider of the sub-builder's
//     container directive if it has one, else default-construct of the
//     element type;
//  3. nested sub-builders are resolved without force.
//
// Already set parts are never replaced, so Resolve is idempotent.
// Errors: ErrNoMatchingInitializer.
func (b *Builder) Resolve(force bool) error {
	cat := b.cfg.catalog
	if b.containerDirective == nil && force {
		in, err := cat.Default(b.model.arrayType)
		if err != nil {
			return fmt.Errorf("%s: container: %w", methodResolve, err)
		}
		b.containerDirective = &Directive{Init: in}
	}

	if b.provider == nil {
		var subDirective *Directive
		switch {
		case b.sub != nil:
			subDirective = b.sub.containerDirective
		case b.scalarSub != nil:
			subDirective = b.scalarSub.ContainerDirective()
		}
		if subDirective != nil {
			b.provider = ConstantProvider(subDirective)
		} else {
			p, err := DefaultProvider(b.model.elementType, cat)
			if err != nil {
				return fmt.Errorf("%s: elements: %w", methodResolve, err)
			}
			b.provider = p
		}
	}

	switch {
	case b.sub != nil:
		return b.sub.Resolve(false)
	case b.scalarSub != nil:
		return b.scalarSub.Resolve(false)
	}

	return nil
}

// Build resolves the builder, issues a Token and runs the container
// initializer with it. The build's tokens are invalid once Build returns,
// whether it succeeded or not. A container whose build failed must be
// discarded.
// Errors: any error from Resolve, the initializers or the providers.
func (b *Builder) Build() (Container, error) {
	if err := b.Resolve(true); err != nil {
		b.cfg.logger.Debug("resolve failed", zap.Stringer("model", b.model), zap.Error(err))
		return nil, err
	}
	v, err := execute(&b.cfg, b.model, b, NewContext(b.cookie), b.containerDirective)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}

	return v.(Container), nil
}

// BuildAs builds with b and returns the container as C.
// Errors: as Build, plus ErrTypeMismatch when C is not the model's array type.
func BuildAs[C Container](b *Builder) (C, error) {
	var zero C
	if b == nil {
		return zero, fmt.Errorf("BuildAs: %w", ErrNilBuilder)
	}
	if want := reflect.TypeFor[C](); want != b.model.arrayType {
		return zero, fmt.Errorf("BuildAs: %s builds %s: %w", want, b.model.arrayType, ErrTypeMismatch)
	}
	c, err := b.Build()
	if err != nil {
		return zero, err
	}

	return c.(C), nil
}
