// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Token is the capability that authorizes exactly one container
// initialization. Build issues one for the root container and one per nested
// sub-container; a Token is spent by its first Init and every Token of a
// build becomes invalid once that build returns.
type Token struct {
	s     *session
	owner any // *Builder for Array containers, a ScalarSource for scalar arrays
	model *Model
	ctx   *Context
	spent bool
}

// Context returns the construction context of the container this token
// initializes.
func (t *Token) Context() *Context { return t.ctx }

// Model returns the model of the container this token initializes.
func (t *Token) Model() *Model { return t.model }

// Session returns the id of the build this token belongs to.
func (t *Token) Session() uuid.UUID { return t.s.id }

// claim spends the token, failing unless it is armed and unspent.
func (t *Token) claim() error {
	switch {
	case t == nil || t.s == nil:
		return arrayErrorf(methodInit, ErrUnauthorizedConstruction, "no token")
	case !t.s.armed:
		return arrayErrorf(methodInit, ErrUnauthorizedConstruction, "build %s is over", t.s.id)
	case t.spent:
		return arrayErrorf(methodInit, ErrUnauthorizedConstruction, "token already used")
	}
	t.spent = true

	return nil
}

// Init authorizes and initializes c. It must be the first action of every
// container initializer: it validates the token, allocates c's storage for
// the token's model and populates plain slots. Slots of nested containers
// are populated after the initializer returns.
// Errors: ErrUnauthorizedConstruction, ErrElementTypeMismatch, and any error
// raised while populating slots.
func Init(tok *Token, c Container) error {
	if err := tok.claim(); err != nil {
		return err
	}
	b, ok := tok.owner.(*Builder)
	if !ok {
		return arrayErrorf(methodInit, ErrUnauthorizedConstruction, "token was issued for %s", tok.model.arrayType)
	}
	if isNil(c) {
		return arrayErrorf(methodInit, ErrNilElement, "nil container")
	}
	if got := reflect.TypeOf(c); got != tok.model.arrayType {
		return arrayErrorf(methodInit, ErrElementTypeMismatch, "%s initialized with a %s token", got, tok.model.arrayType)
	}

	return c.array().populate(tok.s, b, tok.model, tok.ctx, c)
}

// session is the state of one Build call.
type session struct {
	id      uuid.UUID
	armed   bool
	pending []frame
	slots   uint64
	log     *zap.Logger
}

// frame is a nested container whose slots still have to be populated.
type frame struct {
	arr *Array
	b   *Builder
	ctx *Context
}

func (s *session) issue(owner any, m *Model, ctx *Context) *Token {
	return &Token{s: s, owner: owner, model: m, ctx: ctx}
}

func (s *session) push(f frame) { s.pending = append(s.pending, f) }

// execute runs one guarded build: it arms a fresh session, invokes the
// container directive with the root token, drains pending nested frames and
// disarms the session on every exit path.
func execute(cfg *config, m *Model, owner any, ctx *Context, d *Directive) (v any, err error) {
	s := &session{id: uuid.New(), armed: true, log: cfg.logger}
	start := time.Now()
	s.log.Debug("build started",
		zap.Stringer("session", s.id),
		zap.Stringer("model", m),
		zap.Uint64("length", m.length))

	defer func() {
		s.armed = false
		s.pending = nil
		elapsed := time.Since(start)
		cfg.observer.BuildFinished(m, s.slots, elapsed, err)
		if err != nil {
			s.log.Debug("build failed", zap.Stringer("session", s.id), zap.Error(err))
			return
		}
		s.log.Debug("build finished",
			zap.Stringer("session", s.id),
			zap.Uint64("slots", s.slots),
			zap.Duration("elapsed", elapsed))
	}()

	if d == nil || d.Init == nil {
		return nil, fmt.Errorf("no container directive for %s: %w", m.arrayType, ErrNoMatchingInitializer)
	}
	if d.Init.declaring != m.arrayType {
		return nil, fmt.Errorf("directive builds %s, model wants %s: %w", d.Init.declaring, m.arrayType, ErrElementTypeMismatch)
	}

	tok := s.issue(owner, m, ctx)
	if v, err = d.Init.invoke(tok, d.Args); err != nil {
		return nil, err
	}
	if !tok.spent {
		return nil, fmt.Errorf("%s: %w", d.Init, ErrNotInitialized)
	}
	if isNil(v) || reflect.TypeOf(v) != m.arrayType {
		return nil, fmt.Errorf("%s returned %T: %w", d.Init, v, ErrElementTypeMismatch)
	}

	for len(s.pending) > 0 {
		f := s.pending[len(s.pending)-1]
		s.pending = s.pending[:len(s.pending)-1]
		s.log.Debug("filling nested container",
			zap.Stringer("session", s.id),
			zap.Stringer("context", f.ctx),
			zap.Uint64("length", f.arr.Len()))
		if err = f.arr.fillNested(s, f.b, f.ctx); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// isNil reports untyped nil and nil pointers/interfaces/maps/slices.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
