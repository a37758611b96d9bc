// SPDX-License-Identifier: MIT

package inline

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/katalvlaran/structarray/array"
	"go.uber.org/zap"
)

var (
	// ErrNilValue indicates a nil value or recipe.
	ErrNilValue = errors.New("inline: nil value")

	// ErrDuplicateField indicates a field that already has a pending value.
	ErrDuplicateField = errors.New("inline: field already pending")

	// ErrUnknownObject indicates an object key with nothing pending.
	ErrUnknownObject = errors.New("inline: no pending fields for object")

	// ErrUnsupportedRecipe indicates a recipe that is neither a Directive nor
	// a Builder.
	ErrUnsupportedRecipe = errors.New("inline: unsupported recipe")
)

// NewObjectKey returns a fresh key for a containing object.
func NewObjectKey() uuid.UUID { return uuid.New() }

// Publisher receives the built fields of one object.
type Publisher interface {
	Publish(key uuid.UUID, fields map[string]any) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(key uuid.UUID, fields map[string]any) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(key uuid.UUID, fields map[string]any) error { return f(key, fields) }

// Option configures a Pending registry.
type Option func(*Pending)

// WithLogger logs registrations and publications at debug level.
// Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("inline: WithLogger(nil)")
	}
	return func(p *Pending) { p.log = l }
}

// Pending holds built values per (object, field) until they are published.
type Pending struct {
	mu      sync.Mutex
	objects map[uuid.UUID]map[string]any
	log     *zap.Logger
}

// New returns an empty registry.
func New(opts ...Option) *Pending {
	p := &Pending{objects: make(map[uuid.UUID]map[string]any), log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register records a built value for field of the object key.
// Errors: ErrNilValue, ErrDuplicateField.
func (p *Pending) Register(key uuid.UUID, field string, v any) error {
	if isNil(v) {
		return fmt.Errorf("Register %s.%s: %w", key, field, ErrNilValue)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	fields := p.objects[key]
	if fields == nil {
		fields = make(map[string]any)
		p.objects[key] = fields
	}
	if _, dup := fields[field]; dup {
		return fmt.Errorf("Register %s.%s: %w", key, field, ErrDuplicateField)
	}
	fields[field] = v
	p.log.Debug("inline value pending", zap.Stringer("object", key), zap.String("field", field))

	return nil
}

// ConstructInto runs exactly one build from recipe and registers the
// result under (key, field). recipe is either an element *array.Directive
// or an *array.Builder. The value is returned but not published.
// Errors: ErrNilValue, ErrUnsupportedRecipe, ErrDuplicateField, and any
// build error.
func (p *Pending) ConstructInto(key uuid.UUID, field string, recipe any) (any, error) {
	if p.has(key, field) {
		return nil, fmt.Errorf("ConstructInto %s.%s: %w", key, field, ErrDuplicateField)
	}

	var (
		v   any
		err error
	)
	switch r := recipe.(type) {
	case *array.Directive:
		if r == nil || r.Init == nil {
			return nil, fmt.Errorf("ConstructInto %s.%s: %w", key, field, ErrNilValue)
		}
		v, err = r.Init.New(r.Args...)
	case *array.Builder:
		if r == nil {
			return nil, fmt.Errorf("ConstructInto %s.%s: %w", key, field, ErrNilValue)
		}
		v, err = r.Build()
	case nil:
		return nil, fmt.Errorf("ConstructInto %s.%s: %w", key, field, ErrNilValue)
	default:
		return nil, fmt.Errorf("ConstructInto %s.%s: %T: %w", key, field, recipe, ErrUnsupportedRecipe)
	}
	if err != nil {
		return nil, fmt.Errorf("ConstructInto %s.%s: %w", key, field, err)
	}
	if isNil(v) {
		return nil, fmt.Errorf("ConstructInto %s.%s: %w", key, field, array.ErrNilElement)
	}

	return v, p.Register(key, field, v)
}

// ConstructField builds a container-valued field whose shape was declared
// up front: b must build exactly the declared model.
// Errors: array.ErrModelMismatch, plus those of ConstructInto.
func (p *Pending) ConstructField(key uuid.UUID, field string, declared *array.Model, b *array.Builder) (array.Container, error) {
	if b == nil || declared == nil {
		return nil, fmt.Errorf("ConstructField %s.%s: %w", key, field, ErrNilValue)
	}
	if !b.Matches(declared) {
		return nil, fmt.Errorf("ConstructField %s.%s: builder %s, declared %s: %w",
			key, field, b.Model(), declared, array.ErrModelMismatch)
	}
	v, err := p.ConstructInto(key, field, b)
	if err != nil {
		return nil, err
	}

	return v.(array.Container), nil
}

// Fields returns the pending field names of key, sorted.
func (p *Pending) Fields(key uuid.UUID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.objects[key]))
	for name := range p.objects[key] {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Publish hands every pending field of key to pub and forgets them, whether
// or not pub succeeds.
// Errors: ErrNilValue (nil publisher), ErrUnknownObject, and pub's error.
func (p *Pending) Publish(key uuid.UUID, pub Publisher) error {
	if pub == nil {
		return fmt.Errorf("Publish %s: %w", key, ErrNilValue)
	}
	fields := p.take(key)
	if fields == nil {
		return fmt.Errorf("Publish %s: %w", key, ErrUnknownObject)
	}
	p.log.Debug("inline values published", zap.Stringer("object", key), zap.Int("fields", len(fields)))

	return pub.Publish(key, fields)
}

// Discard forgets every pending field of key and reports whether there were
// any.
func (p *Pending) Discard(key uuid.UUID) bool {
	return p.take(key) != nil
}

func (p *Pending) take(key uuid.UUID) map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	fields := p.objects[key]
	delete(p.objects, key)

	return fields
}

func (p *Pending) has(key uuid.UUID, field string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.objects[key][field]
	return ok
}

// isNil also catches typed nils such as (*T)(nil) stored in an any.
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
