// SPDX-License-Identifier: MIT
// Package: structarray/array
//
// options.go - functional options shared by Builder, ScalarBuilder, the copy
// helpers and ShallowCopy.
//
// Contract:
//   • Option constructors validate and PANIC on meaningless inputs (nil
//     logger, nil catalog, ...). Builds themselves never panic.
//   • Later options override earlier ones.

package array

import (
	"reflect"

	"github.com/katalvlaran/structarray/storage"
	"go.uber.org/zap"
)

// Option customizes a Builder (or a copy helper) before it is used.
type Option func(*config)

// config aggregates every knob. Defaults are resolved in newConfig.
type config struct {
	logger    *zap.Logger
	observer  Observer
	catalog   *Catalog
	arrayType reflect.Type                  // nil ⇒ *Array
	geometry  func(n uint64) storage.Layout // partition arithmetic
}

// newConfig applies opts over the defaults, in order.
func newConfig(opts ...Option) config {
	cfg := config{
		logger:   zap.NewNop(),
		observer: nopObserver{},
		catalog:  defaultCatalog,
		geometry: storage.LayoutFor,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithLogger routes build and copy diagnostics to l (debug level).
// Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("array: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// WithObserver reports finished builds and bulk copies to o.
// Panics on nil.
func WithObserver(o Observer) Option {
	if o == nil {
		panic("array: WithObserver(nil)")
	}
	return func(c *config) { c.observer = o }
}

// WithCatalog resolves default and copy initializers from cat instead of
// DefaultCatalog(). Panics on nil.
func WithCatalog(cat *Catalog) Option {
	if cat == nil {
		panic("array: WithCatalog(nil)")
	}
	return func(c *config) { c.catalog = cat }
}

// WithArrayType builds containers of type t (a pointer to a struct embedding
// Array) instead of *Array. Validation happens when the Model is created.
// Panics on nil.
func WithArrayType(t reflect.Type) Option {
	if t == nil {
		panic("array: WithArrayType(nil)")
	}
	return func(c *config) { c.arrayType = t }
}
