// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package cache decorates an onhash.Table with an adaptive replacement
// cache of decoded values, so repeated lookups of hot keys skip both the
// bucket scan and the codec's decode step.
package cache

import (
	"io"
	"log/slog"

	arc "github.com/hashicorp/golang-lru/arc/v2"

	"github.com/chasewyrick/onhash"
)

// Option configures a Table.
type Option[EK, IK, V any] func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets a logger the Table uses to report cache activity at
// Debug level.
func WithLogger[EK, IK, V any](logger *slog.Logger) Option[EK, IK, V] {
	return func(o *options) {
		o.logger = logger
	}
}

// Table wraps an *onhash.Table, caching decoded values for keys that have
// been looked up recently or frequently (an ARC policy balances both). It
// never mutates the underlying table: cache misses fall straight through
// to Table.Find, so correctness never depends on the cache being warm.
type Table[EK comparable, IK, V any] struct {
	inner  *onhash.Table[EK, IK, V]
	cache  *arc.ARCCache[EK, V]
	logger *slog.Logger
}

// New wraps inner with a cache holding up to size decoded values.
func New[EK comparable, IK, V any](inner *onhash.Table[EK, IK, V], size int, opts ...Option[EK, IK, V]) (*Table[EK, IK, V], error) {
	var o options
	o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&o)
	}

	c, err := arc.NewARC[EK, V](size)
	if err != nil {
		return nil, err
	}

	return &Table[EK, IK, V]{
		inner:  inner,
		cache:  c,
		logger: o.logger,
	}, nil
}

// Find looks up ext, serving from the cache if present, falling through
// to the underlying Table (and caching the result) on a miss.
func (t *Table[EK, IK, V]) Find(ext EK) (value V, ok bool) {
	if v, hit := t.cache.Get(ext); hit {
		t.logger.Debug("cache hit", "key", ext)
		return v, true
	}

	v, ok := t.inner.Find(ext)
	if !ok {
		return value, false
	}
	t.cache.Add(ext, v)
	t.logger.Debug("cache miss, populated", "key", ext)
	return v, true
}

// Len returns the number of entries in the underlying table.
func (t *Table[EK, IK, V]) Len() int {
	return t.inner.Len()
}

// Purge evicts everything from the cache without affecting the underlying
// table.
func (t *Table[EK, IK, V]) Purge() {
	t.cache.Purge()
}

