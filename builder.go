// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
)

var (
	// ErrZeroOffset is returned by Emit when the sink is at stream offset
	// 0. An offset of 0 in the bucket directory means "empty bucket," so
	// the payload may never start there; the caller must write a
	// non-empty prefix to the sink before calling Emit.
	ErrZeroOffset = errors.New("onhash: cannot Emit at stream offset 0; write a non-empty prefix first")

	// ErrBucketOverflow is returned by Emit if a single bucket ends up
	// with more than 65535 chained entries, which cannot be represented
	// by the u16 bucket-length field.
	ErrBucketOverflow = errors.New("onhash: bucket has more than 65535 entries")
)

const (
	initialNumBuckets = 64
	maxBucketLength   = math.MaxUint16
)

// BuilderOption configures a Builder.
type BuilderOption[K, V any] func(*builderOptions)

type builderOptions struct {
	logger *slog.Logger
}

// WithBuilderLogger sets an optional logger the Builder uses to report
// progress (bucket growth, final counts). If not provided, no logging
// output is produced.
func WithBuilderLogger[K, V any](logger *slog.Logger) BuilderOption[K, V] {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// Builder accumulates key/value pairs in memory and, at Emit time,
// serializes them into the on-disk chained hash table format described in
// package onhash's doc comment. A Builder must not be used concurrently,
// and must not be reused after a call to Emit.
type Builder[K, V any] struct {
	codec      WriteCodec[K, V]
	buckets    []bucket[K, V]
	numEntries int
	logger     *slog.Logger
}

// NewBuilder creates an empty Builder that uses codec to hash and serialize
// the key/value pairs given to Insert.
func NewBuilder[K, V any](codec WriteCodec[K, V], opts ...BuilderOption[K, V]) *Builder[K, V] {
	var options builderOptions
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}
	return &Builder[K, V]{
		codec:   codec,
		buckets: make([]bucket[K, V], initialNumBuckets),
		logger:  options.logger,
	}
}

// Len returns the number of entries inserted so far.
func (b *Builder[K, V]) Len() int {
	return b.numEntries
}

// Insert adds key/value to the table. Duplicate keys are not rejected: both
// entries end up in the payload, and Table.Find will return the
// most-recently-inserted one (see the Open Questions note in SPEC_FULL.md).
func (b *Builder[K, V]) Insert(key K, value V) {
	h := b.codec.Hash(key)
	e := &entry[K, V]{key: key, value: value, hash: h}

	b.numEntries++
	if 4*b.numEntries >= 3*len(b.buckets) {
		b.resize(len(b.buckets) * 2)
	}
	b.insertEntry(e)
}

func (b *Builder[K, V]) insertEntry(e *entry[K, V]) {
	idx := e.hash & uint32(len(b.buckets)-1)
	bk := &b.buckets[idx]
	e.next = bk.head
	bk.head = e
	bk.length++
}

// resize doubles the bucket array and rehashes every existing entry into
// it, mirroring the original's "allocate a bigger array, walk every old
// chain, re-insert" approach. Each old chain is reversed before it is
// re-inserted so that prepending keeps every new chain newest-first.
func (b *Builder[K, V]) resize(newSize int) {
	old := b.buckets
	b.buckets = make([]bucket[K, V], newSize)
	b.logger.Debug("growing bucket table", "oldSize", len(old), "newSize", newSize, "numEntries", b.numEntries)
	for i := range old {
		var rev *entry[K, V]
		for e := old[i].head; e != nil; {
			next := e.next
			e.next = rev
			rev = e
			e = next
		}
		for e := rev; e != nil; {
			next := e.next
			e.next = nil
			b.insertEntry(e)
			e = next
		}
	}
}

// Emit serializes the table to sink, which must not be at stream offset 0
// (see ErrZeroOffset). It returns the absolute offset, within the stream
// sink has been writing to, at which the bucket directory begins — the
// value a Table or IterableTable needs in order to read this table back.
func (b *Builder[K, V]) Emit(sink Sink) (dirOffset uint32, err error) {
	if sink.Tell() == 0 {
		return 0, ErrZeroOffset
	}

	var lenBuf [2]byte
	var hashBuf [4]byte

	for i := range b.buckets {
		bk := &b.buckets[i]
		if bk.head == nil {
			continue
		}
		if bk.length > maxBucketLength {
			return 0, fmt.Errorf("%w: bucket %d has %d entries", ErrBucketOverflow, i, bk.length)
		}

		bk.off = sink.Tell()
		if bk.off == 0 {
			// can't happen given the check above, but guard against a
			// future change to how sinks report their offset.
			return 0, ErrZeroOffset
		}

		binary.LittleEndian.PutUint16(lenBuf[:], uint16(bk.length))
		if _, err := sink.Write(lenBuf[:]); err != nil {
			return 0, fmt.Errorf("writing bucket length: %w", err)
		}

		for e := bk.head; e != nil; e = e.next {
			binary.LittleEndian.PutUint32(hashBuf[:], e.hash)
			if _, err := sink.Write(hashBuf[:]); err != nil {
				return 0, fmt.Errorf("writing entry hash: %w", err)
			}
			keyLen, valueLen, err := b.codec.EmitLengths(sink, e.key, e.value)
			if err != nil {
				return 0, fmt.Errorf("codec.EmitLengths: %w", err)
			}
			if err := b.codec.EmitKey(sink, e.key, keyLen); err != nil {
				return 0, fmt.Errorf("codec.EmitKey: %w", err)
			}
			if err := b.codec.EmitValue(sink, e.key, e.value, valueLen); err != nil {
				return 0, fmt.Errorf("codec.EmitValue: %w", err)
			}
		}
	}

	tableOff := sink.Tell()
	if pad := (4 - tableOff%4) % 4; pad != 0 {
		var zero [4]byte
		if _, err := sink.Write(zero[:pad]); err != nil {
			return 0, fmt.Errorf("writing directory padding: %w", err)
		}
	}

	dirOffset = sink.Tell()
	if dirOffset%4 != 0 {
		panic("invariant broken: directory offset not 4-byte aligned after padding")
	}

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(b.buckets)))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(b.numEntries))
	if _, err := sink.Write(hdr[:]); err != nil {
		return 0, fmt.Errorf("writing directory header: %w", err)
	}

	offBuf := make([]byte, 4*len(b.buckets))
	for i := range b.buckets {
		binary.LittleEndian.PutUint32(offBuf[4*i:4*i+4], b.buckets[i].off)
	}
	if _, err := sink.Write(offBuf); err != nil {
		return 0, fmt.Errorf("writing bucket directory: %w", err)
	}

	b.logger.Info("emitted table", "numBuckets", len(b.buckets), "numEntries", b.numEntries, "dirOffset", dirOffset)

	return dirOffset, nil
}
