// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrBadDirectory is returned by NewTable when the directory bounds given
// to it don't describe a well-formed, in-bounds directory.
var ErrBadDirectory = errors.New("onhash: malformed table directory")

// Table performs point lookups directly against a byte slice holding a
// table that a Builder previously wrote with Emit. base..dirOffset is the
// payload region; dirOffset is the absolute offset of the directory header
// within data.
type Table[EK, IK, V any] struct {
	data       []byte
	base       uint32
	dir        uint32
	numBuckets uint32
	numEntries uint32
	codec      ReadCodec[EK, IK, V]
}

// NewTable validates dirOffset against data and constructs a Table that
// reads entries out of data[base:dirOffset]. data must start at stream
// offset 0, prefix included: dirOffset and the bucket offsets stored in
// the directory are absolute and are used directly as indices into data.
// base is only checked to lie before dirOffset; 0 works, as does the
// offset Emit's sink reported from Tell() before the first bucket was
// written.
//
// Unlike the format's C++ origin, which simply asserts these preconditions,
// NewTable reports them as an error: data read from disk or over the
// network cannot be trusted to satisfy them just because a caller believes
// it should.
func NewTable[EK, IK, V any](data []byte, base, dirOffset uint32, codec ReadCodec[EK, IK, V]) (*Table[EK, IK, V], error) {
	if dirOffset <= base {
		return nil, fmt.Errorf("%w: directory offset %d is not after base %d", ErrBadDirectory, dirOffset, base)
	}
	if dirOffset%4 != 0 {
		return nil, fmt.Errorf("%w: directory offset %d is not 4-byte aligned", ErrBadDirectory, dirOffset)
	}
	if uint64(dirOffset)+8 > uint64(len(data)) {
		return nil, fmt.Errorf("%w: directory header at %d overruns %d-byte buffer", ErrBadDirectory, dirOffset, len(data))
	}

	numBuckets := binary.LittleEndian.Uint32(data[dirOffset : dirOffset+4])
	numEntries := binary.LittleEndian.Uint32(data[dirOffset+4 : dirOffset+8])

	offsetsEnd := uint64(dirOffset) + 8 + uint64(numBuckets)*4
	if offsetsEnd > uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d bucket offsets at %d overrun %d-byte buffer", ErrBadDirectory, numBuckets, dirOffset+8, len(data))
	}

	return &Table[EK, IK, V]{
		data:       data,
		base:       base,
		dir:        dirOffset,
		numBuckets: numBuckets,
		numEntries: numEntries,
		codec:      codec,
	}, nil
}

// Len returns the number of entries recorded in the directory, including
// any duplicate keys.
func (t *Table[EK, IK, V]) Len() int {
	return int(t.numEntries)
}

// IsEmpty reports whether the table holds no entries at all.
func (t *Table[EK, IK, V]) IsEmpty() bool {
	return t.numEntries == 0
}

func (t *Table[EK, IK, V]) bucketOffset(idx uint32) uint32 {
	off := t.dir + 8 + idx*4
	return binary.LittleEndian.Uint32(t.data[off : off+4])
}

// Cursor identifies a single matching entry found by Find, without having
// decoded its value yet.
type Cursor[EK, IK, V any] struct {
	t      *Table[EK, IK, V]
	key    IK
	valOff uint32
	valLen uint32
	found  bool
}

// Found reports whether the lookup that produced this Cursor matched an
// entry.
func (c Cursor[EK, IK, V]) Found() bool {
	return c.found
}

// Value decodes and returns the matched entry's value using the Table's
// codec. It must only be called when Found reports true.
func (c Cursor[EK, IK, V]) Value() V {
	return c.t.codec.ReadValue(c.key, c.t.data[c.valOff:c.valOff+c.valLen], c.valLen)
}

// ValueWithCodec decodes the matched entry's value using an alternate
// codec instead of the Table's own — useful when the same bytes should
// sometimes be decoded differently. The alternate codec decodes to the
// same value type V.
func (c Cursor[EK, IK, V]) ValueWithCodec(codec ReadCodec[EK, IK, V]) V {
	return codec.ReadValue(c.key, c.t.data[c.valOff:c.valOff+c.valLen], c.valLen)
}

// Find looks up ext and, if present, decodes and returns its value. ok is
// false if no entry for ext exists in the table.
func (t *Table[EK, IK, V]) Find(ext EK) (value V, ok bool) {
	c := t.FindCursor(ext)
	if !c.Found() {
		return value, false
	}
	return c.Value(), true
}

// FindCursor looks up ext and returns a Cursor describing the match,
// without decoding its value. Use this to defer or skip decoding, e.g.
// when the caller only needs to know whether the key is present.
func (t *Table[EK, IK, V]) FindCursor(ext EK) Cursor[EK, IK, V] {
	return t.findWithCodec(ext, t.codec)
}

// FindWithCodec is like FindCursor, but hashes, compares, and positions the
// cursor using an alternate codec rather than the Table's own. This lets a
// caller share one serialized table across codecs that interpret the same
// bytes differently, or look up with a key for which the Table's usual
// codec would otherwise require an allocation to convert.
func (t *Table[EK, IK, V]) FindWithCodec(ext EK, codec ReadCodec[EK, IK, V]) Cursor[EK, IK, V] {
	return t.findWithCodec(ext, codec)
}

func (t *Table[EK, IK, V]) findWithCodec(ext EK, codec ReadCodec[EK, IK, V]) Cursor[EK, IK, V] {
	if t.numBuckets == 0 {
		return Cursor[EK, IK, V]{t: t}
	}

	key := codec.ToInternal(ext)
	h := codec.Hash(key)
	idx := h & (t.numBuckets - 1)

	off := t.bucketOffset(idx)
	if off == 0 {
		return Cursor[EK, IK, V]{t: t}
	}

	length := binary.LittleEndian.Uint16(t.data[off : off+2])
	pos := off + 2

	for i := uint16(0); i < length; i++ {
		entryHash := binary.LittleEndian.Uint32(t.data[pos : pos+4])
		pos += 4

		keyLen, valueLen, prefixLen := codec.ReadLengths(t.data[pos:])
		pos += prefixLen

		if entryHash != h {
			pos += keyLen + valueLen
			continue
		}

		candidate := codec.ReadKey(t.data[pos:pos+keyLen], keyLen)
		if !codec.Equal(candidate, key) {
			pos += keyLen + valueLen
			continue
		}

		return Cursor[EK, IK, V]{
			t:      t,
			key:    candidate,
			valOff: pos + keyLen,
			valLen: valueLen,
			found:  true,
		}
	}

	return Cursor[EK, IK, V]{t: t}
}
