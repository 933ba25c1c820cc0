// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash

import "encoding/binary"

// Entry is a decoded (key, value) pair produced while walking an
// IterableTable. Key is the external key form, the same type Table.Find
// accepts.
type Entry[EK, V any] struct {
	Key   EK
	Value V
}

// IterableTable is a Table that additionally supports a full forward walk
// over every entry it holds, in on-disk (bucket, then chain) order. It
// costs nothing extra at construction time: Table already has everything
// an iterator needs, and IterableTable adds no state of its own -- its
// iterators find each bucket block through the bucket directory.
type IterableTable[EK, IK, V any] struct {
	*Table[EK, IK, V]
}

// NewIterableTable is NewTable plus the ability to call Entries or Keys
// afterward.
func NewIterableTable[EK, IK, V any](data []byte, base, dirOffset uint32, codec ReadCodec[EK, IK, V]) (*IterableTable[EK, IK, V], error) {
	t, err := NewTable(data, base, dirOffset, codec)
	if err != nil {
		return nil, err
	}
	return &IterableTable[EK, IK, V]{Table: t}, nil
}

// iterState is the shared bucket/chain walk both EntryIterator and
// KeyIterator drive. step decodes only the key of the next entry and
// reports where its value bytes live, leaving the decision of whether to
// decode the value to the caller -- a key-only walk never touches
// codec.ReadValue.
type iterState[EK, IK, V any] struct {
	t         *IterableTable[EK, IK, V]
	bucketIdx uint32
	off       uint32
	remaining uint16
}

func newIterState[EK, IK, V any](t *IterableTable[EK, IK, V]) *iterState[EK, IK, V] {
	s := &iterState[EK, IK, V]{t: t}
	s.advanceToNextBucket()
	return s
}

func (s *iterState[EK, IK, V]) advanceToNextBucket() {
	t := s.t
	for s.bucketIdx < t.numBuckets {
		off := t.bucketOffset(s.bucketIdx)
		s.bucketIdx++
		if off == 0 {
			continue
		}
		s.off = off
		s.remaining = binary.LittleEndian.Uint16(t.data[off : off+2])
		s.off += 2
		return
	}
	s.remaining = 0
}

func (s *iterState[EK, IK, V]) step() (key IK, valOff, valLen uint32, ok bool) {
	t := s.t
	for s.remaining == 0 {
		if s.bucketIdx >= t.numBuckets {
			return key, 0, 0, false
		}
		s.advanceToNextBucket()
	}

	pos := s.off + 4 // skip the per-entry hash; only Find needs it
	codec := t.codec
	keyLen, valueLen, prefixLen := codec.ReadLengths(t.data[pos:])
	pos += prefixLen

	key = codec.ReadKey(t.data[pos:pos+keyLen], keyLen)
	valOff = pos + keyLen
	valLen = valueLen

	s.off = valOff + valLen
	s.remaining--

	return key, valOff, valLen, true
}

// EntryIterator walks every entry in an IterableTable exactly once. Use
// Next in a loop; it returns ok == false once every entry has been
// visited.
type EntryIterator[EK, IK, V any] struct {
	s *iterState[EK, IK, V]
}

// Entries returns an iterator over every (key, value) pair in the table,
// in bucket order; within a bucket, most-recently-inserted entries come
// first.
func (t *IterableTable[EK, IK, V]) Entries() *EntryIterator[EK, IK, V] {
	return &EntryIterator[EK, IK, V]{s: newIterState(t)}
}

// Next decodes and returns the next entry, advancing the iterator. ok is
// false once every entry has been visited.
func (it *EntryIterator[EK, IK, V]) Next() (e Entry[EK, V], ok bool) {
	key, valOff, valLen, ok := it.s.step()
	if !ok {
		return e, false
	}
	codec := it.s.t.codec
	value := codec.ReadValue(key, it.s.t.data[valOff:valOff+valLen], valLen)
	return Entry[EK, V]{Key: codec.ToExternal(key), Value: value}, true
}

// KeyIterator walks every key in an IterableTable without decoding values.
type KeyIterator[EK, IK, V any] struct {
	s *iterState[EK, IK, V]
}

// Keys returns an iterator over every key in the table. Values are never
// decoded -- codec.ReadValue is not called -- which matters when decoding
// a value is expensive and the caller only needs the key set.
func (t *IterableTable[EK, IK, V]) Keys() *KeyIterator[EK, IK, V] {
	return &KeyIterator[EK, IK, V]{s: newIterState(t)}
}

// Next returns the next key, advancing the iterator. ok is false once
// every key has been visited.
func (it *KeyIterator[EK, IK, V]) Next() (key EK, ok bool) {
	ik, _, _, ok := it.s.step()
	if !ok {
		return key, false
	}
	return it.s.t.codec.ToExternal(ik), true
}
