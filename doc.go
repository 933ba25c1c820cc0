// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package onhash implements an on-disk chained hash table: a compact,
// little-endian binary format together with a Builder that serializes an
// in-memory map and a Table that performs point lookups directly against
// the serialized bytes, without materializing them into Go values until a
// caller actually dereferences a match.
//
// The format is meant to be embedded inside a larger artifact — many small
// key/value associations packed into one byte stream, memory-mapped at load
// time, and queried at O(1) expected cost with no allocation per lookup.
//
// A stream holding an emitted table looks like:
//
//	┌────────────────────┐
//	│ arbitrary prefix   │  (caller-written, must be non-empty)
//	├────────────────────┤
//	│ payload            │  concatenation of per-bucket blocks
//	│  bucket 0 block     │
//	│  bucket 7 block     │
//	│  ...                │
//	├────────────────────┤
//	│ zero padding        │  (-stream offset of payload end) mod 4
//	├────────────────────┤
//	│ directory           │
//	│  u32 NumBuckets      │
//	│  u32 NumEntries      │
//	│  u32 BucketOffset[N] │  0 means empty bucket
//	└────────────────────┘
//
// Each bucket block is a u16 entry count followed by that many entries; each
// entry is a u32 hash, a codec-defined length prefix, the key bytes, and the
// value bytes. Builder and Table never interpret key or value bytes
// themselves — that is the job of the WriteCodec/ReadCodec a caller supplies,
// which is the only thing that needs to agree between the process that
// builds the table and the process (or memory-mapped region) that reads it.
package onhash
