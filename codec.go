// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash

import "io"

// WriteCodec is the capability a Builder needs in order to hash, measure,
// and serialize a particular key/value pair. The core never interprets key
// or value bytes itself: it only frames buckets and the directory around
// whatever a WriteCodec writes.
//
// Hash must return bit-for-bit the same value the matching ReadCodec's Hash
// returns for the same key, or lookups will never find what Insert wrote.
type WriteCodec[K, V any] interface {
	// Hash returns a deterministic, well-mixed 32-bit hash of key. Bucket
	// indexing masks off this value's low bits, so a poorly mixed hash
	// concentrates collisions.
	Hash(key K) uint32

	// EmitLengths may write a codec-chosen length prefix for key/value to
	// w, and must return the number of bytes that EmitKey and EmitValue
	// will subsequently write.
	EmitLengths(w io.Writer, key K, value V) (keyLen, valueLen uint32, err error)

	// EmitKey writes exactly keyLen bytes encoding key to w.
	EmitKey(w io.Writer, key K, keyLen uint32) error

	// EmitValue writes exactly valueLen bytes encoding value to w. key is
	// passed through in case the value's encoding depends on it.
	EmitValue(w io.Writer, key K, value V, valueLen uint32) error
}

// ReadCodec is the read-side mirror of WriteCodec. EK is the external key
// type accepted by Table.Find; IK is the internal key type the codec
// stores, hashes, and compares. The two are usually the same type; they
// differ when a caller wants to look up with a type that would otherwise
// require a copy to materialize (e.g. a []byte lookup against string keys).
type ReadCodec[EK, IK, V any] interface {
	// ToInternal bridges an external lookup key to the internal
	// representation used for hashing and comparison.
	ToInternal(ext EK) IK

	// Hash must agree bit-for-bit with the WriteCodec that produced the
	// bytes being read.
	Hash(key IK) uint32

	// Equal reports whether two internal keys are the same key.
	Equal(a, b IK) bool

	// ReadLengths decodes the key/value lengths from the head of b — the
	// same prefix format the matching WriteCodec.EmitLengths wrote — and
	// reports how many bytes that prefix occupied, so the caller knows
	// where the key bytes begin.
	ReadLengths(b []byte) (keyLen, valueLen, prefixLen uint32)

	// ReadKey materializes (or borrows) the internal key from the keyLen
	// bytes at the front of b.
	ReadKey(b []byte, keyLen uint32) IK

	// ReadValue decodes the value from the valueLen bytes in b. key is the
	// already-decoded key, in case decoding the value depends on it.
	ReadValue(key IK, b []byte, valueLen uint32) V

	// ToExternal recovers the external key form from an internal key.
	// Only used by iteration, never by Find.
	ToExternal(key IK) EK
}
