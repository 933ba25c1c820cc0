// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"io"

	"github.com/orisano/wyhash"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/internal/unsafestring"
)

// WyhashCodec is a WriteCodec/ReadCodec for string keys and values, hashed
// with wyhash.Sum64 rather than farm.Hash64. It frames key/value pairs
// identically to StringCodec; the two differ only in which hash function
// distributes keys across buckets, which matters when a caller wants to
// avoid sharing a hash family with another table built over the same keys.
type WyhashCodec struct {
	// Seed perturbs the hash, letting two WyhashCodec tables over the
	// same key set land in different bucket layouts.
	Seed uint64
}

var (
	_ onhash.WriteCodec[string, string]        = WyhashCodec{}
	_ onhash.ReadCodec[string, string, string] = WyhashCodec{}
)

// Hash returns a 32-bit hash of key.
func (c WyhashCodec) Hash(key string) uint32 {
	return uint32(wyhash.Sum64(c.Seed, unsafestring.ToBytes(key)))
}

// EmitLengths writes the shared length prefix and reports the byte
// lengths of key and value.
func (c WyhashCodec) EmitLengths(w io.Writer, key, value string) (keyLen, valueLen uint32, err error) {
	keyLen, valueLen = uint32(len(key)), uint32(len(value))
	if err := writeLengthPrefix(w, keyLen, valueLen); err != nil {
		return 0, 0, err
	}
	return keyLen, valueLen, nil
}

// EmitKey writes key's bytes to w.
func (c WyhashCodec) EmitKey(w io.Writer, key string, keyLen uint32) error {
	_, err := w.Write(unsafestring.ToBytes(key))
	return err
}

// EmitValue writes value's bytes to w.
func (c WyhashCodec) EmitValue(w io.Writer, key, value string, valueLen uint32) error {
	_, err := w.Write(unsafestring.ToBytes(value))
	return err
}

// ToInternal is the identity function.
func (c WyhashCodec) ToInternal(ext string) string { return ext }

// ToExternal is the identity function.
func (c WyhashCodec) ToExternal(key string) string { return key }

// Equal reports whether a and b are the same string.
func (c WyhashCodec) Equal(a, b string) bool { return a == b }

// ReadLengths decodes the shared length prefix from the head of b.
func (c WyhashCodec) ReadLengths(b []byte) (keyLen, valueLen, prefixLen uint32) {
	return readLengthPrefix(b)
}

// ReadKey borrows the keyLen bytes at the front of b as a string.
func (c WyhashCodec) ReadKey(b []byte, keyLen uint32) string {
	return unsafestring.ToString(b[:keyLen])
}

// ReadValue borrows the valueLen bytes of b as a string.
func (c WyhashCodec) ReadValue(key string, b []byte, valueLen uint32) string {
	return unsafestring.ToString(b[:valueLen])
}
