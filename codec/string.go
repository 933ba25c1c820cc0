// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"io"

	"github.com/dgryski/go-farm"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/internal/unsafestring"
)

// StringCodec is a WriteCodec/ReadCodec for plain string keys and values,
// hashed with farm.Hash64. It avoids allocating on both the write and the
// read path by borrowing string bytes rather than copying them, converting
// between strings and byte slices in place.
type StringCodec struct{}

var (
	_ onhash.WriteCodec[string, string]      = StringCodec{}
	_ onhash.ReadCodec[string, string, string] = StringCodec{}
)

// Hash returns a 32-bit hash of key, suitable for bucket indexing.
func (StringCodec) Hash(key string) uint32 {
	return uint32(farm.Hash64(unsafestring.ToBytes(key)))
}

// EmitLengths writes the shared length prefix and reports the byte
// lengths of key and value.
func (c StringCodec) EmitLengths(w io.Writer, key, value string) (keyLen, valueLen uint32, err error) {
	keyLen, valueLen = uint32(len(key)), uint32(len(value))
	if err := writeLengthPrefix(w, keyLen, valueLen); err != nil {
		return 0, 0, err
	}
	return keyLen, valueLen, nil
}

// EmitKey writes key's bytes to w.
func (c StringCodec) EmitKey(w io.Writer, key string, keyLen uint32) error {
	_, err := w.Write(unsafestring.ToBytes(key))
	return err
}

// EmitValue writes value's bytes to w.
func (c StringCodec) EmitValue(w io.Writer, key, value string, valueLen uint32) error {
	_, err := w.Write(unsafestring.ToBytes(value))
	return err
}

// ToInternal is the identity function: StringCodec's external and
// internal key representations are the same type.
func (c StringCodec) ToInternal(ext string) string { return ext }

// ToExternal is the identity function; see ToInternal.
func (c StringCodec) ToExternal(key string) string { return key }

// Equal reports whether a and b are the same string.
func (c StringCodec) Equal(a, b string) bool { return a == b }

// ReadLengths decodes the shared length prefix from the head of b.
func (c StringCodec) ReadLengths(b []byte) (keyLen, valueLen, prefixLen uint32) {
	return readLengthPrefix(b)
}

// ReadKey borrows the keyLen bytes at the front of b as a string, without
// copying.
func (c StringCodec) ReadKey(b []byte, keyLen uint32) string {
	return unsafestring.ToString(b[:keyLen])
}

// ReadValue borrows the valueLen bytes of b as a string, without copying.
func (c StringCodec) ReadValue(key string, b []byte, valueLen uint32) string {
	return unsafestring.ToString(b[:valueLen])
}
