// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"io"

	"github.com/dgryski/go-farm"

	"github.com/chasewyrick/onhash"
)

// BytesCodec is a WriteCodec/ReadCodec for []byte keys and values, hashed
// with farm.Hash64. Like the strings StringCodec returns, the slices
// ReadKey and ReadValue return alias the Table's backing storage directly:
// callers must not retain or mutate them past the Table's lifetime.
type BytesCodec struct{}

var (
	_ onhash.WriteCodec[[]byte, []byte]      = BytesCodec{}
	_ onhash.ReadCodec[[]byte, []byte, []byte] = BytesCodec{}
)

// Hash returns a 32-bit hash of key.
func (BytesCodec) Hash(key []byte) uint32 {
	return uint32(farm.Hash64(key))
}

// EmitLengths writes the shared length prefix and reports the byte
// lengths of key and value.
func (BytesCodec) EmitLengths(w io.Writer, key, value []byte) (keyLen, valueLen uint32, err error) {
	keyLen, valueLen = uint32(len(key)), uint32(len(value))
	if err := writeLengthPrefix(w, keyLen, valueLen); err != nil {
		return 0, 0, err
	}
	return keyLen, valueLen, nil
}

// EmitKey writes key's bytes to w.
func (BytesCodec) EmitKey(w io.Writer, key []byte, keyLen uint32) error {
	_, err := w.Write(key)
	return err
}

// EmitValue writes value's bytes to w.
func (BytesCodec) EmitValue(w io.Writer, key, value []byte, valueLen uint32) error {
	_, err := w.Write(value)
	return err
}

// ToInternal is the identity function.
func (BytesCodec) ToInternal(ext []byte) []byte { return ext }

// ToExternal is the identity function.
func (BytesCodec) ToExternal(key []byte) []byte { return key }

// Equal reports whether a and b hold the same bytes.
func (BytesCodec) Equal(a, b []byte) bool { return bytes.Equal(a, b) }

// ReadLengths decodes the shared length prefix from the head of b.
func (BytesCodec) ReadLengths(b []byte) (keyLen, valueLen, prefixLen uint32) {
	return readLengthPrefix(b)
}

// ReadKey returns the keyLen bytes at the front of b, aliasing it.
func (BytesCodec) ReadKey(b []byte, keyLen uint32) []byte {
	return b[:keyLen]
}

// ReadValue returns the valueLen bytes of b, aliasing it.
func (BytesCodec) ReadValue(key []byte, b []byte, valueLen uint32) []byte {
	return b[:valueLen]
}
