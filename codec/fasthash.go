// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"io"

	"github.com/opencoff/go-fasthash"

	"github.com/chasewyrick/onhash"
)

// Uint64Codec is a WriteCodec/ReadCodec for uint64 keys and []byte values,
// for key spaces that are already numeric (database row ids, pre-hashed
// keys) and shouldn't pay for string framing. Keys hash with
// fasthash.Hash64, seeded per Uint64Codec instance.
type Uint64Codec struct {
	Seed uint64
}

var (
	_ onhash.WriteCodec[uint64, []byte]        = Uint64Codec{}
	_ onhash.ReadCodec[uint64, uint64, []byte] = Uint64Codec{}
)

// Hash returns a 32-bit hash of key.
func (c Uint64Codec) Hash(key uint64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return uint32(fasthash.Hash64(c.Seed, buf[:]))
}

// EmitLengths writes only a 4-byte little-endian value length. The key
// length is always 8 (the encoded uint64) and is not written.
func (c Uint64Codec) EmitLengths(w io.Writer, key uint64, value []byte) (keyLen, valueLen uint32, err error) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(value)))
	if _, err := w.Write(buf[:]); err != nil {
		return 0, 0, err
	}
	return 8, uint32(len(value)), nil
}

// EmitKey writes key as 8 little-endian bytes.
func (c Uint64Codec) EmitKey(w io.Writer, key uint64, keyLen uint32) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	_, err := w.Write(buf[:])
	return err
}

// EmitValue writes value's bytes to w.
func (c Uint64Codec) EmitValue(w io.Writer, key uint64, value []byte, valueLen uint32) error {
	_, err := w.Write(value)
	return err
}

// ToInternal is the identity function.
func (c Uint64Codec) ToInternal(ext uint64) uint64 { return ext }

// ToExternal is the identity function.
func (c Uint64Codec) ToExternal(key uint64) uint64 { return key }

// Equal reports whether a and b are the same key.
func (c Uint64Codec) Equal(a, b uint64) bool { return a == b }

// ReadLengths decodes the 4-byte value length from the head of b and
// reports the fixed key length of 8.
func (c Uint64Codec) ReadLengths(b []byte) (keyLen, valueLen, prefixLen uint32) {
	valueLen = binary.LittleEndian.Uint32(b[0:4])
	return 8, valueLen, 4
}

// ReadKey decodes the 8 key bytes at the front of b as a uint64.
func (c Uint64Codec) ReadKey(b []byte, keyLen uint32) uint64 {
	return binary.LittleEndian.Uint64(b[:keyLen])
}

// ReadValue returns the valueLen bytes of b, aliasing it.
func (c Uint64Codec) ReadValue(key uint64, b []byte, valueLen uint32) []byte {
	return b[:valueLen]
}
