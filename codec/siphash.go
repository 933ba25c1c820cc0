// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"io"

	"github.com/dchest/siphash"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/internal/unsafestring"
	"github.com/chasewyrick/onhash/internal/zero"
)

// SipHashCodec is a WriteCodec/ReadCodec for string keys and values,
// keyed with a 16-byte secret so that an adversary who can choose keys
// can't force them all into the same bucket the way an unkeyed hash can
// be attacked into doing. Use this instead of StringCodec when keys come
// from an untrusted source.
type SipHashCodec struct {
	Key [16]byte
}

var (
	_ onhash.WriteCodec[string, string]        = SipHashCodec{}
	_ onhash.ReadCodec[string, string, string] = SipHashCodec{}
)

// Hash returns a 32-bit, key-dependent hash of key. key is copied into a
// scratch buffer before hashing and the buffer is zeroed afterward, so
// key material doesn't linger in a reused buffer any longer than it has
// to.
func (c SipHashCodec) Hash(key string) uint32 {
	scratch := make([]byte, len(key))
	copy(scratch, key)
	h := siphash.New(c.Key[:])
	_, _ = h.Write(scratch)
	sum := h.Sum64()
	zero.Bytes(scratch)
	return uint32(sum)
}

// EmitLengths writes the shared length prefix and reports the byte
// lengths of key and value.
func (c SipHashCodec) EmitLengths(w io.Writer, key, value string) (keyLen, valueLen uint32, err error) {
	keyLen, valueLen = uint32(len(key)), uint32(len(value))
	if err := writeLengthPrefix(w, keyLen, valueLen); err != nil {
		return 0, 0, err
	}
	return keyLen, valueLen, nil
}

// EmitKey writes key's bytes to w.
func (c SipHashCodec) EmitKey(w io.Writer, key string, keyLen uint32) error {
	_, err := w.Write(unsafestring.ToBytes(key))
	return err
}

// EmitValue writes value's bytes to w.
func (c SipHashCodec) EmitValue(w io.Writer, key, value string, valueLen uint32) error {
	_, err := w.Write(unsafestring.ToBytes(value))
	return err
}

// ToInternal is the identity function.
func (c SipHashCodec) ToInternal(ext string) string { return ext }

// ToExternal is the identity function.
func (c SipHashCodec) ToExternal(key string) string { return key }

// Equal reports whether a and b are the same string.
func (c SipHashCodec) Equal(a, b string) bool { return a == b }

// ReadLengths decodes the shared length prefix from the head of b.
func (c SipHashCodec) ReadLengths(b []byte) (keyLen, valueLen, prefixLen uint32) {
	return readLengthPrefix(b)
}

// ReadKey borrows the keyLen bytes at the front of b as a string.
func (c SipHashCodec) ReadKey(b []byte, keyLen uint32) string {
	return unsafestring.ToString(b[:keyLen])
}

// ReadValue borrows the valueLen bytes of b as a string.
func (c SipHashCodec) ReadValue(key string, b []byte, valueLen uint32) string {
	return unsafestring.ToString(b[:valueLen])
}
