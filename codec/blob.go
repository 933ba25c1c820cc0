// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dgryski/go-farm"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/blobstore"
	"github.com/chasewyrick/onhash/internal/unsafestring"
)

// refSize is the fixed width of a blobstore.Ref once packed into 8 bytes,
// the only bytes BlobWriteCodec/BlobReadCodec store inline in a table.
const refSize = 8

// BlobWriteCodec is a WriteCodec for string keys whose values are large or
// variable enough that inlining them directly into a table's bucket
// blocks would bloat every bucket scan. EmitValue appends the value to
// Blobs and stores only the resulting blobstore.Ref inline.
type BlobWriteCodec struct {
	Blobs *blobstore.Writer
}

var _ onhash.WriteCodec[string, string] = BlobWriteCodec{}

// Hash returns a 32-bit hash of key.
func (c BlobWriteCodec) Hash(key string) uint32 {
	return uint32(farm.Hash64(unsafestring.ToBytes(key)))
}

// EmitLengths writes the shared length prefix; the value is always
// refSize bytes regardless of the original value's length, since only a
// Ref to it is stored inline.
func (c BlobWriteCodec) EmitLengths(w io.Writer, key, value string) (keyLen, valueLen uint32, err error) {
	keyLen = uint32(len(key))
	if err := writeLengthPrefix(w, keyLen, refSize); err != nil {
		return 0, 0, err
	}
	return keyLen, refSize, nil
}

// EmitKey writes key's bytes to w.
func (c BlobWriteCodec) EmitKey(w io.Writer, key string, keyLen uint32) error {
	_, err := w.Write(unsafestring.ToBytes(key))
	return err
}

// EmitValue appends value to Blobs and writes the resulting Ref, packed
// as 8 little-endian bytes, to w.
func (c BlobWriteCodec) EmitValue(w io.Writer, key, value string, valueLen uint32) error {
	ref, err := c.Blobs.Append(unsafestring.ToBytes(key), unsafestring.ToBytes(value))
	if err != nil {
		return fmt.Errorf("blobstore.Writer.Append: %w", err)
	}
	var buf [refSize]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(ref))
	_, err = w.Write(buf[:])
	return err
}

// BlobReadCodec is the read-side mirror of BlobWriteCodec: it decodes the
// inline Ref a table holds for a key and resolves it against Blobs to
// recover the original value.
type BlobReadCodec struct {
	Blobs *blobstore.Reader
}

var _ onhash.ReadCodec[string, string, string] = BlobReadCodec{}

// ToInternal is the identity function.
func (c BlobReadCodec) ToInternal(ext string) string { return ext }

// ToExternal is the identity function; see ToInternal.
func (c BlobReadCodec) ToExternal(key string) string { return key }

// Hash returns a 32-bit hash of key; must agree with BlobWriteCodec.Hash.
func (c BlobReadCodec) Hash(key string) uint32 {
	return uint32(farm.Hash64(unsafestring.ToBytes(key)))
}

// Equal reports whether a and b are the same string.
func (c BlobReadCodec) Equal(a, b string) bool { return a == b }

// ReadLengths decodes the shared length prefix from the head of b.
func (c BlobReadCodec) ReadLengths(b []byte) (keyLen, valueLen, prefixLen uint32) {
	return readLengthPrefix(b)
}

// ReadKey borrows the keyLen bytes at the front of b as a string, without
// copying.
func (c BlobReadCodec) ReadKey(b []byte, keyLen uint32) string {
	return unsafestring.ToString(b[:keyLen])
}

// ReadValue decodes the inline Ref from b and resolves it against Blobs.
// A failed resolution means the blobstore file is missing the record a
// live table still points to, which is a corrupted pairing between the
// two files rather than anything a caller's lookup could have caused, so
// it panics rather than returning a zero value silently.
func (c BlobReadCodec) ReadValue(key string, b []byte, valueLen uint32) string {
	ref := blobstore.Ref(binary.LittleEndian.Uint64(b[:valueLen]))
	_, value, err := c.Blobs.ReadAt(ref)
	if err != nil {
		panic(fmt.Errorf("onhash/codec: resolving blobstore ref for key %q: %w", key, err))
	}
	return unsafestring.ToString(value)
}
