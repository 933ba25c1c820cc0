// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"io"
)

const lengthPrefixSize = 8

// writeLengthPrefix writes the shared 8-byte (u32 keyLen, u32 valueLen)
// prefix that every string and []byte codec in this package uses ahead of
// a key/value pair. Uint64Codec writes its own shorter prefix instead.
func writeLengthPrefix(w io.Writer, keyLen, valueLen uint32) error {
	var buf [lengthPrefixSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], keyLen)
	binary.LittleEndian.PutUint32(buf[4:8], valueLen)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("writing length prefix: %w", err)
	}
	return nil
}

// readLengthPrefix decodes the shared 8-byte length prefix from the front
// of b and reports how many bytes it occupied.
func readLengthPrefix(b []byte) (keyLen, valueLen, prefixLen uint32) {
	keyLen = binary.LittleEndian.Uint32(b[0:4])
	valueLen = binary.LittleEndian.Uint32(b[4:8])
	return keyLen, valueLen, lengthPrefixSize
}
