// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package blobstore

import (
	"encoding/binary"
	"fmt"
	"os"
	"syscall"

	"github.com/dgryski/go-farm"
	"github.com/opencoff/go-mmap"
	"golang.org/x/sys/unix"
)

// Reader memory-maps a blobstore file and serves random-access reads
// against it by Ref.
type Reader struct {
	h    fileHeader
	fd   *os.File
	mm   *mmap.Mapping
	data []byte
}

// NewReader opens and memory-maps the blobstore file at path.
func NewReader(path string) (*Reader, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}

	st, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		return nil, fmt.Errorf("fd.Stat: %w", err)
	}
	if st.Size() < fileHeaderSize {
		_ = fd.Close()
		return nil, fmt.Errorf("blobstore file too short: %d < %d", st.Size(), fileHeaderSize)
	}

	m := mmap.New(fd)
	mapping, err := m.Map(st.Size(), 0, mmap.PROT_READ, mmap.F_READAHEAD)
	if err != nil {
		_ = fd.Close()
		return nil, fmt.Errorf("mmap.Map(%s): %w", path, err)
	}

	data := mapping.Bytes()
	if err := unix.Madvise(data, syscall.MADV_RANDOM); err != nil {
		_ = mapping.Unmap()
		_ = fd.Close()
		return nil, fmt.Errorf("madvise: %w", err)
	}

	var header fileHeader
	if err := header.UnmarshalBytes(data); err != nil {
		_ = mapping.Unmap()
		_ = fd.Close()
		return nil, fmt.Errorf("fileHeader.UnmarshalBytes: %w", err)
	}

	return &Reader{
		h:    header,
		fd:   fd,
		mm:   mapping,
		data: data,
	}, nil
}

// Len returns the number of records written to the blobstore.
func (r *Reader) Len() int64 {
	return int64(r.h.recordCount)
}

// ReadAt resolves ref back to the key and value bytes a Writer recorded
// for it. The returned slices point directly into the memory-mapped file
// and must not be retained past the Reader's lifetime, nor written to.
func (r *Reader) ReadAt(ref Ref) (key, value []byte, err error) {
	off, _ := ref.Unpack()
	if off == 0 {
		return nil, nil, ErrInvalidRef
	}

	m := r.data
	mLen := len(m)
	if off+recordHeaderSize > int64(mLen) {
		return nil, nil, fmt.Errorf("off %d beyond bounds (%d)", off, mLen)
	}
	header := m[off : off+recordHeaderSize]
	expectedChecksum := binary.LittleEndian.Uint32(header[:4])
	keyLen := int64(header[headerKeyLenOff])
	valueLen := int64(binary.LittleEndian.Uint16(header[headerValueLenOff : headerValueLenOff+2]))

	if off+recordHeaderSize+valueLen+keyLen > int64(mLen) {
		return nil, nil, fmt.Errorf("off %d + keyLen %d + valueLen %d beyond bounds (%d)", off, keyLen, valueLen, mLen)
	}
	key = m[off+recordHeaderSize : off+recordHeaderSize+keyLen]
	value = m[off+recordHeaderSize+keyLen : off+recordHeaderSize+keyLen+valueLen]
	checksum := uint32(farm.Hash64(value))
	if expectedChecksum != checksum {
		return nil, nil, fmt.Errorf("off %d checksum failed (%d != %d): blobstore file corrupted", off, expectedChecksum, checksum)
	}
	return key, value, nil
}

// Close unmaps the file and closes its descriptor.
func (r *Reader) Close() error {
	if err := r.mm.Unmap(); err != nil {
		_ = r.fd.Close()
		return fmt.Errorf("mm.Unmap: %w", err)
	}
	return r.fd.Close()
}
