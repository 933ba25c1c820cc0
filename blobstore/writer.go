// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package blobstore

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dgryski/go-farm"
)

const (
	magicDataHeader   = 0xC0FFEE0D
	fileFormatVersion = 3
	defaultBufferSize = 4 * 1024 * 1024
	recordHeaderSize  = 4 + 1 + 2 // 32-bit checksum of the value + 8-bit key length + 16-bit value length
	fileHeaderSize    = 128

	maximumOffset      = (1 << 40) - 1
	maximumKeyLength   = (1 << 8) - 1
	maximumValueLength = (1 << 16) - 1

	headerKeyLenOff   = 4
	headerValueLenOff = 5
)

// ErrInvalidRef is returned when a Ref decodes to an offset that cannot
// possibly be valid.
var ErrInvalidRef = errors.New("blobstore: invalid ref")

type nopWriter struct{}

func (nopWriter) Write([]byte) (int, error) {
	return 0, io.EOF
}

// FileWriter is usually an *os.File, but specified as an interface for
// easier testing.
type FileWriter interface {
	io.Writer
	io.WriterAt
	io.Closer
	Sync() error
}

// Writer appends (key, value) records to a blobstore file, returning a Ref
// for each that a caller can later hand to a Reader.
type Writer struct {
	f     FileWriter
	w     *bufio.Writer
	h     *fileHeader
	off   uint64
	count uint64
}

// NewWriter wraps f, writing a fresh blobstore header to it.
func NewWriter(f FileWriter) (*Writer, error) {
	w := &Writer{
		f: f,
		w: bufio.NewWriterSize(f, defaultBufferSize),
		h: newFileHeader(),
	}
	if err := w.writeFileHeader(); err != nil {
		_ = w.Close()
		return nil, err
	}

	return w, nil
}

func (w *Writer) writeFileHeader() error {
	n, err := w.h.WriteTo(w.w)
	if err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("bufio.Flush: %w", err)
	}

	w.off += uint64(n)
	return nil
}

func (w *Writer) writeRecordHeader(key, value []byte) (int, error) {
	if len(key) == 0 {
		return 0, fmt.Errorf("empty key not supported")
	}
	if len(key) > maximumKeyLength {
		return 0, fmt.Errorf("key %q too long", string(key))
	}
	if len(value) > maximumValueLength {
		return 0, fmt.Errorf("value too long (%d bytes)", len(value))
	}

	var header [recordHeaderSize]byte

	checksum := uint32(farm.Hash64(value))
	binary.LittleEndian.PutUint32(header[:4], checksum)
	header[headerKeyLenOff] = uint8(len(key))
	binary.LittleEndian.PutUint16(header[headerValueLenOff:headerValueLenOff+2], uint16(len(value)))

	return w.w.Write(header[:])
}

// Append writes key and value as a new record and returns a Ref that can
// later be passed to a Reader's ReadAt to recover them.
func (w *Writer) Append(key, value []byte) (Ref, error) {
	off := w.off
	if off == 0 {
		return 0, errors.New("invariant broken: always expect *Writer.off to be > 0")
	}
	if off > maximumOffset {
		return 0, errors.New("blobstore file has grown too large")
	}

	headerWritten, err := w.writeRecordHeader(key, value)
	if err != nil {
		return 0, fmt.Errorf("writing record header: %w", err)
	}
	keyWritten, err := w.w.Write(key)
	if err != nil {
		return 0, fmt.Errorf("writing key: %w", err)
	}
	valueWritten, err := w.w.Write(value)
	if err != nil {
		return 0, fmt.Errorf("writing value: %w", err)
	}

	recordLen := uint64(headerWritten + keyWritten + valueWritten)
	w.off += recordLen
	w.count++

	return NewRef(off, uint8(len(key)), uint16(len(value))), nil
}

// Close flushes any buffered writes, records the final record count in the
// file header, and closes the underlying file.
func (w *Writer) Close() error {
	defer func() {
		_ = w.f.Close()
	}()

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("bufio.Flush: %w", err)
	}
	w.w.Reset(nopWriter{})
	w.w = nil

	if err := w.h.UpdateRecordCount(w.count, w.f); err != nil {
		return err
	}

	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("f.Sync: %w", err)
	}

	return nil
}
