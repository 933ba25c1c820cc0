// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package diskreader memory-maps a file holding a serialized onhash table
// and constructs an onhash.Table (or onhash.IterableTable) directly
// against the mapped bytes, so a process can query the table without
// reading the whole thing into the heap first.
package diskreader

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/opencoff/go-mmap"
	"golang.org/x/sys/unix"

	"github.com/chasewyrick/onhash"
)

// Option configures Open/OpenIterable.
type Option func(*options)

type options struct {
	logger *slog.Logger
	mlock  bool
}

// WithLogger sets a logger used to report mmap advice/lock failures, which
// are not fatal -- a table is still usable without madvise or mlock
// succeeding, just slower.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMlock additionally locks the mapped pages into physical memory
// after mapping, best-effort. Requires appropriate privileges; a failure
// to lock is logged, not returned as an error.
func WithMlock() Option {
	return func(o *options) {
		o.mlock = true
	}
}

// trailerSize is how many trailing bytes of the file hold the directory
// offset that NewTable needs -- written by Create alongside the table
// itself, so a reader doesn't need out-of-band knowledge of where the
// payload ends.
const trailerSize = 4

// File wraps a memory-mapped table file and keeps the mapping alive for
// as long as the Table built over it is in use. Call Close when done.
type File[EK, IK, V any] struct {
	*onhash.Table[EK, IK, V]
	fd *os.File
	mm *mmap.Mapping
}

// IterableFile is File plus the ability to walk every entry, returned by
// OpenIterable.
type IterableFile[EK, IK, V any] struct {
	*onhash.IterableTable[EK, IK, V]
	fd *os.File
	mm *mmap.Mapping
}

func mapFile(path string, opts []Option) (data []byte, fd *os.File, mapping *mmap.Mapping, err error) {
	var o options
	o.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	for _, opt := range opts {
		opt(&o)
	}

	fd, err = os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}

	st, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		return nil, nil, nil, fmt.Errorf("fd.Stat: %w", err)
	}
	if st.Size() < trailerSize {
		_ = fd.Close()
		return nil, nil, nil, fmt.Errorf("file too short to hold a trailer: %d bytes", st.Size())
	}

	m := mmap.New(fd)
	mapping, err = m.Map(st.Size(), 0, mmap.PROT_READ, mmap.F_READAHEAD)
	if err != nil {
		_ = fd.Close()
		return nil, nil, nil, fmt.Errorf("mmap.Map(%s): %w", path, err)
	}

	data = mapping.Bytes()
	if err := unix.Madvise(data, syscall.MADV_RANDOM); err != nil {
		o.logger.Warn("madvise failed, continuing without it", "path", path, "err", err)
	}
	if o.mlock {
		if err := unix.Mlock(data); err != nil {
			o.logger.Warn("mlock failed, continuing without it", "path", path, "err", err)
		}
	}

	return data, fd, mapping, nil
}

// Open memory-maps the file at path and constructs a Table directly
// against the mapped bytes. The file must have been written by Create
// (or any writer that appends a trailing little-endian uint32 directory
// offset after the bytes Builder.Emit wrote).
func Open[EK, IK, V any](path string, codec onhash.ReadCodec[EK, IK, V], opts ...Option) (*File[EK, IK, V], error) {
	data, fd, mapping, err := mapFile(path, opts)
	if err != nil {
		return nil, err
	}

	dirOffset := binary.LittleEndian.Uint32(data[len(data)-trailerSize:])
	payload := data[:len(data)-trailerSize]

	table, err := onhash.NewTable(payload, 0, dirOffset, codec)
	if err != nil {
		_ = mapping.Unmap()
		_ = fd.Close()
		return nil, fmt.Errorf("onhash.NewTable: %w", err)
	}

	return &File[EK, IK, V]{
		Table: table,
		fd:    fd,
		mm:    mapping,
	}, nil
}

// OpenIterable is Open, but additionally supports a full walk over every
// entry via the returned IterableFile's Entries/Keys methods.
func OpenIterable[EK, IK, V any](path string, codec onhash.ReadCodec[EK, IK, V], opts ...Option) (*IterableFile[EK, IK, V], error) {
	data, fd, mapping, err := mapFile(path, opts)
	if err != nil {
		return nil, err
	}

	dirOffset := binary.LittleEndian.Uint32(data[len(data)-trailerSize:])
	payload := data[:len(data)-trailerSize]

	table, err := onhash.NewIterableTable(payload, 0, dirOffset, codec)
	if err != nil {
		_ = mapping.Unmap()
		_ = fd.Close()
		return nil, fmt.Errorf("onhash.NewIterableTable: %w", err)
	}

	return &IterableFile[EK, IK, V]{
		IterableTable: table,
		fd:            fd,
		mm:            mapping,
	}, nil
}

// Close unmaps the file and closes its descriptor. The Table embedded in
// File must not be used afterward.
func (f *File[EK, IK, V]) Close() error {
	if err := f.mm.Unmap(); err != nil {
		_ = f.fd.Close()
		return fmt.Errorf("mm.Unmap: %w", err)
	}
	return f.fd.Close()
}

// Close unmaps the file and closes its descriptor. The IterableTable
// embedded in IterableFile must not be used afterward.
func (f *IterableFile[EK, IK, V]) Close() error {
	if err := f.mm.Unmap(); err != nil {
		_ = f.fd.Close()
		return fmt.Errorf("mm.Unmap: %w", err)
	}
	return f.fd.Close()
}
