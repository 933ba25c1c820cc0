// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package diskreader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chasewyrick/onhash"
)

// magicPrefix is the one-byte, non-empty prefix every file Create writes
// starts with, satisfying Builder.Emit's requirement that the sink not be
// at stream offset 0.
const magicPrefix = 0xB1

// Create serializes b to a new file at path, in the layout Open expects:
// the one-byte prefix, the emitted table, and a trailing little-endian
// uint32 holding the directory's offset within the file.
func Create[K, V any](path string, b *onhash.Builder[K, V]) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "onhash-*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	tmpPath := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(f)
	sink := onhash.NewCountingSink(w)
	if _, err = sink.Write([]byte{magicPrefix}); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing prefix: %w", err)
	}

	dirOffset, err := b.Emit(sink)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("Builder.Emit: %w", err)
	}

	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:], dirOffset)
	if _, err = w.Write(trailer[:]); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing trailer: %w", err)
	}

	if err = w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing: %w", err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}
