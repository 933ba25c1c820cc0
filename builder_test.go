// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/codec"
)

// failAfterNWriter succeeds for its first n writes, then fails every
// write after that -- used to exercise Builder.Emit's error-propagation
// paths without needing a real broken file descriptor.
type failAfterNWriter struct {
	remaining int
}

func (w *failAfterNWriter) Write(p []byte) (int, error) {
	if w.remaining <= 0 {
		return 0, io.ErrClosedPipe
	}
	w.remaining--
	return len(p), nil
}

func TestBuilder_EmitRejectsZeroOffset(t *testing.T) {
	b := onhash.NewBuilder[string, string](codec.StringCodec{})
	b.Insert("k", "v")

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)

	_, err := b.Emit(sink)
	require.ErrorIs(t, err, onhash.ErrZeroOffset)
}

func TestBuilder_LenTracksInserts(t *testing.T) {
	b := onhash.NewBuilder[string, string](codec.StringCodec{})
	require.Equal(t, 0, b.Len())

	for i := 0; i < 10; i++ {
		b.Insert("k", "v")
	}
	require.Equal(t, 10, b.Len())
}

func TestBuilder_EmitPropagatesWriteErrors(t *testing.T) {
	b := onhash.NewBuilder[string, string](codec.StringCodec{})
	b.Insert("k", "v")

	w := &failAfterNWriter{remaining: 1}
	sink := onhash.NewCountingSink(w)

	// the prefix write succeeds, giving the sink a non-zero Tell(); the
	// first write Emit itself performs (the bucket length) then fails.
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)

	_, err = b.Emit(sink)
	require.Error(t, err)
}

func TestBuilder_ResizeCrossesThresholdWithoutLosingEntries(t *testing.T) {
	b := onhash.NewBuilder[string, string](codec.StringCodec{})
	const n = 500
	for i := 0; i < n; i++ {
		b.Insert(string(rune('a'+i%26))+string(rune(i)), "v")
	}
	require.Equal(t, n, b.Len())

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)
	dirOff, err := b.Emit(sink)
	require.NoError(t, err)

	table, err := onhash.NewTable[string, string, string](buf.Bytes(), 0, dirOff, codec.StringCodec{})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, ok := table.Find(string(rune('a'+i%26)) + string(rune(i)))
		require.True(t, ok)
	}
}
