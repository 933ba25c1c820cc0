// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/blobstore"
	"github.com/chasewyrick/onhash/codec"
)

func TestStringCodec_Roundtrip(t *testing.T) {
	sc := codec.StringCodec{}

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)

	b := onhash.NewBuilder[string, string](sc)
	entries := map[string]string{
		"alpha": "1",
		"bravo": "2",
		"charlie": "3",
	}
	for k, v := range entries {
		b.Insert(k, v)
	}

	dirOff, err := b.Emit(sink)
	require.NoError(t, err)

	table, err := onhash.NewTable[string, string, string](buf.Bytes(), 0, dirOff, sc)
	require.NoError(t, err)

	for k, v := range entries {
		got, ok := table.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	_, ok := table.Find("missing")
	require.False(t, ok)
}

func TestBytesCodec_Roundtrip(t *testing.T) {
	bc := codec.BytesCodec{}

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)

	b := onhash.NewBuilder[[]byte, []byte](bc)
	entries := map[string][]byte{
		"k1": []byte("v1"),
		"k2": []byte("v2"),
	}
	for k, v := range entries {
		b.Insert([]byte(k), v)
	}

	dirOff, err := b.Emit(sink)
	require.NoError(t, err)

	table, err := onhash.NewTable[[]byte, []byte, []byte](buf.Bytes(), 0, dirOff, bc)
	require.NoError(t, err)

	for k, v := range entries {
		got, ok := table.Find([]byte(k))
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestWyhashCodec_Roundtrip(t *testing.T) {
	wc := codec.WyhashCodec{Seed: 12345}

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)

	b := onhash.NewBuilder[string, string](wc)
	entries := map[string]string{"x": "1", "y": "2", "z": "3"}
	for k, v := range entries {
		b.Insert(k, v)
	}

	dirOff, err := b.Emit(sink)
	require.NoError(t, err)

	table, err := onhash.NewTable[string, string, string](buf.Bytes(), 0, dirOff, wc)
	require.NoError(t, err)

	for k, v := range entries {
		got, ok := table.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestSipHashCodec_Roundtrip(t *testing.T) {
	sc := codec.SipHashCodec{Key: [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}}

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)

	b := onhash.NewBuilder[string, string](sc)
	entries := map[string]string{"secret-a": "1", "secret-b": "2"}
	for k, v := range entries {
		b.Insert(k, v)
	}

	dirOff, err := b.Emit(sink)
	require.NoError(t, err)

	table, err := onhash.NewTable[string, string, string](buf.Bytes(), 0, dirOff, sc)
	require.NoError(t, err)

	for k, v := range entries {
		got, ok := table.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestUint64Codec_Roundtrip(t *testing.T) {
	uc := codec.Uint64Codec{Seed: 0xdeadbeef}

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)

	b := onhash.NewBuilder[uint64, []byte](uc)
	entries := map[uint64][]byte{
		1:   []byte("one"),
		42:  []byte("forty-two"),
		100: []byte("one hundred"),
	}
	for k, v := range entries {
		b.Insert(k, v)
	}

	dirOff, err := b.Emit(sink)
	require.NoError(t, err)

	table, err := onhash.NewTable[uint64, uint64, []byte](buf.Bytes(), 0, dirOff, uc)
	require.NoError(t, err)

	for k, v := range entries {
		got, ok := table.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	_, ok := table.Find(uint64(9999))
	require.False(t, ok)
}

func TestBlobCodec_Roundtrip(t *testing.T) {
	blobPath := filepath.Join(t.TempDir(), "values.blob")
	blobFile, err := os.Create(blobPath)
	require.NoError(t, err)

	bw, err := blobstore.NewWriter(blobFile)
	require.NoError(t, err)

	entries := map[string]string{
		"alpha":   "a large value that would be wasteful to inline in every bucket scan",
		"bravo":   "another large value",
		"charlie": "",
	}

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err = sink.Write([]byte{0})
	require.NoError(t, err)

	b := onhash.NewBuilder[string, string](codec.BlobWriteCodec{Blobs: bw})
	for k, v := range entries {
		b.Insert(k, v)
	}
	dirOff, err := b.Emit(sink)
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	br, err := blobstore.NewReader(blobPath)
	require.NoError(t, err)
	defer func() { _ = br.Close() }()

	table, err := onhash.NewTable[string, string, string](buf.Bytes(), 0, dirOff, codec.BlobReadCodec{Blobs: br})
	require.NoError(t, err)

	for k, v := range entries {
		got, ok := table.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	_, ok := table.Find("missing")
	require.False(t, ok)
}
