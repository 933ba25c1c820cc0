// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package diskreader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/codec"
	"github.com/chasewyrick/onhash/diskreader"
)

func TestCreateAndOpen_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.onhash")

	sc := codec.StringCodec{}
	b := onhash.NewBuilder[string, string](sc)
	entries := map[string]string{
		"alpha":   "1",
		"bravo":   "2",
		"charlie": "3",
	}
	for k, v := range entries {
		b.Insert(k, v)
	}

	require.NoError(t, diskreader.Create(path, b))

	f, err := diskreader.Open[string, string, string](path, sc)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	for k, v := range entries {
		got, ok := f.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	_, ok := f.Find("missing")
	require.False(t, ok)
}

func TestOpen_TooShortFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.onhash")
	require.NoError(t, os.WriteFile(path, []byte{1, 2}, 0o644))

	_, err := diskreader.Open[string, string, string](path, codec.StringCodec{})
	require.Error(t, err)
}
