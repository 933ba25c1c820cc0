// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cache_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/cache"
	"github.com/chasewyrick/onhash/codec"
)

func buildTable(t *testing.T, entries map[string]string) *onhash.Table[string, string, string] {
	sc := codec.StringCodec{}

	var buf bytes.Buffer
	sink := onhash.NewCountingSink(&buf)
	_, err := sink.Write([]byte{0})
	require.NoError(t, err)

	b := onhash.NewBuilder[string, string](sc)
	for k, v := range entries {
		b.Insert(k, v)
	}

	dirOff, err := b.Emit(sink)
	require.NoError(t, err)

	table, err := onhash.NewTable[string, string, string](buf.Bytes(), 0, dirOff, sc)
	require.NoError(t, err)
	return table
}

func TestTable_CacheHitsAndMisses(t *testing.T) {
	entries := map[string]string{"a": "1", "b": "2", "c": "3"}
	inner := buildTable(t, entries)

	cached, err := cache.New[string, string, string](inner, 2)
	require.NoError(t, err)

	for k, v := range entries {
		got, ok := cached.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	// second pass should be served from cache for whatever survived eviction
	for k, v := range entries {
		got, ok := cached.Find(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	_, ok := cached.Find("missing")
	require.False(t, ok)

	require.Equal(t, len(entries), cached.Len())
}

func TestTable_Purge(t *testing.T) {
	entries := map[string]string{"a": "1"}
	inner := buildTable(t, entries)

	cached, err := cache.New[string, string, string](inner, 8)
	require.NoError(t, err)

	_, ok := cached.Find("a")
	require.True(t, ok)

	cached.Purge()

	got, ok := cached.Find("a")
	require.True(t, ok)
	require.Equal(t, "1", got)
}
