// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/codec"
	"github.com/chasewyrick/onhash/internal/bitset"
)

func buildIterableTable(t testing.TB, entries map[string]string) *onhash.IterableTable[string, string, string] {
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

	table, err := onhash.NewIterableTable[string, string, string](buf.Bytes(), 0, dirOff, sc)
	require.NoError(t, err)
	return table
}

func TestIterableTable_EntriesVisitsEveryEntryOnce(t *testing.T) {
	entries := map[string]string{
		"one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
	}
	table := buildIterableTable(t, entries)

	seen := make(map[string]string, len(entries))
	it := table.Entries()
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		_, dup := seen[e.Key]
		require.False(t, dup, "key %q visited twice", e.Key)
		seen[e.Key] = e.Value
	}

	require.Equal(t, entries, seen)
}

func TestIterableTable_KeysMatchesEntries(t *testing.T) {
	entries := map[string]string{"a": "1", "b": "2"}
	table := buildIterableTable(t, entries)

	seen := make(map[string]bool)
	it := table.Keys()
	for {
		k, ok := it.Next()
		if !ok {
			break
		}
		seen[k] = true
	}

	for k := range entries {
		require.True(t, seen[k])
	}
	require.Len(t, seen, len(entries))
}

func TestIterableTable_EmptyTableIterates_Zero(t *testing.T) {
	table := buildIterableTable(t, map[string]string{})

	it := table.Entries()
	_, ok := it.Next()
	require.False(t, ok)
}

// TestIterableTable_CoverageBitset cross-checks iteration against a
// Bitset tracking which entry indices have been visited, to confirm
// a table visits every entry exactly once.
func TestIterableTable_CoverageBitset(t *testing.T) {
	const n = 200
	entries := make(map[string]string, n)
	order := make([]string, 0, n)
	for i := 0; i < n; i++ {
		k := keyFor(i)
		entries[k] = k
		order = append(order, k)
	}
	table := buildIterableTable(t, entries)

	idxOf := make(map[string]int, n)
	for i, k := range order {
		idxOf[k] = i
	}

	seen := bitset.New(int64(n))
	it := table.Entries()
	count := 0
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		idx := int64(idxOf[e.Key])
		require.False(t, seen.IsSet(idx), "index %d visited twice", idx)
		seen.Set(idx)
		count++
	}
	require.Equal(t, n, count)
	for i := 0; i < n; i++ {
		require.True(t, seen.IsSet(int64(i)), "index %d never visited", i)
	}
}

func keyFor(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return string(letters[i%len(letters)]) + string(letters[(i/len(letters))%len(letters)]) + string(rune('0'+i%10))
}
