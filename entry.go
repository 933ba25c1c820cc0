// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash

// entry is a single (key, value, hash) triple held by the Builder. It lives
// only in memory, is created on Insert, and is discarded once Emit has
// written it out.
type entry[K, V any] struct {
	key   K
	value V
	hash  uint32
	next  *entry[K, V]
}

// bucket is a singly linked chain of entries that share a bucket index.
// insertions prepend to head, so the chain's head is always the
// most-recently-inserted entry for whatever hash bucket it landed in.
type bucket[K, V any] struct {
	head   *entry[K, V]
	length int
	// off is filled in by Emit: the absolute stream offset at which this
	// bucket's block was written, or 0 if the bucket was never written
	// because it was empty.
	off uint32
}
