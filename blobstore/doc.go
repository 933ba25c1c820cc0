// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package blobstore is an append-only, checksummed log of (key, value)
// records, meant to back large or variable-sized values that a codec would
// rather not inline directly into an on-disk table's payload.
//
// A codec can store a Ref — a packed (offset, key length, value length)
// triple — as the value bytes it writes into a table, and resolve it back
// to the original bytes with a Reader at lookup time. This keeps large
// values out of the table's bucket blocks, at the cost of one extra
// indirection per lookup.
//
// A blobstore file looks like:
//
//	┌───────────────────┐
//	│ file header       │
//	├───────────────────┤
//	│ repeated KV pairs │
//	│  ...              │
//	└───────────────────┘
//
// Individual records start with a fixed 7-byte header and are variable
// length:
//
//	 0    1    2    3    4    5    6    7
//	+----+----+----+----+----+----+----+----+
//	| value checksum    |klen| vlen    |key.|
//	+----+----+----+----+----+----+----+----+
//	| key...       | value...               |
//	+----+----+----+----+----+----+----+----+
//	| value...                              |
//	+----+----+----+----+----+----+----+----+
//
// This gives a 255-byte max length for keys, and a 65KB max length for
// values. The checksum is computed over the value bytes, and is used to
// detect on-disk corruption with high probability.
package blobstore
