// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package codec provides ready-made onhash.WriteCodec/onhash.ReadCodec
// implementations for common key and value shapes, so that most callers
// never need to write their own.
//
// Every string and []byte codec in this package frames keys and values the
// same way: a little-endian uint32 key length followed by a little-endian
// uint32 value length, then the key bytes, then the value bytes.
// Uint64Codec instead writes only a little-endian uint32 value length,
// then the 8-byte key, then the value bytes. Hashing differs per codec,
// which is the point of offering more than one.
package codec
