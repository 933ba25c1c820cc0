// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package onhash

import "io"

// Sink is the seekable-by-report writer Builder.Emit writes through. It is
// just an io.Writer that can additionally report how many bytes have been
// written to it so far, which Emit needs in order to record bucket offsets
// and compute directory alignment.
type Sink interface {
	io.Writer
	// Tell returns the number of bytes written to the sink so far.
	Tell() uint32
}

// CountingSink wraps an io.Writer, tracking how many bytes have passed
// through Write so it can satisfy Sink. Wrap the destination writer once,
// write any prefix bytes through it (Invariant 3 requires at least one
// byte before the payload), then pass it to Builder.Emit.
type CountingSink struct {
	w   io.Writer
	off uint32
}

// NewCountingSink wraps w so that it can be used as a Sink.
func NewCountingSink(w io.Writer) *CountingSink {
	return &CountingSink{w: w}
}

func (s *CountingSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.off += uint32(n)
	return n, err
}

// Tell returns the number of bytes written so far.
func (s *CountingSink) Tell() uint32 {
	return s.off
}
