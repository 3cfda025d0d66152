// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package varint implements the unsigned little-endian base-128 varint
// codec used throughout the index format: each byte carries 7 payload
// bits, and the high bit set means "more bytes follow".
package varint

import (
	"encoding/binary"
	"errors"
)

// ErrCorrupt is returned when a varint cannot be decoded: the input ends
// before a terminating byte is seen, or the encoded value overflows 64 bits.
var ErrCorrupt = errors.New("varint: corrupt encoding")

// MaxLen is the maximum number of bytes a varint-encoded uint64 can occupy.
const MaxLen = binary.MaxVarintLen64

// Append appends the varint encoding of x to dst and returns the extended
// slice.
func Append(dst []byte, x uint64) []byte {
	return binary.AppendUvarint(dst, x)
}

// Uint decodes a varint from the front of buf, returning the value and the
// remaining bytes after it.
func Uint(buf []byte) (x uint64, rest []byte, err error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, nil, ErrCorrupt
	}
	return v, buf[n:], nil
}

// Uint32 is Uint restricted to values that fit in 32 bits, as used for
// chunk IDs and line counts throughout the index.
func Uint32(buf []byte) (x uint32, rest []byte, err error) {
	v, rest, err := Uint(buf)
	if err != nil {
		return 0, nil, err
	}
	if v > 1<<32-1 {
		return 0, nil, ErrCorrupt
	}
	return uint32(v), rest, nil
}
