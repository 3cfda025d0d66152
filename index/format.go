// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index implements the on-disk trigram chunk index: the writer
// that builds it from a source file (write.go), the reader that opens
// it and answers trigram/chunk queries (read.go), and the delta-varint
// postings codec shared by both (delta.go).
//
// Index format, little-endian throughout:
//
//	header              magic "GROP", version, reserved, chunk count N, chunk_target_size
//	chunk ends          varint byte length, then N ascending varint-delta u64 offsets
//	chunk line counts   varint byte length, then N varint u32 counts (no delta)
//	postings inventory  per-trigram delta-varint postings blocks, ascending trigram order
//	trigrams map        varint entry count, varint byte length, then entries:
//	                       3-byte trigram, varint offset into postings inventory, varint length
//	footer              8-byte absolute offset of the trigrams map, magic repeated
//
// The fixed-size header is checked first, then the footer (from the end
// of the file), giving the offset of the trigrams map; everything else
// follows sequentially from the front, so Open never needs to seek past
// data it hasn't validated yet.
package index

import "errors"

const (
	magic        = "GROP"
	headerLen    = 4 + 2 + 2 + 8 + 8 // magic, version, reserved, N, chunk_target_size
	footerLen    = 8 + 4             // trigrams map offset, magic
	formatVer    = 1
	trigramBytes = 3
)

// DefaultChunkTargetSize is the chunk close threshold used when the caller
// does not specify one.
const DefaultChunkTargetSize = 128 << 10

// Errors realize the taxonomy from the error handling design: Io for
// underlying read/write failure, Corrupt for malformed on-disk data,
// Incompatible for an unknown format version, and TooLarge for a source
// file that would require 2^32 or more chunks.
var (
	ErrIO           = errors.New("index: I/O error")
	ErrCorrupt      = errors.New("index: corrupt index file")
	ErrIncompatible = errors.New("index: unsupported index version")
	ErrTooLarge     = errors.New("index: source file requires too many chunks")
)

// A Trigram is an ordered 3-byte tuple. Equality is byte-exact; there is
// no Unicode normalization or case folding.
type Trigram [3]byte

// TrigramFromBytes returns the trigram with the given three bytes.
func TrigramFromBytes(b0, b1, b2 byte) Trigram { return Trigram{b0, b1, b2} }

func trigramFromPacked(v uint32) Trigram {
	return Trigram{byte(v >> 16), byte(v >> 8), byte(v)}
}
