// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/nik9000/grop/varint"
)

// Index reading. See format.go for the on-disk layout this parses.

// An Index implements read-only access to a trigram chunk index. It is
// backed by the mmap'd index file and safe for concurrent use by
// multiple readers.
type Index struct {
	Verbose bool

	data            mmapData
	chunkTargetSize uint64
	numChunks       uint32

	// chunkEnds[i] is the exclusive end offset of chunk i in the source
	// file; lineOffsets[i] is the sum of line counts of chunks [0,i).
	// Both are precomputed at Open so lookups are O(1).
	chunkEnds   []uint64
	lineOffsets []uint64

	postingsBase uint64
	entries      []trigramEntry
}

type trigramEntry struct {
	trigram Trigram
	offset  uint64 // relative to postingsBase
	length  uint64
}

// Open memory-maps path and parses its header, tables, and trigrams map.
func Open(path string) (*Index, error) {
	mm, err := mmap(path)
	if err != nil {
		return nil, err
	}
	return openData(*mm)
}

func openData(mm mmapData) (*Index, error) {
	d := mm.d
	if len(d) < headerLen+footerLen {
		return nil, ErrCorrupt
	}
	if string(d[:4]) != magic {
		return nil, ErrCorrupt
	}
	version := binary.LittleEndian.Uint16(d[4:6])
	if version != formatVer {
		return nil, ErrIncompatible
	}
	n := binary.LittleEndian.Uint64(d[8:16])
	if n > 1<<32-1 {
		return nil, ErrCorrupt
	}
	chunkTargetSize := binary.LittleEndian.Uint64(d[16:24])

	footer := d[len(d)-footerLen:]
	trigramsMapOffset := binary.LittleEndian.Uint64(footer[:8])
	if string(footer[8:]) != magic {
		return nil, ErrCorrupt
	}
	if trigramsMapOffset > uint64(len(d)-footerLen) {
		return nil, ErrCorrupt
	}

	ix := &Index{
		data:            mm,
		chunkTargetSize: chunkTargetSize,
		numChunks:       uint32(n),
	}

	pos := uint64(headerLen)

	ends, pos, err := readDeltaU64Block(d, pos, uint32(n))
	if err != nil {
		return nil, err
	}
	var prevEnd uint64
	for i, e := range ends {
		if i > 0 && e <= prevEnd {
			return nil, ErrCorrupt
		}
		prevEnd = e
	}
	ix.chunkEnds = ends

	counts, pos, err := readVarintU32Block(d, pos, uint32(n))
	if err != nil {
		return nil, err
	}
	ix.lineOffsets = make([]uint64, len(counts)+1)
	for i, c := range counts {
		ix.lineOffsets[i+1] = ix.lineOffsets[i] + uint64(c)
	}

	if trigramsMapOffset < pos || trigramsMapOffset > uint64(len(d)-footerLen) {
		return nil, ErrCorrupt
	}
	ix.postingsBase = pos

	entries, err := readTrigramsMap(d, trigramsMapOffset, uint64(len(d)-footerLen))
	if err != nil {
		return nil, err
	}
	ix.entries = entries

	return ix, nil
}

// readDeltaU64Block reads a varint-length-prefixed block of count
// ascending varint-delta uint64 values starting at pos, returning the
// decoded values and the offset just past the block.
func readDeltaU64Block(d []byte, pos uint64, count uint32) ([]uint64, uint64, error) {
	body, next, err := readBlock(d, pos)
	if err != nil {
		return nil, 0, err
	}
	out := make([]uint64, 0, count)
	var prev uint64
	for i := uint32(0); i < count; i++ {
		delta, rest, err := varint.Uint(body)
		if err != nil {
			return nil, 0, ErrCorrupt
		}
		prev += delta
		out = append(out, prev)
		body = rest
	}
	if len(body) != 0 {
		return nil, 0, ErrCorrupt
	}
	return out, next, nil
}

// readVarintU32Block reads a varint-length-prefixed block of count
// direct (non-delta) varint uint32 values starting at pos.
func readVarintU32Block(d []byte, pos uint64, count uint32) ([]uint32, uint64, error) {
	body, next, err := readBlock(d, pos)
	if err != nil {
		return nil, 0, err
	}
	out := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, rest, err := varint.Uint32(body)
		if err != nil {
			return nil, 0, ErrCorrupt
		}
		out = append(out, v)
		body = rest
	}
	if len(body) != 0 {
		return nil, 0, ErrCorrupt
	}
	return out, next, nil
}

// readBlock reads a varint byte-length prefix followed by that many
// bytes, starting at pos, returning the body slice and the offset
// just past it.
func readBlock(d []byte, pos uint64) (body []byte, next uint64, err error) {
	if pos > uint64(len(d)) {
		return nil, 0, ErrCorrupt
	}
	l, rest, err := varint.Uint(d[pos:])
	if err != nil {
		return nil, 0, ErrCorrupt
	}
	if l > uint64(len(rest)) {
		return nil, 0, ErrCorrupt
	}
	consumed := uint64(len(d[pos:]) - len(rest))
	return rest[:l], pos + consumed + l, nil
}

func readTrigramsMap(d []byte, off, limit uint64) ([]trigramEntry, error) {
	if off > limit {
		return nil, ErrCorrupt
	}
	count, rest, err := varint.Uint32(d[off:limit])
	if err != nil {
		return nil, ErrCorrupt
	}
	length, rest, err := varint.Uint(rest)
	if err != nil {
		return nil, ErrCorrupt
	}
	if length > uint64(len(rest)) {
		return nil, ErrCorrupt
	}
	body := rest[:length]

	entries := make([]trigramEntry, 0, count)
	var prev Trigram
	for i := uint32(0); i < count; i++ {
		if len(body) < trigramBytes {
			return nil, ErrCorrupt
		}
		var e trigramEntry
		copy(e.trigram[:], body[:trigramBytes])
		body = body[trigramBytes:]
		e.offset, body, err = varint.Uint(body)
		if err != nil {
			return nil, ErrCorrupt
		}
		e.length, body, err = varint.Uint(body)
		if err != nil {
			return nil, ErrCorrupt
		}
		if i > 0 && !lessTrigram(prev, e.trigram) {
			return nil, ErrCorrupt
		}
		prev = e.trigram
		entries = append(entries, e)
	}
	if len(body) != 0 {
		return nil, ErrCorrupt
	}
	return entries, nil
}

// NumChunks returns the number of chunks in the index.
func (ix *Index) NumChunks() uint32 { return ix.numChunks }

// ChunkTargetSize returns the chunk_target_size the index was built with.
func (ix *Index) ChunkTargetSize() uint64 { return ix.chunkTargetSize }

// ChunkByteRange returns the half-open byte range [start,end) of chunk id
// in the source file.
func (ix *Index) ChunkByteRange(id uint32) (start, end uint64, err error) {
	if id >= ix.numChunks {
		return 0, 0, fmt.Errorf("index: chunk %d out of range [0,%d)", id, ix.numChunks)
	}
	if id > 0 {
		start = ix.chunkEnds[id-1]
	}
	end = ix.chunkEnds[id]
	return start, end, nil
}

// ChunkLineOffset returns the number of line terminators in chunks
// [0,id), i.e. the 0-based line number of the first line of chunk id.
func (ix *Index) ChunkLineOffset(id uint32) (uint64, error) {
	if id > ix.numChunks {
		return 0, fmt.Errorf("index: chunk %d out of range [0,%d]", id, ix.numChunks)
	}
	return ix.lineOffsets[id], nil
}

// TrigramPostings returns the postings iterator for t, or ok=false if t
// is absent from the index (no chunk contains it).
func (ix *Index) TrigramPostings(t Trigram) (PostingsIter, bool) {
	i := sort.Search(len(ix.entries), func(i int) bool {
		return !lessTrigram(ix.entries[i].trigram, t)
	})
	if i >= len(ix.entries) || ix.entries[i].trigram != t {
		return nil, false
	}
	e := ix.entries[i]
	start := ix.postingsBase + e.offset
	end := start + e.length
	if end > uint64(len(ix.data.d)) {
		return nil, false
	}
	return newPostingsDecoder(ix.data.d[start:end]), true
}

// Close unmaps the index file.
func (ix *Index) Close() error {
	return ix.data.munmap()
}

// An mmapData is mmap'ed read-only data from a file.
type mmapData struct {
	f *os.File
	d []byte
}

// mmap opens and maps the given file into memory.
func mmap(file string) (*mmapData, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	return mmapFile(f)
}

// DefaultIndexPath returns the index file to use when none is given
// explicitly: $GROPINDEX, the current working directory or a parent
// directory's .gropindex, or $HOME/.gropindex.
func DefaultIndexPath() string {
	if f := os.Getenv("GROPINDEX"); f != "" {
		return f
	}

	cwd, err := os.Getwd()
	if err == nil {
		for {
			f := filepath.Join(cwd, ".gropindex")
			if _, err := os.Lstat(f); err == nil {
				return f
			}
			parent := filepath.Dir(cwd)
			if parent == cwd {
				break
			}
			cwd = parent
		}
	}

	home := os.Getenv("HOME")
	if runtime.GOOS == "windows" && home == "" {
		home = os.Getenv("USERPROFILE")
	}
	return filepath.Clean(home + "/.gropindex")
}
