// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Index writing. See format.go for the on-disk layout.
//
// The writer streams the source file once, tracking a rolling 3-byte
// trigram window and a per-chunk bitset of the trigrams seen so far. A
// chunk closes at the first newline at or after chunk_target_size bytes
// from its start, or at end of file; closing flushes the chunk's entries
// into an in-memory (trigram, chunk#) list that is sorted once, at flush,
// into ascending per-trigram posting lists — the same radix-sort shape
// the example repos use to avoid an O(n log n) comparison sort over
// millions of postings, generalized from "per indexed file" to
// "per indexed chunk".
//
// Unlike the example repos (which shard a file-scale sort across temp
// files once an in-memory buffer limit is hit, to support indexing an
// entire source tree), this writer keeps the whole posting list in
// memory: a single source file's sort buffer is bounded by that file's
// size, not by the size of an entire corpus of many files, so the
// overflow-to-disk path has no work to do here. See DESIGN.md.

// A Writer builds a trigram chunk index for a single source file.
type Writer struct {
	LogSkip bool // set by WithLogSkip; index and flush do not read it, so nothing is logged
	Verbose bool // set by WithVerbose; index and flush do not read it, so nothing is logged

	chunkTargetSize uint64

	trigram    bitset
	inbuf      []byte
	chunkStart uint64
	chunkBytes uint64
	chunkID    uint32
	lineCount  uint32
	totalBytes uint64

	chunkEnds       []uint64
	chunkLineCounts []uint32
	post            []postEntry
}

// An Option configures a Writer in NewWriter.
type Option func(*Writer)

// WithChunkTargetSize overrides DefaultChunkTargetSize.
func WithChunkTargetSize(n uint64) Option {
	return func(w *Writer) { w.chunkTargetSize = n }
}

// WithVerbose sets Writer.Verbose. The writer itself emits no progress
// log lines.
func WithVerbose(v bool) Option {
	return func(w *Writer) { w.Verbose = v }
}

// WithLogSkip sets Writer.LogSkip. The writer skips no input and emits
// no log lines for it.
func WithLogSkip(v bool) Option {
	return func(w *Writer) { w.LogSkip = v }
}

// NewWriter returns a Writer ready to index a source, writing no output
// until its flush method runs (BuildIndex drives both index and flush).
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		chunkTargetSize: DefaultChunkTargetSize,
		inbuf:           make([]byte, 1<<20),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// A postEntry is an in-memory (trigram, chunk#) pair, packed the way
// both example repos pack (trigram, file#): trigram in the high 32 bits,
// target ID in the low 32 bits, so that sorting the raw uint64 sorts by
// trigram first and, because the sort is stable and chunk IDs are
// appended in increasing order, by chunk ID second.
type postEntry uint64

func makePostEntry(trigram uint32, chunkID uint32) postEntry {
	return postEntry(trigram)<<32 | postEntry(chunkID)
}

func (p postEntry) trigram() uint32 { return uint32(p >> 32) }
func (p postEntry) chunkID() uint32 { return uint32(p) }

// Stats summarizes a completed build, reported by cmd/cindex on success.
type Stats struct {
	Chunks      uint32
	Trigrams    int
	SourceBytes uint64
	IndexBytes  int64
	Regions     RegionSizes
}

// RegionSizes breaks IndexBytes down by on-disk region, in the order
// they appear in the §6.1 layout, so a caller can see where the index
// bytes actually went instead of just the total.
type RegionSizes struct {
	Header          int64
	ChunkEnds       int64
	ChunkLineCounts int64
	Postings        int64
	TrigramsMap     int64
	Footer          int64
}

// BuildIndex streams sourcePath into chunks and writes the resulting
// index to outputPath, replacing any existing file there atomically.
func BuildIndex(sourcePath, outputPath string, opts ...Option) (Stats, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	w := NewWriter(opts...)
	if err := w.index(f); err != nil {
		return Stats{}, err
	}
	return w.flush(outputPath)
}

// index streams r, assigning bytes to chunks and recording each chunk's
// distinct trigrams, end offset, and line count.
func (w *Writer) index(r io.Reader) error {
	var (
		buf = w.inbuf[:0]
		i   = 0
		tv  = uint32(0)
	)
	for {
		tv = (tv << 8) & (1<<24 - 1)
		if i >= len(buf) {
			n, err := r.Read(w.inbuf[:cap(w.inbuf)])
			if n == 0 {
				if err != nil {
					if err == io.EOF {
						break
					}
					return fmt.Errorf("%w: %v", ErrIO, err)
				}
				return fmt.Errorf("index: 0-length read with no error")
			}
			buf = w.inbuf[:n]
			i = 0
		}
		c := buf[i]
		i++
		tv |= uint32(c)

		w.chunkBytes++
		w.totalBytes++
		if w.chunkBytes >= 3 {
			w.trigram.Add(tv)
		}
		if c == '\n' {
			w.lineCount++
			if w.chunkBytes >= w.chunkTargetSize {
				if err := w.closeChunk(); err != nil {
					return err
				}
			}
		}
	}
	if w.chunkBytes > 0 {
		if err := w.closeChunk(); err != nil {
			return err
		}
	}
	return nil
}

// closeChunk flushes the current chunk's end offset, line count, and
// distinct trigrams, then resets writer state for the next chunk.
//
// Trigrams that straddle a chunk boundary are not specially carried
// across it: the 3-byte window only starts contributing to the bitset
// once w.chunkBytes reaches 3 again after a reset, so such a trigram is
// simply not recorded as spanning. Because every regex match lives
// entirely within one chunk (chunks always end right after a newline,
// so no line is split across chunks), this never drops a trigram that a
// real in-chunk substring needs — it only affects byte triples that
// straddle the newline at a chunk boundary, which are never substrings
// of any single line. See SPEC_FULL.md §4.C.
func (w *Writer) closeChunk() error {
	w.chunkStart += w.chunkBytes
	w.chunkEnds = append(w.chunkEnds, w.chunkStart)
	w.chunkLineCounts = append(w.chunkLineCounts, w.lineCount)

	if uint64(len(w.chunkEnds)) > 1<<32-1 {
		return ErrTooLarge
	}

	for _, t := range w.trigram.Dense() {
		w.post = append(w.post, makePostEntry(t, w.chunkID))
	}

	w.trigram.Reset()
	w.lineCount = 0
	w.chunkBytes = 0
	w.chunkID++
	return nil
}

// flush sorts the accumulated posting entries into ascending per-trigram
// lists and writes the full index layout (format.go) to a temp file next
// to outputPath, then renames it into place.
func (w *Writer) flush(outputPath string) (Stats, error) {
	sortPost(w.post)

	dir, name := filepath.Split(outputPath)
	if dir == "" {
		dir = "."
	}
	fsys := osfs.New(dir)
	tmp, err := fsys.TempFile("", "."+name)
	if err != nil {
		return Stats{}, err
	}
	tmpName := tmp.Name()

	n, regions, err := w.writeTo(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fsys.Remove(tmpName)
		return Stats{}, err
	}
	if err := fsys.Rename(tmpName, name); err != nil {
		fsys.Remove(tmpName)
		return Stats{}, err
	}

	trigrams := countTrigrams(w.post)
	return Stats{
		Chunks:      w.chunkID,
		Trigrams:    trigrams,
		SourceBytes: w.totalBytes,
		IndexBytes:  n,
		Regions:     regions,
	}, nil
}

func countTrigrams(post []postEntry) int {
	n := 0
	var last uint32
	for i, p := range post {
		if i == 0 || p.trigram() != last {
			n++
			last = p.trigram()
		}
	}
	return n
}

// writeTo writes the full index layout to out, which must be positioned at
// offset 0, and returns the number of bytes written along with a
// region-by-region breakdown (cmd/cindex prints it after every build, so
// its output shows where the index bytes went, not just the total).
func (w *Writer) writeTo(out billy.File) (int64, RegionSizes, error) {
	b := newSectionWriter(out)
	var regions RegionSizes

	b.writeString(magic)
	b.writeUint16(formatVer)
	b.writeUint16(0)
	b.writeUint64(uint64(w.chunkID))
	b.writeUint64(w.chunkTargetSize)
	regions.Header = b.offset()

	// Chunk ends: varint-delta.
	var ce []byte
	prev := uint64(0)
	for _, end := range w.chunkEnds {
		ce = appendVarintDelta(ce, prev, end)
		prev = end
	}
	b.writeBlock(ce)
	regions.ChunkEnds = b.offset() - regions.Header

	// Chunk line counts: direct varint, no delta.
	var lc []byte
	for _, n := range w.chunkLineCounts {
		lc = appendVarintU32(lc, n)
	}
	b.writeBlock(lc)
	regions.ChunkLineCounts = b.offset() - regions.Header - regions.ChunkEnds

	// Postings inventory + trigrams map.
	type mapEntry struct {
		trigram Trigram
		offset  uint64
		length  uint64
	}
	var entries []mapEntry
	postingsStart := b.offset()

	i := 0
	for i < len(w.post) {
		trigram := w.post[i].trigram()
		j := i
		var ids []uint32
		for j < len(w.post) && w.post[j].trigram() == trigram {
			ids = append(ids, w.post[j].chunkID())
			j++
		}
		block := encodePostings(ids)
		entries = append(entries, mapEntry{
			trigram: trigramFromPacked(trigram),
			offset:  uint64(b.offset() - postingsStart),
			length:  uint64(len(block)),
		})
		b.write(block)
		i = j
	}
	regions.Postings = b.offset() - postingsStart

	sort.Slice(entries, func(i, j int) bool {
		return lessTrigram(entries[i].trigram, entries[j].trigram)
	})

	trigramsMapOffset := b.offset()
	var tm []byte
	tm = appendVarintU32(tm, uint32(len(entries)))
	var body []byte
	for _, e := range entries {
		body = append(body, e.trigram[:]...)
		body = appendVarint(body, e.offset)
		body = appendVarint(body, e.length)
	}
	tm = appendVarintU32(tm, uint32(len(body)))
	tm = append(tm, body...)
	b.write(tm)
	regions.TrigramsMap = b.offset() - trigramsMapOffset

	footerStart := b.offset()
	b.writeUint64(uint64(trigramsMapOffset))
	b.writeString(magic)
	regions.Footer = b.offset() - footerStart
	b.flush()

	return b.offset(), regions, b.err
}

func lessTrigram(a, b Trigram) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// sortPost sorts post in place by trigram (the top 32 bits), leaving
// chunk ID order within a trigram unchanged (stable) since entries were
// appended in increasing chunk ID order to begin with.
//
// Two rounds of 16-bit counting sort over the top 32 bits, grounded on
// the teacher's sortPost — generalized to a full 32-bit key (trigrams
// need all 24 bits plus headroom) instead of assuming an 8-bit-short one.
const sortK = 16

func sortPost(post []postEntry) {
	if len(post) < 2 {
		return
	}
	tmp := make([]postEntry, len(post))
	radixPass(post, tmp, 0)
	radixPass(tmp, post, sortK)
}

// radixPass stable-sorts src into dst by the sortK-bit digit of the
// trigram starting at bit shift.
func radixPass(src, dst []postEntry, shift uint) {
	var count [1 << sortK]int
	for _, p := range src {
		r := (p.trigram() >> shift) & (1<<sortK - 1)
		count[r]++
	}
	tot := 0
	for i, c := range count {
		count[i] = tot
		tot += c
	}
	for _, p := range src {
		r := (p.trigram() >> shift) & (1<<sortK - 1)
		dst[count[r]] = p
		count[r]++
	}
}
