// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import "github.com/nik9000/grop/varint"

// encodePostings encodes the strictly ascending, deduplicated chunk ID
// list ids as a sequence of varint deltas: the first value is written as
// itself, and each later value as its difference from the one before.
// An empty list encodes to zero bytes.
func encodePostings(ids []uint32) []byte {
	if len(ids) == 0 {
		return nil
	}
	buf := make([]byte, 0, len(ids)*2)
	prev := uint32(0)
	for i, id := range ids {
		var delta uint32
		if i == 0 {
			delta = id
		} else {
			delta = id - prev
		}
		buf = varint.Append(buf, uint64(delta))
		prev = id
	}
	return buf
}

// A PostingsIter is a forward iterator over the ascending chunk IDs in a
// trigram's postings list.
type PostingsIter interface {
	// Next returns the next chunk ID, or ok=false when exhausted.
	Next() (id uint32, ok bool)
	// SeekTo advances past chunk IDs less than target and returns the
	// first remaining chunk ID that is >= target, or ok=false if none
	// remains. SeekTo is a linear scan over the compressed stream: there
	// is no in-block index, which is acceptable because merge-join
	// (the And iterator built by query.Eval) only ever seeks forward.
	SeekTo(target uint32) (id uint32, ok bool)
}

// postingsDecoder decodes a delta-varint postings block produced by
// encodePostings. It is one-shot and forward-only.
type postingsDecoder struct {
	data  []byte
	cur   uint32
	first bool
	err   error
}

func newPostingsDecoder(data []byte) *postingsDecoder {
	return &postingsDecoder{data: data, first: true}
}

func (d *postingsDecoder) Next() (uint32, bool) {
	if d.err != nil || len(d.data) == 0 {
		return 0, false
	}
	delta, rest, err := varint.Uint32(d.data)
	if err != nil {
		d.err = err
		return 0, false
	}
	d.data = rest
	if d.first {
		d.cur = delta
		d.first = false
	} else {
		d.cur += delta
	}
	return d.cur, true
}

func (d *postingsDecoder) SeekTo(target uint32) (uint32, bool) {
	for {
		id, ok := d.Next()
		if !ok {
			return 0, false
		}
		if id >= target {
			return id, true
		}
	}
}

// Err returns the first decode error observed, if any.
func (d *postingsDecoder) Err() error {
	return d.err
}
