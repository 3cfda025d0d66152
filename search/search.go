// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package search ties the index, the query evaluator, and a
// line-level regex matcher together: for every candidate chunk the
// evaluator emits, it reads that chunk's bytes from the source and
// hands them to the matcher with the chunk's base line number.
package search

import (
	"context"
	"io"

	"github.com/nik9000/grop/index"
	"github.com/nik9000/grop/match"
	"github.com/nik9000/grop/query"
)

// A Match is one matching line found during verification.
type Match struct {
	LineNumber uint64
	Text       []byte
}

// A LineMatcher finds matching lines within a byte slice that starts
// at line baseLine. match.Regexp satisfies this; callers may supply
// any other implementation.
type LineMatcher interface {
	FindLines(data []byte, baseLine uint64) []match.LineMatch
}

// Search evaluates n against ix, verifies every candidate chunk by
// reading it from src and running m over it, and returns the matches
// in ascending line-number order. ctx is polled once per candidate
// chunk so a caller can cancel a long-running search; a cancelled
// search returns the context's error.
func Search(ctx context.Context, ix *index.Index, src io.ReaderAt, n query.Node, m LineMatcher) ([]Match, error) {
	iter := query.Eval(n, ix.NumChunks())
	var out []Match
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := iter.Next()
		if !ok {
			break
		}
		start, end, err := ix.ChunkByteRange(id)
		if err != nil {
			return nil, err
		}
		baseLine, err := ix.ChunkLineOffset(id)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, end-start)
		if _, err := src.ReadAt(buf, int64(start)); err != nil && err != io.EOF {
			return nil, err
		}
		for _, lm := range m.FindLines(buf, baseLine+1) {
			out = append(out, Match{LineNumber: lm.LineNumber, Text: lm.Text})
		}
	}
	return out, nil
}
