// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import "testing"

// fakePostings is an index.PostingsIter over a fixed in-memory list,
// used to drive the evaluator without needing a real on-disk index.
type fakePostings struct {
	ids []uint32
	pos int
}

func (f *fakePostings) Next() (uint32, bool) {
	if f.pos >= len(f.ids) {
		return 0, false
	}
	id := f.ids[f.pos]
	f.pos++
	return id, true
}

func (f *fakePostings) SeekTo(target uint32) (uint32, bool) {
	for f.pos < len(f.ids) && f.ids[f.pos] < target {
		f.pos++
	}
	return f.Next()
}

func drain(it ChunkIter) []uint32 {
	var out []uint32
	for {
		id, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, id)
	}
}

func postingsNode(ids ...uint32) Node {
	return Postings{Iter: &fakePostings{ids: ids}}
}

func TestEvalAndIntersects(t *testing.T) {
	n := And{Children: []Node{postingsNode(1, 3, 5, 7), postingsNode(0, 3, 5, 9)}}
	got := drain(Eval(n, 10))
	want := []uint32{3, 5}
	if !equalU32(got, want) {
		t.Errorf("And = %v, want %v", got, want)
	}
}

func TestEvalOrUnionsAndDedups(t *testing.T) {
	n := Or{Children: []Node{postingsNode(1, 3, 5), postingsNode(0, 3, 9)}}
	got := drain(Eval(n, 10))
	want := []uint32{0, 1, 3, 5, 9}
	if !equalU32(got, want) {
		t.Errorf("Or = %v, want %v", got, want)
	}
}

func TestEvalMatchAllEnumerates(t *testing.T) {
	got := drain(Eval(MatchAll{}, 4))
	want := []uint32{0, 1, 2, 3}
	if !equalU32(got, want) {
		t.Errorf("MatchAll = %v, want %v", got, want)
	}
}

func TestEvalMatchNoneEmpty(t *testing.T) {
	got := drain(Eval(MatchNone{}, 4))
	if len(got) != 0 {
		t.Errorf("MatchNone = %v, want empty", got)
	}
}

func TestEvalAscending(t *testing.T) {
	n := Or{Children: []Node{
		And{Children: []Node{postingsNode(1, 2, 4, 8), postingsNode(0, 2, 4, 9)}},
		postingsNode(2, 5, 8),
	}}
	got := drain(Eval(n, 10))
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("not strictly ascending: %v", got)
		}
	}
}

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
