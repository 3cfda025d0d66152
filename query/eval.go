// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"container/heap"

	"github.com/nik9000/grop/index"
)

// A ChunkIter produces a strictly ascending stream of candidate chunk
// IDs.
type ChunkIter interface {
	// Next returns the next chunk ID, or ok=false when exhausted.
	Next() (id uint32, ok bool)
	// SeekTo advances past chunk IDs less than target and returns the
	// first remaining one that is >= target, or ok=false if none
	// remains.
	SeekTo(target uint32) (id uint32, ok bool)
}

// Eval compiles a bound Node into a ChunkIter over a corpus of
// numChunks chunks (IDs 0..numChunks-1).
func Eval(n Node, numChunks uint32) ChunkIter {
	switch v := n.(type) {
	case MatchNone:
		return &emptyIter{}
	case MatchAll:
		return &allIter{n: numChunks}
	case Postings:
		return postingsChunkIter{v.Iter}
	case And:
		children := make([]ChunkIter, len(v.Children))
		for i, c := range v.Children {
			children[i] = Eval(c, numChunks)
		}
		return newAndIter(children)
	case Or:
		children := make([]ChunkIter, len(v.Children))
		for i, c := range v.Children {
			children[i] = Eval(c, numChunks)
		}
		return newOrIter(children)
	default:
		return &emptyIter{}
	}
}

type emptyIter struct{}

func (*emptyIter) Next() (uint32, bool)        { return 0, false }
func (*emptyIter) SeekTo(uint32) (uint32, bool) { return 0, false }

// allIter enumerates 0..n-1.
type allIter struct {
	cur uint32
	n   uint32
}

func (a *allIter) Next() (uint32, bool) {
	if a.cur >= a.n {
		return 0, false
	}
	id := a.cur
	a.cur++
	return id, true
}

func (a *allIter) SeekTo(target uint32) (uint32, bool) {
	if target > a.cur {
		a.cur = target
	}
	return a.Next()
}

// postingsChunkIter adapts an index.PostingsIter to ChunkIter; the
// interfaces already agree in shape, this just gives it its own named
// type in the query package.
type postingsChunkIter struct {
	iter index.PostingsIter
}

func (p postingsChunkIter) Next() (uint32, bool)          { return p.iter.Next() }
func (p postingsChunkIter) SeekTo(t uint32) (uint32, bool) { return p.iter.SeekTo(t) }

// andIter streams the intersection of its children via merge-join:
// repeatedly seek every head to the current maximum until all heads
// coincide, then emit and advance every child by one.
type andIter struct {
	children []ChunkIter
	heads    []uint32
	done     bool
}

func newAndIter(children []ChunkIter) *andIter {
	a := &andIter{children: children, heads: make([]uint32, len(children))}
	for i, c := range children {
		id, ok := c.Next()
		if !ok {
			a.done = true
			return a
		}
		a.heads[i] = id
	}
	return a
}

func (a *andIter) Next() (uint32, bool) {
	if a.done || len(a.children) == 0 {
		return 0, false
	}
	for {
		max := a.heads[0]
		for _, h := range a.heads[1:] {
			if h > max {
				max = h
			}
		}
		allEqual := true
		for i, h := range a.heads {
			if h < max {
				id, ok := a.children[i].SeekTo(max)
				if !ok {
					a.done = true
					return 0, false
				}
				a.heads[i] = id
				if id != max {
					allEqual = false
				}
			}
		}
		if allEqual {
			result := max
			for i, c := range a.children {
				id, ok := c.Next()
				if !ok {
					a.done = true
				} else {
					a.heads[i] = id
				}
			}
			return result, true
		}
	}
}

func (a *andIter) SeekTo(target uint32) (uint32, bool) {
	for {
		id, ok := a.Next()
		if !ok {
			return 0, false
		}
		if id >= target {
			return id, true
		}
	}
}

// orIter streams the union of its children via an n-way min-heap
// merge, deduplicating equal values that appear in more than one
// child.
type orIter struct {
	h orHeap
}

type orHeapEntry struct {
	id    uint32
	child ChunkIter
}

type orHeap []orHeapEntry

func (h orHeap) Len() int            { return len(h) }
func (h orHeap) Less(i, j int) bool  { return h[i].id < h[j].id }
func (h orHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *orHeap) Push(x interface{}) { *h = append(*h, x.(orHeapEntry)) }
func (h *orHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

func newOrIter(children []ChunkIter) *orIter {
	o := &orIter{}
	for _, c := range children {
		if id, ok := c.Next(); ok {
			o.h = append(o.h, orHeapEntry{id, c})
		}
	}
	heap.Init(&o.h)
	return o
}

func (o *orIter) Next() (uint32, bool) {
	if len(o.h) == 0 {
		return 0, false
	}
	top := o.h[0]
	id := top.id
	// Advance every head currently equal to id, so the union never
	// emits a duplicate across children.
	for len(o.h) > 0 && o.h[0].id == id {
		e := heap.Pop(&o.h).(orHeapEntry)
		if next, ok := e.child.Next(); ok {
			heap.Push(&o.h, orHeapEntry{next, e.child})
		}
	}
	return id, true
}

func (o *orIter) SeekTo(target uint32) (uint32, bool) {
	for {
		id, ok := o.Next()
		if !ok {
			return 0, false
		}
		if id >= target {
			return id, true
		}
	}
}
