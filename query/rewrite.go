// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import "github.com/nik9000/grop/index"

// Bind resolves every Trigram leaf in n against ix, replacing it with a
// Postings leaf wrapping the trigram's postings iterator, or with
// MatchNone if the trigram is absent from the index. The tree is
// renormalized afterward, so an And that picked up a MatchNone child
// collapses immediately instead of doing wasted work at evaluation
// time.
func Bind(n Node, ix *index.Index) Node {
	return Normalize(bind(n, ix))
}

func bind(n Node, ix *index.Index) Node {
	switch v := n.(type) {
	case Trigram:
		iter, ok := ix.TrigramPostings(v.T)
		if !ok {
			return MatchNone{}
		}
		return Postings{Iter: iter}
	case And:
		children := make([]Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = bind(c, ix)
		}
		return And{Children: children}
	case Or:
		children := make([]Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = bind(c, ix)
		}
		return Or{Children: children}
	default:
		return n
	}
}
