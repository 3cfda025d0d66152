// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package query implements the trigram Boolean query tree: its
// extraction from a parsed regular expression (extract.go), its
// normalization rules (this file), its binding against an open index
// (rewrite.go), and its streaming evaluation into a candidate chunk
// stream (eval.go).
package query

import "github.com/nik9000/grop/index"

// A Node is one of And, Or, Trigram, Postings, MatchAll, or MatchNone.
type Node interface {
	isNode()
}

// And matches chunks satisfying every child.
type And struct{ Children []Node }

// Or matches chunks satisfying any child.
type Or struct{ Children []Node }

// Trigram matches chunks containing the given 3-byte sequence.
type Trigram struct{ T index.Trigram }

// Postings is a Trigram leaf that has been bound to an index: it
// matches exactly the chunk IDs iter produces.
type Postings struct{ Iter index.PostingsIter }

// MatchAll matches every chunk; the identity element for And.
type MatchAll struct{}

// MatchNone matches no chunk; the identity element for Or, and the
// annihilating element for And.
type MatchNone struct{}

func (And) isNode()       {}
func (Or) isNode()        {}
func (Trigram) isNode()   {}
func (Postings) isNode()  {}
func (MatchAll) isNode()  {}
func (MatchNone) isNode() {}

// Normalize applies the absorption and flattening rules bottom-up:
// an And containing a MatchNone child collapses to MatchNone; MatchAll
// children are dropped from an And; the dual holds for Or; nested
// same-kind nodes flatten; singleton And/Or unwrap to their one child;
// an empty And is MatchAll and an empty Or is MatchNone.
func Normalize(n Node) Node {
	switch v := n.(type) {
	case And:
		return normalizeAnd(v.Children)
	case Or:
		return normalizeOr(v.Children)
	default:
		return n
	}
}

func normalizeAnd(children []Node) Node {
	var flat []Node
	for _, c := range children {
		c = Normalize(c)
		if _, ok := c.(MatchNone); ok {
			return MatchNone{}
		}
		if _, ok := c.(MatchAll); ok {
			continue
		}
		if sub, ok := c.(And); ok {
			flat = append(flat, sub.Children...)
			continue
		}
		flat = append(flat, c)
	}
	switch len(flat) {
	case 0:
		return MatchAll{}
	case 1:
		return flat[0]
	default:
		return And{Children: flat}
	}
}

func normalizeOr(children []Node) Node {
	var flat []Node
	for _, c := range children {
		c = Normalize(c)
		if _, ok := c.(MatchAll); ok {
			return MatchAll{}
		}
		if _, ok := c.(MatchNone); ok {
			continue
		}
		if sub, ok := c.(Or); ok {
			flat = append(flat, sub.Children...)
			continue
		}
		flat = append(flat, c)
	}
	switch len(flat) {
	case 0:
		return MatchNone{}
	case 1:
		return flat[0]
	default:
		return Or{Children: flat}
	}
}
