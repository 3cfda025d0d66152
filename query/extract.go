// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"regexp/syntax"

	"github.com/nik9000/grop/index"
)

// Extract walks a parsed regular expression and produces a Query that
// is a sound over-approximation: it accepts every chunk whose bytes
// contain any string the regex matches, built node-by-node per the
// following contract.
//
//   - Literal byte/rune string of length n < 3: MatchAll, since no
//     trigram can constrain it.
//   - Literal of length n >= 3: And over its n-2 contiguous trigrams.
//   - Concatenation: And of the children.
//   - Alternation: Or of the children; any MatchAll child collapses
//     the whole alternation to MatchAll.
//   - Repetition with a minimum of at least one: same as one
//     occurrence of the repeated expression (the upper bound carries
//     no additional trigram information). A minimum of zero: MatchAll.
//   - Character classes, ".", anchors, and word boundaries: MatchAll,
//     since none of them pin down a literal byte sequence.
//   - Capturing and non-capturing groups: pass through to the child.
//
// regexp/syntax has no backreference or look-around nodes (the Go
// regexp engine does not support them), so those node kinds from the
// general contract have no corresponding case here; an unrecognized
// Op falls through to MatchAll, the always-safe answer.
func Extract(re *syntax.Regexp) Node {
	return Normalize(extract(re))
}

func extract(re *syntax.Regexp) Node {
	switch re.Op {
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			// Case-insensitive literals would require expanding each
			// rune into its fold-equivalence class before trigram
			// extraction; until that is implemented, fold back to the
			// always-safe answer rather than risk excluding a chunk
			// that matches under folding.
			return MatchAll{}
		}
		return literalQuery(re.Rune)

	case syntax.OpConcat:
		children := make([]Node, len(re.Sub))
		for i, sub := range re.Sub {
			children[i] = extract(sub)
		}
		return And{Children: children}

	case syntax.OpAlternate:
		children := make([]Node, len(re.Sub))
		for i, sub := range re.Sub {
			children[i] = extract(sub)
		}
		return Or{Children: children}

	case syntax.OpCapture:
		return extract(re.Sub[0])

	case syntax.OpPlus:
		return extract(re.Sub[0])

	case syntax.OpRepeat:
		if re.Min == 0 {
			return MatchAll{}
		}
		return extract(re.Sub[0])

	case syntax.OpStar, syntax.OpQuest:
		return MatchAll{}

	case syntax.OpCharClass, syntax.OpAnyChar, syntax.OpAnyCharNotNL,
		syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary,
		syntax.OpEmptyMatch, syntax.OpNoMatch:
		return MatchAll{}

	default:
		return MatchAll{}
	}
}

// literalQuery builds the And-of-trigrams query for a literal rune
// sequence, folding each rune to its UTF-8 bytes first.
func literalQuery(runes []rune) Node {
	var buf []byte
	for _, r := range runes {
		buf = append(buf, string(r)...)
	}
	if len(buf) < 3 {
		return MatchAll{}
	}
	children := make([]Node, 0, len(buf)-2)
	for i := 0; i+3 <= len(buf); i++ {
		children = append(children, Trigram{T: index.TrigramFromBytes(buf[i], buf[i+1], buf[i+2])})
	}
	return And{Children: children}
}
