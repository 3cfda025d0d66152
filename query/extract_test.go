// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"reflect"
	"regexp/syntax"
	"testing"
)

func parse(t *testing.T, re string) *syntax.Regexp {
	t.Helper()
	r, err := syntax.Parse(re, syntax.Perl)
	if err != nil {
		t.Fatalf("syntax.Parse(%q): %v", re, err)
	}
	return r
}

func TestExtractShortLiteral(t *testing.T) {
	got := Extract(parse(t, "ab"))
	if _, ok := got.(MatchAll); !ok {
		t.Errorf("Extract(ab) = %#v, want MatchAll", got)
	}
}

func TestExtractLiteral(t *testing.T) {
	got := Extract(parse(t, "abcd"))
	want := And{Children: []Node{tg("abc"), tg("bcd")}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract(abcd) = %#v, want %#v", got, want)
	}
}

func TestExtractAlternationWithShortBranch(t *testing.T) {
	got := Extract(parse(t, "cat|dog|piglet"))
	if _, ok := got.(MatchAll); ok {
		t.Fatalf("Extract(cat|dog|piglet) = MatchAll, want a constrained Or")
	}
	or, ok := got.(Or)
	if !ok {
		t.Fatalf("Extract(cat|dog|piglet) = %#v, want Or", got)
	}
	if len(or.Children) != 3 {
		t.Fatalf("Extract(cat|dog|piglet) has %d children, want 3", len(or.Children))
	}
}

func TestExtractCharClassAbsorbedByLiteral(t *testing.T) {
	// The character class itself yields MatchAll and is absorbed into
	// the surrounding And, leaving just the literal suffix's trigram.
	got := Extract(parse(t, "[abc]def"))
	want := tg("def")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract([abc]def) = %#v, want %#v", got, want)
	}
}

func TestExtractStarIsMatchAll(t *testing.T) {
	got := Extract(parse(t, "ab*"))
	if _, ok := got.(MatchAll); !ok {
		t.Errorf("Extract(ab*) = %#v, want MatchAll", got)
	}
}

func TestExtractPlusKeepsLiteral(t *testing.T) {
	got := Extract(parse(t, "(abcd)+"))
	want := And{Children: []Node{tg("abc"), tg("bcd")}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract((abcd)+) = %#v, want %#v", got, want)
	}
}
