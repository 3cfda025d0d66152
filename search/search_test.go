// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	"bytes"
	"context"
	"os"
	"regexp/syntax"
	"testing"

	"github.com/nik9000/grop/index"
	"github.com/nik9000/grop/match"
	"github.com/nik9000/grop/query"
)

func buildAndOpen(t *testing.T, source string, opts ...index.Option) (*index.Index, string) {
	t.Helper()
	srcFile, err := os.CreateTemp("", "search-test-src")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := srcFile.WriteString(source); err != nil {
		t.Fatal(err)
	}
	srcFile.Close()
	t.Cleanup(func() { os.Remove(srcFile.Name()) })

	outFile, err := os.CreateTemp("", "search-test-out")
	if err != nil {
		t.Fatal(err)
	}
	out := outFile.Name()
	outFile.Close()
	os.Remove(out)
	t.Cleanup(func() { os.Remove(out) })

	if _, err := index.BuildIndex(srcFile.Name(), out, opts...); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	ix, err := index.Open(out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix, srcFile.Name()
}

func searchRegex(t *testing.T, ix *index.Index, src *os.File, expr string) []Match {
	t.Helper()
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		t.Fatal(err)
	}
	n := query.Bind(query.Extract(re), ix)
	m, err := match.Compile(expr)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Search(context.Background(), ix, src, n, m)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestSearchSoundness(t *testing.T) {
	source := "apple pie\nbanana split\ncherry cake\napple tart\n"
	ix, srcPath := buildAndOpen(t, source, index.WithChunkTargetSize(8))
	src, err := os.Open(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	got := searchRegex(t, ix, src, "apple")
	if len(got) != 2 {
		t.Fatalf("Search(apple) = %v, want 2 matches", got)
	}
	if got[0].LineNumber != 1 || got[1].LineNumber != 4 {
		t.Errorf("line numbers = %d,%d, want 1,4", got[0].LineNumber, got[1].LineNumber)
	}
}

func TestSearchAlternationWithUnmatchedBranches(t *testing.T) {
	source := "piglet went home\n"
	ix, srcPath := buildAndOpen(t, source)
	src, err := os.Open(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	got := searchRegex(t, ix, src, "cat|dog|piglet")
	if len(got) != 1 || got[0].LineNumber != 1 {
		t.Fatalf("Search(cat|dog|piglet) = %v, want one match on line 1", got)
	}
	if !bytes.Contains(got[0].Text, []byte("piglet")) {
		t.Errorf("matched text %q does not contain piglet", got[0].Text)
	}
}

func TestSearchShortLiteralScansEveryChunk(t *testing.T) {
	source := "xx\nyy\nab\nzz\n"
	ix, srcPath := buildAndOpen(t, source, index.WithChunkTargetSize(3))
	src, err := os.Open(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	got := searchRegex(t, ix, src, "ab")
	if len(got) != 1 || got[0].LineNumber != 3 {
		t.Fatalf("Search(ab) = %v, want one match on line 3", got)
	}
}

func TestSearchCancellation(t *testing.T) {
	source := "one\ntwo\nthree\n"
	ix, srcPath := buildAndOpen(t, source)
	src, err := os.Open(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	re, _ := syntax.Parse("one", syntax.Perl)
	n := query.Bind(query.Extract(re), ix)
	m, _ := match.Compile("one")
	_, err = Search(ctx, ix, src, n, m)
	if err != context.Canceled {
		t.Fatalf("Search with cancelled context = %v, want context.Canceled", err)
	}
}
