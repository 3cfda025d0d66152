// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package match implements the default line-level regex matcher used
// to verify candidate chunks: given a byte slice and the line number
// its first byte starts at, it reports every line within the slice
// that the regex matches.
package match

import (
	"bytes"
	"regexp"
)

// A LineMatch describes one matching line within a verified chunk.
type LineMatch struct {
	LineNumber uint64 // 1-based, globally correct across the whole source
	Start, End int    // byte offsets of the line within the slice passed to FindLines, excluding the terminator
	Text       []byte // the matching line, without its trailing newline
}

// A Regexp wraps a compiled regular expression and applies it one
// line at a time, the way Grep.Reader in the codesearch tool family
// scans a buffer: split at '\n', trim a trailing '\r', and test each
// resulting line independently, so a match can never straddle a line
// boundary by construction.
type Regexp struct {
	re *regexp.Regexp
}

// Compile compiles expr for use with FindLines.
func Compile(expr string) (*Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regexp{re: re}, nil
}

// FindLines scans data line by line and returns one LineMatch per
// line the regexp matches. baseLine is the 1-based line number of the
// first line in data.
func (r *Regexp) FindLines(data []byte, baseLine uint64) []LineMatch {
	var matches []LineMatch
	lineno := baseLine
	start := 0
	for start < len(data) {
		end := bytes.IndexByte(data[start:], '\n')
		var lineEnd int
		if end < 0 {
			lineEnd = len(data)
		} else {
			lineEnd = start + end
		}
		line := chomp(data[start:lineEnd])
		if r.re.Match(line) {
			matches = append(matches, LineMatch{
				LineNumber: lineno,
				Start:      start,
				End:        start + len(line),
				Text:       line,
			})
		}
		if end < 0 {
			break
		}
		start = lineEnd + 1
		lineno++
	}
	return matches
}

// chomp trims a trailing carriage return, the way text copied from
// CRLF sources accumulates one even though the chunk split only ever
// happens on '\n'.
func chomp(s []byte) []byte {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
