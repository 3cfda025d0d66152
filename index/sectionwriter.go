// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/nik9000/grop/varint"
)

// A sectionWriter is a small buffered-offset-tracking wrapper around the
// output file, in the spirit of the example repos' own Buffer/bufWriter
// types, but scoped to exactly what the §6.1 layout needs: raw writes,
// fixed-width little-endian integers, and a varint-length-prefixed
// block helper.
type sectionWriter struct {
	w   *bufio.Writer
	off int64
	err error
}

func newSectionWriter(f io.Writer) *sectionWriter {
	return &sectionWriter{w: bufio.NewWriterSize(f, 1<<20)}
}

func (s *sectionWriter) write(b []byte) {
	if s.err != nil {
		return
	}
	n, err := s.w.Write(b)
	s.off += int64(n)
	if err != nil {
		s.err = err
	}
}

func (s *sectionWriter) writeString(str string) { s.write([]byte(str)) }

func (s *sectionWriter) writeUint16(x uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], x)
	s.write(b[:])
}

func (s *sectionWriter) writeUint64(x uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	s.write(b[:])
}

// writeBlock writes a varint byte-length prefix followed by data, per
// the "chunk ends" and "chunk line counts" regions of §6.1.
func (s *sectionWriter) writeBlock(data []byte) {
	s.write(varint.Append(nil, uint64(len(data))))
	s.write(data)
}

func (s *sectionWriter) offset() int64 { return s.off }

// flush flushes the underlying buffered writer, recording any error.
func (s *sectionWriter) flush() {
	if s.err != nil {
		return
	}
	if err := s.w.Flush(); err != nil {
		s.err = err
	}
}

func appendVarint(dst []byte, x uint64) []byte    { return varint.Append(dst, x) }
func appendVarintU32(dst []byte, x uint32) []byte { return varint.Append(dst, uint64(x)) }

func appendVarintDelta(dst []byte, prev, cur uint64) []byte {
	return varint.Append(dst, cur-prev)
}
