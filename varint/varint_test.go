// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package varint

import "testing"

func TestRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<32 - 1, 1 << 40, 1<<64 - 1}
	for _, x := range cases {
		buf := Append(nil, x)
		got, rest, err := Uint(buf)
		if err != nil {
			t.Fatalf("Uint(%v): %v", buf, err)
		}
		if got != x {
			t.Errorf("Uint(Append(%d)) = %d", x, got)
		}
		if len(rest) != 0 {
			t.Errorf("Uint(Append(%d)) left %d trailing bytes", x, len(rest))
		}
	}
}

func TestTruncated(t *testing.T) {
	buf := Append(nil, 1<<20)
	if _, _, err := Uint(buf[:len(buf)-1]); err != ErrCorrupt {
		t.Errorf("Uint(truncated) = %v, want ErrCorrupt", err)
	}
}

func TestEmpty(t *testing.T) {
	if _, _, err := Uint(nil); err != ErrCorrupt {
		t.Errorf("Uint(nil) = %v, want ErrCorrupt", err)
	}
}

func TestUint32Overflow(t *testing.T) {
	buf := Append(nil, 1<<40)
	if _, _, err := Uint32(buf); err != ErrCorrupt {
		t.Errorf("Uint32(1<<40) = %v, want ErrCorrupt", err)
	}
}
