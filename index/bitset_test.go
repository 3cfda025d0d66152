// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import "testing"

func TestBitsetAddHasDense(t *testing.T) {
	var b bitset
	vals := []uint32{5, 1 << 20, 0, 1<<24 - 1, 5}
	for _, v := range vals {
		b.Add(v)
	}
	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", b.Len())
	}
	for _, v := range vals {
		if !b.Has(v) {
			t.Errorf("Has(%d) = false, want true", v)
		}
	}
	if b.Has(123456) {
		t.Errorf("Has(123456) = true, want false")
	}
	dense := b.Dense()
	if len(dense) != 4 {
		t.Fatalf("Dense() len = %d, want 4", len(dense))
	}
}

func TestBitsetResetClearsOnlySetBits(t *testing.T) {
	var b bitset
	b.Add(7)
	b.Add(99)
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", b.Len())
	}
	if b.Has(7) || b.Has(99) {
		t.Fatalf("Has returns true after Reset")
	}
	b.Add(7)
	if !b.Has(7) || b.Len() != 1 {
		t.Fatalf("bitset not reusable after Reset")
	}
}
