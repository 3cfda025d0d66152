// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mmapFile maps f's full contents read-only into memory using
// edsrzf/mmap-go, the same cross-platform mmap library a same-domain
// trigram index reader in the retrieval pack depends on for mapping its
// own index file. One implementation replaces what used to be a
// syscall.Mmap/MapViewOfFile shim per GOOS.
func mmapFile(f *os.File) (*mmapData, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		return &mmapData{f: f}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", f.Name(), err)
	}
	return &mmapData{f: f, d: []byte(m)}, nil
}

func (m *mmapData) munmap() error {
	if m.d == nil {
		return nil
	}
	return mmap.MMap(m.d).Unmap()
}
