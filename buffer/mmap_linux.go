// Copyright (C) 2026 Vortex Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

//go:build linux

package buffer

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// Mmap maps fp read-only and returns a Buffer backed directly by the
// mapping, avoiding a copy for large on-disk chunked arrays. The
// returned closer must be called to unmap once the buffer (and any
// array built on top of it) is no longer needed.
func Mmap(fp string) (Buffer, func() error, error) {
	f, err := os.Open(fp)
	if err != nil {
		return Buffer{}, nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Buffer{}, nil, err
	}
	if info.Size() > math.MaxInt {
		return Buffer{}, nil, fmt.Errorf("mapped file size %d exceeds max integer", info.Size())
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return Buffer{}, nil, err
	}
	closer := func() error { return unix.Munmap(mem) }
	return Buffer{data: mem}, closer, nil
}
