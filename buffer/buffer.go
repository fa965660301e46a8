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

// Package buffer implements the immutable, reference-countable byte
// region that backs every array's raw storage, plus the
// compression hooks that the on-disk chunked layout and
// the IPC reader use to move bytes in compressed form.
package buffer

import (
	"unsafe"

	"github.com/vortexdb/vortex/vxerr"
)

// Buffer is a shared-ownership, never-mutated-after-publication byte
// region. Go's garbage collector stands in for reference counting:
// Clone is a slice-header copy, O(1), and never copies bytes.
type Buffer struct {
	data []byte
}

// New takes ownership of b; the caller must not mutate b afterwards.
func New(b []byte) Buffer { return Buffer{data: b} }

// Empty is the zero-length buffer.
var Empty = Buffer{}

func (b Buffer) Len() int { return len(b.data) }

// Bytes returns the underlying storage. Callers must not mutate it.
func (b Buffer) Bytes() []byte { return b.data }

// Clone returns a new handle sharing the same backing array; no bytes
// are copied.
func (b Buffer) Clone() Buffer { return Buffer{data: b.data} }

// Slice returns a sub-view covering [offset, offset+length).
func (b Buffer) Slice(offset, length int) (Buffer, error) {
	if offset < 0 || length < 0 || offset+length > len(b.data) {
		return Buffer{}, vxerr.OutOfBoundsf(offset+length, len(b.data))
	}
	return Buffer{data: b.data[offset : offset+length]}, nil
}

// Bit returns the i-th bit of the buffer when it is viewed as a
// packed bit sequence (used for booleans and validity masks).
func (b Buffer) Bit(i int) bool {
	return b.data[i>>3]&(1<<uint(i&7)) != 0
}

// NumBits returns how many bits this buffer can hold when viewed as a
// packed bit sequence.
func (b Buffer) NumBits() int { return len(b.data) * 8 }

// PackBits packs a []bool into a Buffer using one bit per element,
// LSB first within each byte -- the wire/in-memory representation
// used for bool arrays and validity arrays alike.
func PackBits(bits []bool) Buffer {
	out := make([]byte, (len(bits)+7)/8)
	for i, v := range bits {
		if v {
			out[i>>3] |= 1 << uint(i&7)
		}
	}
	return Buffer{data: out}
}

// UnpackBits is the inverse of PackBits, reading exactly n bits.
func UnpackBits(b Buffer, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = b.Bit(i)
	}
	return out
}

// View reinterprets the buffer as a slice of T, requiring that the
// buffer's byte length be a multiple of sizeof(T). The
// returned slice aliases the buffer's storage and must not be
// retained past the buffer's lifetime if the buffer is later dropped,
// though in Go that lifetime is GC-managed like everything else here.
func View[T any](b Buffer) ([]T, error) {
	var zero T
	width := int(unsafe.Sizeof(zero))
	if width == 0 || len(b.data)%width != 0 {
		return nil, vxerr.InvalidEncodingf("buffer length %d is not a multiple of width %d", len(b.data), width)
	}
	if len(b.data) == 0 {
		return nil, nil
	}
	n := len(b.data) / width
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), n), nil
}

// FromSlice packs a slice of T into a Buffer by copying its bytes.
func FromSlice[T any](s []T) Buffer {
	if len(s) == 0 {
		return Empty
	}
	var zero T
	width := int(unsafe.Sizeof(zero))
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*width)
	out := make([]byte, len(raw))
	copy(out, raw)
	return Buffer{data: out}
}
