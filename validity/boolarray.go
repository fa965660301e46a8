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

package validity

import "github.com/vortexdb/vortex/buffer"

// BoolArray is a packed bit vector: the concrete representation
// backing the materialized Array variant of Validity. It is
// deliberately self-contained (rather than a general array.Array) so
// that this package never needs to import the compute dispatcher,
// which in turn depends on validity -- see DESIGN.md for the
// dependency-direction rationale.
type BoolArray struct {
	buf buffer.Buffer
	n   int
}

// NewBoolArray packs bits into a BoolArray.
func NewBoolArray(bits []bool) BoolArray {
	return BoolArray{buf: buffer.PackBits(bits), n: len(bits)}
}

func (a BoolArray) Len() int { return a.n }

func (a BoolArray) Get(i int) bool { return a.buf.Bit(i) }

func (a BoolArray) Buffer() buffer.Buffer { return a.buf }

// Bools unpacks the bit vector back into a []bool.
func (a BoolArray) Bools() []bool { return buffer.UnpackBits(a.buf, a.n) }

// Slice returns the sub-range [start, stop).
func (a BoolArray) Slice(start, stop int) BoolArray {
	bits := a.Bools()
	return NewBoolArray(bits[start:stop])
}

// Take gathers a.Get(indices[j]) for each j.
func (a BoolArray) Take(indices []uint64) BoolArray {
	out := make([]bool, len(indices))
	for j, idx := range indices {
		out[j] = a.Get(int(idx))
	}
	return NewBoolArray(out)
}

// AllTrue reports whether every bit is set (n == 0 counts as true).
func (a BoolArray) AllTrue() bool {
	for i := 0; i < a.n; i++ {
		if !a.Get(i) {
			return false
		}
	}
	return true
}

// AllFalse reports whether every bit is clear (n == 0 counts as true).
func (a BoolArray) AllFalse() bool {
	for i := 0; i < a.n; i++ {
		if a.Get(i) {
			return false
		}
	}
	return true
}

// And returns the bitwise AND of a and b, which must share length.
func (a BoolArray) And(b BoolArray) BoolArray {
	ab, bb := a.Bools(), b.Bools()
	out := make([]bool, len(ab))
	for i := range out {
		out[i] = ab[i] && bb[i]
	}
	return NewBoolArray(out)
}

// Concat packs the concatenation of several BoolArrays.
func Concat(parts ...BoolArray) BoolArray {
	var bits []bool
	for _, p := range parts {
		bits = append(bits, p.Bools()...)
	}
	return NewBoolArray(bits)
}
