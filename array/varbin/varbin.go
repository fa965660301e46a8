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

// Package varbin implements the "vortex.varbin" encoding: the flat
// form of both Utf8 and Binary, a dense array of variable-length byte
// runs stored as an exclusive-prefix u32 offsets buffer alongside one
// shared data buffer. Utf8 and Binary share this single physical
// layout and differ only in their logical dtype tag.
package varbin

import (
	"bytes"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/boolarr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

// ID is the stable registry identifier for this encoding.
const ID = "vortex.varbin"

func init() {
	array.Register(encoding{})
}

// NewUtf8 builds a Utf8 array. len(vals) must equal v's expected
// length.
func NewUtf8(vals []string, v validity.Validity) array.Array {
	return build(dtype.Utf8(v.Nullability()), toBytes(vals), v)
}

// NewBinary builds a Binary array from raw byte runs.
func NewBinary(vals [][]byte, v validity.Validity) array.Array {
	return build(dtype.Binary(v.Nullability()), vals, v)
}

func toBytes(vals []string) [][]byte {
	out := make([][]byte, len(vals))
	for i, s := range vals {
		out[i] = []byte(s)
	}
	return out
}

func build(dt dtype.DType, vals [][]byte, v validity.Validity) array.Array {
	offsets := make([]uint32, len(vals)+1)
	var total uint32
	for i, b := range vals {
		total += uint32(len(b))
		offsets[i+1] = total
	}
	data := make([]byte, 0, total)
	for _, b := range vals {
		data = append(data, b...)
	}
	buffers := []buffer.Buffer{buffer.FromSlice(offsets), buffer.New(data)}
	return array.New(dt, len(vals), ID, nil, buffers, nil, v)
}

func offsets(a array.Array) ([]uint32, error) {
	buf, err := a.Buffer(0)
	if err != nil {
		return nil, err
	}
	return buffer.View[uint32](buf)
}

func data(a array.Array) ([]byte, error) {
	buf, err := a.Buffer(1)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BytesAt returns the raw byte run at index i, ignoring validity.
func BytesAt(a array.Array, i int) ([]byte, error) {
	if i < 0 || i >= a.Len() {
		return nil, vxerr.OutOfBoundsf(i, a.Len())
	}
	off, err := offsets(a)
	if err != nil {
		return nil, err
	}
	d, err := data(a)
	if err != nil {
		return nil, err
	}
	return d[off[i]:off[i+1]], nil
}

// StringAt is BytesAt with a string conversion, valid only for Utf8
// arrays.
func StringAt(a array.Array, i int) (string, error) {
	b, err := BytesAt(a, i)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type encoding struct{}

func (encoding) ID() string                                  { return ID }
func (encoding) Flatten(a array.Array) (array.Array, error) { return a, nil }

func (encoding) Take(a array.Array, indices array.Array) (array.Array, error) {
	idxBuf, err := indices.Buffer(0)
	if err != nil {
		return array.Array{}, err
	}
	idx, err := buffer.View[uint64](idxBuf)
	if err != nil {
		return array.Array{}, err
	}
	n := a.Len()
	out := make([][]byte, len(idx))
	for j, ix := range idx {
		if int(ix) >= n {
			return array.Array{}, vxerr.OutOfBoundsf(int(ix), n)
		}
		b, err := BytesAt(a, int(ix))
		if err != nil {
			return array.Array{}, err
		}
		out[j] = b
	}
	return build(a.DType(), out, a.Validity().Take(idx)), nil
}

func (encoding) Slice(a array.Array, start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return array.Array{}, vxerr.OutOfBoundsf(stop, a.Len())
	}
	off, err := offsets(a)
	if err != nil {
		return array.Array{}, err
	}
	d, err := data(a)
	if err != nil {
		return array.Array{}, err
	}
	base := off[start]
	newOffsets := make([]uint32, stop-start+1)
	for i := start; i <= stop; i++ {
		newOffsets[i-start] = off[i] - base
	}
	buffers := []buffer.Buffer{buffer.FromSlice(newOffsets), buffer.New(d[base:off[stop]])}
	return array.New(a.DType(), stop-start, ID, nil, buffers, nil, a.Validity().Slice(start, stop)), nil
}

func (encoding) ScalarAt(a array.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerr.OutOfBoundsf(i, a.Len())
	}
	if !a.Validity().IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	b, err := BytesAt(a, i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if a.DType().Kind() == dtype.KindUtf8 {
		return scalar.Of(a.DType(), string(b)), nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return scalar.Of(a.DType(), cp), nil
}

// Compare implements array.Comparer for byte-lexicographic ordering,
// the same validity-ANDing discipline boolarr.Compare uses.
func (encoding) Compare(a, b array.Array, op array.CompareOp) (array.Array, error) {
	if a.Len() != b.Len() {
		return array.Array{}, vxerr.DTypeMismatchf(a.DType(), b.DType())
	}
	flatB := b
	if b.Encoding() != ID {
		var err error
		flatB, err = array.WithDyn(b, func(e array.Encoding) (array.Array, error) { return e.Flatten(b) })
		if err != nil {
			return array.Array{}, err
		}
	}
	if flatB.Encoding() != ID {
		return array.Array{}, vxerr.DTypeMismatchf(a.DType(), b.DType())
	}
	out := make([]bool, a.Len())
	for i := range out {
		l, err := BytesAt(a, i)
		if err != nil {
			return array.Array{}, err
		}
		r, err := BytesAt(flatB, i)
		if err != nil {
			return array.Array{}, err
		}
		out[i] = compareBytes(l, r, op)
	}
	av := a.Validity().ToLogical(a.Len())
	bv := flatB.Validity().ToLogical(flatB.Len())
	for i := range out {
		out[i] = out[i] && av.Get(i) && bv.Get(i)
	}
	return boolarr.New(out, validity.NonNullable()), nil
}

func compareBytes(l, r []byte, op array.CompareOp) bool {
	c := bytes.Compare(l, r)
	switch op {
	case array.EqualTo:
		return c == 0
	case array.NotEqualTo:
		return c != 0
	case array.GreaterThan:
		return c > 0
	case array.GreaterThanOrEqualTo:
		return c >= 0
	case array.LessThan:
		return c < 0
	case array.LessThanOrEqualTo:
		return c <= 0
	default:
		return false
	}
}
