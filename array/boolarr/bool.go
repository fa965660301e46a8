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

// Package boolarr implements the "vortex.bool" encoding: a dense,
// bit-packed boolean array. It is the flat encoding for
// dtype.KindBool and also backs the Array variant of validity.Validity
// when a caller wants to promote a validity mask to a first-class
// array (see FromBoolArray).
package boolarr

import (
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

// ID is the stable registry identifier for this encoding.
const ID = "vortex.bool"

func init() {
	array.Register(encoding{})
}

// New builds a bool array from raw bits and a validity mask. len(bits)
// must equal v's expected length (checked implicitly by every caller
// that constructs v from the same length).
func New(bits []bool, v validity.Validity) array.Array {
	buf := buffer.PackBits(bits)
	return array.New(dtype.Bool(v.Nullability()), len(bits), ID, nil, []buffer.Buffer{buf}, nil, v)
}

// FromBoolArray promotes a validity.BoolArray (used for materialized
// validity masks) into a first-class, non-nullable bool Array.
func FromBoolArray(a validity.BoolArray) array.Array {
	return array.New(dtype.Bool(dtype.NonNullable), a.Len(), ID, nil, []buffer.Buffer{a.Buffer()}, nil, validity.NonNullable())
}

func bits(a array.Array) ([]byte, error) {
	buf, err := a.Buffer(0)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Get returns the value at index i, ignoring validity.
func Get(a array.Array, i int) (bool, error) {
	if i < 0 || i >= a.Len() {
		return false, vxerr.OutOfBoundsf(i, a.Len())
	}
	buf, err := a.Buffer(0)
	if err != nil {
		return false, err
	}
	return buf.Bit(i), nil
}

// Bools materializes the full (validity-ignoring) bit vector.
func Bools(a array.Array) ([]bool, error) {
	buf, err := a.Buffer(0)
	if err != nil {
		return nil, err
	}
	return buffer.UnpackBits(buf, a.Len()), nil
}

type encoding struct{}

func (encoding) ID() string { return ID }

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
	vals, err := Bools(a)
	if err != nil {
		return array.Array{}, err
	}
	out := make([]bool, len(idx))
	for j, ix := range idx {
		if int(ix) >= len(vals) {
			return array.Array{}, vxerr.OutOfBoundsf(int(ix), len(vals))
		}
		out[j] = vals[ix]
	}
	return New(out, a.Validity().Take(idx)), nil
}

func (encoding) Slice(a array.Array, start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return array.Array{}, vxerr.OutOfBoundsf(stop, a.Len())
	}
	vals, err := Bools(a)
	if err != nil {
		return array.Array{}, err
	}
	return New(vals[start:stop], a.Validity().Slice(start, stop)), nil
}

func (encoding) ScalarAt(a array.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerr.OutOfBoundsf(i, a.Len())
	}
	if !a.Validity().IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	v, err := Get(a, i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.Of(a.DType(), v), nil
}

// Compare implements the bitwise boolean comparison identities
// eq = ~(a^b), ne = a^b, gt = a & ~b, ge = a | ~b, lt = ~a & b,
// le = ~a | b, ANDed with both inputs' combined validity.
func (encoding) Compare(a, b array.Array, op array.CompareOp) (array.Array, error) {
	if a.Len() != b.Len() {
		return array.Array{}, vxerr.DTypeMismatchf(a.DType(), b.DType())
	}
	lhs, err := Bools(a)
	if err != nil {
		return array.Array{}, err
	}
	flatB := b
	if b.Encoding() != ID {
		flatB, err = array.WithDyn(b, func(e array.Encoding) (array.Array, error) { return e.Flatten(b) })
		if err != nil {
			return array.Array{}, err
		}
		if flatB.Encoding() != ID {
			return array.Array{}, vxerr.DTypeMismatchf(a.DType(), b.DType())
		}
	}
	rhs, err := Bools(flatB)
	if err != nil {
		return array.Array{}, err
	}
	b = flatB
	out := make([]bool, len(lhs))
	for i := range out {
		l, r := lhs[i], rhs[i]
		switch op {
		case array.EqualTo:
			out[i] = l == r
		case array.NotEqualTo:
			out[i] = l != r
		case array.GreaterThan:
			out[i] = l && !r
		case array.GreaterThanOrEqualTo:
			out[i] = l || !r
		case array.LessThan:
			out[i] = !l && r
		case array.LessThanOrEqualTo:
			out[i] = !l || r
		}
	}
	av := a.Validity().ToLogical(a.Len())
	bv := b.Validity().ToLogical(b.Len())
	for i := range out {
		out[i] = out[i] && av.Get(i) && bv.Get(i)
	}
	return New(out, validity.NonNullable()), nil
}

// CompareScalar implements array.ScalarComparer so filter_indices
// predicates can target bool columns, not just numeric
// ones -- the same bitwise identities as Compare, with b fixed to a
// constant.
func (encoding) CompareScalar(a array.Array, op array.CompareOp, s scalar.Scalar) (array.Array, error) {
	if !s.Valid {
		return New(make([]bool, a.Len()), validity.NonNullable()), nil
	}
	r, ok := s.Bool()
	if !ok {
		return array.Array{}, vxerr.DTypeMismatchf(a.DType(), s.DType)
	}
	lhs, err := Bools(a)
	if err != nil {
		return array.Array{}, err
	}
	out := make([]bool, len(lhs))
	for i, l := range lhs {
		switch op {
		case array.EqualTo:
			out[i] = l == r
		case array.NotEqualTo:
			out[i] = l != r
		case array.GreaterThan:
			out[i] = l && !r
		case array.GreaterThanOrEqualTo:
			out[i] = l || !r
		case array.LessThan:
			out[i] = !l && r
		case array.LessThanOrEqualTo:
			out[i] = !l || r
		}
	}
	av := a.Validity().ToLogical(a.Len())
	for i := range out {
		out[i] = out[i] && av.Get(i)
	}
	return New(out, validity.NonNullable()), nil
}
