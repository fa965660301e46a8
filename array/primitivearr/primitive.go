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

// Package primitivearr implements the "vortex.primitive" encoding: a
// dense, densely-typed numeric array. It is the workhorse flat
// encoding -- take, slice, cast, compare, subtract_scalar and
// search_sorted all have native implementations here,
// so the dispatcher rarely needs to fall back to flattening for
// numeric arrays that are already primitive.
package primitivearr

import (
	"golang.org/x/exp/constraints"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/boolarr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

const ID = "vortex.primitive"

func init() {
	array.Register(encoding{})
}

// New constructs a primitive array over the given ptype and native Go
// values. F16 is represented as raw uint16 bit patterns -- there is
// no native Go float16 type, so F16 participates in take/slice/
// scalar_at but not in cast or arithmetic (NotImplemented is returned
// for those).
func New[T any](p dtype.PType, vals []T, v validity.Validity) array.Array {
	buf := buffer.FromSlice(vals)
	return array.New(dtype.Primitive(p, v.Nullability()), len(vals), ID, nil, []buffer.Buffer{buf}, nil, v)
}

func NewI8(v []int8, va validity.Validity) array.Array     { return New(dtype.I8, v, va) }
func NewI16(v []int16, va validity.Validity) array.Array   { return New(dtype.I16, v, va) }
func NewI32(v []int32, va validity.Validity) array.Array   { return New(dtype.I32, v, va) }
func NewI64(v []int64, va validity.Validity) array.Array   { return New(dtype.I64, v, va) }
func NewU8(v []uint8, va validity.Validity) array.Array    { return New(dtype.U8, v, va) }
func NewU16(v []uint16, va validity.Validity) array.Array  { return New(dtype.U16, v, va) }
func NewU32(v []uint32, va validity.Validity) array.Array  { return New(dtype.U32, v, va) }
func NewU64(v []uint64, va validity.Validity) array.Array  { return New(dtype.U64, v, va) }
func NewF32(v []float32, va validity.Validity) array.Array { return New(dtype.F32, v, va) }
func NewF64(v []float64, va validity.Validity) array.Array { return New(dtype.F64, v, va) }

// NewIndices builds a dtype.IDX array (u64, non-nullable), the dtype
// required of every `indices` argument to take/search_sorted.
func NewIndices(idx []uint64) array.Array { return New(dtype.U64, idx, validity.NonNullable()) }

// Uint64s returns the raw values of a dtype.IDX-compatible array.
// Callers typically get this after a Cast to dtype.IDX.
func Uint64s(a array.Array) ([]uint64, error) {
	buf, err := a.Buffer(0)
	if err != nil {
		return nil, err
	}
	return buffer.View[uint64](buf)
}

type encoding struct{}

func (encoding) ID() string                                  { return ID }
func (encoding) Flatten(a array.Array) (array.Array, error) { return a, nil }

// view returns the raw []T backing a, where T must match a.DType().PType().
func view[T any](a array.Array) ([]T, error) {
	buf, err := a.Buffer(0)
	if err != nil {
		return nil, err
	}
	return buffer.View[T](buf)
}

func takeT[T any](a array.Array, p dtype.PType, idx []uint64) (array.Array, error) {
	vals, err := view[T](a)
	if err != nil {
		return array.Array{}, err
	}
	out := make([]T, len(idx))
	for j, ix := range idx {
		if int(ix) >= len(vals) {
			return array.Array{}, vxerr.OutOfBoundsf(int(ix), len(vals))
		}
		out[j] = vals[ix]
	}
	return New(p, out, a.Validity().Take(idx)), nil
}

func (encoding) Take(a array.Array, indices array.Array) (array.Array, error) {
	idx, err := Uint64s(indices)
	if err != nil {
		return array.Array{}, vxerr.InvalidEncodingf("take: indices must be a flat u64 array: %v", err)
	}
	switch a.DType().PType() {
	case dtype.I8:
		return takeT[int8](a, dtype.I8, idx)
	case dtype.I16:
		return takeT[int16](a, dtype.I16, idx)
	case dtype.I32:
		return takeT[int32](a, dtype.I32, idx)
	case dtype.I64:
		return takeT[int64](a, dtype.I64, idx)
	case dtype.U8:
		return takeT[uint8](a, dtype.U8, idx)
	case dtype.U16:
		return takeT[uint16](a, dtype.U16, idx)
	case dtype.U32:
		return takeT[uint32](a, dtype.U32, idx)
	case dtype.U64:
		return takeT[uint64](a, dtype.U64, idx)
	case dtype.F16:
		return takeT[uint16](a, dtype.F16, idx)
	case dtype.F32:
		return takeT[float32](a, dtype.F32, idx)
	case dtype.F64:
		return takeT[float64](a, dtype.F64, idx)
	default:
		return array.Array{}, vxerr.NotImplementedf("take", ID)
	}
}

func sliceT[T any](a array.Array, p dtype.PType, start, stop int) (array.Array, error) {
	vals, err := view[T](a)
	if err != nil {
		return array.Array{}, err
	}
	return New(p, vals[start:stop], a.Validity().Slice(start, stop)), nil
}

func (encoding) Slice(a array.Array, start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return array.Array{}, vxerr.OutOfBoundsf(stop, a.Len())
	}
	switch a.DType().PType() {
	case dtype.I8:
		return sliceT[int8](a, dtype.I8, start, stop)
	case dtype.I16:
		return sliceT[int16](a, dtype.I16, start, stop)
	case dtype.I32:
		return sliceT[int32](a, dtype.I32, start, stop)
	case dtype.I64:
		return sliceT[int64](a, dtype.I64, start, stop)
	case dtype.U8:
		return sliceT[uint8](a, dtype.U8, start, stop)
	case dtype.U16:
		return sliceT[uint16](a, dtype.U16, start, stop)
	case dtype.U32:
		return sliceT[uint32](a, dtype.U32, start, stop)
	case dtype.U64:
		return sliceT[uint64](a, dtype.U64, start, stop)
	case dtype.F16:
		return sliceT[uint16](a, dtype.F16, start, stop)
	case dtype.F32:
		return sliceT[float32](a, dtype.F32, start, stop)
	case dtype.F64:
		return sliceT[float64](a, dtype.F64, start, stop)
	default:
		return array.Array{}, vxerr.NotImplementedf("slice", ID)
	}
}

func scalarAtT[T any](a array.Array, i int) (scalar.Scalar, error) {
	vals, err := view[T](a)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.Of(a.DType(), vals[i]), nil
}

func (encoding) ScalarAt(a array.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerr.OutOfBoundsf(i, a.Len())
	}
	if !a.Validity().IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	switch a.DType().PType() {
	case dtype.I8:
		return scalarAtT[int8](a, i)
	case dtype.I16:
		return scalarAtT[int16](a, i)
	case dtype.I32:
		return scalarAtT[int32](a, i)
	case dtype.I64:
		return scalarAtT[int64](a, i)
	case dtype.U8:
		return scalarAtT[uint8](a, i)
	case dtype.U16:
		return scalarAtT[uint16](a, i)
	case dtype.U32:
		return scalarAtT[uint32](a, i)
	case dtype.U64:
		return scalarAtT[uint64](a, i)
	case dtype.F16:
		return scalarAtT[uint16](a, i)
	case dtype.F32:
		return scalarAtT[float32](a, i)
	case dtype.F64:
		return scalarAtT[float64](a, i)
	default:
		return scalar.Scalar{}, vxerr.NotImplementedf("scalar_at", ID)
	}
}

func compareT[T constraints.Ordered](lhs []T, rhs []T, op array.CompareOp) []bool {
	out := make([]bool, len(lhs))
	for i := range out {
		switch op {
		case array.EqualTo:
			out[i] = lhs[i] == rhs[i]
		case array.NotEqualTo:
			out[i] = lhs[i] != rhs[i]
		case array.GreaterThan:
			out[i] = lhs[i] > rhs[i]
		case array.GreaterThanOrEqualTo:
			out[i] = lhs[i] >= rhs[i]
		case array.LessThan:
			out[i] = lhs[i] < rhs[i]
		case array.LessThanOrEqualTo:
			out[i] = lhs[i] <= rhs[i]
		}
	}
	return out
}

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
	if flatB.Encoding() != ID || flatB.DType().PType() != a.DType().PType() {
		return array.Array{}, vxerr.DTypeMismatchf(a.DType(), b.DType())
	}
	var out []bool
	var err error
	switch a.DType().PType() {
	case dtype.I8:
		out, err = cmpHelper[int8](a, flatB, op)
	case dtype.I16:
		out, err = cmpHelper[int16](a, flatB, op)
	case dtype.I32:
		out, err = cmpHelper[int32](a, flatB, op)
	case dtype.I64:
		out, err = cmpHelper[int64](a, flatB, op)
	case dtype.U8:
		out, err = cmpHelper[uint8](a, flatB, op)
	case dtype.U16:
		out, err = cmpHelper[uint16](a, flatB, op)
	case dtype.U32:
		out, err = cmpHelper[uint32](a, flatB, op)
	case dtype.U64:
		out, err = cmpHelper[uint64](a, flatB, op)
	case dtype.F32:
		out, err = cmpHelper[float32](a, flatB, op)
	case dtype.F64:
		out, err = cmpHelper[float64](a, flatB, op)
	default:
		return array.Array{}, vxerr.NotImplementedf("compare", ID)
	}
	if err != nil {
		return array.Array{}, err
	}
	av := a.Validity().ToLogical(a.Len())
	bv := flatB.Validity().ToLogical(flatB.Len())
	for i := range out {
		out[i] = out[i] && av.Get(i) && bv.Get(i)
	}
	return boolarr.New(out, validity.NonNullable()), nil
}

// cmpHelper is split from Compare so it can be generic over T while
// Compare itself stays a plain method (Go methods cannot take type
// parameters).
func cmpHelper[T constraints.Ordered](a, b array.Array, op array.CompareOp) ([]bool, error) {
	lhs, err := view[T](a)
	if err != nil {
		return nil, err
	}
	rhs, err := view[T](b)
	if err != nil {
		return nil, err
	}
	return compareT(lhs, rhs, op), nil
}

func cmpScalarHelper[T constraints.Ordered](a array.Array, op array.CompareOp, v T) ([]bool, error) {
	lhs, err := view[T](a)
	if err != nil {
		return nil, err
	}
	rhs := make([]T, len(lhs))
	for i := range rhs {
		rhs[i] = v
	}
	return compareT(lhs, rhs, op), nil
}

// CompareScalar implements array.ScalarComparer, the kernel behind
// filter_indices predicates.
func (encoding) CompareScalar(a array.Array, op array.CompareOp, s scalar.Scalar) (array.Array, error) {
	if !s.Valid {
		return boolarr.New(make([]bool, a.Len()), validity.NonNullable()), nil
	}
	var out []bool
	var err error
	switch a.DType().PType() {
	case dtype.I8, dtype.I16, dtype.I32, dtype.I64:
		iv, ok := s.Int64()
		if !ok {
			return array.Array{}, vxerr.DTypeMismatchf(a.DType(), s.DType)
		}
		out, err = cmpScalarIntHelper(a, op, iv)
	case dtype.U8, dtype.U16, dtype.U32, dtype.U64:
		uv, ok := s.Uint64()
		if !ok {
			return array.Array{}, vxerr.DTypeMismatchf(a.DType(), s.DType)
		}
		out, err = cmpScalarUintHelper(a, op, uv)
	case dtype.F32, dtype.F64:
		fv, ok := s.Float64()
		if !ok {
			return array.Array{}, vxerr.DTypeMismatchf(a.DType(), s.DType)
		}
		out, err = cmpScalarFloatHelper(a, op, fv)
	default:
		return array.Array{}, vxerr.NotImplementedf("compare_scalar", ID)
	}
	if err != nil {
		return array.Array{}, err
	}
	av := a.Validity().ToLogical(a.Len())
	for i := range out {
		out[i] = out[i] && av.Get(i)
	}
	return boolarr.New(out, validity.NonNullable()), nil
}

func cmpScalarIntHelper(a array.Array, op array.CompareOp, v int64) ([]bool, error) {
	switch a.DType().PType() {
	case dtype.I8:
		return cmpScalarHelper(a, op, int8(v))
	case dtype.I16:
		return cmpScalarHelper(a, op, int16(v))
	case dtype.I32:
		return cmpScalarHelper(a, op, int32(v))
	default:
		return cmpScalarHelper(a, op, v)
	}
}

func cmpScalarUintHelper(a array.Array, op array.CompareOp, v uint64) ([]bool, error) {
	switch a.DType().PType() {
	case dtype.U8:
		return cmpScalarHelper(a, op, uint8(v))
	case dtype.U16:
		return cmpScalarHelper(a, op, uint16(v))
	case dtype.U32:
		return cmpScalarHelper(a, op, uint32(v))
	default:
		return cmpScalarHelper(a, op, v)
	}
}

func cmpScalarFloatHelper(a array.Array, op array.CompareOp, v float64) ([]bool, error) {
	switch a.DType().PType() {
	case dtype.F32:
		return cmpScalarHelper(a, op, float32(v))
	default:
		return cmpScalarHelper(a, op, v)
	}
}

// Cast implements array.Caster for numeric-to-numeric conversions.
// Values are routed through a float64 intermediate rather than an
// N-by-N conversion matrix; this loses precision for i64 and u64
// magnitudes beyond 2^53, a limitation recorded in DESIGN.md. F16 participates in neither direction: there is no
// native float16 arithmetic in Go.
func (encoding) Cast(a array.Array, dt dtype.DType) (array.Array, error) {
	if a.DType().Equal(dt) {
		return a, nil
	}
	if dt.Kind() != dtype.KindPrimitive {
		return array.Array{}, vxerr.DTypeMismatchf(a.DType(), dt)
	}
	if a.DType().PType() == dtype.F16 || dt.PType() == dtype.F16 {
		return array.Array{}, vxerr.NotImplementedf("cast", ID)
	}
	if dt.Nullability() == dtype.NonNullable {
		lv := a.Validity().ToLogical(a.Len())
		if !lv.AllValid() {
			for i := 0; i < a.Len(); i++ {
				if !lv.Get(i) {
					return array.Array{}, vxerr.NullsInNonNullablef()
				}
			}
		}
	}
	univ, err := toFloat64(a)
	if err != nil {
		return array.Array{}, err
	}
	v := a.Validity()
	if v.Nullability() != dt.Nullability() {
		if dt.Nullability() == dtype.Nullable {
			v = validity.AllValid()
		} else {
			v = validity.NonNullable()
		}
	}
	switch dt.PType() {
	case dtype.I8:
		return New(dt.PType(), castTo[int8](univ), v), nil
	case dtype.I16:
		return New(dt.PType(), castTo[int16](univ), v), nil
	case dtype.I32:
		return New(dt.PType(), castTo[int32](univ), v), nil
	case dtype.I64:
		return New(dt.PType(), castTo[int64](univ), v), nil
	case dtype.U8:
		return New(dt.PType(), castTo[uint8](univ), v), nil
	case dtype.U16:
		return New(dt.PType(), castTo[uint16](univ), v), nil
	case dtype.U32:
		return New(dt.PType(), castTo[uint32](univ), v), nil
	case dtype.U64:
		return New(dt.PType(), castTo[uint64](univ), v), nil
	case dtype.F32:
		return New(dt.PType(), castTo[float32](univ), v), nil
	case dtype.F64:
		return New(dt.PType(), castTo[float64](univ), v), nil
	default:
		return array.Array{}, vxerr.NotImplementedf("cast", ID)
	}
}

func toFloat64(a array.Array) ([]float64, error) {
	switch a.DType().PType() {
	case dtype.I8:
		return convFrom[int8](a)
	case dtype.I16:
		return convFrom[int16](a)
	case dtype.I32:
		return convFrom[int32](a)
	case dtype.I64:
		return convFrom[int64](a)
	case dtype.U8:
		return convFrom[uint8](a)
	case dtype.U16:
		return convFrom[uint16](a)
	case dtype.U32:
		return convFrom[uint32](a)
	case dtype.U64:
		return convFrom[uint64](a)
	case dtype.F32:
		return convFrom[float32](a)
	case dtype.F64:
		return convFrom[float64](a)
	default:
		return nil, vxerr.NotImplementedf("cast", ID)
	}
}

func convFrom[T constraints.Integer | constraints.Float](a array.Array) ([]float64, error) {
	vals, err := view[T](a)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out, nil
}

func castTo[T constraints.Integer | constraints.Float](univ []float64) []T {
	out := make([]T, len(univ))
	for i, v := range univ {
		out[i] = T(v)
	}
	return out
}

// SubtractScalar implements array.Subtracter with overflow-checked
// semantics: an out-of-range result raises vxerr.ArithmeticOverflow
// instead of silently wrapping.
func (encoding) SubtractScalar(a array.Array, s scalar.Scalar) (array.Array, error) {
	switch a.DType().PType() {
	case dtype.I8, dtype.I16, dtype.I32, dtype.I64:
		iv, ok := s.Int64()
		if !ok {
			return array.Array{}, vxerr.DTypeMismatchf(a.DType(), s.DType)
		}
		return subtractSigned(a, iv)
	case dtype.U8, dtype.U16, dtype.U32, dtype.U64:
		uv, ok := s.Uint64()
		if !ok {
			return array.Array{}, vxerr.DTypeMismatchf(a.DType(), s.DType)
		}
		return subtractUnsigned(a, uv)
	case dtype.F32, dtype.F64:
		fv, ok := s.Float64()
		if !ok {
			return array.Array{}, vxerr.DTypeMismatchf(a.DType(), s.DType)
		}
		return subtractFloat(a, fv)
	default:
		return array.Array{}, vxerr.NotImplementedf("subtract_scalar", ID)
	}
}

func subtractSigned(a array.Array, sub int64) (array.Array, error) {
	switch a.DType().PType() {
	case dtype.I8:
		return subtractSignedT[int8](a, sub)
	case dtype.I16:
		return subtractSignedT[int16](a, sub)
	case dtype.I32:
		return subtractSignedT[int32](a, sub)
	default:
		return subtractSignedT[int64](a, sub)
	}
}

func subtractSignedT[T constraints.Signed](a array.Array, sub int64) (array.Array, error) {
	vals, err := view[T](a)
	if err != nil {
		return array.Array{}, err
	}
	minV, maxV := bounds[T]()
	out := make([]T, len(vals))
	for i, v := range vals {
		r := int64(v) - sub
		if r < minV || r > maxV {
			return array.Array{}, vxerr.ArithmeticOverflowf("subtract_scalar: %d - %d out of range for %s", v, sub, a.DType())
		}
		out[i] = T(r)
	}
	return New(a.DType().PType(), out, a.Validity()), nil
}

func subtractUnsigned(a array.Array, sub uint64) (array.Array, error) {
	switch a.DType().PType() {
	case dtype.U8:
		return subtractUnsignedT[uint8](a, sub)
	case dtype.U16:
		return subtractUnsignedT[uint16](a, sub)
	case dtype.U32:
		return subtractUnsignedT[uint32](a, sub)
	default:
		return subtractUnsignedT[uint64](a, sub)
	}
}

func subtractUnsignedT[T constraints.Unsigned](a array.Array, sub uint64) (array.Array, error) {
	vals, err := view[T](a)
	if err != nil {
		return array.Array{}, err
	}
	out := make([]T, len(vals))
	for i, v := range vals {
		if uint64(v) < sub {
			return array.Array{}, vxerr.ArithmeticOverflowf("subtract_scalar: %d - %d underflows %s", v, sub, a.DType())
		}
		out[i] = T(uint64(v) - sub)
	}
	return New(a.DType().PType(), out, a.Validity()), nil
}

func subtractFloat(a array.Array, sub float64) (array.Array, error) {
	switch a.DType().PType() {
	case dtype.F32:
		return subtractFloatT[float32](a, float32(sub))
	default:
		return subtractFloatT[float64](a, sub)
	}
}

func subtractFloatT[T constraints.Float](a array.Array, sub T) (array.Array, error) {
	vals, err := view[T](a)
	if err != nil {
		return array.Array{}, err
	}
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = v - sub
	}
	return New(a.DType().PType(), out, a.Validity()), nil
}

func bounds[T constraints.Signed]() (int64, int64) {
	var z T
	switch any(z).(type) {
	case int8:
		return -128, 127
	case int16:
		return -32768, 32767
	case int32:
		return -2147483648, 2147483647
	default:
		return -9223372036854775808, 9223372036854775807
	}
}

// SearchSorted implements array.SearchSorter. a must already be
// sorted ascending; callers typically confirm this first via the
// IsSorted statistic.
func (encoding) SearchSorted(a array.Array, value scalar.Scalar, side array.SearchSortedSide) (int, error) {
	switch a.DType().PType() {
	case dtype.I8, dtype.I16, dtype.I32, dtype.I64:
		iv, ok := value.Int64()
		if !ok {
			return 0, vxerr.DTypeMismatchf(a.DType(), value.DType)
		}
		univ, err := toFloat64(a)
		if err != nil {
			return 0, err
		}
		return searchSorted(univ, float64(iv), side), nil
	case dtype.U8, dtype.U16, dtype.U32, dtype.U64:
		uv, ok := value.Uint64()
		if !ok {
			return 0, vxerr.DTypeMismatchf(a.DType(), value.DType)
		}
		univ, err := toFloat64(a)
		if err != nil {
			return 0, err
		}
		return searchSorted(univ, float64(uv), side), nil
	case dtype.F32, dtype.F64:
		fv, ok := value.Float64()
		if !ok {
			return 0, vxerr.DTypeMismatchf(a.DType(), value.DType)
		}
		univ, err := toFloat64(a)
		if err != nil {
			return 0, err
		}
		return searchSorted(univ, fv, side), nil
	default:
		return 0, vxerr.NotImplementedf("search_sorted", ID)
	}
}

func searchSorted(vals []float64, v float64, side array.SearchSortedSide) int {
	lo, hi := 0, len(vals)
	for lo < hi {
		mid := (lo + hi) / 2
		var less bool
		if side == array.Left {
			less = vals[mid] < v
		} else {
			less = vals[mid] <= v
		}
		if less {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
