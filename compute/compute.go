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

// Package compute implements the polymorphic operation dispatcher:
// look up the array's own encoding, use its native kernel when
// present, and otherwise flatten and retry once before giving up
// with NotImplemented. Importing this package (rather than
// a concrete array/* encoding package) is what populates the process
// registry -- see register.go.
package compute

import (
	"golang.org/x/exp/slices"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/boolarr"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

func boolFromBits(bits []bool, v validity.Validity) array.Array {
	return boolarr.New(bits, v)
}

func flatten(a array.Array) (array.Array, error) {
	return array.WithDyn(a, func(e array.Encoding) (array.Array, error) { return e.Flatten(a) })
}

// Take implements take(a, indices), falling back to a's
// flat form when its own encoding lacks a native Take kernel.
func Take(a array.Array, indices array.Array) (array.Array, error) {
	out, err := array.WithDyn(a, func(e array.Encoding) (array.Array, error) {
		t, ok := e.(array.Taker)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("take", a.Encoding())
		}
		return t.Take(a, indices)
	})
	if err == nil {
		return out, nil
	}
	flat, ferr := flatten(a)
	if ferr != nil {
		return array.Array{}, err
	}
	return array.WithDyn(flat, func(e array.Encoding) (array.Array, error) {
		t, ok := e.(array.Taker)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("take", flat.Encoding())
		}
		return t.Take(flat, indices)
	})
}

// Slice implements slice(a, start, stop).
func Slice(a array.Array, start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return array.Array{}, vxerr.OutOfBoundsf(stop, a.Len())
	}
	out, err := array.WithDyn(a, func(e array.Encoding) (array.Array, error) {
		s, ok := e.(array.Slicer)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("slice", a.Encoding())
		}
		return s.Slice(a, start, stop)
	})
	if err == nil {
		return out, nil
	}
	flat, ferr := flatten(a)
	if ferr != nil {
		return array.Array{}, err
	}
	return array.WithDyn(flat, func(e array.Encoding) (array.Array, error) {
		s, ok := e.(array.Slicer)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("slice", flat.Encoding())
		}
		return s.Slice(flat, start, stop)
	})
}

// ScalarAt implements scalar_at(a, i).
func ScalarAt(a array.Array, i int) (scalar.Scalar, error) {
	out, err := array.WithDyn(a, func(e array.Encoding) (scalar.Scalar, error) {
		sa, ok := e.(array.ScalarAtter)
		if !ok {
			return scalar.Scalar{}, vxerr.NotImplementedf("scalar_at", a.Encoding())
		}
		return sa.ScalarAt(a, i)
	})
	if err == nil {
		return out, nil
	}
	flat, ferr := flatten(a)
	if ferr != nil {
		return scalar.Scalar{}, err
	}
	return array.WithDyn(flat, func(e array.Encoding) (scalar.Scalar, error) {
		sa, ok := e.(array.ScalarAtter)
		if !ok {
			return scalar.Scalar{}, vxerr.NotImplementedf("scalar_at", flat.Encoding())
		}
		return sa.ScalarAt(flat, i)
	})
}

// Cast implements cast(a, dtype): identity when already equal,
// otherwise delegates to the encoding's native Cast or flattens first.
func Cast(a array.Array, dt dtype.DType) (array.Array, error) {
	if a.DType().Equal(dt) {
		return a, nil
	}
	out, err := array.WithDyn(a, func(e array.Encoding) (array.Array, error) {
		c, ok := e.(array.Caster)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("cast", a.Encoding())
		}
		return c.Cast(a, dt)
	})
	if err == nil {
		return out, nil
	}
	flat, ferr := flatten(a)
	if ferr != nil {
		return array.Array{}, err
	}
	return array.WithDyn(flat, func(e array.Encoding) (array.Array, error) {
		c, ok := e.(array.Caster)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("cast", flat.Encoding())
		}
		return c.Cast(flat, dt)
	})
}

// Compare implements compare(a, b, op): both arrays must share length;
// the result is non-nullable with validity already folded in by the
// encoding's own Compare kernel.
func Compare(a, b array.Array, op array.CompareOp) (array.Array, error) {
	if a.Len() != b.Len() {
		return array.Array{}, vxerr.DTypeMismatchf(a.DType(), b.DType())
	}
	out, err := array.WithDyn(a, func(e array.Encoding) (array.Array, error) {
		c, ok := e.(array.Comparer)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("compare", a.Encoding())
		}
		return c.Compare(a, b, op)
	})
	if err == nil {
		return out, nil
	}
	flat, ferr := flatten(a)
	if ferr != nil {
		return array.Array{}, err
	}
	return array.WithDyn(flat, func(e array.Encoding) (array.Array, error) {
		c, ok := e.(array.Comparer)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("compare", flat.Encoding())
		}
		return c.Compare(flat, b, op)
	})
}

// SearchSorted implements search_sorted(a, value, side); a must
// already be sorted ascending.
func SearchSorted(a array.Array, value scalar.Scalar, side array.SearchSortedSide) (int, error) {
	out, err := array.WithDyn(a, func(e array.Encoding) (int, error) {
		s, ok := e.(array.SearchSorter)
		if !ok {
			return 0, vxerr.NotImplementedf("search_sorted", a.Encoding())
		}
		return s.SearchSorted(a, value, side)
	})
	if err == nil {
		return out, nil
	}
	flat, ferr := flatten(a)
	if ferr != nil {
		return 0, err
	}
	return array.WithDyn(flat, func(e array.Encoding) (int, error) {
		s, ok := e.(array.SearchSorter)
		if !ok {
			return 0, vxerr.NotImplementedf("search_sorted", flat.Encoding())
		}
		return s.SearchSorted(flat, value, side)
	})
}

// SubtractScalar implements subtract_scalar(a, s), failing
// ArithmeticOverflow via the encoding's own checked kernel.
func SubtractScalar(a array.Array, s scalar.Scalar) (array.Array, error) {
	out, err := array.WithDyn(a, func(e array.Encoding) (array.Array, error) {
		sub, ok := e.(array.Subtracter)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("subtract_scalar", a.Encoding())
		}
		return sub.SubtractScalar(a, s)
	})
	if err == nil {
		return out, nil
	}
	flat, ferr := flatten(a)
	if ferr != nil {
		return array.Array{}, err
	}
	return array.WithDyn(flat, func(e array.Encoding) (array.Array, error) {
		sub, ok := e.(array.Subtracter)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("subtract_scalar", flat.Encoding())
		}
		return sub.SubtractScalar(flat, s)
	})
}

// AsContiguous implements as_contiguous(arrays): concatenates same-
// dtype arrays into a single flat array, preserving order and
// validity. Heterogeneous dtypes fail DTypeMismatch.
func AsContiguous(arrays []array.Array) (array.Array, error) {
	if len(arrays) == 0 {
		return array.Array{}, vxerr.InvalidEncodingf("as_contiguous: no input arrays")
	}
	dt := arrays[0].DType()
	flatParts := make([]array.Array, len(arrays))
	for i, a := range arrays {
		if !a.DType().EqIgnoreNullability(dt) {
			return array.Array{}, vxerr.DTypeMismatchf(dt, a.DType())
		}
		flat, err := flatten(a)
		if err != nil {
			return array.Array{}, err
		}
		flatParts[i] = flat
	}
	return concatFlat(flatParts)
}

// concatFlat folds flat parts together two at a time via ScalarAt.
// Every flat encoding offers ScalarAt, so this stays generic without
// each encoding needing its own concat kernel; adequate for
// as_contiguous's expected scale (merging a handful of chunks), not a
// hot path.
func concatFlat(parts []array.Array) (array.Array, error) {
	if len(parts) == 1 {
		return parts[0], nil
	}
	acc := parts[0]
	for _, p := range parts[1:] {
		merged, err := appendScalars(acc, p)
		if err != nil {
			return array.Array{}, err
		}
		acc = merged
	}
	return acc, nil
}

func appendScalars(a, b array.Array) (array.Array, error) {
	n := a.Len() + b.Len()
	vals := make([]scalar.Scalar, 0, n)
	for i := 0; i < a.Len(); i++ {
		v, err := ScalarAt(a, i)
		if err != nil {
			return array.Array{}, err
		}
		vals = append(vals, v)
	}
	for i := 0; i < b.Len(); i++ {
		v, err := ScalarAt(b, i)
		if err != nil {
			return array.Array{}, err
		}
		vals = append(vals, v)
	}
	return fromScalars(a.DType(), vals)
}

// fromScalars rebuilds a flat array from per-element scalars. It
// supports the primitive and bool dtype kinds natively (the
// take_rows/as_contiguous hot paths exercised by this module); other
// kinds fail NotImplemented rather than guess at a layout.
func fromScalars(dt dtype.DType, vals []scalar.Scalar) (array.Array, error) {
	bits := make([]bool, len(vals))
	for i, v := range vals {
		bits[i] = v.Valid
	}
	v := validity.FromBools(bits)
	switch dt.Kind() {
	case dtype.KindPrimitive:
		return primitiveFromScalars(dt, vals, v)
	case dtype.KindBool:
		out := make([]bool, len(vals))
		for i, s := range vals {
			if s.Valid {
				out[i], _ = s.Bool()
			}
		}
		return boolFromBits(out, v), nil
	default:
		return array.Array{}, vxerr.NotImplementedf("as_contiguous", dt.String())
	}
}

func primitiveFromScalars(dt dtype.DType, vals []scalar.Scalar, v validity.Validity) (array.Array, error) {
	switch dt.PType() {
	case dtype.I8:
		return primitivearr.New(dt.PType(), gather[int8](vals), v), nil
	case dtype.I16:
		return primitivearr.New(dt.PType(), gather[int16](vals), v), nil
	case dtype.I32:
		return primitivearr.New(dt.PType(), gather[int32](vals), v), nil
	case dtype.I64:
		return primitivearr.New(dt.PType(), gather[int64](vals), v), nil
	case dtype.U8:
		return primitivearr.New(dt.PType(), gather[uint8](vals), v), nil
	case dtype.U16:
		return primitivearr.New(dt.PType(), gather[uint16](vals), v), nil
	case dtype.U32:
		return primitivearr.New(dt.PType(), gather[uint32](vals), v), nil
	case dtype.U64:
		return primitivearr.New(dt.PType(), gather[uint64](vals), v), nil
	case dtype.F32:
		return primitivearr.New(dt.PType(), gather[float32](vals), v), nil
	case dtype.F64:
		return primitivearr.New(dt.PType(), gather[float64](vals), v), nil
	default:
		return array.Array{}, vxerr.NotImplementedf("as_contiguous", dt.String())
	}
}

func gather[T any](vals []scalar.Scalar) []T {
	out := make([]T, len(vals))
	for i, s := range vals {
		if s.Valid {
			out[i], _ = s.Value.(T)
		}
	}
	return out
}

// Predicate is the minimal comparison atom filter_indices evaluates;
// the full expression/predicate AST is out of scope, so
// callers build disjunctive-normal-form predicate lists directly.
type Predicate struct {
	Op    array.CompareOp
	Value scalar.Scalar
}

// Conjunction is a list of predicates ANDed together.
type Conjunction []Predicate

// FilterIndices implements filter_indices(a, disjunction): a row is
// selected if any conjunction is fully satisfied.
func FilterIndices(a array.Array, disjunction []Conjunction) (array.Array, error) {
	selected := make([]bool, a.Len())
	for _, conj := range disjunction {
		rowSel := make([]bool, a.Len())
		for i := range rowSel {
			rowSel[i] = true
		}
		for _, pred := range conj {
			bits, err := evalPredicate(a, pred)
			if err != nil {
				return array.Array{}, err
			}
			for i := range rowSel {
				rowSel[i] = rowSel[i] && bits[i]
			}
		}
		for i := range selected {
			selected[i] = selected[i] || rowSel[i]
		}
	}
	return boolFromBits(selected, validity.NonNullable()), nil
}

func evalPredicate(a array.Array, pred Predicate) ([]bool, error) {
	out, err := array.WithDyn(a, func(e array.Encoding) (array.Array, error) {
		sc, ok := e.(array.ScalarComparer)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("compare_scalar", a.Encoding())
		}
		return sc.CompareScalar(a, pred.Op, pred.Value)
	})
	if err != nil {
		flat, ferr := flatten(a)
		if ferr != nil {
			return nil, err
		}
		out, err = array.WithDyn(flat, func(e array.Encoding) (array.Array, error) {
			sc, ok := e.(array.ScalarComparer)
			if !ok {
				return array.Array{}, vxerr.NotImplementedf("compare_scalar", flat.Encoding())
			}
			return sc.CompareScalar(flat, pred.Op, pred.Value)
		})
		if err != nil {
			return nil, err
		}
	}
	return boolBits(out)
}

func boolBits(a array.Array) ([]bool, error) {
	return array.WithDyn(a, func(e array.Encoding) ([]bool, error) {
		sa, ok := e.(array.ScalarAtter)
		if !ok {
			return nil, vxerr.NotImplementedf("scalar_at", a.Encoding())
		}
		out := make([]bool, a.Len())
		for i := range out {
			s, err := sa.ScalarAt(a, i)
			if err != nil {
				return nil, err
			}
			if s.Valid {
				out[i], _ = s.Bool()
			}
		}
		return out, nil
	})
}

// SortIndices returns the permutation that would sort idx ascending,
// without mutating idx -- the gather step of the unsorted-indices
// sort+invert path.
func SortIndices(idx []uint64) []uint64 {
	perm := make([]uint64, len(idx))
	for i := range perm {
		perm[i] = uint64(i)
	}
	slices.SortFunc(perm, func(x, y uint64) bool { return idx[x] < idx[y] })
	return perm
}

// InvertPermutation returns perm's inverse: inv[perm[i]] == i.
func InvertPermutation(perm []uint64) []uint64 {
	inv := make([]uint64, len(perm))
	for i, p := range perm {
		inv[p] = uint64(i)
	}
	return inv
}

// ApplyPermutation returns a copy of idx reordered by perm:
// out[i] = idx[perm[i]].
func ApplyPermutation(idx []uint64, perm []uint64) []uint64 {
	out := slices.Clone(idx)
	for i, p := range perm {
		out[i] = idx[p]
	}
	return out
}
