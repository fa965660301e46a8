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

// Package structarr implements the "vortex.struct" encoding: a row
// group of equal-length, independently-encoded field children plus a
// container validity mask. A struct is nullable if the container is
// marked nullable or every field is nullable.
package structarr

import (
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

// ID is the stable registry identifier for this encoding.
const ID = "vortex.struct"

func init() {
	array.Register(encoding{})
}

// New builds a struct array from named, equal-length field children.
func New(names []string, fields []array.Array, v validity.Validity) array.Array {
	n := 0
	if len(fields) > 0 {
		n = fields[0].Len()
	}
	types := make([]dtype.DType, len(fields))
	for i, f := range fields {
		types[i] = f.DType()
	}
	dt := dtype.Struct(names, types, v.Nullability())
	return array.New(dt, n, ID, nil, nil, fields, v)
}

// Field returns the named child by position in the dtype's field
// list.
func Field(a array.Array, name string) (array.Array, error) {
	i, ok := a.DType().FindName(name)
	if !ok {
		return array.Array{}, vxerr.InvalidEncodingf("struct has no field %q", name)
	}
	return a.Child(i, a.DType().FieldTypes()[i])
}

type encoding struct{}

func (encoding) ID() string                                  { return ID }
func (encoding) Flatten(a array.Array) (array.Array, error) { return a, nil }

func (encoding) Take(a array.Array, indices array.Array) (array.Array, error) {
	names := a.DType().FieldNames()
	out := make([]array.Array, a.NumChildren())
	for i := 0; i < a.NumChildren(); i++ {
		c, err := a.Child(i, a.DType().FieldTypes()[i])
		if err != nil {
			return array.Array{}, err
		}
		taken, err := array.WithDyn(c, func(e array.Encoding) (array.Array, error) {
			t, ok := e.(array.Taker)
			if !ok {
				return array.Array{}, vxerr.NotImplementedf("take", c.Encoding())
			}
			return t.Take(c, indices)
		})
		if err != nil {
			return array.Array{}, err
		}
		out[i] = taken
	}
	return New(names, out, takeValidity(a, indices)), nil
}

func takeValidity(a array.Array, indices array.Array) validity.Validity {
	buf, err := indices.Buffer(0)
	if err != nil {
		return a.Validity()
	}
	idx, err := buffer.View[uint64](buf)
	if err != nil {
		return a.Validity()
	}
	return a.Validity().Take(idx)
}

func (encoding) Slice(a array.Array, start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return array.Array{}, vxerr.OutOfBoundsf(stop, a.Len())
	}
	names := a.DType().FieldNames()
	out := make([]array.Array, a.NumChildren())
	for i := 0; i < a.NumChildren(); i++ {
		c, err := a.Child(i, a.DType().FieldTypes()[i])
		if err != nil {
			return array.Array{}, err
		}
		sliced, err := array.WithDyn(c, func(e array.Encoding) (array.Array, error) {
			s, ok := e.(array.Slicer)
			if !ok {
				return array.Array{}, vxerr.NotImplementedf("slice", c.Encoding())
			}
			return s.Slice(c, start, stop)
		})
		if err != nil {
			return array.Array{}, err
		}
		out[i] = sliced
	}
	return New(names, out, a.Validity().Slice(start, stop)), nil
}

func (encoding) ScalarAt(a array.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerr.OutOfBoundsf(i, a.Len())
	}
	if !a.Validity().IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	names := a.DType().FieldNames()
	vals := make(map[string]scalar.Scalar, len(names))
	for idx, name := range names {
		c, err := a.Child(idx, a.DType().FieldTypes()[idx])
		if err != nil {
			return scalar.Scalar{}, err
		}
		v, err := array.WithDyn(c, func(e array.Encoding) (scalar.Scalar, error) {
			sa, ok := e.(array.ScalarAtter)
			if !ok {
				return scalar.Scalar{}, vxerr.NotImplementedf("scalar_at", c.Encoding())
			}
			return sa.ScalarAt(c, i)
		})
		if err != nil {
			return scalar.Scalar{}, err
		}
		vals[name] = v
	}
	return scalar.Of(a.DType(), vals), nil
}
