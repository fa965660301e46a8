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

// Package listarr implements the "vortex.list" encoding: an
// exclusive-prefix u32 offsets buffer over one shared element child
// array, the list-typed analogue of varbin's offsets-plus-data
// layout.
package listarr

import (
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

// ID is the stable registry identifier for this encoding.
const ID = "vortex.list"

func init() {
	array.Register(encoding{})
}

// New builds a list array. offsets must have length n+1, exclusive
// prefix, with offsets[n] == elements.Len().
func New(offsets []uint32, elements array.Array, v validity.Validity) array.Array {
	dt := dtype.List(elements.DType(), v.Nullability())
	n := len(offsets) - 1
	buffers := []buffer.Buffer{buffer.FromSlice(offsets)}
	return array.New(dt, n, ID, nil, buffers, []array.Array{elements}, v)
}

func offsets(a array.Array) ([]uint32, error) {
	buf, err := a.Buffer(0)
	if err != nil {
		return nil, err
	}
	return buffer.View[uint32](buf)
}

func elements(a array.Array) (array.Array, error) {
	return a.Child(0, a.DType().Elem())
}

// Range returns the element-child slice [off[i], off[i+1]) for row i,
// ignoring validity.
func Range(a array.Array, i int) (array.Array, error) {
	if i < 0 || i >= a.Len() {
		return array.Array{}, vxerr.OutOfBoundsf(i, a.Len())
	}
	off, err := offsets(a)
	if err != nil {
		return array.Array{}, err
	}
	elem, err := elements(a)
	if err != nil {
		return array.Array{}, err
	}
	return array.WithDyn(elem, func(e array.Encoding) (array.Array, error) {
		s, ok := e.(array.Slicer)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("slice", elem.Encoding())
		}
		return s.Slice(elem, int(off[i]), int(off[i+1]))
	})
}

type encoding struct{}

func (encoding) ID() string                                  { return ID }
func (encoding) Flatten(a array.Array) (array.Array, error) { return a, nil }

// Take gathers whole rows by expanding each selected row's element
// range into a flat per-element index list, then issuing the element
// child's own native Take exactly once -- one gather instead of one
// per row.
func (encoding) Take(a array.Array, indices array.Array) (array.Array, error) {
	idxBuf, err := indices.Buffer(0)
	if err != nil {
		return array.Array{}, err
	}
	idx, err := buffer.View[uint64](idxBuf)
	if err != nil {
		return array.Array{}, err
	}
	off, err := offsets(a)
	if err != nil {
		return array.Array{}, err
	}
	elem, err := elements(a)
	if err != nil {
		return array.Array{}, err
	}
	newOffsets := make([]uint32, len(idx)+1)
	var elemIdx []uint64
	var total uint32
	for j, ix := range idx {
		if int(ix) >= a.Len() {
			return array.Array{}, vxerr.OutOfBoundsf(int(ix), a.Len())
		}
		for e := off[ix]; e < off[ix+1]; e++ {
			elemIdx = append(elemIdx, uint64(e))
		}
		total += off[ix+1] - off[ix]
		newOffsets[j+1] = total
	}
	concatElem, err := array.WithDyn(elem, func(e array.Encoding) (array.Array, error) {
		t, ok := e.(array.Taker)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("take", elem.Encoding())
		}
		return t.Take(elem, primitivearr.NewIndices(elemIdx))
	})
	if err != nil {
		return array.Array{}, err
	}
	return New(newOffsets, concatElem, a.Validity().Take(idx)), nil
}

// Slice trims the offsets buffer and rebases it to start at 0; the
// element child is further narrowed to the exact element range the
// kept rows cover so the slice doesn't retain unreachable elements.
func (encoding) Slice(a array.Array, start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return array.Array{}, vxerr.OutOfBoundsf(stop, a.Len())
	}
	off, err := offsets(a)
	if err != nil {
		return array.Array{}, err
	}
	elem, err := elements(a)
	if err != nil {
		return array.Array{}, err
	}
	base := off[start]
	newOffsets := make([]uint32, stop-start+1)
	for i := start; i <= stop; i++ {
		newOffsets[i-start] = off[i] - base
	}
	slicedElem, err := array.WithDyn(elem, func(e array.Encoding) (array.Array, error) {
		s, ok := e.(array.Slicer)
		if !ok {
			return array.Array{}, vxerr.NotImplementedf("slice", elem.Encoding())
		}
		return s.Slice(elem, int(base), int(off[stop]))
	})
	if err != nil {
		return array.Array{}, err
	}
	return New(newOffsets, slicedElem, a.Validity().Slice(start, stop)), nil
}

func (encoding) ScalarAt(a array.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerr.OutOfBoundsf(i, a.Len())
	}
	if !a.Validity().IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	r, err := Range(a, i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.Of(a.DType(), r), nil
}
