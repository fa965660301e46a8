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

// Package array implements the uniform array handle and
// the encoding registry that lets a concrete encoding
// present itself generically to the compute dispatcher without the
// dispatcher ever needing to know the encoding's internal layout.
package array

import (
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/stats"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

// Array is the uniform, conceptually-immutable handle: a logical
// dtype, a length, an encoding identifier, an opaque metadata blob
// owned by the encoding, owned buffers, owned children, and a
// lazily-populated statistics bag.
//
// Validity is stored directly on the handle rather than as an extra
// entry in Children: Validity's Array variant is already a
// self-contained bit vector (see package validity), so routing it
// through the generic child-array machinery would buy nothing. See
// DESIGN.md for the full rationale.
type Array struct {
	dt         dtype.DType
	length     int
	encodingID string
	metadata   []byte
	buffers    []buffer.Buffer
	children   []Array
	valid      validity.Validity
	bag        *stats.Bag
}

// New constructs an array handle. Encodings call this from their own
// constructors; it is never meant to be called with arbitrary,
// unvalidated arguments by end users.
func New(dt dtype.DType, length int, encodingID string, metadata []byte, buffers []buffer.Buffer, children []Array, v validity.Validity) Array {
	return Array{
		dt:         dt,
		length:     length,
		encodingID: encodingID,
		metadata:   metadata,
		buffers:    buffers,
		children:   children,
		valid:      v,
		bag:        stats.NewBag(),
	}
}

func (a Array) Len() int               { return a.length }
func (a Array) IsEmpty() bool          { return a.length == 0 }
func (a Array) DType() dtype.DType     { return a.dt }
func (a Array) Encoding() string       { return a.encodingID }
func (a Array) Metadata() []byte       { return a.metadata }
func (a Array) NumBuffers() int        { return len(a.buffers) }
func (a Array) NumChildren() int       { return len(a.children) }
func (a Array) Validity() validity.Validity { return a.valid }
func (a Array) Statistics() *stats.Bag { return a.bag }

// Buffer returns the i-th owned buffer.
func (a Array) Buffer(i int) (buffer.Buffer, error) {
	if i < 0 || i >= len(a.buffers) {
		return buffer.Buffer{}, vxerr.OutOfBoundsf(i, len(a.buffers))
	}
	return a.buffers[i], nil
}

// Child returns the i-th owned child array. expectedDType is checked
// against the child's dtype (ignoring nullability) as a defensive
// invariant check; callers always have a concrete dtype to check
// against (e.g. a struct's per-field dtype, a list's element dtype).
func (a Array) Child(i int, expectedDType dtype.DType) (Array, error) {
	if i < 0 || i >= len(a.children) {
		return Array{}, vxerr.OutOfBoundsf(i, len(a.children))
	}
	c := a.children[i]
	if !c.dt.EqIgnoreNullability(expectedDType) {
		return Array{}, vxerr.DTypeMismatchf(expectedDType, c.dt)
	}
	return c, nil
}

// WithMetadata returns a copy of a carrying new opaque encoding
// metadata, used by encodings that need to rewrite their own
// metadata blob (e.g. after recomputing an offsets table).
func (a Array) WithMetadata(metadata []byte) Array {
	a2 := a
	a2.metadata = metadata
	return a2
}

// WithDyn is the uniform bridge between the generic dispatcher and
// the concrete encoding: it looks up a's encoding in the registry and
// invokes fn against it.
func WithDyn[T any](a Array, fn func(Encoding) (T, error)) (T, error) {
	var zero T
	enc, ok := Lookup(a.encodingID)
	if !ok {
		return zero, vxerr.InvalidEncodingf("unknown encoding %q", a.encodingID)
	}
	return fn(enc)
}
