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

// Package stream implements ArrayStream: a lazy, finite
// sequence of arrays sharing one dtype.
package stream

import (
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/chunked"
	"github.com/vortexdb/vortex/compute"
	"github.com/vortexdb/vortex/dtype"
)

// Source is the minimal shape every array stream satisfies:
// chunked.ChunkStream and ipcreader's per-range stream reader both
// implement it structurally, without either package importing this
// one.
type Source interface {
	DType() dtype.DType
	TryNext() (array.Array, bool, error)
}

// RowTaker is the optional capability a Source may offer: native row
// selection without materializing the whole stream. Most sources
// don't have one (TakeRows below falls back to collecting first), so
// it's a separate interface a caller type-asserts for rather than a
// required method.
type RowTaker interface {
	TakeRows(indices array.Array) (Source, error)
}

// TryForEach drains s, invoking fn on every chunk in order; it stops
// and returns the first error from either s or fn.
func TryForEach(s Source, fn func(array.Array) error) error {
	for {
		a, ok, err := s.TryNext()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(a); err != nil {
			return err
		}
	}
}

// CollectChunked drains s into a ChunkedArray.
func CollectChunked(s Source) (chunked.ChunkedArray, error) {
	var chunks []array.Array
	err := TryForEach(s, func(a array.Array) error {
		chunks = append(chunks, a)
		return nil
	})
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	return chunked.New(s.DType(), chunks)
}

// TakeRows drains s through its RowTaker capability if it has one,
// falling back to collecting the whole stream and taking from the
// materialized result otherwise.
func TakeRows(s Source, indices array.Array) (chunked.ChunkedArray, error) {
	if rt, ok := s.(RowTaker); ok {
		taken, err := rt.TakeRows(indices)
		if err != nil {
			return chunked.ChunkedArray{}, err
		}
		return CollectChunked(taken)
	}
	materialized, err := CollectChunked(s)
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	idxU64, err := compute.Cast(indices, dtype.IDX)
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	idx, err := primitivearr.Uint64s(idxU64)
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	return materialized.Take(idx)
}
