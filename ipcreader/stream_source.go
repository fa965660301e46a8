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

package ipcreader

import (
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
)

// byteRangeSource is the per-range stream reader: it decodes the
// chunk message frames packed into one coalesced byte range in
// order, satisfying stream.Source structurally so stream.TakeRows
// can drain it. decomp is nil unless the reader was built with a
// Decompressor configured.
type byteRangeSource struct {
	vc     *ViewContext
	dt     dtype.DType
	decomp buffer.Decompressor
	buf    []byte
	pos    int
}

func (s *byteRangeSource) DType() dtype.DType { return s.dt }

func (s *byteRangeSource) TryNext() (array.Array, bool, error) {
	if s.pos >= len(s.buf) {
		return array.Array{}, false, nil
	}
	a, n, err := DecodeFrame(s.vc, s.buf[s.pos:], s.decomp)
	if err != nil {
		return array.Array{}, false, err
	}
	s.pos += n
	return a, true, nil
}
