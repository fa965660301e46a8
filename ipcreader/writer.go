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
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/chunked"
)

// ArrayWriter lays out a ChunkedArray on disk: view context bytes,
// then chunk messages, recording the row/byte offset tables as it
// goes. It covers exactly what ChunkedArrayReader needs to
// round-trip against, not a general IPC wire format.
type ArrayWriter struct {
	vc   *ViewContext
	comp buffer.Compressor
	buf  []byte
}

// NewArrayWriter starts a fresh on-disk buffer using vc's interned
// encoding table, with every chunk message written uncompressed.
func NewArrayWriter(vc *ViewContext) *ArrayWriter {
	return NewCompressedArrayWriter(vc, nil)
}

// NewCompressedArrayWriter is NewArrayWriter with every chunk message
// run through comp before being appended. comp may be nil, which is
// equivalent to NewArrayWriter.
func NewCompressedArrayWriter(vc *ViewContext, comp buffer.Compressor) *ArrayWriter {
	w := &ArrayWriter{vc: vc, comp: comp}
	w.buf = append(w.buf, vc.Bytes()...)
	return w
}

// Tell returns the current write position.
func (w *ArrayWriter) Tell() uint64 { return uint64(len(w.buf)) }

// WriteChunked appends every chunk of c as its own message, returning
// the row_offsets/byte_offsets tables a ChunkedArrayReaderBuilder
// needs.
func (w *ArrayWriter) WriteChunked(c chunked.ChunkedArray) (rowOffsets, byteOffsets []uint64, err error) {
	rowOffsets = append(rowOffsets, 0)
	byteOffsets = append(byteOffsets, w.Tell())
	var rowOffset uint64
	for i := 0; i < c.NumChunks(); i++ {
		msg, err := EncodeFrame(w.vc, c.Chunk(i), w.comp)
		if err != nil {
			return nil, nil, err
		}
		w.buf = append(w.buf, msg...)
		rowOffset += uint64(c.Chunk(i).Len())
		rowOffsets = append(rowOffsets, rowOffset)
		byteOffsets = append(byteOffsets, w.Tell())
	}
	return rowOffsets, byteOffsets, nil
}

// Bytes returns the assembled on-disk image.
func (w *ArrayWriter) Bytes() []byte { return w.buf }
