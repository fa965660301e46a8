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

//go:build linux

package ipcreader

import (
	"context"

	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/vxerr"
)

// MmapReadAt is a ReadAt backed by a read-only mapping of an on-disk
// chunked layout (buffer.Mmap), avoiding a copy of the whole file the
// way MemReadAt requires. Close unmaps the file; it is not safe to
// call ReadAt afterward.
type MmapReadAt struct {
	data   buffer.Buffer
	closer func() error
	hint   PerformanceHint
}

// OpenMmapReadAt maps fp read-only. hint is returned verbatim by
// PerformanceHint(); a zero-value hint tells ProductionPolicy nothing
// about the underlying device, which is the right default for a
// locally mapped file.
func OpenMmapReadAt(fp string, hint PerformanceHint) (*MmapReadAt, error) {
	buf, closer, err := buffer.Mmap(fp)
	if err != nil {
		return nil, err
	}
	return &MmapReadAt{data: buf, closer: closer, hint: hint}, nil
}

func (m *MmapReadAt) ReadAt(ctx context.Context, offset, length int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > int64(m.data.Len()) {
		return nil, vxerr.OutOfBoundsf(int(offset+length), m.data.Len())
	}
	return m.data.Bytes()[offset : offset+length], nil
}

func (m *MmapReadAt) PerformanceHint() PerformanceHint { return m.hint }

// Close unmaps the underlying file.
func (m *MmapReadAt) Close() error { return m.closer() }
