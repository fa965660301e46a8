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
	"context"

	"github.com/vortexdb/vortex/vxerr"
)

// MemReadAt is a ReadAt backed by an in-memory byte slice, for tests
// and the cmd/vxdump CLI.
type MemReadAt struct {
	data []byte
	hint PerformanceHint
}

// NewMemReadAt wraps data. hint is returned verbatim by
// PerformanceHint(); pass the zero value if none is known.
func NewMemReadAt(data []byte, hint PerformanceHint) *MemReadAt {
	return &MemReadAt{data: data, hint: hint}
}

func (m *MemReadAt) ReadAt(ctx context.Context, offset, length int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > int64(len(m.data)) {
		return nil, vxerr.OutOfBoundsf(int(offset+length), len(m.data))
	}
	out := make([]byte, length)
	copy(out, m.data[offset:offset+length])
	return out, nil
}

func (m *MemReadAt) PerformanceHint() PerformanceHint { return m.hint }
