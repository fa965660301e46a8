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
	"os"
	"path/filepath"
	"testing"

	"github.com/vortexdb/vortex/array/primitivearr"
)

func TestMmapReadAtTakeRows(t *testing.T) {
	vc := DefaultViewContext()
	w := NewArrayWriter(vc)
	rowOffsets, byteOffsets, err := w.WriteChunked(tenChunksOfI32(t))
	if err != nil {
		t.Fatalf("WriteChunked: %v", err)
	}

	fp := filepath.Join(t.TempDir(), "chunked.vx")
	if err := os.WriteFile(fp, w.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	read, err := OpenMmapReadAt(fp, PerformanceHint{})
	if err != nil {
		t.Fatalf("OpenMmapReadAt: %v", err)
	}
	defer read.Close()

	r := buildReaderWithRead(t, vc, read, rowOffsets, byteOffsets)
	result, err := r.TakeRows(context.Background(), primitivearr.NewIndices([]uint64{0, 10, 9999}))
	if err != nil {
		t.Fatalf("TakeRows: %v", err)
	}
	if result.Len() != 3 {
		t.Fatalf("length: got %d want 3", result.Len())
	}
}
