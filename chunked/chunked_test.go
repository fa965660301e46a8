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

package chunked

import (
	"testing"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/validity"
)

func threeChunks(t *testing.T) ChunkedArray {
	t.Helper()
	chunks := []array.Array{
		primitivearr.NewI32([]int32{0, 1, 2}, validity.NonNullable()),
		primitivearr.NewI32([]int32{3, 4}, validity.NonNullable()),
		primitivearr.NewI32([]int32{5, 6, 7, 8}, validity.NonNullable()),
	}
	ca, err := New(dtype.Primitive(dtype.I32, dtype.NonNullable), chunks)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ca
}

func TestNewRejectsDTypeMismatch(t *testing.T) {
	chunks := []array.Array{primitivearr.NewI32([]int32{1}, validity.NonNullable())}
	if _, err := New(dtype.Primitive(dtype.I64, dtype.NonNullable), chunks); err == nil {
		t.Fatal("expected a dtype mismatch error")
	}
}

func TestLenAndRowOffsets(t *testing.T) {
	ca := threeChunks(t)
	if ca.Len() != 9 {
		t.Errorf("Len() = %d, want 9", ca.Len())
	}
	want := []uint64{0, 3, 5, 9}
	got := ca.RowOffsets()
	if len(got) != len(want) {
		t.Fatalf("RowOffsets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RowOffsets()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFindChunkIdx(t *testing.T) {
	ca := threeChunks(t)
	cases := []struct {
		row  int
		want int
	}{
		{0, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 2}, {8, 2},
	}
	for _, c := range cases {
		if got := ca.FindChunkIdx(c.row); got != c.want {
			t.Errorf("FindChunkIdx(%d) = %d, want %d", c.row, got, c.want)
		}
	}
}

func TestSliceWithinOneChunk(t *testing.T) {
	ca := threeChunks(t)
	sliced, err := ca.Slice(5, 8)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if sliced.Len() != 3 {
		t.Fatalf("Slice length = %d, want 3", sliced.Len())
	}
}

func TestSliceAcrossChunks(t *testing.T) {
	ca := threeChunks(t)
	sliced, err := ca.Slice(2, 6)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if sliced.Len() != 4 {
		t.Fatalf("Slice length = %d, want 4", sliced.Len())
	}
	taken, err := sliced.Take([]uint64{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	var got []int32
	for i := 0; i < taken.NumChunks(); i++ {
		vals, err := i32Values(taken.Chunk(i))
		if err != nil {
			t.Fatalf("i32Values: %v", err)
		}
		got = append(got, vals...)
	}
	want := []int32{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestTakeOutOfBounds(t *testing.T) {
	ca := threeChunks(t)
	if _, err := ca.Take([]uint64{9}); err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
}

func TestTakeEmptyIndices(t *testing.T) {
	ca := threeChunks(t)
	taken, err := ca.Take(nil)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if taken.NumChunks() != 0 {
		t.Fatalf("expected no chunks, got %d", taken.NumChunks())
	}
}

func TestDecompressed(t *testing.T) {
	ca := threeChunks(t)
	if got := ca.Decompressed(); got != 9 {
		t.Errorf("Decompressed() = %d, want 9", got)
	}
}

func TestArrayStream(t *testing.T) {
	ca := threeChunks(t)
	s := ca.ArrayStream()
	var n int
	for {
		a, ok, err := s.TryNext()
		if err != nil {
			t.Fatalf("TryNext: %v", err)
		}
		if !ok {
			break
		}
		n += a.Len()
	}
	if n != ca.Len() {
		t.Errorf("ArrayStream yielded %d rows total, want %d", n, ca.Len())
	}
}

func i32Values(a array.Array) ([]int32, error) {
	buf, err := a.Buffer(0)
	if err != nil {
		return nil, err
	}
	return buffer.View[int32](buf)
}
