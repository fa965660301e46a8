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
	"testing"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/chunked"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/validity"
)

// tenChunksOfI32 builds the standard fixture: ten chunks of 1000 i32
// values each, chunk c holding [c*1000, (c+1)*1000).
func tenChunksOfI32(t *testing.T) chunked.ChunkedArray {
	t.Helper()
	chunks := make([]array.Array, 10)
	for c := 0; c < 10; c++ {
		vals := make([]int32, 1000)
		for i := range vals {
			vals[i] = int32(c*1000 + i)
		}
		chunks[c] = primitivearr.NewI32(vals, validity.NonNullable())
	}
	ca, err := chunked.New(dtype.Primitive(dtype.I32, dtype.NonNullable), chunks)
	if err != nil {
		t.Fatalf("chunked.New: %v", err)
	}
	return ca
}

func buildReader(t *testing.T, comp buffer.Compressor, decomp buffer.Decompressor) *ChunkedArrayReader {
	t.Helper()
	vc := DefaultViewContext()
	w := NewCompressedArrayWriter(vc, comp)
	rowOffsets, byteOffsets, err := w.WriteChunked(tenChunksOfI32(t))
	if err != nil {
		t.Fatalf("WriteChunked: %v", err)
	}
	r, err := ChunkedArrayReaderBuilder{
		Read:         NewMemReadAt(w.Bytes(), PerformanceHint{}),
		ViewContext:  vc,
		DType:        dtype.Primitive(dtype.I32, dtype.NonNullable),
		RowOffsets:   rowOffsets,
		ByteOffsets:  byteOffsets,
		Decompressor: decomp,
	}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func buildReaderWithRead(t *testing.T, vc *ViewContext, read ReadAt, rowOffsets, byteOffsets []uint64) *ChunkedArrayReader {
	t.Helper()
	r, err := ChunkedArrayReaderBuilder{
		Read:        read,
		ViewContext: vc,
		DType:       dtype.Primitive(dtype.I32, dtype.NonNullable),
		RowOffsets:  rowOffsets,
		ByteOffsets: byteOffsets,
	}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func takeAndCollect(t *testing.T, r *ChunkedArrayReader, indices []uint64) []int32 {
	t.Helper()
	result, err := r.TakeRows(context.Background(), primitivearr.NewIndices(indices))
	if err != nil {
		t.Fatalf("TakeRows: %v", err)
	}
	var out []int32
	for i := 0; i < result.NumChunks(); i++ {
		chunk := result.Chunk(i)
		buf, err := chunk.Buffer(0)
		if err != nil {
			t.Fatalf("Buffer: %v", err)
		}
		vals, err := buffer.View[int32](buf)
		if err != nil {
			t.Fatalf("View: %v", err)
		}
		out = append(out, vals...)
	}
	return out
}

// TestTakeRowsStrictSorted: indices [0, 10, 9999] against ten chunks
// of 1000 i32 values each (chunk c holding [c*1000, (c+1)*1000)) must
// yield [0, 10, 9999].
func TestTakeRowsStrictSorted(t *testing.T) {
	r := buildReader(t, nil, nil)
	got := takeAndCollect(t, r, []uint64{0, 10, 9999})
	want := []int32{0, 10, 9999}
	if len(got) != len(want) {
		t.Fatalf("length: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestTakeRowsSpansMultipleChunks(t *testing.T) {
	r := buildReader(t, nil, nil)
	got := takeAndCollect(t, r, []uint64{999, 1000, 1001, 2500})
	want := []int32{999, 1000, 1001, 2500}
	if len(got) != len(want) {
		t.Fatalf("length: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestTakeRowsUnsortedIndicesPreserveCallerOrder(t *testing.T) {
	r := buildReader(t, nil, nil)
	got := takeAndCollect(t, r, []uint64{9999, 0, 2500, 10})
	want := []int32{9999, 0, 2500, 10}
	if len(got) != len(want) {
		t.Fatalf("length: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestTakeRowsEmptyIndices(t *testing.T) {
	r := buildReader(t, nil, nil)
	got := takeAndCollect(t, r, nil)
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %v", got)
	}
}

func TestTakeRowsOutOfBounds(t *testing.T) {
	r := buildReader(t, nil, nil)
	_, err := r.TakeRows(context.Background(), primitivearr.NewIndices([]uint64{10000}))
	if err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
}

func TestTakeRowsWithCompression(t *testing.T) {
	comp := buffer.Compression("s2")
	decomp := buffer.Decompression("s2")
	r := buildReader(t, comp, decomp)
	got := takeAndCollect(t, r, []uint64{0, 10, 9999})
	want := []int32{0, 10, 9999}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestChunkedArrayReaderBuilderMissingOptions(t *testing.T) {
	vc := DefaultViewContext()
	valid := ChunkedArrayReaderBuilder{
		Read:        NewMemReadAt(nil, PerformanceHint{}),
		ViewContext: vc,
		DType:       dtype.Primitive(dtype.I32, dtype.NonNullable),
		RowOffsets:  []uint64{0},
		ByteOffsets: []uint64{0},
	}

	cases := []struct {
		name   string
		mutate func(b *ChunkedArrayReaderBuilder)
	}{
		{"read", func(b *ChunkedArrayReaderBuilder) { b.Read = nil }},
		{"view_context", func(b *ChunkedArrayReaderBuilder) { b.ViewContext = nil }},
		{"row_offsets", func(b *ChunkedArrayReaderBuilder) { b.RowOffsets = nil }},
		{"byte_offsets", func(b *ChunkedArrayReaderBuilder) { b.ByteOffsets = nil }},
	}
	for _, c := range cases {
		b := valid
		c.mutate(&b)
		if _, err := b.Build(); err == nil {
			t.Errorf("%s: expected MissingOption error", c.name)
		}
	}
}

func TestChunkedArrayReaderBuilderRejectsMismatchedOffsets(t *testing.T) {
	vc := DefaultViewContext()
	_, err := ChunkedArrayReaderBuilder{
		Read:        NewMemReadAt(nil, PerformanceHint{}),
		ViewContext: vc,
		DType:       dtype.Primitive(dtype.I32, dtype.NonNullable),
		RowOffsets:  []uint64{0, 10},
		ByteOffsets: []uint64{0},
	}.Build()
	if err == nil {
		t.Fatal("expected a length-mismatch error")
	}
}

func TestWindow(t *testing.T) {
	r := buildReader(t, nil, nil)
	w, err := r.Window(2, 4)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if w.Len() != 2000 {
		t.Fatalf("Window length: got %d want 2000", w.Len())
	}
	got := takeAndCollect(t, w, []uint64{0, 1999})
	want := []int32{2000, 3999}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestDefaultPolicyOneRangePerChunk(t *testing.T) {
	chunks := []ChunkIndices{{ChunkIdx: 0, IndicesStart: 0, IndicesStop: 1}, {ChunkIdx: 2, IndicesStart: 1, IndicesStop: 2}}
	out := DefaultPolicy{}.Coalesce(chunks, []uint64{0, 10, 20, 30}, PerformanceHint{})
	if len(out) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(out))
	}
	for _, rng := range out {
		if len(rng) != 1 {
			t.Errorf("expected singleton range, got %v", rng)
		}
	}
}

func TestProductionPolicyMergesAdjacentChunks(t *testing.T) {
	chunks := []ChunkIndices{
		{ChunkIdx: 0, IndicesStart: 0, IndicesStop: 1},
		{ChunkIdx: 1, IndicesStart: 1, IndicesStop: 2},
		{ChunkIdx: 5, IndicesStart: 2, IndicesStop: 3},
	}
	byteOffsets := []uint64{0, 10, 20, 30, 40, 50, 60}
	policy := ProductionPolicy{MinBytes: 100, MaxGap: 1 << 20, MaxWastedRatio: 0}
	out := policy.Coalesce(chunks, byteOffsets, PerformanceHint{})
	if len(out) != 1 {
		t.Fatalf("expected every chunk merged under MinBytes, got %d ranges: %v", len(out), out)
	}
}

func TestProductionPolicySplitsOnLargeGap(t *testing.T) {
	chunks := []ChunkIndices{
		{ChunkIdx: 0, IndicesStart: 0, IndicesStop: 1},
		{ChunkIdx: 5, IndicesStart: 1, IndicesStop: 2},
	}
	byteOffsets := []uint64{0, 10, 20, 30, 40, 50, 60}
	policy := ProductionPolicy{MinBytes: 0, MaxGap: 5, MaxWastedRatio: 0}
	out := policy.Coalesce(chunks, byteOffsets, PerformanceHint{})
	if len(out) != 2 {
		t.Fatalf("expected the large gap to split ranges, got %d: %v", len(out), out)
	}
}
