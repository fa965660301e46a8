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
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/chunked"
	"github.com/vortexdb/vortex/compute"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/stats"
	"github.com/vortexdb/vortex/stream"
	"github.com/vortexdb/vortex/vxerr"
)

// PerformanceHint is the I/O handle's optional latency/throughput
// estimate, passed to the coalescing policy. Neither DefaultPolicy nor
// ProductionPolicy reads it.
type PerformanceHint struct {
	LatencyNS     int64
	ThroughputBPS int64
}

// ReadAt is the seekable byte source a ChunkedArrayReader reads
// through: "read_at(offset, len) -> bytes". Suspension
// happens here and nowhere else in the core -- callers
// pass a ctx so a cancelled take_rows call can abandon an in-flight
// read without corrupting reader state.
type ReadAt interface {
	ReadAt(ctx context.Context, offset, length int64) ([]byte, error)
}

// Hinter is the optional capability a ReadAt may offer: a
// performance_hint() that is handed to the coalescing policy.
type Hinter interface {
	PerformanceHint() PerformanceHint
}

func hintOf(r ReadAt) PerformanceHint {
	if h, ok := r.(Hinter); ok {
		return h.PerformanceHint()
	}
	return PerformanceHint{}
}

// ChunkIndices records, for one on-disk chunk, the contiguous run of
// positions in the caller's indices array that fall inside it.
type ChunkIndices struct {
	ChunkIdx     int
	IndicesStart int
	IndicesStop  int
}

// CoalescePolicy groups adjacent ChunkIndices into read ranges.
// DefaultPolicy gives each chunk its own range; ProductionPolicy
// merges adjacent ranges under fixed byte-size constraints and does
// not consult the PerformanceHint it is given.
type CoalescePolicy interface {
	Coalesce(chunks []ChunkIndices, byteOffsets []uint64, hint PerformanceHint) [][]ChunkIndices
}

// DefaultPolicy issues one read per chunk: no coalescing at all.
type DefaultPolicy struct{}

func (DefaultPolicy) Coalesce(chunks []ChunkIndices, byteOffsets []uint64, _ PerformanceHint) [][]ChunkIndices {
	out := make([][]ChunkIndices, len(chunks))
	for i, c := range chunks {
		out[i] = []ChunkIndices{c}
	}
	return out
}

// ProductionPolicy merges adjacent chunk ranges under three
// constraints: a minimum coalesced byte size, a maximum byte gap
// between ranges worth bridging, and a maximum wasted-byte ratio
// (bytes read but not requested, over bytes requested).
type ProductionPolicy struct {
	MinBytes       int64
	MaxGap         int64
	MaxWastedRatio float64
}

func (p ProductionPolicy) Coalesce(chunks []ChunkIndices, byteOffsets []uint64, hint PerformanceHint) [][]ChunkIndices {
	if len(chunks) <= 1 {
		return DefaultPolicy{}.Coalesce(chunks, byteOffsets, hint)
	}
	var out [][]ChunkIndices
	cur := []ChunkIndices{chunks[0]}
	for _, next := range chunks[1:] {
		last := cur[len(cur)-1]
		gap := int64(byteOffsets[next.ChunkIdx]) - int64(byteOffsets[last.ChunkIdx+1])
		curBytes := int64(byteOffsets[last.ChunkIdx+1]) - int64(byteOffsets[cur[0].ChunkIdx])
		wastedRatio := 0.0
		if curBytes > 0 {
			wastedRatio = float64(gap) / float64(curBytes)
		}
		shouldMerge := gap >= 0 && (curBytes < p.MinBytes ||
			(gap <= p.MaxGap && (p.MaxWastedRatio <= 0 || wastedRatio <= p.MaxWastedRatio)))
		if shouldMerge {
			cur = append(cur, next)
			continue
		}
		out = append(out, cur)
		cur = []ChunkIndices{next}
	}
	out = append(out, cur)
	return out
}

// ChunkedArrayReader owns a read-at-offset I/O handle plus the
// row/byte offset tables needed to locate any row by index.
type ChunkedArrayReader struct {
	read        ReadAt
	viewContext *ViewContext
	dtype       dtype.DType
	rowOffsets  []uint64
	byteOffsets []uint64
	policy      CoalescePolicy
	decomp      buffer.Decompressor
}

// ChunkedArrayReaderBuilder constructs a ChunkedArrayReader. Missing
// required options fail MissingOption(name). Decompressor is optional
// and only needed when the on-disk chunk messages were framed with a
// Compressor; leave it nil for an uncompressed layout.
type ChunkedArrayReaderBuilder struct {
	Read         ReadAt
	ViewContext  *ViewContext
	DType        dtype.DType
	RowOffsets   []uint64
	ByteOffsets  []uint64
	Policy       CoalescePolicy
	Decompressor buffer.Decompressor
}

// Build validates the builder and constructs a reader.
func (b ChunkedArrayReaderBuilder) Build() (*ChunkedArrayReader, error) {
	if b.Read == nil {
		return nil, vxerr.MissingOptionf("read")
	}
	if b.ViewContext == nil {
		return nil, vxerr.MissingOptionf("view_context")
	}
	if b.RowOffsets == nil {
		return nil, vxerr.MissingOptionf("row_offsets")
	}
	if b.ByteOffsets == nil {
		return nil, vxerr.MissingOptionf("byte_offsets")
	}
	if len(b.RowOffsets) != len(b.ByteOffsets) {
		return nil, vxerr.InvalidEncodingf("row_offsets and byte_offsets must have equal length (chunks+1)")
	}
	for i := 1; i < len(b.RowOffsets); i++ {
		if b.RowOffsets[i] < b.RowOffsets[i-1] {
			return nil, vxerr.InvalidEncodingf("row_offsets must be non-decreasing")
		}
		if b.ByteOffsets[i] <= b.ByteOffsets[i-1] {
			return nil, vxerr.InvalidEncodingf("byte_offsets must be strictly increasing")
		}
	}
	policy := b.Policy
	if policy == nil {
		policy = DefaultPolicy{}
	}
	return &ChunkedArrayReader{
		read:        b.Read,
		viewContext: b.ViewContext,
		dtype:       b.DType,
		rowOffsets:  b.RowOffsets,
		byteOffsets: b.ByteOffsets,
		policy:      policy,
		decomp:      b.Decompressor,
	}, nil
}

func (r *ChunkedArrayReader) RowOffsets() []uint64 { return r.rowOffsets }
func (r *ChunkedArrayReader) ByteOffsets() []uint64 { return r.byteOffsets }
func (r *ChunkedArrayReader) NumChunks() int         { return len(r.rowOffsets) - 1 }
func (r *ChunkedArrayReader) Len() int {
	if len(r.rowOffsets) == 0 {
		return 0
	}
	return int(r.rowOffsets[len(r.rowOffsets)-1])
}

// Window restricts a reader to the chunk sub-range [lo, hi): it lets
// a caller re-use one trailer's row/byte offset tables to read a
// slice of chunks without re-parsing anything.
func (r *ChunkedArrayReader) Window(lo, hi int) (*ChunkedArrayReader, error) {
	if lo < 0 || hi < lo || hi > r.NumChunks() {
		return nil, vxerr.OutOfBoundsf(hi, r.NumChunks())
	}
	rowOffsets := make([]uint64, hi-lo+1)
	byteOffsets := make([]uint64, hi-lo+1)
	base := r.rowOffsets[lo]
	for i := range rowOffsets {
		rowOffsets[i] = r.rowOffsets[lo+i] - base
		byteOffsets[i] = r.byteOffsets[lo+i]
	}
	return &ChunkedArrayReader{
		read:        r.read,
		viewContext: r.viewContext,
		dtype:       r.dtype,
		rowOffsets:  rowOffsets,
		byteOffsets: byteOffsets,
		policy:      r.policy,
		decomp:      r.decomp,
	}, nil
}

// TakeRows locates the minimum set of chunks covering indices,
// coalesces their byte ranges into read requests, relativizes the
// indices per range, and streams the results back as a single
// ChunkedArray.
func (r *ChunkedArrayReader) TakeRows(ctx context.Context, indices array.Array) (chunked.ChunkedArray, error) {
	idxU64, err := compute.Cast(indices, dtype.IDX)
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	idx, err := primitivearr.Uint64s(idxU64)
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	if len(idx) == 0 {
		return chunked.New(r.dtype, nil)
	}
	// Consult the indices' one-shot stats bag for strict-sortedness
	// rather than re-scanning on a repeated call against the same
	// cast array.
	strictSorted := idxU64.Statistics().GetOrCompute(stats.IsStrictSorted, func() any {
		return isStrictSorted(idx)
	}).(bool)
	hashLo, hashHi := contentHashOf(idxU64, idx)
	if !strictSorted {
		return r.takeRowsUnsorted(ctx, idx, hashLo, hashHi)
	}
	return r.takeRowsStrictSorted(ctx, idxU64, idx, hashLo, hashHi)
}

// contentHashOf returns idxU64's cached content hash, computed at
// most once per array and reused here to tag every read error raised
// while servicing this call with a stable per-payload identifier,
// rather than a fresh uuid per range that can't be correlated back
// to the indices that produced it.
func contentHashOf(idxU64 array.Array, idx []uint64) (lo, hi uint64) {
	v := idxU64.Statistics().GetOrCompute(stats.ContentHash, func() any {
		l, h := stats.HashUint64s(idx)
		return [2]uint64{l, h}
	}).([2]uint64)
	return v[0], v[1]
}

func isStrictSorted(idx []uint64) bool {
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			return false
		}
	}
	return true
}

// takeRowsUnsorted is the sort+invert path: sort the indices, run
// the sorted path, then gather the sorted result back into the
// caller's original order.
func (r *ChunkedArrayReader) takeRowsUnsorted(ctx context.Context, idx []uint64, hashLo, hashHi uint64) (chunked.ChunkedArray, error) {
	perm := compute.SortIndices(idx)
	sortedIdx := compute.ApplyPermutation(idx, perm)
	inv := compute.InvertPermutation(perm)

	sorted, err := r.takeRowsStrictSorted(ctx, primitivearr.NewIndices(sortedIdx), sortedIdx, hashLo, hashHi)
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	flat, err := flattenChunked(sorted)
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	reordered, err := compute.Take(flat, primitivearr.NewIndices(inv))
	if err != nil {
		return chunked.ChunkedArray{}, err
	}
	return chunked.New(r.dtype, []array.Array{reordered})
}

func flattenChunked(c chunked.ChunkedArray) (array.Array, error) {
	if c.NumChunks() == 0 {
		return array.Array{}, vxerr.InvalidEncodingf("take_rows: empty chunked result")
	}
	if c.NumChunks() == 1 {
		return c.Chunk(0), nil
	}
	chunks := make([]array.Array, c.NumChunks())
	for i := range chunks {
		chunks[i] = c.Chunk(i)
	}
	return compute.AsContiguous(chunks)
}

// takeRowsStrictSorted is the sorted fast path: given strict-sorted,
// in-range indices, find the relevant chunks, coalesce them, and
// read each coalesced range once.
func (r *ChunkedArrayReader) takeRowsStrictSorted(ctx context.Context, indicesArr array.Array, idx []uint64, hashLo, hashHi uint64) (chunked.ChunkedArray, error) {
	numRows := r.Len()
	if int(idx[len(idx)-1]) >= numRows {
		return chunked.ChunkedArray{}, vxerr.OutOfBoundsf(int(idx[len(idx)-1]), numRows)
	}

	chunkRuns := findChunks(r.rowOffsets, idx)
	coalesced := r.policy.Coalesce(chunkRuns, r.byteOffsets, hintOf(r.read))

	var outChunks []array.Array
	for _, rng := range coalesced {
		loChunk := rng[0].ChunkIdx
		hiChunk := rng[len(rng)-1].ChunkIdx

		startByte := int64(r.byteOffsets[loChunk])
		stopByte := int64(r.byteOffsets[hiChunk+1])
		startRow := r.rowOffsets[loChunk]
		stopRow := r.rowOffsets[hiChunk+1]

		startRowScalar := scalarU64(startRow)
		indicesStart, err := compute.SearchSorted(indicesArr, startRowScalar, array.Left)
		if err != nil {
			return chunked.ChunkedArray{}, err
		}
		stopRowScalar := scalarU64(stopRow)
		indicesStop, err := compute.SearchSorted(indicesArr, stopRowScalar, array.Left)
		if err != nil {
			return chunked.ChunkedArray{}, err
		}
		relSlice, err := compute.Slice(indicesArr, indicesStart, indicesStop)
		if err != nil {
			return chunked.ChunkedArray{}, err
		}
		relIndices, err := compute.SubtractScalar(relSlice, startRowScalar)
		if err != nil {
			return chunked.ChunkedArray{}, err
		}

		raw, err := r.read.ReadAt(ctx, startByte, stopByte-startByte)
		if err != nil {
			return chunked.ChunkedArray{}, vxerr.IOf(fmt.Errorf("take_rows[%s/%016x%016x] range [%d,%d): %w", correlationID(), hashLo, hashHi, startByte, stopByte, err))
		}

		rangeReader := &byteRangeSource{vc: r.viewContext, dt: r.dtype, decomp: r.decomp, buf: raw}
		taken, err := stream.TakeRows(rangeReader, relIndices)
		if err != nil {
			return chunked.ChunkedArray{}, err
		}
		for i := 0; i < taken.NumChunks(); i++ {
			outChunks = append(outChunks, taken.Chunk(i))
		}
	}
	return chunked.New(r.dtype, outChunks)
}

func scalarU64(v uint64) scalar.Scalar { return scalar.Of(dtype.IDX, v) }

// findChunks aggregates, for every index position, the on-disk chunk
// that owns it, preserving each chunk's contiguous run of positions:
// a binary search against row_offsets falling back to
// insertion_point-1 when there's no exact hit.
func findChunks(rowOffsets []uint64, idx []uint64) []ChunkIndices {
	byChunk := map[int]*ChunkIndices{}
	var order []int
	for pos, v := range idx {
		ci := binarySearchChunk(rowOffsets, v)
		if c, ok := byChunk[ci]; ok {
			c.IndicesStop = pos + 1
			continue
		}
		c := &ChunkIndices{ChunkIdx: ci, IndicesStart: pos, IndicesStop: pos + 1}
		byChunk[ci] = c
		order = append(order, ci)
	}
	slices.Sort(order)
	out := make([]ChunkIndices, len(order))
	for i, ci := range order {
		out[i] = *byChunk[ci]
	}
	return out
}

// binarySearchChunk finds the chunk whose half-open row range
// [row_offsets[c], row_offsets[c+1]) contains v: the insertion point
// of v in row_offsets, minus one unless v is itself a boundary.
func binarySearchChunk(rowOffsets []uint64, v uint64) int {
	lo, hi := 0, len(rowOffsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if rowOffsets[mid] <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	ci := lo - 1
	if ci < 0 {
		ci = 0
	}
	if ci >= len(rowOffsets)-1 {
		ci = len(rowOffsets) - 2
	}
	return ci
}
