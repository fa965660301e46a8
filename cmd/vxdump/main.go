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

// Command vxdump exercises the full chunked IPC reader end to end: it
// builds a sample chunked i32 array, writes it out with
// ipcreader.ArrayWriter, then re-opens it through
// ipcreader.ChunkedArrayReaderBuilder and prints the rows selected by
// -indices.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/chunked"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/ipcreader"
	"github.com/vortexdb/vortex/validity"
)

func main() {
	chunks := flag.Int("chunks", 10, "number of chunks in the sample array")
	rowsPerChunk := flag.Int("rows", 1000, "rows per chunk in the sample array")
	indicesFlag := flag.String("indices", "0,10,9999", "comma-separated row indices to take")
	compression := flag.String("compress", "", "chunk message compression: \"\", \"s2\" or \"zstd\"")
	file := flag.String("file", "", "write the sample array to this path and read it back via mmap instead of memory")
	flag.Parse()

	indices, err := parseIndices(*indicesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vxdump: bad -indices: %s\n", err)
		os.Exit(1)
	}

	sample, err := sampleChunkedArray(*chunks, *rowsPerChunk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vxdump: building sample array: %s\n", err)
		os.Exit(1)
	}

	vc := ipcreader.DefaultViewContext()
	w := ipcreader.NewCompressedArrayWriter(vc, buffer.Compression(*compression))
	rowOffsets, byteOffsets, err := w.WriteChunked(sample)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vxdump: writing sample array: %s\n", err)
		os.Exit(1)
	}

	read, closeRead, err := openReadAt(*file, w.Bytes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "vxdump: opening backing store: %s\n", err)
		os.Exit(1)
	}
	defer closeRead()

	reader, err := ipcreader.ChunkedArrayReaderBuilder{
		Read:         read,
		ViewContext:  vc,
		DType:        sample.DType(),
		RowOffsets:   rowOffsets,
		ByteOffsets:  byteOffsets,
		Decompressor: buffer.Decompression(*compression),
	}.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vxdump: building reader: %s\n", err)
		os.Exit(1)
	}

	result, err := reader.TakeRows(context.Background(), primitivearr.NewIndices(indices))
	if err != nil {
		fmt.Fprintf(os.Stderr, "vxdump: take_rows: %s\n", err)
		os.Exit(1)
	}

	o := bufio.NewWriter(os.Stdout)
	if err := printRows(o, result); err != nil {
		fmt.Fprintf(os.Stderr, "vxdump: %s\n", err)
		os.Exit(1)
	}
	if err := o.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseIndices(s string) ([]uint64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func sampleChunkedArray(numChunks, rowsPerChunk int) (chunked.ChunkedArray, error) {
	chunks := make([]array.Array, numChunks)
	for c := 0; c < numChunks; c++ {
		vals := make([]int32, rowsPerChunk)
		for i := range vals {
			vals[i] = int32(c*rowsPerChunk + i)
		}
		chunks[c] = primitivearr.NewI32(vals, validity.NonNullable())
	}
	return chunked.New(dtype.Primitive(dtype.I32, dtype.NonNullable), chunks)
}

func printRows(o *bufio.Writer, result chunked.ChunkedArray) error {
	for i := 0; i < result.NumChunks(); i++ {
		chunk := result.Chunk(i)
		buf, err := chunk.Buffer(0)
		if err != nil {
			return err
		}
		vals, err := buffer.View[int32](buf)
		if err != nil {
			return err
		}
		for _, v := range vals {
			if _, err := fmt.Fprintln(o, v); err != nil {
				return err
			}
		}
	}
	return nil
}
