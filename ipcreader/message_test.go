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
	"testing"

	"github.com/vortexdb/vortex/array/boolarr"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/validity"
)

func TestViewContextRoundTrip(t *testing.T) {
	vc := DefaultViewContext()
	got, n, err := ReadViewContext(vc.Bytes())
	if err != nil {
		t.Fatalf("ReadViewContext: %v", err)
	}
	if n != len(vc.Bytes()) {
		t.Fatalf("consumed %d of %d bytes", n, len(vc.Bytes()))
	}
	for _, id := range vc.ids {
		ord, err := vc.ordinal(id)
		if err != nil {
			t.Fatalf("ordinal(%q): %v", id, err)
		}
		gotID, err := got.byOrdinal(ord)
		if err != nil {
			t.Fatalf("byOrdinal(%d): %v", ord, err)
		}
		if gotID != id {
			t.Errorf("round trip: got %q want %q", gotID, id)
		}
	}
}

func TestEncodeDecodeChunkPrimitive(t *testing.T) {
	vc := DefaultViewContext()
	src := primitivearr.NewI32([]int32{1, 2, 3, 4}, validity.NonNullable())
	msg, err := EncodeChunk(vc, src)
	if err != nil {
		t.Fatalf("EncodeChunk: %v", err)
	}
	got, n, err := DecodeChunk(vc, msg)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if n != len(msg) {
		t.Fatalf("consumed %d of %d bytes", n, len(msg))
	}
	if got.Len() != 4 {
		t.Fatalf("length: got %d want 4", got.Len())
	}
	buf, err := got.Buffer(0)
	if err != nil {
		t.Fatalf("Buffer: %v", err)
	}
	vals, err := buffer.View[int32](buf)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	want := []int32{1, 2, 3, 4}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, vals[i], want[i])
		}
	}
}

func TestEncodeDecodeChunkBool(t *testing.T) {
	vc := DefaultViewContext()
	src := boolarr.New([]bool{true, false, true}, validity.NonNullable())
	msg, err := EncodeChunk(vc, src)
	if err != nil {
		t.Fatalf("EncodeChunk: %v", err)
	}
	got, _, err := DecodeChunk(vc, msg)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("length: got %d want 3", got.Len())
	}
}

func TestEncodeFrameCompressedRoundTrip(t *testing.T) {
	vc := DefaultViewContext()
	src := primitivearr.NewI32([]int32{10, 20, 30}, validity.NonNullable())
	comp := buffer.Compression("s2")
	msg, err := EncodeFrame(vc, src, comp)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	decomp := buffer.Decompression("s2")
	got, n, err := DecodeFrame(vc, msg, decomp)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if n != len(msg) {
		t.Fatalf("consumed %d of %d bytes", n, len(msg))
	}
	if got.Len() != 3 {
		t.Fatalf("length: got %d want 3", got.Len())
	}
}

func TestDecodeFrameCompressedWithoutDecompressorFails(t *testing.T) {
	vc := DefaultViewContext()
	src := primitivearr.NewI32([]int32{1}, validity.NonNullable())
	msg, err := EncodeFrame(vc, src, buffer.Compression("s2"))
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if _, _, err := DecodeFrame(vc, msg, nil); err == nil {
		t.Fatal("expected an error decoding a compressed frame with no decompressor")
	}
}
