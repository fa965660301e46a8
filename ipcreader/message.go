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

// Package ipcreader implements the chunked IPC reader's take_rows
// engine: index-driven random access over an on-disk
// chunked layout via chunk selection, byte-range coalescing, index
// relativization and per-range streaming.
//
// This package defines only the minimal chunk message codec needed
// to exercise take_rows end to end (encodings vortex.bool and
// vortex.primitive, the two flat kinds this module's compute stack
// fully supports), not a general IPC wire format.
package ipcreader

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/boolarr"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/validity"
	"github.com/vortexdb/vortex/vxerr"
)

// frameTag marks whether a chunk message frame carries its payload
// raw or compressed: one byte, ahead of the chunk message itself.
type frameTag byte

const (
	frameRaw        frameTag = 0
	frameCompressed frameTag = 1
)

// ViewContext is the decoder-side dictionary of encoding identifiers
// used to deserialize chunk messages: encodings are interned to a
// small ordinal on write so chunk messages don't repeat the full
// string id.
type ViewContext struct {
	ids []string
}

// DefaultViewContext interns the two concrete flat encodings this
// package's message codec understands.
func DefaultViewContext() *ViewContext {
	return &ViewContext{ids: []string{boolarr.ID, primitivearr.ID}}
}

func (vc *ViewContext) ordinal(encodingID string) (byte, error) {
	for i, id := range vc.ids {
		if id == encodingID {
			return byte(i), nil
		}
	}
	return 0, vxerr.InvalidEncodingf("view context: unregistered encoding %q", encodingID)
}

func (vc *ViewContext) byOrdinal(o byte) (string, error) {
	if int(o) >= len(vc.ids) {
		return "", vxerr.CorruptStreamf("view context: ordinal %d out of range", o)
	}
	return vc.ids[o], nil
}

// Bytes serializes the view context's interned encoding table.
func (vc *ViewContext) Bytes() []byte {
	out := []byte{byte(len(vc.ids))}
	for _, id := range vc.ids {
		out = append(out, byte(len(id)))
		out = append(out, id...)
	}
	return out
}

// ReadViewContext parses the bytes written by Bytes, returning the
// context and the number of bytes consumed.
func ReadViewContext(b []byte) (*ViewContext, int, error) {
	if len(b) < 1 {
		return nil, 0, vxerr.CorruptStreamf("view context: truncated")
	}
	n := int(b[0])
	pos := 1
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if pos >= len(b) {
			return nil, 0, vxerr.CorruptStreamf("view context: truncated entry")
		}
		l := int(b[pos])
		pos++
		if pos+l > len(b) {
			return nil, 0, vxerr.CorruptStreamf("view context: truncated entry bytes")
		}
		ids = append(ids, string(b[pos:pos+l]))
		pos += l
	}
	return &ViewContext{ids: ids}, pos, nil
}

// validityTag is the four-way validity tag written to disk.
type validityTag byte

const (
	tagNonNullable validityTag = iota
	tagAllValid
	tagAllInvalid
	tagArray
)

func encodeValidity(v validity.Validity, length int) []byte {
	switch v.Kind() {
	case validity.KindNonNullable:
		return []byte{byte(tagNonNullable)}
	case validity.KindAllValid:
		return []byte{byte(tagAllValid)}
	case validity.KindAllInvalid:
		return []byte{byte(tagAllInvalid)}
	default:
		arr, _ := v.Array()
		out := []byte{byte(tagArray)}
		return append(out, arr.Buffer().Bytes()...)
	}
}

func decodeValidity(b []byte, length int) (validity.Validity, int, error) {
	if len(b) < 1 {
		return validity.Validity{}, 0, vxerr.CorruptStreamf("validity: truncated tag")
	}
	switch validityTag(b[0]) {
	case tagNonNullable:
		return validity.NonNullable(), 1, nil
	case tagAllValid:
		return validity.AllValid(), 1, nil
	case tagAllInvalid:
		return validity.AllInvalid(), 1, nil
	case tagArray:
		nbytes := (length + 7) / 8
		if len(b) < 1+nbytes {
			return validity.Validity{}, 0, vxerr.CorruptStreamf("validity: truncated bit array")
		}
		bits := buffer.UnpackBits(buffer.New(append([]byte(nil), b[1:1+nbytes]...)), length)
		return validity.FromBoolArray(validity.NewBoolArray(bits)), 1 + nbytes, nil
	default:
		return validity.Validity{}, 0, vxerr.CorruptStreamf("validity: unknown tag %d", b[0])
	}
}

// EncodeChunk serializes one flat array (vortex.bool or
// vortex.primitive) as a chunk message: encoding ordinal, length,
// ptype (primitive only, zero otherwise), validity, raw buffer bytes.
func EncodeChunk(vc *ViewContext, a array.Array) ([]byte, error) {
	ord, err := vc.ordinal(a.Encoding())
	if err != nil {
		return nil, err
	}
	var ptype byte
	var payload []byte
	switch a.Encoding() {
	case primitivearr.ID:
		ptype = byte(a.DType().PType())
		buf, err := a.Buffer(0)
		if err != nil {
			return nil, err
		}
		payload = buf.Bytes()
	case boolarr.ID:
		buf, err := a.Buffer(0)
		if err != nil {
			return nil, err
		}
		payload = buf.Bytes()
	default:
		return nil, vxerr.NotImplementedf("encode_chunk", a.Encoding())
	}
	out := make([]byte, 0, 14+len(payload))
	out = append(out, ord)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(a.Len()))
	out = append(out, lenBuf[:]...)
	out = append(out, ptype)
	out = append(out, encodeValidity(a.Validity(), a.Len())...)
	var plen [4]byte
	binary.LittleEndian.PutUint32(plen[:], uint32(len(payload)))
	out = append(out, plen[:]...)
	out = append(out, payload...)
	return out, nil
}

// DecodeChunk is the inverse of EncodeChunk; it returns the decoded
// array and the number of bytes consumed from b.
func DecodeChunk(vc *ViewContext, b []byte) (array.Array, int, error) {
	if len(b) < 6 {
		return array.Array{}, 0, vxerr.CorruptStreamf("chunk: truncated header")
	}
	encodingID, err := vc.byOrdinal(b[0])
	if err != nil {
		return array.Array{}, 0, err
	}
	length := int(binary.LittleEndian.Uint32(b[1:5]))
	ptype := dtype.PType(b[5])
	pos := 6
	v, n, err := decodeValidity(b[pos:], length)
	if err != nil {
		return array.Array{}, 0, err
	}
	pos += n
	if len(b) < pos+4 {
		return array.Array{}, 0, vxerr.CorruptStreamf("chunk: truncated payload length")
	}
	plen := int(binary.LittleEndian.Uint32(b[pos : pos+4]))
	pos += 4
	if len(b) < pos+plen {
		return array.Array{}, 0, vxerr.CorruptStreamf("chunk: truncated payload")
	}
	payload := b[pos : pos+plen]
	pos += plen
	switch encodingID {
	case primitivearr.ID:
		a, err := decodePrimitive(ptype, length, payload, v)
		return a, pos, err
	case boolarr.ID:
		bits := buffer.UnpackBits(buffer.New(append([]byte(nil), payload...)), length)
		return boolarr.New(bits, v), pos, nil
	default:
		return array.Array{}, 0, vxerr.NotImplementedf("decode_chunk", encodingID)
	}
}

func decodePrimitive(p dtype.PType, length int, payload []byte, v validity.Validity) (array.Array, error) {
	buf := buffer.New(append([]byte(nil), payload...))
	switch p {
	case dtype.I8:
		vals, err := buffer.View[int8](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.I16:
		vals, err := buffer.View[int16](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.I32:
		vals, err := buffer.View[int32](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.I64:
		vals, err := buffer.View[int64](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.U8:
		vals, err := buffer.View[uint8](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.U16:
		vals, err := buffer.View[uint16](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.U32:
		vals, err := buffer.View[uint32](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.U64:
		vals, err := buffer.View[uint64](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.F32:
		vals, err := buffer.View[float32](buf)
		return primitivearr.New(p, vals, v), err
	case dtype.F64:
		vals, err := buffer.View[float64](buf)
		return primitivearr.New(p, vals, v), err
	default:
		return array.Array{}, vxerr.NotImplementedf("decode_chunk", primitivearr.ID)
	}
}

// correlationID tags I/O errors with a fresh uuid so a failed range
// read can be traced through retries and logs.
func correlationID() string { return uuid.New().String() }

// EncodeFrame wraps EncodeChunk's output in an optional compression
// envelope. comp == nil writes the chunk message uncompressed.
func EncodeFrame(vc *ViewContext, a array.Array, comp buffer.Compressor) ([]byte, error) {
	raw, err := EncodeChunk(vc, a)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return append([]byte{byte(frameRaw)}, raw...), nil
	}
	compressed := comp.Compress(raw, nil)
	out := make([]byte, 0, 9+len(compressed))
	out = append(out, byte(frameCompressed))
	var rawLen, compLen [4]byte
	binary.LittleEndian.PutUint32(rawLen[:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(compLen[:], uint32(len(compressed)))
	out = append(out, rawLen[:]...)
	out = append(out, compLen[:]...)
	out = append(out, compressed...)
	return out, nil
}

// DecodeFrame is the inverse of EncodeFrame, returning the decoded
// array and the number of frame bytes consumed from b. decomp may be
// nil only if every frame in the stream is known to be uncompressed;
// a compressed frame with a nil decomp fails with CorruptStream.
func DecodeFrame(vc *ViewContext, b []byte, decomp buffer.Decompressor) (array.Array, int, error) {
	if len(b) < 1 {
		return array.Array{}, 0, vxerr.CorruptStreamf("frame: truncated tag")
	}
	switch frameTag(b[0]) {
	case frameRaw:
		a, n, err := DecodeChunk(vc, b[1:])
		return a, n + 1, err
	case frameCompressed:
		if decomp == nil {
			return array.Array{}, 0, vxerr.CorruptStreamf("frame: compressed chunk with no decompressor configured")
		}
		if len(b) < 9 {
			return array.Array{}, 0, vxerr.CorruptStreamf("frame: truncated compressed header")
		}
		rawLen := int(binary.LittleEndian.Uint32(b[1:5]))
		compLen := int(binary.LittleEndian.Uint32(b[5:9]))
		if len(b) < 9+compLen {
			return array.Array{}, 0, vxerr.CorruptStreamf("frame: truncated compressed payload")
		}
		raw := make([]byte, rawLen)
		if err := decomp.Decompress(b[9:9+compLen], raw); err != nil {
			return array.Array{}, 0, vxerr.IOf(err)
		}
		a, n, err := DecodeChunk(vc, raw)
		if err != nil {
			return array.Array{}, 0, err
		}
		if n != rawLen {
			return array.Array{}, 0, vxerr.CorruptStreamf("frame: chunk message consumed %d of %d decompressed bytes", n, rawLen)
		}
		return a, 9 + compLen, nil
	default:
		return array.Array{}, 0, vxerr.CorruptStreamf("frame: unknown tag %d", b[0])
	}
}
