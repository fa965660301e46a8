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

// Package dtype implements the logical type system: a tagged union
// of null, bool, primitive, utf8, binary, struct, list and extension
// types, each carrying a nullability flag.
package dtype

import (
	"fmt"
	"strings"
)

// Nullability indicates whether a DType admits nulls.
type Nullability int

const (
	NonNullable Nullability = iota
	Nullable
)

func (n Nullability) String() string {
	if n == Nullable {
		return "?"
	}
	return ""
}

// PType enumerates the primitive widths.
type PType int

const (
	I8 PType = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F16
	F32
	F64
)

var ptypeNames = [...]string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f16", "f32", "f64"}

func (p PType) String() string {
	if int(p) < 0 || int(p) >= len(ptypeNames) {
		return "ptype(?)"
	}
	return ptypeNames[p]
}

// Width returns the size in bytes of one element of this primitive
// type, as used by Buffer's typed-slice reinterpretation. F16 is
// stored as two raw bytes; this module never decodes it to a float
// itself.
func (p PType) Width() int {
	switch p {
	case I8, U8:
		return 1
	case I16, U16, F16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	default:
		return 0
	}
}

func (p PType) IsFloat() bool { return p == F16 || p == F32 || p == F64 }
func (p PType) IsSigned() bool {
	return p == I8 || p == I16 || p == I32 || p == I64 || p.IsFloat()
}

// Kind discriminates the DType union's variant.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindPrimitive
	KindUtf8
	KindBinary
	KindStruct
	KindList
	KindExtension
)

// DType is the logical type of an array: a variant tag plus whatever
// payload that variant needs, plus a nullability flag.
//
// DType is a value type safe to copy and compare structurally via
// Equal; Struct and List variants share their field slices rather
// than deep-copying them.
type DType struct {
	kind        Kind
	nullability Nullability

	ptype PType // KindPrimitive

	fieldNames []string // KindStruct
	fieldTypes []DType  // KindStruct

	elem *DType // KindList

	extID   string // KindExtension
	extMeta []byte // KindExtension, optional
}

// Null is the DType of the null-only array (always nullable).
func Null() DType { return DType{kind: KindNull, nullability: Nullable} }

func Bool(n Nullability) DType { return DType{kind: KindBool, nullability: n} }

func Primitive(p PType, n Nullability) DType {
	return DType{kind: KindPrimitive, ptype: p, nullability: n}
}

func Utf8(n Nullability) DType { return DType{kind: KindUtf8, nullability: n} }

func Binary(n Nullability) DType { return DType{kind: KindBinary, nullability: n} }

// Struct builds a struct DType. len(names) must equal len(types).
func Struct(names []string, types []DType, n Nullability) DType {
	return DType{kind: KindStruct, nullability: n, fieldNames: names, fieldTypes: types}
}

func List(elem DType, n Nullability) DType {
	return DType{kind: KindList, nullability: n, elem: &elem}
}

func Extension(id string, meta []byte, n Nullability) DType {
	return DType{kind: KindExtension, nullability: n, extID: id, extMeta: meta}
}

// IDX is the process-wide DType used for every index array: an
// unsigned 64-bit non-nullable primitive.
var IDX = Primitive(U64, NonNullable)

// BYTES is the DType of a raw byte buffer viewed as an array.
var BYTES = Primitive(U8, NonNullable)

func (d DType) Kind() Kind { return d.kind }
func (d DType) PType() PType { return d.ptype }
func (d DType) Elem() DType  { return *d.elem }

// FieldNames returns the struct's field names. Only valid when
// Kind() == KindStruct.
func (d DType) FieldNames() []string { return d.fieldNames }

// FieldTypes returns the struct's field dtypes. Only valid when
// Kind() == KindStruct.
func (d DType) FieldTypes() []DType { return d.fieldTypes }

func (d DType) ExtensionID() string   { return d.extID }
func (d DType) ExtensionMeta() []byte { return d.extMeta }

// IsNullable reports whether this dtype admits nulls. A struct is
// nullable if the container itself is marked nullable, or if every
// field is nullable.
func (d DType) IsNullable() bool {
	switch d.kind {
	case KindNull:
		return true
	case KindStruct:
		if d.nullability == Nullable {
			return true
		}
		for _, f := range d.fieldTypes {
			if !f.IsNullable() {
				return false
			}
		}
		return true
	default:
		return d.nullability == Nullable
	}
}

// Nullability returns Nullable/NonNullable consistent with IsNullable.
func (d DType) Nullability() Nullability {
	if d.IsNullable() {
		return Nullable
	}
	return NonNullable
}

// WithNullability returns a copy of d with the given nullability
// flag; for Struct it only rewrites the container flag, the
// all-fields-nullable exception in IsNullable still applies when
// reading it back.
func (d DType) WithNullability(n Nullability) DType {
	d2 := d
	d2.nullability = n
	return d2
}

func (d DType) AsNullable() DType    { return d.WithNullability(Nullable) }
func (d DType) AsNonNullable() DType { return d.WithNullability(NonNullable) }

// EqIgnoreNullability compares two dtypes structurally while
// disregarding nullability at every level of the tree.
func (d DType) EqIgnoreNullability(o DType) bool {
	if d.kind != o.kind {
		return false
	}
	switch d.kind {
	case KindNull:
		return true
	case KindBool, KindUtf8, KindBinary:
		return true
	case KindPrimitive:
		return d.ptype == o.ptype
	case KindStruct:
		if len(d.fieldNames) != len(o.fieldNames) {
			return false
		}
		for i := range d.fieldNames {
			if d.fieldNames[i] != o.fieldNames[i] {
				return false
			}
			if !d.fieldTypes[i].EqIgnoreNullability(o.fieldTypes[i]) {
				return false
			}
		}
		return true
	case KindList:
		return d.elem.EqIgnoreNullability(*o.elem)
	case KindExtension:
		return d.extID == o.extID
	default:
		return false
	}
}

// Equal compares two dtypes structurally, including nullability.
func (d DType) Equal(o DType) bool {
	return d.nullability == o.nullability && d.EqIgnoreNullability(o)
}

// FindName returns the position of the first field named s, or
// (-1, false) if no such field exists. Only valid for Kind() ==
// KindStruct.
func (d DType) FindName(s string) (int, bool) {
	for i, n := range d.fieldNames {
		if n == s {
			return i, true
		}
	}
	return -1, false
}

// String renders a deterministic, round-trippable (for debugging
// only) textual form of the dtype, e.g. "i64?", "{a=i32, b=utf8?}".
func (d DType) String() string {
	switch d.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "bool" + d.nullability.String()
	case KindPrimitive:
		return d.ptype.String() + d.nullability.String()
	case KindUtf8:
		return "utf8" + d.nullability.String()
	case KindBinary:
		return "binary" + d.nullability.String()
	case KindStruct:
		var b strings.Builder
		b.WriteByte('{')
		for i, n := range d.fieldNames {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", n, d.fieldTypes[i])
		}
		b.WriteByte('}')
		b.WriteString(d.nullability.String())
		return b.String()
	case KindList:
		return fmt.Sprintf("list(%s)%s", d.elem, d.nullability)
	case KindExtension:
		if d.extMeta != nil {
			return fmt.Sprintf("ext(%s, %v)%s", d.extID, d.extMeta, d.nullability)
		}
		return fmt.Sprintf("ext(%s)%s", d.extID, d.nullability)
	default:
		return "dtype(?)"
	}
}
