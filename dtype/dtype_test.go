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

package dtype

import "testing"

func TestEqualIgnoresOrRespectsNullability(t *testing.T) {
	a := Primitive(I32, NonNullable)
	b := Primitive(I32, Nullable)

	if a.Equal(b) {
		t.Error("Equal should distinguish nullability")
	}
	if !a.EqIgnoreNullability(b) {
		t.Error("EqIgnoreNullability should ignore nullability")
	}
	if !a.Equal(Primitive(I32, NonNullable)) {
		t.Error("identical dtypes should be Equal")
	}
}

func TestStructIsNullableAllFieldsException(t *testing.T) {
	allNullable := Struct(
		[]string{"a", "b"},
		[]DType{Primitive(I32, Nullable), Utf8(Nullable)},
		NonNullable,
	)
	if !allNullable.IsNullable() {
		t.Error("a struct whose every field is nullable should itself report nullable")
	}

	mixed := Struct(
		[]string{"a", "b"},
		[]DType{Primitive(I32, Nullable), Utf8(NonNullable)},
		NonNullable,
	)
	if mixed.IsNullable() {
		t.Error("a struct with one non-nullable field and a non-nullable container should not be nullable")
	}

	containerNullable := Struct(
		[]string{"a"},
		[]DType{Primitive(I32, NonNullable)},
		Nullable,
	)
	if !containerNullable.IsNullable() {
		t.Error("a struct marked nullable at the container level should be nullable regardless of fields")
	}

	// A non-nullable struct with no fields is nullable: "all fields are
	// nullable" holds vacuously for zero fields.
	empty := Struct(nil, nil, NonNullable)
	if !empty.IsNullable() {
		t.Error("an empty struct should be nullable (vacuous truth over zero fields)")
	}
}

func TestFindName(t *testing.T) {
	s := Struct([]string{"x", "y"}, []DType{Primitive(I64, NonNullable), Primitive(F64, NonNullable)}, NonNullable)
	if i, ok := s.FindName("y"); !ok || i != 1 {
		t.Errorf("FindName(y) = %d, %v; want 1, true", i, ok)
	}
	if _, ok := s.FindName("z"); ok {
		t.Error("FindName(z) should fail on an absent field")
	}
}

func TestListEqIgnoreNullability(t *testing.T) {
	l1 := List(Primitive(I32, NonNullable), NonNullable)
	l2 := List(Primitive(I32, Nullable), Nullable)
	if !l1.EqIgnoreNullability(l2) {
		t.Error("lists of the same element kind should match ignoring nullability")
	}
	if l1.Equal(l2) {
		t.Error("lists differing in nullability should not be Equal")
	}
}

func TestPTypeWidthAndSign(t *testing.T) {
	cases := []struct {
		p        PType
		width    int
		isFloat  bool
		isSigned bool
	}{
		{I8, 1, false, true},
		{U8, 1, false, false},
		{U64, 8, false, false},
		{F32, 4, true, true},
		{F16, 2, true, true},
	}
	for _, c := range cases {
		if got := c.p.Width(); got != c.width {
			t.Errorf("%s.Width() = %d, want %d", c.p, got, c.width)
		}
		if got := c.p.IsFloat(); got != c.isFloat {
			t.Errorf("%s.IsFloat() = %v, want %v", c.p, got, c.isFloat)
		}
		if got := c.p.IsSigned(); got != c.isSigned {
			t.Errorf("%s.IsSigned() = %v, want %v", c.p, got, c.isSigned)
		}
	}
}

func TestStringRendering(t *testing.T) {
	cases := []struct {
		d    DType
		want string
	}{
		{Primitive(I64, NonNullable), "i64"},
		{Primitive(I64, Nullable), "i64?"},
		{Utf8(NonNullable), "utf8"},
		{Null(), "null"},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
