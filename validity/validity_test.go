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

package validity

import "testing"

func TestFromBoolsCompacts(t *testing.T) {
	if k := FromBools([]bool{true, true, true}).Kind(); k != KindAllValid {
		t.Errorf("all-true should compact to AllValid, got kind %d", k)
	}
	if k := FromBools([]bool{false, false}).Kind(); k != KindAllInvalid {
		t.Errorf("all-false should compact to AllInvalid, got kind %d", k)
	}
	if k := FromBools([]bool{true, false}).Kind(); k != KindArray {
		t.Errorf("mixed bools should stay Array, got kind %d", k)
	}
	if k := FromBools(nil).Kind(); k != KindAllValid {
		t.Errorf("empty bools should compact to AllValid, got kind %d", k)
	}
}

func TestIsValid(t *testing.T) {
	if !NonNullable().IsValid(0) {
		t.Error("NonNullable should report every index valid")
	}
	if !AllValid().IsValid(5) {
		t.Error("AllValid should report every index valid")
	}
	if AllInvalid().IsValid(0) {
		t.Error("AllInvalid should report every index invalid")
	}
	mixed := FromBools([]bool{true, false, true})
	if !mixed.IsValid(0) || mixed.IsValid(1) || !mixed.IsValid(2) {
		t.Error("Array validity should track the underlying bits")
	}
}

func TestSliceAndTakePassThroughCompactVariants(t *testing.T) {
	v := AllValid()
	if v.Slice(0, 10).Kind() != KindAllValid {
		t.Error("slicing a compact variant should stay compact")
	}
	if v.Take([]uint64{0, 1}).Kind() != KindAllValid {
		t.Error("taking from a compact variant should stay compact")
	}

	arr := FromBools([]bool{true, false, true, false})
	sliced := arr.Slice(1, 3)
	if sliced.Kind() != KindArray {
		t.Fatalf("slicing an Array variant should stay Array, got kind %d", sliced.Kind())
	}
	if sliced.IsValid(0) || !sliced.IsValid(1) {
		t.Error("sliced validity should reflect the original bits at the new offsets")
	}
}

func TestToLogicalCompactsUniformArray(t *testing.T) {
	uniform := FromBoolArray(NewBoolArray([]bool{true, true, true}))
	if l := uniform.ToLogical(3); !l.AllValid() {
		t.Error("a uniformly-true Array variant should compact to LogicalAllValid on read")
	}
	mixed := FromBoolArray(NewBoolArray([]bool{true, false}))
	if l := mixed.ToLogical(2); l.AllValid() || l.AllInvalid() {
		t.Error("a mixed Array variant should stay LogicalArrayKind")
	}
}

func TestEqual(t *testing.T) {
	if !NonNullable().Equal(AllValid(), 4) {
		t.Error("NonNullable and AllValid should compare equal: both mean every row present")
	}
	a := FromBools([]bool{true, false, true})
	b := FromBools([]bool{true, false, true})
	if !a.Equal(b, 3) {
		t.Error("two Array variants with identical bits should be Equal")
	}
	c := FromBools([]bool{true, true, false})
	if a.Equal(c, 3) {
		t.Error("Array variants with different bits should not be Equal")
	}
}

func TestLogicalValidityRoundTrip(t *testing.T) {
	orig := FromBools([]bool{true, false, true, true})
	logical := orig.ToLogical(4)
	back := logical.IntoValidity()
	if !orig.Equal(back, 4) {
		t.Error("Validity -> LogicalValidity -> Validity should round trip")
	}
}

func TestFromLogicalSeq(t *testing.T) {
	allValid := []LogicalValidity{LogicalAllValid(2), LogicalAllValid(3)}
	if FromLogicalSeq(allValid).Kind() != KindAllValid {
		t.Error("concatenating all-valid segments should compact to AllValid")
	}

	allInvalid := []LogicalValidity{LogicalAllInvalid(2), LogicalAllInvalid(1)}
	if FromLogicalSeq(allInvalid).Kind() != KindAllInvalid {
		t.Error("concatenating all-invalid segments should compact to AllInvalid")
	}

	mixed := []LogicalValidity{LogicalAllValid(2), LogicalAllInvalid(1)}
	v := FromLogicalSeq(mixed)
	if v.Kind() != KindArray {
		t.Fatalf("concatenating mixed segments should stay Array, got kind %d", v.Kind())
	}
	if !v.IsValid(0) || !v.IsValid(1) || v.IsValid(2) {
		t.Error("concatenated validity should preserve each segment's bits in order")
	}

	if FromLogicalSeq(nil).Kind() != KindAllValid {
		t.Error("an empty sequence should default to AllValid")
	}
}
