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

package compute

import (
	"testing"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/array/boolarr"
	"github.com/vortexdb/vortex/array/primitivearr"
	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/validity"
)

func i32s(t *testing.T, a array.Array) []int32 {
	t.Helper()
	buf, err := a.Buffer(0)
	if err != nil {
		t.Fatalf("Buffer: %v", err)
	}
	vals, err := buffer.View[int32](buf)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	return vals
}

func TestTakeAndSlice(t *testing.T) {
	a := primitivearr.NewI32([]int32{10, 20, 30, 40}, validity.NonNullable())

	taken, err := Take(a, primitivearr.NewIndices([]uint64{3, 0}))
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if got, want := i32s(t, taken), []int32{40, 10}; got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Take = %v, want %v", got, want)
	}

	sliced, err := Slice(a, 1, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if got, want := i32s(t, sliced), []int32{20, 30}; got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Slice = %v, want %v", got, want)
	}

	if _, err := Slice(a, 0, 5); err == nil {
		t.Error("Slice past the end should fail")
	}
}

func TestScalarAtAndCast(t *testing.T) {
	a := primitivearr.NewI32([]int32{7, 8, 9}, validity.NonNullable())
	s, err := ScalarAt(a, 1)
	if err != nil {
		t.Fatalf("ScalarAt: %v", err)
	}
	if v, ok := s.Int64(); !ok || v != 8 {
		t.Errorf("ScalarAt(1) = %v, %v; want 8, true", v, ok)
	}

	cast, err := Cast(a, dtype.Primitive(dtype.I64, dtype.NonNullable))
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if cast.DType().PType() != dtype.I64 {
		t.Errorf("Cast result ptype = %s, want i64", cast.DType().PType())
	}

	same, err := Cast(a, a.DType())
	if err != nil {
		t.Fatalf("Cast to the same dtype should be identity, got error: %v", err)
	}
	if same.Len() != a.Len() {
		t.Error("Cast to the same dtype should return an equivalent array")
	}
}

func TestSearchSortedAndSubtractScalar(t *testing.T) {
	a := primitivearr.NewIndices([]uint64{10, 20, 30, 40})

	left, err := SearchSorted(a, scalar.Of(dtype.IDX, uint64(30)), array.Left)
	if err != nil {
		t.Fatalf("SearchSorted(left): %v", err)
	}
	if left != 2 {
		t.Errorf("SearchSorted(30, left) = %d, want 2", left)
	}
	right, err := SearchSorted(a, scalar.Of(dtype.IDX, uint64(30)), array.Right)
	if err != nil {
		t.Fatalf("SearchSorted(right): %v", err)
	}
	if right != 3 {
		t.Errorf("SearchSorted(30, right) = %d, want 3", right)
	}

	sub, err := SubtractScalar(a, scalar.Of(dtype.IDX, uint64(10)))
	if err != nil {
		t.Fatalf("SubtractScalar: %v", err)
	}
	vals, err := primitivearr.Uint64s(sub)
	if err != nil {
		t.Fatalf("Uint64s: %v", err)
	}
	want := []uint64{0, 10, 20, 30}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("SubtractScalar = %v, want %v", vals, want)
			break
		}
	}

	if _, err := SubtractScalar(a, scalar.Of(dtype.IDX, uint64(11))); err == nil {
		t.Error("SubtractScalar causing a uint64 underflow should fail with ArithmeticOverflow")
	}
}

func TestAsContiguous(t *testing.T) {
	a := primitivearr.NewI32([]int32{1, 2}, validity.NonNullable())
	b := primitivearr.NewI32([]int32{3, 4, 5}, validity.NonNullable())
	merged, err := AsContiguous([]array.Array{a, b})
	if err != nil {
		t.Fatalf("AsContiguous: %v", err)
	}
	want := []int32{1, 2, 3, 4, 5}
	got := i32s(t, merged)
	if len(got) != len(want) {
		t.Fatalf("AsContiguous length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}

	if _, err := AsContiguous(nil); err == nil {
		t.Error("AsContiguous with no inputs should fail")
	}

	c := primitivearr.NewI64([]int64{1}, validity.NonNullable())
	if _, err := AsContiguous([]array.Array{a, c}); err == nil {
		t.Error("AsContiguous across differing dtypes should fail")
	}
}

func TestSortIndicesApplyInvertPermutation(t *testing.T) {
	idx := []uint64{30, 10, 20}
	perm := SortIndices(idx)
	sorted := ApplyPermutation(idx, perm)
	want := []uint64{10, 20, 30}
	for i := range want {
		if sorted[i] != want[i] {
			t.Errorf("ApplyPermutation(sorted)[%d] = %d, want %d", i, sorted[i], want[i])
		}
	}
	inv := InvertPermutation(perm)
	restored := ApplyPermutation(sorted, inv)
	for i := range idx {
		if restored[i] != idx[i] {
			t.Errorf("inverting the permutation should restore original order: index %d got %d want %d", i, restored[i], idx[i])
		}
	}
}

func TestCompareBoolEqualToDropsInvalidRows(t *testing.T) {
	v := validity.FromBools([]bool{false, true, true, true, true})
	a := boolarr.New([]bool{true, true, false, true, false}, v)

	eq, err := Compare(a, a, array.EqualTo)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	got, err := boolarr.Bools(eq)
	if err != nil {
		t.Fatalf("Bools: %v", err)
	}
	// Every row is trivially equal to itself; only index 0 drops out
	// because it's null in both operands.
	want := []bool{false, true, true, true, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("eq[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if eq.DType().Nullability() != dtype.NonNullable {
		t.Error("compare result should be non-nullable")
	}
}

func TestCompareBoolLessThan(t *testing.T) {
	av := validity.FromBools([]bool{false, true, true, true, true})
	a := boolarr.New([]bool{true, true, false, true, false}, av)
	bv := validity.FromBools([]bool{false, true, true, true, true})
	b := boolarr.New([]bool{false, false, false, true, true}, bv)

	lt, err := Compare(a, b, array.LessThan)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	got, err := boolarr.Bools(lt)
	if err != nil {
		t.Fatalf("Bools: %v", err)
	}
	want := []bool{false, false, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lt[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFilterIndices(t *testing.T) {
	a := primitivearr.NewI32([]int32{1, 2, 3, 4, 5}, validity.NonNullable())
	disjunction := []Conjunction{
		{{Op: array.GreaterThanOrEqualTo, Value: scalar.Of(dtype.Primitive(dtype.I32, dtype.NonNullable), int32(4))}},
	}
	mask, err := FilterIndices(a, disjunction)
	if err != nil {
		t.Fatalf("FilterIndices: %v", err)
	}
	if mask.Len() != a.Len() {
		t.Fatalf("FilterIndices mask length = %d, want %d", mask.Len(), a.Len())
	}
}
