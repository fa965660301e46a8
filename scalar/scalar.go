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

// Package scalar implements the single-element value returned by
// compute.ScalarAt: a dtype-tagged value that may be
// null.
package scalar

import (
	"fmt"

	"github.com/vortexdb/vortex/dtype"
)

// Scalar is one element of an array, carrying the array's dtype so a
// caller can interpret Value without reflection on the source array.
type Scalar struct {
	DType dtype.DType
	Valid bool
	Value any
}

// Null returns a null scalar of the given dtype.
func Null(dt dtype.DType) Scalar { return Scalar{DType: dt, Valid: false} }

// Of returns a present scalar wrapping v.
func Of(dt dtype.DType, v any) Scalar { return Scalar{DType: dt, Valid: true, Value: v} }

func (s Scalar) String() string {
	if !s.Valid {
		return fmt.Sprintf("null(%s)", s.DType)
	}
	return fmt.Sprintf("%v(%s)", s.Value, s.DType)
}

// Int64 returns the scalar's value as an int64 along with whether the
// conversion is meaningful (the scalar is valid and numeric).
func (s Scalar) Int64() (int64, bool) {
	if !s.Valid {
		return 0, false
	}
	switch v := s.Value.(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}

// Uint64 returns the scalar's value as a uint64 along with whether the
// conversion is meaningful.
func (s Scalar) Uint64() (uint64, bool) {
	if !s.Valid {
		return 0, false
	}
	switch v := s.Value.(type) {
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case int64:
		return uint64(v), true
	case int32:
		return uint64(v), true
	default:
		return 0, false
	}
}

// Float64 returns the scalar's value as a float64 along with whether
// the conversion is meaningful.
func (s Scalar) Float64() (float64, bool) {
	if !s.Valid {
		return 0, false
	}
	switch v := s.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (s Scalar) Bool() (bool, bool) {
	if !s.Valid {
		return false, false
	}
	b, ok := s.Value.(bool)
	return b, ok
}
