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

package array

import (
	"sync"

	"github.com/vortexdb/vortex/buffer"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
)

// Encoding is the capability surface every concrete physical
// representation must implement. Encodings additionally
// implement whichever of the optional capability interfaces below
// (Taker, Slicer, ...) they can support natively; the compute
// dispatcher falls back to Flatten when a capability is absent.
type Encoding interface {
	// ID is the stable string identifier registered for this
	// encoding, e.g. "vortex.bool", "vortex.primitive".
	ID() string
	// Flatten materializes a into its canonical flat form. Every
	// encoding must implement this; it is the dispatcher's fallback
	// of last resort.
	Flatten(a Array) (Array, error)
}

// CompressionHooks is implemented by encodings that can compress
// their own buffers for the on-disk chunked layout.
type CompressionHooks interface {
	Compressor(algo string) buffer.Compressor
	Decompressor(algo string) buffer.Decompressor
}

// CompareOp enumerates the comparison operators compute.Compare and
// Comparer.Compare support.
type CompareOp int

const (
	EqualTo CompareOp = iota
	NotEqualTo
	GreaterThan
	GreaterThanOrEqualTo
	LessThan
	LessThanOrEqualTo
)

// SearchSortedSide selects which insertion index search_sorted
// returns for a run of equal values.
type SearchSortedSide int

const (
	Left SearchSortedSide = iota
	Right
)

// Taker is implemented by encodings with a native take kernel.
type Taker interface {
	Take(a Array, indices Array) (Array, error)
}

// Slicer is implemented by encodings with a native O(1) or near-O(1)
// slice kernel.
type Slicer interface {
	Slice(a Array, start, stop int) (Array, error)
}

// ScalarAtter is implemented by encodings that can extract a single
// element without materializing the whole array.
type ScalarAtter interface {
	ScalarAt(a Array, i int) (scalar.Scalar, error)
}

// Caster is implemented by encodings with a native cast kernel.
type Caster interface {
	Cast(a Array, dt dtype.DType) (Array, error)
}

// Comparer is implemented by encodings (typically Bool) that can
// compare themselves against another array without flattening first.
type Comparer interface {
	Compare(a, b Array, op CompareOp) (Array, error)
}

// ScalarComparer is implemented by encodings that can compare
// themselves against a constant scalar -- the primitive powering
// filter_indices predicates.
type ScalarComparer interface {
	CompareScalar(a Array, op CompareOp, s scalar.Scalar) (Array, error)
}

// Subtracter is implemented by numeric encodings with a native
// subtract-scalar kernel.
type Subtracter interface {
	SubtractScalar(a Array, s scalar.Scalar) (Array, error)
}

// SearchSorter is implemented by encodings that can binary-search
// themselves (they must already be sorted ascending).
type SearchSorter interface {
	SearchSorted(a Array, value scalar.Scalar, side SearchSortedSide) (int, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Encoding{}
)

// Register adds an encoding to the process-wide registry. Encodings
// call this from an init() function; the registry never mutates
// outside of process startup.
func Register(e Encoding) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[e.ID()] = e
}

// Lookup finds a registered encoding by its stable string id.
func Lookup(id string) (Encoding, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[id]
	return e, ok
}
