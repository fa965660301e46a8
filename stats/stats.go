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

// Package stats implements the per-array statistics bag: a
// lazily-populated cache of derived facts such as min, max,
// is_strict_sorted and a content hash, computed at most once per
// array and safe for concurrent readers.
package stats

import (
	"sync"
	"unsafe"

	"github.com/dchest/siphash"
)

// Name identifies a statistic kept in the bag.
type Name int

const (
	Min Name = iota
	Max
	IsStrictSorted
	IsSorted
	NullCount
	ContentHash
)

// Bag is the one-shot compute-and-publish cache attached to every
// array, the only interior mutability an Array carries. Each entry
// is computed at most once; concurrent callers wait for that single
// computation and all see its published result.
type Bag struct {
	mu     sync.Mutex
	once   map[Name]*sync.Once
	values map[Name]any
}

// NewBag returns an empty statistics bag.
func NewBag() *Bag {
	return &Bag{
		once:   make(map[Name]*sync.Once),
		values: make(map[Name]any),
	}
}

func (b *Bag) onceFor(n Name) *sync.Once {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.once[n]
	if !ok {
		o = new(sync.Once)
		b.once[n] = o
	}
	return o
}

// GetOrCompute returns the cached statistic, computing and publishing
// it via compute() the first time it is requested.
func (b *Bag) GetOrCompute(n Name, compute func() any) any {
	b.onceFor(n).Do(func() {
		v := compute()
		b.mu.Lock()
		b.values[n] = v
		b.mu.Unlock()
	})
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.values[n]
}

// Peek returns a statistic only if it has already been computed,
// without triggering computation -- used by callers that want a fast
// path when the statistic happens to be present but must stay
// correct when it is absent.
func (b *Bag) Peek(n Name) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[n]
	return v, ok
}

// ContentHash128 computes a 128-bit SipHash of raw bytes. It is
// exposed standalone so that
// encodings can seed the bag without depending on this package's
// locking internals.
func ContentHash128(key0, key1 uint64, data []byte) (lo, hi uint64) {
	return siphash.Hash128(key0, key1, data)
}

// HashUint64s hashes a slice of uint64 values without requiring the
// caller to first serialize them into a byte buffer.
func HashUint64s(vals []uint64) (lo, hi uint64) {
	if len(vals) == 0 {
		return siphash.Hash128(0, 0, nil)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*8)
	return siphash.Hash128(0, 0, b)
}
