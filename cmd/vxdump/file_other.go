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

//go:build !linux

package main

import (
	"fmt"

	"github.com/vortexdb/vortex/ipcreader"
)

// openReadAt has no mmap path outside linux (buffer.Mmap is
// linux-only); -file is rejected rather than silently ignored.
func openReadAt(fp string, data []byte) (ipcreader.ReadAt, func() error, error) {
	if fp != "" {
		return nil, nil, fmt.Errorf("-file requires linux (mmap support)")
	}
	return ipcreader.NewMemReadAt(data, ipcreader.PerformanceHint{}), func() error { return nil }, nil
}
