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

//go:build linux

package main

import (
	"os"

	"github.com/vortexdb/vortex/ipcreader"
)

// openReadAt opens fp via mmap when given, exercising
// ipcreader.OpenMmapReadAt end to end; with no -file it keeps the
// sample array in memory.
func openReadAt(fp string, data []byte) (ipcreader.ReadAt, func() error, error) {
	if fp == "" {
		return ipcreader.NewMemReadAt(data, ipcreader.PerformanceHint{}), func() error { return nil }, nil
	}
	if err := os.WriteFile(fp, data, 0o600); err != nil {
		return nil, nil, err
	}
	r, err := ipcreader.OpenMmapReadAt(fp, ipcreader.PerformanceHint{})
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}
