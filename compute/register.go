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

// Importing compute is sufficient to populate the process-wide
// encoding registry: every concrete encoding package registers itself
// from an init() function, mirroring how importing a database/sql
// driver package for its side effect registers that driver.
import (
	_ "github.com/vortexdb/vortex/array/boolarr"
	_ "github.com/vortexdb/vortex/array/listarr"
	_ "github.com/vortexdb/vortex/array/primitivearr"
	_ "github.com/vortexdb/vortex/array/structarr"
	_ "github.com/vortexdb/vortex/array/varbin"
)
