// seehuhn.de/go/nitf - a library for reading and writing NITF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package tre implements tagged record extensions (TREs) of NITF files.
//
// The layout of a TRE is given by a Description, a small program made of
// field entries and LOOP/IF control entries.  A Cursor walks a
// description and resolves loop counts, conditions and computed field
// lengths against the values which are already known.  The values of a
// TRE are kept in a map from qualified tags, like "LAT[0][2]", to
// fields.
//
// Handlers for a number of common TREs are registered by default.  TREs
// without a handler, or TREs whose data does not match the registered
// layout, are kept as raw bytes in the single field "raw_data".
package tre
