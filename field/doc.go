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

// Package field implements the fixed-length values which make up NITF
// headers, subheaders and tagged record extensions.
//
// NITF uses three kinds of fields.  BCS-A fields hold printable ASCII
// text, left-justified and padded with spaces.  BCS-N fields hold
// numbers as text, right-justified and padded with zeros.  BINARY
// fields hold raw bytes; fields of width 1, 2, 4 and 8 are commonly
// interpreted as big-endian integers.
package field
