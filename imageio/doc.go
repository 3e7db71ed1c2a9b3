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

// Package imageio reads and writes the pixel data of NITF image segments.
//
// Image data is divided into blocks.  A Geometry describes the block
// layout and the band interleave mode.  Masked images start with a mask
// table, which gives the offset of every block and allows blocks which
// consist only of pad pixels to be omitted.  Compressed image data is
// handled by decompressors and compressors registered for the image
// compression code.
package imageio
