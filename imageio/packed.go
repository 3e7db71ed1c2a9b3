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

package imageio

import "fmt"

// IsPacked reports whether the samples of the image do not fill whole
// bytes.  Uncompressed blocks of such images are stored as a bit stream,
// while in memory every sample occupies BytesPerPixel bytes with the
// significant bits right-aligned.
func (g *Geometry) IsPacked() bool {
	return g.BitsPerPixel%8 != 0
}

// StoredRecordBytes returns the size of one uncompressed physical block
// in the file.  Packed blocks are padded with zero bits to a whole byte.
func (g *Geometry) StoredRecordBytes() int {
	if !g.IsPacked() {
		return g.RecordBytes()
	}
	samples := g.BlockRows() * g.BlockCols() * g.RecordBands()
	return (samples*g.BitsPerPixel + 7) / 8
}

// PackRecord converts a physical block from the in-memory layout to the
// bit stream stored in the file.  Samples are written most significant bit
// first, and bits above BitsPerPixel are discarded.
func (g *Geometry) PackRecord(record []byte) []byte {
	if !g.IsPacked() {
		return record
	}
	bpp := g.BytesPerPixel()
	nbits := uint(g.BitsPerPixel)
	out := make([]byte, 0, g.StoredRecordBytes())

	var acc uint64
	var have uint
	for i := 0; i+bpp <= len(record); i += bpp {
		var v uint64
		for _, b := range record[i : i+bpp] {
			v = v<<8 | uint64(b)
		}
		acc = acc<<nbits | v&(1<<nbits-1)
		have += nbits
		for have >= 8 {
			have -= 8
			out = append(out, byte(acc>>have))
		}
		acc &= 1<<have - 1
	}
	if have > 0 {
		out = append(out, byte(acc<<(8-have)))
	}
	return out
}

// UnpackRecord is the inverse of PackRecord.
func (g *Geometry) UnpackRecord(data []byte) ([]byte, error) {
	if !g.IsPacked() {
		return data, nil
	}
	if len(data) != g.StoredRecordBytes() {
		return nil, fmt.Errorf("packed block has %d bytes, expected %d", len(data), g.StoredRecordBytes())
	}
	bpp := g.BytesPerPixel()
	nbits := uint(g.BitsPerPixel)
	out := make([]byte, g.RecordBytes())

	var acc uint64
	var have uint
	pos := 0
	for i := 0; i < len(out); i += bpp {
		for have < nbits {
			acc = acc<<8 | uint64(data[pos])
			pos++
			have += 8
		}
		have -= nbits
		v := acc >> have & (1<<nbits - 1)
		acc &= 1<<have - 1
		for j := bpp - 1; j >= 0; j-- {
			out[i+j] = byte(v)
			v >>= 8
		}
	}
	return out, nil
}
