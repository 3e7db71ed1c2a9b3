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

import "bytes"

// PadSample returns the pad value as one sample of the image.  The
// significant bits of the pad value are right-aligned in the sample.
func PadSample(g *Geometry, pad []byte) []byte {
	n := g.BytesPerPixel()
	sample := make([]byte, n)
	if len(pad) > n {
		pad = pad[len(pad)-n:]
	}
	copy(sample[n-len(pad):], pad)
	return sample
}

// IsBlank reports whether every sample of a physical block equals the
// pad sample.
//
// A physical block holds all bands of a block, except for band sequential
// images where each band of each block is stored separately.  For the
// interleaved modes a block is thus only blank if it is blank in every
// band, while band sequential images can omit individual bands of a
// block.
func IsBlank(record, sample []byte) bool {
	n := len(sample)
	if n == 0 || len(record)%n != 0 {
		return false
	}
	for i := 0; i < len(record); i += n {
		if !bytes.Equal(record[i:i+n], sample) {
			return false
		}
	}
	return true
}

// fillPad fills buf with copies of sample.
func fillPad(buf, sample []byte) {
	if len(sample) == 0 {
		clear(buf)
		return
	}
	for i := 0; i < len(buf); i += len(sample) {
		copy(buf[i:], sample)
	}
}
