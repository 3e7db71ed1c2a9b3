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

import (
	"bytes"
	"fmt"
)

// DownSampler reduces the resolution of one band of an image.
type DownSampler interface {
	// Sample reduces a plane of rows x cols samples of bpp bytes each.
	Sample(plane []byte, rows, cols, bpp int) (out []byte, outRows, outCols int, err error)
}

// PixelSkip keeps the top left sample of every RowSkip x ColSkip window.
type PixelSkip struct {
	RowSkip, ColSkip int
}

// Sample implements the DownSampler interface.
func (s PixelSkip) Sample(plane []byte, rows, cols, bpp int) ([]byte, int, int, error) {
	return sampleWindows(plane, rows, cols, bpp, s.RowSkip, s.ColSkip,
		func(dst []byte, r0, r1, c0, c1 int) {
			src := (r0*cols + c0) * bpp
			copy(dst, plane[src:src+bpp])
		})
}

// MaxDownSample keeps the largest sample of every RowSkip x ColSkip
// window.  Samples are compared as unsigned big-endian integers.
type MaxDownSample struct {
	RowSkip, ColSkip int
}

// Sample implements the DownSampler interface.
func (s MaxDownSample) Sample(plane []byte, rows, cols, bpp int) ([]byte, int, int, error) {
	return sampleWindows(plane, rows, cols, bpp, s.RowSkip, s.ColSkip,
		func(dst []byte, r0, r1, c0, c1 int) {
			best := plane[(r0*cols+c0)*bpp:][:bpp]
			for r := r0; r < r1; r++ {
				for c := c0; c < c1; c++ {
					v := plane[(r*cols+c)*bpp:][:bpp]
					if bytes.Compare(v, best) > 0 {
						best = v
					}
				}
			}
			copy(dst, best)
		})
}

// sampleWindows calls reduce for every window of the plane.  Windows at
// the right and bottom edge may be smaller than rowSkip x colSkip.
func sampleWindows(plane []byte, rows, cols, bpp, rowSkip, colSkip int,
	reduce func(dst []byte, r0, r1, c0, c1 int)) ([]byte, int, int, error) {
	if rowSkip <= 0 || colSkip <= 0 {
		return nil, 0, 0, fmt.Errorf("invalid down-sampling factors %dx%d", colSkip, rowSkip)
	}
	if len(plane) < rows*cols*bpp {
		return nil, 0, 0, fmt.Errorf("plane too short: %d < %d bytes", len(plane), rows*cols*bpp)
	}
	outRows := (rows + rowSkip - 1) / rowSkip
	outCols := (cols + colSkip - 1) / colSkip
	out := make([]byte, outRows*outCols*bpp)
	for i := 0; i < outRows; i++ {
		r0 := i * rowSkip
		r1 := min(r0+rowSkip, rows)
		for j := 0; j < outCols; j++ {
			c0 := j * colSkip
			c1 := min(c0+colSkip, cols)
			reduce(out[(i*outCols+j)*bpp:][:bpp], r0, r1, c0, c1)
		}
	}
	return out, outRows, outCols, nil
}
