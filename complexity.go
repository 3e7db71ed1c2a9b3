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

package nitf

import (
	"strconv"
	"strings"
)

// ComplexityLevel returns the lowest complexity level (CLEVEL) whose
// limits the record satisfies.  The result is one of 3, 5, 6, 7 and 9.
//
// The checks cover the file size, the number of image and data
// extension segments, the image and block sizes, the extent of the
// images in the common coordinate system, and the band and pixel
// layout allowed for each image representation.  Images with an invalid
// block layout or location give level 9.  FL must already hold the file
// length.
func (rec *Record) ComplexityLevel() (int, error) {
	fl, err := rec.Header.Int("FL")
	if err != nil {
		return 0, err
	}
	level := fileSizeLevel(int64(fl))
	level = max(level, countLevel(len(rec.Images), len(rec.DataExtensions)))

	for _, img := range rec.Images {
		level = max(level, imageLevel(img.Subheader))
	}
	return level, nil
}

func fileSizeLevel(fl int64) int {
	switch {
	case fl <= 52428799:
		return 3
	case fl <= 1073741823:
		return 5
	case fl <= 2147483647:
		return 6
	case fl <= 10737418239:
		return 7
	}
	return 9
}

func countLevel(numImages, numDES int) int {
	level := 3
	if numImages > 20 {
		level = 5
	}
	switch {
	case numDES <= 10:
	case numDES <= 50:
		level = max(level, 6)
	case numDES <= 100:
		level = max(level, 7)
	default:
		level = 9
	}
	return level
}

// extentLevel applies the limits for image sizes.  Extents in the common
// coordinate system use the same limits, applied to the coordinates one
// past the last row and column.
func extentLevel(rows, cols int) int {
	switch {
	case rows <= 2048 && cols <= 2048:
		return 3
	case rows <= 8192 && cols <= 8192:
		return 5
	case rows <= 65536 && cols <= 65536:
		return 6
	case rows <= 99999999 && cols <= 99999999:
		return 7
	}
	return 9
}

func blockLevel(rows, cols int) int {
	switch {
	case rows <= 2048 && cols <= 2048:
		return 3
	case rows <= 8192 && cols <= 8192:
		return 5
	}
	return 6
}

func imageLevel(s *ImageSubheader) int {
	g, err := s.Geometry()
	if err != nil {
		return 9
	}
	row, col, ok := imageLocation(s)
	if !ok {
		return 9
	}

	level := extentLevel(g.Rows, g.Cols)
	level = max(level, extentLevel(row+g.Rows, col+g.Cols))
	level = max(level, blockLevel(g.BlockRows(), g.BlockCols()))

	irep, _ := s.Get("IREP")
	ic := s.Compression()
	jpeg := ic == "C3" || ic == "M3"
	nbpp := g.BitsPerPixel
	mode := byte(g.Mode)

	switch irep {
	case "MONO":
		if jpeg && nbpp != 8 && nbpp != 12 {
			return 9
		}
		if g.Bands != 1 || mode != 'B' {
			return 9
		}
		switch nbpp {
		case 1, 8, 12, 16, 32, 64:
		default:
			return 9
		}

	case "RGB":
		if g.Bands != 3 || (jpeg && (nbpp > 8 || mode != 'P')) {
			return 9
		}
		switch nbpp {
		case 8:
		case 16, 32:
			level = max(level, 6)
		default:
			return 9
		}

	case "RGB/LUT":
		if !(ic == "NC" || ic == "NM") || g.Bands != 1 || mode != 'B' {
			return 9
		}
		if nbpp != 1 && nbpp != 8 {
			return 9
		}

	case "MULTI":
		if jpeg && nbpp != 8 && nbpp != 12 {
			return 9
		}
		switch {
		case g.Bands < 2:
			return 9
		case g.Bands < 10:
		case g.Bands <= 255:
			level = max(level, 6)
		case g.Bands <= 999:
			level = max(level, 7)
		default:
			return 9
		}
		switch nbpp {
		case 8, 16, 32, 64:
		default:
			return 9
		}
		if mode != 'B' {
			return 9
		}
	}
	return level
}

// imageLocation returns the row and column of ILOC.
func imageLocation(s *ImageSubheader) (row, col int, ok bool) {
	iloc, err := s.TRE().Field("ILOC")
	if err != nil {
		return 0, 0, false
	}
	raw := string(iloc.Raw())
	if len(raw) != 10 {
		return 0, 0, false
	}
	row, err1 := strconv.Atoi(strings.TrimSpace(raw[:5]))
	col, err2 := strconv.Atoi(strings.TrimSpace(raw[5:]))
	return row, col, err1 == nil && err2 == nil
}
