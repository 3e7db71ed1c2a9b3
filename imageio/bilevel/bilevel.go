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

// Package bilevel implements decompression of bi-level images using
// CCITT Group 3 fax coding, image compression codes C1 and M1.
//
// Importing this package registers the decompressors with package
// imageio.  Decoded blocks hold one byte per pixel: 1 for white and 0 for
// black.
package bilevel

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"

	"seehuhn.de/go/nitf/imageio"
)

func init() {
	imageio.RegisterDecompressor("C1", decompressor{})
	imageio.RegisterDecompressor("M1", decompressor{})
}

type decompressor struct{}

func (decompressor) Open(r *io.SectionReader, g *imageio.Geometry, offsets []uint32) (imageio.BlockReader, error) {
	if g.BitsPerPixel != 1 || g.RecordBands() != 1 {
		return nil, fmt.Errorf("bi-level: %d bands with %d bits per pixel not supported",
			g.RecordBands(), g.BitsPerPixel)
	}
	data := make([]byte, r.Size())
	if _, err := r.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, err
	}

	var blocks [][]byte
	switch {
	case offsets != nil:
		var err error
		blocks, err = imageio.SplitBlocks(data, offsets)
		if err != nil {
			return nil, err
		}
	case g.NumRecords() == 1:
		blocks = [][]byte{data}
	default:
		return nil, errNeedMask
	}
	return &blockReader{g: g, blocks: blocks}, nil
}

type blockReader struct {
	g      *imageio.Geometry
	blocks [][]byte
}

func (br *blockReader) ReadBlock(i int) ([]byte, error) {
	w, h := br.g.BlockCols(), br.g.BlockRows()
	r := ccitt.NewReader(bytes.NewReader(br.blocks[i]), ccitt.MSB, ccitt.Group3, w, h, &ccitt.Options{})
	packed, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return unpack(packed, w, h)
}

func (br *blockReader) Close() error {
	br.blocks = nil
	return nil
}

// unpack converts rows of packed bits, each row padded to a whole byte,
// into one byte per pixel.
func unpack(packed []byte, w, h int) ([]byte, error) {
	stride := (w + 7) / 8
	if len(packed) < stride*h {
		return nil, fmt.Errorf("bi-level: decoded %d bytes, expected %d", len(packed), stride*h)
	}
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := packed[y*stride:]
		for x := 0; x < w; x++ {
			out[y*w+x] = (row[x/8] >> (7 - x%8)) & 1
		}
	}
	return out, nil
}

var errNeedMask = errors.New("bi-level: blocked image without block mask")
