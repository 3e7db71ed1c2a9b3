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

// Package jpeg implements the JPEG image compression codes C3 and M3.
//
// Importing this package registers the decompressors and compressors with
// package imageio.  Only 8-bit images with one or three bands per block
// are supported.
package jpeg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"seehuhn.de/go/nitf/imageio"
)

func init() {
	imageio.RegisterDecompressor("C3", decompressor{})
	imageio.RegisterDecompressor("M3", decompressor{})
	imageio.RegisterCompressor("C3", compressor{})
	imageio.RegisterCompressor("M3", compressor{})
}

func checkGeometry(g *imageio.Geometry) error {
	if g.BitsPerPixel != 8 {
		return fmt.Errorf("JPEG: %d bits per pixel not supported", g.BitsPerPixel)
	}
	if b := g.RecordBands(); b != 1 && b != 3 {
		return fmt.Errorf("JPEG: %d bands per block not supported", b)
	}
	return nil
}

type decompressor struct{}

func (decompressor) Open(r *io.SectionReader, g *imageio.Geometry, offsets []uint32) (imageio.BlockReader, error) {
	if err := checkGeometry(g); err != nil {
		return nil, err
	}
	data := make([]byte, r.Size())
	if _, err := r.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, err
	}

	var blocks [][]byte
	var err error
	if offsets != nil {
		blocks, err = imageio.SplitBlocks(data, offsets)
	} else {
		blocks, err = splitStreams(data, g.NumRecords())
	}
	if err != nil {
		return nil, err
	}
	return &blockReader{g: g, blocks: blocks}, nil
}

type blockReader struct {
	g      *imageio.Geometry
	blocks [][]byte
}

func (br *blockReader) ReadBlock(i int) ([]byte, error) {
	g := br.g
	bands := g.RecordBands()
	pix, w, h, err := decode(br.blocks[i], bands)
	if err != nil {
		return nil, err
	}
	if w != g.BlockCols() || h != g.BlockRows() {
		return nil, fmt.Errorf("JPEG block is %dx%d, expected %dx%d",
			w, h, g.BlockCols(), g.BlockRows())
	}
	if bands == 1 {
		return pix, nil
	}

	// pix is pixel interleaved; rearrange for the interleave mode
	pi := *g
	pi.Mode = imageio.PixelInterleaved
	planes := make([][]byte, bands)
	for b := range planes {
		planes[b] = pi.BandOf(pix, b)
	}
	return g.JoinBands(planes), nil
}

func (br *blockReader) Close() error {
	br.blocks = nil
	return nil
}

// decode decodes one JPEG stream into interleaved samples with the given
// number of channels.
func decode(data []byte, channels int) ([]byte, int, int, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	buf := make([]byte, 0, w*h*channels)

	switch img := img.(type) {
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := (y-bounds.Min.Y)*img.Stride + (bounds.Min.X - img.Rect.Min.X)
			row := img.Pix[off : off+w]
			if channels == 1 {
				buf = append(buf, row...)
				continue
			}
			for _, v := range row {
				buf = append(buf, v, v, v)
			}
		}

	case *image.YCbCr:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				yi := img.YOffset(x, y)
				if channels == 1 {
					buf = append(buf, img.Y[yi])
					continue
				}
				ci := img.COffset(x, y)
				r, g, b := color.YCbCrToRGB(img.Y[yi], img.Cb[ci], img.Cr[ci])
				buf = append(buf, r, g, b)
			}
		}

	default:
		return nil, 0, 0, fmt.Errorf("JPEG: unsupported color model %T", img)
	}
	return buf, w, h, nil
}

// splitStreams cuts data into n consecutive JPEG streams.
func splitStreams(data []byte, n int) ([][]byte, error) {
	res := make([][]byte, 0, n)
	for len(res) < n {
		end, err := streamEnd(data)
		if err != nil {
			return nil, fmt.Errorf("JPEG block %d: %w", len(res), err)
		}
		res = append(res, data[:end])
		data = data[end:]
	}
	return res, nil
}

// streamEnd returns the length of the JPEG stream at the start of data,
// up to and including the EOI marker.
func streamEnd(data []byte) (int, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, errNoSOI
	}
	pos := 2
	for {
		if pos+2 > len(data) {
			return 0, errTruncated
		}
		if data[pos] != 0xFF {
			return 0, fmt.Errorf("expected marker at byte %d", pos)
		}
		marker := data[pos+1]
		pos += 2
		switch {
		case marker == 0xFF:
			// fill byte
			pos--
			continue
		case marker == 0xD9:
			return pos, nil
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			continue
		}

		if pos+2 > len(data) {
			return 0, errTruncated
		}
		segLen := int(data[pos])<<8 | int(data[pos+1])
		pos += segLen
		if marker != 0xDA {
			continue
		}

		// skip the entropy coded data following SOS
		for {
			if pos+1 >= len(data) {
				return 0, errTruncated
			}
			if data[pos] == 0xFF {
				next := data[pos+1]
				if next != 0 && (next < 0xD0 || next > 0xD7) {
					break
				}
			}
			pos++
		}
	}
}

type compressor struct{}

func (compressor) NewEncoder(g *imageio.Geometry, opt *imageio.WriterOptions) (imageio.BlockEncoder, error) {
	if err := checkGeometry(g); err != nil {
		return nil, err
	}
	quality := jpeg.DefaultQuality
	if opt != nil && opt.Quality > 0 {
		quality = opt.Quality
	}
	return &encoder{g: g, quality: quality}, nil
}

type encoder struct {
	g       *imageio.Geometry
	quality int

	samples int64 // uncompressed bytes
	encoded int64 // compressed bytes
}

func (e *encoder) EncodeBlock(record []byte) ([]byte, error) {
	g := e.g
	w, h := g.BlockCols(), g.BlockRows()
	rect := image.Rect(0, 0, w, h)

	var img image.Image
	if g.RecordBands() == 1 {
		img = &image.Gray{Pix: record, Stride: w, Rect: rect}
	} else {
		rgba := image.NewRGBA(rect)
		planes := [3][]byte{g.BandOf(record, 0), g.BandOf(record, 1), g.BandOf(record, 2)}
		for i := 0; i < w*h; i++ {
			rgba.Pix[4*i] = planes[0][i]
			rgba.Pix[4*i+1] = planes[1][i]
			rgba.Pix[4*i+2] = planes[2][i]
			rgba.Pix[4*i+3] = 0xFF
		}
		img = rgba
	}

	buf := &bytes.Buffer{}
	err := jpeg.Encode(buf, img, &jpeg.Options{Quality: e.quality})
	if err != nil {
		return nil, err
	}
	e.samples += int64(len(record))
	e.encoded += int64(buf.Len())
	return buf.Bytes(), nil
}

// Rate returns the average number of bits per sample, in the form "nn.n".
func (e *encoder) Rate() string {
	if e.samples == 0 {
		return "00.0"
	}
	bits := min(8*float64(e.encoded)/float64(e.samples), 99.9)
	return fmt.Sprintf("%04.1f", bits)
}

var (
	errNoSOI     = errors.New("missing start of image marker")
	errTruncated = errors.New("truncated JPEG stream")
)
