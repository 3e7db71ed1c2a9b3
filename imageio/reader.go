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
	"errors"
	"fmt"
	"io"
)

// Reader gives access to the blocks and pixels of an image segment.
type Reader struct {
	g    *Geometry
	ic   string
	mask *Mask
	pad  []byte // one sample

	data *io.SectionReader // block data, after the mask table
	dec  BlockReader
}

// NewReader prepares reading the image data of one segment.  The length
// bytes of image data start at offset 0 in r.  The compression code ic
// is the IC field of the image subheader.
func NewReader(r io.ReaderAt, length int64, g *Geometry, ic string) (*Reader, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	rd := &Reader{g: g, ic: ic}

	var start int64
	if IsMaskedCompression(ic) {
		m, err := ReadMask(io.NewSectionReader(r, 0, length), g.NumRecords(), length)
		if err != nil {
			return nil, err
		}
		rd.mask = m
		rd.pad = PadSample(g, m.Pad)
		start = int64(m.DataOffset)
		if start > length {
			return nil, fmt.Errorf("%w: data offset %d beyond %d bytes", errInvalidMask, start, length)
		}
	} else {
		rd.pad = PadSample(g, nil)
	}
	rd.data = io.NewSectionReader(r, start, length-start)

	if !IsUncompressed(ic) {
		d, ok := LookupDecompressor(ic)
		if !ok {
			return nil, &UnsupportedError{IC: ic}
		}
		var offsets []uint32
		if rd.mask != nil {
			offsets = rd.mask.Blocks
		}
		dec, err := d.Open(rd.data, g, offsets)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ic, err)
		}
		rd.dec = dec
	}
	return rd, nil
}

// Geometry returns the block layout of the image.
func (r *Reader) Geometry() *Geometry {
	return r.g
}

// Mask returns the mask table of the image, or nil if the image data is
// not masked.
func (r *Reader) Mask() *Mask {
	return r.mask
}

// Close releases the resources held by the decompressor.
func (r *Reader) Close() error {
	if r.dec != nil {
		return r.dec.Close()
	}
	return nil
}

// ReadBlock returns physical block i.  Blocks which are not stored in the
// file are synthesized from the pad value, without reading from the
// underlying file.
func (r *Reader) ReadBlock(i int) ([]byte, error) {
	if i < 0 || i >= r.g.NumRecords() {
		return nil, fmt.Errorf("block %d out of range", i)
	}
	size := r.g.RecordBytes()
	if r.mask != nil && !r.mask.IsPresent(i) {
		buf := make([]byte, size)
		fillPad(buf, r.pad)
		return buf, nil
	}

	if r.dec != nil {
		buf, err := r.dec.ReadBlock(i)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if len(buf) != size {
			return nil, fmt.Errorf("block %d: decoded %d bytes, expected %d", i, len(buf), size)
		}
		return buf, nil
	}

	stored := r.g.StoredRecordBytes()
	off := int64(i) * int64(stored)
	if r.mask != nil && r.mask.Blocks != nil {
		off = int64(r.mask.Blocks[i])
	}
	buf := make([]byte, stored)
	_, err := r.data.ReadAt(buf, off)
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("block %d: %w", i, io.ErrUnexpectedEOF)
	} else if err != nil {
		return nil, err
	}
	buf, err = r.g.UnpackRecord(buf)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", i, err)
	}
	return buf, nil
}

// ReadBand returns one band of block i, as rows of samples.  Block
// indices count the blocks of one band, row by row.
func (r *Reader) ReadBand(block, band int) ([]byte, error) {
	if band < 0 || band >= r.g.Bands {
		return nil, fmt.Errorf("band %d out of range", band)
	}
	record, err := r.ReadBlock(r.g.recordIndex(block, band))
	if err != nil {
		return nil, err
	}
	return r.g.BandOf(record, band), nil
}

// Window selects a rectangular region of an image.
type Window struct {
	Row, Col   int
	Rows, Cols int

	// Bands lists the bands to read.  Nil selects all bands.
	Bands []int

	// Sampler reduces the resolution of the result.  Nil reads the
	// window at full resolution.
	Sampler DownSampler
}

// ReadWindow reads a region of the image.  The result holds one plane per
// requested band, each plane consisting of rows of samples.  If a sampler
// is set, the dimensions of the planes are returned after down-sampling.
func (r *Reader) ReadWindow(w *Window) (planes [][]byte, rows, cols int, err error) {
	g := r.g
	if w.Rows <= 0 || w.Cols <= 0 || w.Row < 0 || w.Col < 0 ||
		w.Row+w.Rows > g.Rows || w.Col+w.Cols > g.Cols {
		return nil, 0, 0, fmt.Errorf("window %dx%d+%d+%d outside the %dx%d image",
			w.Cols, w.Rows, w.Col, w.Row, g.Cols, g.Rows)
	}
	bands := w.Bands
	if bands == nil {
		bands = make([]int, g.Bands)
		for i := range bands {
			bands[i] = i
		}
	}
	for _, b := range bands {
		if b < 0 || b >= g.Bands {
			return nil, 0, 0, fmt.Errorf("band %d out of range", b)
		}
	}

	bpp := g.BytesPerPixel()
	br, bc := g.BlockRows(), g.BlockCols()
	planes = make([][]byte, len(bands))
	for i := range planes {
		planes[i] = make([]byte, w.Rows*w.Cols*bpp)
	}

	for blockRow := w.Row / br; blockRow <= (w.Row+w.Rows-1)/br; blockRow++ {
		for blockCol := w.Col / bc; blockCol <= (w.Col+w.Cols-1)/bc; blockCol++ {
			block := blockRow*g.BlocksPerRow + blockCol

			var record []byte
			for i, band := range bands {
				if record == nil || g.Mode == BandSequential {
					record, err = r.ReadBlock(g.recordIndex(block, band))
					if err != nil {
						return nil, 0, 0, err
					}
				}
				plane := r.g.BandOf(record, band)

				// intersect the block with the window
				r0 := max(w.Row, blockRow*br)
				r1 := min(w.Row+w.Rows, (blockRow+1)*br)
				c0 := max(w.Col, blockCol*bc)
				c1 := min(w.Col+w.Cols, (blockCol+1)*bc)
				for row := r0; row < r1; row++ {
					src := ((row-blockRow*br)*bc + (c0 - blockCol*bc)) * bpp
					dst := ((row-w.Row)*w.Cols + (c0 - w.Col)) * bpp
					copy(planes[i][dst:dst+(c1-c0)*bpp], plane[src:])
				}
			}
		}
	}

	rows, cols = w.Rows, w.Cols
	if w.Sampler != nil {
		for i, plane := range planes {
			var sr, sc int
			planes[i], sr, sc, err = w.Sampler.Sample(plane, w.Rows, w.Cols, bpp)
			if err != nil {
				return nil, 0, 0, err
			}
			rows, cols = sr, sc
		}
	}
	return planes, rows, cols, nil
}

// UnsupportedError is returned for image data using a compression code
// without a registered decompressor.
type UnsupportedError struct {
	IC string
}

func (err *UnsupportedError) Error() string {
	return "unsupported image compression " + err.IC
}
