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
	"errors"
	"fmt"
	"io"
)

// WriterOptions configures a Writer.
type WriterOptions struct {
	// Compression is the image compression code (IC).  The empty string
	// selects "NC", uncompressed data without a mask table.
	Compression string

	// Pad is the pad pixel value.  For masked images, blocks in which
	// every sample equals Pad are omitted from the file.  Pixels outside
	// the image area of edge blocks are set to Pad.
	Pad []byte

	// Quality is passed to lossy compressors.  Zero selects the default
	// of the compressor.
	Quality int
}

// Writer assembles the image data of one segment block by block.
type Writer struct {
	g      *Geometry
	ic     string
	masked bool
	pad    []byte // one sample, or nil
	enc    BlockEncoder

	blocks  [][]byte // encoded physical blocks
	written []bool
}

// NewWriter returns a writer for an image with the given geometry.
func NewWriter(g *Geometry, opt *WriterOptions) (*Writer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if opt == nil {
		opt = &WriterOptions{}
	}
	ic := opt.Compression
	if ic == "" {
		ic = "NC"
	}
	w := &Writer{
		g:       g,
		ic:      ic,
		masked:  IsMaskedCompression(ic),
		blocks:  make([][]byte, g.NumRecords()),
		written: make([]bool, g.NumRecords()),
	}
	if opt.Pad != nil {
		w.pad = PadSample(g, opt.Pad)
	}
	if !IsUncompressed(ic) {
		c, ok := LookupCompressor(ic)
		if !ok {
			return nil, &UnsupportedError{IC: ic}
		}
		enc, err := c.NewEncoder(g, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ic, err)
		}
		w.enc = enc
	}
	return w, nil
}

// WriteBlock stores physical block i.  The record must be laid out as
// described by the geometry.
func (w *Writer) WriteBlock(i int, record []byte) error {
	if i < 0 || i >= len(w.blocks) {
		return fmt.Errorf("block %d out of range", i)
	}
	if len(record) != w.g.RecordBytes() {
		return fmt.Errorf("block %d: %d bytes, expected %d", i, len(record), w.g.RecordBytes())
	}
	w.written[i] = true
	if w.masked && w.pad != nil && IsBlank(record, w.pad) {
		w.blocks[i] = nil
		return nil
	}
	if w.enc == nil {
		if w.g.IsPacked() {
			w.blocks[i] = w.g.PackRecord(record)
		} else {
			w.blocks[i] = bytes.Clone(record)
		}
		return nil
	}
	data, err := w.enc.EncodeBlock(record)
	if err != nil {
		return fmt.Errorf("block %d: %w", i, err)
	}
	w.blocks[i] = data
	return nil
}

// WriteImage splits a complete image into blocks and stores them.  The
// image is given as one plane per band, each plane holding rows of
// samples.
func (w *Writer) WriteImage(planes [][]byte) error {
	g := w.g
	if len(planes) != g.Bands {
		return fmt.Errorf("%d bands, expected %d", len(planes), g.Bands)
	}
	bpp := g.BytesPerPixel()
	for b, p := range planes {
		if len(p) != g.Rows*g.Cols*bpp {
			return fmt.Errorf("band %d: %d bytes, expected %d", b, len(p), g.Rows*g.Cols*bpp)
		}
	}

	br, bc := g.BlockRows(), g.BlockCols()
	blockPlanes := make([][]byte, g.Bands)
	for block := 0; block < g.NumBlocks(); block++ {
		row0 := (block / g.BlocksPerRow) * br
		col0 := (block % g.BlocksPerRow) * bc
		for band, p := range planes {
			buf := make([]byte, g.BandBlockBytes())
			fillPad(buf, w.pad)
			rows := min(br, g.Rows-row0)
			cols := min(bc, g.Cols-col0)
			for r := 0; r < rows; r++ {
				src := ((row0+r)*g.Cols + col0) * bpp
				copy(buf[r*bc*bpp:], p[src:src+cols*bpp])
			}
			blockPlanes[band] = buf
		}

		if g.Mode == BandSequential {
			for band := range planes {
				err := w.WriteBlock(g.recordIndex(block, band), blockPlanes[band])
				if err != nil {
					return err
				}
			}
			continue
		}
		if err := w.WriteBlock(block, g.JoinBands(blockPlanes)); err != nil {
			return err
		}
	}
	return nil
}

// Mask returns the mask table for the blocks written so far, or nil if
// the compression does not use a mask.
func (w *Writer) Mask() *Mask {
	if !w.masked {
		return nil
	}
	m := &Mask{
		Blocks: make([]uint32, len(w.blocks)),
	}
	if w.pad != nil {
		m.PadBits = w.g.BitsPerPixel
		m.Pad = w.pad[len(w.pad)-(m.PadBits+7)/8:]
	}
	var off uint32
	for i, data := range w.blocks {
		if data == nil {
			m.Blocks[i] = Absent
			continue
		}
		m.Blocks[i] = off
		off += uint32(len(data))
	}
	m.DataOffset = uint32(m.Len())
	return m
}

// WriteTo writes the image data, including the mask table if any.  All
// blocks must have been written.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	for i, ok := range w.written {
		if !ok {
			return 0, fmt.Errorf("block %d: %w", i, errMissingBlock)
		}
	}
	var total int64
	if m := w.Mask(); m != nil {
		n, err := m.WriteTo(out)
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, data := range w.blocks {
		n, err := out.Write(data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the image data, including the mask table if any.
func (w *Writer) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	if _, err := w.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Geometry returns the block layout of the image.
func (w *Writer) Geometry() *Geometry {
	return w.g
}

// Compression returns the image compression code.
func (w *Writer) Compression() string {
	return w.ic
}

// CompressionRate returns the value for the COMRAT field, as reported by
// the compressor.  Uncompressed images give the empty string.
func (w *Writer) CompressionRate() string {
	if w.enc == nil {
		return ""
	}
	return w.enc.Rate()
}

var errMissingBlock = errors.New("block not written")
