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
)

// Mode is the band interleave mode of an image segment (IMODE).
type Mode byte

// These are the interleave modes defined by NITF.
const (
	// BlockInterleaved stores the bands of a block one after another.
	BlockInterleaved Mode = 'B'

	// PixelInterleaved stores all bands of a pixel together.
	PixelInterleaved Mode = 'P'

	// RowInterleaved stores the bands of each block row one after another.
	RowInterleaved Mode = 'R'

	// BandSequential stores all blocks of one band, followed by the blocks
	// of the next band.
	BandSequential Mode = 'S'
)

func (m Mode) String() string {
	return string(rune(m))
}

// Geometry describes how the pixels of an image segment are split into
// blocks.
type Geometry struct {
	Rows, Cols   int // NROWS, NCOLS
	Bands        int // NBANDS or XBANDS
	BitsPerPixel int // NBPP

	BlocksPerRow int // NBPR
	BlocksPerCol int // NBPC
	ColsPerBlock int // NPPBH
	RowsPerBlock int // NPPBV

	Mode Mode
}

// maxBlockSize is the largest block dimension which can be given
// explicitly.  Larger images use a block size of 0.
const maxBlockSize = 8192

// ComputeBlocking returns the number of blocks needed to cover an image
// with blocks of the given size.  A block dimension of 0 means that a
// single block spans the image in this direction.
func ComputeBlocking(rows, cols, rowsPerBlock, colsPerBlock int) (blocksPerRow, blocksPerCol int) {
	if rowsPerBlock <= 0 {
		rowsPerBlock = rows
	}
	if colsPerBlock <= 0 {
		colsPerBlock = cols
	}
	if rowsPerBlock > 0 {
		blocksPerCol = (rows + rowsPerBlock - 1) / rowsPerBlock
	}
	if colsPerBlock > 0 {
		blocksPerRow = (cols + colsPerBlock - 1) / colsPerBlock
	}
	return blocksPerRow, blocksPerCol
}

// NewGeometry returns the geometry of an image with the given size.
// A block dimension of 0 makes a single block span the image in this
// direction.
func NewGeometry(rows, cols, bands, bitsPerPixel, rowsPerBlock, colsPerBlock int, mode Mode) (*Geometry, error) {
	g := &Geometry{
		Rows:         rows,
		Cols:         cols,
		Bands:        bands,
		BitsPerPixel: bitsPerPixel,
		RowsPerBlock: rowsPerBlock,
		ColsPerBlock: colsPerBlock,
		Mode:         mode,
	}
	g.BlocksPerRow, g.BlocksPerCol = ComputeBlocking(rows, cols, rowsPerBlock, colsPerBlock)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks that the geometry is consistent.
func (g *Geometry) Validate() error {
	switch {
	case g.Rows <= 0 || g.Cols <= 0:
		return fmt.Errorf("invalid image size %dx%d", g.Cols, g.Rows)
	case g.Bands <= 0:
		return fmt.Errorf("invalid number of bands %d", g.Bands)
	case g.BitsPerPixel <= 0 || g.BitsPerPixel > 64:
		return fmt.Errorf("invalid bits per pixel %d", g.BitsPerPixel)
	case g.RowsPerBlock < 0 || g.RowsPerBlock > maxBlockSize ||
		g.ColsPerBlock < 0 || g.ColsPerBlock > maxBlockSize:
		return fmt.Errorf("invalid block size %dx%d", g.ColsPerBlock, g.RowsPerBlock)
	}
	switch g.Mode {
	case BlockInterleaved, PixelInterleaved, RowInterleaved, BandSequential:
	default:
		return fmt.Errorf("invalid interleave mode %q", byte(g.Mode))
	}
	if g.Mode == PixelInterleaved && g.BitsPerPixel%8 != 0 && g.Bands > 1 {
		return errors.New("pixel interleave requires whole bytes per pixel")
	}
	if g.IsPacked() && g.BitsPerPixel > 32 {
		return fmt.Errorf("%d bits per pixel cannot be packed", g.BitsPerPixel)
	}
	bpr, bpc := ComputeBlocking(g.Rows, g.Cols, g.RowsPerBlock, g.ColsPerBlock)
	if g.BlocksPerRow != bpr || g.BlocksPerCol != bpc {
		return fmt.Errorf("%dx%d blocks do not match the image size", g.BlocksPerRow, g.BlocksPerCol)
	}
	return nil
}

// BlockRows returns the number of pixel rows in a block.
func (g *Geometry) BlockRows() int {
	if g.RowsPerBlock == 0 {
		return g.Rows
	}
	return g.RowsPerBlock
}

// BlockCols returns the number of pixel columns in a block.
func (g *Geometry) BlockCols() int {
	if g.ColsPerBlock == 0 {
		return g.Cols
	}
	return g.ColsPerBlock
}

// BytesPerPixel returns the number of bytes used to store one sample.
func (g *Geometry) BytesPerPixel() int {
	return (g.BitsPerPixel-1)/8 + 1
}

// NumBlocks returns the number of blocks per band.
func (g *Geometry) NumBlocks() int {
	return g.BlocksPerRow * g.BlocksPerCol
}

// NumRecords returns the number of physical blocks stored in the file.
// For band sequential images every band has its own blocks.
func (g *Geometry) NumRecords() int {
	if g.Mode == BandSequential {
		return g.NumBlocks() * g.Bands
	}
	return g.NumBlocks()
}

// RecordBands returns the number of bands stored in one physical block.
func (g *Geometry) RecordBands() int {
	if g.Mode == BandSequential {
		return 1
	}
	return g.Bands
}

// BandBlockBytes returns the size of one band of one block, in bytes.
func (g *Geometry) BandBlockBytes() int {
	return g.BlockRows() * g.BlockCols() * g.BytesPerPixel()
}

// RecordBytes returns the size of one uncompressed physical block.
func (g *Geometry) RecordBytes() int {
	return g.BandBlockBytes() * g.RecordBands()
}

// recordIndex returns the physical block holding the given block and band.
func (g *Geometry) recordIndex(block, band int) int {
	if g.Mode == BandSequential {
		return band*g.NumBlocks() + block
	}
	return block
}

// BandOf extracts one band of a physical block, as rows of samples.
// For band sequential images the record holds a single band, which is
// returned unchanged.
func (g *Geometry) BandOf(record []byte, band int) []byte {
	bpp := g.BytesPerPixel()
	n := g.BandBlockBytes()
	switch g.Mode {
	case BandSequential:
		return record
	case BlockInterleaved:
		return record[band*n : (band+1)*n]
	case RowInterleaved:
		rowBytes := g.BlockCols() * bpp
		out := make([]byte, 0, n)
		for row := 0; row < g.BlockRows(); row++ {
			start := (row*g.Bands + band) * rowBytes
			out = append(out, record[start:start+rowBytes]...)
		}
		return out
	default: // PixelInterleaved
		out := make([]byte, 0, n)
		pixels := g.BlockRows() * g.BlockCols()
		for p := 0; p < pixels; p++ {
			start := (p*g.Bands + band) * bpp
			out = append(out, record[start:start+bpp]...)
		}
		return out
	}
}

// JoinBands combines the band planes of one block into a physical block.
// This is the inverse of BandOf.
func (g *Geometry) JoinBands(planes [][]byte) []byte {
	if g.Mode == BandSequential || len(planes) == 1 {
		return append([]byte(nil), planes[0]...)
	}
	bpp := g.BytesPerPixel()
	out := make([]byte, 0, g.RecordBytes())
	switch g.Mode {
	case BlockInterleaved:
		for _, p := range planes {
			out = append(out, p...)
		}
	case RowInterleaved:
		rowBytes := g.BlockCols() * bpp
		for row := 0; row < g.BlockRows(); row++ {
			for _, p := range planes {
				out = append(out, p[row*rowBytes:(row+1)*rowBytes]...)
			}
		}
	default: // PixelInterleaved
		pixels := g.BlockRows() * g.BlockCols()
		for i := 0; i < pixels; i++ {
			for _, p := range planes {
				out = append(out, p[i*bpp:(i+1)*bpp]...)
			}
		}
	}
	return out
}
