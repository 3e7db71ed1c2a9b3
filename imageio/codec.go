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
	"fmt"
	"io"
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

// Decompressor decodes the blocks of compressed image data.
type Decompressor interface {
	// Open prepares decoding of the compressed blocks in r.  If the
	// image has a block mask, offsets gives the start of every physical
	// block relative to r, or Absent.  Otherwise offsets is nil.
	Open(r *io.SectionReader, g *Geometry, offsets []uint32) (BlockReader, error)
}

// BlockReader gives access to the decoded blocks of an image.
type BlockReader interface {
	// ReadBlock returns physical block i in the uncompressed layout
	// described by the geometry.  The block must be present.
	ReadBlock(i int) ([]byte, error)

	Close() error
}

// Compressor encodes the blocks of an image.
type Compressor interface {
	NewEncoder(g *Geometry, opt *WriterOptions) (BlockEncoder, error)
}

// BlockEncoder encodes physical blocks one at a time.
type BlockEncoder interface {
	EncodeBlock(record []byte) ([]byte, error)

	// Rate returns the value of the COMRAT field for the blocks encoded
	// so far.
	Rate() string
}

var codecs = struct {
	sync.RWMutex
	decompressors map[string]Decompressor
	compressors   map[string]Compressor
}{
	decompressors: make(map[string]Decompressor),
	compressors:   make(map[string]Compressor),
}

// RegisterDecompressor installs the decompressor for an image compression
// code (IC), for example "C3".
func RegisterDecompressor(ic string, d Decompressor) {
	codecs.Lock()
	defer codecs.Unlock()
	codecs.decompressors[ic] = d
}

// RegisterCompressor installs the compressor for an image compression code.
func RegisterCompressor(ic string, c Compressor) {
	codecs.Lock()
	defer codecs.Unlock()
	codecs.compressors[ic] = c
}

// LookupDecompressor returns the decompressor for an image compression code.
func LookupDecompressor(ic string) (Decompressor, bool) {
	codecs.RLock()
	defer codecs.RUnlock()
	d, ok := codecs.decompressors[ic]
	return d, ok
}

// LookupCompressor returns the compressor for an image compression code.
func LookupCompressor(ic string) (Compressor, bool) {
	codecs.RLock()
	defer codecs.RUnlock()
	c, ok := codecs.compressors[ic]
	return c, ok
}

// Decompressors returns the compression codes which can be read, in
// alphabetical order.  Uncompressed data is always supported and not
// listed.
func Decompressors() []string {
	codecs.RLock()
	res := maps.Keys(codecs.decompressors)
	codecs.RUnlock()
	slices.Sort(res)
	return res
}

// IsUncompressed reports whether ic denotes uncompressed image data.
func IsUncompressed(ic string) bool {
	return ic == "NC" || ic == "NM"
}

// SplitBlocks cuts data into the physical blocks given by a block mask.
// Each block extends to the start of the following block in the data, or
// to the end of data.  Absent blocks give nil.
func SplitBlocks(data []byte, offsets []uint32) ([][]byte, error) {
	starts := make([]int, 0, len(offsets))
	for _, off := range offsets {
		if off == Absent {
			continue
		}
		if int64(off) >= int64(len(data)) {
			return nil, fmt.Errorf("%w: block offset %d beyond %d bytes of data",
				errInvalidMask, off, len(data))
		}
		starts = append(starts, int(off))
	}
	slices.Sort(starts)
	starts = slices.Compact(starts)

	res := make([][]byte, len(offsets))
	for i, off := range offsets {
		if off == Absent {
			continue
		}
		start := int(off)
		k, _ := slices.BinarySearch(starts, start)
		end := len(data)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		res[i] = data[start:end]
	}
	return res, nil
}
