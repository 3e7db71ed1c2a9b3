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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Absent is the block mask entry for a block which is not stored.
const Absent uint32 = 0xFFFFFFFF

// Mask is the mask table at the start of the data of a masked image
// segment.
type Mask struct {
	// DataOffset (IMDATOFF) is the offset of the first block from the
	// start of the image data.  It equals the length of the mask table.
	DataOffset uint32

	// PadBits (TPXCDLNTH) is the number of significant bits in Pad.
	// Zero means that the image has no pad pixels.
	PadBits int

	// Pad (TPXCD) is the pad pixel value.
	Pad []byte

	// Blocks (BMR) holds the offset of each physical block relative to
	// the first block, or Absent.  Blocks is nil if the image has no
	// block mask.
	Blocks []uint32

	// Pads (TMR) holds for each physical block whether it contains pad
	// pixels: Absent means no pad pixels.  Pads is nil if the image has
	// no pad pixel mask.
	Pads []uint32
}

const maskHeaderSize = 10

// Len returns the length of the serialized mask table.
func (m *Mask) Len() int {
	return maskHeaderSize + len(m.Pad) + 4*len(m.Blocks) + 4*len(m.Pads)
}

// Present returns the number of blocks which are stored in the file.
func (m *Mask) Present() int {
	if m.Blocks == nil {
		return len(m.Pads)
	}
	n := 0
	for _, off := range m.Blocks {
		if off != Absent {
			n++
		}
	}
	return n
}

// IsPresent reports whether physical block i is stored in the file.
func (m *Mask) IsPresent(i int) bool {
	if m.Blocks == nil {
		return true
	}
	return m.Blocks[i] != Absent
}

// ReadMask reads a mask table for an image with numRecords physical
// blocks.  The image data, including the mask table, is size bytes long.
func ReadMask(r io.Reader, numRecords int, size int64) (*Mask, error) {
	var hdr [maskHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, maskReadError(err)
	}
	m := &Mask{
		DataOffset: binary.BigEndian.Uint32(hdr[0:4]),
		PadBits:    int(binary.BigEndian.Uint16(hdr[8:10])),
	}
	blockRecLen := binary.BigEndian.Uint16(hdr[4:6])
	padRecLen := binary.BigEndian.Uint16(hdr[6:8])
	if blockRecLen != 0 && blockRecLen != 4 {
		return nil, fmt.Errorf("%w: block mask record length %d", errInvalidMask, blockRecLen)
	}
	if padRecLen != 0 && padRecLen != 4 {
		return nil, fmt.Errorf("%w: pad mask record length %d", errInvalidMask, padRecLen)
	}

	need := int64(maskHeaderSize) + int64(m.PadBits+7)/8
	if blockRecLen == 4 {
		need += 4 * int64(numRecords)
	}
	if padRecLen == 4 {
		need += 4 * int64(numRecords)
	}
	if need > size {
		return nil, fmt.Errorf("%w: %d byte mask for %d bytes of image data",
			errInvalidMask, need, size)
	}

	if m.PadBits > 0 {
		m.Pad = make([]byte, (m.PadBits+7)/8)
		if _, err := io.ReadFull(r, m.Pad); err != nil {
			return nil, maskReadError(err)
		}
	}
	if blockRecLen == 4 {
		var err error
		m.Blocks, err = readRecords(r, numRecords)
		if err != nil {
			return nil, err
		}
	}
	if padRecLen == 4 {
		var err error
		m.Pads, err = readRecords(r, numRecords)
		if err != nil {
			return nil, err
		}
	}
	if int(m.DataOffset) < m.Len() {
		return nil, fmt.Errorf("%w: data offset %d inside the %d byte mask",
			errInvalidMask, m.DataOffset, m.Len())
	}
	return m, nil
}

func readRecords(r io.Reader, n int) ([]uint32, error) {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, maskReadError(err)
	}
	res := make([]uint32, n)
	for i := range res {
		res[i] = binary.BigEndian.Uint32(buf[4*i:])
	}
	return res, nil
}

func maskReadError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated", errInvalidMask)
	}
	return err
}

// WriteTo writes the mask table.  DataOffset is written as stored.
func (m *Mask) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, m.Len())
	buf = binary.BigEndian.AppendUint32(buf, m.DataOffset)
	var blockRecLen, padRecLen uint16
	if m.Blocks != nil {
		blockRecLen = 4
	}
	if m.Pads != nil {
		padRecLen = 4
	}
	buf = binary.BigEndian.AppendUint16(buf, blockRecLen)
	buf = binary.BigEndian.AppendUint16(buf, padRecLen)
	buf = binary.BigEndian.AppendUint16(buf, uint16(m.PadBits))
	buf = append(buf, m.Pad...)
	for _, off := range m.Blocks {
		buf = binary.BigEndian.AppendUint32(buf, off)
	}
	for _, off := range m.Pads {
		buf = binary.BigEndian.AppendUint32(buf, off)
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// IsMaskedCompression reports whether image data with compression code ic
// starts with a mask table.
func IsMaskedCompression(ic string) bool {
	switch ic {
	case "NM", "M1", "M3", "M4", "M5", "M8":
		return true
	}
	return false
}

var errInvalidMask = errors.New("invalid image mask")
