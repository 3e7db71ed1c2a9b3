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
	"fmt"
	"io"
	"strconv"

	"seehuhn.de/go/nitf/imageio"
	"seehuhn.de/go/nitf/internal/memfile"
)

// maxLayoutPasses bounds the number of passes needed to compute the
// header length fields.  HL and FL have fixed widths, so two passes
// suffice; a layout which has not settled after maxLayoutPasses passes
// gives errLayout.
const maxLayoutPasses = 4

// headerLen computes the length of the serialized file header.
var headerLen = (*FileHeader).Len

// part is one segment, prepared for writing.
type part struct {
	kind  segmentKind
	index int
	sub   *Subheader
	seg   *Segment
	data  []byte

	image *ImageSegment // set for image segments
}

// Write writes rec as a NITF file to w, starting at the current position
// of w.
//
// All length fields of the file header are computed from the subheaders
// and payloads.  For image segments with an Image writer, the compression
// code is set from the writer and the compression rate field is filled
// in after the image data has been written.  TREs which do not fit into
// their subheader are moved to TRE_OVERFLOW segments, which are added to
// rec.DataExtensions.  After a successful write,
// the Offset and Length fields of all segments describe their location
// in w.
func Write(w io.WriteSeeker, rec *Record) error {
	start, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}

	parts, err := rec.prepare()
	if err != nil {
		return err
	}
	if err := rec.layout(parts); err != nil {
		return err
	}

	hdr, err := rec.Header.Bytes()
	if err != nil {
		return err
	}
	hl, _ := rec.Header.Int("HL")
	if len(hdr) != hl {
		return &ConsistencyError{Segment: "header", Want: int64(hl), Have: int64(len(hdr))}
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	pos := int64(len(hdr))

	for _, p := range parts {
		idx := "[" + strconv.Itoa(p.index) + "]"
		subLen, _ := rec.Header.Int(p.kind.subLength + idx)
		dataLen, _ := rec.Header.Int(p.kind.length + idx)

		sub, err := p.sub.Bytes()
		if err != nil {
			return fmt.Errorf("%s %d: %w", p.kind.name, p.index, err)
		}
		if len(sub) != subLen {
			return &ConsistencyError{Segment: p.kind.name, Index: p.index,
				Part: "subheader", Want: int64(subLen), Have: int64(len(sub))}
		}
		subStart := pos
		if _, err := w.Write(sub); err != nil {
			return err
		}
		pos += int64(len(sub))

		if len(p.data) != dataLen {
			return &ConsistencyError{Segment: p.kind.name, Index: p.index,
				Part: "data", Want: int64(dataLen), Have: int64(len(p.data))}
		}
		if _, err := w.Write(p.data); err != nil {
			return err
		}
		p.seg.Offset = start + pos
		p.seg.Length = int64(len(p.data))
		p.seg.Data = p.data
		p.seg.src = nil
		pos += int64(len(p.data))

		if p.image != nil && p.image.Image != nil {
			err := patchCompressionRate(w, p.image, start+subStart, start+pos)
			if err != nil {
				return fmt.Errorf("%s %d: %w", p.kind.name, p.index, err)
			}
		}
	}

	fl, _ := rec.Header.Int("FL")
	if pos != int64(fl) {
		return &ConsistencyError{Segment: "header", Want: int64(fl), Have: pos}
	}
	return nil
}

// Marshal returns the NITF file for rec.
func Marshal(rec *Record) ([]byte, error) {
	f := memfile.New()
	if err := Write(f, rec); err != nil {
		return nil, err
	}
	return f.Data, nil
}

// prepare collects the segments in file order and computes their
// payloads.
func (rec *Record) prepare() ([]*part, error) {
	if rec.Header == nil {
		rec.Header = NewFileHeader()
	}
	if err := rec.spillExtensions(); err != nil {
		return nil, err
	}
	var parts []*part

	for i, img := range rec.Images {
		p := &part{kind: segmentKinds[0], index: i, sub: img.Subheader.Subheader,
			seg: &img.Segment, image: img}
		if img.Image != nil {
			data, err := img.Image.Bytes()
			if err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			if err := img.Subheader.SetCompression(img.Image.Compression()); err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			p.data = data
		} else {
			data, err := img.payload()
			if err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			p.data = data
		}
		parts = append(parts, p)
	}

	add := func(kind segmentKind, i int, sub *Subheader, seg *Segment) error {
		data, err := seg.payload()
		if err != nil {
			return fmt.Errorf("%s %d: %w", kind.name, i, err)
		}
		parts = append(parts, &part{kind: kind, index: i, sub: sub, seg: seg, data: data})
		return nil
	}
	for i, s := range rec.Graphics {
		if err := add(segmentKinds[1], i, s.Subheader.Subheader, &s.Segment); err != nil {
			return nil, err
		}
	}
	for i, s := range rec.Texts {
		if err := add(segmentKinds[2], i, s.Subheader.Subheader, &s.Segment); err != nil {
			return nil, err
		}
	}
	for i, s := range rec.DataExtensions {
		if err := add(segmentKinds[3], i, s.Subheader.Subheader, &s.Segment); err != nil {
			return nil, err
		}
	}
	for i, s := range rec.Reserved {
		if err := add(segmentKinds[4], i, s.Subheader.Subheader, &s.Segment); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// layout fills in the segment counts, the length fields and the
// complexity level of the file header.
func (rec *Record) layout(parts []*part) error {
	h := rec.Header
	counts := []int{len(rec.Images), len(rec.Graphics), len(rec.Texts),
		len(rec.DataExtensions), len(rec.Reserved)}
	for i, kind := range segmentKinds {
		if err := h.SetInt(kind.count, counts[i]); err != nil {
			return fmt.Errorf("too many %s segments: %w", kind.name, err)
		}
	}
	if err := h.SetInt("NUMX", 0); err != nil {
		return err
	}

	var body int64
	for _, p := range parts {
		subLen, err := p.sub.Len()
		if err != nil {
			return fmt.Errorf("%s %d: %w", p.kind.name, p.index, err)
		}
		idx := "[" + strconv.Itoa(p.index) + "]"
		if err := h.SetInt(p.kind.subLength+idx, subLen); err != nil {
			return fmt.Errorf("%s %d subheader: %w", p.kind.name, p.index, err)
		}
		if err := h.SetInt(p.kind.length+idx, len(p.data)); err != nil {
			return fmt.Errorf("%s %d data: %w", p.kind.name, p.index, err)
		}
		body += int64(subLen) + int64(len(p.data))
	}

	for pass := 0; pass < maxLayoutPasses; pass++ {
		hl, err := headerLen(h)
		if err != nil {
			return err
		}
		fl := int64(hl) + body
		oldHL, _ := h.Int("HL")
		oldFL, _ := h.Int("FL")
		if oldHL == hl && int64(oldFL) == fl {
			level, err := rec.ComplexityLevel()
			if err != nil {
				return err
			}
			return h.SetInt("CLEVEL", level)
		}
		if err := h.SetInt("HL", hl); err != nil {
			return fmt.Errorf("header length: %w", err)
		}
		if err := h.SetInt("FL", int(fl)); err != nil {
			return fmt.Errorf("file length: %w", err)
		}
	}
	return errLayout
}

// patchCompressionRate stores the compression rate reported by the image
// writer in the COMRAT field of a subheader which has already been
// written at subStart.  The file position is restored to end.
func patchCompressionRate(w io.WriteSeeker, img *ImageSegment, subStart, end int64) error {
	if imageio.IsUncompressed(img.Image.Compression()) {
		return nil
	}
	rate := img.Image.CompressionRate()
	if rate == "" {
		return nil
	}
	off, err := img.Subheader.fieldOffset("COMRAT")
	if err != nil {
		return err
	}
	if err := img.Subheader.Set("COMRAT", rate); err != nil {
		return err
	}
	f, err := img.Subheader.fields.Field("COMRAT")
	if err != nil {
		return err
	}

	if _, err := w.Seek(subStart+int64(off), io.SeekStart); err != nil {
		return err
	}
	if _, err := w.Write(f.Raw()); err != nil {
		return err
	}
	_, err = w.Seek(end, io.SeekStart)
	return err
}
