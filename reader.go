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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// ReaderOptions configures Read.  A nil value selects the defaults.
type ReaderOptions struct {
	// DeferData leaves the segment payloads in the file.  They are read
	// on demand through Segment.Open and Segment.Load, so the source must
	// remain open while the record is in use.
	DeferData bool
}

// segmentKind describes one of the five segment types, in file order.
type segmentKind struct {
	name      string // used in error messages
	count     string // field holding the number of segments
	subLength string // length table, subheader
	length    string // length table, data
}

var segmentKinds = []segmentKind{
	{"image", "NUMI", "LISH", "LI"},
	{"graphic", "NUMS", "LSSH", "LS"},
	{"text", "NUMT", "LTSH", "LT"},
	{"DES", "NUMDES", "LDSH", "LD"},
	{"RES", "NUMRES", "LRESH", "LRE"},
}

const unknownFileLength = 999999999999

// Read parses a NITF file.
//
// Problems which affect only single TREs do not stop the reader: the
// TRE is kept as raw data and a warning is returned.  Structural problems
// give a *MalformedFileError.
func Read(r io.ReadSeeker, opt *ReaderOptions) (*Record, []Warning, error) {
	if opt == nil {
		opt = &ReaderOptions{}
	}
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	var magic [9]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, nil, &MalformedFileError{Err: err}
	}
	switch string(magic[:]) {
	case "NITF02.10", "NSIF01.00":
		// pass
	default:
		return nil, nil, &MalformedFileError{
			Err: fmt.Errorf("%w %q", errVersion, magic[:]),
		}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	rec := &Record{Header: &FileHeader{newSubheader("NITF", fileHeaderInfo, udhdSection, xhdSection)}}
	hdrLen, warnings, err := rec.Header.readFrom(bufio.NewReader(r), 0)
	if err != nil {
		return nil, nil, err
	}
	hl, err := rec.Header.Int("HL")
	if err != nil {
		return nil, nil, &MalformedFileError{Err: err}
	}
	if int64(hl) != hdrLen {
		return nil, nil, &MalformedFileError{
			Pos: hdrLen,
			Err: fmt.Errorf("header length HL=%d, but header has %d bytes", hl, hdrLen),
		}
	}

	var src io.ReaderAt
	if opt.DeferData {
		if ra, ok := r.(io.ReaderAt); ok {
			src = ra
		} else {
			src = &seekReaderAt{r: r}
		}
	}

	pos := hdrLen
	for _, kind := range segmentKinds {
		n, err := rec.Header.Int(kind.count)
		if err != nil {
			return nil, nil, &MalformedFileError{Err: err}
		}
		for i := 0; i < n; i++ {
			idx := "[" + strconv.Itoa(i) + "]"
			subLen, err := rec.Header.Int(kind.subLength + idx)
			if err != nil {
				return nil, nil, &MalformedFileError{Err: err}
			}
			dataLen, err := rec.Header.Int(kind.length + idx)
			if err != nil {
				return nil, nil, &MalformedFileError{Err: err}
			}

			sub := newSegmentSubheader(kind.name)
			if _, err := r.Seek(pos, io.SeekStart); err != nil {
				return nil, nil, err
			}
			lr := &io.LimitedReader{R: r, N: int64(subLen)}
			got, w, err := sub.readFrom(bufio.NewReader(lr), pos)
			if err != nil {
				return nil, nil, fmt.Errorf("%s %d: %w", kind.name, i, err)
			}
			if got != int64(subLen) {
				return nil, nil, &MalformedFileError{
					Pos: pos + got,
					Err: fmt.Errorf("%s %d: subheader has %d bytes, expected %d",
						kind.name, i, got, subLen),
				}
			}
			warnings = append(warnings, w...)

			seg := Segment{
				Offset: pos + int64(subLen),
				Length: int64(dataLen),
				src:    src,
			}
			if seg.Offset+seg.Length > size {
				return nil, nil, &MalformedFileError{
					Pos: seg.Offset,
					Err: fmt.Errorf("%s %d: %d bytes of data extend beyond the end of file",
						kind.name, i, dataLen),
				}
			}
			if !opt.DeferData {
				if _, err := r.Seek(seg.Offset, io.SeekStart); err != nil {
					return nil, nil, err
				}
				seg.Data = make([]byte, dataLen)
				if _, err := io.ReadFull(r, seg.Data); err != nil {
					return nil, nil, &MalformedFileError{
						Pos: seg.Offset,
						Err: fmt.Errorf("%s %d data: %w", kind.name, i, err),
					}
				}
			}
			rec.addSegment(kind.name, sub, seg)
			pos = seg.Offset + seg.Length
		}
	}

	fl, err := rec.Header.Int("FL")
	if err == nil && fl != unknownFileLength && int64(fl) != pos {
		warnings = append(warnings, Warning{
			Pos: pos,
			Msg: fmt.Sprintf("file length FL=%d, but segments end at byte %d", fl, pos),
		})
	}
	return rec, warnings, nil
}

// ReadBytes parses a NITF file held in memory.
func ReadBytes(data []byte) (*Record, []Warning, error) {
	return Read(bytes.NewReader(data), nil)
}

func newSegmentSubheader(kind string) *Subheader {
	switch kind {
	case "image":
		return newSubheader("IM", imageSubheaderInfo, udidSection, ixshdSection)
	case "graphic":
		return newSubheader("SY", graphicSubheaderInfo, sxshdSection)
	case "text":
		return newSubheader("TE", textSubheaderInfo, txshdSection)
	case "DES":
		return newSubheader("DE", desSubheaderInfo)
	default:
		return newSubheader("RE", resSubheaderInfo)
	}
}

func (rec *Record) addSegment(kind string, sub *Subheader, seg Segment) {
	switch kind {
	case "image":
		rec.Images = append(rec.Images, &ImageSegment{Subheader: &ImageSubheader{sub}, Segment: seg})
	case "graphic":
		rec.Graphics = append(rec.Graphics, &GraphicSegment{Subheader: &GraphicSubheader{sub}, Segment: seg})
	case "text":
		rec.Texts = append(rec.Texts, &TextSegment{Subheader: &TextSubheader{sub}, Segment: seg})
	case "DES":
		rec.DataExtensions = append(rec.DataExtensions, &DESegment{Subheader: &DESubheader{sub}, Segment: seg})
	default:
		rec.Reserved = append(rec.Reserved, &RESegment{Subheader: &RESubheader{sub}, Segment: seg})
	}
}

// seekReaderAt implements io.ReaderAt on top of an io.ReadSeeker.
type seekReaderAt struct {
	mu sync.Mutex
	r  io.ReadSeeker
}

func (s *seekReaderAt) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.r.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(s.r, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return n, err
}

// IsNITF reports whether data starts with a supported NITF or NSIF file
// header signature.
func IsNITF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("NITF02.10")) ||
		bytes.HasPrefix(data, []byte("NSIF01.00"))
}
