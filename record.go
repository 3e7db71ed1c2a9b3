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
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Record is the in-memory representation of a NITF file.
type Record struct {
	Header *FileHeader

	Images         []*ImageSegment
	Graphics       []*GraphicSegment
	Texts          []*TextSegment
	DataExtensions []*DESegment
	Reserved       []*RESegment
}

// NewRecord returns a record with a default NITF 2.1 file header and no
// segments.
func NewRecord() *Record {
	return &Record{Header: NewFileHeader()}
}

// Segment holds the payload of a segment and its location in a file.
type Segment struct {
	// Offset is the position of the payload in the file the segment was
	// read from or last written to.
	Offset int64

	// Length is the length of the payload in bytes.
	Length int64

	// Data is the payload.  Data is nil if the record was read with
	// deferred loading.
	Data []byte

	src io.ReaderAt
}

// Open returns a reader for the payload.
func (s *Segment) Open() (*io.SectionReader, error) {
	if s.Data != nil {
		return io.NewSectionReader(bytes.NewReader(s.Data), 0, int64(len(s.Data))), nil
	}
	if s.src != nil {
		return io.NewSectionReader(s.src, s.Offset, s.Length), nil
	}
	if s.Length == 0 {
		return io.NewSectionReader(bytes.NewReader(nil), 0, 0), nil
	}
	return nil, errNotLoaded
}

// Load reads a deferred payload into Data.
func (s *Segment) Load() error {
	if s.Data != nil {
		return nil
	}
	r, err := s.Open()
	if err != nil {
		return err
	}
	data := make([]byte, r.Size())
	if _, err := io.ReadFull(r, data); err != nil {
		return &MalformedFileError{Pos: s.Offset, Err: err}
	}
	s.Data = data
	return nil
}

// SetData replaces the payload.
func (s *Segment) SetData(data []byte) {
	s.Data = data
	s.Length = int64(len(data))
	s.src = nil
}

// payload returns the data to write.
func (s *Segment) payload() ([]byte, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.Data, nil
}

// GraphicSegment is a graphic segment, holding CGM data.
type GraphicSegment struct {
	Subheader *GraphicSubheader
	Segment
}

// TextSegment is a text segment.
type TextSegment struct {
	Subheader *TextSubheader
	Segment
}

// NewTextSegment returns a text segment holding text in the given format.
func NewTextSegment(format, text string) (*TextSegment, error) {
	s := &TextSegment{Subheader: NewTextSubheader()}
	if err := s.SetText(format, text); err != nil {
		return nil, err
	}
	return s, nil
}

// Text decodes the payload according to the text format (TXTFMT).  UT1
// text is ISO 8859-1 encoded, U8S text is UTF-8.  Other formats use the
// basic character set and are returned unchanged.
func (s *TextSegment) Text() (string, error) {
	data, err := s.payload()
	if err != nil {
		return "", err
	}
	format, _ := s.Subheader.Get("TXTFMT")
	switch format {
	case "UT1":
		res, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(res), nil
	case "U8S":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text segment: invalid UTF-8")
		}
	}
	return string(data), nil
}

// SetText sets the text format (TXTFMT) and encodes text as the payload.
func (s *TextSegment) SetText(format, text string) error {
	var data []byte
	switch format {
	case "UT1":
		var err error
		data, err = charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return fmt.Errorf("text cannot be represented in ISO 8859-1: %w", err)
		}
	case "U8S":
		data = []byte(text)
	case "STA", "MTF":
		for i := 0; i < len(text); i++ {
			c := text[i]
			if c >= 0x80 || (c < 0x20 && c != '\n' && c != '\r' && c != '\t') {
				return fmt.Errorf("invalid character %q in %s text", c, format)
			}
		}
		data = []byte(text)
	default:
		return fmt.Errorf("unknown text format %q", format)
	}
	if err := s.Subheader.Set("TXTFMT", format); err != nil {
		return err
	}
	s.SetData(data)
	return nil
}

// DESegment is a data extension segment.
type DESegment struct {
	Subheader *DESubheader
	Segment
}

// IsOverflow reports whether the segment holds TREs which did not fit
// into a header.
func (s *DESegment) IsOverflow() bool {
	return s.Subheader.ID() == overflowDESID
}

// Overflow decodes the TREs of a TRE_OVERFLOW segment.
func (s *DESegment) Overflow() (*Extensions, []Warning, error) {
	if !s.IsOverflow() {
		return nil, nil, fmt.Errorf("DES %q does not hold TREs", s.Subheader.ID())
	}
	data, err := s.payload()
	if err != nil {
		return nil, nil, err
	}
	ext, warnings := parseExtensions(data, s.Offset)
	return ext, warnings, nil
}

// RESegment is a reserved extension segment.
type RESegment struct {
	Subheader *RESubheader
	Segment
}
