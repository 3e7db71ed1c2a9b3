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
	"errors"
	"fmt"
	"io"
	"time"

	"seehuhn.de/go/nitf/tre"
)

// Subheader holds the fields of the file header or of a segment
// subheader.  Fields are addressed by their NITF names, for example
// "FTITLE"; fields inside loops carry their indices, for example
// "LISH[2]".
type Subheader struct {
	fields   *tre.TRE
	sections []extSection
	ext      []*Extensions
}

func newSubheader(name string, info *tre.DescriptionInfo, sections ...extSection) *Subheader {
	t, err := tre.NewWithDescription(name, info)
	if err != nil {
		// the built-in descriptions are valid
		panic(err)
	}
	s := &Subheader{
		fields:   t,
		sections: sections,
		ext:      make([]*Extensions, len(sections)),
	}
	for i := range s.ext {
		s.ext[i] = &Extensions{}
	}
	return s
}

// TRE gives direct access to the fields of the subheader.
func (s *Subheader) TRE() *tre.TRE {
	return s.fields
}

// Get returns the value of a field, with surrounding spaces removed.
func (s *Subheader) Get(tag string) (string, error) {
	return s.fields.Get(tag)
}

// Int returns the value of a numeric field.
func (s *Subheader) Int(tag string) (int, error) {
	return s.fields.Int(tag)
}

// Set sets a field to a text value.  Values shorter than the field are
// padded.
func (s *Subheader) Set(tag, value string) error {
	return s.fields.SetString(tag, value)
}

// SetInt sets a field to an integer value.
func (s *Subheader) SetInt(tag string, value int) error {
	return s.fields.SetInt(tag, int64(value))
}

// Exists reports whether the subheader currently has the given field.
func (s *Subheader) Exists(tag string) bool {
	return s.fields.Exists(tag)
}

// Fields returns the names of all fields in file order.
func (s *Subheader) Fields() []string {
	return s.fields.Fields()
}

// Print writes one line per field.
func (s *Subheader) Print(w io.Writer) error {
	return s.fields.Print(w)
}

// setTime stores t in a 14 character date field, CCYYMMDDhhmmss.
func (s *Subheader) setTime(tag string, t time.Time) error {
	return s.Set(tag, t.UTC().Format("20060102150405"))
}

func (s *Subheader) getTime(tag string) (time.Time, error) {
	v, err := s.Get(tag)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse("20060102150405", v)
}

// syncExtensions stores the serialized TREs in the extension fields.
func (s *Subheader) syncExtensions() error {
	for i, sec := range s.sections {
		data, err := s.ext[i].Bytes()
		if err != nil {
			return err
		}
		if len(data) > maxExtensionBytes {
			return fmt.Errorf("%s: %w (%d bytes)", sec.data, errExtensionSize, len(data))
		}

		overflow := s.overflowIndex(i)
		if len(data) == 0 && overflow == 0 {
			if err := s.SetInt(sec.length, 0); err != nil {
				return err
			}
			continue
		}
		if err := s.SetInt(sec.length, len(data)+3); err != nil {
			return err
		}
		if err := s.SetInt(sec.overflow, overflow); err != nil {
			return err
		}
		if len(data) > 0 {
			if err := s.fields.SetValue(sec.data, data); err != nil {
				return err
			}
		}
	}
	return nil
}

// overflowIndex returns the 1-based index of the TRE_OVERFLOW segment
// which continues extension section i, or 0 if there is none.
func (s *Subheader) overflowIndex(i int) int {
	sec := s.sections[i]
	if n, _ := s.Int(sec.length); n == 0 {
		return 0
	}
	idx, _ := s.Int(sec.overflow)
	return idx
}

// setOverflowIndex records that extension section i is continued in the
// TRE_OVERFLOW segment with the given 1-based index.
func (s *Subheader) setOverflowIndex(i, idx int) error {
	sec := s.sections[i]
	if n, _ := s.Int(sec.length); n < 3 {
		if err := s.SetInt(sec.length, 3); err != nil {
			return err
		}
	}
	return s.SetInt(sec.overflow, idx)
}

// Bytes returns the serialized subheader, including the extension
// sections.
func (s *Subheader) Bytes() ([]byte, error) {
	if err := s.syncExtensions(); err != nil {
		return nil, err
	}
	return s.fields.Bytes()
}

// Len returns the length of the serialized subheader.
func (s *Subheader) Len() (int, error) {
	if err := s.syncExtensions(); err != nil {
		return 0, err
	}
	return s.fields.ComputeLength()
}

// fieldOffset returns the position of a field within the serialized
// subheader.
func (s *Subheader) fieldOffset(tag string) (int, error) {
	pos := 0
	c := tre.Begin(s.fields.Description().Description, s.fields)
	for {
		if err := c.Next(); err != nil {
			return 0, err
		}
		if c.IsDone() {
			return 0, fmt.Errorf("%s: %w", tag, tre.ErrNotFound)
		}
		if c.Tag == tag {
			return pos, nil
		}
		pos += c.Length
	}
}

// readFrom parses the subheader from r and decodes the extension
// sections.  The subheader starts at file offset pos.
func (s *Subheader) readFrom(r io.Reader, pos int64) (int64, []Warning, error) {
	n, err := s.fields.ReadFrom(r)
	if err != nil {
		var pe *tre.ParseError
		if errors.As(err, &pe) {
			return n, nil, &MalformedFileError{Pos: pos + int64(pe.Pos), Err: err}
		}
		return n, nil, &MalformedFileError{Pos: pos + n, Err: err}
	}

	var warnings []Warning
	for i, sec := range s.sections {
		f, ok := s.fields.Lookup(sec.data)
		if !ok {
			continue
		}
		off, err := s.fieldOffset(sec.data)
		if err != nil {
			return n, nil, err
		}
		ext, w := parseExtensions(f.Raw(), pos+int64(off))
		s.ext[i] = ext
		warnings = append(warnings, w...)
	}
	return n, warnings, nil
}

// FileHeader is the header at the start of a NITF file.
type FileHeader struct {
	*Subheader
}

// NewFileHeader returns a file header for a NITF 2.1 file without
// segments.
func NewFileHeader() *FileHeader {
	h := &FileHeader{newSubheader("NITF", fileHeaderInfo, udhdSection, xhdSection)}
	defaults := []struct{ tag, value string }{
		{"FHDR", "NITF"},
		{"FVER", "02.10"},
		{"CLEVEL", "03"},
		{"STYPE", "BF01"},
		{"FSCLAS", "U"},
	}
	for _, d := range defaults {
		if err := h.Set(d.tag, d.value); err != nil {
			panic(err)
		}
	}
	return h
}

// UserDefined returns the TREs in the user defined header data (UDHD).
func (h *FileHeader) UserDefined() *Extensions {
	return h.ext[0]
}

// Extended returns the TREs in the extended header data (XHD).
func (h *FileHeader) Extended() *Extensions {
	return h.ext[1]
}

// SetDateTime sets the file date and time (FDT).
func (h *FileHeader) SetDateTime(t time.Time) error {
	return h.setTime("FDT", t)
}

// DateTime returns the file date and time (FDT).
func (h *FileHeader) DateTime() (time.Time, error) {
	return h.getTime("FDT")
}

// GraphicSubheader is the subheader of a graphic segment.
type GraphicSubheader struct {
	*Subheader
}

// NewGraphicSubheader returns a subheader for a CGM graphic.
func NewGraphicSubheader() *GraphicSubheader {
	s := &GraphicSubheader{newSubheader("SY", graphicSubheaderInfo, sxshdSection)}
	for _, d := range [][2]string{{"SY", "SY"}, {"SSCLAS", "U"}, {"SFMT", "C"}, {"SCOLOR", "C"}} {
		if err := s.Set(d[0], d[1]); err != nil {
			panic(err)
		}
	}
	return s
}

// Extended returns the TREs of the extended subheader (SXSHD).
func (s *GraphicSubheader) Extended() *Extensions {
	return s.ext[0]
}

// TextSubheader is the subheader of a text segment.
type TextSubheader struct {
	*Subheader
}

// NewTextSubheader returns a subheader for a text segment in the standard
// format "STA".
func NewTextSubheader() *TextSubheader {
	s := &TextSubheader{newSubheader("TE", textSubheaderInfo, txshdSection)}
	for _, d := range [][2]string{{"TE", "TE"}, {"TSCLAS", "U"}, {"TXTFMT", "STA"}} {
		if err := s.Set(d[0], d[1]); err != nil {
			panic(err)
		}
	}
	return s
}

// Extended returns the TREs of the extended subheader (TXSHD).
func (s *TextSubheader) Extended() *Extensions {
	return s.ext[0]
}

// SetDateTime sets the text date and time (TXTDT).
func (s *TextSubheader) SetDateTime(t time.Time) error {
	return s.setTime("TXTDT", t)
}

// DESubheader is the subheader of a data extension segment.
type DESubheader struct {
	*Subheader
}

// NewDESubheader returns a subheader for a data extension segment of the
// given type.
func NewDESubheader(id string, version int) (*DESubheader, error) {
	s := &DESubheader{newSubheader("DE", desSubheaderInfo)}
	if err := s.Set("DE", "DE"); err != nil {
		return nil, err
	}
	if err := s.Set("DESCLAS", "U"); err != nil {
		return nil, err
	}
	if err := s.Set("DESID", id); err != nil {
		return nil, err
	}
	if err := s.SetInt("DESVER", version); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the DES type identifier (DESID).
func (s *DESubheader) ID() string {
	id, _ := s.Get("DESID")
	return id
}

// RESubheader is the subheader of a reserved extension segment.
type RESubheader struct {
	*Subheader
}

// NewRESubheader returns a subheader for a reserved extension segment of
// the given type.
func NewRESubheader(id string, version int) (*RESubheader, error) {
	s := &RESubheader{newSubheader("RE", resSubheaderInfo)}
	for _, d := range [][2]string{{"RE", "RE"}, {"RESCLAS", "U"}, {"RESID", id}} {
		if err := s.Set(d[0], d[1]); err != nil {
			return nil, err
		}
	}
	if err := s.SetInt("RESVER", version); err != nil {
		return nil, err
	}
	return s, nil
}
