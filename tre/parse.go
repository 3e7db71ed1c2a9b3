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

package tre

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/nitf/field"
)

// Parse decodes the data of a TRE, using the handler registered for tag.
// Tags without a handler give a raw TRE.
func Parse(tag string, data []byte) (*TRE, error) {
	h, ok := Lookup(tag)
	if !ok {
		return ParseRaw(tag, data), nil
	}
	t := &TRE{
		Tag:     tag,
		Length:  len(data),
		handler: h,
		fields:  make(map[string]*field.Field),
	}
	if err := h.Read(t, data); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseRaw stores data in a raw TRE.
func ParseRaw(tag string, data []byte) *TRE {
	t := NewRaw(tag)
	t.Length = len(data)
	t.fields[RawField] = field.NewResizable(field.Binary, len(data))
	_ = t.fields[RawField].SetRaw(data)
	return t
}

// ParseWithDescription decodes data using the given layout.
// All bytes must be consumed.
func ParseWithDescription(tag string, info *DescriptionInfo, data []byte) (*TRE, error) {
	t := &TRE{
		Tag:    tag,
		Length: len(data),
		fields: make(map[string]*field.Field),
	}
	if err := t.decode(info, data); err != nil {
		return nil, err
	}
	return t, nil
}

// decode replaces the contents of t by the fields in data, laid out
// according to info.
func (t *TRE) decode(info *DescriptionInfo, data []byte) error {
	t.info = info
	t.fields = make(map[string]*field.Field)

	src := &sliceSource{data: data}
	err := t.readFields(src)
	if err != nil {
		return &ParseError{Tag: t.Tag, Pos: src.pos, Err: err}
	}
	if src.pos < len(data) {
		return &ParseError{Tag: t.Tag, Pos: src.pos, Err: errTooLong}
	}
	return nil
}

// ReadFrom reads the fields of t from r, driving the cursor over the
// description until it is done.  This is used when the total length is not
// known in advance, as for NITF headers.  The existing fields are
// replaced.
func (t *TRE) ReadFrom(r io.Reader) (int64, error) {
	t.fields = make(map[string]*field.Field)
	src := &streamSource{r: r}
	err := t.readFields(src)
	if err != nil {
		return int64(src.pos), &ParseError{Tag: t.Tag, Pos: src.pos, Err: err}
	}
	t.Length = src.pos
	return int64(src.pos), nil
}

// WriteTo writes the serialized fields of t to w.
func (t *TRE) WriteTo(w io.Writer) (int64, error) {
	data, err := t.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

type byteSource interface {
	// next returns the following n bytes.  If n is Gobble, all remaining
	// bytes are returned.
	next(n int) ([]byte, error)
	remaining() int // -1 if unknown
}

func (t *TRE) readFields(src byteSource) error {
	c := Begin(t.info.Description, t)
	for {
		if err := c.Next(); err != nil {
			return err
		}
		if c.IsDone() {
			return nil
		}
		if src.remaining() == 0 {
			return errTooShort
		}

		buf, err := src.next(c.Length)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Tag, err)
		}
		f := t.allocate(c, len(buf))
		if err := f.SetRaw(buf); err != nil {
			return fmt.Errorf("%s: %w", c.Tag, err)
		}
		if f.Kind() == field.BCSN {
			if err := f.Validate(); err != nil {
				return fmt.Errorf("%s: %w", c.Tag, err)
			}
		}
		t.fields[c.Tag] = f
	}
}

type sliceSource struct {
	data []byte
	pos  int
}

func (s *sliceSource) next(n int) ([]byte, error) {
	if n == Gobble {
		n = len(s.data) - s.pos
	}
	if s.pos+n > len(s.data) {
		return nil, errTooShort
	}
	buf := s.data[s.pos : s.pos+n]
	s.pos += n
	return buf, nil
}

func (s *sliceSource) remaining() int {
	return len(s.data) - s.pos
}

type streamSource struct {
	r   io.Reader
	pos int
}

func (s *streamSource) next(n int) ([]byte, error) {
	if n == Gobble {
		return nil, errGobble
	}
	buf := make([]byte, n)
	k, err := io.ReadFull(s.r, buf)
	s.pos += k
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, errTooShort
	} else if err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *streamSource) remaining() int {
	return -1
}
