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
	"iter"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/nitf/tre"
)

const (
	tagLen    = 6 // CETAG
	lengthLen = 5 // CEL
)

// Extensions is an ordered list of TREs, stored in one of the extension
// sections of a header.
type Extensions struct {
	list []*tre.TRE
}

// Len returns the number of TREs.
func (e *Extensions) Len() int {
	return len(e.list)
}

// Append adds t at the end of the list.
func (e *Extensions) Append(t *tre.TRE) {
	e.list = append(e.list, t)
}

// Find returns all TREs with the given tag, in file order.
func (e *Extensions) Find(tag string) []*tre.TRE {
	var res []*tre.TRE
	for _, t := range e.list {
		if t.Tag == tag {
			res = append(res, t)
		}
	}
	return res
}

// First returns the first TRE with the given tag, or nil.
func (e *Extensions) First(tag string) *tre.TRE {
	for _, t := range e.list {
		if t.Tag == tag {
			return t
		}
	}
	return nil
}

// Remove deletes all TREs with the given tag and returns the number of
// TREs removed.
func (e *Extensions) Remove(tag string) int {
	n := len(e.list)
	e.list = slices.DeleteFunc(e.list, func(t *tre.TRE) bool {
		return t.Tag == tag
	})
	return n - len(e.list)
}

// All iterates over the TREs in file order.
func (e *Extensions) All() iter.Seq[*tre.TRE] {
	return func(yield func(*tre.TRE) bool) {
		for _, t := range e.list {
			if !yield(t) {
				return
			}
		}
	}
}

// Tags returns the distinct tags of the TREs, in order of first
// occurrence.
func (e *Extensions) Tags() []string {
	var res []string
	for _, t := range e.list {
		if !slices.Contains(res, t.Tag) {
			res = append(res, t.Tag)
		}
	}
	return res
}

// Bytes serializes the TREs.  Each TRE is preceded by its tag, padded
// with spaces to six characters, and its length as five digits.
func (e *Extensions) Bytes() ([]byte, error) {
	var buf []byte
	for _, t := range e.list {
		if len(t.Tag) > tagLen {
			return nil, fmt.Errorf("invalid TRE tag %q", t.Tag)
		}
		data, err := t.Bytes()
		if err != nil {
			return nil, err
		}
		if len(data) >= 100000 {
			return nil, fmt.Errorf("%s: %d bytes exceed the TRE length limit",
				t.Tag, len(data))
		}
		buf = append(buf, fmt.Sprintf("%-6s%05d", t.Tag, len(data))...)
		buf = append(buf, data...)
	}
	return buf, nil
}

// Clone returns a deep copy of the list.
func (e *Extensions) Clone() *Extensions {
	res := &Extensions{list: make([]*tre.TRE, len(e.list))}
	for i, t := range e.list {
		res.list[i] = t.Clone()
	}
	return res
}

// parseExtensions decodes the TREs in data.  TREs which cannot be decoded
// are kept as raw TREs and reported as warnings; pos is the file offset
// of data, used in the warnings.
func parseExtensions(data []byte, pos int64) (*Extensions, []Warning) {
	e := &Extensions{}
	var warnings []Warning
	for len(data) > 0 {
		if len(data) < tagLen+lengthLen {
			warnings = append(warnings, Warning{
				Pos: pos,
				Msg: fmt.Sprintf("%d trailing bytes in extension section ignored", len(data)),
			})
			break
		}
		tag := strings.TrimRight(string(data[:tagLen]), " ")
		length, err := strconv.Atoi(string(data[tagLen : tagLen+lengthLen]))
		body := data[tagLen+lengthLen:]
		if err != nil || length < 0 || length > len(body) {
			warnings = append(warnings, Warning{
				Pos: pos,
				Tag: tag,
				Msg: fmt.Sprintf("invalid TRE length %q, using the remaining %d bytes",
					data[tagLen:tagLen+lengthLen], len(body)),
			})
			length = len(body)
		}
		body = body[:length]

		t, err := tre.Parse(tag, body)
		if err != nil {
			warnings = append(warnings, Warning{
				Pos: pos,
				Tag: tag,
				Msg: fmt.Sprintf("kept as raw data: %v", err),
			})
			t = tre.ParseRaw(tag, body)
		}
		e.list = append(e.list, t)

		n := tagLen + lengthLen + length
		data = data[n:]
		pos += int64(n)
	}
	return e, warnings
}
