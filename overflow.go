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
	"slices"
)

// maxExtensionBytes is the largest extension section which fits into a
// subheader.  The five digit length field also counts the three digit
// overflow index.
const maxExtensionBytes = 99999 - 3

// spillExtensions moves TREs which do not fit into their subheader into
// TRE_OVERFLOW data extension segments.  Overflow segments are appended
// to rec.DataExtensions, or extended if the subheader already refers to
// one.
func (rec *Record) spillExtensions() error {
	type owner struct {
		name string
		sub  *Subheader
		item int // DESITEM, 0 for the file header
	}
	owners := []owner{{"header", rec.Header.Subheader, 0}}
	for i, s := range rec.Images {
		owners = append(owners, owner{"image", s.Subheader.Subheader, i + 1})
	}
	for i, s := range rec.Graphics {
		owners = append(owners, owner{"graphic", s.Subheader.Subheader, i + 1})
	}
	for i, s := range rec.Texts {
		owners = append(owners, owner{"text", s.Subheader.Subheader, i + 1})
	}

	for _, o := range owners {
		for i := range o.sub.sections {
			if err := rec.spill(o.sub, i, o.item); err != nil {
				return fmt.Errorf("%s %s: %w", o.name, o.sub.sections[i].data, err)
			}
		}
	}
	return nil
}

func (rec *Record) spill(s *Subheader, i, item int) error {
	ext := s.ext[i]
	keep, size := 0, 0
	for _, t := range ext.list {
		data, err := t.Bytes()
		if err != nil {
			return err
		}
		n := tagLen + lengthLen + len(data)
		if size+n > maxExtensionBytes {
			break
		}
		size += n
		keep++
	}
	if keep == len(ext.list) {
		return nil
	}

	des, err := rec.overflowSegment(s, i, item)
	if err != nil {
		return err
	}
	spilled, _, err := des.Overflow()
	if err != nil {
		return err
	}
	spilled.list = append(spilled.list, ext.list[keep:]...)
	data, err := spilled.Bytes()
	if err != nil {
		return err
	}
	des.SetData(data)
	ext.list = slices.Clip(ext.list[:keep])
	return nil
}

// overflowSegment returns the TRE_OVERFLOW segment for extension section
// i of s, creating it if needed.
func (rec *Record) overflowSegment(s *Subheader, i, item int) (*DESegment, error) {
	idx := s.overflowIndex(i)
	if idx > 0 && idx <= len(rec.DataExtensions) && rec.DataExtensions[idx-1].IsOverflow() {
		return rec.DataExtensions[idx-1], nil
	}

	sub, err := NewDESubheader(overflowDESID, 1)
	if err != nil {
		return nil, err
	}
	if err := sub.Set("DESOFLW", s.sections[i].data); err != nil {
		return nil, err
	}
	if err := sub.SetInt("DESITEM", item); err != nil {
		return nil, err
	}
	des := &DESegment{Subheader: sub}
	des.SetData([]byte{})
	rec.DataExtensions = append(rec.DataExtensions, des)
	if err := s.setOverflowIndex(i, len(rec.DataExtensions)); err != nil {
		rec.DataExtensions = rec.DataExtensions[:len(rec.DataExtensions)-1]
		return nil, err
	}
	return des, nil
}
