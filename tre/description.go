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
	"strconv"

	"seehuhn.de/go/nitf/field"
)

// DataType identifies the kind of an entry in a Description.
type DataType int

// The first three data types describe fields, the others are control
// entries which steer the Cursor.
const (
	BCSA DataType = iota
	BCSN
	Binary
	Loop
	EndLoop
	If
	EndIf
	CompLen
	End
)

func (d DataType) String() string {
	switch d {
	case BCSA:
		return "BCS_A"
	case BCSN:
		return "BCS_N"
	case Binary:
		return "BINARY"
	case Loop:
		return "LOOP"
	case EndLoop:
		return "ENDLOOP"
	case If:
		return "IF"
	case EndIf:
		return "ENDIF"
	case CompLen:
		return "COMP_LEN"
	case End:
		return "END"
	default:
		return "DataType(" + strconv.Itoa(int(d)) + ")"
	}
}

// IsField reports whether entries of this type produce a field.
func (d DataType) IsField() bool {
	return d == BCSA || d == BCSN || d == Binary
}

// FieldKind returns the field kind used to store values of this type.
func (d DataType) FieldKind() field.Kind {
	switch d {
	case BCSN:
		return field.BCSN
	case Binary:
		return field.Binary
	default:
		return field.BCSA
	}
}

// Special values for Entry.Length and TRE.Length.
const (
	// DefaultLength as a TRE length means that the length is computed
	// from the description.
	DefaultLength = 0

	// Gobble as an entry length makes the field consume all remaining
	// bytes of the TRE.
	Gobble = -1

	// ConditionalLength as an entry length means that the length is
	// computed from the postfix expression in Entry.Special.
	ConditionalLength = -100
)

// Constant is the Loop label which makes the loop count a literal
// integer, given in the Tag of the entry.
const Constant = "CONSTANT"

// Entry is one row of a Description.
//
// For field entries, Tag is the field name and Label a human readable
// description.  For Loop entries, Tag names the field holding the loop
// count and Label optionally holds an operation like "- 1" which is
// applied to the count.  For If entries, Tag names the field to test and
// Label holds the comparison, for example "eq R" or "& 0x80000000".
type Entry struct {
	Type    DataType
	Length  int
	Label   string
	Tag     string
	Special string
}

// Description is the layout of one TRE, expressed as a small program.
// A well-formed description ends with an End entry.
type Description []Entry

// Validate checks that loops and conditionals are properly nested and that
// the description is terminated by End.
func (d Description) Validate() error {
	var open []int
	for i, e := range d {
		switch e.Type {
		case BCSA, BCSN, Binary:
			if e.Tag == "" {
				return &DescriptionError{Index: i, Msg: "field without tag"}
			}
			if e.Length < 0 && e.Length != Gobble && e.Length != ConditionalLength {
				return &DescriptionError{Index: i, Msg: "invalid length " + strconv.Itoa(e.Length)}
			}
		case Loop, If:
			if e.Type == Loop && e.Label == Constant {
				if _, err := strconv.Atoi(e.Tag); err != nil {
					return &DescriptionError{Index: i, Msg: "invalid constant loop count"}
				}
			} else if e.Tag == "" {
				return &DescriptionError{Index: i, Msg: e.Type.String() + " without tag"}
			}
			open = append(open, i)
		case EndLoop, EndIf:
			want := Loop
			if e.Type == EndIf {
				want = If
			}
			if len(open) == 0 || d[open[len(open)-1]].Type != want {
				return &DescriptionError{Index: i, Msg: "unmatched " + e.Type.String()}
			}
			open = open[:len(open)-1]
		case CompLen:
			// ignored by the cursor
		case End:
			if len(open) > 0 {
				return &DescriptionError{Index: open[len(open)-1],
					Msg: "unterminated " + d[open[len(open)-1]].Type.String()}
			}
			if i != len(d)-1 {
				return &DescriptionError{Index: i + 1, Msg: "entries after END"}
			}
			return nil
		default:
			return &DescriptionError{Index: i, Msg: "unknown data type " + e.Type.String()}
		}
	}
	return &DescriptionError{Index: len(d), Msg: "missing END"}
}

// DescriptionInfo is one alternative layout for a TRE.
type DescriptionInfo struct {
	// Name identifies the alternative, for example "ACFTA_132".
	Name string

	// Length is the TRE length this layout applies to, or DefaultLength
	// if the layout applies to any length.
	Length int

	Description Description
}

// Raw is the layout used for TREs without a known structure.
// The single field raw_data holds all bytes.
var Raw = &DescriptionInfo{
	Name: "raw",
	Description: Description{
		{Type: Binary, Length: Gobble, Label: "Raw Data", Tag: RawField},
		{Type: End},
	},
}

// RawField is the name of the field holding the contents of a raw TRE.
const RawField = "raw_data"
