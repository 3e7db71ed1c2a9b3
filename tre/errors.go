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
	"strconv"
)

// ErrNotFound is returned when a qualified tag is not present in a TRE.
var ErrNotFound = errors.New("field not found")

// DescriptionError indicates a malformed Description.
type DescriptionError struct {
	Index int
	Msg   string
}

func (err *DescriptionError) Error() string {
	return "malformed TRE description: " + err.Msg +
		" (entry " + strconv.Itoa(err.Index) + ")"
}

// ParseError indicates that the bytes of a TRE do not match its
// description.
type ParseError struct {
	Tag string
	Pos int
	Err error
}

func (err *ParseError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	return "invalid " + err.Tag + " TRE" + middle +
		" (at byte " + strconv.Itoa(err.Pos) + ")"
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

var (
	errTooLong  = errors.New("TRE data is longer than it should be")
	errTooShort = errors.New("TRE data is shorter than it should be")
	errGobble   = errors.New("field of unknown length in a stream")
)
