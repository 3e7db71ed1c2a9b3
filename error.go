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
	"strconv"
)

// MalformedFileError indicates that a NITF file could not be parsed.
type MalformedFileError struct {
	Pos int64
	Err error
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid NITF file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// ConsistencyError is returned by the writer when the number of bytes
// emitted for a part of the file differs from the length recorded in the
// file header.
type ConsistencyError struct {
	Segment string // "header", "image", "graphic", "text", "DES" or "RES"
	Index   int
	Part    string // "subheader" or "data"
	Want    int64
	Have    int64
}

func (err *ConsistencyError) Error() string {
	where := err.Segment
	if err.Segment != "header" {
		where = fmt.Sprintf("%s %d %s", err.Segment, err.Index, err.Part)
	}
	return fmt.Sprintf("%s: wrote %d bytes, expected %d", where, err.Have, err.Want)
}

// Warning describes a recoverable problem found while reading a file.
type Warning struct {
	Pos int64  // file offset
	Tag string // TRE tag, if the problem concerns a TRE
	Msg string
}

func (w Warning) String() string {
	if w.Tag != "" {
		return fmt.Sprintf("%s at byte %d: %s", w.Tag, w.Pos, w.Msg)
	}
	return fmt.Sprintf("byte %d: %s", w.Pos, w.Msg)
}

var (
	errVersion       = errors.New("unsupported file version")
	errLayout        = errors.New("file layout does not converge")
	errNotLoaded     = errors.New("segment data not available")
	errExtensionSize = errors.New("extensions too long for the subheader")
)
