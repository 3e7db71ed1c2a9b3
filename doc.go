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

// Package nitf reads and writes files in the National Imagery Transmission
// Format (NITF 2.1 and NSIF 1.0).
//
// A NITF file consists of a file header followed by image, graphic, text,
// data extension and reserved extension segments.  Every segment has a
// subheader and a payload.  Headers and subheaders are described by the
// same description tables which are used for tagged record extensions
// (see package tre), so all their fields can be accessed by name:
//
//	rec, warnings, err := nitf.Read(f, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range warnings {
//	    log.Print(w)
//	}
//	title, _ := rec.Header.Get("FTITLE")
//
// The TREs of a header are collected in an Extensions value, for example
// rec.Images[0].Subheader.Extended().
//
// A Record can be modified and written back using Write or Marshal.  The
// writer computes all length fields of the file header; image data can be
// supplied by an imageio.Writer, in which case the compression fields of
// the image subheader are filled in automatically.
package nitf
