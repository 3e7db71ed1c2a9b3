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

package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	s := Short("nitf-tool")
	v := Version()
	if v == "" && s != "nitf-tool" {
		t.Errorf("Short() = %q without version information", s)
	}
	if v != "" && s != "nitf-tool "+v {
		t.Errorf("Short() = %q, version %q", s, v)
	}
	if strings.ContainsAny(v, " \n") {
		t.Errorf("invalid version %q", v)
	}
}
