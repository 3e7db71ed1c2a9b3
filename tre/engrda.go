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
	"strings"

	"seehuhn.de/go/nitf/field"
)

var engrdaDescription = &DescriptionInfo{
	Name: "ENGRDA",
	Description: Description{
		{Type: BCSA, Length: 20, Label: "Unique Source System Name", Tag: "RESRC"},
		{Type: BCSN, Length: 3, Label: "Record Entry Count", Tag: "RECNT"},
		{Type: Loop, Tag: "RECNT"},
		{Type: BCSN, Length: 2, Label: "Engineering Data Label Length", Tag: "ENGLN"},
		{Type: BCSA, Length: ConditionalLength, Label: "Engineering Data Label", Tag: "ENGLBL", Special: "ENGLN"},
		{Type: BCSN, Length: 4, Label: "Engineering Matrix Data Column Count", Tag: "ENGMTXC"},
		{Type: BCSN, Length: 4, Label: "Engineering Matrix Data Row Count", Tag: "ENGMTXR"},
		{Type: BCSA, Length: 1, Label: "Value Type of Engineering Data Element", Tag: "ENGTYP"},
		{Type: BCSN, Length: 1, Label: "Engineering Data Element Size", Tag: "ENGDTS"},
		{Type: BCSA, Length: 2, Label: "Engineering Data Units", Tag: "ENGDATU"},
		{Type: BCSN, Length: 8, Label: "Engineering Data Count", Tag: "ENGDATC"},
		{Type: Binary, Length: ConditionalLength, Label: "Engineering Data", Tag: "ENGDATA", Special: "ENGDATC ENGDTS *"},
		{Type: EndLoop},
		{Type: End},
	},
}

// engrdaHandler decodes ENGRDA TREs.  The engineering data is declared as
// binary, but holds text when the value type ENGTYP is "A".
type engrdaHandler struct {
	*DescriptionHandler
}

func (h engrdaHandler) Read(t *TRE, data []byte) error {
	err := h.DescriptionHandler.Read(t, data)
	if err != nil {
		return err
	}
	for tag, f := range t.fields {
		suffix, ok := strings.CutPrefix(tag, "ENGDATA")
		if !ok {
			continue
		}
		typ, ok := t.fields["ENGTYP"+suffix]
		if ok && typ.String() == "A" {
			f.SetKind(field.BCSA)
		} else {
			f.SetKind(field.Binary)
		}
	}
	return nil
}
