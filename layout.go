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

import "seehuhn.de/go/nitf/tre"

// The file header and the subheaders are expressed as description tables
// and stored in a tre.TRE, using the NITF 2.1 field layout.

func alpha(length int, label, tag string) tre.Entry {
	return tre.Entry{Type: tre.BCSA, Length: length, Label: label, Tag: tag}
}

func num(length int, label, tag string) tre.Entry {
	return tre.Entry{Type: tre.BCSN, Length: length, Label: label, Tag: tag}
}

func bin(length int, label, tag string) tre.Entry {
	return tre.Entry{Type: tre.Binary, Length: length, Label: label, Tag: tag}
}

func loop(tag string) tre.Entry {
	return tre.Entry{Type: tre.Loop, Tag: tag}
}

func cond(tag, condition string) tre.Entry {
	return tre.Entry{Type: tre.If, Tag: tag, Label: condition}
}

var (
	endLoop = tre.Entry{Type: tre.EndLoop}
	endIf   = tre.Entry{Type: tre.EndIf}
	end     = tre.Entry{Type: tre.End}
)

func join(parts ...[]tre.Entry) tre.Description {
	var res tre.Description
	for _, p := range parts {
		res = append(res, p...)
	}
	return res
}

// security returns the security fields which follow the classification
// field of every header.
func security(prefix string) []tre.Entry {
	return []tre.Entry{
		alpha(2, "Security Classification System", prefix+"CLSY"),
		alpha(11, "Codewords", prefix+"CODE"),
		alpha(2, "Control and Handling", prefix+"CTLH"),
		alpha(20, "Releasing Instructions", prefix+"REL"),
		alpha(2, "Declassification Type", prefix+"DCTP"),
		alpha(8, "Declassification Date", prefix+"DCDT"),
		alpha(4, "Declassification Exemption", prefix+"DCXM"),
		alpha(1, "Downgrade", prefix+"DG"),
		alpha(8, "Downgrade Date", prefix+"DGDT"),
		alpha(43, "Classification Text", prefix+"CLTX"),
		alpha(1, "Classification Authority Type", prefix+"CATP"),
		alpha(40, "Classification Authority", prefix+"CAUT"),
		alpha(1, "Classification Reason", prefix+"CRSN"),
		alpha(8, "Security Source Date", prefix+"SRDT"),
		alpha(15, "Security Control Number", prefix+"CTLN"),
	}
}

// extSection names the three fields which hold a section of TREs.
type extSection struct {
	length   string // data length, including the overflow field
	overflow string // index of the overflow DES
	data     string
}

func (s extSection) entries(label string) []tre.Entry {
	return []tre.Entry{
		num(5, label+" Data Length", s.length),
		cond(s.length, "> 0"),
		num(3, label+" Overflow", s.overflow),
		{Type: tre.Binary, Length: tre.ConditionalLength, Label: label + " Data",
			Tag: s.data, Special: s.length + " 3 -"},
		endIf,
	}
}

var (
	udhdSection  = extSection{"UDHDL", "UDHOFL", "UDHD"}
	xhdSection   = extSection{"XHDL", "XHDLOFL", "XHD"}
	udidSection  = extSection{"UDIDL", "UDOFL", "UDID"}
	ixshdSection = extSection{"IXSHDL", "IXSOFL", "IXSHD"}
	sxshdSection = extSection{"SXSHDL", "SXSOFL", "SXSHD"}
	txshdSection = extSection{"TXSHDL", "TXSOFL", "TXSHD"}
)

var fileHeaderInfo = &tre.DescriptionInfo{
	Name: "NITF_HEADER",
	Description: join(
		[]tre.Entry{
			alpha(4, "File Profile Name", "FHDR"),
			alpha(5, "File Version", "FVER"),
			num(2, "Complexity Level", "CLEVEL"),
			alpha(4, "Standard Type", "STYPE"),
			alpha(10, "Originating Station ID", "OSTAID"),
			num(14, "File Date and Time", "FDT"),
			alpha(80, "File Title", "FTITLE"),
			alpha(1, "File Security Classification", "FSCLAS"),
		},
		security("FS"),
		[]tre.Entry{
			num(5, "File Copy Number", "FSCOP"),
			num(5, "File Number of Copies", "FSCPYS"),
			num(1, "Encryption", "ENCRYP"),
			bin(3, "File Background Color", "FBKGC"),
			alpha(24, "Originator's Name", "ONAME"),
			alpha(18, "Originator's Phone Number", "OPHONE"),
			num(12, "File Length", "FL"),
			num(6, "File Header Length", "HL"),

			num(3, "Number of Image Segments", "NUMI"),
			loop("NUMI"),
			num(6, "Length of Image Subheader", "LISH"),
			num(10, "Length of Image Segment", "LI"),
			endLoop,

			num(3, "Number of Graphic Segments", "NUMS"),
			loop("NUMS"),
			num(4, "Length of Graphic Subheader", "LSSH"),
			num(6, "Length of Graphic Segment", "LS"),
			endLoop,

			num(3, "Reserved for Future Use", "NUMX"),

			num(3, "Number of Text Segments", "NUMT"),
			loop("NUMT"),
			num(4, "Length of Text Subheader", "LTSH"),
			num(5, "Length of Text Segment", "LT"),
			endLoop,

			num(3, "Number of Data Extension Segments", "NUMDES"),
			loop("NUMDES"),
			num(4, "Length of Data Extension Subheader", "LDSH"),
			num(9, "Length of Data Extension Segment", "LD"),
			endLoop,

			num(3, "Number of Reserved Extension Segments", "NUMRES"),
			loop("NUMRES"),
			num(4, "Length of Reserved Extension Subheader", "LRESH"),
			num(7, "Length of Reserved Extension Segment", "LRE"),
			endLoop,
		},
		udhdSection.entries("User Defined Header"),
		xhdSection.entries("Extended Header"),
		[]tre.Entry{end},
	),
}

func bandEntries() []tre.Entry {
	return []tre.Entry{
		alpha(2, "Band Representation", "IREPBAND"),
		alpha(6, "Band Subcategory", "ISUBCAT"),
		alpha(1, "Band Image Filter Condition", "IFC"),
		alpha(3, "Band Standard Image Filter Code", "IMFLT"),
		num(1, "Number of LUTs", "NLUTS"),
		cond("NLUTS", "> 0"),
		num(5, "Number of LUT Entries", "NELUT"),
		loop("NLUTS"),
		{Type: tre.Binary, Length: tre.ConditionalLength, Label: "LUT Data",
			Tag: "LUTD", Special: "NELUT"},
		endLoop,
		endIf,
	}
}

var imageSubheaderInfo = &tre.DescriptionInfo{
	Name: "IMAGE_SUBHEADER",
	Description: join(
		[]tre.Entry{
			alpha(2, "File Part Type", "IM"),
			alpha(10, "Image Identifier 1", "IID1"),
			num(14, "Image Date and Time", "IDATIM"),
			alpha(17, "Target Identifier", "TGTID"),
			alpha(80, "Image Identifier 2", "IID2"),
			alpha(1, "Image Security Classification", "ISCLAS"),
		},
		security("IS"),
		[]tre.Entry{
			num(1, "Encryption", "ENCRYP"),
			alpha(42, "Image Source", "ISORCE"),
			num(8, "Number of Significant Rows in Image", "NROWS"),
			num(8, "Number of Significant Columns in Image", "NCOLS"),
			alpha(3, "Pixel Value Type", "PVTYPE"),
			alpha(8, "Image Representation", "IREP"),
			alpha(8, "Image Category", "ICAT"),
			num(2, "Actual Bits-Per-Pixel Per Band", "ABPP"),
			alpha(1, "Pixel Justification", "PJUST"),
			alpha(1, "Image Coordinate Representation", "ICORDS"),
			cond("ICORDS", "ne  "),
			alpha(60, "Image Geographic Location", "IGEOLO"),
			endIf,
			num(1, "Number of Image Comments", "NICOM"),
			loop("NICOM"),
			alpha(80, "Image Comment", "ICOM"),
			endLoop,
			alpha(2, "Image Compression", "IC"),
			cond("IC", "ne NC"),
			cond("IC", "ne NM"),
			alpha(4, "Compression Rate Code", "COMRAT"),
			endIf,
			endIf,
			num(1, "Number of Bands", "NBANDS"),
			cond("NBANDS", "== 0"),
			num(5, "Number of Multispectral Bands", "XBANDS"),
			loop("XBANDS"),
		},
		bandEntries(),
		[]tre.Entry{
			endLoop,
			endIf,
			cond("NBANDS", "!= 0"),
			loop("NBANDS"),
		},
		bandEntries(),
		[]tre.Entry{
			endLoop,
			endIf,
			num(1, "Image Sync Code", "ISYNC"),
			alpha(1, "Image Mode", "IMODE"),
			num(4, "Number of Blocks Per Row", "NBPR"),
			num(4, "Number of Blocks Per Column", "NBPC"),
			num(4, "Number of Pixels Per Block Horizontal", "NPPBH"),
			num(4, "Number of Pixels Per Block Vertical", "NPPBV"),
			num(2, "Number of Bits Per Pixel Per Band", "NBPP"),
			num(3, "Image Display Level", "IDLVL"),
			num(3, "Attachment Level", "IALVL"),
			num(10, "Image Location", "ILOC"),
			alpha(4, "Image Magnification", "IMAG"),
		},
		udidSection.entries("User Defined Image"),
		ixshdSection.entries("Image Extended Subheader"),
		[]tre.Entry{end},
	),
}

var graphicSubheaderInfo = &tre.DescriptionInfo{
	Name: "GRAPHIC_SUBHEADER",
	Description: join(
		[]tre.Entry{
			alpha(2, "File Part Type", "SY"),
			alpha(10, "Graphic Identifier", "SID"),
			alpha(20, "Graphic Name", "SNAME"),
			alpha(1, "Graphic Security Classification", "SSCLAS"),
		},
		security("SS"),
		[]tre.Entry{
			num(1, "Encryption", "ENCRYP"),
			alpha(1, "Graphic Type", "SFMT"),
			num(13, "Reserved for Future Use", "SSTRUCT"),
			num(3, "Graphic Display Level", "SDLVL"),
			num(3, "Graphic Attachment Level", "SALVL"),
			num(10, "Graphic Location", "SLOC"),
			num(10, "First Graphic Bound Location", "SBND1"),
			alpha(1, "Graphic Color", "SCOLOR"),
			num(10, "Second Graphic Bound Location", "SBND2"),
			num(2, "Reserved for Future Use", "SRES2"),
		},
		sxshdSection.entries("Graphic Extended Subheader"),
		[]tre.Entry{end},
	),
}

var textSubheaderInfo = &tre.DescriptionInfo{
	Name: "TEXT_SUBHEADER",
	Description: join(
		[]tre.Entry{
			alpha(2, "File Part Type", "TE"),
			alpha(7, "Text Identifier", "TEXTID"),
			num(3, "Text Attachment Level", "TXTALVL"),
			num(14, "Text Date and Time", "TXTDT"),
			alpha(80, "Text Title", "TXTITL"),
			alpha(1, "Text Security Classification", "TSCLAS"),
		},
		security("TS"),
		[]tre.Entry{
			num(1, "Encryption", "ENCRYP"),
			alpha(3, "Text Format", "TXTFMT"),
		},
		txshdSection.entries("Text Extended Subheader"),
		[]tre.Entry{end},
	),
}

// overflowDESID is the DESID of data extension segments holding TREs
// which did not fit into a header.
const overflowDESID = "TRE_OVERFLOW"

var desSubheaderInfo = &tre.DescriptionInfo{
	Name: "DES_SUBHEADER",
	Description: join(
		[]tre.Entry{
			alpha(2, "File Part Type", "DE"),
			alpha(25, "Unique DES Type Identifier", "DESID"),
			num(2, "Version of the Data Definition", "DESVER"),
			alpha(1, "DES Security Classification", "DESCLAS"),
		},
		security("DES"),
		[]tre.Entry{
			cond("DESID", "eq "+overflowDESID),
			alpha(6, "DES Overflowed Header Type", "DESOFLW"),
			num(3, "DES Data Item Overflowed", "DESITEM"),
			endIf,
			num(4, "DES User-defined Subheader Length", "DESSHL"),
			{Type: tre.BCSA, Length: tre.ConditionalLength,
				Label: "DES User-defined Subheader Fields", Tag: "DESSHF", Special: "DESSHL"},
			end,
		},
	),
}

var resSubheaderInfo = &tre.DescriptionInfo{
	Name: "RES_SUBHEADER",
	Description: join(
		[]tre.Entry{
			alpha(2, "File Part Type", "RE"),
			alpha(25, "Unique RES Type Identifier", "RESID"),
			num(2, "Version of the Data Definition", "RESVER"),
			alpha(1, "RES Security Classification", "RESCLAS"),
		},
		security("RES"),
		[]tre.Entry{
			num(4, "RES User-defined Subheader Length", "RESSHL"),
			{Type: tre.BCSA, Length: tre.ConditionalLength,
				Label: "RES User-defined Subheader Fields", Tag: "RESSHF", Special: "RESSHL"},
			end,
		},
	),
}
