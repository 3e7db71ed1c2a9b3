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

// Shorthands for building description tables.

func a(length int, label, tag string) Entry {
	return Entry{Type: BCSA, Length: length, Label: label, Tag: tag}
}

func n(length int, label, tag string) Entry {
	return Entry{Type: BCSN, Length: length, Label: label, Tag: tag}
}

func b(length int, label, tag string) Entry {
	return Entry{Type: Binary, Length: length, Label: label, Tag: tag}
}

func loop(tag string) Entry {
	return Entry{Type: Loop, Tag: tag}
}

func cond(tag, condition string) Entry {
	return Entry{Type: If, Tag: tag, Label: condition}
}

var (
	endLoop = Entry{Type: EndLoop}
	endIf   = Entry{Type: EndIf}
	end     = Entry{Type: End}
)

var acfta132 = &DescriptionInfo{
	Name:   "ACFTA_132",
	Length: 132,
	Description: Description{
		a(10, "Aircraft Mission ID", "AC_MSN_ID"),
		a(1, "Scene Type", "SCTYPE"),
		a(4, "Scene Number", "SCNUM"),
		a(3, "Sensor ID", "SENSOR_ID"),
		n(4, "Patch Total", "PATCH_TOT"),
		n(3, "MTI Total", "MTI_TOT"),
		a(7, "Processing Date", "PDATE"),
		a(3, "Immediate Host", "IMHOSTNO"),
		a(5, "Immediate Request ID", "IMREQID"),
		a(1, "Scene Source", "SCENE_SOURCE"),
		a(2, "Mission Plan Mode", "MPLAN"),
		a(21, "Entry Location", "ENTLOC"),
		a(6, "Entry Altitude", "ENTALT"),
		a(21, "Exit Location", "EXITLOC"),
		a(6, "Exit Altitude", "EXITALT"),
		a(7, "True Map Angle", "TMAP"),
		a(3, "RCS Calibration Coefficient", "RCS"),
		a(7, "Row Spacing", "ROW_SPACING"),
		a(7, "Column Spacing", "COL_SPACING"),
		a(4, "Sensor Serial Number", "SENSERIAL"),
		a(7, "Airborne Software Version", "ABSWVER"),
		end,
	},
}

var acfta154 = &DescriptionInfo{
	Name:   "ACFTA_154",
	Length: 154,
	Description: Description{
		a(10, "Aircraft Mission ID", "AC_MSN_ID"),
		a(10, "Aircraft Tail Number", "AC_TAIL_NO"),
		a(10, "Sensor ID", "SENSOR_ID"),
		a(1, "Scene Source", "SCENE_SOURCE"),
		a(6, "Scene Number", "SCNUM"),
		a(8, "Processing Date", "PDATE"),
		a(6, "Immediate Host", "IMHOSTNO"),
		a(5, "Immediate Request ID", "IMREQID"),
		a(3, "Mission Plan Mode", "MPLAN"),
		a(21, "Entry Location", "ENTLOC"),
		a(6, "Entry Altitude", "ENTALT"),
		a(21, "Exit Location", "EXITLOC"),
		a(6, "Exit Altitude", "EXITALT"),
		a(7, "True Map Angle", "TMAP"),
		a(7, "Row Spacing", "ROW_SPACING"),
		a(7, "Column Spacing", "COL_SPACING"),
		a(6, "Sensor Serial Number", "SENSERIAL"),
		a(7, "Airborne Software Version", "ABSWVER"),
		n(4, "Patch Total", "PATCH_TOT"),
		n(3, "MTI Total", "MTI_TOT"),
		end,
	},
}

// accuracyPolygons is the layout shared by ACCHZB and ACCPOB.
func accuracyPolygons(name, countTag string) *DescriptionInfo {
	return &DescriptionInfo{
		Name: name,
		Description: Description{
			n(2, "Number of Accuracy Regions", countTag),
			loop(countTag),
			a(3, "Unit of Measure for AAH", "UNIAAH"),
			n(5, "Absolute Horizontal Accuracy", "AAH"),
			a(3, "Unit of Measure for APH", "UNIAPH"),
			n(5, "Point-to-Point Horizontal Accuracy", "APH"),
			n(3, "Number of Points in Bounding Polygon", "NUMPTS"),
			loop("NUMPTS"),
			a(15, "Longitude/Easting", "LON"),
			a(15, "Latitude/Northing", "LAT"),
			endLoop,
			endLoop,
			end,
		},
	}
}

var aimidb = &DescriptionInfo{
	Name:   "AIMIDB",
	Length: 89,
	Description: Description{
		a(14, "Acquisition Date/Time", "ACQUISITION_DATE"),
		a(4, "Mission Number", "MISSION_NO"),
		a(10, "Mission Identification", "MISSION_IDENTIFICATION"),
		a(2, "Flight Number", "FLIGHT_NO"),
		n(3, "Image Operation Number", "OP_NUM"),
		a(2, "Current Segment ID", "CURRENT_SEGMENT"),
		n(2, "Reprocess Number", "REPRO_NUM"),
		a(3, "Replay", "REPLAY"),
		a(1, "Reserved", "RESERVED_1"),
		n(3, "Starting Tile Column Number", "START_TILE_COLUMN"),
		n(5, "Starting Tile Row Number", "START_TILE_ROW"),
		a(2, "Ending Segment", "END_SEGMENT"),
		n(3, "Ending Tile Column Number", "END_TILE_COLUMN"),
		n(5, "Ending Tile Row Number", "END_TILE_ROW"),
		a(2, "Country Code", "COUNTRY"),
		a(4, "Reserved", "RESERVED_2"),
		a(11, "Location lat/long", "LOCATION"),
		a(13, "Reserved", "RESERVED_3"),
		end,
	},
}

var bandsb = &DescriptionInfo{
	Name: "BANDSB",
	Description: Description{
		n(5, "Number of Bands", "COUNT"),
		a(24, "Data Representation", "RADIOMETRIC_QUANTITY"),
		a(1, "Data Representation Unit", "RADIOMETRIC_QUANTITY_UNIT"),
		b(4, "Cube Scale Factor", "SCALE_FACTOR"),
		b(4, "Cube Additive Factor", "ADDITIVE_FACTOR"),
		n(7, "Row Ground Sample Distance", "ROW_GSD"),
		a(1, "Units of Row Ground Sample Distance", "ROW_GSD_UNIT"),
		n(7, "Column Ground Sample Distance", "COL_GSD"),
		a(1, "Units of Column Ground Sample Distance", "COL_GSD_UNIT"),
		n(7, "Spatial Response Function (Rows)", "SPT_RESP_ROW"),
		a(1, "Units of Spatial Response Function (Rows)", "SPT_RESP_UNIT_ROW"),
		n(7, "Spatial Response Function (Cols)", "SPT_RESP_COL"),
		a(1, "Units of Spatial Response Function (Cols)", "SPT_RESP_UNIT_COL"),
		b(48, "Field reserved for future use", "DATA_FLD_1"),
		b(4, "Bit-wise Existence Mask Field", "EXISTENCE_MASK"),
		cond("EXISTENCE_MASK", "& 0x80000000"),
		a(24, "Adjustment Surface", "RADIOMETRIC_ADJUSTMENT_SURFACE"),
		b(4, "Adjustment Altitude Above WGS84 Ellipsoid", "ATMOSPHERIC_ADJUSTMENT_ALTITUDE"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x40000000"),
		n(7, "Diameter of the lens", "DIAMETER"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x20000000"),
		b(32, "Field reserved for future use", "DATA_FLD_2"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x01F80000"),
		a(1, "Wave Length Units", "WAVE_LENGTH_UNIT"),
		endIf,
		loop("COUNT"),
		cond("EXISTENCE_MASK", "& 0x10000000"),
		a(50, "Band n Identifier", "BANDID"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x08000000"),
		n(1, "Bad Band Flag", "BAD_BAND"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x04000000"),
		n(3, "NIIRS Value", "NIIRS"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x02000000"),
		n(5, "Band n Focal length", "FOCAL_LEN"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x01000000"),
		n(7, "Band n Center Response Wavelength", "CWAVE"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00800000"),
		n(7, "Band n Width", "FWHM"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00400000"),
		n(7, "Band n Width Uncertainty", "FWHM_UNC"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00200000"),
		n(7, "Band n Nominal Wavelength", "NOM_WAVE"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00100000"),
		n(7, "Band n Nominal Wavelength Uncertainty", "NOM_WAVE_UNC"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00080000"),
		n(7, "Band n Lower Wavelength Bound", "LBOUND"),
		n(7, "Band n Upper Wavelength Bound", "UBOUND"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00040000"),
		b(4, "Individual Scale Factor", "SCALE_FACTOR"),
		b(4, "Individual Additive Factor", "ADDITIVE_FACTOR"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00020000"),
		a(16, "Start Time", "START_TIME"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00010000"),
		n(6, "Integration Time", "INT_TIME"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00008000"),
		n(6, "Band n Calibration (Dark)", "CALDRK"),
		n(5, "Band n Calibration (Increment)", "CALIBRATION_SENSITIVITY"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00004000"),
		n(7, "Band n Spatial Response Interval (Row)", "ROW_GSD"),
		cond("EXISTENCE_MASK", "& 0x00002000"),
		n(7, "Band n Spatial Response Interval Uncertainty (Row)", "ROW_GSD_UNC"),
		endIf,
		a(1, "Unit of Row Spacing", "ROW_GSD_UNIT"),
		n(7, "Band n Spatial Response Interval (Col)", "COL_GSD"),
		cond("EXISTENCE_MASK", "& 0x00002000"),
		n(7, "Band n Spatial Response Interval Uncertainty (Col)", "COL_GSD_UNC"),
		endIf,
		a(1, "Unit of Column Spacing", "COL_GSD_UNIT"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00001000"),
		n(5, "Band n Background Noise", "BKNOISE"),
		n(5, "Band n Scene Noise", "SCNNOISE"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00000800"),
		n(7, "Band n Spatial Response Function (Row)", "SPT_RESP_FUNCTION_ROW"),
		cond("EXISTENCE_MASK", "& 0x00000400"),
		n(7, "Band n Spatial Response Function Uncertainty (Row)", "SPT_RESP_UNC_ROW"),
		endIf,
		a(1, "Unit of Spatial Response (Row)", "SPT_RESP_UNIT_ROW"),
		n(7, "Band n Spatial Response Function (Col)", "SPT_RESP_FUNCTION_COL"),
		cond("EXISTENCE_MASK", "& 0x00000400"),
		n(7, "Band n Spatial Response Function Uncertainty (Col)", "SPT_RESP_UNC_COL"),
		endIf,
		a(1, "Unit of Spatial Response (Col)", "SPT_RESP_UNIT_COL"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00000200"),
		b(16, "Field reserved for future use", "DATA_FLD_3"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00000100"),
		b(24, "Field reserved for future use", "DATA_FLD_4"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00000080"),
		b(32, "Field reserved for future use", "DATA_FLD_5"),
		endIf,
		cond("EXISTENCE_MASK", "& 0x00000040"),
		b(48, "Field reserved for future use", "DATA_FLD_6"),
		endIf,
		endLoop,
		cond("EXISTENCE_MASK", "& 0x00000001"),
		n(2, "Number of Auxiliary Band Level Parameters (m)", "NUM_AUX_B"),
		n(2, "Number of Auxiliary Cube Level Parameters (k)", "NUM_AUX_C"),
		loop("NUM_AUX_B"),
		a(1, "Band Auxiliary Parameter Value Format", "BAPF"),
		a(7, "Unit of Band Auxiliary Parameter", "UBAP"),
		loop("COUNT"),
		cond("BAPF", "eq I"),
		n(10, "Auxiliary Parameter Integer Value", "APN"),
		endIf,
		cond("BAPF", "eq R"),
		b(4, "Auxiliary Parameter Real Value", "APR"),
		endIf,
		cond("BAPF", "eq A"),
		a(20, "Auxiliary Parameter ASCII Value", "APA"),
		endIf,
		endLoop,
		endLoop,
		loop("NUM_AUX_C"),
		a(1, "Cube Auxiliary Parameter Value Format", "CAPF"),
		a(7, "Unit of Cube Auxiliary Parameter", "UCAP"),
		cond("CAPF", "eq I"),
		n(10, "Auxiliary Parameter Integer Value", "APN"),
		endIf,
		cond("CAPF", "eq R"),
		b(4, "Auxiliary Parameter Real Value", "APR"),
		endIf,
		cond("CAPF", "eq A"),
		a(20, "Auxiliary Parameter ASCII Value", "APA"),
		endIf,
		endLoop,
		endIf,
		end,
	},
}

var blocka = &DescriptionInfo{
	Name:   "BLOCKA",
	Length: 123,
	Description: Description{
		n(2, "Block Number", "BLOCK_INSTANCE"),
		a(5, "No. of Gray Pixels", "N_GRAY"),
		n(5, "Lines", "L_LINES"),
		a(3, "Layover Angle", "LAYOVER_ANGLE"),
		a(3, "Shadow Angle", "SHADOW_ANGLE"),
		a(16, "Reserved", "RESERVED_001"),
		a(21, "First Row, Last Column Location", "FRLC_LOC"),
		a(21, "Last Row, Last Column Location", "LRLC_LOC"),
		a(21, "Last Row, First Column Location", "LRFC_LOC"),
		a(21, "First Row, First Column Location", "FRFC_LOC"),
		a(5, "Reserved", "RESERVED_002"),
		end,
	},
}

var cscrna = &DescriptionInfo{
	Name:   "CSCRNA",
	Length: 109,
	Description: Description{
		a(1, "Predicted Corners Flag", "PREDICT_CORNERS"),
		n(9, "Upper Left Corner Latitude", "ULCNR_LAT"),
		n(10, "Upper Left Corner Longitude", "ULCNR_LONG"),
		n(8, "Upper Left Corner Height", "ULCNR_HT"),
		n(9, "Upper Right Corner Latitude", "URCNR_LAT"),
		n(10, "Upper Right Corner Longitude", "URCNR_LONG"),
		n(8, "Upper Right Corner Height", "URCNR_HT"),
		n(9, "Lower Right Corner Latitude", "LRCNR_LAT"),
		n(10, "Lower Right Corner Longitude", "LRCNR_LONG"),
		n(8, "Lower Right Corner Height", "LRCNR_HT"),
		n(9, "Lower Left Corner Latitude", "LLCNR_LAT"),
		n(10, "Lower Left Corner Longitude", "LLCNR_LONG"),
		n(8, "Lower Left Corner Height", "LLCNR_HT"),
		end,
	},
}

var jitcid = &DescriptionInfo{
	Name: "JITCID",
	Description: Description{
		a(Gobble, "File Comment", "FILCMT"),
		end,
	},
}

var rpfhdr = &DescriptionInfo{
	Name:   "RPFHDR",
	Length: 48,
	Description: Description{
		b(1, "Endian Indicator", "ENDIAN"),
		b(2, "Header Section Length", "HDSECL"),
		a(12, "File Name", "FILENM"),
		b(1, "New/Replacement/Update Indicator", "NEWBLK"),
		a(15, "Governing Standard Number", "STDNUM"),
		a(8, "Governing Standard Date", "STDDT"),
		a(1, "Security Classification", "CLASS"),
		a(2, "Security Country Code", "COUNTR"),
		a(2, "Security Release Marking", "RELEAS"),
		b(4, "Location Section Location", "LOCSEC"),
		end,
	},
}

var stdidc = &DescriptionInfo{
	Name:   "STDIDC",
	Length: 89,
	Description: Description{
		a(14, "Acquisition Date", "ACQUISITION_DATE"),
		a(14, "Mission", "MISSION"),
		a(2, "Pass", "PASS"),
		n(3, "Image Operation Number", "OP_NUM"),
		a(2, "Start Segment", "START_SEGMENT"),
		n(2, "Reprocess Number", "REPRO_NUM"),
		a(3, "Replay/Regen", "REPLAY_REGEN"),
		a(1, "Blank Fill", "BLANK_FILL"),
		n(3, "Starting Column Block", "START_COLUMN"),
		n(5, "Starting Row Block", "START_ROW"),
		a(2, "Ending Segment", "END_SEGMENT"),
		n(3, "Ending Column Block", "END_COLUMN"),
		n(5, "Ending Row Block", "END_ROW"),
		a(2, "Country Code", "COUNTRY"),
		a(4, "World Aeronautical Chart", "WAC"),
		a(11, "Location", "LOCATION"),
		a(5, "Reserved", "RESERVED_1"),
		a(8, "Reserved", "RESERVED_2"),
		end,
	},
}

var use00a = &DescriptionInfo{
	Name:   "USE00A",
	Length: 107,
	Description: Description{
		n(3, "Angle to North", "ANGLE_TO_NORTH"),
		n(5, "Mean Ground Sample Distance", "MEAN_GSD"),
		a(1, "Reserved", "RSRVD01"),
		n(5, "Dynamic Range", "DYNAMIC_RANGE"),
		a(3, "Reserved", "RSRVD02"),
		a(1, "Reserved", "RSRVD03"),
		a(3, "Reserved", "RSRVD04"),
		n(5, "Obliquity Angle", "OBL_ANG"),
		n(6, "Roll Angle", "ROLL_ANG"),
		a(12, "Reserved", "RSRVD05"),
		a(15, "Reserved", "RSRVD06"),
		a(4, "Reserved", "RSRVD07"),
		a(1, "Reserved", "RSRVD08"),
		a(3, "Reserved", "RSRVD09"),
		a(1, "Reserved", "RSRVD10"),
		a(1, "Reserved", "RSRVD11"),
		n(2, "Number of Reference Lines", "N_REF"),
		n(5, "Revolution Number", "REV_NUM"),
		n(3, "Number of Segments", "N_SEG"),
		n(6, "Maximum Lines Per Segment", "MAX_LP_SEG"),
		a(6, "Reserved", "RSRVD12"),
		a(6, "Reserved", "RSRVD13"),
		n(5, "Sun Elevation", "SUN_EL"),
		n(5, "Sun Azimuth", "SUN_AZ"),
		end,
	},
}

func init() {
	Register("ACFTA", NewDescriptionHandler(acfta132, acfta154))
	Register("ACCHZB", NewDescriptionHandler(accuracyPolygons("ACCHZB", "NUMACHZ")))
	Register("ACCPOB", NewDescriptionHandler(accuracyPolygons("ACCPOB", "NUMACPO")))
	Register("AIMIDB", NewDescriptionHandler(aimidb))
	Register("BANDSB", NewDescriptionHandler(bandsb))
	Register("BLOCKA", NewDescriptionHandler(blocka))
	Register("CSCRNA", NewDescriptionHandler(cscrna))
	Register("ENGRDA", engrdaHandler{NewDescriptionHandler(engrdaDescription)})
	Register("JITCID", NewDescriptionHandler(jitcid))
	Register("RPFHDR", NewDescriptionHandler(rpfhdr))
	Register("STDIDC", NewDescriptionHandler(stdidc))
	Register("USE00A", NewDescriptionHandler(use00a))
}
