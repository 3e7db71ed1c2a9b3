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
	"math"
	"strconv"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/nitf/imageio"
)

// ImageSubheader is the subheader of an image segment.
type ImageSubheader struct {
	*Subheader
}

// NewImageSubheader returns a subheader for an uncompressed single band
// image of size zero.
func NewImageSubheader() *ImageSubheader {
	s := &ImageSubheader{newSubheader("IM", imageSubheaderInfo, udidSection, ixshdSection)}
	defaults := []struct{ tag, value string }{
		{"IM", "IM"},
		{"ISCLAS", "U"},
		{"PVTYPE", "INT"},
		{"IREP", "MONO"},
		{"PJUST", "R"},
		{"IC", "NC"},
		{"NBANDS", "1"},
		{"IMODE", "B"},
		{"IDLVL", "1"},
		{"IMAG", "1.0"},
	}
	for _, d := range defaults {
		if err := s.Set(d.tag, d.value); err != nil {
			panic(err)
		}
	}
	return s
}

// UserDefined returns the TREs of the user defined image data (UDID).
func (s *ImageSubheader) UserDefined() *Extensions {
	return s.ext[0]
}

// Extended returns the TREs of the extended subheader (IXSHD).
func (s *ImageSubheader) Extended() *Extensions {
	return s.ext[1]
}

// Compression returns the image compression code (IC).
func (s *ImageSubheader) Compression() string {
	ic, _ := s.Get("IC")
	return ic
}

// SetCompression sets the image compression code (IC).  For compressed
// images the compression rate field COMRAT is created.
func (s *ImageSubheader) SetCompression(ic string) error {
	return s.Set("IC", ic)
}

// NumBands returns the number of bands, taken from NBANDS or XBANDS.
func (s *ImageSubheader) NumBands() (int, error) {
	n, err := s.Int("NBANDS")
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return s.Int("XBANDS")
	}
	return n, nil
}

// Geometry returns the block layout of the image.
func (s *ImageSubheader) Geometry() (*imageio.Geometry, error) {
	bands, err := s.NumBands()
	if err != nil {
		return nil, err
	}
	var v [7]int
	for i, tag := range []string{"NROWS", "NCOLS", "NBPP", "NBPR", "NBPC", "NPPBH", "NPPBV"} {
		v[i], err = s.Int(tag)
		if err != nil {
			return nil, err
		}
	}
	mode, err := s.Get("IMODE")
	if err != nil {
		return nil, err
	}
	if len(mode) != 1 {
		return nil, fmt.Errorf("invalid image mode %q", mode)
	}
	g := &imageio.Geometry{
		Rows:         v[0],
		Cols:         v[1],
		Bands:        bands,
		BitsPerPixel: v[2],
		BlocksPerRow: v[3],
		BlocksPerCol: v[4],
		ColsPerBlock: v[5],
		RowsPerBlock: v[6],
		Mode:         imageio.Mode(mode[0]),
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// SetGeometry stores the block layout of an image.  Band fields are
// created as needed; ABPP is set to the number of bits per pixel.
func (s *ImageSubheader) SetGeometry(g *imageio.Geometry) error {
	if err := g.Validate(); err != nil {
		return err
	}
	nbands, xbands := g.Bands, 0
	if g.Bands > 9 {
		nbands, xbands = 0, g.Bands
	}
	values := []struct {
		tag   string
		value int
	}{
		{"NROWS", g.Rows},
		{"NCOLS", g.Cols},
		{"NBANDS", nbands},
		{"NBPP", g.BitsPerPixel},
		{"ABPP", g.BitsPerPixel},
		{"NBPR", g.BlocksPerRow},
		{"NBPC", g.BlocksPerCol},
		{"NPPBH", g.ColsPerBlock},
		{"NPPBV", g.RowsPerBlock},
	}
	for _, v := range values {
		if err := s.SetInt(v.tag, v.value); err != nil {
			return err
		}
	}
	if xbands > 0 {
		if err := s.SetInt("XBANDS", xbands); err != nil {
			return err
		}
	}
	return s.Set("IMODE", g.Mode.String())
}

// Comments returns the image comments (ICOM).
func (s *ImageSubheader) Comments() []string {
	n, _ := s.Int("NICOM")
	res := make([]string, 0, n)
	for i := 0; i < n; i++ {
		c, err := s.Get("ICOM[" + strconv.Itoa(i) + "]")
		if err != nil {
			break
		}
		res = append(res, c)
	}
	return res
}

// AddComment appends an image comment.  At most nine comments are
// allowed.
func (s *ImageSubheader) AddComment(comment string) error {
	n, err := s.Int("NICOM")
	if err != nil {
		return err
	}
	if n >= 9 {
		return errTooManyComments
	}
	if err := s.SetInt("NICOM", n+1); err != nil {
		return err
	}
	return s.Set("ICOM["+strconv.Itoa(n)+"]", comment)
}

const cornerLen = 15

// Corners decodes the image corner coordinates (IGEOLO).  The corners
// are given in the order first row/first column, first row/last column,
// last row/last column, last row/first column.  X is the longitude and
// Y the latitude, in degrees.  Only geographic (ICORDS "G") and decimal
// degree (ICORDS "D") coordinates are supported.
func (s *ImageSubheader) Corners() ([4]vec.Vec2, error) {
	var res [4]vec.Vec2
	icords, err := s.Get("ICORDS")
	if err != nil {
		return res, err
	}
	if icords != "G" && icords != "D" {
		return res, fmt.Errorf("%w %q", errCoordinates, icords)
	}
	f, err := s.fields.Field("IGEOLO")
	if err != nil {
		return res, err
	}
	geolo := f.String()
	for i := range res {
		corner := geolo[i*cornerLen : (i+1)*cornerLen]
		var lat, lon float64
		if icords == "D" {
			lat, err = strconv.ParseFloat(corner[:7], 64)
			if err == nil {
				lon, err = strconv.ParseFloat(corner[7:], 64)
			}
		} else {
			lat, err = parseDMS(corner[:7], 2, 'N', 'S')
			if err == nil {
				lon, err = parseDMS(corner[7:], 3, 'E', 'W')
			}
		}
		if err != nil {
			return res, fmt.Errorf("IGEOLO corner %d: %w", i, err)
		}
		res[i] = vec.Vec2{X: lon, Y: lat}
	}
	return res, nil
}

// SetCorners stores the image corner coordinates, in the order used by
// Corners.  The icords argument selects the representation, 'G' or 'D'.
func (s *ImageSubheader) SetCorners(icords byte, corners [4]vec.Vec2) error {
	var buf []byte
	for _, c := range corners {
		if math.Abs(c.Y) > 90 || math.Abs(c.X) > 180 {
			return fmt.Errorf("invalid coordinates (%g, %g)", c.X, c.Y)
		}
		switch icords {
		case 'D':
			buf = fmt.Appendf(buf, "%+07.3f%+08.3f", c.Y, c.X)
		case 'G':
			buf = appendDMS(buf, c.Y, 2, 'N', 'S')
			buf = appendDMS(buf, c.X, 3, 'E', 'W')
		default:
			return fmt.Errorf("%w %q", errCoordinates, icords)
		}
	}
	if err := s.Set("ICORDS", string(icords)); err != nil {
		return err
	}
	return s.fields.SetValue("IGEOLO", buf)
}

// Footprint returns the bounding box of the image corners, with X the
// longitude and Y the latitude.
func (s *ImageSubheader) Footprint() (rect.Rect, error) {
	corners, err := s.Corners()
	if err != nil {
		return rect.Rect{}, err
	}
	r := rect.Rect{
		LLx: corners[0].X, LLy: corners[0].Y,
		URx: corners[0].X, URy: corners[0].Y,
	}
	for _, c := range corners[1:] {
		r.LLx = min(r.LLx, c.X)
		r.LLy = min(r.LLy, c.Y)
		r.URx = max(r.URx, c.X)
		r.URy = max(r.URy, c.Y)
	}
	return r, nil
}

// parseDMS decodes an angle of the form dddmmssH.
func parseDMS(s string, degDigits int, pos, neg byte) (float64, error) {
	if len(s) != degDigits+5 {
		return 0, fmt.Errorf("invalid angle %q", s)
	}
	var v [3]int
	parts := []string{s[:degDigits], s[degDigits : degDigits+2], s[degDigits+2 : degDigits+4]}
	for i, p := range parts {
		x, err := strconv.Atoi(p)
		if err != nil || x < 0 {
			return 0, fmt.Errorf("invalid angle %q", s)
		}
		v[i] = x
	}
	if v[1] >= 60 || v[2] >= 60 {
		return 0, fmt.Errorf("invalid angle %q", s)
	}
	deg := float64(v[0]) + float64(v[1])/60 + float64(v[2])/3600
	switch s[len(s)-1] {
	case pos:
		return deg, nil
	case neg:
		return -deg, nil
	}
	return 0, fmt.Errorf("invalid hemisphere in %q", s)
}

func appendDMS(buf []byte, deg float64, degDigits int, pos, neg byte) []byte {
	hemi := pos
	if deg < 0 {
		hemi = neg
		deg = -deg
	}
	sec := int(math.Round(deg * 3600))
	return fmt.Appendf(buf, "%0*d%02d%02d%c", degDigits, sec/3600, sec/60%60, sec%60, hemi)
}

// ImageSegment is an image segment of a NITF file.
type ImageSegment struct {
	Subheader *ImageSubheader
	Segment

	// Image, if set, supplies the image data when the record is written.
	// The compression fields of the subheader are updated from the
	// writer.
	Image *imageio.Writer
}

// NewImageSegment returns an image segment whose data is taken from w.
// The subheader is initialized from the geometry and compression of w.
func NewImageSegment(w *imageio.Writer) (*ImageSegment, error) {
	sub := NewImageSubheader()
	if err := sub.SetGeometry(w.Geometry()); err != nil {
		return nil, err
	}
	if err := sub.SetCompression(w.Compression()); err != nil {
		return nil, err
	}
	return &ImageSegment{Subheader: sub, Image: w}, nil
}

// NewReader returns a reader for the pixels of the image.  The image data
// must either be loaded, or the record must have been read from a source
// which is still open.
func (s *ImageSegment) NewReader() (*imageio.Reader, error) {
	g, err := s.Subheader.Geometry()
	if err != nil {
		return nil, err
	}
	r, err := s.Open()
	if err != nil {
		return nil, err
	}
	return imageio.NewReader(r, r.Size(), g, s.Subheader.Compression())
}

// CompressionRate returns the compression rate code (COMRAT), or the
// empty string for uncompressed images.
func (s *ImageSegment) CompressionRate() string {
	v, err := s.Subheader.Get("COMRAT")
	if err != nil {
		return ""
	}
	return v
}

// PadValue returns the pad pixel value stored in the mask table of a
// masked image.  The second return value is false if the image has no
// mask table or no pad pixel value.
func (s *ImageSegment) PadValue() ([]byte, bool, error) {
	if !imageio.IsMaskedCompression(s.Subheader.Compression()) {
		return nil, false, nil
	}
	g, err := s.Subheader.Geometry()
	if err != nil {
		return nil, false, err
	}
	r, err := s.Open()
	if err != nil {
		return nil, false, err
	}
	m, err := imageio.ReadMask(r, g.NumRecords(), r.Size())
	if err != nil {
		return nil, false, err
	}
	if m.PadBits == 0 {
		return nil, false, nil
	}
	return m.Pad, true, nil
}

var (
	errCoordinates     = errors.New("unsupported coordinate representation")
	errTooManyComments = errors.New("too many image comments")
)
