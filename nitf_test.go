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
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/nitf/imageio"
	_ "seehuhn.de/go/nitf/imageio/jpeg"
	"seehuhn.de/go/nitf/internal/memfile"
	"seehuhn.de/go/nitf/tre"
)

// sampleRecord returns a record with one segment of every kind except
// images, and TREs in the file header.
func sampleRecord(t testing.TB) *Record {
	t.Helper()

	rec := NewRecord()
	if err := rec.Header.Set("FTITLE", "test file"); err != nil {
		t.Fatal(err)
	}
	acfta, err := tre.New("ACFTA", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := acfta.SetString("AC_MSN_ID", "fly-by"); err != nil {
		t.Fatal(err)
	}
	rec.Header.UserDefined().Append(acfta)

	text, err := NewTextSegment("UT1", "Grüße\n")
	if err != nil {
		t.Fatal(err)
	}
	rec.Texts = append(rec.Texts, text)

	graphic := &GraphicSegment{Subheader: NewGraphicSubheader()}
	graphic.SetData([]byte("CGM data"))
	rec.Graphics = append(rec.Graphics, graphic)

	sub, err := NewDESubheader(overflowDESID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := sub.Set("DESOFLW", "UDHD"); err != nil {
		t.Fatal(err)
	}
	ext := &Extensions{}
	ext.Append(acfta.Clone())
	data, err := ext.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	des := &DESegment{Subheader: sub}
	des.SetData(data)
	rec.DataExtensions = append(rec.DataExtensions, des)

	res, err := NewRESubheader("TEST_RES", 1)
	if err != nil {
		t.Fatal(err)
	}
	reserved := &RESegment{Subheader: res}
	reserved.SetData([]byte{1, 2, 3})
	rec.Reserved = append(rec.Reserved, reserved)

	return rec
}

func TestMinimalLengths(t *testing.T) {
	des, err := NewDESubheader("TEST_DES", 1)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		sub  *Subheader
		want int
	}{
		{"file header", NewFileHeader().Subheader, 388},
		{"image", NewImageSubheader().Subheader, 439},
		{"graphic", NewGraphicSubheader().Subheader, 258},
		{"text", NewTextSubheader().Subheader, 282},
		{"DES", des.Subheader, 200},
	}
	for _, c := range cases {
		n, err := c.sub.Len()
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if n != c.want {
			t.Errorf("%s: length %d, want %d", c.name, n, c.want)
		}
		data, err := c.sub.Bytes()
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
		} else if len(data) != n {
			t.Errorf("%s: %d bytes, Len() = %d", c.name, len(data), n)
		}
	}
}

func TestEmptyRecord(t *testing.T) {
	data, err := Marshal(NewRecord())
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 388 {
		t.Errorf("empty file has %d bytes, want 388", len(data))
	}
	if !IsNITF(data) {
		t.Error("missing signature")
	}

	rec, warnings, err := ReadBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) > 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	hl, _ := rec.Header.Int("HL")
	fl, _ := rec.Header.Int("FL")
	if hl != 388 || fl != 388 {
		t.Errorf("HL=%d FL=%d", hl, fl)
	}
}

func TestRoundTrip(t *testing.T) {
	rec := sampleRecord(t)
	data, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	rec2, warnings, err := ReadBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) > 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if title, _ := rec2.Header.Get("FTITLE"); title != "test file" {
		t.Errorf("FTITLE = %q", title)
	}
	counts := []int{len(rec2.Images), len(rec2.Graphics), len(rec2.Texts),
		len(rec2.DataExtensions), len(rec2.Reserved)}
	if d := cmp.Diff([]int{0, 1, 1, 1, 1}, counts); d != "" {
		t.Errorf("segment counts (-want +got):\n%s", d)
	}

	acfta := rec2.Header.UserDefined().First("ACFTA")
	if acfta == nil {
		t.Fatal("ACFTA missing")
	}
	if v, _ := acfta.Get("AC_MSN_ID"); v != "fly-by" {
		t.Errorf("AC_MSN_ID = %q", v)
	}

	text, err := rec2.Texts[0].Text()
	if err != nil {
		t.Fatal(err)
	}
	if text != "Grüße\n" {
		t.Errorf("text = %q", text)
	}
	if d := cmp.Diff([]byte("CGM data"), rec2.Graphics[0].Data); d != "" {
		t.Errorf("graphic data (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]byte{1, 2, 3}, rec2.Reserved[0].Data); d != "" {
		t.Errorf("RES data (-want +got):\n%s", d)
	}

	des := rec2.DataExtensions[0]
	if !des.IsOverflow() {
		t.Fatal("DES not recognized as TRE_OVERFLOW")
	}
	if v, _ := des.Subheader.Get("DESOFLW"); v != "UDHD" {
		t.Errorf("DESOFLW = %q", v)
	}
	ext, warnings, err := des.Overflow()
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) > 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if d := cmp.Diff([]string{"ACFTA"}, ext.Tags()); d != "" {
		t.Errorf("overflow TREs (-want +got):\n%s", d)
	}

	// offsets recorded by the reader point at the payloads
	for _, seg := range []*Segment{&rec2.Texts[0].Segment, &rec2.Graphics[0].Segment} {
		got := data[seg.Offset : seg.Offset+seg.Length]
		if !bytes.Equal(got, seg.Data) {
			t.Errorf("payload at %d does not match", seg.Offset)
		}
	}

	data2, err := Marshal(rec2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("rewriting a file changes its contents")
	}
}

func TestWriteIdempotent(t *testing.T) {
	rec := sampleRecord(t)
	a, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("writing the same record twice gives different files")
	}
}

func TestExtensionOverflow(t *testing.T) {
	big := func(tag string, c byte) *tre.TRE {
		return tre.ParseRaw(tag, bytes.Repeat([]byte{c}, 60000))
	}
	rec := NewRecord()
	rec.Header.UserDefined().Append(big("BIGONE", 'a'))
	rec.Header.UserDefined().Append(big("BIGTWO", 'b'))
	text, err := NewTextSegment("STA", "text\n")
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []byte("xyz") {
		text.Subheader.Extended().Append(big("BIGTXT", c))
	}
	rec.Texts = append(rec.Texts, text)

	data, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Error("second write differs")
	}

	rec2, warnings, err := ReadBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) > 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if d := cmp.Diff([]string{"BIGONE"}, rec2.Header.UserDefined().Tags()); d != "" {
		t.Errorf("header TREs (-want +got):\n%s", d)
	}
	if n := rec2.Texts[0].Subheader.Extended().Len(); n != 1 {
		t.Errorf("%d TREs left in the text subheader, want 1", n)
	}
	if len(rec2.DataExtensions) != 2 {
		t.Fatalf("%d DES, want 2", len(rec2.DataExtensions))
	}

	cases := []struct {
		sub        *Subheader
		ofl        string
		oflw       string
		item, more int
	}{
		{rec2.Header.Subheader, "UDHOFL", "UDHD", 0, 1},
		{rec2.Texts[0].Subheader.Subheader, "TXSOFL", "TXSHD", 1, 2},
	}
	for i, c := range cases {
		if idx, _ := c.sub.Int(c.ofl); idx != i+1 {
			t.Errorf("%s = %d, want %d", c.ofl, idx, i+1)
		}
		des := rec2.DataExtensions[i]
		if v, _ := des.Subheader.Get("DESOFLW"); v != c.oflw {
			t.Errorf("DESOFLW = %q, want %q", v, c.oflw)
		}
		if v, _ := des.Subheader.Int("DESITEM"); v != c.item {
			t.Errorf("DESITEM = %d, want %d", v, c.item)
		}
		ext, _, err := des.Overflow()
		if err != nil {
			t.Fatal(err)
		}
		if ext.Len() != c.more {
			t.Errorf("%s: %d TREs in the overflow segment, want %d", c.oflw, ext.Len(), c.more)
		}
	}
}

func TestLayoutPasses(t *testing.T) {
	orig := headerLen
	t.Cleanup(func() { headerLen = orig })

	calls := 0
	headerLen = func(h *FileHeader) (int, error) {
		calls++
		return orig(h)
	}
	if _, err := Marshal(sampleRecord(t)); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("layout settled after %d passes, want 2", calls)
	}

	// a header whose length changes on every pass
	calls = 0
	headerLen = func(h *FileHeader) (int, error) {
		calls++
		hl, err := orig(h)
		return hl + calls, err
	}
	_, err := Marshal(sampleRecord(t))
	if !errors.Is(err, errLayout) {
		t.Errorf("got %v, want %v", err, errLayout)
	}
	if calls != maxLayoutPasses {
		t.Errorf("%d passes, want %d", calls, maxLayoutPasses)
	}
}

func TestWriteOffsets(t *testing.T) {
	rec := sampleRecord(t)
	f := memfile.New()
	if _, err := f.Write([]byte("prefix")); err != nil {
		t.Fatal(err)
	}
	if err := Write(f, rec); err != nil {
		t.Fatal(err)
	}
	seg := rec.Graphics[0].Segment
	got := f.Data[seg.Offset : seg.Offset+seg.Length]
	if string(got) != "CGM data" {
		t.Errorf("graphic payload at %d is %q", seg.Offset, got)
	}
	if !IsNITF(f.Data[6:]) {
		t.Error("file does not start after the prefix")
	}
}

func TestImageRoundTrip(t *testing.T) {
	const rows, cols = 20, 24
	g, err := imageio.NewGeometry(rows, cols, 2, 8, 8, 8, imageio.PixelInterleaved)
	if err != nil {
		t.Fatal(err)
	}
	planes := make([][]byte, 2)
	for b := range planes {
		planes[b] = make([]byte, rows*cols)
		for i := range planes[b] {
			planes[b][i] = byte(i*(b+1) + b)
		}
	}
	w, err := imageio.NewWriter(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteImage(planes); err != nil {
		t.Fatal(err)
	}
	img, err := NewImageSegment(w)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecord()
	rec.Images = append(rec.Images, img)

	data, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	rec2, _, err := ReadBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec2.Images) != 1 {
		t.Fatalf("%d images", len(rec2.Images))
	}
	g2, err := rec2.Images[0].Subheader.Geometry()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(g, g2); d != "" {
		t.Errorf("geometry (-want +got):\n%s", d)
	}

	r, err := rec2.Images[0].NewReader()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, gotRows, gotCols, err := r.ReadWindow(&imageio.Window{Rows: rows, Cols: cols})
	if err != nil {
		t.Fatal(err)
	}
	if gotRows != rows || gotCols != cols {
		t.Errorf("window is %dx%d", gotCols, gotRows)
	}
	if d := cmp.Diff(planes, got); d != "" {
		t.Errorf("pixels (-want +got):\n%s", d)
	}
}

func TestCompressionRate(t *testing.T) {
	g, err := imageio.NewGeometry(16, 16, 1, 8, 16, 16, imageio.BlockInterleaved)
	if err != nil {
		t.Fatal(err)
	}
	plane := make([]byte, 16*16)
	for i := range plane {
		plane[i] = byte(i)
	}
	w, err := imageio.NewWriter(g, &imageio.WriterOptions{Compression: "C3"})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteImage([][]byte{plane}); err != nil {
		t.Fatal(err)
	}
	img, err := NewImageSegment(w)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecord()
	rec.Images = append(rec.Images, img)
	data, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	rate := img.CompressionRate()
	if !regexp.MustCompile(`^\d\d\.\d$`).MatchString(rate) {
		t.Errorf("COMRAT = %q", rate)
	}

	rec2, _, err := ReadBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if ic := rec2.Images[0].Subheader.Compression(); ic != "C3" {
		t.Errorf("IC = %q", ic)
	}
	if got := rec2.Images[0].CompressionRate(); got != rate {
		t.Errorf("COMRAT in file %q, want %q", got, rate)
	}
	if _, ok, err := rec2.Images[0].PadValue(); err != nil || ok {
		t.Errorf("unmasked image: PadValue gives %t, %v", ok, err)
	}
}

func TestDeferData(t *testing.T) {
	data, err := Marshal(sampleRecord(t))
	if err != nil {
		t.Fatal(err)
	}
	rec, _, err := Read(bytes.NewReader(data), &ReaderOptions{DeferData: true})
	if err != nil {
		t.Fatal(err)
	}
	text := rec.Texts[0]
	if text.Data != nil {
		t.Error("text data loaded")
	}
	r, err := text.Open()
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, data[text.Offset:text.Offset+text.Length]) {
		t.Error("wrong payload")
	}

	s, err := text.Text()
	if err != nil {
		t.Fatal(err)
	}
	if s != "Grüße\n" {
		t.Errorf("text = %q", s)
	}

	// a deferred record can be written as long as the source is open
	data2, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("rewriting a deferred record changes the file")
	}
}

func TestNotLoaded(t *testing.T) {
	seg := &Segment{Offset: 1000, Length: 10}
	if _, err := seg.Open(); !errors.Is(err, errNotLoaded) {
		t.Errorf("got %v, want %v", err, errNotLoaded)
	}
}

// patch replaces the value of a header field in a serialized file.
func patch(t *testing.T, data []byte, h *FileHeader, tag, value string) []byte {
	t.Helper()
	off, err := h.fieldOffset(tag)
	if err != nil {
		t.Fatal(err)
	}
	res := bytes.Clone(data)
	copy(res[off:], value)
	return res
}

func TestMalformed(t *testing.T) {
	rec := sampleRecord(t)
	data, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad version", append([]byte("NITF01.10"), data[9:]...)},
		{"truncated header", data[:200]},
		{"truncated data", data[:len(data)-1]},
		{"wrong HL", patch(t, data, rec.Header, "HL", "000999")},
		{"wrong LTSH", patch(t, data, rec.Header, "LTSH[0]", "0300")},
	}
	for _, c := range cases {
		_, _, err := ReadBytes(c.data)
		var mf *MalformedFileError
		if !errors.As(err, &mf) {
			t.Errorf("%s: got %v, want MalformedFileError", c.name, err)
		}
	}

	_, _, err = ReadBytes(append([]byte("NITF01.10"), data[9:]...))
	if !errors.Is(err, errVersion) {
		t.Errorf("got %v, want %v", err, errVersion)
	}
}

func TestFileLengthWarning(t *testing.T) {
	rec := sampleRecord(t)
	data, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	_, warnings, err := ReadBytes(patch(t, data, rec.Header, "FL", "000000000001"))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Msg, "file length") {
		t.Errorf("warnings: %v", warnings)
	}

	_, warnings, err = ReadBytes(patch(t, data, rec.Header, "FL", "999999999999"))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) > 0 {
		t.Errorf("unknown file length gives warnings: %v", warnings)
	}
}

func TestBadTRE(t *testing.T) {
	rec := NewRecord()
	rec.Header.Extended().Append(tre.ParseRaw("ACFTA", []byte("too short")))
	good, err := tre.New("ACFTA", "")
	if err != nil {
		t.Fatal(err)
	}
	rec.Header.Extended().Append(good)
	data, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	rec2, warnings, err := ReadBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Tag != "ACFTA" {
		t.Fatalf("warnings: %v", warnings)
	}
	xhd, err := rec2.Header.fieldOffset("XHD")
	if err != nil {
		t.Fatal(err)
	}
	if warnings[0].Pos != int64(xhd) {
		t.Errorf("warning at byte %d, want %d", warnings[0].Pos, xhd)
	}

	list := rec2.Header.Extended().Find("ACFTA")
	if len(list) != 2 {
		t.Fatalf("%d ACFTA TREs", len(list))
	}
	if !list[0].IsRaw() || list[1].IsRaw() {
		t.Errorf("raw flags %t %t", list[0].IsRaw(), list[1].IsRaw())
	}

	data2, err := Marshal(rec2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("raw TRE not preserved")
	}
}

func TestConsistencyError(t *testing.T) {
	err := &ConsistencyError{Segment: "image", Index: 2, Part: "data", Want: 10, Have: 12}
	want := "image 2 data: wrote 12 bytes, expected 10"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func FuzzRead(f *testing.F) {
	data, err := Marshal(sampleRecord(f))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(data)
	empty, err := Marshal(NewRecord())
	if err != nil {
		f.Fatal(err)
	}
	f.Add(empty)

	f.Fuzz(func(t *testing.T, data []byte) {
		rec, _, err := ReadBytes(data)
		if err != nil {
			return
		}
		out, err := Marshal(rec)
		if err != nil {
			return
		}

		rec2, _, err := ReadBytes(out)
		if err != nil {
			t.Fatal(err)
		}
		out2, err := Marshal(rec2)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out, out2) {
			t.Error("not a fixed point")
		}
	})
}
