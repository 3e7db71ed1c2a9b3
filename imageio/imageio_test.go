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

package imageio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeBlocking(t *testing.T) {
	cases := []struct {
		rows, cols, rpb, cpb int
		bpr, bpc             int
	}{
		{12, 4, 4, 4, 1, 3},
		{100, 100, 32, 32, 4, 4},
		{5, 7, 4, 4, 2, 2},
		{5, 7, 0, 0, 1, 1},
		{5, 7, 0, 4, 2, 1},
		{1, 1, 1, 1, 1, 1},
	}
	for _, c := range cases {
		bpr, bpc := ComputeBlocking(c.rows, c.cols, c.rpb, c.cpb)
		if bpr != c.bpr || bpc != c.bpc {
			t.Errorf("%dx%d / %dx%d: got %dx%d, want %dx%d",
				c.rows, c.cols, c.rpb, c.cpb, bpr, bpc, c.bpr, c.bpc)
		}
	}
}

func TestGeometryValidate(t *testing.T) {
	if _, err := NewGeometry(0, 10, 1, 8, 0, 0, BlockInterleaved); err == nil {
		t.Error("empty image accepted")
	}
	if _, err := NewGeometry(10, 10, 1, 8, 0, 0, 'X'); err == nil {
		t.Error("invalid mode accepted")
	}
	g, err := NewGeometry(10, 10, 1, 8, 0, 0, BlockInterleaved)
	if err != nil {
		t.Fatal(err)
	}
	g.BlocksPerRow = 3
	if g.Validate() == nil {
		t.Error("inconsistent block count accepted")
	}
}

func TestMaskRoundTrip(t *testing.T) {
	m := &Mask{
		PadBits: 12,
		Pad:     []byte{0x0f, 0xff},
		Blocks:  []uint32{0, Absent, 64, 128},
		Pads:    []uint32{Absent, 0, Absent, Absent},
	}
	m.DataOffset = uint32(m.Len())
	if m.Len() != 10+2+16+16 {
		t.Errorf("Len() = %d", m.Len())
	}

	buf := &bytes.Buffer{}
	n, err := m.WriteTo(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(m.Len()) {
		t.Errorf("wrote %d bytes, want %d", n, m.Len())
	}

	m2, err := ReadMask(buf, 4, int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(m, m2); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if m2.Present() != 3 {
		t.Errorf("Present() = %d, want 3", m2.Present())
	}
}

func TestMaskLayout(t *testing.T) {
	m := &Mask{
		PadBits: 8,
		Pad:     []byte{0x7f},
		Blocks:  []uint32{0, Absent},
	}
	m.DataOffset = uint32(m.Len())
	buf := &bytes.Buffer{}
	if _, err := m.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0, 0, 0, 19,            // IMDATOFF
		0, 4,                   // BMRLNTH
		0, 0,                   // TMRLNTH
		0, 8,                   // TPXCDLNTH
		0x7f,                   // TPXCD
		0, 0, 0, 0,             // BMR0
		0xff, 0xff, 0xff, 0xff, // BMR1
	}
	if d := cmp.Diff(want, buf.Bytes()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestReadMaskErrors(t *testing.T) {
	cases := [][]byte{
		{0, 0, 0},                             // truncated header
		{0, 0, 0, 10, 0, 3, 0, 0, 0, 0},       // bad record length
		{0, 0, 0, 10, 0, 4, 0, 0, 0, 0, 0, 0}, // truncated records
		{0, 0, 0, 2, 0, 0, 0, 0, 0, 0},        // data offset inside the mask
	}
	for i, data := range cases {
		_, err := ReadMask(bytes.NewReader(data), 1, int64(len(data)))
		if !errors.Is(err, errInvalidMask) {
			t.Errorf("%d: got %v", i, err)
		}
	}

	// a huge block count must be rejected before the records are read
	data := []byte{0, 0, 0, 10, 0, 4, 0, 4, 0, 0}
	_, err := ReadMask(bytes.NewReader(data), 900_000_000, int64(len(data)))
	if !errors.Is(err, errInvalidMask) {
		t.Errorf("huge mask: got %v", err)
	}
	g := &Geometry{
		Rows: 9999, Cols: 9999, Bands: 9, BitsPerPixel: 8,
		BlocksPerRow: 9999, BlocksPerCol: 9999, ColsPerBlock: 1, RowsPerBlock: 1,
		Mode: BandSequential,
	}
	_, err = NewReader(bytes.NewReader(data), int64(len(data)), g, "NM")
	if !errors.Is(err, errInvalidMask) {
		t.Errorf("NewReader: got %v", err)
	}
}

// stripes returns a single band image of the given size where row r has
// value r+1.
func stripes(rows, cols int) []byte {
	buf := make([]byte, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			buf[r*cols+c] = byte(r + 1)
		}
	}
	return buf
}

func TestBlankBlockOmission(t *testing.T) {
	g, err := NewGeometry(12, 4, 1, 8, 4, 4, BlockInterleaved)
	if err != nil {
		t.Fatal(err)
	}
	if g.NumBlocks() != 3 {
		t.Fatalf("%d blocks, want 3", g.NumBlocks())
	}

	// the middle block holds only pad pixels
	img := stripes(12, 4)
	clear(img[4*4 : 8*4])

	w, err := NewWriter(g, &WriterOptions{Compression: "NM", Pad: []byte{0}})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteImage([][]byte{img}); err != nil {
		t.Fatal(err)
	}
	m := w.Mask()
	if m.Blocks[1] != Absent {
		t.Errorf("blank block stored at offset %d", m.Blocks[1])
	}
	if m.Present() != g.NumBlocks()-1 {
		t.Errorf("%d blocks present, want %d", m.Present(), g.NumBlocks()-1)
	}
	data, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if want := m.Len() + 2*16; len(data) != want {
		t.Errorf("%d bytes of image data, want %d", len(data), want)
	}

	// an image without blank blocks keeps all of them
	w2, _ := NewWriter(g, &WriterOptions{Compression: "NM", Pad: []byte{0}})
	if err := w2.WriteImage([][]byte{stripes(12, 4)}); err != nil {
		t.Fatal(err)
	}
	if n := w2.Mask().Present(); n != g.NumBlocks() {
		t.Errorf("%d blocks present, want %d", n, g.NumBlocks())
	}

	// reading synthesizes the missing block
	r, err := NewReader(bytes.NewReader(data), int64(len(data)), g, "NM")
	if err != nil {
		t.Fatal(err)
	}
	planes, rows, cols, err := r.ReadWindow(&Window{Rows: 12, Cols: 4})
	if err != nil {
		t.Fatal(err)
	}
	if rows != 12 || cols != 4 {
		t.Errorf("window %dx%d", cols, rows)
	}
	if d := cmp.Diff(img, planes[0]); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestBlankDetectionPerMode(t *testing.T) {
	// band 0 is all pad, band 1 is not
	band0 := make([]byte, 16)
	band1 := bytes.Repeat([]byte{9}, 16)

	cases := []struct {
		mode    Mode
		present int
	}{
		{BlockInterleaved, 1},
		{PixelInterleaved, 1},
		{RowInterleaved, 1},
		{BandSequential, 1}, // of two records
	}
	for _, c := range cases {
		g, err := NewGeometry(4, 4, 2, 8, 4, 4, c.mode)
		if err != nil {
			t.Fatal(err)
		}
		w, err := NewWriter(g, &WriterOptions{Compression: "NM", Pad: []byte{0}})
		if err != nil {
			t.Fatal(err)
		}
		if err := w.WriteImage([][]byte{band0, band1}); err != nil {
			t.Fatal(err)
		}
		m := w.Mask()
		if len(m.Blocks) != g.NumRecords() {
			t.Errorf("%s: %d mask entries, want %d", c.mode, len(m.Blocks), g.NumRecords())
		}
		if m.Present() != c.present {
			t.Errorf("%s: %d records present, want %d", c.mode, m.Present(), c.present)
		}
		if c.mode == BandSequential && m.Blocks[0] != Absent {
			t.Errorf("%s: pad band stored", c.mode)
		}

		data, err := w.Bytes()
		if err != nil {
			t.Fatal(err)
		}
		r, err := NewReader(bytes.NewReader(data), int64(len(data)), g, "NM")
		if err != nil {
			t.Fatal(err)
		}
		planes, _, _, err := r.ReadWindow(&Window{Rows: 4, Cols: 4})
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff([][]byte{band0, band1}, planes); d != "" {
			t.Errorf("%s (-want +got):\n%s", c.mode, d)
		}
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	rows, cols := 5, 7
	planes := make([][]byte, 3)
	for b := range planes {
		planes[b] = make([]byte, rows*cols*2)
		for i := range planes[b] {
			planes[b][i] = byte(i*3 + b)
		}
	}

	for _, mode := range []Mode{BlockInterleaved, PixelInterleaved, RowInterleaved, BandSequential} {
		g, err := NewGeometry(rows, cols, 3, 16, 4, 4, mode)
		if err != nil {
			t.Fatal(err)
		}
		w, err := NewWriter(g, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.WriteImage(planes); err != nil {
			t.Fatal(err)
		}
		data, err := w.Bytes()
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != g.NumRecords()*g.RecordBytes() {
			t.Errorf("%s: %d bytes", mode, len(data))
		}

		r, err := NewReader(bytes.NewReader(data), int64(len(data)), g, "NC")
		if err != nil {
			t.Fatal(err)
		}
		got, _, _, err := r.ReadWindow(&Window{Rows: rows, Cols: cols})
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(planes, got); d != "" {
			t.Errorf("%s (-want +got):\n%s", mode, d)
		}

		// a window across block boundaries, second band only
		sub, _, _, err := r.ReadWindow(&Window{Row: 3, Col: 2, Rows: 2, Cols: 4, Bands: []int{1}})
		if err != nil {
			t.Fatal(err)
		}
		var want []byte
		for row := 3; row < 5; row++ {
			want = append(want, planes[1][(row*cols+2)*2:(row*cols+6)*2]...)
		}
		if d := cmp.Diff(want, sub[0]); d != "" {
			t.Errorf("%s window (-want +got):\n%s", mode, d)
		}
	}
}

func TestJoinBands(t *testing.T) {
	g := &Geometry{Rows: 2, Cols: 2, Bands: 2, BitsPerPixel: 8,
		BlocksPerRow: 1, BlocksPerCol: 1, Mode: PixelInterleaved}
	planes := [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}
	cases := []struct {
		mode Mode
		want []byte
	}{
		{BlockInterleaved, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{PixelInterleaved, []byte{1, 5, 2, 6, 3, 7, 4, 8}},
		{RowInterleaved, []byte{1, 2, 5, 6, 3, 4, 7, 8}},
	}
	for _, c := range cases {
		g.Mode = c.mode
		got := g.JoinBands(planes)
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%s (-want +got):\n%s", c.mode, d)
		}
		for b := range planes {
			if d := cmp.Diff(planes[b], g.BandOf(got, b)); d != "" {
				t.Errorf("%s band %d (-want +got):\n%s", c.mode, b, d)
			}
		}
	}
}

func TestDownSamplers(t *testing.T) {
	plane := []byte{
		1, 2, 3, 4, 5,
		6, 7, 8, 9, 10,
		11, 12, 13, 14, 15,
	}
	skip, rows, cols, err := PixelSkip{RowSkip: 2, ColSkip: 2}.Sample(plane, 3, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 2 || cols != 3 {
		t.Errorf("PixelSkip size %dx%d", cols, rows)
	}
	if d := cmp.Diff([]byte{1, 3, 5, 11, 13, 15}, skip); d != "" {
		t.Errorf("PixelSkip (-want +got):\n%s", d)
	}

	mx, _, _, err := MaxDownSample{RowSkip: 2, ColSkip: 2}.Sample(plane, 3, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{7, 9, 10, 12, 14, 15}, mx); d != "" {
		t.Errorf("MaxDownSample (-want +got):\n%s", d)
	}

	// two byte samples compare as big-endian numbers
	wide := []byte{0x01, 0x00, 0x00, 0xff}
	mx, _, _, err = MaxDownSample{RowSkip: 1, ColSkip: 2}.Sample(wide, 1, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{0x01, 0x00}, mx); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	if _, _, _, err := (PixelSkip{}).Sample(plane, 3, 5, 1); err == nil {
		t.Error("zero skip accepted")
	}
}

func TestReadWindowSampled(t *testing.T) {
	g, _ := NewGeometry(4, 4, 1, 8, 2, 2, BlockInterleaved)
	img := stripes(4, 4)
	w, _ := NewWriter(g, nil)
	if err := w.WriteImage([][]byte{img}); err != nil {
		t.Fatal(err)
	}
	data, _ := w.Bytes()
	r, err := NewReader(bytes.NewReader(data), int64(len(data)), g, "NC")
	if err != nil {
		t.Fatal(err)
	}
	planes, rows, cols, err := r.ReadWindow(&Window{
		Rows: 4, Cols: 4,
		Sampler: MaxDownSample{RowSkip: 2, ColSkip: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rows != 2 || cols != 2 {
		t.Errorf("size %dx%d", cols, rows)
	}
	if d := cmp.Diff([]byte{2, 2, 4, 4}, planes[0]); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestReadErrors(t *testing.T) {
	g, _ := NewGeometry(4, 4, 1, 8, 0, 0, BlockInterleaved)
	short := make([]byte, 10)
	r, err := NewReader(bytes.NewReader(short), int64(len(short)), g, "NC")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadBlock(0); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v", err)
	}
	if _, err := r.ReadBlock(1); err == nil {
		t.Error("block out of range accepted")
	}
	if _, _, _, err := r.ReadWindow(&Window{Rows: 5, Cols: 1}); err == nil {
		t.Error("window outside the image accepted")
	}

	var unsupported *UnsupportedError
	_, err = NewReader(bytes.NewReader(short), int64(len(short)), g, "C9")
	if !errors.As(err, &unsupported) {
		t.Errorf("got %v", err)
	}
}

func TestWriterErrors(t *testing.T) {
	g, _ := NewGeometry(4, 4, 1, 8, 2, 2, BlockInterleaved)
	w, _ := NewWriter(g, nil)
	if err := w.WriteBlock(0, make([]byte, 3)); err == nil {
		t.Error("short block accepted")
	}
	if err := w.WriteBlock(0, make([]byte, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Bytes(); !errors.Is(err, errMissingBlock) {
		t.Errorf("got %v", err)
	}
	if w.CompressionRate() != "" {
		t.Errorf("rate %q for uncompressed data", w.CompressionRate())
	}
}

func TestSplitBlocks(t *testing.T) {
	data := []byte("aaabbbbcc")
	got, err := SplitBlocks(data, []uint32{7, Absent, 0, 3})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]byte{[]byte("cc"), nil, []byte("aaa"), []byte("bbbb")}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	if _, err := SplitBlocks(data, []uint32{20}); err == nil {
		t.Error("offset beyond the data accepted")
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank([]byte{0, 7, 0, 7}, []byte{0, 7}) {
		t.Error("blank record not detected")
	}
	if IsBlank([]byte{0, 7, 7, 0}, []byte{0, 7}) {
		t.Error("byte-swapped sample treated as pad")
	}
	g := &Geometry{BitsPerPixel: 12}
	if d := cmp.Diff([]byte{0x0f, 0xff}, PadSample(g, []byte{0x0f, 0xff})); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if d := cmp.Diff([]byte{0, 5}, PadSample(g, []byte{5})); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestPackRecord(t *testing.T) {
	g12 := &Geometry{Rows: 1, Cols: 2, Bands: 1, BitsPerPixel: 12, BlocksPerRow: 1, BlocksPerCol: 1, Mode: BlockInterleaved}
	packed := g12.PackRecord([]byte{0x0A, 0xBC, 0x01, 0x23})
	if d := cmp.Diff([]byte{0xAB, 0xC1, 0x23}, packed); d != "" {
		t.Errorf("12 bit (-want +got):\n%s", d)
	}

	g1 := &Geometry{Rows: 1, Cols: 9, Bands: 1, BitsPerPixel: 1, BlocksPerRow: 1, BlocksPerCol: 1, Mode: BlockInterleaved}
	samples := []byte{1, 0, 1, 1, 0, 0, 0, 0, 1}
	packed = g1.PackRecord(samples)
	if d := cmp.Diff([]byte{0xB0, 0x80}, packed); d != "" {
		t.Errorf("1 bit (-want +got):\n%s", d)
	}
	got, err := g1.UnpackRecord(packed)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(samples, got); d != "" {
		t.Errorf("unpack (-want +got):\n%s", d)
	}
	if _, err := g1.UnpackRecord(packed[:1]); err == nil {
		t.Error("short packed block accepted")
	}

	if _, err := NewGeometry(4, 4, 1, 36, 0, 0, BlockInterleaved); err == nil {
		t.Error("36 bit samples accepted")
	}
}

func TestPackedRoundTrip(t *testing.T) {
	cases := []struct {
		bits int
		mode Mode
		ic   string
	}{
		{12, BlockInterleaved, "NC"},
		{12, BandSequential, "NM"},
		{1, BlockInterleaved, "NC"},
		{4, RowInterleaved, "NC"},
	}
	for _, c := range cases {
		g, err := NewGeometry(4, 4, 2, c.bits, 2, 2, c.mode)
		if err != nil {
			t.Fatal(err)
		}
		bpp := g.BytesPerPixel()
		mask := uint32(1)<<c.bits - 1
		planes := make([][]byte, 2)
		for b := range planes {
			planes[b] = make([]byte, 16*bpp)
			for i := 0; i < 16; i++ {
				v := uint32(i*37+b*11+1) & mask
				for j := 0; j < bpp; j++ {
					shift := 8 * (bpp - 1 - j)
					planes[b][i*bpp+j] = byte(v >> shift)
				}
			}
		}

		w, err := NewWriter(g, &WriterOptions{Compression: c.ic})
		if err != nil {
			t.Fatal(err)
		}
		if err := w.WriteImage(planes); err != nil {
			t.Fatal(err)
		}
		data, err := w.Bytes()
		if err != nil {
			t.Fatal(err)
		}
		payload := g.NumRecords() * g.StoredRecordBytes()
		start := 0
		if m := w.Mask(); m != nil {
			start = int(m.DataOffset)
		}
		if len(data)-start != payload {
			t.Errorf("%d bits %s: %d bytes of pixel data, want %d", c.bits, c.mode, len(data)-start, payload)
		}

		r, err := NewReader(bytes.NewReader(data), int64(len(data)), g, c.ic)
		if err != nil {
			t.Fatal(err)
		}
		got, _, _, err := r.ReadWindow(&Window{Rows: 4, Cols: 4})
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(planes, got); d != "" {
			t.Errorf("%d bits %s (-want +got):\n%s", c.bits, c.mode, d)
		}

		// the last block is cut short
		r, err = NewReader(bytes.NewReader(data[:len(data)-1]), int64(len(data)-1), g, c.ic)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.ReadBlock(g.NumRecords() - 1); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("%d bits %s: got %v", c.bits, c.mode, err)
		}
	}
}
