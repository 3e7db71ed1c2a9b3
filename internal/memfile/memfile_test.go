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

package memfile

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteSeek(t *testing.T) {
	f := New()
	if _, err := f.Write([]byte("NITF02.10")); err != nil {
		t.Fatal(err)
	}

	// overwrite in the middle
	if _, err := f.Seek(4, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("99")); err != nil {
		t.Fatal(err)
	}

	// write beyond the end
	if _, err := f.Seek(2, io.SeekEnd); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}

	want := []byte("NITF99.10\x00\x00x")
	if d := cmp.Diff(want, f.Data); d != "" {
		t.Errorf("contents (-want +got):\n%s", d)
	}
	if f.Size() != int64(len(want)) {
		t.Errorf("Size() = %d", f.Size())
	}
}

func TestReadAt(t *testing.T) {
	f := NewFromBytes([]byte("0123456789"))
	f.Offset = 7

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 2)
	if err != nil || n != 4 || string(buf) != "2345" {
		t.Errorf("ReadAt = %d, %v, %q", n, err, buf)
	}
	if f.Offset != 7 {
		t.Errorf("ReadAt moved the offset to %d", f.Offset)
	}

	n, err = f.ReadAt(buf, 8)
	if err != io.EOF || n != 2 {
		t.Errorf("ReadAt at the end = %d, %v", n, err)
	}
	if _, err := f.ReadAt(buf, -1); err == nil {
		t.Error("negative offset accepted")
	}
}

func TestSeekErrors(t *testing.T) {
	f := New()
	if _, err := f.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative offset accepted")
	}
	if _, err := f.Seek(0, 17); err == nil {
		t.Error("invalid whence accepted")
	}
}
