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

package bilevel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/nitf/imageio"
)

func TestUnpack(t *testing.T) {
	packed := []byte{
		0b10100000, 0b10000000,
		0b01111111, 0b00000000,
	}
	got, err := unpack(packed, 9, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		1, 0, 1, 0, 0, 0, 0, 0, 1,
		0, 1, 1, 1, 1, 1, 1, 1, 0,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unpack (-want +got):\n%s", d)
	}

	if _, err := unpack(packed[:3], 9, 2); err == nil {
		t.Error("short data accepted")
	}
}

func TestRegistered(t *testing.T) {
	for _, ic := range []string{"C1", "M1"} {
		if _, ok := imageio.LookupDecompressor(ic); !ok {
			t.Errorf("no decompressor for %s", ic)
		}
	}
	if _, ok := imageio.LookupCompressor("C1"); ok {
		t.Error("unexpected compressor for C1")
	}
}

func TestOpenErrors(t *testing.T) {
	g, err := imageio.NewGeometry(16, 16, 1, 1, 8, 8, imageio.BlockInterleaved)
	if err != nil {
		t.Fatal(err)
	}
	data := []byte{0, 1, 2, 3}
	_, err = imageio.NewReader(bytes.NewReader(data), int64(len(data)), g, "C1")
	if !errors.Is(err, errNeedMask) {
		t.Errorf("expected errNeedMask, got %v", err)
	}

	g8, err := imageio.NewGeometry(16, 16, 1, 8, 0, 0, imageio.BlockInterleaved)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := imageio.NewReader(bytes.NewReader(data), int64(len(data)), g8, "C1"); err == nil {
		t.Error("8-bit bi-level image accepted")
	}
}
