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

package field

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetString(t *testing.T) {
	cases := []struct {
		kind   Kind
		length int
		in     string
		want   string
	}{
		{BCSA, 10, "fly-by", "fly-by    "},
		{BCSA, 3, "abc", "abc"},
		{BCSA, 4, "", "    "},
		{BCSN, 5, "42", "00042"},
		{BCSN, 5, "-42", "-0042"},
		{BCSN, 5, "+7", "+0007"},
		{BCSN, 3, "---", "---"},
		{BCSN, 8, "00000100", "00000100"},
	}
	for _, c := range cases {
		f := New(c.kind, c.length)
		err := f.SetString(c.in)
		if err != nil {
			t.Errorf("%s %q: %v", c.kind, c.in, err)
			continue
		}
		if got := f.String(); got != c.want {
			t.Errorf("%s %q: got %q, want %q", c.kind, c.in, got, c.want)
		}
	}
}

func TestSetStringErrors(t *testing.T) {
	f := New(BCSA, 3)
	var lenErr *LengthError
	if err := f.SetString("toolong"); !errors.As(err, &lenErr) {
		t.Errorf("expected LengthError, got %v", err)
	}
	if f.String() != "   " {
		t.Errorf("field modified by failed set: %q", f.String())
	}

	var charErr *CharError
	if err := f.SetString("a\tb"); !errors.As(err, &charErr) {
		t.Errorf("expected CharError, got %v", err)
	}

	n := New(BCSN, 4)
	if err := n.SetString("12a"); !errors.As(err, &charErr) {
		t.Errorf("expected CharError for BCS-N, got %v", err)
	}

	b := New(Binary, 4)
	if err := b.SetString("1"); err == nil {
		t.Error("string accepted by binary field")
	}
}

func TestFill(t *testing.T) {
	cases := []struct {
		kind Kind
		want []byte
	}{
		{BCSA, []byte("   ")},
		{BCSN, []byte("000")},
		{Binary, []byte{0, 0, 0}},
	}
	for _, c := range cases {
		f := New(c.kind, 3)
		if d := cmp.Diff(c.want, f.Raw()); d != "" {
			t.Errorf("%s (-want +got):\n%s", c.kind, d)
		}
	}
}

func TestBinaryInt(t *testing.T) {
	cases := []struct {
		length int
		v      int64
		raw    []byte
	}{
		{1, -1, []byte{0xff}},
		{2, 258, []byte{1, 2}},
		{2, -2, []byte{0xff, 0xfe}},
		{4, 0x01020304, []byte{1, 2, 3, 4}},
		{3, -3, []byte{0xff, 0xff, 0xfd}},
	}
	for _, c := range cases {
		f := New(Binary, c.length)
		if err := f.SetInt(c.v); err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(c.raw, f.Raw()); d != "" {
			t.Errorf("SetInt(%d) (-want +got):\n%s", c.v, d)
		}
		got, err := f.Int()
		if err != nil {
			t.Fatal(err)
		}
		if got != c.v {
			t.Errorf("Int() = %d, want %d", got, c.v)
		}
	}

	f := New(Binary, 2)
	var rangeErr *RangeError
	if err := f.SetUint(70000); !errors.As(err, &rangeErr) {
		t.Errorf("expected RangeError, got %v", err)
	}
	if err := f.SetUint(0xfffe); err != nil {
		t.Fatal(err)
	}
	u, _ := f.Uint()
	if u != 0xfffe {
		t.Errorf("Uint() = %x", u)
	}
}

func TestTextInt(t *testing.T) {
	f := New(BCSN, 8)
	if err := f.SetInt(100); err != nil {
		t.Fatal(err)
	}
	if f.String() != "00000100" {
		t.Errorf("got %q", f.String())
	}
	v, err := f.Int()
	if err != nil || v != 100 {
		t.Errorf("Int() = %d, %v", v, err)
	}

	a := New(BCSA, 4)
	if err := a.SetString("  7 "); err != nil {
		t.Fatal(err)
	}
	v, err = a.Int()
	if err != nil || v != 7 {
		t.Errorf("Int() = %d, %v", v, err)
	}

	if err := a.SetString("x"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Int(); err == nil {
		t.Error("non-numeric value parsed")
	}
}

func TestResizable(t *testing.T) {
	f := NewResizable(Binary, 1)
	if err := f.SetRaw([]byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	if f.Len() != 5 {
		t.Errorf("Len() = %d, want 5", f.Len())
	}

	g := New(Binary, 2)
	if err := g.SetRaw([]byte{1}); err == nil {
		t.Error("short binary value accepted")
	}
	if err := g.Resize(4); err == nil {
		t.Error("fixed field resized")
	}
}

func TestSetRawPadding(t *testing.T) {
	f := New(BCSN, 6)
	if err := f.SetRaw([]byte("-5")); err != nil {
		t.Fatal(err)
	}
	if f.String() != "-00005" {
		t.Errorf("got %q", f.String())
	}
}

func TestClone(t *testing.T) {
	f := New(BCSA, 4)
	_ = f.SetString("abcd")
	g := f.Clone()
	_ = g.SetString("wxyz")
	if f.String() != "abcd" {
		t.Errorf("clone shares storage: %q", f.String())
	}
}

func TestValidate(t *testing.T) {
	f := New(BCSN, 3)
	_ = f.SetRaw([]byte("1 2"))
	if f.Validate() == nil {
		t.Error("invalid BCS-N contents accepted")
	}
	_ = f.SetRaw([]byte("012"))
	if err := f.Validate(); err != nil {
		t.Error(err)
	}
	_ = f.SetRaw([]byte("   "))
	if err := f.Validate(); err != nil {
		t.Errorf("blank BCS-N rejected: %v", err)
	}
}

func TestSetFloat(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{1.0 / 9, "0.1111111"},
		{123456789, "123456789"},
		{12345678., "012345678"},
		{12345678.9, "012345678"},
		{1, "000000001"},
	}
	for _, c := range cases {
		f := New(BCSN, 9)
		if err := f.SetFloat(c.v); err != nil {
			t.Errorf("SetFloat(%g): %v", c.v, err)
			continue
		}
		if got := f.String(); got != c.want {
			t.Errorf("SetFloat(%g) = %q, want %q", c.v, got, c.want)
		}
	}

	f := New(BCSN, 9)
	var rangeErr *RangeError
	if err := f.SetFloat(123456789012); !errors.As(err, &rangeErr) {
		t.Errorf("expected RangeError, got %v", err)
	}

	a := New(BCSA, 10)
	if err := a.SetFloat(1.2345678); err != nil {
		t.Fatal(err)
	}
	if a.String() != "1.2345678 " {
		t.Errorf("got %q", a.String())
	}
}
