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
	"fmt"
	"strconv"
	"strings"
)

// Kind describes how the bytes of a field are interpreted.
type Kind int

// These are the field kinds used in NITF headers and TREs.
const (
	// BCSA is left-justified text, padded on the right with spaces.
	BCSA Kind = iota

	// BCSN is right-justified numeric text, padded on the left with zeros.
	BCSN

	// Binary is a fixed-width big-endian integer or an opaque byte string.
	Binary
)

func (k Kind) String() string {
	switch k {
	case BCSA:
		return "BCS-A"
	case BCSN:
		return "BCS-N"
	case Binary:
		return "BINARY"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k Kind) fill() byte {
	switch k {
	case BCSA:
		return ' '
	case BCSN:
		return '0'
	default:
		return 0
	}
}

// Field is a fixed-length value in a NITF header or TRE.
//
// The length of a field only changes if the field is resizable.
type Field struct {
	kind      Kind
	raw       []byte
	resizable bool
}

// New allocates a field of the given kind and length.
// The field is filled with spaces (BCS-A), '0' characters (BCS-N)
// or zero bytes (BINARY).
func New(kind Kind, length int) *Field {
	if length < 0 {
		length = 0
	}
	f := &Field{kind: kind, raw: make([]byte, length)}
	f.clear()
	return f
}

// NewResizable allocates a field whose length follows the values
// assigned to it.
func NewResizable(kind Kind, length int) *Field {
	f := New(kind, length)
	f.resizable = true
	return f
}

func (f *Field) clear() {
	c := f.kind.fill()
	for i := range f.raw {
		f.raw[i] = c
	}
}

// Kind returns the kind of the field.
func (f *Field) Kind() Kind {
	return f.kind
}

// SetKind changes the interpretation of the field without touching
// its bytes.
func (f *Field) SetKind(kind Kind) {
	f.kind = kind
}

// Len returns the length of the field in bytes.
func (f *Field) Len() int {
	return len(f.raw)
}

// Resizable reports whether assigning a value may change the field length.
func (f *Field) Resizable() bool {
	return f.resizable
}

// Raw returns a copy of the bytes stored in the field.
func (f *Field) Raw() []byte {
	return append([]byte(nil), f.raw...)
}

// AppendTo appends the bytes of the field to buf.
func (f *Field) AppendTo(buf []byte) []byte {
	return append(buf, f.raw...)
}

// String returns the field contents as a string, including padding.
func (f *Field) String() string {
	return string(f.raw)
}

// Trimmed returns the field contents with leading and trailing spaces
// removed.
func (f *Field) Trimmed() string {
	return strings.Trim(string(f.raw), " ")
}

// Resize changes the length of a resizable field.
// The new contents are the fill value of the field kind.
func (f *Field) Resize(length int) error {
	if !f.resizable {
		return errNotResizable
	}
	if length < 0 {
		return fmt.Errorf("invalid field length %d", length)
	}
	if length != len(f.raw) {
		f.raw = make([]byte, length)
	}
	f.clear()
	return nil
}

// SetRaw stores data in the field.
//
// Text fields are padded when data is shorter than the field.  Binary
// fields require an exact match.  Resizable fields adopt the length of
// data.  The characters are not validated; use SetString for this.
func (f *Field) SetRaw(data []byte) error {
	if f.resizable && len(data) != len(f.raw) {
		f.raw = make([]byte, len(data))
	}
	if len(data) > len(f.raw) {
		return &LengthError{Have: len(data), Want: len(f.raw)}
	}
	if len(data) == len(f.raw) {
		copy(f.raw, data)
		return nil
	}
	switch f.kind {
	case BCSA:
		f.fillSpaces(data)
	case BCSN:
		f.fillZeros(data)
	default:
		return &LengthError{Have: len(data), Want: len(f.raw)}
	}
	return nil
}

// SetString stores a text value in the field.
func (f *Field) SetString(s string) error {
	switch f.kind {
	case Binary:
		return errBinaryString
	case BCSA:
		if err := checkBCSA(s); err != nil {
			return err
		}
	case BCSN:
		if err := checkBCSN(s); err != nil {
			return err
		}
	}
	if f.resizable && len(s) != len(f.raw) {
		f.raw = make([]byte, len(s))
	}
	if len(s) > len(f.raw) {
		return &LengthError{Have: len(s), Want: len(f.raw)}
	}
	if f.kind == BCSA {
		f.fillSpaces([]byte(s))
	} else {
		f.fillZeros([]byte(s))
	}
	return nil
}

// fillSpaces copies data and pads on the right with spaces.
func (f *Field) fillSpaces(data []byte) {
	n := copy(f.raw, data)
	for i := n; i < len(f.raw); i++ {
		f.raw[i] = ' '
	}
}

// fillZeros copies data right-justified and pads on the left with
// zeros.  A leading sign moves to the first byte.
func (f *Field) fillZeros(data []byte) {
	zeros := len(f.raw) - len(data)
	for i := 0; i < zeros; i++ {
		f.raw[i] = '0'
	}
	copy(f.raw[zeros:], data)
	if zeros > 0 && len(data) > 0 && (data[0] == '+' || data[0] == '-') {
		f.raw[0] = data[0]
		f.raw[zeros] = '0'
	}
}

// SetInt stores a signed integer.  Text fields receive the decimal
// representation, binary fields the big-endian two's complement.
func (f *Field) SetInt(v int64) error {
	if f.kind != Binary {
		return f.SetString(strconv.FormatInt(v, 10))
	}
	n := len(f.raw)
	if n == 0 || n > 8 {
		return fmt.Errorf("cannot store an integer in a %d byte field", n)
	}
	if n < 8 {
		lim := int64(1) << (8*n - 1)
		if v < -lim || v >= lim {
			return &RangeError{Value: strconv.FormatInt(v, 10), Len: n}
		}
	}
	putBigEndian(f.raw, uint64(v))
	return nil
}

// SetUint stores an unsigned integer.  Text fields receive the decimal
// representation, binary fields the big-endian value.
func (f *Field) SetUint(v uint64) error {
	if f.kind != Binary {
		return f.SetString(strconv.FormatUint(v, 10))
	}
	n := len(f.raw)
	if n == 0 || n > 8 {
		return fmt.Errorf("cannot store an integer in a %d byte field", n)
	}
	if n < 8 && v >= uint64(1)<<(8*n) {
		return &RangeError{Value: strconv.FormatUint(v, 10), Len: n}
	}
	putBigEndian(f.raw, v)
	return nil
}

// SetFloat stores a real number in a text field.  Digits after the
// decimal point are dropped as needed to fit the field; if the integer
// part does not fit, a RangeError is returned.
func (f *Field) SetFloat(v float64) error {
	if f.kind == Binary {
		return errBinaryString
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	n := len(f.raw)
	if len(s) > n && !f.resizable {
		intPart, _, _ := strings.Cut(s, ".")
		if len(intPart) > n {
			return &RangeError{Value: s, Len: n}
		}
		s = strings.TrimSuffix(s[:n], ".")
	}
	return f.SetString(s)
}

func putBigEndian(buf []byte, v uint64) {
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}

// Int interprets the field as a signed integer.
func (f *Field) Int() (int64, error) {
	if f.kind == Binary {
		n := len(f.raw)
		if n == 0 || n > 8 {
			return 0, fmt.Errorf("cannot read an integer from a %d byte field", n)
		}
		var v uint64
		for _, b := range f.raw {
			v = v<<8 | uint64(b)
		}
		shift := 64 - 8*n
		return int64(v<<shift) >> shift, nil
	}
	s := f.Trimmed()
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

// Uint interprets the field as an unsigned integer.
func (f *Field) Uint() (uint64, error) {
	if f.kind == Binary {
		n := len(f.raw)
		if n == 0 || n > 8 {
			return 0, fmt.Errorf("cannot read an integer from a %d byte field", n)
		}
		var v uint64
		for _, b := range f.raw {
			v = v<<8 | uint64(b)
		}
		return v, nil
	}
	s := strings.TrimPrefix(f.Trimmed(), "+")
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid unsigned integer %q", s)
	}
	return v, nil
}

// Validate checks that the field contents are valid for the field kind.
// A BCS-N field consisting only of spaces is valid; NITF uses this for
// optional numbers.
func (f *Field) Validate() error {
	switch f.kind {
	case BCSA:
		return checkBCSA(string(f.raw))
	case BCSN:
		if f.Trimmed() == "" {
			return nil
		}
		return checkBCSN(string(f.raw))
	}
	return nil
}

// Clone returns an independent copy of the field.
func (f *Field) Clone() *Field {
	return &Field{
		kind:      f.kind,
		raw:       append([]byte(nil), f.raw...),
		resizable: f.resizable,
	}
}

func checkBCSA(s string) error {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c > 0x7e {
			return &CharError{Kind: BCSA, Char: c, Pos: i}
		}
	}
	return nil
}

// checkBCSN accepts an optional sign followed by characters from the
// BCS-N set: digits, '-', '.' and '/'.  A '-' is allowed in any position,
// since some TREs fill unknown numbers with minus signs.
func checkBCSN(s string) error {
	start := 0
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		start = 1
	}
	for i := start; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '-' && c != '.' && c != '/' {
			return &CharError{Kind: BCSN, Char: c, Pos: i}
		}
	}
	return nil
}

// LengthError is returned when a value does not fit into a field.
type LengthError struct {
	Have, Want int
}

func (err *LengthError) Error() string {
	return fmt.Sprintf("value of length %d does not fit a %d byte field",
		err.Have, err.Want)
}

// CharError is returned when a value contains a character which is not
// allowed for the field kind.
type CharError struct {
	Kind Kind
	Char byte
	Pos  int
}

func (err *CharError) Error() string {
	return fmt.Sprintf("invalid character %q in %s value (at position %d)",
		err.Char, err.Kind, err.Pos)
}

// RangeError is returned when an integer does not fit into a binary field.
type RangeError struct {
	Value string
	Len   int
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("%s does not fit into %d bytes", err.Value, err.Len)
}

var (
	errNotResizable = errors.New("field is not resizable")
	errBinaryString = errors.New("cannot set a string on a binary field")
)
