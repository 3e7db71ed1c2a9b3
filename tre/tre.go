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
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/nitf/field"
)

// TRE is a tagged record extension.
//
// The values of a TRE are stored in a map from qualified tags to fields.
// The layout of the TRE, and thus the order of the fields, is given by a
// DescriptionInfo.
type TRE struct {
	// Tag is the six character name of the extension, for example "ENGRDA".
	Tag string

	// Length is the length of the TRE data when it was read, or
	// DefaultLength for TREs which were constructed in memory.
	// Serialization always uses ComputeLength.
	Length int

	info    *DescriptionInfo
	handler Handler
	fields  map[string]*field.Field
}

// New constructs an empty TRE for the given tag, using the registered
// handler.  If the handler knows several layouts, id selects one by name;
// an empty id selects the first.  Tags without a handler give a raw TRE.
//
// All fields visited by the description are created with their default
// values.
func New(tag, id string) (*TRE, error) {
	h, ok := Lookup(tag)
	if !ok {
		return NewRaw(tag), nil
	}
	t := &TRE{
		Tag:     tag,
		handler: h,
		fields:  make(map[string]*field.Field),
	}
	if err := h.Init(t, id); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	return t, nil
}

// NewWithDescription constructs an empty TRE with an explicit layout.
func NewWithDescription(tag string, info *DescriptionInfo) (*TRE, error) {
	if err := info.Description.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	t := &TRE{
		Tag:    tag,
		info:   info,
		fields: make(map[string]*field.Field),
	}
	if err := t.Fill(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewRaw constructs a TRE without known structure.  The contents are
// kept in the single field RawField.
func NewRaw(tag string) *TRE {
	return &TRE{
		Tag:    tag,
		info:   Raw,
		fields: map[string]*field.Field{RawField: field.NewResizable(field.Binary, 0)},
	}
}

// Description returns the layout of the TRE.
func (t *TRE) Description() *DescriptionInfo {
	return t.info
}

// DescriptionName returns the name of the layout of the TRE.
func (t *TRE) DescriptionName() string {
	if t.info == nil {
		return ""
	}
	return t.info.Name
}

// IsRaw reports whether the TRE is stored without known structure.
func (t *TRE) IsRaw() bool {
	return t.info == Raw
}

// Lookup returns the field with the given qualified tag.
// This implements the FieldSource interface.
func (t *TRE) Lookup(tag string) (*field.Field, bool) {
	f, ok := t.fields[tag]
	return f, ok
}

// Field returns the field with the given qualified tag.
// If the field does not exist, the error wraps ErrNotFound.
func (t *TRE) Field(tag string) (*field.Field, error) {
	f, ok := t.fields[tag]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", t.Tag, tag, ErrNotFound)
	}
	return f, nil
}

// Exists reports whether the TRE has a field with the given qualified tag.
func (t *TRE) Exists(tag string) bool {
	_, ok := t.fields[tag]
	return ok
}

// Get returns the value of a field with spaces trimmed.
func (t *TRE) Get(tag string) (string, error) {
	f, err := t.Field(tag)
	if err != nil {
		return "", err
	}
	return f.Trimmed(), nil
}

// Int returns the integer value of a field.
func (t *TRE) Int(tag string) (int, error) {
	f, err := t.Field(tag)
	if err != nil {
		return 0, err
	}
	v, err := f.Int()
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", t.Tag, tag, err)
	}
	return int(v), nil
}

// SetField stores f under the given qualified tag, replacing any previous
// field.  No checks are performed; fields which the description does not
// visit are ignored when the TRE is serialized.
func (t *TRE) SetField(tag string, f *field.Field) {
	t.fields[tag] = f
}

// SetValue sets the value of the field with the given qualified tag.
//
// If the field does not exist yet, the description is walked to find the
// entry producing the tag, and a field of the corresponding kind and
// length is created.  The same happens if the value does not fit an
// existing field whose resolved length has changed since it was created.
// Setting a tag which the description does not produce fails and leaves
// the TRE unchanged.  After a successful change, fields which became
// reachable (for example because a loop count changed) are created with
// default values.
func (t *TRE) SetValue(tag string, value []byte) error {
	return t.set(tag, len(value), func(f *field.Field) error {
		if err := f.SetRaw(value); err != nil {
			return err
		}
		return f.Validate()
	})
}

// SetString is a convenience wrapper around SetValue.
func (t *TRE) SetString(tag, value string) error {
	return t.SetValue(tag, []byte(value))
}

// SetInt sets a field to an integer value.
func (t *TRE) SetInt(tag string, value int64) error {
	return t.set(tag, -1, func(f *field.Field) error {
		return f.SetInt(value)
	})
}

// SetFloat sets a text field to a real value, dropping decimals which do
// not fit.
func (t *TRE) SetFloat(tag string, value float64) error {
	return t.set(tag, -1, func(f *field.Field) error {
		return f.SetFloat(value)
	})
}

// set applies update to a copy of the field and commits the copy if
// update succeeds.  A valueLen of -1 means the length of the new value is
// not known in advance.
func (t *TRE) set(tag string, valueLen int, update func(*field.Field) error) error {
	f, ok := t.fields[tag]
	if !ok || (!f.Resizable() && valueLen >= 0 && valueLen != f.Len()) {
		nf, err := t.newField(tag, valueLen)
		switch {
		case err == nil:
			if ok {
				nf.SetKind(f.Kind())
			}
			f = nf
		case !ok:
			return err
		}
	}

	tmp := f.Clone()
	if err := update(tmp); err != nil {
		return fmt.Errorf("%s %s: %w", t.Tag, tag, err)
	}
	t.fields[tag] = tmp

	// Filling is best effort: the values set so far may not yet allow
	// the whole description to be walked.
	_ = t.Fill()
	return nil
}

// newField walks the description to find the entry which produces tag,
// and allocates a field for it.  The field is not stored.
func (t *TRE) newField(tag string, valueLen int) (*field.Field, error) {
	c := Begin(t.info.Description, t)
	for {
		if err := c.Next(); err != nil {
			return nil, fmt.Errorf("%s: %w", t.Tag, err)
		}
		if c.IsDone() {
			return nil, fmt.Errorf("unable to find tag %q in TRE %q: %w",
				tag, t.Tag, ErrNotFound)
		}
		if c.Tag == tag {
			return t.allocate(c, valueLen), nil
		}
	}
}

func (t *TRE) allocate(c *Cursor, gobbleLen int) *field.Field {
	kind := c.Entry.Type.FieldKind()
	if c.Length == Gobble {
		return field.NewResizable(kind, gobbleLen)
	}
	return field.New(kind, c.Length)
}

// Fill creates all fields visited by the description which do not exist
// yet.  BINARY fields are zero-filled, BCS-N fields are set to zeros and
// BCS-A fields to spaces.  Fields of unknown length get length one.
func (t *TRE) Fill() error {
	c := Begin(t.info.Description, t)
	for {
		if err := c.Next(); err != nil {
			return fmt.Errorf("%s: %w", t.Tag, err)
		}
		if c.IsDone() {
			return nil
		}
		if _, ok := t.fields[c.Tag]; !ok {
			t.fields[c.Tag] = t.allocate(c, 1)
		}
	}
}

// ComputeLength returns the number of bytes the TRE occupies when
// serialized with its current values.
func (t *TRE) ComputeLength() (int, error) {
	total := 0
	c := Begin(t.info.Description, t)
	for {
		if err := c.Next(); err != nil {
			return 0, fmt.Errorf("%s: %w", t.Tag, err)
		}
		if c.IsDone() {
			return total, nil
		}
		if c.Length == Gobble {
			if f, ok := t.fields[c.Tag]; ok {
				total += f.Len()
			}
			continue
		}
		total += c.Length
	}
}

// Validate checks that every field visited by the description exists, has
// the resolved length and holds a valid value for its kind.
func (t *TRE) Validate() error {
	var missing []string
	c := Begin(t.info.Description, t)
	for {
		if err := c.Next(); err != nil {
			return fmt.Errorf("%s: %w", t.Tag, err)
		}
		if c.IsDone() {
			break
		}
		f, ok := t.fields[c.Tag]
		if !ok {
			missing = append(missing, c.Tag)
			continue
		}
		if c.Length != Gobble && f.Len() != c.Length {
			return fmt.Errorf("%s %s: length %d, expected %d", t.Tag, c.Tag, f.Len(), c.Length)
		}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%s %s: %w", t.Tag, c.Tag, err)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing field(s) %s: %w",
			t.Tag, strings.Join(missing, ", "), ErrNotFound)
	}
	return nil
}

// IsSane reports whether Validate succeeds.
func (t *TRE) IsSane() bool {
	return t.Validate() == nil
}

// Bytes serializes the TRE data, without the tag and length prefix.
func (t *TRE) Bytes() ([]byte, error) {
	var buf []byte
	var missing []string
	c := Begin(t.info.Description, t)
	for {
		if err := c.Next(); err != nil {
			return nil, fmt.Errorf("%s: %w", t.Tag, err)
		}
		if c.IsDone() {
			break
		}
		f, ok := t.fields[c.Tag]
		if !ok {
			missing = append(missing, c.Tag)
			continue
		}
		if c.Length != Gobble && f.Len() != c.Length {
			return nil, fmt.Errorf("%s %s: length %d, expected %d",
				t.Tag, c.Tag, f.Len(), c.Length)
		}
		buf = f.AppendTo(buf)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing field(s) %s: %w",
			t.Tag, strings.Join(missing, ", "), ErrNotFound)
	}
	return buf, nil
}

// Fields returns the qualified tags of all fields.  Fields visited by the
// description come first, in description order, followed by the
// remaining fields in alphabetical order.
func (t *TRE) Fields() []string {
	seen := make(map[string]bool, len(t.fields))
	var res []string
	c := Begin(t.info.Description, t)
	for {
		if c.Next() != nil || c.IsDone() {
			break
		}
		if _, ok := t.fields[c.Tag]; ok && !seen[c.Tag] {
			seen[c.Tag] = true
			res = append(res, c.Tag)
		}
	}
	if len(seen) < len(t.fields) {
		rest := maps.Keys(t.fields)
		slices.Sort(rest)
		for _, tag := range rest {
			if !seen[tag] {
				res = append(res, tag)
			}
		}
	}
	return res
}

// Clone returns a deep copy of the TRE.  The description is shared.
func (t *TRE) Clone() *TRE {
	fields := make(map[string]*field.Field, len(t.fields))
	for tag, f := range t.fields {
		fields[tag] = f.Clone()
	}
	return &TRE{
		Tag:     t.Tag,
		Length:  t.Length,
		info:    t.info,
		handler: t.handler,
		fields:  fields,
	}
}

// Print writes one line per field, in description order, of the form
// "label (TAG[i]) = [value]".
func (t *TRE) Print(w io.Writer) error {
	c := Begin(t.info.Description, t)
	for {
		if err := c.Next(); err != nil {
			return fmt.Errorf("%s: %w", t.Tag, err)
		}
		if c.IsDone() {
			return nil
		}
		f, ok := t.fields[c.Tag]
		if !ok {
			continue
		}
		_, err := fmt.Fprintf(w, "%s (%s) = [%s]\n", c.Entry.Label, c.Tag, FormatValue(f))
		if err != nil {
			return err
		}
	}
}

// FormatValue returns a printable representation of a field value.
// Short binary fields are shown in hexadecimal.
func FormatValue(f *field.Field) string {
	if f.Kind() != field.Binary {
		return f.String()
	}
	if f.Len() <= 8 {
		return fmt.Sprintf("0x%x", f.AppendTo(nil))
	}
	return fmt.Sprintf("<%d bytes>", f.Len())
}

// IsNotFound reports whether err indicates a missing field.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
