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
	"strconv"
	"strings"

	"seehuhn.de/go/nitf/field"
)

// FieldSource gives a Cursor access to the fields resolved so far.
type FieldSource interface {
	Lookup(tag string) (*field.Field, bool)
}

// State is the position of a Cursor relative to the entry it last
// processed.
type State int

// These are the states of a Cursor.
const (
	BeforeStart State = iota
	AtField
	AtLoopOpen
	AtLoopClose
	AtIfOpen
	AtIfClose
	Done
)

func (s State) String() string {
	switch s {
	case BeforeStart:
		return "BeforeStart"
	case AtField:
		return "AtField"
	case AtLoopOpen:
		return "AtLoopOpen"
	case AtLoopClose:
		return "AtLoopClose"
	case AtIfOpen:
		return "AtIfOpen"
	case AtIfClose:
		return "AtIfClose"
	case Done:
		return "Done"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// maxLoopDepth bounds the nesting of loops in a description.
const maxLoopDepth = 10

type loopFrame struct {
	remaining int // iterations left, including the current one
	start     int // index of the Loop entry
	idx       int // current iteration, starting at 0
}

// Cursor walks a Description, expanding loops and conditionals against
// the values in a FieldSource.
//
// After each call to Next, the cursor either is Done or describes one
// field: Tag is the qualified tag, Length the number of bytes (or Gobble)
// and Entry the description entry.
type Cursor struct {
	desc  Description
	src   FieldSource
	index int
	loops []loopFrame
	state State

	// Tag is the qualified tag of the current field, for example
	// "LAT[0][3]".
	Tag string

	// Length is the resolved length of the current field.  Fields
	// whose conditional length evaluates to zero are never reported
	// by Next.
	Length int

	// Entry is the description entry which was processed last.
	Entry *Entry
}

// Begin returns a cursor positioned before the first entry of desc.
func Begin(desc Description, src FieldSource) *Cursor {
	return &Cursor{
		desc:  desc,
		src:   src,
		index: -1,
		state: BeforeStart,
	}
}

// State returns the current state of the cursor.
func (c *Cursor) State() State {
	return c.state
}

// IsDone reports whether the cursor has reached the end of the description.
func (c *Cursor) IsDone() bool {
	return c.state == Done
}

// Depth returns the number of loops the cursor is currently inside.
func (c *Cursor) Depth() int {
	return len(c.loops)
}

// Next advances the cursor to the next field which occupies bytes,
// or to the end of the description.
func (c *Cursor) Next() error {
	for {
		err := c.Step()
		if err != nil {
			return err
		}
		if c.state == Done || (c.state == AtField && c.Length != 0) {
			return nil
		}
	}
}

// Step processes exactly one entry of the description.  Control entries
// are reported through the cursor state.  A field entry whose
// conditional length evaluates to zero leaves the cursor in state
// AtField with Length 0.
func (c *Cursor) Step() error {
	if c.state == Done {
		return nil
	}
	for {
		c.index++
		if c.index >= len(c.desc) {
			c.state = Done
			c.Entry = nil
			return nil
		}
		e := &c.desc[c.index]
		c.Entry = e

		switch e.Type {
		case BCSA, BCSN, Binary:
			c.Tag = e.Tag + c.suffix(len(c.loops))
			if e.Length == ConditionalLength {
				n := 0
				if e.Special != "" {
					var err error
					n, err = c.evalPostfix(e.Special)
					if err != nil {
						return err
					}
				}
				c.Length = n
			} else {
				c.Length = e.Length
			}
			c.state = AtField
			return nil

		case Loop:
			count, err := c.evalLoopCount(e)
			if err != nil {
				return err
			}
			if count > 0 {
				if len(c.loops) >= maxLoopDepth {
					return &DescriptionError{Index: c.index, Msg: "loops nested too deeply"}
				}
				c.loops = append(c.loops, loopFrame{
					remaining: count,
					start:     c.index,
				})
			} else if err := c.skip(Loop, EndLoop); err != nil {
				return err
			}
			c.state = AtLoopOpen
			return nil

		case EndLoop:
			if len(c.loops) == 0 {
				return &DescriptionError{Index: c.index, Msg: "unmatched ENDLOOP"}
			}
			top := &c.loops[len(c.loops)-1]
			top.remaining--
			if top.remaining > 0 {
				top.idx++
				c.index = top.start
			} else {
				c.loops = c.loops[:len(c.loops)-1]
			}
			c.state = AtLoopClose
			return nil

		case If:
			ok, err := c.evalIf(e)
			if err != nil {
				return err
			}
			if !ok {
				if err := c.skip(If, EndIf); err != nil {
					return err
				}
			}
			c.state = AtIfOpen
			return nil

		case EndIf:
			c.state = AtIfClose
			return nil

		case CompLen:
			continue

		case End:
			c.state = Done
			return nil

		default:
			return &DescriptionError{Index: c.index, Msg: "unhandled data type " + e.Type.String()}
		}
	}
}

// skip moves the cursor to the entry closing the block which starts at
// the current entry.
func (c *Cursor) skip(open, close DataType) error {
	start := c.index
	depth := 1
	for depth > 0 {
		c.index++
		if c.index >= len(c.desc) {
			return &DescriptionError{Index: start, Msg: "unterminated " + open.String()}
		}
		switch c.desc[c.index].Type {
		case open:
			depth++
		case close:
			depth--
		}
	}
	c.Entry = &c.desc[c.index]
	return nil
}

// suffix returns the bracketed indices of the outermost n loops.
func (c *Cursor) suffix(n int) string {
	if n == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range c.loops[:n] {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(l.idx))
		b.WriteByte(']')
	}
	return b.String()
}

// lookup finds the field referenced by tag from the current position.
//
// A tag containing brackets is completed with the indices of the
// enclosing loops, one per bracket.  Otherwise the unqualified tag is
// tried first, followed by tags qualified with more and more loop
// indices.
func (c *Cursor) lookup(tag string) (*field.Field, bool) {
	if i := strings.IndexByte(tag, '['); i >= 0 {
		n := min(strings.Count(tag[i:], "["), len(c.loops))
		return c.src.Lookup(tag[:i] + c.suffix(n))
	}
	if f, ok := c.src.Lookup(tag); ok {
		return f, true
	}
	for n := 1; n <= len(c.loops); n++ {
		if f, ok := c.src.Lookup(tag + c.suffix(n)); ok {
			return f, true
		}
	}
	return nil, false
}

// Indices returns the iteration indices of the enclosing loops, outermost
// first.
func (c *Cursor) Indices() []int {
	res := make([]int, len(c.loops))
	for i, l := range c.loops {
		res[i] = l.idx
	}
	return res
}
