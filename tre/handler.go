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
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

// Handler knows how to construct and decode one kind of TRE.
type Handler interface {
	// Init prepares an empty TRE for population.  The id selects one of
	// several layouts by name; the empty string selects the default.
	Init(t *TRE, id string) error

	// Read decodes data into t.
	Read(t *TRE, data []byte) error
}

var registry = struct {
	sync.RWMutex
	handlers map[string]Handler
}{
	handlers: make(map[string]Handler),
}

// Register installs the handler for a TRE tag, replacing any previously
// registered handler.  Registration is safe for concurrent use, but
// handlers should be registered before files are read.
func Register(tag string, h Handler) {
	registry.Lock()
	defer registry.Unlock()
	registry.handlers[tag] = h
}

// Lookup returns the handler registered for a tag.
func Lookup(tag string) (Handler, bool) {
	registry.RLock()
	defer registry.RUnlock()
	h, ok := registry.handlers[tag]
	return h, ok
}

// Tags returns the registered TRE tags in alphabetical order.
func Tags() []string {
	registry.RLock()
	tags := maps.Keys(registry.handlers)
	registry.RUnlock()
	slices.Sort(tags)
	return tags
}

// DescriptionHandler is the Handler for TREs whose layout is fully given
// by one or more descriptions.
type DescriptionHandler struct {
	Alternatives []*DescriptionInfo
}

// NewDescriptionHandler returns a handler for the given layouts.
// The first layout is the default.  NewDescriptionHandler panics if one
// of the descriptions is malformed.
func NewDescriptionHandler(alternatives ...*DescriptionInfo) *DescriptionHandler {
	for _, info := range alternatives {
		if err := info.Description.Validate(); err != nil {
			panic(fmt.Sprintf("%s: %v", info.Name, err))
		}
	}
	return &DescriptionHandler{Alternatives: alternatives}
}

// Init implements the Handler interface.
func (h *DescriptionHandler) Init(t *TRE, id string) error {
	info, err := h.find(id)
	if err != nil {
		return err
	}
	t.info = info
	if info.Length != DefaultLength {
		t.Length = info.Length
	}
	return t.Fill()
}

func (h *DescriptionHandler) find(id string) (*DescriptionInfo, error) {
	if len(h.Alternatives) == 0 {
		return nil, errNoDescription
	}
	if id == "" {
		return h.Alternatives[0], nil
	}
	for _, info := range h.Alternatives {
		if info.Name == id {
			return info, nil
		}
	}
	return nil, fmt.Errorf("unknown description %q", id)
}

// Read implements the Handler interface.  Layouts whose length matches
// len(data) are tried first, followed by the remaining layouts in order.
// The first layout which consumes exactly all of data is used.
func (h *DescriptionHandler) Read(t *TRE, data []byte) error {
	var firstErr error
	try := func(info *DescriptionInfo) bool {
		err := t.decode(info, data)
		if err == nil {
			return true
		}
		if firstErr == nil {
			firstErr = err
		}
		return false
	}
	for _, info := range h.Alternatives {
		if info.Length == len(data) && try(info) {
			return nil
		}
	}
	for _, info := range h.Alternatives {
		if info.Length != len(data) && try(info) {
			return nil
		}
	}
	if firstErr == nil {
		firstErr = &ParseError{
			Tag: t.Tag,
			Err: errNoDescription,
		}
	}
	return firstErr
}

var errNoDescription = errors.New("no description available")
