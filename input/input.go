// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package input defines the controller state shared between the host front-end
// and the device under test.
package input

import (
	"strings"

	"github.com/pkg/errors"
)

// Buttons is a set of controller flags. Its byte value is what gets sent over
// the serial line, one flag per bit.
type Buttons uint8

// Controller flags.
const (
	Up Buttons = 1 << iota
	Down
	Left
	Right
	Action
)

var names = [...]struct {
	name string
	b    Buttons
}{
	{"up", Up},
	{"down", Down},
	{"left", Left},
	{"right", Right},
	{"action", Action},
}

// Byte returns the event byte for b.
func (b Buttons) Byte() byte { return byte(b) }

// Has returns true if all flags in f are set in b.
func (b Buttons) Has(f Buttons) bool { return b&f == f }

// With returns b with flags f set or cleared.
func (b Buttons) With(f Buttons, pressed bool) Buttons {
	if pressed {
		return b | f
	}
	return b &^ f
}

// String returns the pressed buttons as a comma separated list.
func (b Buttons) String() string {
	var s strings.Builder
	for _, n := range names {
		if b&n.b == 0 {
			continue
		}
		if s.Len() > 0 {
			s.WriteByte(',')
		}
		s.WriteString(n.name)
	}
	if s.Len() == 0 {
		return "none"
	}
	return s.String()
}

// Parse returns the flag for the given button name. "bomb" is an alias for
// "action".
func Parse(name string) (Buttons, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "bomb" {
		return Action, nil
	}
	for _, n := range names {
		if n.name == name {
			return n.b, nil
		}
	}
	return 0, errors.Errorf("unknown button %q", name)
}
