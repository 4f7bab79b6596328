// This file is part of KXN.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hostio

import (
	"github.com/ked1108/KXN/vm"
	"github.com/pkg/errors"
)

// Console is the minimal sink PRINT_CHAR writes to.
type Console interface {
	WriteByte(c byte) error
	Flush() error
}

// Display receives the framebuffer only on REFRESH: the framebuffer is
// private to the dispatcher until REFRESH flushes it to the display
// surface.
type Display interface {
	Present(fb *Framebuffer) error
}

// State holds the full host-I/O context: the framebuffer, the latched
// key and its availability, mouse position and buttons, and the
// waiting-for-input flag. It implements the dispatch half of vm.Host;
// backends embed it and add their own Pump.
type State struct {
	console Console
	display Display

	fb Framebuffer

	keyByte  byte
	keyAvail bool

	mouseX, mouseY uint16
	mouseButtons   byte
	mouseEvent     bool

	waitingForInput bool
	exited          bool
}

// NewState builds a State writing characters to console and presenting
// frames through display. Either may be nil to silently discard that
// half of the protocol (a console-only backend can pass a nil Display).
func NewState(console Console, display Display) *State {
	return &State{console: console, display: display}
}

// Exited reports whether the image executed IO op 0x00 (EXIT).
func (s *State) Exited() bool {
	return s.exited
}

// Framebuffer exposes the live framebuffer, mainly so tests and
// alternate backends can inspect pixels without going through Display.
func (s *State) Framebuffer() *Framebuffer {
	return &s.fb
}

// SetKey latches a key press for POLL_KEY/GET_KEY and clears the
// waiting-for-input condition observed by vm.Host.Waiting. Backends call
// this from their event pump when they observe a keystroke.
func (s *State) SetKey(c byte) {
	s.keyByte = c
	s.keyAvail = true
}

// SetMouse latches a mouse position/button update for
// POLL_MOUSE/GET_MOUSE_*. Backends call this from their event pump.
func (s *State) SetMouse(x, y int, buttons byte) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	s.mouseX, s.mouseY = uint16(x), uint16(y)
	s.mouseButtons = buttons
	s.mouseEvent = true
}

// Waiting implements vm.Host. The engine skips instruction fetch only
// while genuinely blocked on READ_CHAR: once a key is latched, Waiting
// returns false so the next Step re-enters and completes the rewound IO
// instruction.
func (s *State) Waiting() bool {
	return s.waitingForInput && !s.keyAvail
}

func grey(c byte) byte { return c }

// Dispatch implements vm.Host's IO half: the full OP_IO operation table.
func (s *State) Dispatch(m *vm.Machine, op byte) error {
	switch op {
	case 0x00: // EXIT
		s.exited = true
		return nil

	case 0x01: // PRINT_CHAR
		c, ok := pop(m)
		if !ok {
			return errors.New("PRINT_CHAR: stack underflow")
		}
		if s.console == nil {
			return nil
		}
		if err := s.console.WriteByte(c); err != nil {
			return errors.Wrap(err, "PRINT_CHAR")
		}
		return errors.Wrap(s.console.Flush(), "PRINT_CHAR")

	case 0x02: // READ_CHAR
		if !s.waitingForInput {
			if s.keyAvail {
				m.Push(s.keyByte)
				s.keyAvail = false
				return nil
			}
			s.waitingForInput = true
			m.PC -= 2 // re-enter this IO instruction next Step
			return nil
		}
		if !s.keyAvail {
			// still blocked; rewind again so we re-enter on the next Step
			m.PC -= 2
			return nil
		}
		m.Push(s.keyByte)
		s.keyAvail = false
		s.waitingForInput = false
		return nil

	case 0x10: // DRAW_PIXEL
		color, y, x, ok := pop3(m)
		if !ok {
			return errors.New("DRAW_PIXEL: stack underflow")
		}
		s.fb.Set(int(x), int(y), grey(color))
		return nil

	case 0x11: // DRAW_LINE
		color, y2, x2, y1, x1, ok := pop5(m)
		if !ok {
			return errors.New("DRAW_LINE: stack underflow")
		}
		s.fb.drawLine(int(x1), int(y1), int(x2), int(y2), grey(color))
		return nil

	case 0x12: // FILL_RECT
		color, h, w, y, x, ok := pop5(m)
		if !ok {
			return errors.New("FILL_RECT: stack underflow")
		}
		s.fb.fillRect(int(x), int(y), int(w), int(h), grey(color))
		return nil

	case 0x13: // REFRESH
		if s.display == nil {
			return nil
		}
		return errors.Wrap(s.display.Present(&s.fb), "REFRESH")

	case 0x20: // POLL_KEY
		if s.keyAvail {
			m.Push(1)
		} else {
			m.Push(0)
		}
		return nil

	case 0x21: // GET_KEY
		m.Push(s.keyByte)
		s.keyAvail = false
		return nil

	case 0x22: // POLL_MOUSE
		if s.mouseEvent {
			m.Push(1)
		} else {
			m.Push(0)
		}
		return nil

	case 0x23: // GET_MOUSE_X
		m.Push(byte(s.mouseX))
		m.Push(byte(s.mouseX >> 8))
		return nil

	case 0x24: // GET_MOUSE_Y
		m.Push(byte(s.mouseY))
		m.Push(byte(s.mouseY >> 8))
		return nil

	case 0x25: // GET_MOUSE_B
		m.Push(s.mouseButtons)
		s.mouseEvent = false
		return nil

	default:
		return errors.Errorf("unknown IO operation 0x%02X", op)
	}
}

func pop(m *vm.Machine) (byte, bool) {
	return m.Pop()
}

func pop3(m *vm.Machine) (a, b, c byte, ok bool) {
	if a, ok = m.Pop(); !ok {
		return
	}
	if b, ok = m.Pop(); !ok {
		return
	}
	c, ok = m.Pop()
	return
}

func pop5(m *vm.Machine) (a, b, c, d, e byte, ok bool) {
	if a, ok = m.Pop(); !ok {
		return
	}
	if b, ok = m.Pop(); !ok {
		return
	}
	if c, ok = m.Pop(); !ok {
		return
	}
	if d, ok = m.Pop(); !ok {
		return
	}
	e, ok = m.Pop()
	return
}
