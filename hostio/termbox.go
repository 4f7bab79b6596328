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
	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
)

// shadeRamp buckets an 8-bit greyscale value into a character used to
// approximate pixel brightness on a text terminal.
const shadeRamp = " .:-=+*#%@"

func shadeChar(grey byte) rune {
	idx := int(grey) * (len(shadeRamp) - 1) / 255
	return rune(shadeRamp[idx])
}

func shadeColor(grey byte) termbox.Attribute {
	switch {
	case grey < 32:
		return termbox.ColorBlack
	case grey < 96:
		return termbox.ColorDefault
	case grey < 160:
		return termbox.ColorWhite
	default:
		return termbox.ColorWhite | termbox.AttrBold
	}
}

// TermboxHost is a full vm.Host backed by github.com/nsf/termbox-go: it
// renders DRAW_PIXEL/DRAW_LINE/FILL_RECT/REFRESH as a shaded character
// grid and feeds real keyboard/mouse events back through
// POLL_KEY/POLL_MOUSE.
type TermboxHost struct {
	*State
	events   chan termbox.Event
	shutdown bool
}

// NewTermboxHost initializes termbox and returns a ready-to-run host.
// Callers must call Close when done.
func NewTermboxHost() (*TermboxHost, error) {
	if err := termbox.Init(); err != nil {
		return nil, errors.Wrap(err, "termbox.Init")
	}
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	h := &TermboxHost{events: make(chan termbox.Event, 32)}
	h.State = NewState(nil, h)
	go h.poll()
	return h, nil
}

func (h *TermboxHost) poll() {
	for {
		ev := termbox.PollEvent()
		h.events <- ev
		if ev.Type == termbox.EventInterrupt {
			return
		}
	}
}

// Close tears down the termbox session.
func (h *TermboxHost) Close() {
	h.shutdown = true
	termbox.Interrupt()
	termbox.Close()
}

func (h *TermboxHost) scale() (sx, sy float64) {
	w, ht := termbox.Size()
	if w <= 0 {
		w = 1
	}
	if ht <= 0 {
		ht = 1
	}
	return float64(Width) / float64(w), float64(Height) / float64(ht)
}

// Pump implements vm.Host, draining termbox's event queue without
// blocking and translating keyboard/mouse events into State latches.
func (h *TermboxHost) Pump() bool {
	for {
		select {
		case ev := <-h.events:
			h.handleEvent(ev)
		default:
			return !h.shutdown
		}
	}
}

func (h *TermboxHost) handleEvent(ev termbox.Event) {
	switch ev.Type {
	case termbox.EventKey:
		if ev.Key == termbox.KeyCtrlC {
			h.shutdown = true
			return
		}
		h.SetKey(keyByte(ev))
	case termbox.EventMouse:
		sx, sy := h.scale()
		x := int(float64(ev.MouseX) * sx)
		y := int(float64(ev.MouseY) * sy)
		h.SetMouse(x, y, mouseButtons(ev))
	case termbox.EventResize:
		// next Present recomputes scale from termbox.Size
	}
}

func keyByte(ev termbox.Event) byte {
	if ev.Ch != 0 {
		return byte(ev.Ch)
	}
	switch ev.Key {
	case termbox.KeyEnter:
		return '\r'
	case termbox.KeyTab:
		return '\t'
	case termbox.KeySpace:
		return ' '
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return 8
	case termbox.KeyEsc:
		return 27
	default:
		return byte(ev.Key)
	}
}

func mouseButtons(ev termbox.Event) byte {
	switch ev.Key {
	case termbox.MouseLeft:
		return 1
	case termbox.MouseRight:
		return 2
	case termbox.MouseMiddle:
		return 4
	default:
		return 0
	}
}

// Present implements Display: it paints the framebuffer to the
// terminal, scaling the logical 320x240 grid down to the current
// window size, then flushes.
func (h *TermboxHost) Present(fb *Framebuffer) error {
	w, ht := termbox.Size()
	sx, sy := h.scale()
	for row := 0; row < ht; row++ {
		for col := 0; col < w; col++ {
			px := int(float64(col) * sx)
			py := int(float64(row) * sy)
			g := fb.At(px, py)
			termbox.SetCell(col, row, shadeChar(g), shadeColor(g), termbox.ColorDefault)
		}
	}
	return termbox.Flush()
}
