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

import "bytes"

// Headless is a vm.Host with no real terminal or window: PRINT_CHAR
// writes accumulate in an in-memory buffer, REFRESH is a no-op beyond
// recording that it happened, and tests drive keyboard/mouse input by
// calling SetKey/SetMouse directly. It is the reference implementation
// the dispatcher's own tests (and the engine's IO property tests) run
// against.
type Headless struct {
	*State
	out       bytes.Buffer
	shutdown  bool
	refreshes int
}

type headlessConsole struct {
	buf *bytes.Buffer
}

func (c *headlessConsole) WriteByte(b byte) error {
	return c.buf.WriteByte(b)
}

func (c *headlessConsole) Flush() error { return nil }

type headlessDisplay struct {
	h *Headless
}

func (d *headlessDisplay) Present(fb *Framebuffer) error {
	d.h.refreshes++
	return nil
}

// NewHeadless builds a Headless host with an empty console buffer and
// no queued shutdown.
func NewHeadless() *Headless {
	h := &Headless{}
	h.State = NewState(&headlessConsole{buf: &h.out}, &headlessDisplay{h: h})
	return h
}

// Output returns everything PRINT_CHAR has written so far.
func (h *Headless) Output() []byte {
	return h.out.Bytes()
}

// Refreshes returns how many times REFRESH has run.
func (h *Headless) Refreshes() int {
	return h.refreshes
}

// RequestShutdown makes the next Pump call return false, exercising the
// host-initiated shutdown path.
func (h *Headless) RequestShutdown() {
	h.shutdown = true
}

// Pump implements vm.Host. Headless has no real event source, so it
// only reports the shutdown a test requested.
func (h *Headless) Pump() bool {
	return !h.shutdown
}
