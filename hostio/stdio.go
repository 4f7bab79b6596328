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
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// stdoutConsole adapts a buffered stdout writer to the Console
// interface: os.Stdout wrapped in a bufio.Writer, flushed on demand so
// PRINT_CHAR doesn't pay a syscall per byte.
type stdoutConsole struct {
	w *bufio.Writer
}

func (c *stdoutConsole) WriteByte(b byte) error {
	return c.w.WriteByte(b)
}

func (c *stdoutConsole) Flush() error {
	return c.w.Flush()
}

// StdioHost is a console-only vm.Host: PRINT_CHAR/READ_CHAR work against
// the real terminal (optionally in raw mode, see setRawIO in
// term_*.go), while every framebuffer/mouse op is accepted and quietly
// discarded. Its event pump is a background goroutine that blocking-reads
// stdin one byte at a time and feeds a channel; Pump drains that channel
// without blocking, so a stalled read never stalls the engine loop.
type StdioHost struct {
	*State
	keys     chan byte
	teardown func()
}

// NewStdioHost builds a StdioHost writing to stdout and reading from
// stdin. If raw is true, stdin is switched to raw terminal mode (no
// line buffering, no echo) so READ_CHAR/POLL_KEY see individual
// keystrokes; the returned Close method restores the previous mode.
func NewStdioHost(raw bool) (*StdioHost, error) {
	h := &StdioHost{
		State: NewState(&stdoutConsole{w: bufio.NewWriter(os.Stdout)}, nil),
		keys:  make(chan byte, 16),
	}
	if raw {
		teardown, err := setRawIO()
		if err != nil {
			return nil, errors.Wrap(err, "NewStdioHost")
		}
		h.teardown = teardown
	}
	go h.readKeys()
	return h, nil
}

func (h *StdioHost) readKeys() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			h.keys <- buf[0]
		}
		if err != nil {
			close(h.keys)
			return
		}
	}
}

// Pump implements vm.Host. It never requests shutdown on its own; stdin
// EOF simply stops producing keys.
func (h *StdioHost) Pump() bool {
	select {
	case c, ok := <-h.keys:
		if ok {
			h.SetKey(c)
		}
	default:
	}
	return true
}

// Close restores the terminal mode if raw IO was enabled.
func (h *StdioHost) Close() {
	if h.teardown != nil {
		h.teardown()
	}
}
