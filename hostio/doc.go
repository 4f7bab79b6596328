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

// Package hostio implements the KXN host-I/O dispatcher: the single
// point through which opcode OP_IO reaches stdout, a framebuffer, and
// keyboard/mouse input.
//
// The dispatcher itself (State.Dispatch) is backend-agnostic: it only
// knows how to pop/push bytes on the engine's operand stack and how to
// turn DRAW_* operations into Framebuffer.Set calls. Concrete backends
// (Console, Display) decide where characters and pixels actually end up.
// Three are provided:
//
//   - Stdio: characters and keys only, for programs without graphics
//     (PRINT_CHAR, READ_CHAR, POLL_KEY, GET_KEY; the framebuffer is
//     never presented). Uses raw terminal mode via
//     github.com/pkg/term/termios so READ_CHAR sees unbuffered,
//     unechoed keystrokes.
//   - Headless: an in-memory stand-in with no real terminal or window,
//     for tests and for scripted key/mouse injection.
//   - Termbox: a full framebuffer/keyboard/mouse backend built on
//     github.com/nsf/termbox-go, rendering the 320x240 greyscale
//     framebuffer as a shaded character grid.
package hostio
