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

package vm

// Host is the narrow capability set the engine needs from whatever
// backend implements opcode OP_IO. The engine never stores a Host
// beyond the call to Run/Step;
// implementations own no lifetime-bound reference back to the Machine
// that calls them.
type Host interface {
	// Pump gives the host a chance to process its own events (window
	// messages, keyboard/mouse latches) before the next fetch. It
	// returns false to request a clean shutdown, at which point the
	// engine clears its running flag and stops at the next iteration
	// boundary without setting a Fault.
	Pump() bool

	// Waiting reports whether the host is mid blocking-read. While
	// true, the engine skips instruction fetch entirely.
	Waiting() bool

	// Dispatch handles IO op against m's operand stack. A non-nil
	// error is surfaced to the engine as a HostIO fault, except for
	// op 0x00 (EXIT) which the engine treats as a clean Halt
	// regardless of the returned error.
	Dispatch(m *Machine, op byte) error
}
