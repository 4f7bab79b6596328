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

import "github.com/pkg/errors"

// Fault is the engine's error taxonomy. The zero value, OK, is not a
// fault: it means the instruction completed normally.
type Fault int

// Fault kinds. OK and Halt are not failures (Fault.Error still renders
// them, for diagnostics); every kind from StackOverflow through HostIO,
// inclusive, is one, and Fault.IsError reports true for exactly those.
// Halt and every failure kind stop Machine.Run.
const (
	OK Fault = iota
	Halt
	StackOverflow
	StackUnderflow
	InvalidOpcode
	DivisionByZero
	InvalidAddress
	HostIO
)

var faultNames = map[Fault]string{
	OK:             "OK",
	Halt:           "HALT",
	StackOverflow:  "STACK_OVERFLOW",
	StackUnderflow: "STACK_UNDERFLOW",
	InvalidOpcode:  "INVALID_OPCODE",
	DivisionByZero: "DIVISION_BY_ZERO",
	InvalidAddress: "INVALID_ADDRESS",
	HostIO:         "HOST_IO",
}

// String renders the fault's symbolic name, e.g. "STACK_OVERFLOW".
func (f Fault) String() string {
	if n, ok := faultNames[f]; ok {
		return n
	}
	return "UNKNOWN_FAULT"
}

// Error implements the error interface so a Fault can be returned and
// wrapped like any other error. Halt and OK are valid receivers; callers
// that only want genuine failures should check Fault.IsError first.
func (f Fault) Error() string {
	return f.String()
}

// IsError reports whether f represents an actual failure, as opposed to
// OK or the clean-termination Halt condition.
func (f Fault) IsError() bool {
	return f != OK && f != Halt
}

// FaultFromError unwraps err (which may have been produced by
// errors.Wrap) down to the underlying Fault, if any.
func FaultFromError(err error) (Fault, bool) {
	f, ok := errors.Cause(err).(Fault)
	return f, ok
}
