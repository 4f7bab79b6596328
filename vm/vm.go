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

// MemSize is the fixed size of a KXN memory image.
const MemSize = 1 << 16

// stackTop is the address of SP when the operand stack is empty.
const stackTop = 0xFFFF

// Machine is a KXN virtual machine instance: a fixed 64 KiB memory image,
// a program counter, a stack pointer, a base pointer, a running flag and
// a last-fault slot.
//
// A Machine has no knowledge of any host-I/O backend at construction
// time; one is supplied per call to Run or Step.
type Machine struct {
	Memory [MemSize]byte

	PC uint16
	SP uint16
	BP uint16

	Running bool
	Fault   Fault

	insCount int64
}

// Option configures a Machine at construction time via the standard
// functional-options pattern.
type Option func(*Machine)

// New creates a Machine and loads image at address 0. image must be at
// most MemSize bytes; a longer image is an error.
func New(image []byte, opts ...Option) (*Machine, error) {
	if len(image) > MemSize {
		return nil, errors.Errorf("image too large: %d bytes, max %d", len(image), MemSize)
	}
	m := &Machine{}
	m.Init(image)
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Init resets the Machine to its power-on state and loads image at
// address 0. Memory beyond the image is zeroed.
func (m *Machine) Init(image []byte) {
	for i := range m.Memory {
		m.Memory[i] = 0
	}
	copy(m.Memory[:], image)
	m.PC = 0
	m.SP = stackTop
	m.BP = stackTop
	m.Running = true
	m.Fault = OK
	m.insCount = 0
}

// InstructionCount returns the number of instructions fetched and
// dispatched so far, including one that faulted.
func (m *Machine) InstructionCount() int64 {
	return m.insCount
}

// Push pushes v onto the operand stack. It sets StackOverflow and
// returns false without writing if the stack is already full.
func (m *Machine) Push(v byte) bool {
	if m.SP == 0 {
		m.setFault(StackOverflow)
		return false
	}
	m.SP--
	m.Memory[m.SP] = v
	return true
}

// Pop pops and returns the top of the operand stack. It sets
// StackUnderflow and returns (0, false) if the stack is empty.
func (m *Machine) Pop() (byte, bool) {
	if m.SP == stackTop {
		m.setFault(StackUnderflow)
		return 0, false
	}
	v := m.Memory[m.SP]
	m.SP++
	return v, true
}

// Peek returns the top of the operand stack without popping it.
func (m *Machine) Peek() (byte, bool) {
	if m.SP == stackTop {
		return 0, false
	}
	return m.Memory[m.SP], true
}

func (m *Machine) setFault(f Fault) {
	m.Fault = f
	m.Running = false
}

// ReadByte reads memory[addr], faulting with InvalidAddress if addr is
// out of range. Since addr is a uint16 it is always < MemSize; this
// exists for symmetry with ReadWord's bounds check.
func (m *Machine) ReadByte(addr uint16) byte {
	return m.Memory[addr]
}

// WriteByte writes v to memory[addr].
func (m *Machine) WriteByte(addr uint16, v byte) {
	m.Memory[addr] = v
}

// ReadWord reads the little-endian 16-bit word at addr and addr+1,
// faulting with InvalidAddress if addr+1 would overflow the image.
func (m *Machine) ReadWord(addr uint16) (uint16, bool) {
	if addr == MemSize-1 {
		m.setFault(InvalidAddress)
		return 0, false
	}
	lo := m.Memory[addr]
	hi := m.Memory[addr+1]
	return uint16(lo) | uint16(hi)<<8, true
}
