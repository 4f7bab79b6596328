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

// This file implements the fetch/decode/dispatch loop.
//
// Binary ALU ops pop the top of the stack first. For "PUSH 5; PUSH 0;
// DIV" to fault on a zero divisor, the value popped first must be the
// right-hand operand. We apply that convention uniformly: for any
// binary op "a OP b", b is popped first (it was pushed last) and a is
// popped second.

func (m *Machine) binaryOperands() (a, b byte, ok bool) {
	b, ok = m.Pop()
	if !ok {
		return 0, 0, false
	}
	a, ok = m.Pop()
	return a, b, ok
}

func (m *Machine) pushCompare(cond bool) {
	if cond {
		m.Push(1)
	} else {
		m.Push(0)
	}
}

// Step advances the Machine by exactly one instruction and returns the
// resulting Fault.
func (m *Machine) Step(host Host) Fault {
	if !host.Pump() {
		m.Running = false
		return m.Fault
	}
	if host.Waiting() {
		return m.Fault
	}

	op := Opcode(m.Memory[m.PC])
	m.PC++

	switch op {
	case OpNop:
		// no-op

	case OpHalt:
		m.setFault(Halt)

	case OpPush:
		v := m.Memory[m.PC]
		m.PC++
		m.Push(v)

	case OpPop:
		m.Pop()

	case OpDup:
		if v, ok := m.Peek(); ok {
			m.Push(v)
		} else {
			m.setFault(StackUnderflow)
		}

	case OpSwap:
		b, ok := m.Pop()
		if !ok {
			break
		}
		a, ok := m.Pop()
		if !ok {
			break
		}
		m.Push(b)
		m.Push(a)

	case OpAdd:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a + b)
		}
	case OpSub:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a - b)
		}
	case OpMul:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a * b)
		}
	case OpDiv:
		if a, b, ok := m.binaryOperands(); ok {
			if b == 0 {
				m.setFault(DivisionByZero)
				break
			}
			m.Push(a / b)
		}
	case OpMod:
		if a, b, ok := m.binaryOperands(); ok {
			if b == 0 {
				m.setFault(DivisionByZero)
				break
			}
			m.Push(a % b)
		}
	case OpNeg:
		if a, ok := m.Pop(); ok {
			m.Push(0 - a)
		}

	case OpAnd:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a & b)
		}
	case OpOr:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a | b)
		}
	case OpXor:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a ^ b)
		}
	case OpNot:
		if a, ok := m.Pop(); ok {
			m.Push(^a)
		}
	case OpShl:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a << b)
		}
	case OpShr:
		if a, b, ok := m.binaryOperands(); ok {
			m.Push(a >> b)
		}
	case OpEq:
		if a, b, ok := m.binaryOperands(); ok {
			m.pushCompare(a == b)
		}
	case OpNeq:
		if a, b, ok := m.binaryOperands(); ok {
			m.pushCompare(a != b)
		}
	case OpGt:
		if a, b, ok := m.binaryOperands(); ok {
			m.pushCompare(a > b)
		}
	case OpLt:
		if a, b, ok := m.binaryOperands(); ok {
			m.pushCompare(a < b)
		}
	case OpGte:
		if a, b, ok := m.binaryOperands(); ok {
			m.pushCompare(a >= b)
		}
	case OpLte:
		if a, b, ok := m.binaryOperands(); ok {
			m.pushCompare(a <= b)
		}

	case OpLoad:
		addr, ok := m.ReadWord(m.PC)
		if !ok {
			break
		}
		m.PC += 2
		m.Push(m.Memory[addr])

	case OpStore:
		addr, ok := m.ReadWord(m.PC)
		if !ok {
			break
		}
		m.PC += 2
		if v, ok := m.Pop(); ok {
			m.Memory[addr] = v
		}

	case OpLoadInd:
		lo, ok := m.Pop()
		if !ok {
			break
		}
		hi, ok := m.Pop()
		if !ok {
			break
		}
		addr := uint16(lo) | uint16(hi)<<8
		m.Push(m.Memory[addr])

	case OpStoreInd:
		lo, ok := m.Pop()
		if !ok {
			break
		}
		hi, ok := m.Pop()
		if !ok {
			break
		}
		v, ok := m.Pop()
		if !ok {
			break
		}
		addr := uint16(lo) | uint16(hi)<<8
		m.Memory[addr] = v

	case OpJmp:
		addr, ok := m.ReadWord(m.PC)
		if !ok {
			break
		}
		m.PC = addr

	case OpJz:
		addr, ok := m.ReadWord(m.PC)
		if !ok {
			break
		}
		m.PC += 2
		if v, ok := m.Pop(); ok && v == 0 {
			m.PC = addr
		}

	case OpJnz:
		addr, ok := m.ReadWord(m.PC)
		if !ok {
			break
		}
		m.PC += 2
		if v, ok := m.Pop(); ok && v != 0 {
			m.PC = addr
		}

	case OpCall:
		addr, ok := m.ReadWord(m.PC)
		if !ok {
			break
		}
		m.PC += 2
		ret := m.PC
		if !m.Push(byte(ret)) {
			break
		}
		m.Push(byte(ret >> 8))
		m.PC = addr

	case OpRet:
		hi, ok := m.Pop()
		if !ok {
			break
		}
		lo, ok := m.Pop()
		if !ok {
			break
		}
		m.PC = uint16(lo) | uint16(hi)<<8

	case OpIO:
		ioOp := m.Memory[m.PC]
		m.PC++
		err := host.Dispatch(m, ioOp)
		if ioOp == 0x00 {
			m.setFault(Halt)
			break
		}
		if err != nil {
			m.setFault(HostIO)
		}

	default:
		m.setFault(InvalidOpcode)
	}

	m.insCount++
	return m.Fault
}

// Run calls Step until the Machine stops running or Fault is neither OK
// nor Halt.
func (m *Machine) Run(host Host) Fault {
	for m.Running {
		m.Step(host)
	}
	return m.Fault
}
