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

package vm_test

import (
	"testing"

	"github.com/ked1108/KXN/hostio"
	"github.com/ked1108/KXN/vm"
)

const emptyStackSP = 0xFFFF

type nullHost struct{}

func (nullHost) Pump() bool                            { return true }
func (nullHost) Waiting() bool                         { return false }
func (nullHost) Dispatch(m *vm.Machine, op byte) error { return nil }

func TestPushPopRoundTrip(t *testing.T) {
	m, err := vm.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Push(0x42) {
		t.Fatal("push failed on empty stack")
	}
	v, ok := m.Pop()
	if !ok || v != 0x42 {
		t.Fatalf("got (%v, %v), want (0x42, true)", v, ok)
	}
	if m.SP != emptyStackSP {
		t.Fatalf("SP = %#x after balanced push/pop, want %#x", m.SP, emptyStackSP)
	}
}

func TestPopEmptyUnderflows(t *testing.T) {
	m, _ := vm.New(nil)
	_, ok := m.Pop()
	if ok {
		t.Fatal("pop on empty stack should fail")
	}
	if m.Fault != vm.StackUnderflow {
		t.Fatalf("Fault = %v, want StackUnderflow", m.Fault)
	}
}

func TestPushFullOverflows(t *testing.T) {
	m, _ := vm.New(nil)
	m.SP = 0
	if m.Push(1) {
		t.Fatal("push with SP==0 should fail")
	}
	if m.Fault != vm.StackOverflow {
		t.Fatalf("Fault = %v, want StackOverflow", m.Fault)
	}
}

func TestSwapOrder(t *testing.T) {
	img := []byte{
		byte(vm.OpPush), 1,
		byte(vm.OpPush), 2,
		byte(vm.OpSwap),
		byte(vm.OpHalt),
	}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	top, _ := m.Pop()
	under, _ := m.Pop()
	if top != 1 || under != 2 {
		t.Fatalf("after SWAP got top=%d under=%d, want top=1 under=2", top, under)
	}
}

func TestDivByZeroFaults(t *testing.T) {
	img := []byte{
		byte(vm.OpPush), 5,
		byte(vm.OpPush), 0,
		byte(vm.OpDiv),
	}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	if m.Fault != vm.DivisionByZero {
		t.Fatalf("Fault = %v, want DivisionByZero", m.Fault)
	}
}

func TestModByZeroFaults(t *testing.T) {
	img := []byte{
		byte(vm.OpPush), 5,
		byte(vm.OpPush), 0,
		byte(vm.OpMod),
	}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	if m.Fault != vm.DivisionByZero {
		t.Fatalf("Fault = %v, want DivisionByZero", m.Fault)
	}
}

func TestSubUnsignedWraps(t *testing.T) {
	img := []byte{
		byte(vm.OpPush), 1,
		byte(vm.OpPush), 2,
		byte(vm.OpSub), // 1 - 2, wraps to 255
		byte(vm.OpHalt),
	}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	v, _ := m.Pop()
	if v != 255 {
		t.Fatalf("1-2 = %d, want 255 (unsigned wraparound)", v)
	}
}

func TestShiftByWideCountIsZero(t *testing.T) {
	img := []byte{
		byte(vm.OpPush), 0xFF,
		byte(vm.OpPush), 8,
		byte(vm.OpShl),
		byte(vm.OpHalt),
	}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	v, _ := m.Pop()
	if v != 0 {
		t.Fatalf("0xFF << 8 (8-bit) = %d, want 0", v)
	}
}

func TestCallRetRoundTrip(t *testing.T) {
	// main: CALL sub; HALT
	// sub (addr 5): RET
	img := []byte{
		byte(vm.OpCall), 5, 0,
		byte(vm.OpHalt),
		0, // padding to land sub at offset 5
		byte(vm.OpRet),
	}
	m, _ := vm.New(img)
	fault := m.Run(nullHost{})
	if fault != vm.Halt {
		t.Fatalf("Fault = %v, want Halt (CALL/RET should return to the HALT after CALL)", fault)
	}
}

func TestLoadStoreIndRoundTrip(t *testing.T) {
	// STORE_IND pops, in order: addr_lo, addr_hi, value.
	// LOAD_IND pops, in order: addr_lo, addr_hi; pushes memory[addr].
	addr := uint16(0x1234)
	img := []byte{
		byte(vm.OpPush), 0x55, // value
		byte(vm.OpPush), byte(addr >> 8), // addr hi
		byte(vm.OpPush), byte(addr), // addr lo
		byte(vm.OpStoreInd),
		byte(vm.OpPush), byte(addr >> 8),
		byte(vm.OpPush), byte(addr),
		byte(vm.OpLoadInd),
		byte(vm.OpHalt),
	}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	v, ok := m.Pop()
	if !ok || v != 0x55 {
		t.Fatalf("LOAD_IND after STORE_IND = (%v, %v), want (0x55, true)", v, ok)
	}
}

func TestJzBranchesOnZero(t *testing.T) {
	img := []byte{
		byte(vm.OpPush), 0,
		byte(vm.OpJz), 8, 0,
		byte(vm.OpPush), 0xAA, // skipped
		byte(vm.OpHalt),
		byte(vm.OpPush), 0xBB, // offset 8: branch target
		byte(vm.OpHalt),
	}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	v, _ := m.Pop()
	if v != 0xBB {
		t.Fatalf("JZ on zero top did not branch, got %#x", v)
	}
}

func TestInvalidOpcodeFaults(t *testing.T) {
	img := []byte{0xFE}
	m, _ := vm.New(img)
	m.Run(nullHost{})
	if m.Fault != vm.InvalidOpcode {
		t.Fatalf("Fault = %v, want InvalidOpcode", m.Fault)
	}
}

func TestReadWordStraddlesImageEnd(t *testing.T) {
	m, _ := vm.New(nil)
	m.PC = vm.MemSize - 1
	_, ok := m.ReadWord(m.PC)
	if ok {
		t.Fatal("ReadWord at the last byte of memory should fail")
	}
	if m.Fault != vm.InvalidAddress {
		t.Fatalf("Fault = %v, want InvalidAddress", m.Fault)
	}
}

func TestNewRejectsOversizedImage(t *testing.T) {
	_, err := vm.New(make([]byte, vm.MemSize+1))
	if err == nil {
		t.Fatal("New should reject an image larger than MemSize")
	}
}

func TestHostInitiatedShutdownStopsCleanly(t *testing.T) {
	h := hostio.NewHeadless()
	h.RequestShutdown()

	img := []byte{byte(vm.OpPush), 1, byte(vm.OpHalt)}
	m, _ := vm.New(img)
	fault := m.Run(h)
	if fault != vm.OK {
		t.Fatalf("Fault = %v, want OK on a host-initiated shutdown", fault)
	}
	if m.Running {
		t.Fatal("Running should be false after the host requests shutdown")
	}
}
