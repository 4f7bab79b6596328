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

package asm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ked1108/KXN/asm"
	"github.com/ked1108/KXN/vm"
)

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
; add two numbers and halt
start:
	PUSH 2
	PUSH 3
	ADD
	HALT
`
	img, diags, err := asm.Assemble("t.asm", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble: %v, diags=%v", err, diags)
	}
	want := []byte{
		byte(vm.OpPush), 2,
		byte(vm.OpPush), 3,
		byte(vm.OpAdd),
		byte(vm.OpHalt),
	}
	if !bytes.Equal(img, want) {
		t.Fatalf("img = % X, want % X", img, want)
	}
}

func TestAssembleForwardLabelReference(t *testing.T) {
	src := `
	JMP done
	PUSH 0xFF
done:
	HALT
`
	img, diags, err := asm.Assemble("t.asm", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble: %v, diags=%v", err, diags)
	}
	// JMP(1) addr(2) PUSH(1) 0xFF(1) -> done at offset 5
	wantAddr := uint16(5)
	gotAddr := uint16(img[1]) | uint16(img[2])<<8
	if gotAddr != wantAddr {
		t.Fatalf("patched JMP target = %#x, want %#x", gotAddr, wantAddr)
	}
	if img[5] != byte(vm.OpHalt) {
		t.Fatalf("img[5] = %#x, want HALT", img[5])
	}
}

func TestAssembleUnresolvedLabelErrors(t *testing.T) {
	src := "JMP nowhere\nHALT\n"
	_, diags, err := asm.Assemble("t.asm", strings.NewReader(src))
	if err == nil {
		t.Fatal("Assemble should fail on an unresolved label")
	}
	found := false
	for _, d := range diags {
		if d.Severity == asm.Error {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an Error diagnostic, got %v", diags)
	}
}

func TestAssembleUnknownMnemonicWarns(t *testing.T) {
	src := "FROBNICATE\nHALT\n"
	_, diags, err := asm.Assemble("t.asm", strings.NewReader(src))
	if err != nil {
		t.Fatalf("unknown mnemonic should only warn, got error: %v", err)
	}
	if len(diags) != 1 || diags[0].Severity != asm.Warning {
		t.Fatalf("diags = %v, want one Warning", diags)
	}
}

func TestAssembleOrgDirective(t *testing.T) {
	src := ".org 0x10\nHALT\n"
	img, _, err := asm.Assemble("t.asm", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(img) != 0x11 {
		t.Fatalf("len(img) = %d, want %d", len(img), 0x11)
	}
	if img[0x10] != byte(vm.OpHalt) {
		t.Fatalf("img[0x10] = %#x, want HALT", img[0x10])
	}
}

func TestAssembleByteDirective(t *testing.T) {
	src := ".byte 1, 2, 0xFF\n"
	img, _, err := asm.Assemble("t.asm", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 0xFF}
	if !bytes.Equal(img, want) {
		t.Fatalf("img = % X, want % X", img, want)
	}
}

func TestAssembleCaseInsensitiveAndLegacySys(t *testing.T) {
	src := "sys 0\n"
	img, _, err := asm.Assemble("t.asm", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{byte(vm.OpIO), 0}
	if !bytes.Equal(img, want) {
		t.Fatalf("img = % X, want % X", img, want)
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	img := []byte{byte(vm.OpPush), 7, byte(vm.OpHalt)}
	var buf bytes.Buffer
	next, err := asm.Disassemble(img, 0, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if next != 2 {
		t.Fatalf("next = %d, want 2", next)
	}
	if got := buf.String(); got != "PUSH 0x07" {
		t.Fatalf("got %q, want %q", got, "PUSH 0x07")
	}
}

func TestDisassembleAllProducesOneLinePerInstruction(t *testing.T) {
	img := []byte{byte(vm.OpPush), 1, byte(vm.OpPush), 2, byte(vm.OpAdd), byte(vm.OpHalt)}
	var buf bytes.Buffer
	if err := asm.DisassembleAll(img, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), buf.String())
	}
}
