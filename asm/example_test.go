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
	"fmt"
	"os"
	"strings"

	"github.com/ked1108/KXN/asm"
)

// A small program mixing a label, a forward jump and a .byte
// directive.
func ExampleAssemble() {
	code := `
		; push 40, double it, JZ pops it and jumps to skip if it is zero
		PUSH 40
		PUSH 1
		SHL
		JZ skip
		IO 1		; PRINT_CHAR
	skip:
		.byte 0xFF	; trailer byte, not executed
		HALT
	`

	img, _, err := asm.Assemble("raw_string", strings.NewReader(code))
	if err != nil {
		fmt.Println(err)
		return
	}

	asm.DisassembleAll(img, os.Stdout)

	// Output:
	// 0x0000	PUSH 0x28
	// 0x0002	PUSH 0x01
	// 0x0004	SHL
	// 0x0005	JZ 0x000A
	// 0x0008	IO 0x01
	// 0x000A	??
	// 0x000B	HALT
}

// Disassemble renders one instruction at a time, returning the offset of
// the next one.
func ExampleDisassemble() {
	code := "PUSH 7\nPUSH 3\nADD\nHALT\n"
	img, _, err := asm.Assemble("tiny", strings.NewReader(code))
	if err != nil {
		panic(err)
	}

	for pc := 0; pc < len(img); {
		fmt.Printf("%04X\t", pc)
		var err error
		pc, err = asm.Disassemble(img, pc, os.Stdout)
		if err != nil {
			panic(err)
		}
		fmt.Println()
	}

	// Output:
	// 0000	PUSH 0x07
	// 0002	PUSH 0x03
	// 0004	ADD
	// 0005	HALT
}
