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

// Package asm implements the KXN assembler: a line-based mnemonic
// source format assembled in two passes into an image byte slice ready
// to load at address 0.
//
// Grammar, one statement per line:
//
//	; a whole-line comment
//	start:            PUSH 0x05        ; label definition, then an instruction
//	        JMP start                  ; label reference, patched in pass two
//	        .org 0x0200                ; set the output cursor
//	        .byte 1, 2, 0xFF            ; emit raw bytes
//
// Mnemonics are case-insensitive and match the opcode table in the vm
// package, plus the legacy spelling SYS for IO. Numeric operands are
// 0x-prefixed hex or plain decimal; an operand starting with a letter is
// a label reference.
//
// Labels are resolved in a second pass over the recorded reference list:
// every reference is patched with the label's address, low byte first.
// Each Assemble call builds its own assembler state, so nothing is
// shared across concurrent or repeated invocations.
package asm
