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

import "strings"

// Opcode is a single-byte instruction selector fetched at PC.
type Opcode byte

// KXN Virtual Machine Opcodes.
const (
	OpNop  Opcode = 0x00
	OpHalt Opcode = 0x01

	OpPush Opcode = 0x02
	OpPop  Opcode = 0x03
	OpDup  Opcode = 0x04
	OpSwap Opcode = 0x05

	OpAdd Opcode = 0x06
	OpSub Opcode = 0x07
	OpMul Opcode = 0x08
	OpDiv Opcode = 0x09
	OpMod Opcode = 0x0A
	OpNeg Opcode = 0x0B

	OpAnd Opcode = 0x0C
	OpOr  Opcode = 0x0D
	OpXor Opcode = 0x0E
	OpNot Opcode = 0x0F
	OpShl Opcode = 0x10
	OpShr Opcode = 0x11
	OpEq  Opcode = 0x12
	OpNeq Opcode = 0x13
	OpGt  Opcode = 0x14
	OpLt  Opcode = 0x15
	OpGte Opcode = 0x16
	OpLte Opcode = 0x17

	OpLoad     Opcode = 0x18
	OpStore    Opcode = 0x19
	OpLoadInd  Opcode = 0x1A
	OpStoreInd Opcode = 0x1B

	OpJmp  Opcode = 0x1C
	OpJz   Opcode = 0x1D
	OpJnz  Opcode = 0x1E
	OpCall Opcode = 0x1F
	OpRet  Opcode = 0x20

	OpIO Opcode = 0x21
)

// operandWidth describes how many immediate bytes (beyond the opcode
// byte itself) follow each instruction in the image.
type operandWidth int

const (
	widthNone operandWidth = 0
	widthByte operandWidth = 1
	widthAddr operandWidth = 2
)

// mnemonic and its operand width, indexed by opcode. Used by both the
// assembler and the disassembler so the two stay in lockstep.
type opcodeInfo struct {
	name  string
	width operandWidth
}

var opcodeTable = map[Opcode]opcodeInfo{
	OpNop:      {"NOP", widthNone},
	OpHalt:     {"HALT", widthNone},
	OpPush:     {"PUSH", widthByte},
	OpPop:      {"POP", widthNone},
	OpDup:      {"DUP", widthNone},
	OpSwap:     {"SWAP", widthNone},
	OpAdd:      {"ADD", widthNone},
	OpSub:      {"SUB", widthNone},
	OpMul:      {"MUL", widthNone},
	OpDiv:      {"DIV", widthNone},
	OpMod:      {"MOD", widthNone},
	OpNeg:      {"NEG", widthNone},
	OpAnd:      {"AND", widthNone},
	OpOr:       {"OR", widthNone},
	OpXor:      {"XOR", widthNone},
	OpNot:      {"NOT", widthNone},
	OpShl:      {"SHL", widthNone},
	OpShr:      {"SHR", widthNone},
	OpEq:       {"EQ", widthNone},
	OpNeq:      {"NEQ", widthNone},
	OpGt:       {"GT", widthNone},
	OpLt:       {"LT", widthNone},
	OpGte:      {"GTE", widthNone},
	OpLte:      {"LTE", widthNone},
	OpLoad:     {"LOAD", widthAddr},
	OpStore:    {"STORE", widthAddr},
	OpLoadInd:  {"LOAD_IND", widthNone},
	OpStoreInd: {"STORE_IND", widthNone},
	OpJmp:      {"JMP", widthAddr},
	OpJz:       {"JZ", widthAddr},
	OpJnz:      {"JNZ", widthAddr},
	OpCall:     {"CALL", widthAddr},
	OpRet:      {"RET", widthNone},
	OpIO:       {"IO", widthByte},
}

// opcodeIndex maps upper-cased mnemonics to their opcode, for the
// assembler's lookup. SYS is a legacy spelling of IO.
var opcodeIndex = make(map[string]Opcode)

func init() {
	for op, info := range opcodeTable {
		opcodeIndex[info.name] = op
	}
	opcodeIndex["SYS"] = OpIO
}

// Mnemonic returns the canonical mnemonic for op, or "" if op is not a
// recognized opcode.
func Mnemonic(op Opcode) string {
	return opcodeTable[op].name
}

// OperandWidth returns the number of immediate bytes that follow op in
// the image (0, 1 or 2).
func OperandWidth(op Opcode) int {
	return int(opcodeTable[op].width)
}

// Lookup resolves a mnemonic (case-insensitive) to its opcode.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := opcodeIndex[strings.ToUpper(mnemonic)]
	return op, ok
}
