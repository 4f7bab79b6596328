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

package asm

import (
	"io"

	"github.com/ked1108/KXN/internal/kxi"
	"github.com/ked1108/KXN/vm"
)

// Severity classifies a Diagnostic: the assembler prints a per-line
// diagnostic for unknown mnemonics (warning, continues) and for
// unresolved labels (error, non-zero exit).
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single per-line assembler message.
type Diagnostic struct {
	Line     int
	Severity Severity
	Message  string
}

// Assemble compiles assembly read from r and returns the resulting image
// plus any diagnostics. name is not stored in the diagnostics, which
// carry only a line number; callers prefix them with it themselves.
//
// The returned image is written best effort: an unresolved label still
// leaves whatever was emitted, including unpatched zero placeholders,
// but err is non-nil in that case. The image is nil when the source
// emitted nothing.
func Assemble(name string, r io.Reader) (img []byte, diags []Diagnostic, err error) {
	a := newAssembler()
	img, err = a.assemble(r)
	return img, a.diags, err
}

// Disassemble renders the instruction at position pc in img to w and
// returns the position of the next instruction.
func Disassemble(img []byte, pc int, w io.Writer) (next int, err error) {
	ew, ok := w.(*kxi.ErrWriter)
	if !ok {
		ew = kxi.NewErrWriter(w)
	}
	if pc >= len(img) {
		return pc, ew.Err
	}
	op := vm.Opcode(img[pc])
	name := vm.Mnemonic(op)
	if name == "" {
		io.WriteString(ew, "??")
		return pc + 1, ew.Err
	}
	io.WriteString(ew, name)
	pc++
	switch vm.OperandWidth(op) {
	case 1:
		if pc < len(img) {
			ew.Write([]byte{' '})
			writeHexByte(ew, img[pc])
			pc++
		}
	case 2:
		if pc+1 < len(img) {
			ew.Write([]byte{' '})
			writeHexWord(ew, uint16(img[pc])|uint16(img[pc+1])<<8)
			pc += 2
		}
	}
	return pc, ew.Err
}

// DisassembleAll renders every instruction in img to w, one per line,
// prefixed with its address.
func DisassembleAll(img []byte, w io.Writer) error {
	ew := kxi.NewErrWriter(w)
	for pc := 0; pc < len(img); {
		writeHexWord(ew, uint16(pc))
		ew.Write([]byte{'\t'})
		pc, _ = Disassemble(img, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return ew.Err
}

const hexDigits = "0123456789ABCDEF"

func writeHexByte(w io.Writer, b byte) {
	io.WriteString(w, "0x")
	w.Write([]byte{hexDigits[b>>4], hexDigits[b&0xF]})
}

func writeHexWord(w io.Writer, v uint16) {
	io.WriteString(w, "0x")
	w.Write([]byte{
		hexDigits[(v>>12)&0xF],
		hexDigits[(v>>8)&0xF],
		hexDigits[(v>>4)&0xF],
		hexDigits[v&0xF],
	})
}
