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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ked1108/KXN/vm"
	"github.com/pkg/errors"
)

type label struct {
	addr    int
	defined bool
	line    int
}

type reference struct {
	name string
	pos  int
	line int
}

// assembler holds all per-run state for a single Assemble call. Nothing
// here is package-level, so two Assemble calls never share state even
// if run concurrently.
type assembler struct {
	out    []byte
	pos    int
	labels map[string]*label
	refs   []reference
	diags  []Diagnostic
	line   int
}

func newAssembler() *assembler {
	return &assembler{labels: make(map[string]*label)}
}

func (a *assembler) warn(format string, args ...interface{}) {
	a.diags = append(a.diags, Diagnostic{Line: a.line, Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

func (a *assembler) fail(format string, args ...interface{}) {
	a.diags = append(a.diags, Diagnostic{Line: a.line, Severity: Error, Message: fmt.Sprintf(format, args...)})
}

func (a *assembler) ensure(n int) {
	for len(a.out) < n {
		a.out = append(a.out, 0)
	}
}

func (a *assembler) writeByte(b byte) {
	a.ensure(a.pos + 1)
	a.out[a.pos] = b
	a.pos++
}

func (a *assembler) writeWordPlaceholder() int {
	pos := a.pos
	a.writeByte(0)
	a.writeByte(0)
	return pos
}

func (a *assembler) writeWord(v uint16) {
	a.writeByte(byte(v))
	a.writeByte(byte(v >> 8))
}

func validLabelName(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, c := range []byte(name) {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (a *assembler) defineLabel(name string) {
	if !validLabelName(name) {
		a.fail("invalid label name %q: must be [A-Za-z_][A-Za-z0-9_]*, up to 63 chars", name)
		return
	}
	if lbl, ok := a.labels[name]; ok {
		if lbl.defined {
			a.fail("label redefinition: %q, previously defined on line %d", name, lbl.line)
			return
		}
		lbl.addr, lbl.defined, lbl.line = a.pos, true, a.line
		return
	}
	a.labels[name] = &label{addr: a.pos, defined: true, line: a.line}
}

func isLabelRef(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func parseNumber(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 32)
		return int(v), err
	}
	v, err := strconv.ParseInt(s, 10, 32)
	return int(v), err
}

// assemble runs both passes over r and returns the (possibly
// best-effort) image.
func (a *assembler) assemble(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		a.line++
		a.processLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return a.out, errors.Wrap(err, "assemble: read failed")
	}

	unresolved := false
	for _, ref := range a.refs {
		lbl := a.labels[ref.name]
		if lbl == nil || !lbl.defined {
			a.line = ref.line
			a.fail("unresolved label: %q", ref.name)
			unresolved = true
			continue
		}
		addr := uint16(lbl.addr)
		a.out[ref.pos] = byte(addr)
		a.out[ref.pos+1] = byte(addr >> 8)
	}
	if unresolved {
		return a.out, errors.New("assemble: unresolved labels")
	}
	return a.out, nil
}

func (a *assembler) processLine(raw string) {
	line := raw
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	fields := strings.Fields(line)

	if strings.HasSuffix(fields[0], ":") {
		name := strings.TrimSuffix(fields[0], ":")
		if name == "" {
			a.fail("empty label name")
			return
		}
		a.defineLabel(name)
		fields = fields[1:]
		if len(fields) == 0 {
			return
		}
	}

	head := strings.ToUpper(fields[0])
	switch head {
	case ".ORG":
		a.directiveOrg(fields[1:])
		return
	case ".BYTE", ".DB":
		a.directiveByte(fields[1:])
		return
	}

	op, ok := vm.Lookup(head)
	if !ok {
		a.warn("unknown mnemonic %q, ignored", fields[0])
		return
	}
	a.writeByte(byte(op))

	switch vm.OperandWidth(op) {
	case 0:
		if len(fields) > 1 {
			a.warn("%s takes no operand, ignoring %q", head, fields[1])
		}
	case 1:
		if len(fields) < 2 {
			a.fail("%s: missing operand", head)
			a.writeByte(0)
			return
		}
		v, err := parseNumber(fields[1])
		if err != nil || v < 0 || v > 0xFF {
			a.fail("%s: invalid byte operand %q", head, fields[1])
			v = 0
		}
		a.writeByte(byte(v))
	case 2:
		if len(fields) < 2 {
			a.fail("%s: missing operand", head)
			a.writeWordPlaceholder()
			return
		}
		operand := fields[1]
		if isLabelRef(operand) {
			pos := a.writeWordPlaceholder()
			a.refs = append(a.refs, reference{name: operand, pos: pos, line: a.line})
			return
		}
		v, err := parseNumber(operand)
		if err != nil || v < 0 || v > 0xFFFF {
			a.fail("%s: invalid address operand %q", head, operand)
			v = 0
		}
		a.writeWord(uint16(v))
	}
}

func (a *assembler) directiveOrg(args []string) {
	if len(args) != 1 {
		a.fail(".org: expected exactly one address argument")
		return
	}
	v, err := parseNumber(args[0])
	if err != nil || v < 0 || v > 0xFFFF {
		a.fail(".org: invalid address %q", args[0])
		return
	}
	a.pos = v
	a.ensure(a.pos)
}

func (a *assembler) directiveByte(args []string) {
	if len(args) == 0 {
		a.fail(".byte: expected at least one value")
		return
	}
	for _, tok := range strings.Split(strings.Join(args, ""), ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := parseNumber(tok)
		if err != nil || v < 0 || v > 0xFF {
			a.fail(".byte: invalid value %q", tok)
			continue
		}
		a.writeByte(byte(v))
	}
}
