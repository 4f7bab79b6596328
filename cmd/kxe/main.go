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

// The kxe command runs a KXN memory image.
//
// Usage:
//
//	kxe [flags] image.bin
//
//	-display string
//	      host-I/O backend: "stdio", "termbox" or "headless" (default "stdio")
//	-noraw
//	      disable raw terminal IO on the stdio backend
//	-debug
//	      print a full stacktrace and machine state on a fault
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ked1108/KXN/hostio"
	"github.com/ked1108/KXN/vm"
	"github.com/pkg/errors"
)

type backendName string

func (b *backendName) String() string { return string(*b) }
func (b *backendName) Set(s string) error {
	switch s {
	case "stdio", "termbox", "headless":
		*b = backendName(s)
		return nil
	default:
		return errors.Errorf("unknown display backend %q", s)
	}
}
func (b *backendName) Get() interface{} { return string(*b) }

var (
	display = backendName("stdio")
	noRawIO bool
	debug   bool
)

func atExit(m *vm.Machine, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "kxe: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "kxe: %+v\n", err)
	if m != nil {
		fmt.Fprintf(os.Stderr, "PC: %#04x SP: %#04x fault: %v instructions: %d\n",
			m.PC, m.SP, m.Fault, m.InstructionCount())
	}
	os.Exit(1)
}

func newHost() (vm.Host, func(), error) {
	switch display {
	case "termbox":
		h, err := hostio.NewTermboxHost()
		if err != nil {
			return nil, nil, err
		}
		return h, h.Close, nil
	case "headless":
		return hostio.NewHeadless(), func() {}, nil
	default:
		h, err := hostio.NewStdioHost(!noRawIO)
		if err != nil {
			return nil, nil, err
		}
		return h, h.Close, nil
	}
}

func main() {
	var err error
	var m *vm.Machine
	defer func() { atExit(m, err) }()

	flag.Var(&display, "display", "host-I/O backend: stdio, termbox or headless")
	flag.BoolVar(&noRawIO, "noraw", false, "disable raw terminal IO on the stdio backend")
	flag.BoolVar(&debug, "debug", false, "print machine state and a full stacktrace on a fault")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		err = errors.New("usage: kxe [flags] image.bin")
		return
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		err = errors.Wrapf(err, "reading %s", args[0])
		return
	}

	m, err = vm.New(image)
	if err != nil {
		err = errors.Wrap(err, "loading image")
		return
	}

	host, teardown, err := newHost()
	if err != nil {
		err = errors.Wrap(err, "initializing host-I/O backend")
		return
	}
	defer teardown()

	fault := m.Run(host)
	if fault.IsError() {
		err = errors.Wrap(fault, "machine halted on fault")
		return
	}
	fmt.Fprintln(os.Stderr, "kxe: HALT")
}
