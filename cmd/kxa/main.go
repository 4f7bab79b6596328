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

// The kxa command assembles KXN source into a raw memory image.
//
// Usage:
//
//	kxa [-dis] input.asm output.bin
//
// -dis disassembles output.bin back to stdout after a successful
// assemble, mainly useful when iterating on a program by hand.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ked1108/KXN/asm"
	"github.com/pkg/errors"
)

var disassemble = flag.Bool("dis", false, "disassemble the produced image to stdout")

func atExit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "kxa: %+v\n", err)
	os.Exit(1)
}

func main() {
	var err error
	defer func() { atExit(err) }()

	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		err = errors.New("usage: kxa [-dis] input.asm output.bin")
		return
	}
	srcName, dstName := args[0], args[1]

	src, err := os.Open(srcName)
	if err != nil {
		err = errors.Wrapf(err, "opening %s", srcName)
		return
	}
	defer src.Close()

	img, diags, asmErr := asm.Assemble(srcName, src)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s:%d: %s: %s\n", srcName, d.Line, d.Severity, d.Message)
	}

	// img is written whenever anything was emitted, even best-effort with unpatched label
	// placeholders, so a failed assemble still leaves something to
	// inspect or re-run after fixing the source.
	if img != nil {
		if werr := os.WriteFile(dstName, img, 0644); werr != nil {
			err = errors.Wrapf(werr, "writing %s", dstName)
			return
		}
	}

	if asmErr != nil {
		err = errors.Wrap(asmErr, "assemble failed")
		return
	}

	if *disassemble {
		if derr := asm.DisassembleAll(img, os.Stdout); derr != nil {
			err = errors.Wrap(derr, "disassemble failed")
		}
	}
}
