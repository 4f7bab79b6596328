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

// Package vm implements the KXN byte-code execution engine: a
// byte-addressable 64 KiB memory image, a single operand stack growing
// downward from the top of that image, and a fetch/decode/dispatch loop
// over a fixed opcode table.
//
// The engine has no compile-time knowledge of any display or input
// backend. Host-specific effects (stdout, framebuffer, keyboard, mouse)
// are reached only through opcode OP_IO, which hands control to a Host
// value supplied by the caller. See the hostio package for concrete
// implementations.
//
// Two byte-order choices that aren't forced by the opcode table are
// resolved in favor of the symmetric, portable reading: RET mirrors
// CALL exactly, and LOAD_IND/STORE_IND treat the first pop as the low
// byte.
package vm
