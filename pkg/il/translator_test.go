// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package il

import (
	"testing"

	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/parser"
	"github.com/blendsdk/blend65/pkg/sema/analysis"
	"github.com/blendsdk/blend65/pkg/util/source"
)

func translate(t *testing.T, input string) *Module {
	t.Helper()
	//
	module, diags := tryTranslate(t, input)
	//
	if diag.HasErrors(diags) {
		t.Fatalf("translation errors: %v", diags)
	}
	//
	return module
}

func tryTranslate(t *testing.T, input string) (*Module, []diag.Diagnostic) {
	t.Helper()
	//
	prog, parseDiags := parser.Parse(source.NewSourceFile("test.b65", []byte(input)))
	if diag.HasErrors(parseDiags) {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	//
	result := analysis.NewAnalyzer(analysis.DefaultConfig()).Analyze(prog)
	if result.Failed() {
		t.Fatalf("analysis errors: %v", result.Diagnostics)
	}
	//
	return Translate(result, DefaultTranslateOptions())
}

// S1: an initialised word global lands in the data section as "_x" with its
// value.
func TestTranslate_01(t *testing.T) {
	module := translate(t, "let x: word = $D020;")
	//
	g := module.Global("x")
	if g == nil {
		t.Fatalf("global x missing")
	}
	//
	if g.Storage != Data || g.Label != "_x" || g.Type != WordType {
		t.Errorf("unexpected global: %v", g)
	}
	//
	if len(g.Init) != 1 || g.Init[0] != 0xD020 {
		t.Errorf("unexpected initialiser: %v", g.Init)
	}
}

// S6: foo returning 5 is one block: const then return; the verifier passes.
func TestTranslate_02(t *testing.T) {
	module := translate(t, "function foo(): byte { return 5; }")
	//
	fn := module.Function("foo")
	if fn == nil {
		t.Fatalf("function foo missing")
	}
	//
	instrs := fn.Entry.Instructions
	if len(instrs) != 2 || instrs[0].Opcode != OpConst || instrs[1].Opcode != OpReturn {
		t.Fatalf("unexpected entry block:\n%s", fn)
	}
	//
	if instrs[0].Value != 5 || instrs[0].Result.Type != ByteType {
		t.Errorf("unexpected constant")
	}
	//
	if err := VerifyRegisterIDUniqueness(fn); err != nil {
		t.Errorf("verification failed: %v", err)
	}
}

// Zero-page globals bump-allocate from 0x0A.
func TestTranslate_03(t *testing.T) {
	module := translate(t, "@zp let a: byte;\n@zp let b: word;\n@zp let c: byte;")
	//
	checkAddress(t, module, "a", 0x0A)
	checkAddress(t, module, "b", 0x0B)
	checkAddress(t, module, "c", 0x0D)
}

// Exhausting the zero-page budget is a diagnostic, not a crash.
func TestTranslate_04(t *testing.T) {
	_, diags := tryTranslate(t, "@zp let big: byte[200];\n@zp let more: byte;")
	//
	found := false
	for _, d := range diags {
		if d.Code == diag.ZeroPageExhausted {
			found = true
		}
	}
	//
	if !found {
		t.Errorf("expected zero-page exhaustion, got %v", diags)
	}
}

// Map globals occupy no allocator space; reads and writes go straight to
// the hardware address.
func TestTranslate_05(t *testing.T) {
	module := translate(t, `
		@map at $D020 let border: byte;
		function f(): void {
			border = 0;
			let b: byte = border;
			g(b);
		}
		function g(v: byte): void {}`)
	//
	g := module.Global("border")
	if g == nil || g.Storage != Map || g.Address != 0xD020 {
		t.Fatalf("unexpected map global")
	}
	//
	fn := module.Function("f")
	checkHasOpcode(t, fn, OpHardwareWrite)
	checkHasOpcode(t, fn, OpHardwareRead)
}

// The coercion table: byte widens to word via zero_extend; conditions on
// numerics compare against zero.
func TestTranslate_06(t *testing.T) {
	module := translate(t, `
		function f(b: byte): word {
			let w: word = b;
			if (b) { w = w + 1; }
			return w;
		}`)
	//
	fn := module.Function("f")
	checkHasOpcode(t, fn, OpZeroExtend)
	checkHasOpcode(t, fn, OpNe)
}

// Intrinsics lower to dedicated opcodes.
func TestTranslate_07(t *testing.T) {
	module := translate(t, `
		function f(): void {
			sei();
			poke($D021, 0);
			let v: byte = peek($D012);
			pokew($10, $1234);
			barrier();
			volatile_write($D019, 1);
			cli();
			g(v);
		}
		function g(x: byte): void {}`)
	//
	fn := module.Function("f")
	//
	for _, op := range []Opcode{OpSei, OpPoke, OpPeek, OpPokeW, OpBarrier, OpVolatileWrite, OpCli} {
		checkHasOpcode(t, fn, op)
	}
}

// lo/hi lower to their opcodes rather than truncation arithmetic.
func TestTranslate_08(t *testing.T) {
	module := translate(t, `
		function f(w: word): byte {
			return lo(w) + hi(w);
		}`)
	//
	fn := module.Function("f")
	checkHasOpcode(t, fn, OpLo)
	checkHasOpcode(t, fn, OpHi)
}

// The ternary operator lowers to a phi over its branch values.
func TestTranslate_09(t *testing.T) {
	module := translate(t, `
		function f(c: bool): byte {
			return c ? 1 : 2;
		}`)
	//
	fn := module.Function("f")
	checkHasOpcode(t, fn, OpPhi)
	//
	if err := VerifyModule(module); err != nil {
		t.Errorf("verification failed: %v", err)
	}
}

// Loops translate to headers with back edges; break and continue jump to
// the right blocks; the whole module verifies.
func TestTranslate_10(t *testing.T) {
	module := translate(t, `
		let total: word = 0;
		function f(): void {
			for (i = 0 to 9) {
				if (i == 5) { continue; }
				total += i;
			}
			while (total > 100) {
				total -= 100;
			}
			do { total += 1; } while (total < 10);
		}`)
	//
	if err := VerifyModule(module); err != nil {
		t.Errorf("verification failed: %v", err)
	}
	//
	fn := module.Function("f")
	checkHasOpcode(t, fn, OpBranch)
	checkHasOpcode(t, fn, OpJump)
}

// Enum members and constants fold to constants.
func TestTranslate_11(t *testing.T) {
	module := translate(t, `
		enum Direction { UP = 1, DOWN = 2 }
		const SPEED: byte = 4;
		function f(): byte {
			let d: Direction = Direction.DOWN;
			return SPEED;
		}`)
	//
	fn := module.Function("f")
	//
	values := make(map[uint64]bool)
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if instr.Opcode == OpConst {
			values[instr.Value] = true
		}
	})
	//
	if !values[2] || !values[4] {
		t.Errorf("enum/constant folding missing: %v", values)
	}
}

// Array access lowers to load/store-array with a word index.
func TestTranslate_12(t *testing.T) {
	module := translate(t, `
		let screen: byte[40];
		function f(i: byte): byte {
			screen[i] = 32;
			return screen[i];
		}`)
	//
	fn := module.Function("f")
	checkHasOpcode(t, fn, OpStoreArray)
	checkHasOpcode(t, fn, OpLoadArray)
}

// length of a sized array folds to a constant.
func TestTranslate_13(t *testing.T) {
	module := translate(t, `
		let screen: byte[40];
		function f(): word {
			return length(screen);
		}`)
	//
	fn := module.Function("f")
	//
	folded := false
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if instr.Opcode == OpConst && instr.Value == 40 {
			folded = true
		}
	})
	//
	if !folded {
		t.Errorf("length not folded")
	}
}

// Callback functions are interrupt entry points with raster-critical
// bodies.
func TestTranslate_14(t *testing.T) {
	module := translate(t, `
		callback function irq(): void {
			poke($D019, 1);
		}`)
	//
	fn := module.Function("irq")
	if fn == nil || !fn.Interrupt {
		t.Fatalf("interrupt flag missing")
	}
	//
	critical := false
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if instr.Meta.RasterCritical {
			critical = true
		}
	})
	//
	if !critical {
		t.Errorf("raster-critical metadata missing")
	}
}

// Instruction metadata carries source locations.
func TestTranslate_15(t *testing.T) {
	module := translate(t, "function f(): byte { return 5; }")
	//
	fn := module.Function("f")
	//
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if !instr.Meta.Span.IsKnown() {
			t.Errorf("instruction %s lacks a location", instr)
		}
	})
}

// Indexed access to a memory-mapped array lowers to map range loads and
// stores carrying the base address as metadata.
func TestTranslate_16(t *testing.T) {
	module := translate(t, `
		@map at $D000 let sprites: byte[16];
		function f(i: byte): byte {
			sprites[i] = 100;
			return sprites[i];
		}`)
	//
	fn := module.Function("f")
	checkHasOpcode(t, fn, OpMapStoreRange)
	checkHasOpcode(t, fn, OpMapLoadRange)
	//
	found := false
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if instr.Meta.Map != nil && instr.Meta.Map.Base == 0xD000 {
			found = true
		}
	})
	//
	if !found {
		t.Errorf("map metadata missing")
	}
}

func checkAddress(t *testing.T, module *Module, name string, address uint16) {
	t.Helper()
	//
	g := module.Global(name)
	if g == nil || g.Address != address {
		t.Errorf("global %s: got $%04X, expected $%04X", name, g.Address, address)
	}
}

func checkHasOpcode(t *testing.T, fn *Function, op Opcode) {
	t.Helper()
	//
	found := false
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if instr.Opcode == op {
			found = true
		}
	})
	//
	if !found {
		t.Errorf("function %s lacks opcode %s:\n%s", fn.Name, op, fn)
	}
}
