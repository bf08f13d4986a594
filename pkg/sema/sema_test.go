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
package sema

import (
	"testing"

	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/parser"
	"github.com/blendsdk/blend65/pkg/types"
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Run passes 1-3 over a source string.
func checkProgram(t *testing.T, input string) (*ast.Program, *SymbolTable, *CheckResult, []diag.Diagnostic) {
	t.Helper()
	//
	prog, parseDiags := parser.Parse(source.NewSourceFile("test.b65", []byte(input)))
	//
	if diag.HasErrors(parseDiags) {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	//
	sink := diag.NewSink()
	table := BuildSymbolTable(prog, sink)
	named := ResolveTypes(prog, table, sink)
	check := Check(prog, table, named, sink)
	//
	return prog, table, check, sink.Diagnostics()
}

func hasNoErrors(t *testing.T, input string) {
	t.Helper()
	//
	_, _, _, diags := checkProgram(t, input)
	//
	if diag.HasErrors(diags) {
		t.Errorf("unexpected errors: %v", diags)
	}
}

func hasError(t *testing.T, input string, code diag.Code) {
	t.Helper()
	//
	_, _, _, diags := checkProgram(t, input)
	//
	for _, d := range diags {
		if d.Code == code && d.IsError() {
			return
		}
	}
	//
	t.Errorf("expected error %s, got %v", code, diags)
}

// ==================================================================
// Symbol table
// ==================================================================

func TestSymtab_01(t *testing.T) {
	_, table, _, diags := checkProgram(t, "let x: byte;\nfunction f(a: word): void {}")
	//
	if diag.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	//
	x := table.Module.LookupLocal("x")
	if x == nil || x.Kind != VariableSymbol || x.Type != types.Byte {
		t.Errorf("unexpected symbol for x")
	}
	//
	f := table.Module.LookupLocal("f")
	if f == nil || f.Kind != FunctionSymbol || len(f.Params) != 1 {
		t.Fatalf("unexpected symbol for f")
	}
	//
	if f.Params[0].Type != types.Word {
		t.Errorf("parameter type not stamped")
	}
}

func TestSymtab_02(t *testing.T) {
	hasError(t, "let x: byte;\nlet x: word;", diag.DuplicateSymbol)
}

// Shadowing across scopes is not an error.
func TestSymtab_03(t *testing.T) {
	hasNoErrors(t, `
		let x: byte;
		function f(): void {
			let x: word;
			x = 1;
		}`)
}

// Intrinsics are visible in every module scope.
func TestSymtab_04(t *testing.T) {
	_, table, _, _ := checkProgram(t, "let x: byte;")
	//
	peek := table.Module.LookupLocal("peek")
	if peek == nil || peek.Kind != IntrinsicSymbol {
		t.Errorf("peek intrinsic missing")
	}
}

// The for counter lives in a dedicated loop scope.
func TestSymtab_05(t *testing.T) {
	hasNoErrors(t, `
		function f(): void {
			for (i = 0 to 9) { g(i); }
			for (i = 0 to 4) { g(i); }
		}
		function g(v: byte): void {}`)
}

// ==================================================================
// Type resolution
// ==================================================================

func TestResolve_01(t *testing.T) {
	hasError(t, "let x: nothing;", diag.UnknownType)
}

func TestResolve_02(t *testing.T) {
	// Aliases resolve transitively.
	hasNoErrors(t, `
		type A = byte;
		type B = A;
		let x: B = 1;`)
}

func TestResolve_03(t *testing.T) {
	hasError(t, "type A = B;\ntype B = A;", diag.CyclicAlias)
}

func TestResolve_04(t *testing.T) {
	hasError(t, "let a: byte[0];", diag.InvalidArraySize)
}

// Enum member values follow C rules.
func TestResolve_05(t *testing.T) {
	_, table, _, diags := checkProgram(t, "enum E { A = 3, B, C = 10, D }")
	//
	if diag.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	//
	expected := map[string]uint32{"A": 3, "B": 4, "C": 10, "D": 11}
	//
	for name, value := range expected {
		sym := table.Module.LookupLocal(name)
		//
		if sym == nil || sym.Kind != EnumMemberSymbol {
			t.Fatalf("member %s missing", name)
		}
		//
		if sym.EnumValue != value {
			t.Errorf("member %s: got %d, expected %d", name, sym.EnumValue, value)
		}
	}
}

// ==================================================================
// Type checking
// ==================================================================

// Literal width boundaries: 255 fits byte, 256 does not.
func TestCheck_01(t *testing.T) {
	hasNoErrors(t, "let x: byte = 255;")
	hasError(t, "let x: byte = 256;", diag.TypeMismatch)
	hasNoErrors(t, "let x: word = 256;")
	hasError(t, "let x: word = 65536;", diag.LiteralOverflow)
}

// Widening byte to word is implicit; narrowing is rejected.
func TestCheck_02(t *testing.T) {
	hasNoErrors(t, `
		function f(): void {
			let b: byte = 1;
			let w: word = b;
			w = b + 1;
		}`)
	//
	hasError(t, `
		function f(): void {
			let w: word = 300;
			let b: byte = w;
		}`, diag.TypeMismatch)
}

// Narrowing via the lo/hi intrinsics is fine.
func TestCheck_03(t *testing.T) {
	hasNoErrors(t, `
		function f(): void {
			let w: word = $1234;
			let b: byte = lo(w);
			b = hi(w);
		}`)
}

func TestCheck_04(t *testing.T) {
	hasError(t, "function f(): byte { return 1 / 0; }", diag.DivisionByZero)
	hasError(t, "function f(): byte { return 1 % 0; }", diag.DivisionByZero)
}

// S4: array literal [1, 256, 3] widens to word[3]; [$0000,...] infers as
// byte[3] and does not fit a word[3] context.
func TestCheck_05(t *testing.T) {
	hasNoErrors(t, "let a: word[3] = [1, 256, 3];")
	hasError(t, "let a: word[3] = [$0000, $0000, $0000];", diag.TypeMismatch)
	hasNoErrors(t, "let a: byte[3] = [$0000, $0000, $0000];")
}

func TestCheck_06(t *testing.T) {
	hasError(t, "let a: byte[1] = [];", diag.EmptyArrayLiteral)
	hasError(t, `let a: byte[2] = [1, "x"];`, diag.TypeMismatch)
}

func TestCheck_07(t *testing.T) {
	hasError(t, "function f(): void { g(); }", diag.UnknownSymbol)
}

// Call arity and argument assignability.
func TestCheck_08(t *testing.T) {
	hasError(t, `
		function g(a: byte): void {}
		function f(): void { g(1, 2); }`, diag.WrongArgumentCount)
	//
	hasError(t, `
		function g(a: byte): void {}
		function f(): void {
			let w: word = 300;
			g(w);
		}`, diag.TypeMismatch)
	//
	hasNoErrors(t, `
		function g(a: word): void {}
		function f(): void { g(1); }`)
}

// Void-returning calls used as values are rejected.
func TestCheck_09(t *testing.T) {
	hasError(t, `
		function g(): void {}
		function f(): void { let x: byte = g(); }`, diag.TypeMismatch)
}

func TestCheck_10(t *testing.T) {
	hasError(t, `
		function f(): byte { return; }`, diag.TypeMismatch)
	hasError(t, `
		function f(): void { return 1; }`, diag.TypeMismatch)
	hasNoErrors(t, `
		function f(): word { return 200; }`)
}

func TestCheck_11(t *testing.T) {
	hasError(t, "function f(): void { let x: byte = 1; x[0] = 2; }", diag.NotAnArray)
}

// Member access is limited to enum-qualified names.
func TestCheck_12(t *testing.T) {
	hasNoErrors(t, `
		enum Direction { UP, DOWN }
		function f(): void {
			let d: Direction = Direction.UP;
		}`)
	//
	hasError(t, `
		enum Direction { UP, DOWN }
		function f(): void { let d: Direction = Direction.LEFT; }`, diag.UnknownSymbol)
	//
	hasError(t, `
		function f(): void { let x: byte = f.y; }`, diag.InvalidMember)
}

// Assignment to constants and enum members is rejected.
func TestCheck_13(t *testing.T) {
	hasError(t, "const K: byte = 1;\nfunction f(): void { K = 2; }", diag.NotAssignable)
}

// Logical operators admit numeric operands (documented behaviour).
func TestCheck_14(t *testing.T) {
	hasNoErrors(t, `
		function f(): void {
			let b: byte = 1;
			if (b && true) { b = 2; }
			while (!b) { b = 3; }
		}`)
	//
	hasError(t, `function f(): void { if ("x" && true) { } }`, diag.TypeMismatch)
}

// Compound assignment inherits the target type.
func TestCheck_15(t *testing.T) {
	hasNoErrors(t, `
		function f(): void {
			let b: byte = 1;
			b += 2;
			b <<= 1;
		}`)
}

// Expression types are recorded for downstream passes.
func TestCheck_16(t *testing.T) {
	prog, _, check, diags := checkProgram(t, "let x: word = 1 + 2;")
	//
	if diag.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	//
	decl := prog.Decls[0].(*ast.VarDecl)
	//
	if check.TypeOf(decl.Init) != types.Byte {
		t.Errorf("got type %v for 1 + 2", check.TypeOf(decl.Init))
	}
}

// An unannotated for counter defaults to byte; an oversized bound is a
// type error.
func TestCheck_17(t *testing.T) {
	hasNoErrors(t, "function f(): void { for (i = 0 to 255) { } }")
	hasError(t, "function f(): void { for (i = 0 to 300) { } }", diag.TypeMismatch)
	hasNoErrors(t, "function f(): void { for (i: word = 0 to 300) { } }")
}

// ==================================================================
// Import resolution
// ==================================================================

func registryOf(t *testing.T, sources map[string]string) *ModuleRegistry {
	t.Helper()
	//
	registry := NewModuleRegistry()
	//
	for name, src := range sources {
		prog, diags := parser.Parse(source.NewSourceFile(name, []byte(src)))
		//
		if diag.HasErrors(diags) {
			t.Fatalf("parse errors in %s: %v", name, diags)
		}
		//
		registry.Register(prog)
	}
	//
	return registry
}

// S5: partial success with one resolved symbol and one SYMBOL_NOT_FOUND.
func TestImports_01(t *testing.T) {
	registry := registryOf(t, map[string]string{
		"lib":  "module Lib.Math\nexport function add(a: byte, b: byte): byte { return a + b; }",
		"main": "module Game.Main\nimport add, nonExistent from Lib.Math;",
	})
	//
	resolver := NewImportResolver(registry)
	resolved, diags := resolver.ResolveImports(registry.Lookup("Game.Main"))
	//
	if len(resolved) != 1 || resolved[0].Name != "add" || resolved[0].Kind != FunctionSymbol {
		t.Errorf("unexpected resolutions: %v", resolved)
	}
	//
	if len(diags) != 1 || diags[0].Code != diag.SymbolNotFound {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

// Import round-trip: the resolved kind matches the declaration kind.
func TestImports_02(t *testing.T) {
	registry := registryOf(t, map[string]string{
		"lib": `module Lib
			export function f(): void {}
			export let v: byte;
			export const k: byte = 1;`,
		"main": "module Main\nimport f, v, k from Lib;",
	})
	//
	resolved, diags := NewImportResolver(registry).ResolveImports(registry.Lookup("Main"))
	//
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	//
	kinds := map[string]SymbolKind{}
	for _, r := range resolved {
		kinds[r.Name] = r.Kind
	}
	//
	if kinds["f"] != FunctionSymbol || kinds["v"] != VariableSymbol || kinds["k"] != ConstantSymbol {
		t.Errorf("unexpected kinds: %v", kinds)
	}
}

func TestImports_03(t *testing.T) {
	registry := registryOf(t, map[string]string{
		"main": "module Main\nimport x from Nowhere;",
	})
	//
	_, diags := NewImportResolver(registry).ResolveImports(registry.Lookup("Main"))
	//
	if len(diags) != 1 || diags[0].Code != diag.UnknownModule {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

// Non-exported symbols are distinguished from missing ones.
func TestImports_04(t *testing.T) {
	registry := registryOf(t, map[string]string{
		"lib":  "module Lib\nfunction hidden(): void {}",
		"main": "module Main\nimport hidden from Lib;",
	})
	//
	_, diags := NewImportResolver(registry).ResolveImports(registry.Lookup("Main"))
	//
	if len(diags) != 1 || diags[0].Code != diag.SymbolNotExported {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

// A wildcard from a module with no exports is an error; with exports it
// brings in everything exported.
func TestImports_05(t *testing.T) {
	registry := registryOf(t, map[string]string{
		"empty": "module Empty\nfunction hidden(): void {}",
		"lib":   "module Lib\nexport let a: byte;\nexport let b: byte;",
		"main1": "module Main1\nimport * from Empty;",
		"main2": "module Main2\nimport * from Lib;",
	})
	//
	resolver := NewImportResolver(registry)
	//
	_, diags := resolver.ResolveImports(registry.Lookup("Main1"))
	if len(diags) != 1 || diags[0].Code != diag.EmptyExports {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	//
	resolved, diags := resolver.ResolveImports(registry.Lookup("Main2"))
	if len(diags) != 0 || len(resolved) != 2 {
		t.Errorf("unexpected wildcard resolution: %v %v", resolved, diags)
	}
}

// The export cache survives until explicitly cleared.
func TestImports_06(t *testing.T) {
	registry := registryOf(t, map[string]string{
		"lib":  "module Lib\nexport let a: byte;",
		"main": "module Main\nimport a, b from Lib;",
	})
	//
	resolver := NewImportResolver(registry)
	main := registry.Lookup("Main")
	//
	if resolved, _ := resolver.ResolveImports(main); len(resolved) != 1 {
		t.Fatalf("expected one resolution")
	}
	// Replace the library with one that also exports b.
	prog, _ := parser.Parse(source.NewSourceFile("lib2",
		[]byte("module Lib\nexport let a: byte;\nexport let b: byte;")))
	registry.Register(prog)
	// Stale cache: still one resolution.
	if resolved, _ := resolver.ResolveImports(main); len(resolved) != 1 {
		t.Errorf("cache was not used")
	}
	// Invalidate and retry.
	resolver.ClearCache()
	//
	if resolved, _ := resolver.ResolveImports(main); len(resolved) != 2 {
		t.Errorf("cache was not invalidated")
	}
}
