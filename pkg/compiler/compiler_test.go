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
package compiler

import (
	"testing"

	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/util/source"
)

func compile(input string) *Result {
	return Compile(source.NewSourceFile("test.b65", []byte(input)), DefaultConfig())
}

// The full pipeline: source in, IL module and artifacts out.
func TestCompile_01(t *testing.T) {
	result := compile(`
		module demo
		@map at $D020 let border: byte;
		let frame: word = 0;

		function main(): void {
			for (i = 0 to 7) {
				border = i;
			}
			frame += 1;
		}`)
	//
	if result.Failed() {
		t.Fatalf("unexpected errors: %v", result.Diagnostics)
	}
	//
	if result.IL == nil || result.IL.Function("main") == nil {
		t.Fatalf("no IL produced")
	}
	//
	if result.Analysis.CFGs["main"] == nil {
		t.Errorf("no CFG produced")
	}
	//
	if result.Analysis.Table.Module.LookupLocal("frame") == nil {
		t.Errorf("symbol table incomplete")
	}
}

// Errors suppress IL construction but not later diagnostics.
func TestCompile_02(t *testing.T) {
	result := compile(`
		let bad: nothing;
		let worse: byte = 256;`)
	//
	if !result.Failed() || result.IL != nil {
		t.Fatalf("errors did not fail the compile")
	}
	// Both unrelated errors surface.
	codes := make(map[diag.Code]bool)
	for _, d := range result.Diagnostics {
		codes[d.Code] = true
	}
	//
	if !codes[diag.UnknownType] || !codes[diag.TypeMismatch] {
		t.Errorf("diagnostics were suppressed: %v", result.Diagnostics)
	}
}

// Lexical and syntactic errors flow into the result too.
func TestCompile_03(t *testing.T) {
	result := compile("let s: byte = \"unterminated\n;")
	//
	if !result.Failed() {
		t.Errorf("lexical error did not fail the compile")
	}
}

// Cross-module compilation in topological order.
func TestCompileModules_01(t *testing.T) {
	sources := map[string]*source.File{
		"Lib.Math": source.NewSourceFile("math.b65", []byte(`
			module Lib.Math
			export function add(a: byte, b: byte): byte { return a + b; }`)),
		"Game.Main": source.NewSourceFile("main.b65", []byte(`
			module Game.Main
			import add from Lib.Math;
			function main(): void { nop(); }`)),
	}
	//
	results := CompileModules(sources, []string{"Lib.Math", "Game.Main"}, DefaultConfig())
	//
	for name, result := range results {
		if result.Failed() {
			t.Errorf("%s failed: %v", name, result.Diagnostics)
		}
	}
}

// Import failures are per identifier: the bad name errors, the module still
// reports everything else.
func TestCompileModules_02(t *testing.T) {
	sources := map[string]*source.File{
		"Lib.Math": source.NewSourceFile("math.b65", []byte(`
			module Lib.Math
			export function add(a: byte, b: byte): byte { return a + b; }`)),
		"Game.Main": source.NewSourceFile("main.b65", []byte(`
			module Game.Main
			import add, nonExistent from Lib.Math;`)),
	}
	//
	results := CompileModules(sources, []string{"Lib.Math", "Game.Main"}, DefaultConfig())
	//
	main := results["Game.Main"]
	if main == nil || !main.Failed() {
		t.Fatalf("missing import did not fail")
	}
	//
	found := false
	for _, d := range main.Diagnostics {
		if d.Code == diag.SymbolNotFound {
			found = true
		}
	}
	//
	if !found {
		t.Errorf("expected SYMBOL_NOT_FOUND, got %v", main.Diagnostics)
	}
}
