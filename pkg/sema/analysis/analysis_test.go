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
package analysis

import (
	"testing"

	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/parser"
	"github.com/blendsdk/blend65/pkg/sema"
	"github.com/blendsdk/blend65/pkg/util/source"
)

func analyze(t *testing.T, input string) *Result {
	t.Helper()
	//
	prog, diags := parser.Parse(source.NewSourceFile("test.b65", []byte(input)))
	//
	if diag.HasErrors(diags) {
		t.Fatalf("parse errors: %v", diags)
	}
	//
	return NewAnalyzer(DefaultConfig()).Analyze(prog)
}

func countCode(diags []diag.Diagnostic, code diag.Code) int {
	count := 0
	//
	for _, d := range diags {
		if d.Code == code {
			count++
		}
	}
	//
	return count
}

// S3: a variable assigned on only one branch of an if is possibly
// uninitialised at a later read: exactly one warning.
func TestDefinite_01(t *testing.T) {
	result := analyze(t, `
		module test
		function main(): void {
			let i: byte;
			if (true) { i = 1; }
			let j: byte = i;
			g(j);
		}
		function g(v: byte): void {}`)
	//
	if n := countCode(result.Diagnostics, diag.DaUsedBeforeAssigned); n != 1 {
		t.Errorf("got %d possibly-uninitialised warnings: %v", n, result.Diagnostics)
	}
}

// Assigned on both branches: no warning.
func TestDefinite_02(t *testing.T) {
	result := analyze(t, `
		function main(): void {
			let i: byte;
			if (true) { i = 1; } else { i = 2; }
			let j: byte = i;
			g(j);
		}
		function g(v: byte): void {}`)
	//
	if n := countCode(result.Diagnostics, diag.DaUsedBeforeAssigned); n != 0 {
		t.Errorf("unexpected warnings: %v", result.Diagnostics)
	}
}

// Never assigned on any path: an error, not just a warning.
func TestDefinite_03(t *testing.T) {
	result := analyze(t, `
		function main(): void {
			let i: byte;
			let j: byte = i;
			g(j);
		}
		function g(v: byte): void {}`)
	//
	if n := countCode(result.Diagnostics, diag.DaNeverAssigned); n != 1 {
		t.Errorf("got %d never-assigned errors: %v", n, result.Diagnostics)
	}
}

// Parameters and initialised declarations start definitely assigned.
func TestDefinite_04(t *testing.T) {
	result := analyze(t, `
		function main(a: byte): void {
			let b: byte = a;
			g(b);
		}
		function g(v: byte): void {}`)
	//
	if n := countCode(result.Diagnostics, diag.DaUsedBeforeAssigned) +
		countCode(result.Diagnostics, diag.DaNeverAssigned); n != 0 {
		t.Errorf("unexpected diagnostics: %v", result.Diagnostics)
	}
}

// A loop-carried assignment satisfies reads in later iterations of the same
// variable written before the read on every path.
func TestDefinite_05(t *testing.T) {
	result := analyze(t, `
		function main(): void {
			let acc: byte;
			acc = 0;
			for (i = 0 to 9) {
				acc += i;
			}
			g(acc);
		}
		function g(v: byte): void {}`)
	//
	if n := countCode(result.Diagnostics, diag.DaUsedBeforeAssigned); n != 0 {
		t.Errorf("unexpected warnings: %v", result.Diagnostics)
	}
}

func TestUsage_01(t *testing.T) {
	result := analyze(t, `
		function main(): void {
			let used: byte = 1;
			let unused: byte = 2;
			g(used);
		}
		function g(v: byte): void {}`)
	//
	if n := countCode(result.Diagnostics, diag.UnusedVariable); n != 1 {
		t.Errorf("got %d unused-variable warnings: %v", n, result.Diagnostics)
	}
}

func TestUsage_02(t *testing.T) {
	result := analyze(t, `
		function g(used: byte, unused: byte): byte { return used; }`)
	//
	if n := countCode(result.Diagnostics, diag.UnusedParameter); n != 1 {
		t.Errorf("got %d unused-parameter warnings: %v", n, result.Diagnostics)
	}
}

// Loop counters never draw unused advisories.
func TestUsage_03(t *testing.T) {
	result := analyze(t, `
		function main(): void {
			for (i = 0 to 9) { nop(); }
		}`)
	//
	if n := countCode(result.Diagnostics, diag.UnusedVariable); n != 0 {
		t.Errorf("loop counter drew an advisory: %v", result.Diagnostics)
	}
}

// Unreachable code warns once, deduplicated by position.
func TestDeadCode_01(t *testing.T) {
	result := analyze(t, `
		function main(): void {
			return;
			nop();
		}`)
	//
	if n := countCode(result.Diagnostics, diag.UnreachableCode); n != 1 {
		t.Errorf("got %d unreachable warnings: %v", n, result.Diagnostics)
	}
}

// Direct recursion is flagged.
func TestCallGraph_01(t *testing.T) {
	result := analyze(t, `
		function f(n: byte): byte {
			if (n == 0) { return 1; }
			return f(n - 1);
		}`)
	//
	if !result.CallGraph.Recursive["f"] {
		t.Errorf("self-recursion not flagged")
	}
	//
	if n := countCode(result.Diagnostics, diag.RecursiveFunction); n != 1 {
		t.Errorf("got %d recursion warnings", n)
	}
}

// Mutual recursion forms a component of size two.
func TestCallGraph_02(t *testing.T) {
	result := analyze(t, `
		function even(n: byte): bool {
			if (n == 0) { return true; }
			return odd(n - 1);
		}
		function odd(n: byte): bool {
			if (n == 0) { return false; }
			return even(n - 1);
		}`)
	//
	if !result.CallGraph.Recursive["even"] || !result.CallGraph.Recursive["odd"] {
		t.Errorf("mutual recursion not flagged")
	}
}

func TestCallGraph_03(t *testing.T) {
	result := analyze(t, `
		function leaf(): void {}
		function caller(): void { leaf(); }`)
	//
	if !result.CallGraph.Calls("caller", "leaf") {
		t.Errorf("call edge missing")
	}
	//
	if len(result.CallGraph.Recursive) != 0 {
		t.Errorf("spurious recursion flags")
	}
}

// Liveness: a variable read after a node is live out of it.
func TestLiveness_01(t *testing.T) {
	result := analyze(t, `
		function main(a: byte): byte {
			let b: byte = a + 1;
			let c: byte = b + 1;
			return c;
		}`)
	//
	liveness := result.Liveness["main"]
	if liveness == nil {
		t.Fatalf("no liveness result")
	}
	//
	graph := result.CFGs["main"]
	// At the entry, 'a' must be live (it is read before any write).
	var aLive bool
	//
	for _, sym := range liveness.Vars {
		if sym.Name == "a" && liveness.LiveAt(sym, graph.Entry) {
			aLive = true
		}
	}
	//
	if !aLive {
		t.Errorf("parameter not live at entry")
	}
}

// Purity: writers of globals and machine-state intrinsics are impure, and
// impurity propagates to callers.
func TestPurity_01(t *testing.T) {
	result := analyze(t, `
		let g: byte;
		function pureAdd(a: byte, b: byte): byte { return a + b; }
		function writer(): void { g = 1; }
		function io(): byte { return peek($D012); }
		function caller(): void { writer(); }
		callback function irq(): void { }`)
	//
	checkPurity(t, result, "pureAdd", true)
	checkPurity(t, result, "writer", false)
	checkPurity(t, result, "io", false)
	checkPurity(t, result, "caller", false)
	checkPurity(t, result, "irq", false)
}

// lo/hi/length are pure intrinsics.
func TestPurity_02(t *testing.T) {
	result := analyze(t, `
		function split(w: word): byte { return lo(w) + hi(w); }`)
	//
	checkPurity(t, result, "split", true)
}

func checkPurity(t *testing.T, result *Result, name string, expected bool) {
	t.Helper()
	//
	if result.Purity[name] != expected {
		t.Errorf("purity of %s: got %v, expected %v", name, result.Purity[name], expected)
	}
}

// Loop analysis: compile-time trip counts and unroll flags.
func TestLoops_01(t *testing.T) {
	result := analyze(t, `
		function main(n: byte): void {
			for (i = 0 to 7) { nop(); }
			for (j = 10 downto 0 step 2) { nop(); }
			for (k = 0 to n) { nop(); }
			while (n > 0) { n -= 1; }
		}`)
	//
	if len(result.Loops) != 4 {
		t.Fatalf("got %d loops", len(result.Loops))
	}
	//
	checkLoop(t, result.Loops[0], 8, true)
	checkLoop(t, result.Loops[1], 6, true)
	checkLoop(t, result.Loops[2], -1, false)
	checkLoop(t, result.Loops[3], -1, false)
}

func checkLoop(t *testing.T, info LoopInfo, trips int64, unroll bool) {
	t.Helper()
	//
	if info.TripCount != trips || info.Unrollable != unroll {
		t.Errorf("got trip count %d (unroll %v), expected %d (%v)",
			info.TripCount, info.Unrollable, trips, unroll)
	}
}

// Target hints: pointer-accessed variables lead the zero-page candidates;
// small functions inline; trailing calls flag tail-call candidates.
func TestHints_01(t *testing.T) {
	result := analyze(t, `
		let buffer: byte[8];
		let hot: byte;
		function tiny(): byte { return 1; }
		function main(): void {
			let p: word = @buffer;
			for (i = 0 to 7) {
				hot = hot + i;
			}
			pokew($10, p);
			tiny();
		}`)
	//
	hints := result.Hints
	if hints == nil {
		t.Fatalf("no hints")
	}
	//
	if !containsName(hints.ZeroPageCandidates, "buffer") {
		t.Errorf("pointer-accessed array not a zero-page candidate")
	}
	//
	if !containsString(hints.InlineCandidates, "tiny") {
		t.Errorf("tiny function not an inline candidate")
	}
	//
	if !containsString(hints.TailCallCandidates, "main") {
		t.Errorf("trailing call not a tail-call candidate")
	}
	// The loop-heavy variable ranks above the once-written pointer.
	if len(hints.HotVariables) == 0 || hints.HotVariables[0].Name != "hot" {
		t.Errorf("hot variable not ranked first")
	}
}

func containsName(syms []*sema.Symbol, name string) bool {
	for _, sym := range syms {
		if sym.Name == name {
			return true
		}
	}
	//
	return false
}

func containsString(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	//
	return false
}
