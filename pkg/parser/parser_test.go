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
package parser

import (
	"testing"

	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/util/source"
)

func TestParse_01(t *testing.T) {
	prog := parseValid(t, "let x: word = $D020;")
	//
	if len(prog.Decls) != 1 {
		t.Fatalf("got %d declarations", len(prog.Decls))
	}
	//
	decl, ok := prog.Decls[0].(*ast.VarDecl)
	if !ok || decl.Name.Name != "x" || decl.Const {
		t.Fatalf("unexpected declaration %v", prog.Decls[0])
	}
	//
	init, ok := decl.Init.(*ast.NumberLit)
	if !ok || init.Value != 0xD020 || init.Lexeme != "$D020" {
		t.Errorf("unexpected initialiser")
	}
	// Implicit module.
	if prog.Name() != "global" {
		t.Errorf("got module %q", prog.Name())
	}
}

func TestParse_02(t *testing.T) {
	prog := parseValid(t, "module Game.Main\nlet x: byte;")
	//
	if prog.Name() != "Game.Main" {
		t.Errorf("got module %q", prog.Name())
	}
}

// Precedence: a + b * c parses as a + (b * c).
func TestParseExpr_01(t *testing.T) {
	add := parseExprAs[*ast.Binary](t, "a + b * c")
	//
	if add.Op != ast.OpAdd {
		t.Fatalf("got root operator %s", add.Op)
	}
	//
	if mul, ok := add.Rhs.(*ast.Binary); !ok || mul.Op != ast.OpMul {
		t.Errorf("multiplication did not bind tighter")
	}
}

// Comparison binds tighter than logical-and, which binds tighter than or.
func TestParseExpr_02(t *testing.T) {
	or := parseExprAs[*ast.Binary](t, "a < b && c || d")
	//
	if or.Op != ast.OpLogOr {
		t.Fatalf("got root operator %s", or.Op)
	}
	//
	and, ok := or.Lhs.(*ast.Binary)
	if !ok || and.Op != ast.OpLogAnd {
		t.Fatalf("got lhs operator")
	}
	//
	if lt, ok := and.Lhs.(*ast.Binary); !ok || lt.Op != ast.OpLt {
		t.Errorf("comparison did not bind tighter")
	}
}

// Assignment is right-associative and supports compound forms.
func TestParseExpr_03(t *testing.T) {
	assign := parseExprAs[*ast.Assign](t, "a = b = c")
	//
	if inner, ok := assign.Value.(*ast.Assign); !ok || inner.Op != ast.OpNone {
		t.Errorf("assignment is not right-associative")
	}
	//
	compound := parseExprAs[*ast.Assign](t, "a += 1")
	//
	if compound.Op != ast.OpAdd {
		t.Errorf("got compound operator %s", compound.Op)
	}
}

func TestParseExpr_04(t *testing.T) {
	ternary := parseExprAs[*ast.Ternary](t, "a ? b : c")
	//
	if _, ok := ternary.Cond.(*ast.Ident); !ok {
		t.Errorf("unexpected ternary condition")
	}
}

// Postfix chains: call, index, member.
func TestParseExpr_05(t *testing.T) {
	call := parseExprAs[*ast.Call](t, "f(1, 2)")
	if len(call.Args) != 2 {
		t.Errorf("got %d arguments", len(call.Args))
	}
	//
	index := parseExprAs[*ast.Index](t, "a[i + 1]")
	if _, ok := index.Index.(*ast.Binary); !ok {
		t.Errorf("unexpected index expression")
	}
	//
	member := parseExprAs[*ast.Member](t, "Direction.UP")
	if member.Name != "UP" {
		t.Errorf("got member %q", member.Name)
	}
}

// Address-of is a prefix unary.
func TestParseExpr_06(t *testing.T) {
	addr := parseExprAs[*ast.AddrOf](t, "@buffer")
	//
	if id, ok := addr.Operand.(*ast.Ident); !ok || id.Name != "buffer" {
		t.Errorf("unexpected address-of operand")
	}
}

func TestParseExpr_07(t *testing.T) {
	lit := parseExprAs[*ast.ArrayLit](t, "[1, 2, 3]")
	//
	if len(lit.Elements) != 3 {
		t.Errorf("got %d elements", len(lit.Elements))
	}
}

func TestParseStmt_01(t *testing.T) {
	fn := parseFunction(t, `
		function f(): void {
			if (a) { b = 1; } else if (c) { b = 2; } else { b = 3; }
		}`)
	//
	ifStmt, ok := fn.Body.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("expected if statement")
	}
	//
	chained, ok := ifStmt.Else.(*ast.If)
	if !ok {
		t.Fatalf("expected else-if chain")
	}
	//
	if _, ok := chained.Else.(*ast.Block); !ok {
		t.Errorf("expected final else block")
	}
}

func TestParseStmt_02(t *testing.T) {
	fn := parseFunction(t, `
		function f(): void {
			while (i < 10) { i += 1; }
			do { i -= 1; } while (i > 0);
		}`)
	//
	if _, ok := fn.Body.Stmts[0].(*ast.While); !ok {
		t.Errorf("expected while")
	}
	//
	if _, ok := fn.Body.Stmts[1].(*ast.DoWhile); !ok {
		t.Errorf("expected do-while")
	}
}

func TestParseStmt_03(t *testing.T) {
	fn := parseFunction(t, `
		function f(): void {
			for (i = 0 to 9) { g(i); }
			for (j = 10 downto 0 step 2) { g(j); }
		}`)
	//
	up, ok := fn.Body.Stmts[0].(*ast.For)
	if !ok || up.Down || up.Step != nil {
		t.Fatalf("unexpected upward loop")
	}
	//
	down, ok := fn.Body.Stmts[1].(*ast.For)
	if !ok || !down.Down || down.Step == nil {
		t.Fatalf("unexpected downward loop")
	}
}

func TestParseStmt_04(t *testing.T) {
	fn := parseFunction(t, `
		function f(): void {
			switch (x) {
				case 1: a = 1; break;
				case 2: a = 2;
				default: a = 3;
			}
			match (y) {
				case 1: b = 1;
				case 2: b = 2;
			}
		}`)
	//
	sw, ok := fn.Body.Stmts[0].(*ast.Switch)
	if !ok || len(sw.Cases) != 3 {
		t.Fatalf("unexpected switch")
	}
	//
	if !sw.Cases[2].IsDefault() {
		t.Errorf("default clause not recognised")
	}
	//
	m, ok := fn.Body.Stmts[1].(*ast.Match)
	if !ok || len(m.Cases) != 2 {
		t.Fatalf("unexpected match")
	}
}

// Keyword-terminated block form: "end if" closes the branch.
func TestParseStmt_05(t *testing.T) {
	fn := parseFunction(t, `
		function f(): void {
			if (a)
				b = 1;
			else
				b = 2;
			end if
		}`)
	//
	ifStmt, ok := fn.Body.Stmts[0].(*ast.If)
	if !ok || ifStmt.Else == nil {
		t.Fatalf("keyword-form if did not parse")
	}
}

// S2: break outside any loop yields exactly one BREAK_OUTSIDE_LOOP.
func TestParseScope_01(t *testing.T) {
	_, diags := parse("function f(): void { break; }")
	//
	count := 0
	for _, d := range diags {
		if d.Code == diag.BreakOutsideLoop {
			count++
		}
	}
	//
	if count != 1 {
		t.Errorf("got %d BREAK_OUTSIDE_LOOP diagnostics", count)
	}
}

// Break is valid inside switch (a loop-like break target).
func TestParseScope_02(t *testing.T) {
	parseValid(t, "function f(): void { switch (x) { case 1: break; } }")
}

// Continue is not valid inside switch without a loop.
func TestParseScope_03(t *testing.T) {
	_, diags := parse("function f(): void { switch (x) { case 1: continue; } }")
	checkCode(t, diags, diag.ContinueOutsideLoop)
}

// A function boundary prevents break escaping into an outer loop.
func TestParseScope_04(t *testing.T) {
	_, diags := parse("function f(): void { while (1) { g(); } break; }")
	checkCode(t, diags, diag.BreakOutsideLoop)
}

func TestParseScope_05(t *testing.T) {
	_, diags := parse("return 1;")
	checkCode(t, diags, diag.ReturnOutsideFunction)
}

func TestParseDecl_01(t *testing.T) {
	_, diags := parse("function f(a: byte, a: word): void {}")
	checkCode(t, diags, diag.DuplicateParameter)
}

func TestParseDecl_02(t *testing.T) {
	_, diags := parse("const k: byte;")
	checkCode(t, diags, diag.MissingInitializer)
}

func TestParseDecl_03(t *testing.T) {
	prog := parseValid(t, "enum Direction { UP = 3, DOWN, LEFT = 10, RIGHT }")
	//
	enum, ok := prog.Decls[0].(*ast.EnumDecl)
	if !ok || len(enum.Members) != 4 {
		t.Fatalf("unexpected enum")
	}
	//
	if enum.Members[1].Value != nil {
		t.Errorf("implicit member has explicit value")
	}
}

func TestParseDecl_04(t *testing.T) {
	prog := parseValid(t, "import add, mul from Lib.Math;\nimport * from Lib.IO;")
	//
	named, ok := prog.Decls[0].(*ast.ImportDecl)
	if !ok || len(named.Names) != 2 || named.FromName() != "Lib.Math" {
		t.Fatalf("unexpected named import")
	}
	//
	wildcard, ok := prog.Decls[1].(*ast.ImportDecl)
	if !ok || !wildcard.Wildcard || wildcard.FromName() != "Lib.IO" {
		t.Fatalf("unexpected wildcard import")
	}
}

func TestParseDecl_05(t *testing.T) {
	prog := parseValid(t, "export function f(): byte { return 1; }\nexport const K: byte = 1;")
	//
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok || !fn.Exported {
		t.Errorf("export modifier lost on function")
	}
	//
	k, ok := prog.Decls[1].(*ast.VarDecl)
	if !ok || !k.Exported || !k.Const {
		t.Errorf("export modifier lost on constant")
	}
}

// Stub declarations terminate with a semicolon.
func TestParseDecl_06(t *testing.T) {
	prog := parseValid(t, "function stub(a: byte): word;")
	//
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok || !fn.IsStub() {
		t.Errorf("stub not recognised")
	}
}

func TestParseDecl_07(t *testing.T) {
	prog := parseValid(t, "@map at $D020 let border: byte;\n@zp let fast: word;")
	//
	border := prog.Decls[0].(*ast.VarDecl)
	if border.Storage != ast.StorageMap || border.MapAddress == nil {
		t.Errorf("map storage not recognised")
	}
	//
	fast := prog.Decls[1].(*ast.VarDecl)
	if fast.Storage != ast.StorageZeroPage {
		t.Errorf("zero-page storage not recognised")
	}
}

func TestParseDecl_08(t *testing.T) {
	prog := parseValid(t, "type Buffer = byte[40];\ntype Handler = callback(byte): void;")
	//
	buffer := prog.Decls[0].(*ast.TypeDecl)
	if _, ok := buffer.Target.(*ast.ArrayTypeRef); !ok {
		t.Errorf("array alias not recognised")
	}
	//
	handler := prog.Decls[1].(*ast.TypeDecl)
	if _, ok := handler.Target.(*ast.CallbackTypeRef); !ok {
		t.Errorf("callback alias not recognised")
	}
}

func TestParseDecl_09(t *testing.T) {
	prog := parseValid(t, "callback function irq(): void { }")
	//
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok || !fn.Callback {
		t.Errorf("callback function not recognised")
	}
}

// Error recovery: a malformed declaration still yields a tree and one
// diagnostic, and parsing continues with the next declaration.
func TestParseRecovery_01(t *testing.T) {
	prog, diags := parse("let := 1;\nlet ok: byte = 2;")
	//
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics")
	}
	//
	found := false
	for _, d := range prog.Decls {
		if v, ok := d.(*ast.VarDecl); ok && v.Name.Name == "ok" {
			found = true
		}
	}
	//
	if !found {
		t.Errorf("parser did not recover to the next declaration")
	}
}

// Span monotonicity over the whole tree.
func TestParseSpans_01(t *testing.T) {
	prog := parseValid(t, "function f(a: byte): byte { return a + 1; }")
	//
	visitor := &spanChecker{t: t}
	ast.NewWalker(visitor).Walk(prog)
}

type spanChecker struct {
	ast.DefaultVisitor
	t *testing.T
}

func (p *spanChecker) Enter(n ast.Node) ast.Action {
	span := n.Span()
	//
	if span.IsKnown() && span.Start() > span.End() {
		p.t.Errorf("node %T has inverted span", n)
	}
	//
	return ast.Proceed
}

// ==================================================================
// Framework
// ==================================================================

func parse(input string) (*ast.Program, []diag.Diagnostic) {
	return Parse(source.NewSourceFile("test.b65", []byte(input)))
}

func parseValid(t *testing.T, input string) *ast.Program {
	t.Helper()
	//
	prog, diags := parse(input)
	//
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	//
	return prog
}

func parseFunction(t *testing.T, input string) *ast.FuncDecl {
	t.Helper()
	//
	prog := parseValid(t, input)
	//
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			return fn
		}
	}
	//
	t.Fatalf("no function in %q", input)
	//
	return nil
}

func parseExprAs[T ast.Expr](t *testing.T, input string) T {
	t.Helper()
	//
	fn := parseFunction(t, "function f(): void { "+input+"; }")
	//
	stmt, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("no expression statement for %q", input)
	}
	//
	expr, ok := stmt.X.(T)
	if !ok {
		t.Fatalf("%q parsed as %T", input, stmt.X)
	}
	//
	return expr
}

func checkCode(t *testing.T, diags []diag.Diagnostic, code diag.Code) {
	t.Helper()
	//
	for _, d := range diags {
		if d.Code == code {
			return
		}
	}
	//
	t.Errorf("expected diagnostic %s, got %v", code, diags)
}
