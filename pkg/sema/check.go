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
	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/types"
)

// CheckResult is the product of the type-checking pass: the type of every
// expression, and the symbol every identifier resolved to.
type CheckResult struct {
	// ExprTypes maps each expression to its computed type.
	ExprTypes map[ast.Expr]types.Type
	// Bindings maps each identifier to the symbol it resolved to.
	Bindings map[*ast.Ident]*Symbol
}

// TypeOf returns the computed type of an expression, or nil when checking it
// failed.
func (p *CheckResult) TypeOf(e ast.Expr) types.Type {
	return p.ExprTypes[e]
}

// Binding returns the symbol an identifier resolved to, or nil.
func (p *CheckResult) Binding(id *ast.Ident) *Symbol {
	return p.Bindings[id]
}

// Checker walks the typed AST computing the type of every expression and
// reporting mismatches.  A failed sub-expression yields a nil type, which
// suppresses cascading diagnostics in enclosing expressions.
type Checker struct {
	sink   *diag.Sink
	table  *SymbolTable
	named  map[string]types.Type
	result *CheckResult
	// Scope currently in effect.
	scope *Scope
	// Function symbol currently being checked.
	fn *Symbol
}

// Check runs the type-checking pass over a program.
func Check(prog *ast.Program, table *SymbolTable, named map[string]types.Type, sink *diag.Sink) *CheckResult {
	checker := &Checker{
		sink:  sink,
		table: table,
		named: named,
		result: &CheckResult{
			ExprTypes: make(map[ast.Expr]types.Type),
			Bindings:  make(map[*ast.Ident]*Symbol),
		},
		scope: table.Module,
	}
	//
	for _, decl := range prog.Decls {
		checker.checkDecl(decl)
	}
	//
	return checker.result
}

func (p *Checker) checkDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		p.checkVarDecl(d)
	case *ast.FuncDecl:
		p.checkFuncDecl(d)
	}
}

func (p *Checker) checkVarDecl(d *ast.VarDecl) {
	sym := p.scope.Lookup(d.Name.Name)
	if sym != nil {
		p.result.Bindings[d.Name] = sym
	}
	//
	if sym == nil || sym.Type == nil {
		// Resolution already failed and reported.
		if d.Init != nil {
			p.checkExpr(d.Init)
		}
		//
		return
	}
	// Memory-mapped declarations need a constant address.
	if d.Storage == ast.StorageMap && d.MapAddress != nil {
		if _, ok := ConstEval(d.MapAddress); !ok {
			p.sink.Error(d.MapAddress.Span(), diag.TypeMismatch,
				"'@map' requires a constant address")
		}
	}
	//
	if d.Init == nil {
		return
	}
	//
	init := p.checkExpr(d.Init)
	if init == nil {
		return
	}
	//
	if !types.AssignableTo(init, sym.Type) {
		p.sink.Error(d.Init.Span(), diag.TypeMismatch,
			"cannot assign %s to '%s' of type %s", init, d.Name.Name, sym.Type)
	}
}

func (p *Checker) checkFuncDecl(d *ast.FuncDecl) {
	if d.Body == nil {
		return
	}
	//
	sym := p.table.Module.LookupLocal(d.Name.Name)
	if sym == nil {
		return
	}
	//
	saved, savedFn := p.scope, p.fn
	p.fn = sym
	//
	if scope := p.table.ScopeOf(d); scope != nil {
		p.scope = scope
	}
	//
	for _, s := range d.Body.Stmts {
		p.checkStmt(s)
	}
	//
	p.scope, p.fn = saved, savedFn
}

// ============================================================================
// Statements
// ============================================================================

//nolint:gocyclo
func (p *Checker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		p.checkVarDecl(s)
	case *ast.Block:
		p.inScope(s, func() {
			for _, stmt := range s.Stmts {
				p.checkStmt(stmt)
			}
		})
	case *ast.ExprStmt:
		p.checkExpr(s.X)
	case *ast.Return:
		p.checkReturn(s)
	case *ast.If:
		p.checkCondition(s.Cond)
		p.checkStmt(s.Then)
		//
		if s.Else != nil {
			p.checkStmt(s.Else)
		}
	case *ast.While:
		p.checkCondition(s.Cond)
		p.checkLoopBody(s, s.Body)
	case *ast.DoWhile:
		p.checkLoopBody(s, s.Body)
		p.checkCondition(s.Cond)
	case *ast.For:
		p.checkFor(s)
	case *ast.Switch:
		p.checkCases(s.Value, s.Cases)
	case *ast.Match:
		p.checkCases(s.Value, s.Cases)
	}
}

// Enter the scope registered for a node, when one exists.
func (p *Checker) inScope(node ast.Node, fn func()) {
	saved := p.scope
	//
	if scope := p.table.ScopeOf(node); scope != nil {
		p.scope = scope
	}
	//
	fn()
	p.scope = saved
}

// A loop body's statements live in the loop scope.
func (p *Checker) checkLoopBody(loop ast.Stmt, body *ast.Block) {
	saved := p.scope
	//
	if scope := p.table.ScopeOf(loop); scope != nil {
		p.scope = scope
	}
	//
	for _, stmt := range body.Stmts {
		p.checkStmt(stmt)
	}
	//
	p.scope = saved
}

func (p *Checker) checkFor(s *ast.For) {
	saved := p.scope
	//
	if scope := p.table.ScopeOf(s); scope != nil {
		p.scope = scope
	}
	//
	counter := p.scope.Lookup(s.Counter.Name)
	if counter != nil {
		p.result.Bindings[s.Counter] = counter
	}
	//
	bounds := []ast.Expr{s.From, s.To}
	if s.Step != nil {
		bounds = append(bounds, s.Step)
	}
	//
	for _, bound := range bounds {
		t := p.checkExpr(bound)
		//
		if t != nil && counter != nil && counter.Type != nil && !types.AssignableTo(t, counter.Type) {
			p.sink.Error(bound.Span(), diag.TypeMismatch,
				"loop bound of type %s does not fit counter type %s", t, counter.Type)
		}
	}
	//
	for _, stmt := range s.Body.Stmts {
		p.checkStmt(stmt)
	}
	//
	p.scope = saved
}

func (p *Checker) checkReturn(s *ast.Return) {
	if p.fn == nil {
		return
	}
	//
	ret := p.fn.Type.(*types.FuncType).Return()
	//
	if s.Value == nil {
		if types.Resolve(ret) != types.Void {
			p.sink.Error(s.Span(), diag.TypeMismatch,
				"'%s' must return a value of type %s", p.fn.Name, ret)
		}
		//
		return
	}
	//
	value := p.checkExpr(s.Value)
	//
	if types.Resolve(ret) == types.Void {
		p.sink.Error(s.Value.Span(), diag.TypeMismatch,
			"'%s' has no return value", p.fn.Name)
		//
		return
	}
	//
	if value != nil && !types.AssignableTo(value, ret) {
		p.sink.Error(s.Value.Span(), diag.TypeMismatch,
			"cannot return %s from '%s' returning %s", value, p.fn.Name, ret)
	}
}

// Case values must be constant and comparable with the scrutinee.
func (p *Checker) checkCases(value ast.Expr, cases []*ast.CaseClause) {
	scrutinee := p.checkExpr(value)
	//
	if scrutinee != nil && !types.IsNumeric(scrutinee) && types.Resolve(scrutinee) != types.Bool {
		p.sink.Error(value.Span(), diag.TypeMismatch,
			"cannot switch over a value of type %s", scrutinee)
	}
	//
	for _, c := range cases {
		if c.Value != nil {
			t := p.checkExpr(c.Value)
			//
			if t != nil && scrutinee != nil && types.Widen(t, scrutinee) == nil {
				p.sink.Error(c.Value.Span(), diag.TypeMismatch,
					"case value of type %s does not match %s", t, scrutinee)
			}
		}
		//
		for _, stmt := range c.Body {
			p.checkStmt(stmt)
		}
	}
}

// Conditions coerce numerics to boolean implicitly (non-zero is true).
func (p *Checker) checkCondition(cond ast.Expr) {
	t := p.checkExpr(cond)
	//
	if t == nil {
		return
	}
	//
	if types.Resolve(t) != types.Bool && !types.IsNumeric(t) {
		p.sink.Error(cond.Span(), diag.TypeMismatch,
			"condition must be boolean or numeric, not %s", t)
	}
}

// ============================================================================
// Expressions
// ============================================================================

// checkExpr computes (and records) the type of an expression, or nil when
// checking failed.
//
//nolint:gocyclo
func (p *Checker) checkExpr(e ast.Expr) types.Type {
	var t types.Type
	//
	switch e := e.(type) {
	case *ast.NumberLit:
		t = p.checkNumberLit(e)
	case *ast.StringLit:
		t = types.String
	case *ast.BoolLit:
		t = types.Bool
	case *ast.CharLit:
		t = types.Byte
	case *ast.ArrayLit:
		t = p.checkArrayLit(e)
	case *ast.Ident:
		t = p.checkIdent(e)
	case *ast.Unary:
		t = p.checkUnary(e)
	case *ast.Binary:
		t = p.checkBinary(e)
	case *ast.Ternary:
		t = p.checkTernary(e)
	case *ast.Assign:
		t = p.checkAssign(e)
	case *ast.AddrOf:
		t = p.checkAddrOf(e)
	case *ast.Call:
		t = p.checkCall(e)
	case *ast.Index:
		t = p.checkIndex(e)
	case *ast.Member:
		t = p.checkMember(e)
	case *ast.BadExpr:
		return nil
	}
	//
	if t != nil {
		p.result.ExprTypes[e] = t
	}
	//
	return t
}

// Numeric literals infer the smallest fitting unsigned type; values beyond
// 16 bits are hard errors.
func (p *Checker) checkNumberLit(e *ast.NumberLit) types.Type {
	switch {
	case e.Value <= 255:
		return types.Byte
	case e.Value <= 65535:
		return types.Word
	default:
		p.sink.Error(e.Span(), diag.LiteralOverflow,
			"literal %s exceeds the 16-bit range", e.Lexeme)
		//
		return types.Word
	}
}

// Array literal elements widen to a common type; an empty literal, or a mix
// of numeric and non-numeric elements, is an error.
func (p *Checker) checkArrayLit(e *ast.ArrayLit) types.Type {
	if len(e.Elements) == 0 {
		p.sink.Error(e.Span(), diag.EmptyArrayLiteral, "array literal requires at least one element")
		return nil
	}
	//
	var common types.Type
	//
	for i, element := range e.Elements {
		t := p.checkExpr(element)
		if t == nil {
			return nil
		}
		//
		if i == 0 {
			common = t
			continue
		}
		//
		widened := types.Widen(common, t)
		if widened == nil {
			p.sink.Error(element.Span(), diag.TypeMismatch,
				"array element of type %s is incompatible with %s", t, common)
			//
			return nil
		}
		//
		common = widened
	}
	//
	return types.NewArrayType(common, uint32(len(e.Elements)))
}

func (p *Checker) checkIdent(e *ast.Ident) types.Type {
	sym := p.scope.Lookup(e.Name)
	//
	if sym == nil {
		p.sink.Error(e.Span(), diag.UnknownSymbol, "unknown symbol '%s'", e.Name)
		return nil
	}
	//
	p.result.Bindings[e] = sym
	//
	return sym.Type
}

func (p *Checker) checkUnary(e *ast.Unary) types.Type {
	operand := p.checkExpr(e.Operand)
	if operand == nil {
		return nil
	}
	//
	switch e.Op {
	case ast.OpLogNot:
		// Numeric operands coerce to boolean (non-zero is true).
		if !types.IsNumeric(operand) && types.Resolve(operand) != types.Bool {
			p.sink.Error(e.Operand.Span(), diag.TypeMismatch,
				"operator '!' requires a boolean or numeric operand, not %s", operand)
			//
			return nil
		}
		//
		return types.Bool
	case ast.OpNeg, ast.OpBitNot:
		if !types.IsNumeric(operand) {
			p.sink.Error(e.Operand.Span(), diag.TypeMismatch,
				"operator '%s' requires a numeric operand, not %s", e.Op, operand)
			//
			return nil
		}
		//
		return types.Widen(operand, types.Byte)
	default:
		return nil
	}
}

func (p *Checker) checkBinary(e *ast.Binary) types.Type {
	lhs := p.checkExpr(e.Lhs)
	rhs := p.checkExpr(e.Rhs)
	//
	if lhs == nil || rhs == nil {
		return nil
	}
	//
	switch {
	case e.Op.IsLogical():
		// Logical operators admit numeric operands (documented behaviour):
		// each side is implicitly compared against zero.
		for _, side := range []struct {
			t types.Type
			e ast.Expr
		}{{lhs, e.Lhs}, {rhs, e.Rhs}} {
			if !types.IsNumeric(side.t) && types.Resolve(side.t) != types.Bool {
				p.sink.Error(side.e.Span(), diag.TypeMismatch,
					"operator '%s' requires boolean or numeric operands, not %s", e.Op, side.t)
				//
				return nil
			}
		}
		//
		return types.Bool
	case e.Op.IsComparison():
		if types.Widen(lhs, rhs) == nil {
			p.sink.Error(e.Span(), diag.TypeMismatch,
				"cannot compare %s with %s", lhs, rhs)
			//
			return nil
		}
		//
		return types.Bool
	default:
		// Arithmetic and bitwise operators widen operands to their maximum.
		widened := types.Widen(lhs, rhs)
		//
		if widened == nil || !types.IsNumeric(widened) {
			p.sink.Error(e.Span(), diag.TypeMismatch,
				"operator '%s' cannot combine %s and %s", e.Op, lhs, rhs)
			//
			return nil
		}
		// Division and modulo by a compile-time zero are errors.
		if (e.Op == ast.OpDiv || e.Op == ast.OpMod) && IsConstZero(e.Rhs) {
			p.sink.Error(e.Rhs.Span(), diag.DivisionByZero, "division by zero")
			return nil
		}
		//
		return widened
	}
}

func (p *Checker) checkTernary(e *ast.Ternary) types.Type {
	p.checkCondition(e.Cond)
	//
	then := p.checkExpr(e.Then)
	els := p.checkExpr(e.Else)
	//
	if then == nil || els == nil {
		return nil
	}
	//
	result := types.Widen(then, els)
	if result == nil {
		p.sink.Error(e.Span(), diag.TypeMismatch,
			"ternary branches have incompatible types %s and %s", then, els)
		//
		return nil
	}
	//
	return result
}

func (p *Checker) checkAssign(e *ast.Assign) types.Type {
	target := p.checkExpr(e.Target)
	value := p.checkExpr(e.Value)
	// Constants and non-assignable targets are rejected.
	if id, ok := e.Target.(*ast.Ident); ok {
		if sym := p.result.Bindings[id]; sym != nil {
			if sym.Kind == ConstantSymbol || sym.Kind == EnumMemberSymbol || sym.Kind == FunctionSymbol {
				p.sink.Error(id.Span(), diag.NotAssignable,
					"cannot assign to %s '%s'", sym.Kind, sym.Name)
				//
				return nil
			}
		}
	}
	//
	if target == nil || value == nil {
		return nil
	}
	//
	if !target.IsAssignable() {
		p.sink.Error(e.Target.Span(), diag.NotAssignable,
			"values of type %s cannot be assigned", target)
		//
		return nil
	}
	// Compound assignment inherits the target's type; the combination must
	// be numeric.
	if e.Op != ast.OpNone && !types.IsNumeric(target) {
		p.sink.Error(e.Target.Span(), diag.TypeMismatch,
			"operator '%s=' requires a numeric target, not %s", e.Op, target)
		//
		return nil
	}
	//
	if !types.AssignableTo(value, target) {
		p.sink.Error(e.Value.Span(), diag.TypeMismatch,
			"cannot assign %s to target of type %s", value, target)
		//
		return nil
	}
	//
	return target
}

func (p *Checker) checkAddrOf(e *ast.AddrOf) types.Type {
	switch e.Operand.(type) {
	case *ast.Ident, *ast.Index:
		if p.checkExpr(e.Operand) == nil {
			return nil
		}
		// Addresses are 16-bit.
		return types.Word
	default:
		p.sink.Error(e.Operand.Span(), diag.TypeMismatch,
			"'@' requires a variable or array element")
		//
		return nil
	}
}

func (p *Checker) checkCall(e *ast.Call) types.Type {
	callee, ok := e.Callee.(*ast.Ident)
	if !ok {
		p.sink.Error(e.Callee.Span(), diag.NotCallable, "only named functions can be called")
		return nil
	}
	//
	sym := p.scope.Lookup(callee.Name)
	if sym == nil {
		p.sink.Error(callee.Span(), diag.UnknownSymbol, "unknown function '%s'", callee.Name)
		return nil
	}
	//
	p.result.Bindings[callee] = sym
	//
	fn, isFn := types.Resolve(sym.Type).(*types.FuncType)
	if sym.Type == nil || !isFn {
		p.sink.Error(callee.Span(), diag.NotCallable, "'%s' is not a function", callee.Name)
		return nil
	}
	// The length intrinsic accepts any array argument.
	if sym.Kind == IntrinsicSymbol && callee.Name == "length" {
		return p.checkLengthCall(e, fn)
	}
	//
	if len(e.Args) != len(fn.Params()) {
		p.sink.Error(e.Span(), diag.WrongArgumentCount,
			"'%s' expects %d arguments, got %d", callee.Name, len(fn.Params()), len(e.Args))
		//
		return fn.Return()
	}
	//
	for i, arg := range e.Args {
		t := p.checkExpr(arg)
		// Parameters whose annotation failed to resolve are skipped; the
		// resolution error was already reported.
		if t != nil && fn.Params()[i] != nil && !types.AssignableTo(t, fn.Params()[i]) {
			p.sink.Error(arg.Span(), diag.TypeMismatch,
				"argument %d of '%s' requires %s, got %s", i+1, callee.Name, fn.Params()[i], t)
		}
	}
	//
	return fn.Return()
}

func (p *Checker) checkLengthCall(e *ast.Call, fn *types.FuncType) types.Type {
	if len(e.Args) != 1 {
		p.sink.Error(e.Span(), diag.WrongArgumentCount,
			"'length' expects 1 argument, got %d", len(e.Args))
		//
		return fn.Return()
	}
	//
	t := p.checkExpr(e.Args[0])
	//
	if t != nil {
		if _, isArray := types.Resolve(t).(*types.ArrayType); !isArray && types.Resolve(t) != types.String {
			p.sink.Error(e.Args[0].Span(), diag.TypeMismatch,
				"'length' requires an array or string, got %s", t)
		}
	}
	//
	return fn.Return()
}

func (p *Checker) checkIndex(e *ast.Index) types.Type {
	target := p.checkExpr(e.Target)
	index := p.checkExpr(e.Index)
	//
	if index != nil && !types.AssignableTo(index, types.Word) {
		p.sink.Error(e.Index.Span(), diag.TypeMismatch,
			"array index must be numeric, got %s", index)
	}
	//
	if target == nil {
		return nil
	}
	//
	array, ok := types.Resolve(target).(*types.ArrayType)
	if !ok {
		p.sink.Error(e.Target.Span(), diag.NotAnArray,
			"cannot index a value of type %s", target)
		//
		return nil
	}
	//
	return array.Element()
}

// Member access is limited to enum-qualified names.
func (p *Checker) checkMember(e *ast.Member) types.Type {
	id, ok := e.Target.(*ast.Ident)
	if !ok {
		p.sink.Error(e.Span(), diag.InvalidMember, "member access requires an enum name")
		return nil
	}
	//
	enum, ok := p.named[id.Name].(*types.EnumType)
	if !ok {
		p.sink.Error(id.Span(), diag.InvalidMember, "'%s' is not an enum", id.Name)
		return nil
	}
	//
	if _, ok := enum.Member(e.Name); !ok {
		p.sink.Error(e.Span(), diag.UnknownSymbol,
			"enum '%s' has no member '%s'", id.Name, e.Name)
		//
		return nil
	}
	//
	return enum
}
