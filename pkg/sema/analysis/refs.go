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
	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/sema"
	"github.com/blendsdk/blend65/pkg/sema/cfg"
)

// varRef is a single read or write of a symbol, anchored at the identifier
// which performed it.
type varRef struct {
	sym   *sema.Symbol
	ident *ast.Ident
	write bool
}

// nodeExprs extracts the expressions which actually belong to a CFG node.  A
// branch node built from an if statement owns only the condition, not the
// branch bodies (those have their own nodes).
func nodeExprs(node *cfg.Node) []ast.Expr {
	switch syntax := node.Syntax.(type) {
	case *ast.VarDecl:
		if syntax.Init != nil {
			return []ast.Expr{syntax.Init}
		}
	case *ast.ExprStmt:
		return []ast.Expr{syntax.X}
	case *ast.Return:
		if syntax.Value != nil {
			return []ast.Expr{syntax.Value}
		}
	case *ast.If:
		return []ast.Expr{syntax.Cond}
	case *ast.While:
		return []ast.Expr{syntax.Cond}
	case *ast.DoWhile:
		// The body-entry marker owns nothing; the branch owns the condition.
		if node.Kind == cfg.BranchNode {
			return []ast.Expr{syntax.Cond}
		}
	case *ast.For:
		exprs := []ast.Expr{syntax.From, syntax.To}
		if syntax.Step != nil {
			exprs = append(exprs, syntax.Step)
		}
		//
		return exprs
	case *ast.Switch:
		return []ast.Expr{syntax.Value}
	case *ast.Match:
		return []ast.Expr{syntax.Value}
	case *ast.CaseClause:
		if syntax.Value != nil {
			return []ast.Expr{syntax.Value}
		}
	}
	//
	return nil
}

// nodeRefs computes the variable reads and writes a CFG node performs,
// restricted to symbols accepted by the filter.
func nodeRefs(node *cfg.Node, check *sema.CheckResult, accept func(*sema.Symbol) bool) []varRef {
	var refs []varRef
	//
	for _, e := range nodeExprs(node) {
		refs = exprRefs(e, check, accept, refs)
	}
	// A variable declaration with an initialiser writes its variable.
	if d, ok := node.Syntax.(*ast.VarDecl); ok && d.Init != nil {
		if sym := check.Binding(d.Name); sym != nil && accept(sym) {
			refs = append(refs, varRef{sym, d.Name, true})
		}
	}
	// A for-loop header writes (and steps) its counter.
	if d, ok := node.Syntax.(*ast.For); ok && node.Kind == cfg.LoopNode {
		if sym := check.Binding(d.Counter); sym != nil && accept(sym) {
			refs = append(refs, varRef{sym, d.Counter, true})
		}
	}
	//
	return refs
}

// exprRefs walks an expression, classifying identifier occurrences as reads
// or writes.  An identifier on the left of a plain assignment is a write; a
// compound assignment both reads and writes it.
func exprRefs(e ast.Expr, check *sema.CheckResult, accept func(*sema.Symbol) bool,
	refs []varRef) []varRef {
	switch e := e.(type) {
	case *ast.Ident:
		if sym := check.Binding(e); sym != nil && accept(sym) {
			refs = append(refs, varRef{sym, e, false})
		}
	case *ast.Assign:
		if id, ok := e.Target.(*ast.Ident); ok {
			sym := check.Binding(id)
			//
			if sym != nil && accept(sym) {
				// Compound assignment reads before it writes.
				if e.Op != ast.OpNone {
					refs = append(refs, varRef{sym, id, false})
				}
				//
				refs = append(refs, varRef{sym, id, true})
			}
		} else {
			// Array element stores read the index and the array.
			refs = exprRefs(e.Target, check, accept, refs)
		}
		//
		refs = exprRefs(e.Value, check, accept, refs)
	case *ast.Unary:
		refs = exprRefs(e.Operand, check, accept, refs)
	case *ast.Binary:
		refs = exprRefs(e.Lhs, check, accept, refs)
		refs = exprRefs(e.Rhs, check, accept, refs)
	case *ast.Ternary:
		refs = exprRefs(e.Cond, check, accept, refs)
		refs = exprRefs(e.Then, check, accept, refs)
		refs = exprRefs(e.Else, check, accept, refs)
	case *ast.Call:
		for _, arg := range e.Args {
			refs = exprRefs(arg, check, accept, refs)
		}
	case *ast.Index:
		refs = exprRefs(e.Target, check, accept, refs)
		refs = exprRefs(e.Index, check, accept, refs)
	case *ast.AddrOf:
		// Taking an address counts as a read.
		refs = exprRefs(e.Operand, check, accept, refs)
	case *ast.ArrayLit:
		for _, element := range e.Elements {
			refs = exprRefs(element, check, accept, refs)
		}
	case *ast.Member:
		// Enum-qualified names reference no variable.
	}
	//
	return refs
}
