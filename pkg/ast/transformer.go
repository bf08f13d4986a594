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
package ast

// Rewriter produces replacement nodes during a transform.  Returning nil (or
// the node itself) keeps the node unchanged.  Implementations dispatch on the
// node's concrete type.
type Rewriter interface {
	Rewrite(n Node) Node
}

// IdentityRewriter rewrites nothing; transforming with it returns every node
// unchanged, by identity.
type IdentityRewriter struct{}

// Rewrite keeps every node.
func (p *IdentityRewriter) Rewrite(n Node) Node { return nil }

// Transformer rewrites an AST bottom-up with structural sharing: a node is
// reconstructed only when one of its children changed (or when the rewriter
// supplies a replacement); otherwise the original node is returned by
// identity, so unchanged subtrees are shared between the old and new trees.
// Reconstructed nodes inherit the span of their original.
type Transformer struct {
	rewriter Rewriter
}

// NewTransformer constructs a transformer around a given rewriter.
func NewTransformer(rewriter Rewriter) *Transformer {
	return &Transformer{rewriter}
}

// Transform rewrites a whole program.
func (p *Transformer) Transform(prog *Program) *Program {
	decls, changed := transformSlice(prog.Decls, p.TransformDecl)
	//
	out := prog
	if changed {
		out = NewProgram(prog.Span(), prog.Module, decls, prog.File)
	}
	//
	if r, ok := p.rewrite(out); ok {
		return r.(*Program)
	}
	//
	return out
}

// TransformDecl rewrites a single declaration.
func (p *Transformer) TransformDecl(d Decl) Decl {
	if d == nil {
		return nil
	}
	//
	var out = d
	//
	switch n := d.(type) {
	case *FuncDecl:
		body := n.Body
		if body != nil {
			body = p.transformBlock(n.Body)
		}
		//
		if body != n.Body {
			out = NewFuncDecl(n.Span(), n.Name, n.Params, n.Return, body, n.Exported, n.Callback)
		}
	case *VarDecl:
		addr := p.TransformExpr(n.MapAddress)
		init := p.TransformExpr(n.Init)
		//
		if addr != n.MapAddress || init != n.Init {
			out = NewVarDecl(n.Span(), n.Storage, addr, n.Const, n.Name, n.Type, init, n.Exported)
		}
	case *EnumDecl:
		members, changed := transformSlice(n.Members, p.transformEnumMember)
		if changed {
			out = NewEnumDecl(n.Span(), n.Name, members, n.Exported)
		}
	}
	//
	if r, ok := p.rewrite(out); ok {
		return r.(Decl)
	}
	//
	return out
}

// TransformStmt rewrites a single statement.
//
//nolint:gocyclo
func (p *Transformer) TransformStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	//
	var out = s
	//
	switch n := s.(type) {
	case *Block:
		out = p.transformBlock(n)
	case *ExprStmt:
		if x := p.TransformExpr(n.X); x != n.X {
			out = NewExprStmt(n.Span(), x)
		}
	case *Return:
		if v := p.TransformExpr(n.Value); v != n.Value {
			out = NewReturn(n.Span(), v)
		}
	case *If:
		cond := p.TransformExpr(n.Cond)
		then := p.transformBlock(n.Then)
		els := p.TransformStmt(n.Else)
		//
		if cond != n.Cond || then != n.Then || els != n.Else {
			out = NewIf(n.Span(), cond, then, els)
		}
	case *While:
		cond := p.TransformExpr(n.Cond)
		body := p.transformBlock(n.Body)
		//
		if cond != n.Cond || body != n.Body {
			out = NewWhile(n.Span(), cond, body)
		}
	case *DoWhile:
		body := p.transformBlock(n.Body)
		cond := p.TransformExpr(n.Cond)
		//
		if cond != n.Cond || body != n.Body {
			out = NewDoWhile(n.Span(), body, cond)
		}
	case *For:
		from := p.TransformExpr(n.From)
		to := p.TransformExpr(n.To)
		step := p.TransformExpr(n.Step)
		body := p.transformBlock(n.Body)
		//
		if from != n.From || to != n.To || step != n.Step || body != n.Body {
			out = NewFor(n.Span(), n.Counter, n.CounterType, from, to, n.Down, step, body)
		}
	case *Switch:
		value := p.TransformExpr(n.Value)
		cases, changed := transformSlice(n.Cases, p.transformCase)
		//
		if value != n.Value || changed {
			out = NewSwitch(n.Span(), value, cases)
		}
	case *Match:
		value := p.TransformExpr(n.Value)
		cases, changed := transformSlice(n.Cases, p.transformCase)
		//
		if value != n.Value || changed {
			out = NewMatch(n.Span(), value, cases)
		}
	case *VarDecl:
		return p.TransformDecl(n).(Stmt)
	}
	//
	if r, ok := p.rewrite(out); ok {
		return r.(Stmt)
	}
	//
	return out
}

// TransformExpr rewrites a single expression.  Nil expressions (absent
// optional children) flow through unchanged.
//
//nolint:gocyclo
func (p *Transformer) TransformExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	//
	var out = e
	//
	switch n := e.(type) {
	case *ArrayLit:
		elements, changed := transformSlice(n.Elements, p.TransformExpr)
		if changed {
			out = NewArrayLit(n.Span(), elements)
		}
	case *Unary:
		if operand := p.TransformExpr(n.Operand); operand != n.Operand {
			out = NewUnary(n.Span(), n.Op, operand)
		}
	case *Binary:
		lhs := p.TransformExpr(n.Lhs)
		rhs := p.TransformExpr(n.Rhs)
		//
		if lhs != n.Lhs || rhs != n.Rhs {
			out = NewBinary(n.Span(), n.Op, lhs, rhs)
		}
	case *Ternary:
		cond := p.TransformExpr(n.Cond)
		then := p.TransformExpr(n.Then)
		els := p.TransformExpr(n.Else)
		//
		if cond != n.Cond || then != n.Then || els != n.Else {
			out = NewTernary(n.Span(), cond, then, els)
		}
	case *Assign:
		target := p.TransformExpr(n.Target)
		value := p.TransformExpr(n.Value)
		//
		if target != n.Target || value != n.Value {
			out = NewAssign(n.Span(), n.Op, target, value)
		}
	case *AddrOf:
		if operand := p.TransformExpr(n.Operand); operand != n.Operand {
			out = NewAddrOf(n.Span(), operand)
		}
	case *Call:
		callee := p.TransformExpr(n.Callee)
		args, changed := transformSlice(n.Args, p.TransformExpr)
		//
		if callee != n.Callee || changed {
			out = NewCall(n.Span(), callee, args)
		}
	case *Index:
		target := p.TransformExpr(n.Target)
		index := p.TransformExpr(n.Index)
		//
		if target != n.Target || index != n.Index {
			out = NewIndex(n.Span(), target, index)
		}
	case *Member:
		if target := p.TransformExpr(n.Target); target != n.Target {
			out = NewMember(n.Span(), target, n.Name)
		}
	}
	//
	if r, ok := p.rewrite(out); ok {
		return r.(Expr)
	}
	//
	return out
}

func (p *Transformer) transformBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	//
	stmts, changed := transformSlice(b.Stmts, p.TransformStmt)
	//
	out := b
	if changed {
		out = NewBlock(b.Span(), stmts)
	}
	//
	if r, ok := p.rewrite(out); ok {
		return r.(*Block)
	}
	//
	return out
}

func (p *Transformer) transformCase(c *CaseClause) *CaseClause {
	value := p.TransformExpr(c.Value)
	body, changed := transformSlice(c.Body, p.TransformStmt)
	//
	out := c
	if value != c.Value || changed {
		out = NewCaseClause(c.Span(), value, body)
	}
	//
	if r, ok := p.rewrite(out); ok {
		return r.(*CaseClause)
	}
	//
	return out
}

func (p *Transformer) transformEnumMember(m *EnumMember) *EnumMember {
	value := p.TransformExpr(m.Value)
	//
	out := m
	if value != m.Value {
		out = NewEnumMember(m.Span(), m.Name, value)
	}
	//
	if r, ok := p.rewrite(out); ok {
		return r.(*EnumMember)
	}
	//
	return out
}

// Apply the rewriter hook; the boolean indicates a genuine replacement.
func (p *Transformer) rewrite(n Node) (Node, bool) {
	if r := p.rewriter.Rewrite(n); r != nil && r != n {
		return r, true
	}
	//
	return nil, false
}

// Transform each element of a slice, sharing the original slice when nothing
// changed.
func transformSlice[T comparable](in []T, f func(T) T) ([]T, bool) {
	var (
		out     = in
		changed = false
	)
	//
	for i, item := range in {
		t := f(item)
		//
		if t != item && !changed {
			// First change: copy the prefix.
			out = make([]T, len(in))
			copy(out, in[:i])
			changed = true
		}
		//
		if changed {
			out[i] = t
		}
	}
	//
	return out, changed
}
