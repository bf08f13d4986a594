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

import (
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Expr is implemented by every expression node.
type Expr interface {
	Node
	isExpr()
}

// Base embedded by every expression node.
type exprNode struct {
	node
}

func (p *exprNode) isExpr() {}

// ============================================================================
// Literals
// ============================================================================

// NumberLit is a numeric literal.  The raw lexeme is retained so that its
// base (decimal, $hex, 0xhex, 0bbin) remains recoverable.
type NumberLit struct {
	exprNode
	Value  uint64
	Lexeme string
}

// NewNumberLit constructs a numeric literal.
func NewNumberLit(span source.Span, value uint64, lexeme string) *NumberLit {
	return &NumberLit{exprNode{mkNode(span)}, value, lexeme}
}

// StringLit is a string literal, with escapes already applied.
type StringLit struct {
	exprNode
	Value string
}

// NewStringLit constructs a string literal.
func NewStringLit(span source.Span, value string) *StringLit {
	return &StringLit{exprNode{mkNode(span)}, value}
}

// BoolLit is a boolean literal.
type BoolLit struct {
	exprNode
	Value bool
}

// NewBoolLit constructs a boolean literal.
func NewBoolLit(span source.Span, value bool) *BoolLit {
	return &BoolLit{exprNode{mkNode(span)}, value}
}

// CharLit is a single-quoted character literal.
type CharLit struct {
	exprNode
	Value byte
}

// NewCharLit constructs a character literal.
func NewCharLit(span source.Span, value byte) *CharLit {
	return &CharLit{exprNode{mkNode(span)}, value}
}

// ArrayLit is an array literal "[e1, e2, ...]".
type ArrayLit struct {
	exprNode
	Elements []Expr
}

// NewArrayLit constructs an array literal.
func NewArrayLit(span source.Span, elements []Expr) *ArrayLit {
	return &ArrayLit{exprNode{mkNode(span)}, elements}
}

// ============================================================================
// Names
// ============================================================================

// Ident is a simple identifier reference.
type Ident struct {
	exprNode
	Name string
}

// NewIdent constructs an identifier.
func NewIdent(span source.Span, name string) *Ident {
	return &Ident{exprNode{mkNode(span)}, name}
}

// Member is an enum-qualified name, e.g. "Direction.UP".
type Member struct {
	exprNode
	Target Expr
	Name   string
}

// NewMember constructs a member access.
func NewMember(span source.Span, target Expr, name string) *Member {
	return &Member{exprNode{mkNode(span)}, target, name}
}

// ============================================================================
// Operators
// ============================================================================

// Unary is a prefix operator application.
type Unary struct {
	exprNode
	Op      Op
	Operand Expr
}

// NewUnary constructs a unary expression.
func NewUnary(span source.Span, op Op, operand Expr) *Unary {
	return &Unary{exprNode{mkNode(span)}, op, operand}
}

// Binary is an infix operator application.
type Binary struct {
	exprNode
	Op  Op
	Lhs Expr
	Rhs Expr
}

// NewBinary constructs a binary expression.
func NewBinary(span source.Span, op Op, lhs Expr, rhs Expr) *Binary {
	return &Binary{exprNode{mkNode(span)}, op, lhs, rhs}
}

// Ternary is the conditional operator "c ? t : f".
type Ternary struct {
	exprNode
	Cond Expr
	Then Expr
	Else Expr
}

// NewTernary constructs a ternary expression.
func NewTernary(span source.Span, cond Expr, then Expr, els Expr) *Ternary {
	return &Ternary{exprNode{mkNode(span)}, cond, then, els}
}

// Assign is an assignment expression, possibly compound (e.g. "+=", in which
// case Op holds the underlying binary operator).
type Assign struct {
	exprNode
	Op     Op
	Target Expr
	Value  Expr
}

// NewAssign constructs an assignment expression.
func NewAssign(span source.Span, op Op, target Expr, value Expr) *Assign {
	return &Assign{exprNode{mkNode(span)}, op, target, value}
}

// AddrOf is the address-of operator "@e".
type AddrOf struct {
	exprNode
	Operand Expr
}

// NewAddrOf constructs an address-of expression.
func NewAddrOf(span source.Span, operand Expr) *AddrOf {
	return &AddrOf{exprNode{mkNode(span)}, operand}
}

// ============================================================================
// Postfix
// ============================================================================

// Call is a function (or intrinsic) invocation.
type Call struct {
	exprNode
	Callee Expr
	Args   []Expr
}

// NewCall constructs a call expression.
func NewCall(span source.Span, callee Expr, args []Expr) *Call {
	return &Call{exprNode{mkNode(span)}, callee, args}
}

// Index is an array subscript "a[i]".
type Index struct {
	exprNode
	Target Expr
	Index  Expr
}

// NewIndex constructs an index expression.
func NewIndex(span source.Span, target Expr, index Expr) *Index {
	return &Index{exprNode{mkNode(span)}, target, index}
}

// ============================================================================
// Recovery
// ============================================================================

// BadExpr is the placeholder substituted where expression parsing failed, so
// downstream passes still receive a well-formed tree.
type BadExpr struct {
	exprNode
}

// NewBadExpr constructs an error placeholder expression.
func NewBadExpr(span source.Span) *BadExpr {
	return &BadExpr{exprNode{mkNode(span)}}
}
