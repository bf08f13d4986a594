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
	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/lexer"
)

// Compound assignment operators and their underlying binary operators.
var assignOps = map[uint]ast.Op{
	lexer.EQUALS:             ast.OpNone,
	lexer.PLUS_EQUALS:        ast.OpAdd,
	lexer.MINUS_EQUALS:       ast.OpSub,
	lexer.STAR_EQUALS:        ast.OpMul,
	lexer.SLASH_EQUALS:       ast.OpDiv,
	lexer.PERCENT_EQUALS:     ast.OpMod,
	lexer.AMPERSAND_EQUALS:   ast.OpBitAnd,
	lexer.BAR_EQUALS:         ast.OpBitOr,
	lexer.CARET_EQUALS:       ast.OpBitXor,
	lexer.SHIFT_LEFT_EQUALS:  ast.OpShl,
	lexer.SHIFT_RIGHT_EQUALS: ast.OpShr,
}

// parseExpression parses a full expression, including assignment.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

// Assignment is right-associative and binds loosest of all.
func (p *Parser) parseAssignment() ast.Expr {
	lhs := p.parseTernary()
	//
	op, ok := assignOps[p.lookahead().Kind]
	if !ok {
		return lhs
	}
	//
	p.advance()
	// Right-associative.
	rhs := p.parseAssignment()
	//
	if !isAssignTarget(lhs) {
		p.error(lhs.Span(), diag.NotAssignable, msgInvalidAssignmentTarget())
	}
	//
	return ast.NewAssign(lhs.Span().Union(rhs.Span()), op, lhs, rhs)
}

func isAssignTarget(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.Index, *ast.BadExpr:
		return true
	default:
		return false
	}
}

// Ternary conditional "c ? t : f", right-associative.
func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseLogicalOr()
	//
	if !p.match(lexer.QUESTION) {
		return cond
	}
	//
	then := p.parseAssignment()
	p.expectAfter(lexer.COLON, "'?' branch")
	els := p.parseAssignment()
	//
	return ast.NewTernary(cond.Span().Union(els.Span()), cond, then, els)
}

// Binary operator tiers, loosest first.  Each tier is left-associative.
func (p *Parser) parseLogicalOr() ast.Expr {
	return p.parseBinary(p.parseLogicalAnd, map[uint]ast.Op{lexer.OR_OR: ast.OpLogOr})
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.parseBinary(p.parseBitOr, map[uint]ast.Op{lexer.AND_AND: ast.OpLogAnd})
}

func (p *Parser) parseBitOr() ast.Expr {
	return p.parseBinary(p.parseBitXor, map[uint]ast.Op{lexer.BAR: ast.OpBitOr})
}

func (p *Parser) parseBitXor() ast.Expr {
	return p.parseBinary(p.parseBitAnd, map[uint]ast.Op{lexer.CARET: ast.OpBitXor})
}

func (p *Parser) parseBitAnd() ast.Expr {
	return p.parseBinary(p.parseEquality, map[uint]ast.Op{lexer.AMPERSAND: ast.OpBitAnd})
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseComparison, map[uint]ast.Op{
		lexer.EQUALS_EQUALS: ast.OpEq,
		lexer.NOT_EQUALS:    ast.OpNe,
	})
}

func (p *Parser) parseComparison() ast.Expr {
	return p.parseBinary(p.parseShift, map[uint]ast.Op{
		lexer.LESS_THAN:           ast.OpLt,
		lexer.LESS_THAN_EQUALS:    ast.OpLe,
		lexer.GREATER_THAN:        ast.OpGt,
		lexer.GREATER_THAN_EQUALS: ast.OpGe,
	})
}

func (p *Parser) parseShift() ast.Expr {
	return p.parseBinary(p.parseAdditive, map[uint]ast.Op{
		lexer.SHIFT_LEFT:  ast.OpShl,
		lexer.SHIFT_RIGHT: ast.OpShr,
	})
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.parseBinary(p.parseMultiplicative, map[uint]ast.Op{
		lexer.PLUS:  ast.OpAdd,
		lexer.MINUS: ast.OpSub,
	})
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseBinary(p.parseUnary, map[uint]ast.Op{
		lexer.STAR:    ast.OpMul,
		lexer.SLASH:   ast.OpDiv,
		lexer.PERCENT: ast.OpMod,
	})
}

// Parse a left-associative binary tier.
func (p *Parser) parseBinary(next func() ast.Expr, ops map[uint]ast.Op) ast.Expr {
	lhs := next()
	//
	for {
		op, ok := ops[p.lookahead().Kind]
		if !ok {
			return lhs
		}
		//
		p.advance()
		rhs := next()
		lhs = ast.NewBinary(lhs.Span().Union(rhs.Span()), op, lhs, rhs)
	}
}

// Prefix operators: negation, logical not, bitwise not, address-of.
func (p *Parser) parseUnary() ast.Expr {
	token := p.lookahead()
	//
	switch token.Kind {
	case lexer.MINUS:
		p.advance()
		operand := p.parseUnary()
		//
		return ast.NewUnary(token.Span.Union(operand.Span()), ast.OpNeg, operand)
	case lexer.NOT:
		p.advance()
		operand := p.parseUnary()
		//
		return ast.NewUnary(token.Span.Union(operand.Span()), ast.OpLogNot, operand)
	case lexer.TILDE:
		p.advance()
		operand := p.parseUnary()
		//
		return ast.NewUnary(token.Span.Union(operand.Span()), ast.OpBitNot, operand)
	case lexer.AT:
		p.advance()
		operand := p.parseUnary()
		//
		return ast.NewAddrOf(token.Span.Union(operand.Span()), operand)
	default:
		return p.parsePostfix()
	}
}

// Postfix operators: calls, indexing, member access.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	//
	for {
		switch p.lookahead().Kind {
		case lexer.LBRACE:
			p.advance()
			//
			var args []ast.Expr
			//
			if !p.check(lexer.RBRACE) {
				args = append(args, p.parseExpression())
				//
				for p.match(lexer.COMMA) {
					args = append(args, p.parseExpression())
				}
			}
			//
			end, _ := p.expectAfter(lexer.RBRACE, "arguments")
			expr = ast.NewCall(expr.Span().Union(end.Span), expr, args)
		case lexer.LSQUARE:
			p.advance()
			index := p.parseExpression()
			end, _ := p.expectAfter(lexer.RSQUARE, "index")
			expr = ast.NewIndex(expr.Span().Union(end.Span), expr, index)
		case lexer.DOT:
			p.advance()
			name, ok := p.expect(lexer.IDENTIFIER)
			//
			if !ok {
				return expr
			}
			//
			expr = ast.NewMember(expr.Span().Union(name.Span), expr, name.Lexeme)
		default:
			return expr
		}
	}
}

// Primary expressions: literals, identifiers, array literals, grouping.
func (p *Parser) parsePrimary() ast.Expr {
	token := p.lookahead()
	//
	switch token.Kind {
	case lexer.NUMBER:
		p.advance()
		return ast.NewNumberLit(token.Span, token.Value, token.Lexeme)
	case lexer.STRING:
		p.advance()
		return ast.NewStringLit(token.Span, token.Text)
	case lexer.CHARACTER:
		p.advance()
		return ast.NewCharLit(token.Span, byte(token.Value))
	case lexer.KEYWORD_TRUE:
		p.advance()
		return ast.NewBoolLit(token.Span, true)
	case lexer.KEYWORD_FALSE:
		p.advance()
		return ast.NewBoolLit(token.Span, false)
	case lexer.IDENTIFIER:
		p.advance()
		return ast.NewIdent(token.Span, token.Lexeme)
	case lexer.LSQUARE:
		return p.parseArrayLit()
	case lexer.LBRACE:
		p.advance()
		expr := p.parseExpression()
		p.expectAfter(lexer.RBRACE, "expression")
		//
		return expr
	default:
		p.error(token.Span, diag.UnexpectedToken, msgExpectedExpression(lexer.Describe(token)))
		// Leave the offending token for the statement synchroniser.
		return ast.NewBadExpr(token.Span)
	}
}

// Array literal "[e1, e2, ...]".
func (p *Parser) parseArrayLit() ast.Expr {
	start := p.advance()
	//
	var elements []ast.Expr
	//
	if !p.check(lexer.RSQUARE) {
		elements = append(elements, p.parseExpression())
		//
		for p.match(lexer.COMMA) {
			elements = append(elements, p.parseExpression())
		}
	}
	//
	end, _ := p.expectAfter(lexer.RSQUARE, "array elements")
	//
	return ast.NewArrayLit(start.Span.Union(end.Span), elements)
}
