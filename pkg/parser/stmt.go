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
	"github.com/blendsdk/blend65/pkg/util/source"
)

// parseStatement parses a single statement.
//
//nolint:gocyclo
func (p *Parser) parseStatement() ast.Stmt {
	token := p.lookahead()
	//
	switch token.Kind {
	case lexer.LCURLY:
		return p.parseBlock()
	case lexer.KEYWORD_LET, lexer.KEYWORD_CONST, lexer.AT:
		// A leading "@" opens a declaration only when a storage class
		// follows; otherwise it is the address-of operator.
		if token.Kind == lexer.AT {
			switch p.peek(1).Lexeme {
			case "zp", "ram", "data", "map":
			default:
				return p.parseExprStatement()
			}
		}
		//
		if d := p.parseVarDecl(false); d != nil {
			return d
		}
		//
		return ast.NewBadStmt(token.Span)
	case lexer.KEYWORD_IF:
		return p.parseIf()
	case lexer.KEYWORD_WHILE:
		return p.parseWhile()
	case lexer.KEYWORD_DO:
		return p.parseDoWhile()
	case lexer.KEYWORD_FOR:
		return p.parseFor()
	case lexer.KEYWORD_SWITCH:
		return p.parseSwitchOrMatch(false)
	case lexer.KEYWORD_MATCH:
		return p.parseSwitchOrMatch(true)
	case lexer.KEYWORD_RETURN:
		return p.parseReturn()
	case lexer.KEYWORD_BREAK:
		p.advance()
		//
		if !p.scopes.InBreakable() {
			p.error(token.Span, diag.BreakOutsideLoop, msgBreakOutsideLoop())
		}
		//
		p.expectAfter(lexer.SEMICOLON, "'break'")
		//
		return ast.NewBreak(token.Span)
	case lexer.KEYWORD_CONTINUE:
		p.advance()
		//
		if !p.scopes.InLoop() {
			p.error(token.Span, diag.ContinueOutsideLoop, msgContinueOutsideLoop())
		}
		//
		p.expectAfter(lexer.SEMICOLON, "'continue'")
		//
		return ast.NewContinue(token.Span)
	case lexer.SEMICOLON:
		// Empty statement.
		p.advance()
		return ast.NewBlock(token.Span, nil)
	default:
		return p.parseExprStatement()
	}
}

// Expression statement "expr;".
func (p *Parser) parseExprStatement() ast.Stmt {
	start := p.lookahead()
	expr := p.parseExpression()
	//
	if _, ok := expr.(*ast.BadExpr); ok {
		// Expression parsing already failed: resynchronise.
		p.syncStatement()
		return ast.NewBadStmt(start.Span)
	}
	//
	if _, ok := p.expectAfter(lexer.SEMICOLON, "expression"); !ok {
		p.syncStatement()
	}
	//
	return ast.NewExprStmt(p.spanFrom(expr.Span()), expr)
}

// Brace-delimited block.
func (p *Parser) parseBlock() *ast.Block {
	start, _ := p.expect(lexer.LCURLY)
	//
	var stmts []ast.Stmt
	//
	for !p.check(lexer.RCURLY) && !p.check(lexer.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	//
	end, _ := p.expectAfter(lexer.RCURLY, "block")
	//
	return ast.NewBlock(start.Span.Union(end.Span), stmts)
}

// parseBody accepts either a brace-delimited block or the keyword-terminated
// form, in which statements run until one of the given stop keywords.  The
// caller consumes the stop keyword itself.  The choice is made on lookahead.
func (p *Parser) parseBody(stops ...uint) *ast.Block {
	if p.check(lexer.LCURLY) {
		return p.parseBlock()
	}
	//
	start := p.lookahead()
	//
	var stmts []ast.Stmt
	//
	for !p.check(lexer.EOF) && !p.checkAny(stops...) {
		stmts = append(stmts, p.parseStatement())
	}
	//
	return ast.NewBlock(p.spanFrom(start.Span), stmts)
}

func (p *Parser) checkAny(kinds ...uint) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	//
	return false
}

// Consume "end <keyword>" closing a keyword-terminated body.
func (p *Parser) expectEnd(keyword uint) {
	if _, ok := p.expect(lexer.KEYWORD_END); ok {
		p.expectAfter(keyword, "'end'")
	}
}

// If statement, with optional else or else-if chain.  Either block form may
// be used; the keyword form closes with "end if".
func (p *Parser) parseIf() ast.Stmt {
	start := p.advance()
	p.expectAfter(lexer.LBRACE, "'if'")
	cond := p.parseExpression()
	p.expectAfter(lexer.RBRACE, "condition")
	//
	if p.check(lexer.LCURLY) {
		then := p.parseBlock()
		//
		var els ast.Stmt
		//
		if p.match(lexer.KEYWORD_ELSE) {
			if p.check(lexer.KEYWORD_IF) {
				els = p.parseIf()
			} else {
				els = p.parseBlock()
			}
		}
		//
		return ast.NewIf(p.spanFrom(start.Span), cond, then, els)
	}
	// Keyword-terminated form.
	then := p.parseBody(lexer.KEYWORD_ELSE, lexer.KEYWORD_END)
	//
	var els ast.Stmt
	//
	if p.match(lexer.KEYWORD_ELSE) {
		if p.check(lexer.KEYWORD_IF) {
			els = p.parseIf()
			//
			return ast.NewIf(p.spanFrom(start.Span), cond, then, els)
		}
		//
		els = p.parseBody(lexer.KEYWORD_END)
	}
	//
	p.expectEnd(lexer.KEYWORD_IF)
	//
	return ast.NewIf(p.spanFrom(start.Span), cond, then, els)
}

// While loop.
func (p *Parser) parseWhile() ast.Stmt {
	start := p.advance()
	p.expectAfter(lexer.LBRACE, "'while'")
	cond := p.parseExpression()
	p.expectAfter(lexer.RBRACE, "condition")
	//
	p.scopes.EnterLoop()
	//
	var body *ast.Block
	//
	if p.check(lexer.LCURLY) {
		body = p.parseBlock()
	} else {
		body = p.parseBody(lexer.KEYWORD_END)
		p.expectEnd(lexer.KEYWORD_WHILE)
	}
	//
	p.scopes.ExitLoop()
	//
	return ast.NewWhile(p.spanFrom(start.Span), cond, body)
}

// Do-while loop: "do block while (cond);".
func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.advance()
	//
	p.scopes.EnterLoop()
	body := p.parseBlock()
	p.scopes.ExitLoop()
	//
	p.expectAfter(lexer.KEYWORD_WHILE, "do block")
	p.expectAfter(lexer.LBRACE, "'while'")
	cond := p.parseExpression()
	p.expectAfter(lexer.RBRACE, "condition")
	p.expectAfter(lexer.SEMICOLON, "do-while")
	//
	return ast.NewDoWhile(p.spanFrom(start.Span), body, cond)
}

// Counted for loop: "for (i [: type] = start to|downto end [step k]) block".
func (p *Parser) parseFor() ast.Stmt {
	start := p.advance()
	p.expectAfter(lexer.LBRACE, "'for'")
	//
	name, ok := p.expect(lexer.IDENTIFIER)
	if !ok {
		p.syncStatement()
		return ast.NewBadStmt(start.Span)
	}
	//
	counter := ast.NewIdent(name.Span, name.Lexeme)
	// Optional counter type annotation; an unannotated counter defaults to
	// byte during analysis.
	var counterType ast.TypeRef
	//
	if p.match(lexer.COLON) {
		counterType = p.parseTypeRef()
	}
	//
	p.expectAfter(lexer.EQUALS, "loop counter")
	from := p.parseExpression()
	// Direction.
	down := false
	//
	if p.match(lexer.KEYWORD_DOWNTO) {
		down = true
	} else {
		p.expectAfter(lexer.KEYWORD_TO, "start value")
	}
	//
	to := p.parseExpression()
	//
	var step ast.Expr
	//
	if p.match(lexer.KEYWORD_STEP) {
		step = p.parseExpression()
	}
	//
	p.expectAfter(lexer.RBRACE, "loop header")
	//
	p.scopes.EnterLoop()
	//
	var body *ast.Block
	//
	if p.check(lexer.LCURLY) {
		body = p.parseBlock()
	} else {
		body = p.parseBody(lexer.KEYWORD_END)
		p.expectEnd(lexer.KEYWORD_FOR)
	}
	//
	p.scopes.ExitLoop()
	//
	return ast.NewFor(p.spanFrom(start.Span), counter, counterType, from, to, down, step, body)
}

// Switch (C-style fall-through) and match (no fall-through) share a grammar.
func (p *Parser) parseSwitchOrMatch(isMatch bool) ast.Stmt {
	start := p.advance()
	p.expectAfter(lexer.LBRACE, lexer.KindName(start.Kind))
	value := p.parseExpression()
	p.expectAfter(lexer.RBRACE, "value")
	p.expectAfter(lexer.LCURLY, "value")
	//
	p.scopes.EnterBreakable()
	//
	var cases []*ast.CaseClause
	//
	for !p.check(lexer.RCURLY) && !p.check(lexer.EOF) {
		cases = append(cases, p.parseCaseClause())
	}
	//
	p.scopes.ExitBreakable()
	//
	end, _ := p.expectAfter(lexer.RCURLY, "cases")
	span := start.Span.Union(end.Span)
	//
	if isMatch {
		return ast.NewMatch(span, value, cases)
	}
	//
	return ast.NewSwitch(span, value, cases)
}

// A single "case v:" or "default:" clause and its statements.
func (p *Parser) parseCaseClause() *ast.CaseClause {
	token := p.lookahead()
	//
	var value ast.Expr
	//
	switch token.Kind {
	case lexer.KEYWORD_CASE:
		p.advance()
		value = p.parseExpression()
	case lexer.KEYWORD_DEFAULT:
		p.advance()
	default:
		p.error(token.Span, diag.UnexpectedToken, msgExpectedCase(lexer.Describe(token)))
		p.syncStatement()
		//
		return ast.NewCaseClause(token.Span, nil, nil)
	}
	//
	p.expectAfter(lexer.COLON, "case value")
	//
	var body []ast.Stmt
	//
	for !p.checkAny(lexer.KEYWORD_CASE, lexer.KEYWORD_DEFAULT, lexer.RCURLY, lexer.EOF) {
		body = append(body, p.parseStatement())
	}
	//
	return ast.NewCaseClause(p.spanFrom(token.Span), value, body)
}

// Return statement, with optional value.
func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance()
	//
	if !p.scopes.InFunction() {
		p.error(start.Span, diag.ReturnOutsideFunction, msgReturnOutsideFunction())
	}
	//
	var value ast.Expr
	//
	if !p.check(lexer.SEMICOLON) {
		value = p.parseExpression()
	}
	//
	p.expectAfter(lexer.SEMICOLON, "return value")
	//
	var span source.Span
	if value != nil {
		span = start.Span.Union(value.Span())
	} else {
		span = start.Span
	}
	//
	return ast.NewReturn(span, value)
}
