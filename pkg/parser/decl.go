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

// parseDeclaration parses a single top-level declaration.
func (p *Parser) parseDeclaration() ast.Decl {
	token := p.lookahead()
	// Export is a modifier on the declaration it precedes.
	exported := false
	//
	if token.Kind == lexer.KEYWORD_EXPORT {
		p.advance()
		exported = true
	}
	//
	next := p.lookahead()
	//
	switch next.Kind {
	case lexer.KEYWORD_IMPORT:
		return p.parseImport()
	case lexer.KEYWORD_FUNCTION:
		return p.parseFunction(exported, false)
	case lexer.KEYWORD_CALLBACK:
		// "callback function" declares an interrupt-style entry point.
		if p.peek(1).Kind == lexer.KEYWORD_FUNCTION {
			p.advance()
			return p.parseFunction(exported, true)
		}
		//
		p.error(next.Span, diag.UnexpectedToken, msgExpectedDeclaration(lexer.Describe(next)))
		p.syncDeclaration()
		//
		return ast.NewBadDecl(next.Span)
	case lexer.KEYWORD_LET, lexer.KEYWORD_CONST, lexer.AT:
		if d := p.parseVarDecl(exported); d != nil {
			return d
		}
		//
		return ast.NewBadDecl(next.Span)
	case lexer.KEYWORD_TYPE:
		return p.parseTypeAlias(exported)
	case lexer.KEYWORD_ENUM:
		return p.parseEnum(exported)
	case lexer.KEYWORD_RETURN:
		// A stray top-level return is parsed as a statement, so the scope
		// check reports it as outside any function.
		p.parseReturn()
		//
		return ast.NewBadDecl(p.spanFrom(next.Span))
	default:
		p.error(next.Span, diag.UnexpectedToken, msgExpectedDeclaration(lexer.Describe(next)))
		p.syncDeclaration()
		//
		return ast.NewBadDecl(next.Span)
	}
}

// Import declaration: "import a, b from x.y;" or "import * from x.y;".
func (p *Parser) parseImport() ast.Decl {
	start := p.advance()
	//
	var (
		names    []*ast.Ident
		wildcard bool
	)
	//
	if p.match(lexer.STAR) {
		wildcard = true
	} else {
		for {
			name, ok := p.expect(lexer.IDENTIFIER)
			if !ok {
				p.syncDeclaration()
				return ast.NewBadDecl(start.Span)
			}
			//
			names = append(names, ast.NewIdent(name.Span, name.Lexeme))
			//
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	//
	p.expectAfter(lexer.KEYWORD_FROM, "import list")
	from := p.parseModulePath()
	p.expectAfter(lexer.SEMICOLON, "module path")
	//
	return ast.NewImportDecl(p.spanFrom(start.Span), names, wildcard, from)
}

// Dotted module path "a.b.c".
func (p *Parser) parseModulePath() []string {
	var path []string
	//
	name, ok := p.expect(lexer.IDENTIFIER)
	if !ok {
		return nil
	}
	//
	path = append(path, name.Lexeme)
	//
	for p.match(lexer.DOT) {
		if name, ok = p.expect(lexer.IDENTIFIER); !ok {
			return path
		}
		//
		path = append(path, name.Lexeme)
	}
	//
	return path
}

// Function declaration: "function name(params): ret (block | ;)".  A stub
// declaration terminates with a semicolon.
func (p *Parser) parseFunction(exported bool, callback bool) ast.Decl {
	start := p.advance()
	//
	name, ok := p.expect(lexer.IDENTIFIER)
	if !ok {
		p.syncDeclaration()
		return ast.NewBadDecl(start.Span)
	}
	//
	ident := ast.NewIdent(name.Span, name.Lexeme)
	params := p.parseParams()
	//
	p.expectAfter(lexer.COLON, "parameter list")
	ret := p.parseTypeRef()
	// Stub declarations have no body.
	if p.match(lexer.SEMICOLON) {
		return ast.NewFuncDecl(p.spanFrom(start.Span), ident, params, ret, nil, exported, callback)
	}
	//
	p.scopes.EnterFunction(ret)
	//
	var body *ast.Block
	//
	if p.check(lexer.LCURLY) {
		body = p.parseBlock()
	} else {
		body = p.parseBody(lexer.KEYWORD_END)
		p.expectEnd(lexer.KEYWORD_FUNCTION)
	}
	//
	p.scopes.ExitFunction()
	//
	return ast.NewFuncDecl(p.spanFrom(start.Span), ident, params, ret, body, exported, callback)
}

// Parenthesised parameter list, validating duplicate names early.
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	//
	if _, ok := p.expectAfter(lexer.LBRACE, "function name"); !ok {
		return nil
	}
	//
	seen := make(map[string]bool)
	//
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		name, ok := p.expect(lexer.IDENTIFIER)
		if !ok {
			break
		}
		//
		p.expectAfter(lexer.COLON, "parameter name")
		typ := p.parseTypeRef()
		//
		if seen[name.Lexeme] {
			p.error(name.Span, diag.DuplicateParameter, msgDuplicateParameter(name.Lexeme))
		}
		//
		seen[name.Lexeme] = true
		//
		span := name.Span.Union(typ.Span())
		params = append(params, ast.NewParam(span, ast.NewIdent(name.Span, name.Lexeme), typ))
		//
		if !p.match(lexer.COMMA) {
			break
		}
	}
	//
	p.expectAfter(lexer.RBRACE, "parameters")
	//
	return params
}

// Variable or constant declaration, with optional storage class:
// "[@zp|@ram|@data|@map at addr] (let|const) name: type [= init];".
func (p *Parser) parseVarDecl(exported bool) *ast.VarDecl {
	start := p.lookahead()
	storage := ast.StorageDefault
	//
	var mapAddress ast.Expr
	//
	if p.match(lexer.AT) {
		sigil, ok := p.expect(lexer.IDENTIFIER)
		if !ok {
			p.syncStatement()
			return nil
		}
		//
		switch sigil.Lexeme {
		case "zp":
			storage = ast.StorageZeroPage
		case "ram":
			storage = ast.StorageRam
		case "data":
			storage = ast.StorageData
		case "map":
			storage = ast.StorageMap
			p.expectAfter(lexer.KEYWORD_AT, "'@map'")
			mapAddress = p.parseExpression()
		default:
			p.error(sigil.Span, diag.UnexpectedToken, msgUnknownStorageClass(sigil.Lexeme))
		}
	}
	//
	constant := false
	//
	switch {
	case p.match(lexer.KEYWORD_CONST):
		constant = true
	case p.match(lexer.KEYWORD_LET):
		// fine
	default:
		found := p.lookahead()
		p.error(found.Span, diag.UnexpectedToken,
			msgExpected("'let' or 'const'", lexer.Describe(found)))
		p.syncStatement()
		//
		return nil
	}
	//
	name, ok := p.expect(lexer.IDENTIFIER)
	if !ok {
		p.syncStatement()
		return nil
	}
	//
	p.expectAfter(lexer.COLON, "variable name")
	typ := p.parseTypeRef()
	//
	var init ast.Expr
	//
	if p.match(lexer.EQUALS) {
		init = p.parseExpression()
	}
	//
	if constant && init == nil {
		p.error(name.Span, diag.MissingInitializer, msgConstRequiresInitializer(name.Lexeme))
	}
	//
	if _, ok := p.expectAfter(lexer.SEMICOLON, "declaration"); !ok {
		p.syncStatement()
	}
	//
	return ast.NewVarDecl(p.spanFrom(start.Span), storage, mapAddress, constant,
		ast.NewIdent(name.Span, name.Lexeme), typ, init, exported)
}

// Type alias declaration: "type Name = T;".
func (p *Parser) parseTypeAlias(exported bool) ast.Decl {
	start := p.advance()
	//
	name, ok := p.expect(lexer.IDENTIFIER)
	if !ok {
		p.syncDeclaration()
		return ast.NewBadDecl(start.Span)
	}
	//
	p.expectAfter(lexer.EQUALS, "type name")
	target := p.parseTypeRef()
	p.expectAfter(lexer.SEMICOLON, "aliased type")
	//
	return ast.NewTypeDecl(p.spanFrom(start.Span),
		ast.NewIdent(name.Span, name.Lexeme), target, exported)
}

// Enum declaration: "enum Name { A [= k], B, ... }".
func (p *Parser) parseEnum(exported bool) ast.Decl {
	start := p.advance()
	//
	name, ok := p.expect(lexer.IDENTIFIER)
	if !ok {
		p.syncDeclaration()
		return ast.NewBadDecl(start.Span)
	}
	//
	p.expectAfter(lexer.LCURLY, "enum name")
	//
	var members []*ast.EnumMember
	//
	for !p.check(lexer.RCURLY) && !p.check(lexer.EOF) {
		mname, ok := p.expect(lexer.IDENTIFIER)
		if !ok {
			p.syncDeclaration()
			break
		}
		//
		var value ast.Expr
		//
		if p.match(lexer.EQUALS) {
			value = p.parseExpression()
		}
		//
		span := mname.Span
		if value != nil {
			span = span.Union(value.Span())
		}
		//
		members = append(members,
			ast.NewEnumMember(span, ast.NewIdent(mname.Span, mname.Lexeme), value))
		//
		if !p.match(lexer.COMMA) {
			break
		}
	}
	//
	p.expectAfter(lexer.RCURLY, "enum members")
	//
	return ast.NewEnumDecl(p.spanFrom(start.Span),
		ast.NewIdent(name.Span, name.Lexeme), members, exported)
}

// Type annotation: a named type, callback type, or array form thereof.
func (p *Parser) parseTypeRef() ast.TypeRef {
	token := p.lookahead()
	//
	var base ast.TypeRef
	//
	switch token.Kind {
	case lexer.KEYWORD_BYTE, lexer.KEYWORD_WORD, lexer.KEYWORD_BOOL,
		lexer.KEYWORD_VOID, lexer.KEYWORD_STRING:
		p.advance()
		base = ast.NewNamedTypeRef(token.Span, token.Lexeme)
	case lexer.IDENTIFIER:
		p.advance()
		base = ast.NewNamedTypeRef(token.Span, token.Lexeme)
	case lexer.KEYWORD_CALLBACK:
		base = p.parseCallbackTypeRef()
	default:
		p.error(token.Span, diag.UnexpectedToken, msgExpected("a type", lexer.Describe(token)))
		//
		return ast.NewNamedTypeRef(token.Span, "void")
	}
	// Array suffixes: "T[]" or "T[N]".
	for p.check(lexer.LSQUARE) {
		p.advance()
		//
		var size ast.Expr
		//
		if !p.check(lexer.RSQUARE) {
			size = p.parseExpression()
		}
		//
		end, _ := p.expectAfter(lexer.RSQUARE, "array size")
		base = ast.NewArrayTypeRef(base.Span().Union(end.Span), base, size)
	}
	//
	return base
}

// Callback (function) type: "callback(T1, T2): R".
func (p *Parser) parseCallbackTypeRef() ast.TypeRef {
	start := p.advance()
	p.expectAfter(lexer.LBRACE, "'callback'")
	//
	var params []ast.TypeRef
	//
	if !p.check(lexer.RBRACE) {
		params = append(params, p.parseTypeRef())
		//
		for p.match(lexer.COMMA) {
			params = append(params, p.parseTypeRef())
		}
	}
	//
	p.expectAfter(lexer.RBRACE, "parameter types")
	p.expectAfter(lexer.COLON, "callback parameters")
	ret := p.parseTypeRef()
	//
	return ast.NewCallbackTypeRef(start.Span.Union(ret.Span()), params, ret)
}
