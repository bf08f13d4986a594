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
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/lexer"
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Parser is a hand-written recursive-descent parser over the token stream,
// layered as base (this file) / expressions / statements / declarations /
// module level.  On an unexpected token it reports a diagnostic and
// synchronises to the next statement or declaration boundary, substituting a
// placeholder node so downstream passes still receive a well-formed tree.
type Parser struct {
	srcfile *source.File
	tokens  []lexer.Token
	// Position within the tokens.
	index int
	// Diagnostics accumulated so far (lexical ones included).
	diags []diag.Diagnostic
	// Scope tracking for early validation of break/continue/return.
	scopes *ScopeManager
}

// NewParser constructs a parser for a given source file, tokenising it
// immediately.
func NewParser(srcfile *source.File) *Parser {
	tokens, diags := lexer.Tokenize(srcfile)
	//
	return &Parser{srcfile, tokens, 0, diags, NewScopeManager()}
}

// lookahead returns the current token without advancing.  Once the stream is
// exhausted this saturates at the final (EOF) token.
func (p *Parser) lookahead() lexer.Token {
	if p.index >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	//
	return p.tokens[p.index]
}

// peek returns the token n positions ahead, saturating at EOF.
func (p *Parser) peek(n int) lexer.Token {
	if p.index+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	//
	return p.tokens[p.index+n]
}

// advance consumes and returns the current token.
func (p *Parser) advance() lexer.Token {
	token := p.lookahead()
	//
	if p.index < len(p.tokens) {
		p.index++
	}
	//
	return token
}

// check reports whether the current token has the given kind.
func (p *Parser) check(kind uint) bool {
	return p.lookahead().Kind == kind
}

// match consumes the current token if it has the given kind.
func (p *Parser) match(kind uint) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	//
	return false
}

// expect consumes a token of the given kind, or reports a diagnostic and
// leaves the cursor in place.
func (p *Parser) expect(kind uint) (lexer.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	//
	found := p.lookahead()
	p.error(found.Span, diag.UnexpectedToken, msgExpected(lexer.KindName(kind), lexer.Describe(found)))
	//
	return found, false
}

// expectAfter is expect with "after" phrasing for delimiter errors.
func (p *Parser) expectAfter(kind uint, after string) (lexer.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	//
	found := p.lookahead()
	p.error(found.Span, diag.MissingDelimiter,
		msgExpectedAfter(lexer.KindName(kind), after, lexer.Describe(found)))
	//
	return found, false
}

// error reports an error diagnostic.
func (p *Parser) error(span source.Span, code diag.Code, message string) {
	p.diags = append(p.diags, diag.Errorf(span, code, "%s", message))
}

// spanFrom unions a starting span with the span of the previously consumed
// token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.index == 0 {
		return start
	}
	//
	prev := p.tokens[min(p.index, len(p.tokens))-1].Span
	//
	return start.Union(prev)
}

// Statement boundary synchronisation: skip tokens until just past a
// semicolon, or until a token which plausibly begins a new statement or
// declaration.
func (p *Parser) syncStatement() {
	depth := 0
	//
	for !p.check(lexer.EOF) {
		switch p.lookahead().Kind {
		case lexer.SEMICOLON:
			if depth == 0 {
				p.advance()
				return
			}
		case lexer.LCURLY:
			depth++
		case lexer.RCURLY:
			if depth == 0 {
				return
			}
			//
			depth--
		case lexer.KEYWORD_IF, lexer.KEYWORD_WHILE, lexer.KEYWORD_DO, lexer.KEYWORD_FOR,
			lexer.KEYWORD_RETURN, lexer.KEYWORD_BREAK, lexer.KEYWORD_CONTINUE,
			lexer.KEYWORD_SWITCH, lexer.KEYWORD_MATCH, lexer.KEYWORD_LET, lexer.KEYWORD_CONST:
			if depth == 0 {
				return
			}
		}
		//
		p.advance()
	}
}

// Declaration boundary synchronisation: skip tokens until a token which
// plausibly begins a new top-level declaration.
func (p *Parser) syncDeclaration() {
	depth := 0
	//
	for !p.check(lexer.EOF) {
		switch p.lookahead().Kind {
		case lexer.SEMICOLON:
			if depth == 0 {
				p.advance()
				return
			}
		case lexer.LCURLY:
			depth++
		case lexer.RCURLY:
			depth = max(0, depth-1)
		case lexer.KEYWORD_FUNCTION, lexer.KEYWORD_CALLBACK, lexer.KEYWORD_LET,
			lexer.KEYWORD_CONST, lexer.KEYWORD_TYPE, lexer.KEYWORD_ENUM,
			lexer.KEYWORD_IMPORT, lexer.KEYWORD_EXPORT, lexer.AT:
			if depth == 0 {
				return
			}
		}
		//
		p.advance()
	}
}
