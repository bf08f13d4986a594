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

// Parse a source file into a program, along with any diagnostics arising
// (lexical and syntactic).  Parsing always yields a tree, substituting
// placeholder nodes where recovery was necessary.
func Parse(srcfile *source.File) (*ast.Program, []diag.Diagnostic) {
	parser := NewParser(srcfile)
	//
	return parser.Parse()
}

// Parse the token stream into a program.
func (p *Parser) Parse() (*ast.Program, []diag.Diagnostic) {
	module := p.parseModuleDecl()
	//
	var decls []ast.Decl
	//
	for !p.check(lexer.EOF) {
		before := p.index
		decls = append(decls, p.parseDeclaration())
		// Guarantee progress even when recovery stalls.
		if p.index == before {
			p.advance()
		}
	}
	//
	span := source.NewSpan(0, len(p.srcfile.Contents()))
	//
	return ast.NewProgram(span, module, decls, p.srcfile), p.diags
}

// Optional leading "module a.b.c"; an implicit "module global" is inserted
// otherwise.
func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	if !p.check(lexer.KEYWORD_MODULE) {
		return ast.NewModuleDecl(source.UnknownSpan(), []string{"global"})
	}
	//
	start := p.advance()
	path := p.parseModulePath()
	//
	if path == nil {
		found := p.lookahead()
		p.error(found.Span, diag.UnexpectedToken, msgExpectedModulePath(lexer.Describe(found)))
		path = []string{"global"}
	}
	// Trailing semicolon is optional after a module header.
	p.match(lexer.SEMICOLON)
	//
	return ast.NewModuleDecl(p.spanFrom(start.Span), path)
}
