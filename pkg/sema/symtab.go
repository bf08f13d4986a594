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
)

// SymbolTable is the product of the first analysis pass: the scope tree, plus
// a mapping from scope-introducing AST nodes to their scopes (used by later
// passes to re-enter the right scope while walking).
type SymbolTable struct {
	// Module is the root scope.
	Module *Scope
	// Scopes maps scope-introducing nodes (functions, blocks, loops) to
	// their scopes.
	Scopes map[ast.Node]*Scope
}

// ScopeOf returns the scope introduced by a given node, or nil.
func (p *SymbolTable) ScopeOf(n ast.Node) *Scope {
	return p.Scopes[n]
}

// symtabBuilder walks a program, creating scopes and entering symbols.
type symtabBuilder struct {
	sink   *diag.Sink
	table  *SymbolTable
	nextID uint
}

// BuildSymbolTable runs the first analysis pass over a program: the module
// scope and a chain of child scopes for functions, blocks and loops are
// created, and every declaration is entered into its owning scope.  Duplicate
// declarations within one scope are errors; shadowing across scopes is not.
func BuildSymbolTable(prog *ast.Program, sink *diag.Sink) *SymbolTable {
	builder := &symtabBuilder{sink, &SymbolTable{nil, make(map[ast.Node]*Scope)}, 0}
	//
	module := builder.newScope(ModuleScope, prog, nil)
	builder.table.Module = module
	// Intrinsics are visible in every module.
	defineIntrinsics(module)
	// Enter top-level declarations.
	for _, decl := range prog.Decls {
		builder.declare(module, decl)
	}
	//
	return builder.table
}

func (p *symtabBuilder) newScope(kind ScopeKind, node ast.Node, parent *Scope) *Scope {
	scope := NewScope(p.nextID, kind, node, parent)
	p.nextID++
	p.table.Scopes[node] = scope
	//
	return scope
}

// define enters a symbol, reporting duplicates.
func (p *symtabBuilder) define(scope *Scope, sym *Symbol) {
	if existing := scope.Define(sym); existing != nil {
		p.sink.Report(diag.Errorf(sym.Span, diag.DuplicateSymbol,
			"'%s' is already declared in this scope", sym.Name).
			WithRelated(existing.Span, "previous declaration"))
	}
}

func (p *symtabBuilder) declare(scope *Scope, decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		p.declareVar(scope, d)
	case *ast.FuncDecl:
		p.declareFunc(scope, d)
	case *ast.EnumDecl:
		p.declareEnum(scope, d)
	case *ast.ImportDecl:
		for _, name := range d.Names {
			p.define(scope, &Symbol{
				Name: name.Name, Kind: ImportedSymbol, Decl: d, Span: name.Span(),
			})
		}
	case *ast.TypeDecl:
		// Aliases live in the type table, not the symbol table.
	}
}

func (p *symtabBuilder) declareVar(scope *Scope, d *ast.VarDecl) {
	kind := VariableSymbol
	if d.Const {
		kind = ConstantSymbol
	}
	//
	p.define(scope, &Symbol{
		Name: d.Name.Name, Kind: kind, Decl: d, Init: d.Init,
		Exported: d.Exported, Span: d.Name.Span(),
	})
}

func (p *symtabBuilder) declareFunc(scope *Scope, d *ast.FuncDecl) {
	sym := &Symbol{
		Name: d.Name.Name, Kind: FunctionSymbol, Decl: d,
		Exported: d.Exported, Span: d.Name.Span(),
	}
	p.define(scope, sym)
	// Parameters live in the function's own scope.
	fnScope := p.newScope(FunctionScope, d, scope)
	//
	for _, param := range d.Params {
		psym := &Symbol{
			Name: param.Name.Name, Kind: ParameterSymbol, Decl: param,
			Span: param.Name.Span(),
		}
		sym.Params = append(sym.Params, psym)
		// Duplicates were already reported by the parser; avoid repeating.
		fnScope.Define(psym)
	}
	//
	if d.Body != nil {
		p.statements(fnScope, d.Body.Stmts)
		p.table.Scopes[d.Body] = fnScope
	}
}

func (p *symtabBuilder) declareEnum(scope *Scope, d *ast.EnumDecl) {
	// Members become symbols in the module scope; their enum type is stamped
	// during type resolution.
	for _, m := range d.Members {
		p.define(scope, &Symbol{
			Name: m.Name.Name, Kind: EnumMemberSymbol, Decl: d,
			Exported: d.Exported, Span: m.Name.Span(),
		})
	}
}

// Build scopes for a statement list within the given scope.
func (p *symtabBuilder) statements(scope *Scope, stmts []ast.Stmt) {
	for _, s := range stmts {
		p.statement(scope, s)
	}
}

func (p *symtabBuilder) statement(scope *Scope, s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		p.declareVar(scope, s)
	case *ast.Block:
		block := p.newScope(BlockScope, s, scope)
		p.statements(block, s.Stmts)
	case *ast.If:
		p.block(scope, s.Then)
		//
		if s.Else != nil {
			p.statement(scope, s.Else)
		}
	case *ast.While:
		loop := p.newScope(LoopScope, s, scope)
		p.statements(loop, s.Body.Stmts)
		p.table.Scopes[s.Body] = loop
	case *ast.DoWhile:
		loop := p.newScope(LoopScope, s, scope)
		p.statements(loop, s.Body.Stmts)
		p.table.Scopes[s.Body] = loop
	case *ast.For:
		// The counter is introduced in a dedicated loop scope.
		loop := p.newScope(LoopScope, s, scope)
		p.define(loop, &Symbol{
			Name: s.Counter.Name, Kind: VariableSymbol, Decl: s,
			LoopCounter: true, Span: s.Counter.Span(),
		})
		p.statements(loop, s.Body.Stmts)
		p.table.Scopes[s.Body] = loop
	case *ast.Switch:
		for _, c := range s.Cases {
			p.statements(scope, c.Body)
		}
	case *ast.Match:
		for _, c := range s.Cases {
			p.statements(scope, c.Body)
		}
	}
}

// block creates a scope for an if-branch block.
func (p *symtabBuilder) block(scope *Scope, b *ast.Block) {
	if b == nil {
		return
	}
	//
	child := p.newScope(BlockScope, b, scope)
	p.statements(child, b.Stmts)
}
