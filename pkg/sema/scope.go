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
)

// ScopeKind classifies the construct which introduced a scope.
type ScopeKind uint8

const (
	// ModuleScope is the top-level scope of a program.
	ModuleScope ScopeKind = iota
	// FunctionScope is introduced by a function body.
	FunctionScope
	// BlockScope is introduced by a nested block.
	BlockScope
	// LoopScope is introduced by a loop body (the for counter lives here).
	LoopScope
)

// Scope is a node in the lexical scope tree, owning the symbols declared
// directly within it.  Name lookup proceeds innermost-first along the parent
// chain; crossing a function boundary skips directly to the module scope, so
// identifier resolution is capture-agnostic.
type Scope struct {
	id   uint
	Kind ScopeKind
	// Node is a back reference to the AST construct introducing this scope.
	Node ast.Node
	// Parent scope, nil at the module scope.
	Parent *Scope
	// Children in creation order.
	Children []*Scope
	// Symbols owned by this scope.
	symbols map[string]*Symbol
	// Declaration order of symbols, for deterministic iteration.
	order []*Symbol
}

// NewScope constructs a scope and links it beneath its parent.
func NewScope(id uint, kind ScopeKind, node ast.Node, parent *Scope) *Scope {
	scope := &Scope{id, kind, node, parent, nil, make(map[string]*Symbol), nil}
	//
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}
	//
	return scope
}

// ID returns this scope's unique identifier.
func (p *Scope) ID() uint {
	return p.id
}

// Define enters a symbol into this scope.  When the name is already taken
// here, the existing symbol is returned and the new one is not entered
// (shadowing only applies across scopes, never within one).
func (p *Scope) Define(sym *Symbol) *Symbol {
	if existing, ok := p.symbols[sym.Name]; ok {
		return existing
	}
	//
	sym.Scope = p
	p.symbols[sym.Name] = sym
	p.order = append(p.order, sym)
	//
	return nil
}

// LookupLocal finds a symbol declared directly in this scope.
func (p *Scope) LookupLocal(name string) *Symbol {
	return p.symbols[name]
}

// Lookup resolves a name, innermost-first.  After the nearest enclosing
// function scope has been searched, resolution continues directly at the
// module scope.
func (p *Scope) Lookup(name string) *Symbol {
	scope := p
	//
	for scope != nil {
		if sym, ok := scope.symbols[name]; ok {
			return sym
		}
		//
		if scope.Kind == FunctionScope {
			scope = p.Module()
			// The module scope's parent is nil, so this terminates.
			if sym, ok := scope.symbols[name]; ok {
				return sym
			}
			//
			return nil
		}
		//
		scope = scope.Parent
	}
	//
	return nil
}

// Module returns the root (module) scope of this scope tree.
func (p *Scope) Module() *Scope {
	scope := p
	//
	for scope.Parent != nil {
		scope = scope.Parent
	}
	//
	return scope
}

// Symbols returns the symbols owned by this scope, in declaration order.
func (p *Scope) Symbols() []*Symbol {
	return p.order
}

// Walk applies a function to every symbol in this scope and its descendants.
func (p *Scope) Walk(fn func(*Symbol)) {
	for _, sym := range p.order {
		fn(sym)
	}
	//
	for _, child := range p.Children {
		child.Walk(fn)
	}
}
