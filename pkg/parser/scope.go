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
	"github.com/blendsdk/blend65/pkg/util/collection/stack"
)

type parseScopeKind uint8

const (
	functionScope parseScopeKind = iota
	loopScope
	// Switch and match bodies: break targets, but not continue targets.
	breakableScope
)

type parseScope struct {
	kind parseScopeKind
	// Expected return type of a function scope.
	ret ast.TypeRef
}

// ScopeManager tracks the stack of function and loop scopes during parsing,
// enabling early validation of break, continue and return placement, and
// recording the enclosing function's expected return type.  A function
// boundary prevents break or continue from escaping into an outer loop.
type ScopeManager struct {
	scopes *stack.Stack[parseScope]
}

// NewScopeManager constructs an empty scope manager.
func NewScopeManager() *ScopeManager {
	return &ScopeManager{stack.NewStack[parseScope]()}
}

// EnterFunction pushes a function scope with its expected return type.
func (p *ScopeManager) EnterFunction(ret ast.TypeRef) {
	p.scopes.Push(parseScope{functionScope, ret})
}

// ExitFunction pops the current function scope.
func (p *ScopeManager) ExitFunction() {
	p.scopes.Pop()
}

// EnterLoop pushes a loop scope.
func (p *ScopeManager) EnterLoop() {
	p.scopes.Push(parseScope{loopScope, nil})
}

// ExitLoop pops the current loop scope.
func (p *ScopeManager) ExitLoop() {
	p.scopes.Pop()
}

// EnterBreakable pushes a switch/match scope, which accepts break but not
// continue.
func (p *ScopeManager) EnterBreakable() {
	p.scopes.Push(parseScope{breakableScope, nil})
}

// ExitBreakable pops the current switch/match scope.
func (p *ScopeManager) ExitBreakable() {
	p.scopes.Pop()
}

// InFunction checks whether any enclosing function scope exists.
func (p *ScopeManager) InFunction() bool {
	for i := uint(0); i < p.scopes.Len(); i++ {
		if p.scopes.Peek(i).kind == functionScope {
			return true
		}
	}
	//
	return false
}

// ReturnType returns the expected return type of the nearest enclosing
// function, or nil outside any function.
func (p *ScopeManager) ReturnType() ast.TypeRef {
	for i := uint(0); i < p.scopes.Len(); i++ {
		if s := p.scopes.Peek(i); s.kind == functionScope {
			return s.ret
		}
	}
	//
	return nil
}

// InBreakable checks whether break is valid here: inside a loop, switch or
// match, without crossing a function boundary.
func (p *ScopeManager) InBreakable() bool {
	for i := uint(0); i < p.scopes.Len(); i++ {
		switch p.scopes.Peek(i).kind {
		case loopScope, breakableScope:
			return true
		case functionScope:
			return false
		}
	}
	//
	return false
}

// InLoop checks whether continue is valid here: inside a loop, without
// crossing a function boundary.
func (p *ScopeManager) InLoop() bool {
	for i := uint(0); i < p.scopes.Len(); i++ {
		switch p.scopes.Peek(i).kind {
		case loopScope:
			return true
		case functionScope:
			return false
		}
	}
	//
	return false
}
