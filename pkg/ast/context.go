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
	"github.com/blendsdk/blend65/pkg/util/collection/stack"
)

// ContextKind classifies an entry on a context walker's context stack.
type ContextKind uint8

const (
	// FunctionContext marks a function body.
	FunctionContext ContextKind = iota
	// LoopContext marks a while, do-while or for body.
	LoopContext
	// BlockContext marks a plain block.
	BlockContext
)

// Context is an entry on the context stack, pairing a kind with the node
// which introduced it.
type Context struct {
	Kind ContextKind
	Node Node
}

// ContextWalker extends Walker with a typed context stack (function, loop,
// block), so visitors can query their structural position without re-deriving
// it from the ancestor path.
type ContextWalker struct {
	Walker
	contexts *stack.Stack[Context]
}

// NewContextWalker constructs a context walker around a given visitor.
func NewContextWalker(visitor Visitor) *ContextWalker {
	p := &ContextWalker{contexts: stack.NewStack[Context]()}
	p.Walker = Walker{visitor: &contextTracker{p, visitor}}
	//
	return p
}

// Walk traverses the subtree rooted at the given node.
func (p *ContextWalker) Walk(n Node) {
	p.contexts.Clear()
	p.Walker.Walk(n)
}

// EnclosingFunction returns the function whose body is currently being
// visited, or nil outside any function.
func (p *ContextWalker) EnclosingFunction() *FuncDecl {
	for i := uint(0); i < p.contexts.Len(); i++ {
		ctx := p.contexts.Peek(i)
		//
		if ctx.Kind == FunctionContext {
			return ctx.Node.(*FuncDecl)
		}
	}
	//
	return nil
}

// EnclosingLoop returns the innermost loop currently being visited, stopping
// at a function boundary; nil when outside any loop.
func (p *ContextWalker) EnclosingLoop() Node {
	for i := uint(0); i < p.contexts.Len(); i++ {
		ctx := p.contexts.Peek(i)
		//
		switch ctx.Kind {
		case LoopContext:
			return ctx.Node
		case FunctionContext:
			return nil
		}
	}
	//
	return nil
}

// InLoop checks whether the current node lies within a loop of the enclosing
// function.
func (p *ContextWalker) InLoop() bool {
	return p.EnclosingLoop() != nil
}

// contextTracker interposes on the visitor to maintain the context stack.
type contextTracker struct {
	walker *ContextWalker
	inner  Visitor
}

func (p *contextTracker) Enter(n Node) Action {
	if kind, ok := contextKindOf(n); ok {
		p.walker.contexts.Push(Context{kind, n})
	}
	//
	return p.inner.Enter(n)
}

func (p *contextTracker) Exit(n Node) {
	p.inner.Exit(n)
	//
	if _, ok := contextKindOf(n); ok {
		p.walker.contexts.Pop()
	}
}

func contextKindOf(n Node) (ContextKind, bool) {
	switch n.(type) {
	case *FuncDecl:
		return FunctionContext, true
	case *While, *DoWhile, *For:
		return LoopContext, true
	case *Block:
		return BlockContext, true
	default:
		return 0, false
	}
}
