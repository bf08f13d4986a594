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
	"testing"

	"github.com/blendsdk/blend65/pkg/util/source"
)

// a + (b * c)
func sampleExpr() Expr {
	span := source.UnknownSpan()
	//
	return NewBinary(span, OpAdd,
		NewIdent(span, "a"),
		NewBinary(span, OpMul, NewIdent(span, "b"), NewIdent(span, "c")))
}

type countingVisitor struct {
	DefaultVisitor
	// Identifier names in visit order.
	names []string
	// Node kinds to skip / stop at.
	skipMul bool
	stopAt  string
}

func (p *countingVisitor) Enter(n Node) Action {
	switch n := n.(type) {
	case *Ident:
		p.names = append(p.names, n.Name)
		//
		if n.Name == p.stopAt {
			return Stop
		}
	case *Binary:
		if p.skipMul && n.Op == OpMul {
			return Skip
		}
	}
	//
	return Proceed
}

func TestWalker_01(t *testing.T) {
	visitor := &countingVisitor{}
	NewWalker(visitor).Walk(sampleExpr())
	//
	checkNames(t, visitor.names, "a", "b", "c")
}

// Skip suppresses a subtree.
func TestWalker_02(t *testing.T) {
	visitor := &countingVisitor{skipMul: true}
	NewWalker(visitor).Walk(sampleExpr())
	//
	checkNames(t, visitor.names, "a")
}

// Stop aborts the whole walk.
func TestWalker_03(t *testing.T) {
	visitor := &countingVisitor{stopAt: "b"}
	walker := NewWalker(visitor)
	walker.Walk(sampleExpr())
	//
	checkNames(t, visitor.names, "a", "b")
	//
	if !walker.Stopped() {
		t.Errorf("walker did not report stop")
	}
}

// A walker may be reused across walks.
func TestWalker_04(t *testing.T) {
	visitor := &countingVisitor{}
	walker := NewWalker(visitor)
	walker.Walk(sampleExpr())
	walker.Walk(sampleExpr())
	//
	checkNames(t, visitor.names, "a", "b", "c", "a", "b", "c")
}

type parentVisitor struct {
	DefaultVisitor
	walker *Walker
	// Parent kind observed at each identifier.
	parents map[string]Node
}

func (p *parentVisitor) Enter(n Node) Action {
	if id, ok := n.(*Ident); ok {
		p.parents[id.Name] = p.walker.Parent()
	}
	//
	return Proceed
}

// The walker exposes the parent during hooks.
func TestWalker_05(t *testing.T) {
	visitor := &parentVisitor{parents: make(map[string]Node)}
	walker := NewWalker(visitor)
	visitor.walker = walker
	//
	root := sampleExpr()
	walker.Walk(root)
	//
	if visitor.parents["a"] != root {
		t.Errorf("parent of 'a' is not the root")
	}
	//
	if parent, ok := visitor.parents["b"].(*Binary); !ok || parent.Op != OpMul {
		t.Errorf("parent of 'b' is not the multiplication")
	}
}

type contextProbe struct {
	DefaultVisitor
	walker *ContextWalker
	// Whether each identifier was seen inside a loop.
	inLoop map[string]bool
}

func (p *contextProbe) Enter(n Node) Action {
	if id, ok := n.(*Ident); ok {
		p.inLoop[id.Name] = p.walker.InLoop()
	}
	//
	return Proceed
}

// The context walker tracks loop context without re-deriving it.
func TestContextWalker_01(t *testing.T) {
	span := source.UnknownSpan()
	// function f(): void { x; while (c) { y; } }
	fn := NewFuncDecl(span, NewIdent(span, "f"), nil,
		NewNamedTypeRef(span, "void"),
		NewBlock(span, []Stmt{
			NewExprStmt(span, NewIdent(span, "x")),
			NewWhile(span, NewIdent(span, "c"),
				NewBlock(span, []Stmt{NewExprStmt(span, NewIdent(span, "y"))})),
		}), false, false)
	//
	probe := &contextProbe{inLoop: make(map[string]bool)}
	walker := NewContextWalker(probe)
	probe.walker = walker
	walker.Walk(fn)
	//
	if probe.inLoop["x"] {
		t.Errorf("'x' wrongly inside loop")
	}
	//
	if !probe.inLoop["y"] {
		t.Errorf("'y' not inside loop")
	}
	// 'f' itself is outside the loop.
	if probe.inLoop["f"] {
		t.Errorf("'f' wrongly inside loop")
	}
}

func checkNames(t *testing.T, got []string, expected ...string) {
	t.Helper()
	//
	if len(got) != len(expected) {
		t.Errorf("got %v, expected %v", got, expected)
		return
	}
	//
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("got %v, expected %v", got, expected)
			return
		}
	}
}
