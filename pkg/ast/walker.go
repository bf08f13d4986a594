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

// Action controls how a walk proceeds after a visitor hook.
type Action uint8

const (
	// Proceed descends into the node's children.
	Proceed Action = iota
	// Skip does not descend into the node's children.
	Skip
	// Stop aborts the entire walk.
	Stop
)

// Visitor receives enter/exit events during a walk.  Enter is called before a
// node's children are visited, Exit afterwards.  Implementations dispatch on
// the node's concrete type.
type Visitor interface {
	Enter(n Node) Action
	Exit(n Node)
}

// DefaultVisitor is a no-op visitor for embedding, so implementations need
// only override the hooks they care about.
type DefaultVisitor struct{}

// Enter continues into every node.
func (p *DefaultVisitor) Enter(n Node) Action { return Proceed }

// Exit does nothing.
func (p *DefaultVisitor) Exit(n Node) {}

// Walker performs a depth-first traversal over an AST, invoking a visitor's
// hooks at every node.  During hooks, the walker exposes the current node's
// parent and full ancestor path.  A walker may be reused across multiple
// Walk calls; its traversal state is reset each time.
type Walker struct {
	visitor Visitor
	// Ancestor path of the node currently being visited.
	path []Node
	// Set once the visitor requests a stop.
	stopped bool
}

// NewWalker constructs a walker around a given visitor.
func NewWalker(visitor Visitor) *Walker {
	return &Walker{visitor: visitor}
}

// Walk traverses the subtree rooted at the given node.
func (p *Walker) Walk(n Node) {
	p.path = p.path[:0]
	p.stopped = false
	//
	p.visit(n)
}

// Stopped reports whether the last walk was aborted by the visitor.
func (p *Walker) Stopped() bool {
	return p.stopped
}

// Parent returns the immediate ancestor of the node currently being visited,
// or nil at the root.
func (p *Walker) Parent() Node {
	if len(p.path) == 0 {
		return nil
	}
	//
	return p.path[len(p.path)-1]
}

// Path returns the full ancestor path (root first) of the node currently
// being visited.
func (p *Walker) Path() []Node {
	return p.path
}

func (p *Walker) visit(n Node) {
	if n == nil || p.stopped {
		return
	}
	//
	switch p.visitor.Enter(n) {
	case Stop:
		p.stopped = true
		return
	case Proceed:
		p.path = append(p.path, n)
		p.children(n)
		p.path = p.path[:len(p.path)-1]
	}
	//
	if !p.stopped {
		p.visitor.Exit(n)
	}
}

// Visit a node's children, in source order.
//
//nolint:gocyclo
func (p *Walker) children(n Node) {
	switch n := n.(type) {
	case *Program:
		p.visit(n.Module)
		//
		for _, d := range n.Decls {
			p.visit(d)
		}
	case *ImportDecl:
		for _, id := range n.Names {
			p.visit(id)
		}
	case *FuncDecl:
		p.visit(n.Name)
		//
		for _, param := range n.Params {
			p.visit(param)
		}
		//
		p.visit(n.Return)
		//
		if n.Body != nil {
			p.visit(n.Body)
		}
	case *Param:
		p.visit(n.Name)
		p.visit(n.Type)
	case *VarDecl:
		p.visit(n.Name)
		p.visit(n.Type)
		//
		if n.MapAddress != nil {
			p.visit(n.MapAddress)
		}
		//
		if n.Init != nil {
			p.visit(n.Init)
		}
	case *TypeDecl:
		p.visit(n.Name)
		p.visit(n.Target)
	case *EnumDecl:
		p.visit(n.Name)
		//
		for _, m := range n.Members {
			p.visit(m)
		}
	case *EnumMember:
		p.visit(n.Name)
		//
		if n.Value != nil {
			p.visit(n.Value)
		}
	case *ArrayTypeRef:
		p.visit(n.Element)
		//
		if n.Size != nil {
			p.visit(n.Size)
		}
	case *CallbackTypeRef:
		for _, t := range n.Params {
			p.visit(t)
		}
		//
		p.visit(n.Return)
	case *Block:
		for _, s := range n.Stmts {
			p.visit(s)
		}
	case *ExprStmt:
		p.visit(n.X)
	case *Return:
		if n.Value != nil {
			p.visit(n.Value)
		}
	case *If:
		p.visit(n.Cond)
		p.visit(n.Then)
		//
		if n.Else != nil {
			p.visit(n.Else)
		}
	case *While:
		p.visit(n.Cond)
		p.visit(n.Body)
	case *DoWhile:
		p.visit(n.Body)
		p.visit(n.Cond)
	case *For:
		p.visit(n.Counter)
		//
		if n.CounterType != nil {
			p.visit(n.CounterType)
		}
		//
		p.visit(n.From)
		p.visit(n.To)
		//
		if n.Step != nil {
			p.visit(n.Step)
		}
		//
		p.visit(n.Body)
	case *Switch:
		p.visit(n.Value)
		//
		for _, c := range n.Cases {
			p.visit(c)
		}
	case *Match:
		p.visit(n.Value)
		//
		for _, c := range n.Cases {
			p.visit(c)
		}
	case *CaseClause:
		if n.Value != nil {
			p.visit(n.Value)
		}
		//
		for _, s := range n.Body {
			p.visit(s)
		}
	case *ArrayLit:
		for _, e := range n.Elements {
			p.visit(e)
		}
	case *Unary:
		p.visit(n.Operand)
	case *Binary:
		p.visit(n.Lhs)
		p.visit(n.Rhs)
	case *Ternary:
		p.visit(n.Cond)
		p.visit(n.Then)
		p.visit(n.Else)
	case *Assign:
		p.visit(n.Target)
		p.visit(n.Value)
	case *AddrOf:
		p.visit(n.Operand)
	case *Call:
		p.visit(n.Callee)
		//
		for _, a := range n.Args {
			p.visit(a)
		}
	case *Index:
		p.visit(n.Target)
		p.visit(n.Index)
	case *Member:
		p.visit(n.Target)
	}
}
