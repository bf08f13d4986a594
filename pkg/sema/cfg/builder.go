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
package cfg

import (
	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/util/collection/stack"
)

// loopContext pairs a loop's continue target (header) with its break target
// (exit).  Switch and match push a context with a nil header: a break target
// which continue skips past.
type loopContext struct {
	header *Node
	exit   *Node
}

// Builder constructs a control-flow graph statement by statement.  It
// maintains a current insertion point; a nil insertion point denotes
// unreachable code, in which case nodes are still created but flagged.
type Builder struct {
	graph *Graph
	// Current insertion point, or nil when unreachable.
	current *Node
	// Stack of enclosing loop (and switch/match) contexts.
	loops *stack.Stack[loopContext]
	// Function exit node.
	exit *Node
}

// Build constructs the control-flow graph of a function with a body.
func Build(fn *ast.FuncDecl) *Graph {
	graph := &Graph{Name: fn.Name.Name}
	//
	entry := graph.AddNode(EntryNode, nil)
	exit := graph.AddNode(ExitNode, nil)
	graph.Entry, graph.Exit = entry.ID, exit.ID
	//
	builder := &Builder{graph, entry, stack.NewStack[loopContext](), exit}
	builder.buildStmts(fn.Body.Stmts)
	// Fall-through off the last statement reaches the exit.
	if builder.current != nil {
		graph.AddEdge(builder.current, exit)
	}
	//
	return graph
}

// append a node at the insertion point.  While unreachable, the node is
// created but flagged, and becomes the new insertion point so subsequent
// structure remains intact.
func (p *Builder) append(kind NodeKind, syntax ast.Node) *Node {
	node := p.graph.AddNode(kind, syntax)
	//
	if p.current == nil {
		node.Unreachable = true
	} else {
		p.graph.AddEdge(p.current, node)
	}
	//
	p.current = node
	//
	return node
}

func (p *Builder) buildStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		p.buildStmt(s)
	}
}

//nolint:gocyclo
func (p *Builder) buildStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		p.buildStmts(s.Stmts)
	case *ast.VarDecl, *ast.ExprStmt:
		p.append(StatementNode, s)
	case *ast.If:
		p.buildIf(s)
	case *ast.While:
		p.buildWhile(s)
	case *ast.DoWhile:
		p.buildDoWhile(s)
	case *ast.For:
		p.buildFor(s)
	case *ast.Switch:
		p.buildCases(s, s.Value, s.Cases, true)
	case *ast.Match:
		p.buildCases(s, s.Value, s.Cases, false)
	case *ast.Return:
		node := p.append(ReturnNode, s)
		p.graph.AddEdge(node, p.exit)
		p.current = nil
	case *ast.Break:
		node := p.append(BreakNode, s)
		// Break exits the nearest loop, switch or match.
		if ctx, ok := p.nearestBreakable(); ok {
			p.graph.AddEdge(node, ctx.exit)
		}
		//
		p.current = nil
	case *ast.Continue:
		node := p.append(ContinueNode, s)
		// Continue re-enters the nearest loop header.
		if ctx, ok := p.nearestLoop(); ok {
			p.graph.AddEdge(node, ctx.header)
		}
		//
		p.current = nil
	default:
		p.append(StatementNode, s)
	}
}

// Branch node, two subgraphs, and a merge gathering the surviving exits.  If
// both branches terminate, the insertion point becomes nil (unreachable).
func (p *Builder) buildIf(s *ast.If) {
	branch := p.append(BranchNode, s)
	// Then branch.
	p.current = branch
	p.buildStmt(s.Then)
	thenExit := p.current
	// Else branch; absent means fall-through from the condition itself.
	elseExit := branch
	//
	if s.Else != nil {
		p.current = branch
		p.buildStmt(s.Else)
		elseExit = p.current
	}
	//
	if thenExit == nil && elseExit == nil {
		p.current = nil
		return
	}
	// Merge the surviving exits.
	merge := p.graph.AddNode(StatementNode, nil)
	//
	if thenExit != nil {
		p.graph.AddEdge(thenExit, merge)
	}
	//
	if elseExit != nil {
		p.graph.AddEdge(elseExit, merge)
	}
	//
	p.current = merge
}

// Loop header, body under a pushed loop context, back edge from the body
// tail, forward edge from the header to a dedicated exit.
func (p *Builder) buildWhile(s *ast.While) {
	header := p.append(LoopNode, s)
	exit := p.graph.AddNode(StatementNode, nil)
	p.graph.AddEdge(header, exit)
	//
	p.loops.Push(loopContext{header, exit})
	p.current = header
	p.buildStmts(s.Body.Stmts)
	// Back edge.
	if p.current != nil {
		p.graph.AddEdge(p.current, header)
	}
	//
	p.loops.Pop()
	p.current = exit
}

// The counted loop shares the while shape; counter initialisation is part of
// the header.
func (p *Builder) buildFor(s *ast.For) {
	header := p.append(LoopNode, s)
	exit := p.graph.AddNode(StatementNode, nil)
	p.graph.AddEdge(header, exit)
	//
	p.loops.Push(loopContext{header, exit})
	p.current = header
	p.buildStmts(s.Body.Stmts)
	//
	if p.current != nil {
		p.graph.AddEdge(p.current, header)
	}
	//
	p.loops.Pop()
	p.current = exit
}

// Body first, then a condition node at the end: back edge to the body,
// forward edge to the exit.  Continue targets the condition node.
func (p *Builder) buildDoWhile(s *ast.DoWhile) {
	body := p.append(LoopNode, s)
	cond := p.graph.AddNode(BranchNode, s)
	exit := p.graph.AddNode(StatementNode, nil)
	//
	p.loops.Push(loopContext{cond, exit})
	p.current = body
	p.buildStmts(s.Body.Stmts)
	//
	if p.current != nil {
		p.graph.AddEdge(p.current, cond)
	}
	//
	p.graph.AddEdge(cond, body)
	p.graph.AddEdge(cond, exit)
	//
	p.loops.Pop()
	p.current = exit
}

// Switch (fallthrough=true) and match (fallthrough=false) share a shape: a
// case entry per clause, break edges to the switch exit, and all surviving
// case exits merging at the exit.
func (p *Builder) buildCases(s ast.Stmt, value ast.Expr, cases []*ast.CaseClause, fallsThrough bool) {
	head := p.append(BranchNode, s)
	exit := p.graph.AddNode(StatementNode, nil)
	// Breakable context: break exits, continue skips past.
	p.loops.Push(loopContext{nil, exit})
	//
	hasDefault := false
	//
	var prevExit *Node
	//
	for _, clause := range cases {
		caseEntry := p.graph.AddNode(CaseNode, clause)
		p.graph.AddEdge(head, caseEntry)
		// C-style fall-through from the previous case's exit.
		if fallsThrough && prevExit != nil {
			p.graph.AddEdge(prevExit, caseEntry)
		}
		//
		if clause.IsDefault() {
			hasDefault = true
		}
		//
		p.current = caseEntry
		p.buildStmts(clause.Body)
		//
		if fallsThrough {
			prevExit = p.current
		} else if p.current != nil {
			// Match never falls through: each case exits to the end.
			p.graph.AddEdge(p.current, exit)
		}
	}
	// The final case's exit reaches the switch exit.
	if fallsThrough && prevExit != nil {
		p.graph.AddEdge(prevExit, exit)
	}
	// Without a default, the scrutinee may match nothing.
	if !hasDefault {
		p.graph.AddEdge(head, exit)
	}
	//
	p.loops.Pop()
	p.current = exit
}

// The nearest break target: any loop, switch or match.
func (p *Builder) nearestBreakable() (loopContext, bool) {
	if p.loops.IsEmpty() {
		return loopContext{}, false
	}
	//
	return p.loops.Top(), true
}

// The nearest continue target: a loop context with a header, skipping switch
// and match contexts.
func (p *Builder) nearestLoop() (loopContext, bool) {
	for i := uint(0); i < p.loops.Len(); i++ {
		if ctx := p.loops.Peek(i); ctx.header != nil {
			return ctx, true
		}
	}
	//
	return loopContext{}, false
}
