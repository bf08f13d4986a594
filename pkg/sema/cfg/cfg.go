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
	"github.com/bits-and-blooms/bitset"
	"github.com/blendsdk/blend65/pkg/ast"
)

// NodeKind classifies a control-flow graph node.
type NodeKind uint8

const (
	// EntryNode is the unique function entry.
	EntryNode NodeKind = iota
	// ExitNode is the unique function exit.
	ExitNode
	// StatementNode is a straight-line statement (or a synthesised merge
	// point, which carries no syntax).
	StatementNode
	// BranchNode is a two-way conditional.
	BranchNode
	// LoopNode is a loop header.
	LoopNode
	// CaseNode is the entry of a switch or match case.
	CaseNode
	// ReturnNode is a return statement.
	ReturnNode
	// BreakNode is a break statement.
	BreakNode
	// ContinueNode is a continue statement.
	ContinueNode
)

// String returns a human-readable name for this node kind.
func (p NodeKind) String() string {
	switch p {
	case EntryNode:
		return "entry"
	case ExitNode:
		return "exit"
	case StatementNode:
		return "statement"
	case BranchNode:
		return "branch"
	case LoopNode:
		return "loop"
	case CaseNode:
		return "case"
	case ReturnNode:
		return "return"
	case BreakNode:
		return "break"
	case ContinueNode:
		return "continue"
	default:
		return "node"
	}
}

// Node is a single control-flow graph node, back-referencing the syntax it
// represents (nil for entry, exit and synthesised merges).
type Node struct {
	ID   uint
	Kind NodeKind
	// Syntax is the statement (or clause) this node stands for.
	Syntax ast.Node
	// Successor and predecessor node IDs.
	Succs []uint
	Preds []uint
	// Unreachable marks nodes created while the insertion point was null.
	Unreachable bool
}

// Graph is the control-flow graph of one function: nodes, edges, and the
// distinguished entry and exit.
type Graph struct {
	// Function name this graph belongs to.
	Name  string
	Nodes []*Node
	Entry uint
	Exit  uint
}

// Node returns the node with a given ID.
func (p *Graph) Node(id uint) *Node {
	return p.Nodes[id]
}

// AddNode creates a node of the given kind.
func (p *Graph) AddNode(kind NodeKind, syntax ast.Node) *Node {
	node := &Node{ID: uint(len(p.Nodes)), Kind: kind, Syntax: syntax}
	p.Nodes = append(p.Nodes, node)
	//
	return node
}

// AddEdge links two nodes, maintaining both edge lists.
func (p *Graph) AddEdge(from *Node, to *Node) {
	from.Succs = append(from.Succs, to.ID)
	to.Preds = append(to.Preds, from.ID)
}

// Reachable computes the set of node IDs reachable from the entry.
func (p *Graph) Reachable() *bitset.BitSet {
	reachable := bitset.New(uint(len(p.Nodes)))
	//
	worklist := []uint{p.Entry}
	reachable.Set(p.Entry)
	//
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		//
		for _, succ := range p.Nodes[id].Succs {
			if !reachable.Test(succ) {
				reachable.Set(succ)
				worklist = append(worklist, succ)
			}
		}
	}
	//
	return reachable
}
