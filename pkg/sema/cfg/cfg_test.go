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
	"testing"

	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/parser"
	"github.com/blendsdk/blend65/pkg/util/source"
)

func buildGraph(t *testing.T, body string) *Graph {
	t.Helper()
	//
	input := "function f(): void {\n" + body + "\n}"
	prog, diags := parser.Parse(source.NewSourceFile("test.b65", []byte(input)))
	//
	if diag.HasErrors(diags) {
		t.Fatalf("parse errors: %v", diags)
	}
	//
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			return Build(fn)
		}
	}
	//
	t.Fatalf("no function")
	//
	return nil
}

// The entry is always reachable, and straight-line code chains to the exit.
func TestCFG_01(t *testing.T) {
	graph := buildGraph(t, "let x: byte = 1;\nx = 2;")
	//
	reachable := graph.Reachable()
	//
	if !reachable.Test(graph.Entry) {
		t.Errorf("entry unreachable")
	}
	//
	if !reachable.Test(graph.Exit) {
		t.Errorf("exit unreachable from fall-through")
	}
	//
	for _, node := range graph.Nodes {
		if node.Unreachable {
			t.Errorf("straight-line node flagged unreachable")
		}
	}
}

// A return edge reaches the exit, and code after return is unreachable.
func TestCFG_02(t *testing.T) {
	graph := buildGraph(t, "return;\nlet x: byte = 1;")
	//
	var ret, stmt *Node
	//
	for _, node := range graph.Nodes {
		switch node.Kind {
		case ReturnNode:
			ret = node
		case StatementNode:
			if node.Syntax != nil {
				stmt = node
			}
		}
	}
	//
	if ret == nil || !hasSucc(ret, graph.Exit) {
		t.Errorf("return does not edge to exit")
	}
	//
	if stmt == nil || !stmt.Unreachable {
		t.Errorf("statement after return not flagged")
	}
}

// If with both branches terminating leaves no fall-through.
func TestCFG_03(t *testing.T) {
	graph := buildGraph(t, `
		if (a) { return; } else { return; }
		let x: byte = 1;`)
	//
	count := 0
	//
	for _, node := range graph.Nodes {
		if node.Unreachable {
			count++
		}
	}
	//
	if count == 0 {
		t.Errorf("no unreachable node after terminating if/else")
	}
}

// A branch node has two successors.
func TestCFG_04(t *testing.T) {
	graph := buildGraph(t, "if (a) { x = 1; }")
	//
	branch := findKind(graph, BranchNode)
	if branch == nil || len(branch.Succs) != 2 {
		t.Fatalf("branch node malformed")
	}
}

// While: loop header has a body successor and a fall-out successor, and a
// back edge arrives from the body tail.
func TestCFG_05(t *testing.T) {
	graph := buildGraph(t, "while (a) { x = 1; }")
	//
	header := findKind(graph, LoopNode)
	if header == nil || len(header.Succs) != 2 {
		t.Fatalf("loop header malformed")
	}
	// Back edge: some node other than the header's predecessor chain edges
	// back to the header.
	backEdge := false
	//
	for _, pred := range header.Preds {
		if pred != graph.Entry {
			backEdge = true
		}
	}
	//
	if !backEdge {
		t.Errorf("no back edge to loop header")
	}
}

// Break edges to the loop exit; continue edges to the header.
func TestCFG_06(t *testing.T) {
	graph := buildGraph(t, `
		while (a) {
			if (b) { break; }
			if (c) { continue; }
			x = 1;
		}`)
	//
	header := findKind(graph, LoopNode)
	brk := findKind(graph, BreakNode)
	cont := findKind(graph, ContinueNode)
	//
	if brk == nil || len(brk.Succs) != 1 {
		t.Fatalf("break node malformed")
	}
	//
	if cont == nil || !hasSucc(cont, header.ID) {
		t.Errorf("continue does not edge to header")
	}
}

// Switch falls through between consecutive cases; match does not.
func TestCFG_07(t *testing.T) {
	swGraph := buildGraph(t, `
		switch (x) {
			case 1: a = 1;
			case 2: a = 2;
		}`)
	//
	if !caseFallsThrough(swGraph) {
		t.Errorf("switch case does not fall through")
	}
	//
	mGraph := buildGraph(t, `
		match (x) {
			case 1: a = 1;
			case 2: a = 2;
		}`)
	//
	if caseFallsThrough(mGraph) {
		t.Errorf("match case falls through")
	}
}

// The do-while condition sits at the end, with a back edge to the body.
func TestCFG_08(t *testing.T) {
	graph := buildGraph(t, "do { x = 1; } while (a);")
	//
	cond := findKind(graph, BranchNode)
	body := findKind(graph, LoopNode)
	//
	if cond == nil || body == nil {
		t.Fatalf("do-while nodes missing")
	}
	//
	if !hasSucc(cond, body.ID) {
		t.Errorf("no back edge from condition to body")
	}
}

// Whether any case-entry node is reachable from another case's statements.
func caseFallsThrough(graph *Graph) bool {
	for _, node := range graph.Nodes {
		if node.Kind != CaseNode {
			continue
		}
		// A fall-through edge arrives from a statement node, not from the
		// switch head (a branch node).
		for _, pred := range node.Preds {
			if graph.Node(pred).Kind == StatementNode {
				return true
			}
		}
	}
	//
	return false
}

func findKind(graph *Graph, kind NodeKind) *Node {
	for _, node := range graph.Nodes {
		if node.Kind == kind {
			return node
		}
	}
	//
	return nil
}

func hasSucc(node *Node, id uint) bool {
	for _, succ := range node.Succs {
		if succ == id {
			return true
		}
	}
	//
	return false
}
