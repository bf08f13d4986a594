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
package analysis

import (
	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/sema"
)

// CallGraph captures the direct call relationships between the functions of
// a program.  Intrinsics and external calls are sinks and do not appear as
// nodes.  Functions on a cycle (including self-loops) are flagged recursive:
// the target has no hardware stack for deep recursion.
type CallGraph struct {
	// Declared functions by name.
	Functions map[string]*ast.FuncDecl
	// Callees per caller.
	Edges map[string][]string
	// Functions participating in a cycle.
	Recursive map[string]bool
}

// Calls checks whether one function directly calls another.
func (p *CallGraph) Calls(caller string, callee string) bool {
	for _, c := range p.Edges[caller] {
		if c == callee {
			return true
		}
	}
	//
	return false
}

// BuildCallGraph constructs the call graph of a program and flags recursion,
// reporting a warning for every recursive function.
func BuildCallGraph(prog *ast.Program, check *sema.CheckResult, sink *diag.Sink) *CallGraph {
	graph := &CallGraph{
		Functions: make(map[string]*ast.FuncDecl),
		Edges:     make(map[string][]string),
		Recursive: make(map[string]bool),
	}
	//
	for _, fn := range prog.Functions() {
		graph.Functions[fn.Name.Name] = fn
		//
		if fn.Body != nil {
			graph.Edges[fn.Name.Name] = collectCallees(fn.Body, check)
		}
	}
	//
	graph.findRecursion()
	// Warn on each recursive function.
	for _, fn := range prog.Functions() {
		if graph.Recursive[fn.Name.Name] {
			sink.Warning(fn.Name.Span(), diag.RecursiveFunction,
				"function '%s' is recursive; the target has no stack for deep recursion",
				fn.Name.Name)
		}
	}
	//
	return graph
}

// Collect the names of functions a body directly calls.
func collectCallees(body *ast.Block, check *sema.CheckResult) []string {
	var (
		callees []string
		seen    = make(map[string]bool)
	)
	//
	visitor := &callVisitor{check, func(name string) {
		if !seen[name] {
			seen[name] = true
			callees = append(callees, name)
		}
	}}
	//
	ast.NewWalker(visitor).Walk(body)
	//
	return callees
}

type callVisitor struct {
	check *sema.CheckResult
	found func(string)
}

func (p *callVisitor) Enter(n ast.Node) ast.Action {
	if call, ok := n.(*ast.Call); ok {
		if id, ok := call.Callee.(*ast.Ident); ok {
			if sym := p.check.Binding(id); sym != nil && sym.Kind == sema.FunctionSymbol {
				p.found(id.Name)
			}
		}
	}
	//
	return ast.Proceed
}

func (p *callVisitor) Exit(n ast.Node) {}

// Tarjan's strongly connected components; components of size greater than
// one, and self-loops, mark their members recursive.
func (p *CallGraph) findRecursion() {
	var (
		index    = make(map[string]int)
		lowlink  = make(map[string]int)
		onStack  = make(map[string]bool)
		stack    []string
		counter  int
		strongly func(string)
	)
	//
	strongly = func(v string) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		//
		stack = append(stack, v)
		onStack[v] = true
		//
		for _, w := range p.Edges[v] {
			if _, ok := p.Functions[w]; !ok {
				continue
			}
			//
			if _, visited := index[w]; !visited {
				strongly(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}
		// Root of a component: pop it.
		if lowlink[v] == index[v] {
			var component []string
			//
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				//
				if w == v {
					break
				}
			}
			//
			if len(component) > 1 {
				for _, w := range component {
					p.Recursive[w] = true
				}
			} else if p.Calls(v, v) {
				p.Recursive[v] = true
			}
		}
	}
	//
	for name := range p.Functions {
		if _, visited := index[name]; !visited {
			strongly(name)
		}
	}
}
