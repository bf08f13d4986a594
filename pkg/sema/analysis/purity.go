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
	"github.com/blendsdk/blend65/pkg/sema"
)

// AnalyzePurity classifies every function as pure or impure.  A function is
// pure iff it writes no global memory, performs no I/O (machine-state
// intrinsics included), calls no impure function, and is not an interrupt
// entry point.  Impurity propagates to a fixpoint over the call graph.
func AnalyzePurity(prog *ast.Program, graph *CallGraph, check *sema.CheckResult) map[string]bool {
	pure := make(map[string]bool)
	// Seed: locally observable effects.
	for name, fn := range graph.Functions {
		pure[name] = !locallyImpure(fn, check)
	}
	// Propagate impurity across call edges to a fixpoint.
	changed := true
	//
	for changed {
		changed = false
		//
		for name := range graph.Functions {
			if !pure[name] {
				continue
			}
			//
			for _, callee := range graph.Edges[name] {
				if !pure[callee] {
					pure[name] = false
					changed = true
					//
					break
				}
			}
		}
	}
	//
	return pure
}

// A function is locally impure when it is a callback (interrupt), writes a
// global, or invokes a machine-state intrinsic.
func locallyImpure(fn *ast.FuncDecl, check *sema.CheckResult) bool {
	if fn.Callback || fn.Body == nil {
		return fn.Callback
	}
	//
	impure := false
	//
	visitor := &effectVisitor{check, &impure}
	ast.NewWalker(visitor).Walk(fn.Body)
	//
	return impure
}

type effectVisitor struct {
	check  *sema.CheckResult
	impure *bool
}

func (p *effectVisitor) Enter(n ast.Node) ast.Action {
	if *p.impure {
		return ast.Stop
	}
	//
	switch n := n.(type) {
	case *ast.Assign:
		// A store to a module-level variable is a global write.
		if id, ok := n.Target.(*ast.Ident); ok {
			if sym := p.check.Binding(id); sym != nil && sym.IsGlobal() {
				*p.impure = true
			}
		}
		// Stores through arrays count when the array is global.
		if ix, ok := n.Target.(*ast.Index); ok {
			if id, ok := ix.Target.(*ast.Ident); ok {
				if sym := p.check.Binding(id); sym != nil && sym.IsGlobal() {
					*p.impure = true
				}
			}
		}
	case *ast.Call:
		if id, ok := n.Callee.(*ast.Ident); ok {
			sym := p.check.Binding(id)
			//
			if sym != nil && sym.Kind == sema.IntrinsicSymbol && !sema.IsPureIntrinsic(id.Name) {
				*p.impure = true
			}
		}
	}
	//
	return ast.Proceed
}

func (p *effectVisitor) Exit(n ast.Node) {}
