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
	"github.com/bits-and-blooms/bitset"
	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/sema"
	"github.com/blendsdk/blend65/pkg/sema/cfg"
)

// DefiniteAssignment runs a forward data-flow analysis over a function's
// control-flow graph.  A variable is definitely assigned at a point when
// every path from its declaration assigns it first; branch merges intersect,
// loop merges converge by fixpoint.  A read of a variable which is assigned
// on some path but not all yields a warning; a read of a variable no path
// assigns yields an error.
func DefiniteAssignment(fn *ast.FuncDecl, graph *cfg.Graph, check *sema.CheckResult, sink *diag.Sink) {
	locals := localScalars(fn, check)
	if len(locals.vars) == 0 {
		return
	}
	//
	n := uint(len(graph.Nodes))
	width := uint(len(locals.vars))
	// Definite ("must") and possible ("may") assignment states per node.
	must := newStates(n, width, true)
	may := newStates(n, width, false)
	// Parameters start definitely assigned.
	entryState := bitset.New(width)
	//
	for i, sym := range locals.vars {
		if sym.Kind == sema.ParameterSymbol {
			entryState.Set(uint(i))
		}
	}
	//
	must.in[graph.Entry] = entryState.Clone()
	must.out[graph.Entry] = entryState.Clone()
	may.in[graph.Entry] = entryState.Clone()
	may.out[graph.Entry] = entryState.Clone()
	// Per-node writes.
	gen := make([]*bitset.BitSet, n)
	//
	for id, node := range graph.Nodes {
		gen[id] = bitset.New(width)
		//
		for _, ref := range nodeRefs(node, check, locals.accept) {
			if ref.write {
				gen[id].Set(locals.index[ref.sym])
			}
		}
	}
	//
	reachable := graph.Reachable()
	// Iterate to a fixpoint.
	changed := true
	//
	for changed {
		changed = false
		//
		for id, node := range graph.Nodes {
			uid := uint(id)
			//
			if uid == graph.Entry || !reachable.Test(uid) {
				continue
			}
			// Must: intersect over reachable predecessors; may: union.
			newMustIn := intersectPreds(must.out, node, reachable, width)
			newMayIn := unionPreds(may.out, node, reachable, width)
			//
			newMustOut := newMustIn.Union(gen[id])
			newMayOut := newMayIn.Union(gen[id])
			//
			if !newMustIn.Equal(must.in[uid]) || !newMustOut.Equal(must.out[uid]) ||
				!newMayIn.Equal(may.in[uid]) || !newMayOut.Equal(may.out[uid]) {
				changed = true
			}
			//
			must.in[uid], must.out[uid] = newMustIn, newMustOut
			may.in[uid], may.out[uid] = newMayIn, newMayOut
		}
	}
	// Report reads of not-definitely-assigned variables.
	reported := make(map[reportKey]bool)
	//
	for id, node := range graph.Nodes {
		if !reachable.Test(uint(id)) {
			continue
		}
		//
		for _, ref := range nodeRefs(node, check, locals.accept) {
			if ref.write {
				continue
			}
			//
			idx := locals.index[ref.sym]
			//
			if must.in[uint(id)].Test(idx) {
				continue
			}
			//
			key := reportKey{ref.sym, ref.ident.Span().Start()}
			if reported[key] {
				continue
			}
			//
			reported[key] = true
			//
			if !may.in[uint(id)].Test(idx) {
				sink.Error(ref.ident.Span(), diag.DaNeverAssigned,
					"variable '%s' is used before it is ever assigned", ref.sym.Name)
			} else {
				sink.Warning(ref.ident.Span(), diag.DaUsedBeforeAssigned,
					"variable '%s' may be used before assignment", ref.sym.Name)
			}
		}
	}
}

type reportKey struct {
	sym   *sema.Symbol
	start int
}

// Data-flow state vectors per node.
type states struct {
	in  map[uint]*bitset.BitSet
	out map[uint]*bitset.BitSet
}

// newStates initialises per-node vectors: the "must" analysis starts from
// the universal set (so intersection converges downwards), the "may"
// analysis from the empty set.
func newStates(nodes uint, width uint, universal bool) *states {
	s := &states{make(map[uint]*bitset.BitSet), make(map[uint]*bitset.BitSet)}
	//
	for id := uint(0); id < nodes; id++ {
		in, out := bitset.New(width), bitset.New(width)
		//
		if universal {
			for i := uint(0); i < width; i++ {
				in.Set(i)
				out.Set(i)
			}
		}
		//
		s.in[id] = in
		s.out[id] = out
	}
	//
	return s
}

func intersectPreds(out map[uint]*bitset.BitSet, node *cfg.Node,
	reachable *bitset.BitSet, width uint) *bitset.BitSet {
	var result *bitset.BitSet
	//
	for _, pred := range node.Preds {
		if !reachable.Test(pred) {
			continue
		}
		//
		if result == nil {
			result = out[pred].Clone()
		} else {
			result.InPlaceIntersection(out[pred])
		}
	}
	//
	if result == nil {
		result = bitset.New(width)
	}
	//
	return result
}

func unionPreds(out map[uint]*bitset.BitSet, node *cfg.Node,
	reachable *bitset.BitSet, width uint) *bitset.BitSet {
	result := bitset.New(width)
	//
	for _, pred := range node.Preds {
		if reachable.Test(pred) {
			result.InPlaceUnion(out[pred])
		}
	}
	//
	return result
}

// The universe of a function's trackable variables: scalar locals and
// parameters, indexed densely for bit-vector analyses.
type localVars struct {
	vars  []*sema.Symbol
	index map[*sema.Symbol]uint
}

func (p *localVars) accept(sym *sema.Symbol) bool {
	_, ok := p.index[sym]
	return ok
}

// Collect the scalar locals and parameters of a function, by walking its
// bindings and declarations.
func localScalars(fn *ast.FuncDecl, check *sema.CheckResult) *localVars {
	locals := &localVars{index: make(map[*sema.Symbol]uint)}
	//
	add := func(sym *sema.Symbol) {
		if _, ok := locals.index[sym]; ok {
			return
		}
		//
		switch sym.Kind {
		case sema.VariableSymbol, sema.ParameterSymbol:
			if !sym.IsGlobal() {
				locals.index[sym] = uint(len(locals.vars))
				locals.vars = append(locals.vars, sym)
			}
		}
	}
	//
	visitor := &bindingVisitor{check, add}
	ast.NewWalker(visitor).Walk(fn)
	//
	return locals
}

type bindingVisitor struct {
	check *sema.CheckResult
	found func(*sema.Symbol)
}

func (p *bindingVisitor) Enter(n ast.Node) ast.Action {
	if id, ok := n.(*ast.Ident); ok {
		if sym := p.check.Binding(id); sym != nil {
			p.found(sym)
		}
	}
	//
	return ast.Proceed
}

func (p *bindingVisitor) Exit(n ast.Node) {}
