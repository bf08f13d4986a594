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
	"github.com/blendsdk/blend65/pkg/sema"
	"github.com/blendsdk/blend65/pkg/sema/cfg"
)

// Liveness holds the classical backward data-flow result for one function:
// the variables live into and out of every CFG node.  It feeds the code
// generator's frame allocation; no diagnostics arise here.
type Liveness struct {
	// Tracked variables, densely indexed.
	Vars []*sema.Symbol
	// Index of each tracked variable.
	Index map[*sema.Symbol]uint
	// LiveIn and LiveOut per CFG node ID.
	LiveIn  map[uint]*bitset.BitSet
	LiveOut map[uint]*bitset.BitSet
}

// LiveAt checks whether a variable is live into a given node.
func (p *Liveness) LiveAt(sym *sema.Symbol, node uint) bool {
	idx, ok := p.Index[sym]
	if !ok {
		return false
	}
	//
	return p.LiveIn[node].Test(idx)
}

// AnalyzeLiveness runs the iterative backward data-flow over a function's
// CFG: LiveOut is the union of the successors' LiveIn; LiveIn is use united
// with LiveOut minus def.
func AnalyzeLiveness(fn *ast.FuncDecl, graph *cfg.Graph, check *sema.CheckResult) *Liveness {
	locals := localScalars(fn, check)
	//
	n := uint(len(graph.Nodes))
	width := uint(len(locals.vars))
	//
	result := &Liveness{
		Vars:    locals.vars,
		Index:   locals.index,
		LiveIn:  make(map[uint]*bitset.BitSet),
		LiveOut: make(map[uint]*bitset.BitSet),
	}
	// Per-node use and def sets.
	use := make([]*bitset.BitSet, n)
	def := make([]*bitset.BitSet, n)
	//
	for id, node := range graph.Nodes {
		use[id], def[id] = bitset.New(width), bitset.New(width)
		// Reference order matters: a read before a write is a genuine use.
		for _, ref := range nodeRefs(node, check, locals.accept) {
			idx := locals.index[ref.sym]
			//
			if ref.write {
				def[id].Set(idx)
			} else if !def[id].Test(idx) {
				use[id].Set(idx)
			}
		}
		//
		result.LiveIn[uint(id)] = bitset.New(width)
		result.LiveOut[uint(id)] = bitset.New(width)
	}
	// Iterate to a fixpoint.
	changed := true
	//
	for changed {
		changed = false
		// Reverse order converges faster for backward problems.
		for id := int(n) - 1; id >= 0; id-- {
			uid := uint(id)
			node := graph.Nodes[id]
			//
			out := bitset.New(width)
			for _, succ := range node.Succs {
				out.InPlaceUnion(result.LiveIn[succ])
			}
			//
			in := use[id].Union(out.Difference(def[id]))
			//
			if !in.Equal(result.LiveIn[uid]) || !out.Equal(result.LiveOut[uid]) {
				changed = true
			}
			//
			result.LiveIn[uid], result.LiveOut[uid] = in, out
		}
	}
	//
	return result
}
