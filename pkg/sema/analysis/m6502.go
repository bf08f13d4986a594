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
	"sort"

	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/sema"
)

// A function body this small is worth inlining over a JSR/RTS pair.
const inlineStatementLimit = 3

// Hints carries the 6502-specific advisories handed to the code generator:
// variables worth zero-page placement, functions worth inlining, tail-call
// candidates, and the hot-variable ranking they derive from.
type Hints struct {
	// HotVariables ranks variables by estimated dynamic access frequency,
	// hottest first.
	HotVariables []*sema.Symbol
	// ZeroPageCandidates lists variables which would benefit from zero-page
	// placement: the hottest variables, plus any used through a pointer.
	ZeroPageCandidates []*sema.Symbol
	// InlineCandidates lists small, non-recursive, non-callback functions.
	// How often a function is called is not taken into account.
	InlineCandidates []string
	// TailCallCandidates lists functions whose final action is a call.
	TailCallCandidates []string
}

// TargetHints derives the 6502 advisories from the earlier analyses.
func TargetHints(prog *ast.Program, usage *Usage, graph *CallGraph, pure map[string]bool) *Hints {
	hints := &Hints{}
	// Rank variables by weighted access frequency.
	type ranked struct {
		sym    *sema.Symbol
		weight uint
	}
	//
	var ranking []ranked
	//
	for sym, weight := range usage.Weight {
		if sym.Kind == sema.VariableSymbol || sym.Kind == sema.ParameterSymbol {
			ranking = append(ranking, ranked{sym, weight})
		}
	}
	//
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].weight != ranking[j].weight {
			return ranking[i].weight > ranking[j].weight
		}
		// Deterministic order among equals.
		return ranking[i].sym.Name < ranking[j].sym.Name
	})
	//
	for _, r := range ranking {
		hints.HotVariables = append(hints.HotVariables, r.sym)
	}
	// Zero-page candidates: pointer-accessed variables first (indirect
	// addressing requires zero page), then the hottest variables.
	seen := make(map[*sema.Symbol]bool)
	//
	for sym := range usage.AddressTaken {
		hints.ZeroPageCandidates = append(hints.ZeroPageCandidates, sym)
		seen[sym] = true
	}
	//
	for _, sym := range hints.HotVariables {
		if !seen[sym] && len(hints.ZeroPageCandidates) < 16 {
			hints.ZeroPageCandidates = append(hints.ZeroPageCandidates, sym)
			seen[sym] = true
		}
	}
	// Inline and tail-call candidates.
	for _, fn := range prog.Functions() {
		name := fn.Name.Name
		//
		if fn.Body == nil || fn.Callback || graph.Recursive[name] {
			continue
		}
		//
		if len(fn.Body.Stmts) <= inlineStatementLimit {
			hints.InlineCandidates = append(hints.InlineCandidates, name)
		}
		//
		if endsInCall(fn.Body) {
			hints.TailCallCandidates = append(hints.TailCallCandidates, name)
		}
	}
	//
	sort.Strings(hints.InlineCandidates)
	sort.Strings(hints.TailCallCandidates)
	//
	return hints
}

// A body ends in a call when its final statement is "return f(...)" or a
// bare call.
func endsInCall(body *ast.Block) bool {
	if len(body.Stmts) == 0 {
		return false
	}
	//
	switch last := body.Stmts[len(body.Stmts)-1].(type) {
	case *ast.Return:
		_, ok := last.Value.(*ast.Call)
		return ok
	case *ast.ExprStmt:
		_, ok := last.X.(*ast.Call)
		return ok
	default:
		return false
	}
}
