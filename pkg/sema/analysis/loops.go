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

// Unrolling is only ever worthwhile for very short loops on this target.
const unrollLimit = 8

// LoopInfo describes one loop: its trip count when the bounds are known at
// compile time (-1 otherwise), and whether it is a candidate for unrolling or
// strength reduction.
type LoopInfo struct {
	// Loop statement (For, While or DoWhile).
	Loop ast.Stmt
	// Function containing the loop.
	Function string
	// TripCount is the compile-time iteration count, or -1 when unknown.
	TripCount int64
	// Unrollable marks short counted loops.
	Unrollable bool
	// StrengthReduction marks loops whose body multiplies by the counter.
	StrengthReduction bool
}

// AnalyzeLoops inspects every loop of a program, computing iteration counts
// where the bounds are compile-time constants and flagging loops amenable to
// unrolling or strength reduction.
func AnalyzeLoops(prog *ast.Program, check *sema.CheckResult) []LoopInfo {
	var infos []LoopInfo
	//
	for _, fn := range prog.Functions() {
		if fn.Body == nil {
			continue
		}
		//
		visitor := &loopVisitor{fn.Name.Name, check, &infos}
		ast.NewWalker(visitor).Walk(fn.Body)
	}
	//
	return infos
}

type loopVisitor struct {
	function string
	check    *sema.CheckResult
	infos    *[]LoopInfo
}

func (p *loopVisitor) Enter(n ast.Node) ast.Action {
	switch n := n.(type) {
	case *ast.For:
		info := analyzeFor(p.function, n, p.check)
		*p.infos = append(*p.infos, info)
	case *ast.While:
		*p.infos = append(*p.infos, LoopInfo{n, p.function, -1, false, false})
	case *ast.DoWhile:
		*p.infos = append(*p.infos, LoopInfo{n, p.function, -1, false, false})
	}
	//
	return ast.Proceed
}

func (p *loopVisitor) Exit(n ast.Node) {}

func analyzeFor(function string, loop *ast.For, check *sema.CheckResult) LoopInfo {
	info := LoopInfo{loop, function, -1, false, false}
	//
	from, fromOK := sema.ConstEval(loop.From)
	to, toOK := sema.ConstEval(loop.To)
	//
	step := uint64(1)
	stepOK := true
	//
	if loop.Step != nil {
		step, stepOK = sema.ConstEval(loop.Step)
	}
	//
	if fromOK && toOK && stepOK && step > 0 {
		if loop.Down && from >= to {
			info.TripCount = int64((from-to)/step) + 1
		} else if !loop.Down && to >= from {
			info.TripCount = int64((to-from)/step) + 1
		} else {
			info.TripCount = 0
		}
	}
	//
	info.Unrollable = info.TripCount > 0 && info.TripCount <= unrollLimit
	info.StrengthReduction = multipliesCounter(loop, check)
	//
	return info
}

// A loop body which multiplies by its counter benefits from strength
// reduction (the 6502 has no multiply instruction).
func multipliesCounter(loop *ast.For, check *sema.CheckResult) bool {
	counter := check.Binding(loop.Counter)
	if counter == nil {
		return false
	}
	//
	found := false
	//
	visitor := &mulVisitor{check, counter, &found}
	ast.NewWalker(visitor).Walk(loop.Body)
	//
	return found
}

type mulVisitor struct {
	check   *sema.CheckResult
	counter *sema.Symbol
	found   *bool
}

func (p *mulVisitor) Enter(n ast.Node) ast.Action {
	if b, ok := n.(*ast.Binary); ok && b.Op == ast.OpMul {
		for _, side := range []ast.Expr{b.Lhs, b.Rhs} {
			if id, ok := side.(*ast.Ident); ok && p.check.Binding(id) == p.counter {
				*p.found = true
				return ast.Stop
			}
		}
	}
	//
	return ast.Proceed
}

func (p *mulVisitor) Exit(n ast.Node) {}
