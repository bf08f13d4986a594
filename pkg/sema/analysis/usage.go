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

// Usage aggregates how every variable is used: read and write counts, plus a
// loop-depth-weighted frequency estimate used by the target hints to rank hot
// variables.
type Usage struct {
	Reads  map[*sema.Symbol]uint
	Writes map[*sema.Symbol]uint
	// Weight estimates dynamic access frequency: occurrences deeper in loop
	// nests weigh exponentially more.
	Weight map[*sema.Symbol]uint
	// AddressTaken marks variables whose address is taken (indirect-pointer
	// uses; prime zero-page candidates).
	AddressTaken map[*sema.Symbol]bool
}

// AnalyzeUsage walks a program recording variable reads and writes
// (distinguishing identifier contexts), then reports unused variables and
// parameters.  Loop counters are exempt from unused advisories.
func AnalyzeUsage(prog *ast.Program, table *sema.SymbolTable, check *sema.CheckResult,
	sink *diag.Sink) *Usage {
	usage := &Usage{
		Reads:        make(map[*sema.Symbol]uint),
		Writes:       make(map[*sema.Symbol]uint),
		Weight:       make(map[*sema.Symbol]uint),
		AddressTaken: make(map[*sema.Symbol]bool),
	}
	//
	visitor := &usageVisitor{check: check, usage: usage}
	walker := ast.NewWalker(visitor)
	visitor.walker = walker
	walker.Walk(prog)
	// Unused advisories.
	reportUnused(table, usage, sink)
	//
	return usage
}

type usageVisitor struct {
	check  *sema.CheckResult
	usage  *Usage
	walker *ast.Walker
	// Current loop nesting depth.
	depth uint
}

func (p *usageVisitor) Enter(n ast.Node) ast.Action {
	switch n := n.(type) {
	case *ast.While, *ast.DoWhile, *ast.For:
		p.depth++
	case *ast.Ident:
		p.record(n)
	case *ast.AddrOf:
		if id, ok := n.Operand.(*ast.Ident); ok {
			if sym := p.check.Binding(id); sym != nil {
				p.usage.AddressTaken[sym] = true
			}
		}
	}
	//
	return ast.Proceed
}

func (p *usageVisitor) Exit(n ast.Node) {
	switch n.(type) {
	case *ast.While, *ast.DoWhile, *ast.For:
		p.depth--
	}
}

// Classify an identifier occurrence as read, write or both, from its parent
// context.
func (p *usageVisitor) record(id *ast.Ident) {
	sym := p.check.Binding(id)
	if sym == nil {
		return
	}
	//
	switch sym.Kind {
	case sema.VariableSymbol, sema.ParameterSymbol, sema.ConstantSymbol:
		// Tracked.
	default:
		return
	}
	//
	weight := uint(1) << min(2*p.depth, 10)
	//
	switch parent := p.walker.Parent().(type) {
	case *ast.Assign:
		if parent.Target == ast.Expr(id) {
			p.usage.Writes[sym]++
			// Compound assignment also reads.
			if parent.Op != ast.OpNone {
				p.usage.Reads[sym]++
			}
			//
			p.usage.Weight[sym] += weight
			//
			return
		}
	case *ast.VarDecl:
		if parent.Name == id {
			// The declaring occurrence; an initialiser counts as a write.
			if parent.Init != nil {
				p.usage.Writes[sym]++
			}
			//
			return
		}
	case *ast.For:
		if parent.Counter == id {
			p.usage.Writes[sym]++
			return
		}
	case *ast.Param:
		return
	}
	//
	p.usage.Reads[sym]++
	p.usage.Weight[sym] += weight
}

func reportUnused(table *sema.SymbolTable, usage *Usage, sink *diag.Sink) {
	table.Module.Walk(func(sym *sema.Symbol) {
		if sym.Exported || sym.LoopCounter || usage.Reads[sym] > 0 {
			return
		}
		//
		switch sym.Kind {
		case sema.ParameterSymbol:
			sink.Warning(sym.Span, diag.UnusedParameter,
				"parameter '%s' is never used", sym.Name)
		case sema.VariableSymbol:
			sink.Warning(sym.Span, diag.UnusedVariable,
				"variable '%s' is never used", sym.Name)
		}
	})
}
