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
	"time"

	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/sema"
	"github.com/blendsdk/blend65/pkg/sema/cfg"
	"github.com/blendsdk/blend65/pkg/types"
	log "github.com/sirupsen/logrus"
)

// Config selects which analysis tiers run and how diagnostics accumulate.
// The pass order itself is fixed: symbols, types, checking and CFGs always
// run; the advanced tiers may be suppressed for speed.
type Config struct {
	// Tier 1: definite assignment and variable usage.
	DefiniteAssignment bool
	VariableUsage      bool
	// Tier 2: dead code and liveness.  Dead-code warnings are reported
	// during pass 4 whether or not DeadCode is set.
	DeadCode bool
	Liveness bool
	// Tier 3: purity, loop analysis and 6502 target hints.
	Purity       bool
	LoopAnalysis bool
	TargetHints  bool
	// Diagnostic policies.
	StopOnFirstError bool
	ReportWarnings   bool
	MaxErrors        uint
}

// DefaultConfig enables every tier with warnings on.
func DefaultConfig() Config {
	return Config{
		DefiniteAssignment: true,
		VariableUsage:      true,
		DeadCode:           true,
		Liveness:           true,
		Purity:             true,
		LoopAnalysis:       true,
		TargetHints:        true,
		ReportWarnings:     true,
	}
}

// FrontEndConfig disables the advanced tiers, leaving only the passes needed
// for code generation.
func FrontEndConfig() Config {
	return Config{ReportWarnings: true}
}

// Result bundles everything semantic analysis produced for one program.
type Result struct {
	Program *ast.Program
	// Symbol table (pass 1).
	Table *sema.SymbolTable
	// Named types: aliases and enums (pass 2).
	Named map[string]types.Type
	// Expression types and identifier bindings (pass 3).
	Check *sema.CheckResult
	// Control-flow graphs by function name (pass 4).
	CFGs map[string]*cfg.Graph
	// Call graph with recursion flags (pass 5).
	CallGraph *CallGraph
	// Tier results (nil when suppressed).
	Usage    *Usage
	Liveness map[string]*Liveness
	Purity   map[string]bool
	Loops    []LoopInfo
	Hints    *Hints
	// All diagnostics, in reporting order.
	Diagnostics []diag.Diagnostic
}

// Failed checks whether analysis reported any errors.
func (p *Result) Failed() bool {
	return diag.HasErrors(p.Diagnostics)
}

// Analyzer runs the semantic passes over a program in their fixed order.
type Analyzer struct {
	config Config
}

// NewAnalyzer constructs an analyzer with a given configuration.
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{config}
}

// Analyze runs all enabled passes over a program.  Later passes still run on
// failing input, so one error does not suppress unrelated diagnostics.
func (p *Analyzer) Analyze(prog *ast.Program) *Result {
	sink := diag.NewSink().
		SetStopOnFirstError(p.config.StopOnFirstError).
		SetReportWarnings(p.config.ReportWarnings).
		SetMaxErrors(p.config.MaxErrors)
	//
	result := &Result{Program: prog}
	// Pass 1: symbol table.
	start := time.Now()
	result.Table = sema.BuildSymbolTable(prog, sink)
	// Pass 2: type resolution.
	result.Named = sema.ResolveTypes(prog, result.Table, sink)
	// Pass 3: type checking.
	result.Check = sema.Check(prog, result.Table, result.Named, sink)
	log.Debugf("front-end passes took %s", time.Since(start))
	// Pass 4: control-flow graphs; the unreachable nodes of each graph are
	// reported as soon as it is built, deduplicated by position.
	start = time.Now()
	result.CFGs = make(map[string]*cfg.Graph)
	seen := make(map[int]bool)
	//
	for _, fn := range prog.Functions() {
		if fn.Body == nil {
			continue
		}
		//
		graph := cfg.Build(fn)
		result.CFGs[fn.Name.Name] = graph
		DeadCode(graph, sink, seen)
	}
	// Pass 5: call graph and recursion detection.
	result.CallGraph = BuildCallGraph(prog, result.Check, sink)
	log.Debugf("control-flow passes took %s", time.Since(start))
	// Pass 6: advanced tiers.
	p.analyzeTiers(result, sink, seen)
	//
	result.Diagnostics = sink.Diagnostics()
	//
	return result
}

func (p *Analyzer) analyzeTiers(result *Result, sink *diag.Sink, seen map[int]bool) {
	start := time.Now()
	prog := result.Program
	// Tier 1.
	if p.config.DefiniteAssignment {
		for _, fn := range prog.Functions() {
			if graph := result.CFGs[fn.Name.Name]; graph != nil {
				DefiniteAssignment(fn, graph, result.Check, sink)
			}
		}
	}
	//
	if p.config.VariableUsage {
		result.Usage = AnalyzeUsage(prog, result.Table, result.Check, sink)
	}
	// Tier 2.  Dead code was already reported during pass 4, whatever the
	// DeadCode setting; liveness feeds the code generator only.
	if p.config.Liveness {
		result.Liveness = make(map[string]*Liveness)
		//
		for _, fn := range prog.Functions() {
			if graph := result.CFGs[fn.Name.Name]; graph != nil {
				result.Liveness[fn.Name.Name] = AnalyzeLiveness(fn, graph, result.Check)
			}
		}
	}
	// Tier 3.
	if p.config.Purity {
		result.Purity = AnalyzePurity(prog, result.CallGraph, result.Check)
	}
	//
	if p.config.LoopAnalysis {
		result.Loops = AnalyzeLoops(prog, result.Check)
	}
	//
	if p.config.TargetHints && p.config.VariableUsage && p.config.Purity {
		result.Hints = TargetHints(prog, result.Usage, result.CallGraph, result.Purity)
	}
	//
	log.Debugf("advanced analyses took %s", time.Since(start))
}
