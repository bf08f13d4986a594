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
package compiler

import (
	"time"

	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/il"
	"github.com/blendsdk/blend65/pkg/parser"
	"github.com/blendsdk/blend65/pkg/sema"
	"github.com/blendsdk/blend65/pkg/sema/analysis"
	"github.com/blendsdk/blend65/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Config encapsulates the options affecting a compile: which analysis tiers
// run, the diagnostic policies, and the IL translation parameters.
type Config struct {
	Analysis  analysis.Config
	Translate il.TranslateOptions
}

// DefaultConfig enables every analysis tier.
func DefaultConfig() Config {
	return Config{
		Analysis:  analysis.DefaultConfig(),
		Translate: il.DefaultTranslateOptions(),
	}
}

// Result is everything one compile produced: the parsed program, the full
// semantic analysis (symbol table, expression types, CFGs, call graph, tier
// results), the IL module (nil when errors prevented translation), and the
// complete diagnostic list.
type Result struct {
	Program     *ast.Program
	Analysis    *analysis.Result
	IL          *il.Module
	Diagnostics []diag.Diagnostic
}

// Failed checks whether the compile reported any errors.
func (p *Result) Failed() bool {
	return diag.HasErrors(p.Diagnostics)
}

// Compile runs the full single-module pipeline over a source buffer: lexing,
// parsing, the semantic passes, and IL construction.  The pipeline is
// synchronous and stateless; nothing is shared between invocations.
func Compile(srcfile *source.File, config Config) *Result {
	start := time.Now()
	//
	prog, parseDiags := parser.Parse(srcfile)
	//
	result := &Result{Program: prog}
	result.Diagnostics = append(result.Diagnostics, parseDiags...)
	// Semantic passes run even on failing input, so unrelated diagnostics
	// still surface.
	result.Analysis = analysis.NewAnalyzer(config.Analysis).Analyze(prog)
	result.Diagnostics = append(result.Diagnostics, result.Analysis.Diagnostics...)
	// IL construction requires a clean front end.
	if !diag.HasErrors(result.Diagnostics) {
		module, translateDiags := il.Translate(result.Analysis, config.Translate)
		result.Diagnostics = append(result.Diagnostics, translateDiags...)
		//
		if !diag.HasErrors(translateDiags) {
			result.IL = module
		}
	}
	//
	log.Debugf("compiling %s took %s", srcfile.Filename(), time.Since(start))
	//
	return result
}

// CompileModules compiles a set of modules in a caller-supplied topological
// order, validating cross-module imports along the way.  Results are keyed
// by module name.
func CompileModules(sources map[string]*source.File, order []string, config Config) map[string]*Result {
	var (
		registry = sema.NewModuleRegistry()
		resolver = sema.NewImportResolver(registry)
		programs = make(map[string]*ast.Program)
		parses   = make(map[string][]diag.Diagnostic)
		results  = make(map[string]*Result)
	)
	// Parse and register everything first, so imports resolve regardless of
	// ordering mistakes in the caller's topology.
	for _, name := range order {
		srcfile, ok := sources[name]
		if !ok {
			continue
		}
		//
		prog, parseDiags := parser.Parse(srcfile)
		programs[name] = prog
		parses[name] = parseDiags
		registry.Register(prog)
	}
	// Compile each module, prefixing its import diagnostics.
	for _, name := range order {
		prog, ok := programs[name]
		if !ok {
			continue
		}
		//
		result := &Result{Program: prog}
		result.Diagnostics = append(result.Diagnostics, parses[name]...)
		//
		_, importDiags := resolver.ResolveImports(prog)
		result.Diagnostics = append(result.Diagnostics, importDiags...)
		//
		result.Analysis = analysis.NewAnalyzer(config.Analysis).Analyze(prog)
		result.Diagnostics = append(result.Diagnostics, result.Analysis.Diagnostics...)
		//
		if !diag.HasErrors(result.Diagnostics) {
			module, translateDiags := il.Translate(result.Analysis, config.Translate)
			result.Diagnostics = append(result.Diagnostics, translateDiags...)
			//
			if !diag.HasErrors(translateDiags) {
				result.IL = module
			}
		}
		//
		results[name] = result
	}
	//
	return results
}

// CompileFiles compiles a list of source files given in topological order,
// discovering each file's module name from its module header.  Results are
// returned in file order.
func CompileFiles(srcfiles []*source.File, config Config) []*Result {
	var (
		sources = make(map[string]*source.File)
		order   []string
	)
	//
	for _, srcfile := range srcfiles {
		prog, _ := parser.Parse(srcfile)
		name := prog.Name()
		//
		sources[name] = srcfile
		order = append(order, name)
	}
	//
	byName := CompileModules(sources, order, config)
	//
	var results []*Result
	for _, name := range order {
		if result, ok := byName[name]; ok {
			results = append(results, result)
		}
	}
	//
	return results
}
