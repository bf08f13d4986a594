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
package sema

import (
	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
)

// ModuleRegistry stores parsed programs by their fully-qualified module name.
// The driver populates it in topological order; the import resolver queries
// it to validate cross-module linkage.
type ModuleRegistry struct {
	programs map[string]*ast.Program
}

// NewModuleRegistry constructs an empty registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{make(map[string]*ast.Program)}
}

// Register a program under its module name, replacing any previous entry.
// Resolver caches are not invalidated automatically; call ClearCache on the
// resolvers concerned.
func (p *ModuleRegistry) Register(prog *ast.Program) {
	p.programs[prog.Name()] = prog
}

// Lookup a program by module name.
func (p *ModuleRegistry) Lookup(name string) *ast.Program {
	return p.programs[name]
}

// Modules returns the number of registered modules.
func (p *ModuleRegistry) Modules() int {
	return len(p.programs)
}

// ExportedSymbol describes one exported declaration of a module.
type ExportedSymbol struct {
	Name string
	Kind SymbolKind
	Decl ast.Decl
}

// ResolvedImport is a successfully linked import: a name, the module it came
// from, and the kind of its declaration there.
type ResolvedImport struct {
	Name   string
	Module string
	Kind   SymbolKind
}

// ImportResolver validates the import declarations of a program against the
// module registry.  Resolution is per identifier: valid names resolve even
// when sibling names fail.  Export lists are cached per resolver instance;
// ClearCache invalidates after registry mutation.
type ImportResolver struct {
	registry *ModuleRegistry
	// Exports per module name, lazily computed.
	cache map[string][]ExportedSymbol
}

// NewImportResolver constructs a resolver over a given registry.
func NewImportResolver(registry *ModuleRegistry) *ImportResolver {
	return &ImportResolver{registry, make(map[string][]ExportedSymbol)}
}

// ClearCache drops all cached export lists.
func (p *ImportResolver) ClearCache() {
	p.cache = make(map[string][]ExportedSymbol)
}

// ResolveImports validates every import declaration of a program, returning
// the resolved imports alongside per-identifier diagnostics.
func (p *ImportResolver) ResolveImports(prog *ast.Program) ([]ResolvedImport, []diag.Diagnostic) {
	var (
		resolved []ResolvedImport
		diags    []diag.Diagnostic
	)
	//
	for _, decl := range prog.Decls {
		imp, ok := decl.(*ast.ImportDecl)
		if !ok {
			continue
		}
		//
		r, d := p.resolveImport(imp)
		resolved = append(resolved, r...)
		diags = append(diags, d...)
	}
	//
	return resolved, diags
}

func (p *ImportResolver) resolveImport(imp *ast.ImportDecl) ([]ResolvedImport, []diag.Diagnostic) {
	var (
		resolved []ResolvedImport
		diags    []diag.Diagnostic
	)
	//
	moduleName := imp.FromName()
	//
	target := p.registry.Lookup(moduleName)
	if target == nil {
		diags = append(diags, diag.Errorf(imp.Span(), diag.UnknownModule,
			"unknown module '%s'", moduleName))
		//
		return nil, diags
	}
	//
	exports := p.exportsOf(moduleName, target)
	//
	if imp.Wildcard {
		// A wildcard from a module with no exports is an error.
		if len(exports) == 0 {
			diags = append(diags, diag.Errorf(imp.Span(), diag.EmptyExports,
				"module '%s' exports nothing", moduleName))
			//
			return nil, diags
		}
		//
		for _, e := range exports {
			resolved = append(resolved, ResolvedImport{e.Name, moduleName, e.Kind})
		}
		//
		return resolved, nil
	}
	//
	for _, name := range imp.Names {
		export, found := findExport(exports, name.Name)
		//
		switch {
		case found:
			resolved = append(resolved, ResolvedImport{name.Name, moduleName, export.Kind})
		case declares(target, name.Name):
			diags = append(diags, diag.Errorf(name.Span(), diag.SymbolNotExported,
				"'%s' is not exported by module '%s'", name.Name, moduleName))
		default:
			diags = append(diags, diag.Errorf(name.Span(), diag.SymbolNotFound,
				"module '%s' has no symbol '%s'", moduleName, name.Name))
		}
	}
	//
	return resolved, diags
}

// Compute (or recall) the exports of a module.
func (p *ImportResolver) exportsOf(name string, prog *ast.Program) []ExportedSymbol {
	if exports, ok := p.cache[name]; ok {
		return exports
	}
	//
	var exports []ExportedSymbol
	//
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Exported {
				exports = append(exports, ExportedSymbol{d.Name.Name, FunctionSymbol, d})
			}
		case *ast.VarDecl:
			if d.Exported {
				kind := VariableSymbol
				if d.Const {
					kind = ConstantSymbol
				}
				//
				exports = append(exports, ExportedSymbol{d.Name.Name, kind, d})
			}
		case *ast.EnumDecl:
			// Exporting an enum exports its members.
			if d.Exported {
				for _, m := range d.Members {
					exports = append(exports, ExportedSymbol{m.Name.Name, EnumMemberSymbol, d})
				}
			}
		}
	}
	//
	p.cache[name] = exports
	//
	return exports
}

func findExport(exports []ExportedSymbol, name string) (ExportedSymbol, bool) {
	for _, e := range exports {
		if e.Name == name {
			return e, true
		}
	}
	//
	return ExportedSymbol{}, false
}

// Check whether a module declares a given top-level name at all (exported or
// not), to distinguish "not exported" from "not found".
func declares(prog *ast.Program, name string) bool {
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Name.Name == name {
				return true
			}
		case *ast.VarDecl:
			if d.Name.Name == name {
				return true
			}
		case *ast.EnumDecl:
			for _, m := range d.Members {
				if m.Name.Name == name {
					return true
				}
			}
		case *ast.TypeDecl:
			if d.Name.Name == name {
				return true
			}
		}
	}
	//
	return false
}
