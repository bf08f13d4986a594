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
	"github.com/blendsdk/blend65/pkg/types"
)

// TypeResolver runs the second analysis pass: alias and enum declarations are
// collected first (so their names resolve), then every symbol's annotation is
// resolved into the structural type model and stamped onto the symbol.
type TypeResolver struct {
	sink  *diag.Sink
	table *SymbolTable
	// Named types: aliases and enums by name.
	named map[string]types.Type
	// Alias declarations pending resolution.
	aliases map[string]*ast.TypeDecl
	// Cycle detection during alias resolution.
	resolving map[string]bool
}

// ResolveTypes stamps a type onto every symbol of a program, returning the
// named-type table (aliases and enums).
func ResolveTypes(prog *ast.Program, table *SymbolTable, sink *diag.Sink) map[string]types.Type {
	r := &TypeResolver{
		sink:      sink,
		table:     table,
		named:     make(map[string]types.Type),
		aliases:   make(map[string]*ast.TypeDecl),
		resolving: make(map[string]bool),
	}
	// Collect enums and aliases first, so forward references resolve.
	r.collect(prog)
	// Resolve the collected aliases (cycle detection included).
	for name := range r.aliases {
		r.resolveNamed(name)
	}
	// Stamp every symbol.
	r.stampScope(table.Module)
	//
	return r.named
}

// Named returns a previously resolved named type.
func (p *TypeResolver) Named(name string) types.Type {
	return p.named[name]
}

func (p *TypeResolver) collect(prog *ast.Program) {
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.EnumDecl:
			p.collectEnum(d)
		case *ast.TypeDecl:
			p.aliases[d.Name.Name] = d
		}
	}
}

// Compute enum member values following C rules: an explicit value, or the
// previous member plus one, starting at zero.
func (p *TypeResolver) collectEnum(d *ast.EnumDecl) {
	var (
		members = make(map[string]uint32)
		order   []string
		next    uint32
	)
	//
	for _, m := range d.Members {
		if m.Value != nil {
			if v, ok := ConstEval(m.Value); ok {
				next = uint32(v)
			} else {
				p.sink.Error(m.Value.Span(), diag.TypeMismatch,
					"enum member '%s' requires a constant value", m.Name.Name)
			}
		}
		//
		members[m.Name.Name] = next
		order = append(order, m.Name.Name)
		next++
	}
	//
	enum := types.NewEnumType(d.Name.Name, order, members)
	p.named[d.Name.Name] = enum
	// Stamp member symbols now; they need no annotation resolution.
	for _, m := range d.Members {
		if sym := p.table.Module.LookupLocal(m.Name.Name); sym != nil && sym.Kind == EnumMemberSymbol {
			sym.Type = enum
			sym.EnumValue = members[m.Name.Name]
		}
	}
}

// Resolve a named type, following alias chains transitively.  The alias name
// is retained (via AliasType) for diagnostics.
func (p *TypeResolver) resolveNamed(name string) types.Type {
	if t, ok := p.named[name]; ok {
		return t
	}
	//
	decl, ok := p.aliases[name]
	if !ok {
		return nil
	}
	//
	if p.resolving[name] {
		p.sink.Error(decl.Name.Span(), diag.CyclicAlias,
			"type alias '%s' refers to itself", name)
		//
		return nil
	}
	//
	p.resolving[name] = true
	target := p.resolveRef(decl.Target)
	delete(p.resolving, name)
	//
	if target == nil {
		return nil
	}
	//
	alias := types.NewAliasType(name, target)
	p.named[name] = alias
	//
	return alias
}

// Resolve a syntactic type reference into the structural model.
func (p *TypeResolver) resolveRef(ref ast.TypeRef) types.Type {
	switch ref := ref.(type) {
	case *ast.NamedTypeRef:
		if t := types.Lookup(ref.Name); t != nil {
			return t
		}
		//
		if t := p.resolveNamed(ref.Name); t != nil {
			return t
		}
		//
		p.sink.Error(ref.Span(), diag.UnknownType, "unknown type '%s'", ref.Name)
		//
		return nil
	case *ast.ArrayTypeRef:
		element := p.resolveRef(ref.Element)
		if element == nil {
			return nil
		}
		// No size means an unsized array.
		if ref.Size == nil {
			return types.NewUnsizedArrayType(element)
		}
		//
		size, ok := ConstEval(ref.Size)
		if !ok || size == 0 || size > 0xFFFFFFFF {
			p.sink.Error(ref.Size.Span(), diag.InvalidArraySize,
				"array size must be a positive constant")
			//
			return nil
		}
		//
		return types.NewArrayType(element, uint32(size))
	case *ast.CallbackTypeRef:
		var params []types.Type
		//
		for _, t := range ref.Params {
			pt := p.resolveRef(t)
			if pt == nil {
				return nil
			}
			//
			params = append(params, pt)
		}
		//
		ret := p.resolveRef(ref.Return)
		if ret == nil {
			return nil
		}
		//
		return types.NewFuncType(params, nil, ret)
	default:
		return nil
	}
}

// Stamp the symbols of a scope and its descendants.
func (p *TypeResolver) stampScope(scope *Scope) {
	for _, sym := range scope.Symbols() {
		p.stamp(sym)
	}
	//
	for _, child := range scope.Children {
		p.stampScope(child)
	}
}

func (p *TypeResolver) stamp(sym *Symbol) {
	// Already stamped (intrinsics, enum members).
	if sym.Type != nil {
		return
	}
	//
	switch sym.Kind {
	case VariableSymbol, ConstantSymbol:
		switch d := sym.Decl.(type) {
		case *ast.VarDecl:
			sym.Type = p.resolveRef(d.Type)
		case *ast.For:
			// An unannotated loop counter defaults to byte.
			if d.CounterType != nil {
				sym.Type = p.resolveRef(d.CounterType)
			} else {
				sym.Type = types.Byte
			}
		}
	case ParameterSymbol:
		if d, ok := sym.Decl.(*ast.Param); ok {
			sym.Type = p.resolveRef(d.Type)
		}
	case FunctionSymbol:
		p.stampFunction(sym)
	}
}

// Functions synthesise a function type from their resolved parameter and
// return annotations; parameter symbols are stamped in parallel.
func (p *TypeResolver) stampFunction(sym *Symbol) {
	decl := sym.FuncDecl()
	if decl == nil {
		return
	}
	//
	var (
		params []types.Type
		names  []string
	)
	//
	for i, param := range decl.Params {
		pt := p.resolveRef(param.Type)
		params = append(params, pt)
		names = append(names, param.Name.Name)
		//
		if i < len(sym.Params) {
			sym.Params[i].Type = pt
		}
	}
	//
	ret := p.resolveRef(decl.Return)
	if ret == nil {
		ret = types.Void
	}
	//
	sym.Type = types.NewFuncType(params, names, ret)
}
