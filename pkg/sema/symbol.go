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
	"github.com/blendsdk/blend65/pkg/types"
	"github.com/blendsdk/blend65/pkg/util/source"
)

// SymbolKind classifies the declarations a symbol can stand for.
type SymbolKind uint8

const (
	// VariableSymbol is a let-declared variable.
	VariableSymbol SymbolKind = iota
	// ConstantSymbol is a const-declared constant.
	ConstantSymbol
	// ParameterSymbol is a function parameter.
	ParameterSymbol
	// FunctionSymbol is a declared function.
	FunctionSymbol
	// EnumMemberSymbol is a member of an enum declaration.
	EnumMemberSymbol
	// ImportedSymbol is a name brought in from another module.
	ImportedSymbol
	// IntrinsicSymbol is a compiler-implemented built-in function.
	IntrinsicSymbol
)

// String returns a human-readable name for this symbol kind.
func (p SymbolKind) String() string {
	switch p {
	case VariableSymbol:
		return "variable"
	case ConstantSymbol:
		return "constant"
	case ParameterSymbol:
		return "parameter"
	case FunctionSymbol:
		return "function"
	case EnumMemberSymbol:
		return "enum member"
	case ImportedSymbol:
		return "imported symbol"
	case IntrinsicSymbol:
		return "intrinsic"
	default:
		return "symbol"
	}
}

// Symbol is a named entity entered into a scope: a variable, constant,
// parameter, function, enum member, import or intrinsic.  A symbol is owned
// by exactly one scope; its type is stamped during type resolution.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is nil until resolved.
	Type types.Type
	// Scope owning this symbol.
	Scope *Scope
	// Decl is a back reference to the declaring node (nil for intrinsics).
	Decl ast.Node
	// Init is the declared initialiser, if any.
	Init ast.Expr
	// Params holds the parameter symbols of a function symbol.
	Params []*Symbol
	// Exported marks symbols visible to importing modules.
	Exported bool
	// LoopCounter marks for-loop counters, which are exempt from unused
	// variable advisories.
	LoopCounter bool
	// EnumValue is the computed value of an enum member symbol.
	EnumValue uint32
	// Span of the declaring name in the original source.
	Span source.Span
}

// IsGlobal checks whether this symbol lives in the module scope.
func (p *Symbol) IsGlobal() bool {
	return p.Scope != nil && p.Scope.Kind == ModuleScope
}

// VarDecl returns the declaring variable declaration, or nil.
func (p *Symbol) VarDecl() *ast.VarDecl {
	if d, ok := p.Decl.(*ast.VarDecl); ok {
		return d
	}
	//
	return nil
}

// FuncDecl returns the declaring function declaration, or nil.
func (p *Symbol) FuncDecl() *ast.FuncDecl {
	if d, ok := p.Decl.(*ast.FuncDecl); ok {
		return d
	}
	//
	return nil
}
