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
package ast

import (
	"strings"

	"github.com/blendsdk/blend65/pkg/util/source"
)

// Decl is implemented by every top-level declaration node.
type Decl interface {
	Node
	isDecl()
}

// Base embedded by every declaration node.
type declNode struct {
	node
}

func (p *declNode) isDecl() {}

// StorageClass determines how and where a global variable is allocated.
type StorageClass uint8

const (
	// StorageDefault lets the compiler choose (RAM, or the data section when
	// an initialiser is present).
	StorageDefault StorageClass = iota
	// StorageZeroPage requests allocation from the zero-page user band.
	StorageZeroPage
	// StorageRam requests a labeled allocation in RAM.
	StorageRam
	// StorageData requests a labeled, initialised allocation in the data
	// section.
	StorageData
	// StorageMap binds the variable to a fixed hardware address.
	StorageMap
)

// String returns the source sigil for this storage class.
func (p StorageClass) String() string {
	switch p {
	case StorageZeroPage:
		return "@zp"
	case StorageRam:
		return "@ram"
	case StorageData:
		return "@data"
	case StorageMap:
		return "@map"
	default:
		return ""
	}
}

// ============================================================================
// Module & imports
// ============================================================================

// ModuleDecl is the "module a.b.c" declaration opening a source file.
type ModuleDecl struct {
	declNode
	Path []string
}

// NewModuleDecl constructs a module declaration.
func NewModuleDecl(span source.Span, path []string) *ModuleDecl {
	return &ModuleDecl{declNode{mkNode(span)}, path}
}

// Name returns the fully-qualified dotted module name.
func (p *ModuleDecl) Name() string {
	return strings.Join(p.Path, ".")
}

// ImportDecl is "import a, b from x.y" or "import * from x.y".
type ImportDecl struct {
	declNode
	// Names lists the imported identifiers; empty for a wildcard import.
	Names []*Ident
	// Wildcard indicates "import *".
	Wildcard bool
	// From is the dotted path of the exporting module.
	From []string
}

// NewImportDecl constructs an import declaration.
func NewImportDecl(span source.Span, names []*Ident, wildcard bool, from []string) *ImportDecl {
	return &ImportDecl{declNode{mkNode(span)}, names, wildcard, from}
}

// FromName returns the dotted name of the exporting module.
func (p *ImportDecl) FromName() string {
	return strings.Join(p.From, ".")
}

// ============================================================================
// Functions
// ============================================================================

// Param is a single function parameter.
type Param struct {
	node
	Name *Ident
	Type TypeRef
}

// NewParam constructs a parameter.
func NewParam(span source.Span, name *Ident, typ TypeRef) *Param {
	return &Param{mkNode(span), name, typ}
}

// FuncDecl declares a function.  A stub declaration (terminated by ";") has a
// nil body.  Callback functions are interrupt-style entry points.
type FuncDecl struct {
	declNode
	Name     *Ident
	Params   []*Param
	Return   TypeRef
	Body     *Block
	Exported bool
	Callback bool
}

// NewFuncDecl constructs a function declaration.
func NewFuncDecl(span source.Span, name *Ident, params []*Param, ret TypeRef,
	body *Block, exported bool, callback bool) *FuncDecl {
	return &FuncDecl{declNode{mkNode(span)}, name, params, ret, body, exported, callback}
}

// IsStub checks whether this declaration has no body.
func (p *FuncDecl) IsStub() bool {
	return p.Body == nil
}

// ============================================================================
// Variables & constants
// ============================================================================

// VarDecl declares a variable or constant.  It doubles as a statement inside
// blocks.  A constant requires an initialiser; a memory-mapped variable
// carries its fixed address.
type VarDecl struct {
	declNode
	Storage StorageClass
	// MapAddress is the fixed address expression for @map declarations.
	MapAddress Expr
	Const      bool
	Name       *Ident
	Type       TypeRef
	// Init is nil when no initialiser was given.
	Init     Expr
	Exported bool
}

// NewVarDecl constructs a variable (or constant) declaration.
func NewVarDecl(span source.Span, storage StorageClass, mapAddress Expr, constant bool,
	name *Ident, typ TypeRef, init Expr, exported bool) *VarDecl {
	return &VarDecl{declNode{mkNode(span)}, storage, mapAddress, constant, name, typ, init, exported}
}

// VarDecl is also a statement.
func (p *VarDecl) isStmt() {}

// ============================================================================
// Types & enums
// ============================================================================

// TypeDecl is a type alias "type Name = T;".
type TypeDecl struct {
	declNode
	Name     *Ident
	Target   TypeRef
	Exported bool
}

// NewTypeDecl constructs a type alias declaration.
func NewTypeDecl(span source.Span, name *Ident, target TypeRef, exported bool) *TypeDecl {
	return &TypeDecl{declNode{mkNode(span)}, name, target, exported}
}

// EnumMember is a single member of an enum declaration, with an optional
// explicit value.
type EnumMember struct {
	node
	Name *Ident
	// Value is nil for implicitly numbered members.
	Value Expr
}

// NewEnumMember constructs an enum member.
func NewEnumMember(span source.Span, name *Ident, value Expr) *EnumMember {
	return &EnumMember{mkNode(span), name, value}
}

// EnumDecl declares an enumeration.  Member values follow C rules: an
// explicit value, or the previous member's value plus one, starting at zero.
type EnumDecl struct {
	declNode
	Name     *Ident
	Members  []*EnumMember
	Exported bool
}

// NewEnumDecl constructs an enum declaration.
func NewEnumDecl(span source.Span, name *Ident, members []*EnumMember, exported bool) *EnumDecl {
	return &EnumDecl{declNode{mkNode(span)}, name, members, exported}
}

// ============================================================================
// Recovery
// ============================================================================

// BadDecl is the placeholder substituted where declaration parsing failed.
type BadDecl struct {
	declNode
}

// NewBadDecl constructs an error placeholder declaration.
func NewBadDecl(span source.Span) *BadDecl {
	return &BadDecl{declNode{mkNode(span)}}
}
