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
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Program is the root of the Abstract Syntax Tree for one source file: a
// module declaration (implicit "module global" when absent) followed by its
// ordered top-level declarations.
type Program struct {
	node
	Module *ModuleDecl
	Decls  []Decl
	// Source file this program was parsed from, retained for diagnostics.
	File *source.File
}

// NewProgram constructs a program.
func NewProgram(span source.Span, module *ModuleDecl, decls []Decl, file *source.File) *Program {
	return &Program{mkNode(span), module, decls, file}
}

// Name returns the fully-qualified module name of this program.
func (p *Program) Name() string {
	return p.Module.Name()
}

// Functions returns the function declarations of this program, in order.
func (p *Program) Functions() []*FuncDecl {
	var fns []*FuncDecl
	//
	for _, d := range p.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			fns = append(fns, fn)
		}
	}
	//
	return fns
}

// Variables returns the top-level variable declarations of this program, in
// order.
func (p *Program) Variables() []*VarDecl {
	var vars []*VarDecl
	//
	for _, d := range p.Decls {
		if v, ok := d.(*VarDecl); ok {
			vars = append(vars, v)
		}
	}
	//
	return vars
}
