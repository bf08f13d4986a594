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
package il

import (
	"fmt"
)

// StorageClass determines how an IL global is allocated.
type StorageClass uint8

const (
	// ZeroPage globals are bump-allocated from the reserved user band of the
	// zero page.
	ZeroPage StorageClass = iota
	// Ram globals receive a label and space in the uninitialised section.
	Ram
	// Data globals receive a label and an initialiser in the data section.
	Data
	// Map globals sit at a fixed hardware address; no space is allocated.
	Map
)

// String returns a printable name for this storage class.
func (p StorageClass) String() string {
	switch p {
	case ZeroPage:
		return "zp"
	case Ram:
		return "ram"
	case Data:
		return "data"
	case Map:
		return "map"
	default:
		return "?"
	}
}

// Global is one module-level variable, placed according to its storage
// class.  RAM and data globals carry a label of the form "_<name>";
// zero-page and map globals carry a fixed address.
type Global struct {
	Name    string
	Type    *Type
	Storage StorageClass
	// Size in bytes (arrays occupy element count times element size).
	Size uint
	// Address of zero-page and map globals.
	Address uint16
	// Label of RAM and data globals.
	Label string
	// Initial values of data globals, one element per entry.
	Init []uint64
}

func (p *Global) String() string {
	switch p.Storage {
	case ZeroPage, Map:
		return fmt.Sprintf("global %s %s %s @ $%04X", p.Storage, p.Type, p.Name, p.Address)
	default:
		return fmt.Sprintf("global %s %s %s %s", p.Storage, p.Type, p.Name, p.Label)
	}
}

// Module is the root IL artifact of one compiled program: its functions, its
// globals, and arbitrary metadata for cross-pass hints.
type Module struct {
	Name      string
	Functions []*Function
	Globals   []*Global
	// Metadata carries arbitrary key-to-payload hints for the code
	// generator.
	Metadata map[string]any
	//
	funcIndex   map[string]*Function
	globalIndex map[string]*Global
}

// NewModule constructs an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:        name,
		Metadata:    make(map[string]any),
		funcIndex:   make(map[string]*Function),
		globalIndex: make(map[string]*Global),
	}
}

// AddFunction appends a function to this module.
func (p *Module) AddFunction(fn *Function) {
	p.Functions = append(p.Functions, fn)
	p.funcIndex[fn.Name] = fn
}

// Function returns a function by name, or nil.
func (p *Module) Function(name string) *Function {
	return p.funcIndex[name]
}

// AddGlobal appends a global to this module.
func (p *Module) AddGlobal(g *Global) {
	p.Globals = append(p.Globals, g)
	p.globalIndex[g.Name] = g
}

// Global returns a global by name, or nil.
func (p *Module) Global(name string) *Global {
	return p.globalIndex[name]
}
