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

// Function is one IL function: parameters, a return type, and basic blocks
// rooted at a distinguished entry block.  Register, instruction and label
// counters are per function, so their IDs are function-unique.
type Function struct {
	Name   string
	Params []Parameter
	Return *Type
	Entry  *BasicBlock
	Blocks []*BasicBlock
	// Interrupt marks callback (interrupt) entry points.
	Interrupt bool
	// Metadata carries arbitrary cross-pass hints.
	Metadata map[string]any
	//
	nextRegister    uint
	nextInstruction uint
	nextLabel       uint
}

// NewFunction constructs an empty function.
func NewFunction(name string, ret *Type, params ...Parameter) *Function {
	return &Function{
		Name:     name,
		Params:   params,
		Return:   ret,
		Metadata: make(map[string]any),
	}
}

// NewRegister allocates a fresh virtual register of a given type.  IDs are
// monotonically assigned and never reused.
func (p *Function) NewRegister(t *Type, name string) *VirtualRegister {
	reg := &VirtualRegister{p.nextRegister, t, name}
	p.nextRegister++
	//
	return reg
}

// NewBlock allocates a fresh basic block.  The block is not appended; see
// Builder.CreateBlock.
func (p *Function) NewBlock(name string) *BasicBlock {
	id := p.nextLabel
	p.nextLabel++
	//
	if name == "" {
		name = fmt.Sprintf("bb%d", id)
	} else {
		name = fmt.Sprintf("%s%d", name, id)
	}
	//
	return &BasicBlock{ID: id, Label: name}
}

// NextInstructionID allocates a fresh instruction ID.
func (p *Function) NextInstructionID() uint {
	id := p.nextInstruction
	p.nextInstruction++
	//
	return id
}

// Registers returns how many virtual registers this function has allocated.
func (p *Function) Registers() uint {
	return p.nextRegister
}

// Block returns the block with a given label, or nil.
func (p *Function) Block(label string) *BasicBlock {
	for _, b := range p.Blocks {
		if b.Label == label {
			return b
		}
	}
	//
	return nil
}

// Instructions iterates every instruction of every block, in block order.
func (p *Function) Instructions(fn func(*BasicBlock, *Instruction)) {
	for _, block := range p.Blocks {
		for _, instr := range block.Instructions {
			fn(block, instr)
		}
	}
}
