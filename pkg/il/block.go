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

// BasicBlock is a maximal straight-line instruction sequence: only its final
// instruction may be a terminator.  Predecessor and successor lists are
// maintained consistently by LinkTo (and hence by the builder's control-flow
// emitters).
type BasicBlock struct {
	ID    uint
	Label string
	// Instructions in execution order.
	Instructions []*Instruction
	Preds        []*BasicBlock
	Succs        []*BasicBlock
}

// Append an instruction to this block.
func (p *BasicBlock) Append(instr *Instruction) {
	p.Instructions = append(p.Instructions, instr)
}

// Terminated checks whether this block already ends in a terminator.
func (p *BasicBlock) Terminated() bool {
	n := len(p.Instructions)
	//
	return n > 0 && p.Instructions[n-1].IsTerminator()
}

// Terminator returns the block's final instruction when it is a terminator,
// or nil.
func (p *BasicBlock) Terminator() *Instruction {
	if !p.Terminated() {
		return nil
	}
	//
	return p.Instructions[len(p.Instructions)-1]
}

// LinkTo records a control-flow edge from this block to another, updating
// both sides.
func (p *BasicBlock) LinkTo(other *BasicBlock) {
	p.Succs = append(p.Succs, other)
	other.Preds = append(other.Preds, p)
}
