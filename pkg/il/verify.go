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

// VerifyRegisterIDUniqueness checks the core SSA invariant of a function:
// every result register ID is the defining result of at most one
// instruction.  A violation is an internal compiler bug and is reported
// citing both defining sites.
func VerifyRegisterIDUniqueness(fn *Function) error {
	defs := make(map[uint]*Instruction)
	//
	var err error
	//
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if err != nil || instr.Result == nil {
			return
		}
		//
		if prev, ok := defs[instr.Result.ID]; ok {
			err = fmt.Errorf(
				"ssa violation in '%s': register v%d defined by instruction %d (%s) and instruction %d (%s)",
				fn.Name, instr.Result.ID, prev.ID, prev.Opcode, instr.ID, instr.Opcode)
			//
			return
		}
		//
		defs[instr.Result.ID] = instr
	})
	//
	return err
}

// VerifyBlocks checks block-level structural invariants: only the final
// instruction of a block may be a terminator, and branch targets must carry
// matching edges.
func VerifyBlocks(fn *Function) error {
	for _, block := range fn.Blocks {
		for i, instr := range block.Instructions {
			if instr.IsTerminator() && i != len(block.Instructions)-1 {
				return fmt.Errorf("block %s of '%s': terminator %s is not last",
					block.Label, fn.Name, instr.Opcode)
			}
		}
		//
		if term := block.Terminator(); term != nil {
			for _, target := range []*BasicBlock{term.Target, term.Else} {
				if target != nil && !hasEdge(block, target) {
					return fmt.Errorf("block %s of '%s': missing edge to %s",
						block.Label, fn.Name, target.Label)
				}
			}
		}
	}
	//
	return nil
}

func hasEdge(from *BasicBlock, to *BasicBlock) bool {
	for _, succ := range from.Succs {
		if succ == to {
			return true
		}
	}
	//
	return false
}

// VerifyModule runs every verifier over every function of a module.
func VerifyModule(module *Module) error {
	for _, fn := range module.Functions {
		if err := VerifyRegisterIDUniqueness(fn); err != nil {
			return err
		}
		//
		if err := VerifyBlocks(fn); err != nil {
			return err
		}
	}
	//
	return nil
}
