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
	"strings"

	"github.com/blendsdk/blend65/pkg/util/source"
)

// Opcode identifies an IL instruction.  The set is closed.
type Opcode uint8

const (
	// OpConst materialises a constant.
	OpConst Opcode = iota
	// OpUndef materialises an undefined value.
	OpUndef
	// OpAdd is addition.
	OpAdd
	// OpSub is subtraction.
	OpSub
	// OpMul is multiplication.
	OpMul
	// OpDiv is unsigned division.
	OpDiv
	// OpMod is unsigned remainder.
	OpMod
	// OpAnd is bitwise conjunction.
	OpAnd
	// OpOr is bitwise disjunction.
	OpOr
	// OpXor is bitwise exclusive-or.
	OpXor
	// OpNot is bitwise complement.
	OpNot
	// OpShl is left shift.
	OpShl
	// OpShr is right shift.
	OpShr
	// OpEq compares for equality.
	OpEq
	// OpNe compares for inequality.
	OpNe
	// OpLt compares less-than.
	OpLt
	// OpLe compares less-than-or-equal.
	OpLe
	// OpGt compares greater-than.
	OpGt
	// OpGe compares greater-than-or-equal.
	OpGe
	// OpLogNot is logical negation of a boolean.
	OpLogNot
	// OpZeroExtend widens byte to word.
	OpZeroExtend
	// OpTruncate narrows word to byte (explicit only).
	OpTruncate
	// OpJump is an unconditional jump.
	OpJump
	// OpBranch is a two-way conditional branch.
	OpBranch
	// OpReturn returns a value.
	OpReturn
	// OpReturnVoid returns nothing.
	OpReturnVoid
	// OpLoadVar loads a named variable.
	OpLoadVar
	// OpStoreVar stores to a named variable.
	OpStoreVar
	// OpLoadArray loads an element of a named array.
	OpLoadArray
	// OpStoreArray stores an element of a named array.
	OpStoreArray
	// OpLoadAddress materialises the address of a named variable.
	OpLoadAddress
	// OpCall invokes a function producing a value.
	OpCall
	// OpCallVoid invokes a void function.
	OpCallVoid
	// OpPhi merges SSA values from predecessor blocks.
	OpPhi
	// OpPeek reads a byte from a computed address.
	OpPeek
	// OpPoke writes a byte to a computed address.
	OpPoke
	// OpPeekW reads a word from a computed address.
	OpPeekW
	// OpPokeW writes a word to a computed address.
	OpPokeW
	// OpLength yields the element count of a named array.
	OpLength
	// OpLo extracts the low byte of a word.
	OpLo
	// OpHi extracts the high byte of a word.
	OpHi
	// OpHardwareRead reads a fixed hardware address.
	OpHardwareRead
	// OpHardwareWrite writes a fixed hardware address.
	OpHardwareWrite
	// OpMapLoadField loads a field of a memory-mapped structure.
	OpMapLoadField
	// OpMapStoreField stores a field of a memory-mapped structure.
	OpMapStoreField
	// OpMapLoadRange loads a range of a memory-mapped structure.
	OpMapLoadRange
	// OpMapStoreRange stores a range of a memory-mapped structure.
	OpMapStoreRange
	// OpSei sets the interrupt-disable flag.
	OpSei
	// OpCli clears the interrupt-disable flag.
	OpCli
	// OpNop does nothing for one instruction slot.
	OpNop
	// OpBrk triggers a software interrupt.
	OpBrk
	// OpPha pushes the accumulator.
	OpPha
	// OpPla pulls the accumulator.
	OpPla
	// OpPhp pushes the processor status.
	OpPhp
	// OpPlp pulls the processor status.
	OpPlp
	// OpBarrier fences the optimiser.
	OpBarrier
	// OpVolatileRead reads a byte which must not be optimised away.
	OpVolatileRead
	// OpVolatileWrite writes a byte which must not be optimised away.
	OpVolatileWrite
)

var opcodeNames = map[Opcode]string{
	OpConst: "const", OpUndef: "undef",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpNot: "not",
	OpShl: "shl", OpShr: "shr",
	OpEq: "cmp_eq", OpNe: "cmp_ne", OpLt: "cmp_lt", OpLe: "cmp_le",
	OpGt: "cmp_gt", OpGe: "cmp_ge", OpLogNot: "log_not",
	OpZeroExtend: "zero_extend", OpTruncate: "truncate",
	OpJump: "jump", OpBranch: "branch",
	OpReturn: "return", OpReturnVoid: "return_void",
	OpLoadVar: "load_var", OpStoreVar: "store_var",
	OpLoadArray: "load_array", OpStoreArray: "store_array",
	OpLoadAddress: "load_address",
	OpCall:        "call", OpCallVoid: "call_void", OpPhi: "phi",
	OpPeek: "peek", OpPoke: "poke", OpPeekW: "peekw", OpPokeW: "pokew",
	OpLength: "length", OpLo: "lo", OpHi: "hi",
	OpHardwareRead: "hw_read", OpHardwareWrite: "hw_write",
	OpMapLoadField: "map_load_field", OpMapStoreField: "map_store_field",
	OpMapLoadRange: "map_load_range", OpMapStoreRange: "map_store_range",
	OpSei: "sei", OpCli: "cli", OpNop: "nop", OpBrk: "brk",
	OpPha: "pha", OpPla: "pla", OpPhp: "php", OpPlp: "plp",
	OpBarrier: "opt_barrier", OpVolatileRead: "volatile_read",
	OpVolatileWrite: "volatile_write",
}

// String returns the mnemonic of this opcode.
func (p Opcode) String() string {
	return opcodeNames[p]
}

// IsTerminator checks whether this opcode ends a basic block.
func (p Opcode) IsTerminator() bool {
	switch p {
	case OpJump, OpBranch, OpReturn, OpReturnVoid:
		return true
	default:
		return false
	}
}

// MapInfo records which memory-mapped structure and field an instruction
// accesses, and the fixed base address of the mapping.
type MapInfo struct {
	Struct string
	Field  string
	Base   uint16
}

// Metadata is additive information carried by an instruction: source
// location and text, an estimated cycle cost, the raster-critical flag, and
// barrier/mapping details.  Metadata never affects semantics.
type Metadata struct {
	Span source.Span
	// Original source text of the expression, when available.
	Source string
	// Estimated 6502 cycle cost.
	Cycles uint
	// RasterCritical marks instructions on raster-timed paths.
	RasterCritical bool
	// Barrier marks instructions the optimiser must not move across.
	Barrier bool
	// Map describes a hardware-mapped access.
	Map *MapInfo
}

// PhiSource pairs an incoming SSA value with the predecessor block it flows
// from.
type PhiSource struct {
	Value *VirtualRegister
	// Predecessor block ID.
	Block uint
}

// Instruction is a single IL operation: an opcode, an optional result
// register, operands, and metadata.  Instruction IDs are unique within their
// function.
type Instruction struct {
	ID     uint
	Opcode Opcode
	// Result register, or nil for instructions without one.
	Result *VirtualRegister
	// Register operands, in operand order.
	Args []*VirtualRegister
	// Immediate payload: constant value or fixed address.
	Value uint64
	// Name payload: variable, array or function name.
	Name string
	// Target block of a jump, or the taken branch.
	Target *BasicBlock
	// Else is the fall-through branch of a conditional.
	Else *BasicBlock
	// Phi sources, for OpPhi only.
	Phi []PhiSource
	// Additive metadata.
	Meta Metadata
}

// IsTerminator checks whether this instruction ends its block.
func (p *Instruction) IsTerminator() bool {
	return p.Opcode.IsTerminator()
}

func (p *Instruction) String() string {
	var sb strings.Builder
	//
	if p.Result != nil {
		fmt.Fprintf(&sb, "%s = ", p.Result)
	}
	//
	sb.WriteString(p.Opcode.String())
	//
	switch p.Opcode {
	case OpConst:
		fmt.Fprintf(&sb, " %s %d", p.Result.Type, p.Value)
	case OpUndef:
		fmt.Fprintf(&sb, " %s", p.Result.Type)
	case OpJump:
		fmt.Fprintf(&sb, " %s", p.Target.Label)
	case OpBranch:
		fmt.Fprintf(&sb, " %s, %s, %s", p.Args[0], p.Target.Label, p.Else.Label)
	case OpPhi:
		for i, src := range p.Phi {
			if i > 0 {
				sb.WriteString(",")
			}
			//
			fmt.Fprintf(&sb, " [%s, bb%d]", src.Value, src.Block)
		}
	default:
		if p.Name != "" {
			fmt.Fprintf(&sb, " %s", p.Name)
		}
		//
		if p.Opcode == OpHardwareRead || p.Opcode == OpHardwareWrite ||
			p.Opcode == OpVolatileRead || p.Opcode == OpVolatileWrite {
			fmt.Fprintf(&sb, " $%04X", p.Value)
		}
		//
		for _, arg := range p.Args {
			fmt.Fprintf(&sb, " %s", arg)
		}
	}
	//
	return sb.String()
}
