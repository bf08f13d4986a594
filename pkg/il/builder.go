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
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Rough cycle estimates per opcode family, recorded as instruction metadata
// for the code generator's scheduling heuristics.
var cycleEstimates = map[Opcode]uint{
	OpConst: 2, OpAdd: 3, OpSub: 3, OpMul: 40, OpDiv: 60, OpMod: 60,
	OpAnd: 3, OpOr: 3, OpXor: 3, OpNot: 2, OpShl: 2, OpShr: 2,
	OpEq: 4, OpNe: 4, OpLt: 4, OpLe: 4, OpGt: 4, OpGe: 4,
	OpJump: 3, OpBranch: 3, OpReturn: 6, OpReturnVoid: 6,
	OpLoadVar: 3, OpStoreVar: 3, OpLoadArray: 5, OpStoreArray: 5,
	OpCall: 12, OpCallVoid: 12,
	OpPeek: 4, OpPoke: 4, OpPeekW: 8, OpPokeW: 8,
	OpHardwareRead: 4, OpHardwareWrite: 4,
	OpSei: 2, OpCli: 2, OpNop: 2, OpBrk: 7,
	OpPha: 3, OpPla: 4, OpPhp: 3, OpPlp: 4,
	OpVolatileRead: 4, OpVolatileWrite: 4,
}

// Builder is the stateful, fluent construction surface over the IL: it
// tracks a current function and block, allocates unique register and
// instruction IDs, and maintains block edges for control-flow emitters.
// Emitting with no current block is a builder precondition violation and
// panics.
type Builder struct {
	module *Module
	fn     *Function
	block  *BasicBlock
	// Source location applied to subsequently emitted instructions.
	loc source.Span
	// Raster-critical flag applied to subsequently emitted instructions.
	rasterCritical bool
}

// NewBuilder constructs a builder over a fresh module.
func NewBuilder(moduleName string) *Builder {
	return &Builder{module: NewModule(moduleName), loc: source.UnknownSpan()}
}

// Module returns the module under construction.
func (p *Builder) Module() *Module {
	return p.module
}

// SetLocation fixes the source span stamped onto instructions emitted from
// here on.
func (p *Builder) SetLocation(span source.Span) {
	p.loc = span
}

// SetRasterCritical toggles the raster-critical metadata flag for
// subsequently emitted instructions.
func (p *Builder) SetRasterCritical(flag bool) {
	p.rasterCritical = flag
}

// ============================================================================
// Functions & blocks
// ============================================================================

// BeginFunction starts a new function and makes its entry block current.
func (p *Builder) BeginFunction(name string, ret *Type, params ...Parameter) *Function {
	fn := NewFunction(name, ret, params...)
	p.module.AddFunction(fn)
	//
	p.fn = fn
	entry := p.CreateBlock("entry")
	fn.Entry = entry
	p.block = entry
	//
	return fn
}

// EndFunction finishes the current function.
func (p *Builder) EndFunction() {
	p.fn = nil
	p.block = nil
}

// EnterFunction resumes building inside a pre-existing function (e.g. one
// created during a stub-declaration phase), making its entry block current.
func (p *Builder) EnterFunction(fn *Function) {
	p.fn = fn
	p.block = fn.Entry
}

// ExitFunction leaves the current function without ending it.
func (p *Builder) ExitFunction() {
	p.fn = nil
	p.block = nil
}

// Function returns the function under construction.
func (p *Builder) Function() *Function {
	return p.fn
}

// CreateBlock allocates a block, appends it to the current function, and
// returns it (without making it current).
func (p *Builder) CreateBlock(name string) *BasicBlock {
	block := p.fn.NewBlock(name)
	p.fn.Blocks = append(p.fn.Blocks, block)
	//
	return block
}

// AppendBlock appends a pre-allocated block to the current function.
func (p *Builder) AppendBlock(block *BasicBlock) {
	p.fn.Blocks = append(p.fn.Blocks, block)
}

// SetCurrentBlock redirects emission into a given block.
func (p *Builder) SetCurrentBlock(block *BasicBlock) {
	p.block = block
}

// CurrentBlock returns the block currently being emitted into.
func (p *Builder) CurrentBlock() *BasicBlock {
	return p.block
}

// CreateRegister allocates a fresh register in the current function.
func (p *Builder) CreateRegister(t *Type, name string) *VirtualRegister {
	return p.fn.NewRegister(t, name)
}

// ============================================================================
// Core emission
// ============================================================================

// emit stamps IDs and metadata onto an instruction and appends it to the
// current block.
func (p *Builder) emit(instr *Instruction) *Instruction {
	if p.block == nil {
		panic("no current block")
	}
	//
	instr.ID = p.fn.NextInstructionID()
	instr.Meta.Span = p.loc
	instr.Meta.Cycles = cycleEstimates[instr.Opcode]
	instr.Meta.RasterCritical = p.rasterCritical
	//
	p.block.Append(instr)
	//
	return instr
}

// LastInstruction returns the most recently emitted instruction of the
// current block, for metadata enrichment.
func (p *Builder) LastInstruction() *Instruction {
	if p.block == nil || len(p.block.Instructions) == 0 {
		return nil
	}
	//
	return p.block.Instructions[len(p.block.Instructions)-1]
}

// EmitConst materialises a typed constant.
func (p *Builder) EmitConst(t *Type, value uint64) *VirtualRegister {
	result := p.CreateRegister(t, "")
	p.emit(&Instruction{Opcode: OpConst, Result: result, Value: value})
	//
	return result
}

// EmitUndef materialises an undefined value.
func (p *Builder) EmitUndef(t *Type) *VirtualRegister {
	result := p.CreateRegister(t, "")
	p.emit(&Instruction{Opcode: OpUndef, Result: result})
	//
	return result
}

// EmitBinary emits a binary operation with an explicit result type.
func (p *Builder) EmitBinary(op Opcode, t *Type, lhs *VirtualRegister, rhs *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(t, "")
	p.emit(&Instruction{Opcode: op, Result: result, Args: []*VirtualRegister{lhs, rhs}})
	//
	return result
}

// EmitCompare emits a comparison, yielding a boolean.
func (p *Builder) EmitCompare(op Opcode, lhs *VirtualRegister, rhs *VirtualRegister) *VirtualRegister {
	return p.EmitBinary(op, BoolType, lhs, rhs)
}

// EmitNot emits a bitwise complement.
func (p *Builder) EmitNot(v *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(v.Type, "")
	p.emit(&Instruction{Opcode: OpNot, Result: result, Args: []*VirtualRegister{v}})
	//
	return result
}

// EmitLogNot emits a logical negation of a boolean.
func (p *Builder) EmitLogNot(v *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(BoolType, "")
	p.emit(&Instruction{Opcode: OpLogNot, Result: result, Args: []*VirtualRegister{v}})
	//
	return result
}

// EmitZeroExtend widens a byte to a word.
func (p *Builder) EmitZeroExtend(v *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(WordType, "")
	p.emit(&Instruction{Opcode: OpZeroExtend, Result: result, Args: []*VirtualRegister{v}})
	//
	return result
}

// EmitTruncate narrows a word to a byte (explicit narrowing only).
func (p *Builder) EmitTruncate(v *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(ByteType, "")
	p.emit(&Instruction{Opcode: OpTruncate, Result: result, Args: []*VirtualRegister{v}})
	//
	return result
}

// ============================================================================
// Control flow
// ============================================================================

// EmitJump emits an unconditional jump and records the block edge.
func (p *Builder) EmitJump(target *BasicBlock) {
	p.emit(&Instruction{Opcode: OpJump, Target: target})
	p.block.LinkTo(target)
}

// EmitBranch emits a conditional branch and records both block edges.
func (p *Builder) EmitBranch(cond *VirtualRegister, then *BasicBlock, els *BasicBlock) {
	p.emit(&Instruction{Opcode: OpBranch, Args: []*VirtualRegister{cond}, Target: then, Else: els})
	p.block.LinkTo(then)
	p.block.LinkTo(els)
}

// EmitReturn emits a value return.
func (p *Builder) EmitReturn(v *VirtualRegister) {
	p.emit(&Instruction{Opcode: OpReturn, Args: []*VirtualRegister{v}})
}

// EmitReturnVoid emits a void return.
func (p *Builder) EmitReturnVoid() {
	p.emit(&Instruction{Opcode: OpReturnVoid})
}

// ============================================================================
// Memory
// ============================================================================

// EmitLoadVar loads a named variable.
func (p *Builder) EmitLoadVar(name string, t *Type) *VirtualRegister {
	result := p.CreateRegister(t, name)
	p.emit(&Instruction{Opcode: OpLoadVar, Result: result, Name: name})
	//
	return result
}

// EmitStoreVar stores a value to a named variable.
func (p *Builder) EmitStoreVar(name string, v *VirtualRegister) {
	p.emit(&Instruction{Opcode: OpStoreVar, Name: name, Args: []*VirtualRegister{v}})
}

// EmitLoadArray loads an element of a named array.
func (p *Builder) EmitLoadArray(name string, index *VirtualRegister, t *Type) *VirtualRegister {
	result := p.CreateRegister(t, "")
	p.emit(&Instruction{Opcode: OpLoadArray, Result: result, Name: name,
		Args: []*VirtualRegister{index}})
	//
	return result
}

// EmitStoreArray stores an element of a named array.
func (p *Builder) EmitStoreArray(name string, index *VirtualRegister, v *VirtualRegister) {
	p.emit(&Instruction{Opcode: OpStoreArray, Name: name,
		Args: []*VirtualRegister{index, v}})
}

// EmitLoadAddress materialises the address of a named variable.
func (p *Builder) EmitLoadAddress(name string) *VirtualRegister {
	result := p.CreateRegister(PointerType, "")
	p.emit(&Instruction{Opcode: OpLoadAddress, Result: result, Name: name})
	//
	return result
}

// ============================================================================
// Calls & phi
// ============================================================================

// EmitCall invokes a function producing a value.
func (p *Builder) EmitCall(name string, t *Type, args ...*VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(t, "")
	p.emit(&Instruction{Opcode: OpCall, Result: result, Name: name, Args: args})
	//
	return result
}

// EmitCallVoid invokes a void function.
func (p *Builder) EmitCallVoid(name string, args ...*VirtualRegister) {
	p.emit(&Instruction{Opcode: OpCallVoid, Name: name, Args: args})
}

// EmitPhi merges values flowing in from predecessor blocks.  Dominance is
// not validated here; that is the verifier's concern.
func (p *Builder) EmitPhi(t *Type, sources ...PhiSource) *VirtualRegister {
	result := p.CreateRegister(t, "")
	p.emit(&Instruction{Opcode: OpPhi, Result: result, Phi: sources})
	//
	return result
}

// ============================================================================
// Intrinsics & hardware
// ============================================================================

// EmitPeek reads a byte from a computed address.
func (p *Builder) EmitPeek(address *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(ByteType, "")
	p.emit(&Instruction{Opcode: OpPeek, Result: result, Args: []*VirtualRegister{address}})
	//
	return result
}

// EmitPoke writes a byte to a computed address.
func (p *Builder) EmitPoke(address *VirtualRegister, v *VirtualRegister) {
	p.emit(&Instruction{Opcode: OpPoke, Args: []*VirtualRegister{address, v}})
}

// EmitPeekW reads a word from a computed address.
func (p *Builder) EmitPeekW(address *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(WordType, "")
	p.emit(&Instruction{Opcode: OpPeekW, Result: result, Args: []*VirtualRegister{address}})
	//
	return result
}

// EmitPokeW writes a word to a computed address.
func (p *Builder) EmitPokeW(address *VirtualRegister, v *VirtualRegister) {
	p.emit(&Instruction{Opcode: OpPokeW, Args: []*VirtualRegister{address, v}})
}

// EmitLength yields the element count of a named array.
func (p *Builder) EmitLength(name string) *VirtualRegister {
	result := p.CreateRegister(WordType, "")
	p.emit(&Instruction{Opcode: OpLength, Result: result, Name: name})
	//
	return result
}

// EmitLo extracts the low byte of a word.
func (p *Builder) EmitLo(v *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(ByteType, "")
	p.emit(&Instruction{Opcode: OpLo, Result: result, Args: []*VirtualRegister{v}})
	//
	return result
}

// EmitHi extracts the high byte of a word.
func (p *Builder) EmitHi(v *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(ByteType, "")
	p.emit(&Instruction{Opcode: OpHi, Result: result, Args: []*VirtualRegister{v}})
	//
	return result
}

// EmitHardwareRead reads a fixed hardware address.
func (p *Builder) EmitHardwareRead(address uint16, t *Type) *VirtualRegister {
	result := p.CreateRegister(t, "")
	p.emit(&Instruction{Opcode: OpHardwareRead, Result: result, Value: uint64(address)})
	//
	return result
}

// EmitHardwareWrite writes a fixed hardware address.
func (p *Builder) EmitHardwareWrite(address uint16, v *VirtualRegister) {
	p.emit(&Instruction{Opcode: OpHardwareWrite, Value: uint64(address),
		Args: []*VirtualRegister{v}})
}

// EmitMapLoadField loads a field of a memory-mapped structure.
func (p *Builder) EmitMapLoadField(structName string, field string, base uint16, t *Type) *VirtualRegister {
	result := p.CreateRegister(t, "")
	instr := p.emit(&Instruction{Opcode: OpMapLoadField, Result: result, Name: structName})
	instr.Meta.Map = &MapInfo{structName, field, base}
	//
	return result
}

// EmitMapStoreField stores a field of a memory-mapped structure.
func (p *Builder) EmitMapStoreField(structName string, field string, base uint16, v *VirtualRegister) {
	instr := p.emit(&Instruction{Opcode: OpMapStoreField, Name: structName,
		Args: []*VirtualRegister{v}})
	instr.Meta.Map = &MapInfo{structName, field, base}
}

// EmitMapLoadRange loads a range of a memory-mapped structure.
func (p *Builder) EmitMapLoadRange(structName string, base uint16, offset *VirtualRegister,
	t *Type) *VirtualRegister {
	result := p.CreateRegister(t, "")
	instr := p.emit(&Instruction{Opcode: OpMapLoadRange, Result: result, Name: structName,
		Args: []*VirtualRegister{offset}})
	instr.Meta.Map = &MapInfo{Struct: structName, Base: base}
	//
	return result
}

// EmitMapStoreRange stores a range of a memory-mapped structure.
func (p *Builder) EmitMapStoreRange(structName string, base uint16, offset *VirtualRegister,
	v *VirtualRegister) {
	instr := p.emit(&Instruction{Opcode: OpMapStoreRange, Name: structName,
		Args: []*VirtualRegister{offset, v}})
	instr.Meta.Map = &MapInfo{Struct: structName, Base: base}
}

// EmitCPU emits a bare CPU intrinsic (sei, cli, nop, brk, pha, pla, php,
// plp).
func (p *Builder) EmitCPU(op Opcode) {
	p.emit(&Instruction{Opcode: op})
}

// EmitBarrier fences the optimiser.
func (p *Builder) EmitBarrier() {
	instr := p.emit(&Instruction{Opcode: OpBarrier})
	instr.Meta.Barrier = true
}

// EmitVolatileRead reads a byte which must never be optimised away.
func (p *Builder) EmitVolatileRead(address *VirtualRegister) *VirtualRegister {
	result := p.CreateRegister(ByteType, "")
	instr := p.emit(&Instruction{Opcode: OpVolatileRead, Result: result,
		Args: []*VirtualRegister{address}})
	instr.Meta.Barrier = true
	//
	return result
}

// EmitVolatileWrite writes a byte which must never be optimised away.
func (p *Builder) EmitVolatileWrite(address *VirtualRegister, v *VirtualRegister) {
	instr := p.emit(&Instruction{Opcode: OpVolatileWrite,
		Args: []*VirtualRegister{address, v}})
	instr.Meta.Barrier = true
}
