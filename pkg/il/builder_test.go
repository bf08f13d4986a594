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
	"strings"
	"testing"
)

// S6: a function returning a constant is one block with a const and a
// return, and verification passes.
func TestBuilder_01(t *testing.T) {
	builder := NewBuilder("test")
	fn := builder.BeginFunction("foo", ByteType)
	//
	five := builder.EmitConst(ByteType, 5)
	builder.EmitReturn(five)
	builder.EndFunction()
	//
	if len(fn.Blocks) != 1 {
		t.Fatalf("got %d blocks", len(fn.Blocks))
	}
	//
	instrs := fn.Entry.Instructions
	if len(instrs) != 2 || instrs[0].Opcode != OpConst || instrs[1].Opcode != OpReturn {
		t.Fatalf("unexpected instructions: %v", instrs)
	}
	//
	if instrs[0].Result.ID != 0 || instrs[0].Value != 5 {
		t.Errorf("unexpected constant")
	}
	//
	if err := VerifyRegisterIDUniqueness(fn); err != nil {
		t.Errorf("verification failed: %v", err)
	}
}

// Register and instruction IDs are monotone and unique.
func TestBuilder_02(t *testing.T) {
	builder := NewBuilder("test")
	fn := builder.BeginFunction("f", ByteType)
	//
	a := builder.EmitConst(ByteType, 1)
	b := builder.EmitConst(ByteType, 2)
	sum := builder.EmitBinary(OpAdd, ByteType, a, b)
	builder.EmitReturn(sum)
	builder.EndFunction()
	//
	if a.ID != 0 || b.ID != 1 || sum.ID != 2 {
		t.Errorf("register IDs not monotone: %d %d %d", a.ID, b.ID, sum.ID)
	}
	//
	seen := make(map[uint]bool)
	fn.Instructions(func(block *BasicBlock, instr *Instruction) {
		if seen[instr.ID] {
			t.Errorf("duplicate instruction ID %d", instr.ID)
		}
		//
		seen[instr.ID] = true
	})
}

// A forged duplicate register is caught, citing both defining sites.
func TestVerify_01(t *testing.T) {
	builder := NewBuilder("test")
	fn := builder.BeginFunction("f", ByteType)
	//
	a := builder.EmitConst(ByteType, 1)
	builder.EmitConst(ByteType, 2)
	// Forge a collision.
	fn.Entry.Instructions[1].Result = a
	//
	err := VerifyRegisterIDUniqueness(fn)
	if err == nil {
		t.Fatalf("duplicate register not detected")
	}
	//
	if !strings.Contains(err.Error(), "instruction 0") || !strings.Contains(err.Error(), "instruction 1") {
		t.Errorf("error does not cite both sites: %v", err)
	}
}

// Control-flow emitters maintain the block edges on both sides.
func TestBuilder_03(t *testing.T) {
	builder := NewBuilder("test")
	fn := builder.BeginFunction("f", VoidType)
	//
	then := builder.CreateBlock("then")
	els := builder.CreateBlock("else")
	end := builder.CreateBlock("end")
	//
	cond := builder.EmitConst(BoolType, 1)
	builder.EmitBranch(cond, then, els)
	//
	builder.SetCurrentBlock(then)
	builder.EmitJump(end)
	builder.SetCurrentBlock(els)
	builder.EmitJump(end)
	builder.SetCurrentBlock(end)
	builder.EmitReturnVoid()
	builder.EndFunction()
	//
	if len(fn.Entry.Succs) != 2 {
		t.Errorf("branch edges missing")
	}
	//
	if len(end.Preds) != 2 {
		t.Errorf("join edges missing")
	}
	//
	if err := VerifyBlocks(fn); err != nil {
		t.Errorf("block verification failed: %v", err)
	}
}

// Phi sources pair values with predecessor block IDs.
func TestBuilder_04(t *testing.T) {
	builder := NewBuilder("test")
	builder.BeginFunction("f", ByteType)
	//
	then := builder.CreateBlock("then")
	els := builder.CreateBlock("else")
	merge := builder.CreateBlock("merge")
	//
	cond := builder.EmitConst(BoolType, 1)
	builder.EmitBranch(cond, then, els)
	//
	builder.SetCurrentBlock(then)
	one := builder.EmitConst(ByteType, 1)
	builder.EmitJump(merge)
	//
	builder.SetCurrentBlock(els)
	two := builder.EmitConst(ByteType, 2)
	builder.EmitJump(merge)
	//
	builder.SetCurrentBlock(merge)
	phi := builder.EmitPhi(ByteType, PhiSource{one, then.ID}, PhiSource{two, els.ID})
	builder.EmitReturn(phi)
	//
	instr := merge.Instructions[0]
	if instr.Opcode != OpPhi || len(instr.Phi) != 2 {
		t.Fatalf("unexpected phi")
	}
	//
	if instr.Phi[0].Block != then.ID || instr.Phi[1].Block != els.ID {
		t.Errorf("phi predecessors wrong")
	}
}

// A terminator in the middle of a block is rejected.
func TestVerify_02(t *testing.T) {
	builder := NewBuilder("test")
	fn := builder.BeginFunction("f", VoidType)
	//
	builder.EmitReturnVoid()
	builder.EmitCPU(OpNop)
	//
	if err := VerifyBlocks(fn); err == nil {
		t.Errorf("misplaced terminator not detected")
	}
}

// Map field accessors carry the structure, field and base address as
// metadata.
func TestBuilder_05(t *testing.T) {
	builder := NewBuilder("test")
	builder.BeginFunction("f", VoidType)
	//
	v := builder.EmitMapLoadField("vic", "border", 0xD020, ByteType)
	builder.EmitMapStoreField("vic", "border", 0xD020, v)
	builder.EmitReturnVoid()
	//
	load := builder.Function().Entry.Instructions[0]
	//
	if load.Opcode != OpMapLoadField || load.Meta.Map == nil {
		t.Fatalf("unexpected map load")
	}
	//
	if load.Meta.Map.Struct != "vic" || load.Meta.Map.Field != "border" || load.Meta.Map.Base != 0xD020 {
		t.Errorf("map metadata wrong: %+v", load.Meta.Map)
	}
}

// The builtin types carry their storage sizes in bytes.
func TestTypes_01(t *testing.T) {
	if ByteType.Size() != 1 || WordType.Size() != 2 || BoolType.Size() != 1 ||
		VoidType.Size() != 0 || PointerType.Size() != 2 {
		t.Errorf("unexpected type sizes")
	}
}

// The listing includes labels and instructions.
func TestPrinter_01(t *testing.T) {
	builder := NewBuilder("test")
	builder.BeginFunction("foo", ByteType)
	builder.EmitReturn(builder.EmitConst(ByteType, 5))
	builder.EndFunction()
	//
	listing := builder.Module().String()
	//
	for _, want := range []string{"module test", "function foo", "const byte 5", "return"} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing lacks %q:\n%s", want, listing)
		}
	}
}
