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
	"testing"

	"github.com/blendsdk/blend65/pkg/util/source"
)

// The identity transformer returns every node unchanged, by identity.
func TestTransformer_01(t *testing.T) {
	root := sampleExpr()
	//
	out := NewTransformer(&IdentityRewriter{}).TransformExpr(root)
	//
	if out != root {
		t.Errorf("identity transform produced a new node")
	}
}

func TestTransformer_02(t *testing.T) {
	span := source.UnknownSpan()
	prog := NewProgram(span,
		NewModuleDecl(span, []string{"test"}),
		[]Decl{
			NewVarDecl(span, StorageDefault, nil, false,
				NewIdent(span, "x"), NewNamedTypeRef(span, "byte"),
				NewNumberLit(span, 1, "1"), false),
		}, nil)
	//
	out := NewTransformer(&IdentityRewriter{}).Transform(prog)
	//
	if out != prog {
		t.Errorf("identity transform produced a new program")
	}
}

// Renames one identifier.
type renamer struct {
	from string
	to   string
}

func (p *renamer) Rewrite(n Node) Node {
	if id, ok := n.(*Ident); ok && id.Name == p.from {
		return NewIdent(id.Span(), p.to)
	}
	//
	return nil
}

// A rewrite rebuilds the spine above the change, but shares untouched
// siblings.
func TestTransformer_03(t *testing.T) {
	root := sampleExpr().(*Binary)
	//
	out := NewTransformer(&renamer{"b", "z"}).TransformExpr(root)
	//
	outBinary, ok := out.(*Binary)
	if !ok || out == Expr(root) {
		t.Fatalf("expected a rebuilt root")
	}
	// Left operand 'a' is untouched: shared by identity.
	if outBinary.Lhs != root.Lhs {
		t.Errorf("untouched sibling was rebuilt")
	}
	// Right operand was rebuilt around the renamed identifier.
	mul, ok := outBinary.Rhs.(*Binary)
	if !ok || mul == root.Rhs {
		t.Fatalf("changed subtree was not rebuilt")
	}
	//
	if id, ok := mul.Lhs.(*Ident); !ok || id.Name != "z" {
		t.Errorf("rename did not apply")
	}
	// 'c' is shared.
	if mul.Rhs != root.Rhs.(*Binary).Rhs {
		t.Errorf("untouched leaf was rebuilt")
	}
}

// Rebuilt nodes inherit the span of their original.
func TestTransformer_04(t *testing.T) {
	span := source.NewSpan(3, 10)
	root := NewBinary(span, OpAdd,
		NewIdent(source.NewSpan(3, 4), "b"),
		NewIdent(source.NewSpan(9, 10), "c"))
	//
	out := NewTransformer(&renamer{"b", "z"}).TransformExpr(root)
	//
	if out.Span() != span {
		t.Errorf("rebuilt node lost its span")
	}
}

// Absent optional children flow through unchanged.
func TestTransformer_05(t *testing.T) {
	span := source.UnknownSpan()
	// if (b) { } with no else
	stmt := NewIf(span, NewIdent(span, "b"), NewBlock(span, nil), nil)
	//
	out := NewTransformer(&renamer{"b", "z"}).TransformStmt(stmt)
	//
	outIf, ok := out.(*If)
	if !ok || outIf == stmt {
		t.Fatalf("expected a rebuilt if")
	}
	//
	if outIf.Else != nil {
		t.Errorf("nil else branch did not flow through")
	}
	// The unchanged then-block is shared.
	if outIf.Then != stmt.Then {
		t.Errorf("untouched block was rebuilt")
	}
}
