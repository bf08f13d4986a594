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
package sema

import (
	"github.com/blendsdk/blend65/pkg/ast"
)

// ConstEval evaluates an expression at compile time, when possible.  Only
// literals and operator applications over compile-time values participate;
// anything else yields false.
func ConstEval(e ast.Expr) (uint64, bool) {
	switch e := e.(type) {
	case *ast.NumberLit:
		return e.Value, true
	case *ast.CharLit:
		return uint64(e.Value), true
	case *ast.BoolLit:
		if e.Value {
			return 1, true
		}
		//
		return 0, true
	case *ast.Unary:
		return constEvalUnary(e)
	case *ast.Binary:
		return constEvalBinary(e)
	default:
		return 0, false
	}
}

// IsConstZero checks whether an expression is a compile-time zero.
func IsConstZero(e ast.Expr) bool {
	v, ok := ConstEval(e)
	return ok && v == 0
}

func constEvalUnary(e *ast.Unary) (uint64, bool) {
	v, ok := ConstEval(e.Operand)
	if !ok {
		return 0, false
	}
	//
	switch e.Op {
	case ast.OpBitNot:
		return ^v & 0xFFFF, true
	case ast.OpLogNot:
		if v == 0 {
			return 1, true
		}
		//
		return 0, true
	default:
		// Unary minus has no value on unsigned types.
		return 0, false
	}
}

func constEvalBinary(e *ast.Binary) (uint64, bool) {
	lhs, ok := ConstEval(e.Lhs)
	if !ok {
		return 0, false
	}
	//
	rhs, ok := ConstEval(e.Rhs)
	if !ok {
		return 0, false
	}
	//
	switch e.Op {
	case ast.OpAdd:
		return lhs + rhs, true
	case ast.OpSub:
		return lhs - rhs, true
	case ast.OpMul:
		return lhs * rhs, true
	case ast.OpDiv:
		if rhs == 0 {
			return 0, false
		}
		//
		return lhs / rhs, true
	case ast.OpMod:
		if rhs == 0 {
			return 0, false
		}
		//
		return lhs % rhs, true
	case ast.OpBitAnd:
		return lhs & rhs, true
	case ast.OpBitOr:
		return lhs | rhs, true
	case ast.OpBitXor:
		return lhs ^ rhs, true
	case ast.OpShl:
		return lhs << rhs, true
	case ast.OpShr:
		return lhs >> rhs, true
	default:
		return 0, false
	}
}
