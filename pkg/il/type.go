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
	"github.com/blendsdk/blend65/pkg/types"
)

// Type is an IL-level value type.  The built-ins are interned: exactly one
// shared instance exists per type, so identity comparison suffices
// everywhere.
type Type struct {
	name string
	size uint
}

var (
	// ByteType is the 8-bit unsigned IL type.
	ByteType = &Type{"byte", 1}
	// WordType is the 16-bit unsigned IL type.
	WordType = &Type{"word", 2}
	// BoolType is the 1-byte boolean IL type (0 or 1).
	BoolType = &Type{"bool", 1}
	// VoidType is the empty IL type.
	VoidType = &Type{"void", 0}
	// PointerType is the 16-bit address IL type.
	PointerType = &Type{"ptr", 2}
)

// Name returns the printable name of this type.
func (p *Type) Name() string {
	return p.name
}

// Size returns the storage size of this type in bytes.
func (p *Type) Size() uint {
	return p.size
}

func (p *Type) String() string {
	return p.name
}

// TypeOf lowers a semantic type into its IL representation: scalars map
// directly, enums map to their storage width, and arrays, strings and
// functions are handled by address.
func TypeOf(t types.Type) *Type {
	switch t := types.Resolve(t).(type) {
	case *types.BuiltinType:
		switch t {
		case types.Byte:
			return ByteType
		case types.Word:
			return WordType
		case types.Bool:
			return BoolType
		case types.Void:
			return VoidType
		case types.String:
			return PointerType
		}
	case *types.EnumType:
		if t.Size() == 1 {
			return ByteType
		}
		//
		return WordType
	case *types.ArrayType:
		return PointerType
	case *types.FuncType:
		return PointerType
	}
	//
	return VoidType
}
