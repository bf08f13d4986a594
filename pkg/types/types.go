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
package types

import (
	"fmt"
	"strings"
)

// Type embodies the structural type model of the language: the built-in
// scalar types, arrays, enums, function types and aliases.  Every type knows
// its storage size, signedness and whether values of it can be assigned.
type Type interface {
	// Size returns the storage size of this type in bytes.
	Size() uint
	// IsSigned reports whether this type holds signed values.  All built-in
	// numeric types are unsigned.
	IsSigned() bool
	// IsAssignable reports whether values of this type may be stored into.
	IsAssignable() bool
	// Produce a string representation of this type.
	String() string
}

// ============================================================================
// Built-in types
// ============================================================================

// BuiltinType is one of the primitive types.  Built-ins are interned: there
// is exactly one shared instance per type, so identity comparison suffices.
type BuiltinType struct {
	name       string
	size       uint
	assignable bool
}

var (
	// Byte is the 8-bit unsigned integer type.
	Byte = &BuiltinType{"byte", 1, true}
	// Word is the 16-bit unsigned integer type.
	Word = &BuiltinType{"word", 2, true}
	// Bool is the boolean type (one byte; 0 or 1).
	Bool = &BuiltinType{"bool", 1, true}
	// Void is the empty type of value-less functions.
	Void = &BuiltinType{"void", 0, false}
	// String is the type of string literals.
	String = &BuiltinType{"string", 0, false}
)

// Lookup resolves a built-in type by name, or nil.
func Lookup(name string) Type {
	switch name {
	case "byte":
		return Byte
	case "word":
		return Word
	case "bool":
		return Bool
	case "void":
		return Void
	case "string":
		return String
	default:
		return nil
	}
}

// Size returns the storage size of this type in bytes.
func (p *BuiltinType) Size() uint { return p.size }

// IsSigned reports whether this type holds signed values.
func (p *BuiltinType) IsSigned() bool { return false }

// IsAssignable reports whether values of this type may be stored into.
func (p *BuiltinType) IsAssignable() bool { return p.assignable }

func (p *BuiltinType) String() string { return p.name }

// ============================================================================
// Arrays
// ============================================================================

// ArrayType is "T[N]" (sized) or "T[]" (unsized).
type ArrayType struct {
	element Type
	// Number of elements, or negative when unsized.
	count int
}

// NewArrayType constructs a sized array type.
func NewArrayType(element Type, count uint32) *ArrayType {
	return &ArrayType{element, int(count)}
}

// NewUnsizedArrayType constructs an unsized array type.
func NewUnsizedArrayType(element Type) *ArrayType {
	return &ArrayType{element, -1}
}

// Element returns the element type of this array.
func (p *ArrayType) Element() Type { return p.element }

// HasSize reports whether this array has a declared size.
func (p *ArrayType) HasSize() bool { return p.count >= 0 }

// Count returns the declared element count of a sized array.
func (p *ArrayType) Count() uint32 {
	if p.count < 0 {
		panic("unsized array has no count")
	}
	//
	return uint32(p.count)
}

// Size returns the total storage size of this array in bytes (zero when
// unsized).
func (p *ArrayType) Size() uint {
	if p.count < 0 {
		return 0
	}
	//
	return uint(p.count) * p.element.Size()
}

// IsSigned reports whether this type holds signed values.
func (p *ArrayType) IsSigned() bool { return false }

// IsAssignable reports whether values of this type may be stored into.
func (p *ArrayType) IsAssignable() bool { return true }

func (p *ArrayType) String() string {
	if p.count < 0 {
		return fmt.Sprintf("%s[]", p.element)
	}
	//
	return fmt.Sprintf("%s[%d]", p.element, p.count)
}

// ============================================================================
// Enums
// ============================================================================

// EnumType is a named enumeration with computed member values.
type EnumType struct {
	name string
	// Member values, keyed by member name.
	members map[string]uint32
	// Member names in declaration order.
	order []string
}

// NewEnumType constructs an enum type from its ordered members.
func NewEnumType(name string, order []string, members map[string]uint32) *EnumType {
	return &EnumType{name, members, order}
}

// Name returns the declared name of this enum.
func (p *EnumType) Name() string { return p.name }

// Member returns the computed value of a given member.
func (p *EnumType) Member(name string) (uint32, bool) {
	v, ok := p.members[name]
	return v, ok
}

// Members returns the member names of this enum, in declaration order.
func (p *EnumType) Members() []string { return p.order }

// Size returns the storage size of this enum: one byte when every member
// fits, two otherwise.
func (p *EnumType) Size() uint {
	for _, v := range p.members {
		if v > 255 {
			return 2
		}
	}
	//
	return 1
}

// IsSigned reports whether this type holds signed values.
func (p *EnumType) IsSigned() bool { return false }

// IsAssignable reports whether values of this type may be stored into.
func (p *EnumType) IsAssignable() bool { return true }

func (p *EnumType) String() string { return p.name }

// ============================================================================
// Functions
// ============================================================================

// FuncType is the type of a function (or callback).
type FuncType struct {
	params     []Type
	paramNames []string
	ret        Type
}

// NewFuncType constructs a function type.
func NewFuncType(params []Type, paramNames []string, ret Type) *FuncType {
	return &FuncType{params, paramNames, ret}
}

// Params returns the parameter types of this function type.
func (p *FuncType) Params() []Type { return p.params }

// ParamNames returns the parameter names of this function type.
func (p *FuncType) ParamNames() []string { return p.paramNames }

// Return returns the return type of this function type.
func (p *FuncType) Return() Type { return p.ret }

// Size returns the storage size of a function value (a 16-bit address).
func (p *FuncType) Size() uint { return 2 }

// IsSigned reports whether this type holds signed values.
func (p *FuncType) IsSigned() bool { return false }

// IsAssignable reports whether values of this type may be stored into.
func (p *FuncType) IsAssignable() bool { return false }

func (p *FuncType) String() string {
	var params []string
	//
	for _, t := range p.params {
		params = append(params, t.String())
	}
	//
	return fmt.Sprintf("callback(%s): %s", strings.Join(params, ", "), p.ret)
}

// ============================================================================
// Aliases
// ============================================================================

// AliasType names another type.  The alias resolves to its target for all
// structural questions; the name is retained for diagnostics.
type AliasType struct {
	name   string
	target Type
}

// NewAliasType constructs a type alias.
func NewAliasType(name string, target Type) *AliasType {
	return &AliasType{name, target}
}

// Name returns the declared alias name.
func (p *AliasType) Name() string { return p.name }

// Target returns the aliased type.
func (p *AliasType) Target() Type { return p.target }

// Size returns the storage size of the aliased type.
func (p *AliasType) Size() uint { return p.target.Size() }

// IsSigned reports whether the aliased type holds signed values.
func (p *AliasType) IsSigned() bool { return p.target.IsSigned() }

// IsAssignable reports whether the aliased type may be stored into.
func (p *AliasType) IsAssignable() bool { return p.target.IsAssignable() }

func (p *AliasType) String() string { return p.name }

// ============================================================================
// Relations
// ============================================================================

// Resolve strips aliases, yielding the underlying structural type.
func Resolve(t Type) Type {
	for {
		alias, ok := t.(*AliasType)
		if !ok {
			return t
		}
		//
		t = alias.Target()
	}
}

// IsNumeric checks whether a type is byte, word or an enum (which is
// represented numerically).
func IsNumeric(t Type) bool {
	t = Resolve(t)
	//
	if t == Byte || t == Word {
		return true
	}
	//
	_, ok := t.(*EnumType)
	//
	return ok
}

// Widen computes the common type two operands widen to: bool and byte widen
// to byte, byte and word widen to word.  Returns nil when no common numeric
// type exists.
func Widen(a Type, b Type) Type {
	a, b = Resolve(a), Resolve(b)
	// Enums widen according to their size.
	a, b = widenEnum(a), widenEnum(b)
	//
	if !numericOrBool(a) || !numericOrBool(b) {
		return nil
	}
	//
	if a == Word || b == Word {
		return Word
	}
	//
	if a == Bool && b == Bool {
		return Bool
	}
	//
	return Byte
}

func widenEnum(t Type) Type {
	if e, ok := t.(*EnumType); ok {
		if e.Size() == 1 {
			return Byte
		}
		//
		return Word
	}
	//
	return t
}

func numericOrBool(t Type) bool {
	return t == Byte || t == Word || t == Bool
}

// AssignableTo checks whether a value of type "from" may be assigned to a
// location of type "to".  Widening (byte to word, bool to a numeric) is
// implicit; narrowing is not.
func AssignableTo(from Type, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	//
	rfrom, rto := Resolve(from), Resolve(to)
	//
	if !rto.IsAssignable() {
		return false
	}
	// Identical structural types are always compatible.
	if rfrom == rto {
		return true
	}
	//
	switch rto := rto.(type) {
	case *BuiltinType:
		return assignableToBuiltin(rfrom, rto)
	case *ArrayType:
		rfa, ok := rfrom.(*ArrayType)
		if !ok {
			return false
		}
		// Element types must agree exactly; an unsized target accepts any
		// length.
		if Resolve(rfa.Element()) != Resolve(rto.Element()) {
			return false
		}
		//
		return !rto.HasSize() || (rfa.HasSize() && rfa.Count() == rto.Count())
	case *EnumType:
		return rfrom == rto
	default:
		return false
	}
}

func assignableToBuiltin(from Type, to *BuiltinType) bool {
	switch to {
	case Word:
		// byte, bool and any enum widen into word.
		return from == Byte || from == Bool || IsNumeric(from)
	case Byte:
		if from == Bool {
			return true
		}
		// Byte-sized enums fit.
		if e, ok := from.(*EnumType); ok {
			return e.Size() == 1
		}
		//
		return from == Byte
	case Bool:
		return from == Bool
	default:
		return false
	}
}
