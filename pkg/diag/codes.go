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
package diag

// Lexical codes.
const (
	// UnexpectedCharacter indicates a character which no lexical rule accepts.
	UnexpectedCharacter Code = "UNEXPECTED_CHARACTER"
	// UnterminatedString indicates a string literal without a closing quote.
	UnterminatedString Code = "UNTERMINATED_STRING"
	// UnterminatedComment indicates a block comment without a closing "*/".
	UnterminatedComment Code = "UNTERMINATED_COMMENT"
	// MalformedNumber indicates a numeric literal which cannot be decoded.
	MalformedNumber Code = "MALFORMED_NUMBER"
	// InvalidEscape indicates an unknown escape sequence inside a string.
	InvalidEscape Code = "INVALID_ESCAPE"
)

// Syntactic codes.
const (
	// UnexpectedToken indicates the parser met a token it cannot accept here.
	UnexpectedToken Code = "UNEXPECTED_TOKEN"
	// MissingDelimiter indicates a missing bracket, semicolon, etc.
	MissingDelimiter Code = "MISSING_DELIMITER"
	// DuplicateParameter indicates two parameters sharing a name.
	DuplicateParameter Code = "DUPLICATE_PARAMETER"
	// BreakOutsideLoop indicates a break statement outside any loop.
	BreakOutsideLoop Code = "BREAK_OUTSIDE_LOOP"
	// ContinueOutsideLoop indicates a continue statement outside any loop.
	ContinueOutsideLoop Code = "CONTINUE_OUTSIDE_LOOP"
	// ReturnOutsideFunction indicates a return statement at top level.
	ReturnOutsideFunction Code = "RETURN_OUTSIDE_FUNCTION"
	// MissingInitializer indicates a constant declared without a value.
	MissingInitializer Code = "MISSING_INITIALIZER"
)

// Semantic codes.
const (
	// UnknownType indicates a type annotation naming no known type.
	UnknownType Code = "UNKNOWN_TYPE"
	// UnknownSymbol indicates an identifier which resolves to no symbol.
	UnknownSymbol Code = "UNKNOWN_SYMBOL"
	// DuplicateSymbol indicates two declarations of a name in one scope.
	DuplicateSymbol Code = "DUPLICATE_SYMBOL"
	// TypeMismatch indicates a value used where its type is not assignable.
	TypeMismatch Code = "TYPE_MISMATCH"
	// LiteralOverflow indicates a numeric literal exceeding 65535.
	LiteralOverflow Code = "LITERAL_OVERFLOW"
	// WrongArgumentCount indicates a call with the wrong number of arguments.
	WrongArgumentCount Code = "WRONG_ARGUMENT_COUNT"
	// VoidValue indicates a void-returning call used as a value.
	VoidValue Code = "VOID_VALUE"
	// NotAnArray indicates an index applied to a non-array value.
	NotAnArray Code = "NOT_AN_ARRAY"
	// NotCallable indicates a call applied to a non-function value.
	NotCallable Code = "NOT_CALLABLE"
	// InvalidArraySize indicates a sized array with a non-positive size.
	InvalidArraySize Code = "INVALID_ARRAY_SIZE"
	// EmptyArrayLiteral indicates an array literal with no elements.
	EmptyArrayLiteral Code = "EMPTY_ARRAY_LITERAL"
	// DivisionByZero indicates division or modulo by a compile-time zero.
	DivisionByZero Code = "DIVISION_BY_ZERO"
	// CyclicAlias indicates a type alias which (transitively) names itself.
	CyclicAlias Code = "CYCLIC_ALIAS"
	// InvalidMember indicates member access on something other than an enum.
	InvalidMember Code = "INVALID_MEMBER"
	// NotAssignable indicates an assignment to a non-assignable target.
	NotAssignable Code = "NOT_ASSIGNABLE"
)

// Data-flow codes.
const (
	// UnreachableCode indicates a statement no path can reach.
	UnreachableCode Code = "UNREACHABLE_CODE"
	// DaUsedBeforeAssigned indicates a read of a possibly-unassigned variable.
	DaUsedBeforeAssigned Code = "DA_USED_BEFORE_ASSIGNED"
	// DaNeverAssigned indicates a read of a variable no path ever assigns.
	DaNeverAssigned Code = "DA_NEVER_ASSIGNED"
	// UnusedVariable indicates a variable which is never read.
	UnusedVariable Code = "UNUSED_VARIABLE"
	// UnusedParameter indicates a parameter which is never read.
	UnusedParameter Code = "UNUSED_PARAMETER"
	// RecursiveFunction indicates a function on a call-graph cycle.
	RecursiveFunction Code = "RECURSIVE_FUNCTION"
)

// Cross-module codes.
const (
	// UnknownModule indicates an import from a module not in the registry.
	UnknownModule Code = "UNKNOWN_MODULE"
	// SymbolNotFound indicates an imported name absent from the target module.
	SymbolNotFound Code = "SYMBOL_NOT_FOUND"
	// SymbolNotExported indicates an imported name which is not exported.
	SymbolNotExported Code = "SYMBOL_NOT_EXPORTED"
	// EmptyExports indicates a wildcard import from a module with no exports.
	EmptyExports Code = "EMPTY_EXPORTS"
)

// Internal-consistency and resource codes.
const (
	// SsaDuplicateRegister indicates two instructions defining one register.
	SsaDuplicateRegister Code = "SSA_DUPLICATE_REGISTER"
	// ZeroPageExhausted indicates the zero-page user band has overflowed.
	ZeroPageExhausted Code = "ZERO_PAGE_EXHAUSTED"
)
