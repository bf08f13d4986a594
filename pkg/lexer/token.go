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
package lexer

import (
	"github.com/blendsdk/blend65/pkg/util/source"
)

// EOF signals "end of file".
const EOF uint = 0

// ERROR signals a placeholder token for recovered lexical errors.
const ERROR uint = 1

// IDENTIFIER signals an identifier.
const IDENTIFIER uint = 2

// NUMBER signals a numeric literal (decimal, $hex, 0xhex or 0bbin).
const NUMBER uint = 3

// STRING signals a string literal.
const STRING uint = 4

// CHARACTER signals a single-quoted character literal.
const CHARACTER uint = 5

// Keywords.
const (
	// KEYWORD_MODULE signals "module".
	KEYWORD_MODULE uint = iota + 10
	// KEYWORD_IMPORT signals "import".
	KEYWORD_IMPORT
	// KEYWORD_EXPORT signals "export".
	KEYWORD_EXPORT
	// KEYWORD_FROM signals "from".
	KEYWORD_FROM
	// KEYWORD_FUNCTION signals "function".
	KEYWORD_FUNCTION
	// KEYWORD_CALLBACK signals "callback".
	KEYWORD_CALLBACK
	// KEYWORD_LET signals "let".
	KEYWORD_LET
	// KEYWORD_CONST signals "const".
	KEYWORD_CONST
	// KEYWORD_IF signals "if".
	KEYWORD_IF
	// KEYWORD_ELSE signals "else".
	KEYWORD_ELSE
	// KEYWORD_WHILE signals "while".
	KEYWORD_WHILE
	// KEYWORD_DO signals "do".
	KEYWORD_DO
	// KEYWORD_FOR signals "for".
	KEYWORD_FOR
	// KEYWORD_TO signals "to".
	KEYWORD_TO
	// KEYWORD_DOWNTO signals "downto".
	KEYWORD_DOWNTO
	// KEYWORD_STEP signals "step".
	KEYWORD_STEP
	// KEYWORD_RETURN signals "return".
	KEYWORD_RETURN
	// KEYWORD_BREAK signals "break".
	KEYWORD_BREAK
	// KEYWORD_CONTINUE signals "continue".
	KEYWORD_CONTINUE
	// KEYWORD_SWITCH signals "switch".
	KEYWORD_SWITCH
	// KEYWORD_CASE signals "case".
	KEYWORD_CASE
	// KEYWORD_DEFAULT signals "default".
	KEYWORD_DEFAULT
	// KEYWORD_MATCH signals "match".
	KEYWORD_MATCH
	// KEYWORD_ENUM signals "enum".
	KEYWORD_ENUM
	// KEYWORD_TYPE signals "type".
	KEYWORD_TYPE
	// KEYWORD_TRUE signals "true".
	KEYWORD_TRUE
	// KEYWORD_FALSE signals "false".
	KEYWORD_FALSE
	// KEYWORD_BYTE signals "byte".
	KEYWORD_BYTE
	// KEYWORD_WORD signals "word".
	KEYWORD_WORD
	// KEYWORD_BOOL signals "bool".
	KEYWORD_BOOL
	// KEYWORD_VOID signals "void".
	KEYWORD_VOID
	// KEYWORD_STRING signals "string".
	KEYWORD_STRING
	// KEYWORD_AT signals "at" (within "@map at <addr>").
	KEYWORD_AT
	// KEYWORD_END signals "end" (keyword-terminated block form).
	KEYWORD_END
)

// Operators and punctuation.
const (
	// PLUS signals "+".
	PLUS uint = iota + 60
	// MINUS signals "-".
	MINUS
	// STAR signals "*".
	STAR
	// SLASH signals "/".
	SLASH
	// PERCENT signals "%".
	PERCENT
	// EQUALS_EQUALS signals "==".
	EQUALS_EQUALS
	// NOT_EQUALS signals "!=".
	NOT_EQUALS
	// LESS_THAN signals "<".
	LESS_THAN
	// LESS_THAN_EQUALS signals "<=".
	LESS_THAN_EQUALS
	// GREATER_THAN signals ">".
	GREATER_THAN
	// GREATER_THAN_EQUALS signals ">=".
	GREATER_THAN_EQUALS
	// AND_AND signals "&&".
	AND_AND
	// OR_OR signals "||".
	OR_OR
	// NOT signals "!".
	NOT
	// AMPERSAND signals "&".
	AMPERSAND
	// BAR signals "|".
	BAR
	// CARET signals "^".
	CARET
	// TILDE signals "~".
	TILDE
	// SHIFT_LEFT signals "<<".
	SHIFT_LEFT
	// SHIFT_RIGHT signals ">>".
	SHIFT_RIGHT
	// EQUALS signals "=".
	EQUALS
	// PLUS_EQUALS signals "+=".
	PLUS_EQUALS
	// MINUS_EQUALS signals "-=".
	MINUS_EQUALS
	// STAR_EQUALS signals "*=".
	STAR_EQUALS
	// SLASH_EQUALS signals "/=".
	SLASH_EQUALS
	// PERCENT_EQUALS signals "%=".
	PERCENT_EQUALS
	// AMPERSAND_EQUALS signals "&=".
	AMPERSAND_EQUALS
	// BAR_EQUALS signals "|=".
	BAR_EQUALS
	// CARET_EQUALS signals "^=".
	CARET_EQUALS
	// SHIFT_LEFT_EQUALS signals "<<=".
	SHIFT_LEFT_EQUALS
	// SHIFT_RIGHT_EQUALS signals ">>=".
	SHIFT_RIGHT_EQUALS
	// LBRACE signals "(".
	LBRACE
	// RBRACE signals ")".
	RBRACE
	// LSQUARE signals "[".
	LSQUARE
	// RSQUARE signals "]".
	RSQUARE
	// LCURLY signals "{".
	LCURLY
	// RCURLY signals "}".
	RCURLY
	// COMMA signals ",".
	COMMA
	// SEMICOLON signals ";".
	SEMICOLON
	// COLON signals ":".
	COLON
	// DOT signals ".".
	DOT
	// AT signals "@".
	AT
	// QUESTION signals "?".
	QUESTION
)

// Token is a single lexical item, carrying its kind, the raw lexeme as it
// appeared in the source, its span and (for literals) a decoded payload.
// Numeric literals retain their raw lexeme so the parser can recover the base
// and width.
type Token struct {
	Kind   uint
	Lexeme string
	Span   source.Span
	// Decoded numeric (or character) payload.
	Value uint64
	// Decoded string payload, with escapes applied.
	Text string
}

// IsKeyword checks whether this token is one of the reserved keywords.
func (p *Token) IsKeyword() bool {
	return p.Kind >= KEYWORD_MODULE && p.Kind < PLUS
}

// keywords maps identifier spellings onto their keyword kinds.
var keywords = map[string]uint{
	"module":   KEYWORD_MODULE,
	"import":   KEYWORD_IMPORT,
	"export":   KEYWORD_EXPORT,
	"from":     KEYWORD_FROM,
	"function": KEYWORD_FUNCTION,
	"callback": KEYWORD_CALLBACK,
	"let":      KEYWORD_LET,
	"const":    KEYWORD_CONST,
	"if":       KEYWORD_IF,
	"else":     KEYWORD_ELSE,
	"while":    KEYWORD_WHILE,
	"do":       KEYWORD_DO,
	"for":      KEYWORD_FOR,
	"to":       KEYWORD_TO,
	"downto":   KEYWORD_DOWNTO,
	"step":     KEYWORD_STEP,
	"return":   KEYWORD_RETURN,
	"break":    KEYWORD_BREAK,
	"continue": KEYWORD_CONTINUE,
	"switch":   KEYWORD_SWITCH,
	"case":     KEYWORD_CASE,
	"default":  KEYWORD_DEFAULT,
	"match":    KEYWORD_MATCH,
	"enum":     KEYWORD_ENUM,
	"type":     KEYWORD_TYPE,
	"true":     KEYWORD_TRUE,
	"false":    KEYWORD_FALSE,
	"byte":     KEYWORD_BYTE,
	"word":     KEYWORD_WORD,
	"bool":     KEYWORD_BOOL,
	"void":     KEYWORD_VOID,
	"string":   KEYWORD_STRING,
	"at":       KEYWORD_AT,
	"end":      KEYWORD_END,
}
