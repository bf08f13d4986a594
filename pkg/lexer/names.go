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

import "fmt"

var kindNames = map[uint]string{
	EOF:        "end of file",
	ERROR:      "error",
	IDENTIFIER: "identifier",
	NUMBER:     "number",
	STRING:     "string literal",
	CHARACTER:  "character literal",
	//
	PLUS: "'+'", MINUS: "'-'", STAR: "'*'", SLASH: "'/'", PERCENT: "'%'",
	EQUALS_EQUALS: "'=='", NOT_EQUALS: "'!='",
	LESS_THAN: "'<'", LESS_THAN_EQUALS: "'<='",
	GREATER_THAN: "'>'", GREATER_THAN_EQUALS: "'>='",
	AND_AND: "'&&'", OR_OR: "'||'", NOT: "'!'",
	AMPERSAND: "'&'", BAR: "'|'", CARET: "'^'", TILDE: "'~'",
	SHIFT_LEFT: "'<<'", SHIFT_RIGHT: "'>>'",
	EQUALS: "'='", PLUS_EQUALS: "'+='", MINUS_EQUALS: "'-='",
	STAR_EQUALS: "'*='", SLASH_EQUALS: "'/='", PERCENT_EQUALS: "'%='",
	AMPERSAND_EQUALS: "'&='", BAR_EQUALS: "'|='", CARET_EQUALS: "'^='",
	SHIFT_LEFT_EQUALS: "'<<='", SHIFT_RIGHT_EQUALS: "'>>='",
	LBRACE: "'('", RBRACE: "')'", LSQUARE: "'['", RSQUARE: "']'",
	LCURLY: "'{'", RCURLY: "'}'", COMMA: "','", SEMICOLON: "';'",
	COLON: "':'", DOT: "'.'", AT: "'@'", QUESTION: "'?'",
}

// KindName returns a human-readable name for a token kind, for use in
// diagnostics.
func KindName(kind uint) string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	// Keywords print as their spelling.
	for spelling, k := range keywords {
		if k == kind {
			return fmt.Sprintf("'%s'", spelling)
		}
	}
	//
	return "token"
}

// Describe returns a human-readable description of a token, for use in
// diagnostics.
func Describe(token Token) string {
	switch token.Kind {
	case EOF:
		return "end of file"
	case ERROR:
		return "invalid token"
	default:
		return fmt.Sprintf("'%s'", token.Lexeme)
	}
}
