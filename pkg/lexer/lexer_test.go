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
	"testing"

	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/util/source"
)

func TestTokenize_01(t *testing.T) {
	tokens, diags := tokenize("let x: byte = 255;")
	//
	checkNoDiags(t, diags)
	checkKinds(t, tokens,
		KEYWORD_LET, IDENTIFIER, COLON, KEYWORD_BYTE, EQUALS, NUMBER, SEMICOLON, EOF)
	//
	if tokens[5].Value != 255 {
		t.Errorf("got value %d", tokens[5].Value)
	}
}

// Every input ends with EOF, even the empty one.
func TestTokenize_02(t *testing.T) {
	for _, input := range []string{"", "x", "// comment", "/* block */", "let"} {
		tokens, _ := tokenize(input)
		//
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
			t.Errorf("%q: token stream does not end with EOF", input)
		}
	}
}

// Numeric literal forms: decimal, $hex, 0xhex, 0bbin.
func TestTokenize_03(t *testing.T) {
	checkNumber(t, "123", 123)
	checkNumber(t, "$D020", 0xD020)
	checkNumber(t, "0xFF", 255)
	checkNumber(t, "0XfF", 255)
	checkNumber(t, "0b1010", 10)
	checkNumber(t, "0B11", 3)
	checkNumber(t, "$ff", 255)
}

// Lexemes are preserved so the parser can recover the base.
func TestTokenize_04(t *testing.T) {
	tokens, diags := tokenize("$D020")
	//
	checkNoDiags(t, diags)
	//
	if tokens[0].Lexeme != "$D020" {
		t.Errorf("got lexeme %q", tokens[0].Lexeme)
	}
}

// Greedy operator lexing: ">>=" before ">>" before ">".
func TestTokenize_05(t *testing.T) {
	tokens, diags := tokenize("a >>= b >> c > d")
	//
	checkNoDiags(t, diags)
	checkKinds(t, tokens,
		IDENTIFIER, SHIFT_RIGHT_EQUALS, IDENTIFIER, SHIFT_RIGHT, IDENTIFIER,
		GREATER_THAN, IDENTIFIER, EOF)
}

func TestTokenize_06(t *testing.T) {
	tokens, diags := tokenize("a <<= 1; b &&= c")
	// "&&=" is not an operator: lexes as "&&" then "=".
	checkNoDiags(t, diags)
	checkKinds(t, tokens,
		IDENTIFIER, SHIFT_LEFT_EQUALS, NUMBER, SEMICOLON,
		IDENTIFIER, AND_AND, EQUALS, IDENTIFIER, EOF)
}

// String escapes.
func TestTokenize_07(t *testing.T) {
	tokens, diags := tokenize(`"a\n\t\\\"b\x41"`)
	//
	checkNoDiags(t, diags)
	//
	if tokens[0].Kind != STRING || tokens[0].Text != "a\n\t\\\"bA" {
		t.Errorf("got %d %q", tokens[0].Kind, tokens[0].Text)
	}
}

// Single-quoted single characters are character literals.
func TestTokenize_08(t *testing.T) {
	tokens, diags := tokenize("'A'")
	//
	checkNoDiags(t, diags)
	//
	if tokens[0].Kind != CHARACTER || tokens[0].Value != 65 {
		t.Errorf("got kind %d value %d", tokens[0].Kind, tokens[0].Value)
	}
}

// Unterminated string: diagnostic plus an error token, then recovery.
func TestTokenize_09(t *testing.T) {
	tokens, diags := tokenize("let s = \"abc\nlet t = 1;")
	//
	checkDiag(t, diags, diag.UnterminatedString)
	checkKinds(t, tokens,
		KEYWORD_LET, IDENTIFIER, EQUALS, ERROR,
		KEYWORD_LET, IDENTIFIER, EQUALS, NUMBER, SEMICOLON, EOF)
}

func TestTokenize_10(t *testing.T) {
	_, diags := tokenize("/* never closed")
	checkDiag(t, diags, diag.UnterminatedComment)
}

func TestTokenize_11(t *testing.T) {
	_, diags := tokenize("let x = 0x;")
	checkDiag(t, diags, diag.MalformedNumber)
}

func TestTokenize_12(t *testing.T) {
	_, diags := tokenize(`"bad \q escape"`)
	checkDiag(t, diags, diag.InvalidEscape)
}

func TestTokenize_13(t *testing.T) {
	_, diags := tokenize("let x = `;")
	checkDiag(t, diags, diag.UnexpectedCharacter)
}

// Comments are stripped, not tokenised.
func TestTokenize_14(t *testing.T) {
	tokens, diags := tokenize("a // trailing\n/* inner */ b")
	//
	checkNoDiags(t, diags)
	checkKinds(t, tokens, IDENTIFIER, IDENTIFIER, EOF)
}

// Keyword reclassification covers the full table.
func TestTokenize_15(t *testing.T) {
	tokens, diags := tokenize("module import export from function callback downto step match")
	//
	checkNoDiags(t, diags)
	checkKinds(t, tokens,
		KEYWORD_MODULE, KEYWORD_IMPORT, KEYWORD_EXPORT, KEYWORD_FROM,
		KEYWORD_FUNCTION, KEYWORD_CALLBACK, KEYWORD_DOWNTO, KEYWORD_STEP,
		KEYWORD_MATCH, EOF)
}

// Span monotonicity holds for every token.
func TestTokenize_16(t *testing.T) {
	tokens, _ := tokenize("let x: word = $D020; // hi\nfunction f(): void {}")
	//
	for _, token := range tokens {
		if token.Span.Start() > token.Span.End() {
			t.Errorf("token %q has inverted span", token.Lexeme)
		}
	}
}

func TestTokenize_17(t *testing.T) {
	tokens, diags := tokenize("@zp let p: byte; @map at $D020 let border: byte;")
	//
	checkNoDiags(t, diags)
	checkKinds(t, tokens,
		AT, IDENTIFIER, KEYWORD_LET, IDENTIFIER, COLON, KEYWORD_BYTE, SEMICOLON,
		AT, IDENTIFIER, KEYWORD_AT, NUMBER, KEYWORD_LET, IDENTIFIER, COLON,
		KEYWORD_BYTE, SEMICOLON, EOF)
}

// ==================================================================
// Framework
// ==================================================================

func tokenize(input string) ([]Token, []diag.Diagnostic) {
	return Tokenize(source.NewSourceFile("test.b65", []byte(input)))
}

func checkNumber(t *testing.T, input string, expected uint64) {
	t.Helper()
	//
	tokens, diags := tokenize(input)
	checkNoDiags(t, diags)
	//
	if tokens[0].Kind != NUMBER || tokens[0].Value != expected {
		t.Errorf("%q: got kind %d value %d, expected %d",
			input, tokens[0].Kind, tokens[0].Value, expected)
	}
}

func checkKinds(t *testing.T, tokens []Token, expected ...uint) {
	t.Helper()
	//
	var kinds []uint
	for _, token := range tokens {
		kinds = append(kinds, token.Kind)
	}
	//
	if len(kinds) != len(expected) {
		t.Errorf("got %d tokens %v, expected %d", len(kinds), kinds, len(expected))
		return
	}
	//
	for i := range kinds {
		if kinds[i] != expected[i] {
			t.Errorf("token %d: got kind %d, expected %d", i, kinds[i], expected[i])
		}
	}
}

func checkNoDiags(t *testing.T, diags []diag.Diagnostic) {
	t.Helper()
	//
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func checkDiag(t *testing.T, diags []diag.Diagnostic, code diag.Code) {
	t.Helper()
	//
	for _, d := range diags {
		if d.Code == code {
			return
		}
	}
	//
	t.Errorf("expected diagnostic %s, got %v", code, diags)
}
