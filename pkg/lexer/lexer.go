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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/util/source"
	"github.com/blendsdk/blend65/pkg/util/source/lex"
)

// Internal tags for lexemes which never surface as tokens, or which require
// post-processing before they do.
const (
	whitespaceTag uint = iota + 200
	lineCommentTag
	blockCommentTag
	unterminatedCommentTag
	decNumberTag
	hexNumberTag
	binNumberTag
	badNumberTag
	stringTag
	unterminatedStringTag
	unknownTag
)

// Matches one or more of a given scanner.
func many1(s lex.Scanner[rune]) lex.Scanner[rune] {
	return lex.SequenceNullableLast(s, lex.Many(s))
}

var (
	digit    = lex.Within('0', '9')
	hexDigit = lex.Or(digit, lex.Within('a', 'f'), lex.Within('A', 'F'))
	binDigit = lex.Within('0', '1')
	//
	whitespace = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))
	//
	identifierStart = lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'))
	identifierRest  = lex.Many(lex.Or(identifierStart, digit))
	identifier      = lex.SequenceNullableLast(identifierStart, identifierRest)
	// Line comments run to the next newline (or EOF).
	lineComment = lex.SequenceNullableLast(lex.Text("//"), lex.Until('\n'))
	// Numeric literal forms.  Hexadecimal and binary forms are attempted
	// before decimal, so "0x" prefixes are not swallowed as "0".
	hexNumber = lex.Or(
		lex.Sequence(lex.Unit('$'), many1(hexDigit)),
		lex.Sequence(lex.Text("0x"), many1(hexDigit)),
		lex.Sequence(lex.Text("0X"), many1(hexDigit)))
	binNumber = lex.Or(
		lex.Sequence(lex.Text("0b"), many1(binDigit)),
		lex.Sequence(lex.Text("0B"), many1(binDigit)))
	// A number prefix with no digits following it.
	badNumber = lex.Or(
		lex.Text("0x"), lex.Text("0X"), lex.Text("0b"), lex.Text("0B"), lex.Unit('$'))
	decNumber = many1(digit)
)

// Scan a complete quoted literal, including both quotes.  Escaped characters
// are skipped without validation (that happens during decoding).  Fails on a
// newline or end-of-file before the closing quote.
func quoted(quote rune) lex.Scanner[rune] {
	return func(items []rune) uint {
		if len(items) == 0 || items[0] != quote {
			return 0
		}
		//
		i := 1
		//
		for i < len(items) {
			switch items[i] {
			case quote:
				return uint(i + 1)
			case '\n':
				return 0
			case '\\':
				if i+1 >= len(items) {
					return 0
				}
				//
				i += 2
			default:
				i++
			}
		}
		// Ran off the end
		return 0
	}
}

// Scan a quoted literal which never closes on its own line.  Used as the
// fallback rule behind quoted, so lexing can recover past the error.
func unterminatedQuoted(quote rune) lex.Scanner[rune] {
	return func(items []rune) uint {
		if len(items) == 0 || items[0] != quote {
			return 0
		}
		//
		i := 1
		//
		for i < len(items) && items[i] != '\n' {
			i++
		}
		//
		return uint(i)
	}
}

// Scan a complete block comment, including both delimiters.
func blockComment(items []rune) uint {
	if len(items) < 2 || items[0] != '/' || items[1] != '*' {
		return 0
	}
	//
	for i := 2; i+1 < len(items); i++ {
		if items[i] == '*' && items[i+1] == '/' {
			return uint(i + 2)
		}
	}
	// Never closed
	return 0
}

// Scan a block comment which runs off the end of the file.
func unterminatedBlockComment(items []rune) uint {
	if len(items) < 2 || items[0] != '/' || items[1] != '*' {
		return 0
	}
	//
	return uint(len(items))
}

// lexing rules.  Order matters: comment rules preempt the division operator,
// and operator lexing is greedy (">>=" before ">>" before ">").
var rules = []lex.LexRule[rune]{
	lex.Rule(lineComment, lineCommentTag),
	lex.Rule(blockComment, blockCommentTag),
	lex.Rule(unterminatedBlockComment, unterminatedCommentTag),
	lex.Rule(quoted('"'), stringTag),
	lex.Rule(quoted('\''), stringTag),
	lex.Rule(unterminatedQuoted('"'), unterminatedStringTag),
	lex.Rule(unterminatedQuoted('\''), unterminatedStringTag),
	lex.Rule(hexNumber, hexNumberTag),
	lex.Rule(binNumber, binNumberTag),
	lex.Rule(badNumber, badNumberTag),
	lex.Rule(decNumber, decNumberTag),
	lex.Rule(identifier, IDENTIFIER),
	// Three-character operators.
	lex.Rule(lex.Text("<<="), SHIFT_LEFT_EQUALS),
	lex.Rule(lex.Text(">>="), SHIFT_RIGHT_EQUALS),
	// Two-character operators.
	lex.Rule(lex.Text("=="), EQUALS_EQUALS),
	lex.Rule(lex.Text("!="), NOT_EQUALS),
	lex.Rule(lex.Text("<="), LESS_THAN_EQUALS),
	lex.Rule(lex.Text(">="), GREATER_THAN_EQUALS),
	lex.Rule(lex.Text("&&"), AND_AND),
	lex.Rule(lex.Text("||"), OR_OR),
	lex.Rule(lex.Text("<<"), SHIFT_LEFT),
	lex.Rule(lex.Text(">>"), SHIFT_RIGHT),
	lex.Rule(lex.Text("+="), PLUS_EQUALS),
	lex.Rule(lex.Text("-="), MINUS_EQUALS),
	lex.Rule(lex.Text("*="), STAR_EQUALS),
	lex.Rule(lex.Text("/="), SLASH_EQUALS),
	lex.Rule(lex.Text("%="), PERCENT_EQUALS),
	lex.Rule(lex.Text("&="), AMPERSAND_EQUALS),
	lex.Rule(lex.Text("|="), BAR_EQUALS),
	lex.Rule(lex.Text("^="), CARET_EQUALS),
	// Single-character operators and punctuation.
	lex.Rule(lex.Unit('+'), PLUS),
	lex.Rule(lex.Unit('-'), MINUS),
	lex.Rule(lex.Unit('*'), STAR),
	lex.Rule(lex.Unit('/'), SLASH),
	lex.Rule(lex.Unit('%'), PERCENT),
	lex.Rule(lex.Unit('<'), LESS_THAN),
	lex.Rule(lex.Unit('>'), GREATER_THAN),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit('!'), NOT),
	lex.Rule(lex.Unit('&'), AMPERSAND),
	lex.Rule(lex.Unit('|'), BAR),
	lex.Rule(lex.Unit('^'), CARET),
	lex.Rule(lex.Unit('~'), TILDE),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('.'), DOT),
	lex.Rule(lex.Unit('@'), AT),
	lex.Rule(lex.Unit('?'), QUESTION),
	lex.Rule(whitespace, whitespaceTag),
	lex.Rule(lex.Eof[rune](), EOF),
	// Catch-all, so lexing always consumes the entire input.
	lex.Rule(lex.Any[rune](), unknownTag),
}

// Tokenize translates a source file into a flat token sequence, terminated by
// an EOF token.  Lexical errors never abort the scan: each is reported as a
// diagnostic and represented by an ERROR token, so parsing can continue.
func Tokenize(srcfile *source.File) ([]Token, []diag.Diagnostic) {
	var (
		runes  = srcfile.Contents()
		tokens []Token
		diags  []diag.Diagnostic
	)
	//
	raw := lex.NewLexer(runes, rules...).Collect()
	//
	for _, t := range raw {
		lexeme := string(runes[t.Span.Start():t.Span.End()])
		//
		switch t.Kind {
		case whitespaceTag, lineCommentTag, blockCommentTag:
			// Stripped, not tokenised.
		case unterminatedCommentTag:
			diags = append(diags, diag.Errorf(t.Span, diag.UnterminatedComment, "unterminated block comment"))
			tokens = append(tokens, Token{ERROR, lexeme, t.Span, 0, ""})
		case unterminatedStringTag:
			diags = append(diags, diag.Errorf(t.Span, diag.UnterminatedString, "unterminated string literal"))
			tokens = append(tokens, Token{ERROR, lexeme, t.Span, 0, ""})
		case stringTag:
			token, errs := decodeString(lexeme, t.Span)
			diags = append(diags, errs...)
			tokens = append(tokens, token)
		case decNumberTag:
			token, errs := decodeNumber(lexeme, lexeme, 10, t.Span)
			diags = append(diags, errs...)
			tokens = append(tokens, token)
		case hexNumberTag:
			digits := strings.TrimLeft(lexeme, "$")
			digits = strings.TrimPrefix(strings.TrimPrefix(digits, "0x"), "0X")
			token, errs := decodeNumber(lexeme, digits, 16, t.Span)
			diags = append(diags, errs...)
			tokens = append(tokens, token)
		case binNumberTag:
			digits := strings.TrimPrefix(strings.TrimPrefix(lexeme, "0b"), "0B")
			token, errs := decodeNumber(lexeme, digits, 2, t.Span)
			diags = append(diags, errs...)
			tokens = append(tokens, token)
		case badNumberTag:
			diags = append(diags, diag.Errorf(t.Span, diag.MalformedNumber,
				"malformed numeric literal \"%s\"", lexeme))
			tokens = append(tokens, Token{ERROR, lexeme, t.Span, 0, ""})
		case IDENTIFIER:
			kind := IDENTIFIER
			// Keyword reclassification.
			if k, ok := keywords[lexeme]; ok {
				kind = k
			}
			//
			tokens = append(tokens, Token{kind, lexeme, t.Span, 0, ""})
		case unknownTag:
			diags = append(diags, diag.Errorf(t.Span, diag.UnexpectedCharacter,
				"unexpected character %q", lexeme))
			tokens = append(tokens, Token{ERROR, lexeme, t.Span, 0, ""})
		default:
			tokens = append(tokens, Token{t.Kind, lexeme, t.Span, 0, ""})
		}
	}
	//
	return tokens, diags
}

// Decode a numeric literal of a given base, retaining the raw lexeme.
func decodeNumber(lexeme string, digits string, base int, span source.Span) (Token, []diag.Diagnostic) {
	val, err := strconv.ParseUint(digits, base, 64)
	//
	if err != nil {
		d := diag.Errorf(span, diag.MalformedNumber, "malformed numeric literal \"%s\"", lexeme)
		return Token{NUMBER, lexeme, span, math.MaxUint64, ""}, []diag.Diagnostic{d}
	}
	//
	return Token{NUMBER, lexeme, span, val, ""}, nil
}

// Decode a quoted literal, applying escape sequences.  Single-quoted literals
// of exactly one character become character literals.
func decodeString(lexeme string, span source.Span) (Token, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	// Strip quotes before decoding.
	body := []rune(lexeme[1 : len(lexeme)-1])
	//
	var out strings.Builder
	//
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			out.WriteRune(body[i])
			continue
		}
		// Escape sequence.
		i++
		//
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '\\':
			out.WriteByte('\\')
		case '"':
			out.WriteByte('"')
		case '\'':
			out.WriteByte('\'')
		case '0':
			out.WriteByte(0)
		case 'x':
			if i+2 <= len(body)-1 {
				hi := string(body[i+1 : i+3])
				if v, err := strconv.ParseUint(hi, 16, 8); err == nil {
					out.WriteByte(byte(v))
					i += 2
					break
				}
			}
			//
			diags = append(diags, diag.Errorf(span, diag.InvalidEscape, "invalid escape sequence \"\\x\""))
		default:
			diags = append(diags, diag.Errorf(span, diag.InvalidEscape,
				"invalid escape sequence %q", fmt.Sprintf("\\%c", body[i])))
		}
	}
	//
	text := out.String()
	// Single-quoted single characters are character literals.
	if lexeme[0] == '\'' && len(text) == 1 {
		return Token{CHARACTER, lexeme, span, uint64(text[0]), text}, diags
	}
	//
	return Token{STRING, lexeme, span, 0, text}, diags
}
