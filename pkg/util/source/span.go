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
package source

// Span represents a contiguous slice of the original string.  Instead of
// representing this as a string slice, however, it is useful to retain the
// physical indices.  This allows us to do certain things, such as determine the
// enclosing line, etc.
type Span struct {
	// The first character of this span in the original string.
	start int
	// One past the final character of this span in the original string.
	end int
}

// NewSpan constructs a new span whilst checking the internal invariants are
// maintained.
func NewSpan(start int, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// UnknownSpan constructs the sentinel span used for synthesised nodes which
// have no counterpart in the original source text.
func UnknownSpan() Span {
	return Span{-1, -1}
}

// IsKnown reports whether this span identifies an actual region of the
// original text, rather than being the sentinel for a synthesised node.
func (p Span) IsKnown() bool {
	return p.start >= 0
}

// Start returns the starting index of this span in the original string.
func (p Span) Start() int {
	return p.start
}

// End returns one past the last index of this span in the original string.
func (p Span) End() int {
	return p.end
}

// Length returns the number of characters covered by this span in the original
// string.
func (p Span) Length() int {
	return p.end - p.start
}

// Union returns the smallest span enclosing both this span and another.
// Unknown spans are absorbed.
func (p Span) Union(other Span) Span {
	if !p.IsKnown() {
		return other
	} else if !other.IsKnown() {
		return p
	}
	//
	return Span{min(p.start, other.start), max(p.end, other.end)}
}
