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
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Node provides common functionality across all elements of the Abstract
// Syntax Tree.  Every node carries the span of the original source text it was
// parsed from; synthesised nodes carry the unknown span.  Nodes are
// structurally immutable after parsing: transformers produce new nodes rather
// than mutating existing ones.
type Node interface {
	// Span returns the region of the original source text this node covers.
	Span() source.Span
}

// Base embedded by every concrete node.
type node struct {
	span source.Span
}

// Span returns the region of the original source text this node covers.
func (p *node) Span() source.Span {
	return p.span
}

func mkNode(span source.Span) node {
	return node{span}
}
