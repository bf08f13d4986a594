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

// TypeRef is a syntactic type annotation, resolved to a semantic type during
// analysis.
type TypeRef interface {
	Node
	isTypeRef()
}

// Base embedded by every type reference.
type typeRefNode struct {
	node
}

func (p *typeRefNode) isTypeRef() {}

// NamedTypeRef names a built-in type, alias or enum (e.g. "byte", "Sprite").
type NamedTypeRef struct {
	typeRefNode
	Name string
}

// NewNamedTypeRef constructs a named type reference.
func NewNamedTypeRef(span source.Span, name string) *NamedTypeRef {
	return &NamedTypeRef{typeRefNode{mkNode(span)}, name}
}

// ArrayTypeRef is "T[]" or "T[N]".  Size is nil for the unsized form.
type ArrayTypeRef struct {
	typeRefNode
	Element TypeRef
	Size    Expr
}

// NewArrayTypeRef constructs an array type reference.
func NewArrayTypeRef(span source.Span, element TypeRef, size Expr) *ArrayTypeRef {
	return &ArrayTypeRef{typeRefNode{mkNode(span)}, element, size}
}

// CallbackTypeRef is a function type "callback(T1, T2): R".
type CallbackTypeRef struct {
	typeRefNode
	Params []TypeRef
	Return TypeRef
}

// NewCallbackTypeRef constructs a callback type reference.
func NewCallbackTypeRef(span source.Span, params []TypeRef, ret TypeRef) *CallbackTypeRef {
	return &CallbackTypeRef{typeRefNode{mkNode(span)}, params, ret}
}
