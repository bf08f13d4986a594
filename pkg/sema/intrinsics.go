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
package sema

import (
	"github.com/blendsdk/blend65/pkg/types"
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Intrinsic catalog.  Every module scope receives these as IntrinsicSymbol
// entries; the IL translator lowers calls to them into dedicated opcodes.
type intrinsic struct {
	name   string
	params []types.Type
	names  []string
	ret    types.Type
	// Pure intrinsics neither read nor write machine state.
	pure bool
}

var intrinsicCatalog = []intrinsic{
	// Memory access.
	{"peek", []types.Type{types.Word}, []string{"address"}, types.Byte, false},
	{"poke", []types.Type{types.Word, types.Byte}, []string{"address", "value"}, types.Void, false},
	{"peekw", []types.Type{types.Word}, []string{"address"}, types.Word, false},
	{"pokew", []types.Type{types.Word, types.Word}, []string{"address", "value"}, types.Void, false},
	// Value decomposition.
	{"length", []types.Type{types.Word}, []string{"array"}, types.Word, true},
	{"lo", []types.Type{types.Word}, []string{"value"}, types.Byte, true},
	{"hi", []types.Type{types.Word}, []string{"value"}, types.Byte, true},
	// CPU intrinsics.
	{"sei", nil, nil, types.Void, false},
	{"cli", nil, nil, types.Void, false},
	{"nop", nil, nil, types.Void, false},
	{"brk", nil, nil, types.Void, false},
	{"pha", nil, nil, types.Void, false},
	{"pla", nil, nil, types.Void, false},
	{"php", nil, nil, types.Void, false},
	{"plp", nil, nil, types.Void, false},
	// Optimisation control.
	{"barrier", nil, nil, types.Void, false},
	{"volatile_read", []types.Type{types.Word}, []string{"address"}, types.Byte, false},
	{"volatile_write", []types.Type{types.Word, types.Byte}, []string{"address", "value"}, types.Void, false},
}

// Intrinsic purity, by name, for the purity analysis.
var pureIntrinsics = func() map[string]bool {
	m := make(map[string]bool)
	//
	for _, i := range intrinsicCatalog {
		m[i.name] = i.pure
	}
	//
	return m
}()

// IsPureIntrinsic checks whether a named intrinsic has no machine-state
// effects.
func IsPureIntrinsic(name string) bool {
	return pureIntrinsics[name]
}

// IsIntrinsicName checks whether a name belongs to the intrinsic catalog.
func IsIntrinsicName(name string) bool {
	_, ok := pureIntrinsics[name]
	return ok
}

// Enter the intrinsic catalog into a module scope.
func defineIntrinsics(scope *Scope) {
	for _, i := range intrinsicCatalog {
		scope.Define(&Symbol{
			Name: i.name,
			Kind: IntrinsicSymbol,
			Type: types.NewFuncType(i.params, i.names, i.ret),
			Span: source.UnknownSpan(),
		})
	}
}
