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
package il

import (
	"fmt"
)

// VirtualRegister is a typed SSA value.  Register IDs are globally unique
// within their function and monotonically assigned; this is the core SSA
// invariant enforced by the builder and checked by the verifier.
type VirtualRegister struct {
	ID   uint
	Type *Type
	// Optional name, carried for readable listings.
	Name string
}

func (p *VirtualRegister) String() string {
	if p.Name != "" {
		return fmt.Sprintf("v%d'%s", p.ID, p.Name)
	}
	//
	return fmt.Sprintf("v%d", p.ID)
}

// Parameter is a named, typed function parameter.
type Parameter struct {
	Name string
	Type *Type
}

func (p *Parameter) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}
