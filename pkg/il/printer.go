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
	"strings"
)

// String renders the whole module as a textual IL listing.  The format is
// stable but advisory: it exists for the --il dump and for tests.
func (p *Module) String() string {
	var sb strings.Builder
	//
	fmt.Fprintf(&sb, "module %s\n", p.Name)
	//
	for _, g := range p.Globals {
		fmt.Fprintf(&sb, "%s\n", g)
	}
	//
	for _, fn := range p.Functions {
		sb.WriteString("\n")
		sb.WriteString(fn.String())
	}
	//
	return sb.String()
}

// String renders one function as a textual IL listing.
func (p *Function) String() string {
	var sb strings.Builder
	//
	var params []string
	for _, param := range p.Params {
		params = append(params, param.String())
	}
	//
	kind := "function"
	if p.Interrupt {
		kind = "interrupt function"
	}
	//
	fmt.Fprintf(&sb, "%s %s(%s): %s {\n", kind, p.Name, strings.Join(params, ", "), p.Return)
	//
	for _, block := range p.Blocks {
		fmt.Fprintf(&sb, "%s:\n", block.Label)
		//
		for _, instr := range block.Instructions {
			fmt.Fprintf(&sb, "    %s\n", instr)
		}
	}
	//
	sb.WriteString("}\n")
	//
	return sb.String()
}
