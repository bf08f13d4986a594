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
package analysis

import (
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/sema/cfg"
)

// DeadCode reports a warning for every CFG node which cannot be reached from
// the entry.  Warnings are deduplicated by source position through the
// seen-set, which the caller shares across all functions.
func DeadCode(graph *cfg.Graph, sink *diag.Sink, seen map[int]bool) {
	reachable := graph.Reachable()
	//
	for id, node := range graph.Nodes {
		if reachable.Test(uint(id)) && !node.Unreachable {
			continue
		}
		//
		if node.Syntax == nil {
			continue
		}
		//
		span := node.Syntax.Span()
		if !span.IsKnown() || seen[span.Start()] {
			continue
		}
		//
		seen[span.Start()] = true
		sink.Warning(span, diag.UnreachableCode, "unreachable code")
	}
}
