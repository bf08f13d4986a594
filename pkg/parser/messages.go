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
package parser

import "fmt"

// Central catalog of parser messages.  Grouping the templates by layer keeps
// phrasing consistent across the grammar: "Expected X but found Y", and
// "Expected X after Y" for delimiter errors.

// ============================================================================
// Base
// ============================================================================

func msgExpected(expected string, found string) string {
	return fmt.Sprintf("Expected %s but found %s", expected, found)
}

func msgExpectedAfter(expected string, after string, found string) string {
	return fmt.Sprintf("Expected %s after %s but found %s", expected, after, found)
}

// ============================================================================
// Expressions
// ============================================================================

func msgExpectedExpression(found string) string {
	return msgExpected("an expression", found)
}

func msgInvalidAssignmentTarget() string {
	return "Invalid assignment target"
}

// ============================================================================
// Statements
// ============================================================================

func msgExpectedStatement(found string) string {
	return msgExpected("a statement", found)
}

func msgBreakOutsideLoop() string {
	return "'break' outside of a loop, switch or match"
}

func msgContinueOutsideLoop() string {
	return "'continue' outside of a loop"
}

func msgReturnOutsideFunction() string {
	return "'return' outside of a function"
}

func msgExpectedCase(found string) string {
	return msgExpected("'case' or 'default'", found)
}

// ============================================================================
// Declarations
// ============================================================================

func msgExpectedDeclaration(found string) string {
	return msgExpected("a declaration", found)
}

func msgConstRequiresInitializer(name string) string {
	return fmt.Sprintf("Constant '%s' requires an initializer", name)
}

func msgDuplicateParameter(name string) string {
	return fmt.Sprintf("Duplicate parameter '%s'", name)
}

func msgUnknownStorageClass(name string) string {
	return fmt.Sprintf("Unknown storage class '@%s'", name)
}

// ============================================================================
// Modules
// ============================================================================

func msgExpectedModulePath(found string) string {
	return msgExpected("a module path", found)
}
