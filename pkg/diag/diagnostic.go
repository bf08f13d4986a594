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
package diag

import (
	"fmt"

	"github.com/blendsdk/blend65/pkg/util/source"
)

// Severity classifies how serious a given diagnostic is.  Errors prevent a
// successful compile, warnings and infos never do.
type Severity uint8

const (
	// Info indicates a purely advisory diagnostic.
	Info Severity = iota
	// Warning indicates a diagnostic which highlights a likely problem, but
	// which does not prevent compilation.
	Warning
	// Error indicates a diagnostic which prevents a successful compile.
	Error
)

// String returns a human-readable name for this severity.
func (p Severity) String() string {
	switch p {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Code is a stable, machine-readable identifier for a class of diagnostics.
// Message text is advisory; codes are version-stable.
type Code string

// Related associates an additional span (with a note) to a diagnostic, for
// example the site of an earlier conflicting declaration.
type Related struct {
	Span source.Span
	Note string
}

// Diagnostic describes a single problem (or advisory) detected somewhere in
// the compilation pipeline, anchored at a primary span of the original source
// text.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Span     source.Span
	Related  []Related
}

// New constructs a diagnostic of the given severity.
func New(severity Severity, span source.Span, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{severity, code, fmt.Sprintf(format, args...), span, nil}
}

// Errorf constructs an error diagnostic.
func Errorf(span source.Span, code Code, format string, args ...any) Diagnostic {
	return New(Error, span, code, format, args...)
}

// Warningf constructs a warning diagnostic.
func Warningf(span source.Span, code Code, format string, args ...any) Diagnostic {
	return New(Warning, span, code, format, args...)
}

// Infof constructs an info diagnostic.
func Infof(span source.Span, code Code, format string, args ...any) Diagnostic {
	return New(Info, span, code, format, args...)
}

// WithRelated attaches a related span to this diagnostic, returning the
// updated diagnostic.
func (p Diagnostic) WithRelated(span source.Span, note string) Diagnostic {
	p.Related = append(p.Related, Related{span, note})
	return p
}

// IsError reports whether this diagnostic has error severity.
func (p *Diagnostic) IsError() bool {
	return p.Severity == Error
}

// Error implements the error interface, allowing diagnostics to be passed
// around as Go errors where convenient.
func (p Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s [%s]", p.Span.Start(), p.Span.End(), p.Severity, p.Message, p.Code)
}

// CountErrors returns the number of error-severity diagnostics in the given
// list.
func CountErrors(diags []Diagnostic) uint {
	count := uint(0)
	//
	for _, d := range diags {
		if d.IsError() {
			count++
		}
	}
	//
	return count
}

// HasErrors checks whether the given list contains at least one
// error-severity diagnostic.
func HasErrors(diags []Diagnostic) bool {
	return CountErrors(diags) > 0
}
