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
	"github.com/blendsdk/blend65/pkg/util/source"
)

// Sink is an append-only list of diagnostics shared by all passes of a single
// compile.  A sink enforces the compile-wide policies: a soft cap on the
// number of reported errors, an optional hard stop on the first error, and
// warning suppression.
type Sink struct {
	diags []Diagnostic
	// Number of error-severity diagnostics reported so far.
	errors uint
	// Soft cap on reported errors (0 = unlimited).
	maxErrors uint
	// Hard stop after the first error.
	stopOnFirstError bool
	// Whether warnings are recorded at all.
	reportWarnings bool
}

// NewSink constructs a sink with default policies: unlimited errors, warnings
// enabled.
func NewSink() *Sink {
	return &Sink{reportWarnings: true}
}

// SetMaxErrors applies a soft cap on reported errors.
func (p *Sink) SetMaxErrors(n uint) *Sink {
	p.maxErrors = n
	return p
}

// SetStopOnFirstError configures the sink to saturate after one error.
func (p *Sink) SetStopOnFirstError(flag bool) *Sink {
	p.stopOnFirstError = flag
	return p
}

// SetReportWarnings enables or disables recording of warnings and infos.
func (p *Sink) SetReportWarnings(flag bool) *Sink {
	p.reportWarnings = flag
	return p
}

// Report appends a diagnostic, subject to the sink's policies.
func (p *Sink) Report(d Diagnostic) {
	if d.Severity != Error && !p.reportWarnings {
		return
	}
	//
	if d.Severity == Error {
		if p.Saturated() {
			return
		}
		//
		p.errors++
	}
	//
	p.diags = append(p.diags, d)
}

// Error reports an error diagnostic at the given span.
func (p *Sink) Error(span source.Span, code Code, format string, args ...any) {
	p.Report(Errorf(span, code, format, args...))
}

// Warning reports a warning diagnostic at the given span.
func (p *Sink) Warning(span source.Span, code Code, format string, args ...any) {
	p.Report(Warningf(span, code, format, args...))
}

// Info reports an info diagnostic at the given span.
func (p *Sink) Info(span source.Span, code Code, format string, args ...any) {
	p.Report(Infof(span, code, format, args...))
}

// Saturated checks whether the sink will drop further errors, either because
// the soft cap was hit or because stop-on-first-error tripped.
func (p *Sink) Saturated() bool {
	if p.stopOnFirstError && p.errors > 0 {
		return true
	}
	//
	return p.maxErrors > 0 && p.errors >= p.maxErrors
}

// HasErrors checks whether any error-severity diagnostic was reported.
func (p *Sink) HasErrors() bool {
	return p.errors > 0
}

// Errors returns the number of error-severity diagnostics reported.
func (p *Sink) Errors() uint {
	return p.errors
}

// Diagnostics returns all recorded diagnostics, in reporting order.
func (p *Sink) Diagnostics() []Diagnostic {
	return p.diags
}
