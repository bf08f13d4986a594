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
	"io"
	"os"
	"strings"

	"github.com/blendsdk/blend65/pkg/util/source"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	noteColor    = color.New(color.FgWhite, color.Faint)
)

// Renderer prints diagnostics in a human-readable form, highlighting the
// enclosing source line with a caret underline.
type Renderer struct {
	out      io.Writer
	colorize bool
}

// NewRenderer constructs a renderer for the given writer.  Color is enabled
// only when the writer is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	colorize := false
	// Enable color only on a real terminal.
	if f, ok := out.(*os.File); ok {
		colorize = term.IsTerminal(int(f.Fd()))
	}
	//
	return &Renderer{out, colorize}
}

// SetColor forces color on or off, overriding terminal detection.
func (p *Renderer) SetColor(flag bool) *Renderer {
	p.colorize = flag
	return p
}

// RenderAll prints each diagnostic against its source file.
func (p *Renderer) RenderAll(srcfile *source.File, diags []Diagnostic) {
	for _, d := range diags {
		p.Render(srcfile, d)
	}
}

// Render prints a single diagnostic, including its primary span's enclosing
// source line and any related notes.
func (p *Renderer) Render(srcfile *source.File, d Diagnostic) {
	span := d.Span
	//
	if !span.IsKnown() {
		fmt.Fprintf(p.out, "%s: %s [%s]\n", p.severity(d.Severity), d.Message, d.Code)
		return
	}
	//
	pos := srcfile.PositionOf(span.Start())
	fmt.Fprintf(p.out, "%s:%d:%d: %s: %s [%s]\n",
		srcfile.Filename(), pos.Line, pos.Column, p.severity(d.Severity), d.Message, d.Code)
	//
	p.renderLine(srcfile, span)
	// Related spans follow, indented.
	for _, r := range d.Related {
		rpos := srcfile.PositionOf(r.Span.Start())
		note := r.Note
		//
		if p.colorize {
			note = noteColor.Sprint(note)
		}
		//
		fmt.Fprintf(p.out, "  %s:%d:%d: note: %s\n", srcfile.Filename(), rpos.Line, rpos.Column, note)
	}
}

// Print the enclosing source line with a caret underline beneath the span.
func (p *Renderer) renderLine(srcfile *source.File, span source.Span) {
	line := srcfile.FindFirstEnclosingLine(span)
	text := line.String()
	fmt.Fprintf(p.out, "%5d | %s\n", line.Number(), text)
	// Underline the offending span, clamped to this line.
	offset := span.Start() - line.Start()
	width := min(span.Length(), line.Length()-offset)
	width = max(width, 1)
	//
	underline := strings.Repeat("^", width)
	if p.colorize {
		underline = errorColor.Sprint(underline)
	}
	//
	fmt.Fprintf(p.out, "      | %s%s\n", strings.Repeat(" ", max(offset, 0)), underline)
}

func (p *Renderer) severity(s Severity) string {
	if !p.colorize {
		return s.String()
	}
	//
	switch s {
	case Error:
		return errorColor.Sprint(s.String())
	case Warning:
		return warningColor.Sprint(s.String())
	default:
		return infoColor.Sprint(s.String())
	}
}
