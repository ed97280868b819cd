// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"

	"github.com/yeetrun/argbind/pkg/coerce"
)

const (
	defaultHelpWidth = 80
	minTextWidth     = 20
	gutterPadding    = 6
	errorIndent      = "  "
)

// RenderUsage builds the one-line invocation summary: the application name,
// the default arguments, the required arguments and then the optional
// arguments that are shown in usage.
func RenderUsage(opts *Options, reg *Registry) string {
	prefix := opts.ArgumentPrefix
	if prefix == "" {
		prefix = DefaultArgumentPrefix
	}
	var parts []string
	if opts.ApplicationName != "" {
		parts = append(parts, opts.ApplicationName)
	}

	positional := make(map[*ArgumentSpec]bool)
	for _, name := range opts.DefaultArgNames {
		spec, ok := reg.Resolve(name)
		if !ok {
			continue
		}
		positional[spec] = true
		parts = append(parts, "<"+spec.Hint()+">")
	}
	for _, spec := range reg.Specs() {
		if positional[spec] || !spec.Required || spec.Show == ShowFalse {
			continue
		}
		parts = append(parts, argUsage(prefix, spec))
	}
	for _, spec := range reg.Specs() {
		if positional[spec] || spec.Required || !spec.Shown() {
			continue
		}
		parts = append(parts, "["+argUsage(prefix, spec)+"]")
	}
	return strings.Join(parts, " ")
}

func argUsage(prefix string, spec *ArgumentSpec) string {
	if spec.IsBool() {
		return prefix + spec.ShortName()
	}
	return fmt.Sprintf("%s%s <%s>", prefix, spec.ShortName(), spec.Hint())
}

// RenderHelp builds the full help text: errors, title, description, usage
// line and one block per visible argument, wrapped to maxWidth. A maxWidth
// of zero or less uses the terminal width.
func RenderHelp(opts *Options, b *Bindings, errs []string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = terminalWidth()
	}
	prefix := opts.ArgumentPrefix
	if prefix == "" {
		prefix = DefaultArgumentPrefix
	}
	var sb strings.Builder

	if len(errs) > 0 {
		writeLines(&sb, "", wrap(errs[0], maxWidth))
		for _, e := range errs[1:] {
			writeLines(&sb, errorIndent, wrap(e, maxWidth-len(errorIndent)))
		}
		sb.WriteString("\n")
	}

	if opts.Title != "" {
		writeLines(&sb, "", wrap(opts.Title, maxWidth))
	}
	if opts.Description != "" {
		writeLines(&sb, "", wrap(opts.Description, maxWidth))
	}
	if opts.Title != "" || opts.Description != "" {
		sb.WriteString("\n")
	}

	usage := opts.Usage
	if usage == "" {
		usage = RenderUsage(opts, b.Registry())
	}
	writeLines(&sb, "", wrap(usage, maxWidth))
	sb.WriteString("\n")

	var visible []*BoundValue
	longest := 0
	for _, bv := range b.All() {
		if bv.Spec.Show == ShowFalse {
			continue
		}
		visible = append(visible, bv)
		longest = max(longest, len(bv.Spec.Name))
	}
	gutter := longest + gutterPadding
	textWidth := max(maxWidth-gutter, minTextWidth)
	pad := strings.Repeat(" ", gutter)

	for _, bv := range visible {
		label := prefix + bv.Spec.Name
		if len(bv.Spec.Aliases) > 0 {
			label += " (" + strings.Join(bv.Spec.Aliases, ", ") + ")"
		}
		var lines []string
		for _, para := range argumentNotes(bv) {
			lines = append(lines, wrap(para, textWidth)...)
		}
		if len(lines) == 0 {
			sb.WriteString(label + "\n")
			continue
		}
		if len(label) < gutter {
			sb.WriteString(label + strings.Repeat(" ", gutter-len(label)) + lines[0] + "\n")
			lines = lines[1:]
		} else {
			sb.WriteString(label + "\n")
		}
		writeLines(&sb, pad, lines)
	}
	return sb.String()
}

// argumentNotes returns the paragraphs shown next to an argument.
func argumentNotes(bv *BoundValue) []string {
	spec := bv.Spec
	var notes []string
	if spec.Description != "" {
		notes = append(notes, spec.Description)
	}
	if spec.Required {
		notes = append(notes, "REQUIRED")
	} else if d := bv.Default(); d != "" {
		notes = append(notes, "Default: "+d)
	}
	if values, ok := coerce.EnumValues(spec.Type); ok {
		notes = append(notes, "Possible values: ["+strings.Join(values, ", ")+"]")
	} else if spec.IsSlice() {
		if values, ok := coerce.EnumValues(spec.Type.Elem()); ok {
			notes = append(notes, "Possible values: ["+strings.Join(values, ", ")+"]")
		}
	}
	for _, v := range spec.Validators {
		if d, ok := v.(Describer); ok {
			notes = append(notes, d.Describe())
		}
	}
	return notes
}

func wrap(s string, width int) []string {
	if width < minTextWidth {
		width = minTextWidth
	}
	return strings.Split(wordwrap.WrapString(s, uint(width)), "\n")
}

func writeLines(sb *strings.Builder, indent string, lines []string) {
	for _, line := range lines {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultHelpWidth
	}
	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		return defaultHelpWidth
	}
	return cols
}
