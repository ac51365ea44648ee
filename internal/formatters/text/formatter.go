// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"lgpd-triage/internal/detector"
	"lgpd-triage/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[detector.Classification]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[detector.Classification]*color.Color{
			detector.Public:      color.New(color.FgGreen),
			detector.NotPublic:   color.New(color.FgRed),
			detector.NeedsReview: color.New(color.FgYellow),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(records []formatters.Record, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	if len(records) == 0 {
		return "No records classified.", nil
	}

	var builder strings.Builder
	for i, rec := range records {
		if i > 0 {
			builder.WriteString("\n")
		}
		f.appendRecord(&builder, rec, options)
	}

	return builder.String(), nil
}

// appendRecord writes one record: a colored summary line, optionally followed
// by the evidence detail block in verbose mode.
func (f *Formatter) appendRecord(builder *strings.Builder, rec formatters.Record, options formatters.FormatterOptions) {
	label := string(rec.Result.Classification)
	if c, ok := f.colors[rec.Result.Classification]; ok {
		label = c.Sprint(label)
	}

	if rec.ID != "" {
		builder.WriteString(fmt.Sprintf("[%s] ", rec.ID))
	}
	builder.WriteString(fmt.Sprintf("%s (%.2f): %s\n", label, rec.Result.Confidence, rec.Result.Reason))

	if options.ShowText && rec.Text != "" {
		builder.WriteString(fmt.Sprintf("  Texto: %s\n", truncate(rec.Text, 120)))
	}

	if !options.Verbose {
		return
	}

	evidence := rec.Result.Evidence
	for _, m := range evidence.Explicit {
		builder.WriteString(fmt.Sprintf("  - %s em posição %d\n", m.Kind, m.Start))
	}
	for _, m := range evidence.Names {
		builder.WriteString(fmt.Sprintf("  - NAME: %s\n", m.Value))
	}
	if evidence.Signature.Found {
		builder.WriteString(fmt.Sprintf("  - Assinatura: %s\n", evidence.Signature.Name))
	}
	for _, ig := range evidence.Ignored {
		builder.WriteString(fmt.Sprintf("  - Descartado (%s): %s\n", ig.Kind, ig.Reason))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
