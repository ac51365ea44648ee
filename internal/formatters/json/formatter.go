// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"lgpd-triage/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// outputRecord is the wire shape of one classified record. The text field is
// dropped unless ShowText was requested, so default output never echoes the
// request content back.
type outputRecord struct {
	ID             string      `json:"id,omitempty"`
	Text           string      `json:"text,omitempty"`
	Classification string      `json:"classification"`
	Reason         string      `json:"reason"`
	Confidence     float64     `json:"confidence"`
	Evidence       interface{} `json:"evidence,omitempty"`
}

func (f *Formatter) Format(records []formatters.Record, options formatters.FormatterOptions) (string, error) {
	if len(records) == 0 {
		return "[]", nil
	}

	output := make([]outputRecord, 0, len(records))
	for _, rec := range records {
		out := outputRecord{
			ID:             rec.ID,
			Classification: string(rec.Result.Classification),
			Reason:         rec.Result.Reason,
			Confidence:     rec.Result.Confidence,
		}
		if options.ShowText {
			out.Text = rec.Text
		}
		if options.Verbose {
			out.Evidence = rec.Result.Evidence
		}
		output = append(output, out)
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}

	return string(jsonData), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
