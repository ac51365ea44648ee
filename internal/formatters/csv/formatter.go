// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strings"

	"lgpd-triage/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(records []formatters.Record, options formatters.FormatterOptions) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	headers := []string{"ID", "Classification", "Reason", "Confidence"}
	if options.ShowText {
		headers = append(headers, "Text")
	}
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			sanitizeFormulaInjection(rec.ID),
			string(rec.Result.Classification),
			sanitizeFormulaInjection(rec.Result.Reason),
			fmt.Sprintf("%.2f", rec.Result.Confidence),
		}
		if options.ShowText {
			row = append(row, sanitizeFormulaInjection(rec.Text))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV output: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

// sanitizeFormulaInjection prevents CSV injection attacks by sanitizing formula characters
func sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	// Neutralize fields that spreadsheets would interpret as formulas
	firstChar := field[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		return "'" + field
	}

	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
