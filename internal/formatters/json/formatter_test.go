// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"testing"

	"lgpd-triage/internal/detector"
	"lgpd-triage/internal/formatters"
)

func TestFormat_Empty(t *testing.T) {
	f := NewFormatter()

	output, err := f.Format(nil, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "[]" {
		t.Errorf("output = %q, want []", output)
	}
}

func TestFormat_TextOmittedByDefault(t *testing.T) {
	f := NewFormatter()

	records := []formatters.Record{{
		ID:   "1",
		Text: "Meu e-mail é joao@exemplo.com",
		Result: detector.ClassificationResult{
			Classification: detector.NotPublic,
			Reason:         "Dado pessoal explícito: EMAIL",
			Confidence:     0.99,
		},
	}}

	output, err := f.Format(records, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("got %d entries, want 1", len(parsed))
	}
	if parsed[0]["classification"] != "NOT_PUBLIC" {
		t.Errorf("classification = %v", parsed[0]["classification"])
	}
	if _, present := parsed[0]["text"]; present {
		t.Error("text should be omitted unless ShowText is set")
	}

	output, err = f.Format(records, formatters.FormatterOptions{ShowText: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed[0]["text"] != "Meu e-mail é joao@exemplo.com" {
		t.Errorf("text = %v", parsed[0]["text"])
	}
}

func TestFormat_VerboseIncludesEvidence(t *testing.T) {
	f := NewFormatter()

	records := []formatters.Record{{
		Result: detector.ClassificationResult{
			Classification: detector.NotPublic,
			Reason:         "Dado pessoal explícito: EMAIL",
			Confidence:     0.99,
			Evidence: detector.Evidence{
				Explicit: []detector.Match{{Kind: detector.KindEmail, Value: "a@b.gov.br", Start: 10}},
			},
		},
	}}

	output, err := f.Format(records, formatters.FormatterOptions{Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, present := parsed[0]["evidence"]; !present {
		t.Error("verbose output should carry evidence")
	}
}
