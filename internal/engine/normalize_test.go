// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  \n",
			expected: "",
		},
		{
			name:     "collapses horizontal whitespace",
			input:    "Solicito   acesso\t\tao processo",
			expected: "Solicito acesso ao processo",
		},
		{
			name:     "windows line endings",
			input:    "primeira linha\r\nsegunda linha",
			expected: "primeira linha\nsegunda linha",
		},
		{
			name:     "drops blank lines",
			input:    "saudação\n\n\nassinatura",
			expected: "saudação\nassinatura",
		},
		{
			name:     "no-break space becomes plain space",
			input:    "Rua das Flores",
			expected: "Rua das Flores",
		},
		{
			name:     "trims each line",
			input:    "  Atenciosamente,  \n  Maria Silva  ",
			expected: "Atenciosamente,\nMaria Silva",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Solicito   acesso\r\n\r\nAtenciosamente,\nMaria Silva",
		"texto com\tespaços   estranhos",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
