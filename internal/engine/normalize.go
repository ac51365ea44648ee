// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"regexp"
	"strings"
)

var (
	charReplacer = strings.NewReplacer(" ", " ", "\r\n", "\n", "\r", "\n")
	horizontalWS = regexp.MustCompile(`[ \t]+`)
)

// Normalize produces the canonical form of an input text: no-break spaces
// become plain spaces, runs of horizontal whitespace collapse to one space,
// blank lines are dropped (a run of two or more newlines becomes one), and
// every line is trimmed. All match offsets are relative to this form.
// Normalize is idempotent: normalizing already-normalized text is a no-op.
func Normalize(text string) string {
	text = charReplacer.Replace(text)
	text = horizontalWS.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
