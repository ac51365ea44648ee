// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ner defines the optional named-entity recognizer collaborator.
// The engine degrades gracefully when no recognizer is available: regex-only
// name detection takes over and no error is surfaced.
package ner

// Recognizer extracts person and organization entities from text.
type Recognizer interface {
	Extract(text string) (persons []string, organizations []string)
}

// Absent is the capability-absent implementation: it recognizes nothing.
// Selecting it at construction time keeps "is the recognizer present?"
// checks out of the decision logic.
type Absent struct{}

// Extract returns empty entity sets.
func (Absent) Extract(string) ([]string, []string) {
	return nil, nil
}
