// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package contextmodel provides the external context classifier
// collaborator: a pre-trained statistical model returning a coarse
// neutral/personal/ambiguous label. The engine consults it only when
// rule-based evidence is inconclusive and treats it as an opaque black box.
package contextmodel

import (
	"context"

	"lgpd-triage/internal/detector"
)

// Classifier is the context-classifier capability. Implementations must be
// deterministic for a fixed model artifact and must return a neutral signal
// with zero confidence for empty input.
type Classifier interface {
	Predict(ctx context.Context, text string) (detector.ContextSignal, error)
}

// Absent is the capability-absent implementation: every prediction is
// neutral with zero confidence.
type Absent struct{}

// Predict returns the neutral zero-confidence signal.
func (Absent) Predict(context.Context, string) (detector.ContextSignal, error) {
	return detector.ContextSignal{Label: detector.ContextNeutral, Confidence: 0}, nil
}
