// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// Kind identifies the type of a detected entity.
type Kind string

const (
	KindCPF         Kind = "CPF"
	KindRG          Kind = "RG"
	KindEmail       Kind = "EMAIL"
	KindPhone       Kind = "PHONE"
	KindAddress     Kind = "ADDRESS"
	KindMatricula   Kind = "MATRICULA"
	KindProcessoSEI Kind = "PROCESSO_SEI"
	KindName        Kind = "NAME"
)

// Match represents a detected entity in normalized text. Start is the byte
// offset of Value in the normalized text the match was produced from.
// Matches are never mutated after creation.
type Match struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Start int    `json:"start"`
}

// IgnoredMatch records an entity that was positively recognized but ruled
// out as personal data. Kept for explainability; never used to trigger a
// NOT_PUBLIC classification.
type IgnoredMatch struct {
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// SignatureResult holds the outcome of signature-block recovery. At most one
// signature is recovered per document.
type SignatureResult struct {
	Found bool   `json:"found"`
	Name  string `json:"name,omitempty"`
}

// ContextLabel is the coarse label returned by the external context
// classifier.
type ContextLabel string

const (
	ContextNeutral   ContextLabel = "NEUTRAL"
	ContextPersonal  ContextLabel = "PERSONAL"
	ContextAmbiguous ContextLabel = "AMBIGUOUS"
)

// ContextSignal is the statistical context signal consulted when rule-based
// evidence is inconclusive.
type ContextSignal struct {
	Label      ContextLabel `json:"label"`
	Confidence float64      `json:"confidence"`
}

// Classification is the final triage outcome for a document.
type Classification string

const (
	Public      Classification = "PUBLIC"
	NotPublic   Classification = "NOT_PUBLIC"
	NeedsReview Classification = "NEEDS_REVIEW"
)

// Evidence aggregates everything the detectors found in one document.
type Evidence struct {
	Explicit  []Match         `json:"explicit,omitempty"`
	Names     []Match         `json:"names,omitempty"`
	Signature SignatureResult `json:"signature"`
	Ignored   []IgnoredMatch  `json:"ignored,omitempty"`
}

// ClassificationResult is the terminal output of the decision engine.
// Confidence is always rounded to two decimal places. Reason carries the
// evidentiary detail (matched type or name) so a reviewer can audit the
// decision without re-running detection.
type ClassificationResult struct {
	Classification Classification `json:"classification"`
	Reason         string         `json:"reason"`
	Confidence     float64        `json:"confidence"`
	Evidence       Evidence       `json:"evidence"`
}

// ContainsMatch reports whether matches already holds the exact
// (kind, value, start) triple. Detectors use it to keep evidence free of
// duplicates.
func ContainsMatch(matches []Match, m Match) bool {
	for _, existing := range matches {
		if existing.Kind == m.Kind && existing.Value == m.Value && existing.Start == m.Start {
			return true
		}
	}
	return false
}
