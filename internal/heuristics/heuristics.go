// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package heuristics provides the small context predicates used by the
// detectors and the decision engine to resolve ambiguous matches.
package heuristics

import (
	"strings"

	"lgpd-triage/internal/patterns"
)

// Heuristics evaluates context predicates over normalized text. It holds no
// text-dependent state and is safe for concurrent use.
type Heuristics struct {
	lib *patterns.Library
}

// New creates a Heuristics instance backed by the given pattern library.
func New(lib *patterns.Library) *Heuristics {
	return &Heuristics{lib: lib}
}

// HasPersonalContext reports whether any personal-context trigger phrase
// occurs in the text (case-folded substring test).
func (h *Heuristics) HasPersonalContext(text string) bool {
	lower := strings.ToLower(text)
	for _, trigger := range h.lib.PersonalTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// HasInstitutionalContext reports whether legal-entity markers or
// institutional-role markers occur in the text.
func (h *Heuristics) HasInstitutionalContext(text string) bool {
	return h.lib.PJContext.MatchString(text) || h.lib.InstitutionalContext.MatchString(text)
}

// HasLegalEntityContext reports whether the text carries legal-entity (PJ)
// markers specifically, e.g. company designations or a CNPJ mention.
func (h *Heuristics) HasLegalEntityContext(text string) bool {
	return h.lib.PJContext.MatchString(text)
}

// IsHumanNameCandidate reports whether name looks like a person's name:
// at least two tokens, none of which belongs to the abstract/institutional
// term set.
func (h *Heuristics) IsHumanNameCandidate(name string) bool {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return false
	}
	for _, token := range tokens {
		cleaned := strings.ToLower(strings.Trim(token, ".,;:!?"))
		if _, stop := h.lib.InstitutionalNameTokens[cleaned]; stop {
			return false
		}
	}
	return true
}

// IsPublicEntity reports whether the candidate equals a known public-body
// name. These are discarded outright, never reported as names.
func (h *Heuristics) IsPublicEntity(name string) bool {
	_, ok := h.lib.PublicEntities[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
