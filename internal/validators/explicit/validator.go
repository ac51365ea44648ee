// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package explicit detects unambiguous personal identifiers in normalized
// text: tax IDs, ID-card numbers, emails, validated phone numbers,
// registration numbers, addresses and SEI-style case numbers.
package explicit

import (
	"strings"

	"lgpd-triage/internal/detector"
	"lgpd-triage/internal/heuristics"
	"lgpd-triage/internal/observability"
	"lgpd-triage/internal/patterns"
)

// phoneContextWindow is the number of characters inspected on each side of a
// raw phone match when looking for blocking tokens.
const phoneContextWindow = 15

// Detector implements explicit-entity detection over normalized text.
type Detector struct {
	lib  *patterns.Library
	heur *heuristics.Heuristics

	observer *observability.StandardObserver
}

// NewDetector creates a Detector backed by the given pattern library.
func NewDetector(lib *patterns.Library, heur *heuristics.Heuristics) *Detector {
	return &Detector{lib: lib, heur: heur}
}

// SetObserver sets the observability component.
func (d *Detector) SetObserver(observer *observability.StandardObserver) {
	d.observer = observer
}

// DetectContent scans normalized text and returns the explicit evidence in
// detector evaluation order, plus the entities that were recognized but
// ruled out (institutional addresses). Raw phone candidates pass a six-part
// precision gate before they count as evidence: raw digit runs in Brazilian
// administrative text are far more often process or protocol numbers than
// phone numbers.
func (d *Detector) DetectContent(text string) ([]detector.Match, []detector.IgnoredMatch) {
	var finishTiming func(bool, map[string]interface{})
	if d.observer != nil {
		finishTiming = d.observer.StartTiming("explicit_detector", "detect_content", "")
	}

	var evidence []detector.Match
	var ignored []detector.IgnoredMatch

	appendAll := func(kind detector.Kind, re interface {
		FindAllStringIndex(s string, n int) [][]int
	}) {
		for _, span := range re.FindAllStringIndex(text, -1) {
			m := detector.Match{Kind: kind, Value: text[span[0]:span[1]], Start: span[0]}
			if !detector.ContainsMatch(evidence, m) {
				evidence = append(evidence, m)
			}
		}
	}

	appendAll(detector.KindEmail, d.lib.Email)
	appendAll(detector.KindCPF, d.lib.CPF)
	appendAll(detector.KindRG, d.lib.RG)
	appendAll(detector.KindMatricula, d.lib.Matricula)

	evidence, ignored = d.detectAddresses(text, evidence, ignored)
	evidence = d.detectPhones(text, evidence)

	// SEI case numbers are matched so the decision engine can see them, but
	// they never count as personal data; their job is to suppress phone and
	// address false positives that overlap them.
	appendAll(detector.KindProcessoSEI, d.lib.ProcessoSEI)

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"match_count":   len(evidence),
			"ignored_count": len(ignored),
		})
	}

	return evidence, ignored
}

// detectAddresses runs both address strategies: street-type keyword with a
// qualifier and optional unit suffix, and free text immediately preceding a
// CEP marker. Both may fire on the same address; duplicates are acceptable
// evidence. An address governed by institutional or legal-entity context is
// recorded as ignored instead of explicit.
func (d *Detector) detectAddresses(text string, evidence []detector.Match, ignored []detector.IgnoredMatch) ([]detector.Match, []detector.IgnoredMatch) {
	institutional := d.heur.HasInstitutionalContext(text)

	for _, re := range []interface {
		FindAllStringIndex(s string, n int) [][]int
	}{d.lib.StreetAddress, d.lib.CEPAddress} {
		for _, span := range re.FindAllStringIndex(text, -1) {
			m := detector.Match{Kind: detector.KindAddress, Value: text[span[0]:span[1]], Start: span[0]}
			if detector.ContainsMatch(evidence, m) {
				continue
			}
			if institutional && !d.heur.HasPersonalContext(text) {
				ignored = append(ignored, detector.IgnoredMatch{
					Kind:   detector.KindAddress,
					Reason: "endereço em contexto institucional",
				})
				continue
			}
			evidence = append(evidence, m)
		}
	}

	return evidence, ignored
}

// detectPhones applies the full phone acceptance gate to every raw match.
func (d *Detector) detectPhones(text string, evidence []detector.Match) []detector.Match {
	hardBlocked := d.lib.PhoneHardBlock.MatchString(text)
	positiveContext := d.lib.PhonePositiveContext.MatchString(text)
	seiSpans := d.lib.ProcessoSEI.FindAllStringIndex(text, -1)

	for _, span := range d.lib.Phone.FindAllStringIndex(text, -1) {
		start, end := span[0], span[1]
		raw := text[start:end]

		if d.isEmbeddedInIdentifier(text, start) {
			continue
		}
		if !isValidPhoneNumber(raw) {
			continue
		}
		if hardBlocked {
			continue
		}
		if d.hasBlockedPhoneContext(text, start, end, seiSpans) {
			continue
		}
		if d.lib.PhoneNegativeShape.MatchString(raw) {
			continue
		}
		if !isStrongPhoneShape(raw) && !positiveContext {
			continue
		}

		m := detector.Match{Kind: detector.KindPhone, Value: raw, Start: start}
		if !detector.ContainsMatch(evidence, m) {
			evidence = append(evidence, m)
		}
	}

	return evidence
}

// isEmbeddedInIdentifier rejects matches whose preceding byte is a word
// character: digit runs glued to identifiers (protocol codes, resource IDs)
// are not phone numbers. Replaces the lookbehind the original rule used.
func (d *Detector) isEmbeddedInIdentifier(text string, start int) bool {
	if start == 0 {
		return false
	}
	prev := text[start-1]
	return prev == '_' ||
		(prev >= 'a' && prev <= 'z') ||
		(prev >= 'A' && prev <= 'Z') ||
		(prev >= '0' && prev <= '9')
}

// hasBlockedPhoneContext checks the character window around the match for
// blocking tokens, and checks whether a SEI case number overlaps the match
// span itself.
func (d *Detector) hasBlockedPhoneContext(text string, start, end int, seiSpans [][]int) bool {
	winStart := start - phoneContextWindow
	if winStart < 0 {
		winStart = 0
	}
	winEnd := end + phoneContextWindow
	if winEnd > len(text) {
		winEnd = len(text)
	}
	window := text[winStart:winEnd]

	if d.lib.PhoneBlockToken.MatchString(window) {
		return true
	}
	for _, sei := range seiSpans {
		if sei[0] < end && sei[1] > start {
			return true
		}
	}
	return false
}

// isValidPhoneNumber applies the digit-level checks: 8 to 11 digits after
// stripping separators, no leading zero, and more than two distinct digit
// values (placeholder numbers like 9999-9999 collapse to one or two).
func isValidPhoneNumber(raw string) bool {
	digits := stripNonDigits(raw)
	if len(digits) < 8 || len(digits) > 11 {
		return false
	}
	if digits[0] == '0' {
		return false
	}
	distinct := make(map[byte]struct{}, 10)
	for i := 0; i < len(digits); i++ {
		distinct[digits[i]] = struct{}{}
	}
	return len(distinct) > 2
}

// isStrongPhoneShape reports whether the raw match looks unmistakably like a
// Brazilian phone number: parenthesized area code, +55 prefix, or nine or
// more digits starting with 6-9 (mobile range).
func isStrongPhoneShape(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "(") || strings.HasPrefix(trimmed, "+55") {
		return true
	}
	digits := stripNonDigits(raw)
	return len(digits) >= 9 && digits[0] >= '6' && digits[0] <= '9'
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
