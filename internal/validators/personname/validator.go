// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package personname finds personal-name candidates in running text and
// recovers signature blocks near the end of a document. Signature blocks are
// the strongest personal-identity signal in public-records requests, but a
// naive "word after a comma" rule drowns in institutional boilerplate; the
// gating here (tail window, preceding valediction, short remainder, stop
// tokens) is a load-bearing precision control.
package personname

import (
	"strings"

	"lgpd-triage/internal/detector"
	"lgpd-triage/internal/heuristics"
	"lgpd-triage/internal/observability"
	"lgpd-triage/internal/patterns"
)

const (
	// tailWindowLines bounds how far from the end of the document an inline
	// signature fallback may match.
	tailWindowLines = 10

	// maxRemainderChars bounds how much text may follow an inline signature
	// match before the next line break. A long remainder means the name is
	// mid-body, not a signature.
	maxRemainderChars = 140

	// signatureBlockLines is how many non-empty lines after a valediction
	// line are collected as the signature block.
	signatureBlockLines = 3
)

// Extractor implements name and signature detection over normalized text.
type Extractor struct {
	lib  *patterns.Library
	heur *heuristics.Heuristics

	observer *observability.StandardObserver
}

// NewExtractor creates an Extractor backed by the given pattern library.
func NewExtractor(lib *patterns.Library, heur *heuristics.Heuristics) *Extractor {
	return &Extractor{lib: lib, heur: heur}
}

// SetObserver sets the observability component.
func (e *Extractor) SetObserver(observer *observability.StandardObserver) {
	e.observer = observer
}

// DetectContent scans normalized text for composed-name candidates and a
// signature block. The recovered signature name, if any, is also appended to
// the name evidence. Candidates recognized inside legal-entity or
// institutional context are recorded as ignored rather than reported.
func (e *Extractor) DetectContent(text string) ([]detector.Match, detector.SignatureResult, []detector.IgnoredMatch) {
	var finishTiming func(bool, map[string]interface{})
	if e.observer != nil {
		finishTiming = e.observer.StartTiming("personname_extractor", "detect_content", "")
	}

	var names []detector.Match
	var ignored []detector.IgnoredMatch

	// A name welded to a registration number is personal data regardless of
	// any institutional context around it.
	for _, idx := range e.lib.NameWithMatricula.FindAllStringSubmatchIndex(text, -1) {
		if idx[2] < 0 {
			continue
		}
		m := detector.Match{Kind: detector.KindName, Value: text[idx[2]:idx[3]], Start: idx[2]}
		if !detector.ContainsMatch(names, m) {
			names = append(names, m)
		}
	}

	legalEntity := e.heur.HasLegalEntityContext(text)
	institutional := e.lib.InstitutionalContext.MatchString(text)

	for _, span := range e.lib.NameCandidate.FindAllStringIndex(text, -1) {
		candidate := text[span[0]:span[1]]
		if e.heur.IsPublicEntity(candidate) {
			// Known public-body names are discarded outright.
			continue
		}
		if !e.heur.IsHumanNameCandidate(candidate) {
			continue
		}
		switch {
		case legalEntity:
			ignored = append(ignored, detector.IgnoredMatch{
				Kind:   detector.KindName,
				Reason: "nome integra razão social de pessoa jurídica",
			})
		case institutional:
			ignored = append(ignored, detector.IgnoredMatch{
				Kind:   detector.KindName,
				Reason: "nome em contexto institucional",
			})
		default:
			m := detector.Match{Kind: detector.KindName, Value: candidate, Start: span[0]}
			if !detector.ContainsMatch(names, m) {
				names = append(names, m)
			}
		}
	}

	sig := e.recoverSignature(text)
	if sig.Found {
		// The recovered name may have had punctuation stripped, so it is not
		// guaranteed to be a verbatim substring of the text.
		start := strings.Index(text, sig.Name)
		if start < 0 {
			start = strings.Index(text, strings.Fields(sig.Name)[0])
		}
		if start < 0 {
			start = 0
		}
		m := detector.Match{Kind: detector.KindName, Value: sig.Name, Start: start}
		if !detector.ContainsMatch(names, m) {
			names = append(names, m)
		}
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"name_count":      len(names),
			"ignored_count":   len(ignored),
			"signature_found": sig.Found,
		})
	}

	return names, sig, ignored
}

// ExtractDirectAddress returns the name following an explicit "me chamo"
// construction, or "" when none is present.
func (e *Extractor) ExtractDirectAddress(text string) string {
	m := e.lib.MeChamo.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// recoverSignature tries the two signature strategies, most specific first:
// a standalone valediction line followed by a short block, then the looser
// inline patterns restricted to the document tail.
func (e *Extractor) recoverSignature(text string) detector.SignatureResult {
	lines := strings.Split(text, "\n")

	block := e.blockAfterValediction(lines)
	if block == nil {
		block = e.inlineFallback(text, lines)
	}

	for _, line := range block {
		if name := e.nameFromBlockLine(line); name != "" {
			return detector.SignatureResult{Found: true, Name: name}
		}
	}
	return detector.SignatureResult{}
}

// blockAfterValediction locates the last standalone valediction line and
// collects up to signatureBlockLines following non-empty lines.
func (e *Extractor) blockAfterValediction(lines []string) []string {
	valIdx := -1
	for i, line := range lines {
		if e.lib.ValedictionLine.MatchString(line) {
			valIdx = i
		}
	}
	if valIdx < 0 {
		return nil
	}

	var block []string
	for j := valIdx + 1; j < len(lines) && len(block) < signatureBlockLines; j++ {
		if strings.TrimSpace(lines[j]) != "" {
			block = append(block, lines[j])
		}
	}
	return block
}

// inlineFallback applies the looser in-line signature patterns. A match is
// accepted only if it sits within the last tailWindowLines lines, a
// valediction or thanks token appears on the match's own line before the
// name or on the line immediately preceding it, and fewer than
// maxRemainderChars characters follow the match before the next line break.
func (e *Extractor) inlineFallback(text string, lines []string) []string {
	for _, re := range []interface {
		FindAllStringSubmatchIndex(s string, n int) [][]int
	}{e.lib.InlineSignature, e.lib.NameAfterPunct} {
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			if idx[2] < 0 {
				continue
			}
			nameStart, nameEnd := idx[2], idx[3]
			if !e.inTailWindow(text, nameStart, lines) {
				continue
			}
			if !e.hasPrecedingValediction(text, nameStart) {
				continue
			}
			if !e.shortRemainder(text, nameEnd) {
				continue
			}
			return []string{text[nameStart:nameEnd]}
		}
	}
	return nil
}

func (e *Extractor) inTailWindow(text string, offset int, lines []string) bool {
	lineIdx := strings.Count(text[:offset], "\n")
	return len(lines)-lineIdx <= tailWindowLines
}

// hasPrecedingValediction checks the match's own line (before the name) and
// the line immediately above it for a valediction or thanks token.
func (e *Extractor) hasPrecedingValediction(text string, nameStart int) bool {
	lineStart := strings.LastIndexByte(text[:nameStart], '\n') + 1
	if e.lib.ValedictionWord.MatchString(text[lineStart:nameStart]) {
		return true
	}
	if lineStart == 0 {
		return false
	}
	prevStart := strings.LastIndexByte(text[:lineStart-1], '\n') + 1
	return e.lib.ValedictionWord.MatchString(text[prevStart : lineStart-1])
}

func (e *Extractor) shortRemainder(text string, nameEnd int) bool {
	rest := text[nameEnd:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return len(rest) <= maxRemainderChars
}

// nameFromBlockLine extracts a signature name from one block line: hard-stop
// tokens are dropped, then the remaining capitalized run must yield a 2-4
// token candidate with no token in the institutional stop set.
func (e *Extractor) nameFromBlockLine(line string) string {
	var kept []string
	for _, token := range strings.Fields(line) {
		cleaned := strings.ToLower(strings.Trim(token, ".,;:!-"))
		if _, stop := e.lib.SignatureStopTokens[cleaned]; stop {
			continue
		}
		kept = append(kept, strings.Trim(token, ",.;:!-"))
	}
	if len(kept) == 0 {
		return ""
	}

	candidate := e.lib.NameCandidate.FindString(strings.Join(kept, " "))
	if candidate == "" {
		return ""
	}
	tokens := strings.Fields(candidate)
	if len(tokens) < 2 || len(tokens) > 4 {
		return ""
	}
	if e.heur.IsPublicEntity(candidate) || !e.heur.IsHumanNameCandidate(candidate) {
		return ""
	}
	return candidate
}
