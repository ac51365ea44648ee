// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns holds the compiled, immutable pattern library shared by
// every detector. Centralizing the patterns guarantees that detection and
// decision logic never silently diverge on what counts as a CPF, a phone
// number or a name.
package patterns

import (
	"regexp"
	"sync"
)

// nameToken matches one capitalized Portuguese name token (Unicode-aware).
const nameToken = `\p{Lu}[\p{Ll}']+`

// Library exposes read-only compiled patterns and constant term sets. It
// carries no text-dependent state, so a single instance may be shared by any
// number of concurrent classifications.
type Library struct {
	// Explicit identifiers
	CPF               *regexp.Regexp
	RG                *regexp.Regexp
	Email             *regexp.Regexp
	Matricula         *regexp.Regexp
	NameWithMatricula *regexp.Regexp
	ProcessoSEI       *regexp.Regexp

	// Phone detection and its context gates
	Phone                *regexp.Regexp
	PhoneNegativeShape   *regexp.Regexp
	PhoneBlockToken      *regexp.Regexp
	PhoneHardBlock       *regexp.Regexp
	PhonePositiveContext *regexp.Regexp

	// Address detection
	StreetAddress *regexp.Regexp
	CEPAddress    *regexp.Regexp

	// Names and signature cues
	NameCandidate   *regexp.Regexp
	ValedictionLine *regexp.Regexp
	InlineSignature *regexp.Regexp
	NameAfterPunct  *regexp.Regexp
	MeChamo         *regexp.Regexp
	ValedictionWord *regexp.Regexp

	// Contextual disambiguation
	PJContext            *regexp.Regexp
	InstitutionalContext *regexp.Regexp

	// Constant term sets (lowercased)
	PersonalTriggers        []string
	PublicEntities          map[string]struct{}
	SignatureStopTokens     map[string]struct{}
	InstitutionalNameTokens map[string]struct{}
}

// NewLibrary compiles the full pattern set. Compilation happens once; the
// returned Library must be treated as read-only.
func NewLibrary() *Library {
	return &Library{
		CPF:   regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`),
		RG:    regexp.MustCompile(`(?i)\b(?:RG|Registro\s+Geral)\s*[:\-]?\s*\d{1,2}\.?\d{3}\.?\d{3}-?[A-Za-z0-9]\b`),
		Email: regexp.MustCompile(`(?i)\b[\w.-]+@[\w.-]+\.\w{2,}\b`),

		Matricula:         regexp.MustCompile(`(?i)\bMATR[IÍ]CULA\s*[:\-]?\s*\d{6,10}[A-Z]?\b`),
		NameWithMatricula: regexp.MustCompile(`\b(` + nameToken + `(?:\s+` + nameToken + `)+)\s*-\s*(?i:MATR[IÍ]CULA)\b`),
		ProcessoSEI:       regexp.MustCompile(`\b\d{4,6}-\d{6,8}/\d{4}-\d{2}\b`),

		// The original rule used a lookbehind to reject word-embedded digit
		// runs; RE2 has no lookbehind, so the explicit detector applies a
		// structural neighbor-byte check instead.
		Phone:                regexp.MustCompile(`(?:\+55\s*)?(?:\(?\d{2}\)?\s*)?\d{4,5}[-\s]?\d{4}\b`),
		PhoneNegativeShape:   regexp.MustCompile(`^\d{2}-\d{4}-\d{4}$`),
		PhoneBlockToken:      regexp.MustCompile(`(?i)\b(?:OAB|MATR[IÍ]CULA|AUTOS)\b`),
		PhoneHardBlock:       regexp.MustCompile(`(?i)\b(?:nire|protocolo|viabilidade|junta|taxa|dfp)\b`),
		PhonePositiveContext: regexp.MustCompile(`(?i)\b(?:tel\.?|telefone|whatsapp|contato|fone|cel\.?)\b`),

		StreetAddress: regexp.MustCompile(`(?i)\b(?:rua|avenida|av\.|travessa|alameda|pra[çc]a|rodovia|estrada)\s+(?:d[aeo]s?\s+)?[\p{L}0-9][\p{L}0-9 .ª°º-]{2,60}?,?\s*(?:n[º°o]?\.?\s*)?\d{1,5}(?:\s*,?\s*(?:apto|ap|bloco|bl|casa|sala|lote|quadra)\.?\s*\w{1,10})?`),
		CEPAddress:    regexp.MustCompile(`(?i)[\p{L}0-9][\p{L}0-9 .,ª°º-]{4,80}[,-]?\s*CEP[:\s]*\d{5}-?\d{3}\b`),

		NameCandidate:   regexp.MustCompile(`\b` + nameToken + `(?:\s+` + nameToken + `){1,4}\b`),
		ValedictionLine: regexp.MustCompile(`(?i)^\s*(?:atenciosamente|cordialmente|respeitosamente|att|at\.?te|sds|abs)\s*[.,;:!]*\s*$`),
		InlineSignature: regexp.MustCompile(`(?i:\b(?:atencio\w*|cordial\w*|respeito\w*|agrade[cç]\w*|obrigad[oa]|att\.?|at\.?te\.?|sds\.?|abs\.?)\b[\s.,:;-]+)(` + nameToken + `(?:\s+` + nameToken + `){1,3})`),
		NameAfterPunct:  regexp.MustCompile(`[.!?;]\s*\n?\s*(` + nameToken + `(?:\s+` + nameToken + `){1,3})\s*(?:\n|$)`),
		MeChamo:         regexp.MustCompile(`(?i:\bme\s+chamo\s+)(` + nameToken + `(?:\s+` + nameToken + `){0,4})`),
		ValedictionWord: regexp.MustCompile(`(?i)\b(?:atencio\w*|cordial\w*|respeito\w*|agrade[cç]\w*|obrigad[oa]|att|at\.?te|sds|abs)\b`),

		// The short legal-entity acronyms stay case-sensitive: a
		// case-insensitive ME or SA would match the Portuguese words
		// "me" and "sa" in ordinary prose.
		PJContext:            regexp.MustCompile(`(?i:\b(?:empresa|raz[aã]o\s+social|pessoa\s+jur[ií]dica|CNPJ|EIRELI|EPP)\b)|\b(?:LTDA|Ltda|ME|EPP|S/A|SA)\b`),
		InstitutionalContext: regexp.MustCompile(`(?i)\b(?:orientador(?:a)?|pesquisador(?:a)?|professor(?:a)?|doutor(?:a)?|servidor(?:a)?|cargo|fun[cç][aã]o|secret[aá]rio(?:a)?|secret[aá]ria|diretor(?:a)?)\b`),

		PersonalTriggers:        personalTriggers(),
		PublicEntities:          toSet(publicEntityNames),
		SignatureStopTokens:     toSet(signatureStopTokens),
		InstitutionalNameTokens: toSet(institutionalNameTokens),
	}
}

var (
	defaultLib  *Library
	defaultOnce sync.Once
)

// Default returns the process-wide memoized Library instance.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib = NewLibrary()
	})
	return defaultLib
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}
