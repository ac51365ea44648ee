// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the decision waterfall that turns detected
// evidence into one of three classifications. Evaluation is first-match-wins
// over a fixed, ordered rule list; earlier rules dominate later ones
// regardless of what the later rules would have concluded.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"lgpd-triage/internal/contextmodel"
	"lgpd-triage/internal/detector"
	"lgpd-triage/internal/heuristics"
	"lgpd-triage/internal/ner"
	"lgpd-triage/internal/observability"
	"lgpd-triage/internal/patterns"
	"lgpd-triage/internal/validators/explicit"
	"lgpd-triage/internal/validators/personname"
)

const (
	// defaultAcceptance is the minimum classifier confidence accepted as a
	// decisive statistical signal.
	defaultAcceptance = 0.75

	// defaultReviewFloor is the confidence attached to a NEEDS_REVIEW
	// outcome when the classifier is uncertain or unavailable.
	defaultReviewFloor = 0.60
)

// Engine classifies one text at a time. It is stateless and side-effect-free
// per call: once constructed, it is safe for concurrent use from any number
// of goroutines.
type Engine struct {
	lib        *patterns.Library
	explicit   *explicit.Detector
	names      *personname.Extractor
	heur       *heuristics.Heuristics
	classifier contextmodel.Classifier
	recognizer ner.Recognizer
	observer   *observability.StandardObserver

	acceptance  float64
	reviewFloor float64

	rules []rule
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithClassifier sets the external context classifier. When not set, the
// capability-absent classifier is used and every consultation is neutral.
func WithClassifier(c contextmodel.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithRecognizer sets the optional named-entity recognizer.
func WithRecognizer(r ner.Recognizer) Option {
	return func(e *Engine) { e.recognizer = r }
}

// WithObserver sets the observability component on the engine and both
// detectors.
func WithObserver(o *observability.StandardObserver) Option {
	return func(e *Engine) {
		e.observer = o
		e.explicit.SetObserver(o)
		e.names.SetObserver(o)
	}
}

// WithThresholds overrides the classifier acceptance threshold and the
// review-confidence floor.
func WithThresholds(acceptance, reviewFloor float64) Option {
	return func(e *Engine) {
		if acceptance > 0 {
			e.acceptance = acceptance
		}
		if reviewFloor > 0 {
			e.reviewFloor = reviewFloor
		}
	}
}

// New builds an Engine over the given pattern library.
func New(lib *patterns.Library, opts ...Option) *Engine {
	heur := heuristics.New(lib)
	e := &Engine{
		lib:         lib,
		explicit:    explicit.NewDetector(lib, heur),
		names:       personname.NewExtractor(lib, heur),
		heur:        heur,
		classifier:  contextmodel.Absent{},
		recognizer:  ner.Absent{},
		acceptance:  defaultAcceptance,
		reviewFloor: defaultReviewFloor,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = e.buildRules()
	return e
}

// document is the per-classification working state. Created fresh for every
// input; nothing in it is shared across invocations.
type document struct {
	text      string
	explicit  []detector.Match
	names     []detector.Match
	signature detector.SignatureResult
	ignored   []detector.IgnoredMatch

	persons       []string
	organizations []string

	personalContext      bool
	institutionalContext bool
}

// rule is one step of the waterfall: a predicate and result producer. A nil
// result means the rule does not apply and evaluation continues.
type rule struct {
	name     string
	evaluate func(ctx context.Context, doc *document) *detector.ClassificationResult
}

// Classify runs the full waterfall over text with a background context.
func (e *Engine) Classify(text string) detector.ClassificationResult {
	return e.ClassifyContext(context.Background(), text)
}

// ClassifyContext runs the full waterfall. The context bounds only the
// external classifier call; a cancelled or expired context is treated as
// classifier-unavailable, never as an error.
func (e *Engine) ClassifyContext(ctx context.Context, text string) detector.ClassificationResult {
	var finishTiming func(bool, map[string]interface{})
	if e.observer != nil {
		finishTiming = e.observer.StartTiming("decision_engine", "classify", "")
	}

	var debug *observability.DebugObserver
	if e.observer != nil {
		debug = e.observer.DebugObserver
	}
	var finishStep func(success bool, details string)
	if debug != nil {
		finishStep = debug.StartStep("decision_engine", "waterfall", "")
	}

	doc := e.analyze(text)

	var result detector.ClassificationResult
	for _, r := range e.rules {
		res := r.evaluate(ctx, doc)
		if debug != nil {
			if res != nil {
				debug.LogDetail("decision_engine", fmt.Sprintf("rule %s decided %s", r.name, res.Classification))
			} else {
				debug.LogDetail("decision_engine", fmt.Sprintf("rule %s: no decision", r.name))
			}
		}
		if res != nil {
			result = *res
			break
		}
	}

	if finishStep != nil {
		finishStep(true, string(result.Classification))
	}

	result.Confidence = round2(result.Confidence)
	result.Evidence = detector.Evidence{
		Explicit:  doc.explicit,
		Names:     doc.names,
		Signature: doc.signature,
		Ignored:   doc.ignored,
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"classification": string(result.Classification),
			"rule_reason":    result.Reason,
		})
	}
	return result
}

// analyze normalizes the input and runs both detectors plus the context
// predicates exactly once.
func (e *Engine) analyze(text string) *document {
	normalized := Normalize(text)
	doc := &document{text: normalized}
	if normalized == "" {
		return doc
	}

	var ignored []detector.IgnoredMatch
	doc.explicit, ignored = e.explicit.DetectContent(normalized)
	doc.ignored = append(doc.ignored, ignored...)

	var nameIgnored []detector.IgnoredMatch
	doc.names, doc.signature, nameIgnored = e.names.DetectContent(normalized)
	doc.ignored = append(doc.ignored, nameIgnored...)

	doc.persons, doc.organizations = e.recognizer.Extract(normalized)

	doc.personalContext = e.heur.HasPersonalContext(normalized)
	doc.institutionalContext = e.heur.HasInstitutionalContext(normalized)
	return doc
}

// buildRules assembles the waterfall in its fixed priority order. Keeping
// the order in one literal makes it auditable rule by rule.
func (e *Engine) buildRules() []rule {
	return []rule{
		{name: "empty_text", evaluate: e.ruleEmptyText},
		{name: "signature", evaluate: e.ruleSignature},
		{name: "explicit_identifier", evaluate: e.ruleExplicitIdentifier},
		{name: "personal_address", evaluate: e.rulePersonalAddress},
		{name: "direct_address", evaluate: e.ruleDirectAddress},
		{name: "name_with_personal_context", evaluate: e.ruleNameWithPersonalContext},
		{name: "name_without_context", evaluate: e.ruleNameWithoutContext},
		{name: "institutional_only", evaluate: e.ruleInstitutionalOnly},
		{name: "fallback_public", evaluate: e.ruleFallbackPublic},
	}
}

func (e *Engine) ruleEmptyText(_ context.Context, doc *document) *detector.ClassificationResult {
	if doc.text != "" {
		return nil
	}
	return &detector.ClassificationResult{
		Classification: detector.Public,
		Reason:         "Texto vazio",
		Confidence:     1.0,
	}
}

func (e *Engine) ruleSignature(_ context.Context, doc *document) *detector.ClassificationResult {
	if !doc.signature.Found || doc.signature.Name == "" {
		return nil
	}
	return &detector.ClassificationResult{
		Classification: detector.NotPublic,
		Reason:         fmt.Sprintf("Nome humano em assinatura: %s", doc.signature.Name),
		Confidence:     0.95,
	}
}

// explicitKinds are the evidence kinds that are decisive on their own.
// ADDRESS is context-gated (next rule) and PROCESSO_SEI never counts.
var explicitKinds = map[detector.Kind]struct{}{
	detector.KindCPF:       {},
	detector.KindRG:        {},
	detector.KindEmail:     {},
	detector.KindPhone:     {},
	detector.KindMatricula: {},
}

func (e *Engine) ruleExplicitIdentifier(_ context.Context, doc *document) *detector.ClassificationResult {
	for _, m := range doc.explicit {
		if _, decisive := explicitKinds[m.Kind]; decisive {
			return &detector.ClassificationResult{
				Classification: detector.NotPublic,
				Reason:         fmt.Sprintf("Dado pessoal explícito: %s", m.Kind),
				Confidence:     0.99,
			}
		}
	}
	return nil
}

// rulePersonalAddress gates address evidence on personal context. Without
// it, addresses are demoted to ignored evidence and evaluation continues: a
// bare address is never, by itself, grounds for either classification.
func (e *Engine) rulePersonalAddress(_ context.Context, doc *document) *detector.ClassificationResult {
	hasAddress := false
	for _, m := range doc.explicit {
		if m.Kind == detector.KindAddress {
			hasAddress = true
			break
		}
	}
	if !hasAddress {
		return nil
	}

	if doc.personalContext {
		return &detector.ClassificationResult{
			Classification: detector.NotPublic,
			Reason:         "Endereço pessoal identificado",
			Confidence:     0.99,
		}
	}

	kept := doc.explicit[:0]
	for _, m := range doc.explicit {
		if m.Kind == detector.KindAddress {
			doc.ignored = append(doc.ignored, detector.IgnoredMatch{
				Kind:   detector.KindAddress,
				Reason: "endereço sem contexto pessoal",
			})
			continue
		}
		kept = append(kept, m)
	}
	doc.explicit = kept
	return nil
}

func (e *Engine) ruleDirectAddress(_ context.Context, doc *document) *detector.ClassificationResult {
	name := e.names.ExtractDirectAddress(doc.text)
	if name == "" {
		return nil
	}
	return &detector.ClassificationResult{
		Classification: detector.NotPublic,
		Reason:         fmt.Sprintf("Nome humano em contexto pessoal direto (me chamo): %s", name),
		Confidence:     0.99,
	}
}

func (e *Engine) ruleNameWithPersonalContext(_ context.Context, doc *document) *detector.ClassificationResult {
	if !e.hasHumanName(doc) || !doc.personalContext {
		return nil
	}
	return &detector.ClassificationResult{
		Classification: detector.NotPublic,
		Reason:         fmt.Sprintf("Nome humano em contexto pessoal: %s", e.citeNames(doc)),
		Confidence:     0.98,
	}
}

// ruleNameWithoutContext is the only rule that consults the external
// classifier, and it does so lazily: fully-determined documents never pay
// the classifier's latency. Any classifier failure degrades to NEEDS_REVIEW,
// never to PUBLIC.
func (e *Engine) ruleNameWithoutContext(ctx context.Context, doc *document) *detector.ClassificationResult {
	if !e.hasHumanName(doc) {
		return nil
	}

	signal, err := e.classifier.Predict(ctx, doc.text)
	if err != nil {
		return &detector.ClassificationResult{
			Classification: detector.NeedsReview,
			Reason:         "Classificador de contexto indisponível",
			Confidence:     e.reviewFloor,
		}
	}

	if signal.Label == detector.ContextPersonal && signal.Confidence >= e.acceptance {
		return &detector.ClassificationResult{
			Classification: detector.NotPublic,
			Reason:         "Contexto pessoal (estatístico)",
			Confidence:     signal.Confidence,
		}
	}

	return &detector.ClassificationResult{
		Classification: detector.NeedsReview,
		Reason:         fmt.Sprintf("Nome humano sem contexto pessoal explícito: %s", e.citeNames(doc)),
		Confidence:     math.Max(signal.Confidence, e.reviewFloor),
	}
}

// ruleInstitutionalOnly fires only on positively recognized institutional
// entities: NER organizations, name candidates ignored as legal-entity or
// institutional, or the institutional-context predicate. Addresses demoted
// at the personal-address rule do not count; a bare address says nothing
// about who the document is about.
func (e *Engine) ruleInstitutionalOnly(_ context.Context, doc *document) *detector.ClassificationResult {
	if e.hasHumanName(doc) {
		return nil
	}
	institutionalName := false
	for _, ig := range doc.ignored {
		if ig.Kind == detector.KindName {
			institutionalName = true
			break
		}
	}
	if len(doc.organizations) == 0 && !institutionalName && !doc.institutionalContext {
		return nil
	}
	return &detector.ClassificationResult{
		Classification: detector.Public,
		Reason:         "Texto com entidades institucionais apenas",
		Confidence:     0.95,
	}
}

func (e *Engine) ruleFallbackPublic(_ context.Context, doc *document) *detector.ClassificationResult {
	return &detector.ClassificationResult{
		Classification: detector.Public,
		Reason:         "Nenhum dado pessoal identificado",
		Confidence:     1.0,
	}
}

func (e *Engine) hasHumanName(doc *document) bool {
	return len(doc.names) > 0 || len(doc.persons) > 0
}

// citeNames joins the distinct detected name values for the reason string.
func (e *Engine) citeNames(doc *document) string {
	seen := make(map[string]struct{})
	var cited []string
	for _, m := range doc.names {
		if _, dup := seen[m.Value]; !dup {
			seen[m.Value] = struct{}{}
			cited = append(cited, m.Value)
		}
	}
	for _, p := range doc.persons {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			cited = append(cited, p)
		}
	}
	return strings.Join(cited, ", ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
