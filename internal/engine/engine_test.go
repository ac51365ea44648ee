// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"lgpd-triage/internal/detector"
	"lgpd-triage/internal/observability"
	"lgpd-triage/internal/patterns"
)

// fakeClassifier returns a fixed signal, or a fixed error.
type fakeClassifier struct {
	signal detector.ContextSignal
	err    error
}

func (f fakeClassifier) Predict(_ context.Context, _ string) (detector.ContextSignal, error) {
	if f.err != nil {
		return detector.ContextSignal{}, f.err
	}
	return f.signal, nil
}

func newTestEngine(opts ...Option) *Engine {
	return New(patterns.Default(), opts...)
}

func TestClassify_EmptyText(t *testing.T) {
	e := newTestEngine()

	for _, input := range []string{"", "   \n\t  "} {
		result := e.Classify(input)
		if result.Classification != detector.Public {
			t.Errorf("Classify(%q) = %s, want PUBLIC", input, result.Classification)
		}
		if result.Reason != "Texto vazio" {
			t.Errorf("Classify(%q) reason = %q, want 'Texto vazio'", input, result.Reason)
		}
		if result.Confidence != 1.0 {
			t.Errorf("Classify(%q) confidence = %v, want 1.0", input, result.Confidence)
		}
	}
}

func TestClassify_SignatureBlock(t *testing.T) {
	e := newTestEngine()

	text := "Solicito cópia do relatório anual de 2023.\nAtenciosamente,\nMaria Silva"
	result := e.Classify(text)

	if result.Classification != detector.NotPublic {
		t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", result.Confidence)
	}
	if !strings.Contains(result.Reason, "Maria Silva") {
		t.Errorf("reason %q does not cite the signature name", result.Reason)
	}
	if !result.Evidence.Signature.Found {
		t.Error("evidence signature not marked found")
	}
}

func TestClassify_SignatureBeatsExplicitIdentifier(t *testing.T) {
	e := newTestEngine()

	// Both a signature and an email are present; the signature rule runs
	// first and fixes the confidence at 0.95.
	text := "Favor responder para contato@exemplo.com.\nAtenciosamente,\nMaria Silva"
	result := e.Classify(text)

	if result.Classification != detector.NotPublic {
		t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95 (signature rule)", result.Confidence)
	}
	if !strings.Contains(result.Reason, "assinatura") {
		t.Errorf("reason %q should come from the signature rule", result.Reason)
	}
}

func TestClassify_ExplicitIdentifiers(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name string
		text string
		kind detector.Kind
	}{
		{
			name: "email",
			text: "Meu e-mail é joao@exemplo.com",
			kind: detector.KindEmail,
		},
		{
			name: "cpf formatted",
			text: "Solicito a segunda via, CPF 123.456.789-01",
			kind: detector.KindCPF,
		},
		{
			name: "rg",
			text: "Documento de identidade RG: 12.345.678-9 anexo",
			kind: detector.KindRG,
		},
		{
			name: "matricula",
			text: "Informo a MATRÍCULA: 1234567 do servidor",
			kind: detector.KindMatricula,
		},
		{
			name: "strong phone",
			text: "Retornar no telefone (31) 98765-4321",
			kind: detector.KindPhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Classify(tt.text)
			if result.Classification != detector.NotPublic {
				t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
			}
			if result.Confidence != 0.99 {
				t.Errorf("confidence = %v, want 0.99", result.Confidence)
			}
			if !strings.Contains(result.Reason, string(tt.kind)) {
				t.Errorf("reason %q does not cite kind %s", result.Reason, tt.kind)
			}
		})
	}
}

func TestClassify_CPFBeatsInstitutionalContext(t *testing.T) {
	e := newTestEngine()

	// Explicit identifiers dominate: institutional framing around a CPF
	// never downgrades the outcome.
	text := "A Secretaria Municipal encaminha a certidão do CPF 123.456.789-01"
	result := e.Classify(text)

	if result.Classification != detector.NotPublic {
		t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
	}
	if !strings.Contains(result.Reason, "CPF") {
		t.Errorf("reason %q does not cite CPF", result.Reason)
	}
}

func TestClassify_PhoneBlockedByCaseNumberToken(t *testing.T) {
	e := newTestEngine()

	// A digit run next to AUTOS is a case reference, not a phone.
	text := "Requeiro cópia da decisão proferida nos AUTOS 1234-5678"
	result := e.Classify(text)

	if result.Classification != detector.Public {
		t.Fatalf("classification = %s, want PUBLIC", result.Classification)
	}
	for _, m := range result.Evidence.Explicit {
		if m.Kind == detector.KindPhone {
			t.Errorf("unexpected phone evidence %q", m.Value)
		}
	}
}

func TestClassify_WeakPhoneShapeNeedsPositiveContext(t *testing.T) {
	e := newTestEngine()

	// Same digit run, accepted only when a telephony token precedes it.
	blocked := e.Classify("Informo o número 3456-7890 do expediente")
	if blocked.Classification != detector.Public {
		t.Errorf("without context: classification = %s, want PUBLIC", blocked.Classification)
	}

	accepted := e.Classify("Favor retornar, telefone 3456-7890")
	if accepted.Classification != detector.NotPublic {
		t.Errorf("with context: classification = %s, want NOT_PUBLIC", accepted.Classification)
	}
}

func TestClassify_PersonalAddress(t *testing.T) {
	e := newTestEngine()

	text := "Não recebi a notificação. Meu endereço é Rua das Flores, 123"
	result := e.Classify(text)

	if result.Classification != detector.NotPublic {
		t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
	}
	if result.Reason != "Endereço pessoal identificado" {
		t.Errorf("reason = %q", result.Reason)
	}
	if result.Confidence != 0.99 {
		t.Errorf("confidence = %v, want 0.99", result.Confidence)
	}
}

func TestClassify_InstitutionalAddressIsPublic(t *testing.T) {
	e := newTestEngine()

	text := "A secretaria atende na Avenida Central, 1000, em horário comercial"
	result := e.Classify(text)

	if result.Classification != detector.Public {
		t.Fatalf("classification = %s, want PUBLIC", result.Classification)
	}
	found := false
	for _, ig := range result.Evidence.Ignored {
		if ig.Kind == detector.KindAddress {
			found = true
		}
	}
	if !found {
		t.Error("institutional address should appear in ignored evidence")
	}
}

func TestClassify_BareAddressAloneIsNotPersonal(t *testing.T) {
	e := newTestEngine()

	result := e.Classify("Rua das Flores, 123")
	if result.Classification != detector.Public {
		t.Fatalf("classification = %s, want PUBLIC", result.Classification)
	}
	// A demoted address is not an institutional entity: the document must
	// reach the no-findings fallback, not the institutional-only rule.
	if result.Reason != "Nenhum dado pessoal identificado" {
		t.Errorf("reason = %q, want 'Nenhum dado pessoal identificado'", result.Reason)
	}
	if result.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", result.Confidence)
	}
	for _, m := range result.Evidence.Explicit {
		if m.Kind == detector.KindAddress {
			t.Error("bare address should be demoted out of explicit evidence")
		}
	}
}

func TestClassify_DirectAddressName(t *testing.T) {
	e := newTestEngine()

	text := "Bom dia, me chamo Carlos Andrade e gostaria de informações"
	result := e.Classify(text)

	if result.Classification != detector.NotPublic {
		t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
	}
	if result.Confidence != 0.99 {
		t.Errorf("confidence = %v, want 0.99", result.Confidence)
	}
	if !strings.Contains(result.Reason, "Carlos Andrade") {
		t.Errorf("reason %q does not cite the name", result.Reason)
	}
}

func TestClassify_NameWithPersonalContext(t *testing.T) {
	e := newTestEngine()

	text := "Fui exonerado e meu nome é José Carlos Pereira"
	result := e.Classify(text)

	if result.Classification != detector.NotPublic {
		t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
	}
	if result.Confidence != 0.98 {
		t.Errorf("confidence = %v, want 0.98", result.Confidence)
	}
	if !strings.Contains(result.Reason, "José Carlos Pereira") {
		t.Errorf("reason %q does not cite the name", result.Reason)
	}
}

func TestClassify_NameWithoutContext_DefaultsToReview(t *testing.T) {
	e := newTestEngine()

	// No trained classifier configured: the capability-absent classifier
	// answers neutral and the name stays unexplained.
	text := "Encaminho o requerimento de Pedro Alves para análise"
	result := e.Classify(text)

	if result.Classification != detector.NeedsReview {
		t.Fatalf("classification = %s, want NEEDS_REVIEW", result.Classification)
	}
	if result.Confidence != 0.60 {
		t.Errorf("confidence = %v, want 0.60", result.Confidence)
	}
	if !strings.Contains(result.Reason, "Pedro Alves") {
		t.Errorf("reason %q does not cite the name", result.Reason)
	}
}

func TestClassify_ClassifierOutcomes(t *testing.T) {
	text := "Encaminho o requerimento de Pedro Alves para análise"

	tests := []struct {
		name           string
		signal         detector.ContextSignal
		classification detector.Classification
		confidence     float64
	}{
		{
			name:           "personal above acceptance",
			signal:         detector.ContextSignal{Label: detector.ContextPersonal, Confidence: 0.90},
			classification: detector.NotPublic,
			confidence:     0.90,
		},
		{
			name:           "personal below acceptance",
			signal:         detector.ContextSignal{Label: detector.ContextPersonal, Confidence: 0.70},
			classification: detector.NeedsReview,
			confidence:     0.70,
		},
		{
			name:           "ambiguous at high confidence",
			signal:         detector.ContextSignal{Label: detector.ContextAmbiguous, Confidence: 0.88},
			classification: detector.NeedsReview,
			confidence:     0.88,
		},
		{
			name:           "neutral below floor",
			signal:         detector.ContextSignal{Label: detector.ContextNeutral, Confidence: 0.40},
			classification: detector.NeedsReview,
			confidence:     0.60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(WithClassifier(fakeClassifier{signal: tt.signal}))
			result := e.Classify(text)
			if result.Classification != tt.classification {
				t.Errorf("classification = %s, want %s", result.Classification, tt.classification)
			}
			if result.Confidence != tt.confidence {
				t.Errorf("confidence = %v, want %v", result.Confidence, tt.confidence)
			}
		})
	}
}

func TestClassify_ClassifierFailureMeansReview(t *testing.T) {
	e := newTestEngine(WithClassifier(fakeClassifier{err: errors.New("model unavailable")}))

	result := e.Classify("Encaminho o requerimento de Pedro Alves para análise")

	if result.Classification != detector.NeedsReview {
		t.Fatalf("classification = %s, want NEEDS_REVIEW", result.Classification)
	}
	if result.Reason != "Classificador de contexto indisponível" {
		t.Errorf("reason = %q", result.Reason)
	}
	if result.Confidence != 0.60 {
		t.Errorf("confidence = %v, want 0.60", result.Confidence)
	}
}

func TestClassify_LegalEntityNameIsPublic(t *testing.T) {
	e := newTestEngine()

	text := "A empresa Silva Construções LTDA solicita certidão negativa"
	result := e.Classify(text)

	if result.Classification != detector.Public {
		t.Fatalf("classification = %s, want PUBLIC", result.Classification)
	}
	found := false
	for _, ig := range result.Evidence.Ignored {
		if ig.Kind == detector.KindName {
			found = true
		}
	}
	if !found {
		t.Error("legal-entity name should appear in ignored evidence")
	}
}

func TestClassify_InstitutionalOnlyText(t *testing.T) {
	e := newTestEngine()

	text := "A Secretaria Municipal de Educação publicou o edital do programa"
	result := e.Classify(text)

	if result.Classification != detector.Public {
		t.Fatalf("classification = %s, want PUBLIC", result.Classification)
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", result.Confidence)
	}
}

func TestClassify_NoFindingsFallback(t *testing.T) {
	e := newTestEngine()

	text := "gostaria de saber o horário de funcionamento da biblioteca"
	result := e.Classify(text)

	if result.Classification != detector.Public {
		t.Fatalf("classification = %s, want PUBLIC", result.Classification)
	}
	if result.Reason != "Nenhum dado pessoal identificado" {
		t.Errorf("reason = %q", result.Reason)
	}
	if result.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", result.Confidence)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	e := newTestEngine()

	texts := []string{
		"Meu e-mail é joao@exemplo.com",
		"Solicito o relatório.\nAtenciosamente,\nMaria Silva",
		"Encaminho o requerimento de Pedro Alves para análise",
		"",
	}

	for _, text := range texts {
		first := e.Classify(text)
		second := e.Classify(text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Classify(%q) not deterministic:\nfirst:  %+v\nsecond: %+v", text, first, second)
		}
	}
}

func TestClassify_ContextCancelledDegradesToReview(t *testing.T) {
	// A cancelled context only matters on the classifier path; the error it
	// produces must surface as NEEDS_REVIEW, never as PUBLIC.
	e := newTestEngine(WithClassifier(canceledAwareClassifier{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.ClassifyContext(ctx, "Encaminho o requerimento de Pedro Alves para análise")
	if result.Classification != detector.NeedsReview {
		t.Fatalf("classification = %s, want NEEDS_REVIEW", result.Classification)
	}
}

func TestClassify_DebugObserverTracesRules(t *testing.T) {
	var buf bytes.Buffer
	obs := observability.NewStandardObserver(observability.ObservabilityDebug, &buf)
	obs.DebugObserver = observability.NewDebugObserver(&buf)

	e := newTestEngine(WithObserver(obs))
	result := e.Classify("Meu e-mail é joao@exemplo.com")
	if result.Classification != detector.NotPublic {
		t.Fatalf("classification = %s, want NOT_PUBLIC", result.Classification)
	}

	trace := buf.String()
	for _, want := range []string{
		"decision_engine: waterfall",
		"rule empty_text: no decision",
		"rule explicit_identifier decided NOT_PUBLIC",
	} {
		if !strings.Contains(trace, want) {
			t.Errorf("debug trace missing %q\ntrace:\n%s", want, trace)
		}
	}
	if strings.Contains(trace, "rule institutional_only") {
		t.Error("rules after the deciding one should not be evaluated")
	}
}

type canceledAwareClassifier struct{}

func (canceledAwareClassifier) Predict(ctx context.Context, _ string) (detector.ContextSignal, error) {
	if err := ctx.Err(); err != nil {
		return detector.ContextSignal{}, err
	}
	return detector.ContextSignal{Label: detector.ContextNeutral}, nil
}
