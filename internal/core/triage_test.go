// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lgpd-triage/internal/config"
	"lgpd-triage/internal/detector"
)

func newTestTriage(t *testing.T) *Triage {
	t.Helper()
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error loading defaults: %v", err)
	}
	triage, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error building triage: %v", err)
	}
	return triage
}

func TestClassifyText(t *testing.T) {
	triage := newTestTriage(t)

	record := triage.ClassifyText(context.Background(), "Meu e-mail é joao@exemplo.com")
	if record.Result.Classification != detector.NotPublic {
		t.Errorf("classification = %s, want NOT_PUBLIC", record.Result.Classification)
	}
}

func TestClassifyFile_PlainText(t *testing.T) {
	triage := newTestTriage(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "pedido.txt")
	content := "Solicito o relatório anual.\nAtenciosamente,\nMaria Silva"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	record, err := triage.ClassifyFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "pedido.txt" {
		t.Errorf("record ID = %q, want file basename", record.ID)
	}
	if record.Result.Classification != detector.NotPublic {
		t.Errorf("classification = %s, want NOT_PUBLIC", record.Result.Classification)
	}
}

func TestClassifyFile_Missing(t *testing.T) {
	triage := newTestTriage(t)

	_, err := triage.ClassifyFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClassifyBatch_PreservesOrder(t *testing.T) {
	triage := newTestTriage(t)

	texts := []string{
		"Meu e-mail é joao@exemplo.com",
		"",
		"gostaria de saber o horário de funcionamento da biblioteca",
	}
	expected := []detector.Classification{
		detector.NotPublic,
		detector.Public,
		detector.Public,
	}

	records := triage.ClassifyBatch(context.Background(), texts)
	if len(records) != len(texts) {
		t.Fatalf("got %d records for %d texts", len(records), len(texts))
	}

	for i, record := range records {
		if record.Result.Classification != expected[i] {
			t.Errorf("records[%d] = %s, want %s", i, record.Result.Classification, expected[i])
		}
		if record.Text != texts[i] {
			t.Errorf("records[%d] text does not match input order", i)
		}
	}
	if records[0].ID != "1" || records[2].ID != "3" {
		t.Errorf("record IDs should be 1-based row numbers, got %q and %q", records[0].ID, records[2].ID)
	}
}

func TestClassifyBatch_Empty(t *testing.T) {
	triage := newTestTriage(t)

	records := triage.ClassifyBatch(context.Background(), nil)
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestReadBatchCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.csv")

	content := "id,texto\n1,\"Meu e-mail é joao@exemplo.com\"\n2,consulta ao edital\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write batch file: %v", err)
	}

	texts, err := ReadBatchCSV(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("got %d texts, want 2", len(texts))
	}
	if texts[0] != "Meu e-mail é joao@exemplo.com" {
		t.Errorf("texts[0] = %q", texts[0])
	}
	if texts[1] != "consulta ao edital" {
		t.Errorf("texts[1] = %q", texts[1])
	}
}

func TestReadBatchCSV_NamedColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.csv")

	content := "protocolo,solicitacao\n2024-001,pedido de acesso\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write batch file: %v", err)
	}

	texts, err := ReadBatchCSV(path, "solicitacao")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(texts) != 1 || texts[0] != "pedido de acesso" {
		t.Errorf("texts = %v", texts)
	}
}

func TestReadBatchCSV_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.csv")

	if err := os.WriteFile(path, []byte("protocolo,assunto\n1,geral\n"), 0o600); err != nil {
		t.Fatalf("failed to write batch file: %v", err)
	}

	_, err := ReadBatchCSV(path, "texto")
	if err == nil {
		t.Error("expected error for missing column")
	}
}

func TestNew_InvalidModelPath(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Engine.ModelPath = filepath.Join(t.TempDir(), "absent-model.yaml")

	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for missing model artifact")
	}
}
