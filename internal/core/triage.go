// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core wires configuration, the decision engine, and input handling
// into the operations the CLI exposes: classify one text, classify a file,
// classify a CSV batch.
package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"lgpd-triage/internal/config"
	"lgpd-triage/internal/contextmodel"
	"lgpd-triage/internal/engine"
	"lgpd-triage/internal/formatters"
	"lgpd-triage/internal/observability"
	"lgpd-triage/internal/patterns"
	"lgpd-triage/internal/preprocessors/textextract"
)

// Triage is the top-level service facade. Construct once, use from any
// number of goroutines.
type Triage struct {
	engine  *engine.Engine
	workers int
}

// New builds a Triage service from configuration. When cfg.Engine.ModelPath
// is set, the linear context model is loaded from it; a missing or invalid
// model file is a construction error, not a silent downgrade.
func New(cfg *config.Config, observer *observability.StandardObserver) (*Triage, error) {
	opts := []engine.Option{
		engine.WithThresholds(cfg.Engine.ClassifierAcceptance, cfg.Engine.ReviewFloor),
	}

	if cfg.Engine.ModelPath != "" {
		model, err := contextmodel.LoadModel(cfg.Engine.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("error loading context model: %w", err)
		}
		opts = append(opts, engine.WithClassifier(model))
	}

	if observer != nil {
		opts = append(opts, engine.WithObserver(observer))
	}

	workers := cfg.Defaults.Workers
	if workers < 1 {
		workers = 1
	}

	return &Triage{
		engine:  engine.New(patterns.Default(), opts...),
		workers: workers,
	}, nil
}

// ClassifyText classifies a single text.
func (t *Triage) ClassifyText(ctx context.Context, text string) formatters.Record {
	return formatters.Record{
		Text:   text,
		Result: t.engine.ClassifyContext(ctx, text),
	}
}

// ClassifyFile extracts the text of the file at path and classifies it.
func (t *Triage) ClassifyFile(ctx context.Context, path string) (formatters.Record, error) {
	text, err := textextract.ExtractText(path)
	if err != nil {
		return formatters.Record{}, err
	}
	return formatters.Record{
		ID:     filepath.Base(path),
		Text:   text,
		Result: t.engine.ClassifyContext(ctx, text),
	}, nil
}

// ClassifyBatch classifies texts concurrently. The result slice preserves
// input order: results[i] is always the outcome for texts[i], regardless of
// which worker finished first.
func (t *Triage) ClassifyBatch(ctx context.Context, texts []string) []formatters.Record {
	records := make([]formatters.Record, len(texts))
	if len(texts) == 0 {
		return records
	}

	workers := t.workers
	if workers > len(texts) {
		workers = len(texts)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = formatters.Record{
					ID:     strconv.Itoa(i + 1),
					Text:   texts[i],
					Result: t.engine.ClassifyContext(ctx, texts[i]),
				}
			}
		}()
	}

	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return records
}

// ClassifyBatchFile reads a CSV batch file and classifies the named column.
func (t *Triage) ClassifyBatchFile(ctx context.Context, path, column string) ([]formatters.Record, error) {
	texts, err := ReadBatchCSV(path, column)
	if err != nil {
		return nil, err
	}
	return t.ClassifyBatch(ctx, texts), nil
}

// ReadBatchCSV reads the named column from a CSV file with a header row.
// An empty column name selects the default request-text column.
func ReadBatchCSV(path, column string) ([]string, error) {
	if column == "" {
		column = "texto"
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error opening batch file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading batch header: %w", err)
	}

	columnIndex := -1
	for i, name := range header {
		if name == column {
			columnIndex = i
			break
		}
	}
	if columnIndex == -1 {
		return nil, fmt.Errorf("column %q not found in batch file header", column)
	}

	var texts []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading batch row: %w", err)
		}
		if columnIndex >= len(row) {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, row[columnIndex])
	}

	return texts, nil
}
