// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package textextract turns input files into plain text for classification.
// Public-records requests arrive either as plain text exports or as PDF
// letters; anything that is not a PDF is read verbatim as UTF-8 text.
package textextract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPages bounds PDF processing time for pathological documents. Request
// letters are short; anything past this limit is boilerplate attachments.
const maxPages = 50

// ExtractText returns the textual content of the file at path. PDF files are
// extracted page by page; every other file is read as-is.
func ExtractText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractPDF(path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	return string(data), nil
}

// extractPDF extracts text from a PDF document using ledongthuc/pdf. Pages
// are processed in parallel and reassembled in order; pages that fail to
// extract are skipped rather than failing the whole document.
func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPages {
		pageCount = maxPages
	}

	type pageResult struct {
		pageNum int
		text    string
		err     error
	}

	resultChan := make(chan pageResult, pageCount)
	for i := 1; i <= pageCount; i++ {
		go func(pageNum int) {
			p := r.Page(pageNum)
			if p.V.IsNull() {
				resultChan <- pageResult{pageNum: pageNum, err: fmt.Errorf("null page")}
				return
			}
			text, err := p.GetPlainText(nil)
			resultChan <- pageResult{pageNum: pageNum, text: text, err: err}
		}(i)
	}

	pageTexts := make(map[int]string)
	for i := 0; i < pageCount; i++ {
		result := <-resultChan
		if result.err != nil {
			continue
		}
		pageTexts[result.pageNum] = result.text
	}

	var buf bytes.Buffer
	for i := 1; i <= pageCount; i++ {
		text, exists := pageTexts[i]
		if !exists {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	return buf.String(), nil
}
