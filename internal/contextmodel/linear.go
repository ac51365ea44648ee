// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package contextmodel

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"lgpd-triage/internal/detector"
)

// Artifact is the serialized form of a trained TF-IDF + linear model. The
// training pipeline that produces it is out of scope here; this package only
// loads and evaluates a fixed artifact.
type Artifact struct {
	Labels       []string       `yaml:"labels"`
	Vocabulary   map[string]int `yaml:"vocabulary"`
	IDF          []float64      `yaml:"idf"`
	Coefficients [][]float64    `yaml:"coefficients"`
	Intercepts   []float64      `yaml:"intercepts"`
}

// LinearModel is a deterministic TF-IDF + linear context classifier loaded
// from a YAML artifact.
type LinearModel struct {
	artifact Artifact
	labels   []detector.ContextLabel
}

var termPattern = regexp.MustCompile(`\p{L}+`)

// labelAliases maps the artifact's label vocabulary (Portuguese, as produced
// by the training pipeline) onto the engine's context labels.
var labelAliases = map[string]detector.ContextLabel{
	"NEUTRO":    detector.ContextNeutral,
	"NEUTRAL":   detector.ContextNeutral,
	"PESSOAL":   detector.ContextPersonal,
	"PERSONAL":  detector.ContextPersonal,
	"AMBIGUO":   detector.ContextAmbiguous,
	"AMBIGUOUS": detector.ContextAmbiguous,
}

// LoadModel reads and validates a model artifact from path.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading model artifact: %w", err)
	}

	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("error parsing model artifact: %w", err)
	}
	return NewLinearModel(artifact)
}

// NewLinearModel validates the artifact shape and builds a model.
func NewLinearModel(artifact Artifact) (*LinearModel, error) {
	if len(artifact.Labels) == 0 {
		return nil, fmt.Errorf("model artifact has no labels")
	}
	if len(artifact.Coefficients) != len(artifact.Labels) {
		return nil, fmt.Errorf("model artifact has %d coefficient rows for %d labels",
			len(artifact.Coefficients), len(artifact.Labels))
	}
	if len(artifact.Intercepts) != len(artifact.Labels) {
		return nil, fmt.Errorf("model artifact has %d intercepts for %d labels",
			len(artifact.Intercepts), len(artifact.Labels))
	}
	features := len(artifact.Vocabulary)
	if len(artifact.IDF) != features {
		return nil, fmt.Errorf("model artifact has %d idf weights for %d vocabulary terms",
			len(artifact.IDF), features)
	}
	for i, row := range artifact.Coefficients {
		if len(row) != features {
			return nil, fmt.Errorf("coefficient row %d has %d weights for %d features",
				i, len(row), features)
		}
	}

	labels := make([]detector.ContextLabel, len(artifact.Labels))
	for i, raw := range artifact.Labels {
		mapped, ok := labelAliases[strings.ToUpper(strings.TrimSpace(raw))]
		if !ok {
			return nil, fmt.Errorf("model artifact has unknown label %q", raw)
		}
		labels[i] = mapped
	}

	return &LinearModel{artifact: artifact, labels: labels}, nil
}

// Predict vectorizes the text (TF-IDF, L2-normalized), scores each class and
// returns the argmax label with its softmax probability as confidence.
func (m *LinearModel) Predict(ctx context.Context, text string) (detector.ContextSignal, error) {
	if err := ctx.Err(); err != nil {
		return detector.ContextSignal{}, err
	}
	if strings.TrimSpace(text) == "" {
		return detector.ContextSignal{Label: detector.ContextNeutral, Confidence: 0}, nil
	}

	features := m.vectorize(text)

	scores := make([]float64, len(m.labels))
	for c, row := range m.artifact.Coefficients {
		score := m.artifact.Intercepts[c]
		for j, x := range features {
			if x != 0 {
				score += row[j] * x
			}
		}
		scores[c] = score
	}

	probs := softmax(scores)
	best := 0
	for c := range probs {
		if probs[c] > probs[best] {
			best = c
		}
	}

	return detector.ContextSignal{Label: m.labels[best], Confidence: probs[best]}, nil
}

func (m *LinearModel) vectorize(text string) []float64 {
	features := make([]float64, len(m.artifact.IDF))
	for _, term := range termPattern.FindAllString(strings.ToLower(text), -1) {
		if col, ok := m.artifact.Vocabulary[term]; ok {
			features[col]++
		}
	}

	var norm float64
	for j := range features {
		features[j] *= m.artifact.IDF[j]
		norm += features[j] * features[j]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for j := range features {
			features[j] /= norm
		}
	}
	return features
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
