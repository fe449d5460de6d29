// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package accuracy combines three independent signal sources (semantic
// similarity, NLI entailment, lexical grounding) into one compliance
// decision per monitored call.
package accuracy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veracityai/veracity/pkg/engines"
	"github.com/veracityai/veracity/pkg/grounding"
)

// Weights configures the accuracy composite.
//
// The default split (entailment dominant) reflects that contradiction is the
// strongest hallucination signal. These are heuristic constants without a
// documented empirical derivation; they are configurable precisely so that
// domain experts can review and override them per deployment.
type Weights struct {
	// Semantic weights the normalized similarity score.
	Semantic float64 `json:"semantic" yaml:"semantic"`

	// Entailment weights the NLI entailment score.
	Entailment float64 `json:"entailment" yaml:"entailment"`

	// Grounding weights the lexical grounding score.
	Grounding float64 `json:"grounding" yaml:"grounding"`
}

// DefaultWeights returns the historical 0.3/0.5/0.2 composite split.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.3, Entailment: 0.5, Grounding: 0.2}
}

// Triggers configures the disjunctive hallucination gate. Any single
// trigger firing marks the measurement as a hallucination.
type Triggers struct {
	// MinEntailment fires when the entailment score drops below it.
	MinEntailment float64 `json:"min_entailment" yaml:"min_entailment"`

	// MinGrounding fires when the grounding score drops below it.
	MinGrounding float64 `json:"min_grounding" yaml:"min_grounding"`

	// MaxUngroundedTerms fires when more answer terms than this are
	// unattested in the context.
	MaxUngroundedTerms int `json:"max_ungrounded_terms" yaml:"max_ungrounded_terms"`
}

// DefaultTriggers returns the historical trigger thresholds
// (entailment < 0.3, grounding < 0.5, > 5 ungrounded terms).
func DefaultTriggers() Triggers {
	return Triggers{MinEntailment: 0.3, MinGrounding: 0.5, MaxUngroundedTerms: 5}
}

// Config configures the measurer.
type Config struct {
	// AccuracyThreshold is the minimum composite score for compliance.
	AccuracyThreshold float64 `json:"accuracy_threshold" yaml:"accuracy_threshold" validate:"gte=0,lte=1"`

	// HallucinationTolerance is the acceptable hallucination rate for
	// the deployment; carried on the measurer so audit entries record
	// the policy they were evaluated under.
	HallucinationTolerance float64 `json:"hallucination_tolerance" yaml:"hallucination_tolerance" validate:"gte=0,lte=1"`

	// Weights is the composite split. Zero value means DefaultWeights.
	Weights Weights `json:"weights" yaml:"weights"`

	// Triggers is the hallucination gate. Zero value means
	// DefaultTriggers.
	Triggers Triggers `json:"triggers" yaml:"triggers"`
}

// DefaultConfig returns a config with the historical constants and a 0.85
// accuracy threshold.
func DefaultConfig() Config {
	return Config{
		AccuracyThreshold:      0.85,
		HallucinationTolerance: 0.05,
		Weights:                DefaultWeights(),
		Triggers:               DefaultTriggers(),
	}
}

// normalized fills zero-valued Weights/Triggers with defaults.
func (c Config) normalized() Config {
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	if c.Triggers == (Triggers{}) {
		c.Triggers = DefaultTriggers()
	}
	return c
}

// Measurer scores answers against their context.
//
// # Description
//
// Measurer is the core of the monitoring pipeline. For each (context,
// answer) pair it collects three signals — semantic similarity, NLI
// entailment, lexical grounding — and reduces them to a composite accuracy
// score, a hallucination flag, and a compliance decision.
//
// Engines are injected handles, never globals: test doubles slot in the
// same way production sidecars do, and any caching lives inside the handle.
//
// # Failure Semantics
//
// If either inference engine fails, Measure fails loudly. There are no
// retries and no silent defaults inside the measurer; callers decide
// whether to skip monitoring for that call or abort.
//
// # Thread Safety
//
// Safe for concurrent use provided the injected engines are.
type Measurer struct {
	similarity engines.SimilarityEngine
	entailment engines.EntailmentEngine
	grounder   *grounding.Scorer
	config     Config
}

// NewMeasurer creates a measurer over the injected engines.
//
// # Inputs
//
//   - similarity: Cosine similarity capability. Must not be nil.
//   - entailment: NLI capability. Must not be nil.
//   - config: Thresholds and weights; zero-valued sub-configs fall back
//     to the historical defaults.
func NewMeasurer(similarity engines.SimilarityEngine, entailment engines.EntailmentEngine, config Config) (*Measurer, error) {
	if similarity == nil {
		return nil, fmt.Errorf("%w: similarity engine is nil", ErrInvalidInput)
	}
	if entailment == nil {
		return nil, fmt.Errorf("%w: entailment engine is nil", ErrInvalidInput)
	}

	return &Measurer{
		similarity: similarity,
		entailment: entailment,
		grounder:   grounding.NewScorer(),
		config:     config.normalized(),
	}, nil
}

// Config returns the measurer's effective configuration.
func (m *Measurer) Config() Config {
	return m.config
}

// Measure evaluates one (context, answer) pair.
//
// # Description
//
// Runs the three signal sources and combines them:
//
//  1. semantic = clamp((similarity+1)/2, 0, 1)
//  2. entailment label and score from the NLI engine
//  3. grounding score and ungrounded terms from the lexical scorer
//  4. accuracy = w_s*semantic + w_e*entailment + w_g*grounding
//  5. hallucination = contradiction OR entailment < min OR
//     grounding < min OR ungrounded terms > max (disjunctive gate)
//  6. compliant = accuracy >= threshold AND NOT hallucination
//
// An empty or whitespace-only answer short-circuits to a zero-score,
// non-compliant measurement without invoking either engine. An empty
// context also skips both engines but still runs the grounding scorer: a
// verbatim echo of an empty context is ungrounded and flagged, never an
// engine error. Identical non-empty context and answer strings invoke both
// engines as usual.
//
// # Outputs
//
//   - *Measurement: The immutable measurement.
//   - error: The first engine failure, wrapped with the engine sentinel.
func (m *Measurer) Measure(ctx context.Context, contextText, answer string) (*Measurement, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}

	start := time.Now()

	if strings.TrimSpace(answer) == "" {
		return &Measurement{
			IsHallucination: true,
			IsCompliant:     false,
			Timestamp:       start,
			DurationMS:      float64(time.Since(start).Microseconds()) / 1000.0,
		}, nil
	}

	var (
		semantic float64
		entail   engines.Entailment
	)
	if strings.TrimSpace(contextText) == "" {
		// An empty context supports nothing: both engines are skipped,
		// semantic and entailment score zero, and the grounding scorer
		// reports every substantive answer term as ungrounded.
		entail = engines.Entailment{Label: engines.LabelNeutral}
	} else {
		raw, err := m.similarity.Similarity(ctx, contextText, answer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSimilarityEngine, err)
		}
		semantic = clamp01((raw + 1) / 2)

		entail, err = m.entailment.Entail(ctx, contextText, answer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntailmentEngine, err)
		}
	}

	ground := m.grounder.Score(contextText, answer)

	w := m.config.Weights
	score := w.Semantic*semantic + w.Entailment*entail.Score + w.Grounding*ground.Score

	tr := m.config.Triggers
	hallucination := entail.Label == engines.LabelContradiction ||
		entail.Score < tr.MinEntailment ||
		ground.Score < tr.MinGrounding ||
		len(ground.UngroundedTerms) > tr.MaxUngroundedTerms

	return &Measurement{
		SemanticScore:       semantic,
		EntailmentScore:     entail.Score,
		IsContradiction:     entail.Label == engines.LabelContradiction,
		GroundingScore:      ground.Score,
		UngroundedTermCount: len(ground.UngroundedTerms),
		AccuracyScore:       score,
		IsHallucination:     hallucination,
		IsCompliant:         score >= m.config.AccuracyThreshold && !hallucination,
		Timestamp:           start,
		DurationMS:          float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
