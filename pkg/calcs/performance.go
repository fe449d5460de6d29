// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package calcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/veracityai/veracity/pkg/engines"
)

const (
	// minSubstantiveChars is the floor below which a response scores 0
	// without any engine call.
	minSubstantiveChars = 10

	// completenessWordTarget is the word count at which completeness
	// saturates to 1.0.
	completenessWordTarget = 200
)

// Pair is one (prompt, response) exchange to score.
type Pair struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// PerformanceMetric aggregates per-pair performance scores across a batch
// of exchanges.
type PerformanceMetric struct {
	// MeanScore, StdScore, MinScore, MaxScore summarize the per-pair
	// composite: 0.5*relevance + 0.3*completeness + 0.2*structure.
	MeanScore float64 `json:"mean_score"`
	StdScore  float64 `json:"std_score"`
	MinScore  float64 `json:"min_score"`
	MaxScore  float64 `json:"max_score"`

	// PairScores are the per-pair composites in input order.
	PairScores []float64 `json:"pair_scores"`

	// NumPairs is the batch size.
	NumPairs int `json:"num_pairs"`
}

// CalculatePerformance scores a batch of (prompt, response) exchanges.
//
// # Description
//
// Each pair scores 0.5*relevance + 0.3*completeness + 0.2*structure.
// Relevance comes from embedding prompt and response and normalizing the
// cosine similarity from [-1,1] to [0,1]. Completeness rewards length up
// to 200 words. Structure is a cheap lexical check: responses containing
// sentence punctuation, newlines, colons, or list markers score 1.0, bare
// fragments 0.5. Responses under 10 characters after trimming score 0
// unconditionally and never reach the embedder.
//
// The batch reduces to mean, std, min, and max of the per-pair scores.
//
// # Inputs
//
//   - ctx: Context for the embedding calls.
//   - embedder: Embedding capability. Must not be nil.
//   - pairs: The exchanges to score. Must be non-empty.
func CalculatePerformance(ctx context.Context, embedder engines.Embedder, pairs []Pair) (*PerformanceMetric, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is nil", ErrInvalidInput)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: performance needs at least 1 pair", ErrInsufficientTrials)
	}

	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		score, err := scorePair(ctx, embedder, p)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		scores[i] = score
	}

	lo, hi := minMax(scores)
	return &PerformanceMetric{
		MeanScore:  mean(scores),
		StdScore:   stddev(scores),
		MinScore:   lo,
		MaxScore:   hi,
		PairScores: scores,
		NumPairs:   len(pairs),
	}, nil
}

// scorePair computes the composite for one exchange.
func scorePair(ctx context.Context, embedder engines.Embedder, p Pair) (float64, error) {
	trimmed := strings.TrimSpace(p.Response)
	if len(trimmed) < minSubstantiveChars {
		return 0, nil
	}

	vectors, err := embedder.BatchEmbed(ctx, []string{p.Prompt, p.Response})
	if err != nil {
		return 0, fmt.Errorf("embed prompt and response: %w", err)
	}
	if len(vectors) != 2 {
		return 0, fmt.Errorf("%w: embedder returned %d vectors for 2 texts", ErrInvalidInput, len(vectors))
	}

	relevance := clamp01((engines.CosineSimilarity(vectors[0], vectors[1]) + 1) / 2)

	words := len(strings.Fields(trimmed))
	completeness := clamp01(float64(words) / completenessWordTarget)

	structure := 0.5
	if hasStructure(trimmed) {
		structure = 1.0
	}

	return 0.5*relevance + 0.3*completeness + 0.2*structure, nil
}

// hasStructure reports whether text shows sentence punctuation, line
// breaks, or list markers.
func hasStructure(text string) bool {
	if strings.ContainsAny(text, ".\n:-") {
		return true
	}
	for _, marker := range []string{"* ", "1.", "2.", "3."} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
