// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package calcs provides the statistical calculators that reduce a batch of
// trial outputs to a single summary metric: consistency, performance,
// latency, output quality, and robustness.
//
// Every calculator validates its input and fails loudly on insufficient
// data. The returned metric structs are immutable aggregates with no
// identity beyond the batch that produced them.
package calcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/veracityai/veracity/pkg/engines"
)

// ConsistencyMetric summarizes how stable a model's answers are across
// repeated trials of the same prompt.
type ConsistencyMetric struct {
	// Score is 1 minus the coefficient of variation of pairwise
	// embedding distances, clamped to [0,1]. Identical responses score
	// exactly 1.0.
	Score float64 `json:"score"`

	// MeanDistance is the mean pairwise cosine distance.
	MeanDistance float64 `json:"mean_distance"`

	// StdDistance is the standard deviation of pairwise distances.
	StdDistance float64 `json:"std_distance"`

	// NumTrials is the number of valid responses considered.
	NumTrials int `json:"num_trials"`
}

// CalculateConsistency measures response stability across trials.
//
// # Description
//
// Embeds every non-empty response, computes all n(n-1)/2 pairwise cosine
// distances, and reduces the distance vector to a score. If all distances
// are zero (identical embeddings) the score is exactly 1.0. Otherwise
// score = clamp(1 - std/mean, 0, 1): low spread relative to the mean
// distance means high consistency.
//
// # Inputs
//
//   - ctx: Context for cancellation of the embedding calls.
//   - embedder: Embedding capability. Must not be nil.
//   - responses: Trial responses. At least 2 must remain non-empty after
//     trimming whitespace, or ErrInsufficientTrials is returned.
//
// # Outputs
//
//   - *ConsistencyMetric: The immutable batch aggregate.
//   - error: Validation or embedding failure.
func CalculateConsistency(ctx context.Context, embedder engines.Embedder, responses []string) (*ConsistencyMetric, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is nil", ErrInvalidInput)
	}

	valid := make([]string, 0, len(responses))
	for _, r := range responses {
		if strings.TrimSpace(r) != "" {
			valid = append(valid, r)
		}
	}
	if len(valid) < 2 {
		return nil, fmt.Errorf("%w: consistency needs at least 2 non-empty responses, got %d", ErrInsufficientTrials, len(valid))
	}

	vectors, err := embedder.BatchEmbed(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("embed responses: %w", err)
	}

	distances := make([]float64, 0, len(vectors)*(len(vectors)-1)/2)
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			distances = append(distances, engines.CosineDistance(vectors[i], vectors[j]))
		}
	}

	meanDist := mean(distances)
	stdDist := stddev(distances)

	score := 1.0
	if meanDist != 0 {
		score = clamp01(1 - stdDist/meanDist)
	}

	return &ConsistencyMetric{
		Score:        score,
		MeanDistance: meanDist,
		StdDistance:  stdDist,
		NumTrials:    len(valid),
	}, nil
}
