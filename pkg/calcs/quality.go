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

// OutputQualityMetric summarizes surface-level output quality across a
// batch of responses.
type OutputQualityMetric struct {
	// MeanLength is the mean response length in characters.
	MeanLength float64 `json:"mean_length"`

	// SemanticDiversity is the mean pairwise embedding distance,
	// clamped to at most 1.0. Batches with fewer than 2 responses
	// report 0.
	SemanticDiversity float64 `json:"semantic_diversity"`

	// RepetitionScore is the mean per-response fraction of repeated
	// words: avg(1 - unique/total). Responses of at most one word
	// contribute 0.
	RepetitionScore float64 `json:"repetition_score"`

	// NumResponses is the number of responses aggregated.
	NumResponses int `json:"num_responses"`
}

// CalculateQuality aggregates surface quality signals across responses.
//
// # Description
//
// Length and repetition are pure lexical reductions. Semantic diversity
// embeds the full batch and averages pairwise cosine distances; higher
// means the batch explores more of the answer space. Diversity needs at
// least 2 responses and otherwise reports 0 rather than erroring, because
// the lexical signals remain meaningful for a single response.
//
// # Inputs
//
//   - ctx: Context for the embedding call.
//   - embedder: Embedding capability. Must not be nil.
//   - responses: The batch. Must be non-empty.
func CalculateQuality(ctx context.Context, embedder engines.Embedder, responses []string) (*OutputQualityMetric, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is nil", ErrInvalidInput)
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: quality needs at least 1 response", ErrInsufficientTrials)
	}

	var totalLen float64
	var totalRepetition float64
	for _, r := range responses {
		totalLen += float64(len(r))
		totalRepetition += repetitionRate(r)
	}

	diversity := 0.0
	if len(responses) >= 2 {
		vectors, err := embedder.BatchEmbed(ctx, responses)
		if err != nil {
			return nil, fmt.Errorf("embed responses: %w", err)
		}

		var sum float64
		var pairs int
		for i := 0; i < len(vectors); i++ {
			for j := i + 1; j < len(vectors); j++ {
				sum += engines.CosineDistance(vectors[i], vectors[j])
				pairs++
			}
		}
		if pairs > 0 {
			diversity = sum / float64(pairs)
			if diversity > 1.0 {
				diversity = 1.0
			}
		}
	}

	return &OutputQualityMetric{
		MeanLength:        totalLen / float64(len(responses)),
		SemanticDiversity: diversity,
		RepetitionScore:   totalRepetition / float64(len(responses)),
		NumResponses:      len(responses),
	}, nil
}

// repetitionRate returns 1 - unique/total over case-folded words. Texts of
// at most one word return 0.
func repetitionRate(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) <= 1 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return 1 - float64(len(unique))/float64(len(words))
}
