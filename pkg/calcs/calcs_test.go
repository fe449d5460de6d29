// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package calcs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEmbedder returns canned vectors by exact text. Unknown texts get a
// fallback unit vector so batches never fail on lookup.
type mapEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (m *mapEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mapEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := m.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

func TestCalculateConsistencyIdenticalResponses(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"A is true": {0.5, 0.5, 0.1},
	}}

	got, err := CalculateConsistency(context.Background(), emb,
		[]string{"A is true", "A is true", "A is true"})
	require.NoError(t, err)

	// Identical embeddings give zero pairwise distance; the score must be
	// exactly 1.0, not merely close.
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, 0.0, got.MeanDistance)
	assert.Equal(t, 3, got.NumTrials)
}

func TestCalculateConsistencyDivergentResponses(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"c": {0.9, 0.1, 0},
	}}

	got, err := CalculateConsistency(context.Background(), emb, []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Greater(t, got.MeanDistance, 0.0)
	assert.GreaterOrEqual(t, got.Score, 0.0)
	assert.LessOrEqual(t, got.Score, 1.0)
	// Distances here are highly uneven, so the score must be well below a
	// stable batch's.
	assert.Less(t, got.Score, 0.9)
}

func TestCalculateConsistencyFiltersEmptyResponses(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}

	_, err := CalculateConsistency(context.Background(), emb, []string{"only one", "", "   "})
	require.ErrorIs(t, err, ErrInsufficientTrials)
	assert.Equal(t, 0, emb.calls, "embedder must not run on an invalid batch")
}

func TestCalculateConsistencyValidation(t *testing.T) {
	_, err := CalculateConsistency(context.Background(), nil, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	boom := errors.New("sidecar down")
	_, err = CalculateConsistency(context.Background(), &mapEmbedder{err: boom}, []string{"a", "b"})
	assert.ErrorIs(t, err, boom)
}

func TestCalculatePerformancePairComposite(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"What is the capital of France?":              {1, 0, 0},
		"The capital of France is Paris. It has been": {1, 0, 0},
	}}

	got, err := CalculatePerformance(context.Background(), emb, []Pair{{
		Prompt:   "What is the capital of France?",
		Response: "The capital of France is Paris. It has been",
	}})
	require.NoError(t, err)

	// Identical vectors: relevance 1.0. Nine words: completeness 9/200.
	// Sentence punctuation present: structure 1.0.
	want := 0.5*1.0 + 0.3*(9.0/200.0) + 0.2*1.0
	require.Len(t, got.PairScores, 1)
	assert.InDelta(t, want, got.PairScores[0], 1e-9)
	assert.InDelta(t, want, got.MeanScore, 1e-9)
	assert.Equal(t, got.MinScore, got.MaxScore)
	assert.Equal(t, 1, got.NumPairs)
}

func TestCalculatePerformanceShortResponseScoresZero(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}

	got, err := CalculatePerformance(context.Background(), emb, []Pair{
		{Prompt: "prompt", Response: "  hi  "},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{0}, got.PairScores)
	assert.Equal(t, 0.0, got.MeanScore)
	assert.Equal(t, 0, emb.calls, "short responses must not reach the embedder")
}

func TestCalculatePerformanceStructureDetection(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{name: "sentence punctuation", response: "one two three four. done", want: 1.0},
		{name: "newline", response: "first line\nsecond line", want: 1.0},
		{name: "numbered list", response: "1 alpha 2 beta gamma", want: 0.5},
		{name: "bullet list", response: "* alpha item * beta item", want: 1.0},
		{name: "bare fragment", response: "just a flat fragment", want: 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want == 1.0, hasStructure(tc.response))
		})
	}
}

func TestCalculatePerformanceBatchAggregates(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}

	// One substantive pair, one sub-10-char response: scores diverge, so
	// std must be positive and min/max must bracket them.
	got, err := CalculatePerformance(context.Background(), emb, []Pair{
		{Prompt: "p1", Response: "a full sentence with structure. enough words here"},
		{Prompt: "p2", Response: "short"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, got.NumPairs)
	assert.Equal(t, 0.0, got.MinScore)
	assert.Greater(t, got.MaxScore, 0.0)
	assert.Greater(t, got.StdScore, 0.0)
	assert.InDelta(t, (got.PairScores[0]+got.PairScores[1])/2, got.MeanScore, 1e-12)
}

func TestCalculatePerformanceValidation(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}

	_, err := CalculatePerformance(context.Background(), nil, []Pair{{Prompt: "p", Response: "long enough response"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculatePerformance(context.Background(), emb, nil)
	assert.ErrorIs(t, err, ErrInsufficientTrials)

	boom := errors.New("sidecar down")
	_, err = CalculatePerformance(context.Background(), &mapEmbedder{err: boom},
		[]Pair{{Prompt: "p", Response: "long enough response"}})
	assert.ErrorIs(t, err, boom)
}

func TestCalculateLatencyAggregates(t *testing.T) {
	got, err := CalculateLatency([]float64{0.5, 0.6, 0.55, 0.7, 0.52})
	require.NoError(t, err)

	assert.InDelta(t, 574.0, got.MeanMS, 1e-9)
	assert.InDelta(t, 550.0, got.MedianMS, 1e-9)
	assert.InDelta(t, 680.0, got.P95MS, 1e-9)
	assert.InDelta(t, 696.0, got.P99MS, 1e-9)
	assert.Equal(t, 500.0, got.MinMS)
	assert.Equal(t, 700.0, got.MaxMS)
	assert.Equal(t, 5, got.NumSamples)
}

func TestCalculateLatencySingleSample(t *testing.T) {
	got, err := CalculateLatency([]float64{1.2})
	require.NoError(t, err)

	// Every statistic of a single sample is that sample.
	assert.Equal(t, 1200.0, got.MeanMS)
	assert.Equal(t, 1200.0, got.MedianMS)
	assert.Equal(t, 1200.0, got.P95MS)
	assert.Equal(t, 1200.0, got.P99MS)
	assert.Equal(t, 1200.0, got.MinMS)
	assert.Equal(t, 1200.0, got.MaxMS)
}

func TestCalculateLatencyValidation(t *testing.T) {
	_, err := CalculateLatency(nil)
	assert.ErrorIs(t, err, ErrInsufficientTrials)

	_, err = CalculateLatency([]float64{0.5, -0.1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateQualityAggregates(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"the cat sat":         {1, 0, 0},
		"dogs bark loudly at": {0, 1, 0},
	}}

	got, err := CalculateQuality(context.Background(), emb,
		[]string{"the cat sat", "dogs bark loudly at"})
	require.NoError(t, err)

	assert.InDelta(t, 15.0, got.MeanLength, 1e-9)
	// Orthogonal vectors: pairwise distance 1.0 exactly.
	assert.InDelta(t, 1.0, got.SemanticDiversity, 1e-9)
	// All words unique in both responses.
	assert.Equal(t, 0.0, got.RepetitionScore)
	assert.Equal(t, 2, got.NumResponses)
}

func TestCalculateQualityRepetition(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}

	got, err := CalculateQuality(context.Background(), emb,
		[]string{"spam spam spam spam"})
	require.NoError(t, err)

	// 1 unique of 4 words.
	assert.InDelta(t, 0.75, got.RepetitionScore, 1e-9)
	// Single response: diversity is 0 and the embedder never runs.
	assert.Equal(t, 0.0, got.SemanticDiversity)
	assert.Equal(t, 0, emb.calls)
}

func TestCalculateQualitySingleWordContributesZeroRepetition(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}

	got, err := CalculateQuality(context.Background(), emb, []string{"word"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.RepetitionScore)
}

func TestCalculateQualityValidation(t *testing.T) {
	_, err := CalculateQuality(context.Background(), nil, []string{"a"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculateQuality(context.Background(), &mapEmbedder{}, nil)
	assert.ErrorIs(t, err, ErrInsufficientTrials)
}

func TestCalculateRobustnessRates(t *testing.T) {
	got, err := CalculateRobustness(18, 1, 1, []string{"upstream 500"})
	require.NoError(t, err)

	assert.InDelta(t, 0.9, got.SuccessRate, 1e-9)
	assert.InDelta(t, 0.05, got.ErrorRate, 1e-9)
	assert.InDelta(t, 0.05, got.TimeoutRate, 1e-9)
	assert.Equal(t, 20, got.TotalTrials)
	assert.Equal(t, []string{"upstream 500"}, got.ErrorMessages)
	assert.InDelta(t, 1.0, got.SuccessRate+got.ErrorRate+got.TimeoutRate, 1e-9)
}

func TestCalculateRobustnessRatesSumToOne(t *testing.T) {
	cases := [][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {7, 3, 2}, {100, 1, 1}}
	for _, c := range cases {
		got, err := CalculateRobustness(c[0], c[1], c[2], nil)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.SuccessRate+got.ErrorRate+got.TimeoutRate, 1e-12)
	}
}

func TestCalculateRobustnessValidation(t *testing.T) {
	_, err := CalculateRobustness(0, 0, 0, nil)
	assert.ErrorIs(t, err, ErrInsufficientTrials)

	_, err = CalculateRobustness(-1, 0, 5, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.Equal(t, 10.0, percentile(values, 0))
	assert.Equal(t, 40.0, percentile(values, 100))
	assert.InDelta(t, 25.0, percentile(values, 50), 1e-9)
	assert.InDelta(t, 38.5, percentile(values, 95), 1e-9)
}
