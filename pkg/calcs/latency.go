// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package calcs

import "fmt"

// LatencyMetric summarizes a batch of request durations. All fields are in
// milliseconds.
type LatencyMetric struct {
	MeanMS   float64 `json:"mean_ms"`
	MedianMS float64 `json:"median_ms"`
	P95MS    float64 `json:"p95_ms"`
	P99MS    float64 `json:"p99_ms"`
	MinMS    float64 `json:"min_ms"`
	MaxMS    float64 `json:"max_ms"`

	// NumSamples is the number of durations aggregated.
	NumSamples int `json:"num_samples"`
}

// CalculateLatency aggregates per-request durations given in seconds.
//
// # Description
//
// Converts every duration to milliseconds and reduces the batch to mean,
// median, p95, p99, min, and max. Percentiles use linear interpolation
// between closest ranks. Negative durations are caller bugs and rejected.
//
// # Inputs
//
//   - durationsSec: Per-request wall time in seconds. Must be non-empty
//     and non-negative.
func CalculateLatency(durationsSec []float64) (*LatencyMetric, error) {
	if len(durationsSec) == 0 {
		return nil, fmt.Errorf("%w: latency needs at least 1 duration", ErrInsufficientTrials)
	}

	ms := make([]float64, len(durationsSec))
	for i, d := range durationsSec {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative duration %v at index %d", ErrInvalidInput, d, i)
		}
		ms[i] = d * 1000
	}

	lo, hi := minMax(ms)

	return &LatencyMetric{
		MeanMS:     mean(ms),
		MedianMS:   percentile(ms, 50),
		P95MS:      percentile(ms, 95),
		P99MS:      percentile(ms, 99),
		MinMS:      lo,
		MaxMS:      hi,
		NumSamples: len(ms),
	}, nil
}
