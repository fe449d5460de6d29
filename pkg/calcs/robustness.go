// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package calcs

import "fmt"

// RobustnessMetric summarizes outcome rates over a batch of perturbed or
// adversarial trials. The three rates always sum to 1.0.
type RobustnessMetric struct {
	// SuccessRate is the fraction of trials that completed correctly.
	SuccessRate float64 `json:"success_rate"`

	// ErrorRate is the fraction of trials that failed with an error.
	ErrorRate float64 `json:"error_rate"`

	// TimeoutRate is the fraction of trials that timed out.
	TimeoutRate float64 `json:"timeout_rate"`

	// TotalTrials is the batch size.
	TotalTrials int `json:"total_trials"`

	// ErrorMessages carries the error text collected from failed trials,
	// in the order observed.
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// CalculateRobustness reduces trial outcome counts to rates.
//
// # Inputs
//
//   - successes, errors, timeouts: Non-negative outcome counts. Their sum
//     must be positive.
//   - errorMessages: Error text from failed trials, carried through to the
//     metric verbatim. May be nil.
//
// # Outputs
//
//   - *RobustnessMetric: Rates normalized by the total; they sum to 1.0.
//   - error: ErrInvalidInput on negative counts, ErrInsufficientTrials on
//     an empty batch.
func CalculateRobustness(successes, errors, timeouts int, errorMessages []string) (*RobustnessMetric, error) {
	if successes < 0 || errors < 0 || timeouts < 0 {
		return nil, fmt.Errorf("%w: negative outcome count (%d/%d/%d)", ErrInvalidInput, successes, errors, timeouts)
	}

	total := successes + errors + timeouts
	if total == 0 {
		return nil, fmt.Errorf("%w: robustness needs at least 1 trial", ErrInsufficientTrials)
	}

	return &RobustnessMetric{
		SuccessRate:   float64(successes) / float64(total),
		ErrorRate:     float64(errors) / float64(total),
		TimeoutRate:   float64(timeouts) / float64(total),
		TotalTrials:   total,
		ErrorMessages: errorMessages,
	}, nil
}
