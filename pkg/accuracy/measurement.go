// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package accuracy

import "time"

// Measurement is one evaluation of a (context, answer) pair.
//
// A Measurement is created once per monitored call and is immutable after
// creation. The invariant callers and tests rely on: AccuracyScore equals
// the configured weighted sum of SemanticScore, EntailmentScore, and
// GroundingScore, bit for bit.
type Measurement struct {
	// SemanticScore is the cosine similarity between context and answer,
	// normalized from [-1,1] to [0,1].
	SemanticScore float64 `json:"semantic_score"`

	// EntailmentScore is the NLI entailment probability in [0,1].
	EntailmentScore float64 `json:"entailment_score"`

	// IsContradiction is true when the NLI label was contradiction.
	IsContradiction bool `json:"is_contradiction"`

	// GroundingScore is the lexical grounding fraction in [0,1].
	GroundingScore float64 `json:"grounding_score"`

	// UngroundedTermCount is the number of answer terms not attested
	// in the context.
	UngroundedTermCount int `json:"ungrounded_term_count"`

	// AccuracyScore is the weighted composite in [0,1].
	AccuracyScore float64 `json:"accuracy_score"`

	// IsHallucination is true when any single hallucination trigger
	// fired. The gate is disjunctive: one strong red flag is not
	// diluted by otherwise-good scores.
	IsHallucination bool `json:"is_hallucination"`

	// IsCompliant is true when AccuracyScore met the configured
	// threshold and no hallucination trigger fired.
	IsCompliant bool `json:"is_compliant"`

	// Timestamp is when the measurement was taken.
	Timestamp time.Time `json:"timestamp"`

	// DurationMS is the wall-clock cost of the measurement in
	// milliseconds, engine calls included.
	DurationMS float64 `json:"duration_ms"`
}
