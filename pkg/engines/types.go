// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engines defines the external inference capabilities the accuracy
// core depends on: text embedding, semantic similarity, and natural-language
// inference (entailment).
//
// The core never instantiates these capabilities itself. Callers construct an
// engine handle (HTTP sidecar client, OpenAI-backed embedder, or a test
// double) and inject it into the measurer and calculators. Any shared mutable
// state, such as the embedding cache, is owned by the handle, never by
// package-level globals.
package engines

import "context"

// EntailmentLabel is the NLI relation between a premise and a hypothesis.
type EntailmentLabel string

const (
	// LabelEntailment means the hypothesis follows from the premise.
	LabelEntailment EntailmentLabel = "entailment"

	// LabelNeutral means the premise neither supports nor contradicts
	// the hypothesis.
	LabelNeutral EntailmentLabel = "neutral"

	// LabelContradiction means the hypothesis contradicts the premise.
	// This is the strongest hallucination signal the core consumes.
	LabelContradiction EntailmentLabel = "contradiction"
)

// Valid reports whether the label is one of the three known relations.
func (l EntailmentLabel) Valid() bool {
	switch l {
	case LabelEntailment, LabelNeutral, LabelContradiction:
		return true
	default:
		return false
	}
}

// Entailment is the judgment returned by an EntailmentEngine.
type Entailment struct {
	// Label is the NLI relation.
	Label EntailmentLabel `json:"label"`

	// Score is the entailment probability in [0,1]. Higher means the
	// hypothesis is better supported by the premise.
	Score float64 `json:"score"`
}

// Embedder converts text into dense vectors.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed computes a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed computes embeddings for multiple texts in one call.
	// The result has one vector per input text, in input order.
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// SimilarityEngine scores how semantically close two texts are.
//
// Thread Safety: Implementations must be safe for concurrent use.
type SimilarityEngine interface {
	// Similarity returns the cosine similarity between the two texts,
	// in [-1,1]. Implementations may cache by exact text match.
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// EntailmentEngine judges whether a hypothesis follows from a premise.
//
// Thread Safety: Implementations must be safe for concurrent use.
type EntailmentEngine interface {
	// Entail returns the NLI relation and entailment score for the
	// (premise, hypothesis) pair.
	Entail(ctx context.Context, premise, hypothesis string) (Entailment, error)
}
