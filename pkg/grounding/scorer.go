// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package grounding scores how well an answer's terms are attested in the
// context it was generated from.
//
// Grounding is the purely lexical leg of the accuracy composite: it needs no
// model inference, runs in microseconds, and catches fabricated entities and
// figures that semantic similarity alone glosses over.
package grounding

import (
	"regexp"
	"strings"
)

// wordPattern splits text into candidate terms. Keeps alphanumerics,
// apostrophes, and in-number punctuation ($10M, 3.5, 2024-01).
var wordPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9.$%'\-]*`)

// stopWords are terms too common to count as claims. Checking these against
// the context would reward filler and punish style, so they are excluded from
// both the numerator and the denominator of the grounding score.
// Kept package-level to avoid allocating a new map on every call.
var stopWords = map[string]bool{
	// Articles, pronouns, conjunctions
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"these": true, "those": true, "it": true, "its": true, "their": true,
	"and": true, "or": true, "but": true, "if": true, "then": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "by": true, "from": true, "as": true, "into": true,
	// Common verbs
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "has": true, "have": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"can": true, "could": true, "should": true, "may": true, "might": true,
	// Quantifiers and hedges
	"all": true, "some": true, "any": true, "no": true, "not": true,
	"more": true, "most": true, "less": true, "also": true, "only": true,
	"very": true, "such": true, "than": true, "so": true, "about": true,
	"there": true, "which": true, "who": true, "what": true, "when": true,
	"where": true, "how": true, "because": true, "while": true,
}

// Result holds the outcome of a grounding check.
type Result struct {
	// Score is the fraction of considered answer terms attested in the
	// context, in [0,1]. Answers with no considered terms score 1.0.
	Score float64 `json:"score"`

	// UngroundedTerms lists answer terms not attested in the context,
	// deduplicated and in order of first occurrence.
	UngroundedTerms []string `json:"ungrounded_terms,omitempty"`

	// TermsConsidered is the number of non-stop-word answer terms checked.
	TermsConsidered int `json:"terms_considered"`
}

// Scorer checks answers for lexical grounding in their context.
//
// Thread Safety: Safe for concurrent use; the scorer is stateless.
type Scorer struct{}

// NewScorer creates a grounding scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score measures how well the answer's terms are attested in the context.
//
// # Description
//
// Tokenizes both texts case-folded, drops stop words from the answer, and
// counts an answer term as grounded when the identical term appears in the
// context. Score = grounded / considered. An answer that reduces to zero
// considered terms (all stop words, or empty) scores 1.0 with no ungrounded
// terms; the measurer handles empty answers before calling this.
//
// # Inputs
//
//   - contextText: The grounding context given to the model.
//   - answer: The model's answer.
//
// # Outputs
//
//   - Result: Score, ungrounded terms, and the considered-term count.
func (s *Scorer) Score(contextText, answer string) Result {
	contextTerms := make(map[string]bool)
	for _, term := range tokenize(contextText) {
		contextTerms[term] = true
	}

	var (
		considered int
		grounded   int
		ungrounded []string
		seen       = make(map[string]bool)
	)

	for _, term := range tokenize(answer) {
		if stopWords[term] || seen[term] {
			continue
		}
		seen[term] = true
		considered++

		if contextTerms[term] {
			grounded++
		} else {
			ungrounded = append(ungrounded, term)
		}
	}

	if considered == 0 {
		return Result{Score: 1.0}
	}

	return Result{
		Score:           float64(grounded) / float64(considered),
		UngroundedTerms: ungrounded,
		TermsConsidered: considered,
	}
}

// tokenize splits text into lowercase terms, trimming trailing punctuation
// that wordPattern admits mid-token ("10M." -> "10m").
func tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimRight(t, ".$%'-")
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
