// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package grounding

import (
	"math"
	"testing"
)

func TestScorerFullyGrounded(t *testing.T) {
	s := NewScorer()

	result := s.Score(
		"Revenue was $10M in the third quarter.",
		"Revenue was $10M.",
	)

	if result.Score != 1.0 {
		t.Errorf("expected score 1.0, got %v (ungrounded: %v)", result.Score, result.UngroundedTerms)
	}
	if len(result.UngroundedTerms) != 0 {
		t.Errorf("expected no ungrounded terms, got %v", result.UngroundedTerms)
	}
}

func TestScorerDetectsFabricatedTerms(t *testing.T) {
	s := NewScorer()

	result := s.Score(
		"The deployment runs on three servers in Frankfurt.",
		"The deployment runs on twelve servers in Dublin.",
	)

	if result.Score >= 1.0 {
		t.Fatalf("expected score below 1.0, got %v", result.Score)
	}

	ungrounded := make(map[string]bool)
	for _, term := range result.UngroundedTerms {
		ungrounded[term] = true
	}
	if !ungrounded["twelve"] || !ungrounded["dublin"] {
		t.Errorf("expected 'twelve' and 'dublin' flagged, got %v", result.UngroundedTerms)
	}
}

func TestScorerScoreMath(t *testing.T) {
	s := NewScorer()

	// Considered terms: revenue, grew, fell (stop words excluded,
	// duplicates deduplicated). "fell" is ungrounded.
	result := s.Score("revenue grew", "revenue grew and revenue fell")

	if result.TermsConsidered != 3 {
		t.Fatalf("expected 3 considered terms, got %d", result.TermsConsidered)
	}
	want := 2.0 / 3.0
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("expected score %v, got %v", want, result.Score)
	}
}

func TestScorerCaseInsensitive(t *testing.T) {
	s := NewScorer()

	result := s.Score("Berlin hosts the EU summit", "BERLIN hosts the eu SUMMIT")
	if result.Score != 1.0 {
		t.Errorf("expected case-insensitive match, score %v, ungrounded %v",
			result.Score, result.UngroundedTerms)
	}
}

func TestScorerDegenerateAnswers(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name   string
		answer string
	}{
		{name: "empty", answer: ""},
		{name: "whitespace", answer: "   \n\t"},
		{name: "all stop words", answer: "it is and was the"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := s.Score("some context", tc.answer)
			if result.Score != 1.0 || result.TermsConsidered != 0 {
				t.Errorf("expected neutral result, got %+v", result)
			}
		})
	}
}

func TestScorerEmptyContext(t *testing.T) {
	s := NewScorer()

	// A verbatim echo of an empty context is entirely ungrounded.
	result := s.Score("", "Revenue was $15M")
	if result.Score != 0.0 {
		t.Errorf("expected score 0.0 against empty context, got %v", result.Score)
	}
}
