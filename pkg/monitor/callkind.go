// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package monitor observes LLM-backed calls: it measures each answer
// against its context, appends the result to the audit trail, and emits
// telemetry.
//
// The integration layer describes each call explicitly as a tagged variant
// (RAG, single model, coordination). The core never inspects function
// signatures or guesses a call shape; every variant states how its context
// and answer are extracted.
package monitor

import "strings"

// CallKind tags the shape of a monitored call.
type CallKind string

const (
	KindRAG          CallKind = "rag"
	KindSingleModel  CallKind = "single_model"
	KindCoordination CallKind = "coordination"
)

// Call is one monitored exchange. Each variant supplies the (context,
// answer) pair the measurement runs on.
type Call interface {
	Kind() CallKind

	// Extract returns the context text and the answer to measure.
	Extract() (contextText, answer string)
}

// RAGCall is a retrieval-augmented exchange: the answer is measured
// against the retrieved documents, not the user query.
type RAGCall struct {
	Query     string
	Documents []string
	Answer    string
}

func (c RAGCall) Kind() CallKind { return KindRAG }

func (c RAGCall) Extract() (string, string) {
	return strings.Join(c.Documents, "\n\n"), c.Answer
}

// SingleModelCall is a direct prompt/answer exchange: the prompt itself is
// the only context available.
type SingleModelCall struct {
	Prompt string
	Answer string
}

func (c SingleModelCall) Kind() CallKind { return KindSingleModel }

func (c SingleModelCall) Extract() (string, string) {
	return c.Prompt, c.Answer
}

// CoordinationCall is a multi-agent exchange: the final answer is measured
// against the intermediate agent outputs it was synthesized from.
type CoordinationCall struct {
	Task         string
	AgentOutputs []string
	FinalAnswer  string
}

func (c CoordinationCall) Kind() CallKind { return KindCoordination }

func (c CoordinationCall) Extract() (string, string) {
	return strings.Join(c.AgentOutputs, "\n\n"), c.FinalAnswer
}
