// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package audit persists per-call monitoring records as append-only JSONL
// and aggregates them into compliance statistics.
//
// The JSONL file is the system of record for Article 19 audit trails: one
// JSON object per line, never rewritten, safe to ship to cold storage as-is.
package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veracityai/veracity/pkg/accuracy"
)

// EntryType distinguishes successful measurements from engine failures.
type EntryType string

const (
	// EntryRequest records a completed measurement.
	EntryRequest EntryType = "request"

	// EntryError records a monitored call whose measurement failed.
	EntryError EntryType = "error"
)

// Entry is one audit trail record. Request entries carry a Measurement;
// error entries carry the failure text instead.
type Entry struct {
	// ID is a v4 UUID assigned at creation.
	ID string `json:"id"`

	// Type is "request" or "error".
	Type EntryType `json:"type"`

	// Function names the monitored function.
	Function string `json:"function"`

	// Preset names the compliance preset in force, if any.
	Preset string `json:"preset,omitempty"`

	// Timestamp is when the monitored call started.
	Timestamp time.Time `json:"timestamp"`

	// DurationMS is the monitored call's wall time in milliseconds.
	DurationMS float64 `json:"duration_ms"`

	// Measurement is present on request entries only.
	Measurement *accuracy.Measurement `json:"measurement,omitempty"`

	// Error is present on error entries only.
	Error string `json:"error,omitempty"`
}

// NewRequestEntry builds a request entry around a completed measurement.
func NewRequestEntry(function, preset string, durationMS float64, m *accuracy.Measurement) (*Entry, error) {
	if strings.TrimSpace(function) == "" {
		return nil, fmt.Errorf("%w: function name is empty", ErrInvalidEntry)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: request entry without measurement", ErrInvalidEntry)
	}

	return &Entry{
		ID:          uuid.NewString(),
		Type:        EntryRequest,
		Function:    function,
		Preset:      preset,
		Timestamp:   m.Timestamp,
		DurationMS:  durationMS,
		Measurement: m,
	}, nil
}

// NewErrorEntry builds an error entry for a failed measurement.
func NewErrorEntry(function, preset string, durationMS float64, callErr error) (*Entry, error) {
	if strings.TrimSpace(function) == "" {
		return nil, fmt.Errorf("%w: function name is empty", ErrInvalidEntry)
	}
	if callErr == nil {
		return nil, fmt.Errorf("%w: error entry without error", ErrInvalidEntry)
	}

	return &Entry{
		ID:         uuid.NewString(),
		Type:       EntryError,
		Function:   function,
		Preset:     preset,
		Timestamp:  time.Now().UTC(),
		DurationMS: durationMS,
		Error:      callErr.Error(),
	}, nil
}
