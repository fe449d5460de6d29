// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Default thresholds for the overall compliance conjunction.
const (
	DefaultMinMeanAccuracy      = 0.90
	DefaultMaxErrorRate         = 0.05
	DefaultMaxHallucinationRate = 0.05
)

// maxLineBytes bounds a single JSONL line; measurements with very long
// answers still fit well under this.
const maxLineBytes = 4 * 1024 * 1024

// PresetStats is the per-preset slice of the aggregate.
type PresetStats struct {
	Requests          int     `json:"requests"`
	Hallucinations    int     `json:"hallucinations"`
	CompliantRequests int     `json:"compliant_requests"`
	MeanAccuracy      float64 `json:"mean_accuracy"`
}

// Stats is the aggregate over an audit trail.
type Stats struct {
	// TotalEvaluations counts request entries.
	TotalEvaluations int `json:"total_evaluations"`

	// TotalErrors counts error entries.
	TotalErrors int `json:"total_errors"`

	// MalformedLines counts skipped undecodable lines.
	MalformedLines int `json:"malformed_lines"`

	// HallucinationCount and HallucinationRate cover request entries.
	HallucinationCount int     `json:"hallucination_count"`
	HallucinationRate  float64 `json:"hallucination_rate"`

	// ComplianceRate is compliant requests over requests.
	ComplianceRate float64 `json:"compliance_rate"`

	// ErrorRate is errors over (requests + errors).
	ErrorRate float64 `json:"error_rate"`

	// Mean sub-scores over request entries.
	MeanAccuracy   float64 `json:"mean_accuracy"`
	MeanSemantic   float64 `json:"mean_semantic"`
	MeanEntailment float64 `json:"mean_entailment"`
	MeanGrounding  float64 `json:"mean_grounding"`

	// MeanDurationMS is the mean monitored call duration.
	MeanDurationMS float64 `json:"mean_duration_ms"`

	// RetentionDays is the span between the oldest and newest entry.
	RetentionDays float64 `json:"retention_days"`

	// ByPreset breaks requests down by compliance preset.
	ByPreset map[string]PresetStats `json:"by_preset,omitempty"`
}

// ComplianceCheck is the result of the overall conjunction over a Stats.
type ComplianceCheck struct {
	// Compliant is true when every check passed.
	Compliant bool `json:"compliant"`

	// FailedChecks names each failed check.
	FailedChecks []string `json:"failed_checks,omitempty"`
}

// Check runs the overall compliance conjunction against the given
// thresholds. Pass the Default* constants for the standard policy.
func (s *Stats) Check(minMeanAccuracy, maxErrorRate, maxHallucinationRate float64) ComplianceCheck {
	var failed []string

	if s.TotalEvaluations < 1 {
		failed = append(failed, "no_evaluations")
	}
	if s.MeanAccuracy < minMeanAccuracy {
		failed = append(failed, "mean_accuracy_below_threshold")
	}
	if s.ErrorRate > maxErrorRate {
		failed = append(failed, "error_rate_above_threshold")
	}
	if s.HallucinationRate > maxHallucinationRate {
		failed = append(failed, "hallucination_rate_above_threshold")
	}

	return ComplianceCheck{Compliant: len(failed) == 0, FailedChecks: failed}
}

// Aggregator accumulates audit entries into a Stats.
//
// # Description
//
// An Aggregator is a caller-owned accumulator: feed it entries with Add or
// whole files with ReadFile, then call Stats. Malformed JSONL lines are
// counted and skipped rather than aborting the scan, so one corrupt line
// cannot hide a year of audit history.
//
// # Thread Safety
//
// NOT safe for concurrent use. Each report builds its own Aggregator.
type Aggregator struct {
	requests       int
	errors         int
	malformed      int
	hallucinations int
	compliant      int

	sumAccuracy   float64
	sumSemantic   float64
	sumEntailment float64
	sumGrounding  float64
	sumDuration   float64

	oldest time.Time
	newest time.Time

	byPreset map[string]*presetAccumulator
}

type presetAccumulator struct {
	requests       int
	hallucinations int
	compliant      int
	sumAccuracy    float64
}

// NewAggregator returns an empty accumulator.
func NewAggregator() *Aggregator {
	return &Aggregator{byPreset: make(map[string]*presetAccumulator)}
}

// Add folds one entry into the aggregate.
func (a *Aggregator) Add(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}

	switch entry.Type {
	case EntryError:
		a.errors++
		return nil
	case EntryRequest:
		if entry.Measurement == nil {
			return fmt.Errorf("%w: request entry %s without measurement", ErrInvalidEntry, entry.ID)
		}
	default:
		return fmt.Errorf("%w: unknown entry type %q", ErrInvalidEntry, entry.Type)
	}

	// The retention window spans request entries only; error entries
	// carry no measurement and do not extend it.
	a.observeTimestamp(entry.Timestamp)

	m := entry.Measurement
	a.requests++
	a.sumAccuracy += m.AccuracyScore
	a.sumSemantic += m.SemanticScore
	a.sumEntailment += m.EntailmentScore
	a.sumGrounding += m.GroundingScore
	a.sumDuration += entry.DurationMS
	if m.IsHallucination {
		a.hallucinations++
	}
	if m.IsCompliant {
		a.compliant++
	}

	if entry.Preset != "" {
		p := a.byPreset[entry.Preset]
		if p == nil {
			p = &presetAccumulator{}
			a.byPreset[entry.Preset] = p
		}
		p.requests++
		p.sumAccuracy += m.AccuracyScore
		if m.IsHallucination {
			p.hallucinations++
		}
		if m.IsCompliant {
			p.compliant++
		}
	}

	return nil
}

func (a *Aggregator) observeTimestamp(ts time.Time) {
	if ts.IsZero() {
		return
	}
	if a.oldest.IsZero() || ts.Before(a.oldest) {
		a.oldest = ts
	}
	if a.newest.IsZero() || ts.After(a.newest) {
		a.newest = ts
	}
}

// ReadFrom scans JSONL entries from r, counting and skipping malformed
// lines. Blank lines are ignored silently.
func (a *Aggregator) ReadFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			a.malformed++
			continue
		}
		if err := a.Add(&entry); err != nil {
			a.malformed++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan audit log: %w", err)
	}
	return nil
}

// ReadFile scans the JSONL file at path into the aggregate.
func (a *Aggregator) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	return a.ReadFrom(f)
}

// Stats snapshots the aggregate. Safe to call repeatedly; the accumulator
// keeps accepting entries afterwards.
func (a *Aggregator) Stats() *Stats {
	s := &Stats{
		TotalEvaluations:   a.requests,
		TotalErrors:        a.errors,
		MalformedLines:     a.malformed,
		HallucinationCount: a.hallucinations,
	}

	if a.requests > 0 {
		n := float64(a.requests)
		s.HallucinationRate = float64(a.hallucinations) / n
		s.ComplianceRate = float64(a.compliant) / n
		s.MeanAccuracy = a.sumAccuracy / n
		s.MeanSemantic = a.sumSemantic / n
		s.MeanEntailment = a.sumEntailment / n
		s.MeanGrounding = a.sumGrounding / n
		s.MeanDurationMS = a.sumDuration / n
	}

	if total := a.requests + a.errors; total > 0 {
		s.ErrorRate = float64(a.errors) / float64(total)
	}

	if !a.oldest.IsZero() && !a.newest.IsZero() {
		s.RetentionDays = a.newest.Sub(a.oldest).Hours() / 24
	}

	if len(a.byPreset) > 0 {
		s.ByPreset = make(map[string]PresetStats, len(a.byPreset))
		for name, p := range a.byPreset {
			ps := PresetStats{
				Requests:          p.requests,
				Hallucinations:    p.hallucinations,
				CompliantRequests: p.compliant,
			}
			if p.requests > 0 {
				ps.MeanAccuracy = p.sumAccuracy / float64(p.requests)
			}
			s.ByPreset[name] = ps
		}
	}

	return s
}
