// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package compliance resolves industry threshold presets and renders EU AI
// Act style compliance reports from aggregated audit statistics.
//
// The article and annex labels are report section names only. Nothing in
// this package interprets the regulation; it reports the numbers a
// compliance reviewer asks for under those headings.
package compliance

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPreset indicates a preset name outside the static table. The
// error text lists the valid names.
var ErrUnknownPreset = errors.New("unknown compliance preset")

// Preset is an immutable threshold bundle for an industry vertical.
type Preset struct {
	// Name is the table key.
	Name string `json:"name"`

	// AccuracyThreshold is the minimum composite accuracy for a single
	// measurement to be compliant.
	AccuracyThreshold float64 `json:"accuracy_threshold"`

	// HallucinationTolerance is the acceptable hallucination rate across
	// the audit window.
	HallucinationTolerance float64 `json:"hallucination_tolerance"`

	// AuditRetentionDays is how long the audit trail must be kept.
	AuditRetentionDays int `json:"audit_retention_days"`
}

// presets is the static table. Stricter verticals get higher thresholds
// and longer retention; "general" matches the measurer defaults.
var presets = map[string]Preset{
	"healthcare": {
		Name:                   "healthcare",
		AccuracyThreshold:      0.95,
		HallucinationTolerance: 0.01,
		AuditRetentionDays:     2555,
	},
	"financial_services": {
		Name:                   "financial_services",
		AccuracyThreshold:      0.93,
		HallucinationTolerance: 0.02,
		AuditRetentionDays:     2555,
	},
	"legal": {
		Name:                   "legal",
		AccuracyThreshold:      0.92,
		HallucinationTolerance: 0.02,
		AuditRetentionDays:     3650,
	},
	"insurance": {
		Name:                   "insurance",
		AccuracyThreshold:      0.90,
		HallucinationTolerance: 0.03,
		AuditRetentionDays:     1825,
	},
	"general": {
		Name:                   "general",
		AccuracyThreshold:      0.85,
		HallucinationTolerance: 0.05,
		AuditRetentionDays:     365,
	},
}

// ResolvePreset looks up a preset by name (case-insensitive, trimmed).
// Unknown names fail with the sorted list of valid names in the error.
func ResolvePreset(name string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if p, ok := presets[key]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
}

// PresetNames returns the valid preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
