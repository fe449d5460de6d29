// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package compliance

import (
	"errors"
	"sort"
	"strings"
	"testing"
)

func TestResolvePresetKnownNames(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := ResolvePreset(name)
		if err != nil {
			t.Fatalf("ResolvePreset(%q): %v", name, err)
		}
		if p.Name != name {
			t.Errorf("preset name = %q, want %q", p.Name, name)
		}
		if p.AccuracyThreshold <= 0 || p.AccuracyThreshold > 1 {
			t.Errorf("%s: accuracy threshold out of range: %v", name, p.AccuracyThreshold)
		}
		if p.AuditRetentionDays <= 0 {
			t.Errorf("%s: retention must be positive: %d", name, p.AuditRetentionDays)
		}
	}
}

func TestResolvePresetNormalizesInput(t *testing.T) {
	p, err := ResolvePreset("  Healthcare ")
	if err != nil {
		t.Fatalf("ResolvePreset: %v", err)
	}
	if p.Name != "healthcare" {
		t.Errorf("got %q", p.Name)
	}
}

func TestResolvePresetUnknownListsValidNames(t *testing.T) {
	_, err := ResolvePreset("aerospace")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	for _, name := range PresetNames() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should list %q: %v", name, err)
		}
	}
}

func TestPresetNamesSorted(t *testing.T) {
	names := PresetNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("preset names not sorted: %v", names)
	}
	if len(names) != 5 {
		t.Errorf("expected 5 presets, got %d", len(names))
	}
}

func TestStricterVerticalsHaveTighterThresholds(t *testing.T) {
	healthcare, _ := ResolvePreset("healthcare")
	general, _ := ResolvePreset("general")

	if healthcare.AccuracyThreshold <= general.AccuracyThreshold {
		t.Error("healthcare must demand higher accuracy than general")
	}
	if healthcare.HallucinationTolerance >= general.HallucinationTolerance {
		t.Error("healthcare must tolerate fewer hallucinations than general")
	}
	if healthcare.AuditRetentionDays <= general.AuditRetentionDays {
		t.Error("healthcare must retain audits longer than general")
	}
}
