// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/veracityai/veracity/pkg/audit"
	"github.com/veracityai/veracity/pkg/calcs"
)

// Overall compliance status strings.
const (
	StatusCompliant    = "COMPLIANT"
	StatusNonCompliant = "NON-COMPLIANT"
)

// SystemInfo is externally supplied metadata about the monitored system.
// The report never derives it; Annex IV completeness only checks that the
// integrator provided it.
type SystemInfo struct {
	Name          string `json:"name" yaml:"name"`
	Version       string `json:"version" yaml:"version"`
	Provider      string `json:"provider" yaml:"provider"`
	IntendedUse   string `json:"intended_use" yaml:"intended_use"`
	RiskCategory  string `json:"risk_category" yaml:"risk_category"`
	ContactEmail  string `json:"contact_email" yaml:"contact_email"`
	Documentation string `json:"documentation_url" yaml:"documentation_url"`
}

// Article151 carries the accuracy statistics reported under Article 15.1.
type Article151 struct {
	TotalEvaluations  int     `json:"total_evaluations"`
	MeanAccuracy      float64 `json:"mean_accuracy"`
	ComplianceRate    float64 `json:"compliance_rate"`
	HallucinationRate float64 `json:"hallucination_rate"`
	ErrorRate         float64 `json:"error_rate"`
	MeanResponseMS    float64 `json:"mean_response_ms"`
	AccuracyThreshold float64 `json:"accuracy_threshold"`
}

// Article154 carries the robustness statistics reported under Article 15.4.
// Assessed is false when no robustness trial batch was supplied.
type Article154 struct {
	Assessed    bool     `json:"assessed"`
	SuccessRate float64  `json:"success_rate,omitempty"`
	ErrorRate   float64  `json:"error_rate,omitempty"`
	TimeoutRate float64  `json:"timeout_rate,omitempty"`
	TotalTrials int      `json:"total_trials,omitempty"`
	ErrorNotes  []string `json:"error_notes,omitempty"`
}

// Article19 carries the audit trail statistics reported under Article 19.
type Article19 struct {
	TotalEntries       int     `json:"total_entries"`
	MalformedLines     int     `json:"malformed_lines"`
	RetentionDays      float64 `json:"retention_days"`
	RequiredDays       int     `json:"required_retention_days"`
	RetentionSatisfied bool    `json:"retention_satisfied"`
}

// AnnexIV reports technical-documentation completeness: which metadata
// fields the integrator supplied, and the resulting completeness ratio.
type AnnexIV struct {
	Provided     map[string]bool `json:"provided"`
	Completeness float64         `json:"completeness"`
}

// Overall is the conjunction verdict over the whole report.
type Overall struct {
	Status       string   `json:"status"`
	FailedChecks []string `json:"failed_checks,omitempty"`
}

// Report is a derived, recomputable aggregate over an audit log slice.
// It is never the source of truth; regenerate it from the log at will.
type Report struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Preset      Preset     `json:"preset"`
	System      SystemInfo `json:"system"`
	Accuracy    Article151 `json:"article_15_1_accuracy"`
	Robustness  Article154 `json:"article_15_4_robustness"`
	AuditTrail  Article19  `json:"article_19_audit_trail"`
	AnnexIV     AnnexIV    `json:"annex_iv_documentation"`
	Overall     Overall    `json:"overall_compliance"`
}

// NewReport assembles a report from aggregated audit statistics.
//
// # Inputs
//
//   - stats: Aggregate over the audit window. Must not be nil.
//   - robustness: Optional robustness trial batch; nil marks Article 15.4
//     as not assessed.
//   - preset: The threshold bundle in force.
//   - system: Externally supplied system metadata.
func NewReport(stats *audit.Stats, robustness *calcs.RobustnessMetric, preset Preset, system SystemInfo) (*Report, error) {
	if stats == nil {
		return nil, fmt.Errorf("nil audit stats")
	}

	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Preset:      preset,
		System:      system,
		Accuracy: Article151{
			TotalEvaluations:  stats.TotalEvaluations,
			MeanAccuracy:      stats.MeanAccuracy,
			ComplianceRate:    stats.ComplianceRate,
			HallucinationRate: stats.HallucinationRate,
			ErrorRate:         stats.ErrorRate,
			MeanResponseMS:    stats.MeanDurationMS,
			AccuracyThreshold: preset.AccuracyThreshold,
		},
		AuditTrail: Article19{
			TotalEntries:       stats.TotalEvaluations + stats.TotalErrors,
			MalformedLines:     stats.MalformedLines,
			RetentionDays:      stats.RetentionDays,
			RequiredDays:       preset.AuditRetentionDays,
			RetentionSatisfied: stats.RetentionDays <= float64(preset.AuditRetentionDays),
		},
		AnnexIV: annexIV(system),
	}

	if robustness != nil {
		r.Robustness = Article154{
			Assessed:    true,
			SuccessRate: robustness.SuccessRate,
			ErrorRate:   robustness.ErrorRate,
			TimeoutRate: robustness.TimeoutRate,
			TotalTrials: robustness.TotalTrials,
			ErrorNotes:  robustness.ErrorMessages,
		}
	}

	check := stats.Check(audit.DefaultMinMeanAccuracy, audit.DefaultMaxErrorRate, preset.HallucinationTolerance)
	r.Overall = Overall{Status: StatusNonCompliant, FailedChecks: check.FailedChecks}
	if check.Compliant {
		r.Overall.Status = StatusCompliant
	}

	return r, nil
}

// annexIV checks which documentation fields were supplied.
func annexIV(system SystemInfo) AnnexIV {
	provided := map[string]bool{
		"system_name":       system.Name != "",
		"system_version":    system.Version != "",
		"provider":          system.Provider != "",
		"intended_use":      system.IntendedUse != "",
		"risk_category":     system.RiskCategory != "",
		"contact_email":     system.ContactEmail != "",
		"documentation_url": system.Documentation != "",
	}

	var have int
	for _, ok := range provided {
		if ok {
			have++
		}
	}
	return AnnexIV{
		Provided:     provided,
		Completeness: float64(have) / float64(len(provided)),
	}
}

// Text renders the human-readable report with fixed section headers and a
// COMPLIANT/NON-COMPLIANT banner.
func (r *Report) Text() string {
	var b strings.Builder

	banner := fmt.Sprintf("=== %s ===", r.Overall.Status)
	fmt.Fprintf(&b, "%s\n", banner)
	fmt.Fprintf(&b, "AI ACCURACY COMPLIANCE REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "System: %s %s (preset: %s)\n\n", r.System.Name, r.System.Version, r.Preset.Name)

	fmt.Fprintf(&b, "ARTICLE 15.1 - ACCURACY\n")
	fmt.Fprintf(&b, "  Evaluations:        %d\n", r.Accuracy.TotalEvaluations)
	fmt.Fprintf(&b, "  Mean accuracy:      %.4f (threshold %.2f)\n", r.Accuracy.MeanAccuracy, r.Accuracy.AccuracyThreshold)
	fmt.Fprintf(&b, "  Compliance rate:    %.2f%%\n", 100*r.Accuracy.ComplianceRate)
	fmt.Fprintf(&b, "  Hallucination rate: %.2f%%\n", 100*r.Accuracy.HallucinationRate)
	fmt.Fprintf(&b, "  Error rate:         %.2f%%\n", 100*r.Accuracy.ErrorRate)
	fmt.Fprintf(&b, "  Mean response:      %.1f ms\n\n", r.Accuracy.MeanResponseMS)

	fmt.Fprintf(&b, "ARTICLE 15.4 - ROBUSTNESS\n")
	if r.Robustness.Assessed {
		fmt.Fprintf(&b, "  Trials:       %d\n", r.Robustness.TotalTrials)
		fmt.Fprintf(&b, "  Success rate: %.2f%%\n", 100*r.Robustness.SuccessRate)
		fmt.Fprintf(&b, "  Error rate:   %.2f%%\n", 100*r.Robustness.ErrorRate)
		fmt.Fprintf(&b, "  Timeout rate: %.2f%%\n\n", 100*r.Robustness.TimeoutRate)
	} else {
		fmt.Fprintf(&b, "  Not assessed in this reporting window.\n\n")
	}

	fmt.Fprintf(&b, "ARTICLE 19 - AUDIT TRAIL\n")
	fmt.Fprintf(&b, "  Entries:        %d\n", r.AuditTrail.TotalEntries)
	fmt.Fprintf(&b, "  Malformed:      %d\n", r.AuditTrail.MalformedLines)
	fmt.Fprintf(&b, "  Span:           %.1f days (retention policy %d days)\n\n", r.AuditTrail.RetentionDays, r.AuditTrail.RequiredDays)

	fmt.Fprintf(&b, "ANNEX IV - DOCUMENTATION\n")
	fmt.Fprintf(&b, "  Completeness: %.0f%%\n\n", 100*r.AnnexIV.Completeness)

	if len(r.Overall.FailedChecks) > 0 {
		fmt.Fprintf(&b, "FAILED CHECKS\n")
		for _, name := range r.Overall.FailedChecks {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "%s\n", banner)
	return b.String()
}
