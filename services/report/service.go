// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report serves compliance reports over HTTP. Every report is
// recomputed from the audit log on request; the service holds no derived
// state of its own.
package report

import (
	"errors"
	"fmt"

	"github.com/veracityai/veracity/pkg/audit"
	"github.com/veracityai/veracity/pkg/compliance"
	"github.com/veracityai/veracity/pkg/logging"
)

// ErrInvalidConfig indicates an unusable service configuration.
var ErrInvalidConfig = errors.New("invalid report service config")

// ServiceConfig configures the report service.
type ServiceConfig struct {
	// AuditLogPath is the JSONL audit trail to aggregate.
	AuditLogPath string `json:"audit_log_path" yaml:"audit_log_path" validate:"required"`

	// Preset names the compliance preset reports are judged against.
	Preset string `json:"preset" yaml:"preset" validate:"required"`

	// System is the monitored system's metadata for Annex IV sections.
	System compliance.SystemInfo `json:"system" yaml:"system"`
}

// Service aggregates the audit log and renders reports.
//
// # Thread Safety
//
// Safe for concurrent use. Each request builds its own aggregator.
type Service struct {
	config ServiceConfig
	preset compliance.Preset
	logger *logging.Logger
}

// NewService validates the configuration and resolves the preset.
func NewService(config ServiceConfig, logger *logging.Logger) (*Service, error) {
	if config.AuditLogPath == "" {
		return nil, fmt.Errorf("%w: audit log path is required", ErrInvalidConfig)
	}
	preset, err := compliance.ResolvePreset(config.Preset)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Service{
		config: config,
		preset: preset,
		logger: logger.With("component", "report"),
	}, nil
}

// Stats replays the audit log into a fresh aggregate.
func (s *Service) Stats() (*audit.Stats, error) {
	agg := audit.NewAggregator()
	if err := agg.ReadFile(s.config.AuditLogPath); err != nil {
		return nil, err
	}
	return agg.Stats(), nil
}

// BuildReport replays the audit log and assembles a compliance report.
func (s *Service) BuildReport() (*compliance.Report, error) {
	stats, err := s.Stats()
	if err != nil {
		return nil, err
	}

	report, err := compliance.NewReport(stats, nil, s.preset, s.config.System)
	if err != nil {
		return nil, err
	}

	s.logger.Info("report generated",
		"preset", s.preset.Name,
		"evaluations", stats.TotalEvaluations,
		"status", report.Overall.Status,
	)
	return report, nil
}
