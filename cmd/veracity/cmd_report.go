// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veracityai/veracity/pkg/audit"
	"github.com/veracityai/veracity/pkg/compliance"
)

var (
	reportJSONOutput bool   // Output as JSON instead of plain text
	reportOutPath    string // Write to a file instead of stdout
)

// reportCmd generates a compliance report from the audit log.
//
// # Examples
//
//	veracity report                  # Plain-text report to stdout
//	veracity report --json           # JSON for automation
//	veracity report -o report.txt    # Write to file
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a compliance report from the audit log",
	Long: `Replays the audit log, aggregates every measurement, and renders an
EU AI Act style compliance report with Article 15.1, 15.4, and 19
sections plus an overall COMPLIANT/NON-COMPLIANT verdict.`,
	RunE: runReportCommand,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSONOutput, "json", false,
		"Output as JSON for scripting")
	reportCmd.Flags().StringVarP(&reportOutPath, "out", "o", "",
		"Write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReportCommand(cmd *cobra.Command, args []string) error {
	preset, err := compliance.ResolvePreset(config.Preset)
	if err != nil {
		return err
	}

	agg := audit.NewAggregator()
	if err := agg.ReadFile(config.AuditLogPath); err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	stats := agg.Stats()

	report, err := compliance.NewReport(stats, nil, preset, config.System)
	if err != nil {
		return err
	}

	logger.Info("report generated",
		"preset", preset.Name,
		"evaluations", stats.TotalEvaluations,
		"malformed_lines", stats.MalformedLines,
		"status", report.Overall.Status,
	)

	var out []byte
	if reportJSONOutput {
		out, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		out = append(out, '\n')
	} else {
		out = []byte(report.Text())
	}

	if reportOutPath != "" {
		if err := os.WriteFile(reportOutPath, out, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	_, err = os.Stdout.Write(out)
	return err
}
