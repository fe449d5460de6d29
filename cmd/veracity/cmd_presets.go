// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veracityai/veracity/pkg/compliance"
)

// presetsCmd lists the industry compliance presets.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the industry compliance presets",
	RunE:  runPresetsCommand,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresetsCommand(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tACCURACY\tHALLUCINATION TOL\tRETENTION (DAYS)")
	for _, name := range compliance.PresetNames() {
		p, err := compliance.ResolvePreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%d\n",
			p.Name, p.AccuracyThreshold, p.HallucinationTolerance, p.AuditRetentionDays)
	}
	return w.Flush()
}
