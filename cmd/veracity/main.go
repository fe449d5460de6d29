// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/veracityai/veracity/pkg/logging"
)

var (
	configPath string
	config     Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "veracity",
	Short: "Accuracy monitoring and compliance reporting for LLM-backed functions",
	Long: `Veracity measures LLM answers against their context, flags likely
hallucinations, and aggregates the audit trail into EU AI Act style
compliance reports.

Commands:
  measure   Score one (context, answer) pair against the engines
  report    Generate a compliance report from the audit log
  presets   List the industry compliance presets
  serve     Run the compliance report HTTP service`,
	Version: "1.0.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "veracity.yaml",
		"Path to the YAML configuration file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		config = cfg
		logger = logging.New(logging.Config{
			Level:   config.Logging.Level(),
			LogDir:  config.Logging.Dir,
			Service: "cli",
			JSON:    config.Logging.JSON,
		})
		return nil
	}
}
