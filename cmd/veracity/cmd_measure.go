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
	"time"

	"github.com/spf13/cobra"

	"github.com/veracityai/veracity/pkg/accuracy"
	"github.com/veracityai/veracity/pkg/audit"
	"github.com/veracityai/veracity/pkg/engines"
	"github.com/veracityai/veracity/pkg/monitor"
)

var (
	measureContext     string
	measureContextFile string
	measureAnswer      string
	measureAnswerFile  string
	measureFunction    string
)

// measureCmd scores one (context, answer) pair and appends the result to
// the audit log.
//
// # Examples
//
//	veracity measure --context "The sky is blue." --answer "The sky is blue."
//	veracity measure --context-file docs.txt --answer-file reply.txt
var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Score one (context, answer) pair against the engines",
	Long: `Runs the full accuracy pipeline for a single pair: semantic similarity,
NLI entailment, and lexical grounding. The measurement is appended to the
audit log and printed as JSON.

Requires the embedding and entailment sidecars configured under engines,
or OPENAI_API_KEY when the provider is "openai".`,
	RunE: runMeasureCommand,
}

func init() {
	measureCmd.Flags().StringVar(&measureContext, "context", "",
		"Context text the answer must be supported by")
	measureCmd.Flags().StringVar(&measureContextFile, "context-file", "",
		"Read the context from a file")
	measureCmd.Flags().StringVar(&measureAnswer, "answer", "",
		"Answer text to evaluate")
	measureCmd.Flags().StringVar(&measureAnswerFile, "answer-file", "",
		"Read the answer from a file")
	measureCmd.Flags().StringVar(&measureFunction, "function", "cli_measure",
		"Function name recorded in the audit entry")
	rootCmd.AddCommand(measureCmd)
}

// textFromFlags prefers the inline flag and falls back to the file flag.
func textFromFlags(inline, path, name string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return "", fmt.Errorf("either --%s or --%s-file is required", name, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func buildMeasurer() (*accuracy.Measurer, error) {
	var embedder engines.Embedder
	var err error

	switch config.Engines.Provider {
	case "openai":
		embedder, err = engines.NewOpenAIEmbedder()
		if err != nil {
			return nil, err
		}
	default:
		embedder = engines.NewHTTPEmbedder(config.Engines.EmbeddingURL)
	}

	similarity, err := engines.NewEmbeddingSimilarity(embedder, config.Engines.CacheSize)
	if err != nil {
		return nil, err
	}
	entailment := engines.NewHTTPEntailer(config.Engines.EntailmentURL)

	return accuracy.NewMeasurer(similarity, entailment, config.Accuracy)
}

func runMeasureCommand(cmd *cobra.Command, args []string) error {
	contextText, err := textFromFlags(measureContext, measureContextFile, "context")
	if err != nil {
		return err
	}
	answer, err := textFromFlags(measureAnswer, measureAnswerFile, "answer")
	if err != nil {
		return err
	}

	measurer, err := buildMeasurer()
	if err != nil {
		return err
	}

	writer, err := audit.NewWriter(config.AuditLogPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	mon, err := monitor.NewMonitor(measurer, writer,
		monitor.WithPreset(config.Preset),
		monitor.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	measurement, err := mon.Observe(cmd.Context(), measureFunction, monitor.RAGCall{
		Documents: []string{contextText},
		Answer:    answer,
	}, time.Since(start))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(measurement, "", "  ")
	if err != nil {
		return fmt.Errorf("encode measurement: %w", err)
	}
	out = append(out, '\n')
	_, err = os.Stdout.Write(out)
	return err
}
