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

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/veracityai/veracity/pkg/accuracy"
	"github.com/veracityai/veracity/pkg/compliance"
	"github.com/veracityai/veracity/pkg/logging"
)

// Config is the CLI configuration, loaded from a YAML file. Missing file
// falls back to defaults so read-only commands work out of the box.
type Config struct {
	// AuditLogPath is the JSONL audit trail read by report commands and
	// appended to by measure.
	AuditLogPath string `yaml:"audit_log_path" validate:"required"`

	// Preset names the compliance preset in force.
	Preset string `yaml:"preset" validate:"required"`

	// ListenAddr is the serve command's bind address.
	ListenAddr string `yaml:"listen_addr"`

	Engines  EnginesConfig         `yaml:"engines"`
	Accuracy accuracy.Config       `yaml:"accuracy"`
	System   compliance.SystemInfo `yaml:"system"`
	Logging  LoggingConfig         `yaml:"logging"`
}

// EnginesConfig points at the inference sidecars.
type EnginesConfig struct {
	// EmbeddingURL is the embedding sidecar base URL. Ignored when
	// Provider is "openai".
	EmbeddingURL string `yaml:"embedding_url" validate:"omitempty,url"`

	// EntailmentURL is the NLI sidecar base URL.
	EntailmentURL string `yaml:"entailment_url" validate:"omitempty,url"`

	// Provider selects the embedding backend: "http" or "openai".
	Provider string `yaml:"provider" validate:"omitempty,oneof=http openai"`

	// CacheSize bounds the embedding cache.
	CacheSize int `yaml:"cache_size" validate:"gte=0"`
}

// LoggingConfig mirrors pkg/logging options in YAML form.
type LoggingConfig struct {
	// LevelName is one of debug, info, warn, error.
	LevelName string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// Dir enables file logging.
	Dir string `yaml:"dir"`

	// JSON switches stderr output to JSON.
	JSON bool `yaml:"json"`
}

// Level maps the configured name onto a logging level, defaulting to Info.
func (c LoggingConfig) Level() logging.Level {
	switch c.LevelName {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// DefaultConfig returns a runnable local configuration.
func DefaultConfig() Config {
	return Config{
		AuditLogPath: "veracity_audit.jsonl",
		Preset:       "general",
		ListenAddr:   ":8080",
		Engines: EnginesConfig{
			EmbeddingURL:  "http://localhost:8001",
			EntailmentURL: "http://localhost:8002",
			Provider:      "http",
			CacheSize:     1024,
		},
		Accuracy: accuracy.DefaultConfig(),
	}
}

// LoadConfig reads and validates the YAML config at path. A missing file
// is not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}

	if _, err := compliance.ResolvePreset(cfg.Preset); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
