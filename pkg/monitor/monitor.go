// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veracityai/veracity/pkg/accuracy"
	"github.com/veracityai/veracity/pkg/audit"
	"github.com/veracityai/veracity/pkg/logging"
)

// ErrInvalidCall indicates a call the monitor cannot observe.
var ErrInvalidCall = errors.New("invalid monitored call")

// AlertFunc is invoked after a hallucination-flagged measurement is
// logged. It runs on the observing goroutine; keep it fast or hand off.
type AlertFunc func(ctx context.Context, function string, m *accuracy.Measurement)

// Monitor observes LLM-backed calls end to end.
//
// # Description
//
// Each observed call moves through a fixed lifecycle: measured, appended
// to the audit trail, and optionally alerted on. Engine failures take the
// error path: the failure is appended as an error-type audit entry and
// returned to the caller. There is no retry in either path; the caller
// owns retry policy.
//
// The measured function's own result is never touched. Monitoring rides
// alongside the call, it does not gate it.
//
// # Thread Safety
//
// Safe for concurrent use; the audit writer serializes appends.
type Monitor struct {
	measurer *accuracy.Measurer
	writer   *audit.Writer
	logger   *logging.Logger
	preset   string
	alert    AlertFunc
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPreset records the named compliance preset on every audit entry.
func WithPreset(name string) Option {
	return func(m *Monitor) { m.preset = name }
}

// WithAlert installs a hook invoked after each hallucination is logged.
func WithAlert(fn AlertFunc) Option {
	return func(m *Monitor) { m.alert = fn }
}

// WithLogger overrides the default logger.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Monitor) { m.logger = logger }
}

// NewMonitor creates a Monitor over a measurer and an audit writer.
func NewMonitor(measurer *accuracy.Measurer, writer *audit.Writer, opts ...Option) (*Monitor, error) {
	if measurer == nil {
		return nil, fmt.Errorf("%w: measurer is nil", ErrInvalidCall)
	}
	if writer == nil {
		return nil, fmt.Errorf("%w: audit writer is nil", ErrInvalidCall)
	}

	m := &Monitor{
		measurer: measurer,
		writer:   writer,
		logger:   logging.Default().With("component", "monitor"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Observe measures one completed call and appends the outcome to the
// audit trail.
//
// # Inputs
//
//   - ctx: Context passed through to the engines.
//   - function: Name of the monitored function, recorded on the entry.
//   - call: The call variant supplying (context, answer).
//   - callDuration: Wall time of the monitored call itself.
//
// # Outputs
//
//   - *accuracy.Measurement: The logged measurement.
//   - error: Engine or audit failure. On engine failure an error entry
//     has already been appended.
func (m *Monitor) Observe(ctx context.Context, function string, call Call, callDuration time.Duration) (*accuracy.Measurement, error) {
	if call == nil {
		return nil, fmt.Errorf("%w: nil call", ErrInvalidCall)
	}

	contextText, answer := call.Extract()
	durationMS := float64(callDuration.Microseconds()) / 1000.0

	start := time.Now()
	measurement, err := m.measurer.Measure(ctx, contextText, answer)
	if err != nil {
		recordEngineError(ctx, call.Kind())
		m.logger.Error("measurement failed",
			"function", function,
			"kind", string(call.Kind()),
			"error", err.Error(),
		)

		entry, entryErr := audit.NewErrorEntry(function, m.preset, durationMS, err)
		if entryErr == nil {
			if writeErr := m.writer.Write(entry); writeErr != nil {
				m.logger.Error("error entry not persisted", "function", function, "error", writeErr.Error())
			}
		}
		return nil, err
	}

	entry, err := audit.NewRequestEntry(function, m.preset, durationMS, measurement)
	if err != nil {
		return nil, err
	}
	if err := m.writer.Write(entry); err != nil {
		return nil, fmt.Errorf("persist measurement: %w", err)
	}

	recordMeasurement(ctx, call.Kind(), measurement.IsCompliant, measurement.IsHallucination,
		measurement.AccuracyScore, time.Since(start))

	m.logger.Info("call measured",
		"function", function,
		"kind", string(call.Kind()),
		"accuracy", measurement.AccuracyScore,
		"compliant", measurement.IsCompliant,
		"hallucination", measurement.IsHallucination,
	)

	if measurement.IsHallucination && m.alert != nil {
		m.alert(ctx, function, measurement)
	}

	return measurement, nil
}
