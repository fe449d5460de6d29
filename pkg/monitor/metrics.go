// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package monitor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("veracity.monitor")

var (
	measurementsTotal  metric.Int64Counter
	hallucinationsTotal metric.Int64Counter
	engineErrorsTotal  metric.Int64Counter

	accuracyHistogram metric.Float64Histogram
	measureDuration   metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		measurementsTotal, err = meter.Int64Counter(
			"monitor_measurements_total",
			metric.WithDescription("Total measurements by call kind and compliance outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		hallucinationsTotal, err = meter.Int64Counter(
			"monitor_hallucinations_total",
			metric.WithDescription("Total measurements flagged as hallucinations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		engineErrorsTotal, err = meter.Int64Counter(
			"monitor_engine_errors_total",
			metric.WithDescription("Total monitored calls whose measurement failed"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		accuracyHistogram, err = meter.Float64Histogram(
			"monitor_accuracy_score",
			metric.WithDescription("Composite accuracy score distribution"),
			metric.WithUnit("1"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		measureDuration, err = meter.Float64Histogram(
			"monitor_measure_duration_seconds",
			metric.WithDescription("Measurement pipeline duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordMeasurement records telemetry for a completed measurement.
//
// Thread Safety: Safe for concurrent use.
func recordMeasurement(ctx context.Context, kind CallKind, compliant, hallucination bool, score float64, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	outcome := "compliant"
	if !compliant {
		outcome = "non_compliant"
	}

	attrs := metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("outcome", outcome),
	)

	measurementsTotal.Add(ctx, 1, attrs)
	accuracyHistogram.Record(ctx, score, attrs)
	measureDuration.Record(ctx, duration.Seconds(), attrs)

	if hallucination {
		hallucinationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
	}
}

// recordEngineError records a failed measurement attempt.
//
// Thread Safety: Safe for concurrent use.
func recordEngineError(ctx context.Context, kind CallKind) {
	if err := initMetrics(); err != nil {
		return
	}
	engineErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}
