// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logx

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/neti-lang/neti"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	scanLatency   metric.Float64Histogram
	filesScanned  metric.Int64Counter
	violationsHit metric.Int64Counter
	scanErrors    metric.Int64Counter

	metricsOnce sync.Once
)

func initMetrics() {
	metricsOnce.Do(func() {
		var err error
		scanLatency, err = meter.Float64Histogram(
			"neti.scan.file_latency",
			metric.WithDescription("per-file Phase 1 analysis latency"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			Default().Warn("failed to create scan latency histogram", slog.Any("error", err))
		}
		filesScanned, err = meter.Int64Counter(
			"neti.scan.files_total",
			metric.WithDescription("files processed by Phase 1"),
		)
		if err != nil {
			Default().Warn("failed to create files-scanned counter", slog.Any("error", err))
		}
		violationsHit, err = meter.Int64Counter(
			"neti.scan.violations_total",
			metric.WithDescription("violations emitted across all detectors"),
		)
		if err != nil {
			Default().Warn("failed to create violations counter", slog.Any("error", err))
		}
		scanErrors, err = meter.Int64Counter(
			"neti.scan.errors_total",
			metric.WithDescription("per-file read/parse failures"),
		)
		if err != nil {
			Default().Warn("failed to create scan-errors counter", slog.Any("error", err))
		}
	})
}

// StartFileSpan begins a trace span for one file's Phase 1 analysis.
func StartFileSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	initMetrics()
	return tracer.Start(ctx, "neti.analyze_file", trace.WithAttributes())
}

// RecordFileMetrics records one file's analysis outcome against the
// process-wide meter instruments.
func RecordFileMetrics(ctx context.Context, start time.Time, violationCount int, failed bool) {
	initMetrics()
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0
	if scanLatency != nil {
		scanLatency.Record(ctx, elapsedMs)
	}
	if filesScanned != nil {
		filesScanned.Add(ctx, 1)
	}
	if violationsHit != nil && violationCount > 0 {
		violationsHit.Add(ctx, int64(violationCount))
	}
	if failed && scanErrors != nil {
		scanErrors.Add(ctx, 1)
	}
}
