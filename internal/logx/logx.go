// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logx wires structured logging (log/slog) together with
// OpenTelemetry tracing and metrics for one process-wide logger.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

// Config selects where structured logs are written and at what level.
type Config struct {
	Level  slog.Level
	Output io.Writer // defaults to os.Stderr
	JSON   bool
}

var (
	defaultLogger     *slog.Logger
	defaultLoggerOnce sync.Once
)

// Default returns the process-wide logger, lazily built on first use with
// level Info writing text-formatted records to stderr.
func Default() *slog.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New(Config{Level: slog.LevelInfo, Output: os.Stderr})
	})
	return defaultLogger
}

// New builds a logger from cfg. Passing JSON selects slog.JSONHandler,
// otherwise slog.TextHandler; this mirrors the console-vs-machine-report
// split used elsewhere in the toolchain.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// WithTrace enriches logger with the active span's trace/span IDs, if
// ctx carries a recording span. Call sites that log from within a traced
// operation should use the returned logger instead of the bare one.
func WithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	sc := span.SpanContext()
	return logger.With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}
