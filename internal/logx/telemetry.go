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
	"sync"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var telemetryOnce sync.Once

// InitTelemetry installs process-wide SDK tracer and meter providers so
// that StartFileSpan/RecordFileMetrics have somewhere to record to. A
// local, non-exporting SDK provider is installed rather than the global
// no-op API implementation: spans and metrics are retained in-process
// (sampled at AlwaysSample) so a collaborator embedding this core as a
// library can attach its own span processor or reader later via
// TracerProvider/MeterProvider, without the core depending on any one
// backend (Jaeger, OTLP, Prometheus).
//
// Safe to call more than once; only the first call takes effect.
func InitTelemetry(serviceName string) (shutdown func(context.Context) error) {
	var tp *sdktrace.TracerProvider
	var mp *sdkmetric.MeterProvider

	telemetryOnce.Do(func() {
		tp = sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
		mp = sdkmetric.NewMeterProvider()
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
	})

	return func(ctx context.Context) error {
		if tp == nil {
			return nil
		}
		if err := mp.Shutdown(ctx); err != nil {
			return err
		}
		return tp.Shutdown(ctx)
	}
}
