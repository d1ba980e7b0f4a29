package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nami-server/internal/infra/node"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	_defaultCollector  = "localhost:4317"
	_collectorEnv      = "NAMI_SERVER_OTELCOL_ENDPOINT"
	_exportInterval    = 30 * time.Second
	_exportTimeout     = 35 * time.Second
	_memStatsInterval  = time.Minute
	_telemetryShutdown = 10 * time.Second
)

// telemetry owns the OTel providers exporting to the collector.
type telemetry struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

func collectorEndpoint() string {
	if value, ok := os.LookupEnv(_collectorEnv); ok && value != "" {
		return value
	}
	return _defaultCollector
}

func serviceResource(info *node.Node) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("nami-server"),
		semconv.ServiceVersionKey.String(info.Version),
		semconv.ServiceInstanceIDKey.String(info.ID),
	)
}

func startTelemetry(ctx context.Context, info *node.Node) (*telemetry, error) {
	endpoint := collectorEndpoint()
	res := serviceResource(info)

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}

	t := &telemetry{
		tracer: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		),
		meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(_exportInterval),
				sdkmetric.WithTimeout(_exportTimeout),
			)),
		),
	}
	otel.SetTracerProvider(t.tracer)
	otel.SetMeterProvider(t.meter)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(_memStatsInterval)); err != nil {
		return nil, fmt.Errorf("runtime metrics: %w", err)
	}

	slog.Info("telemetry started", slog.String("collector", endpoint))
	return t, nil
}

// Shutdown flushes both providers, bounded so a missing collector cannot
// hold up the process.
func (t *telemetry) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), _telemetryShutdown)
	defer cancel()
	return errors.Join(t.meter.Shutdown(ctx), t.tracer.Shutdown(ctx))
}
