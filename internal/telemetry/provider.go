// Package telemetry installs the OpenTelemetry tracer provider used for
// plugin call-in spans.
package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// EnvEndpoint is the OTLP/HTTP endpoint spans are exported to.
	EnvEndpoint = "MODHOOK_OTEL_ENDPOINT"
	// EnvEnabled set to "false" disables export even with an endpoint.
	EnvEnabled = "MODHOOK_OTEL_ENABLED"
)

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when MODHOOK_OTEL_ENDPOINT is empty or
// MODHOOK_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and the global provider is left alone, so plugin spans cost nothing.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return noop, nil
	}

	endpoint := os.Getenv(EnvEndpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
