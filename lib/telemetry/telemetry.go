// Package telemetry sets up the OpenTelemetry tracer and meter providers the
// process exports to. It is separate from internal/components/telemetry, which is
// the reporting interface components log through.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

// Telemetry holds the providers that were installed globally, either may be nil
// when its signal has no endpoint configured.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		errlist = append(errlist, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errlist = append(errlist, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errlist...)
}

// Setup installs the global tracer and meter providers. A signal without an
// endpoint is left on the otel no-op default.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	out := Telemetry{}
	if !config.Otlp.Traces.enabled() && !config.Otlp.Metrics.enabled() {
		return out, nil
	}

	r, err := newResource(serviceName)
	if err != nil {
		return out, err
	}

	if config.Otlp.Traces.enabled() {
		out.TracerProvider, err = newTraceProvider(ctx, r, config.Otlp.Traces)
		if err != nil {
			return out, err
		}
		otel.SetTracerProvider(out.TracerProvider)
	}
	if config.Otlp.Metrics.enabled() {
		out.MeterProvider, err = newMetricProvider(ctx, r, config.Otlp.Metrics)
		if err != nil {
			return out, err
		}
		otel.SetMeterProvider(out.MeterProvider)
	}

	return out, nil
}
