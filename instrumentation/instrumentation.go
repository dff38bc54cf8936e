package instrumentation

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	DefaultServiceName    = "github-mcp-bridge"
	DefaultServiceVersion = "unknown"

	meterName = "github.com/jrsteele09/github-mcp-bridge"
)

type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled selects the SDK meter provider. When false a no-op provider is used.
	Enabled bool

	// Reader receives collected metrics. When nil, metrics are exported
	// periodically as JSON to ExportWriter.
	Reader sdkmetric.Reader

	// SpanProcessor receives finished spans. When nil, spans are batched and
	// exported as JSON to ExportWriter.
	SpanProcessor sdktrace.SpanProcessor

	// ExportWriter is the destination of the stdout exporters. Defaults to os.Stdout.
	ExportWriter io.Writer

	// ExportInterval is how often metrics are exported. Defaults to one minute.
	ExportInterval time.Duration
}

type Instrumentation struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metrics        *Metrics

	shutdownFuncs []func(context.Context) error
	shutdownOnce  sync.Once
}

func New(config Config) (*Instrumentation, error) {
	if config.ServiceName == "" {
		config.ServiceName = DefaultServiceName
	}
	if config.ServiceVersion == "" {
		config.ServiceVersion = DefaultServiceVersion
	}

	inst := &Instrumentation{}
	if config.Enabled {
		res, err := resource.New(
			context.Background(),
			resource.WithAttributes(
				semconv.ServiceName(config.ServiceName),
				semconv.ServiceVersion(config.ServiceVersion),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create resource: %w", err)
		}

		reader, err := metricReader(config)
		if err != nil {
			return nil, err
		}
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
		inst.meterProvider = provider
		inst.shutdownFuncs = append(inst.shutdownFuncs, provider.Shutdown)

		processor, err := spanProcessor(config)
		if err != nil {
			return nil, err
		}
		tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res), sdktrace.WithSpanProcessor(processor))
		inst.tracerProvider = tracerProvider
		inst.shutdownFuncs = append(inst.shutdownFuncs, tracerProvider.Shutdown)
	} else {
		inst.meterProvider = noop.NewMeterProvider()
		inst.tracerProvider = tracenoop.NewTracerProvider()
	}

	metrics, err := newMetrics(inst.meterProvider.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	inst.metrics = metrics
	return inst, nil
}

func exportWriter(config Config) io.Writer {
	if config.ExportWriter != nil {
		return config.ExportWriter
	}
	return os.Stdout
}

func metricReader(config Config) (sdkmetric.Reader, error) {
	if config.Reader != nil {
		return config.Reader, nil
	}
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(exportWriter(config)))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	var opts []sdkmetric.PeriodicReaderOption
	if config.ExportInterval > 0 {
		opts = append(opts, sdkmetric.WithInterval(config.ExportInterval))
	}
	return sdkmetric.NewPeriodicReader(exporter, opts...), nil
}

func spanProcessor(config Config) (sdktrace.SpanProcessor, error) {
	if config.SpanProcessor != nil {
		return config.SpanProcessor, nil
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(exportWriter(config)))
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}
	return sdktrace.NewBatchSpanProcessor(exporter), nil
}

func (i *Instrumentation) Metrics() *Metrics {
	return i.metrics
}

// Tracer returns a tracer named after the given scope.
func (i *Instrumentation) Tracer(scope string) trace.Tracer {
	return i.tracerProvider.Tracer(meterName + "/" + scope)
}

// Shutdown flushes and stops the providers. Only the first call has any effect.
func (i *Instrumentation) Shutdown(ctx context.Context) error {
	var shutdownErr error
	i.shutdownOnce.Do(func() {
		for _, fn := range i.shutdownFuncs {
			if err := fn(ctx); err != nil {
				shutdownErr = fmt.Errorf("shutdown: %w", err)
			}
		}
	})
	return shutdownErr
}
