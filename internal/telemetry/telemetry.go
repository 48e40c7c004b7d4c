package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

type Config struct {
	Enabled     bool
	ServiceName string
	// Prometheus exposes the meter provider through a scrape handler, with or
	// without OTLP export.
	Prometheus bool
	// Output receives console logs; defaults to stdout.
	Output io.Writer
}

type Telemetry struct {
	// MetricsHandler is nil unless Prometheus is enabled.
	MetricsHandler http.Handler
	Logger         *slog.Logger
	shutdown       []func(context.Context) error
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	var shutdownErr error
	for _, fn := range t.shutdown {
		shutdownErr = errors.Join(shutdownErr, fn(ctx))
	}
	return shutdownErr
}

// Setup installs the global logger, tracer and meter providers.
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	consoleHandler := slog.NewJSONHandler(output, nil)
	t := &Telemetry{}

	if !cfg.Enabled {
		if cfg.Prometheus {
			meterProvider, handler, err := NewPrometheusMeterProvider(nil)
			if err != nil {
				return nil, err
			}
			otel.SetMeterProvider(meterProvider)
			t.MetricsHandler = handler
			t.shutdown = append(t.shutdown, shutdownMeterProvider(meterProvider))
		}
		t.Logger = slog.New(consoleHandler)
		slog.SetDefault(t.Logger)
		return t, nil
	}

	traceExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	metricExporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	logExporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create otlp log exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	meterOptions := []sdkmetric.Option{
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(5*time.Second))),
		sdkmetric.WithResource(res),
	}
	if cfg.Prometheus {
		reader, err := newPrometheusReader()
		if err != nil {
			return nil, err
		}
		meterOptions = append(meterOptions, sdkmetric.WithReader(reader.exporter))
		t.MetricsHandler = reader.handler()
	}
	meterProvider := sdkmetric.NewMeterProvider(meterOptions...)

	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	global.SetLoggerProvider(loggerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otelHandler := otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(loggerProvider))
	t.Logger = slog.New(multiHandler{handlers: []slog.Handler{
		consoleHandler,
		otelHandler,
	}})
	slog.SetDefault(t.Logger)

	t.shutdown = append(t.shutdown,
		loggerProvider.Shutdown,
		meterProvider.Shutdown,
		tracerProvider.Shutdown,
	)
	return t, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (h multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var handleErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		handleErr = errors.Join(handleErr, handler.Handle(ctx, record.Clone()))
	}
	return handleErr
}

func (h multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		next = append(next, handler.WithAttrs(attrs))
	}
	return multiHandler{handlers: next}
}

func (h multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		next = append(next, handler.WithGroup(name))
	}
	return multiHandler{handlers: next}
}
