// Package trace owns the process tracer. Spans go to stdout by default or to
// TRACE_FILE so they stay out of the log stream.
package trace

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "portfolio-dashboard"

type Config struct {
	Enabled bool
	Pretty  bool
	// File receives spans when set, otherwise stdout.
	File string
}

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	output         io.Closer
	enabled        bool
)

func LoadConfigFromEnv() Config {
	on := getEnv("TRACE_ENABLED", getEnv("LOG_TRACING_ENABLED", "true"))
	return Config{
		Enabled: on == "true",
		Pretty:  getEnv("TRACE_PRETTY", "false") == "true",
		File:    os.Getenv("TRACE_FILE"),
	}
}

func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

func InitWithConfig(cfg Config) error {
	enabled = cfg.Enabled
	if !enabled {
		return nil
	}

	var w io.Writer = os.Stdout
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			enabled = false
			return fmt.Errorf("open trace file: %w", err)
		}
		w, output = f, f
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		enabled = false
		return err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		enabled = false
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer(ServiceName)
	return nil
}

// Shutdown flushes pending spans and closes TRACE_FILE.
func Shutdown(ctx context.Context) error {
	var err error
	if tracerProvider != nil {
		err = tracerProvider.Shutdown(ctx)
		tracerProvider = nil
	}
	if output != nil {
		if cerr := output.Close(); err == nil {
			err = cerr
		}
		output = nil
	}
	tracer = nil
	enabled = false
	return err
}

// StartSpan returns the span already in ctx when tracing is off.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func WithSymbol(symbol string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("symbol", symbol))
}

func WithRoute(route, method string) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("http.route", route),
		attribute.String("http.method", method),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
