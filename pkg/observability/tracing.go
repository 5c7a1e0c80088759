// Package observability wires OpenTelemetry tracing for typedbuf commands.
// Logging lives in pkg/logger and Prometheus metrics in pkg/metrics.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
)

const tracerName = "github.com/ajitpratap0/typedbuf"

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	SamplingRate   float64
	// Writer receives exported spans. Nil means stderr so spans never mix
	// with command output.
	Writer       io.Writer
	PrettyPrint  bool
	BatchTimeout time.Duration
}

// DefaultTracingConfig samples everything and writes to stderr.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "typedbuf",
		ServiceVersion: "dev",
		SamplingRate:   1.0,
		BatchTimeout:   time.Second,
	}
}

// ShutdownFunc flushes and stops a tracer provider.
type ShutdownFunc func(context.Context) error

// InitTracing installs a global tracer provider exporting through
// stdouttrace. The returned function must be called before exit.
func InitTracing(cfg TracingConfig) (ShutdownFunc, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create resource")
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create stdout exporter")
	}

	var batch []sdktrace.BatchSpanProcessorOption
	if cfg.BatchTimeout > 0 {
		batch = append(batch, sdktrace.WithBatchTimeout(cfg.BatchTimeout))
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplingRate)),
		sdktrace.WithBatcher(exporter, batch...),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Span wraps an OpenTelemetry span and times the operation it covers.
type Span struct {
	span      trace.Span
	timer     *metrics.Timer
	operation string
}

// StartSpan starts a span on the global tracer provider. Without
// InitTracing the span is a no-op but latency is still recorded.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, operation)
	return ctx, &Span{span: span, timer: metrics.NewTimer(operation), operation: operation}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue
	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}
	s.span.SetAttributes(attr)
}

// End records err, if any, and ends the span.
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		s.span.SetAttributes(attribute.String("error.type", string(errors.TypeOf(err))))
		metrics.ObserveError(s.operation, err)
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.timer.Stop()
	s.span.End()
}

// Trace runs fn inside a span named operation.
func Trace(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := StartSpan(ctx, operation)
	err := fn(ctx)
	span.End(err)
	return err
}
