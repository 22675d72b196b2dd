// Package observability wires logging, metrics and tracing for the service.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/metrics"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	ServiceName      = "rhythm-ranking"
	metricsNamespace = "ranking"
)

// Observability bundles the logger, metrics and tracer handed to every module.
type Observability struct {
	Logger   *slog.Logger
	Metrics  metrics.Metrics
	Registry *prometheus.Registry
	Tracer   trace.Tracer

	shutdownFuncs []func(context.Context) error
}

// Init builds the observability stack from configuration.
func Init(ctx context.Context, cfg config.ObservabilityConfig) (*Observability, error) {
	logger := NewLogger(os.Stdout, cfg.LogLevel).With(
		attr.String("service", ServiceName),
		attr.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m, err := metrics.NewPrometheusMetrics(registry, metricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	obs := &Observability{
		Logger:   logger,
		Metrics:  m,
		Registry: registry,
	}

	if cfg.TempoEndpoint == "" {
		logger.InfoContext(ctx, "Tracing disabled, no tempo endpoint configured")
		obs.Tracer = noop.NewTracerProvider().Tracer(ServiceName)
		return obs, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.TempoEndpoint)}
	if cfg.TempoInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TempoSampleRate))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
			attribute.String("deployment.environment", cfg.Environment),
		)),
	)
	otel.SetTracerProvider(tp)

	obs.Tracer = tp.Tracer(ServiceName)
	obs.shutdownFuncs = append(obs.shutdownFuncs, tp.Shutdown)

	logger.InfoContext(ctx, "Tracing enabled", attr.String("endpoint", cfg.TempoEndpoint))
	return obs, nil
}

// NewNoop returns an Observability that discards everything. Used by tests and
// the one-shot CLI commands.
func NewNoop() *Observability {
	return &Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:  metrics.NewNoop(),
		Registry: prometheus.NewRegistry(),
		Tracer:   noop.NewTracerProvider().Tracer(ServiceName),
	}
}

// NewLogger builds a JSON slog logger at the given level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ServeMetrics exposes the Prometheus registry until ctx is cancelled.
// An empty address disables the endpoint.
func (o *Observability) ServeMetrics(ctx context.Context, address string) error {
	if address == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{Registry: o.Registry}))

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	o.Logger.InfoContext(ctx, "Serving metrics", attr.String("address", address))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Shutdown flushes exporters.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range o.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
