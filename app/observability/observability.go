package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config selects how logs, traces and metrics are produced.
type Config struct {
	ServiceName    string
	Environment    string
	LogLevel       string
	MetricsAddress string
}

// Observability bundles the process-wide logger, tracer and metrics registry.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry

	metricsServer *http.Server
}

// Init builds the logger, tracer and registry. Tracing uses the global otel provider,
// which is a no-op unless an exporter has been installed.
func Init(cfg Config) *Observability {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if cfg.Environment == "development" || cfg.Environment == "test" {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}
	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(cfg.ServiceName),
		Registry: reg,
	}
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// MetricsHandler serves the registry in the Prometheus exposition format.
func (o *Observability) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{Registry: o.Registry})
}

// StartMetricsServer serves /metrics on addr in the background. An empty addr does nothing.
func (o *Observability) StartMetricsServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", o.MetricsHandler())
	o.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		o.Logger.Info("Metrics server listening", slog.String("address", addr))
		if err := o.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.Logger.Error("Metrics server failed", slog.Any("error", err))
		}
	}()
}

// Shutdown stops the metrics server if one is running.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o.metricsServer == nil {
		return nil
	}
	if err := o.metricsServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop metrics server: %w", err)
	}
	return nil
}
