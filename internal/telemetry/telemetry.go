package telemetry

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceNamespace = "fittrack"

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// OTLPEndpoint is host[:port][/base-path]; an http:// prefix disables TLS.
	// e.g. "otlp-gateway-prod-eu-west-2.grafana.net/otlp" or "http://localhost:4318"
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	Enabled      bool
}

// Provider holds the initialized OTEL providers
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// BasicAuthHeaders builds the Authorization header for collectors that use
// instanceID:token basic auth. Returns nil when either part is empty.
func BasicAuthHeaders(instanceID, token string) map[string]string {
	if instanceID == "" || token == "" {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(instanceID + ":" + token))
	return map[string]string{"Authorization": "Basic " + encoded}
}

// endpoint splits an OTLP endpoint into host, base path and whether TLS is off
func endpoint(raw string) (host, basePath string, insecure bool) {
	switch {
	case strings.HasPrefix(raw, "http://"):
		raw, insecure = strings.TrimPrefix(raw, "http://"), true
	case strings.HasPrefix(raw, "https://"):
		raw = strings.TrimPrefix(raw, "https://")
	}
	host, basePath, _ = strings.Cut(raw, "/")
	if basePath != "" {
		basePath = "/" + strings.TrimSuffix(basePath, "/")
	}
	return host, basePath, insecure
}

// Initialize sets up the global tracer and meter providers. Returns nil, nil when disabled.
func Initialize(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		logrus.Info("OpenTelemetry disabled")
		return nil, nil
	}
	if cfg.OTLPEndpoint == "" {
		return nil, fmt.Errorf("OTEL is enabled but no OTLP endpoint is set")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
			attribute.String("service.namespace", serviceNamespace),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	host, basePath, insecure := endpoint(cfg.OTLPEndpoint)

	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(host),
		otlptracehttp.WithURLPath(basePath + "/v1/traces"),
		otlptracehttp.WithHeaders(cfg.OTLPHeaders),
	}
	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(host),
		otlpmetrichttp.WithURLPath(basePath + "/v1/metrics"),
		otlpmetrichttp.WithHeaders(cfg.OTLPHeaders),
	}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter,
			trace.WithBatchTimeout(5*time.Second),
		),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(30*time.Second),
		)),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	logrus.WithFields(logrus.Fields{
		"endpoint": host + basePath,
		"service":  cfg.ServiceName,
	}).Info("OpenTelemetry initialized")

	return &Provider{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, nil
}

// Shutdown flushes and stops the providers. Safe on a nil Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	logrus.Info("shutting down OpenTelemetry")

	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("otel shutdown: %v", errs)
	}
	return nil
}
