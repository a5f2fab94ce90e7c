package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// DefaultExportInterval is how often metrics are pushed to the collector
const DefaultExportInterval = 60 * time.Second

// MeterName is the instrumentation scope of this service's instruments
const MeterName = "movie-catalog"

// MeterProvider owns the SDK meter provider and its periodic reader.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   Config
}

// NewMeterProvider installs an OTLP/gRPC meter provider as the global one.
// When metrics are disabled the returned provider hands out no-op meters.
func NewMeterProvider(ctx context.Context, cfg Config, interval time.Duration, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}
	if interval <= 0 {
		interval = DefaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Shutdown flushes pending measurements and stops the reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := mp.provider.Shutdown(ctx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.logger.Info("OpenTelemetry MeterProvider shutdown complete")
	return nil
}

// Meter returns a named meter, falling back to the global provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp == nil || mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled reports whether measurements are exported.
func (mp *MeterProvider) IsEnabled() bool {
	return mp != nil && mp.config.Enabled && mp.provider != nil
}

// Counter wraps a monotonically increasing int64 instrument.
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter on meter.
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Inc adds one.
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram wraps a float64 distribution instrument.
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram with explicit bucket boundaries when given.
func NewHistogram(meter metric.Meter, name, description, unit string, boundaries ...float64) (*Histogram, error) {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(description),
		metric.WithUnit(unit),
	}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := meter.Float64Histogram(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return &Histogram{histogram: h}, nil
}

// RecordDuration records d in seconds.
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

// Metric attribute keys
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBState     = attribute.Key("db.pool.state")

	AttrCatalogEndpoint = attribute.Key("catalog.endpoint")
	AttrCatalogOutcome  = attribute.Key("catalog.outcome")
)

// Histogram bucket boundaries in seconds
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	DBDurationBuckets   = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)

// HTTPMetrics holds the request instruments recorded by the HTTP middleware.
type HTTPMetrics struct {
	requests *Counter
	duration *Histogram
	inFlight metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP server instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := NewCounter(meter, "http_requests_total", "Total HTTP requests by route and status", "{request}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "http_request_duration_seconds", "HTTP request latency", "s", HTTPDurationBuckets...)
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("http_requests_in_flight",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create up-down counter http_requests_in_flight: %w", err)
	}
	return &HTTPMetrics{requests: requests, duration: duration, inFlight: inFlight}, nil
}

// Start marks a request as in flight. The returned func records its completion.
func (m *HTTPMetrics) Start(ctx context.Context, method string) func(route string, status int) {
	begin := time.Now()
	m.inFlight.Add(ctx, 1, metric.WithAttributes(AttrHTTPMethod.String(method)))
	return func(route string, status int) {
		m.inFlight.Add(ctx, -1, metric.WithAttributes(AttrHTTPMethod.String(method)))
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			AttrHTTPMethod.String(method),
			AttrHTTPRoute.String(route),
			AttrHTTPStatusCode.Int(status),
		}
		m.requests.Inc(ctx, attrs...)
		m.duration.RecordDuration(ctx, time.Since(begin), attrs...)
	}
}

// CatalogMetrics records calls to the external movie catalog.
type CatalogMetrics struct {
	calls    *Counter
	duration *Histogram
}

// NewCatalogMetrics creates the catalog client instruments on meter.
func NewCatalogMetrics(meter metric.Meter) (*CatalogMetrics, error) {
	calls, err := NewCounter(meter, "catalog_requests_total", "Catalog lookups by endpoint and outcome", "{request}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "catalog_request_duration_seconds", "Catalog upstream latency", "s", HTTPDurationBuckets...)
	if err != nil {
		return nil, err
	}
	return &CatalogMetrics{calls: calls, duration: duration}, nil
}

// Catalog lookup outcomes
const (
	OutcomeHit   = "cache_hit"
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Record counts one lookup. Upstream outcomes also record latency.
func (m *CatalogMetrics) Record(ctx context.Context, endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrCatalogEndpoint.String(endpoint), AttrCatalogOutcome.String(outcome)}
	m.calls.Inc(ctx, attrs...)
	if outcome != OutcomeHit {
		m.duration.RecordDuration(ctx, elapsed, attrs...)
	}
}
