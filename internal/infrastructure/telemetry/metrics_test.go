package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestHTTPMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewHTTPMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	done := metrics.Start(ctx, "GET")
	done("/api/movies", 200)
	metrics.Start(ctx, "POST")("", 404)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumValue(t, got["http_requests_total"]))
	assert.Equal(t, int64(0), sumValue(t, got["http_requests_in_flight"]))

	hist, ok := got["http_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)

	routes := map[string]bool{}
	for _, dp := range got["http_requests_total"].Data.(metricdata.Sum[int64]).DataPoints {
		route, _ := dp.Attributes.Value(AttrHTTPRoute)
		routes[route.AsString()] = true
	}
	assert.True(t, routes["/api/movies"])
	assert.True(t, routes["unmatched"])
}

func TestCatalogMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewCatalogMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.Record(ctx, "search", OutcomeOK, 30*time.Millisecond)
	metrics.Record(ctx, "search", OutcomeHit, 0)
	metrics.Record(ctx, "detail", OutcomeError, time.Second)

	got := collect(t, reader)
	assert.Equal(t, int64(3), sumValue(t, got["catalog_requests_total"]))

	hist := got["catalog_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count, "cache hits do not record latency")
}

func TestCatalogMetrics_NilReceiver(t *testing.T) {
	var metrics *CatalogMetrics
	assert.NotPanics(t, func() {
		metrics.Record(context.Background(), "search", OutcomeOK, time.Millisecond)
	})
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM users":           "SELECT",
		"  insert into reviews values":  "INSERT",
		"UPDATE users SET email = $1":   "UPDATE",
		"delete from favorite_movies":   "DELETE",
		"PRAGMA foreign_keys = ON":      "OTHER",
		"":                              "OTHER",
	}
	for stmt, want := range tests {
		t.Run(want+"/"+stmt, func(t *testing.T) {
			assert.Equal(t, want, detectOperationType(stmt))
		})
	}
}
