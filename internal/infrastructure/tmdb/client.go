// Package tmdb is the TMDB v3 adapter for the catalog.Client port.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/catalog"
	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// Endpoint names used for spans and metrics
const (
	EndpointSearch   = "search"
	EndpointCategory = "category"
	EndpointDetail   = "detail"
)

// maxErrorBody caps how much of an error response is kept for logging
const maxErrorBody = 512

// StatusError is a non-2xx response from TMDB.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb responded %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed if repeated.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records every upstream call
func WithMetrics(m *telemetry.CatalogMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client talks to the TMDB REST API.
type Client struct {
	http         *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	attempts     uint
	delay        time.Duration
	logger       *zap.Logger
	metrics      *telemetry.CatalogMetrics
}

var _ catalog.Client = (*Client)(nil)

// NewClient builds a client from the tmdb config section.
func NewClient(cfg config.TMDBConfig, log *zap.Logger, opts ...Option) *Client {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	c := &Client{
		http:         &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		attempts:     uint(attempts),
		delay:        cfg.RetryDelay,
		logger:       log.Named("tmdb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a title search.
func (c *Client) Search(ctx context.Context, query string, page int) (*catalog.Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var out catalog.Page
	if err := c.get(ctx, EndpointSearch, "/search/movie", params, &out); err != nil {
		return nil, err
	}
	c.decoratePage(&out)
	return &out, nil
}

// ListByCategory lists one of the curated category feeds.
func (c *Client) ListByCategory(ctx context.Context, category catalog.Category, page int) (*catalog.Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var out catalog.Page
	if err := c.get(ctx, EndpointCategory, "/movie/"+url.PathEscape(string(category)), params, &out); err != nil {
		return nil, err
	}
	c.decoratePage(&out)
	return &out, nil
}

// GetDetail fetches a single movie by its TMDB id.
func (c *Client) GetDetail(ctx context.Context, id string) (*catalog.MovieDetail, error) {
	var out catalog.MovieDetail
	if err := c.get(ctx, EndpointDetail, "/movie/"+url.PathEscape(id), url.Values{}, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, catalog.ErrMovieNotFound
		}
		return nil, err
	}
	out.PosterURL = catalog.PosterURL(c.imageBaseURL, out.PosterPath)
	return &out, nil
}

func (c *Client) decoratePage(p *catalog.Page) {
	if p.Results == nil {
		p.Results = []catalog.Movie{}
	}
	for i := range p.Results {
		p.Results[i].PosterURL = catalog.PosterURL(c.imageBaseURL, p.Results[i].PosterPath)
	}
}

// get performs a GET with retries and decodes the JSON body into out.
// Failures other than a StatusError are wrapped in catalog.ErrUpstream.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	ctx, span := telemetry.StartSpan(ctx, "tmdb."+endpoint,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("http.route", path),
	)
	defer span.End()

	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	target := c.baseURL + path + "?" + params.Encode()

	begin := time.Now()
	err := retry.Do(
		func() error { return c.fetch(ctx, target, out) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.log(ctx).Warn("Retrying catalog request",
				zap.String("endpoint", endpoint),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err == nil {
		c.metrics.Record(ctx, endpoint, telemetry.OutcomeOK, time.Since(begin))
		telemetry.SetOK(span)
		return nil
	}

	c.metrics.Record(ctx, endpoint, telemetry.OutcomeError, time.Since(begin))
	telemetry.RecordError(span, err)

	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode != http.StatusNotFound {
			c.log(ctx).Error("Catalog request failed",
				zap.String("endpoint", endpoint),
				zap.Int("status", se.StatusCode),
				zap.String("body", se.Body),
			)
		}
		return fmt.Errorf("%w: %w", catalog.ErrUpstream, se)
	}
	c.log(ctx).Error("Catalog request failed", zap.String("endpoint", endpoint), zap.Error(err))
	return fmt.Errorf("%w: %w", catalog.ErrUpstream, err)
}

func (c *Client) fetch(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("decode tmdb response: %w", err))
	}
	return nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return retry.IsRecoverable(err)
}

func (c *Client) log(ctx context.Context) *zap.Logger {
	l := c.logger
	if id := logger.GetRequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	if id := logger.GetTraceID(ctx); id != "" {
		l = l.With(zap.String("trace_id", id))
	}
	return l
}
