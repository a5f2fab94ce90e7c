// Package catalog serves read-only lookups against the external movie database.
package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/catalog"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// maxQueryLength bounds search terms forwarded upstream
const maxQueryLength = 200

// MovieService validates catalog requests before they reach the client
type MovieService struct {
	client catalog.Client
}

// NewMovieService creates a new movie service
func NewMovieService(client catalog.Client) *MovieService {
	return &MovieService{client: client}
}

// List returns a page of a curated category. An empty category means popular.
func (s *MovieService) List(ctx context.Context, category, page string) (*catalog.Page, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list")
	defer span.End()

	c, err := catalog.ParseCategory(strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	p, err := ParsePage(page)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCategory, string(c), telemetry.SpanAttrPage, p)

	result, err := s.client.ListByCategory(ctx, c, p)
	if err != nil {
		return nil, upstreamError(ctx, err)
	}
	return result, nil
}

// Search looks movies up by title
func (s *MovieService) Search(ctx context.Context, query, page string) (*catalog.Page, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Query is required")
	}
	if len(query) > maxQueryLength {
		return nil, shared.ErrInvalidInput.WithMessage("Query cannot exceed 200 characters")
	}
	p, err := ParsePage(page)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrQuery, query, telemetry.SpanAttrPage, p)

	result, err := s.client.Search(ctx, query, p)
	if err != nil {
		return nil, upstreamError(ctx, err)
	}
	return result, nil
}

// Detail returns one movie by its external id
func (s *MovieService) Detail(ctx context.Context, id string) (*catalog.MovieDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "detail")
	defer span.End()

	id = strings.TrimSpace(id)
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n < 1 {
		return nil, shared.ErrInvalidInput.WithMessage("Movie id must be a positive integer")
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrMovieID, id)

	detail, err := s.client.GetDetail(ctx, strconv.FormatInt(n, 10))
	if err != nil {
		return nil, upstreamError(ctx, err)
	}
	return detail, nil
}

// ParsePage parses a 1-based page number. Blank means the first page.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > catalog.MaxPage {
		return 0, shared.ErrInvalidInput.WithMessage("Page must be an integer between 1 and 500")
	}
	return page, nil
}

func upstreamError(ctx context.Context, err error) error {
	if errors.Is(err, catalog.ErrMovieNotFound) {
		return catalog.ErrMovieNotFound
	}
	if !errors.Is(err, catalog.ErrUpstream) {
		logger.L(ctx).Error("Unexpected catalog failure", zap.Error(err))
	}
	return catalog.ErrUpstream
}
