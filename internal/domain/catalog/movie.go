// Package catalog describes the read-only external movie database.
package catalog

import (
	"context"
	"strings"

	"github.com/moviecatalog/backend/internal/domain/shared"
)

// MaxPage is the highest page the upstream catalog serves
const MaxPage = 500

// Catalog errors
var (
	ErrMovieNotFound = shared.NewDomainError("MOVIE_NOT_FOUND", "Movie not found")
	ErrUpstream      = shared.NewDomainError("CATALOG_UNAVAILABLE", "Movie catalog is unavailable")
)

// Genre is a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a movie summary as listed by the catalog
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	PosterURL   string  `json:"poster_url"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`
}

// MovieDetail is the full record of a single movie
type MovieDetail struct {
	Movie
	Runtime int     `json:"runtime"`
	Tagline string  `json:"tagline"`
	Status  string  `json:"status"`
	Genres  []Genre `json:"genres"`
}

// Page is one page of catalog results
type Page struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

// Client is the port to the external movie database
type Client interface {
	Search(ctx context.Context, query string, page int) (*Page, error)
	ListByCategory(ctx context.Context, category Category, page int) (*Page, error)
	GetDetail(ctx context.Context, id string) (*MovieDetail, error)
}

// PosterURL joins an image base URL and a poster path. Absolute URLs pass through.
func PosterURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(baseURL, "/") + path
}
