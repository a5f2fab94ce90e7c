package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/moviecatalog/backend/internal/domain/catalog"
	"github.com/moviecatalog/backend/internal/domain/collection"
)

const dateLayout = "2006-01-02"

// fieldError reports a payload field with an unusable JSON type
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return e.field + " " + e.reason
}

// FlexibleID is an identifier sent either as a JSON string or a number
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return &fieldError{field: "id", reason: "must be a string or a number"}
		}
		*f = FlexibleID(n.String())
	}
	return nil
}

// GenreList accepts genre names or catalog genre objects
type GenreList []string

// UnmarshalJSON implements json.Unmarshaler
func (g *GenreList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = nil
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return &fieldError{field: "genres", reason: "must be an array"}
	}

	genres := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			genres = append(genres, name)
			continue
		}
		var genre catalog.Genre
		if err := json.Unmarshal(item, &genre); err != nil {
			return &fieldError{field: "genres", reason: "must contain names or {id, name} objects"}
		}
		genres = append(genres, genre.Name)
	}
	*g = genres
	return nil
}

// MoviePayload is the movie sent by the front-end when adding to a
// collection. It accepts both our own field names and raw catalog fields.
type MoviePayload struct {
	ID          FlexibleID `json:"id"`
	Title       string     `json:"title"`
	ImageURL    string     `json:"imageUrl"`
	PosterPath  string     `json:"poster_path"`
	Overview    string     `json:"overview"`
	ReleaseDate string     `json:"release_date"`
	Rating      *float64   `json:"rating"`
	VoteAverage *float64   `json:"vote_average"`
	Genres      GenreList  `json:"genres"`
}

// ToMovie applies the payload defaults. imageBaseURL prefixes bare poster paths.
func (p *MoviePayload) ToMovie(imageBaseURL string) collection.Movie {
	movie := collection.Movie{
		ExternalID:  string(p.ID),
		Title:       p.Title,
		ImageURL:    p.ImageURL,
		Overview:    p.Overview,
		ReleaseDate: parseReleaseDate(p.ReleaseDate),
		Genres:      []string(p.Genres),
	}
	if strings.TrimSpace(movie.ImageURL) == "" {
		movie.ImageURL = catalog.PosterURL(imageBaseURL, p.PosterPath)
	}
	switch {
	case p.Rating != nil:
		movie.Rating = *p.Rating
	case p.VoteAverage != nil:
		movie.Rating = *p.VoteAverage
	}
	return movie
}

// parseReleaseDate accepts a plain date or an RFC3339 timestamp. Anything
// else is treated as unknown.
func parseReleaseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}

// ReviewRating is a rating sent as a JSON number or a numeric string
type ReviewRating string

// UnmarshalJSON implements json.Unmarshaler
func (r *ReviewRating) UnmarshalJSON(data []byte) error {
	var id FlexibleID
	if err := id.UnmarshalJSON(data); err != nil {
		return &fieldError{field: "rating", reason: "must be a number"}
	}
	*r = ReviewRating(id)
	return nil
}

// Int returns the rating when it is a whole number
func (r ReviewRating) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(r)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// AddEntryRequest adds a movie to favorites or the watchlist
type AddEntryRequest struct {
	UserID string        `json:"userId" binding:"required"`
	Movie  *MoviePayload `json:"movie" binding:"required"`
}

// DeleteFavoriteRequest names the favorite record to delete
type DeleteFavoriteRequest struct {
	// MovieID is the favorite's own record id
	MovieID FlexibleID `json:"movieId" binding:"required"`
}

// RemoveWatchlistRequest removes all watchlist entries of a movie
type RemoveWatchlistRequest struct {
	MovieID FlexibleID `json:"movieId" binding:"required"`
	UserID  string     `json:"userId"`
}

// AddReviewRequest reviews a watchlist entry
type AddReviewRequest struct {
	UserID      string       `json:"userId" binding:"required"`
	WatchlistID string       `json:"watchlistId" binding:"required"`
	Rating      ReviewRating `json:"rating" binding:"required"`
	Comment     string       `json:"comment" binding:"required"`
}

// DeleteReviewRequest names the review to delete
type DeleteReviewRequest struct {
	ReviewID string `json:"reviewId" binding:"required"`
}

// EntryResponse is a favorite or watchlist record
type EntryResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	MovieID     string    `json:"movieId"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"imageUrl"`
	Overview    string    `json:"overview"`
	ReleaseDate *string   `json:"release_date"`
	Rating      float64   `json:"rating"`
	Genres      []string  `json:"genres"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewResponse is a review with its author's email
type ReviewResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	WatchlistID string    `json:"watchlistId"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	UserEmail   string    `json:"userEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WatchlistRemovedResponse confirms a watchlist removal
type WatchlistRemovedResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

func toEntryResponse(e *collection.Entry) EntryResponse {
	resp := EntryResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		MovieID:   e.ExternalID,
		Title:     e.Title,
		ImageURL:  e.ImageURL,
		Overview:  e.Overview,
		Rating:    e.Rating,
		Genres:    e.Genres,
		CreatedAt: e.CreatedAt,
	}
	if resp.Genres == nil {
		resp.Genres = []string{}
	}
	if e.ReleaseDate != nil {
		d := e.ReleaseDate.Format(dateLayout)
		resp.ReleaseDate = &d
	}
	return resp
}

func toReviewResponse(r *collection.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID.String(),
		UserID:      r.UserID.String(),
		WatchlistID: r.WatchlistID.String(),
		Rating:      r.Rating,
		Comment:     r.Comment,
		UserEmail:   r.UserEmail,
		CreatedAt:   r.CreatedAt,
	}
}
