package catalog

import (
	"strings"

	"github.com/moviecatalog/backend/internal/domain/shared"
)

// Category is a curated movie feed of the catalog
type Category string

// Catalog feeds
const (
	CategoryPopular    Category = "popular"
	CategoryNowPlaying Category = "now_playing"
	CategoryUpcoming   Category = "upcoming"
	CategoryTopRated   Category = "top_rated"
)

// Categories lists every supported feed
var Categories = []Category{
	CategoryPopular,
	CategoryNowPlaying,
	CategoryUpcoming,
	CategoryTopRated,
}

// ParseCategory validates a feed name. An empty name means popular.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryPopular, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", shared.ErrInvalidInput.WithMessage("Unknown category: " + s + " (expected one of " + categoryNames() + ")")
}

func categoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
