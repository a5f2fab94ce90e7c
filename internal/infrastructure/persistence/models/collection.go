package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/domain/collection"
)

// EntryModel holds the columns shared by favorites and watchlist items.
type EntryModel struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	MovieID     string     `gorm:"type:varchar(64);not null"` // external catalog id
	Title       string     `gorm:"type:varchar(500);not null"`
	ImageURL    string     `gorm:"type:varchar(1000);not null"`
	Overview    string     `gorm:"type:text;not null"`
	ReleaseDate *time.Time `gorm:"type:date"`
	Rating      float64    `gorm:"not null"`
	Genres      StringList `gorm:"not null"`
}

func (m *EntryModel) toDomain() collection.Entry {
	genres := []string(m.Genres)
	if genres == nil {
		genres = []string{}
	}
	return collection.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Movie: collection.Movie{
			ExternalID:  m.MovieID,
			Title:       m.Title,
			ImageURL:    m.ImageURL,
			Overview:    m.Overview,
			ReleaseDate: m.ReleaseDate,
			Rating:      m.Rating,
			Genres:      genres,
		},
	}
}

func entryModelFromDomain(e collection.Entry) EntryModel {
	m := EntryModel{
		UserID:      e.UserID,
		MovieID:     e.ExternalID,
		Title:       e.Title,
		ImageURL:    e.ImageURL,
		Overview:    e.Overview,
		ReleaseDate: e.ReleaseDate,
		Rating:      e.Rating,
		Genres:      StringList(e.Genres),
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// FavoriteModel is the persistence model for favorites
type FavoriteModel struct {
	EntryModel
}

// TableName returns the table name for GORM
func (FavoriteModel) TableName() string {
	return "favorite_movies"
}

// ToDomain converts the persistence model to a domain Favorite
func (m *FavoriteModel) ToDomain() *collection.Favorite {
	return &collection.Favorite{Entry: m.toDomain()}
}

// FavoriteModelFromDomain creates a persistence model from a domain Favorite
func FavoriteModelFromDomain(f *collection.Favorite) *FavoriteModel {
	return &FavoriteModel{EntryModel: entryModelFromDomain(f.Entry)}
}

// WatchlistItemModel is the persistence model for watchlist entries
type WatchlistItemModel struct {
	EntryModel
}

// TableName returns the table name for GORM
func (WatchlistItemModel) TableName() string {
	return "watchlist_items"
}

// ToDomain converts the persistence model to a domain WatchlistItem
func (m *WatchlistItemModel) ToDomain() *collection.WatchlistItem {
	return &collection.WatchlistItem{Entry: m.toDomain()}
}

// WatchlistItemModelFromDomain creates a persistence model from a domain WatchlistItem
func WatchlistItemModelFromDomain(w *collection.WatchlistItem) *WatchlistItemModel {
	return &WatchlistItemModel{EntryModel: entryModelFromDomain(w.Entry)}
}
