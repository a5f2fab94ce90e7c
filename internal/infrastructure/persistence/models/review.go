package models

import (
	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/domain/collection"
)

// ReviewModel is the persistence model for reviews
type ReviewModel struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	WatchlistID uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating      int       `gorm:"not null"`
	Comment     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review
func (m *ReviewModel) ToDomain() *collection.Review {
	return &collection.Review{
		BaseEntity:  m.BaseModel.ToDomain(),
		UserID:      m.UserID,
		WatchlistID: m.WatchlistID,
		Rating:      m.Rating,
		Comment:     m.Comment,
	}
}

// ReviewModelFromDomain creates a persistence model from a domain Review
func ReviewModelFromDomain(r *collection.Review) *ReviewModel {
	m := &ReviewModel{
		UserID:      r.UserID,
		WatchlistID: r.WatchlistID,
		Rating:      r.Rating,
		Comment:     r.Comment,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// ReviewWithEmail is a review row joined with its author's email
type ReviewWithEmail struct {
	ReviewModel
	UserEmail string `gorm:"column:user_email"`
}

// ToDomain converts the joined row to a domain Review with UserEmail set
func (m *ReviewWithEmail) ToDomain() *collection.Review {
	r := m.ReviewModel.ToDomain()
	r.UserEmail = m.UserEmail
	return r
}
