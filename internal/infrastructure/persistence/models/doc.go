// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities so the domain layer stays free of
// ORM concerns; repositories convert between the two.
//
// Structure:
// - base.go: BaseModel shared by every table
// - user.go: users
// - collection.go: favorite_movies and watchlist_items
// - review.go: reviews
// - types.go: column types (StringList)
package models
