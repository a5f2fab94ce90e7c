// Package collection implements the favorites, watchlist and review use cases.
// Every operation runs on behalf of an Actor and refuses to touch rows that
// belong to somebody else.
package collection

import (
	"strings"

	"github.com/google/uuid"

	"github.com/moviecatalog/backend/internal/domain/shared"
)

var errMissingFields = shared.ErrInvalidInput.WithMessage("Missing required fields")

// resolveOwner checks that a client supplied user id names the actor.
// An empty id is a validation error when required and the actor otherwise.
func resolveOwner(actor Actor, userID string, required bool) (uuid.UUID, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		if required {
			return uuid.Nil, shared.ErrInvalidInput.WithMessage("UserId is required")
		}
		return actor.ID, nil
	}
	id, err := uuid.Parse(userID)
	if err != nil || id != actor.ID {
		return uuid.Nil, shared.ErrForbidden
	}
	return id, nil
}

// parseID parses a record id taken from a request. A blank id is missing,
// a malformed one cannot name any row.
func parseID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, shared.ErrInvalidInput.WithMessage(field + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.ErrNotFound
	}
	return id, nil
}
