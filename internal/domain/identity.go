package domain

import "github.com/google/uuid"

// Identity is the authenticated caller, resolved from a bearer token and
// carried on the request context.
type Identity struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}
