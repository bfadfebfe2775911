package domain

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func (d Direction) IsValid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// SwipeDecision is an actor's current like/dislike of a target.
//
// The composite primary key keeps a single row per (actor, target), so a
// target can never be liked and disliked at the same time. Rows for a pair
// are deleted once the pair becomes a match.
type SwipeDecision struct {
	ActorID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	TargetID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_swipe_target_liked,priority:1"`
	Liked     bool      `gorm:"not null;index:idx_swipe_target_liked,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SwipeResult struct {
	Matched bool `json:"matched"`
}

// Quota names a per-user counter column that actions draw down.
type Quota string

const (
	QuotaSwipe Quota = "swipe_limit"
	QuotaSpin  Quota = "spin_limit"
)
