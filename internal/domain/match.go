package domain

import (
	"time"

	"github.com/google/uuid"
)

type MatchSource string

const (
	MatchSourceSwipe MatchSource = "swipe"
	MatchSourceSpin  MatchSource = "spin"
)

// Match is a mutual match between two users, stored once per unordered pair
// with UserAID < UserBID. The primary key is the uniqueness constraint that
// makes match creation at-most-once.
type Match struct {
	UserAID   uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserBID   uuid.UUID   `gorm:"type:uuid;primaryKey;index"`
	Source    MatchSource `gorm:"not null;default:'swipe'"`
	CreatedAt time.Time
}

// NewMatch orders the pair so (a, b) and (b, a) produce the same key.
func NewMatch(a, b uuid.UUID, source MatchSource) *Match {
	lo, hi := OrderPair(a, b)
	return &Match{UserAID: lo, UserBID: hi, Source: source}
}

// Other returns the counterpart of userID in the match.
func (m *Match) Other(userID uuid.UUID) uuid.UUID {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// OrderPair returns the two ids in canonical (byte-wise ascending) order.
func OrderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

// PinnedMatch flags one of a user's matches for priority display.
type PinnedMatch struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TargetID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int64     `gorm:"not null"`
	CreatedAt time.Time
}

// MatchListEntry is one row of a user's rendered match list.
type MatchListEntry struct {
	User        UserSummary  `json:"user"`
	IsPinned    bool         `json:"isPinned"`
	ChatID      *uuid.UUID   `json:"chatId"`
	LastMessage *LastMessage `json:"lastMessage"`
	MatchedAt   time.Time    `json:"matchedAt"`
}

// LastMessage is the most recent message of a chat, used for list ordering.
type LastMessage struct {
	SenderID  uuid.UUID `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SpinnerCandidate is the reduced projection served to the spinner game.
type SpinnerCandidate struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profilePicture"`
}
