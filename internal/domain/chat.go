package domain

import (
	"time"

	"github.com/google/uuid"
)

// Chat is the single conversation between an unordered pair of users.
// Participants are stored ordered (UserAID < UserBID) under a unique index so
// lookups are order-independent and concurrent creation cannot duplicate it.
type Chat struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserAID       uuid.UUID  `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_chat_pair,priority:1"`
	UserBID       uuid.UUID  `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_chat_pair,priority:2;index"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (c *Chat) Participants() []uuid.UUID {
	return []uuid.UUID{c.UserAID, c.UserBID}
}

func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	return c.UserAID == userID || c.UserBID == userID
}

func (c *Chat) Other(userID uuid.UUID) uuid.UUID {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// Message belongs to exactly one chat. Seq is the per-chat append index and
// orders messages whose server timestamps tie.
type Message struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	ChatID    uuid.UUID   `json:"chatId" gorm:"type:uuid;not null;uniqueIndex:idx_message_chat_seq,priority:1"`
	Seq       int64       `json:"seq" gorm:"not null;uniqueIndex:idx_message_chat_seq,priority:2"`
	SenderID  uuid.UUID   `json:"senderId" gorm:"type:uuid;not null"`
	Content   string      `json:"content" gorm:"not null"`
	CreatedAt time.Time   `json:"createdAt"`
	ReadBy    []uuid.UUID `json:"readBy" gorm:"-"`
}

// MessageRead records that a user has viewed a message.
type MessageRead struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ReadAt    time.Time
}

// ChatSummary is a chat as listed for one participant.
type ChatSummary struct {
	ID            uuid.UUID    `json:"id"`
	Participant   UserSummary  `json:"participant"`
	LastMessage   *LastMessage `json:"lastMessage"`
	LastMessageAt *time.Time   `json:"lastMessageAt"`
	UnreadCount   int64        `json:"unreadCount"`
	CreatedAt     time.Time    `json:"createdAt"`
}
