package repository

import (
	"context"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/google/uuid"
)

// CandidateQuery selects users eligible to be shown to ViewerID.
// WithPicture nil means either; Limit 0 means no limit.
type CandidateQuery struct {
	ViewerID    uuid.UUID
	Genders     []domain.Gender
	WithPicture *bool
	Offset      int
	Limit       int
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, resetQuotas bool, swipeFloor, spinFloor int) error
	ListCandidates(ctx context.Context, q CandidateQuery) ([]*domain.User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
}

// SwipeTx is the set of swipe operations available inside one transaction.
type SwipeTx interface {
	IsMatched(ctx context.Context, a, b uuid.UUID) (bool, error)
	// ConsumeQuota decrements the quota if it is positive and reports whether
	// it did.
	ConsumeQuota(ctx context.Context, userID uuid.UUID, quota domain.Quota) (bool, error)
	HasLiked(ctx context.Context, actorID, targetID uuid.UUID) (bool, error)
	SetDecision(ctx context.Context, actorID, targetID uuid.UUID, liked bool) error
	// EstablishMatch records the match for the unordered pair and clears the
	// pair's swipe decisions in both directions. It reports whether this call
	// created the match.
	EstablishMatch(ctx context.Context, a, b uuid.UUID, source domain.MatchSource) (bool, error)
}

type SwipeRepository interface {
	WithinTx(ctx context.Context, fn func(tx SwipeTx) error) error
	ListLikers(ctx context.Context, targetID uuid.UUID) ([]*domain.User, error)
}

type MatchRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Match, error)
	IsMatched(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListPinned(ctx context.Context, userID uuid.UUID) ([]*domain.PinnedMatch, error)
	IsPinned(ctx context.Context, userID, targetID uuid.UUID) (bool, error)
	Pin(ctx context.Context, userID, targetID uuid.UUID) error
	Unpin(ctx context.Context, userID, targetID uuid.UUID) (bool, error)
}

type ChatRepository interface {
	// GetOrCreate returns the chat for the unordered pair, creating it if
	// needed. The bool reports whether this call created it.
	GetOrCreate(ctx context.Context, a, b uuid.UUID) (*domain.Chat, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Chat, error)
	AppendMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]*domain.Message, error)
	MarkRead(ctx context.Context, chatID, userID uuid.UUID, at time.Time) error
	LastMessages(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]*domain.Message, error)
	UnreadCounts(ctx context.Context, userID uuid.UUID, chatIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type Repositories struct {
	User  UserRepository
	Swipe SwipeRepository
	Match MatchRepository
	Chat  ChatRepository
}
