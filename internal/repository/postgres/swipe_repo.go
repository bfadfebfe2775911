package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type swipeRepository struct {
	db *gorm.DB
}

func NewSwipeRepository(db *gorm.DB) *swipeRepository {
	return &swipeRepository{db: db}
}

func (r *swipeRepository) WithinTx(ctx context.Context, fn func(tx repository.SwipeTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&swipeTx{db: tx})
	})
}

// ListLikers returns users whose current decision on targetID is a like,
// most recent first. Matched pairs have no decisions left and never appear.
func (r *swipeRepository) ListLikers(ctx context.Context, targetID uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN swipe_decisions ON swipe_decisions.actor_id = users.id").
		Where("swipe_decisions.target_id = ? AND swipe_decisions.liked = ?", targetID, true).
		Order("swipe_decisions.updated_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// swipeTx runs every statement on the transaction handle it was built with.
type swipeTx struct {
	db *gorm.DB
}

func (t *swipeTx) IsMatched(ctx context.Context, a, b uuid.UUID) (bool, error) {
	lo, hi := domain.OrderPair(a, b)
	var count int64
	err := t.db.WithContext(ctx).Model(&domain.Match{}).
		Where("user_a_id = ? AND user_b_id = ?", lo, hi).
		Count(&count).Error
	return count > 0, err
}

func (t *swipeTx) ConsumeQuota(ctx context.Context, userID uuid.UUID, quota domain.Quota) (bool, error) {
	col := string(quota)
	if quota != domain.QuotaSwipe && quota != domain.QuotaSpin {
		return false, fmt.Errorf("unknown quota %q", quota)
	}

	res := t.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND "+col+" > 0", userID).
		UpdateColumn(col, gorm.Expr(col+" - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (t *swipeTx) HasLiked(ctx context.Context, actorID, targetID uuid.UUID) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&domain.SwipeDecision{}).
		Where("actor_id = ? AND target_id = ? AND liked = ?", actorID, targetID, true).
		Count(&count).Error
	return count > 0, err
}

func (t *swipeTx) SetDecision(ctx context.Context, actorID, targetID uuid.UUID, liked bool) error {
	now := time.Now()
	decision := &domain.SwipeDecision{
		ActorID:   actorID,
		TargetID:  targetID,
		Liked:     liked,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
	}).Create(decision).Error
}

func (t *swipeTx) EstablishMatch(ctx context.Context, a, b uuid.UUID, source domain.MatchSource) (bool, error) {
	match := domain.NewMatch(a, b, source)
	res := t.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(match)
	if res.Error != nil {
		return false, res.Error
	}

	err := t.db.WithContext(ctx).
		Where("(actor_id = ? AND target_id = ?) OR (actor_id = ? AND target_id = ?)", a, b, b, a).
		Delete(&domain.SwipeDecision{}).Error
	if err != nil {
		return false, err
	}

	return res.RowsAffected == 1, nil
}
