package postgres

import (
	"context"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *matchRepository {
	return &matchRepository{db: db}
}

// ListForUser returns the user's matches oldest first.
func (r *matchRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Match, error) {
	var matches []*domain.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at ASC, user_a_id ASC, user_b_id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) IsMatched(ctx context.Context, a, b uuid.UUID) (bool, error) {
	lo, hi := domain.OrderPair(a, b)
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Match{}).
		Where("user_a_id = ? AND user_b_id = ?", lo, hi).
		Count(&count).Error
	return count > 0, err
}

func (r *matchRepository) ListPinned(ctx context.Context, userID uuid.UUID) ([]*domain.PinnedMatch, error) {
	var pinned []*domain.PinnedMatch
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&pinned).Error
	if err != nil {
		return nil, err
	}
	return pinned, nil
}

func (r *matchRepository) IsPinned(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PinnedMatch{}).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Count(&count).Error
	return count > 0, err
}

// Pin appends targetID after the user's existing pins. Pinning twice is a no-op.
func (r *matchRepository) Pin(ctx context.Context, userID, targetID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int64
		err := tx.Model(&domain.PinnedMatch{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error
		if err != nil {
			return err
		}

		pin := &domain.PinnedMatch{
			UserID:    userID,
			TargetID:  targetID,
			Position:  maxPos + 1,
			CreatedAt: time.Now(),
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(pin).Error
	})
}

func (r *matchRepository) Unpin(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Delete(&domain.PinnedMatch{})
	return res.RowsAffected > 0, res.Error
}
