package postgres

import (
	"context"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// UpdateFields writes only the named columns. Callers own the allow-list.
func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordLogin stamps last_login and, when resetQuotas is set, raises the
// quotas to their floors in the same statement. Quotas are never lowered.
func (r *userRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, resetQuotas bool, swipeFloor, spinFloor int) error {
	fields := map[string]any{"last_login": at}
	if resetQuotas {
		fields["swipe_limit"] = gorm.Expr("CASE WHEN swipe_limit < ? THEN ? ELSE swipe_limit END", swipeFloor, swipeFloor)
		fields["spin_limit"] = gorm.Expr("CASE WHEN spin_limit < ? THEN ? ELSE spin_limit END", spinFloor, spinFloor)
	}
	return r.UpdateFields(ctx, id, fields)
}

func (r *userRepository) ListCandidates(ctx context.Context, q repository.CandidateQuery) ([]*domain.User, error) {
	if len(q.Genders) == 0 {
		return []*domain.User{}, nil
	}

	liked := r.db.Model(&domain.SwipeDecision{}).
		Select("target_id").
		Where("actor_id = ? AND liked = ?", q.ViewerID, true)
	matchedAsA := r.db.Model(&domain.Match{}).Select("user_b_id").Where("user_a_id = ?", q.ViewerID)
	matchedAsB := r.db.Model(&domain.Match{}).Select("user_a_id").Where("user_b_id = ?", q.ViewerID)

	query := r.db.WithContext(ctx).
		Where("id <> ?", q.ViewerID).
		Where("COALESCE(name, '') <> ''").
		Where("date_of_birth IS NOT NULL").
		Where("gender IN ?", q.Genders).
		Where("COALESCE(interested_in, '') <> ''").
		Where("status = ?", domain.UserStatusActive).
		Where("id NOT IN (?)", liked).
		Where("id NOT IN (?)", matchedAsA).
		Where("id NOT IN (?)", matchedAsB)

	if q.WithPicture != nil {
		if *q.WithPicture {
			query = query.Where("COALESCE(profile_picture, '') <> ''")
		} else {
			query = query.Where("COALESCE(profile_picture, '') = ''")
		}
	}

	query = query.Order("created_at ASC, id ASC")
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var users []*domain.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	var users []*domain.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
