package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	userRepo  repository.UserRepository
	swipeRepo repository.SwipeRepository
	now       func() time.Time
}

func NewProfileService(userRepo repository.UserRepository, swipeRepo repository.SwipeRepository) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		swipeRepo: swipeRepo,
		now:       time.Now,
	}
}

// ProfileUpdate lists the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Name           *string
	DateOfBirth    *string
	Gender         *string
	InterestedIn   *string
	Bio            *string
	Affiliation    *string
	ProfilePicture *string
}

func (s *ProfileService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return getUser(ctx, s.userRepo, id)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	fields, err := s.profileFields(update)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, id)
}

func (s *ProfileService) profileFields(update ProfileUpdate) (map[string]any, error) {
	fields := make(map[string]any)

	if update.Name != nil {
		fields["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Bio != nil {
		fields["bio"] = strings.TrimSpace(*update.Bio)
	}
	if update.Affiliation != nil {
		fields["affiliation"] = strings.TrimSpace(*update.Affiliation)
	}
	if update.ProfilePicture != nil {
		fields["profile_picture"] = strings.TrimSpace(*update.ProfilePicture)
	}
	if update.Gender != nil {
		gender := domain.Gender(strings.TrimSpace(*update.Gender))
		if !gender.IsValid() {
			return nil, domain.ErrInvalidGender
		}
		fields["gender"] = gender
	}
	if update.InterestedIn != nil {
		interestedIn := domain.InterestedIn(strings.TrimSpace(*update.InterestedIn))
		if !interestedIn.IsValid() {
			return nil, domain.ErrInvalidInterestedIn
		}
		fields["interested_in"] = interestedIn
	}
	if update.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", strings.TrimSpace(*update.DateOfBirth))
		if err != nil || dob.After(s.now()) {
			return nil, domain.ErrInvalidDateOfBirth
		}
		fields["date_of_birth"] = datatypes.Date(dob)
	}

	return fields, nil
}

// SetProfilePicture points the user's profile picture at url.
func (s *ProfileService) SetProfilePicture(ctx context.Context, id uuid.UUID, url string) (*domain.User, error) {
	return s.UpdateProfile(ctx, id, ProfileUpdate{ProfilePicture: &url})
}

// ListLikedBy returns users who currently like id and are not yet matched with it.
func (s *ProfileService) ListLikedBy(ctx context.Context, id uuid.UUID) ([]domain.UserSummary, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	likers, err := s.swipeRepo.ListLikers(ctx, id)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.UserSummary, 0, len(likers))
	for _, u := range likers {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}
