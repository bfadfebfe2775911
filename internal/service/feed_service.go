package service

import (
	"context"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 50

	spinnerCandidates = 10
	spinnerPoolSize   = 200

	DefaultCandidateName  = "Name not available"
	PlaceholderPictureURL = "https://via.placeholder.com/150"
)

type FeedService struct {
	userRepo repository.UserRepository
	random   Random
}

func NewFeedService(userRepo repository.UserRepository, random Random) *FeedService {
	return &FeedService{userRepo: userRepo, random: random}
}

type FeedPage struct {
	Users []domain.UserSummary `json:"users"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// NormalizePage clamps page and limit to the supported range.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	return page, limit
}

// GetFeed returns one page of candidates for userID: up to limit users with a
// profile picture followed by up to limit without one, each group shuffled.
// Users the viewer liked or matched are never included; disliked users are.
func (s *FeedService) GetFeed(ctx context.Context, userID uuid.UUID, page, limit int) (*FeedPage, error) {
	page, limit = NormalizePage(page, limit)

	viewer, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	result := &FeedPage{Users: []domain.UserSummary{}, Page: page, Limit: limit}
	genders := viewer.InterestedIn.Genders()
	if len(genders) == 0 {
		return result, nil
	}

	offset := (page - 1) * limit
	for _, withPicture := range []bool{true, false} {
		withPicture := withPicture
		group, err := s.userRepo.ListCandidates(ctx, repository.CandidateQuery{
			ViewerID:    viewer.ID,
			Genders:     genders,
			WithPicture: &withPicture,
			Offset:      offset,
			Limit:       limit,
		})
		if err != nil {
			return nil, err
		}

		s.shuffle(group)
		for _, u := range group {
			result.Users = append(result.Users, u.Summary())
		}
	}

	return result, nil
}

// GetSpinnerCandidates returns up to ten random candidates projected for the
// spinner game.
func (s *FeedService) GetSpinnerCandidates(ctx context.Context, userID uuid.UUID) ([]domain.SpinnerCandidate, error) {
	viewer, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	genders := viewer.InterestedIn.Genders()
	if len(genders) == 0 {
		return []domain.SpinnerCandidate{}, nil
	}

	pool, err := s.userRepo.ListCandidates(ctx, repository.CandidateQuery{
		ViewerID: viewer.ID,
		Genders:  genders,
		Limit:    spinnerPoolSize,
	})
	if err != nil {
		return nil, err
	}

	s.shuffle(pool)
	if len(pool) > spinnerCandidates {
		pool = pool[:spinnerCandidates]
	}

	candidates := make([]domain.SpinnerCandidate, 0, len(pool))
	for _, u := range pool {
		c := domain.SpinnerCandidate{ID: u.ID, Name: u.Name, ProfilePicture: u.ProfilePicture}
		if c.Name == "" {
			c.Name = DefaultCandidateName
		}
		if !u.HasPicture() {
			c.ProfilePicture = PlaceholderPictureURL
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *FeedService) shuffle(users []*domain.User) {
	s.random.Shuffle(len(users), func(i, j int) {
		users[i], users[j] = users[j], users[i]
	})
}
