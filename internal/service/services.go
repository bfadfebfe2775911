package service

import (
	"time"

	"github.com/dom/spark/internal/config"
	"github.com/dom/spark/internal/logging"
	"github.com/dom/spark/internal/media"
	"github.com/dom/spark/internal/pairlock"
	"github.com/dom/spark/internal/repository"
	"github.com/sirupsen/logrus"
)

// Dependencies are the infrastructure pieces services share. Nil fields get
// single-process defaults.
type Dependencies struct {
	Locker  pairlock.Locker
	Storage media.ObjectStorage
	Random  Random
	Logger  *logrus.Logger
}

type Services struct {
	Auth    *AuthService
	Profile *ProfileService
	Feed    *FeedService
	Swipe   *SwipeService
	Match   *MatchService
	Chat    *ChatService
	Media   *media.Service
}

func NewServices(repos *repository.Repositories, cfg *config.Config, deps Dependencies) *Services {
	if deps.Locker == nil {
		deps.Locker = pairlock.NewLocalLocker()
	}
	if deps.Random == nil {
		deps.Random = NewRandom(time.Now().UnixNano())
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}

	return &Services{
		Auth:    NewAuthService(repos.User, cfg, deps.Random, deps.Logger),
		Profile: NewProfileService(repos.User, repos.Swipe),
		Feed:    NewFeedService(repos.User, deps.Random),
		Swipe:   NewSwipeService(repos.User, repos.Swipe, deps.Locker, deps.Logger),
		Match:   NewMatchService(repos.User, repos.Match, repos.Chat),
		Chat:    NewChatService(repos.User, repos.Chat, deps.Logger),
		Media:   media.NewService(deps.Storage),
	}
}
