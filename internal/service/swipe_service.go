package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/metrics"
	"github.com/dom/spark/internal/pairlock"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxTxAttempts = 3

type SwipeService struct {
	userRepo  repository.UserRepository
	swipeRepo repository.SwipeRepository
	locker    pairlock.Locker
	log       *logrus.Logger
}

func NewSwipeService(userRepo repository.UserRepository, swipeRepo repository.SwipeRepository, locker pairlock.Locker, log *logrus.Logger) *SwipeService {
	return &SwipeService{
		userRepo:  userRepo,
		swipeRepo: swipeRepo,
		locker:    locker,
		log:       log,
	}
}

// decision describes one resolution of actor's intent toward target.
type decision struct {
	actor     uuid.UUID
	target    uuid.UUID
	direction domain.Direction
	// quota is drawn before anything changes. Empty draws nothing.
	quota domain.Quota
	// forceMatch skips the mutual-like check.
	forceMatch bool
	source     domain.MatchSource
}

// Swipe records actor's like or dislike of target and draws one swipe from
// the actor's quota. A right swipe on someone who already likes the actor
// establishes the match. Swiping on an existing match changes nothing and
// reports matched for a right swipe only.
func (s *SwipeService) Swipe(ctx context.Context, actorID, targetID uuid.UUID, direction domain.Direction) (*domain.SwipeResult, error) {
	if !direction.IsValid() {
		return nil, domain.ErrInvalidDirection
	}

	result, err := s.resolve(ctx, decision{
		actor:     actorID,
		target:    targetID,
		direction: direction,
		quota:     domain.QuotaSwipe,
		source:    domain.MatchSourceSwipe,
	})
	if err != nil {
		return nil, err
	}

	metrics.SwipesTotal.WithLabelValues(string(direction)).Inc()
	return result, nil
}

// SpinResolve settles a spinner round. A winning spin draws one spin and
// matches the pair outright. A losing spin behaves like a swipe in direction
// but draws from neither quota.
func (s *SwipeService) SpinResolve(ctx context.Context, actorID, targetID uuid.UUID, isWinner bool, direction domain.Direction) (*domain.SwipeResult, error) {
	d := decision{
		actor:     actorID,
		target:    targetID,
		direction: direction,
		source:    domain.MatchSourceSpin,
	}
	if isWinner {
		d.quota = domain.QuotaSpin
		d.forceMatch = true
	} else if !direction.IsValid() {
		return nil, domain.ErrInvalidDirection
	}

	return s.resolve(ctx, d)
}

func (s *SwipeService) resolve(ctx context.Context, d decision) (*domain.SwipeResult, error) {
	if d.actor == d.target {
		return nil, domain.ErrSelfSwipe
	}
	if _, err := getUser(ctx, s.userRepo, d.actor); err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.userRepo, d.target); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, pairlock.PairKey(d.actor, d.target))
	if err != nil {
		metrics.PairLockFailures.Inc()
		s.log.WithError(err).WithFields(logrus.Fields{
			"actor_id":  d.actor,
			"target_id": d.target,
		}).Error("[SwipeService.resolve] failed to lock pair")
		return nil, fmt.Errorf("lock pair: %w", err)
	}
	defer unlock()

	var matched, created bool
	for attempt := 1; ; attempt++ {
		err = s.swipeRepo.WithinTx(ctx, func(tx repository.SwipeTx) error {
			var txErr error
			matched, created, txErr = s.apply(ctx, tx, d)
			return txErr
		})
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == maxTxAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if created {
		metrics.MatchesTotal.WithLabelValues(string(d.source)).Inc()
		s.log.WithFields(logrus.Fields{
			"actor_id":  d.actor,
			"target_id": d.target,
			"source":    d.source,
		}).Info("match established")
	}

	return &domain.SwipeResult{Matched: matched}, nil
}

// apply runs inside the transaction and is the only path that creates matches.
func (s *SwipeService) apply(ctx context.Context, tx repository.SwipeTx, d decision) (matched, created bool, err error) {
	already, err := tx.IsMatched(ctx, d.actor, d.target)
	if err != nil {
		return false, false, err
	}
	if already {
		// A left swipe never reports a match, even on an existing one.
		return d.forceMatch || d.direction != domain.DirectionLeft, false, nil
	}

	if d.quota != "" {
		ok, err := tx.ConsumeQuota(ctx, d.actor, d.quota)
		if err != nil {
			return false, false, err
		}
		if !ok {
			return false, false, quotaError(d.quota)
		}
	}

	if d.forceMatch {
		created, err = tx.EstablishMatch(ctx, d.actor, d.target, d.source)
		return true, created, err
	}

	if d.direction == domain.DirectionLeft {
		return false, false, tx.SetDecision(ctx, d.actor, d.target, false)
	}

	mutual, err := tx.HasLiked(ctx, d.target, d.actor)
	if err != nil {
		return false, false, err
	}
	if mutual {
		created, err = tx.EstablishMatch(ctx, d.actor, d.target, d.source)
		return true, created, err
	}

	return false, false, tx.SetDecision(ctx, d.actor, d.target, true)
}

func quotaError(q domain.Quota) error {
	if q == domain.QuotaSpin {
		return domain.ErrSpinLimitReached
	}
	return domain.ErrSwipeLimitReached
}
