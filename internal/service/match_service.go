package service

import (
	"context"
	"sort"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
)

type MatchService struct {
	userRepo  repository.UserRepository
	matchRepo repository.MatchRepository
	chatRepo  repository.ChatRepository
}

func NewMatchService(userRepo repository.UserRepository, matchRepo repository.MatchRepository, chatRepo repository.ChatRepository) *MatchService {
	return &MatchService{
		userRepo:  userRepo,
		matchRepo: matchRepo,
		chatRepo:  chatRepo,
	}
}

// ListMatches returns the user's matches ordered for display.
//
// Entries start in match order (oldest match first) with pinned matches
// moved ahead of unpinned ones. That list is then stably sorted by the time
// of the pair's latest chat message, newest first, with no message counting
// as the oldest possible time. Pinning therefore only decides the order
// among matches whose latest messages tie or are absent.
func (s *MatchService) ListMatches(ctx context.Context, userID uuid.UUID) ([]domain.MatchListEntry, error) {
	if _, err := getUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []domain.MatchListEntry{}, nil
	}

	pinnedRows, err := s.matchRepo.ListPinned(ctx, userID)
	if err != nil {
		return nil, err
	}
	pinned := make(map[uuid.UUID]bool, len(pinnedRows))
	for _, p := range pinnedRows {
		pinned[p.TargetID] = true
	}

	counterparts := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		counterparts[i] = m.Other(userID)
	}
	users, err := s.userRepo.ListByIDs(ctx, counterparts)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[uuid.UUID]*domain.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	chats, err := s.chatRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	chatByCounterpart := make(map[uuid.UUID]*domain.Chat, len(chats))
	chatIDs := make([]uuid.UUID, 0, len(chats))
	for _, c := range chats {
		chatByCounterpart[c.Other(userID)] = c
		chatIDs = append(chatIDs, c.ID)
	}
	lastMessages, err := s.chatRepo.LastMessages(ctx, chatIDs)
	if err != nil {
		return nil, err
	}

	var pinnedEntries, unpinnedEntries []domain.MatchListEntry
	for _, m := range matches {
		other := m.Other(userID)
		u, ok := usersByID[other]
		if !ok {
			continue
		}

		entry := domain.MatchListEntry{
			User:      u.Summary(),
			IsPinned:  pinned[other],
			MatchedAt: m.CreatedAt,
		}
		if c, ok := chatByCounterpart[other]; ok {
			chatID := c.ID
			entry.ChatID = &chatID
			if msg, ok := lastMessages[c.ID]; ok {
				entry.LastMessage = &domain.LastMessage{
					SenderID:  msg.SenderID,
					Content:   msg.Content,
					CreatedAt: msg.CreatedAt,
				}
			}
		}

		if entry.IsPinned {
			pinnedEntries = append(pinnedEntries, entry)
		} else {
			unpinnedEntries = append(unpinnedEntries, entry)
		}
	}

	entries := make([]domain.MatchListEntry, 0, len(pinnedEntries)+len(unpinnedEntries))
	entries = append(entries, pinnedEntries...)
	entries = append(entries, unpinnedEntries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return lastMessageTime(entries[i]).After(lastMessageTime(entries[j]))
	})
	return entries, nil
}

func lastMessageTime(e domain.MatchListEntry) time.Time {
	if e.LastMessage == nil {
		return time.Time{}
	}
	return e.LastMessage.CreatedAt
}

// TogglePin unpins targetID if pinned, otherwise pins it. Only current matches
// can be pinned; unpinning always succeeds. It returns the new pinned state.
func (s *MatchService) TogglePin(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	if _, err := getUser(ctx, s.userRepo, userID); err != nil {
		return false, err
	}
	if _, err := getUser(ctx, s.userRepo, targetID); err != nil {
		return false, err
	}

	isPinned, err := s.matchRepo.IsPinned(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if isPinned {
		if _, err := s.matchRepo.Unpin(ctx, userID, targetID); err != nil {
			return false, err
		}
		return false, nil
	}

	matched, err := s.matchRepo.IsMatched(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if !matched {
		return false, domain.ErrNotMatched
	}

	if err := s.matchRepo.Pin(ctx, userID, targetID); err != nil {
		return false, err
	}
	return true, nil
}
