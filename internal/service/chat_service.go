package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/metrics"
	"github.com/dom/spark/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const MaxMessageLength = 2000

type ChatService struct {
	userRepo repository.UserRepository
	chatRepo repository.ChatRepository
	log      *logrus.Logger
	now      func() time.Time
}

func NewChatService(userRepo repository.UserRepository, chatRepo repository.ChatRepository, log *logrus.Logger) *ChatService {
	return &ChatService{
		userRepo: userRepo,
		chatRepo: chatRepo,
		log:      log,
		now:      time.Now,
	}
}

// StartOrGetChat returns the chat between userID and targetID, creating it on
// first use. Argument order does not matter.
func (s *ChatService) StartOrGetChat(ctx context.Context, userID, targetID uuid.UUID) (*domain.Chat, error) {
	if targetID == uuid.Nil || targetID == userID {
		return nil, domain.ErrInvalidTarget
	}
	if _, err := getUser(ctx, s.userRepo, targetID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidTarget
		}
		return nil, err
	}

	chat, created, err := s.chatRepo.GetOrCreate(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	if created {
		metrics.ChatsTotal.Inc()
		s.log.WithFields(logrus.Fields{
			"chat_id": chat.ID,
			"user_id": userID,
		}).Info("chat created")
	}
	return chat, nil
}

func (s *ChatService) PostMessage(ctx context.Context, chatID, senderID uuid.UUID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, domain.ErrMessageTooLong
	}

	if _, err := s.participantChat(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: s.now(),
		ReadBy:    []uuid.UUID{},
	}
	if err := s.chatRepo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	metrics.MessagesTotal.Inc()
	return msg, nil
}

// ListMessages returns the whole conversation in order and marks every
// message as read by viewerID.
func (s *ChatService) ListMessages(ctx context.Context, chatID, viewerID uuid.UUID) ([]*domain.Message, error) {
	if _, err := s.participantChat(ctx, chatID, viewerID); err != nil {
		return nil, err
	}

	if err := s.chatRepo.MarkRead(ctx, chatID, viewerID, s.now()); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(ctx, chatID)
}

// ListChats returns the user's chats, most recently active first. Chats with
// no messages come last, newest chat first.
func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) ([]domain.ChatSummary, error) {
	chats, err := s.chatRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return []domain.ChatSummary{}, nil
	}

	chatIDs := make([]uuid.UUID, len(chats))
	counterparts := make([]uuid.UUID, len(chats))
	for i, c := range chats {
		chatIDs[i] = c.ID
		counterparts[i] = c.Other(userID)
	}

	users, err := s.userRepo.ListByIDs(ctx, counterparts)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[uuid.UUID]*domain.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	lastMessages, err := s.chatRepo.LastMessages(ctx, chatIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.chatRepo.UnreadCounts(ctx, userID, chatIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ChatSummary, 0, len(chats))
	for _, c := range chats {
		summary := domain.ChatSummary{
			ID:            c.ID,
			LastMessageAt: c.LastMessageAt,
			UnreadCount:   unread[c.ID],
			CreatedAt:     c.CreatedAt,
		}
		if u, ok := usersByID[c.Other(userID)]; ok {
			summary.Participant = u.Summary()
		} else {
			summary.Participant = domain.UserSummary{ID: c.Other(userID)}
		}
		if msg, ok := lastMessages[c.ID]; ok {
			summary.LastMessage = &domain.LastMessage{
				SenderID:  msg.SenderID,
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt,
			}
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		switch {
		case a.LastMessageAt != nil && b.LastMessageAt != nil:
			if !a.LastMessageAt.Equal(*b.LastMessageAt) {
				return a.LastMessageAt.After(*b.LastMessageAt)
			}
		case a.LastMessageAt != nil:
			return true
		case b.LastMessageAt != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return summaries, nil
}

// participantChat loads the chat and hides it from anyone outside the pair.
func (s *ChatService) participantChat(ctx context.Context, chatID, userID uuid.UUID) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, domain.ErrChatNotFound
	}
	return chat, nil
}
