package postgres

import (
	"context"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *chatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetOrCreate(ctx context.Context, a, b uuid.UUID) (*domain.Chat, bool, error) {
	lo, hi := domain.OrderPair(a, b)
	chat := &domain.Chat{ID: uuid.New(), UserAID: lo, UserBID: hi}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(chat)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return chat, true, nil
	}

	existing, err := r.GetByPair(ctx, lo, hi)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *chatRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Chat, error) {
	lo, hi := domain.OrderPair(a, b)
	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, "user_a_id = ? AND user_b_id = ?", lo, hi).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Chat, error) {
	var chats []*domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// AppendMessage assigns the next per-chat sequence number, stores msg and
// moves the chat's last_message_at to the message time. The chat row is
// locked for the duration so concurrent appends serialize. A stamp earlier
// than the chat's last message is raised to it, so seq order and time order
// agree.
func (r *chatRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat domain.Chat
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&chat, "id = ?", msg.ChatID).Error
		if err != nil {
			return err
		}

		var maxSeq int64
		err = tx.Model(&domain.Message{}).
			Where("chat_id = ?", msg.ChatID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error
		if err != nil {
			return err
		}

		if msg.ID == uuid.Nil {
			msg.ID = uuid.New()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now()
		}
		if chat.LastMessageAt != nil && msg.CreatedAt.Before(*chat.LastMessageAt) {
			msg.CreatedAt = *chat.LastMessageAt
		}
		msg.Seq = maxSeq + 1

		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Chat{}).
			Where("id = ?", chat.ID).
			Updates(map[string]any{
				"last_message_at": msg.CreatedAt,
				"updated_at":      msg.CreatedAt,
			}).Error
	})
}

// ListMessages returns the chat's messages in append order with their read
// receipts.
func (r *chatRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	var reads []domain.MessageRead
	err = r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("read_at ASC, user_id ASC").
		Find(&reads).Error
	if err != nil {
		return nil, err
	}

	readBy := make(map[uuid.UUID][]uuid.UUID, len(messages))
	for _, read := range reads {
		readBy[read.MessageID] = append(readBy[read.MessageID], read.UserID)
	}
	for _, msg := range messages {
		msg.ReadBy = readBy[msg.ID]
		if msg.ReadBy == nil {
			msg.ReadBy = []uuid.UUID{}
		}
	}

	return messages, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, chatID, userID uuid.UUID, at time.Time) error {
	var unread []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("chat_id = ?", chatID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads WHERE message_reads.message_id = messages.id AND message_reads.user_id = ?)", userID).
		Pluck("id", &unread).Error
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}

	reads := make([]domain.MessageRead, len(unread))
	for i, id := range unread {
		reads[i] = domain.MessageRead{MessageID: id, UserID: userID, ChatID: chatID, ReadAt: at}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(reads, 200).Error
}

func (r *chatRepository) LastMessages(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]*domain.Message, error) {
	result := make(map[uuid.UUID]*domain.Message, len(chatIDs))
	if len(chatIDs) == 0 {
		return result, nil
	}

	latest := r.db.Model(&domain.Message{}).
		Select("chat_id, MAX(seq) AS max_seq").
		Where("chat_id IN ?", chatIDs).
		Group("chat_id")

	var messages []*domain.Message
	err := r.db.WithContext(ctx).
		Select("messages.*").
		Joins("JOIN (?) AS latest ON latest.chat_id = messages.chat_id AND latest.max_seq = messages.seq", latest).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for _, msg := range messages {
		result[msg.ChatID] = msg
	}
	return result, nil
}

// UnreadCounts counts, per chat, the messages userID has not read. Chats with
// nothing unread are absent from the result.
func (r *chatRepository) UnreadCounts(ctx context.Context, userID uuid.UUID, chatIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64, len(chatIDs))
	if len(chatIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ChatID uuid.UUID
		Unread int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Select("chat_id, COUNT(*) AS unread").
		Where("chat_id IN ?", chatIDs).
		Where("NOT EXISTS (SELECT 1 FROM message_reads WHERE message_reads.message_id = messages.id AND message_reads.user_id = ?)", userID).
		Group("chat_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ChatID] = row.Unread
	}
	return result, nil
}
