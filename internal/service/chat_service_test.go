package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/service"
	"github.com/dom/spark/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_StartOrGetChat(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := services.Chat.StartOrGetChat(ctx, a.ID, b.ID)
	require.NoError(t, err)

	second, err := services.Chat.StartOrGetChat(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, second.Participants())

	tests := []struct {
		name   string
		target uuid.UUID
	}{
		{name: "nil target", target: uuid.Nil},
		{name: "self", target: a.ID},
		{name: "unknown user", target: uuid.New()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.Chat.StartOrGetChat(ctx, a.ID, tt.target)
			assert.ErrorIs(t, err, domain.ErrInvalidTarget)
		})
	}
}

func TestChatService_PostMessage(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	chat, err := services.Chat.StartOrGetChat(ctx, a.ID, b.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		sender  uuid.UUID
		chatID  uuid.UUID
		content string
		wantErr error
	}{
		{name: "empty", sender: a.ID, chatID: chat.ID, content: "", wantErr: domain.ErrEmptyMessage},
		{name: "whitespace only", sender: a.ID, chatID: chat.ID, content: " \n\t ", wantErr: domain.ErrEmptyMessage},
		{name: "too long", sender: a.ID, chatID: chat.ID, content: strings.Repeat("x", service.MaxMessageLength+1), wantErr: domain.ErrMessageTooLong},
		{name: "not a participant", sender: outsider.ID, chatID: chat.ID, content: "hi", wantErr: domain.ErrChatNotFound},
		{name: "unknown chat", sender: a.ID, chatID: uuid.New(), content: "hi", wantErr: domain.ErrChatNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.Chat.PostMessage(ctx, tt.chatID, tt.sender, tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Rejected posts leave the chat untouched.
	stored, err := repos.Chat.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastMessageAt)
	messages, err := repos.Chat.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	msg, err := services.Chat.PostMessage(ctx, chat.ID, a.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, a.ID, msg.SenderID)
	assert.Equal(t, int64(1), msg.Seq)

	stored, err = repos.Chat.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastMessageAt)
	assert.WithinDuration(t, msg.CreatedAt, *stored.LastMessageAt, time.Millisecond)
}

func TestChatService_ListMessages(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	chat, err := services.Chat.StartOrGetChat(ctx, a.ID, b.ID)
	require.NoError(t, err)

	contents := []string{"one", "two", "three", "four"}
	for i, content := range contents {
		sender := a.ID
		if i%2 == 1 {
			sender = b.ID
		}
		_, err := services.Chat.PostMessage(ctx, chat.ID, sender, content)
		require.NoError(t, err)
	}

	messages, err := services.Chat.ListMessages(ctx, chat.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, messages, len(contents))
	for i, msg := range messages {
		assert.Equal(t, contents[i], msg.Content)
		assert.Equal(t, int64(i+1), msg.Seq)
		assert.Contains(t, msg.ReadBy, b.ID)
		assert.NotContains(t, msg.ReadBy, a.ID)
	}

	_, err = services.Chat.ListMessages(ctx, chat.ID, outsider.ID)
	assert.ErrorIs(t, err, domain.ErrChatNotFound)
}

func TestChatService_ListChats(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()

	me, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	silent, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	early, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	late, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, err := services.Chat.StartOrGetChat(ctx, me.ID, silent.ID)
	require.NoError(t, err)
	earlyChat, err := services.Chat.StartOrGetChat(ctx, early.ID, me.ID)
	require.NoError(t, err)
	lateChat, err := services.Chat.StartOrGetChat(ctx, me.ID, late.ID)
	require.NoError(t, err)

	_, err = services.Chat.PostMessage(ctx, earlyChat.ID, early.ID, "first")
	require.NoError(t, err)
	_, err = services.Chat.PostMessage(ctx, earlyChat.ID, early.ID, "second")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = services.Chat.PostMessage(ctx, lateChat.ID, me.ID, "ping")
	require.NoError(t, err)

	chats, err := services.Chat.ListChats(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, chats, 3)

	assert.Equal(t, late.ID, chats[0].Participant.ID)
	assert.Equal(t, early.ID, chats[1].Participant.ID)
	assert.Equal(t, silent.ID, chats[2].Participant.ID)

	assert.Equal(t, "ping", chats[0].LastMessage.Content)
	assert.Equal(t, int64(1), chats[0].UnreadCount, "senders are not readers of their own messages")
	assert.Equal(t, "second", chats[1].LastMessage.Content)
	assert.Equal(t, int64(2), chats[1].UnreadCount)
	assert.Nil(t, chats[2].LastMessage)
	assert.Zero(t, chats[2].UnreadCount)

	_, err = services.Chat.ListMessages(ctx, earlyChat.ID, me.ID)
	require.NoError(t, err)

	chats, err = services.Chat.ListChats(ctx, me.ID)
	require.NoError(t, err)
	assert.Zero(t, chats[1].UnreadCount)

	empty, err := services.Chat.ListChats(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
