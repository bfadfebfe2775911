package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchService_ListMatches(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	oldest, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	quiet, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	pinned, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	chatty, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.CreateMatch(t, testDB.DB, user.ID, oldest.ID, base)
	testutil.CreateMatch(t, testDB.DB, user.ID, quiet.ID, base.Add(time.Minute))
	testutil.CreateMatch(t, testDB.DB, pinned.ID, user.ID, base.Add(2*time.Minute))
	testutil.CreateMatch(t, testDB.DB, user.ID, chatty.ID, base.Add(3*time.Minute))

	isPinned, err := services.Match.TogglePin(ctx, user.ID, pinned.ID)
	require.NoError(t, err)
	require.True(t, isPinned)

	post := func(other uuid.UUID, at time.Time) uuid.UUID {
		t.Helper()
		chat, _, err := repos.Chat.GetOrCreate(ctx, user.ID, other)
		require.NoError(t, err)
		require.NoError(t, repos.Chat.AppendMessage(ctx, &domain.Message{
			ChatID: chat.ID, SenderID: other, Content: "hello", CreatedAt: at,
		}))
		return chat.ID
	}
	quietChat := post(quiet.ID, base.Add(10*time.Minute))
	post(chatty.ID, base.Add(20*time.Minute))

	entries, err := services.Match.ListMatches(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	order := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		order[i] = e.User.ID
	}
	// Latest message first, then the message-less ones with pins ahead.
	assert.Equal(t, []uuid.UUID{chatty.ID, quiet.ID, pinned.ID, oldest.ID}, order)

	assert.True(t, entries[2].IsPinned)
	assert.False(t, entries[3].IsPinned)
	require.NotNil(t, entries[1].ChatID)
	assert.Equal(t, quietChat, *entries[1].ChatID)
	require.NotNil(t, entries[1].LastMessage)
	assert.Equal(t, "hello", entries[1].LastMessage.Content)
	assert.Nil(t, entries[3].ChatID)
	assert.Nil(t, entries[3].LastMessage)

	t.Run("no matches", func(t *testing.T) {
		loner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		entries, err := services.Match.ListMatches(ctx, loner.ID)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := services.Match.ListMatches(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestMatchService_TogglePin(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	match, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.CreateMatch(t, testDB.DB, match.ID, user.ID, time.Now())

	t.Run("toggling twice restores the original state", func(t *testing.T) {
		pinned, err := services.Match.TogglePin(ctx, user.ID, match.ID)
		require.NoError(t, err)
		assert.True(t, pinned)

		pinned, err = services.Match.TogglePin(ctx, user.ID, match.ID)
		require.NoError(t, err)
		assert.False(t, pinned)

		stored, err := repos.Match.IsPinned(ctx, user.ID, match.ID)
		require.NoError(t, err)
		assert.False(t, stored)
	})

	t.Run("pins are per user", func(t *testing.T) {
		pinned, err := services.Match.TogglePin(ctx, match.ID, user.ID)
		require.NoError(t, err)
		assert.True(t, pinned)

		stored, err := repos.Match.IsPinned(ctx, user.ID, match.ID)
		require.NoError(t, err)
		assert.False(t, stored)
	})

	t.Run("only matches can be pinned", func(t *testing.T) {
		_, err := services.Match.TogglePin(ctx, user.ID, stranger.ID)
		assert.ErrorIs(t, err, domain.ErrNotMatched)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := services.Match.TogglePin(ctx, user.ID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
