package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/service"
	"github.com/dom/spark/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfileService_UpdateProfile(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithoutDateOfBirth().WithName("Before").Build(t, testDB.DB)

	tests := []struct {
		name    string
		update  service.ProfileUpdate
		wantErr error
		check   func(t *testing.T, u *domain.User)
	}{
		{
			name: "partial update",
			update: service.ProfileUpdate{
				Name:        strPtr("  After "),
				DateOfBirth: strPtr("1990-02-03"),
				Gender:      strPtr("Male"),
				Bio:         strPtr("likes hiking"),
			},
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "After", u.Name)
				assert.Equal(t, domain.GenderMale, u.Gender)
				assert.Equal(t, "likes hiking", u.Bio)
				assert.Equal(t, domain.InterestedInBoth, u.InterestedIn, "untouched")
				require.NotNil(t, u.DateOfBirth)
				assert.Equal(t, "1990-02-03", time.Time(*u.DateOfBirth).Format("2006-01-02"))
			},
		},
		{
			name:   "interested in",
			update: service.ProfileUpdate{InterestedIn: strPtr("Female")},
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, domain.InterestedInFemale, u.InterestedIn)
				assert.Equal(t, "After", u.Name)
			},
		},
		{
			name:    "invalid gender",
			update:  service.ProfileUpdate{Gender: strPtr("robot")},
			wantErr: domain.ErrInvalidGender,
		},
		{
			name:    "invalid interest",
			update:  service.ProfileUpdate{InterestedIn: strPtr("Everyone")},
			wantErr: domain.ErrInvalidInterestedIn,
		},
		{
			name:    "malformed date",
			update:  service.ProfileUpdate{DateOfBirth: strPtr("03/02/1990")},
			wantErr: domain.ErrInvalidDateOfBirth,
		},
		{
			name:    "future date",
			update:  service.ProfileUpdate{DateOfBirth: strPtr(time.Now().AddDate(1, 0, 0).Format("2006-01-02"))},
			wantErr: domain.ErrInvalidDateOfBirth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.Profile.UpdateProfile(ctx, user.ID, tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		_, err := services.Profile.UpdateProfile(ctx, uuid.New(), service.ProfileUpdate{Bio: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("completed profile enters feeds", func(t *testing.T) {
		viewer, _ := testutil.NewUserBuilder().WithInterestedIn(domain.InterestedInMale).Build(t, testDB.DB)
		feed, err := services.Feed.GetFeed(ctx, viewer.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, feed.Users, 1)
		assert.Equal(t, user.ID, feed.Users[0].ID)
	})
}

func TestProfileService_ListLikedBy(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, services, _ := testutil.NewTestServices(testDB.DB, testutil.TestConfig())
	ctx := context.Background()

	me, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	admirer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	critic, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	mutual, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	for _, s := range []struct {
		actor, target uuid.UUID
		dir           domain.Direction
	}{
		{admirer.ID, me.ID, domain.DirectionRight},
		{critic.ID, me.ID, domain.DirectionLeft},
		{mutual.ID, me.ID, domain.DirectionRight},
		{me.ID, mutual.ID, domain.DirectionRight},
	} {
		_, err := services.Swipe.Swipe(ctx, s.actor, s.target, s.dir)
		require.NoError(t, err)
	}

	likers, err := services.Profile.ListLikedBy(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, admirer.ID, likers[0].ID)

	_, err = services.Profile.ListLikedBy(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
