//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := openTestDB(t)

	repo := NewUserRepository(db)
	admin := &model.User{
		Email:    " Owner@Example.com ",
		Password: "hashed",
		Name:     "Owner",
		Roles:    []string{model.RoleAdmin},
		Active:   true,
	}
	require.NoError(t, repo.Create(ctx, admin))

	t.Run("email is normalized", func(t *testing.T) {
		assert.Equal(t, "owner@example.com", admin.Email)
		got, err := repo.FindByEmail(ctx, "OWNER@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, admin.ID, got.ID)
		assert.Equal(t, "hashed", got.Password)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Email: "owner@example.com", Active: true})
		assert.Error(t, err)
	})

	t.Run("find by id omits password", func(t *testing.T) {
		got, err := repo.FindByID(ctx, admin.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.Password)

		missing, err := repo.FindByID(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("count by role", func(t *testing.T) {
		n, err := repo.CountByRole(ctx, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.CountByRole(ctx, model.RoleStaff)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestTokenRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewTokenRepository(openTestDB(t))
	userID := primitive.NewObjectID()
	hour := time.Now().Add(time.Hour)

	require.NoError(t, repo.Save(ctx, &model.StaffToken{UserID: userID, Hash: "r1", Kind: model.TokenRefresh, ExpiresAt: hour}))
	require.NoError(t, repo.Save(ctx, &model.StaffToken{UserID: userID, Hash: "r2", Kind: model.TokenRefresh, ExpiresAt: hour}))
	require.NoError(t, repo.Save(ctx, &model.StaffToken{UserID: userID, Hash: "lapsed", Kind: model.TokenRefresh, ExpiresAt: time.Now().Add(-time.Minute)}))

	t.Run("duplicate digest is rejected", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, &model.StaffToken{UserID: userID, Hash: "r1", Kind: model.TokenRefresh, ExpiresAt: hour}))
	})

	t.Run("refresh is taken once", func(t *testing.T) {
		got, err := repo.TakeRefresh(ctx, "r1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, userID, got.UserID)

		again, err := repo.TakeRefresh(ctx, "r1")
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("lapsed refresh is not honoured", func(t *testing.T) {
		got, err := repo.TakeRefresh(ctx, "lapsed")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("revocations expire", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &model.StaffToken{UserID: userID, Hash: "a-live", Kind: model.TokenRevoked, ExpiresAt: hour}))
		require.NoError(t, repo.Save(ctx, &model.StaffToken{UserID: userID, Hash: "a-old", Kind: model.TokenRevoked, ExpiresAt: time.Now().Add(-time.Hour)}))

		revoked, err := repo.IsRevoked(ctx, "a-live")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = repo.IsRevoked(ctx, "a-old")
		require.NoError(t, err)
		assert.False(t, revoked)

		revoked, err = repo.IsRevoked(ctx, "r2")
		require.NoError(t, err)
		assert.False(t, revoked, "a refresh digest is not a revocation")
	})

	t.Run("drop refresh keeps revocations", func(t *testing.T) {
		require.NoError(t, repo.DropRefresh(ctx, userID))

		got, err := repo.TakeRefresh(ctx, "r2")
		require.NoError(t, err)
		assert.Nil(t, got)

		revoked, err := repo.IsRevoked(ctx, "a-live")
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
