package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/apperror"
)

func TestUserService_Register(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.Users)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  alice  ", "Alice@Example.COM")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "emails are lowercased")

	_, err = svc.Register(ctx, "", "x@example.com")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	_, err = svc.Register(ctx, "bob", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	_, err = svc.Register(ctx, "bob", "not-an-email")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestUserService_DuplicateEmailConflicts(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "imposter", "ALICE@example.com")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUserService_Resolve(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.Users)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com")
	require.NoError(t, err)

	byID, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := svc.GetByEmail(ctx, " Alice@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = svc.GetByID(ctx, "missing")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
