package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
)

func TestAuthenticate(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = store.Stores().Users.Create(ctx, &domain.User{
		Username:     "admin",
		PasswordHash: string(hash),
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Empty(t, user.PasswordHash, "authenticated user must not carry the hash")

	_, err = svc.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestActorFor(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	actor := seedActor(t, store, "incharge", domain.RoleAssetIncharge)

	resolved, err := svc.ActorFor(ctx, actor.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssetIncharge, resolved.Role())
	assert.Empty(t, resolved.User.PasswordHash)
}

func TestActorForMissingProfile(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	id, err := store.Stores().Users.Create(ctx, &domain.User{
		Username:     "orphan",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	_, err = svc.ActorFor(ctx, id)
	assert.ErrorIs(t, err, ErrProfileMissing)
}

func TestActorForUnknownUser(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)

	_, err := svc.ActorFor(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListAssignable(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)

	seedActor(t, store, "admin", domain.RoleAdmin)
	seedActor(t, store, "incharge", domain.RoleAssetIncharge)
	seedActor(t, store, "user2", domain.RoleUser)
	seedActor(t, store, "user1", domain.RoleUser)

	users, err := svc.ListAssignable(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user1", users[0].Username)
	assert.Equal(t, "user2", users[1].Username)
}
