package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func newTestAssetService(t *testing.T) (*AssetService, *sqlite.Store) {
	t.Helper()
	store := newTestStore(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAssetService(store, logger), store
}

func seedActor(t *testing.T, store *sqlite.Store, username string, role domain.Role) Actor {
	t.Helper()
	ctx := context.Background()
	stores := store.Stores()

	user := &domain.User{
		Username:     username,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     username,
	}
	id, err := stores.Users.Create(ctx, user)
	require.NoError(t, err)

	profile := &domain.UserProfile{
		UserID:     id,
		Role:       role,
		EmployeeID: "EMP-" + username,
		Department: "Testing",
	}
	require.NoError(t, stores.Profiles.Upsert(ctx, profile))

	return Actor{User: *user, Profile: *profile}
}

func seedAsset(t *testing.T, store *sqlite.Store, serial string, status domain.AssetStatus, assignedTo *int64) *domain.Asset {
	t.Helper()
	asset := &domain.Asset{
		SerialNumber:   serial,
		DisplayName:    "Test " + serial,
		Department:     "Engineering",
		ModelCategory:  domain.CategoryLaptop,
		Status:         status,
		Company:        "Acme",
		AssignedUserID: assignedTo,
	}
	_, err := store.Stores().Assets.Create(context.Background(), asset)
	require.NoError(t, err)
	return asset
}
