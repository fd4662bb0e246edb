package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
)

func TestLedgerOpenPicksLatest(t *testing.T) {
	store := newTestStore(t)
	incharge := seedActor(t, store, "incharge", domain.RoleAssetIncharge)
	holder := seedActor(t, store, "user1", domain.RoleUser)
	asset := seedAsset(t, store, "LAP001", domain.StatusAssigned, &holder.User.ID)
	ctx := context.Background()

	ledger := NewLedger(store.Stores().Assignments)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := ledger.Record(ctx, asset.ID, holder.User.ID, incharge.User.ID, base, "old")
	require.NoError(t, err)
	latest, err := ledger.Record(ctx, asset.ID, holder.User.ID, incharge.User.ID, base.Add(48*time.Hour), "new")
	require.NoError(t, err)

	open, err := ledger.Open(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, open.ID)
	assert.Equal(t, "new", open.Notes)
}

func TestLedgerOpenNone(t *testing.T) {
	store := newTestStore(t)
	asset := seedAsset(t, store, "LAP001", domain.StatusAvailable, nil)

	ledger := NewLedger(store.Stores().Assignments)
	_, err := ledger.Open(context.Background(), asset.ID)
	assert.ErrorIs(t, err, ErrNoActiveAssignment)
}

func TestLedgerCloseIdempotent(t *testing.T) {
	store := newTestStore(t)
	incharge := seedActor(t, store, "incharge", domain.RoleAssetIncharge)
	holder := seedActor(t, store, "user1", domain.RoleUser)
	asset := seedAsset(t, store, "LAP001", domain.StatusAssigned, &holder.User.ID)
	ctx := context.Background()

	ledger := NewLedger(store.Stores().Assignments)
	assignment, err := ledger.Record(ctx, asset.ID, holder.User.ID, incharge.User.ID, time.Now(), "initial")
	require.NoError(t, err)

	first := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.Close(ctx, assignment, first, RetirementNote))
	require.NotNil(t, assignment.ReturnedDate)
	assert.Equal(t, first, *assignment.ReturnedDate)
	assert.Equal(t, "initial\n"+RetirementNote, assignment.Notes)

	// A second close must not move the return date or restamp the note.
	require.NoError(t, ledger.Close(ctx, assignment, first.Add(time.Hour), RetirementNote))
	assert.Equal(t, first, *assignment.ReturnedDate)
	assert.Equal(t, "initial\n"+RetirementNote, assignment.Notes)

	history, err := ledger.History(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].ReturnedDate)
	assert.True(t, first.Equal(*history[0].ReturnedDate), "stored return date changed on second close")
}

func TestLedgerHistoryNewestFirst(t *testing.T) {
	store := newTestStore(t)
	incharge := seedActor(t, store, "incharge", domain.RoleAssetIncharge)
	holder := seedActor(t, store, "user1", domain.RoleUser)
	asset := seedAsset(t, store, "LAP001", domain.StatusAvailable, nil)
	ctx := context.Background()

	ledger := NewLedger(store.Stores().Assignments)
	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	for i, notes := range []string{"first", "second", "third"} {
		a, err := ledger.Record(ctx, asset.ID, holder.User.ID, incharge.User.ID, base.AddDate(0, 0, i), notes)
		require.NoError(t, err)
		if notes != "third" {
			require.NoError(t, ledger.Close(ctx, a, base.AddDate(0, 0, i).Add(4*time.Hour), ""))
		}
	}

	history, err := ledger.History(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third", history[0].Notes)
	assert.Equal(t, "first", history[2].Notes)
	assert.Nil(t, history[0].ReturnedDate)
}
