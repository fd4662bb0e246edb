package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository/sqlite"
)

func newTestReportService(t *testing.T) (*ReportService, *AssetService) {
	t.Helper()
	assets, store := newTestAssetService(t)
	return NewReportService(store), assets
}

func TestReportOrderedBySerial(t *testing.T) {
	reports, assets := newTestReportService(t)
	store := assets.store.(*sqlite.Store)
	admin := seedActor(t, store, "admin", domain.RoleAdmin)
	ctx := context.Background()

	// Seed out of order to prove the report sorts.
	seedAsset(t, store, "LAP002", domain.StatusAvailable, nil)
	seedAsset(t, store, "DES001", domain.StatusAvailable, nil)
	seedAsset(t, store, "LAP001", domain.StatusAvailable, nil)

	rows, err := reports.Rows(ctx, admin, ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	serials := make([]string, len(rows))
	for i, r := range rows {
		serials[i] = r.SerialNumber
	}
	assert.Equal(t, []string{"DES001", "LAP001", "LAP002"}, serials)
}

func TestReportUnassignedCells(t *testing.T) {
	reports, assets := newTestReportService(t)
	store := assets.store.(*sqlite.Store)
	admin := seedActor(t, store, "admin", domain.RoleAdmin)

	seedAsset(t, store, "MON001", domain.StatusAvailable, nil)

	rows, err := reports.Rows(context.Background(), admin, ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "N/A", row.AssignedUser)
	assert.Equal(t, "N/A", row.EmployeeID)
	assert.Equal(t, "N/A", row.AssignedDate)
	assert.Equal(t, "N/A", row.ReturnedDate)
}

func TestReportAssignedRow(t *testing.T) {
	reports, assets := newTestReportService(t)
	store := assets.store.(*sqlite.Store)
	admin := seedActor(t, store, "admin", domain.RoleAdmin)
	incharge := seedActor(t, store, "incharge", domain.RoleAssetIncharge)
	ctx := context.Background()

	holder := &domain.User{Username: "anguyen", PasswordHash: "x", FirstName: "Alice", LastName: "Nguyen"}
	holderID, err := store.Stores().Users.Create(ctx, holder)
	require.NoError(t, err)
	require.NoError(t, store.Stores().Profiles.Upsert(ctx, &domain.UserProfile{
		UserID:     holderID,
		Role:       domain.RoleUser,
		EmployeeID: "EMP042",
		Department: "Sales",
	}))

	asset := &domain.Asset{
		SerialNumber:   "MOB001",
		DisplayName:    "iPhone 14",
		Department:     "Sales",
		ModelCategory:  domain.CategoryMobile,
		Status:         domain.StatusAssigned,
		Company:        "Apple Inc.",
		AssignedUserID: &holderID,
	}
	_, err = store.Stores().Assets.Create(ctx, asset)
	require.NoError(t, err)

	at := time.Date(2024, 6, 2, 14, 30, 0, 0, time.UTC)
	_, err = NewLedger(store.Stores().Assignments).Record(ctx, asset.ID, holderID, incharge.User.ID, at, "")
	require.NoError(t, err)

	rows, err := reports.Rows(ctx, admin, ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Mobile Phone", row.ModelCategory)
	assert.Equal(t, "Assigned", row.Status)
	assert.Equal(t, "Alice Nguyen", row.AssignedUser)
	assert.Equal(t, "EMP042", row.EmployeeID)
	assert.Equal(t, "2024-06-02 14:30", row.AssignedDate)
	assert.Equal(t, "N/A", row.ReturnedDate)
}

func TestReportStatusLabels(t *testing.T) {
	reports, assets := newTestReportService(t)
	store := assets.store.(*sqlite.Store)
	admin := seedActor(t, store, "admin", domain.RoleAdmin)

	seedAsset(t, store, "PRT001", domain.StatusMaintenance, nil)

	rows, err := reports.Rows(context.Background(), admin, ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Under Maintenance", rows[0].Status)
}

func TestReportFilters(t *testing.T) {
	reports, assets := newTestReportService(t)
	store := assets.store.(*sqlite.Store)
	admin := seedActor(t, store, "admin", domain.RoleAdmin)
	ctx := context.Background()

	seedAsset(t, store, "LAP001", domain.StatusAvailable, nil)
	seedAsset(t, store, "LAP002", domain.StatusMaintenance, nil)

	rows, err := reports.Rows(ctx, admin, ListOptions{Status: domain.StatusMaintenance})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "LAP002", rows[0].SerialNumber)
}

func TestReportDeniedForRegularUser(t *testing.T) {
	reports, assets := newTestReportService(t)
	store := assets.store.(*sqlite.Store)
	user := seedActor(t, store, "user1", domain.RoleUser)

	_, err := reports.Rows(context.Background(), user, ListOptions{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestReportHeaderMatchesRowValues(t *testing.T) {
	row := ReportRow{}
	assert.Len(t, row.Values(), len(ReportHeader))
}
