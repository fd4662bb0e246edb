package repository

import (
	"context"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
)

// AssetFilter narrows List queries. Zero values mean "no constraint".
type AssetFilter struct {
	// Search matches case-insensitively against serial number, display
	// name, department and the assigned user's username.
	Search   string
	Status   domain.AssetStatus
	Category domain.AssetCategory
	// AssignedUserID restricts results to assets currently held by the
	// given user (regular-user visibility).
	AssignedUserID *int64
	// OrderBySerial orders ascending by serial number instead of the
	// default newest-first ordering.
	OrderBySerial bool
}

// StatusCounts aggregates assets per lifecycle state for the dashboard.
type StatusCounts struct {
	Total       int64
	Assigned    int64
	Available   int64
	Maintenance int64
}

// AssetRepository exposes persistence operations for Asset records.
type AssetRepository interface {
	Init(ctx context.Context) error
	// Create inserts the asset; a serial number collision surfaces as
	// ErrDuplicate.
	Create(ctx context.Context, asset *domain.Asset) (int64, error)
	Update(ctx context.Context, asset *domain.Asset) error
	// Delete removes the asset and its assignment history.
	Delete(ctx context.Context, id int64) error
	GetBySerial(ctx context.Context, serialNumber string) (*domain.Asset, error)
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
	CountAssignedTo(ctx context.Context, userID int64) (int64, error)
}
