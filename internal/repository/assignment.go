package repository

import (
	"context"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
)

// AssetAssignmentRepository manages the append-only custody ledger. Rows are
// created by assign operations and closed (returned_date set) by return
// operations or the retirement cascade; they are never deleted except when
// their asset is deleted.
type AssetAssignmentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, assignment *domain.AssetAssignment) (int64, error)
	Update(ctx context.Context, assignment *domain.AssetAssignment) error
	// ListByAsset returns the full history for an asset, newest first.
	ListByAsset(ctx context.Context, assetID int64) ([]domain.AssetAssignment, error)
	// ListOpenByAsset returns every row with no returned_date for the
	// asset, newest assigned_date first.
	ListOpenByAsset(ctx context.Context, assetID int64) ([]domain.AssetAssignment, error)
	// LatestByAsset returns the most recent row (open or closed), or
	// ErrNotFound when the asset has no history.
	LatestByAsset(ctx context.Context, assetID int64) (*domain.AssetAssignment, error)
	// ListOpen returns open assignments across all assets, newest first,
	// optionally restricted to one holder. limit <= 0 means no limit.
	ListOpen(ctx context.Context, assignedTo *int64, limit int) ([]domain.AssetAssignment, error)
}
