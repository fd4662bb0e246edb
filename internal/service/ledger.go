package service

import (
	"context"
	"time"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

// RetirementNote is appended to every assignment closed by the retirement
// cascade.
const RetirementNote = "(Automatically returned due to asset retirement)"

// Ledger is the append-only custody history of assets. It is constructed
// over whichever assignment repository the caller holds, so the lifecycle
// engine can run it inside a transaction.
type Ledger struct {
	assignments repository.AssetAssignmentRepository
}

func NewLedger(assignments repository.AssetAssignmentRepository) *Ledger {
	return &Ledger{assignments: assignments}
}

// Open returns the asset's open assignment, or ErrNoActiveAssignment. Should
// more than one row be open (the invariant says at most one, but the ledger
// must not fall over if the store disagrees), the latest by assigned_date
// wins.
func (l *Ledger) Open(ctx context.Context, assetID int64) (*domain.AssetAssignment, error) {
	open, err := l.assignments.ListOpenByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, ErrNoActiveAssignment
	}
	return &open[0], nil
}

// OpenAll returns every open assignment for the asset, newest first.
func (l *Ledger) OpenAll(ctx context.Context, assetID int64) ([]domain.AssetAssignment, error) {
	return l.assignments.ListOpenByAsset(ctx, assetID)
}

// Close stamps the return date and optionally appends extraNote to the
// assignment's notes. Closing an already-closed assignment is a no-op: the
// original return date is never overwritten.
func (l *Ledger) Close(ctx context.Context, assignment *domain.AssetAssignment, at time.Time, extraNote string) error {
	if assignment.ReturnedDate != nil {
		return nil
	}
	t := at.UTC()
	assignment.ReturnedDate = &t
	if extraNote != "" {
		assignment.Notes += "\n" + extraNote
	}
	return l.assignments.Update(ctx, assignment)
}

// Record appends a new open row. It does not close prior open rows; the
// lifecycle engine guarantees at most one open row per asset by its own call
// discipline.
func (l *Ledger) Record(ctx context.Context, assetID, assignedTo, assignedBy int64, at time.Time, notes string) (*domain.AssetAssignment, error) {
	assignment := &domain.AssetAssignment{
		AssetID:      assetID,
		AssignedTo:   assignedTo,
		AssignedBy:   assignedBy,
		AssignedDate: at.UTC(),
		Notes:        notes,
	}
	if _, err := l.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// History returns the full ledger for the asset, newest first.
func (l *Ledger) History(ctx context.Context, assetID int64) ([]domain.AssetAssignment, error) {
	return l.assignments.ListByAsset(ctx, assetID)
}
