package domain

import "time"

// AssetAssignment is one custody event in the append-only ledger. A row with
// no ReturnedDate is an open assignment: the asset is currently in the
// custody of AssignedTo.
type AssetAssignment struct {
	ID           int64
	AssetID      int64
	AssignedTo   int64
	AssignedBy   int64
	AssignedDate time.Time
	ReturnedDate *time.Time
	Notes        string
}

// Open reports whether the assignment has not been returned yet.
func (a AssetAssignment) Open() bool {
	return a.ReturnedDate == nil
}
