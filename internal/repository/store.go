package repository

import "context"

// Stores bundles every repository bound to the same database handle, either
// the shared pool or a single transaction.
type Stores struct {
	Users       UserRepository
	Profiles    ProfileRepository
	Assets      AssetRepository
	Assignments AssetAssignmentRepository
}

// Store is the entity-store contract consumed by the services. InTx runs fn
// against transaction-bound repositories and commits only if fn returns nil,
// so each lifecycle transition is all-or-nothing.
type Store interface {
	Stores() Stores
	InTx(ctx context.Context, fn func(s Stores) error) error
}
