package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories use, so the
// same code runs inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repository.Store over a sqlite database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates all tables.
func (s *Store) Init(ctx context.Context) error {
	stores := s.Stores()
	if err := stores.Users.Init(ctx); err != nil {
		return err
	}
	if err := stores.Profiles.Init(ctx); err != nil {
		return err
	}
	if err := stores.Assets.Init(ctx); err != nil {
		return err
	}
	return stores.Assignments.Init(ctx)
}

// Stores returns repositories bound to the shared pool.
func (s *Store) Stores() repository.Stores {
	return storesOver(s.db)
}

// InTx runs fn against transaction-bound repositories. The transaction is
// rolled back unless fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(r repository.Stores) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(storesOver(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func storesOver(q dbtx) repository.Stores {
	return repository.Stores{
		Users:       &UserRepository{q: q},
		Profiles:    &ProfileRepository{q: q},
		Assets:      &AssetRepository{q: q},
		Assignments: &AssignmentRepository{q: q},
	}
}

var _ repository.Store = (*Store)(nil)

// isUniqueViolation detects sqlite UNIQUE constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
