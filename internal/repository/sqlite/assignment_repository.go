package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

const createAssignmentsTable = `
CREATE TABLE IF NOT EXISTS asset_assignments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id INTEGER NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	assigned_to INTEGER NOT NULL REFERENCES users(id),
	assigned_by INTEGER NOT NULL REFERENCES users(id),
	assigned_date DATETIME NOT NULL,
	returned_date DATETIME NULL,
	notes TEXT NOT NULL DEFAULT ''
);
`

const assignmentColumns = `id, asset_id, assigned_to, assigned_by, assigned_date, returned_date, notes`

type AssignmentRepository struct {
	q dbtx
}

func (r *AssignmentRepository) Init(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, createAssignmentsTable); err != nil {
		return fmt.Errorf("create asset_assignments table: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.AssetAssignment) (int64, error) {
	if assignment.AssignedDate.IsZero() {
		assignment.AssignedDate = time.Now().UTC()
	}

	res, err := r.q.ExecContext(ctx, `
INSERT INTO asset_assignments (asset_id, assigned_to, assigned_by, assigned_date, returned_date, notes)
VALUES (?, ?, ?, ?, ?, ?)`,
		assignment.AssetID,
		assignment.AssignedTo,
		assignment.AssignedBy,
		assignment.AssignedDate,
		nullTime(assignment.ReturnedDate),
		assignment.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert assignment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("assignment last insert id: %w", err)
	}
	assignment.ID = id
	return id, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, assignment *domain.AssetAssignment) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE asset_assignments
SET asset_id=?, assigned_to=?, assigned_by=?, assigned_date=?, returned_date=?, notes=?
WHERE id=?`,
		assignment.AssetID,
		assignment.AssignedTo,
		assignment.AssignedBy,
		assignment.AssignedDate,
		nullTime(assignment.ReturnedDate),
		assignment.Notes,
		assignment.ID,
	)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assignment update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("assignment %d: %w", assignment.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *AssignmentRepository) ListByAsset(ctx context.Context, assetID int64) ([]domain.AssetAssignment, error) {
	return r.list(ctx, `
SELECT `+assignmentColumns+`
FROM asset_assignments
WHERE asset_id = ?
ORDER BY assigned_date DESC, id DESC`,
		assetID,
	)
}

func (r *AssignmentRepository) ListOpenByAsset(ctx context.Context, assetID int64) ([]domain.AssetAssignment, error) {
	return r.list(ctx, `
SELECT `+assignmentColumns+`
FROM asset_assignments
WHERE asset_id = ? AND returned_date IS NULL
ORDER BY assigned_date DESC, id DESC`,
		assetID,
	)
}

func (r *AssignmentRepository) LatestByAsset(ctx context.Context, assetID int64) (*domain.AssetAssignment, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+assignmentColumns+`
FROM asset_assignments
WHERE asset_id = ?
ORDER BY assigned_date DESC, id DESC
LIMIT 1`,
		assetID,
	)
	return scanAssignment(row)
}

func (r *AssignmentRepository) ListOpen(ctx context.Context, assignedTo *int64, limit int) ([]domain.AssetAssignment, error) {
	query := `
SELECT ` + assignmentColumns + `
FROM asset_assignments
WHERE returned_date IS NULL`
	var args []any
	if assignedTo != nil {
		query += ` AND assigned_to = ?`
		args = append(args, *assignedTo)
	}
	query += `
ORDER BY assigned_date DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

func (r *AssignmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.AssetAssignment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.AssetAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func scanAssignment(row interface {
	Scan(dest ...any) error
}) (*domain.AssetAssignment, error) {
	var (
		a        domain.AssetAssignment
		returned sql.NullTime
	)
	if err := row.Scan(
		&a.ID,
		&a.AssetID,
		&a.AssignedTo,
		&a.AssignedBy,
		&a.AssignedDate,
		&returned,
		&a.Notes,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	if returned.Valid {
		t := returned.Time
		a.ReturnedDate = &t
	}
	return &a, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

var _ repository.AssetAssignmentRepository = (*AssignmentRepository)(nil)
