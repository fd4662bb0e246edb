package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

const createAssetsTable = `
CREATE TABLE IF NOT EXISTS assets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	serial_number TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	model_category TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'available',
	company TEXT NOT NULL DEFAULT '',
	assigned_user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const assetColumns = `a.id, a.serial_number, a.display_name, a.department, a.model_category, a.status, a.company, a.assigned_user_id, a.created_at, a.updated_at`

type AssetRepository struct {
	q dbtx
}

func (r *AssetRepository) Init(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, createAssetsTable); err != nil {
		return fmt.Errorf("create assets table: %w", err)
	}
	return nil
}

func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) (int64, error) {
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	res, err := r.q.ExecContext(ctx, `
INSERT INTO assets (serial_number, display_name, department, model_category, status, company, assigned_user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.SerialNumber,
		asset.DisplayName,
		asset.Department,
		string(asset.ModelCategory),
		string(asset.Status),
		asset.Company,
		nullID(asset.AssignedUserID),
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("serial number %q: %w", asset.SerialNumber, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert asset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("asset last insert id: %w", err)
	}
	asset.ID = id
	return id, nil
}

// Update writes every mutable column. serial_number is deliberately absent
// from the SET list: it is immutable after creation.
func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	asset.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
UPDATE assets
SET display_name=?, department=?, model_category=?, status=?, company=?, assigned_user_id=?, updated_at=?
WHERE id=?`,
		asset.DisplayName,
		asset.Department,
		string(asset.ModelCategory),
		string(asset.Status),
		asset.Company,
		nullID(asset.AssignedUserID),
		asset.UpdatedAt,
		asset.ID,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("asset update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("asset %d: %w", asset.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM asset_assignments WHERE asset_id=?`, id); err != nil {
		return fmt.Errorf("delete asset assignments: %w", err)
	}

	res, err := r.q.ExecContext(ctx, `DELETE FROM assets WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("asset delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("asset %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *AssetRepository) GetBySerial(ctx context.Context, serialNumber string) (*domain.Asset, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+assetColumns+`
FROM assets a
WHERE a.serial_number = ?`,
		serialNumber,
	)
	return scanAsset(row)
}

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+assetColumns+`
FROM assets a
WHERE a.id = ?`,
		id,
	)
	return scanAsset(row)
}

func (r *AssetRepository) List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	var (
		where []string
		args  []any
	)

	if q := strings.TrimSpace(filter.Search); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, `(LOWER(a.serial_number) LIKE ? OR LOWER(a.display_name) LIKE ? OR LOWER(a.department) LIKE ? OR LOWER(COALESCE(u.username, '')) LIKE ?)`)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		where = append(where, `a.status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		where = append(where, `a.model_category = ?`)
		args = append(args, string(filter.Category))
	}
	if filter.AssignedUserID != nil {
		where = append(where, `a.assigned_user_id = ?`)
		args = append(args, *filter.AssignedUserID)
	}

	query := `
SELECT ` + assetColumns + `
FROM assets a
LEFT JOIN users u ON u.id = a.assigned_user_id`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	if filter.OrderBySerial {
		query += "\nORDER BY a.serial_number ASC"
	} else {
		query += "\nORDER BY a.created_at DESC, a.id DESC"
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) CountByStatus(ctx context.Context) (repository.StatusCounts, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return repository.StatusCounts{}, fmt.Errorf("count assets: %w", err)
	}
	defer rows.Close()

	var counts repository.StatusCounts
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return repository.StatusCounts{}, fmt.Errorf("scan asset count: %w", err)
		}
		counts.Total += n
		switch domain.AssetStatus(status) {
		case domain.StatusAssigned:
			counts.Assigned = n
		case domain.StatusAvailable:
			counts.Available = n
		case domain.StatusMaintenance:
			counts.Maintenance = n
		}
	}
	return counts, rows.Err()
}

func (r *AssetRepository) CountAssignedTo(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets WHERE assigned_user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assigned assets: %w", err)
	}
	return n, nil
}

func scanAsset(row interface {
	Scan(dest ...any) error
}) (*domain.Asset, error) {
	var (
		asset        domain.Asset
		category     string
		status       string
		assignedUser sql.NullInt64
	)
	if err := row.Scan(
		&asset.ID,
		&asset.SerialNumber,
		&asset.DisplayName,
		&asset.Department,
		&category,
		&status,
		&asset.Company,
		&assignedUser,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	asset.ModelCategory = domain.AssetCategory(category)
	asset.Status = domain.AssetStatus(status)
	if assignedUser.Valid {
		id := assignedUser.Int64
		asset.AssignedUserID = &id
	}
	return &asset, nil
}

func nullID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

var _ repository.AssetRepository = (*AssetRepository)(nil)
