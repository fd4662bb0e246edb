package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS user_profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	role TEXT NOT NULL DEFAULT 'user',
	employee_id TEXT NOT NULL UNIQUE,
	department TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT ''
);
`

type ProfileRepository struct {
	q dbtx
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create user_profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	res, err := r.q.ExecContext(ctx, `
INSERT INTO user_profiles (user_id, role, employee_id, department, phone)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	role = excluded.role,
	employee_id = excluded.employee_id,
	department = excluded.department,
	phone = excluded.phone`,
		profile.UserID,
		string(profile.Role),
		profile.EmployeeID,
		profile.Department,
		profile.Phone,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("employee id %q: %w", profile.EmployeeID, repository.ErrDuplicate)
		}
		return fmt.Errorf("upsert profile: %w", err)
	}

	if profile.ID == 0 {
		if id, err := res.LastInsertId(); err == nil {
			profile.ID = id
		}
	}
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, user_id, role, employee_id, department, phone
FROM user_profiles
WHERE user_id = ?`,
		userID,
	)

	var (
		profile domain.UserProfile
		role    string
	)
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&role,
		&profile.EmployeeID,
		&profile.Department,
		&profile.Phone,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	profile.Role = domain.Role(role)
	return &profile, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
