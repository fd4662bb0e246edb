package repository

import (
	"context"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// ListByRole returns users whose profile carries the given role,
	// ordered by username.
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// ProfileRepository defines persistence operations for UserProfile entities.
// employee_id is unique at the store level.
type ProfileRepository interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error)
}
