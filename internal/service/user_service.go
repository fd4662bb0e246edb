package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

// Actor is the resolved identity of a caller: the account plus its profile.
// The profile's role is trusted unconditionally by the asset core.
type Actor struct {
	User    domain.User
	Profile domain.UserProfile
}

func (a Actor) Role() domain.Role {
	return a.Profile.Role
}

// UserService resolves and authenticates accounts.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// ActorFor loads the account and its profile. A missing profile is an
	// auth error, never a silent default role.
	ActorFor(ctx context.Context, userID int64) (*Actor, error)
	// ListAssignable returns the accounts an asset may be assigned to.
	ListAssignable(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	store repository.Store
}

func NewUserService(store repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.Stores().Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.Stores().Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) ActorFor(ctx context.Context, userID int64) (*Actor, error) {
	stores := s.store.Stores()

	user, err := stores.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := stores.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, err
	}

	return &Actor{User: *sanitizeUser(user), Profile: *profile}, nil
}

// ListAssignable returns role=user accounts, mirroring the assignment form's
// candidate list.
func (s *userService) ListAssignable(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Stores().Users.ListByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(users))
	for i := range users {
		out = append(out, *sanitizeUser(&users[i]))
	}
	return out, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
