package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/balancesheet-pro/apiserver/internal/store"
	"github.com/balancesheet-pro/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when a username or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmptyPassword is returned by Register for a blank password.
	ErrEmptyPassword = errors.New("password must not be empty")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo       UserRepository
	bcryptCost int
	now        func() time.Time
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, bcryptCost: bcrypt.DefaultCost, now: time.Now}
}

// WithBcryptCost returns the service using a different hashing cost.
func (s *UserService) WithBcryptCost(cost int) *UserService {
	s.bcryptCost = cost
	return s
}

func (s *UserService) GetByID(ctx context.Context, id int64) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Register creates an account with a bcrypt-hashed password. A taken
// username or email yields store.ErrConflict.
func (s *UserService) Register(ctx context.Context, username, email, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if strings.TrimSpace(password) == "" {
		return types.User{}, ErrEmptyPassword
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.User{}, fmt.Errorf("username %q: %w", username, store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.User{}, fmt.Errorf("email %q: %w", email, store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	})
}

// Authenticate verifies credentials and stamps the login time.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return types.User{}, err
	}
	user.LastLogin = &now
	return user, nil
}

// EnsureUser registers the account unless the username already exists.
// The boolean reports whether a new account was created.
func (s *UserService) EnsureUser(ctx context.Context, username, email, password string) (types.User, bool, error) {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, false, err
	}
	user, err := s.Register(ctx, username, email, password)
	if err != nil {
		return types.User{}, false, err
	}
	return user, true, nil
}
