package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type Service struct {
	repo     Repository
	hashCost int
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, hashCost: bcrypt.DefaultCost}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type RegisterParams struct {
	Username string
	Password string
	ShopName string
}

// Register creates an account. The first account of the installation is the
// admin; every later one is a cashier.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	username := strings.ToLower(strings.TrimSpace(params.Username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	if len(params.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Username:     username,
		ShopName:     strings.TrimSpace(params.ShopName),
		PasswordHash: string(hash),
		Role:         RoleCashier,
	}

	if count == 0 {
		u.Role = RoleAdmin
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}
