package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/database"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

const usernameIndex = "users_username_key"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectUserColumns = `id, username, shop_name, password_hash, role, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*user.User, error) {
	var u user.User
	if err := s.Scan(&u.ID, &u.Username, &u.ShopName, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}

	return n, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, shop_name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.Username, u.ShopName, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, usernameIndex) {
			return user.ErrUsernameTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by username: %w", err)
	}

	return u, nil
}
