package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/storage/db"
)

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	Insert(ctx context.Context, user model.User) error
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	UpdateSettings(ctx context.Context, email, username, currency string) error
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, username, currency, created_at, updated_at`

func (r userRepository) Insert(ctx context.Context, user model.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, username, currency, created_at, updated_at)
		VALUES (@id, @email, @password_hash, @username, @currency, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":            user.ID,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"username":      user.Username,
		"currency":      user.Currency,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r userRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, `email = @value`, email)
}

func (r userRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, `username = @value`, username)
}

func (r userRepository) findOne(ctx context.Context, cond, value string) (model.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+cond+`
	`, pgx.NamedArgs{"value": value})

	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Username,
		&u.Currency,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}

func (r userRepository) UpdateSettings(ctx context.Context, email, username, currency string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username   = @username,
			currency   = @currency,
			updated_at = @updated_at
		WHERE email = @email
	`, pgx.NamedArgs{
		"email":      email,
		"username":   username,
		"currency":   currency,
		"updated_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("update user settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
