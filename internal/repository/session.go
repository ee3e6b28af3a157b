package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/storage/db"
)

// ErrSessionNotFound is returned when no session row matches the token.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	WithDB(db db.DB) SessionRepository
	Create(ctx context.Context, session model.Session) error
	FindByToken(ctx context.Context, token string) (model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db db.DB
}

func NewSessionRepository(db db.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r sessionRepository) WithDB(db db.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r sessionRepository) Create(ctx context.Context, session model.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, token, user_email, created_at, expires_at)
		VALUES (@id, @token, @user_email, @created_at, @expires_at)
	`, pgx.NamedArgs{
		"id":         session.ID,
		"token":      session.Token,
		"user_email": session.UserEmail,
		"created_at": session.CreatedAt,
		"expires_at": session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (r sessionRepository) FindByToken(ctx context.Context, token string) (model.Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, token, user_email, created_at, expires_at
		FROM sessions
		WHERE token = @token
	`, pgx.NamedArgs{"token": token})

	var s model.Session
	err := row.Scan(&s.ID, &s.Token, &s.UserEmail, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("find session by token: %w", err)
	}

	return s, nil
}

func (r sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE token = @token
	`, pgx.NamedArgs{"token": token})
	if err != nil {
		return fmt.Errorf("delete session by token: %w", err)
	}

	return nil
}

func (r sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at < NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
