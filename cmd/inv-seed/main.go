package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/openinventory/inventory-admin/internal/auth"
	"github.com/openinventory/inventory-admin/internal/config"
	"github.com/openinventory/inventory-admin/internal/log"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/repository"
	"github.com/openinventory/inventory-admin/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running seed application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Seed     config.Seed
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)
	userRepository := repository.NewUserRepository(dbClient)

	_, err = userRepository.FindByEmail(ctx, cfg.Seed.AdminEmail)
	if err == nil {
		logger.InfoContext(ctx, "admin already exists, no changes made", slog.String("email", cfg.Seed.AdminEmail))
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("error checking for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("error generating uuid v7: %w", err)
	}

	now := time.Now()
	if err := userRepository.Insert(ctx, model.User{
		ID:           id,
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: passwordHash,
		Currency:     "USD",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	logger.InfoContext(ctx, "created initial admin", slog.String("email", cfg.Seed.AdminEmail))

	return nil
}
