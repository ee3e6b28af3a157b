package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/storage/db"
)

// ActivityRepository is the append-only audit log store. There is
// deliberately no update or delete operation.
type ActivityRepository interface {
	WithDB(db db.DB) ActivityRepository
	Append(ctx context.Context, activity model.Activity) error
	ListRecent(ctx context.Context, limit int32) ([]model.Activity, error)
}

type activityRepository struct {
	db db.DB
}

func NewActivityRepository(db db.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r activityRepository) WithDB(db db.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r activityRepository) Append(ctx context.Context, activity model.Activity) error {
	if err := activity.Action.Validate(); err != nil {
		return fmt.Errorf("validate activity action: %w", err)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO activities (id, action, product_name, details, "user", category, amount, created_at)
		VALUES (@id, @action, @product_name, @details, @user, @category, @amount, @created_at)
	`, pgx.NamedArgs{
		"id":           activity.ID,
		"action":       string(activity.Action),
		"product_name": activity.ProductName,
		"details":      activity.Details,
		"user":         activity.User,
		"category":     activity.Category,
		"amount":       activity.Amount,
		"created_at":   activity.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}

	return nil
}

func (r activityRepository) ListRecent(ctx context.Context, limit int32) ([]model.Activity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, action, product_name, details, "user", category, amount, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT @limit
	`, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list recent activities: %w", err)
	}
	defer rows.Close()

	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		var action string
		if err := rows.Scan(
			&a.ID,
			&action,
			&a.ProductName,
			&a.Details,
			&a.User,
			&a.Category,
			&a.Amount,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Action = model.ActivityAction(action)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return activities, nil
}
