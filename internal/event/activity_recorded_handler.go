package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/openinventory/inventory-admin/internal/model"
)

const TopicActivityRecorded = "inventory.activity"

// lowStockThreshold mirrors the dashboard's low-stock bucket boundary.
const lowStockThreshold = 5

// ActivityRecordedEvent is the wire form of one audit record, published
// through the outbox after the record is committed.
type ActivityRecordedEvent struct {
	Action         string    `json:"action"`
	ProductName    string    `json:"product_name"`
	Details        string    `json:"details"`
	User           string    `json:"user"`
	Category       *string   `json:"category,omitempty"`
	Amount         *float64  `json:"amount,omitempty"`
	RemainingStock *int      `json:"remaining_stock,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Service) handleActivityRecordedEvent(ctx context.Context, ev ActivityRecordedEvent) error {
	s.logger.InfoContext(ctx, "activity recorded",
		slog.String("action", ev.Action),
		slog.String("product_name", ev.ProductName),
		slog.String("user", ev.User),
	)

	if ev.Action == string(model.ActionSale) && ev.RemainingStock != nil && *ev.RemainingStock < lowStockThreshold {
		s.logger.WarnContext(ctx, "product running low after sale",
			slog.String("product_name", ev.ProductName),
			slog.Int("remaining_stock", *ev.RemainingStock),
		)
	}

	return nil
}
