package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openinventory/inventory-admin/internal/storage/mq"
)

// Service consumes the activity event stream produced by the relay.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(
		TopicActivityRecorded,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev ActivityRecordedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal activity recorded event: %w", err)
			}

			if err := s.handleActivityRecordedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle activity recorded event: %w", err)
			}

			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("register activity recorded event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return func() {
		mqCleanup()
	}, nil
}
