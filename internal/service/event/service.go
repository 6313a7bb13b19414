package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

// EventService records change events in the outbox. The outbox processor
// publishes them.
type EventService struct {
	outboxRepo repository.OutboxRepository
	now        func() time.Time
}

var _ Notifier = (*EventService)(nil)

func NewEventService(outboxRepo repository.OutboxRepository) *EventService {
	return &EventService{
		outboxRepo: outboxRepo,
		now:        time.Now,
	}
}

func (s *EventService) Notify(ctx context.Context, change model.ChangeEvent) error {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = s.now().UTC()
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	event := &model.OutboxEvent{
		EventType: EventType(change),
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}
