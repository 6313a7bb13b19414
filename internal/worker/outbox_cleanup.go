package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-api/pkg/logger"
)

// Purger deletes outbox events that are past retention.
type Purger interface {
	Purge(ctx context.Context) error
}

type OutboxCleanupWorker struct {
	purger          Purger
	cleanupInterval time.Duration
	logger          *logger.Logger
}

func NewOutboxCleanupWorker(purger Purger, cleanupInterval time.Duration, log *logger.Logger) *OutboxCleanupWorker {
	return &OutboxCleanupWorker{
		purger:          purger,
		cleanupInterval: cleanupInterval,
		logger:          log.With("outbox_cleanup"),
	}
}

// Start purges once immediately, then every cleanup interval until ctx is
// cancelled.
func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	if w.cleanupInterval <= 0 {
		return
	}

	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	w.cleanup(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

func (w *OutboxCleanupWorker) cleanup(ctx context.Context) {
	if err := w.purger.Purge(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error(err, "failed to purge processed outbox events")
	}
}
