package event

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// Refresh paths carried by change events.
const (
	PathDoctors  = "/doctors"
	PathPatients = "/patients"
)

// Notifier tells clients that a view changed. Services call it after a
// successful write.
type Notifier interface {
	Notify(ctx context.Context, change model.ChangeEvent) error
}

// EventType is the outbox and broker type of a change, e.g. "doctor.upsert".
func EventType(change model.ChangeEvent) string {
	return change.Entity + "." + string(change.Action)
}
