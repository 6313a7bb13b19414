package model

import (
	"time"

	"github.com/google/uuid"
)

type ChangeAction string

const (
	ChangeActionUpsert ChangeAction = "upsert"
	ChangeActionDelete ChangeAction = "delete"
)

// ChangeEvent tells clients that a view is stale after a successful mutation.
type ChangeEvent struct {
	Entity     string       `json:"entity"`
	Action     ChangeAction `json:"action"`
	EntityID   uuid.UUID    `json:"entityId"`
	ClinicID   uuid.UUID    `json:"clinicID"`
	Path       string       `json:"path"`
	OccurredAt time.Time    `json:"occurredAt"`
}
