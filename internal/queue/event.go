// Package queue carries DA change events over RabbitMQ: the publisher used
// by the update endpoint and the consumer that keeps the audit log.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/da-dashboard/internal/model"
)

// DAUpdatedQueue is the durable queue holding DAUpdatedEvent messages.
const DAUpdatedQueue = "da.updated"

// DAUpdatedEvent is published after a DA row was changed.  It carries the
// resulting values so consumers never need to query the store.
type DAUpdatedEvent struct {
	EventID            string   `json:"event_id"`
	ContactNumber      string   `json:"contact_number"`
	Name               string   `json:"name"`
	Region             string   `json:"region"`
	Zone               string   `json:"zone"`
	Woreda             string   `json:"woreda"`
	Status             string   `json:"status"`
	TotalDataCollected int64    `json:"total_data_collected"`
	ChangedFields      []string `json:"changed_fields"`
	ActorKind          string   `json:"actor_kind"`
	ActorIdentifier    string   `json:"actor_identifier"`
	UpdatedAt          string   `json:"updated_at"`
}

// NewDAUpdatedEvent describes upd, applied by actor, resulting in row.
func NewDAUpdatedEvent(actor model.Principal, upd model.DAUpdate, row model.DAUser) DAUpdatedEvent {
	var changed []string
	if upd.Status != nil {
		changed = append(changed, "status")
	}
	if upd.TotalDataCollected != nil {
		changed = append(changed, "total_data_collected")
	}
	at := time.Now().UTC()
	if row.LastUpdated != nil {
		at = row.LastUpdated.UTC()
	}
	return DAUpdatedEvent{
		EventID:            uuid.NewString(),
		ContactNumber:      row.ContactNumber,
		Name:               row.Name,
		Region:             row.Region,
		Zone:               row.Zone,
		Woreda:             row.Woreda,
		Status:             row.Status,
		TotalDataCollected: row.TotalDataCollected,
		ChangedFields:      changed,
		ActorKind:          string(actor.Kind),
		ActorIdentifier:    actor.Identifier,
		UpdatedAt:          at.Format(time.RFC3339),
	}
}
