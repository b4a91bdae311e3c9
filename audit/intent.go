package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action is the lifecycle transition being recorded
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Valid reports whether a is one of the known actions
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Intent describes one audit event that has not been persisted yet.
// It is built during the triggering transaction and handed to the Writer
// after commit.
type Intent struct {
	ID         uuid.UUID
	ActorID    *int64
	ActorName  *string
	Action     Action
	EntityType string
	EntityID   int64
	OldValues  *Snapshot
	NewValues  *Snapshot
	// ChangedFields is nil for CREATE and DELETE
	ChangedFields []string
	SourceIP      *string
	Timestamp     time.Time
}

// Record is the persisted form of an Intent
type Record struct {
	ID            int64           `json:"id"`
	EventID       string          `json:"eventId"`
	ActorID       *int64          `json:"userId"`
	ActorName     *string         `json:"username"`
	Action        Action          `json:"action"`
	EntityType    string          `json:"entityType"`
	EntityID      int64           `json:"entityId"`
	OldValues     json.RawMessage `json:"oldValues"`
	NewValues     json.RawMessage `json:"newValues"`
	ChangedFields []string        `json:"changedFields"`
	SourceIP      *string         `json:"ipAddress"`
	Timestamp     time.Time       `json:"timestamp"`
	RecordedAt    time.Time       `json:"createdAt"`
}

// NewRecord converts an intent into an unsaved record. ID and RecordedAt are
// assigned by the store.
func NewRecord(intent Intent) *Record {
	var changed []string
	if intent.ChangedFields != nil {
		changed = append(make([]string, 0, len(intent.ChangedFields)), intent.ChangedFields...)
	}
	return &Record{
		EventID:       intent.ID.String(),
		ActorID:       intent.ActorID,
		ActorName:     intent.ActorName,
		Action:        intent.Action,
		EntityType:    intent.EntityType,
		EntityID:      intent.EntityID,
		OldValues:     intent.OldValues.JSON(),
		NewValues:     intent.NewValues.JSON(),
		ChangedFields: changed,
		SourceIP:      intent.SourceIP,
		Timestamp:     intent.Timestamp,
	}
}
