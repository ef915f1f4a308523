package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeSaved        EventType = "saved"
	EventTypeDeleted      EventType = "deleted"
	EventTypeUpdated      EventType = "updated"
	EventTypeMaterialized EventType = "materialized"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeEntry       EntityType = "entry"
	EntityTypeInstallment EntityType = "installment"
	EntityTypeGoal        EntityType = "goal"
	EntityTypeSettings    EntityType = "settings"
	EntityTypeBudget      EntityType = "budget"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "entry.saved"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "entry"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntrySaved creates an entry.saved event
func EntrySaved(payload interface{}) Event {
	return NewEvent(EventTypeSaved, EntityTypeEntry, payload)
}

// EntryDeleted creates an entry.deleted event
func EntryDeleted(id string) Event {
	return NewEvent(EventTypeDeleted, EntityTypeEntry, map[string]string{"id": id})
}

// InstallmentSaved creates an installment.saved event
func InstallmentSaved(payload interface{}) Event {
	return NewEvent(EventTypeSaved, EntityTypeInstallment, payload)
}

// InstallmentDeleted creates an installment.deleted event
func InstallmentDeleted(id string) Event {
	return NewEvent(EventTypeDeleted, EntityTypeInstallment, map[string]string{"id": id})
}

// GoalSaved creates a goal.saved event
func GoalSaved(payload interface{}) Event {
	return NewEvent(EventTypeSaved, EntityTypeGoal, payload)
}

// GoalDeleted creates a goal.deleted event
func GoalDeleted(id string) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, map[string]string{"id": id})
}

// SettingsUpdated creates a settings.updated event
func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}

// BudgetChanged creates a budget.materialized event telling clients to
// refetch the month's materialized view.
func BudgetChanged(month string) Event {
	return NewEvent(EventTypeMaterialized, EntityTypeBudget, map[string]string{"month": month})
}
