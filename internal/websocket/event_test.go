package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"saved", EventTypeSaved, "saved"},
		{"deleted", EventTypeDeleted, "deleted"},
		{"updated", EventTypeUpdated, "updated"},
		{"materialized", EventTypeMaterialized, "materialized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EntityType
		expected string
	}{
		{"entry", EntityTypeEntry, "entry"},
		{"installment", EntityTypeInstallment, "installment"},
		{"goal", EntityTypeGoal, "goal"},
		{"settings", EntityTypeSettings, "settings"},
		{"budget", EntityTypeBudget, "budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "abc-123",
		"name":   "Supermercado",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeSaved, EntityTypeEntry, payload)
	after := time.Now()

	assert.Equal(t, "entry.saved", evt.Type)
	assert.Equal(t, EntityTypeEntry, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":     "abc-123",
		"name":   "Supermercado",
		"amount": "100.00",
	}

	evt := Event{
		Type:      "entry.saved",
		Entity:    EntityTypeEntry,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "abc-123", decodedPayload["id"])
	assert.Equal(t, "Supermercado", decodedPayload["name"])
	assert.Equal(t, "100.00", decodedPayload["amount"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": "abc-123",
	}

	evt := NewEvent(EventTypeSaved, EntityTypeEntry, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "entry.saved", decoded["type"])
	assert.Equal(t, "entry", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEntryEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "abc-123",
		"name":   "Alquiler",
		"amount": "850.00",
	}

	t.Run("EntrySaved", func(t *testing.T) {
		evt := EntrySaved(payload)
		assert.Equal(t, "entry.saved", evt.Type)
		assert.Equal(t, EntityTypeEntry, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("EntryDeleted", func(t *testing.T) {
		evt := EntryDeleted("inst-7-2026-03")
		assert.Equal(t, "entry.deleted", evt.Type)
		assert.Equal(t, EntityTypeEntry, evt.Entity)
		assert.Equal(t, map[string]string{"id": "inst-7-2026-03"}, evt.Payload)
	})
}

func TestInstallmentEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":   "p-1",
		"name": "Notebook",
	}

	t.Run("InstallmentSaved", func(t *testing.T) {
		evt := InstallmentSaved(payload)
		assert.Equal(t, "installment.saved", evt.Type)
		assert.Equal(t, EntityTypeInstallment, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("InstallmentDeleted", func(t *testing.T) {
		evt := InstallmentDeleted("p-1")
		assert.Equal(t, "installment.deleted", evt.Type)
		assert.Equal(t, map[string]string{"id": "p-1"}, evt.Payload)
	})
}

func TestGoalEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":   "g-1",
		"name": "Vacaciones",
	}

	t.Run("GoalSaved", func(t *testing.T) {
		evt := GoalSaved(payload)
		assert.Equal(t, "goal.saved", evt.Type)
		assert.Equal(t, EntityTypeGoal, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("GoalDeleted", func(t *testing.T) {
		evt := GoalDeleted("g-1")
		assert.Equal(t, "goal.deleted", evt.Type)
		assert.Equal(t, map[string]string{"id": "g-1"}, evt.Payload)
	})
}

func TestSettingsUpdated(t *testing.T) {
	payload := map[string]interface{}{"currency": "ARS"}
	evt := SettingsUpdated(payload)
	assert.Equal(t, "settings.updated", evt.Type)
	assert.Equal(t, EntityTypeSettings, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
}

func TestBudgetChanged(t *testing.T) {
	evt := BudgetChanged("2026-07")
	assert.Equal(t, "budget.materialized", evt.Type)
	assert.Equal(t, EntityTypeBudget, evt.Entity)
	assert.Equal(t, map[string]string{"month": "2026-07"}, evt.Payload)
}
