// Package telemetry is an append-only event log of what the user did:
// creations, completions, deletions, stress refreshes, saves. Recording is
// best-effort; callers log failures and move on.
package telemetry

import "time"

type EventType string

const (
	EventTaskCreated     EventType = "task_created"
	EventTaskCompleted   EventType = "task_completed"
	EventTaskDeleted     EventType = "task_deleted"
	EventStressRefreshed EventType = "stress_refreshed"
	EventStoreSaved      EventType = "store_saved"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Repository stores telemetry events.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}
