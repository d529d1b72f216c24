package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is what happened to an entity
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeArchived EventType = "archived"
	EventTypeUpdated  EventType = "updated"
)

// EntityType is the kind of entity an event is about
type EntityType string

const (
	EntityTypeReport       EntityType = "report"
	EntityTypeAdvice       EntityType = "advice"
	EntityTypeSubscription EntityType = "subscription"
)

// Event is the message sent to subscribers.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"`   // e.g. "report.created"
	Entity    EntityType `json:"entity"` // e.g. "report"
	Payload   any        `json:"payload"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload any) Event {
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

// ReportCreated creates a report.created event
func ReportCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeReport, payload)
}

// ReportArchived creates a report.archived event
func ReportArchived(payload any) Event {
	return NewEvent(EventTypeArchived, EntityTypeReport, payload)
}

// AdviceCreated creates an advice.created event
func AdviceCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeAdvice, payload)
}

// SubscriptionPayload is the state reported after a subscription command
type SubscriptionPayload struct {
	All    bool     `json:"all"`
	Events []string `json:"events"`
}

// SubscriptionUpdated acknowledges a subscription command with the resulting state.
// all is true when the connection receives every event regardless of events.
func SubscriptionUpdated(events []string, all bool) Event {
	if events == nil {
		events = []string{}
	}
	return NewEvent(EventTypeUpdated, EntityTypeSubscription, SubscriptionPayload{All: all, Events: events})
}
