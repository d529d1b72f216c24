package websocket

import "github.com/google/uuid"

// EventPublisher delivers events to an owner's subscribers
type EventPublisher interface {
	Publish(ownerID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting to the owner's connections
func (h *Hub) Publish(ownerID uuid.UUID, event Event) {
	h.Broadcast(ownerID, event)
}

// NoOpPublisher drops every event
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(ownerID uuid.UUID, event Event) {}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []EventPublisher

// Publish forwards the event to every non-nil publisher
func (m MultiPublisher) Publish(ownerID uuid.UUID, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ownerID, event)
		}
	}
}
