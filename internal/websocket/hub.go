package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrClientClosed   = errors.New("client is closed")
	ErrSendBufferFull = errors.New("client send buffer is full")
	ErrUnknownCommand = errors.New("unknown subscription command")
)

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	OwnerID() uuid.UUID
	Wants(eventType string) bool
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections grouped by owner.
// It is safe for concurrent use.
type Hub struct {
	// owners maps owner ID to a map of client ID to client
	owners map[uuid.UUID]map[string]ClientInterface
	mu     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		owners: make(map[uuid.UUID]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its owner
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	if h.owners[ownerID] == nil {
		h.owners[ownerID] = make(map[string]ClientInterface)
	}
	h.owners[ownerID][client.ID()] = client

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	clients, ok := h.owners[ownerID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}

	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.owners, ownerID)
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to every connection of one owner that subscribes to its type
func (h *Hub) Broadcast(ownerID uuid.UUID, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("owner_id", ownerID.String()).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients, ok := h.owners[ownerID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy so the lock is not held while sending
	targets := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		if client.Wants(event.Type) {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("owner_id", ownerID.String()).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("event_type", event.Type).
		Int("client_count", len(targets)).
		Msg("Broadcast event")
}

// ClientCount returns the number of connections of one owner
func (h *Hub) ClientCount(ownerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.owners[ownerID])
}

// TotalClientCount returns the number of connections across all owners
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.owners {
		total += len(clients)
	}
	return total
}
