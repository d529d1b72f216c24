package amqp

import (
	"encoding/json"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/websocket"
	"github.com/google/uuid"
)

// EventMessage is the body published for every domain event
type EventMessage struct {
	OwnerID uuid.UUID       `json:"ownerId"`
	Event   websocket.Event `json:"event"`
}

// ToJSON converts the message to JSON bytes
func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON decodes a message body
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
