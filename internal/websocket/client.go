package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 1024

	// sendBufferSize is the number of queued events before a client counts as too slow
	sendBufferSize = 64
)

// Subscription commands accepted from the peer
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// Command is an inbound frame that narrows or widens the event types a
// connection receives, e.g. {"action":"subscribe","events":["report.created"]}.
// A connection receives every event of its owner until its first subscribe;
// only an unsubscribe with no events restores that.
type Command struct {
	Action string   `json:"action"`
	Events []string `json:"events"`
}

// Client is one owner's live event stream over a WebSocket connection
type Client struct {
	id      string
	ownerID uuid.UUID
	conn    *websocket.Conn
	hub     *Hub
	send    chan []byte
	logger  zerolog.Logger

	mu       sync.RWMutex
	closed   bool
	filtered bool
	events   map[string]bool

	closeOnce sync.Once
}

// NewClient creates a client for ownerID's connection
func NewClient(conn *websocket.Conn, ownerID uuid.UUID, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:      id,
		ownerID: ownerID,
		conn:    conn,
		hub:     hub,
		send:    make(chan []byte, sendBufferSize),
		events:  make(map[string]bool),
		logger: log.With().
			Str("component", "ws_client").
			Str("client_id", id).
			Str("owner_id", ownerID.String()).
			Logger(),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// OwnerID returns the owner the connection belongs to
func (c *Client) OwnerID() uuid.UUID {
	return c.ownerID
}

// Wants reports whether events of eventType should be delivered
func (c *Client) Wants(eventType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.filtered || c.events[eventType]
}

// Subscriptions returns the event types the client has narrowed to.
// filtered is false while the client receives every event.
func (c *Client) Subscriptions() (types []string, filtered bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types = make([]string, 0, len(c.events))
	for t := range c.events {
		types = append(types, t)
	}
	return types, c.filtered
}

// Apply updates the subscription set from a peer command
func (c *Client) Apply(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Action {
	case ActionSubscribe:
		c.filtered = true
		for _, t := range cmd.Events {
			c.events[t] = true
		}
	case ActionUnsubscribe:
		if len(cmd.Events) == 0 {
			c.filtered = false
			clear(c.events)
		}
		// Removing the last type leaves the stream filtered and empty
		for _, t := range cmd.Events {
			delete(c.events, t)
		}
	default:
		return ErrUnknownCommand
	}
	return nil
}

// Send queues a message for the write pump. A full buffer drops the message.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump reads subscription commands until the peer goes away.
// Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.logger.Debug().Err(err).Msg("Ignoring malformed command")
			continue
		}
		if err := c.Apply(cmd); err != nil {
			c.logger.Debug().Str("action", cmd.Action).Msg("Ignoring unknown command")
			continue
		}
		subscriptions, filtered := c.Subscriptions()
		c.logger.Debug().
			Str("action", cmd.Action).
			Strs("events", subscriptions).
			Bool("filtered", filtered).
			Msg("Subscription updated")

		if ack, err := SubscriptionUpdated(subscriptions, !filtered).ToJSON(); err == nil {
			if err := c.Send(ack); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to acknowledge subscription")
			}
		}
	}
}

// WritePump drains queued events to the connection and keeps it alive with pings.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
