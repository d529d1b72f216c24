package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	ownerID  uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
	only     string
}

func newMockClient(id string, ownerID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		ownerID:  ownerID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) OwnerID() uuid.UUID {
	return m.ownerID
}

func (m *mockClient) Wants(eventType string) bool {
	return m.only == "" || m.only == eventType
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	client1 := newMockClient("client-1", alice)
	client2 := newMockClient("client-2", alice)
	client3 := newMockClient("client-3", bob)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(alice))
	assert.Equal(t, 1, hub.ClientCount(bob))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(alice))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(alice))
	assert.Equal(t, 0, hub.ClientCount(bob))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_OwnerIsolation(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	aliceLaptop := newMockClient("alice-laptop", alice)
	alicePhone := newMockClient("alice-phone", alice)
	bobLaptop := newMockClient("bob-laptop", bob)

	hub.Register(aliceLaptop)
	hub.Register(alicePhone)
	hub.Register(bobLaptop)

	hub.Broadcast(alice, ReportCreated(map[string]any{"id": float64(42)}))

	assert.Eventually(t, func() bool {
		return len(aliceLaptop.GetMessages()) == 1 && len(alicePhone.GetMessages()) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, bobLaptop.GetMessages(), "another owner must not receive the event")
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()
	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), owners[i%len(owners)])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(owners[idx%len(owners)], AdviceCreated(map[string]any{"id": float64(idx)}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	for _, owner := range owners {
		assert.Equal(t, 0, hub.ClientCount(owner))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1", uuid.New()))
	})
}

func TestHub_BroadcastToOwnerWithoutClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(uuid.New(), ReportCreated(map[string]any{"id": float64(1)}))
	})
}

func TestHub_BroadcastUnserializablePayload(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()
	client := newMockClient("client-1", owner)
	hub.Register(client)

	hub.Broadcast(owner, ReportCreated(make(chan int)))

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, client.GetMessages())
}

func TestHub_Broadcast_RespectsSubscriptions(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()

	everything := newMockClient("everything", owner)
	adviceOnly := newMockClient("advice-only", owner)
	adviceOnly.only = "advice.created"

	hub.Register(everything)
	hub.Register(adviceOnly)

	hub.Broadcast(owner, ReportCreated(map[string]any{"id": float64(1)}))
	hub.Broadcast(owner, AdviceCreated(map[string]any{"id": float64(2)}))

	assert.Eventually(t, func() bool {
		return len(everything.GetMessages()) == 2 && len(adviceOnly.GetMessages()) == 1
	}, time.Second, 5*time.Millisecond)

	var event Event
	require.NoError(t, json.Unmarshal(adviceOnly.GetMessages()[0], &event))
	assert.Equal(t, "advice.created", event.Type)
}
