package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func startManager(t *testing.T) *Manager {
	t.Helper()

	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Start(ctx)
	return m
}

func registerClient(t *testing.T, m *Manager, connectionID string) *Client {
	t.Helper()

	client := &Client{
		ConnectionID: connectionID,
		Send:         make(chan []byte, 4),
	}
	m.Register <- client
	assert.Eventually(t, func() bool {
		return m.IsConnected(connectionID)
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestManagerRegisterUnregister(t *testing.T) {
	m := startManager(t)

	client := registerClient(t, m, "conn-1")
	assert.False(t, m.IsConnected("conn-2"))

	m.Unregister <- client
	assert.Eventually(t, func() bool {
		return !m.IsConnected("conn-1")
	}, time.Second, 5*time.Millisecond)

	// The send buffer is released with the registration.
	_, open := <-client.Send
	assert.False(t, open)
}

func TestSendToConnection(t *testing.T) {
	m := startManager(t)
	client := registerClient(t, m, "conn-1")

	assert.True(t, m.SendToConnection("conn-1", []byte("hello")))
	assert.Equal(t, []byte("hello"), <-client.Send)

	assert.False(t, m.SendToConnection("unknown", []byte("nope")))
}

func TestSendToConnectionDropsOnFullBuffer(t *testing.T) {
	m := startManager(t)

	// No WritePump draining, so the buffer fills up.
	client := &Client{ConnectionID: "conn-slow", Send: make(chan []byte, 1)}
	m.Register <- client
	assert.Eventually(t, func() bool {
		return m.IsConnected("conn-slow")
	}, time.Second, 5*time.Millisecond)

	assert.True(t, m.SendToConnection("conn-slow", []byte("one")))
	assert.False(t, m.SendToConnection("conn-slow", []byte("two")))

	// The stalled connection was evicted.
	assert.False(t, m.IsConnected("conn-slow"))
}

func TestSendToConnectionDuringRemoval(t *testing.T) {
	m := startManager(t)

	// Senders racing the close must never land on a closed channel.
	for i := 0; i < 100; i++ {
		connectionID := "conn-race"
		client := &Client{ConnectionID: connectionID, Send: make(chan []byte, 1)}
		m.Register <- client
		assert.Eventually(t, func() bool {
			return m.IsConnected(connectionID)
		}, time.Second, time.Millisecond)

		var wg sync.WaitGroup
		for s := 0; s < 4; s++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					m.SendToConnection(connectionID, []byte("payload"))
				}
			}()
		}
		m.RemoveClient(connectionID)
		wg.Wait()

		assert.False(t, m.IsConnected(connectionID))
	}
}

func TestRemoveClientIsIdempotent(t *testing.T) {
	m := startManager(t)
	registerClient(t, m, "conn-1")

	m.RemoveClient("conn-1")
	assert.False(t, m.IsConnected("conn-1"))
	m.RemoveClient("conn-1")
}
