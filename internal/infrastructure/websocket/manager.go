package websocket

import (
	"context"
	"sync"

	"marketchat/pkg/logger"
)

// Manager tracks all live websocket connections, keyed by connection id.
// The user-to-connection mapping is persisted separately in the presence
// store; the manager only answers "which socket is this id right now".
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.ConnectionID] = client
				m.mutex.Unlock()
				logger.Info("Client registered: %s (user %s)", client.ConnectionID, client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.ConnectionID]; ok {
					delete(m.clients, client.ConnectionID)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Info("Client unregistered: %s", client.ConnectionID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToConnection queues a payload for the given connection. Returns false
// if the connection is unknown or its buffer is full; the offline case is
// the caller's expected path, not an error.
//
// The buffered send happens under the read lock while every channel close
// happens under the write lock, so a concurrent unregister can never close
// the channel out from under the send.
func (m *Manager) SendToConnection(connectionID string, payload []byte) bool {
	m.mutex.RLock()
	client, ok := m.clients[connectionID]
	if ok {
		select {
		case client.Send <- payload:
			m.mutex.RUnlock()
			return true
		default:
		}
	}
	m.mutex.RUnlock()

	if !ok {
		return false
	}

	logger.Warn("Client %s send buffer full, closing connection", connectionID)
	m.RemoveClient(connectionID)
	return false
}

// IsConnected reports whether a connection id maps to a live socket.
func (m *Manager) IsConnected(connectionID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.clients[connectionID]
	return ok
}

// RemoveClient drops a connection from the registry and releases its send
// buffer.
func (m *Manager) RemoveClient(connectionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if client, ok := m.clients[connectionID]; ok {
		delete(m.clients, connectionID)
		close(client.Send)
	}
}
