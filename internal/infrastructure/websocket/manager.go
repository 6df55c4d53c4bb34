package websocket

import (
	"sync"

	"carelink/pkg/logger"
)

// Manager is the connection registry: all live clients, plus rooms keyed by
// conversation id mapping to the clients currently joined. All operations are
// safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func (m *Manager) Register(client *Client) {
	m.mu.Lock()
	m.clients[client.ID] = client
	m.mu.Unlock()

	logger.Info("Client %s registered (user %s)", client.ID, client.Principal.ID)
}

// Unregister drops the client from the registry and from every room it
// joined. The send buffer stays open so in-flight broadcasts cannot panic;
// closing the connection is what stops both pumps.
func (m *Manager) Unregister(client *Client) {
	m.mu.Lock()
	_, ok := m.clients[client.ID]
	if ok {
		delete(m.clients, client.ID)
		for conversationID, room := range m.rooms {
			delete(room, client.ID)
			if len(room) == 0 {
				delete(m.rooms, conversationID)
			}
		}
	}
	m.mu.Unlock()

	if ok {
		if client.Conn != nil {
			client.Conn.Close()
		}
		logger.Info("Client %s unregistered (user %s)", client.ID, client.Principal.ID)
	}
}

// JoinRoom adds the client to the conversation's room. Joining an already
// joined room is a no-op.
func (m *Manager) JoinRoom(conversationID string, client *Client) {
	m.mu.Lock()
	room, ok := m.rooms[conversationID]
	if !ok {
		room = make(map[string]*Client)
		m.rooms[conversationID] = room
	}
	room[client.ID] = client
	m.mu.Unlock()

	logger.Info("Client %s joined room %s", client.ID, conversationID)
}

func (m *Manager) LeaveRoom(conversationID string, client *Client) {
	m.mu.Lock()
	if room, ok := m.rooms[conversationID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(m.rooms, conversationID)
		}
	}
	m.mu.Unlock()
}

// BroadcastToRoom delivers payload to every client currently joined to the
// conversation's room. Clients that join later do not receive it.
func (m *Manager) BroadcastToRoom(conversationID string, payload []byte) {
	m.broadcast(conversationID, "", payload)
}

// BroadcastToRoomExcept delivers payload to the room, skipping one client.
func (m *Manager) BroadcastToRoomExcept(conversationID, exceptClientID string, payload []byte) {
	m.broadcast(conversationID, exceptClientID, payload)
}

func (m *Manager) broadcast(conversationID, exceptClientID string, payload []byte) {
	m.mu.RLock()
	room := m.rooms[conversationID]
	targets := make([]*Client, 0, len(room))
	for _, client := range room {
		if client.ID == exceptClientID {
			continue
		}
		targets = append(targets, client)
	}
	m.mu.RUnlock()

	for _, client := range targets {
		m.Deliver(client, payload)
	}
}

// Deliver enqueues payload for one client without blocking. A client whose
// buffer is full is considered dead and dropped.
func (m *Manager) Deliver(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		logger.Warn("Client %s send buffer full, dropping connection", client.ID)
		m.Unregister(client)
	}
}

// SendEvent encodes and delivers a single event to one client.
func (m *Manager) SendEvent(client *Client, eventType string, data interface{}) {
	payload, err := EncodeEvent(eventType, data)
	if err != nil {
		logger.Error("Failed to encode %s event for client %s: %v", eventType, client.ID, err)
		return
	}
	m.Deliver(client, payload)
}

// SendError reports a failed action back to the client as an error event.
func (m *Manager) SendError(client *Client, message string) {
	m.SendEvent(client, EventError, map[string]string{"message": message})
}

// InRoom reports whether the client is currently joined to the room.
func (m *Manager) InRoom(conversationID string, client *Client) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[conversationID]
	if !ok {
		return false
	}
	_, joined := room[client.ID]
	return joined
}
