package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Hub manages active WebSocket connections for users and fans prompts out
// to them. A user may have several tabs open; each registers under its own
// session ID.
type Hub struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// Register adds a new WebSocket connection for a user/tab.
func (h *Hub) Register(userID, tabID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.active[userID]; !exists {
		h.active[userID] = make(map[string]*websocket.Conn)
	}

	if existing, exists := h.active[userID][tabID]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "connection replaced")
	}

	h.active[userID][tabID] = conn
	slog.Info("Chat connection registered", "user_id", userID, "tab_id", tabID)
}

// Unregister removes a WebSocket connection for a user/tab.
func (h *Hub) Unregister(userID, tabID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.active[userID]; ok {
		if current, exists := conns[tabID]; exists && current == conn {
			delete(conns, tabID)
			if len(conns) == 0 {
				delete(h.active, userID)
			}
			slog.Info("Chat connection unregistered", "user_id", userID, "tab_id", tabID)
		}
	}
}

// CloseUser forcefully terminates all active connections for a user.
func (h *Hub) CloseUser(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.active[userID]
	if !ok {
		return
	}

	for tabID, conn := range conns {
		_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
		slog.Info("Chat connection closed", "user_id", userID, "tab_id", tabID)
	}
	delete(h.active, userID)
}

// ActiveConns returns how many connections a user currently has.
func (h *Hub) ActiveConns(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active[userID])
}

// PresentPrompt pushes a prompt to every connection the user has open.
// Failures are logged and dropped: a user with no open socket simply
// misses the push, and session state stays queryable over the API.
func (h *Hub) PresentPrompt(userID string, prompt Prompt) {
	data, err := json.Marshal(prompt)
	if err != nil {
		slog.Error("Failed to marshal prompt", "error", err, "user_id", userID)
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.active[userID]))
	for _, conn := range h.active[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		slog.Debug("No chat connections for prompt", "user_id", userID, "kind", prompt.Kind)
		return
	}

	for _, conn := range conns {
		if err := conn.Write(context.Background(), websocket.MessageText, data); err != nil {
			slog.Warn("Failed to push prompt", "error", err, "user_id", userID, "kind", prompt.Kind)
		}
	}
}

var _ Messenger = (*Hub)(nil)
