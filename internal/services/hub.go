package services

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskforge-dev/taskforge/internal/logger"
)

// Per-user websocket registry for notification pushes.

var (
	userClients   = make(map[uint]map[*websocket.Conn]bool)
	userClientsMu sync.RWMutex
)

const pushWriteWait = 10 * time.Second

func RegisterClient(userID uint, conn *websocket.Conn) {
	userClientsMu.Lock()
	if userClients[userID] == nil {
		userClients[userID] = make(map[*websocket.Conn]bool)
	}
	userClients[userID][conn] = true
	userClientsMu.Unlock()
}

func UnregisterClient(userID uint, conn *websocket.Conn) {
	userClientsMu.Lock()
	if clients, exists := userClients[userID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(userClients, userID)
		}
	}
	userClientsMu.Unlock()
}

// PushToUser sends a JSON payload to every open connection of the user.
// Failed connections are dropped from the registry.
func PushToUser(userID uint, payload interface{}) {
	userClientsMu.RLock()
	clients, exists := userClients[userID]
	if !exists || len(clients) == 0 {
		userClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	userClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(pushWriteWait)); err != nil {
			logger.Warn("failed to set write deadline for push", "user_id", userID, "error", err)
			continue
		}

		if err := conn.WriteJSON(payload); err != nil {
			logger.Warn("failed to push to client", "user_id", userID, "error", err)
			UnregisterClient(userID, conn)
			conn.Close()
		}
	}
}
