package dispatch

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub upgrades HTTP requests to websocket connections and ties each
// connection's lifetime to its registry entry. A reconnecting client must
// register again; nothing survives the connection.
type Hub struct {
	registry *Registry
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHub(registry *Registry, logger *zap.Logger) *Hub {
	return &Hub{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// wsConn serializes writes: the registry emits from request goroutines while
// the read loop may write control frames.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}

func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	role := r.URL.Query().Get("role")
	if userID == "" || (role != RoleBuyer && role != RoleVendor) {
		http.Error(w, "userId and role=buyer|vendor are required", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("userId", userID), zap.Error(err))
		return
	}

	conn := &wsConn{ws: ws}
	h.registry.Register(userID, role, conn)

	go h.readLoop(userID, conn)
}

func (h *Hub) readLoop(userID string, conn *wsConn) {
	defer func() {
		h.registry.Unregister(userID, conn)
		conn.Close()
	}()

	for {
		// Clients do not send application messages; the loop exists to
		// detect disconnects and answer control frames.
		if _, _, err := conn.ws.ReadMessage(); err != nil {
			return
		}
	}
}
