package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/abstractedfox/gameengine/internal/watcher"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// writeWait bounds a single message write so a stalled client cannot hold up a broadcast.
var writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced by middleware
	},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHandler pushes audio directory changes to connected pages
type WSHandler struct {
	clients map[*wsClient]struct{}
	mu      sync.RWMutex
	log     logrus.FieldLogger
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		clients: make(map[*wsClient]struct{}),
		log:     log,
	}
}

// HandleWS handles WebSocket upgrade and connection
func (h *WSHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		requestLogger(c, h.log).WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := &wsClient{id: uuid.NewString(), conn: conn}
	h.addClient(client)
	defer func() {
		h.removeClient(client)
		_ = conn.Close()
	}()

	// Incoming messages are ignored; reading detects the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// OnAudioChange is called when the watcher reports a change
func (h *WSHandler) OnAudioChange(event watcher.Event) {
	h.broadcast(WSMessage{
		Type: "audioChange",
		Payload: map[string]string{
			"event": event.Type.String(),
			"file":  event.Name,
		},
	})
}

// ClientCount returns the number of connected clients
func (h *WSHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WSHandler) addClient(client *wsClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.log.WithField("client", client.id).Debug("websocket client connected")
}

func (h *WSHandler) removeClient(client *wsClient) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
	h.log.WithField("client", client.id).Debug("websocket client disconnected")
}

func (h *WSHandler) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.write(data); err != nil {
			h.log.WithError(err).WithField("client", client.id).Debug("dropping websocket client")
			h.removeClient(client)
			_ = client.conn.Close()
		}
	}
}
