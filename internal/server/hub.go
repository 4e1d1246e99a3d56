package server

import (
	"encoding/json"
	"sync"
	"time"

	"GoldDashboard/internal/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types pushed to WebSocket clients.
const (
	MessageDashboard = "dashboard"
	MessageReport    = "report"
)

// Envelope is the frame written to every client.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	TS   time.Time       `json:"ts"`
}

// Hub fans dashboard and report pushes out to connected WebSocket clients.
// The latest frame of each type is replayed to newly connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	latest  map[string][]byte

	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHub creates an empty Hub. m may be nil.
func NewHub(m *metrics.Metrics, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*Client]bool),
		latest:  make(map[string][]byte),
		metrics: m,
		logger:  logger,
	}
}

// Register adopts an upgraded connection and starts its pumps.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	for _, frame := range h.latest {
		select {
		case client.send <- frame:
		default:
		}
	}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}
	h.logger.Info("ws client connected", zap.Int("clients", count))

	go client.writePump()
	go client.readPump()
	return client
}

// RemoveClient unregisters a client and closes its send channel.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}
	h.logger.Info("ws client disconnected", zap.Int("clients", count))
}

// Broadcast wraps payload in an Envelope and queues it for every client.
// Slow clients drop frames rather than block the broadcaster.
func (h *Hub) Broadcast(msgType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Type: msgType, Data: data, TS: time.Now().UTC()})
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.latest[msgType] = frame
	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			h.logger.Debug("ws client queue full, dropping frame", zap.String("type", msgType))
		}
	}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSMessages.WithLabelValues(msgType).Inc()
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.conn.Close()
	}
}
