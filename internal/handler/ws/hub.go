package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"SentiPull/internal/domain/models"
	xlogger "SentiPull/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	sendBuffer  = 8
	maxReadSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans signal events out to WebSocket subscribers. New subscribers get
// the latest event right away; a client whose buffer is full is dropped.
type Hub struct {
	log        *xlogger.Logger
	maxClients int

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

func NewHub(log *xlogger.Logger, maxClients int) *Hub {
	if log == nil {
		log = xlogger.Nop()
	}
	if maxClients <= 0 {
		maxClients = 256
	}
	return &Hub{
		log:        log.With(xlogger.String("component", "ws_hub")),
		maxClients: maxClients,
		clients:    make(map[*client]struct{}),
	}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/signal", h.Serve)
}

// Broadcast sends ev to every connected client.
func (h *Hub) Broadcast(ev *models.SignalEvent) {
	if ev == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal signal event failed", xlogger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("dropping slow websocket client", xlogger.String("remote", c.conn.RemoteAddr().String()))
			h.removeLocked(c)
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Serve upgrades the request and streams events until the client leaves.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(cl) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too many clients"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return nil
	}

	go h.writePump(cl)
	h.readPump(cl)
	return nil
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || len(h.clients) >= h.maxClients {
		return false
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.log.Debug("websocket client connected", xlogger.Int("clients", len(h.clients)))
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked must be called with the mutex held.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
}

// readPump drains client frames so pongs and close frames are processed.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxReadSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
