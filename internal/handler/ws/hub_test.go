package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SentiPull/internal/domain/models"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, maxClients int) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil, maxClients)
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/signal"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.SignalEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev models.SignalEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Len() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubSendsLatestOnConnectAndBroadcasts(t *testing.T) {
	hub, url := startHub(t, 4)
	hub.Broadcast(&models.SignalEvent{ID: "first", Provider: "cnn"})

	conn := dial(t, url)
	assert.Equal(t, "first", readEvent(t, conn).ID)

	waitClients(t, hub, 1)
	hub.Broadcast(&models.SignalEvent{ID: "second", Provider: "cnn"})
	assert.Equal(t, "second", readEvent(t, conn).ID)
}

func TestHubRejectsOverCapacity(t *testing.T) {
	hub, url := startHub(t, 1)
	dial(t, url)
	waitClients(t, hub, 1)

	extra := dial(t, url)
	require.NoError(t, extra.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := extra.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseTryAgainLater), "unexpected err %v", err)
	assert.Equal(t, 1, hub.Len())
}

func TestHubForgetsDisconnectedClients(t *testing.T) {
	hub, url := startHub(t, 4)
	conn := dial(t, url)
	waitClients(t, hub, 1)

	_ = conn.Close()
	waitClients(t, hub, 0)
}
