package live

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.conns) == 1
	}, time.Second, 10*time.Millisecond)
	return conn
}

func TestBroadcastDelivers(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	hub.Broadcast("invoice.created", map[string]string{"unique_id": "2026-0001"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"invoice.created","data":{"unique_id":"2026-0001"}}`, string(raw))
}

func TestBroadcastConcurrentCallers(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	// Drain on the client so server writes never back up.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				hub.Broadcast("invoice.created", map[string]int{"worker": n, "seq": j})
			}
		}(i)
	}
	wg.Wait()

	// The connection survived every write; nothing was dropped.
	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.conns, 1)
}
