package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubPingPong(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	if err := conn.WriteJSON(ClientMsg{Type: "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var reply map[string]string
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if reply["type"] != "pong" {
		t.Fatalf("reply type = %q, want pong", reply["type"])
	}
}

// O pong sai do goroutine da conexão e o Broadcast do goroutine do
// assinante; os dois fluxos precisam conviver na mesma conexão.
func TestHubBroadcastDuringPings(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				hub.Broadcast([]byte(`{"type":"feed"}`))
				time.Sleep(2 * time.Millisecond)
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var gotPong, gotFeed bool
	for i := 0; i < 200 && !(gotPong && gotFeed); i++ {
		if !gotPong {
			if err := conn.WriteJSON(ClientMsg{Type: "ping"}); err != nil {
				t.Fatalf("write ping: %v", err)
			}
		}
		var msg map[string]string
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch msg["type"] {
		case "pong":
			gotPong = true
		case "feed":
			gotFeed = true
		}
	}
	if !gotPong || !gotFeed {
		t.Fatalf("gotPong=%v gotFeed=%v, want both", gotPong, gotFeed)
	}
}
