package telemetry

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.inbox == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
}

func TestPublish_NeverBlocks(t *testing.T) {
	hub := NewHub()

	// Nobody is running the hub, so the inbox fills up
	accepted := 0
	for i := 0; i < inboxSize+10; i++ {
		if hub.Publish(Frame{Tick: int64(i)}) {
			accepted++
		}
	}

	if accepted != inboxSize {
		t.Errorf("Expected %d accepted frames, got %d", inboxSize, accepted)
	}
	if hub.Dropped() != 10 {
		t.Errorf("Expected 10 dropped frames, got %d", hub.Dropped())
	}
}

func TestHubRemoveClient(t *testing.T) {
	hub := NewHub()
	c := &client{hub: hub, send: make(chan []byte, 1)}
	hub.clients[c] = true

	hub.removeClient(c)
	if _, ok := hub.clients[c]; ok {
		t.Error("Client should be removed")
	}
	if _, ok := <-c.send; ok {
		t.Error("Client send channel should be closed")
	}

	// Removing twice must not panic on a closed channel
	hub.removeClient(c)
}

func TestHubBroadcast_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &client{hub: hub, send: make(chan []byte)}
	fast := &client{hub: hub, send: make(chan []byte, 1)}
	hub.clients[slow] = true
	hub.clients[fast] = true

	hub.broadcast(Frame{Tick: 1})

	if hub.clients[slow] {
		t.Error("Client with a full buffer should be dropped")
	}
	if !hub.clients[fast] {
		t.Error("Client with room should stay connected")
	}

	var f Frame
	if err := json.Unmarshal(<-fast.send, &f); err != nil {
		t.Fatalf("Broadcast payload is not JSON: %v", err)
	}
	if f.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", f.Tick)
	}
}

func TestHubWebSocketStream(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client
	deadline := time.Now().Add(2 * time.Second)
	var got Frame
	for {
		hub.Publish(Frame{Session: "abc", Tick: 42, Laps: 3, Event: EventLap})

		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, data, err := conn.ReadMessage()
		if err == nil {
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Invalid frame JSON: %v", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("No telemetry frame received: %v", err)
		}
		// A read timeout poisons the connection, so redial
		conn.Close()
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Redial failed: %v", err)
		}
	}

	if got.Session != "abc" || got.Tick != 42 || got.Laps != 3 || got.Event != EventLap {
		t.Errorf("Unexpected frame %+v", got)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", NewHub())
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	url := "ws://" + srv.Addr().String() + Path
	var conn *websocket.Conn
	for i := 0; i < 50; i++ {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	conn.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
