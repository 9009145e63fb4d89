package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ocastro/magnate/game/engine"
	"github.com/ocastro/magnate/game/service"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.games == nil {
		t.Error("Hub games map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterAndUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:    hub,
		gameID: "g1",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client)
	if !hub.games["g1"][client] {
		t.Error("Client was not registered for the game")
	}

	hub.unregisterClient(client)
	if _, exists := hub.games["g1"]; exists {
		t.Error("Game entry should be cleaned up after the last client leaves")
	}
}

func TestHubMultipleClientsPerGame(t *testing.T) {
	hub := NewHub()

	client1 := &Client{hub: hub, gameID: "g1", send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, gameID: "g1", send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)
	if len(hub.games["g1"]) != 2 {
		t.Errorf("Expected 2 clients, got %d", len(hub.games["g1"]))
	}

	hub.unregisterClient(client1)
	if len(hub.games["g1"]) != 1 {
		t.Errorf("Expected 1 client remaining, got %d", len(hub.games["g1"]))
	}
	if !hub.games["g1"][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestBroadcastStateReachesFollowers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	follower := &Client{hub: hub, gameID: "g1", send: make(chan []byte, 256)}
	bystander := &Client{hub: hub, gameID: "g2", send: make(chan []byte, 256)}
	hub.register <- follower
	hub.register <- bystander

	state := &service.GameState{
		GameID:             "g1",
		CurrentPlayerIndex: 1,
		BankCash:           199800,
	}
	transactions := []engine.Transaction{{From: "P1", To: "BANK", Amount: 200}}
	hub.BroadcastState("g1", state, transactions)

	select {
	case data := <-follower.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.GameID != "g1" || message.Event != "state_update" {
			t.Errorf("Unexpected envelope: %+v", message)
		}
		if message.State.CurrentPlayerIndex != 1 || message.State.BankCash != 199800 {
			t.Error("State not correctly transmitted")
		}
		if len(message.Transactions) != 1 || message.Transactions[0].Amount != 200 {
			t.Error("Transactions not correctly transmitted")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("No message received within timeout")
	}

	select {
	case <-bystander.send:
		t.Error("Client following another game must not receive the update")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWebSocketUpgradeAndReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("gameId")
		if gameID == "" {
			gameID = "default"
		}
		hub.ServeWS(w, r, gameID)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?gameId=g1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	hub.BroadcastState("g1", &service.GameState{GameID: "g1", AliveCount: 3}, nil)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.GameID != "g1" || message.State.AliveCount != 3 {
		t.Errorf("Unexpected message: %+v", message)
	}
}
