package brackets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastToRoom(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	room := RoomForTournament(7)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 16), Room: room}
		hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientsInRoom(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	// Other rooms must not receive anything.
	hub.BroadcastToRoom(RoomForTournament(8), WebSocketMessage{Type: MessageBracketUpdated})
	hub.BroadcastToRoom(room, WebSocketMessage{
		Type:    MessageStandingsUpdated,
		Payload: []Standing{{Name: "A", Points: 3, GD: 2}},
		RoomID:  room,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string     `json:"type"`
		Payload []Standing `json:"payload"`
		RoomID  string     `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageStandingsUpdated, msg.Type)
	assert.Equal(t, "tournament_7", msg.RoomID)
	assert.Equal(t, []Standing{{Name: "A", Points: 3, GD: 2}}, msg.Payload)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientsInRoom(room) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() {
		hub.BroadcastToRoom("tournament_1", WebSocketMessage{Type: MessageTournamentClosed})
	})
	assert.Zero(t, hub.ClientsInRoom("tournament_1"))
}
