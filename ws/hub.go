package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wordle-arena-server/config"
	"wordle-arena-server/game"
	"wordle-arena-server/lobby"
	"wordle-arena-server/sessions"
	"wordle-arena-server/wsutil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Authenticator resolves a client token to an identity and display
// name. Wired to the auth package in main; stubbed in tests.
type Authenticator func(token string) (userID, name string, err error)

// Hub maintains the set of active clients and fans out lobby-wide
// broadcasts. All game routing happens on the clients themselves.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte

	// Kick carries conn ids of superseded connections; the hub closes
	// their sockets so a stale login cannot linger.
	Kick chan string

	Config   *config.Config
	Lobby    *lobby.Lobby
	Sessions *sessions.Registry
	Games    *game.Manager
	Auth     Authenticator
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, lb *lobby.Lobby, reg *sessions.Registry, games *game.Manager, auth Authenticator) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		Kick:       make(chan string, 16),
		Config:     cfg,
		Lobby:      lb,
		Sessions:   reg,
		Games:      games,
		Auth:       auth,
	}
}

// Run is the hub's main loop; run as a goroutine. Returns when ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("hub shutting down", "tag", "ws")
			return

		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "ws", "conn", client.ConnID, "total", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; !ok {
				continue
			}
			delete(h.Clients, client)
			close(client.Send)
			slog.Info("client disconnected", "tag", "ws", "conn", client.ConnID, "total", len(h.Clients))

			// Only the live session for this identity may trigger the
			// disconnect path; a superseded connection closing must
			// not forfeit the new one's match.
			if client.UserID != "" && h.Sessions.Unregister(client.UserID, client.ConnID) {
				h.Lobby.HandleDisconnect(client.UserID)
			}

		case connID := <-h.Kick:
			for client := range h.Clients {
				if client.ConnID == connID && client.Conn != nil {
					client.Conn.Close()
				}
			}

		case data := <-h.broadcast:
			for client := range h.Clients {
				if client.Authenticated() {
					wsutil.SafeSend(client.Send, data)
				}
			}
		}
	}
}

// BroadcastJSON queues a message for every authenticated client. It
// implements lobby.Notifier and never blocks: under pressure the
// update is dropped, the next one supersedes it anyway.
func (h *Hub) BroadcastJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling broadcast", "tag", "ws", "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		ConnID: uuid.NewString(),
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
