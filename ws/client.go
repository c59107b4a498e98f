package ws

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"wordle-arena-server/game"
	"wordle-arena-server/gameerrors"
	"wordle-arena-server/room"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is the middleman between one websocket connection and the
// game services. UserID stays empty until the auth handshake succeeds;
// only the read pump touches it. The hub's broadcast fan-out runs on
// another goroutine and consults the atomic flag instead.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	ConnID string
	UserID string
	Name   string

	authed atomic.Bool
}

// Authenticated reports whether the auth handshake completed.
func (c *Client) Authenticated() bool {
	return c.authed.Load()
}

// ReadPump pumps messages from the websocket connection into the
// command dispatch. One goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "conn", c.ConnID, "err", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket
// connection. One goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage routes one inbound command and emits the per-command
// log record (identity, command, result kind, latency).
func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendErrorKind("bad_message", "Invalid message format.")
		return
	}

	start := time.Now()
	var err error

	if envelope.Type == "auth" {
		err = c.handleAuth(envelope.Raw)
	} else if c.UserID == "" {
		c.sendErrorKind("auth_required", "Authenticate first.")
		return
	} else if !c.Hub.Sessions.LiveConn(c.UserID, c.ConnID) {
		// A newer login superseded this connection; refuse the command
		// and drop the socket.
		c.sendErrorKind("unknown_session", "Signed in from another connection.")
		if c.Conn != nil {
			c.Conn.Close()
		}
		return
	} else {
		switch envelope.Type {
		case "new_game":
			err = c.handleNewGame(envelope.Raw)
		case "submit_guess":
			err = c.handleSubmitGuess(envelope.Raw)
		case "get_state":
			err = c.handleGetState(envelope.Raw)
		case "delete_game":
			err = c.handleDeleteGame(envelope.Raw)
		case "join_room":
			err = c.handleJoinRoom(envelope.Raw)
		case "leave_room":
			err = c.handleLeaveRoom()
		case "cast_spell":
			err = c.handleCastSpell(envelope.Raw)
		case "heartbeat":
			err = c.handleHeartbeat()
		default:
			c.sendErrorKind("bad_message", "Unknown message type: "+envelope.Type)
			return
		}
	}

	result := "ok"
	if err != nil {
		result = gameerrors.Kind(err)
		c.sendError(err)
	}
	identity := c.UserID
	if identity == "" {
		identity = "-"
	}
	slog.Info("command", "tag", "cmd", "user", identity,
		"cmd", envelope.Type, "result", result, "latency", time.Since(start))
}

func (c *Client) handleAuth(raw json.RawMessage) error {
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendErrorKind("bad_message", "Invalid auth message.")
		return nil
	}

	userID, name, err := c.Hub.Auth(msg.Token)
	if err != nil {
		slog.Warn("auth failed", "tag", "ws", "conn", c.ConnID, "err", err)
		c.sendErrorKind("auth_failed", "Authentication failed.")
		return nil
	}
	if name == "" {
		name = "Player"
	}
	if max := c.Hub.Config.MaxNameLength; max > 0 && len(name) > max {
		name = name[:max]
	}
	c.UserID = userID
	c.Name = name
	c.authed.Store(true)

	if old := c.Hub.Sessions.Register(userID, c.ConnID, c.Send); old != nil {
		// Force-disconnect the superseded connection.
		select {
		case c.Hub.Kick <- old.ConnID:
		default:
		}
	}

	// A re-login mid-match keeps the seat; point it at this connection.
	if r, idx, ok := c.Hub.Lobby.RoomFor(userID); ok {
		_ = r.Dispatch(room.Action{Type: room.ActionRebind, SlotIdx: idx, NewSend: c.Send})
	}

	c.sendJSON(AuthOKMsg{Type: "auth_ok", UserID: userID, Name: name})
	c.sendJSON(c.Hub.Lobby.Snapshot())
	return nil
}

func (c *Client) handleNewGame(raw json.RawMessage) error {
	var msg NewGameMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return gameerrors.ErrInvalidMode
	}
	mode, err := game.ParseMode(msg.Mode)
	if err != nil {
		return err
	}
	snap := c.Hub.Games.NewGame(c.UserID, mode)
	c.sendJSON(GameStateMsg{Type: "game_state", State: snap})
	return nil
}

func (c *Client) handleSubmitGuess(raw json.RawMessage) error {
	var msg SubmitGuessMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return gameerrors.ErrInvalidGuess
	}

	if r, idx, ok := c.Hub.Lobby.RoomFor(c.UserID); ok && c.matchesRoomGame(r, idx, msg.GameID) {
		return r.Dispatch(room.Action{
			Type:    room.ActionGuess,
			SlotIdx: idx,
			Word:    msg.Word,
			Reply:   make(chan error, 1),
		})
	}

	snap, err := c.Hub.Games.Submit(c.UserID, msg.GameID, msg.Word)
	if err != nil {
		return err
	}
	c.sendJSON(GameStateMsg{Type: "game_state", State: snap})
	return nil
}

func (c *Client) handleGetState(raw json.RawMessage) error {
	var msg GetStateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return gameerrors.ErrGameNotFound
	}
	snap, err := c.Hub.Games.Get(c.UserID, msg.GameID)
	if err != nil {
		return err
	}
	c.sendJSON(GameStateMsg{Type: "game_state", State: snap})
	return nil
}

func (c *Client) handleDeleteGame(raw json.RawMessage) error {
	var msg DeleteGameMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return gameerrors.ErrGameNotFound
	}
	if err := c.Hub.Games.Delete(c.UserID, msg.GameID); err != nil {
		return err
	}
	c.sendJSON(GameDeletedMsg{Type: "game_deleted", GameID: msg.GameID})
	return nil
}

func (c *Client) handleJoinRoom(raw json.RawMessage) error {
	var msg JoinRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return gameerrors.ErrRoomNotFound
	}
	if err := c.Hub.Lobby.Join(c.UserID, c.Name, msg.RoomID, c.Send); err != nil {
		return err
	}
	c.sendJSON(RoomJoinedMsg{Type: "room_joined", RoomID: msg.RoomID})
	return nil
}

func (c *Client) handleLeaveRoom() error {
	if err := c.Hub.Lobby.Leave(c.UserID); err != nil {
		return err
	}
	c.sendJSON(RoomLeftMsg{Type: "room_left"})
	return nil
}

func (c *Client) handleCastSpell(raw json.RawMessage) error {
	var msg CastSpellMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return gameerrors.ErrUnknownSpell
	}
	r, idx, ok := c.Hub.Lobby.RoomFor(c.UserID)
	if !ok {
		return gameerrors.ErrNotInRoom
	}
	if !c.matchesRoomGame(r, idx, msg.GameID) {
		return gameerrors.ErrGameNotFound
	}
	return r.Dispatch(room.Action{
		Type:    room.ActionCastSpell,
		SlotIdx: idx,
		SpellID: msg.SpellName,
		Reply:   make(chan error, 1),
	})
}

func (c *Client) handleHeartbeat() error {
	if err := c.Hub.Sessions.Heartbeat(c.UserID); err != nil {
		return err
	}
	c.sendJSON(HeartbeatAckMsg{Type: "heartbeat_ack"})
	return nil
}

// matchesRoomGame accepts both the match id and the player's own
// session id as the game identifier for room commands.
func (c *Client) matchesRoomGame(r *room.Room, slotIdx int, gameID string) bool {
	if gameID == "" || gameID == r.MatchID {
		return true
	}
	slot := r.Slots[slotIdx]
	return slot != nil && slot.Session != nil && slot.Session.ID == gameID
}

func (c *Client) sendError(err error) {
	c.sendJSON(ErrorMsg{Type: "error", Kind: gameerrors.Kind(err), Message: err.Error()})
}

func (c *Client) sendErrorKind(kind, message string) {
	c.sendJSON(ErrorMsg{Type: "error", Kind: kind, Message: message})
}

func (c *Client) sendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling client message", "tag", "ws", "err", err)
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}
