package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server
// messages. Type routes the message; Raw keeps the full payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON captures the raw payload alongside the type field.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg must be the first message on every connection. The token is
// resolved to an identity by the configured authenticator.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// NewGameMsg starts a solo game ("classic" or "adversarial").
type NewGameMsg struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
}

// SubmitGuessMsg submits a guess for a solo game or the current match.
type SubmitGuessMsg struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

// GetStateMsg requests the current snapshot of a solo game.
type GetStateMsg struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
}

// DeleteGameMsg discards a solo game.
type DeleteGameMsg struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
}

// JoinRoomMsg seats the player in a lobby room.
type JoinRoomMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// CastSpellMsg casts a spell in the current match.
type CastSpellMsg struct {
	Type      string `json:"type"`
	GameID    string `json:"gameId"`
	SpellName string `json:"spellName"`
}

// --- Server-to-Client messages ---

// ErrorMsg reports a failed command with a stable kind.
type ErrorMsg struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AuthOKMsg confirms the auth handshake.
type AuthOKMsg struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// GameStateMsg wraps a solo game snapshot.
type GameStateMsg struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

// GameDeletedMsg confirms a solo game was discarded.
type GameDeletedMsg struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
}

// RoomJoinedMsg confirms a join before the lobby snapshot follows.
type RoomJoinedMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// RoomLeftMsg confirms a leave.
type RoomLeftMsg struct {
	Type string `json:"type"`
}

// HeartbeatAckMsg answers a heartbeat.
type HeartbeatAckMsg struct {
	Type string `json:"type"`
}
