package gameerrors

import "errors"

// Sentinel errors shared by the game, room, lobby, sessions and ws packages
// to avoid circular imports. Every error a client can trigger maps to a
// stable kind string via Kind, which the transport layer puts on the wire.
var (
	ErrInvalidGuess    = errors.New("guess must be a 5-letter word from the dictionary")
	ErrInvalidMode     = errors.New("unknown game mode")
	ErrGameAlreadyOver = errors.New("game is already over")
	ErrAlreadyUsed     = errors.New("spell already used this match")
	ErrUnknownSpell    = errors.New("unknown spell")
	ErrInputBlocked    = errors.New("input is blocked by a spell")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotFound    = errors.New("room not found")
	ErrAlreadyInRoom   = errors.New("already in a room")
	ErrNotInRoom       = errors.New("not in any room")
	ErrUnknownSession  = errors.New("no live session for this identity")
	ErrGameNotFound    = errors.New("game not found")
)

// Kind returns the stable protocol kind for a known error, or "internal"
// for anything unexpected. Kinds are part of the wire contract; do not
// rename them.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidGuess):
		return "invalid_guess"
	case errors.Is(err, ErrInvalidMode):
		return "invalid_mode"
	case errors.Is(err, ErrGameAlreadyOver):
		return "game_already_over"
	case errors.Is(err, ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, ErrUnknownSpell):
		return "unknown_spell"
	case errors.Is(err, ErrInputBlocked):
		return "input_blocked"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, ErrUnknownSession):
		return "unknown_session"
	case errors.Is(err, ErrGameNotFound):
		return "game_not_found"
	default:
		return "internal"
	}
}
