package room

import "wordle-arena-server/game"

// OpponentView is what each player may see of the other slot: progress
// only, never guesses or letters, so nothing about the board leaks
// across slots.
type OpponentView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Round  int    `json:"round"`
	Over   bool   `json:"over"`
	Won    bool   `json:"won"`
}

// MatchStateMsg is the per-player match snapshot broadcast after every
// room mutation.
type MatchStateMsg struct {
	Type           string          `json:"type"`
	RoomID         string          `json:"roomId"`
	MatchID        string          `json:"matchId"`
	State          string          `json:"state"`
	You            game.Snapshot   `json:"you"`
	Opponent       OpponentView    `json:"opponent"`
	YourEffect     EffectView      `json:"yourEffect"`
	OpponentEffect EffectView      `json:"opponentEffect"`
	SpellsUsed     map[string]bool `json:"spellsUsed"`
}

// MatchOverMsg is the final match-result snapshot. Answer is the
// revealed secret; DisconnectReason is set when the match ended on a
// forfeit.
type MatchOverMsg struct {
	Type             string `json:"type"`
	RoomID           string `json:"roomId"`
	MatchID          string `json:"matchId"`
	WinnerID         string `json:"winnerId,omitempty"`
	Outcome          string `json:"outcome"`
	Answer           string `json:"answer"`
	DisconnectReason string `json:"disconnectReason,omitempty"`
	You              string `json:"you"` // "win", "lose" or "draw" for this recipient
}

// SpellCastMsg notifies both players that a spell resolved.
type SpellCastMsg struct {
	Type      string   `json:"type"`
	RoomID    string   `json:"roomId"`
	MatchID   string   `json:"matchId"`
	Spell     string   `json:"spell"`
	CasterID  string   `json:"casterId"`
	TargetIDs []string `json:"targetIds"`
}
