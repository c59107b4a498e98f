package lobby

import (
	"fmt"
	"log/slog"
	"sync"

	"wordle-arena-server/config"
	"wordle-arena-server/gameerrors"
	"wordle-arena-server/room"
	"wordle-arena-server/words"
)

// Notifier delivers lobby-wide broadcasts; implemented by the ws hub.
type Notifier interface {
	BroadcastJSON(msg any)
}

// Lobby owns the fixed set of named two-seat rooms and the matchmaking
// rules: one room per identity, auto-start on second fill. Its mutex
// guards membership; room mutation after start goes through the room's
// own action loop, never under this lock.
type Lobby struct {
	mu       sync.Mutex
	rooms    []*room.Room
	byID     map[string]*room.Room
	userRoom map[string]*room.Room

	dict   *words.List
	spells room.SpellProvider
	cfg    *config.Config

	// Notify broadcasts lobby snapshots; set before serving traffic.
	Notify Notifier

	// OnMatchFinished receives every finished match result, e.g. for
	// persistence. Optional.
	OnMatchFinished func(room.Result)
}

// New creates a lobby with cfg.LobbyRoomCount empty rooms.
func New(cfg *config.Config, dict *words.List, spells room.SpellProvider) *Lobby {
	l := &Lobby{
		byID:     make(map[string]*room.Room),
		userRoom: make(map[string]*room.Room),
		dict:     dict,
		spells:   spells,
		cfg:      cfg,
	}
	n := cfg.LobbyRoomCount
	if n <= 0 {
		n = 1
	}
	for i := 1; i <= n; i++ {
		r := room.New(fmt.Sprintf("room-%d", i), fmt.Sprintf("Room %d", i), dict, spells, cfg.MaxRounds)
		l.rooms = append(l.rooms, r)
		l.byID[r.ID] = r
	}
	return l
}

// Join seats the identity in the given room. The room starts the moment
// its second seat fills; there is no ready step.
func (l *Lobby) Join(userID, name, roomID string, send chan []byte) error {
	l.mu.Lock()
	if _, in := l.userRoom[userID]; in {
		l.mu.Unlock()
		return gameerrors.ErrAlreadyInRoom
	}
	r, ok := l.byID[roomID]
	if !ok {
		l.mu.Unlock()
		return gameerrors.ErrRoomNotFound
	}
	if r.Status() != room.Waiting {
		l.mu.Unlock()
		return gameerrors.ErrRoomFull
	}
	if _, err := r.AddPlayer(userID, name, send); err != nil {
		l.mu.Unlock()
		return err
	}
	l.userRoom[userID] = r
	started := r.Full()
	if started {
		r.OnFinished = l.matchFinished
		r.Start()
	}
	l.mu.Unlock()

	slog.Info("player joined room", "tag", "lobby", "user", userID, "roomId", roomID, "started", started)
	l.broadcastState()
	return nil
}

// Leave removes the identity from its room. Leaving an Active room is a
// disconnect-forfeit; leaving a Waiting room may abandon it, in which
// case the room is recycled so the named set stays fixed.
func (l *Lobby) Leave(userID string) error {
	l.mu.Lock()
	r, in := l.userRoom[userID]
	if !in {
		l.mu.Unlock()
		return gameerrors.ErrNotInRoom
	}
	delete(l.userRoom, userID)

	if r.Status() == room.Waiting {
		r.RemoveWaitingPlayer(userID)
		if r.Status() == room.Abandoned {
			l.recycleLocked(r)
		}
		l.mu.Unlock()
		l.broadcastState()
		return nil
	}

	slotIdx := slotOf(r, userID)
	l.mu.Unlock()

	if slotIdx >= 0 {
		// Processed in arrival order by the room loop; the opponent
		// wins unless their board was already terminal.
		_ = r.Dispatch(room.Action{Type: room.ActionDisconnect, SlotIdx: slotIdx})
	}
	l.broadcastState()
	return nil
}

// HandleDisconnect is the liveness path: same as Leave but quiet when
// the identity was not in any room.
func (l *Lobby) HandleDisconnect(userID string) {
	if err := l.Leave(userID); err == nil {
		slog.Info("player disconnected from room", "tag", "lobby", "user", userID)
	}
}

// RoomFor resolves the identity's current room and slot index for
// command routing.
func (l *Lobby) RoomFor(userID string) (*room.Room, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, in := l.userRoom[userID]
	if !in {
		return nil, 0, false
	}
	idx := slotOf(r, userID)
	if idx < 0 {
		return nil, 0, false
	}
	return r, idx, true
}

// ActiveMatches counts rooms currently playing (for health checks).
func (l *Lobby) ActiveMatches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.rooms {
		if r.Status() == room.Active {
			n++
		}
	}
	return n
}

// matchFinished runs on the room goroutine when a match ends: free both
// seats, recycle the room and republish the lobby.
func (l *Lobby) matchFinished(res room.Result) {
	l.mu.Lock()
	finished := l.byID[res.RoomID]
	for _, id := range res.PlayerIDs {
		if l.userRoom[id] == finished {
			delete(l.userRoom, id)
		}
	}
	l.recycleLocked(finished)
	l.mu.Unlock()

	if l.OnMatchFinished != nil {
		l.OnMatchFinished(res)
	}
	l.broadcastState()
}

// recycleLocked replaces a terminal room with a fresh Waiting one under
// the same id and name. Caller holds l.mu.
func (l *Lobby) recycleLocked(old *room.Room) {
	fresh := room.New(old.ID, old.Name, l.dict, l.spells, l.cfg.MaxRounds)
	l.byID[old.ID] = fresh
	for i, r := range l.rooms {
		if r == old {
			l.rooms[i] = fresh
			break
		}
	}
}

func slotOf(r *room.Room, userID string) int {
	for i, s := range r.Slots {
		if s != nil && s.UserID == userID {
			return i
		}
	}
	return -1
}

// PlayerInfo is one occupant in the lobby snapshot.
type PlayerInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// RoomInfo is one room in the lobby snapshot.
type RoomInfo struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	State      string       `json:"state"`
	Players    []PlayerInfo `json:"players"`
	MaxPlayers int          `json:"maxPlayers"`
}

// StateMsg is the read-only lobby projection broadcast on every room
// change.
type StateMsg struct {
	Type  string     `json:"type"`
	Rooms []RoomInfo `json:"rooms"`
}

// Snapshot builds the lobby projection.
func (l *Lobby) Snapshot() StateMsg {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := StateMsg{Type: "lobby_state"}
	for _, r := range l.rooms {
		info := RoomInfo{
			ID:         r.ID,
			Name:       r.Name,
			State:      r.Status().String(),
			Players:    []PlayerInfo{},
			MaxPlayers: len(r.Slots),
		}
		for _, s := range r.Slots {
			if s != nil {
				info.Players = append(info.Players, PlayerInfo{UserID: s.UserID, Name: s.Name})
			}
		}
		msg.Rooms = append(msg.Rooms, info)
	}
	return msg
}

func (l *Lobby) broadcastState() {
	if l.Notify != nil {
		l.Notify.BroadcastJSON(l.Snapshot())
	}
}
