package room

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"wordle-arena-server/game"
	"wordle-arena-server/gameerrors"
	"wordle-arena-server/words"
	"wordle-arena-server/wsutil"
)

// State is the room lifecycle state.
type State int

const (
	Waiting State = iota
	Active
	Finished
	Abandoned
)

// String returns the protocol string for a State.
func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Active:
		return "active"
	case Finished:
		return "finished"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Slot is one player's seat: identity, connection channel, board and
// spell state.
type Slot struct {
	UserID     string
	Name       string
	Send       chan []byte
	Session    *game.GameSession
	SpellsUsed map[string]bool
	Effect     ActiveEffect
}

// ActionType enumerates the actions a running room can process.
type ActionType int

const (
	ActionGuess ActionType = iota
	ActionCastSpell
	ActionDisconnect
	ActionEffectExpired // internal: fired when an effect timer elapses
	ActionRebind        // player re-authenticated; replace the slot's send channel
)

// Action is one command sent into the room's action channel. Reply,
// when non-nil, receives the result exactly once; it must be buffered.
type Action struct {
	Type    ActionType
	SlotIdx int
	Word    string
	SpellID string
	NewSend chan []byte // for ActionRebind
	Reply   chan error
}

// Result summarizes a finished match for persistence and logging.
type Result struct {
	MatchID          string
	RoomID           string
	PlayerIDs        [2]string
	PlayerNames      [2]string
	PlayerRounds     [2]int
	WinnerIdx        int // 0, 1, or -1 when nobody won
	Outcome          string
	Secret           string
	DisconnectReason string
}

// Room pairs two identities over the same secret word. While Waiting it
// is mutated only under the lobby's lock; once Active all mutation goes
// through the Actions channel and the single Run goroutine, so events
// within a room apply strictly in arrival order.
type Room struct {
	ID      string
	Name    string
	MatchID string
	Slots   [2]*Slot

	// mu guards state, which the room goroutine writes and the lobby
	// reads through Status while holding only its own lock.
	mu    sync.Mutex
	state State

	secret           string
	winnerIdx        int
	outcome          string
	disconnectReason string

	dict      *words.List
	spells    SpellProvider
	maxRounds int

	Actions chan Action
	Done    chan struct{}

	timersCancel chan struct{}

	// Now is the clock used for effect expiry; tests override it.
	Now func() time.Time

	// OnFinished is called once, from the room goroutine, when the
	// match reaches Finished. Set by the lobby before Start.
	OnFinished func(Result)
}

// New creates an empty Waiting room.
func New(id, name string, dict *words.List, spells SpellProvider, maxRounds int) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		state:     Waiting,
		dict:      dict,
		spells:    spells,
		maxRounds: maxRounds,
		Actions:   make(chan Action, 16),
		Done:      make(chan struct{}),
		Now:       time.Now,
	}
}

// Status returns the lifecycle state. Safe from any goroutine.
func (r *Room) Status() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// AddPlayer seats a player. Only valid while Waiting, under the lobby
// lock. Returns the slot index.
func (r *Room) AddPlayer(userID, name string, send chan []byte) (int, error) {
	if r.state != Waiting {
		return 0, gameerrors.ErrRoomFull
	}
	for i := range r.Slots {
		if r.Slots[i] == nil {
			r.Slots[i] = &Slot{
				UserID:     userID,
				Name:       name,
				Send:       send,
				SpellsUsed: make(map[string]bool),
			}
			return i, nil
		}
	}
	return 0, gameerrors.ErrRoomFull
}

// RemoveWaitingPlayer unseats a player before the match started. The
// room becomes Abandoned when its last occupant leaves. Lobby-locked.
func (r *Room) RemoveWaitingPlayer(userID string) bool {
	if r.state != Waiting {
		return false
	}
	removed := false
	occupied := 0
	for i := range r.Slots {
		if r.Slots[i] == nil {
			continue
		}
		if r.Slots[i].UserID == userID {
			r.Slots[i] = nil
			removed = true
		} else {
			occupied++
		}
	}
	if removed && occupied == 0 {
		r.setState(Abandoned)
		close(r.Done)
	}
	return removed
}

// Full reports whether both seats are taken.
func (r *Room) Full() bool {
	return r.Slots[0] != nil && r.Slots[1] != nil
}

// Start transitions Waiting → Active: one secret is drawn, both slots
// get sessions against it, and the action loop starts. Lobby-locked.
func (r *Room) Start() {
	r.MatchID = uuid.NewString()
	r.secret = r.dict.Random()
	r.winnerIdx = -1
	for i := range r.Slots {
		r.Slots[i].Session = game.NewSession(game.MultiplayerSlot, r.dict, r.secret, r.maxRounds)
	}
	r.setState(Active)
	r.timersCancel = make(chan struct{})
	slog.Info("match started", "tag", "room", "roomId", r.ID, "matchId", r.MatchID,
		"player0", r.Slots[0].UserID, "player1", r.Slots[1].UserID)
	go r.Run()
}

// Dispatch sends an action into the room and, when the action carries a
// Reply channel, waits for the result. Safe to call after the room
// ended: it fails with ErrGameAlreadyOver instead of blocking.
func (r *Room) Dispatch(a Action) error {
	select {
	case r.Actions <- a:
	case <-r.Done:
		return gameerrors.ErrGameAlreadyOver
	}
	if a.Reply == nil {
		return nil
	}
	select {
	case err := <-a.Reply:
		return err
	case <-r.Done:
		// The loop may have exited right after replying; Reply is
		// buffered, so a written result is still there.
		select {
		case err := <-a.Reply:
			return err
		default:
			return nil
		}
	}
}

// Run is the room's action loop. One goroutine per Active room; it
// exits when the match finishes.
func (r *Room) Run() {
	defer close(r.Done)

	r.broadcastMatchState()

	for action := range r.Actions {
		var err error
		switch action.Type {
		case ActionGuess:
			err = r.handleGuess(action.SlotIdx, action.Word)
		case ActionCastSpell:
			err = r.handleCast(action.SlotIdx, action.SpellID)
		case ActionDisconnect:
			r.handleDisconnect(action.SlotIdx)
		case ActionEffectExpired:
			r.handleEffectExpired(action.SlotIdx)
		case ActionRebind:
			r.handleRebind(action.SlotIdx, action.NewSend)
		}
		if action.Reply != nil {
			action.Reply <- err
		}
		if r.state != Active {
			return
		}
	}
}

func (r *Room) handleGuess(slotIdx int, word string) error {
	if r.state != Active {
		return gameerrors.ErrGameAlreadyOver
	}
	slot := r.Slots[slotIdx]
	now := r.Now()
	slot.Effect.normalize(now)

	if slot.Effect.Kind == EffectLocked {
		return gameerrors.ErrInputBlocked
	}

	normalized, err := slot.Session.Validate(word)
	if err != nil {
		return err
	}

	played := normalized
	if slot.Effect.Kind == EffectScrambled {
		played = scramble(normalized, &slot.Effect)
		slot.Effect.normalize(now)
	}
	if _, err := slot.Session.SubmitPlayed(normalized, played); err != nil {
		return err
	}

	other := r.Slots[1-slotIdx]
	switch {
	case slot.Session.Won:
		r.finish(slotIdx, "win", "")
	case slot.Session.Over && other.Session.Over:
		r.finish(-1, "draw", "")
	default:
		r.broadcastMatchState()
	}
	return nil
}

// scramble replaces submitted letters with uniformly random ones while
// the effect has budget left, consuming one unit per letter.
func scramble(word string, e *ActiveEffect) string {
	b := []byte(word)
	for i := 0; i < len(b) && e.RemainingLetters > 0; i++ {
		b[i] = byte('A' + rand.Intn(26))
		e.RemainingLetters--
	}
	return string(b)
}

func (r *Room) handleCast(slotIdx int, spellID string) error {
	if r.state != Active {
		return gameerrors.ErrGameAlreadyOver
	}
	caster := r.Slots[slotIdx]
	now := r.Now()
	caster.Effect.normalize(now)

	if caster.Session.Over {
		return gameerrors.ErrGameAlreadyOver
	}
	if caster.Effect.Kind == EffectLocked {
		return gameerrors.ErrInputBlocked
	}
	def, ok := r.spells.Get(spellID)
	if !ok {
		return gameerrors.ErrUnknownSpell
	}
	if caster.SpellsUsed[def.ID] {
		return gameerrors.ErrAlreadyUsed
	}

	caster.SpellsUsed[def.ID] = true
	targetIdx := 1 - slotIdx
	target := r.Slots[targetIdx]
	target.Effect = def.Effect(now)
	if !target.Effect.ExpiresAt.IsZero() {
		r.scheduleEffectExpiry(targetIdx, target.Effect.ExpiresAt.Sub(now))
	}

	slog.Info("spell cast", "tag", "room", "matchId", r.MatchID,
		"spell", def.ID, "caster", caster.UserID, "target", target.UserID)

	r.broadcast(SpellCastMsg{
		Type:      "spell_cast",
		RoomID:    r.ID,
		MatchID:   r.MatchID,
		Spell:     def.ID,
		CasterID:  caster.UserID,
		TargetIDs: []string{target.UserID},
	})
	r.broadcastMatchState()
	return nil
}

// scheduleEffectExpiry fires an internal action when a timed effect
// lapses so clients see it clear without having to act first. The timer
// dies with the match: finish closes timersCancel.
func (r *Room) scheduleEffectExpiry(slotIdx int, d time.Duration) {
	cancel := r.timersCancel
	go func() {
		select {
		case <-time.After(d):
			select {
			case r.Actions <- Action{Type: ActionEffectExpired, SlotIdx: slotIdx}:
			case <-r.Done:
			}
		case <-cancel:
		case <-r.Done:
		}
	}()
}

func (r *Room) handleEffectExpired(slotIdx int) {
	if r.state != Active {
		return
	}
	before := r.Slots[slotIdx].Effect.Kind
	r.Slots[slotIdx].Effect.normalize(r.Now())
	if before != r.Slots[slotIdx].Effect.Kind {
		r.broadcastMatchState()
	}
}

// handleRebind swaps in the send channel of a superseding connection so
// the seat keeps receiving broadcasts after a re-login mid-match.
func (r *Room) handleRebind(slotIdx int, newSend chan []byte) {
	if r.state != Active || newSend == nil {
		return
	}
	r.Slots[slotIdx].Send = newSend
	r.sendTo(slotIdx, r.buildMatchState(slotIdx))
}

// handleDisconnect resolves a lost connection for a seated player. The
// remaining slot wins immediately unless it is already terminal.
func (r *Room) handleDisconnect(slotIdx int) {
	if r.state != Active {
		return
	}
	otherIdx := 1 - slotIdx
	if !r.Slots[otherIdx].Session.Over {
		r.finish(otherIdx, "win", "opponent_disconnected")
	} else {
		r.finish(-1, "abandoned", "opponent_disconnected")
	}
}

// finish moves the room to Finished, force-ends both sessions, cancels
// pending effect timers, reveals the secret and notifies everyone.
func (r *Room) finish(winnerIdx int, outcome, disconnectReason string) {
	r.setState(Finished)
	r.winnerIdx = winnerIdx
	r.outcome = outcome
	r.disconnectReason = disconnectReason
	if r.timersCancel != nil {
		close(r.timersCancel)
		r.timersCancel = nil
	}
	for i := range r.Slots {
		r.Slots[i].Session.ForceEnd()
		r.Slots[i].Effect = ActiveEffect{}
	}

	slog.Info("match finished", "tag", "room", "roomId", r.ID, "matchId", r.MatchID,
		"outcome", outcome, "winnerIdx", winnerIdx, "reason", disconnectReason)

	r.broadcastMatchState()
	for i := range r.Slots {
		r.sendTo(i, MatchOverMsg{
			Type:             "match_over",
			RoomID:           r.ID,
			MatchID:          r.MatchID,
			WinnerID:         r.winnerID(),
			Outcome:          outcome,
			Answer:           r.secret,
			DisconnectReason: disconnectReason,
			You:              r.resultFor(i),
		})
	}

	if r.OnFinished != nil {
		r.OnFinished(Result{
			MatchID:          r.MatchID,
			RoomID:           r.ID,
			PlayerIDs:        [2]string{r.Slots[0].UserID, r.Slots[1].UserID},
			PlayerNames:      [2]string{r.Slots[0].Name, r.Slots[1].Name},
			PlayerRounds:     [2]int{r.Slots[0].Session.Round, r.Slots[1].Session.Round},
			WinnerIdx:        winnerIdx,
			Outcome:          outcome,
			Secret:           r.secret,
			DisconnectReason: disconnectReason,
		})
	}
}

func (r *Room) winnerID() string {
	if r.winnerIdx < 0 {
		return ""
	}
	return r.Slots[r.winnerIdx].UserID
}

func (r *Room) resultFor(slotIdx int) string {
	switch {
	case r.winnerIdx < 0:
		return "draw"
	case r.winnerIdx == slotIdx:
		return "win"
	default:
		return "lose"
	}
}

// buildMatchState returns the match view for one slot. The secret never
// leaves the server before the room is Finished, not even for a slot
// whose own board is already terminal.
func (r *Room) buildMatchState(slotIdx int) MatchStateMsg {
	now := r.Now()
	slot := r.Slots[slotIdx]
	other := r.Slots[1-slotIdx]

	you := slot.Session.Snapshot()
	if r.state != Finished {
		you.Answer = ""
	}

	return MatchStateMsg{
		Type:    "match_state",
		RoomID:  r.ID,
		MatchID: r.MatchID,
		State:   r.state.String(),
		You:     you,
		Opponent: OpponentView{
			UserID: other.UserID,
			Name:   other.Name,
			Round:  other.Session.Round,
			Over:   other.Session.Over,
			Won:    other.Session.Won,
		},
		YourEffect:     slot.Effect.View(now),
		OpponentEffect: other.Effect.View(now),
		SpellsUsed:     slot.SpellsUsed,
	}
}

func (r *Room) broadcastMatchState() {
	for i := range r.Slots {
		r.sendTo(i, r.buildMatchState(i))
	}
}

func (r *Room) broadcast(msg any) {
	for i := range r.Slots {
		r.sendTo(i, msg)
	}
}

func (r *Room) sendTo(slotIdx int, msg any) {
	slot := r.Slots[slotIdx]
	if slot == nil || slot.Send == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling room message", "tag", "room", "err", err)
		return
	}
	wsutil.SafeSend(slot.Send, data)
}
