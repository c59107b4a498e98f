package lobby

import (
	"errors"
	"testing"
	"time"

	"wordle-arena-server/config"
	"wordle-arena-server/gameerrors"
	"wordle-arena-server/room"
	"wordle-arena-server/words"
)

type fakeNotifier struct {
	msgs chan any
}

func (n *fakeNotifier) BroadcastJSON(msg any) {
	select {
	case n.msgs <- msg:
	default:
	}
}

func testLobby(t *testing.T) *Lobby {
	t.Helper()
	dict, err := words.FromWords([]string{"ALLOW", "ALLOY", "BRAIN", "ABOUT", "QUEST"})
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Defaults()
	cfg.LobbyRoomCount = 2
	l := New(cfg, dict, stubSpells{})
	l.Notify = &fakeNotifier{msgs: make(chan any, 16)}
	return l
}

type stubSpells struct{}

func (stubSpells) Get(id string) (room.SpellDef, bool) { return room.SpellDef{}, false }
func (stubSpells) All() []room.SpellDef                { return nil }

func TestLobby_FixedRoomSet(t *testing.T) {
	l := testLobby(t)
	snap := l.Snapshot()
	if len(snap.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2", len(snap.Rooms))
	}
	if snap.Rooms[0].ID != "room-1" || snap.Rooms[1].ID != "room-2" {
		t.Errorf("room ids = %s, %s", snap.Rooms[0].ID, snap.Rooms[1].ID)
	}
	for _, r := range snap.Rooms {
		if r.State != "waiting" || r.MaxPlayers != 2 {
			t.Errorf("room %s: state=%s maxPlayers=%d", r.ID, r.State, r.MaxPlayers)
		}
	}
}

func TestLobby_JoinErrors(t *testing.T) {
	l := testLobby(t)
	send := make(chan []byte, 64)

	if err := l.Join("u0", "Zero", "room-9", send); !errors.Is(err, gameerrors.ErrRoomNotFound) {
		t.Errorf("unknown room: expected ErrRoomNotFound, got %v", err)
	}
	if err := l.Join("u0", "Zero", "room-1", send); err != nil {
		t.Fatal(err)
	}
	if err := l.Join("u0", "Zero", "room-2", send); !errors.Is(err, gameerrors.ErrAlreadyInRoom) {
		t.Errorf("double join: expected ErrAlreadyInRoom, got %v", err)
	}
}

func TestLobby_SecondJoinStartsMatch(t *testing.T) {
	l := testLobby(t)
	send0 := make(chan []byte, 64)
	send1 := make(chan []byte, 64)

	if err := l.Join("u0", "Zero", "room-1", send0); err != nil {
		t.Fatal(err)
	}
	if l.ActiveMatches() != 0 {
		t.Error("match started with one player")
	}
	if err := l.Join("u1", "One", "room-1", send1); err != nil {
		t.Fatal(err)
	}
	if l.ActiveMatches() != 1 {
		t.Error("match did not start when the room filled")
	}

	r, idx, ok := l.RoomFor("u1")
	if !ok || idx != 1 || r.ID != "room-1" {
		t.Errorf("RoomFor(u1) = %v, %d, %v", r, idx, ok)
	}

	// A full room rejects a third party.
	if err := l.Join("u2", "Two", "room-1", make(chan []byte, 1)); !errors.Is(err, gameerrors.ErrRoomFull) {
		t.Errorf("third join: expected ErrRoomFull, got %v", err)
	}
}

func TestLobby_LeaveWaitingRoom(t *testing.T) {
	l := testLobby(t)
	if err := l.Join("u0", "Zero", "room-1", make(chan []byte, 64)); err != nil {
		t.Fatal(err)
	}
	if err := l.Leave("u0"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := l.RoomFor("u0"); ok {
		t.Error("u0 still resolves to a room after leaving")
	}
	// The named room survives the abandon via recycling.
	snap := l.Snapshot()
	if snap.Rooms[0].State != "waiting" || len(snap.Rooms[0].Players) != 0 {
		t.Errorf("room-1 = %+v, want empty waiting room", snap.Rooms[0])
	}
	if err := l.Leave("u0"); !errors.Is(err, gameerrors.ErrNotInRoom) {
		t.Errorf("double leave: expected ErrNotInRoom, got %v", err)
	}
}

func TestLobby_LeaveActiveMatchForfeits(t *testing.T) {
	l := testLobby(t)
	results := make(chan room.Result, 1)
	l.OnMatchFinished = func(res room.Result) { results <- res }

	send0 := make(chan []byte, 64)
	send1 := make(chan []byte, 64)
	if err := l.Join("u0", "Zero", "room-1", send0); err != nil {
		t.Fatal(err)
	}
	if err := l.Join("u1", "One", "room-1", send1); err != nil {
		t.Fatal(err)
	}

	if err := l.Leave("u1"); err != nil {
		t.Fatal(err)
	}

	select {
	case res := <-results:
		if res.Outcome != "win" || res.WinnerIdx != 0 {
			t.Errorf("result = %+v, want forfeit win for u0", res)
		}
		if res.DisconnectReason != "opponent_disconnected" {
			t.Errorf("reason = %q", res.DisconnectReason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("match never finished after forfeit")
	}
}

func TestLobby_RoomRecyclesAfterMatch(t *testing.T) {
	l := testLobby(t)
	results := make(chan room.Result, 1)
	l.OnMatchFinished = func(res room.Result) { results <- res }

	if err := l.Join("u0", "Zero", "room-1", make(chan []byte, 64)); err != nil {
		t.Fatal(err)
	}
	if err := l.Join("u1", "One", "room-1", make(chan []byte, 64)); err != nil {
		t.Fatal(err)
	}
	if err := l.Leave("u0"); err != nil {
		t.Fatal(err)
	}
	<-results

	// Both seats are free and the room is joinable again.
	if _, _, ok := l.RoomFor("u1"); ok {
		t.Error("u1 still seated after the match finished")
	}
	if err := l.Join("u2", "Two", "room-1", make(chan []byte, 64)); err != nil {
		t.Errorf("rejoining recycled room: %v", err)
	}
}

func TestLobby_SnapshotWhileMatchFinishes(t *testing.T) {
	l := testLobby(t)
	done := make(chan room.Result, 1)
	l.OnMatchFinished = func(res room.Result) { done <- res }

	if err := l.Join("u0", "Zero", "room-1", make(chan []byte, 64)); err != nil {
		t.Fatal(err)
	}
	if err := l.Join("u1", "One", "room-1", make(chan []byte, 64)); err != nil {
		t.Fatal(err)
	}

	// Hammer the read paths while the room goroutine ends the match.
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				l.Snapshot()
				l.ActiveMatches()
			}
		}
	}()

	if err := l.Leave("u1"); err != nil {
		t.Fatal(err)
	}
	<-done
	close(stop)

	if l.ActiveMatches() != 0 {
		t.Error("finished match still counted active")
	}
}

func TestLobby_HandleDisconnectIsQuietForStrangers(t *testing.T) {
	l := testLobby(t)
	// Must not panic or error for an identity that never joined.
	l.HandleDisconnect("ghost")
}
