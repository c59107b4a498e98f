package game

import (
	"errors"
	"testing"

	"wordle-arena-server/gameerrors"
	"wordle-arena-server/words"
)

func testDict(t *testing.T, ws ...string) *words.List {
	t.Helper()
	dict, err := words.FromWords(ws)
	if err != nil {
		t.Fatalf("building dictionary: %v", err)
	}
	return dict
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("classic"); err != nil || m != Classic {
		t.Errorf("classic: got %v, %v", m, err)
	}
	if m, err := ParseMode("adversarial"); err != nil || m != Adversarial {
		t.Errorf("adversarial: got %v, %v", m, err)
	}
	if _, err := ParseMode("multiplayer"); !errors.Is(err, gameerrors.ErrInvalidMode) {
		t.Errorf("multiplayer should not be client-creatable, got %v", err)
	}
	if _, err := ParseMode("bogus"); !errors.Is(err, gameerrors.ErrInvalidMode) {
		t.Errorf("bogus: expected ErrInvalidMode, got %v", err)
	}
}

func TestClassicSession_WinFlow(t *testing.T) {
	dict := testDict(t, "ALLOW", "ALLOY", "BRAIN")
	s := NewSession(Classic, dict, "ALLOW", 6)

	p, err := s.SubmitGuess("ALLOY")
	if err != nil {
		t.Fatalf("first guess: %v", err)
	}
	if p.Key() != "HHHHM" {
		t.Errorf("first guess pattern = %s, want HHHHM", p.Key())
	}
	if s.Over {
		t.Fatal("game ended after a non-winning guess")
	}
	if got := s.Secret(); got != "" {
		t.Errorf("secret leaked before the game ended: %q", got)
	}

	p, err = s.SubmitGuess("allow") // lowercase input is normalized
	if err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if !p.AllHit() || !s.Won || !s.Over {
		t.Errorf("expected a win; allHit=%v won=%v over=%v", p.AllHit(), s.Won, s.Over)
	}
	if s.Secret() != "ALLOW" {
		t.Errorf("Secret() = %q after win", s.Secret())
	}
}

func TestClassicSession_RejectsInvalidGuesses(t *testing.T) {
	dict := testDict(t, "ALLOW", "BRAIN")
	s := NewSession(Classic, dict, "ALLOW", 6)

	for _, raw := range []string{"ZZZZZ", "CAT", "ALLOWS", "AB CD", ""} {
		if _, err := s.SubmitGuess(raw); !errors.Is(err, gameerrors.ErrInvalidGuess) {
			t.Errorf("guess %q: expected ErrInvalidGuess, got %v", raw, err)
		}
	}
	if s.Round != 0 {
		t.Errorf("rejected guesses consumed %d rounds", s.Round)
	}
}

func TestClassicSession_RoundCapLoses(t *testing.T) {
	dict := testDict(t, "ALLOW", "BRAIN")
	s := NewSession(Classic, dict, "ALLOW", 1)

	if _, err := s.SubmitGuess("BRAIN"); err != nil {
		t.Fatal(err)
	}
	if !s.Over || s.Won {
		t.Errorf("expected a loss at the round cap; over=%v won=%v", s.Over, s.Won)
	}
	if _, err := s.SubmitGuess("ALLOW"); !errors.Is(err, gameerrors.ErrGameAlreadyOver) {
		t.Errorf("guess after game over: expected ErrGameAlreadyOver, got %v", err)
	}
	if s.Secret() != "ALLOW" {
		t.Errorf("losing player should still see the answer, got %q", s.Secret())
	}
}

func TestSession_KeyboardStatusOnlyUpgrades(t *testing.T) {
	dict := testDict(t, "ALLOW", "LLAMA", "BRAIN", "ALBUM")
	s := NewSession(Classic, dict, "ALLOW", 6)

	// LLAMA vs ALLOW: L is PRESENT at one position and HIT at another;
	// the keyboard keeps the strongest verdict.
	if _, err := s.SubmitGuess("LLAMA"); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Letters["L"] != "HIT" {
		t.Errorf("L = %s, want HIT", snap.Letters["L"])
	}
	// The second A scored MISS but the first scored PRESENT.
	if snap.Letters["A"] != "PRESENT" {
		t.Errorf("A = %s, want PRESENT", snap.Letters["A"])
	}

	// Later guesses never downgrade a letter's status.
	if _, err := s.SubmitGuess("BRAIN"); err != nil {
		t.Fatal(err)
	}
	snap = s.Snapshot()
	if snap.Letters["A"] != "PRESENT" {
		t.Errorf("A downgraded to %s", snap.Letters["A"])
	}
	if snap.Letters["B"] != "MISS" {
		t.Errorf("B = %s, want MISS", snap.Letters["B"])
	}
	if snap.Letters["Z"] != "UNUSED" {
		t.Errorf("Z = %s, want UNUSED", snap.Letters["Z"])
	}
}

func TestAdversarialSession_StallsThenForcedWin(t *testing.T) {
	dict := testDict(t, "ABOUT", "ALLOY", "ALLOW", "BRAIN")
	s := NewSession(Adversarial, dict, "", 6)

	if s.MaxRounds != 0 {
		t.Errorf("adversarial sessions are uncapped, MaxRounds = %d", s.MaxRounds)
	}

	p, err := s.SubmitGuess("ALLOY")
	if err != nil {
		t.Fatal(err)
	}
	if p.AllHit() {
		t.Fatal("adversary conceded with multiple candidates left")
	}
	if s.CandidatesLeft() != 1 {
		t.Fatalf("candidates left = %d, want 1", s.CandidatesLeft())
	}
	if got := s.Secret(); got != "" {
		t.Errorf("secret revealed before the game ended: %q", got)
	}

	// The tie-break kept BRAIN alive; guessing it forces the win.
	p, err = s.SubmitGuess("BRAIN")
	if err != nil {
		t.Fatal(err)
	}
	if !p.AllHit() || !s.Won {
		t.Errorf("expected forced win; allHit=%v won=%v", p.AllHit(), s.Won)
	}
	if s.Secret() != "BRAIN" {
		t.Errorf("Secret() = %q, want BRAIN", s.Secret())
	}
}

func TestAdversarialSnapshot_MaxRoundsTracksBoard(t *testing.T) {
	dict := testDict(t, "ABOUT", "ALLOY", "ALLOW", "BRAIN")
	s := NewSession(Adversarial, dict, "", 6)

	if got := s.Snapshot().MaxRounds; got != 1 {
		t.Errorf("fresh adversarial snapshot MaxRounds = %d, want 1", got)
	}
	if _, err := s.SubmitGuess("ABOUT"); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().MaxRounds; got != 2 {
		t.Errorf("after one guess MaxRounds = %d, want 2", got)
	}
}

func TestSubmitPlayed_ScoresSubstitutedWord(t *testing.T) {
	dict := testDict(t, "ALLOW", "BRAIN")
	s := NewSession(MultiplayerSlot, dict, "ALLOW", 6)

	// Raw input is validated against the dictionary, but the substituted
	// word is what lands on the board.
	p, err := s.SubmitPlayed("ALLOW", "QQQQQ")
	if err != nil {
		t.Fatal(err)
	}
	if p.AllHit() {
		t.Error("substituted word should not have won")
	}
	if s.Guesses[0] != "QQQQQ" {
		t.Errorf("board shows %q, want the substituted word", s.Guesses[0])
	}

	// Invalid raw input is rejected before substitution applies.
	if _, err := s.SubmitPlayed("ZZZZZ", "ALLOW"); !errors.Is(err, gameerrors.ErrInvalidGuess) {
		t.Errorf("expected ErrInvalidGuess, got %v", err)
	}
}

func TestForceEnd(t *testing.T) {
	dict := testDict(t, "ALLOW", "BRAIN")
	s := NewSession(MultiplayerSlot, dict, "ALLOW", 6)

	s.ForceEnd()
	if !s.Over || s.Won {
		t.Errorf("ForceEnd: over=%v won=%v", s.Over, s.Won)
	}
	if s.Secret() != "ALLOW" {
		t.Errorf("Secret() = %q after forced end", s.Secret())
	}
}

func TestSnapshot_HidesAnswerWhileLive(t *testing.T) {
	dict := testDict(t, "ALLOW", "BRAIN")
	s := NewSession(Classic, dict, "ALLOW", 6)

	if snap := s.Snapshot(); snap.Answer != "" {
		t.Errorf("live snapshot leaked answer %q", snap.Answer)
	}
	s.ForceEnd()
	if snap := s.Snapshot(); snap.Answer != "ALLOW" {
		t.Errorf("terminal snapshot answer = %q", snap.Answer)
	}
}
