package game

import (
	"time"

	"github.com/google/uuid"

	"wordle-arena-server/gameerrors"
	"wordle-arena-server/words"
)

// Mode is the closed set of game variants a session can run.
type Mode int

const (
	Classic Mode = iota
	Adversarial
	MultiplayerSlot
)

// String returns the protocol string for a Mode.
func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case Adversarial:
		return "adversarial"
	case MultiplayerSlot:
		return "multiplayer"
	default:
		return "unknown"
	}
}

// ParseMode maps a client mode string to a Mode. MultiplayerSlot is not
// client-creatable; those sessions are made by the room.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "classic":
		return Classic, nil
	case "adversarial":
		return Adversarial, nil
	default:
		return 0, gameerrors.ErrInvalidMode
	}
}

// GameSession is one player's board: guesses, feedback, aggregated
// keyboard status and terminal outcome. It is not internally locked;
// the solo Manager serializes access with its mutex and rooms serialize
// through their action loop.
type GameSession struct {
	ID        string
	Mode      Mode
	Round     int
	MaxRounds int // 0 = uncapped (adversarial)
	Guesses   []string
	Results   []FeedbackPattern
	Over      bool
	Won       bool

	CreatedAt  time.Time
	LastActive time.Time

	secret     string // empty in adversarial until the set is a singleton
	candidates *CandidateSet
	letters    [26]LetterStatus
	dict       *words.List
}

// NewSession creates a session. For Classic and MultiplayerSlot an
// empty secret means "pick one at random"; Adversarial ignores secret
// and starts from the full dictionary.
func NewSession(mode Mode, dict *words.List, secret string, maxRounds int) *GameSession {
	now := time.Now()
	s := &GameSession{
		ID:         uuid.NewString(),
		Mode:       mode,
		MaxRounds:  maxRounds,
		CreatedAt:  now,
		LastActive: now,
		dict:       dict,
	}
	if mode == Adversarial {
		s.MaxRounds = 0
		s.candidates = NewCandidateSet(dict.Words())
		return s
	}
	if secret == "" {
		secret = dict.Random()
	}
	s.secret = secret
	return s
}

// Validate normalizes raw and checks it against the session rules
// without mutating anything.
func (s *GameSession) Validate(raw string) (string, error) {
	if s.Over {
		return "", gameerrors.ErrGameAlreadyOver
	}
	word := words.Normalize(raw)
	if !words.IsWordShape(word) || !s.dict.Contains(word) {
		return "", gameerrors.ErrInvalidGuess
	}
	return word, nil
}

// SubmitGuess validates and scores one guess.
func (s *GameSession) SubmitGuess(raw string) (FeedbackPattern, error) {
	word, err := s.Validate(raw)
	if err != nil {
		return nil, err
	}
	return s.apply(word), nil
}

// SubmitPlayed validates raw but scores played in its place. The room
// uses this to apply WRONG-spell letter substitution on the server
// side; played must already be words.Length uppercase letters.
func (s *GameSession) SubmitPlayed(raw, played string) (FeedbackPattern, error) {
	if _, err := s.Validate(raw); err != nil {
		return nil, err
	}
	return s.apply(played), nil
}

func (s *GameSession) apply(word string) FeedbackPattern {
	var pattern FeedbackPattern
	if s.Mode == Adversarial {
		pattern, s.candidates = ChooseFeedback(word, s.candidates)
		if pattern.AllHit() {
			s.secret = word
			s.Won = true
			s.Over = true
		}
	} else {
		pattern = Score(word, s.secret)
		if pattern.AllHit() {
			s.Won = true
			s.Over = true
		}
	}

	s.Round++
	s.Guesses = append(s.Guesses, word)
	s.Results = append(s.Results, pattern)
	s.LastActive = time.Now()

	for i, v := range pattern {
		idx := word[i] - 'A'
		if st := statusFor(v); st > s.letters[idx] {
			s.letters[idx] = st
		}
	}

	if !s.Over && s.MaxRounds > 0 && s.Round >= s.MaxRounds {
		s.Over = true
	}
	return pattern
}

// ForceEnd terminates the session without a win, e.g. when the
// opponent has already won or the player forfeits. No-op if terminal.
func (s *GameSession) ForceEnd() {
	if !s.Over {
		s.Over = true
	}
}

// Secret returns the answer once the session is terminal, else "".
// In adversarial mode there is no answer to reveal until the candidate
// set collapsed to the guessed word.
func (s *GameSession) Secret() string {
	if !s.Over {
		return ""
	}
	if s.Mode == Adversarial && s.secret == "" {
		if sole, ok := s.candidates.Sole(); ok {
			return sole
		}
		return ""
	}
	return s.secret
}

// CandidatesLeft returns the adversarial candidate count (0 otherwise).
func (s *GameSession) CandidatesLeft() int {
	if s.candidates == nil {
		return 0
	}
	return s.candidates.Len()
}

// Snapshot is the client-facing view of a session. Answer is set only
// when the session is terminal.
type Snapshot struct {
	GameID    string            `json:"gameId"`
	Mode      string            `json:"mode"`
	Round     int               `json:"round"`
	MaxRounds int               `json:"maxRounds"`
	Over      bool              `json:"over"`
	Won       bool              `json:"won"`
	Guesses   []string          `json:"guesses"`
	Results   [][]string        `json:"results"`
	Letters   map[string]string `json:"letters"`
	Answer    string            `json:"answer,omitempty"`
}

// Snapshot builds the view. Side-effect free.
func (s *GameSession) Snapshot() Snapshot {
	results := make([][]string, len(s.Results))
	for i, p := range s.Results {
		results[i] = p.Strings()
	}
	letters := make(map[string]string, 26)
	for i, st := range s.letters {
		letters[string(rune('A'+i))] = st.String()
	}
	maxRounds := s.MaxRounds
	if s.Mode == Adversarial && !s.Over {
		// The board always has room for one more row.
		maxRounds = s.Round + 1
	}
	guesses := s.Guesses
	if guesses == nil {
		guesses = []string{}
	}
	return Snapshot{
		GameID:    s.ID,
		Mode:      s.Mode.String(),
		Round:     s.Round,
		MaxRounds: maxRounds,
		Over:      s.Over,
		Won:       s.Won,
		Guesses:   guesses,
		Results:   results,
		Letters:   letters,
		Answer:    s.Secret(),
	}
}
