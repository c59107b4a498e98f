package game

// Verdict is the per-letter result of scoring one guess position.
type Verdict int

const (
	Miss Verdict = iota
	Present
	Hit
)

// String returns the protocol string for a Verdict.
func (v Verdict) String() string {
	switch v {
	case Hit:
		return "HIT"
	case Present:
		return "PRESENT"
	case Miss:
		return "MISS"
	default:
		return "unknown"
	}
}

// FeedbackPattern is the ordered verdict sequence for one guess,
// length words.Length.
type FeedbackPattern []Verdict

// AllHit reports whether every position is a Hit (a winning guess).
func (p FeedbackPattern) AllHit() bool {
	for _, v := range p {
		if v != Hit {
			return false
		}
	}
	return true
}

// Key returns a compact deterministic encoding ('H', 'P', 'M' per
// position) used for partition bucketing and tie-breaking.
func (p FeedbackPattern) Key() string {
	buf := make([]byte, len(p))
	for i, v := range p {
		switch v {
		case Hit:
			buf[i] = 'H'
		case Present:
			buf[i] = 'P'
		default:
			buf[i] = 'M'
		}
	}
	return string(buf)
}

// Strings returns the verdicts as protocol strings, one per position.
func (p FeedbackPattern) Strings() []string {
	out := make([]string, len(p))
	for i, v := range p {
		out[i] = v.String()
	}
	return out
}

func (p FeedbackPattern) missCount() int {
	n := 0
	for _, v := range p {
		if v == Miss {
			n++
		}
	}
	return n
}

// LetterStatus is the aggregated keyboard status for one letter across
// all guesses in a session. Ordering matters: a letter's status only
// ever upgrades (Unused < LetterMiss < LetterPresent < LetterHit).
type LetterStatus int

const (
	Unused LetterStatus = iota
	LetterMiss
	LetterPresent
	LetterHit
)

// String returns the protocol string for a LetterStatus.
func (s LetterStatus) String() string {
	switch s {
	case LetterHit:
		return "HIT"
	case LetterPresent:
		return "PRESENT"
	case LetterMiss:
		return "MISS"
	default:
		return "UNUSED"
	}
}

// statusFor maps a scoring verdict to its keyboard status.
func statusFor(v Verdict) LetterStatus {
	switch v {
	case Hit:
		return LetterHit
	case Present:
		return LetterPresent
	default:
		return LetterMiss
	}
}
