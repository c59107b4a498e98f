package game

import "sort"

// CandidateSet is the set of words still consistent with all feedback
// given so far in an adversarial session. Each session owns a private
// copy; sets only ever shrink.
type CandidateSet struct {
	words []string
}

// NewCandidateSet copies dict into a fresh candidate set.
func NewCandidateSet(dict []string) *CandidateSet {
	ws := make([]string, len(dict))
	copy(ws, dict)
	return &CandidateSet{words: ws}
}

// Len returns the number of remaining candidates.
func (cs *CandidateSet) Len() int {
	return len(cs.words)
}

// Sole returns the remaining candidate when exactly one is left.
func (cs *CandidateSet) Sole() (string, bool) {
	if len(cs.words) == 1 {
		return cs.words[0], true
	}
	return "", false
}

// Words returns a copy of the remaining candidates.
func (cs *CandidateSet) Words() []string {
	out := make([]string, len(cs.words))
	copy(out, cs.words)
	return out
}

// Bucket is one partition cell: the feedback pattern and every
// candidate that would produce it as the hypothetical secret.
type Bucket struct {
	Pattern FeedbackPattern
	Words   []string
}

// Partition groups the candidates by the pattern each would yield for
// guess. Buckets are returned sorted by pattern key so iteration order
// is reproducible.
func (cs *CandidateSet) Partition(guess string) []Bucket {
	byKey := make(map[string]*Bucket)
	for _, w := range cs.words {
		pattern := Score(guess, w)
		key := pattern.Key()
		b, ok := byKey[key]
		if !ok {
			b = &Bucket{Pattern: pattern}
			byKey[key] = b
		}
		b.Words = append(b.Words, w)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, *byKey[k])
	}
	return buckets
}
