package game

// ChooseFeedback picks the feedback an adversarial session gives for
// guess: the partition bucket that keeps the most candidates alive.
// A winning (all-Hit) bucket is only chosen when it is the sole bucket
// left, at which point the guesser has forced the confirmation.
//
// Ties on bucket size break deterministically: more Miss verdicts win,
// then the lexicographically smaller pattern key. The returned set is
// the chosen bucket and is never empty.
func ChooseFeedback(guess string, cs *CandidateSet) (FeedbackPattern, *CandidateSet) {
	buckets := cs.Partition(guess)

	pool := buckets[:0:0]
	for _, b := range buckets {
		if !b.Pattern.AllHit() {
			pool = append(pool, b)
		}
	}
	if len(pool) == 0 {
		// Only the confirmation bucket remains: forced win.
		pool = buckets
	}

	best := pool[0]
	for _, b := range pool[1:] {
		if better(b, best) {
			best = b
		}
	}
	return best.Pattern, &CandidateSet{words: best.Words}
}

// better reports whether bucket a should be preferred over b.
func better(a, b Bucket) bool {
	if len(a.Words) != len(b.Words) {
		return len(a.Words) > len(b.Words)
	}
	am, bm := a.Pattern.missCount(), b.Pattern.missCount()
	if am != bm {
		return am > bm
	}
	return a.Pattern.Key() < b.Pattern.Key()
}
