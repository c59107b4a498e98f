package game

// Score evaluates guess against secret with the classic two-pass
// algorithm. Pass 1 marks exact positions as Hit and counts the
// unconsumed secret letters; pass 2 marks Present while a counted
// occurrence remains, else Miss. This keeps duplicate letters honest:
// per letter, Hits+Presents never exceed its occurrences in secret.
//
// Both inputs must already be normalized to words.Length uppercase
// letters; Score itself is pure and cannot fail.
func Score(guess, secret string) FeedbackPattern {
	n := len(guess)
	pattern := make(FeedbackPattern, n)

	var remaining [26]int
	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			pattern[i] = Hit
		} else {
			remaining[secret[i]-'A']++
		}
	}

	for i := 0; i < n; i++ {
		if pattern[i] == Hit {
			continue
		}
		j := guess[i] - 'A'
		if remaining[j] > 0 {
			pattern[i] = Present
			remaining[j]--
		} else {
			pattern[i] = Miss
		}
	}
	return pattern
}
