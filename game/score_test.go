package game

import (
	"strings"
	"testing"
)

func TestScore_ExactMatchIsAllHit(t *testing.T) {
	p := Score("BRAIN", "BRAIN")
	if !p.AllHit() {
		t.Errorf("expected all HIT, got %v", p.Strings())
	}
}

func TestScore_Patterns(t *testing.T) {
	tests := []struct {
		guess, secret string
		want          string
	}{
		{"ALLOY", "ALLOW", "HHHHM"},
		{"ALLOW", "ALLOY", "HHHHM"},
		{"SPEED", "ERASE", "PMPPM"},
		{"LLAMA", "ALLOW", "PHPMM"},
		{"ABOUT", "BRAIN", "PPMMM"},
		{"QUEST", "BRAIN", "MMMMM"},
	}
	for _, tt := range tests {
		got := Score(tt.guess, tt.secret).Key()
		if got != tt.want {
			t.Errorf("Score(%q, %q) = %s, want %s", tt.guess, tt.secret, got, tt.want)
		}
	}
}

func TestScore_DuplicateLettersConsumeSecretCounts(t *testing.T) {
	// Secret has one E; only the first unmatched E in the guess may be
	// PRESENT, the second must be MISS.
	p := Score("EEXYZ", "ABCDE")
	if p[0] != Present {
		t.Errorf("first E: expected PRESENT, got %s", p[0])
	}
	if p[1] != Miss {
		t.Errorf("second E: expected MISS, got %s", p[1])
	}
}

func TestScore_HitsClaimLettersBeforePresents(t *testing.T) {
	// The A at position 4 is a HIT and must consume the secret's only A,
	// leaving the A at position 0 with MISS.
	p := Score("AXXXA", "BXXXA")
	if p[4] != Hit {
		t.Errorf("position 4: expected HIT, got %s", p[4])
	}
	if p[0] != Miss {
		t.Errorf("position 0: expected MISS, got %s", p[0])
	}
}

func TestFeedbackPattern_Key(t *testing.T) {
	p := FeedbackPattern{Hit, Present, Miss, Miss, Hit}
	if got := p.Key(); got != "HPMMH" {
		t.Errorf("Key() = %s, want HPMMH", got)
	}
}

func TestFeedbackPattern_Strings(t *testing.T) {
	p := FeedbackPattern{Hit, Present, Miss}
	got := strings.Join(p.Strings(), ",")
	if got != "HIT,PRESENT,MISS" {
		t.Errorf("Strings() = %s", got)
	}
}
