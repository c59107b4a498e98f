package game

import "testing"

func TestPartition_GroupsByPattern(t *testing.T) {
	cs := NewCandidateSet([]string{"ABOUT", "ALLOY", "ALLOW", "BRAIN"})

	buckets := cs.Partition("ALLOY")

	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}
	// Sorted by pattern key.
	wantKeys := []string{"HHHHH", "HHHHM", "HMMPM", "PMMMM"}
	for i, b := range buckets {
		if b.Pattern.Key() != wantKeys[i] {
			t.Errorf("bucket %d: key = %s, want %s", i, b.Pattern.Key(), wantKeys[i])
		}
	}
}

func TestPartition_BucketsCoverAllCandidates(t *testing.T) {
	words := []string{"ABOUT", "ALLOY", "ALLOW", "BRAIN", "QUEST", "ERASE"}
	cs := NewCandidateSet(words)

	total := 0
	for _, b := range cs.Partition("SPEED") {
		total += len(b.Words)
	}
	if total != len(words) {
		t.Errorf("buckets cover %d words, want %d", total, len(words))
	}
}

func TestNewCandidateSet_CopiesInput(t *testing.T) {
	src := []string{"ABOUT", "BRAIN"}
	cs := NewCandidateSet(src)
	src[0] = "MUTATED"
	if cs.Words()[0] != "ABOUT" {
		t.Error("candidate set shares backing storage with the input slice")
	}
}

func TestSole(t *testing.T) {
	cs := NewCandidateSet([]string{"BRAIN"})
	w, ok := cs.Sole()
	if !ok || w != "BRAIN" {
		t.Errorf("Sole() = %q, %v", w, ok)
	}

	cs = NewCandidateSet([]string{"BRAIN", "ABOUT"})
	if _, ok := cs.Sole(); ok {
		t.Error("Sole() should be false with two candidates")
	}
}

func TestChooseFeedback_AvoidsWinningBucket(t *testing.T) {
	// All buckets have size 1; the tie breaks toward the most MISS
	// verdicts, which is BRAIN's pattern. The all-HIT bucket (ALLOY
	// itself) must never be chosen while others remain.
	cs := NewCandidateSet([]string{"ABOUT", "ALLOY", "ALLOW", "BRAIN"})

	pattern, next := ChooseFeedback("ALLOY", cs)

	if pattern.AllHit() {
		t.Fatal("picked the winning bucket with non-winning buckets available")
	}
	if pattern.Key() != "PMMMM" {
		t.Errorf("pattern = %s, want PMMMM", pattern.Key())
	}
	if next.Len() != 1 || next.Words()[0] != "BRAIN" {
		t.Errorf("surviving candidates = %v, want [BRAIN]", next.Words())
	}
}

func TestChooseFeedback_KeepsLargestBucket(t *testing.T) {
	// ALLOY and ALLOW both yield HMPMM for guess ABOUT; that bucket of
	// two outweighs BRAIN's singleton.
	cs := NewCandidateSet([]string{"ALLOY", "ALLOW", "BRAIN"})

	pattern, next := ChooseFeedback("ABOUT", cs)

	if next.Len() != 2 {
		t.Fatalf("surviving candidates = %v, want two", next.Words())
	}
	if pattern.AllHit() {
		t.Error("largest bucket should not be a winning pattern here")
	}
}

func TestChooseFeedback_ForcedWin(t *testing.T) {
	cs := NewCandidateSet([]string{"BRAIN"})

	pattern, next := ChooseFeedback("BRAIN", cs)

	if !pattern.AllHit() {
		t.Errorf("expected forced all-HIT, got %s", pattern.Key())
	}
	if next.Len() != 1 {
		t.Errorf("candidate set should stay at the confirmed word")
	}
}

func TestChooseFeedback_Deterministic(t *testing.T) {
	words := []string{"ABOUT", "ALLOY", "ALLOW", "BRAIN", "QUEST", "ERASE", "SPEED"}
	first, _ := ChooseFeedback("ALPHA", NewCandidateSet(words))
	for i := 0; i < 10; i++ {
		p, _ := ChooseFeedback("ALPHA", NewCandidateSet(words))
		if p.Key() != first.Key() {
			t.Fatalf("run %d: pattern %s != %s", i, p.Key(), first.Key())
		}
	}
}

func TestChooseFeedback_NeverGrows(t *testing.T) {
	cs := NewCandidateSet([]string{"ABOUT", "ALLOY", "ALLOW", "BRAIN", "QUEST"})
	before := cs.Len()
	_, next := ChooseFeedback("ERASE", cs)
	if next.Len() > before {
		t.Errorf("candidate set grew from %d to %d", before, next.Len())
	}
	if next.Len() == 0 {
		t.Error("candidate set must never be empty")
	}
}
