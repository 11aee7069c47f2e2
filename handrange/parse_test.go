package handrange

import (
	"testing"

	"github.com/lox/holdem-equity/card"
)

func mustParse(t *testing.T, s string) *HandRange {
	t.Helper()
	r, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return r
}

func TestComboCounts(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"random", 1326},
		{"33", 6},
		{"AKs", 4},
		{"AKo", 12},
		{"AK", 16},
		{"22+", 78},
		{"A2s+", 48},
	}
	for _, c := range cases {
		r := mustParse(t, c.text)
		if got := r.Size(); got != c.want {
			t.Errorf("Parse(%q).Size() = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestParseTwoRanges(t *testing.T) {
	r := mustParse(t, "22,a2s+")
	if r.Size() != 54 {
		t.Fatalf("Size() = %d, want 54", r.Size())
	}
}

func TestParseOverlappingRangesDeduped(t *testing.T) {
	r := mustParse(t, "a2s+,a4s+")
	if r.Size() != 48 {
		t.Fatalf("Size() = %d, want 48", r.Size())
	}
}

func TestParseExplicitAndWeights(t *testing.T) {
	r := mustParse(t, "as2h@50,AA@25,KK@100")
	if r.Size() != 13 {
		t.Fatalf("Size() = %d, want 13", r.Size())
	}
}

func TestParseInvalidReturnsError(t *testing.T) {
	if _, err := Parse("xyz"); err == nil {
		t.Fatalf("expected error parsing garbage range string")
	}
}

func TestRemoveConflictingCombos(t *testing.T) {
	r := mustParse(t, "AA")
	board := card.Of(card.New(card.Ace, card.Spades))
	r.RemoveConflictingCombos(board)
	for _, c := range r.Combos {
		if c.Mask().Overlaps(board) {
			t.Fatalf("combo %v survives conflicting with board", c)
		}
	}
	if r.Size() != 3 {
		t.Fatalf("Size() after pruning = %d, want 3", r.Size())
	}
}

func TestComboCanonicalOrdering(t *testing.T) {
	c1, ok := NewCombo(card.New(card.King, card.Hearts), card.New(card.Ace, card.Spades), 100)
	if !ok {
		t.Fatalf("NewCombo failed")
	}
	if c1.C1.Rank() != card.Ace {
		t.Fatalf("higher rank card should be canonicalized first, got %v", c1.C1)
	}
}

func TestNewComboRejectsIdenticalCards(t *testing.T) {
	if _, ok := NewCombo(card.New(card.Ace, card.Spades), card.New(card.Ace, card.Spades), 100); ok {
		t.Fatalf("expected NewCombo to reject identical cards")
	}
}
