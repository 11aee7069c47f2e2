package card

import "testing"

func TestParseAndString(t *testing.T) {
	for _, s := range []string{"2s", "Th", "Ad", "Kc"} {
		c, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := c.String(); got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	}
}

func TestEncoding(t *testing.T) {
	c := New(Ace, Clubs)
	if int(c) != 4*12+3 {
		t.Fatalf("card = %d, want %d", c, 4*12+3)
	}
	if c.Rank() != Ace || c.Suit() != Clubs {
		t.Fatalf("rank/suit round trip failed: %v/%v", c.Rank(), c.Suit())
	}
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards("5s6s7s")
	if err != nil {
		t.Fatalf("ParseCards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("len = %d, want 3", len(cards))
	}
}

func TestMask(t *testing.T) {
	a := New(Ace, Spades)
	k := New(King, Hearts)
	m := Of(a, k)
	if !m.Has(a) || !m.Has(k) {
		t.Fatalf("mask missing added cards")
	}
	if m.Count() != 2 {
		t.Fatalf("count = %d, want 2", m.Count())
	}
	other := Of(New(Queen, Diamonds))
	if m.Overlaps(other) {
		t.Fatalf("disjoint masks reported overlap")
	}
	if !m.Overlaps(Of(a)) {
		t.Fatalf("shared card not detected as overlap")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("Xh"); err == nil {
		t.Fatalf("expected error for invalid rank")
	}
	if _, err := Parse("Az"); err == nil {
		t.Fatalf("expected error for invalid suit")
	}
	if _, err := ParseCards("5s6"); err == nil {
		t.Fatalf("expected error for odd-length string")
	}
}
