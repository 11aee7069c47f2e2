// Package handrange implements the weighted hole-card range model: parsing
// range strings into Combo lists, conflict pruning against a board, and
// the Cartesian-product CombinedRange optimizer lives alongside it in the
// equity package, which is the only consumer of these types.
package handrange

import (
	"fmt"

	"github.com/lox/holdem-equity/card"
)

// Combo is a concrete two-card hole-card pairing with a weight in 1..100.
// It is canonicalized so the higher-ranked card is first, ties broken by
// suit, so two combos built from the same pair of cards always compare
// equal regardless of construction order.
type Combo struct {
	C1, C2 card.Card
	Weight uint8
}

// NewCombo canonicalizes (c1, c2, weight) into a Combo. Returns false if c1
// and c2 are the same card.
func NewCombo(c1, c2 card.Card, weight uint8) (Combo, bool) {
	if c1 == c2 {
		return Combo{}, false
	}
	if less(c1, c2) {
		c1, c2 = c2, c1
	}
	return Combo{C1: c1, C2: c2, Weight: weight}, true
}

// less reports whether a sorts before b under combo canonicalization:
// lower rank first, then lower suit when ranks tie.
func less(a, b card.Card) bool {
	if a.Rank() != b.Rank() {
		return a.Rank() < b.Rank()
	}
	return a.Suit() < b.Suit()
}

// Mask returns the 2-bit card.Mask covered by the combo.
func (c Combo) Mask() card.Mask {
	return card.Of(c.C1, c.C2)
}

// String renders the combo as its two cards concatenated, e.g. "AsKh".
func (c Combo) String() string {
	return c.C1.String() + c.C2.String()
}

// compare orders two combos by (rank1, rank2, suit1, suit2), matching the
// canonical sort the range parser uses to dedupe.
func compare(a, b Combo) int {
	if a.C1.Rank() != b.C1.Rank() {
		return int(a.C1.Rank()) - int(b.C1.Rank())
	}
	if a.C2.Rank() != b.C2.Rank() {
		return int(a.C2.Rank()) - int(b.C2.Rank())
	}
	if a.C1.Suit() != b.C1.Suit() {
		return int(a.C1.Suit()) - int(b.C1.Suit())
	}
	return int(a.C2.Suit()) - int(b.C2.Suit())
}

// sameCards reports whether a and b name the same two cards, ignoring weight.
func sameCards(a, b Combo) bool {
	return a.C1 == b.C1 && a.C2 == b.C2
}

func (c Combo) validate() error {
	if c.Weight < 1 || c.Weight > 100 {
		return fmt.Errorf("handrange: weight %d out of range 1..100", c.Weight)
	}
	return nil
}
