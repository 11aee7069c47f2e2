package handrange

import (
	"sort"

	"github.com/lox/holdem-equity/card"
)

// HandRange is an ordered, deduplicated sequence of Combo.
type HandRange struct {
	Combos []Combo
}

// New returns an empty range.
func New() *HandRange {
	return &HandRange{}
}

// Add appends a combo built from (c1, c2, weight), silently ignoring
// invalid combos (identical cards), matching the parser's permissive
// treatment of malformed input.
func (r *HandRange) Add(c1, c2 card.Card, weight uint8) {
	combo, ok := NewCombo(c1, c2, weight)
	if !ok {
		return
	}
	r.Combos = append(r.Combos, combo)
}

// RemoveConflictingCombos retains only combos whose mask is disjoint from
// boardMask.
func (r *HandRange) RemoveConflictingCombos(boardMask card.Mask) {
	kept := r.Combos[:0]
	for _, c := range r.Combos {
		if !c.Mask().Overlaps(boardMask) {
			kept = append(kept, c)
		}
	}
	r.Combos = kept
}

// RemoveDuplicates sorts the range's combos into canonical order and
// collapses repeats (same two cards, regardless of weight — first write
// wins, matching the parser's left-to-right construction order).
func (r *HandRange) RemoveDuplicates() {
	sort.SliceStable(r.Combos, func(i, j int) bool {
		return compare(r.Combos[i], r.Combos[j]) < 0
	})
	kept := r.Combos[:0]
	for _, c := range r.Combos {
		if len(kept) > 0 && sameCards(kept[len(kept)-1], c) {
			continue
		}
		kept = append(kept, c)
	}
	r.Combos = kept
}

// Size returns the number of combos in the range.
func (r *HandRange) Size() int {
	return len(r.Combos)
}
