package equity

import (
	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/hand"
	"github.com/lox/holdem-equity/handrange"
)

// MaxPlayers bounds the number of competing ranges a single call supports.
const MaxPlayers = 6

// combo is one joint assignment of hole cards across every player folded
// into a combined range so far. Players not yet folded in have has[i] ==
// false and their hands/cards entries are zero.
type combo struct {
	mask    card.Mask
	hands   [MaxPlayers]hand.Hand
	cards   [MaxPlayers][2]card.Card
	weights [MaxPlayers]uint8
	has     [MaxPlayers]bool
}

func (c combo) merge(o combo) combo {
	out := combo{mask: c.mask | o.mask}
	for i := 0; i < MaxPlayers; i++ {
		if c.has[i] {
			out.hands[i], out.cards[i], out.weights[i], out.has[i] = c.hands[i], c.cards[i], c.weights[i], true
		}
		if o.has[i] {
			out.hands[i], out.cards[i], out.weights[i], out.has[i] = o.hands[i], o.cards[i], o.weights[i], true
		}
	}
	return out
}

// playerIndices returns the true player indices present in every combo of
// cr, derived from the first combo's has flags (invariant across combos by
// construction: join always merges full rosters).
func (cr *combinedRange) playerIndices() []int {
	if len(cr.combos) == 0 {
		return nil
	}
	var out []int
	for i, present := range cr.combos[0].has {
		if present {
			out = append(out, i)
		}
	}
	return out
}

// combinedRange is the Cartesian product of one or more player ranges,
// carrying only joint combos with pairwise disjoint card masks.
type combinedRange struct {
	players int
	combos  []combo
}

// maxCombinedSize bounds the product growth of a single combined range, per
// the optimizer's stopping condition.
const maxCombinedSize = 10000

func combinedRangeFromRange(r *handrange.HandRange, playerIdx int) *combinedRange {
	cr := &combinedRange{players: 1, combos: make([]combo, 0, len(r.Combos))}
	for _, c := range r.Combos {
		var e combo
		e.mask = c.Mask()
		e.hands[playerIdx] = hand.FromCard(c.C1).Add(c.C2)
		e.cards[playerIdx] = [2]card.Card{c.C1, c.C2}
		e.weights[playerIdx] = c.Weight
		e.has[playerIdx] = true
		cr.combos = append(cr.combos, e)
	}
	return cr
}

// combinedRangesFromRanges builds one combinedRange per player, then
// greedily joins the pair whose estimated disjoint-product join is
// smallest until the best available join would reach maxCombinedSize.
func combinedRangesFromRanges(ranges []*handrange.HandRange) []*combinedRange {
	crs := make([]*combinedRange, len(ranges))
	for i, r := range ranges {
		crs[i] = combinedRangeFromRange(r, i)
	}

	for {
		bestSize := uint64(1<<63 - 1)
		bestI, bestJ := 0, 0
		found := false

		for i := 0; i < len(crs); i++ {
			for j := 0; j < i; j++ {
				s := crs[i].estimateJoinSize(crs[j])
				if s < bestSize {
					bestSize, bestI, bestJ, found = s, i, j, true
				}
			}
		}

		if !found || bestSize >= maxCombinedSize {
			break
		}

		crs[bestJ] = crs[bestJ].join(crs[bestI])
		crs = append(crs[:bestI], crs[bestI+1:]...)
	}

	return crs
}

func (cr *combinedRange) join(other *combinedRange) *combinedRange {
	out := &combinedRange{players: cr.players + other.players}
	for _, c1 := range cr.combos {
		for _, c2 := range other.combos {
			if c1.mask.Overlaps(c2.mask) {
				continue
			}
			out.combos = append(out.combos, c1.merge(c2))
		}
	}
	return out
}

func (cr *combinedRange) estimateJoinSize(other *combinedRange) uint64 {
	var size uint64
	for _, c1 := range cr.combos {
		for _, c2 := range other.combos {
			if !c1.mask.Overlaps(c2.mask) {
				size++
			}
		}
	}
	return size
}

func (cr *combinedRange) size() int {
	return len(cr.combos)
}
