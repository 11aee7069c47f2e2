package equity

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/eval"
	"github.com/lox/holdem-equity/hand"
)

// seedAttempts bounds the rejection-sampling loop that looks for one
// globally-disjoint combo per combined range; past this many failures the
// ranges are treated as effectively infeasible given the board and the
// worker quietly exits.
const seedAttempts = 1000

// monteCarloEngine runs the random-walk Monte Carlo scheme: one expensive
// disjoint seed, then cheap single-combined-range mutations that almost
// always stay disjoint, merging into sharedResults every mergeInterval
// evaluations and honoring the stop flag once convergence is reached.
type monteCarloEngine struct {
	evalr     *eval.Evaluator
	combined  []*combinedRange
	boardMask card.Mask
	boardHand hand.Hand
	nPlayers  int

	results       *sharedResults
	stop          *atomic.Bool
	mergeInterval int
}

func newMonteCarloEngine(evalr *eval.Evaluator, combined []*combinedRange, boardMask card.Mask, boardHand hand.Hand, nPlayers int, results *sharedResults, stop *atomic.Bool, mergeInterval int) *monteCarloEngine {
	return &monteCarloEngine{
		evalr:         evalr,
		combined:      combined,
		boardMask:     boardMask,
		boardHand:     boardHand,
		nPlayers:      nPlayers,
		results:       results,
		stop:          stop,
		mergeInterval: mergeInterval,
	}
}

// run is one worker's share of the random walk; it owns rng exclusively.
func (e *monteCarloEngine) run(ctx context.Context, rng *rand.Rand) error {
	b := newBatch(e.nPlayers)
	cardsRemaining := 5 - e.boardMask.Count()

	hands := make([]hand.Hand, MaxPlayers)
	weights := make([]uint8, MaxPlayers)
	comboIdx := make([]int, len(e.combined))

	usedMask, ok := e.randomizeHoleCards(rng, comboIdx, hands, weights)
	if !ok {
		e.results.merge(b, true, e.stop)
		return nil
	}

	for {
		if ctx.Err() != nil {
			e.results.merge(b, true, e.stop)
			return ctx.Err()
		}

		var weight uint64 = 1
		for i := 0; i < e.nPlayers; i++ {
			weight *= uint64(weights[i])
		}

		board := randomizeBoard(rng, e.boardHand, usedMask, cardsRemaining)
		e.evaluateHands(hands, weight, board, b)

		if b.evalCount%uint64(e.mergeInterval) == 0 {
			e.results.merge(b, false, e.stop)
			if e.stop.Load() {
				return nil
			}
			b = newBatch(e.nPlayers)
			usedMask, ok = e.randomizeHoleCards(rng, comboIdx, hands, weights)
			if !ok {
				break
			}
		}

		// Step: pick one combined range uniformly and walk its combo index
		// backward cyclically until a mask disjoint from the others is
		// found. Modular decrement (never random resampling) guarantees
		// every combo is visited before any repeats.
		rangeIdx := rng.IntN(len(e.combined))
		cr := e.combined[rangeIdx]
		idx := comboIdx[rangeIdx]
		usedMask &^= cr.combos[idx].mask

		var mask card.Mask
		for {
			if idx == 0 {
				idx = cr.size()
			}
			idx--
			mask = cr.combos[idx].mask
			if !mask.Overlaps(usedMask) {
				break
			}
		}
		usedMask |= mask

		newCombo := cr.combos[idx]
		for i := 0; i < MaxPlayers; i++ {
			if !newCombo.has[i] {
				continue
			}
			hands[i] = newCombo.hands[i]
			weights[i] = newCombo.weights[i]
		}
		comboIdx[rangeIdx] = idx
	}

	e.results.merge(b, true, e.stop)
	return nil
}

// randomizeHoleCards draws one combo index per combined range until their
// masks are pairwise disjoint with the fixed board, retrying up to
// seedAttempts times before giving up.
func (e *monteCarloEngine) randomizeHoleCards(rng *rand.Rand, comboIdx []int, hands []hand.Hand, weights []uint8) (card.Mask, bool) {
	for attempt := 0; attempt < seedAttempts; attempt++ {
		used := e.boardMask
		ok := true
		for i, cr := range e.combined {
			idx := rng.IntN(cr.size())
			comboIdx[i] = idx
			c := cr.combos[idx]
			if used.Overlaps(c.mask) {
				ok = false
				break
			}
			for p := 0; p < MaxPlayers; p++ {
				if !c.has[p] {
					continue
				}
				hands[p] = c.hands[p]
				weights[p] = c.weights[p]
			}
			used |= c.mask
		}
		if ok {
			return used, true
		}
	}
	return 0, false
}

// randomizeBoard deals cardsRemaining distinct cards outside usedMask onto
// board and returns the resulting 7-minus-hole-card evaluator hand.
func randomizeBoard(rng *rand.Rand, board hand.Hand, usedMask card.Mask, cardsRemaining int) hand.Hand {
	used := usedMask
	for i := 0; i < cardsRemaining; i++ {
		var c card.Card
		for {
			c = card.Card(rng.IntN(52))
			if !used.Has(c) {
				break
			}
		}
		used = used.Add(c)
		board = board.Add(c)
	}
	return board
}

func (e *monteCarloEngine) evaluateHands(hands []hand.Hand, weight uint64, board hand.Hand, b *batch) {
	var winnerMask uint8
	var bestScore uint16
	var playerMask uint8 = 1
	for i := 0; i < e.nPlayers; i++ {
		h := board.AddHand(hands[i])
		score := e.evalr.Evaluate(h)
		switch {
		case score > bestScore:
			bestScore = score
			winnerMask = playerMask
		case score == bestScore:
			winnerMask |= playerMask
		}
		playerMask <<= 1
	}
	b.winsByMask[winnerMask] += weight
	b.evalCount++
}
