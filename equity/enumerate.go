package equity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/eval"
	"github.com/lox/holdem-equity/hand"
)

// evalMergeThreshold is the non-isomorphism accumulation threshold: the
// engine merges the running batch into shared results once it has
// accumulated at least this many evaluations, bounding writer-lock
// contention while keeping merges frequent enough for cursor exhaustion to
// be noticed promptly.
const evalMergeThreshold = 10000

// exactEngine enumerates every globally disjoint hole-card assignment
// across the combined ranges by treating their size product as a flat
// index, decomposed per combined range via plain division (the reference
// implementation uses a multiply-by-reciprocal fast divider; that's a
// throughput optimization with no semantic effect, dropped here in favor
// of plain arithmetic — see DESIGN.md). For each assignment it either
// enumerates the remaining board directly, or — once postflop runouts are
// large enough to be worth it — replays or populates a suit-isomorphism
// cache keyed by canonical preflop identity.
type exactEngine struct {
	evalr     *eval.Evaluator
	combined  []*combinedRange
	boardMask card.Mask
	boardHand hand.Hand
	nPlayers  int

	results *sharedResults
	stop    *atomic.Bool

	iso    *isomorphismCache
	useIso bool

	cursorMu  sync.Mutex
	cursor    uint64
	total     uint64
	batchSize uint64
}

func newExactEngine(evalr *eval.Evaluator, combined []*combinedRange, boardMask card.Mask, boardHand hand.Hand, nPlayers int, results *sharedResults, stop *atomic.Bool, isoCacheSize, batchFloor int) *exactEngine {
	var total uint64 = 1
	for _, cr := range combined {
		total *= uint64(cr.size())
	}

	postflop := postflopComboCount(boardMask.Count(), nPlayers)
	useIso := postflop > 500

	batchSize := uint64(2000000) / postflop
	if batchSize < uint64(batchFloor) {
		batchSize = uint64(batchFloor)
	}

	e := &exactEngine{
		evalr:     evalr,
		combined:  combined,
		boardMask: boardMask,
		boardHand: boardHand,
		nPlayers:  nPlayers,
		results:   results,
		stop:      stop,
		total:     total,
		batchSize: batchSize,
	}
	if useIso {
		e.useIso = true
		e.iso = newIsomorphismCache(isoCacheSize)
	}
	return e
}

// postflopComboCount returns C(cardsInDeck, boardCardsRemaining): the
// number of distinct ways to complete the board, which gates both the
// isomorphism-cache decision and the per-worker reservation size.
func postflopComboCount(boardCount, nPlayers int) uint64 {
	cardsInDeck := uint64(52 - boardCount - 2*nPlayers)
	remaining := uint64(5 - boardCount)
	var combos uint64 = 1
	for i := uint64(0); i < remaining; i++ {
		combos *= cardsInDeck - i
	}
	for i := uint64(1); i <= remaining; i++ {
		combos /= i
	}
	return combos
}

func (e *exactEngine) reserveBatch() (uint64, uint64) {
	e.cursorMu.Lock()
	defer e.cursorMu.Unlock()
	start := e.cursor
	end := start + e.batchSize
	if end > e.total {
		end = e.total
	}
	e.cursor = end
	return start, end
}

// run drains the shared enumeration cursor in reserved slices until
// exhausted, merging its batch into shared results along the way.
func (e *exactEngine) run(ctx context.Context) error {
	b := newBatch(e.nPlayers)
	var pos, end uint64

	for {
		if ctx.Err() != nil {
			e.results.merge(b, true, e.stop)
			return ctx.Err()
		}

		if pos >= end {
			start, stop := e.reserveBatch()
			pos, end = start, stop
			if pos >= end {
				break
			}
		}

		e.processIndex(pos, b)

		if b.evalCount >= evalMergeThreshold || e.useIso {
			e.results.merge(b, false, e.stop)
			b = newBatch(e.nPlayers)
			if e.stop.Load() {
				break
			}
		}
		pos++
	}

	e.results.merge(b, true, e.stop)
	return nil
}

// decoded is one flat-index's globally disjoint hole-card assignment.
type decoded struct {
	hands   [MaxPlayers]hand.Hand
	cards   [MaxPlayers][2]card.Card
	weights [MaxPlayers]uint8
	mask    card.Mask
	ok      bool
}

func (e *exactEngine) decode(flatIdx uint64) decoded {
	var d decoded
	d.mask = e.boardMask
	d.ok = true
	rem := flatIdx
	for _, cr := range e.combined {
		size := uint64(cr.size())
		idx := rem % size
		rem /= size
		c := cr.combos[idx]
		if d.mask.Overlaps(c.mask) {
			d.ok = false
			return d
		}
		d.mask |= c.mask
		for p := 0; p < MaxPlayers; p++ {
			if !c.has[p] {
				continue
			}
			d.hands[p] = c.hands[p]
			d.cards[p] = c.cards[p]
			d.weights[p] = c.weights[p]
		}
	}
	return d
}

// processIndex decodes flatIdx and, if its hole-card assignment is
// globally disjoint, either enumerates the remaining board directly into b
// or consults/populates the isomorphism cache.
func (e *exactEngine) processIndex(flatIdx uint64, b *batch) {
	d := e.decode(flatIdx)
	if !d.ok {
		return
	}

	var weight uint64 = 1
	for i := 0; i < e.nPlayers; i++ {
		weight *= uint64(d.weights[i])
	}

	if !e.useIso {
		holes := make([]hand.Hand, e.nPlayers)
		copy(holes, d.hands[:e.nPlayers])
		e.enumerateBoard(holes, weight, e.boardHand, d.mask, b)
		return
	}

	seats := make([]seat, e.nPlayers)
	for i := 0; i < e.nPlayers; i++ {
		seats[i] = newSeat(d.cards[i][0], d.cards[i][1], i)
	}
	sortSeatsCanonical(seats)
	for i, s := range seats {
		b.playerIDs[i] = s.player
	}

	newBoardMask := transformSuits(seats, e.boardMask)
	usedMask := newBoardMask
	for _, s := range seats {
		usedMask = usedMask.Add(s.c0).Add(s.c1)
	}

	key := preflopKey{preflopID: calculatePreflopID(seats), weight: weight}

	if cached, hit := e.iso.lookup(key); hit {
		copy(b.winsByMask, cached.winsByMask)
		b.evalCount = 0
		return
	}

	localBoard := handFromMask(newBoardMask)
	holes := make([]hand.Hand, e.nPlayers)
	for i, s := range seats {
		holes[i] = s.hand()
	}
	local := newBatch(e.nPlayers)
	e.enumerateBoard(holes, weight, localBoard, usedMask, local)
	e.iso.store(key, local)

	copy(b.winsByMask, local.winsByMask)
	b.evalCount = local.evalCount
}

func handFromMask(m card.Mask) hand.Hand {
	h := hand.Empty()
	for c := card.Card(0); c < 52; c++ {
		if m.Has(c) {
			h = h.Add(c)
		}
	}
	return h
}

// enumerateBoard expands the board to 5 cards, evaluating every player's
// final hand at each leaf. holeHands is indexed by local slot, matching
// b.winsByMask's bit positions.
func (e *exactEngine) enumerateBoard(holeHands []hand.Hand, weight uint64, board hand.Hand, usedMask card.Mask, b *batch) {
	remaining := 5 - board.Count()
	if remaining == 0 {
		e.evaluateBoard(holeHands, weight, board, b)
		return
	}
	e.enumerateBoardRec(holeHands, weight, board, usedMask, remaining, 0, b)
}

func (e *exactEngine) enumerateBoardRec(holeHands []hand.Hand, weight uint64, board hand.Hand, usedMask card.Mask, remaining int, start card.Card, b *batch) {
	if remaining == 0 {
		e.evaluateBoard(holeHands, weight, board, b)
		return
	}
	for c := start; int(c) <= 52-remaining; c++ {
		if usedMask.Has(c) {
			continue
		}
		e.enumerateBoardRec(holeHands, weight, board.Add(c), usedMask.Add(c), remaining-1, c+1, b)
	}
}

func (e *exactEngine) evaluateBoard(holeHands []hand.Hand, weight uint64, board hand.Hand, b *batch) {
	var winnerMask uint8
	var bestScore uint16
	var playerMask uint8 = 1
	for i := range holeHands {
		h := board.AddHand(holeHands[i])
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
