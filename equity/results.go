package equity

import (
	"math"
	"math/bits"
	"sync"
	"sync/atomic"
)

// sharedResults is the writer-lock-protected accumulator that every worker
// merges its private batch into. Field layout mirrors spec.md §4.8's
// aggregation rule directly: wins/ties are keyed by true (global) player
// index, winsByMask by the "actual" player-index bitmask so results from
// batches using different local-slot orderings still combine correctly.
type sharedResults struct {
	mu         sync.Mutex
	wins       []float64
	ties       []float64
	winsByMask []uint64
	evalCount  uint64

	calcExact   bool
	stdevTarget float64
	batchSum    float64
	batchSum2   float64
	batchCount  float64
	stdev       float64
}

func newSharedResults(nPlayers int, calcExact bool, stdevTarget float64) *sharedResults {
	return &sharedResults{
		wins:        make([]float64, nPlayers),
		ties:        make([]float64, nPlayers),
		winsByMask:  make([]uint64, 1<<uint(nPlayers)),
		calcExact:   calcExact,
		stdevTarget: stdevTarget,
	}
}

// batch is a worker-private accumulator for winner-mask hit counts between
// merges. playerIDs maps a batch-local slot to the true player index; it is
// the identity permutation except in the exact engine's isomorphism path,
// where local slots follow the canonical (rank/suit-sorted) seat order
// under which the enumerated or cached counts were computed.
type batch struct {
	nPlayers   int
	playerIDs  []int
	winsByMask []uint64
	evalCount  uint64
}

func newBatch(nPlayers int) *batch {
	ids := make([]int, nPlayers)
	for i := range ids {
		ids[i] = i
	}
	return &batch{
		nPlayers:   nPlayers,
		playerIDs:  ids,
		winsByMask: make([]uint64, 1<<uint(nPlayers)),
	}
}

func (b *batch) reset() {
	for i := range b.winsByMask {
		b.winsByMask[i] = 0
	}
	b.evalCount = 0
}

func (b *batch) clone() *batch {
	out := &batch{
		nPlayers:   b.nPlayers,
		playerIDs:  append([]int(nil), b.playerIDs...),
		winsByMask: append([]uint64(nil), b.winsByMask...),
		evalCount:  b.evalCount,
	}
	return out
}

// merge folds b into r under the writer lock, updates Monte Carlo
// convergence statistics when r is tracking them, and raises stop when the
// batch's player-0 equity stdev has dropped below target.
func (r *sharedResults) merge(b *batch, finished bool, stop *atomic.Bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := b.nPlayers
	var batchHands uint64
	var batchEquity float64
	for i := 0; i < (1 << uint(n)); i++ {
		winnerCount := uint64(bits.OnesCount32(uint32(i)))
		batchHands += b.winsByMask[i]
		actualMask := 0
		for j := 0; j < n; j++ {
			if i&(1<<uint(j)) == 0 {
				continue
			}
			p := b.playerIDs[j]
			if winnerCount == 1 {
				r.wins[p] += float64(b.winsByMask[i])
				if p == 0 {
					batchEquity += float64(b.winsByMask[i])
				}
			} else {
				share := float64(b.winsByMask[i]) / float64(winnerCount)
				r.ties[p] += share
				if p == 0 {
					batchEquity += share
				}
			}
			actualMask |= 1 << uint(p)
		}
		r.winsByMask[actualMask] += b.winsByMask[i]
	}
	batchEquity /= float64(batchHands) + 1e-9

	r.evalCount += b.evalCount

	if !r.calcExact {
		r.batchSum += batchEquity
		r.batchSum2 += batchEquity * batchEquity
		r.batchCount++
		variance := r.batchSum2 - r.batchSum*r.batchSum/r.batchCount
		if variance < 0 {
			variance = 0
		}
		r.stdev = math.Sqrt(1e-9+variance) / r.batchCount
		if !finished && r.stdev < r.stdevTarget {
			stop.Store(true)
		}
	}
}

// equities returns each player's (wins+ties)/total, or a NaN-filled vector
// if nothing was ever observed (every worker failed to seed — the caller's
// pre-check should have already turned that into ConflictingRanges).
func (r *sharedResults) equities() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	eq := make([]float64, len(r.wins))
	var total float64
	for p := range eq {
		eq[p] = r.wins[p] + r.ties[p]
		total += eq[p]
	}
	if total == 0 {
		for p := range eq {
			eq[p] = math.NaN()
		}
		return eq
	}
	for p := range eq {
		eq[p] /= total
	}
	return eq
}
