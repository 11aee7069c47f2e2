package equity

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCreditsSoleWinner(t *testing.T) {
	r := newSharedResults(2, true, 0)
	b := newBatch(2)
	b.winsByMask[0b01] = 7 // player 0 wins alone
	b.evalCount = 7

	var stop atomic.Bool
	r.merge(b, true, &stop)

	assert.Equal(t, float64(7), r.wins[0])
	assert.Equal(t, float64(0), r.wins[1])
	assert.Equal(t, uint64(7), r.winsByMask[0b01])
}

func TestMergeSplitsTies(t *testing.T) {
	r := newSharedResults(2, true, 0)
	b := newBatch(2)
	b.winsByMask[0b11] = 4 // both players tie
	b.evalCount = 4

	var stop atomic.Bool
	r.merge(b, true, &stop)

	assert.Equal(t, float64(2), r.ties[0])
	assert.Equal(t, float64(2), r.ties[1])
}

func TestMergeRemapsPlayerIDs(t *testing.T) {
	r := newSharedResults(2, true, 0)
	b := newBatch(2)
	b.playerIDs = []int{1, 0} // local slot 0 is true player 1, slot 1 is true player 0
	b.winsByMask[0b01] = 5    // local slot 0 (true player 1) wins
	b.evalCount = 5

	var stop atomic.Bool
	r.merge(b, true, &stop)

	assert.Equal(t, float64(5), r.wins[1])
	assert.Equal(t, float64(0), r.wins[0])
}

func TestEquitiesNormalizeToOne(t *testing.T) {
	r := newSharedResults(2, true, 0)
	r.wins[0] = 3
	r.wins[1] = 1

	eq := r.equities()
	assert.InDelta(t, 0.75, eq[0], 1e-12)
	assert.InDelta(t, 0.25, eq[1], 1e-12)
}

func TestMergeStopsOnConvergence(t *testing.T) {
	r := newSharedResults(1, false, 0.5)
	var stop atomic.Bool

	for i := 0; i < 20; i++ {
		b := newBatch(1)
		b.winsByMask[0b1] = 1
		b.evalCount = 1
		r.merge(b, false, &stop)
	}

	assert.True(t, stop.Load(), "stdev should drop below target after many identical batches")
}
