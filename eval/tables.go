package eval

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/lox/holdem-equity/hand"
)

// maxKey bounds the non-flush key space: the largest legal rank-multiset
// key is four aces plus three kings.
var maxKey = int(4*hand.Ranks[12] + 3*hand.Ranks[11])

// tables holds the three artifacts the evaluator needs at runtime.
type tables struct {
	rankTable       []uint16
	flushTable      []uint16
	perfHashOffsets []uint32
}

// builder accumulates the dense origLookup table during Step A, then
// compresses it into rankTable/perfHashOffsets during Step B.
type builder struct {
	origLookup []uint16
	flushTable []uint16
	log        zerolog.Logger
}

// buildTables runs the full two-step table construction described in the
// evaluator design: enumerate canonical hand shapes, then compute perfect
// hash row offsets for the non-flush table.
func buildTables(log zerolog.Logger) *tables {
	b := &builder{
		origLookup: make([]uint16, maxKey+1),
		flushTable: make([]uint16, flushTableSize),
		log:        log,
	}
	b.populateAll()
	rankTable, offsets := b.computeOffsets()
	return &tables{
		rankTable:       rankTable,
		flushTable:      b.flushTable,
		perfHashOffsets: offsets,
	}
}

func (b *builder) populateAll() {
	rc := uint8(rankCount)

	b.log.Debug().Msg("populating high card")
	handValue := HighCard
	b.populate(0, 0, &handValue, rc, 0, 0, 0, false)

	b.log.Debug().Msg("populating pairs")
	handValue = Pair
	for r := uint8(0); r < rc; r++ {
		b.populate(uint64(2)<<(4*r), 2, &handValue, rc, 0, 0, 0, false)
	}

	b.log.Debug().Msg("populating two pair")
	handValue = TwoPair
	for r1 := uint8(0); r1 < rc; r1++ {
		for r2 := uint8(0); r2 < r1; r2++ {
			b.populate((uint64(2)<<(4*r1))+(uint64(2)<<(4*r2)), 4, &handValue, rc, r2, 0, 0, false)
		}
	}

	b.log.Debug().Msg("populating trips")
	handValue = Trips
	for r := uint8(0); r < rc; r++ {
		b.populate(uint64(3)<<(4*r), 3, &handValue, rc, 0, r, 0, false)
	}

	b.log.Debug().Msg("populating straights")
	handValue = Straight
	b.populate(0x1000000001111, 5, &handValue, rc, rc, rc, 3, false) // A-5 wheel
	for r := uint8(4); r < rc; r++ {
		b.populate(uint64(0x11111)<<(4*(r-4)), 5, &handValue, rc, rc, rc, r, false)
	}

	b.log.Debug().Msg("populating flushes")
	handValue = Flush
	b.populate(0, 0, &handValue, rc, 0, 0, 0, true)

	b.log.Debug().Msg("populating full houses")
	handValue = FullHouse
	for r1 := uint8(0); r1 < rc; r1++ {
		for r2 := uint8(0); r2 < rc; r2++ {
			if r2 != r1 {
				b.populate((uint64(3)<<(4*r1))+(uint64(2)<<(4*r2)), 5, &handValue, rc, r2, r1, rc, false)
			}
		}
	}

	b.log.Debug().Msg("populating quads")
	handValue = Quads
	for r := uint8(0); r < rc; r++ {
		b.populate(uint64(4)<<(4*r), 4, &handValue, rc, rc, rc, rc, false)
	}

	b.log.Debug().Msg("populating straight flushes")
	handValue = StraightFlush
	b.populate(0x1000000001111, 5, &handValue, rc, 0, 0, 3, true)
	for r := uint8(4); r < rc; r++ {
		b.populate(uint64(0x11111)<<(4*(r-4)), 5, &handValue, rc, 0, 0, r, true)
	}
}

// populate recursively enumerates rank-count shapes, mirroring the
// evaluator design's shape walk: maxPair/maxTrips/maxStraight prevent a
// shape from double-counting as a stronger category, and handValue is
// bumped once per newly visited 2..5 card shape so 6- and 7-card hands of
// identical strength inherit the same score.
func (b *builder) populate(ranks uint64, nCards uint8, handValue *uint16, endRank, maxPair, maxTrips, maxStraight uint8, flush bool) {
	if nCards <= 5 && nCards >= minCards {
		*handValue++
	}

	if nCards >= minCards || (flush && nCards >= 5) {
		key := getKey(ranks, flush)
		if flush {
			b.flushTable[key] = *handValue
		} else {
			b.origLookup[key] = *handValue
		}
		if nCards == maxCards {
			return
		}
	}

	for r := uint8(0); r < endRank; r++ {
		newRanks := ranks + (uint64(1) << (4 * r))
		rankCnt := (newRanks >> (r * 4)) & 0xf

		if rankCnt == 2 && r >= maxPair {
			continue
		}
		if rankCnt == 3 && r >= maxTrips {
			continue
		}
		if rankCnt >= 4 {
			continue
		}
		if biggestStraight(newRanks) > maxStraight {
			continue
		}

		b.populate(newRanks, nCards+1, handValue, r+1, maxPair, maxTrips, maxStraight, flush)
	}
}

// getKey sums each rank's count times its key constant, non-flush or flush.
func getKey(ranks uint64, flush bool) int {
	var key uint64
	for r := uint64(0); r < rankCount; r++ {
		count := (ranks >> (r * 4)) & 0xf
		if flush {
			key += count * uint64(hand.FlushRanks[r])
		} else {
			key += count * uint64(hand.Ranks[r])
		}
	}
	return int(key)
}

// biggestStraight returns the rank index of a straight's top card within
// ranks (4 added so 0 remains "no straight"; the A-5 wheel reports 3), or 0.
func biggestStraight(ranks uint64) uint8 {
	rankMask := (0x1111111111111 & ranks) | (0x2222222222222&ranks)>>1 | (0x4444444444444&ranks)>>2
	for i := 8; i >= 0; i-- {
		if (rankMask>>(4*uint(i)))&0x11111 == 0x11111 {
			return uint8(i) + 4
		}
	}
	if rankMask&0x1000000001111 == 0x1000000001111 {
		return 3
	}
	return 0
}

// row is one 4096-key band of the non-flush key space, holding every
// populated key whose key>>perfHashRowShift equals idx.
type row struct {
	idx  int
	keys []int
}

// computeOffsets implements Step B: partition populated keys into rows,
// then for each row (largest first) find the smallest integer offset such
// that every key in the row maps to an empty rank_table slot or one
// already holding that key's value. This search is the table's own
// bespoke displacement scheme: unlike a strict minimal perfect hash it
// tolerates two keys in a row landing on the same slot when they'd store
// the same value, which is what keeps rank_table near 86000 entries
// instead of growing to cover every row without collision.
func (b *builder) computeOffsets() ([]uint16, []uint32) {
	var rows []row
	rowOf := map[int]int{} // row idx -> index into rows

	for k, v := range b.origLookup {
		if v == 0 {
			continue
		}
		idx := k >> perfHashRowShift
		ri, ok := rowOf[idx]
		if !ok {
			ri = len(rows)
			rowOf[idx] = ri
			rows = append(rows, row{idx: idx})
		}
		rows[ri].keys = append(rows[ri].keys, k)
	}

	numRows := 0
	for _, r := range rows {
		if r.idx+1 > numRows {
			numRows = r.idx + 1
		}
	}
	offsets := make([]uint32, numRows)

	sort.Slice(rows, func(i, j int) bool { return len(rows[i].keys) > len(rows[j].keys) })

	rankTable := make([]uint16, 0)
	maxIdx := 0

	for _, r := range rows {
		offset := 0
		for {
			ok := true
			for _, k := range r.keys {
				slot := (k & perfHashColumnMask) + offset
				if slot < len(rankTable) {
					v := rankTable[slot]
					if v != 0 && v != b.origLookup[k] {
						ok = false
						break
					}
				}
			}
			if ok {
				break
			}
			offset++
		}

		offsets[r.idx] = uint32(int32(offset) - int32(r.idx<<perfHashRowShift))

		for _, k := range r.keys {
			slot := (k & perfHashColumnMask) + offset
			if slot >= len(rankTable) {
				grown := make([]uint16, slot+1)
				copy(grown, rankTable)
				rankTable = grown
			}
			if slot > maxIdx {
				maxIdx = slot
			}
			rankTable[slot] = b.origLookup[k]
		}
	}

	return rankTable[:maxIdx+1], offsets
}
