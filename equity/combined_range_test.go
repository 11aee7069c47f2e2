package equity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-equity/handrange"
)

func mustRange(t *testing.T, s string) *handrange.HandRange {
	t.Helper()
	r, err := handrange.Parse(s)
	require.NoError(t, err)
	return r
}

func TestCombinedRangesFromRangesJoinsDisjointPairs(t *testing.T) {
	ranges := []*handrange.HandRange{mustRange(t, "AA"), mustRange(t, "KK")}
	combined := combinedRangesFromRanges(ranges)

	require.Len(t, combined, 1, "two small disjoint-ish ranges should join into one combined range")
	cr := combined[0]
	assert.Equal(t, 2, cr.players)

	for _, c := range cr.combos {
		assert.False(t, c.mask == 0)
		assert.True(t, c.has[0] && c.has[1])
	}
}

func TestCombinedRangesFromRangesLeavesLargeProductsSeparate(t *testing.T) {
	ranges := []*handrange.HandRange{mustRange(t, "random"), mustRange(t, "random"), mustRange(t, "random")}
	combined := combinedRangesFromRanges(ranges)

	assert.Greater(t, len(combined), 1, "joining three full 1326-combo ranges would blow past maxCombinedSize")
	var totalPlayers int
	for _, cr := range combined {
		totalPlayers += cr.players
		assert.LessOrEqual(t, cr.size(), maxCombinedSize)
	}
	assert.Equal(t, 3, totalPlayers)
}

func TestCombinedRangeConflictingPairsAreEmpty(t *testing.T) {
	ranges := []*handrange.HandRange{mustRange(t, "AsAh"), mustRange(t, "AsKh")}
	combined := combinedRangesFromRanges(ranges)

	require.Len(t, combined, 1)
	assert.Equal(t, 0, combined[0].size())
}

func TestPlayerIndicesReflectsRoster(t *testing.T) {
	ranges := []*handrange.HandRange{mustRange(t, "AA"), mustRange(t, "KK"), mustRange(t, "QQ")}
	combined := combinedRangesFromRanges(ranges)

	seen := map[int]bool{}
	for _, cr := range combined {
		for _, p := range cr.playerIndices() {
			seen[p] = true
		}
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
}
