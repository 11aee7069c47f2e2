package equity

import (
	"sort"
	"sync"

	lru "github.com/opencoff/golang-lru"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/hand"
)

// preflopKey identifies a suit-canonicalized preflop layout paired with its
// combined weight. Per spec.md §9's open question, (preflopID, weight)
// could in principle collide for two distinct canonical layouts; in
// practice preflopID is unique per canonical layout, so the key is kept as
// specified rather than widened further.
type preflopKey struct {
	preflopID uint64
	weight    uint64
}

// isomorphismCache shares exact-enumeration board results across preflop
// assignments that are identical up to player-slot sorting and suit
// relabeling. Bounded capacity (rather than the reference's unbounded map)
// turns an evicted hit into a still-correct recompute, which is all
// spec.md requires of a miss.
type isomorphismCache struct {
	mu    sync.RWMutex
	cache *lru.Cache
}

func newIsomorphismCache(capacity int) *isomorphismCache {
	c, err := lru.New(capacity)
	if err != nil {
		c, _ = lru.New(1)
	}
	return &isomorphismCache{cache: c}
}

func (c *isomorphismCache) lookup(key preflopKey) (*batch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*batch), true
}

func (c *isomorphismCache) store(key preflopKey, b *batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, b.clone())
}

// seat is one player's hole cards plus the true player index they came
// from. c0 is always the higher card, so two seats built from the same
// pair of cards compare equal regardless of argument order.
type seat struct {
	c0, c1 card.Card
	player int
}

func newSeat(a, b card.Card, player int) seat {
	if a < b {
		a, b = b, a
	}
	return seat{c0: a, c1: b, player: player}
}

func (s seat) hand() hand.Hand {
	return hand.FromCard(s.c0).Add(s.c1)
}

// sortSeatsCanonical orders seats the way the isomorphism cache key
// requires: by each seat's cards (high card rank, low card rank, then
// suits), independent of which physical player holds which hand, so two
// preflop assignments that are permutations of each other sort into the
// same local-slot order and can share a cache entry.
func sortSeatsCanonical(seats []seat) {
	sort.Slice(seats, func(i, j int) bool {
		a, b := seats[i], seats[j]
		if a.c0.Rank() != b.c0.Rank() {
			return a.c0.Rank() < b.c0.Rank()
		}
		if a.c1.Rank() != b.c1.Rank() {
			return a.c1.Rank() < b.c1.Rank()
		}
		if a.c0.Suit() != b.c0.Suit() {
			return a.c0.Suit() < b.c0.Suit()
		}
		return a.c1.Suit() < b.c1.Suit()
	})
}

// transformSuits remaps every suit label to its first-occurrence order,
// scanning the board before the seats' hole cards, and returns the
// remapped board mask. seats are rewritten in place to use the new suit
// labels.
func transformSuits(seats []seat, boardMask card.Mask) card.Mask {
	var transform [4]int8
	for i := range transform {
		transform[i] = -1
	}
	var suitCount int8
	var newBoard card.Mask

	remap := func(c card.Card) card.Card {
		s := c.Suit()
		if transform[s] < 0 {
			transform[s] = suitCount
			suitCount++
		}
		return card.New(c.Rank(), card.Suit(transform[s]))
	}

	for c := card.Card(0); c < 52; c++ {
		if boardMask.Has(c) {
			newBoard = newBoard.Add(remap(c))
		}
	}
	for i := range seats {
		seats[i].c0 = remap(seats[i].c0)
		seats[i].c1 = remap(seats[i].c1)
	}
	return newBoard
}

// calculatePreflopID folds each seat's canonical two-card index into a
// positional base-1327 accumulator, per spec.md §4.7.1. Seats must already
// be suit-transformed and sorted into canonical order.
func calculatePreflopID(seats []seat) uint64 {
	var id uint64
	for _, s := range seats {
		c0, c1 := s.c0, s.c1
		if c0 < c1 {
			c0, c1 = c1, c0
		}
		id *= 1327
		id += (uint64(c0)*uint64(c0-1))>>1 + uint64(c1) + 1
	}
	return id
}
