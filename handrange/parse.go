package handrange

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-equity/card"
)

// Parse builds a HandRange from one player's range string, e.g. "JJ+",
// "AKs", "Ah2s@50", or "random". It follows the external range-string
// grammar: a comma-separated list of (pair|suited|offsuit|explicit),
// each optionally followed by "+" and/or "@weight".
//
// Parsing is permissive, matching the reference parser's recursive-descent
// walk: it stops at the first clause that does not parse, keeps the clauses
// before it, and ignores the rest of the string. Parse returns an error
// only when the first clause does not parse.
func Parse(text string) (*HandRange, error) {
	r := New()

	if text == "random" {
		addAll(r)
		r.RemoveDuplicates()
		return r, nil
	}

	p := &parser{chars: append([]rune(strings.ToLower(text)), ' ')}
	parsed := false
	for p.parseHand(r) {
		parsed = true
		if !p.parseChar(',') {
			break
		}
	}
	if !parsed {
		return nil, fmt.Errorf("handrange: could not parse range %q", text)
	}

	r.RemoveDuplicates()
	return r, nil
}

// ParseAll parses one range string per player, returning one HandRange per
// element of texts, as produced by e.g. a CLI flag repeated per seat.
func ParseAll(texts []string) ([]*HandRange, error) {
	ranges := make([]*HandRange, len(texts))
	for i, t := range texts {
		r, err := Parse(t)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
		ranges[i] = r
	}
	return ranges, nil
}

func addAll(r *HandRange) {
	for c1 := card.Card(0); c1 < 52; c1++ {
		for c2 := card.Card(0); c2 < c1; c2++ {
			r.Add(c1, c2, 100)
		}
	}
}

// parser walks a range-string clause one rune at a time with backtracking,
// mirroring the reference implementation's hand-written recursive descent.
type parser struct {
	chars []rune
	i     int
}

func (p *parser) parseChar(c rune) bool {
	if p.chars[p.i] == c {
		p.i++
		return true
	}
	return false
}

func (p *parser) parseRank(dst *card.Rank) bool {
	r, err := charToRank(p.chars[p.i])
	if err != nil {
		return false
	}
	*dst = r
	p.i++
	return true
}

func (p *parser) parseSuit(dst *card.Suit) bool {
	s, err := charToSuit(p.chars[p.i])
	if err != nil {
		return false
	}
	*dst = s
	p.i++
	return true
}

func (p *parser) parseWeight(dst *uint8) bool {
	backtrack := p.i
	number := 0
	for {
		c := p.chars[p.i]
		if c < '0' || c > '9' {
			if number > 100 {
				p.i = backtrack
				return false
			}
			*dst = uint8(number)
			return true
		}
		number = number*10 + int(c-'0')
		p.i++
	}
}

// parseHand parses one combo clause and adds its expansion to r, reporting
// whether it consumed anything.
func (p *parser) parseHand(r *HandRange) bool {
	backtrack := p.i

	var r1, r2 card.Rank
	var s1, s2 card.Suit
	weight := uint8(100)

	if !p.parseRank(&r1) {
		return false
	}
	explicitSuits := p.parseSuit(&s1)
	if !p.parseRank(&r2) {
		p.i = backtrack
		return false
	}
	if explicitSuits && !p.parseSuit(&s2) {
		p.i = backtrack
		return false
	}

	if explicitSuits {
		c1 := card.New(r1, s1)
		c2 := card.New(r2, s2)
		if c1 == c2 {
			p.i = backtrack
			return false
		}
		if p.parseChar('@') {
			p.parseWeight(&weight)
		}
		r.Add(c1, c2, weight)
		return true
	}

	suited, offsuit := true, true
	if p.parseChar('o') {
		suited = false
	} else if p.parseChar('s') {
		offsuit = false
	}

	if p.parseChar('+') {
		if p.parseChar('@') {
			p.parseWeight(&weight)
		}
		addCombosPlus(r, r1, r2, suited, offsuit, weight)
	} else {
		if p.parseChar('@') {
			p.parseWeight(&weight)
		}
		addCombos(r, r1, r2, suited, offsuit, weight)
	}
	return true
}

// addCombos adds the suited and/or offsuit combos for (rank1, rank2).
func addCombos(r *HandRange, rank1, rank2 card.Rank, suited, offsuit bool, weight uint8) {
	if suited && rank1 != rank2 {
		for s := card.Suit(0); s < 4; s++ {
			r.Add(card.New(rank1, s), card.New(rank2, s), weight)
		}
	}
	if offsuit {
		for s1 := card.Suit(0); s1 < 4; s1++ {
			for s2 := s1 + 1; s2 < 4; s2++ {
				r.Add(card.New(rank1, s1), card.New(rank2, s2), weight)
				if rank1 != rank2 {
					r.Add(card.New(rank1, s2), card.New(rank2, s1), weight)
				}
			}
		}
	}
}

// addCombosPlus expands a "+" suffix: for pairs, every pair from rank1 up
// to Ace; for unpaired hands, every kicker from rank2 up to the rank just
// below rank1.
func addCombosPlus(r *HandRange, rank1, rank2 card.Rank, suited, offsuit bool, weight uint8) {
	if rank1 == rank2 {
		for rk := rank1; rk <= card.Ace; rk++ {
			addCombos(r, rk, rk, suited, offsuit, weight)
		}
		return
	}
	for rk := rank2; rk < rank1; rk++ {
		addCombos(r, rank1, rk, suited, offsuit, weight)
	}
}

func charToRank(c rune) (card.Rank, error) {
	switch c {
	case 'a':
		return card.Ace, nil
	case 'k':
		return card.King, nil
	case 'q':
		return card.Queen, nil
	case 'j':
		return card.Jack, nil
	case 't':
		return card.Ten, nil
	case '9':
		return card.Nine, nil
	case '8':
		return card.Eight, nil
	case '7':
		return card.Seven, nil
	case '6':
		return card.Six, nil
	case '5':
		return card.Five, nil
	case '4':
		return card.Four, nil
	case '3':
		return card.Three, nil
	case '2':
		return card.Two, nil
	default:
		return 0, fmt.Errorf("handrange: invalid rank %q", c)
	}
}

func charToSuit(c rune) (card.Suit, error) {
	switch c {
	case 's':
		return card.Spades, nil
	case 'h':
		return card.Hearts, nil
	case 'd':
		return card.Diamonds, nil
	case 'c':
		return card.Clubs, nil
	default:
		return 0, fmt.Errorf("handrange: invalid suit %q", c)
	}
}
