package eval

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/hand"
)

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return Build(zerolog.Nop())
}

func TestQuadTwosMicroProperty(t *testing.T) {
	e := testEvaluator(t)

	h := hand.Empty().
		Add(card.New(card.Two, card.Spades)).
		Add(card.New(card.Two, card.Hearts)).
		Add(card.New(card.Two, card.Diamonds)).
		Add(card.New(card.Two, card.Clubs))

	score := e.Evaluate(h)
	if score != 32769 {
		t.Fatalf("score = %d, want 32769", score)
	}
	if Category(score) != 8 {
		t.Fatalf("category = %d, want 8", Category(score))
	}
}

func TestCategoryOrdering(t *testing.T) {
	e := testEvaluator(t)

	straightFlush := hand.FromCards(
		card.New(card.Five, card.Spades), card.New(card.Six, card.Spades), card.New(card.Seven, card.Spades),
		card.New(card.Eight, card.Spades), card.New(card.Nine, card.Spades),
		card.New(card.Two, card.Hearts), card.New(card.Three, card.Diamonds),
	)
	quads := hand.FromCards(
		card.New(card.Two, card.Spades), card.New(card.Two, card.Hearts), card.New(card.Two, card.Diamonds), card.New(card.Two, card.Clubs),
		card.New(card.Three, card.Spades), card.New(card.Four, card.Hearts), card.New(card.Five, card.Diamonds),
	)

	sfScore := e.Evaluate(straightFlush)
	quadsScore := e.Evaluate(quads)

	if Category(sfScore) != 9 {
		t.Fatalf("straight flush category = %d, want 9", Category(sfScore))
	}
	if Category(quadsScore) != 8 {
		t.Fatalf("quads category = %d, want 8", Category(quadsScore))
	}
	if sfScore <= quadsScore {
		t.Fatalf("straight flush (%d) must outrank quads (%d)", sfScore, quadsScore)
	}
}

func TestEvaluateOrderIndependent(t *testing.T) {
	e := testEvaluator(t)

	cards := []card.Card{
		card.New(card.Ace, card.Spades), card.New(card.King, card.Spades), card.New(card.Queen, card.Hearts),
		card.New(card.Jack, card.Diamonds), card.New(card.Nine, card.Clubs), card.New(card.Two, card.Clubs),
		card.New(card.Three, card.Hearts),
	}
	h1 := hand.FromCards(cards...)

	reversed := make([]card.Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	h2 := hand.FromCards(reversed...)

	if e.Evaluate(h1) != e.Evaluate(h2) {
		t.Fatalf("evaluate depends on insertion order")
	}
}

func TestEvaluateWithoutFlushMatchesEvaluate(t *testing.T) {
	e := testEvaluator(t)

	h := hand.FromCards(
		card.New(card.Ace, card.Spades), card.New(card.King, card.Hearts), card.New(card.Queen, card.Diamonds),
		card.New(card.Jack, card.Clubs), card.New(card.Nine, card.Spades), card.New(card.Two, card.Hearts),
		card.New(card.Three, card.Diamonds),
	)
	if h.HasFlush() {
		t.Fatalf("test hand unexpectedly has a flush")
	}
	if e.Evaluate(h) != e.EvaluateWithoutFlush(h) {
		t.Fatalf("EvaluateWithoutFlush diverges from Evaluate when no flush exists")
	}
}
