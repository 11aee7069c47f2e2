// Package equity implements range-vs-range equity calculation: a random-walk
// Monte Carlo engine for fast approximate answers and an exhaustive
// enumeration engine (optionally accelerated by a suit-isomorphism cache)
// for exact ones. Both run their work across a caller-supplied number of
// goroutines coordinated by golang.org/x/sync/errgroup.
package equity

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-equity/card"
	"github.com/lox/holdem-equity/eval"
	"github.com/lox/holdem-equity/hand"
	"github.com/lox/holdem-equity/handrange"
	"github.com/lox/holdem-equity/internal/config"
	"github.com/lox/holdem-equity/internal/logging"
	"github.com/lox/holdem-equity/internal/randutil"
)

const (
	minPlayers    = 2
	maxBoardCards = 5
)

var engineLogger = logging.Disabled()

// SetLogger installs the zerolog.Logger that ApproxEquity and ExactEquity
// log to: one Info line when a run starts and one when it finishes.
// The default is a disabled logger; no log line changes any computed
// result.
func SetLogger(l zerolog.Logger) {
	engineLogger = l
}

// ExactEquity runs the deterministic enumeration engine over every globally
// disjoint hole-card assignment and returns each range's equity. board is a
// card mask of 0..5 known community cards.
func ExactEquity(ctx context.Context, ranges []*handrange.HandRange, board card.Mask, nThreads int) ([]float64, error) {
	evalr, combined, boardHand, err := prepare(ranges, board)
	if err != nil {
		return nil, err
	}
	nPlayers := len(ranges)

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	results := newSharedResults(nPlayers, true, 0)
	var stop atomic.Bool
	eng := newExactEngine(evalr, combined, board, boardHand, nPlayers, results, &stop, cfg.IsomorphismCacheSize, cfg.EnumBatchFloor)

	engineLogger.Info().
		Int("players", nPlayers).
		Uint64("preflop_combos", eng.total).
		Bool("isomorphism", eng.useIso).
		Int("threads", nThreads).
		Msg("exact equity: starting enumeration")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < nThreads; i++ {
		g.Go(func() error {
			return eng.run(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engineLogger.Info().Uint64("evals", results.evalCount).Msg("exact equity: done")
	return results.equities(), nil
}

// ApproxEquity runs the random-walk Monte Carlo engine until the running
// stdev estimate of player 0's batch equity drops below stdevTarget, and
// returns each range's equity.
func ApproxEquity(ctx context.Context, ranges []*handrange.HandRange, board card.Mask, nThreads int, stdevTarget float64) ([]float64, error) {
	evalr, combined, boardHand, err := prepare(ranges, board)
	if err != nil {
		return nil, err
	}
	nPlayers := len(ranges)

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	results := newSharedResults(nPlayers, false, stdevTarget)
	var stop atomic.Bool
	eng := newMonteCarloEngine(evalr, combined, board, boardHand, nPlayers, results, &stop, cfg.MonteCarloMergeInterval)

	// Each worker gets its own independent stream, split from one
	// auto-seeded parent so concurrent runs never share state.
	parent := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	streams := randutil.Spawn(parent, nThreads)

	engineLogger.Info().
		Int("players", nPlayers).
		Float64("stdev_target", stdevTarget).
		Int("threads", nThreads).
		Msg("approx equity: starting random walk")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < nThreads; i++ {
		rng := streams[i]
		g.Go(func() error {
			return eng.run(gctx, rng)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engineLogger.Info().Uint64("evals", results.evalCount).Msg("approx equity: done")
	return results.equities(), nil
}

// prepare validates inputs, loads the evaluator, prunes each range against
// the board, and builds the combined-range optimizer, returning
// ConflictingRanges if pruning or joining left any group unsatisfiable.
func prepare(ranges []*handrange.HandRange, board card.Mask) (*eval.Evaluator, []*combinedRange, hand.Hand, error) {
	var zero hand.Hand

	if len(ranges) < minPlayers {
		return nil, nil, zero, newError(TooFewPlayers, fmt.Sprintf("got %d ranges", len(ranges)))
	}
	if len(ranges) > MaxPlayers {
		return nil, nil, zero, newError(TooManyPlayers, fmt.Sprintf("got %d ranges", len(ranges)))
	}
	if board.Count() > maxBoardCards {
		return nil, nil, zero, newError(TooManyBoardCards, fmt.Sprintf("got %d board cards", board.Count()))
	}

	evalr, err := eval.Default()
	if err != nil {
		return nil, nil, zero, wrapTableLoadFailure(err)
	}

	pruned := make([]*handrange.HandRange, len(ranges))
	for i, r := range ranges {
		cp := handrange.HandRange{Combos: append([]handrange.Combo(nil), r.Combos...)}
		cp.RemoveConflictingCombos(board)
		pruned[i] = &cp
	}

	combined := combinedRangesFromRanges(pruned)
	for _, cr := range combined {
		if cr.size() == 0 {
			return nil, nil, zero, newError(ConflictingRanges, "a combined range is empty after pruning against the board")
		}
	}

	boardHand := hand.Empty()
	for c := card.Card(0); c < 52; c++ {
		if board.Has(c) {
			boardHand = boardHand.Add(c)
		}
	}

	return evalr, combined, boardHand, nil
}
