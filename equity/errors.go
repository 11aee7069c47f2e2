package equity

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-equity/eval"
)

// Kind classifies an Error returned by ApproxEquity or ExactEquity.
type Kind int

const (
	// TooFewPlayers means fewer than 2 ranges were supplied.
	TooFewPlayers Kind = iota + 1
	// TooManyPlayers means more than MaxPlayers ranges were supplied.
	TooManyPlayers
	// TooManyBoardCards means the board mask has more than 5 cards set.
	TooManyBoardCards
	// ConflictingRanges means board pruning or combined-range joining left
	// some group of ranges unsatisfiable.
	ConflictingRanges
	// TableLoadFailure means the evaluator's lazily-loaded lookup tables
	// could not be read from disk.
	TableLoadFailure
)

func (k Kind) String() string {
	switch k {
	case TooFewPlayers:
		return "too few players"
	case TooManyPlayers:
		return "too many players"
	case TooManyBoardCards:
		return "too many board cards"
	case ConflictingRanges:
		return "conflicting ranges"
	case TableLoadFailure:
		return "table load failure"
	default:
		return "unknown"
	}
}

// Error is the error type returned by this package's public entrypoints. It
// carries a Kind so callers can branch on failure category with errors.Is
// against the exported sentinels below, while still exposing a useful
// message and, for TableLoadFailure, the wrapped cause.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("equity: %s: %s", e.Kind, e.msg)
	}
	return fmt.Sprintf("equity: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel matching e's Kind, so callers
// can write errors.Is(err, equity.ErrConflictingRanges).
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	return ok && sentinel.Kind == e.Kind
}

// Exported sentinels, one per Kind, for use with errors.Is.
var (
	ErrTooFewPlayers     = &Error{Kind: TooFewPlayers}
	ErrTooManyPlayers    = &Error{Kind: TooManyPlayers}
	ErrTooManyBoardCards = &Error{Kind: TooManyBoardCards}
	ErrConflictingRanges = &Error{Kind: ConflictingRanges}
	ErrTableLoadFailure  = &Error{Kind: TableLoadFailure}
)

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// wrapTableLoadFailure adapts eval.ErrTableLoadFailure (and anything it
// wraps) into this package's error taxonomy, or returns nil if err is nil.
func wrapTableLoadFailure(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, eval.ErrTableLoadFailure) {
		return &Error{Kind: TableLoadFailure, err: err}
	}
	return err
}
