// Package eval is the constant-time 7-card hand evaluator: perfect-hash
// lookup tables built once (see the gen subcommand) and loaded lazily at
// first use.
package eval

//go:generate go run ./gen

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/holdem-equity/hand"
)

// ErrTableLoadFailure is returned, wrapped with detail, when the evaluator
// table files are missing or truncated. It surfaces on the first call that
// needs the tables, not at process start.
var ErrTableLoadFailure = errors.New("eval: table load failure")

// EnvTableDir is the environment variable Default consults before falling
// back to DefaultTableDir.
const EnvTableDir = "POKEREQ_TABLE_DIR"

// DefaultTableDir is where Default looks for the three table files unless
// EnvTableDir is set. It's anchored to this source file's own directory
// rather than a bare relative path, so it resolves the same way regardless
// of the calling process's working directory.
var DefaultTableDir = defaultTableDir()

func defaultTableDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "tables"
	}
	return filepath.Join(filepath.Dir(file), "tables")
}

// Evaluator evaluates hands against a fixed, immutable set of lookup
// tables. The zero value is not valid; construct via Default or Load.
type Evaluator struct {
	t *tables
}

func newEvaluator(t *tables) *Evaluator {
	return &Evaluator{t: t}
}

var (
	defaultOnce sync.Once
	defaultEval *Evaluator
	defaultErr  error
)

// Default returns the process-wide evaluator, built from table files on
// first call and memoized thereafter. Using sync.Once rather than a
// package init keeps TableLoadFailure a returned error instead of a panic
// at program start.
func Default() (*Evaluator, error) {
	defaultOnce.Do(func() {
		dir := DefaultTableDir
		if d := os.Getenv(EnvTableDir); d != "" {
			dir = d
		}
		defaultEval, defaultErr = Load(dir)
	})
	return defaultEval, defaultErr
}

// Load builds an Evaluator from table files in dir.
func Load(dir string) (*Evaluator, error) {
	t, err := loadTables(dir)
	if err != nil {
		return nil, err
	}
	return newEvaluator(t), nil
}

// Build runs the (slow) table construction from scratch and returns an
// Evaluator backed by the in-memory result, without touching disk. Used by
// the gen command before persisting, and by tests that would rather pay
// the construction cost than depend on generated fixtures.
func Build(log zerolog.Logger) *Evaluator {
	return newEvaluator(buildTables(log))
}

// Save persists e's tables to dir in the three-file binary layout.
func (e *Evaluator) Save(dir string) error {
	return e.t.Save(dir)
}

// Evaluate returns a 16-bit total-ordered strength score for h. The high 4
// bits encode the hand category (1..9, see Category).
func (e *Evaluator) Evaluate(h hand.Hand) uint16 {
	if h.HasFlush() {
		return e.t.flushTable[h.GetFlushKey()]
	}
	return e.t.rankTable[e.perfHash(h.GetRankKey())]
}

// EvaluateWithoutFlush skips the flush test, for callers inside enumeration
// branches that have already proven no 5-card suited subset exists. Its
// result matches Evaluate whenever h truly has no flush.
func (e *Evaluator) EvaluateWithoutFlush(h hand.Hand) uint16 {
	return e.t.rankTable[e.perfHash(h.GetRankKey())]
}

// perfHash combines a rank key with its row's offset. The add wraps modulo
// 2^32 by construction (offsets are stored as the two's-complement of a
// negative bias), so this must stay in 32-bit arithmetic.
func (e *Evaluator) perfHash(key uint32) uint32 {
	row := key >> perfHashRowShift
	return key + e.t.perfHashOffsets[row]
}
