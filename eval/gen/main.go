// Command gen builds the evaluator's perfect-hash lookup tables and writes
// them to the three binary artifacts eval.Load expects.
package main

import (
	"flag"
	"os"

	"github.com/lox/holdem-equity/eval"
	"github.com/lox/holdem-equity/internal/logging"
)

func main() {
	dir := flag.String("dir", eval.DefaultTableDir, "directory to write table files into")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := logging.New(*debug)

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("creating table directory")
	}

	log.Info().Msg("building evaluator tables")
	e := eval.Build(log)

	if err := e.Save(*dir); err != nil {
		log.Fatal().Err(err).Msg("saving evaluator tables")
	}
	log.Info().Str("dir", *dir).Msg("wrote evaluator tables")
}
