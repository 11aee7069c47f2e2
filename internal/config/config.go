// Package config holds the tunable constants that govern engine internals
// not exposed through the public API, parsed from environment variables
// with the POKEREQ_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names recognized by FromEnv.
const (
	// EnvIsomorphismCacheSize bounds the exact-enumeration suit-isomorphism cache.
	EnvIsomorphismCacheSize = "POKEREQ_ISO_CACHE_SIZE"

	// EnvMonteCarloMergeInterval sets how many trials a worker accumulates
	// before merging its batch into shared results.
	EnvMonteCarloMergeInterval = "POKEREQ_MC_MERGE_INTERVAL"

	// EnvEnumBatchFloor sets the minimum number of enumeration indices a
	// worker reserves per cursor claim.
	EnvEnumBatchFloor = "POKEREQ_ENUM_BATCH_FLOOR"
)

// Defaults, taken directly from the spec: merge every 4096 evaluations,
// reserve at least 1 enumeration index per claim (the actual reservation
// size is computed per-run from postflop combo count).
const (
	DefaultIsomorphismCacheSize    = 1 << 20
	DefaultMonteCarloMergeInterval = 4096
	DefaultEnumBatchFloor          = 1
)

// Config holds the tunables. Zero value is not valid; use FromEnv.
type Config struct {
	IsomorphismCacheSize    int
	MonteCarloMergeInterval int
	EnumBatchFloor          int
}

// FromEnv parses tunables from the environment, falling back to spec
// defaults for anything unset.
func FromEnv() (*Config, error) {
	cfg := &Config{
		IsomorphismCacheSize:    DefaultIsomorphismCacheSize,
		MonteCarloMergeInterval: DefaultMonteCarloMergeInterval,
		EnumBatchFloor:          DefaultEnumBatchFloor,
	}

	if err := parseIntEnv(EnvIsomorphismCacheSize, &cfg.IsomorphismCacheSize); err != nil {
		return nil, err
	}
	if err := parseIntEnv(EnvMonteCarloMergeInterval, &cfg.MonteCarloMergeInterval); err != nil {
		return nil, err
	}
	if err := parseIntEnv(EnvEnumBatchFloor, &cfg.EnumBatchFloor); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseIntEnv(name string, dst *int) error {
	s := os.Getenv(name)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", name, err)
	}
	*dst = v
	return nil
}
