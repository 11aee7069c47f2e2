package eval

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/holdem-equity/internal/fileutil"
)

// File names for the three binary artifacts, little-endian packed values
// with no header.
const (
	RankTableFile       = "rank_table.dat"
	FlushTableFile      = "flush_table.dat"
	PerfHashOffsetsFile = "perf_hash_offsets.dat"
)

// Save persists t's three arrays to dir, one file per array, each written
// atomically via a temp-file-then-rename so a reader never observes a
// partially written file.
func (t *tables) Save(dir string) error {
	if err := writeU16File(filepath.Join(dir, RankTableFile), t.rankTable); err != nil {
		return fmt.Errorf("eval: writing rank table: %w", err)
	}
	if err := writeU16File(filepath.Join(dir, FlushTableFile), t.flushTable); err != nil {
		return fmt.Errorf("eval: writing flush table: %w", err)
	}
	if err := writeU32File(filepath.Join(dir, PerfHashOffsetsFile), t.perfHashOffsets); err != nil {
		return fmt.Errorf("eval: writing perfect hash offsets: %w", err)
	}
	return nil
}

// loadTables reads the three artifacts back from dir. It is the only path
// the runtime evaluator uses; table construction (buildTables) runs only
// through Build, i.e. under the generator command or in tests.
func loadTables(dir string) (*tables, error) {
	rankTable, err := readU16File(filepath.Join(dir, RankTableFile))
	if err != nil {
		return nil, fmt.Errorf("%w: rank table: %v", ErrTableLoadFailure, err)
	}
	flushTable, err := readU16File(filepath.Join(dir, FlushTableFile))
	if err != nil {
		return nil, fmt.Errorf("%w: flush table: %v", ErrTableLoadFailure, err)
	}
	if len(flushTable) != flushTableSize {
		return nil, fmt.Errorf("%w: flush table has %d entries, want %d", ErrTableLoadFailure, len(flushTable), flushTableSize)
	}
	offsets, err := readU32File(filepath.Join(dir, PerfHashOffsetsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: perfect hash offsets: %v", ErrTableLoadFailure, err)
	}

	return &tables{rankTable: rankTable, flushTable: flushTable, perfHashOffsets: offsets}, nil
}

func writeU16File(path string, vals []uint16) error {
	buf := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	return fileutil.WriteFileAtomic(path, buf, 0o644)
}

func writeU32File(path string, vals []uint32) error {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return fileutil.WriteFileAtomic(path, buf, 0o644)
}

func readU16File(path string) ([]uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("truncated u16 file: %d bytes", len(data))
	}
	vals := make([]uint16, len(data)/2)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return vals, nil
}

func readU32File(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("truncated u32 file: %d bytes", len(data))
	}
	vals := make([]uint32, len(data)/4)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return vals, nil
}
