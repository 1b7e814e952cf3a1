// Package sim implements the cache core: address decoding, the
// sub-blocked block model, associative lookup with LRU replacement, and
// an optional FIFO victim buffer.
package sim

import (
	"fmt"

	"github.com/aksiksi/cachesim/simerrors"
)

// Shape describes how a Config's ways are arranged into rows.
type Shape int

const (
	// DirectMapped is one block per row (S == 0).
	DirectMapped Shape = iota
	// SetAssociative is 2^S ways per row.
	SetAssociative
	// FullyAssociative is a single row of 2^(C-B) ways (S == C-B).
	FullyAssociative
)

func (s Shape) String() string {
	switch s {
	case DirectMapped:
		return "direct-mapped"
	case FullyAssociative:
		return "fully-associative"
	default:
		return "set-associative"
	}
}

// Config holds the immutable log2 geometry parameters for one simulation.
//
// C is the log2 of total cache bytes, B the log2 of block bytes, S the
// log2 of ways per set, K the log2 of sub-block bytes, and V the raw
// (non-log2) victim-buffer capacity in blocks. V == 0 disables the
// victim buffer.
type Config struct {
	C, B, S, K int
	V          int

	Shape Shape

	// Rows and Cols describe the cache array: Rows sets of Cols ways.
	Rows, Cols int

	// SubBlocks is the number of sub-block slots per block (2^(B-K)).
	SubBlocks int

	OffsetMask uint64
	IndexMask  uint64
	TagMask    uint64
}

// NewConfig validates the log2 parameters and derives the cache's
// shape and address masks.
func NewConfig(c, b, s, k, v int) (Config, error) {
	if b > c {
		return Config{}, simerrors.Configf("block size log2 (B=%d) cannot exceed cache size log2 (C=%d)", b, c)
	}
	if s > c-b {
		return Config{}, simerrors.Configf("ways log2 (S=%d) cannot exceed C-B (%d)", s, c-b)
	}
	if s < 0 {
		return Config{}, simerrors.Configf("ways log2 (S=%d) cannot be negative", s)
	}
	if k > b-1 {
		return Config{}, simerrors.Configf("sub-block size log2 (K=%d) cannot exceed B-1 (%d)", k, b-1)
	}
	if k < 0 {
		return Config{}, simerrors.Configf("sub-block size log2 (K=%d) cannot be negative", k)
	}
	if v < 0 {
		return Config{}, simerrors.Configf("victim buffer capacity (V=%d) cannot be negative", v)
	}

	cfg := Config{C: c, B: b, S: s, K: k, V: v}

	switch {
	case s == c-b:
		cfg.Shape = FullyAssociative
		cfg.Rows = 1
		cfg.Cols = 1 << uint(c-b)
	case s == 0:
		cfg.Shape = DirectMapped
		cfg.Rows = 1 << uint(c-b)
		cfg.Cols = 1
	default:
		cfg.Shape = SetAssociative
		cfg.Rows = 1 << uint(c-b-s)
		cfg.Cols = 1 << uint(s)
	}

	cfg.SubBlocks = 1 << uint(b-k)

	cfg.OffsetMask = (uint64(1) << uint(b)) - 1
	if cfg.Shape == FullyAssociative {
		cfg.IndexMask = 0
	} else {
		cfg.IndexMask = ((uint64(1) << uint(c-b-s)) - 1) << uint(b)
	}
	cfg.TagMask = ^(cfg.OffsetMask | cfg.IndexMask)

	return cfg, nil
}

// Tag extracts the tag bits of an address.
func (cfg Config) Tag(addr uint64) uint64 {
	return addr & cfg.TagMask
}

// Index extracts the row (set) index of an address. Always 0 for a
// fully-associative cache.
func (cfg Config) Index(addr uint64) uint64 {
	return (addr & cfg.IndexMask) >> uint(cfg.B)
}

// Offset extracts the byte offset within the block of an address.
func (cfg Config) Offset(addr uint64) uint64 {
	return addr & cfg.OffsetMask
}

// HitTime is the hardware hit time in cycles: 2 + 0.1 * 2^S.
func (cfg Config) HitTime() float64 {
	return 2 + 0.1*float64(uint64(1)<<uint(cfg.S))
}

// MissPenalty is the fixed miss penalty in cycles charged on every miss.
const MissPenalty = 100

// String renders the configuration the way a diagnostic or log line would.
func (cfg Config) String() string {
	return fmt.Sprintf("C=%d B=%d S=%d K=%d V=%d (%s, %d sets x %d ways)",
		cfg.C, cfg.B, cfg.S, cfg.K, cfg.V, cfg.Shape, cfg.Rows, cfg.Cols)
}
