// Package main provides the entry point for cachesim.
// cachesim replays a memory-reference trace against a single-level
// data cache and reports its performance counters.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aksiksi/cachesim/report"
	"github.com/aksiksi/cachesim/sim"
	"github.com/aksiksi/cachesim/simerrors"
	"github.com/aksiksi/cachesim/trace"
)

var (
	cBits   = flag.Int("C", 15, "log2 of total cache size in bytes")
	bBits   = flag.Int("B", 5, "log2 of block size in bytes")
	sBits   = flag.Int("S", 3, "log2 of ways per set")
	kBits   = flag.Int("K", 3, "log2 of sub-block size in bytes")
	vBlocks = flag.Int("V", 4, "victim buffer capacity in blocks (0 disables it)")
	inPath  = flag.String("i", "", "input trace path (defaults to stdin)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cachesim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := sim.NewConfig(*cBits, *bBits, *sBits, *kBits, *vBlocks)
	if err != nil {
		return err
	}

	in := os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			return simerrors.Inputf("opening trace file: %w", err)
		}
		defer f.Close()
		in = f
	}

	cache := sim.New(cfg)
	reader := trace.NewReader(in)

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if rec.Mode == trace.Write {
			_, err = cache.Write(rec.Address)
		} else {
			_, err = cache.Read(rec.Address)
		}
		if err != nil {
			return err
		}
	}

	counters := cache.Counters()
	counters.Finalize(cfg, cfg.V > 0)

	return report.Write(os.Stdout, counters)
}
