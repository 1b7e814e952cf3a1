// Package main provides cachesim-sweep, a parameter-search driver that
// replays each named trace against every associativity a fixed
// (C, B, K, V) budget allows, and reports the geometry with the
// lowest average access time.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/aksiksi/cachesim/sim"
	"github.com/aksiksi/cachesim/simerrors"
	"github.com/aksiksi/cachesim/trace"
)

var (
	cBits        = flag.Int("C", 15, "log2 of total cache size in bytes")
	bBits        = flag.Int("B", 5, "log2 of block size in bytes")
	kBits        = flag.Int("K", 3, "log2 of sub-block size in bytes")
	vBlocks      = flag.Int("V", 4, "victim buffer capacity in blocks (0 disables it)")
	manifestPath = flag.String("manifest", "", "path to a JSON sweep manifest ({\"traces\": [...]})")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cachesim-sweep: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *manifestPath == "" {
		return simerrors.Configf("missing -manifest")
	}

	manifest, err := LoadManifest(*manifestPath)
	if err != nil {
		return err
	}

	for _, tracePath := range manifest.Traces {
		best, bestCfg, err := sweepTrace(tracePath)
		if err != nil {
			return fmt.Errorf("sweeping %s: %w", tracePath, err)
		}

		fmt.Printf("Trace: %s\n", tracePath)
		fmt.Printf("C = %d, B = %d, S = %d, K = %d, V = %d\n",
			bestCfg.C, bestCfg.B, bestCfg.S, bestCfg.K, bestCfg.V)
		fmt.Printf("AAT = %v\n", best)
	}

	return nil
}

// sweepTrace replays tracePath once per S in [0, C-B] and returns the
// lowest average access time found, along with the geometry that
// achieved it.
func sweepTrace(tracePath string) (float64, sim.Config, error) {
	bestAAT := math.Inf(1)
	var bestCfg sim.Config

	for s := 0; s <= *cBits-*bBits; s++ {
		cfg, err := sim.NewConfig(*cBits, *bBits, s, *kBits, *vBlocks)
		if err != nil {
			return 0, sim.Config{}, err
		}

		counters, err := replay(tracePath, cfg)
		if err != nil {
			return 0, sim.Config{}, err
		}

		if counters.AvgAccessTime < bestAAT {
			bestAAT = counters.AvgAccessTime
			bestCfg = cfg
		}
	}

	return bestAAT, bestCfg, nil
}

func replay(tracePath string, cfg sim.Config) (sim.Counters, error) {
	f, err := os.Open(tracePath)
	if err != nil {
		return sim.Counters{}, simerrors.Inputf("opening trace file: %w", err)
	}
	defer f.Close()

	cache := sim.New(cfg)
	reader := trace.NewReader(f)

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sim.Counters{}, err
		}

		if rec.Mode == trace.Write {
			_, err = cache.Write(rec.Address)
		} else {
			_, err = cache.Read(rec.Address)
		}
		if err != nil {
			return sim.Counters{}, err
		}
	}

	counters := cache.Counters()
	counters.Finalize(cfg, cfg.V > 0)
	return counters, nil
}
