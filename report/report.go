// Package report renders the final statistics line-for-line after a
// simulation has consumed its trace.
package report

import (
	"fmt"
	"io"

	"github.com/aksiksi/cachesim/sim"
)

// Write prints the finalized counters in the fixed field order a cache
// simulation report uses: integer counters as unsigned decimal, rate
// and time fields with default floating-point formatting.
func Write(w io.Writer, c sim.Counters) error {
	lines := []struct {
		label string
		value any
	}{
		{"Accesses", c.Accesses},
		{"Reads", c.Reads},
		{"Read misses", c.ReadMisses},
		{"Read misses combined", c.ReadMissesCombined},
		{"Writes", c.Writes},
		{"Write misses", c.WriteMisses},
		{"Write misses combined", c.WriteMissesCombined},
		{"Misses", c.Misses},
		{"Writebacks", c.WriteBacks},
		{"Victim cache misses", c.VCMisses},
		{"Sub-block misses", c.SubblockMisses},
		{"Bytes transferred to/from memory", c.BytesTransferred},
		{"Hit Time", c.HitTime},
		{"Miss Penalty", c.MissPenalty},
		{"Miss rate", c.MissRate},
		{"Average access time (AAT)", c.AvgAccessTime},
	}

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %v\n", l.label, l.value); err != nil {
			return err
		}
	}

	return nil
}
