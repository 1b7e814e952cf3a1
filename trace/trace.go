// Package trace reads memory-reference traces for a cache simulation.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aksiksi/cachesim/simerrors"
)

// Mode distinguishes a read reference from a write reference.
type Mode int

const (
	Read Mode = iota
	Write
)

// Record is a single trace line: an access mode and the referenced
// address.
type Record struct {
	Mode    Mode
	Address uint64
}

// Reader streams Records from an underlying trace, one whitespace
// separated "<mode> <hex-address>" pair per line.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r as a trace Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next Record, or io.EOF once the underlying stream
// is exhausted. Any other error is fatal input: a malformed line, an
// unreadable stream, or an unrecognized access mode.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}

		var modeTok string
		var addr uint64
		if _, err := fmt.Sscanf(line, "%s %x", &modeTok, &addr); err != nil {
			return Record{}, simerrors.Inputf("malformed trace record %q: %w", line, err)
		}

		mode, err := parseMode(modeTok)
		if err != nil {
			return Record{}, err
		}

		return Record{Mode: mode, Address: addr}, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, simerrors.Inputf("reading trace: %w", err)
	}

	return Record{}, io.EOF
}

func parseMode(tok string) (Mode, error) {
	switch tok {
	case "r", "R":
		return Read, nil
	case "w", "W":
		return Write, nil
	default:
		return 0, simerrors.Inputf("unknown access mode %q", tok)
	}
}
