package sim

import "github.com/aksiksi/cachesim/simerrors"

// Block is a single cache line: a tag, the row it was last placed in (so
// an evicted block can still be located in the victim buffer), a dirty
// flag, and a per-sub-block valid vector.
//
// A real block whose tag happens to be 0 would otherwise be
// indistinguishable from an empty slot, so occupied tracks that
// distinction explicitly instead of overloading tag==0.
type Block struct {
	tag      uint64
	index    uint64
	dirty    bool
	occupied bool
	valid    []bool
}

func newBlock(n int) Block {
	return Block{valid: make([]bool, n)}
}

// empty reports whether this slot holds no block: it has never been
// filled by replace. An occupied block whose tag is 0 is not empty.
func (b *Block) empty() bool {
	return b.tag == 0 && !b.occupied
}

// subIndex maps a byte offset within the block to a sub-block slot
// using the scaled mapping floor(offset/(2^B-1) * n) clamped to n-1 —
// not the more orthodox offset>>K.
func subIndex(offset uint64, b int, n int) int {
	maxOffset := float64((uint64(1) << uint(b)) - 1)
	idx := int(float64(offset) / maxOffset * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// read reports whether the sub-block containing offset is valid. With no
// sub-blocking (n == 1) the whole block is one unit and read is true
// whenever the block is occupied.
func (b *Block) read(offset uint64, cfg Config) (bool, error) {
	if len(b.valid) == 1 {
		return true, nil
	}

	idx := subIndex(offset, cfg.B, len(b.valid))
	if idx < 0 || idx >= len(b.valid) {
		return false, simerrors.Invariantf("sub-block index %d out of range [0,%d)", idx, len(b.valid))
	}

	return b.valid[idx], nil
}

// writeSubblock validates sub-block slot i if it was invalid. Returns
// true iff it was newly validated.
func (b *Block) writeSubblock(i int) bool {
	if !b.valid[i] {
		b.valid[i] = true
		return true
	}
	return false
}

// writeMany validates every sub-block slot from the one containing
// offset through the end of the line, and returns the number of bytes
// brought in from memory: newly-validated sub-blocks times 2^K, or 2^B
// when sub-blocking is disabled. The prefetch extends forward from the
// referenced sub-block to the end of the line.
func (b *Block) writeMany(offset uint64, cfg Config) (uint64, error) {
	n := len(b.valid)
	if n == 1 {
		return uint64(1) << uint(cfg.B), nil
	}

	idx := subIndex(offset, cfg.B, n)
	if idx < 0 || idx >= n {
		return 0, simerrors.Invariantf("sub-block index %d out of range [0,%d)", idx, n)
	}

	newly := 0
	for i := idx; i < n; i++ {
		if b.writeSubblock(i) {
			newly++
		}
	}

	return uint64(newly) << uint(cfg.K), nil
}

// replace rewrites the block's identity and clears dirty. If full is
// set every sub-block is marked valid (a whole-line fetch); otherwise
// every sub-block is cleared (a partial replacement to be populated by
// writeMany).
func (b *Block) replace(tag, index uint64, full bool) {
	b.tag = tag
	b.index = index
	b.occupied = true
	b.dirty = false

	for i := range b.valid {
		b.valid[i] = full
	}
}

// numValid returns the count of valid sub-blocks.
func (b *Block) numValid() int {
	c := 0
	for _, v := range b.valid {
		if v {
			c++
		}
	}
	return c
}

// numInvalidFrom returns the count of invalid sub-blocks at and after
// the sub-block containing offset.
func (b *Block) numInvalidFrom(offset uint64, cfg Config) int {
	n := len(b.valid)
	if n == 1 {
		if b.valid[0] {
			return 0
		}
		return 1
	}

	idx := subIndex(offset, cfg.B, n)
	c := 0
	for i := idx; i < n; i++ {
		if !b.valid[i] {
			c++
		}
	}
	return c
}

// clone makes an independent copy of the block, suitable for admitting
// into the victim buffer: further mutation of the cache array must not
// be observable through the copy.
func (b Block) clone() Block {
	cp := b
	cp.valid = make([]bool, len(b.valid))
	copy(cp.valid, b.valid)
	return cp
}
