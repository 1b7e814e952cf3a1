package sim

import "github.com/aksiksi/cachesim/simerrors"

// Cache is the coordinator: it owns the 2-D array of blocks, the
// per-row LRU stacks, the optional victim buffer, and the decoded
// address masks.
type Cache struct {
	cfg Config

	// rows[r] is a row of cfg.Cols blocks.
	rows [][]Block

	lru []*lruStack // one per row

	vb *VictimBuffer

	counters Counters
}

// New constructs a Cache for the given configuration. The victim buffer
// is always constructed and is enabled iff cfg.V > 0.
func New(cfg Config) *Cache {
	c := &Cache{
		cfg:  cfg,
		rows: make([][]Block, cfg.Rows),
		lru:  make([]*lruStack, cfg.Rows),
		vb:   NewVictimBuffer(cfg.V),
	}

	for r := 0; r < cfg.Rows; r++ {
		row := make([]Block, cfg.Cols)
		for w := range row {
			row[w] = newBlock(cfg.SubBlocks)
		}
		c.rows[r] = row
		c.lru[r] = newLRUStack(cfg.Cols)
	}

	return c
}

// Config returns the cache's configuration.
func (c *Cache) Config() Config {
	return c.cfg
}

// Counters returns a copy of the current counters record; calling
// Finalize on it once the trace is exhausted leaves the cache unchanged.
func (c *Cache) Counters() Counters {
	return c.counters
}

// Read performs a cache read for addr and returns the access outcome.
func (c *Cache) Read(addr uint64) (AccessOutcome, error) {
	return c.access(addr, false)
}

// Write performs a cache write for addr and returns the access outcome.
func (c *Cache) Write(addr uint64) (AccessOutcome, error) {
	return c.access(addr, true)
}

// access implements the unified read/write protocol: decode, touch
// LRU, look up the set, and on miss consult the victim buffer before
// electing a victim and fetching.
func (c *Cache) access(addr uint64, isWrite bool) (AccessOutcome, error) {
	cfg := c.cfg
	tag := cfg.Tag(addr)
	index := cfg.Index(addr)
	offset := cfg.Offset(addr)

	row := c.row(index)
	lru := c.lru[index]

	// Push to LRU before lookup, even though the access may hit — this
	// is what creates the lastPopped race the election step has to
	// account for. A direct-mapped row has exactly one way, so there is
	// nothing to rank; the push is skipped entirely in that case.
	if cfg.Shape != DirectMapped {
		lru.push(tag)
	}

	c.counters.Accesses++
	if isWrite {
		c.counters.Writes++
	} else {
		c.counters.Reads++
	}

	block := findBlock(row, tag)

	if block != nil {
		return c.hit(block, offset, isWrite)
	}

	return c.miss(row, lru, tag, index, offset, isWrite)
}

// row returns the set addressed by index: the single global row for a
// fully-associative cache, otherwise rows[index].
func (c *Cache) row(index uint64) []Block {
	if c.cfg.Shape == FullyAssociative {
		return c.rows[0]
	}
	return c.rows[index]
}

// findBlock scans a set in storage order for a matching, occupied tag.
// A matching tag is never on an empty slot (see block.go); the
// tie-break over an empty slot only matters for victim election, not
// lookup.
func findBlock(row []Block, tag uint64) *Block {
	for i := range row {
		if !row[i].empty() && row[i].tag == tag {
			return &row[i]
		}
	}
	return nil
}

// hit handles a cache lookup hit: either a plain hit, or a sub-block
// miss that triggers a same-line prefetch.
func (c *Cache) hit(block *Block, offset uint64, isWrite bool) (AccessOutcome, error) {
	valid, err := block.read(offset, c.cfg)
	if err != nil {
		return 0, err
	}

	if valid {
		if isWrite {
			block.dirty = true
			return WriteHit, nil
		}
		return ReadHit, nil
	}

	// The sub-block-miss byte charge on an otherwise-hit line is the raw
	// invalid-sub-block count, not the count scaled by sub-block size —
	// unlike the full-miss path below, which charges writeMany's
	// already-scaled return value. The two paths use deliberately
	// different units; see DESIGN.md.
	c.counters.BytesTransferred += uint64(block.numInvalidFrom(offset, c.cfg))
	if _, err := block.writeMany(offset, c.cfg); err != nil {
		return 0, err
	}
	c.counters.SubblockMisses++

	if isWrite {
		block.dirty = true
		return WriteSubblockMiss, nil
	}
	return ReadSubblockMiss, nil
}

// miss handles a cache lookup miss: raw miss accounting, victim-buffer
// consultation, and if that also misses, victim election and fetch.
func (c *Cache) miss(row []Block, lru *lruStack, tag, index, offset uint64, isWrite bool) (AccessOutcome, error) {
	if isWrite {
		c.counters.WriteMisses++
	} else {
		c.counters.ReadMisses++
	}

	if !c.vb.Enabled() {
		if isWrite {
			c.counters.WriteMissesCombined++
		} else {
			c.counters.ReadMissesCombined++
		}

		block, err := c.evict(row, lru, tag, index)
		if err != nil {
			return 0, err
		}

		bytes, err := block.writeMany(offset, c.cfg)
		if err != nil {
			return 0, err
		}
		c.counters.BytesTransferred += bytes

		if isWrite {
			block.dirty = true
			return WriteMiss, nil
		}
		return ReadMiss, nil
	}

	return c.missWithVictimBuffer(row, lru, tag, index, offset, isWrite)
}

// missWithVictimBuffer handles a primary-cache miss when a victim
// buffer is present.
func (c *Cache) missWithVictimBuffer(row []Block, lru *lruStack, tag, index, offset uint64, isWrite bool) (AccessOutcome, error) {
	pos := c.vb.Lookup(tag, index)

	if pos == -1 {
		// Combined miss: misses both cache and victim buffer.
		c.counters.VCMisses++
		if isWrite {
			c.counters.WriteMissesCombined++
		} else {
			c.counters.ReadMissesCombined++
		}

		block, err := c.evict(row, lru, tag, index)
		if err != nil {
			return 0, err
		}

		bytes, err := block.writeMany(offset, c.cfg)
		if err != nil {
			return 0, err
		}
		c.counters.BytesTransferred += bytes

		if isWrite {
			block.dirty = true
			return WriteMiss, nil
		}
		return ReadMiss, nil
	}

	// Victim buffer hit: promote the buffered block back into the
	// cache at the elected victim's slot. Its own eviction (if the
	// slot was occupied) is deferred into the buffer in turn.
	restored := c.vb.Remove(pos)

	victim, err := c.electVictim(row, lru)
	if err != nil {
		return 0, err
	}
	c.evictVictimSlot(victim)

	*victim = restored

	valid, err := victim.read(offset, c.cfg)
	if err != nil {
		return 0, err
	}

	if !valid {
		c.counters.BytesTransferred += uint64(victim.numInvalidFrom(offset, c.cfg))
		if _, err := victim.writeMany(offset, c.cfg); err != nil {
			return 0, err
		}
		c.counters.SubblockMisses++
	}

	if isWrite {
		victim.dirty = true
		return WriteMiss, nil
	}
	return ReadMiss, nil
}

// electVictim prefers any empty slot in the set, else asks the LRU
// stack for the tag it displaced and returns the block currently
// holding that tag.
func (c *Cache) electVictim(row []Block, lru *lruStack) (*Block, error) {
	for i := range row {
		if row[i].empty() {
			return &row[i], nil
		}
	}

	// A direct-mapped row has exactly one way and was never pushed to
	// its LRU stack (see access()): that one way is unconditionally the
	// victim once it's known to be occupied.
	if len(row) == 1 {
		return &row[0], nil
	}

	victimTag := lru.pop()
	for i := range row {
		if !row[i].empty() && row[i].tag == victimTag {
			return &row[i], nil
		}
	}

	return nil, simerrors.Invariantf("no block in set matches elected LRU victim tag")
}

// evictVictimSlot charges writeback/victim-buffer accounting for the
// block about to be overwritten: without a victim buffer a dirty
// victim is written back immediately; with one, the victim (dirty or
// not) is copied into the buffer and its eventual writeback is
// deferred to expulsion.
func (c *Cache) evictVictimSlot(victim *Block) {
	if victim.empty() {
		return
	}

	if !c.vb.Enabled() {
		if victim.dirty {
			c.counters.BytesTransferred += uint64(victim.numValid())
			c.counters.WriteBacks++
		}
		return
	}

	res := c.vb.Push(*victim)
	if res.expelled && res.expelledWasDirty {
		c.counters.BytesTransferred += uint64(res.expelledBytes)
		c.counters.WriteBacks++
	}
}

// evict elects a victim, charges any writeback/victim-buffer
// accounting, and overwrites the slot with the new (tag, index),
// clearing sub-block validity — the caller then populates it with
// writeMany.
func (c *Cache) evict(row []Block, lru *lruStack, tag, index uint64) (*Block, error) {
	victim, err := c.electVictim(row, lru)
	if err != nil {
		return nil, err
	}

	c.evictVictimSlot(victim)

	victim.replace(tag, index, false)

	return victim, nil
}
