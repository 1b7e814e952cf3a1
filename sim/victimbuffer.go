package sim

// VictimBuffer is a bounded, fully-associative FIFO of evicted blocks,
// consulted on a primary-cache miss. Capacity 0 disables it entirely;
// callers check Enabled() before using one.
type VictimBuffer struct {
	capacity int
	entries  []Block // front = most recently admitted
}

// NewVictimBuffer constructs a buffer of the given capacity. Capacity 0
// is valid and represents "disabled".
func NewVictimBuffer(capacity int) *VictimBuffer {
	return &VictimBuffer{capacity: capacity}
}

// Enabled reports whether this buffer actually holds blocks.
func (vb *VictimBuffer) Enabled() bool {
	return vb.capacity > 0
}

// Lookup returns the position of the entry with the given (tag, index),
// or -1 if there is none.
func (vb *VictimBuffer) Lookup(tag, index uint64) int {
	for i, e := range vb.entries {
		if e.tag == tag && e.index == index {
			return i
		}
	}
	return -1
}

// Remove copies out and deletes the entry at pos, compacting the
// buffer.
func (vb *VictimBuffer) Remove(pos int) Block {
	b := vb.entries[pos]
	vb.entries = append(vb.entries[:pos], vb.entries[pos+1:]...)
	return b
}

// pushResult reports what happened to the tail entry, if anything, so
// the caller can account for a deferred writeback.
type pushResult struct {
	expelled         bool
	expelledWasDirty bool
	expelledBytes    int
}

// Push inserts block at the front. If the buffer then exceeds capacity,
// the tail entry is dropped; the caller is responsible for charging a
// writeback if it was dirty.
func (vb *VictimBuffer) Push(block Block) pushResult {
	vb.entries = append([]Block{block.clone()}, vb.entries...)

	if len(vb.entries) > vb.capacity {
		last := len(vb.entries) - 1
		out := vb.entries[last]
		vb.entries = vb.entries[:last]

		return pushResult{
			expelled:         true,
			expelledWasDirty: out.dirty,
			expelledBytes:    out.numValid(),
		}
	}

	return pushResult{}
}

// Len returns the number of live entries.
func (vb *VictimBuffer) Len() int {
	return len(vb.entries)
}
