package sim

// Counters is the mutable, monotonically non-decreasing performance
// record for one simulation. Finalize derives the rate/time fields
// from it once the trace has been fully replayed.
type Counters struct {
	Accesses uint64

	Reads              uint64
	ReadMisses         uint64
	ReadMissesCombined uint64

	Writes              uint64
	WriteMisses         uint64
	WriteMissesCombined uint64

	Misses         uint64
	WriteBacks     uint64
	VCMisses       uint64
	SubblockMisses uint64

	BytesTransferred uint64

	HitTime       float64
	MissPenalty   uint64
	MissRate      float64
	AvgAccessTime float64
}

// AccessOutcome is the result of a single Cache.Read or Cache.Write
// call.
type AccessOutcome int

const (
	ReadHit AccessOutcome = iota
	ReadMiss
	ReadSubblockMiss
	WriteHit
	WriteMiss
	WriteSubblockMiss
)

func (o AccessOutcome) String() string {
	switch o {
	case ReadHit:
		return "READ_HIT"
	case ReadMiss:
		return "READ_MISS"
	case ReadSubblockMiss:
		return "READ_SB_MISS"
	case WriteHit:
		return "WRITE_HIT"
	case WriteMiss:
		return "WRITE_MISS"
	case WriteSubblockMiss:
		return "WRITE_SB_MISS"
	default:
		return "UNKNOWN"
	}
}

// Finalize computes the derived rate and timing fields.
//
// With no victim buffer: miss_rate = (misses + subblock_misses) / accesses,
// and the combined counters already equal their raw counterparts (the
// cache never bumps them independently in that mode). With a victim
// buffer: miss_rate = (misses/accesses) * ((vc_misses + subblock_misses) / misses).
// In both cases avg_access_time = hit_time + miss_rate * miss_penalty.
func (c *Counters) Finalize(cfg Config, victimBufferEnabled bool) {
	c.Misses = c.ReadMisses + c.WriteMisses
	c.HitTime = cfg.HitTime()
	c.MissPenalty = MissPenalty

	if !victimBufferEnabled {
		if c.Accesses > 0 {
			c.MissRate = float64(c.Misses+c.SubblockMisses) / float64(c.Accesses)
		}
	} else {
		if c.Accesses > 0 && c.Misses > 0 {
			c.MissRate = (float64(c.Misses) / float64(c.Accesses)) *
				(float64(c.VCMisses+c.SubblockMisses) / float64(c.Misses))
		}
	}

	c.AvgAccessTime = c.HitTime + c.MissRate*float64(c.MissPenalty)
}
