package schedule

type PoolKind int

const (
	PoolInferred PoolKind = iota
	PoolExplicit
)

func (k PoolKind) String() string {
	if k == PoolExplicit {
		return "explicit"
	}
	return "inferred"
}

// Pool is the set of census records a schedule covers: either an explicit id list or
// every record located in the schedule's zone and sector.
type Pool struct {
	Kind      PoolKind
	RecordIDs []int64
	ZoneID    int64
	SectorID  int64
}

func PoolFor(s Schedule, explicitIDs []int64) Pool {
	pool := Pool{Kind: PoolInferred, ZoneID: s.ZoneID, SectorID: s.SectorID}
	if len(explicitIDs) > 0 {
		pool.Kind = PoolExplicit
		pool.RecordIDs = append([]int64(nil), explicitIDs...)
	}
	return pool
}

// Contains reports whether the record falls inside the pool. Explicit pools still require
// the record to sit in the schedule's zone and sector.
func (p Pool) Contains(record RecordRef) bool {
	if record.ZoneID != p.ZoneID || record.SectorID != p.SectorID {
		return false
	}
	if p.Kind == PoolInferred {
		return true
	}
	for _, id := range p.RecordIDs {
		if id == record.ID {
			return true
		}
	}
	return false
}
