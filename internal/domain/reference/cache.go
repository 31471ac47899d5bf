package reference

import "time"

// SectorCache holds the zone -> sector name lookups served to census forms.
type SectorCache interface {
	GetByZone(zoneID int64) (map[int64]string, bool)
	SetByZone(zoneID int64, sectors map[int64]string, ttl time.Duration)
	DeleteByZone(zoneID int64)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByZone(int64) (map[int64]string, bool) {
	return nil, false
}

func (noopCache) SetByZone(int64, map[int64]string, time.Duration) {}

func (noopCache) DeleteByZone(int64) {}

func (noopCache) Clear() {}
