package inmemory

import (
	"sync"
	"time"
)

// SectorCache keeps per-zone sector name maps until they expire.
type SectorCache struct {
	mu    sync.RWMutex
	items map[int64]sectorItem
	now   func() time.Time
}

type sectorItem struct {
	sectors   map[int64]string
	expiresAt time.Time
}

func NewSectorCache() *SectorCache {
	return &SectorCache{
		items: make(map[int64]sectorItem),
		now:   time.Now,
	}
}

func (c *SectorCache) GetByZone(zoneID int64) (map[int64]string, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[zoneID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[zoneID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, zoneID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return copySectors(item.sectors), true
}

func (c *SectorCache) SetByZone(zoneID int64, sectors map[int64]string, ttl time.Duration) {
	if sectors == nil || ttl <= 0 {
		c.DeleteByZone(zoneID)
		return
	}

	c.mu.Lock()
	c.items[zoneID] = sectorItem{
		sectors:   copySectors(sectors),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *SectorCache) DeleteByZone(zoneID int64) {
	c.mu.Lock()
	delete(c.items, zoneID)
	c.mu.Unlock()
}

func (c *SectorCache) Clear() {
	c.mu.Lock()
	c.items = make(map[int64]sectorItem)
	c.mu.Unlock()
}

func copySectors(sectors map[int64]string) map[int64]string {
	copied := make(map[int64]string, len(sectors))
	for id, name := range sectors {
		copied[id] = name
	}
	return copied
}
