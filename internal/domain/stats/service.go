package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"census-app-go/internal/domain/access"
)

const defaultCacheTTL = 30 * time.Second

type Service struct {
	repo     Repository
	cacheTTL time.Duration
	cache    countsCache
	now      func() time.Time
}

func NewService(repo Repository, cacheTTL time.Duration) *Service {
	if cacheTTL < 0 {
		cacheTTL = 0
	}
	return &Service{
		repo:     repo,
		cacheTTL: cacheTTL,
		cache:    countsCache{items: make(map[string]countsCacheItem)},
		now:      time.Now,
	}
}

func NewDefaultService(repo Repository) *Service {
	return NewService(repo, defaultCacheTTL)
}

// Counts returns the dashboard series named by kind.
func (s *Service) Counts(ctx context.Context, actor access.Actor, kind string) ([]Count, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}

	now := s.now()
	if s.cacheTTL > 0 {
		if counts, ok := s.cache.Get(kind, now); ok {
			return counts, nil
		}
	}

	var (
		counts []Count
		err    error
	)
	switch kind {
	case KindRecordsByType:
		counts, err = s.repo.RecordsByType(ctx)
	case KindRecordsByWasteType:
		counts, err = s.repo.RecordsByWasteType(ctx)
	case KindSectorsByZone:
		counts, err = s.repo.SectorsByZone(ctx)
	case KindUsersByRole:
		counts, err = s.repo.UsersByRole(ctx)
	default:
		return nil, fmt.Errorf("unknown stats kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []Count{}
	}

	if s.cacheTTL > 0 {
		s.cache.Set(kind, counts, now.Add(s.cacheTTL))
	}
	return counts, nil
}

type countsCache struct {
	mu    sync.RWMutex
	items map[string]countsCacheItem
}

type countsCacheItem struct {
	counts    []Count
	expiresAt time.Time
}

func (c *countsCache) Get(key string, now time.Time) ([]Count, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !item.expiresAt.After(now) {
		return nil, false
	}

	counts := make([]Count, len(item.counts))
	copy(counts, item.counts)
	return counts, true
}

func (c *countsCache) Set(key string, counts []Count, expiresAt time.Time) {
	stored := make([]Count, len(counts))
	copy(stored, counts)

	c.mu.Lock()
	c.items[key] = countsCacheItem{counts: stored, expiresAt: expiresAt}
	c.mu.Unlock()
}
