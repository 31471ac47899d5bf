package stats

import "context"

type Repository interface {
	RecordsByType(ctx context.Context) ([]Count, error)
	RecordsByWasteType(ctx context.Context) ([]Count, error)
	SectorsByZone(ctx context.Context) ([]Count, error)
	UsersByRole(ctx context.Context) ([]Count, error)
}
