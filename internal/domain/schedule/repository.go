package schedule

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	List(ctx context.Context, filter ListFilter) ([]View, error)
	Get(ctx context.Context, id int64) (*Schedule, error)
	GetForUser(ctx context.Context, id, userID int64) (*Schedule, error)
	Create(ctx context.Context, schedule *Schedule) error
	Update(ctx context.Context, schedule *Schedule) error
	Delete(ctx context.Context, id int64) error
	DeleteDependents(ctx context.Context, id int64) error

	ReplaceRecords(ctx context.Context, scheduleID int64, recordIDs []int64) error
	ExplicitRecordIDs(ctx context.Context, scheduleIDs []int64) (map[int64][]int64, error)
	ListRecordsInPool(ctx context.Context, pool Pool) ([]RecordRef, error)
	ListEvidenceStamps(ctx context.Context, scheduleIDs []int64) (map[int64][]EvidenceStamp, error)
	CountRecordsInLocation(ctx context.Context, ids []int64, zoneID, sectorID int64) (int64, error)
}
