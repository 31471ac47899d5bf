package evidence

import (
	"context"

	"census-app-go/internal/domain/schedule"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetScheduleForUser(ctx context.Context, scheduleID, userID int64) (*schedule.Schedule, error)
	ExplicitRecordIDs(ctx context.Context, scheduleID int64) ([]int64, error)
	// LockRecord loads the census record and holds a row lock until the transaction ends.
	LockRecord(ctx context.Context, recordID int64) (*schedule.RecordRef, error)
	Create(ctx context.Context, entry *Entry) error
	LatestBySchedule(ctx context.Context, scheduleIDs []int64) (map[int64]map[int64]Entry, error)
}
