package evidence

import (
	"context"
	"errors"

	evidencedomain "census-app-go/internal/domain/evidence"
	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(evidencedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// GetScheduleForUser loads and row-locks the actor's schedule, so a concurrent schedule update
// waits until the evidence entry is written.
func (r *PostgresRepository) GetScheduleForUser(ctx context.Context, scheduleID, userID int64) (*schedule.Schedule, error) {
	var sched schedule.Schedule
	query := pgerr.ForUpdate(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", scheduleID, userID))
	if err := query.First(&sched).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, evidencedomain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (r *PostgresRepository) ExplicitRecordIDs(ctx context.Context, scheduleID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&schedule.ScheduleRecord{}).
		Where("schedule_id = ?", scheduleID).
		Order("census_record_id asc").
		Pluck("census_record_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) LockRecord(ctx context.Context, recordID int64) (*schedule.RecordRef, error) {
	query := r.db.WithContext(ctx).
		Table("census_records").
		Select("id, code, name, address, zone_id, sector_id").
		Where("id = ?", recordID).
		Limit(1)
	query = pgerr.ForUpdate(query)

	var records []schedule.RecordRef
	if err := query.Scan(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, evidencedomain.ErrRecordNotFound
	}
	return &records[0], nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *evidencedomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// LatestBySchedule returns, per schedule and census record, the most recent entry.
func (r *PostgresRepository) LatestBySchedule(ctx context.Context, scheduleIDs []int64) (map[int64]map[int64]evidencedomain.Entry, error) {
	result := make(map[int64]map[int64]evidencedomain.Entry, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return result, nil
	}

	var entries []evidencedomain.Entry
	if err := r.db.WithContext(ctx).
		Where("schedule_id IN ?", scheduleIDs).
		Order("created_at asc, id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, entry := range entries {
		bySchedule, ok := result[entry.ScheduleID]
		if !ok {
			bySchedule = make(map[int64]evidencedomain.Entry)
			result[entry.ScheduleID] = bySchedule
		}
		bySchedule[entry.CensusRecordID] = entry
	}
	return result, nil
}
