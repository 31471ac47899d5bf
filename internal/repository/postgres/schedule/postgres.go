package schedule

import (
	"context"
	"errors"
	"time"

	scheduledomain "census-app-go/internal/domain/schedule"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(scheduledomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter scheduledomain.ListFilter) ([]scheduledomain.View, error) {
	query := r.db.WithContext(ctx).
		Table("schedules").
		Select("schedules.*, users.name AS user_name, users.role AS user_role, zones.name AS zone_name, sectors.name AS sector_name").
		Joins("left join users on users.id = schedules.user_id").
		Joins("left join zones on zones.id = schedules.zone_id").
		Joins("left join sectors on sectors.id = schedules.sector_id")
	if filter.OwnerRole != "" {
		query = query.Where("users.role = ?", filter.OwnerRole)
	}
	if filter.UserID > 0 {
		query = query.Where("schedules.user_id = ?", filter.UserID)
	}

	var views []scheduledomain.View
	if err := query.Order("schedules.created_at desc, schedules.id desc").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*scheduledomain.Schedule, error) {
	var sched scheduledomain.Schedule
	if err := r.db.WithContext(ctx).First(&sched, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, id, userID int64) (*scheduledomain.Schedule, error) {
	var sched scheduledomain.Schedule
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&sched).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (r *PostgresRepository) Create(ctx context.Context, sched *scheduledomain.Schedule) error {
	return r.db.WithContext(ctx).Create(sched).Error
}

func (r *PostgresRepository) Update(ctx context.Context, sched *scheduledomain.Schedule) error {
	return r.db.WithContext(ctx).Omit("created_at").Save(sched).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&scheduledomain.Schedule{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return scheduledomain.ErrScheduleNotFound
	}
	return nil
}

// DeleteDependents removes the schedule's evidence entries and explicit record assignments.
func (r *PostgresRepository) DeleteDependents(ctx context.Context, id int64) error {
	for _, table := range []string{"evidence_entries", "schedule_census_records"} {
		if err := r.db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE schedule_id = ?", id).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) ReplaceRecords(ctx context.Context, scheduleID int64, recordIDs []int64) error {
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Delete(&scheduledomain.ScheduleRecord{}).Error; err != nil {
		return err
	}
	if len(recordIDs) == 0 {
		return nil
	}

	rows := make([]scheduledomain.ScheduleRecord, 0, len(recordIDs))
	for _, id := range recordIDs {
		rows = append(rows, scheduledomain.ScheduleRecord{ScheduleID: scheduleID, CensusRecordID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *PostgresRepository) ExplicitRecordIDs(ctx context.Context, scheduleIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return result, nil
	}

	var rows []scheduledomain.ScheduleRecord
	if err := r.db.WithContext(ctx).
		Where("schedule_id IN ?", scheduleIDs).
		Order("schedule_id asc, census_record_id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ScheduleID] = append(result[row.ScheduleID], row.CensusRecordID)
	}
	return result, nil
}

func (r *PostgresRepository) ListRecordsInPool(ctx context.Context, pool scheduledomain.Pool) ([]scheduledomain.RecordRef, error) {
	query := r.db.WithContext(ctx).
		Table("census_records").
		Select("id, code, name, address, zone_id, sector_id").
		Where("zone_id = ? AND sector_id = ?", pool.ZoneID, pool.SectorID)
	if pool.Kind == scheduledomain.PoolExplicit {
		query = query.Where("id IN ?", pool.RecordIDs)
	}

	var records []scheduledomain.RecordRef
	if err := query.Order("id asc").Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) ListEvidenceStamps(ctx context.Context, scheduleIDs []int64) (map[int64][]scheduledomain.EvidenceStamp, error) {
	result := make(map[int64][]scheduledomain.EvidenceStamp, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return result, nil
	}

	type stampRow struct {
		ScheduleID     int64     `gorm:"column:schedule_id"`
		CensusRecordID int64     `gorm:"column:census_record_id"`
		CreatedAt      time.Time `gorm:"column:created_at"`
	}
	var rows []stampRow
	if err := r.db.WithContext(ctx).
		Table("evidence_entries").
		Select("schedule_id, census_record_id, created_at").
		Where("schedule_id IN ?", scheduleIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ScheduleID] = append(result[row.ScheduleID], scheduledomain.EvidenceStamp{
			CensusRecordID: row.CensusRecordID,
			CreatedAt:      row.CreatedAt,
		})
	}
	return result, nil
}

func (r *PostgresRepository) CountRecordsInLocation(ctx context.Context, ids []int64, zoneID, sectorID int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Table("census_records").
		Where("id IN ? AND zone_id = ? AND sector_id = ?", ids, zoneID, sectorID).
		Count(&count).Error
	return count, err
}
