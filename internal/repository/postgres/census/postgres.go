package census

import (
	"context"
	"errors"
	"strings"

	censusdomain "census-app-go/internal/domain/census"
	"census-app-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

const viewColumns = "census_records.*, zones.name AS zone_name, sectors.name AS sector_name, census_types.name AS census_type_name"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(censusdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// LockCodePrefix takes a transaction scoped advisory lock. Other dialects rely on the unique index alone.
func (r *PostgresRepository) LockCodePrefix(ctx context.Context, prefix string) error {
	if !pgerr.IsPostgres(r.db) {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "census_code:"+prefix).Error
}

func (r *PostgresRepository) ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&censusdomain.Record{}).
		Where("code LIKE ?", prefix+"%").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*censusdomain.Record, error) {
	var record censusdomain.Record
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, censusdomain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetView(ctx context.Context, id int64) (*censusdomain.RecordView, error) {
	var views []censusdomain.RecordView
	if err := r.views(ctx).Where("census_records.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, censusdomain.ErrRecordNotFound
	}
	return &views[0], nil
}

// List returns one page of matching records, newest first, and the total match count.
// A zero limit returns every match.
func (r *PostgresRepository) List(ctx context.Context, filter censusdomain.ListFilter, limit, offset int) ([]censusdomain.RecordView, int64, error) {
	var total int64
	if err := r.filtered(r.db.WithContext(ctx).Table("census_records"), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.filtered(r.views(ctx), filter).Order("census_records.id desc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	var views []censusdomain.RecordView
	if err := query.Scan(&views).Error; err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *PostgresRepository) Create(ctx context.Context, record *censusdomain.Record) error {
	return recordError(r.db.WithContext(ctx).Create(record).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, record *censusdomain.Record) error {
	return recordError(r.db.WithContext(ctx).Omit("code", "created_at").Save(record).Error)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&censusdomain.Record{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return censusdomain.ErrRecordNotFound
	}
	return nil
}

// DeleteDependents removes evidence entries and explicit schedule assignments of the record.
func (r *PostgresRepository) DeleteDependents(ctx context.Context, id int64) error {
	for _, table := range []string{"evidence_entries", "schedule_census_records"} {
		if err := r.db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE census_record_id = ?", id).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) NationalIDTaken(ctx context.Context, nationalID string, exceptID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&censusdomain.Record{}).Where("national_id = ?", nationalID)
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("census_records").
		Select(viewColumns).
		Joins("left join zones on zones.id = census_records.zone_id").
		Joins("left join sectors on sectors.id = census_records.sector_id").
		Joins("left join census_types on census_types.id = census_records.census_type_id")
}

func (r *PostgresRepository) filtered(query *gorm.DB, filter censusdomain.ListFilter) *gorm.DB {
	if filter.SectorID > 0 {
		query = query.Where("census_records.sector_id = ?", filter.SectorID)
	}
	if filter.TypeID > 0 {
		query = query.Where("census_records.census_type_id = ?", filter.TypeID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := pgerr.Pattern(search)
		query = query.Where(
			r.db.Session(&gorm.Session{NewDB: true}).
				Where(pgerr.Like(r.db, "census_records.national_id"), pattern).
				Or(pgerr.Like(r.db, "census_records.name"), pattern).
				Or(pgerr.Like(r.db, "census_records.address"), pattern),
		)
	}
	return query
}

func recordError(err error) error {
	constraint, ok := pgerr.UniqueViolation(err)
	if !ok {
		return err
	}
	switch {
	case strings.Contains(constraint, "national_id"):
		return censusdomain.ErrDuplicateNationalID
	case strings.Contains(constraint, "code"):
		return censusdomain.ErrDuplicateCode
	}
	return err
}
