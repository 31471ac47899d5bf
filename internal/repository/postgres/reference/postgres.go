package reference

import (
	"context"
	"errors"
	"strings"

	referencedomain "census-app-go/internal/domain/reference"
	"census-app-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(referencedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListZones(ctx context.Context) ([]referencedomain.ZoneSummary, error) {
	var zones []referencedomain.Zone
	if err := r.db.WithContext(ctx).
		Preload("Sectors", func(db *gorm.DB) *gorm.DB {
			return db.Order("sectors.name asc, sectors.id asc")
		}).
		Order("zones.name asc, zones.id asc").
		Find(&zones).Error; err != nil {
		return nil, err
	}

	summaries := make([]referencedomain.ZoneSummary, 0, len(zones))
	for _, zone := range zones {
		summaries = append(summaries, referencedomain.ZoneSummary{Zone: zone, SectorCount: int64(len(zone.Sectors))})
	}
	return summaries, nil
}

func (r *PostgresRepository) GetZone(ctx context.Context, id int64) (*referencedomain.Zone, error) {
	var zone referencedomain.Zone
	if err := r.db.WithContext(ctx).First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencedomain.ErrZoneNotFound
		}
		return nil, err
	}
	return &zone, nil
}

func (r *PostgresRepository) CreateZone(ctx context.Context, zone *referencedomain.Zone) error {
	return zoneError(r.db.WithContext(ctx).Omit("Sectors").Create(zone).Error)
}

func (r *PostgresRepository) UpdateZoneName(ctx context.Context, id int64, name string) error {
	result := r.db.WithContext(ctx).Model(&referencedomain.Zone{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return zoneError(result.Error)
	}
	if result.RowsAffected == 0 {
		return referencedomain.ErrZoneNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteZone(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&referencedomain.Zone{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return referencedomain.ErrZoneNotFound
	}
	return nil
}

func (r *PostgresRepository) ZoneNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	return r.nameTaken(ctx, &referencedomain.Zone{}, name, exceptID)
}

func (r *PostgresRepository) CountSectorsInZone(ctx context.Context, zoneID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&referencedomain.Sector{}).Where("zone_id = ?", zoneID).Count(&count).Error
	return count, err
}

func (r *PostgresRepository) ListSectors(ctx context.Context) ([]referencedomain.SectorView, error) {
	var sectors []referencedomain.SectorView
	if err := r.db.WithContext(ctx).
		Table("sectors").
		Select("sectors.*, zones.name AS zone_name").
		Joins("join zones on zones.id = sectors.zone_id").
		Order("zones.name asc, sectors.name asc, sectors.id asc").
		Scan(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}

func (r *PostgresRepository) ListSectorsByZone(ctx context.Context, zoneID int64) ([]referencedomain.Sector, error) {
	var sectors []referencedomain.Sector
	if err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("name asc, id asc").
		Find(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}

func (r *PostgresRepository) GetSector(ctx context.Context, id int64) (*referencedomain.Sector, error) {
	var sector referencedomain.Sector
	if err := r.db.WithContext(ctx).First(&sector, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencedomain.ErrSectorNotFound
		}
		return nil, err
	}
	return &sector, nil
}

func (r *PostgresRepository) CreateSector(ctx context.Context, sector *referencedomain.Sector) error {
	return r.db.WithContext(ctx).Create(sector).Error
}

func (r *PostgresRepository) UpdateSector(ctx context.Context, sector *referencedomain.Sector) error {
	result := r.db.WithContext(ctx).
		Model(&referencedomain.Sector{}).
		Where("id = ?", sector.ID).
		Updates(map[string]interface{}{"name": sector.Name, "zone_id": sector.ZoneID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return referencedomain.ErrSectorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteSector(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&referencedomain.Sector{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return referencedomain.ErrSectorNotFound
	}
	return nil
}

// CountSectorReferences counts census records and schedules located in the sector.
func (r *PostgresRepository) CountSectorReferences(ctx context.Context, sectorID int64) (int64, error) {
	return r.countLocated(ctx, "sector_id", sectorID)
}

// CountZoneReferences counts census records and schedules located in the zone.
func (r *PostgresRepository) CountZoneReferences(ctx context.Context, zoneID int64) (int64, error) {
	return r.countLocated(ctx, "zone_id", zoneID)
}

func (r *PostgresRepository) countLocated(ctx context.Context, column string, id int64) (int64, error) {
	var total int64
	for _, table := range []string{"census_records", "schedules"} {
		var count int64
		if err := r.db.WithContext(ctx).Table(table).Where(column+" = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (r *PostgresRepository) ListCensusTypes(ctx context.Context) ([]referencedomain.CensusTypeSummary, error) {
	var types []referencedomain.CensusTypeSummary
	if err := r.db.WithContext(ctx).
		Table("census_types").
		Select("census_types.*, COUNT(census_records.id) AS record_count").
		Joins("left join census_records on census_records.census_type_id = census_types.id").
		Group("census_types.id").
		Order("census_types.id asc").
		Scan(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *PostgresRepository) GetCensusType(ctx context.Context, id int64) (*referencedomain.CensusType, error) {
	var censusType referencedomain.CensusType
	if err := r.db.WithContext(ctx).First(&censusType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencedomain.ErrCensusTypeNotFound
		}
		return nil, err
	}
	return &censusType, nil
}

func (r *PostgresRepository) CreateCensusType(ctx context.Context, censusType *referencedomain.CensusType) error {
	return censusTypeError(r.db.WithContext(ctx).Create(censusType).Error)
}

func (r *PostgresRepository) UpdateCensusTypeName(ctx context.Context, id int64, name string) error {
	result := r.db.WithContext(ctx).Model(&referencedomain.CensusType{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return censusTypeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return referencedomain.ErrCensusTypeNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCensusType(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&referencedomain.CensusType{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return referencedomain.ErrCensusTypeNotFound
	}
	return nil
}

func (r *PostgresRepository) CensusTypeNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	return r.nameTaken(ctx, &referencedomain.CensusType{}, name, exceptID)
}

func (r *PostgresRepository) CountRecordsOfType(ctx context.Context, typeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("census_records").Where("census_type_id = ?", typeID).Count(&count).Error
	return count, err
}

func (r *PostgresRepository) nameTaken(ctx context.Context, model interface{}, name string, exceptID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(model).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func zoneError(err error) error {
	if _, ok := pgerr.UniqueViolation(err); ok {
		return referencedomain.ErrDuplicateZoneName
	}
	return err
}

func censusTypeError(err error) error {
	if _, ok := pgerr.UniqueViolation(err); ok {
		return referencedomain.ErrDuplicateCensusTypeName
	}
	return err
}
